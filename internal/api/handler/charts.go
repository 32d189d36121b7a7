package handler

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/vfg2006/call-dashboard/internal/api/handler/router"
	"github.com/vfg2006/call-dashboard/internal/charts"
	"github.com/vfg2006/call-dashboard/internal/usecases/uploading"
	"github.com/vfg2006/call-dashboard/pkg/apiErrors"
	"github.com/vfg2006/call-dashboard/pkg/log"
)

// GetChart renderiza um dos gráficos do dashboard como PNG
func GetChart(service uploading.Uploader, renderer *charts.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := router.Param(r, "name")

		var buffer bytes.Buffer
		err := renderer.Render(name, service.Current(), &buffer)
		switch {
		case err == nil:
		case errors.Is(err, charts.ErrUnknownChart):
			apiErrors.WriteError(w, apiErrors.ErrChartNotFound, "Gráfico desconhecido", map[string]any{
				"name":      name,
				"available": charts.Names(),
			})
			return
		case errors.Is(err, charts.ErrNoData):
			apiErrors.WriteError(w, apiErrors.ErrNoData, "Sem dados para o gráfico", map[string]any{
				"name": name,
			})
			return
		default:
			log.ForContext(r.Context()).WithError(err).Error("Erro ao renderizar gráfico")
			apiErrors.WriteError(w, apiErrors.ErrRender, "Erro ao renderizar gráfico", nil)
			return
		}

		w.Header().Set("Content-Type", charts.ContentType)
		w.Header().Set("Cache-Control", "no-store")
		if _, err := buffer.WriteTo(w); err != nil {
			log.ForContext(r.Context()).WithError(err).Warn("Erro ao enviar gráfico")
		}
	}
}
