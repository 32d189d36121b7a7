package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/vfg2006/call-dashboard/internal/charts"
	"github.com/vfg2006/call-dashboard/internal/domain"
	"github.com/vfg2006/call-dashboard/internal/usecases/uploading"
	"github.com/vfg2006/call-dashboard/pkg/log"
)

//go:embed templates/dashboard.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.New("dashboard.html").Funcs(template.FuncMap{
	"percent": func(v float64) string {
		return fmt.Sprintf("%.2f%%", v)
	},
}).ParseFS(templatesFS, "templates/dashboard.html"))

type pageData struct {
	Error         string
	Dashboard     *domain.Dashboard
	Schemas       []domain.SchemaInfo
	DefaultSchema string
	Charts        []string
}

// DashboardPage renderiza a página com área de upload, resumo, gráficos e tabela
func DashboardPage(service uploading.Uploader, defaultSchema string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := pageData{
			Error:         r.URL.Query().Get("error"),
			Dashboard:     service.Current(),
			Schemas:       service.Schemas(),
			DefaultSchema: defaultSchema,
			Charts:        charts.Names(),
		}

		var buffer bytes.Buffer
		if err := pageTemplate.Execute(&buffer, data); err != nil {
			log.ForContext(r.Context()).WithError(err).Error("Erro ao renderizar página")
			http.Error(w, "Erro ao renderizar página", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		buffer.WriteTo(w)
	}
}
