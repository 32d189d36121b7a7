package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/call-dashboard/internal/scheduler"
	"github.com/vfg2006/call-dashboard/pkg/apiErrors"
)

// CronJobServices contém os serviços agendados que podem ser executados manualmente
type CronJobServices struct {
	InboxSweepService *scheduler.InboxSweepService
}

// RunInboxSweep dispara manualmente a varredura da caixa de entrada
func RunInboxSweep(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunInboxSweep")

		if services.InboxSweepService == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de varredura da caixa de entrada não disponível", nil)
			return
		}

		services.InboxSweepService.TriggerManualSync()

		writeJSON(w, r, http.StatusAccepted, map[string]any{
			"message": "Varredura da caixa de entrada iniciada com sucesso",
			"type":    "inbox",
		})
	}
}

// GetInboxStatus retorna o status da varredura da caixa de entrada
func GetInboxStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetInboxStatus")

		if services.InboxSweepService == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de varredura da caixa de entrada não disponível", nil)
			return
		}

		writeJSON(w, r, http.StatusOK, map[string]any{
			"inbox": services.InboxSweepService.GetStatus(),
		})
	}
}
