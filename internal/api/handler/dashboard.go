package handler

import (
	"net/http"

	"github.com/vfg2006/call-dashboard/internal/domain"
	"github.com/vfg2006/call-dashboard/internal/usecases/uploading"
	"github.com/vfg2006/call-dashboard/pkg/apiErrors"
)

// currentDashboard devolve o dashboard atual ou escreve DATA_001.
// Com requireRecords, um dataset sem registros válidos também é tratado como ausente.
func currentDashboard(w http.ResponseWriter, service uploading.Uploader, requireRecords bool) (*domain.Dashboard, bool) {
	dashboard := service.Current()
	if dashboard == nil {
		apiErrors.WriteError(w, apiErrors.ErrNoData, "Nenhum CSV carregado", nil)
		return nil, false
	}

	if requireRecords && !dashboard.HasData() {
		apiErrors.WriteError(w, apiErrors.ErrNoData, "O CSV carregado não possui registros válidos", map[string]any{
			"rejections": len(dashboard.Rejections),
		})
		return nil, false
	}

	return dashboard, true
}

// GetDashboard retorna todo o estado derivado do dataset atual
func GetDashboard(service uploading.Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dashboard, ok := currentDashboard(w, service, false)
		if !ok {
			return
		}

		writeJSON(w, r, http.StatusOK, dashboard)
	}
}

// GetSummary retorna total de chamadas, vendas fechadas, abertas e conversão
func GetSummary(service uploading.Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dashboard, ok := currentDashboard(w, service, true)
		if !ok {
			return
		}

		writeJSON(w, r, http.StatusOK, dashboard.Summary)
	}
}

// GetVendors retorna a conversão por vendedor
func GetVendors(service uploading.Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dashboard, ok := currentDashboard(w, service, true)
		if !ok {
			return
		}

		writeJSON(w, r, http.StatusOK, dashboard.Vendors)
	}
}

// GetMonths retorna as vendas fechadas por mês e vendedor
func GetMonths(service uploading.Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dashboard, ok := currentDashboard(w, service, true)
		if !ok {
			return
		}

		writeJSON(w, r, http.StatusOK, dashboard.Monthly)
	}
}

// GetCalls retorna a tabela de detalhes das chamadas
func GetCalls(service uploading.Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dashboard, ok := currentDashboard(w, service, false)
		if !ok {
			return
		}

		writeJSON(w, r, http.StatusOK, dashboard.Calls)
	}
}

// GetRejections retorna as linhas descartadas no último upload
func GetRejections(service uploading.Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dashboard, ok := currentDashboard(w, service, false)
		if !ok {
			return
		}

		rejections := dashboard.Rejections
		if rejections == nil {
			rejections = []*domain.RowRejection{}
		}

		writeJSON(w, r, http.StatusOK, rejections)
	}
}
