package handler

import (
	"net/http"

	"github.com/vfg2006/call-dashboard/internal/api/handler/router"
	"github.com/vfg2006/call-dashboard/internal/charts"
	"github.com/vfg2006/call-dashboard/internal/usecases/uploading"
	"github.com/vfg2006/call-dashboard/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

// Page retorna as rotas da página HTML do dashboard
func Page(service uploading.Uploader, defaultSchema string, maxBytes int64) []router.Route {
	return []router.Route{
		{
			Path:    "/",
			Method:  http.MethodGet,
			Handler: DashboardPage(service, defaultSchema),
		},
		{
			Path:    "/upload",
			Method:  http.MethodPost,
			Handler: UploadForm(service, maxBytes),
		},
	}
}

func Uploads(service uploading.Uploader, maxBytes int64) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/uploads",
			Method:      http.MethodPost,
			Handler:     UploadCSV(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.MaxBodySize(maxBytes)},
		},
		{
			Path:    "/v1/dataset",
			Method:  http.MethodDelete,
			Handler: ResetDataset(service),
		},
		{
			Path:    "/v1/schemas",
			Method:  http.MethodGet,
			Handler: ListSchemas(service),
		},
	}
}

func Dashboard(service uploading.Uploader) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/dashboard",
			Method:  http.MethodGet,
			Handler: GetDashboard(service),
		},
		{
			Path:    "/v1/summary",
			Method:  http.MethodGet,
			Handler: GetSummary(service),
		},
		{
			Path:    "/v1/vendors",
			Method:  http.MethodGet,
			Handler: GetVendors(service),
		},
		{
			Path:    "/v1/months",
			Method:  http.MethodGet,
			Handler: GetMonths(service),
		},
		{
			Path:    "/v1/calls",
			Method:  http.MethodGet,
			Handler: GetCalls(service),
		},
		{
			Path:    "/v1/rejections",
			Method:  http.MethodGet,
			Handler: GetRejections(service),
		},
	}
}

func Charts(service uploading.Uploader, renderer *charts.Renderer) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/charts/:name",
			Method:  http.MethodGet,
			Handler: GetChart(service, renderer),
		},
	}
}

func Inbox(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/inbox/sweep",
			Method:  http.MethodPost,
			Handler: RunInboxSweep(services),
		},
		{
			Path:    "/v1/inbox/status",
			Method:  http.MethodGet,
			Handler: GetInboxStatus(services),
		},
	}
}
