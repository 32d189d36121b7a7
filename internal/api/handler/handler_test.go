package handler

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/call-dashboard/internal/api/handler/router"
	"github.com/vfg2006/call-dashboard/internal/charts"
	"github.com/vfg2006/call-dashboard/internal/config"
	"github.com/vfg2006/call-dashboard/internal/domain"
	"github.com/vfg2006/call-dashboard/internal/scheduler"
	"github.com/vfg2006/call-dashboard/internal/usecases/parsing"
	"github.com/vfg2006/call-dashboard/internal/usecases/uploading"
	"github.com/vfg2006/call-dashboard/internal/usecases/uploading/mocks"
	"github.com/vfg2006/call-dashboard/pkg/apiErrors"
	"github.com/vfg2006/call-dashboard/pkg/log"
	"go.uber.org/mock/gomock"
)

func sampleDashboard() *domain.Dashboard {
	return &domain.Dashboard{
		Dataset: domain.DatasetInfo{ID: "abc123", Source: "calls.csv", Schema: "extended", Records: 2, TotalRows: 3, Rejected: 1},
		Summary: domain.SalesSummary{TotalCalls: 2, ClosedSales: 1, OpenSales: 1, ConversionRate: 50},
		Vendors: []*domain.VendorAggregate{
			{Vendor: "Ana", Total: 2, Closed: 1, ConversionRate: 50, TotalLabel: "1 sales  out of 2 calls"},
		},
		Monthly: &domain.MonthlySales{
			Months:  []*domain.MonthAggregate{{Key: "2024-03", Month: "Mar 2024", Total: 1, Vendors: map[string]int{"Ana": 1}}},
			Vendors: []string{"Ana"},
			Colors:  map[string]string{"Ana": "#ff7300"},
		},
		Calls: []*domain.CallRow{
			{ID: "call-1", Date: "Mar 1, 2024", Name: "Cliente <Um>", Vendor: "Ana", SaleClosed: "Yes", Transcript: "olá..."},
			{ID: "call-2", Date: "Mar 2, 2024", Name: "Cliente Dois", Vendor: "Ana", SaleClosed: "No", Transcript: "tchau..."},
		},
		Rejections: []*domain.RowRejection{{Line: 3, Reason: domain.RejectMissingColumns, Message: "linha 3: missing columns"}},
	}
}

func newTestRouter(service uploading.Uploader, maxBytes int64, services CronJobServices) http.Handler {
	log.SetupTestLogger()

	return router.New(
		router.WithNotFound(),
		router.WithRoutes(Healthcheck()...),
		router.WithRoutes(Page(service, parsing.SchemaExtended, maxBytes)...),
		router.WithRoutes(Uploads(service, maxBytes)...),
		router.WithRoutes(Dashboard(service)...),
		router.WithRoutes(Charts(service, charts.NewRenderer(400, 300))...),
		router.WithRoutes(Inbox(services)...),
	)
}

func decodeAPIError(t *testing.T, body io.Reader) apiErrors.APIError {
	t.Helper()

	var apiErr apiErrors.APIError
	require.NoError(t, json.NewDecoder(body).Decode(&apiErr))
	return apiErr
}

func TestHealthcheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	rt := newTestRouter(mocks.NewMockUploader(ctrl), 0, CronJobServices{})

	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Body.String())
}

func TestDashboardEndpoints(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		current        *domain.Dashboard
		expectedStatus int
		expectedCode   string
		validate       func(t *testing.T, body []byte)
	}{
		{
			name:           "dashboard sem dataset",
			path:           "/v1/dashboard",
			current:        nil,
			expectedStatus: http.StatusNotFound,
			expectedCode:   apiErrors.ErrNoData,
		},
		{
			name:           "dashboard completo",
			path:           "/v1/dashboard",
			current:        sampleDashboard(),
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, body []byte) {
				var dashboard domain.Dashboard
				require.NoError(t, json.Unmarshal(body, &dashboard))
				assert.Equal(t, "abc123", dashboard.Dataset.ID)
				assert.Len(t, dashboard.Calls, 2)
			},
		},
		{
			name:           "resumo",
			path:           "/v1/summary",
			current:        sampleDashboard(),
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, body []byte) {
				var summary domain.SalesSummary
				require.NoError(t, json.Unmarshal(body, &summary))
				assert.Equal(t, domain.SalesSummary{TotalCalls: 2, ClosedSales: 1, OpenSales: 1, ConversionRate: 50}, summary)
			},
		},
		{
			name:           "resumo de dataset sem registros válidos",
			path:           "/v1/summary",
			current:        &domain.Dashboard{Rejections: []*domain.RowRejection{{Line: 2}}},
			expectedStatus: http.StatusNotFound,
			expectedCode:   apiErrors.ErrNoData,
		},
		{
			name:           "vendedores",
			path:           "/v1/vendors",
			current:        sampleDashboard(),
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, body []byte) {
				var vendors []*domain.VendorAggregate
				require.NoError(t, json.Unmarshal(body, &vendors))
				require.Len(t, vendors, 1)
				assert.Equal(t, "1 sales  out of 2 calls", vendors[0].TotalLabel)
			},
		},
		{
			name:           "meses",
			path:           "/v1/months",
			current:        sampleDashboard(),
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, body []byte) {
				var monthly domain.MonthlySales
				require.NoError(t, json.Unmarshal(body, &monthly))
				require.Len(t, monthly.Months, 1)
				assert.Equal(t, "Mar 2024", monthly.Months[0].Month)
			},
		},
		{
			name:           "chamadas",
			path:           "/v1/calls",
			current:        sampleDashboard(),
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, body []byte) {
				var calls []*domain.CallRow
				require.NoError(t, json.Unmarshal(body, &calls))
				assert.Equal(t, "Yes", calls[0].SaleClosed)
			},
		},
		{
			name:           "rejeições vazias viram lista",
			path:           "/v1/rejections",
			current:        &domain.Dashboard{Summary: domain.SalesSummary{TotalCalls: 1}},
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, body []byte) {
				assert.JSONEq(t, "[]", string(body))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockUploader := mocks.NewMockUploader(ctrl)
			mockUploader.EXPECT().Current().Return(tt.current)

			rec := httptest.NewRecorder()
			newTestRouter(mockUploader, 0, CronJobServices{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeAPIError(t, rec.Body).Code)
			}
			if tt.validate != nil {
				tt.validate(t, rec.Body.Bytes())
			}
		})
	}
}

func TestUploadCSV_RawBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockUploader := mocks.NewMockUploader(ctrl)

	mockUploader.EXPECT().
		Upload(gomock.Any(), "vendas.csv", gomock.Any(), parsing.SchemaSimple).
		DoAndReturn(func(_ any, _ string, r io.Reader, _ string) (*domain.Dashboard, error) {
			content, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, "transcript,saleClosed\nolá,true\n", string(content))
			return sampleDashboard(), nil
		})

	req := httptest.NewRequest(http.MethodPost, "/v1/uploads?schema=simple&filename=vendas.csv", strings.NewReader("transcript,saleClosed\nolá,true\n"))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	newTestRouter(mockUploader, 1024, CronJobServices{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var response uploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "abc123", response.Dataset.ID)
	assert.Equal(t, 2, response.Summary.TotalCalls)
	assert.Len(t, response.Rejections, 1)
}

func multipartBody(t *testing.T, filename, content, schema string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	if schema != "" {
		require.NoError(t, writer.WriteField("schema", schema))
	}
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func TestUploadCSV_Multipart(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockUploader := mocks.NewMockUploader(ctrl)

	mockUploader.EXPECT().
		Upload(gomock.Any(), "form.csv", gomock.Any(), parsing.SchemaExtended).
		Return(sampleDashboard(), nil)

	body, contentType := multipartBody(t, "form.csv", "a,b\n", parsing.SchemaExtended)
	req := httptest.NewRequest(http.MethodPost, "/v1/uploads", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	newTestRouter(mockUploader, 0, CronJobServices{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestUploadCSV_MultipartWithoutFile(t *testing.T) {
	ctrl := gomock.NewController(t)

	body, contentType := multipartBody(t, "", "", "simple")
	req := httptest.NewRequest(http.MethodPost, "/v1/uploads", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	newTestRouter(mocks.NewMockUploader(ctrl), 0, CronJobServices{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apiErrors.ErrMissingRequiredData, decodeAPIError(t, rec.Body).Code)
}

func TestUploadCSV_Errors(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "CSV malformado",
			err:            uploading.NewUploadError(parsing.ErrMalformedCSV, apiErrors.ErrInvalidFormat, "calls.csv"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   apiErrors.ErrInvalidFormat,
		},
		{
			name:           "upload substituído",
			err:            uploading.NewUploadError(uploading.ErrSuperseded, apiErrors.ErrUploadSuperseded, "calls.csv"),
			expectedStatus: http.StatusConflict,
			expectedCode:   apiErrors.ErrUploadSuperseded,
		},
		{
			name:           "schema desconhecido",
			err:            uploading.NewUploadError(parsing.ErrUnknownSchema, apiErrors.ErrInvalidRequest, "calls.csv"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   apiErrors.ErrInvalidRequest,
		},
		{
			name:           "corpo acima do limite durante a leitura",
			err:            uploading.NewUploadError(&http.MaxBytesError{Limit: 10}, apiErrors.ErrInternalServer, "calls.csv"),
			expectedStatus: http.StatusRequestEntityTooLarge,
			expectedCode:   apiErrors.ErrUploadTooLarge,
		},
		{
			name:           "erro inesperado",
			err:            io.ErrUnexpectedEOF,
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   apiErrors.ErrInternalServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockUploader := mocks.NewMockUploader(ctrl)
			mockUploader.EXPECT().
				Upload(gomock.Any(), "calls.csv", gomock.Any(), "").
				Return(nil, tt.err)

			req := httptest.NewRequest(http.MethodPost, "/v1/uploads?filename=calls.csv", strings.NewReader("x"))
			rec := httptest.NewRecorder()
			newTestRouter(mockUploader, 0, CronJobServices{}).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectedCode, decodeAPIError(t, rec.Body).Code)
		})
	}
}

func TestUploadCSV_TooLarge(t *testing.T) {
	ctrl := gomock.NewController(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/uploads", strings.NewReader(strings.Repeat("a", 64)))
	rec := httptest.NewRecorder()
	newTestRouter(mocks.NewMockUploader(ctrl), 16, CronJobServices{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, apiErrors.ErrUploadTooLarge, decodeAPIError(t, rec.Body).Code)
}

func TestResetDataset(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockUploader := mocks.NewMockUploader(ctrl)
	mockUploader.EXPECT().Reset()

	rec := httptest.NewRecorder()
	newTestRouter(mockUploader, 0, CronJobServices{}).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/dataset", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestListSchemas(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockUploader := mocks.NewMockUploader(ctrl)
	mockUploader.EXPECT().Schemas().Return([]domain.SchemaInfo{
		{Name: "extended", ClosedPredicate: parsing.PredicateOne},
		{Name: "simple", ClosedPredicate: parsing.PredicateTrueInsensitive},
	})

	rec := httptest.NewRecorder()
	newTestRouter(mockUploader, 0, CronJobServices{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/schemas", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var schemas []domain.SchemaInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &schemas))
	assert.Len(t, schemas, 2)
}

func TestGetChart(t *testing.T) {
	tests := []struct {
		name           string
		chart          string
		current        *domain.Dashboard
		expectedStatus int
		expectedCode   string
	}{
		{name: "gráfico de vendedores", chart: charts.Vendors, current: sampleDashboard(), expectedStatus: http.StatusOK},
		{name: "gráfico mensal", chart: charts.Months, current: sampleDashboard(), expectedStatus: http.StatusOK},
		{name: "gráfico desconhecido", chart: "pizza.png", current: sampleDashboard(), expectedStatus: http.StatusNotFound, expectedCode: apiErrors.ErrChartNotFound},
		{name: "sem dataset", chart: charts.Overview, current: nil, expectedStatus: http.StatusNotFound, expectedCode: apiErrors.ErrNoData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockUploader := mocks.NewMockUploader(ctrl)
			mockUploader.EXPECT().Current().Return(tt.current)

			rec := httptest.NewRecorder()
			newTestRouter(mockUploader, 0, CronJobServices{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/charts/"+tt.chart, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeAPIError(t, rec.Body).Code)
				return
			}
			assert.Equal(t, charts.ContentType, rec.Header().Get("Content-Type"))
			assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
		})
	}
}

func TestDashboardPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockUploader := mocks.NewMockUploader(ctrl)
	mockUploader.EXPECT().Current().Return(sampleDashboard())
	mockUploader.EXPECT().Schemas().Return([]domain.SchemaInfo{{Name: "extended"}, {Name: "simple"}})

	rec := httptest.NewRecorder()
	newTestRouter(mockUploader, 0, CronJobServices{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?error=CSV+inv%C3%A1lido", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	page := rec.Body.String()
	assert.Contains(t, page, "CSV inválido")
	assert.Contains(t, page, "50.00%")
	assert.Contains(t, page, "Cliente &lt;Um&gt;")
	assert.Contains(t, page, "/v1/charts/months.png?dataset=abc123")
	assert.Contains(t, page, `<option value="extended" selected>`)
	assert.Contains(t, page, "1 row(s) were skipped")
}

func TestDashboardPage_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockUploader := mocks.NewMockUploader(ctrl)
	mockUploader.EXPECT().Current().Return(nil)
	mockUploader.EXPECT().Schemas().Return(nil)

	rec := httptest.NewRecorder()
	newTestRouter(mockUploader, 0, CronJobServices{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No data loaded yet.")
	assert.NotContains(t, rec.Body.String(), "<table>")
}

func TestUploadForm(t *testing.T) {
	t.Run("sucesso redireciona para a página", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockUploader := mocks.NewMockUploader(ctrl)
		mockUploader.EXPECT().
			Upload(gomock.Any(), "form.csv", gomock.Any(), parsing.SchemaSimple).
			Return(sampleDashboard(), nil)

		body, contentType := multipartBody(t, "form.csv", "transcript,saleClosed\n", parsing.SchemaSimple)
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		newTestRouter(mockUploader, 1<<20, CronJobServices{}).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
	})

	t.Run("erro volta como mensagem", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockUploader := mocks.NewMockUploader(ctrl)
		mockUploader.EXPECT().
			Upload(gomock.Any(), "form.csv", gomock.Any(), parsing.SchemaSimple).
			Return(nil, uploading.NewUploadError(parsing.ErrMalformedCSV, apiErrors.ErrInvalidFormat, "form.csv"))

		body, contentType := multipartBody(t, "form.csv", "a\"b", parsing.SchemaSimple)
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		newTestRouter(mockUploader, 1<<20, CronJobServices{}).ServeHTTP(rec, req)

		require.Equal(t, http.StatusSeeOther, rec.Code)
		location, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "/", location.Path)
		assert.Equal(t, "form.csv: malformed csv", location.Query().Get("error"))
	})

	t.Run("arquivo acima do limite", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		body, contentType := multipartBody(t, "grande.csv", strings.Repeat("x", 4096), "")
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		newTestRouter(mocks.NewMockUploader(ctrl), 128, CronJobServices{}).ServeHTTP(rec, req)

		require.Equal(t, http.StatusSeeOther, rec.Code)
		location, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "Arquivo excede o tamanho máximo permitido", location.Query().Get("error"))
	})
}

func TestInboxHandlers_Unavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	rt := newTestRouter(mocks.NewMockUploader(ctrl), 0, CronJobServices{})

	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/inbox/sweep", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = httptest.NewRecorder()
	rt.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/inbox/status", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRouteNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)

	rec := httptest.NewRecorder()
	newTestRouter(mocks.NewMockUploader(ctrl), 0, CronJobServices{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/nada", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apiErrors.ErrRouteNotFound, decodeAPIError(t, rec.Body).Code)
}

func TestInboxHandlers(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockUploader := mocks.NewMockUploader(ctrl)

	cfg := &config.Config{}
	cfg.Inbox.Dir = t.TempDir()
	cfg.Inbox.SweepCron = "*/5 * * * *"
	services := CronJobServices{InboxSweepService: scheduler.NewInboxSweepService(mockUploader, cfg)}
	rt := newTestRouter(mockUploader, 0, services)

	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/inbox/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var status map[string]map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, cfg.Inbox.Dir, status["inbox"]["inbox_dir"])
	assert.Equal(t, false, status["inbox"]["sync_enabled"])

	rec = httptest.NewRecorder()
	rt.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/inbox/sweep", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
}
