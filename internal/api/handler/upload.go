package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/vfg2006/call-dashboard/internal/domain"
	"github.com/vfg2006/call-dashboard/internal/usecases/uploading"
	"github.com/vfg2006/call-dashboard/pkg/apiErrors"
	"github.com/vfg2006/call-dashboard/pkg/log"
)

const (
	multipartMemory = 32 << 20
	defaultSource   = "upload.csv"
)

var errMissingFile = errors.New("campo file ausente no formulário")

// uploadResponse resume o dataset recém carregado
type uploadResponse struct {
	Dataset    domain.DatasetInfo     `json:"dataset"`
	Summary    domain.SalesSummary    `json:"summary"`
	Rejections []*domain.RowRejection `json:"rejections"`
}

// csvInput extrai o CSV da requisição: campo "file" de um multipart ou o corpo inteiro
func csvInput(r *http.Request) (io.ReadCloser, string, string, error) {
	schema := r.URL.Query().Get("schema")

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return nil, "", "", err
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", "", errMissingFile
		}

		if formSchema := r.FormValue("schema"); formSchema != "" {
			schema = formSchema
		}

		return file, filepath.Base(header.Filename), schema, nil
	}

	source := r.URL.Query().Get("filename")
	if source == "" {
		source = defaultSource
	}

	return r.Body, filepath.Base(source), schema, nil
}

// UploadCSV substitui o dataset atual pelo CSV enviado
func UploadCSV(service uploading.Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, source, schema, err := csvInput(r)
		if err != nil {
			if errors.Is(err, errMissingFile) {
				apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, err.Error(), nil)
				return
			}
			writeRequestError(w, r, err)
			return
		}
		defer body.Close()

		dashboard, err := service.Upload(r.Context(), source, body, schema)
		if err != nil {
			writeUploadError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusCreated, uploadResponse{
			Dataset:    dashboard.Dataset,
			Summary:    dashboard.Summary,
			Rejections: dashboard.Rejections,
		})
	}
}

// UploadForm recebe o formulário da página e redireciona de volta para ela.
// Erros, inclusive o limite de tamanho, voltam para a página como mensagem.
func UploadForm(service uploading.Uploader, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if maxBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		}

		body, source, schema, err := csvInput(r)
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Warn("Formulário de upload inválido")
			redirectWithError(w, r, formErrorMessage(err))
			return
		}
		defer body.Close()

		if _, err := service.Upload(r.Context(), source, body, schema); err != nil {
			log.ForContext(r.Context()).WithError(err).Warn("Upload pelo formulário falhou")
			redirectWithError(w, r, formErrorMessage(err))
			return
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// ResetDataset descarta o dataset atual
func ResetDataset(service uploading.Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		service.Reset()
		w.WriteHeader(http.StatusNoContent)
	}
}

// ListSchemas lista os layouts de CSV aceitos
func ListSchemas(service uploading.Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, service.Schemas())
	}
}

func writeRequestError(w http.ResponseWriter, r *http.Request, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeUploadError(w, r, err)
		return
	}

	log.ForContext(r.Context()).WithError(err).Warn("Requisição de upload inválida")
	apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Requisição de upload inválida", nil)
}

func formErrorMessage(err error) string {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return "Arquivo excede o tamanho máximo permitido"
	}
	if errors.Is(err, errMissingFile) {
		return "Selecione um arquivo CSV"
	}
	if errors.Is(err, uploading.ErrSuperseded) {
		return "Upload substituído por um envio mais recente"
	}

	var uploadErr *uploading.UploadError
	if errors.As(err, &uploadErr) {
		return uploadErr.Error()
	}
	return "Erro ao processar upload"
}

func redirectWithError(w http.ResponseWriter, r *http.Request, message string) {
	http.Redirect(w, r, "/?error="+url.QueryEscape(message), http.StatusSeeOther)
}
