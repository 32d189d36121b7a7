package handler

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/call-dashboard/internal/usecases/uploading"
	"github.com/vfg2006/call-dashboard/pkg/apiErrors"
	"github.com/vfg2006/call-dashboard/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// writeJSON envia a resposta com o status informado
func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.ForContext(r.Context()).WithError(err).Error("Erro ao enviar resposta")
	}
}

// writeUploadError traduz erros de upload para o APIError correspondente
func writeUploadError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.ForContext(r.Context()).WithError(err)

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		logger.Warn("Upload acima do limite")
		apiErrors.WriteError(w, apiErrors.ErrUploadTooLarge, "Arquivo excede o tamanho máximo permitido", map[string]any{
			"max_bytes": maxErr.Limit,
		})
		return
	}

	var uploadErr *uploading.UploadError
	if errors.As(err, &uploadErr) {
		if apiErrors.Status(uploadErr.Code) >= http.StatusInternalServerError {
			logger.Error("Erro ao processar upload")
		} else {
			logger.Warn("Upload recusado")
		}

		apiErrors.WriteError(w, uploadErr.Code, uploadErr.Error(), map[string]any{
			"source": uploadErr.Source,
		})
		return
	}

	logger.Error("Erro inesperado no upload")
	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao processar upload", nil)
}
