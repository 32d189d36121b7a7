package apiErrors

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Códigos de erro da API
const (
	// Erros de validação
	ErrInvalidRequest      = "VAL_001" // Requisição inválida
	ErrMissingRequiredData = "VAL_002" // Dados obrigatórios ausentes
	ErrInvalidFormat       = "VAL_003" // CSV com formato inválido

	// Erros de dados
	ErrNoData        = "DATA_001" // Nenhum dataset carregado
	ErrChartNotFound = "DATA_002" // Gráfico desconhecido
	ErrRouteNotFound = "DATA_003" // Rota inexistente

	// Erros de upload
	ErrUploadSuperseded = "UPL_001" // Upload substituído por outro mais recente
	ErrUploadTooLarge   = "UPL_002" // Arquivo acima do limite configurado

	// Erros do servidor
	ErrInternalServer = "SRV_001" // Erro interno do servidor
	ErrRender         = "SRV_002" // Erro ao renderizar gráfico ou página
)

// Mapeamento de códigos de erro para status HTTP
var httpStatusMap = map[string]int{
	ErrInvalidRequest:      http.StatusBadRequest,
	ErrMissingRequiredData: http.StatusBadRequest,
	ErrInvalidFormat:       http.StatusBadRequest,
	ErrNoData:              http.StatusNotFound,
	ErrChartNotFound:       http.StatusNotFound,
	ErrRouteNotFound:       http.StatusNotFound,
	ErrUploadSuperseded:    http.StatusConflict,
	ErrUploadTooLarge:      http.StatusRequestEntityTooLarge,
	ErrInternalServer:      http.StatusInternalServerError,
	ErrRender:              http.StatusInternalServerError,
}

// APIError representa um erro de API padronizado
type APIError struct {
	Code    string `json:"code"`              // Código de erro para o cliente
	Message string `json:"message,omitempty"` // Mensagem descritiva (opcional)
	Details any    `json:"details,omitempty"` // Detalhes adicionais (opcional)
}

// Status retorna o status HTTP associado ao código
func Status(code string) int {
	status, exists := httpStatusMap[code]
	if !exists {
		return http.StatusInternalServerError
	}
	return status
}

// WriteError escreve o erro padronizado para a resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(Status(code))
	json.NewEncoder(w).Encode(apiErr)
}

// FromError cria um erro de API a partir de um erro Go
func FromError(err error, code string) APIError {
	if err == nil {
		return APIError{
			Code:    ErrInternalServer,
			Message: "Erro desconhecido",
		}
	}

	return APIError{
		Code:    code,
		Message: err.Error(),
	}
}
