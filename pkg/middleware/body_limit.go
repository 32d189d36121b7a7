package middleware

import (
	"net/http"

	"github.com/vfg2006/call-dashboard/pkg/apiErrors"
)

// MaxBodySize limita o corpo das requisições de upload.
// Content-Length acima do limite é recusado antes da leitura; corpos sem
// tamanho declarado são cortados por http.MaxBytesReader.
func MaxBodySize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			if r.ContentLength > limit {
				apiErrors.WriteError(w, apiErrors.ErrUploadTooLarge, "Arquivo excede o tamanho máximo permitido", map[string]any{
					"max_bytes": limit,
				})
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
