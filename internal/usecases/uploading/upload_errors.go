package uploading

import (
	"errors"
	"fmt"
)

// Erros específicos do contexto de upload
var (
	ErrSuperseded = errors.New("upload superseded by a newer upload")
	ErrNoDataset  = errors.New("no dataset loaded")
	ErrReadFile   = errors.New("error reading upload file")
)

// UploadError é um erro com contexto adicional sobre o upload que falhou
type UploadError struct {
	Err    error  // Erro base
	Code   string // Código de erro para API
	Source string // Arquivo enviado
}

func (e *UploadError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s: %s", e.Source, e.Err.Error())
	}
	return e.Err.Error()
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

func NewUploadError(err error, code string, source string) *UploadError {
	return &UploadError{
		Err:    err,
		Code:   code,
		Source: source,
	}
}
