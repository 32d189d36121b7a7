package parsing

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedCSV   = errors.New("malformed csv")
	ErrInvalidSchema  = errors.New("invalid schema")
	ErrUnknownSchema  = errors.New("unknown schema")
	ErrMissingColumns = errors.New("missing columns")
	ErrInvalidDate    = errors.New("invalid date")
)

// RowError é o erro de uma linha rejeitada, com a linha e o motivo
type RowError struct {
	Err    error
	Line   int
	Field  string
	Reason string
}

func (e *RowError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("linha %d: %s: %s", e.Line, e.Field, e.Err.Error())
	}
	return fmt.Sprintf("linha %d: %s", e.Line, e.Err.Error())
}

func (e *RowError) Unwrap() error {
	return e.Err
}
