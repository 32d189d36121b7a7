package domain

import "time"

// Motivos de rejeição de uma linha do CSV
const (
	RejectMissingColumns = "missing_columns"
	RejectInvalidDate    = "invalid_date"
	RejectInvalidField   = "invalid_field"
)

// RowRejection descreve uma linha descartada durante o parse
type RowRejection struct {
	Line    int    `json:"line"` // Linha no arquivo, o cabeçalho é a linha 1
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// Dataset é o resultado de um upload: substituído por inteiro a cada novo upload
type Dataset struct {
	ID         string          `json:"id"`
	Source     string          `json:"source"`
	Schema     string          `json:"schema"`
	Records    []*CallRecord   `json:"-"`
	Rejections []*RowRejection `json:"rejections"`
	TotalRows  int             `json:"total_rows"`
	LoadedAt   time.Time       `json:"loaded_at"`
}

// IsEmpty retorna verdadeiro quando não há registros válidos
func (d *Dataset) IsEmpty() bool {
	return d == nil || len(d.Records) == 0
}

// DatasetInfo é o resumo do dataset retornado pela API
type DatasetInfo struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Schema    string    `json:"schema"`
	Records   int       `json:"records"`
	Rejected  int       `json:"rejected"`
	TotalRows int       `json:"total_rows"`
	LoadedAt  time.Time `json:"loaded_at"`
}

func (d *Dataset) Info() DatasetInfo {
	return DatasetInfo{
		ID:        d.ID,
		Source:    d.Source,
		Schema:    d.Schema,
		Records:   len(d.Records),
		Rejected:  len(d.Rejections),
		TotalRows: d.TotalRows,
		LoadedAt:  d.LoadedAt,
	}
}
