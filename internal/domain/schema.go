package domain

// Campos conhecidos de um CallRecord
const (
	FieldName       = "name"
	FieldEmail      = "email"
	FieldPhone      = "phone"
	FieldDate       = "date"
	FieldVendor     = "vendor"
	FieldSaleClosed = "saleClosed"
	FieldTranscript = "transcript"
)

// SchemaInfo descreve um formato de CSV aceito, exposto pela API
type SchemaInfo struct {
	Name            string            `json:"name"`
	Columns         map[string]int    `json:"columns"`
	RequiredColumns int               `json:"required_columns"`
	ClosedPredicate string            `json:"closed_predicate"`
	Kinds           map[string]string `json:"kinds"`
}
