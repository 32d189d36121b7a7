package parsing

import (
	"fmt"
	"strings"

	"github.com/vfg2006/call-dashboard/internal/domain"
)

// Kind define o validador aplicado a uma coluna
type Kind string

const (
	KindText Kind = "text"
	KindDate Kind = "date"
	KindFlag Kind = "flag"
)

// Predicados aceitos para interpretar a coluna de venda fechada
const (
	PredicateTrueInsensitive = "true_ci"
	PredicateOne             = "one"
)

const (
	SchemaSimple   = "simple"
	SchemaExtended = "extended"
)

// Column mapeia um campo do CallRecord para uma posição do CSV
type Column struct {
	Field string `yaml:"field"`
	Index int    `yaml:"index"`
	Kind  Kind   `yaml:"kind"`
}

// Schema é o formato declarativo de um CSV: campo -> coluna -> validador
type Schema struct {
	Name            string   `yaml:"name"`
	Columns         []Column `yaml:"columns"`
	ClosedPredicate string   `yaml:"closed_predicate"`
}

var knownFields = map[string]Kind{
	domain.FieldName:       KindText,
	domain.FieldEmail:      KindText,
	domain.FieldPhone:      KindText,
	domain.FieldDate:       KindDate,
	domain.FieldVendor:     KindText,
	domain.FieldSaleClosed: KindFlag,
	domain.FieldTranscript: KindText,
}

var predicates = map[string]func(string) bool{
	PredicateTrueInsensitive: func(v string) bool { return strings.EqualFold(v, "true") },
	PredicateOne:             func(v string) bool { return v == "1" },
}

// SimpleSchema é o formato de duas colunas: transcrição e venda fechada ("true")
func SimpleSchema() Schema {
	return Schema{
		Name: SchemaSimple,
		Columns: []Column{
			{Field: domain.FieldTranscript, Index: 0, Kind: KindText},
			{Field: domain.FieldSaleClosed, Index: 1, Kind: KindFlag},
		},
		ClosedPredicate: PredicateTrueInsensitive,
	}
}

// ExtendedSchema é o formato de sete colunas com vendedor e data ("1" = venda fechada)
func ExtendedSchema() Schema {
	return Schema{
		Name: SchemaExtended,
		Columns: []Column{
			{Field: domain.FieldName, Index: 0, Kind: KindText},
			{Field: domain.FieldEmail, Index: 1, Kind: KindText},
			{Field: domain.FieldPhone, Index: 2, Kind: KindText},
			{Field: domain.FieldDate, Index: 3, Kind: KindDate},
			{Field: domain.FieldVendor, Index: 4, Kind: KindText},
			{Field: domain.FieldSaleClosed, Index: 5, Kind: KindFlag},
			{Field: domain.FieldTranscript, Index: 6, Kind: KindText},
		},
		ClosedPredicate: PredicateOne,
	}
}

// RequiredColumns é a quantidade mínima de colunas que uma linha precisa ter
func (s Schema) RequiredColumns() int {
	required := 0
	for _, col := range s.Columns {
		if col.Index+1 > required {
			required = col.Index + 1
		}
	}
	return required
}

// IsClosed aplica o predicado configurado ao valor da coluna de venda fechada
func (s Schema) IsClosed(value string) bool {
	predicate, ok := predicates[s.ClosedPredicate]
	if !ok {
		return false
	}
	return predicate(value)
}

// Validate verifica se o schema é consistente antes de ser registrado
func (s Schema) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: nome obrigatório", ErrInvalidSchema)
	}

	if len(s.Columns) == 0 {
		return fmt.Errorf("%w: schema %s sem colunas", ErrInvalidSchema, s.Name)
	}

	if _, ok := predicates[s.ClosedPredicate]; !ok {
		return fmt.Errorf("%w: schema %s com predicado desconhecido %q", ErrInvalidSchema, s.Name, s.ClosedPredicate)
	}

	seen := make(map[string]bool, len(s.Columns))
	flags := 0
	for _, col := range s.Columns {
		expected, known := knownFields[col.Field]
		if !known {
			return fmt.Errorf("%w: schema %s com campo desconhecido %q", ErrInvalidSchema, s.Name, col.Field)
		}
		if seen[col.Field] {
			return fmt.Errorf("%w: schema %s com campo duplicado %q", ErrInvalidSchema, s.Name, col.Field)
		}
		if col.Index < 0 {
			return fmt.Errorf("%w: schema %s com índice negativo para %q", ErrInvalidSchema, s.Name, col.Field)
		}
		if col.Kind != expected {
			return fmt.Errorf("%w: schema %s: campo %q deve ser do tipo %s", ErrInvalidSchema, s.Name, col.Field, expected)
		}
		if col.Kind == KindFlag {
			flags++
		}
		seen[col.Field] = true
	}

	if flags != 1 {
		return fmt.Errorf("%w: schema %s precisa de exatamente uma coluna %s", ErrInvalidSchema, s.Name, domain.FieldSaleClosed)
	}

	return nil
}

func (s Schema) Info() domain.SchemaInfo {
	columns := make(map[string]int, len(s.Columns))
	kinds := make(map[string]string, len(s.Columns))
	for _, col := range s.Columns {
		columns[col.Field] = col.Index
		kinds[col.Field] = string(col.Kind)
	}

	return domain.SchemaInfo{
		Name:            s.Name,
		Columns:         columns,
		RequiredColumns: s.RequiredColumns(),
		ClosedPredicate: s.ClosedPredicate,
		Kinds:           kinds,
	}
}
