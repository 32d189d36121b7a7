// Package parsing converte linhas de CSV em registros de chamadas
package parsing

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/call-dashboard/internal/domain"
	"github.com/vfg2006/call-dashboard/pkg/utils"
)

// Result é a saída do parse: registros válidos e linhas rejeitadas
type Result struct {
	Records    []*domain.CallRecord
	Rejections []*domain.RowRejection
	TotalRows  int
}

// ParseCSV lê o CSV completo e aplica o schema; a primeira linha é o cabeçalho
func ParseCSV(ctx context.Context, r io.Reader, schema Schema) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	result := newResult()
	header := true

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, errors.Wrap(fmt.Errorf("%w: %v", ErrMalformedCSV, err), "parsing")
			}
			return nil, errors.Wrap(err, "reading csv")
		}

		if header {
			header = false
			continue
		}

		line, _ := reader.FieldPos(0)
		result.add(line, row, schema)
	}

	result.log(schema)
	return result, nil
}

// ParseRows aplica o schema a uma tabela já interpretada; rows[0] é o cabeçalho
func ParseRows(ctx context.Context, rows [][]string, schema Schema) (*Result, error) {
	result := newResult()
	if len(rows) == 0 {
		return result, nil
	}

	for i, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.add(i+2, row, schema)
	}

	result.log(schema)
	return result, nil
}

func newResult() *Result {
	return &Result{
		Records:    make([]*domain.CallRecord, 0),
		Rejections: make([]*domain.RowRejection, 0),
	}
}

func (r *Result) add(line int, row []string, schema Schema) {
	r.TotalRows++

	record, rowErr := parseRow(line, row, schema)
	if rowErr != nil {
		logrus.WithFields(logrus.Fields{
			"line":   rowErr.Line,
			"reason": rowErr.Reason,
			"schema": schema.Name,
		}).Warn("parsing: linha rejeitada: ", rowErr.Error())

		r.Rejections = append(r.Rejections, &domain.RowRejection{
			Line:    rowErr.Line,
			Reason:  rowErr.Reason,
			Message: rowErr.Error(),
		})
		return
	}

	// IDs densos: atribuídos depois do filtro de linhas rejeitadas
	record.ID = fmt.Sprintf("call-%d", len(r.Records)+1)
	r.Records = append(r.Records, record)
}

func (r *Result) log(schema Schema) {
	logrus.WithFields(logrus.Fields{
		"schema":   schema.Name,
		"rows":     r.TotalRows,
		"records":  len(r.Records),
		"rejected": len(r.Rejections),
	}).Info("parsing: CSV processado")
}

func parseRow(line int, row []string, schema Schema) (*domain.CallRecord, *RowError) {
	if required := schema.RequiredColumns(); len(row) < required {
		return nil, &RowError{
			Err:    fmt.Errorf("%w: esperado %d, recebido %d", ErrMissingColumns, required, len(row)),
			Line:   line,
			Reason: domain.RejectMissingColumns,
		}
	}

	record := &domain.CallRecord{}
	for _, col := range schema.Columns {
		value := row[col.Index]

		switch col.Kind {
		case KindDate:
			date, err := utils.ParseDate(value)
			if err != nil {
				return nil, &RowError{
					Err:    fmt.Errorf("%w: %v", ErrInvalidDate, err),
					Line:   line,
					Field:  col.Field,
					Reason: domain.RejectInvalidDate,
				}
			}
			record.Date = date
			record.DisplayDate = date.Format(utils.DisplayDateLayout)
		case KindFlag:
			record.SaleClosed = schema.IsClosed(value)
		case KindText:
			setText(record, col.Field, value)
		default:
			return nil, &RowError{
				Err:    fmt.Errorf("tipo de coluna desconhecido %q", col.Kind),
				Line:   line,
				Field:  col.Field,
				Reason: domain.RejectInvalidField,
			}
		}
	}

	return record, nil
}

func setText(record *domain.CallRecord, field, value string) {
	switch field {
	case domain.FieldName:
		record.Name = value
	case domain.FieldEmail:
		record.Email = value
	case domain.FieldPhone:
		record.Phone = value
	case domain.FieldVendor:
		record.Vendor = value
	case domain.FieldTranscript:
		record.Transcript = value
	}
}
