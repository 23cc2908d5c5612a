package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// ErrorDump flattens an error chain for structured logs: the top message,
// the service code if any, every wrapped layer, and Postgres driver detail
// when a pgx or pq error sits in the chain.
type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	PGCode       string `json:"pg_code,omitempty"`
	PGConstraint string `json:"pg_constraint,omitempty"`
	PGTable      string `json:"pg_table,omitempty"`
	PGColumn     string `json:"pg_column,omitempty"`
	PGDetail     string `json:"pg_detail,omitempty"`
	PGMessage    string `json:"pg_message,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		d.setPG(pgxErr.Code, pgxErr.ConstraintName, pgxErr.TableName, pgxErr.ColumnName, pgxErr.Detail, pgxErr.Message)
		return d
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		d.setPG(string(pqErr.Code), pqErr.Constraint, pqErr.Table, pqErr.Column, pqErr.Detail, pqErr.Message)
	}

	return d
}

func (d *ErrorDump) setPG(code, constraint, table, column, detail, message string) {
	d.PGCode = code
	d.PGConstraint = constraint
	d.PGTable = table
	d.PGColumn = column
	d.PGDetail = detail
	d.PGMessage = message
}

// Fields renders the dump as logger fields.
func (d ErrorDump) Fields() map[string]any {
	return map[string]any{
		"error":         d.TopMessage,
		"error_code":    d.Code,
		"error_chain":   d.Chain,
		"pg_code":       d.PGCode,
		"pg_detail":     d.PGDetail,
		"pg_message":    d.PGMessage,
		"pg_table":      d.PGTable,
		"pg_column":     d.PGColumn,
		"pg_constraint": d.PGConstraint,
	}
}
