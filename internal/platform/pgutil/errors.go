package pgutil

import (
	stderrors "errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	"hrms/internal/domain/apperr"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
	invalidText         = "22P02"
)

// Classify maps driver errors onto the application taxonomy. Anything it does
// not recognize is wrapped with op and surfaces as an internal error.
func Classify(err error, op, entity string) error {
	if err == nil {
		return nil
	}
	if _, ok := apperr.As(err); ok {
		return err
	}
	if stderrors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(entity)
	}
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return apperr.Conflict("duplicate", entity+" already exists")
		case foreignKeyViolation:
			return apperr.Conflict("reference_violation", entity+" references a missing or in-use record")
		case checkViolation:
			return apperr.Validation(entity + " violates a data constraint")
		case invalidText:
			// Malformed ids (e.g. non-uuid path params) read as absent records.
			return apperr.NotFound(entity)
		}
	}
	return errors.Wrap(err, op)
}
