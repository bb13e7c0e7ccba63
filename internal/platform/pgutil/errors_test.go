package pgutil

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"hrms/internal/domain/apperr"
)

func TestClassify(t *testing.T) {
	require.NoError(t, Classify(nil, "op", "thing"))
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(Classify(pgx.ErrNoRows, "get", "device")))
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(Classify(pkgerrors.Wrap(pgx.ErrNoRows, "scan"), "get", "device")))
	require.Equal(t, apperr.KindConflict, apperr.KindOf(Classify(&pgconn.PgError{Code: "23505"}, "insert", "department")))
	require.Equal(t, apperr.KindConflict, apperr.KindOf(Classify(&pgconn.PgError{Code: "23503"}, "delete", "employee")))

	existing := apperr.Forbidden("nope")
	require.Same(t, existing, Classify(existing, "op", "thing"))

	other := Classify(errors.New("network"), "insert payroll", "payroll")
	require.Equal(t, apperr.KindInternal, apperr.KindOf(other))
	require.Contains(t, other.Error(), "insert payroll")
}
