package coerce

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"hrms/internal/domain/apperr"
)

func TestNumberAcceptsNumbersAndNumericStrings(t *testing.T) {
	var payload struct {
		Salary     *Number `json:"salary"`
		Bonus      *Number `json:"bonus"`
		Deductions *Number `json:"deductions"`
		Budget     *Number `json:"budget"`
	}
	err := json.Unmarshal([]byte(`{"salary":"5000","bonus":500,"deductions":""}`), &payload)
	require.NoError(t, err)
	require.Equal(t, 5000.0, Value(payload.Salary))
	require.Equal(t, 500.0, Value(payload.Bonus))
	require.Equal(t, 0.0, Value(payload.Deductions))
	require.Nil(t, payload.Budget)
	require.Equal(t, 0.0, Value(payload.Budget))
}

func TestNumberRejectsGarbage(t *testing.T) {
	var payload struct {
		Salary Number `json:"salary"`
	}
	require.Error(t, json.Unmarshal([]byte(`{"salary":"five"}`), &payload))
	require.Error(t, json.Unmarshal([]byte(`{"salary":true}`), &payload))

	for _, raw := range []string{"NaN", "Inf", "-Inf", "Infinity", "+infinity"} {
		err := json.Unmarshal([]byte(`{"salary":"`+raw+`"}`), &payload)
		require.Error(t, err, raw)
		require.True(t, apperr.Is(err, apperr.KindValidation), raw)
	}
}

func TestStringListAcceptsArrayOrText(t *testing.T) {
	var payload struct {
		Requirements StringList `json:"requirements"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"requirements":"Go\nSQL, Docker"}`), &payload))
	require.Equal(t, StringList{"Go", "SQL", "Docker"}, payload.Requirements)

	require.NoError(t, json.Unmarshal([]byte(`{"requirements":[" Go ",""]}`), &payload))
	require.Equal(t, StringList{"Go"}, payload.Requirements)
}
