package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   string  `validate:"required"`
	Email  string  `validate:"required,email"`
	Amount float64 `validate:"gt=0"`
	Status string  `validate:"omitempty,oneof=active lapsed new"`
	Date   string  `validate:"omitempty,datetime=2006-01-02"`
}

func TestFromValidation(t *testing.T) {
	v := validator.New()

	tests := []struct {
		name     string
		payload  sample
		expected []map[string]string
	}{
		{
			name:    "missing name",
			payload: sample{Email: "a@x.com", Amount: 1},
			expected: []map[string]string{
				{"Name": "is required"},
			},
		},
		{
			name:    "bad email and non-positive amount",
			payload: sample{Name: "A", Email: "nope", Amount: -1},
			expected: []map[string]string{
				{"Email": "must be a valid email address"},
				{"Amount": "must be a positive number"},
			},
		},
		{
			name:    "bad enum and date",
			payload: sample{Name: "A", Email: "a@x.com", Amount: 1, Status: "gone", Date: "01/02/2026"},
			expected: []map[string]string{
				{"Status": "must be one of: active, lapsed, new"},
				{"Date": "must be a valid date in YYYY-MM-DD format"},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(tc.payload)
			require.Error(t, err)

			appErr := FromValidation(err)
			assert.Equal(t, http.StatusBadRequest, appErr.Status)
			assert.Equal(t, CodeValidation, appErr.Code)
			assert.Equal(t, tc.expected, appErr.Fields)
		})
	}
}

func TestFromValidation_NonValidatorError(t *testing.T) {
	appErr := FromValidation(errors.New("unexpected EOF"))
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "invalid request payload", appErr.Message)
	assert.Nil(t, appErr.Fields)
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("create donor: %w", Conflict("donor with this email already exists"))

	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, CodeConflict, appErr.Code)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

func TestInternal_HidesDetails(t *testing.T) {
	appErr := Internal()
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Equal(t, "internal server error", appErr.Error())
}
