// AngelaMos | 2026
// response_test.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
		wantCode    string
	}{
		{
			name:        "not found",
			err:         fmt.Errorf("get lesson: %w", ErrNotFound),
			wantStatus:  http.StatusNotFound,
			wantMessage: "Lesson not found",
			wantCode:    "NOT_FOUND",
		},
		{
			name:        "invalid id",
			err:         fmt.Errorf("parse: %w", ErrInvalidID),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "invalid lesson id",
			wantCode:    "BAD_REQUEST",
		},
		{
			name:       "invalid input",
			err:        fmt.Errorf("update: no fields: %w", ErrInvalidInput),
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
		},
		{
			name:       "forbidden",
			err:        ErrForbidden,
			wantStatus: http.StatusForbidden,
			wantCode:   "FORBIDDEN",
		},
		{
			name:        "app error passes through",
			err:         NewAppError(nil, "slow down", http.StatusTooManyRequests, "RATE_LIMITED"),
			wantStatus:  http.StatusTooManyRequests,
			wantMessage: "slow down",
			wantCode:    "RATE_LIMITED",
		},
		{
			name:        "unknown is internal",
			err:         errors.New("socket closed"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "internal server error",
			wantCode:    "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.err, "Lesson")

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body.Code)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, body.Message)
			}
		})
	}
}

func TestPaginatedNeverNull(t *testing.T) {
	rec := httptest.NewRecorder()
	Paginated[string](rec, nil, 0)
	assert.JSONEq(t, `{"result":[],"total":0}`, rec.Body.String())

	rec = httptest.NewRecorder()
	List[int](rec, nil)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestNotFoundOr(t *testing.T) {
	assert.ErrorIs(t, NotFoundOr("op", mongo.ErrNoDocuments), ErrNotFound)

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	assert.ErrorIs(t, NotFoundOr("op", dup), ErrDuplicateKey)

	other := errors.New("boom")
	err := NotFoundOr("op", other)
	assert.ErrorIs(t, err, other)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestParseObjectID(t *testing.T) {
	_, err := ParseObjectID("nope")
	assert.ErrorIs(t, err, ErrInvalidID)

	id, err := ParseObjectID("64b7f0c2a1b2c3d4e5f60718")
	require.NoError(t, err)
	assert.Equal(t, "64b7f0c2a1b2c3d4e5f60718", id.Hex())

	assert.Len(t, HashKey("ada@example.com"), 32)
	assert.Equal(t, HashKey("x"), HashKey("x"))
}
