package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestOK(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, map[string]int{"hits": 3})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]any{"hits": float64(3)}, body["data"])
	assert.NotContains(t, body, "error")
}

func TestFail(t *testing.T) {
	rec := httptest.NewRecorder()
	Fail(rec, http.StatusBadRequest, "invalid action")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "invalid action", body["error"])
	assert.NotContains(t, body, "data")
}

func TestSafeError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/listings/x", nil)

	tests := []struct {
		name    string
		code    int
		err     error
		wantMsg string
	}{
		{"safe client error", http.StatusNotFound, errors.New("listing not found"), "listing not found"},
		{"unsafe client error", http.StatusBadRequest, errors.New("pq: syntax error at or near"), "internal server error"},
		{"server error never leaks", http.StatusInternalServerError, errors.New("invalid memory address"), "internal server error"},
		{"unavailable", http.StatusServiceUnavailable, errors.New("dial tcp: refused"), "service temporarily unavailable"},
		{"app error", http.StatusInternalServerError, NewAppError(http.StatusConflict, "slug taken", errors.New("unique violation")), "slug taken"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			SafeError(rec, req, tt.code, tt.err)

			body := decode(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantMsg, body["error"])
		})
	}
}

func TestSafeError_AppErrorStatus(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	SafeError(rec, req, http.StatusInternalServerError, NewAppError(http.StatusConflict, "slug taken", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSafeError_Nil(t *testing.T) {
	rec := httptest.NewRecorder()
	SafeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusInternalServerError, nil)
	assert.Equal(t, 0, rec.Body.Len())
}

func TestAppError_Unwrap(t *testing.T) {
	inner := errors.New("inner")
	err := NewAppError(http.StatusBadRequest, "bad", inner)
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "inner", err.Error())
	assert.Equal(t, "bad", NewAppError(http.StatusBadRequest, "bad", nil).Error())
}
