package shared_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribehq/scribe-api/internal/api/shared"
)

func TestRespondWithData(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/posts/1", nil)

	shared.RespondWithData(w, r, http.StatusOK, map[string]string{"title": "First Post"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "First Post", body["data"]["title"])
}

func TestRespondWithMessage(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/user", nil)

	shared.RespondWithMessage(w, r, http.StatusUnauthorized, "Unauthenticated.")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Unauthenticated."}`, w.Body.String())
}

func TestRespondWithValidationErrors(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/posts", nil)

	shared.RespondWithValidationErrors(w, r, map[string][]string{
		"title": {"Title is required."},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(
		t,
		`{"message":"The given data was invalid.","errors":{"title":["Title is required."]}}`,
		w.Body.String(),
	)
}

func TestRespondWithServerError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/posts", nil)

	shared.RespondWithServerError(w, r, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Server error."}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestRespondWithJSONNilBody(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodDelete, "/posts/1", nil)

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}
