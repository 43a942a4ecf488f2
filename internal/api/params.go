package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/scribehq/scribe-api/internal/api/shared"
	"github.com/scribehq/scribe-api/internal/store"
)

// pathID extracts a positive int64 path parameter. A missing or non-numeric
// value reports false; callers respond 404 with their entity's message, the
// same as for a well-formed ID that matches nothing.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// pageRequest reads the ?page query parameter. Absent or malformed values
// normalize to the first page.
func pageRequest(r *http.Request) store.PageRequest {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	return store.PageRequest{Page: page}.Normalize()
}

// currentUserID extracts the authenticated user's ID from the context,
// responding 401 if it is missing. The auth middleware always sets it, so a
// miss means the route was wired without the middleware.
func currentUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		shared.RespondWithMessage(w, r, http.StatusUnauthorized, "Unauthenticated.")
		return 0, false
	}
	return userID, true
}
