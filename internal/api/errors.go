package api

import (
	"errors"
	"net/http"

	"github.com/scribehq/scribe-api/internal/api/shared"
	"github.com/scribehq/scribe-api/internal/service"
	"github.com/scribehq/scribe-api/internal/store"
)

// Fixed response messages at the HTTP boundary.
const (
	msgUnauthorized    = "This action is unauthorized."
	msgUserNotFound    = "User not found."
	msgPostNotFound    = "Post not found."
	msgCommentNotFound = "Comment not found."
	msgInvalidBody     = "Invalid request body."
)

// respondServiceError maps service and store errors to their HTTP responses.
// Anything unrecognized becomes a 500 with the details kept in the logs.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNotOwned):
		shared.RespondWithMessage(w, r, http.StatusForbidden, msgUnauthorized)

	case errors.Is(err, store.ErrUserNotFound):
		shared.RespondWithMessage(w, r, http.StatusNotFound, msgUserNotFound)

	case errors.Is(err, store.ErrPostNotFound):
		shared.RespondWithMessage(w, r, http.StatusNotFound, msgPostNotFound)

	case errors.Is(err, store.ErrCommentNotFound):
		shared.RespondWithMessage(w, r, http.StatusNotFound, msgCommentNotFound)

	case errors.Is(err, store.ErrCategoryNotFound), errors.Is(err, store.ErrInvalidEntity):
		// A category that vanished between the existence check and the
		// insert surfaces as the same validation failure.
		shared.RespondWithValidationErrors(w, r, map[string][]string{
			"category_id": {msgCategoryNotExists},
		})

	default:
		shared.RespondWithServerError(w, r, err)
	}
}
