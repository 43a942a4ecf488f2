package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/scribehq/scribe-api/internal/api/shared"
	"github.com/scribehq/scribe-api/internal/domain"
	"github.com/scribehq/scribe-api/internal/service"
)

// CommentHandler handles the comment endpoints nested under a post. Every
// comment lookup is scoped to the post in the path; a comment reached
// through the wrong post is a 404.
type CommentHandler struct {
	commentService service.CommentService
	validator      *validator.Validate
	logger         *slog.Logger
}

// NewCommentHandler creates a new CommentHandler with the given dependencies.
func NewCommentHandler(commentService service.CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		validator:      newValidator(),
		logger:         logger.With(slog.String("component", "comment_handler")),
	}
}

// List handles GET /api/posts/{postID}/comments.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "postID")
	if !ok {
		shared.RespondWithMessage(w, r, http.StatusNotFound, msgPostNotFound)
		return
	}

	page, err := h.commentService.ListComments(r.Context(), postID, pageRequest(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK,
		newCollectionResponse(r, page, NewCommentResource))
}

// Create handles POST /api/posts/{postID}/comments.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	postID, ok := pathID(r, "postID")
	if !ok {
		shared.RespondWithMessage(w, r, http.StatusNotFound, msgPostNotFound)
		return
	}

	var req CreateCommentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithMessage(w, r, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithValidationErrors(w, r, fieldErrors(err))
		return
	}

	comment, err := h.commentService.CreateComment(r.Context(), postID, userID, req.Body)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusCreated, NewCommentResource(comment))
}

// Show handles GET /api/posts/{postID}/comments/{commentID}.
func (h *CommentHandler) Show(w http.ResponseWriter, r *http.Request) {
	comment, ok := h.lookupComment(w, r)
	if !ok {
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, NewCommentResource(comment))
}

// Update handles PUT /api/posts/{postID}/comments/{commentID}. Owner-only.
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	comment, ok := h.lookupComment(w, r)
	if !ok {
		return
	}

	var req UpdateCommentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithMessage(w, r, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithValidationErrors(w, r, fieldErrors(err))
		return
	}

	updated, err := h.commentService.UpdateComment(r.Context(), userID, comment.ID, req.Body)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, NewCommentResource(updated))
}

// Delete handles DELETE /api/posts/{postID}/comments/{commentID}. Owner-only;
// the post stays.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	comment, ok := h.lookupComment(w, r)
	if !ok {
		return
	}

	if err := h.commentService.DeleteComment(r.Context(), userID, comment.ID); err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}

// lookupComment resolves the {postID}/{commentID} path pair, responding 404
// when either is malformed, missing, or mismatched. Reports false after
// writing the response.
func (h *CommentHandler) lookupComment(w http.ResponseWriter, r *http.Request) (*domain.Comment, bool) {
	postID, ok := pathID(r, "postID")
	if !ok {
		shared.RespondWithMessage(w, r, http.StatusNotFound, msgPostNotFound)
		return nil, false
	}

	commentID, ok := pathID(r, "commentID")
	if !ok {
		shared.RespondWithMessage(w, r, http.StatusNotFound, msgCommentNotFound)
		return nil, false
	}

	comment, err := h.commentService.GetComment(r.Context(), postID, commentID)
	if err != nil {
		respondServiceError(w, r, err)
		return nil, false
	}

	return comment, true
}
