package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/scribehq/scribe-api/internal/api/shared"
	"github.com/scribehq/scribe-api/internal/service"
	"github.com/scribehq/scribe-api/internal/store"
)

// PostHandler handles the post CRUD endpoints.
type PostHandler struct {
	postService   service.PostService
	categoryStore store.CategoryStore
	validator     *validator.Validate
	logger        *slog.Logger
}

// NewPostHandler creates a new PostHandler with the given dependencies.
func NewPostHandler(
	postService service.PostService,
	categoryStore store.CategoryStore,
	logger *slog.Logger,
) *PostHandler {
	return &PostHandler{
		postService:   postService,
		categoryStore: categoryStore,
		validator:     newValidator(),
		logger:        logger.With(slog.String("component", "post_handler")),
	}
}

// List handles GET /api/posts. Pages carry ten posts with author, category
// and comments loaded.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.postService.ListPosts(r.Context(), pageRequest(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK,
		newCollectionResponse(r, page, NewPostResource))
}

// Create handles POST /api/posts. The author is always the caller.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req CreatePostRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithMessage(w, r, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithValidationErrors(w, r, fieldErrors(err))
		return
	}

	if !h.categoryExists(w, r, req.CategoryID) {
		return
	}

	post, err := h.postService.CreatePost(r.Context(), userID, req.CategoryID, req.Title, req.Body)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusCreated, NewPostResource(post))
}

// Show handles GET /api/posts/{postID}.
func (h *PostHandler) Show(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "postID")
	if !ok {
		shared.RespondWithMessage(w, r, http.StatusNotFound, msgPostNotFound)
		return
	}

	post, err := h.postService.GetPost(r.Context(), postID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, NewPostResource(post))
}

// Update handles PUT /api/posts/{postID}. Owner-only; absent fields keep
// their current values.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	postID, ok := pathID(r, "postID")
	if !ok {
		shared.RespondWithMessage(w, r, http.StatusNotFound, msgPostNotFound)
		return
	}

	var req UpdatePostRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithMessage(w, r, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithValidationErrors(w, r, fieldErrors(err))
		return
	}

	if req.CategoryID != nil && !h.categoryExists(w, r, *req.CategoryID) {
		return
	}

	post, err := h.postService.UpdatePost(r.Context(), userID, postID, store.PostUpdate{
		CategoryID: req.CategoryID,
		Title:      req.Title,
		Body:       req.Body,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, NewPostResource(post))
}

// Delete handles DELETE /api/posts/{postID}. Owner-only; comments go with
// the post.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	postID, ok := pathID(r, "postID")
	if !ok {
		shared.RespondWithMessage(w, r, http.StatusNotFound, msgPostNotFound)
		return
	}

	if err := h.postService.DeletePost(r.Context(), userID, postID); err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}

// categoryExists verifies the referenced category before the write reaches
// the database, turning a dangling reference into the validation failure
// clients expect. Reports false after writing the response.
func (h *PostHandler) categoryExists(w http.ResponseWriter, r *http.Request, categoryID int64) bool {
	exists, err := h.categoryStore.Exists(r.Context(), categoryID)
	if err != nil {
		h.logger.Error("failed to check category",
			"error", err,
			"category_id", categoryID)
		shared.RespondWithServerError(w, r, err)
		return false
	}
	if !exists {
		shared.RespondWithValidationErrors(w, r, map[string][]string{
			"category_id": {msgCategoryNotExists},
		})
		return false
	}
	return true
}
