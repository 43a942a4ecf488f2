package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/scribehq/scribe-api/internal/api/shared"
	"github.com/scribehq/scribe-api/internal/service"
	"github.com/scribehq/scribe-api/internal/store"
)

// AuthHandler handles registration, login, logout and the current-user
// endpoint.
type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	authService service.AuthService,
	userService service.UserService,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		validator:   newValidator(),
		logger:      logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithMessage(w, r, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithValidationErrors(w, r, fieldErrors(err))
		return
	}

	result, err := h.authService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			shared.RespondWithValidationErrors(w, r, map[string][]string{
				"email": {msgEmailTaken},
			})
			return
		}
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthTokenResponse{
		AccessToken: result.Token.Token,
		TokenType:   "Bearer",
	})
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithMessage(w, r, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithValidationErrors(w, r, fieldErrors(err))
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			shared.RespondWithValidationErrors(w, r, map[string][]string{
				"email": {msgInvalidCredentials},
			})
			return
		}
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthTokenResponse{
		AccessToken: result.Token.Token,
		TokenType:   "Bearer",
	})
}

// Logout handles POST /api/logout: it revokes exactly the presented token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := shared.TokenIDFromContext(r.Context())
	if !ok {
		shared.RespondWithMessage(w, r, http.StatusUnauthorized, "Unauthenticated.")
		return
	}

	if err := h.authService.Logout(r.Context(), tokenID); err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}

// LogoutAll handles POST /api/logout-all: it revokes every token of the
// authenticated user.
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	if err := h.authService.LogoutAll(r.Context(), userID); err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}

// CurrentUser handles GET /api/user.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, NewUserResource(user))
}
