package api

// Request payloads. Validation tags produce the field error maps of 422
// responses; json tag names double as the error map keys.

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Name                 string `json:"name"                  validate:"required,max=255"`
	Email                string `json:"email"                 validate:"required,email,max=255"`
	Password             string `json:"password"              validate:"required,min=8,max=72"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthTokenResponse is the body of successful register and login responses.
type AuthTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// CreatePostRequest defines the payload for creating a post. The author is
// always the authenticated caller, never part of the payload.
type CreatePostRequest struct {
	CategoryID int64  `json:"category_id" validate:"required,gt=0"`
	Title      string `json:"title"       validate:"required,max=255"`
	Body       string `json:"body"        validate:"required"`
}

// UpdatePostRequest defines the payload for updating a post. All fields are
// optional; absent fields keep their current value, present fields are
// re-validated.
type UpdatePostRequest struct {
	CategoryID *int64  `json:"category_id" validate:"omitempty,gt=0"`
	Title      *string `json:"title"       validate:"omitempty,min=1,max=255"`
	Body       *string `json:"body"        validate:"omitempty,min=1"`
}

// CreateCommentRequest defines the payload for commenting on a post.
type CreateCommentRequest struct {
	Body string `json:"body" validate:"required,max=1000"`
}

// UpdateCommentRequest defines the payload for editing a comment.
type UpdateCommentRequest struct {
	Body string `json:"body" validate:"required,max=1000"`
}
