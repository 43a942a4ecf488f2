package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/scribehq/scribe-api/internal/api"
	"github.com/scribehq/scribe-api/internal/api/middleware"
	"github.com/scribehq/scribe-api/internal/config"
	"github.com/scribehq/scribe-api/internal/mocks"
	"github.com/scribehq/scribe-api/internal/service"
	"github.com/scribehq/scribe-api/internal/service/auth"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testAPI wires the full HTTP stack over in-memory stores.
type testAPI struct {
	router chi.Router

	users      *mocks.MemoryUserStore
	categories *mocks.MemoryCategoryStore
	comments   *mocks.MemoryCommentStore
	posts      *mocks.MemoryPostStore
	tokens     *mocks.MemoryTokenStore
	emitter    *mocks.RecordingEmitter
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	users := mocks.NewMemoryUserStore()
	categories := mocks.NewMemoryCategoryStore()
	comments := mocks.NewMemoryCommentStore(users)
	posts := mocks.NewMemoryPostStore(users, categories, comments)
	tokens := mocks.NewMemoryTokenStore()
	emitter := mocks.NewRecordingEmitter()

	logger := testLogger()

	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            "test-secret-that-is-at-least-32-characters",
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)

	authService := service.NewAuthService(
		nil, users, tokens, jwtService,
		auth.NewBcryptHasher(4), auth.NewBcryptVerifier(),
		emitter, logger,
	)
	userService := service.NewUserService(users, logger)
	postService := service.NewPostService(nil, posts, logger)
	commentService := service.NewCommentService(nil, comments, posts, logger)

	router := api.NewRouter(api.RouterDeps{
		AuthHandler:    api.NewAuthHandler(authService, userService, logger),
		UserHandler:    api.NewUserHandler(userService, logger),
		PostHandler:    api.NewPostHandler(postService, categories, logger),
		CommentHandler: api.NewCommentHandler(commentService, logger),
		AuthMiddleware: middleware.NewAuthMiddleware(jwtService, tokens, logger),
		LoginLimiter:   middleware.NewRateLimiter(10, time.Minute, logger),
	})

	return &testAPI{
		router:     router,
		users:      users,
		categories: categories,
		comments:   comments,
		posts:      posts,
		tokens:     tokens,
		emitter:    emitter,
	}
}

// do performs a request against the router. A non-empty token is sent as a
// bearer credential.
func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	r := httptest.NewRequest(method, path, reader)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, r)
	return w
}

// register creates an account through the API and returns its access token.
func (a *testAPI) register(t *testing.T, name, email string) string {
	t.Helper()

	w := a.do(t, http.MethodPost, "/api/register", "", map[string]string{
		"name":                  name,
		"email":                 email,
		"password":              "password123",
		"password_confirmation": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

// decodeBody unmarshals the recorder body into a generic JSON map.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
