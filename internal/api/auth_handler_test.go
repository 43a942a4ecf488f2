package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribehq/scribe-api/internal/task"
)

func TestRegister(t *testing.T) {
	t.Run("creates an account and returns a bearer token", func(t *testing.T) {
		a := newTestAPI(t)

		w := a.do(t, http.MethodPost, "/api/register", "", map[string]string{
			"name":                  "Jamie Doe",
			"email":                 "jamie@example.com",
			"password":              "password123",
			"password_confirmation": "password123",
		})

		require.Equal(t, http.StatusCreated, w.Code)
		body := decodeBody(t, w)
		assert.NotEmpty(t, body["access_token"])
		assert.Equal(t, "Bearer", body["token_type"])
	})

	t.Run("queues exactly one welcome email", func(t *testing.T) {
		a := newTestAPI(t)
		a.register(t, "Jamie Doe", "jamie@example.com")

		events := a.emitter.Events()
		require.Len(t, events, 1)
		assert.Equal(t, task.TaskTypeWelcomeEmail, events[0].Type)
	})

	t.Run("issued token authenticates requests", func(t *testing.T) {
		a := newTestAPI(t)
		token := a.register(t, "Jamie Doe", "jamie@example.com")

		w := a.do(t, http.MethodGet, "/api/user", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		body := decodeBody(t, w)
		data := body["data"].(map[string]interface{})
		assert.Equal(t, "jamie@example.com", data["email"])
		assert.Equal(t, "Jamie Doe", data["name"])
	})

	t.Run("duplicate email", func(t *testing.T) {
		a := newTestAPI(t)
		a.register(t, "Jamie Doe", "jamie@example.com")

		w := a.do(t, http.MethodPost, "/api/register", "", map[string]string{
			"name":                  "Other Person",
			"email":                 "jamie@example.com",
			"password":              "password456",
			"password_confirmation": "password456",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.JSONEq(
			t,
			`{"message":"The given data was invalid.","errors":{"email":["Email is already taken."]}}`,
			w.Body.String(),
		)
	})

	t.Run("missing fields", func(t *testing.T) {
		a := newTestAPI(t)

		w := a.do(t, http.MethodPost, "/api/register", "", map[string]string{})

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		body := decodeBody(t, w)
		errs := body["errors"].(map[string]interface{})
		assert.Contains(t, errs, "name")
		assert.Contains(t, errs, "email")
		assert.Contains(t, errs, "password")
	})

	t.Run("short password", func(t *testing.T) {
		a := newTestAPI(t)

		w := a.do(t, http.MethodPost, "/api/register", "", map[string]string{
			"name":                  "Jamie Doe",
			"email":                 "jamie@example.com",
			"password":              "short",
			"password_confirmation": "short",
		})

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		body := decodeBody(t, w)
		errs := body["errors"].(map[string]interface{})
		messages := errs["password"].([]interface{})
		assert.Equal(t, "Password must be at least 8 characters.", messages[0])
	})

	t.Run("password confirmation mismatch", func(t *testing.T) {
		a := newTestAPI(t)

		w := a.do(t, http.MethodPost, "/api/register", "", map[string]string{
			"name":                  "Jamie Doe",
			"email":                 "jamie@example.com",
			"password":              "password123",
			"password_confirmation": "different123",
		})

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		body := decodeBody(t, w)
		errs := body["errors"].(map[string]interface{})
		assert.Contains(t, errs, "password_confirmation")
	})

	t.Run("malformed JSON", func(t *testing.T) {
		a := newTestAPI(t)

		w := a.do(t, http.MethodPost, "/api/register", "", "not-an-object")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLogin(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		a := newTestAPI(t)
		a.register(t, "Jamie Doe", "jamie@example.com")

		w := a.do(t, http.MethodPost, "/api/login", "", map[string]string{
			"email":    "jamie@example.com",
			"password": "password123",
		})

		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.NotEmpty(t, body["access_token"])
		assert.Equal(t, "Bearer", body["token_type"])
	})

	t.Run("wrong password", func(t *testing.T) {
		a := newTestAPI(t)
		a.register(t, "Jamie Doe", "jamie@example.com")

		w := a.do(t, http.MethodPost, "/api/login", "", map[string]string{
			"email":    "jamie@example.com",
			"password": "wrong-password",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.JSONEq(
			t,
			`{"message":"The given data was invalid.","errors":{"email":["These credentials do not match our records."]}}`,
			w.Body.String(),
		)
	})

	t.Run("unknown email gets the same response", func(t *testing.T) {
		a := newTestAPI(t)

		w := a.do(t, http.MethodPost, "/api/login", "", map[string]string{
			"email":    "nobody@example.com",
			"password": "password123",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		body := decodeBody(t, w)
		errs := body["errors"].(map[string]interface{})
		assert.Contains(t, errs, "email")
	})

	t.Run("rate limited after repeated attempts", func(t *testing.T) {
		a := newTestAPI(t)

		payload := map[string]string{"email": "jamie@example.com", "password": "wrong"}
		for i := 0; i < 10; i++ {
			w := a.do(t, http.MethodPost, "/api/login", "", payload)
			require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		}

		w := a.do(t, http.MethodPost, "/api/login", "", payload)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.JSONEq(t, `{"message":"Too many login attempts. Please try again later."}`, w.Body.String())
	})
}

func TestLogout(t *testing.T) {
	t.Run("revokes the presented token", func(t *testing.T) {
		a := newTestAPI(t)
		token := a.register(t, "Jamie Doe", "jamie@example.com")

		w := a.do(t, http.MethodPost, "/api/logout", token, nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = a.do(t, http.MethodGet, "/api/user", token, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"message":"Unauthenticated."}`, w.Body.String())
	})

	t.Run("logout-all revokes every session", func(t *testing.T) {
		a := newTestAPI(t)
		first := a.register(t, "Jamie Doe", "jamie@example.com")

		loginResp := a.do(t, http.MethodPost, "/api/login", "", map[string]string{
			"email":    "jamie@example.com",
			"password": "password123",
		})
		require.Equal(t, http.StatusOK, loginResp.Code)
		second := decodeBody(t, loginResp)["access_token"].(string)

		w := a.do(t, http.MethodPost, "/api/logout-all", first, nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodGet, "/api/user", first, nil).Code)
		assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodGet, "/api/user", second, nil).Code)
	})

	t.Run("logout without a token", func(t *testing.T) {
		a := newTestAPI(t)

		w := a.do(t, http.MethodPost, "/api/logout", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
