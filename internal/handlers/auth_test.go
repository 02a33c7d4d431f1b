package handlers

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/showcase/internal/models"
)

func TestAuthHandler_RegisterThenLogin(t *testing.T) {
	env := setupHandlerTestEnv(t, models.KindEvent)

	w := env.postForm("/register", url.Values{"username": {"alice"}, "password": {"pw"}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = env.get("/login")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Registration successful!")

	w = env.postForm("/login", url.Values{"username": {"alice"}, "password": {"pw"}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = env.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Login successful!")
	assert.Contains(t, w.Body.String(), "Logout")
}

func TestAuthHandler_RegisterDuplicate(t *testing.T) {
	env := setupHandlerTestEnv(t, models.KindEvent)

	env.postForm("/register", url.Values{"username": {"alice"}, "password": {"pw"}})
	w := env.postForm("/register", url.Values{"username": {"alice"}, "password": {"other"}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/register", w.Header().Get("Location"))

	w = env.get("/register")
	assert.Contains(t, w.Body.String(), "Username already exists!")

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAuthHandler_RegisterValidation(t *testing.T) {
	env := setupHandlerTestEnv(t, models.KindEvent)

	w := env.postForm("/register", url.Values{"username": {"bob"}, "password": {""}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Username and password are required.")
	assert.Contains(t, w.Body.String(), `value="bob"`)
}

func TestAuthHandler_LoginFailuresLookTheSame(t *testing.T) {
	env := setupHandlerTestEnv(t, models.KindEvent)
	env.postForm("/register", url.Values{"username": {"alice"}, "password": {"pw"}})

	wrong := env.postForm("/login", url.Values{"username": {"alice"}, "password": {"nope"}})
	unknown := env.postForm("/login", url.Values{"username": {"mallory"}, "password": {"pw"}})

	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Contains(t, wrong.Body.String(), "Invalid username or password")
	assert.Contains(t, unknown.Body.String(), "Invalid username or password")

	w := env.get("/api/auth/me")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPIHandler_CurrentUserMustStillExist(t *testing.T) {
	env := setupHandlerTestEnv(t, models.KindEvent)
	env.login("alice", "pw")

	require.Equal(t, http.StatusOK, env.get("/api/auth/me").Code)

	require.NoError(t, env.db.Where("username = ?", "alice").Delete(&models.User{}).Error)

	w := env.get("/api/auth/me")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	env := setupHandlerTestEnv(t, models.KindEvent)
	env.login("alice", "pw")

	w := env.get("/api/auth/me")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)

	w = env.get("/logout")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = env.get("/login")
	assert.Contains(t, w.Body.String(), "You have logged out.")

	w = env.get("/api/auth/me")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.get("/logout")
	assert.Equal(t, http.StatusFound, w.Code)
}
