package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/foodiehub/models"
)

func TestRegisterLoginProfile(t *testing.T) {
	app := setupApp(t)

	body := gin.H{"name": "Kitchen Lead", "email": "Lead@FoodieHub.local", "password": "secret123", "role": "staff"}
	w, _ := app.do(t, http.MethodPost, "/register", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, _ = app.do(t, http.MethodPost, "/register", body)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = app.do(t, http.MethodPost, "/register", gin.H{"name": "x", "email": "x@foodiehub.local", "password": "secret123", "role": "customer"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = app.do(t, http.MethodPost, "/login", gin.H{"email": "lead@foodiehub.local", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env := app.do(t, http.MethodPost, "/login", gin.H{"email": "lead@foodiehub.local", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Token    string `json:"token"`
		UserRole string `json:"user_role"`
	}
	decodeData(t, env, &login)
	assert.Equal(t, models.RoleStaff, login.UserRole)

	w, env = app.do(t, http.MethodGet, "/admin/profile", nil, "Authorization", "Bearer "+login.Token)
	require.Equal(t, http.StatusOK, w.Code)
	var profile map[string]interface{}
	decodeData(t, env, &profile)
	assert.Equal(t, "lead@foodiehub.local", profile["email"])
	assert.NotContains(t, profile, "password")

	// staff may not list users
	w, _ = app.do(t, http.MethodGet, "/admin/users", nil, "Authorization", "Bearer "+login.Token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLoginRateLimited(t *testing.T) {
	app := setupApp(t)

	var last int
	for i := 0; i < 7; i++ {
		w, _ := app.do(t, http.MethodPost, "/login", gin.H{"email": "a@b.c", "password": "nope"})
		last = w.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}
