package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laptoppos/auth"
	"laptoppos/config"
	"laptoppos/database"
	"laptoppos/middleware"
	"laptoppos/utils"
)

func testRouter(t *testing.T) (*gin.Engine, *database.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.InitConfig()

	persister := &database.FilePersister{Path: filepath.Join(t.TempDir(), "snapshot.json")}
	store := database.NewStore(persister, nil)
	store.SeedDefaultAdmin()

	r := gin.New()
	ac := AuthController{Store: store}
	lc := LaptopController{Store: store}

	r.POST("/api/auth/login", ac.Login)
	r.GET("/api/auth/confirm", ac.ConfirmEmail)
	r.POST("/api/auth/register", ac.Register)

	protected := r.Group("/api", middleware.AuthMiddleware())
	protected.GET("/auth/session", ac.SessionStatus)
	protected.GET("/laptops", lc.GetLaptops)
	protected.POST("/laptops", middleware.RequirePermission(auth.PermManageInventory), lc.CreateLaptop)
	return r, store
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": username, "password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestLoginAndSessionStatus(t *testing.T) {
	r, _ := testRouter(t)
	token := login(t, r, "admin", "admin123")

	w := doJSON(t, r, http.MethodGet, "/api/auth/session", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var status map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "authenticated", status["state"])
	assert.False(t, status["warning"].(bool))
	assert.Greater(t, status["remaining_seconds"].(float64), 0.0)
	assert.NotEmpty(t, status["permissions"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r, _ := testRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "admin", "password": "wrongpass",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "nobody", "password": "whatever1",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginResponseOmitsPasswordHash(t *testing.T) {
	r, _ := testRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "admin", "password": "admin123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "$2a$")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, _ := testRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/laptops", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/laptops", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPermissionEnforcedAtRoute(t *testing.T) {
	r, store := testRouter(t)

	hash, err := utils.HashPassword("worker123")
	require.NoError(t, err)
	_, err = store.CreateUser(database.System, database.User{
		Username: "finn", Email: "finn@example.com",
		PasswordHash: hash, Role: auth.RoleWorker, IsActive: true,
	})
	require.NoError(t, err)

	workerToken := login(t, r, "finn", "worker123")
	w := doJSON(t, r, http.MethodPost, "/api/laptops", workerToken, gin.H{
		"brand": "Lenovo", "model": "T14", "price": 1200,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminToken := login(t, r, "admin", "admin123")
	w = doJSON(t, r, http.MethodPost, "/api/laptops", adminToken, gin.H{
		"brand": "Lenovo", "model": "T14", "price": 1200, "quantity": 3,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestRegisterAndConfirm(t *testing.T) {
	r, store := testRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "newhire",
		"email":    "newhire@example.com",
		"password": "hire1234",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	requests := store.GetRegistrationRequests()
	require.Len(t, requests, 1)

	w = doJSON(t, r, http.MethodGet, "/api/auth/confirm?token="+requests[0].Token, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The confirmed account can log in right away.
	login(t, r, "newhire", "hire1234")
}
