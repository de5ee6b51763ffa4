package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outreach-records/internal/repository/sqlite"
	"outreach-records/internal/service"
)

type tickClock struct {
	now time.Time
}

// Now advances by one second per call so successive writes get distinct stamps.
func (c *tickClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	clock := &tickClock{now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	users := sqlite.NewUserRepository(db, sqlite.WithClock(clock.Now))
	students := sqlite.NewStudentRepository(db, sqlite.WithClock(clock.Now))
	volunteers := sqlite.NewVolunteerRepository(db, sqlite.WithClock(clock.Now))
	donors := sqlite.NewDonorRepository(db, sqlite.WithClock(clock.Now))
	require.NoError(t, users.Init(ctx))
	require.NoError(t, students.Init(ctx))
	require.NoError(t, volunteers.Init(ctx))
	require.NoError(t, donors.Init(ctx))

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	handler := NewHandler(
		service.NewUserService(users),
		service.NewRecordService(students, volunteers, donors),
		nil,
		Options{JWTSecret: "test-secret", TokenTTL: time.Hour, Logger: logger},
	)
	router := gin.New()
	handler.RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 && rec.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec.Code, out
}

func registerAndLogin(t *testing.T, router http.Handler, email string) string {
	t.Helper()
	code, _ := doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": email, "password": "password123", "name": "Demo User",
	})
	require.Equal(t, http.StatusCreated, code)

	code, body := doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": email, "password": "password123",
	})
	require.Equal(t, http.StatusOK, code)
	token, ok := body["token"].(string)
	require.True(t, ok)
	return token
}

func TestRegister_ReturnsTimestampsWithoutPassword(t *testing.T) {
	router := newTestRouter(t)

	code, body := doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "demo@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, code)
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, body["created_at"], body["updated_at"])
	assert.Equal(t, "demo@example.com", body["created_by"])
	assert.NotContains(t, body, "password")

	code, _ = doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "demo@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "short@example.com", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestLogin_RejectsBadCredentials(t *testing.T) {
	router := newTestRouter(t)
	registerAndLogin(t, router, "demo@example.com")

	code, _ := doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "demo@example.com", "password": "not-the-password",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestWritesRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	code, _ := doJSON(t, router, http.MethodPost, "/api/students", "", gin.H{"name": "Ada", "age": 20, "branch": "CS"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = doJSON(t, router, http.MethodPost, "/api/students", "garbage", gin.H{"name": "Ada", "age": 20, "branch": "CS"})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestStudentLifecycleTracksActors(t *testing.T) {
	router := newTestRouter(t)
	admin := registerAndLogin(t, router, "admin@example.com")
	alice := registerAndLogin(t, router, "alice@example.com")

	code, created := doJSON(t, router, http.MethodPost, "/api/students", admin, gin.H{
		"name": "Update Test Student", "age": 20, "branch": "Computer Science",
	})
	require.Equal(t, http.StatusCreated, code)
	id := created["id"].(string)
	assert.Equal(t, "admin@example.com", created["created_by"])
	assert.Equal(t, created["created_at"], created["updated_at"])

	code, updated := doJSON(t, router, http.MethodPut, "/api/students/"+id, alice, gin.H{
		"name": "Update Test Student", "age": 21, "branch": "Computer Science",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, created["created_at"], updated["created_at"])
	assert.Equal(t, "admin@example.com", updated["created_by"])
	assert.Equal(t, "alice@example.com", updated["updated_by"])

	createdAt, err := time.Parse(time.RFC3339Nano, updated["created_at"].(string))
	require.NoError(t, err)
	updatedAt, err := time.Parse(time.RFC3339Nano, updated["updated_at"].(string))
	require.NoError(t, err)
	assert.True(t, updatedAt.After(createdAt))

	code, fetched := doJSON(t, router, http.MethodGet, "/api/students/"+id, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 21, fetched["age"])

	code, _ = doJSON(t, router, http.MethodDelete, "/api/students/"+id, admin, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = doJSON(t, router, http.MethodGet, "/api/students/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestVolunteerAndDonorRoutes(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "admin@example.com")

	code, _ := doJSON(t, router, http.MethodPost, "/api/volunteers", token, gin.H{"name": "V"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, v := doJSON(t, router, http.MethodPost, "/api/volunteers", token, gin.H{
		"name": "Test Volunteer", "contact": "9876543210", "availability": "Weekends",
	})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Weekends", v["availability"])

	code, d := doJSON(t, router, http.MethodPost, "/api/donors", token, gin.H{
		"name": "Acme", "contact": "555", "amount": 250,
	})
	require.Equal(t, http.StatusCreated, code)
	assert.EqualValues(t, 250, d["amount"])

	req := httptest.NewRequest(http.MethodGet, "/api/donors", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var donors []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &donors))
	require.Len(t, donors, 1)
	assert.Equal(t, "admin@example.com", donors[0]["created_by"])

	code, _ = doJSON(t, router, http.MethodPut, "/api/donors/missing", token, gin.H{"name": "x", "contact": "y"})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestMeRoutes(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "demo@example.com")

	code, me := doJSON(t, router, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "demo@example.com", me["email"])

	code, updated := doJSON(t, router, http.MethodPut, "/api/me", token, gin.H{"name": "Updated Demo User"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Updated Demo User", updated["name"])
	assert.Equal(t, me["created_at"], updated["created_at"])
	assert.NotEqual(t, me["updated_at"], updated["updated_at"])
	assert.Equal(t, "demo@example.com", updated["updated_by"])
}

func TestExportRoutesAbsentWithoutService(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "demo@example.com")

	code, _ := doJSON(t, router, http.MethodPost, "/api/exports", token, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestDeleteUser_OnlyOwnAccount(t *testing.T) {
	router := newTestRouter(t)
	alice := registerAndLogin(t, router, "alice@example.com")
	bob := registerAndLogin(t, router, "bob@example.com")

	code, aliceMe := doJSON(t, router, http.MethodGet, "/api/me", alice, nil)
	require.Equal(t, http.StatusOK, code)
	aliceID := aliceMe["id"].(string)

	code, _ = doJSON(t, router, http.MethodDelete, "/api/users/"+aliceID, bob, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = doJSON(t, router, http.MethodGet, "/api/me", alice, nil)
	assert.Equal(t, http.StatusOK, code)

	code, deleted := doJSON(t, router, http.MethodDelete, "/api/users/"+aliceID, alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, aliceID, deleted["deleted"])

	code, _ = doJSON(t, router, http.MethodGet, "/api/me", alice, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRegister_ActorIsNormalisedEmail(t *testing.T) {
	router := newTestRouter(t)

	code, body := doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "  Foo@Example.COM ", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "foo@example.com", body["email"])
	assert.Equal(t, body["email"], body["created_by"])
	assert.Equal(t, body["email"], body["updated_by"])
}
