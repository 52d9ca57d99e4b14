package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dawan/studentprojects/internal/app/controllers"
	"github.com/dawan/studentprojects/internal/app/repositories"
	"github.com/dawan/studentprojects/internal/app/services"
	"github.com/dawan/studentprojects/internal/db"
	"github.com/dawan/studentprojects/internal/db/memdb"
	"github.com/dawan/studentprojects/internal/middleware"
	"github.com/dawan/studentprojects/internal/pkg/auth"
	"github.com/dawan/studentprojects/internal/pkg/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	auth.BcryptCost = bcrypt.MinCost
	require.NoError(t, validation.RegisterCustomValidations())

	sessions := db.NewSessionProvider(memdb.New(), db.WithMaxAttempts(1))
	t.Cleanup(sessions.Close)
	repos := repositories.NewRepositories(sessions)

	jwtService, err := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		Algorithm:      "HS256",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "test",
	})
	require.NoError(t, err)

	log := zerolog.Nop()
	authService := services.NewAuthService(repos.UserRepository, jwtService, log)
	projectService := services.NewProjectService(repos.ProjectRepository)
	studentService := services.NewStudentService(repos.StudentRepository)

	router := gin.New()
	router.Use(middleware.Recovery(log), middleware.SecurityHeaders())
	SetupRouter(router, Controllers{
		Auth:    controllers.NewAuthController(authService, log),
		Project: controllers.NewProjectController(projectService, studentService, log),
		Student: controllers.NewStudentController(studentService, log),
		Health:  controllers.NewHealthController(services.NewHealthService(sessions, time.Second)),
	}, middleware.NewAuthMiddleware(authService))
	return router
}

type client struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func (c *client) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// login registers jdoe and logs in with a form body
func login(t *testing.T, router *gin.Engine) *client {
	t.Helper()
	c := &client{t: t, router: router}

	w := c.do(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": "jdoe", "email": "jdoe@example.com", "password": "s3cret-pass",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "User registered successfully", decode(t, w)["message"])

	form := url.Values{"username": {"jdoe"}, "password": {"s3cret-pass"}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	lw := httptest.NewRecorder()
	router.ServeHTTP(lw, req)
	require.Equal(t, http.StatusOK, lw.Code, lw.Body.String())

	body := decode(t, lw)
	assert.Equal(t, "bearer", body["token_type"])
	c.token = body["access_token"].(string)
	return c
}

func TestPublicEndpoints(t *testing.T) {
	router := newTestRouter(t)
	c := &client{t: t, router: router}

	w := c.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "World", decode(t, w)["Hello"])
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))

	w = c.do(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "up", decode(t, w)["database"])
}

func TestAuthFlow(t *testing.T) {
	router := newTestRouter(t)
	c := login(t, router)

	w := c.do(http.MethodGet, "/api/v1/auth/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jdoe", decode(t, w)["username"])

	w = c.do(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": "jdoe", "email": "other@example.com", "password": "s3cret-pass",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = c.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "jdoe", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))

	w = c.do(http.MethodPost, "/api/v1/auth/register", map[string]string{"username": "x", "email": "bad", "password": "short"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	detail, ok := decode(t, w)["detail"].([]interface{})
	require.True(t, ok)
	assert.Len(t, detail, 3)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)
	c := &client{t: t, router: router}

	w := c.do(http.MethodGet, "/api/v1/projects", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c.token = "not-a-jwt"
	w = c.do(http.MethodGet, "/api/v1/students", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Could not validate credentials", decode(t, w)["detail"])
}

func TestProjectAndStudentCRUD(t *testing.T) {
	router := newTestRouter(t)
	c := login(t, router)

	w := c.do(http.MethodPost, "/api/v1/projects", map[string]string{"p_name": "Apollo", "p_head": "Kim"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	pid := decode(t, w)["p_id"].(string)

	w = c.do(http.MethodPost, "/api/v1/students", map[string]string{
		"s_name": "Alice", "s_course": "Math", "s_branch": "A", "s_project_id": pid,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sid := decode(t, w)["s_id"].(string)

	w = c.do(http.MethodPut, "/api/v1/students/"+sid, map[string]string{"s_course": "CS"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	student := decode(t, w)
	assert.Equal(t, "Alice", student["s_name"])
	assert.Equal(t, "CS", student["s_course"])

	w = c.do(http.MethodPut, "/api/v1/students/"+sid, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.do(http.MethodGet, "/api/v1/projects/"+pid+"/students?size=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode(t, w)
	assert.Equal(t, float64(1), page["total"])
	assert.Equal(t, float64(5), page["size"])

	w = c.do(http.MethodGet, "/api/v1/students?q=Alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["total"])

	w = c.do(http.MethodGet, "/api/v1/projects?size=101", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Pages far past the end stay empty instead of wrapping to the first page
	for _, size := range []string{"3", "4"} {
		w = c.do(http.MethodGet, "/api/v1/students?page=4611686018427387905&size="+size, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		body := decode(t, w)
		assert.Equal(t, float64(1), body["total"])
		assert.Empty(t, body["items"])
	}

	w = c.do(http.MethodDelete, "/api/v1/projects/"+pid, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Project deleted", decode(t, w)["message"])

	// Students keep the dangling reference
	w = c.do(http.MethodGet, "/api/v1/students/"+sid, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, pid, decode(t, w)["s_project_id"])

	w = c.do(http.MethodDelete, "/api/v1/students/"+sid, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Student deleted", decode(t, w)["message"])

	w = c.do(http.MethodGet, "/api/v1/students/"+sid, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, decode(t, w)["detail"], sid)
}
