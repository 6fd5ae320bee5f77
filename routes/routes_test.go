package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"code-review-api/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

type apiClient struct {
	t      *testing.T
	router http.Handler
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, models.AutoMigrate(db))

	router := NewRouter(Deps{
		DB:             db,
		Logger:         zap.NewNop(),
		JWTSecret:      "routes-test-secret",
		JWTExpireHours: 1,
		BcryptCost:     bcrypt.MinCost,
	})
	return &apiClient{t: t, router: router}
}

func (a *apiClient) do(method, path, token string, body interface{}) (int, envelope) {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v), string(env.Data))
	return v
}

// signup registers a user and logs in, returning the user and bearer token.
func (a *apiClient) signup(name string, role models.Role) (models.User, string) {
	a.t.Helper()
	email := fmt.Sprintf("%s@example.com", name)

	code, env := a.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": name, "email": email, "password": "secret1", "role": role,
	})
	require.Equal(a.t, http.StatusCreated, code, env.Error)

	code, env = a.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": email, "password": "secret1"})
	require.Equal(a.t, http.StatusOK, code, env.Error)
	login := decode[struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}](a.t, env)
	require.NotEmpty(a.t, login.Token)
	return login.User, login.Token
}

func TestHealthAndAuthBoundary(t *testing.T) {
	api := newAPI(t)

	code, _ := api.do(http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, code)

	code, env := api.do(http.MethodGet, "/api/v1/projects", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, env.Success)

	user, token := api.signup("ada", models.RoleSubmitter)

	code, env = api.do(http.MethodGet, "/api/v1/auth/current", token, nil)
	require.Equal(t, http.StatusOK, code)
	current := decode[models.User](t, env)
	assert.Equal(t, user.ID, current.ID)

	code, env = api.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": "Ada Again", "email": "ADA@example.com", "password": "secret1", "role": "submitter",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "User with this email already exists", env.Error)

	code, _ = api.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "ada@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env = api.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": "Eve", "email": "eve@example.com", "password": "secret1", "role": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotEmpty(t, env.Error)
}

func TestReviewWorkflowOverHTTP(t *testing.T) {
	api := newAPI(t)
	_, ownerToken := api.signup("owner", models.RoleSubmitter)
	member, memberToken := api.signup("member", models.RoleSubmitter)
	reviewer, reviewerToken := api.signup("reviewer", models.RoleReviewer)
	_, strangerToken := api.signup("stranger", models.RoleSubmitter)

	code, env := api.do(http.MethodPost, "/api/v1/projects", ownerToken, gin.H{"name": "Parser", "description": "PEG parser"})
	require.Equal(t, http.StatusCreated, code, env.Error)
	project := decode[models.Project](t, env)

	code, env = api.do(http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/members", project.ID), ownerToken, gin.H{"user_id": member.ID})
	require.Equal(t, http.StatusCreated, code, env.Error)

	code, _ = api.do(http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/members", project.ID), ownerToken, gin.H{"user_id": member.ID})
	assert.Equal(t, http.StatusConflict, code)

	// Scenario: non-member submission is forbidden.
	code, _ = api.do(http.MethodPost, "/api/v1/submissions", strangerToken, gin.H{"project_id": project.ID, "code": "x"})
	assert.Equal(t, http.StatusForbidden, code)

	code, env = api.do(http.MethodPost, "/api/v1/submissions", memberToken, gin.H{"project_id": project.ID, "code": "func parse() {}"})
	require.Equal(t, http.StatusCreated, code, env.Error)
	submission := decode[models.Submission](t, env)
	assert.Equal(t, models.StatusPending, submission.Status)
	subPath := fmt.Sprintf("/api/v1/submissions/%d", submission.ID)

	// A non-owner, non-reviewer cannot force the status.
	code, _ = api.do(http.MethodPatch, subPath+"/status", memberToken, gin.H{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, code)

	code, env = api.do(http.MethodPost, subPath+"/approve", reviewerToken, gin.H{"comment": "LGTM"})
	require.Equal(t, http.StatusCreated, code, env.Error)
	result := decode[struct {
		Review     models.Review     `json:"review"`
		Submission models.Submission `json:"submission"`
	}](t, env)
	assert.Equal(t, models.DecisionApproved, result.Review.Decision)
	assert.Equal(t, "LGTM", result.Review.Comment)
	require.NotNil(t, result.Review.ReviewerID)
	assert.Equal(t, reviewer.ID, *result.Review.ReviewerID)
	assert.Equal(t, models.StatusApproved, result.Submission.Status)

	code, env = api.do(http.MethodPost, subPath+"/request-changes", ownerToken, nil)
	require.Equal(t, http.StatusCreated, code, env.Error)

	code, env = api.do(http.MethodGet, subPath+"/reviews", strangerToken, nil)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, env.Count)
	assert.Equal(t, 2, *env.Count)

	code, env = api.do(http.MethodGet, subPath, strangerToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.StatusUnderReview, decode[models.Submission](t, env).Status)

	// Comments: reviewer only, ordered by line.
	code, _ = api.do(http.MethodPost, subPath+"/comments", memberToken, gin.H{"line_number": 1, "content": "self note"})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = api.do(http.MethodPost, subPath+"/comments", reviewerToken, gin.H{"line_number": 0, "content": "bad line"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = api.do(http.MethodPost, subPath+"/comments", reviewerToken, gin.H{"line_number": 2, "content": "second"})
	require.Equal(t, http.StatusCreated, code)
	code, env = api.do(http.MethodPost, subPath+"/comments", reviewerToken, gin.H{"line_number": 1, "content": "fix this typo"})
	require.Equal(t, http.StatusCreated, code)
	first := decode[models.Comment](t, env)

	code, env = api.do(http.MethodGet, subPath+"/comments", memberToken, nil)
	require.Equal(t, http.StatusOK, code)
	thread := decode[[]models.Comment](t, env)
	require.Len(t, thread, 2)
	assert.Equal(t, first.ID, thread[0].ID)

	code, env = api.do(http.MethodGet, subPath+"/comments/line/1", memberToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]models.Comment](t, env), 1)

	code, env = api.do(http.MethodGet, subPath+"/history", memberToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]models.SubmissionStatusHistory](t, env), 2)

	code, env = api.do(http.MethodGet, "/api/v1/reviews/stats", reviewerToken, nil)
	require.Equal(t, http.StatusOK, code)
	stats := decode[models.ReviewerStats](t, env)
	assert.Equal(t, int64(1), stats.ApprovedCount)

	// Deleting the submission takes its comments with it.
	code, _ = api.do(http.MethodDelete, subPath, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = api.do(http.MethodDelete, subPath, ownerToken, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = api.do(http.MethodGet, fmt.Sprintf("/api/v1/comments/%d", first.ID), reviewerToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = api.do(http.MethodGet, fmt.Sprintf("/api/v1/reviews/%d", result.Review.ID), reviewerToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestPathAndBodyErrors(t *testing.T) {
	api := newAPI(t)
	_, token := api.signup("checker", models.RoleReviewer)

	code, env := api.do(http.MethodGet, "/api/v1/submissions/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)

	code, _ = api.do(http.MethodGet, "/api/v1/projects/0", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = api.do(http.MethodGet, "/api/v1/reviews/77", token, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = api.do(http.MethodGet, "/api/v1/submissions/status/unknown", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = api.do(http.MethodGet, "/api/v1/submissions/status/under-review", token, nil)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, env.Count)
	assert.Zero(t, *env.Count)

	code, _ = api.do(http.MethodGet, "/api/v1/users/role/admin", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = api.do(http.MethodGet, "/api/v1/nowhere", token, nil)
	assert.Equal(t, http.StatusNotFound, code)
}
