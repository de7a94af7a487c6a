package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/complaint-portal/internal/api/http/handlers"
	"github.com/spec-kit/complaint-portal/internal/auth"
	"github.com/spec-kit/complaint-portal/internal/config"
	"github.com/spec-kit/complaint-portal/internal/domain"
	"github.com/spec-kit/complaint-portal/internal/observability"
	"github.com/spec-kit/complaint-portal/internal/persistence"
	"github.com/spec-kit/complaint-portal/internal/repository"
	"github.com/spec-kit/complaint-portal/internal/service"
)

// -------- in-memory repositories --------

type memUserRepo struct {
	byEmail map[string]*domain.User
	nextID  int
}

func (m *memUserRepo) Create(_ context.Context, user *domain.User) error {
	m.nextID++
	user.ID = "user-" + strconv.Itoa(m.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.byEmail[user.Email] = user
	return nil
}

func (m *memUserRepo) UpdatePasswordHash(_ context.Context, email, hash string) error {
	user, ok := m.byEmail[email]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordHash = hash
	user.UpdatedAt = time.Now()
	return nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := m.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, user := range m.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type memComplaintRepo struct {
	byID   map[string]*domain.Complaint
	nextID int
	clock  time.Time
}

func (m *memComplaintRepo) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memComplaintRepo) Create(_ context.Context, complaint *domain.Complaint) error {
	m.nextID++
	complaint.ID = "complaint-" + strconv.Itoa(m.nextID)
	complaint.CreatedAt = m.tick()
	complaint.UpdatedAt = complaint.CreatedAt
	stored := *complaint
	m.byID[complaint.ID] = &stored
	return nil
}

func (m *memComplaintRepo) UpdateStatus(_ context.Context, id string, status domain.ComplaintStatus) (*domain.Complaint, error) {
	complaint, ok := m.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	complaint.Status = status
	complaint.UpdatedAt = m.tick()
	result := *complaint
	return &result, nil
}

func (m *memComplaintRepo) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	complaint, ok := m.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	result := *complaint
	return &result, nil
}

func (m *memComplaintRepo) ListAll(_ context.Context) ([]domain.Complaint, error) {
	result := make([]domain.Complaint, 0, len(m.byID))
	for _, complaint := range m.byID {
		result = append(result, *complaint)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

type memResetRepo struct {
	byToken map[string]*repository.PasswordResetToken
	nextID  int
}

func (m *memResetRepo) Create(_ context.Context, token *repository.PasswordResetToken) error {
	m.nextID++
	token.ID = "reset-" + strconv.Itoa(m.nextID)
	token.CreatedAt = time.Now()
	m.byToken[token.Token] = token
	return nil
}

func (m *memResetRepo) GetByToken(_ context.Context, tokenStr string) (*repository.PasswordResetToken, error) {
	token, ok := m.byToken[tokenStr]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return token, nil
}

func (m *memResetRepo) MarkUsed(_ context.Context, id string) error {
	for _, token := range m.byToken {
		if token.ID == id {
			now := time.Now()
			token.UsedAt = &now
			return nil
		}
	}
	return pgx.ErrNoRows
}

// -------- app wiring --------

func newTestApp() *fiber.App {
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret",
			AccessTokenTTLMinutes:   60,
			PasswordResetTTLMinutes: 30,
			BcryptCost:              bcrypt.MinCost,
		},
	}

	users := &memUserRepo{byEmail: make(map[string]*domain.User)}
	complaints := &memComplaintRepo{
		byID:  make(map[string]*domain.Complaint),
		clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	resets := &memResetRepo{byToken: make(map[string]*repository.PasswordResetToken)}

	identityService := service.NewIdentityService(cfg, service.IdentityDependencies{
		UserRepo:          users,
		PasswordResetRepo: resets,
	})
	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		ComplaintRepo: complaints,
		UserRepo:      users,
	})

	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("test", "dev", &persistence.Postgres{}, &persistence.Redis{}),
		Auth:           handlers.NewAuthHandler(identityService),
		Complaints:     handlers.NewComplaintsHandler(complaintService),
		AuthMiddleware: auth.NewMiddleware(identityService.TokenManager()),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		decoded = nil
	}
	return resp.StatusCode, decoded
}

// -------- tests --------

func TestRegisterLoginComplaintLifecycle(t *testing.T) {
	t.Parallel()
	app := newTestApp()

	status, body := doJSON(t, app, http.MethodPost, "/api/register", "", map[string]string{
		"username": "alice", "email": "a@x.com", "password": "pw1",
	})
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, "User registered successfully", body["message"])

	// Duplicate email fails no matter the other fields.
	status, body = doJSON(t, app, http.MethodPost, "/api/register", "", map[string]string{
		"username": "bob", "email": "a@x.com", "password": "pw2",
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "email already exists", body["error"])

	status, body = doJSON(t, app, http.MethodPost, "/api/login", "", map[string]string{
		"email": "a@x.com", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "invalid email or password", body["error"])

	status, body = doJSON(t, app, http.MethodPost, "/api/login", "", map[string]string{
		"email": "a@x.com", "password": "pw1",
	})
	require.Equal(t, http.StatusOK, status)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	status, body = doJSON(t, app, http.MethodGet, "/api/user", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "alice", body["username"])
	require.Equal(t, "a@x.com", body["email"])

	// Complaint endpoints require a token.
	status, body = doJSON(t, app, http.MethodPost, "/api/create", "", map[string]string{"text": "x"})
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "token not available", body["error"])

	status, _ = doJSON(t, app, http.MethodPost, "/api/create", token, map[string]string{"text": ""})
	require.Equal(t, http.StatusBadRequest, status)

	status, body = doJSON(t, app, http.MethodPost, "/api/create", token, map[string]string{
		"text": "broken widget",
	})
	require.Equal(t, http.StatusCreated, status)
	complaint, _ := body["complaint"].(map[string]any)
	require.NotNil(t, complaint)
	require.Equal(t, "pending", complaint["process_status"])
	require.NotEmpty(t, complaint["user_id"])
	complaintID, _ := complaint["id"].(string)
	createdAt := complaint["createdAt"]

	status, body = doJSON(t, app, http.MethodPut, "/api/update-status", token, map[string]string{
		"id": complaintID, "process_status": "resolved",
	})
	require.Equal(t, http.StatusOK, status)
	updated, _ := body["complaint"].(map[string]any)
	require.Equal(t, "resolved", updated["process_status"])
	require.Equal(t, createdAt, updated["createdAt"])
	require.NotEqual(t, updated["createdAt"], updated["updatedAt"])
}

func TestListComplaintsNewestFirst(t *testing.T) {
	t.Parallel()
	app := newTestApp()

	_, _ = doJSON(t, app, http.MethodPost, "/api/register", "", map[string]string{
		"username": "alice", "email": "a@x.com", "password": "pw1",
	})
	_, body := doJSON(t, app, http.MethodPost, "/api/login", "", map[string]string{
		"email": "a@x.com", "password": "pw1",
	})
	token, _ := body["token"].(string)

	var ids []string
	for _, text := range []string{"first", "second", "third"} {
		_, created := doJSON(t, app, http.MethodPost, "/api/create", token, map[string]string{"text": text})
		complaint, _ := created["complaint"].(map[string]any)
		id, _ := complaint["id"].(string)
		ids = append(ids, id)
	}

	status, body := doJSON(t, app, http.MethodGet, "/api/complaints", token, nil)
	require.Equal(t, http.StatusOK, status)
	listed, _ := body["complaints"].([]any)
	require.Len(t, listed, 3)
	for i, want := range []string{ids[2], ids[1], ids[0]} {
		complaint, _ := listed[i].(map[string]any)
		require.Equal(t, want, complaint["id"])
	}
}

func TestUpdateStatusFailureShapes(t *testing.T) {
	t.Parallel()
	app := newTestApp()

	_, _ = doJSON(t, app, http.MethodPost, "/api/register", "", map[string]string{
		"username": "alice", "email": "a@x.com", "password": "pw1",
	})
	_, body := doJSON(t, app, http.MethodPost, "/api/login", "", map[string]string{
		"email": "a@x.com", "password": "pw1",
	})
	token, _ := body["token"].(string)

	status, _ := doJSON(t, app, http.MethodPut, "/api/update-status", token, map[string]string{
		"id": "", "process_status": "resolved",
	})
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, app, http.MethodPut, "/api/update-status", token, map[string]string{
		"id": "complaint-1", "process_status": "bogus",
	})
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, app, http.MethodPut, "/api/update-status", token, map[string]string{
		"id": "complaint-999", "process_status": "resolved",
	})
	require.Equal(t, http.StatusNotFound, status)
}

func TestDirectPasswordResetEndpoint(t *testing.T) {
	t.Parallel()
	app := newTestApp()

	_, _ = doJSON(t, app, http.MethodPost, "/api/register", "", map[string]string{
		"username": "alice", "email": "a@x.com", "password": "pw1",
	})

	status, _ := doJSON(t, app, http.MethodPost, "/api/forget", "", map[string]string{
		"email": "nobody@x.com", "newpassword": "newpw",
	})
	require.Equal(t, http.StatusNotFound, status)

	status, body := doJSON(t, app, http.MethodPost, "/api/forget", "", map[string]string{
		"email": "a@x.com", "newpassword": "newpw",
	})
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, "new Password updated", body["message"])

	status, _ = doJSON(t, app, http.MethodPost, "/api/login", "", map[string]string{
		"email": "a@x.com", "password": "newpw",
	})
	require.Equal(t, http.StatusOK, status)
	status, _ = doJSON(t, app, http.MethodPost, "/api/login", "", map[string]string{
		"email": "a@x.com", "password": "pw1",
	})
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestHealthLive(t *testing.T) {
	t.Parallel()
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
