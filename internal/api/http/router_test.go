package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/resolveit/complaint-service/internal/api/http/handlers"
	"github.com/resolveit/complaint-service/internal/auth"
	"github.com/resolveit/complaint-service/internal/config"
	"github.com/resolveit/complaint-service/internal/domain"
	"github.com/resolveit/complaint-service/internal/events"
	"github.com/resolveit/complaint-service/internal/mail"
	"github.com/resolveit/complaint-service/internal/observability"
	"github.com/resolveit/complaint-service/internal/persistence"
	"github.com/resolveit/complaint-service/internal/repository/memory"
	"github.com/resolveit/complaint-service/internal/service"
)

type nullOutbox struct{}

func (nullOutbox) Enqueue(mail.Message) {}

type apiFixture struct {
	app   *fiber.App
	users *memory.UserStore
	auth  *service.AuthService
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	users := memory.NewUserStore()
	complaints := memory.NewComplaintStore()
	history := memory.NewStatusHistoryStore()
	notes := memory.NewInternalNoteStore()
	resets := memory.NewPasswordResetStore()

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret",
			AccessTokenTTLMinutes:   60,
			PasswordResetTTLMinutes: 30,
			BcryptCost:              4,
		},
	}

	dispatcher := events.NewInMemoryDispatcher()
	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		ComplaintRepo: complaints,
		HistoryRepo:   history,
		NoteRepo:      notes,
		UserRepo:      users,
		Dispatcher:    dispatcher,
	})
	authService := service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo:          users,
		PasswordResetRepo: resets,
		Outbox:            nullOutbox{},
	})
	statsService := service.NewStatsService(service.StatsDependencies{
		ComplaintRepo: complaints,
		Logger:        zap.NewNop(),
	})

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:          handlers.NewHealthHandler("test", "dev", &persistence.Postgres{}, &persistence.Redis{}),
		Users:           handlers.NewUsersHandler(authService),
		Complaints:      handlers.NewComplaintsHandler(complaintService),
		StaffComplaints: handlers.NewStaffComplaintsHandler(complaintService, statsService),
		AuthMiddleware:  auth.NewAuthMiddleware(authService.TokenManager(), users),
	})

	return &apiFixture{app: app, users: users, auth: authService}
}

func (f *apiFixture) registerUser(t *testing.T, email string, role domain.UserRole) (string, string) {
	t.Helper()
	user, token, _, err := f.auth.Register(context.Background(), "Test", "User", email, "password!")
	require.NoError(t, err)
	if role != domain.RoleUser {
		user.Role = role
		require.NoError(t, f.users.Update(context.Background(), user))
	}
	return user.ID, token
}

func (f *apiFixture) request(t *testing.T, method, path, token string, payload any) *nethttp.Response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req, err := nethttp.NewRequest(method, path, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func decodeData(t *testing.T, resp *nethttp.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func TestHealthLive(t *testing.T) {
	fixture := newAPIFixture(t)
	resp := fixture.request(t, nethttp.MethodGet, "/health/live", "", nil)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
}

func TestComplaintEndpointsRequireAuth(t *testing.T) {
	fixture := newAPIFixture(t)
	resp := fixture.request(t, nethttp.MethodGet, "/complaints", "", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
}

func TestCreateAndFetchComplaint(t *testing.T) {
	fixture := newAPIFixture(t)
	_, token := fixture.registerUser(t, "ada@example.com", domain.RoleUser)

	resp := fixture.request(t, nethttp.MethodPost, "/complaints", token, fiber.Map{
		"title":       "Router offline",
		"description": "No uplink since morning.",
		"category":    "TECHNICAL",
		"priority":    "HIGH",
	})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)

	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decodeData(t, resp, &created)
	assert.Equal(t, "SUBMITTED", created.Status)

	resp = fixture.request(t, nethttp.MethodGet, "/complaints/"+created.ID, token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	var detail struct {
		ID      string `json:"id"`
		History []struct {
			Notes string `json:"notes"`
		} `json:"history"`
	}
	decodeData(t, resp, &detail)
	assert.Equal(t, created.ID, detail.ID)
	require.Len(t, detail.History, 1)
	assert.Equal(t, "Complaint submitted", detail.History[0].Notes)
}

func TestCreateComplaintValidation(t *testing.T) {
	fixture := newAPIFixture(t)
	_, token := fixture.registerUser(t, "ada@example.com", domain.RoleUser)

	resp := fixture.request(t, nethttp.MethodPost, "/complaints", token, fiber.Map{
		"title":       "",
		"description": "whatever",
		"category":    "TECHNICAL",
	})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	resp = fixture.request(t, nethttp.MethodPost, "/complaints", token, fiber.Map{
		"title":       "ok",
		"description": "whatever",
		"category":    "NOT_A_CATEGORY",
	})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
}

func TestUserCannotReadForeignComplaint(t *testing.T) {
	fixture := newAPIFixture(t)
	_, ownerToken := fixture.registerUser(t, "owner@example.com", domain.RoleUser)
	_, strangerToken := fixture.registerUser(t, "stranger@example.com", domain.RoleUser)

	resp := fixture.request(t, nethttp.MethodPost, "/complaints", ownerToken, fiber.Map{
		"title":       "Private matter",
		"description": "Details inside.",
		"category":    "GENERAL",
	})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	var created struct {
		ID string `json:"id"`
	}
	decodeData(t, resp, &created)

	resp = fixture.request(t, nethttp.MethodGet, "/complaints/"+created.ID, strangerToken, nil)
	assert.Equal(t, nethttp.StatusForbidden, resp.StatusCode)
}

func TestStaffWorkflowOverHTTP(t *testing.T) {
	fixture := newAPIFixture(t)
	_, userToken := fixture.registerUser(t, "ada@example.com", domain.RoleUser)
	staffID, staffToken := fixture.registerUser(t, "grace@example.com", domain.RoleStaff)

	resp := fixture.request(t, nethttp.MethodPost, "/complaints", userToken, fiber.Map{
		"title":       "Duplicate charge",
		"description": "Charged twice.",
		"category":    "BILLING",
	})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	var created struct {
		ID string `json:"id"`
	}
	decodeData(t, resp, &created)

	// Regular users cannot reach staff routes.
	resp = fixture.request(t, nethttp.MethodGet, "/staff/complaints", userToken, nil)
	assert.Equal(t, nethttp.StatusForbidden, resp.StatusCode)

	resp = fixture.request(t, nethttp.MethodPatch, fmt.Sprintf("/staff/complaints/%s/assign", created.ID), staffToken, fiber.Map{
		"assignee_id": staffID,
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	var assigned struct {
		Status string `json:"status"`
	}
	decodeData(t, resp, &assigned)
	assert.Equal(t, "IN_PROGRESS", assigned.Status)

	resp = fixture.request(t, nethttp.MethodPatch, fmt.Sprintf("/staff/complaints/%s/status", created.ID), staffToken, fiber.Map{
		"status":     "RESOLVED",
		"notes":      "refund issued",
		"resolution": "Second charge refunded.",
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	resp = fixture.request(t, nethttp.MethodGet, fmt.Sprintf("/staff/complaints/%s/history", created.ID), staffToken, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	var history []struct {
		Status string `json:"status"`
	}
	decodeData(t, resp, &history)
	require.Len(t, history, 3)
	assert.Equal(t, "RESOLVED", history[2].Status)

	resp = fixture.request(t, nethttp.MethodGet, "/staff/stats/dashboard", staffToken, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	var dashboard struct {
		Total    int64 `json:"total"`
		Resolved int64 `json:"resolved"`
	}
	decodeData(t, resp, &dashboard)
	assert.Equal(t, int64(1), dashboard.Total)
	assert.Equal(t, int64(1), dashboard.Resolved)
}

func TestUnknownComplaintReturns404(t *testing.T) {
	fixture := newAPIFixture(t)
	_, staffToken := fixture.registerUser(t, "grace@example.com", domain.RoleStaff)

	resp := fixture.request(t, nethttp.MethodPatch, "/staff/complaints/missing/status", staffToken, fiber.Map{
		"status": "RESOLVED",
	})
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
}

func TestAdminDelete(t *testing.T) {
	fixture := newAPIFixture(t)
	_, userToken := fixture.registerUser(t, "ada@example.com", domain.RoleUser)
	_, staffToken := fixture.registerUser(t, "grace@example.com", domain.RoleStaff)
	_, adminToken := fixture.registerUser(t, "root@example.com", domain.RoleAdmin)

	resp := fixture.request(t, nethttp.MethodPost, "/complaints", userToken, fiber.Map{
		"title":       "To be removed",
		"description": "Filed by mistake.",
		"category":    "GENERAL",
	})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	var created struct {
		ID string `json:"id"`
	}
	decodeData(t, resp, &created)

	// Staff may not delete; only admins.
	resp = fixture.request(t, nethttp.MethodDelete, "/admin/complaints/"+created.ID, staffToken, nil)
	assert.Equal(t, nethttp.StatusForbidden, resp.StatusCode)

	resp = fixture.request(t, nethttp.MethodDelete, "/admin/complaints/"+created.ID, adminToken, nil)
	assert.Equal(t, nethttp.StatusNoContent, resp.StatusCode)

	resp = fixture.request(t, nethttp.MethodGet, "/complaints/"+created.ID, userToken, nil)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
}
