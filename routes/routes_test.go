package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"empresspc/auth"
	"empresspc/handlers"
	"empresspc/metrics"
	"empresspc/models"
	"empresspc/repository"
	"empresspc/repository/memory"
	"empresspc/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRenderer struct{}

func (stubRenderer) RenderPDF(context.Context, string) ([]byte, error) {
	return []byte("%PDF-1.4 stub"), nil
}

type testServer struct {
	t     *testing.T
	srv   *httptest.Server
	users *services.UserService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	st := memory.New()
	log := zap.NewNop()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	require.NoError(t, st.SaveInitial(context.Background(), &models.InitialSetup{CompanyName: "EmpressPC"}))
	enforcer, err := auth.NewEnforcer()
	require.NoError(t, err)

	quotations := services.NewQuotationService(st, st, st, st, m, log)
	users := services.NewUserService(st, auth.NewTokenManager("test-secret", time.Hour), nil, log)
	pdfs := services.NewPDFService(quotations, repository.NewPDFRepository(st, st), stubRenderer{}, nil, m, log)

	router := SetupRoutes(Handlers{
		Users:      &handlers.UserHandler{Users: users, Log: log},
		Quotations: &handlers.QuotationHandler{Quotations: quotations, Log: log},
		Parties:    &handlers.PartyHandler{Parties: services.NewPartyService(st), Log: log},
		Components: &handlers.ComponentHandler{Components: services.NewComponentService(st, log), Log: log},
		Initial:    &handlers.InitialHandler{Repo: st, Log: log},
		PDF:        &handlers.PDFHandler{PDFs: pdfs, Log: log},
	}, Options{
		Auth:     users,
		Enforcer: enforcer,
		Log:      log,
		Metrics:  m,
		Gatherer: reg,
		Ping:     st.Ping,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testServer{t: t, srv: srv, users: users}
}

func (s *testServer) register(username string, role models.Role) *models.AppUser {
	s.t.Helper()
	u, err := s.users.Register(context.Background(), services.RegisterInput{
		Username: username, Email: username + "@empresspc.in", Password: "secret123", Name: username, Role: role,
	})
	require.NoError(s.t, err)
	return u
}

func (s *testServer) login(username string) string {
	s.t.Helper()
	var res services.LoginResult
	status := s.do(http.MethodPost, "/auth/login", "", map[string]string{"username": username, "password": "secret123"}, &res)
	require.Equal(s.t, http.StatusOK, status)
	return res.Token
}

func (s *testServer) do(method, path, token string, body, out any) int {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.srv.URL+path, &buf)
	require.NoError(s.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		require.NoError(s.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func quotationBody(grand float64, price float64) map[string]any {
	return map[string]any{
		"customerDetails": map[string]any{"name": "Rahul Computers", "phone": "9876543210"},
		"items": []map[string]any{{
			"id": "1", "category": "Processors", "component": "AMD Ryzen 5 5600X",
			"quantity": 2, "sellingPrice": price, "gst": 18,
		}},
		"totals": map[string]any{"subtotal": price * 2, "totalGst": price * 2 * 0.18, "grandTotal": grand},
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/healthz", "", nil, nil))
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/metrics", "", nil, nil))
}

func TestAuthGate(t *testing.T) {
	s := newTestServer(t)
	s.register("alice", models.RoleStaff)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/quotations", "", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/quotations", "garbage", nil, nil))
	assert.Equal(t, http.StatusUnauthorized,
		s.do(http.MethodPost, "/auth/login", "", map[string]string{"username": "alice", "password": "nope"}, nil))
	assert.Equal(t, http.StatusBadRequest,
		s.do(http.MethodPost, "/auth/login", "", map[string]string{"username": "alice"}, nil))

	token := s.login("alice")
	var me models.UserSummary
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/auth/me", token, nil, &me))
	assert.Equal(t, "alice", me.Username)
	assert.Equal(t, models.RoleStaff, me.Role)
}

func TestDeactivatedAccountIsForbidden(t *testing.T) {
	s := newTestServer(t)
	s.register("root", models.RoleAdmin)
	alice := s.register("alice", models.RoleStaff)
	adminToken := s.login("root")
	aliceToken := s.login("alice")

	require.Equal(t, http.StatusOK,
		s.do(http.MethodPut, "/auth/users/"+alice.ID.Hex(), adminToken, map[string]any{"active": false}, nil))
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/quotations", aliceToken, nil, nil))
	assert.Equal(t, http.StatusForbidden,
		s.do(http.MethodPost, "/auth/login", "", map[string]string{"username": "alice", "password": "secret123"}, nil))
}

func TestRoleChecks(t *testing.T) {
	s := newTestServer(t)
	s.register("root", models.RoleAdmin)
	s.register("alice", models.RoleStaff)
	adminToken := s.login("root")
	staffToken := s.login("alice")

	component := map[string]any{"name": "Logitech C270 HD Webcam", "category": "Web Cameras", "price": 1499, "gst": 18}
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/components", staffToken, component, nil))
	assert.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/components", adminToken, component, nil))
	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/components", adminToken, component, nil))

	var catalog map[string][]models.CatalogEntry
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/components", staffToken, nil, &catalog))
	assert.Len(t, catalog["Web Cameras"], 1)

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/auth/users", staffToken, nil, nil))
	assert.Equal(t, http.StatusForbidden,
		s.do(http.MethodPost, "/initial", staffToken, map[string]any{"company_name": "X"}, nil))
	assert.Equal(t, http.StatusCreated,
		s.do(http.MethodPost, "/initial", adminToken, map[string]any{"company_name": "EmpressPC Pvt Ltd"}, nil))

	var profile models.InitialSetup
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/initial", staffToken, nil, &profile))
	assert.Equal(t, "EmpressPC Pvt Ltd", profile.CompanyName)
}

func TestBulkImport(t *testing.T) {
	s := newTestServer(t)
	s.register("root", models.RoleAdmin)
	token := s.login("root")

	assert.Equal(t, http.StatusBadRequest,
		s.do(http.MethodPost, "/components/bulk-import", token, map[string]any{"components": []any{}}, nil))

	var res models.BulkImportResult
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/components/bulk-import", token, map[string]any{
		"components": []map[string]any{
			{"name": "HP W200 Webcam", "category": "Web Cameras", "price": 999, "gst": 18},
			{"name": "", "category": "Web Cameras"},
		},
	}, &res))
	assert.Equal(t, 1, res.Success)
	assert.Len(t, res.Errors, 1)

	var cats []string
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/components/categories", token, nil, &cats))
	assert.Equal(t, []string{"Web Cameras"}, cats)
}

func TestQuotationLifecycle(t *testing.T) {
	s := newTestServer(t)
	s.register("alice", models.RoleStaff)
	s.register("bob", models.RoleStaff)
	alice := s.login("alice")
	bob := s.login("bob")

	var orig models.Quotation
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/quotations", alice, quotationBody(236, 100), &orig))
	assert.Equal(t, models.StatusDraft, orig.Status)
	path := "/quotations/" + orig.ID.Hex()

	var rev models.Quotation
	body := quotationBody(354, 150)
	body["status"] = "accepted"
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, path+"/revise", alice, body, &rev))
	require.NotNil(t, rev.RevisionNumber)
	assert.Equal(t, 1, *rev.RevisionNumber)
	assert.Equal(t, models.StatusDraft, rev.Status)
	assert.Equal(t, orig.QuotationNumber+"_R1", rev.QuotationNumber)

	var after models.Quotation
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, path, alice, nil, &after))
	assert.Equal(t, 236.0, after.Totals.GrandTotal)

	var chain []models.Quotation
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/quotations/revisions/"+rev.ID.Hex(), alice, nil, &chain))
	require.Len(t, chain, 2)
	assert.Equal(t, orig.ID, chain[0].ID)
	assert.Equal(t, rev.ID, chain[1].ID)

	assert.Equal(t, http.StatusBadRequest,
		s.do(http.MethodPatch, path+"/status", alice, map[string]string{"status": "cancelled"}, nil))
	var sent models.Quotation
	require.Equal(t, http.StatusOK,
		s.do(http.MethodPatch, path+"/status", alice, map[string]string{"status": "sent"}, &sent))
	assert.Equal(t, models.StatusSent, sent.Status)

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, path, bob, nil, nil))
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/quotations/"+rev.ID.Hex()[:12]+"000000000000", alice, nil, nil))
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/quotations/not-an-id", alice, nil, nil))

	var bobPage services.QuotationPage
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/quotations", bob, nil, &bobPage))
	assert.Empty(t, bobPage.Quotations)
	var drafts services.QuotationPage
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/quotations?status=draft", alice, nil, &drafts))
	assert.EqualValues(t, 1, drafts.Pagination.Total)

	var summary models.QuotationSummary
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/quotations/stats/summary", alice, nil, &summary))
	assert.Equal(t, 2, summary.TotalStats.Count)
	assert.Equal(t, 590.0, summary.TotalStats.TotalAmount)
	assert.Equal(t, 1, summary.RevisionStats.Revisions.Count)

	var bobSummary models.QuotationSummary
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/quotations/stats/summary", bob, nil, &bobSummary))
	assert.Equal(t, models.TotalStats{}, bobSummary.TotalStats)

	assert.Equal(t, http.StatusConflict, s.do(http.MethodDelete, path, alice, nil, nil))
}

func TestQuotationPDF(t *testing.T) {
	s := newTestServer(t)
	s.register("alice", models.RoleStaff)
	token := s.login("alice")

	var q models.Quotation
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/quotations", token, quotationBody(236, 100), &q))

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/quotations/%s/pdf", s.srv.URL, q.ID.Hex()), nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	// No object storage configured.
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/quotations/"+q.ID.Hex()+"/pdf?upload=true", token, nil, nil))
}

func TestPartiesAreOwnerScoped(t *testing.T) {
	s := newTestServer(t)
	s.register("alice", models.RoleStaff)
	s.register("bob", models.RoleStaff)
	alice := s.login("alice")
	bob := s.login("bob")

	var p models.Party
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/parties", alice,
		map[string]any{"name": "Sharma Traders", "phone": "9000000001", "type": "customer"}, &p))
	assert.Equal(t, models.DefaultPartyState, p.State)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/parties", alice,
		map[string]any{"name": "X", "phone": "1", "type": "vendor"}, nil))

	var list []models.Party
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/parties", bob, nil, &list))
	assert.Empty(t, list)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodDelete, "/parties/"+p.ID.Hex(), bob, nil, nil))
	assert.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/parties/"+p.ID.Hex(), alice, nil, nil))
}
