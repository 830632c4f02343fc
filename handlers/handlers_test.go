package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mabletask/dashboard/client"
	"mabletask/dashboard/devapi"
	"mabletask/dashboard/flow"
	"mabletask/dashboard/gateway"
	"mabletask/dashboard/models"
	"mabletask/dashboard/screens"
	"mabletask/dashboard/session"
)

type harness struct {
	router   *gin.Engine
	sessions *session.Store
	history  *flow.History
	api      *devapi.Server
}

func newHarness(t *testing.T, baseURL string, api *devapi.Server) *harness {
	t.Helper()
	sessions := session.NewMemory()
	history := flow.NewHistory("/")
	ctrl := flow.NewController(sessions, history)
	c := client.New(gateway.New(baseURL, 5*time.Second, sessions, ctrl))

	router := NewRouter(Deps{
		API:      c,
		Sessions: sessions,
		Ctrl:     ctrl,
		History:  history,
		Products: screens.NewProductsScreen(c, history),
		Events:   screens.NewEventsScreen(c, history, time.UTC),
		FEOrigin: "http://localhost:3000",
	})
	return &harness{router: router, sessions: sessions, history: history, api: api}
}

func setupHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	api := devapi.NewServer("test-secret", time.Hour)
	srv := httptest.NewServer(api.Router())
	t.Cleanup(srv.Close)
	return newHarness(t, srv.URL, api)
}

func (h *harness) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst))
}

func (h *harness) signUpAndIn(t *testing.T) map[string]any {
	t.Helper()
	w := h.do(t, http.MethodPost, "/auth/signup", models.SignupForm{
		Name: "Ada", Email: "ada@example.com", Password: "password123", ConfirmPassword: "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = h.do(t, http.MethodPost, "/auth/signin", models.LoginRequest{Email: "ada@example.com", Password: "password123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out map[string]any
	decodeBody(t, w, &out)
	return out
}

func TestProtectedScreenRedirectsThenReturnsAfterLogin(t *testing.T) {
	h := setupHarness(t)

	w := h.do(t, http.MethodGet, "/admin/events", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, flow.LoginPath, w.Header().Get("Location"))

	out := h.signUpAndIn(t)
	assert.Equal(t, screens.EventsPath, out["redirect"])
	assert.Equal(t, screens.EventsPath, h.history.Location())

	h.do(t, http.MethodPost, "/auth/logout", nil)
	w = h.do(t, http.MethodPost, "/auth/signin", models.LoginRequest{Email: "ada@example.com", Password: "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &out)
	assert.Equal(t, flow.DashboardPath, out["redirect"])
}

func TestSignInInvalidCredentials(t *testing.T) {
	h := setupHarness(t)

	w := h.do(t, http.MethodPost, "/auth/signin", models.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"error":"Invalid credentials","kind":"request_failed"}`, w.Body.String())

	_, ok := h.sessions.Token()
	assert.False(t, ok)
}

func TestSignInValidation(t *testing.T) {
	h := setupHarness(t)

	w := h.do(t, http.MethodPost, "/auth/signin", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var out struct {
		Kind   string            `json:"kind"`
		Fields map[string]string `json:"fields"`
	}
	decodeBody(t, w, &out)
	assert.Equal(t, "validation_failed", out.Kind)
	assert.Contains(t, out.Fields, "email")
	assert.Contains(t, out.Fields, "password")
}

func TestSignUpPasswordMismatch(t *testing.T) {
	h := setupHarness(t)

	w := h.do(t, http.MethodPost, "/auth/signup", models.SignupForm{
		Name: "Ada", Email: "ada@example.com", Password: "password123", ConfirmPassword: "password321",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var out struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	decodeBody(t, w, &out)
	assert.Equal(t, "Passwords do not match", out.Error)
	assert.Equal(t, "Passwords do not match", out.Fields["confirmPassword"])
}

func TestSessionEndpoint(t *testing.T) {
	h := setupHarness(t)

	w := h.do(t, http.MethodGet, "/auth/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var out map[string]any
	decodeBody(t, w, &out)
	assert.Equal(t, "anonymous", out["state"])
	assert.NotContains(t, out, "user")

	h.signUpAndIn(t)
	w = h.do(t, http.MethodGet, "/auth/session", nil)
	decodeBody(t, w, &out)
	assert.Equal(t, "authenticated", out["state"])
	user, ok := out["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", user["email"])
}

func TestProductScreenFlow(t *testing.T) {
	h := setupHarness(t)
	h.signUpAndIn(t)

	for _, form := range []models.ProductForm{
		{Title: "Mug", Variants: []models.Variant{{Price: "9.99", SKU: "MUG1"}}, Images: []models.Image{{Src: "http://x/mug.png"}}},
		{Title: "Shirt", Variants: []models.Variant{{Price: "19.00", SKU: "SH1"}}},
		{Title: "Sticker"},
	} {
		w := h.do(t, http.MethodPost, "/admin/products", form)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := h.do(t, http.MethodGet, "/admin/products", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view screens.ProductsView
	decodeBody(t, w, &view)
	require.Len(t, view.Rows, 3)
	assert.Equal(t, "0", view.Rows[2].Price)
	assert.Equal(t, "", view.Rows[2].ImageURL)

	w = h.do(t, http.MethodPost, "/admin/products/sort", map[string]string{"key": "price"})
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &view)
	assert.Equal(t, []string{"0", "19.00", "9.99"}, prices(view.Rows))

	w = h.do(t, http.MethodPost, "/admin/products/sort", map[string]string{"key": "price"})
	decodeBody(t, w, &view)
	assert.Equal(t, []string{"9.99", "19.00", "0"}, prices(view.Rows))

	w = h.do(t, http.MethodPost, "/admin/products/sort", map[string]string{"key": "color"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(t, http.MethodPost, "/admin/products/search", map[string]string{"query": "MU"})
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &view)
	require.Len(t, view.Rows, 1)
	mugID := view.Rows[0].ID

	w = h.do(t, http.MethodDelete, "/admin/products/"+mugID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = h.do(t, http.MethodPost, "/admin/products/search", map[string]string{"query": ""})
	decodeBody(t, w, &view)
	assert.Len(t, view.Rows, 2)

	w = h.do(t, http.MethodPost, "/admin/products", models.ProductForm{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func prices(rows []models.ProductRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Price
	}
	return out
}

func TestEventScreenFlow(t *testing.T) {
	h := setupHarness(t)
	h.signUpAndIn(t)

	day1 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	h.api.Events.Seed(
		models.EventRecord{ID: "1", Timestamp: day1, EventType: models.EventCreate, UserID: "u1", ProductID: "p1"},
		models.EventRecord{ID: "2", Timestamp: day1.Add(2 * time.Hour), EventType: models.EventUpdate, UserID: "u2", ProductID: "p1"},
		models.EventRecord{ID: "3", Timestamp: day1.Add(24 * time.Hour), EventType: models.EventCreate, UserID: "u1", ProductID: "p2"},
	)

	w := h.do(t, http.MethodGet, "/admin/events", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var view screens.EventsView
	decodeBody(t, w, &view)
	assert.Len(t, view.Events, 3)
	assert.Equal(t, []models.EventBucket{{Date: "2024-01-01", Count: 2}, {Date: "2024-01-02", Count: 1}}, view.Buckets)
	assert.Equal(t, []string{"u1", "u2"}, view.UserIDs)

	w = h.do(t, http.MethodPost, "/admin/events/filter", map[string]string{"eventType": "CREATE"})
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &view)
	require.Len(t, view.Events, 2)
	assert.Equal(t, "1", view.Events[0].ID.String())
	assert.Equal(t, "3", view.Events[1].ID.String())
	assert.Len(t, view.Buckets, 2)

	w = h.do(t, http.MethodPost, "/admin/events/filter", map[string]string{"start": "2024-01-02", "end": "2024-01-02"})
	decodeBody(t, w, &view)
	require.Len(t, view.Events, 1)
	assert.Equal(t, "3", view.Events[0].ID.String())

	w = h.do(t, http.MethodPost, "/admin/events/filter", map[string]string{"start": "01/02/2024", "eventType": "PATCH"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExpiredTokenRedirectsToLogin(t *testing.T) {
	h := setupHarness(t)
	require.NoError(t, h.sessions.SetToken("expired-token"))

	w := h.do(t, http.MethodGet, "/admin/products", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, flow.LoginPath, w.Header().Get("Location"))

	_, ok := h.sessions.Token()
	assert.False(t, ok)
	path, ok := h.sessions.PendingRedirect()
	assert.True(t, ok)
	assert.Equal(t, screens.ProductsPath, path)
}

func TestRemoteUnreachable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	h := newHarness(t, srv.URL, nil)
	require.NoError(t, h.sessions.SetToken("t"))

	w := h.do(t, http.MethodGet, "/admin/products", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"error":"Could not reach the server","kind":"network_unreachable"}`, w.Body.String())
}

func TestDashboardLanding(t *testing.T) {
	h := setupHarness(t)

	w := h.do(t, http.MethodGet, flow.DashboardPath, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, flow.LoginPath, w.Header().Get("Location"))

	out := h.signUpAndIn(t)
	require.Equal(t, flow.DashboardPath, out["redirect"])

	w = h.do(t, http.MethodGet, flow.DashboardPath, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var landing struct {
		State    string `json:"state"`
		Location string `json:"location"`
		Screens  []struct {
			Path string `json:"path"`
		} `json:"screens"`
		User map[string]any `json:"user"`
	}
	decodeBody(t, w, &landing)
	assert.Equal(t, "authenticated", landing.State)
	assert.Equal(t, flow.DashboardPath, landing.Location)
	require.Len(t, landing.Screens, 2)
	assert.Equal(t, screens.ProductsPath, landing.Screens[0].Path)
	assert.Equal(t, screens.EventsPath, landing.Screens[1].Path)
	assert.Equal(t, "ada@example.com", landing.User["email"])
}
