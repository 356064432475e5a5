package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"remape/internal/auth"
	"remape/internal/core"
	"remape/internal/log"
	"remape/internal/services"
	"remape/internal/sheets/memory"
)

const (
	testMainID  = "main-sheet"
	testSalesID = "sales-sheet"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	fallback := auth.Credential{Login: "rafael@remape.com", DisplayName: "Rafael", Password: "chefe"}
	store := auth.NewStore(bcrypt.MinCost, fallback, auth.StaticProvider{
		Source: "test",
		Entries: []auth.Credential{
			{Login: "ana@remape.com", DisplayName: "Ana", Password: "segredo"},
		},
	})
	authSvc := auth.NewService(store, "test-secret", time.Hour)

	fetcher := memory.NewWithSamples(testMainID, testSalesID)
	sources := make(map[core.Kind]services.SheetSource)
	for _, kind := range core.Kinds() {
		src := services.SheetSource{SpreadsheetID: testMainID, Worksheet: kind.Name()}
		if kind == core.KindSales {
			src = services.SheetSource{SpreadsheetID: testSalesID}
		}
		sources[kind] = src
	}
	reports := services.NewReportService(fetcher, sources, "rafael@remape.com")

	logger := log.New(log.Config{Output: io.Discard})
	return NewServer(":0", authSvc, reports, time.Hour, logger)
}

// client that does not follow redirects, so Location can be asserted.
func noRedirect(ts *httptest.Server) *http.Client {
	c := ts.Client()
	c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return c
}

func login(t *testing.T, ts *httptest.Server, user, pass string) *http.Cookie {
	t.Helper()
	resp, err := noRedirect(ts).PostForm(ts.URL+"/login", url.Values{
		"login": {user},
		"password": {pass},
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)

	for _, c := range resp.Cookies() {
		if c.Name == auth.SessionCookie && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestIndexRedirectsWithoutSession(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler)
	defer ts.Close()

	resp, err := noRedirect(ts).Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestLoginWrongPassword(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler)
	defer ts.Close()

	resp, err := noRedirect(ts).PostForm(ts.URL+"/login", url.Values{
		"login": {"ana@remape.com"},
		"password": {"errada"},
	})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	// Same generic message regardless of which part was wrong.
	assert.Contains(t, string(body), "Usuário ou senha incorretos")
	assert.Empty(t, resp.Cookies())
}

func TestLoginAndIndex(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler)
	defer ts.Close()

	cookie := login(t, ts, "ana@remape.com", "segredo")

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/", nil)
	require.NoError(t, err)
	req.AddCookie(cookie)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Ana")
	for _, kind := range core.Kinds() {
		assert.Contains(t, string(body), "/sheet/"+kind.Name())
	}
}

func TestFallbackIdentityCanLogin(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler)
	defer ts.Close()

	cookie := login(t, ts, "rafael@remape.com", "chefe")
	assert.NotEmpty(t, cookie.Value)
}

func TestUnknownSheetIs404WithoutAuth(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler)
	defer ts.Close()

	// No session cookie on purpose: the sheet name check must win over
	// the authentication redirect.
	resp, err := noRedirect(ts).Get(ts.URL + "/sheet/INVENTADA")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestKnownSheetStillNeedsAuth(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler)
	defer ts.Close()

	resp, err := noRedirect(ts).Get(ts.URL + "/sheet/DESPESAS")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestSheetPage(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler)
	defer ts.Close()

	cookie := login(t, ts, "ana@remape.com", "segredo")

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/sheet/DESPESAS", nil)
	require.NoError(t, err)
	req.AddCookie(cookie)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	// Ana sees her own expense row, not Bruno's.
	assert.Contains(t, string(body), "ana@remape.com")
	assert.NotContains(t, string(body), "bruno@remape.com")
	assert.Contains(t, string(body), "somente seus registros")
}

func TestSalesPageHasCharts(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler)
	defer ts.Close()

	cookie := login(t, ts, "rafael@remape.com", "chefe")

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/sheet/VENDAS", nil)
	require.NoError(t, err)
	req.AddCookie(cookie)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), "chart-industria")
	assert.Contains(t, string(body), "chart-grupo")
	// Super-user sees everyone's rows.
	assert.Contains(t, string(body), "Ana")
	assert.Contains(t, string(body), "Bruno")
	assert.NotContains(t, string(body), "somente seus registros")
}

func TestSheetDateRange(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler)
	defer ts.Close()

	cookie := login(t, ts, "rafael@remape.com", "chefe")

	req, err := http.NewRequest(http.MethodGet,
		ts.URL+"/sheet/DESPESAS?start_date=2023-12-02&end_date=2023-12-31", nil)
	require.NoError(t, err)
	req.AddCookie(cookie)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	// Only the 05/12 row falls inside the range.
	assert.Contains(t, string(body), "05/12/2023")
	assert.NotContains(t, string(body), "01/12/2023")
}

func TestUnconfiguredSheetFails(t *testing.T) {
	srv := newTestServer(t)
	// Rebuild without a VENDAS source to hit the 500 path.
	fetcher := memory.NewWithSamples(testMainID, testSalesID)
	reports := services.NewReportService(fetcher, map[core.Kind]services.SheetSource{
		core.KindExpenses: {SpreadsheetID: "missing-sheet", Worksheet: "DESPESAS"},
	}, "rafael@remape.com")
	srv = NewServer(":0", srv.auth, reports, time.Hour, log.New(log.Config{Output: io.Discard}))

	ts := httptest.NewServer(srv.Handler)
	defer ts.Close()

	cookie := login(t, ts, "rafael@remape.com", "chefe")
	req, err := http.NewRequest(http.MethodGet, ts.URL+"/sheet/DESPESAS", nil)
	require.NoError(t, err)
	req.AddCookie(cookie)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Erro ao carregar a aba DESPESAS")
}

func TestLogoutClearsCookie(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler)
	defer ts.Close()

	resp, err := noRedirect(ts).Get(ts.URL + "/logout")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	var cleared bool
	for _, c := range resp.Cookies() {
		if c.Name == auth.SessionCookie {
			cleared = c.Value == "" && c.MaxAge < 0
		}
	}
	assert.True(t, cleared, "session cookie should be expired")
}

func TestLoginRateLimit(t *testing.T) {
	srv := newTestServer(t)
	srv.loginLimiter = newRateLimiter(3, time.Minute)
	ts := httptest.NewServer(srv.Handler)
	defer ts.Close()

	var last int
	for i := 0; i < 5; i++ {
		resp, err := noRedirect(ts).PostForm(ts.URL+"/login", url.Values{
			"login": {"ana@remape.com"},
			"password": {"errada"},
		})
		require.NoError(t, err)
		last = resp.StatusCode
		resp.Body.Close()
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestHealthEndpoints(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler)
	defer ts.Close()

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := ts.Client().Get(ts.URL + path)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		resp.Body.Close()
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, "10.0.0.1", clientIP(r))

	r.Header.Set("X-Real-IP", "10.0.0.2")
	assert.Equal(t, "10.0.0.2", clientIP(r))

	r.Header.Set("X-Forwarded-For", "10.0.0.3, 10.0.0.4")
	assert.Equal(t, "10.0.0.3", clientIP(r))
}

func TestRateLimiterWindowReset(t *testing.T) {
	rl := newRateLimiter(2, 10*time.Millisecond)

	assert.True(t, rl.allow("ip"))
	assert.True(t, rl.allow("ip"))
	assert.False(t, rl.allow("ip"))

	time.Sleep(20 * time.Millisecond)
	assert.True(t, rl.allow("ip"), "window should reset after it elapses")

	// Independent counters per address.
	assert.True(t, rl.allow("other"))
}

func TestSheetPageEscapesCells(t *testing.T) {
	srv := newTestServer(t)
	fetcher := memory.New()
	fetcher.Seed(testMainID, "VISITAS", core.NewTable([][]string{
		{"DATA", "VENDEDOR", "CLIENTE", "INDÚSTRIA", "PERCEPÇÃO MERCADO", "OBS"},
		{"01/12/2023 10:00:00", "rafael@remape.com", "<script>alert(1)</script>", "ZEN", "", ""},
	}))
	reports := services.NewReportService(fetcher, map[core.Kind]services.SheetSource{
		core.KindVisits: {SpreadsheetID: testMainID, Worksheet: "VISITAS"},
	}, "rafael@remape.com")
	srv = NewServer(":0", srv.auth, reports, time.Hour, log.New(log.Config{Output: io.Discard}))

	ts := httptest.NewServer(srv.Handler)
	defer ts.Close()

	cookie := login(t, ts, "rafael@remape.com", "chefe")
	req, err := http.NewRequest(http.MethodGet, ts.URL+"/sheet/VISITAS", nil)
	require.NoError(t, err)
	req.AddCookie(cookie)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "<script>alert(1)</script>")
	assert.Contains(t, string(body), "&lt;script&gt;")
}
