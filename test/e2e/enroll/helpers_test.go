package enroll_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	httpapi "github.com/campuskit/enroll/internal/enroll/http"
	"github.com/campuskit/enroll/internal/enroll/service"
	"github.com/campuskit/enroll/internal/enroll/store/drivers/sqlite"
	"github.com/campuskit/enroll/pkg/cryptox"
	"github.com/campuskit/enroll/pkg/jwtx"
)

/*
 * End-to-end tests for the enrollment service. The full HTTP stack runs
 * in-process against an in-memory database; the client side is a plain
 * http.Client with a cookie jar, so the renewal cookie behaves exactly as a
 * browser would treat it.
 */

const (
	bootstrapToken = "test-bootstrap-token-12345"
	adminEmail     = "admin@example.com"
	adminPassword  = "Admin123!secret"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "enroll-e2e")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

type env struct {
	server *httptest.Server
	client *http.Client
}

func newEnv(t *testing.T) *env {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.LoadOrGenerateSigner("e2e-key", "")
	require.NoError(t, err)

	tokens := &service.TokenService{
		Signer:     signer,
		Store:      st,
		Issuer:     "e2e-issuer",
		AccessTTL:  jwtx.DefaultAccessTokenTTL,
		RenewalTTL: jwtx.DefaultRenewalTokenTTL,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := httpapi.NewRouter(signer.Verifier("e2e-issuer"), "e2e", st, logger, nil)
	router.AuthService = &service.AuthService{Store: st, Tokens: tokens}
	router.TokenService = tokens
	router.StudentService = &service.StudentService{Store: st}
	router.BootstrapService = &service.BootstrapService{Store: st, Token: bootstrapToken}
	router.ApplyRoutes()

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &env{
		server: server,
		client: &http.Client{Jar: jar},
	}
}

func (e *env) request(t *testing.T, method, path, bearer string, body any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, e.server.URL+path, buf)
	require.NoError(t, err)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := e.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func unmarshal[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}
