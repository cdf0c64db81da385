package adapthttp_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	adapthttp "gatekeeper/internal/adapter/http"
	"gatekeeper/internal/adapter/memory"
	"gatekeeper/internal/app"

	"github.com/rs/zerolog"
	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"github.com/stretchr/testify/require"
)

// newTestHandler wires the full stack on the in-memory store so handler
// tests exercise real hashing and token verification.
func newTestHandler(t *testing.T) (http.Handler, *app.AuthService) {
	t.Helper()
	store := memory.New()
	svc := app.NewAuthService(store, app.NewHasher(), app.NewTokenIssuer([]byte("handler-test-secret"), 30*time.Minute))
	return adapthttp.New(svc, zerolog.Nop()).Handler(), svc
}

func registerAndLogin(t *testing.T, svc *app.AuthService, username, password string) string {
	t.Helper()
	_, err := svc.Register(context.Background(), username, password)
	require.NoError(t, err)
	token, err := svc.Login(context.Background(), username, password)
	require.NoError(t, err)
	return token
}

func TestHandleSignup_Created(t *testing.T) {
	handler, _ := newTestHandler(t)

	apitest.New().
		Handler(handler).
		Post("/api/signup").
		JSON(`{"username":"alice","password":"wonderland123"}`).
		Expect(t).
		Status(http.StatusCreated).
		Assert(jsonpath.Equal("$.username", "alice")).
		End()
}

func TestHandleSignup_EmptyInput(t *testing.T) {
	handler, _ := newTestHandler(t)

	apitest.New().
		Handler(handler).
		Post("/api/signup").
		JSON(`{"username":"alice","password":""}`).
		Expect(t).
		Status(http.StatusBadRequest).
		End()
}

func TestHandleSignup_Duplicate(t *testing.T) {
	handler, svc := newTestHandler(t)
	_, err := svc.Register(context.Background(), "alice", "wonderland123")
	require.NoError(t, err)

	apitest.New().
		Handler(handler).
		Post("/api/signup").
		JSON(`{"username":"alice","password":"different"}`).
		Expect(t).
		Status(http.StatusConflict).
		End()
}

func TestHandleLogin_Success(t *testing.T) {
	handler, svc := newTestHandler(t)
	_, err := svc.Register(context.Background(), "alice", "wonderland123")
	require.NoError(t, err)

	apitest.New().
		Handler(handler).
		Post("/api/login").
		JSON(`{"username":"alice","password":"wonderland123"}`).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.token_type", "bearer")).
		Assert(jsonpath.Equal("$.expires_in", float64(1800))).
		Assert(jsonpath.Present("$.access_token")).
		CookiePresent("access_token").
		End()
}

func TestHandleLogin_FailureIsGeneric(t *testing.T) {
	handler, svc := newTestHandler(t)
	_, err := svc.Register(context.Background(), "alice", "wonderland123")
	require.NoError(t, err)

	// Wrong password and unknown username yield the same response.
	apitest.New().
		Handler(handler).
		Post("/api/login").
		JSON(`{"username":"alice","password":"wrong"}`).
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal("$.error", "invalid username or password")).
		End()

	apitest.New().
		Handler(handler).
		Post("/api/login").
		JSON(`{"username":"nobody","password":"wonderland123"}`).
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal("$.error", "invalid username or password")).
		End()
}

func TestHandleMe_BearerToken(t *testing.T) {
	handler, svc := newTestHandler(t)
	token := registerAndLogin(t, svc, "alice", "wonderland123")

	apitest.New().
		Handler(handler).
		Get("/api/me").
		Header("Authorization", "Bearer "+token).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.username", "alice")).
		End()
}

func TestHandleMe_CookieToken(t *testing.T) {
	handler, svc := newTestHandler(t)
	token := registerAndLogin(t, svc, "alice", "wonderland123")

	apitest.New().
		Handler(handler).
		Get("/api/me").
		Cookies(apitest.NewCookie("access_token").Value(token)).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.username", "alice")).
		End()
}

func TestHandleMe_BearerPreferredOverCookie(t *testing.T) {
	handler, svc := newTestHandler(t)
	aliceToken := registerAndLogin(t, svc, "alice", "wonderland123")
	bobToken := registerAndLogin(t, svc, "bob", "builder456")

	apitest.New().
		Handler(handler).
		Get("/api/me").
		Header("Authorization", "Bearer "+aliceToken).
		Cookies(apitest.NewCookie("access_token").Value(bobToken)).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.username", "alice")).
		End()
}

func TestHandleMe_NoCredentials(t *testing.T) {
	handler, _ := newTestHandler(t)

	apitest.New().
		Handler(handler).
		Get("/api/me").
		Expect(t).
		Status(http.StatusUnauthorized).
		End()
}

func TestHandleMe_GarbageToken(t *testing.T) {
	handler, _ := newTestHandler(t)

	apitest.New().
		Handler(handler).
		Get("/api/me").
		Header("Authorization", "Bearer not-a-token").
		Expect(t).
		Status(http.StatusUnauthorized).
		End()
}

func TestHandleLogout(t *testing.T) {
	handler, _ := newTestHandler(t)

	apitest.New().
		Handler(handler).
		Post("/api/logout").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.status", "ok")).
		End()
}

func TestHealth(t *testing.T) {
	handler, _ := newTestHandler(t)

	apitest.New().
		Handler(handler).
		Get("/api/health").
		Expect(t).
		Status(http.StatusOK).
		End()
}
