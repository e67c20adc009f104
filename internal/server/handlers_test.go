package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/oauth2"

	"github.com/clockedin/clockedin/internal/auth"
	"github.com/clockedin/clockedin/internal/meetings"
)

var testJWTSecret = []byte("test-secret")

// fakeLister serves canned events and counts fetches.
type fakeLister struct {
	events  []meetings.EventRecord
	err     error
	fetches int
}

func (f *fakeLister) ListYearEvents(_ context.Context, _ int, _ time.Time) ([]meetings.EventRecord, error) {
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func newTestServer(t *testing.T, lister *fakeLister) (*HTTPServer, *ServerContext) {
	t.Helper()

	sc := NewServerContext(Config{
		OAuth: &oauth2.Config{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			RedirectURL:  "http://localhost:3001/auth/google/callback",
		},
		JWTSecret:   testJWTSecret,
		FrontendURL: "http://localhost:5173",
	}, func(_ context.Context, _ *oauth2.Config, _ *oauth2.Token) (EventLister, error) {
		return lister, nil
	})
	t.Cleanup(sc.Shutdown)

	return NewHTTPServer(sc, ":0"), sc
}

// signIn stores a credential and returns a matching bearer token.
func signIn(t *testing.T, sc *ServerContext) string {
	t.Helper()

	sc.Tokens().Put("principal-1", &oauth2.Token{
		AccessToken: "access",
		Expiry:      time.Now().Add(time.Hour),
	})

	bearer, err := auth.Sign(testJWTSecret, "principal-1", time.Hour)
	require.NoError(t, err)
	return bearer
}

func doRequest(handler http.Handler, method, path, bearer string, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestLoginRedirectsToGoogle(t *testing.T) {
	srv, _ := newTestServer(t, &fakeLister{})
	rec := doRequest(srv.Handler(), http.MethodGet, "/auth/google", "", "")

	assert.Equal(t, http.StatusFound, rec.Code)

	location := rec.Header().Get("Location")
	assert.Contains(t, location, "accounts.google.com")
	assert.Contains(t, location, "access_type=offline")
	assert.Contains(t, location, "prompt=consent")
	assert.Contains(t, location, "calendar.readonly")

	// The state pinned in the cookie must ride along in the redirect.
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, oauthStateCookie, cookies[0].Name)
	assert.Contains(t, location, "state="+cookies[0].Value)
}

func TestCallbackWithoutCodeRedirectsWithError(t *testing.T) {
	srv, _ := newTestServer(t, &fakeLister{})
	rec := doRequest(srv.Handler(), http.MethodGet, "/auth/google/callback", "", "")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "http://localhost:5173/auth/google/callback?error=no_code", rec.Header().Get("Location"))
}

func TestCallbackWithStateMismatchRedirectsWithError(t *testing.T) {
	srv, _ := newTestServer(t, &fakeLister{})

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=abc&state=forged", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "expected"})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "http://localhost:5173/auth/google/callback?error=auth_failed", rec.Header().Get("Location"))
}

func TestAuthCheckWithoutToken(t *testing.T) {
	srv, _ := newTestServer(t, &fakeLister{})
	rec := doRequest(srv.Handler(), http.MethodGet, "/api/auth/check", "", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, codeNotAuthenticated, decodeError(t, rec).Code)
}

func TestAuthCheckWithGarbageToken(t *testing.T) {
	srv, _ := newTestServer(t, &fakeLister{})
	rec := doRequest(srv.Handler(), http.MethodGet, "/api/auth/check", "not-a-jwt", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, codeTokenInvalid, decodeError(t, rec).Code)
}

func TestAuthCheckAfterCredentialRemoved(t *testing.T) {
	srv, sc := newTestServer(t, &fakeLister{})
	bearer := signIn(t, sc)

	// A valid JWT whose credential is gone no longer authenticates.
	sc.Tokens().Remove("principal-1")

	rec := doRequest(srv.Handler(), http.MethodGet, "/api/auth/check", bearer, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, codeNotAuthenticated, decodeError(t, rec).Code)
}

func TestAuthCheckSuccess(t *testing.T) {
	srv, sc := newTestServer(t, &fakeLister{})
	bearer := signIn(t, sc)

	rec := doRequest(srv.Handler(), http.MethodGet, "/api/auth/check", bearer, "")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body["authenticated"])
}

func TestMeetingsComputesAndCaches(t *testing.T) {
	now := time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC)
	lister := &fakeLister{
		events: []meetings.EventRecord{
			{
				Title:             "Team Sync",
				Start:             now,
				End:               now.Add(30 * time.Minute),
				AttendeeCount:     4,
				HasConferenceData: true,
			},
			{
				Title: "Vacation",
				Start: now,
				End:   now.Add(8 * time.Hour),
			},
		},
	}

	srv, sc := newTestServer(t, lister)
	bearer := signIn(t, sc)

	rec := doRequest(srv.Handler(), http.MethodGet, "/api/meetings", bearer, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var summary meetings.StatsSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))

	assert.Equal(t, 1, summary.TotalMeetings)
	assert.Equal(t, 0, summary.TotalHours)
	assert.Equal(t, 30, summary.TotalMinutes)
	require.Len(t, summary.Meetings, 1)
	assert.Equal(t, "Team Sync", summary.Meetings[0].Summary)

	// Second request is served from cache without refetching.
	rec = doRequest(srv.Handler(), http.MethodGet, "/api/meetings", bearer, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, lister.fetches)
}

func TestMeetingsWithoutCredential(t *testing.T) {
	srv, _ := newTestServer(t, &fakeLister{})

	bearer, err := auth.Sign(testJWTSecret, "ghost", time.Hour)
	require.NoError(t, err)

	rec := doRequest(srv.Handler(), http.MethodGet, "/api/meetings", bearer, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, codeNotAuthenticated, decodeError(t, rec).Code)
}

func TestMeetingsUpstreamFailure(t *testing.T) {
	lister := &fakeLister{err: errors.New("calendar unavailable")}
	srv, sc := newTestServer(t, lister)
	bearer := signIn(t, sc)

	rec := doRequest(srv.Handler(), http.MethodGet, "/api/meetings", bearer, "")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, codeUpstreamFetchFailed, decodeError(t, rec).Code)

	// A failed fetch must not poison the cache.
	assert.Equal(t, 0, sc.StatsCache().Len())
}

func TestMeetingsEmptyCalendar(t *testing.T) {
	srv, sc := newTestServer(t, &fakeLister{})
	bearer := signIn(t, sc)

	rec := doRequest(srv.Handler(), http.MethodGet, "/api/meetings", bearer, "")
	require.Equal(t, http.StatusOK, rec.Code)

	// The meetings list serializes as [] rather than null.
	assert.Contains(t, rec.Body.String(), `"meetings":[]`)
}

func TestShareImageRejectsMalformedDataURL(t *testing.T) {
	srv, sc := newTestServer(t, &fakeLister{})
	bearer := signIn(t, sc)

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "{{"},
		{name: "missing image", body: `{}`},
		{name: "not a data url", body: `{"image":"https://example.com/a.png"}`},
		{name: "wrong media type", body: `{"image":"data:text/plain;base64,aGk="}`},
		{name: "missing base64 marker", body: `{"image":"data:image/png,raw"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(srv.Handler(), http.MethodPost, "/api/share-image", bearer, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, codeInvalidInput, decodeError(t, rec).Code)
		})
	}
}

func TestShareImageValidPayloadNotImplemented(t *testing.T) {
	srv, sc := newTestServer(t, &fakeLister{})
	bearer := signIn(t, sc)

	body := `{"image":"data:image/png;base64,iVBORw0KGgo="}`
	rec := doRequest(srv.Handler(), http.MethodPost, "/api/share-image", bearer, body)

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
	assert.Equal(t, codeNotImplemented, decodeError(t, rec).Code)
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	srv, _ := newTestServer(t, &fakeLister{})

	req := httptest.NewRequest(http.MethodOptions, "/api/meetings", nil)
	req.Header.Set("Origin", "http://localhost:5173")

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	srv, _ := newTestServer(t, &fakeLister{})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/check", nil)
	req.Header.Set("Origin", "https://evil.example.com")

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealthEndpointsRegisteredWhenConfigured(t *testing.T) {
	srv, sc := newTestServer(t, &fakeLister{})
	srv.SetHealthChecker(NewHealthChecker(sc))

	handler := srv.Handler()

	rec := doRequest(handler, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(handler, http.MethodGet, "/readyz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(handler, http.MethodGet, "/healthz/detailed", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "activePrincipals")
}
