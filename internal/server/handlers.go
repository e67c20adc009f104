package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clockedin/clockedin/internal/auth"
	googleauth "github.com/clockedin/clockedin/internal/google"
	"github.com/clockedin/clockedin/internal/logging"
	"github.com/clockedin/clockedin/internal/meetings"
)

// Machine-readable error codes returned in JSON error bodies.
const (
	codeNotAuthenticated    = "not_authenticated"
	codeTokenInvalid        = "token_invalid"
	codeUpstreamFetchFailed = "upstream_fetch_failed"
	codeInvalidInput        = "invalid_input"
	codeNotImplemented      = "not_implemented"
)

// Server timeouts.
const (
	DefaultHTTPAddr          = ":3001"
	defaultReadHeaderTimeout = 10 * time.Second
	defaultWriteTimeout      = 60 * time.Second
	defaultIdleTimeout       = 120 * time.Second
)

// oauthStateCookie carries the CSRF state between the login redirect and
// the callback.
const oauthStateCookie = "oauth_state"

type contextKey string

const claimsContextKey contextKey = "claims"

// errorResponse is the JSON body for all error replies.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPServer serves the dashboard API and the OAuth login flow.
type HTTPServer struct {
	sc         *ServerContext
	addr       string
	health     *HealthChecker
	httpServer *http.Server
}

// NewHTTPServer creates the API server bound to addr.
func NewHTTPServer(sc *ServerContext, addr string) *HTTPServer {
	if addr == "" {
		addr = DefaultHTTPAddr
	}
	return &HTTPServer{sc: sc, addr: addr}
}

// SetHealthChecker registers probe endpoints on the server's mux.
func (s *HTTPServer) SetHealthChecker(h *HealthChecker) {
	s.health = h
}

// Handler builds the full route table with CORS and metrics middleware
// applied. Exposed separately from Start so tests can drive it through
// httptest.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /auth/google", s.handleLogin)
	mux.HandleFunc("GET /auth/google/callback", s.handleCallback)
	mux.Handle("GET /api/auth/check", s.requireAuth(http.HandlerFunc(s.handleAuthCheck)))
	mux.Handle("GET /api/meetings", s.requireAuth(http.HandlerFunc(s.handleMeetings)))
	mux.Handle("POST /api/share-image", s.requireAuth(http.HandlerFunc(s.handleShareImage)))

	if s.health != nil {
		s.health.RegisterHealthEndpoints(mux)
	}

	return s.corsMiddleware(s.metricsMiddleware(mux))
}

// Start runs the server until it fails or Shutdown is called.
func (s *HTTPServer) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
	}

	s.sc.Logger().Info("starting http server", "addr", s.addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.sc.Logger().Info("shutting down http server")
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the configured listen address.
func (s *HTTPServer) Addr() string {
	return s.addr
}

// handleLogin redirects the browser to the Google consent screen. A
// random state value is pinned in a short-lived cookie and checked on
// the way back.
func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/auth/google",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, googleauth.AuthCodeURL(s.sc.config.OAuth, state), http.StatusFound)
}

// handleCallback finishes the OAuth flow: exchange the code, mint an
// ephemeral principal, store the credential, and hand the dashboard a
// bearer token via redirect.
func (s *HTTPServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithOperation(s.sc.Logger(), "oauth_callback")

	code := r.URL.Query().Get("code")
	if code == "" {
		s.sc.metrics.RecordOAuthAuth(r.Context(), "failure")
		logger.Warn("callback without authorization code")
		s.redirectToFrontend(w, r, "error=no_code")
		return
	}

	if cookie, err := r.Cookie(oauthStateCookie); err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		s.sc.metrics.RecordOAuthAuth(r.Context(), "failure")
		logger.Warn("callback state mismatch")
		s.redirectToFrontend(w, r, "error=auth_failed")
		return
	}

	token, err := googleauth.Exchange(r.Context(), s.sc.config.OAuth, code)
	if err != nil {
		s.sc.metrics.RecordOAuthAuth(r.Context(), "failure")
		logger.Error("code exchange failed", logging.Err(err))
		s.redirectToFrontend(w, r, "error=auth_failed")
		return
	}

	// Each login gets a fresh principal. Identity lives only as long as
	// the credential does; nothing survives a restart.
	principalID := uuid.NewString()
	s.sc.tokens.Put(principalID, token)
	s.sc.metrics.IncrementActivePrincipals(r.Context())

	bearer, err := auth.Sign(s.sc.config.JWTSecret, principalID, auth.DefaultTokenLifetime)
	if err != nil {
		s.sc.metrics.RecordOAuthAuth(r.Context(), "failure")
		logger.Error("token signing failed", logging.Err(err))
		s.redirectToFrontend(w, r, "error=auth_failed")
		return
	}

	s.sc.metrics.RecordOAuthAuth(r.Context(), "success")
	logger.Info("principal authenticated", logging.PrincipalHash(principalID))
	s.redirectToFrontend(w, r, "token="+bearer)
}

func (s *HTTPServer) redirectToFrontend(w http.ResponseWriter, r *http.Request, query string) {
	target := strings.TrimSuffix(s.sc.config.FrontendURL, "/") + "/auth/google/callback?" + query
	http.Redirect(w, r, target, http.StatusFound)
}

// requireAuth verifies the Authorization bearer token and stashes its
// claims in the request context.
func (s *HTTPServer) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, codeNotAuthenticated, "missing bearer token")
			return
		}

		claims, err := auth.Verify(s.sc.config.JWTSecret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeError(w, http.StatusUnauthorized, codeTokenInvalid, "invalid bearer token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// claimsFrom returns the verified claims placed by requireAuth.
func claimsFrom(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsContextKey).(*auth.Claims)
	return claims
}

// handleAuthCheck reports whether the bearer token maps to a live
// credential. A valid token whose credential was swept (or lost to a
// restart) is no longer authenticated.
func (s *HTTPServer) handleAuthCheck(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	if _, ok := s.sc.tokens.Get(claims.UserID); !ok {
		writeError(w, http.StatusUnauthorized, codeNotAuthenticated, "session expired")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"authenticated": true})
}

// handleMeetings serves the year's meeting statistics for the
// authenticated principal, from cache when fresh.
func (s *HTTPServer) handleMeetings(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	logger := logging.WithOperation(s.sc.Logger(), "meetings_stats")

	token, ok := s.sc.tokens.Get(claims.UserID)
	if !ok {
		writeError(w, http.StatusUnauthorized, codeNotAuthenticated, "session expired")
		return
	}

	if summary, ok := s.sc.statsCache.Get(claims.UserID); ok {
		s.sc.metrics.RecordCacheAccess(r.Context(), true)
		writeJSON(w, http.StatusOK, summary)
		return
	}
	s.sc.metrics.RecordCacheAccess(r.Context(), false)

	now := time.Now()
	year := s.sc.statsYear(now)

	lister, err := s.sc.listerFactory(r.Context(), s.sc.config.OAuth, token)
	if err != nil {
		logger.Error("failed to build calendar client", logging.Err(err), logging.PrincipalHash(claims.UserID))
		writeError(w, http.StatusBadGateway, codeUpstreamFetchFailed, "failed to reach calendar")
		return
	}

	fetchStart := time.Now()
	events, err := lister.ListYearEvents(r.Context(), year, now)
	if err != nil {
		s.sc.metrics.RecordGoogleAPIOperation(r.Context(), "calendar", "events.list", logging.StatusError, time.Since(fetchStart))
		logger.Error("event fetch failed", logging.Err(err), logging.PrincipalHash(claims.UserID))
		writeError(w, http.StatusBadGateway, codeUpstreamFetchFailed, "failed to fetch calendar events")
		return
	}
	s.sc.metrics.RecordGoogleAPIOperation(r.Context(), "calendar", "events.list", logging.StatusSuccess, time.Since(fetchStart))

	classified := meetings.ClassifyAll(events)
	for _, c := range classified {
		s.sc.metrics.RecordClassification(r.Context(), c.Included)
	}

	summary := meetings.Aggregate(classified)
	s.sc.statsCache.Put(claims.UserID, summary)

	logger.Info("stats computed",
		logging.PrincipalHash(claims.UserID),
		"events", len(events),
		"meetings", summary.TotalMeetings,
	)
	writeJSON(w, http.StatusOK, summary)
}

// shareImageRequest is the body of POST /api/share-image.
type shareImageRequest struct {
	Image string `json:"image"`
}

// handleShareImage validates the uploaded data URL but does not host
// images; the dashboard renders share cards client side. The endpoint
// stays registered so clients get a stable error instead of a 404.
func (s *HTTPServer) handleShareImage(w http.ResponseWriter, r *http.Request) {
	var req shareImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "invalid request body")
		return
	}

	if !strings.HasPrefix(req.Image, "data:image/") || !strings.Contains(req.Image, ";base64,") {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "image must be a base64 data URL")
		return
	}

	writeError(w, http.StatusNotImplemented, codeNotImplemented, "image hosting is not available")
}

// corsMiddleware allows credentialed requests from the configured
// origins only.
func (s *HTTPServer) corsMiddleware(next http.Handler) http.Handler {
	allowed := s.sc.config.AllowedOrigins
	if len(allowed) == 0 && s.sc.config.FrontendURL != "" {
		allowed = []string{strings.TrimSuffix(s.sc.config.FrontendURL, "/")}
	}

	allowedSet := make(map[string]bool, len(allowed))
	for _, origin := range allowed {
		allowedSet[strings.TrimSuffix(origin, "/")] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && allowedSet[strings.TrimSuffix(origin, "/")] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// metricsMiddleware records request counts and latencies.
func (s *HTTPServer) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		s.sc.metrics.RecordHTTPRequest(r.Context(), r.Method, r.URL.Path, recorder.status, time.Since(start))
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}
