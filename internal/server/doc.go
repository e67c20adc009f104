// Package server provides the HTTP backend for the clocked-in dashboard.
//
// # Key Components
//
// ServerContext owns the per-process state: the token store holding each
// principal's Google OAuth credential, the stats cache holding the last
// aggregated summary per principal, and the factory that builds calendar
// event sources from credentials. Everything lives in process memory;
// a restart clears all state.
//
// HTTPServer wires the dashboard routes:
//   - GET  /auth/google           redirect to the Google consent screen
//   - GET  /auth/google/callback  code exchange, JWT issuance, redirect
//   - GET  /api/auth/check        bearer-token liveness probe
//   - GET  /api/meetings          classified + aggregated meeting stats
//   - POST /api/share-image       validating stub (images are not hosted)
//   - /healthz, /readyz           Kubernetes probes
//
// TokenStore sweeps expired credentials on a fixed interval and cascades
// an invalidation to the StatsCache for each removed principal, so a
// cached summary never outlives the credential that produced it.
package server
