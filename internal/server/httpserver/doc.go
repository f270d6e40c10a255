// Package httpserver provides the HTTP/HTTPS dev server behind the Tea
// Taster client.
//
// This package implements the data service API using stdlib net/http:
//
//   - Auth endpoints: /login, /logout, /users/current
//   - Data endpoints: /tea-categories, /user-tasting-notes, /user-tasting-notes/{id}
//   - Operational endpoints: /health, /metrics
//
// Features:
//
//   - Middleware chain: Recover, RequestID, CORS, AccessLog, Metrics, RateLimit, Auth
//   - Configurable response latency for exercising client loading states
//   - HTTPS from cert files, or from a tls.Config via WithTLSConfig
//   - Graceful shutdown through the shutdown handler
package httpserver
