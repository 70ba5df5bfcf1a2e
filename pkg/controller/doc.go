// Package controller contains HTTP middlewares and helper handlers used by the server.
//
// Provided middlewares:
//   - WithCORS: Adds CORS headers for the scan API and handles OPTIONS preflight.
//   - WithLogger: Attaches a request-scoped logger and request ID to the context and logs access info.
//   - WithSecurityHeaders: Sets the security response headers the scanner itself checks for.
//
// Provided helpers:
//   - PprofMux: Returns a ServeMux exposing net/http/pprof handlers under PprofPath.
package controller
