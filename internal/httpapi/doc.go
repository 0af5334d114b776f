// Package httpapi exposes the intake pipeline over HTTP.
//
// Routes serves the landing page, GET /health, an optional /metrics endpoint
// and the two submission endpoints. POST /submit-form accepts JSON or
// urlencoded bodies; POST /submit-form-files also accepts multipart bodies
// with a single "document" file. Both share one rate limit per client IP.
package httpapi
