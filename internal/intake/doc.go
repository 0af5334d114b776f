// Package intake turns a decoded form submission into an email notification.
//
// Process runs the whole flow for one request: the honeypot and empty-payload
// checks, source resolution, rendering of the plain-text and HTML bodies,
// delivery through the configured sender under a timeout, and the optional
// write to a Store. Every path ends in a Result that the HTTP layer writes as
// JSON; delivery problems are logged once and never leak to the client.
//
// Missing mail settings do not fail a request. The submission is still
// accepted and persisted, and the response says the message was received.
package intake
