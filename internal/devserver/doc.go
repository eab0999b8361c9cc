// Package devserver implements the reference account API that the
// accountflow client is written against. It exists for local development
// and for the integration tests: a single binary (or an httptest server)
// that speaks the full endpoint surface — login with an optional TOTP
// second step, registration, password reset and change, email
// verification, two-factor enrolment, and the admin user listing.
//
// # Design
//
// Users live in an in-memory store with bcrypt password hashes. Sessions
// are opaque cookie values backed by Redis with a TTL; when no external
// Redis address is configured an embedded miniredis is started, so the
// server runs with zero infrastructure. Reset and verification tokens
// are short-lived signed JWTs; in place of outbound mail the server logs
// each issued token and keeps the most recent one per address so tests
// can retrieve it.
//
// # Architecture boundaries
//
// This package owns server-side semantics only. Error responses reuse
// the numeric code taxonomy from internal/rest so the client and server
// cannot drift apart. It must not import the root accountflow package.
package devserver
