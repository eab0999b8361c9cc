// Package accountflow is the client core of a cookie-authenticated
// account-management application: session lifecycle, a generic
// asynchronous form-submission engine, the multi-step authentication
// flow (password step optionally followed by a TOTP step), and route
// authorization gating, all against a JSON REST API.
//
// The package is designed around one rule: the server is authoritative.
// The client mirrors server decisions — error codes become symbolic
// message keys, principals are replaced wholesale from responses, and
// local validation only pre-screens what the server will check again.
//
// # Architecture boundaries
//
// accountflow is the public surface. It exposes [Client], [Builder],
// [Config], the [SessionStore], the per-operation flows, and the pure
// [Authorize] route gate. HTTP decoding lives under internal/rest and is
// never exported; the reusable submission state machine lives in the
// submit package.
//
// # What this package must NOT do
//
//   - Hold more than one copy of the authenticated principal: the
//     session store owns it, everything else reads through accessors.
//   - Mutate session state from a flow that has not fully succeeded (a
//     password step with a pending second factor authenticates nobody).
//   - Conflate transport failures with domain rejections; the two carry
//     different message keys because they demand different recoveries.
package accountflow
