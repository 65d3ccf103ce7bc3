// Package protocol owns the calcwire wire contract and parsing primitives.
//
// Ownership boundary:
// - frame/header primitives
// - tlv payload primitives
// - per-message-type schema validation
// - typed client/server envelopes
package protocol
