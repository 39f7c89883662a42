// Package session persists server-side session records in Redis, keyed by
// principal id. A record's existence is the sole authority for whether a
// previously issued token pair is still honored; its TTL mirrors the
// refresh-token lifetime. Records hold pure data — no capabilities, no
// signing material.
package session
