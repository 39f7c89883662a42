// Package token encodes and decodes the signed, expiring claims used by the
// authentication core. Two independent token classes exist — access and
// refresh — each signed with its own symmetric secret, plus an activation
// class for the registration flow. A token minted for one class always
// fails verification under another.
//
// Verification distinguishes expiry from tampering through the [ErrExpired]
// and [ErrInvalid] sentinels so the authenticator can decide whether a
// refresh attempt is worthwhile. Callers surfacing these errors to clients
// must collapse both to one generic message.
package token
