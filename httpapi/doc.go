// Package httpapi exposes the course platform's authentication endpoints:
// registration with email activation, login, social auth, silent token
// refresh, logout, and the profile operations that must resync the session
// cache. Handlers speak the platform's JSON envelope: {"success":true,...}
// on success, {"success":false,"message":...} with a 400/401/403/500 status
// on failure. Internal error text never reaches the client.
package httpapi
