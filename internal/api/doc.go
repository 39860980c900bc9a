// ABOUTME: Package documentation for api
// ABOUTME: Describes the typed HTTP client for the HMDL management endpoints

// Package api is the typed client for the HMDL server's management API.
//
// Client wraps one server: every endpoint gets a method with request and
// response types matching the server's JSON, and every method takes a
// context. Authentication is a session cookie; the client carries cookies the
// server sets during login/register finish, and SetSession restores a token
// saved from an earlier run.
//
// Non-2xx responses surface as *StatusError with the status code and a
// bounded copy of the body. Callers that show errors to the user should log
// the StatusError and present something friendlier.
//
// HealthProbe and CertificateProbe adapt two endpoints into readiness.Probe
// values for the first-run wait loops: the server coming up, and its TLS
// certificate being issued.
package api
