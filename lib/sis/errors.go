package sis

import (
	"fmt"
	"net/url"
)

// TransportError covers network failures, timeouts and non-2xx statuses
// other than 404 and 401. 404 is the end-of-pagination signal and is
// never an error.
type TransportError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sis: request to %s failed: %s", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("sis: request to %s returned status %d", e.Endpoint, e.Status)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// AuthError is returned on HTTP 401. It carries the request context so a
// rejected key can be reproduced, and is never retried automatically.
type AuthError struct {
	Endpoint string
	Params   url.Values
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("sis: authentication rejected by %s (params: %s)", e.Endpoint, e.Params.Encode())
}

// ProtocolError is returned when a 2xx response body is not valid JSON.
type ProtocolError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("sis: %s returned a non-json body with status %d", e.Endpoint, e.Status)
}

// ConsistencyError is returned when an endpoint documented to return at
// most one record returns several. Distinct from "no record found",
// which is an empty result.
type ConsistencyError struct {
	Message string
}

func (e *ConsistencyError) Error() string {
	return "sis: " + e.Message
}

// ConfigError is raised for caller mistakes (unknown semester name,
// malformed credentials) before any network call is made.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return "sis: " + e.Message
}
