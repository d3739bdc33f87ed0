// ABOUTME: Round trippers for bearer authentication and the 401 response interceptor
// ABOUTME: Every request gets an X-Request-ID; authenticated ones get the stored token

package client

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader carries a per-request identifier for log correlation.
const RequestIDHeader = "X-Request-ID"

// UnauthorizedHandler is called once for every 401 response to an
// authenticated request.
type UnauthorizedHandler func(req *http.Request)

// bearerTransport attaches the token from tokens, if any.
// A nil tokens sends no Authorization header.
type bearerTransport struct {
	next   http.RoundTripper
	tokens TokenSource
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())

	if req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, uuid.New().String())
	}
	if t.tokens != nil {
		if token := t.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return t.next.RoundTrip(req)
}

// unauthorizedInterceptor hands 401 responses to handler before returning
// them to the caller unchanged.
type unauthorizedInterceptor struct {
	next    http.RoundTripper
	handler UnauthorizedHandler
}

func (t *unauthorizedInterceptor) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		t.handler(req)
	}
	return resp, nil
}
