// Package client implements the HTTP client for the articles REST API.
//
// # Overview
//
// Client wraps two http.Clients. Login goes through an unauthenticated one.
// Every article call goes through an authenticated one whose transport
// attaches the current session token:
//
//	Authorization: Bearer <token>
//
// The token is read from a TokenSource on each request, so a token stored by
// a login is picked up by the next call without rebuilding the client.
//
// # Endpoints
//
//   - POST   /api/login               {username, password} -> {message, token}
//   - GET    /api/articles            -> {message, articles}
//   - POST   /api/articles            {title, text, topic} -> {message, article}
//   - PUT    /api/articles/{id}       {title, text, topic} -> {message, article}
//   - DELETE /api/articles/{id}       -> {message}
//
// # Errors
//
// Non-2xx responses become *APIError. A 401 satisfies
// errors.Is(err, ErrUnauthorized).
//
// # Unauthorized interceptor
//
// WithUnauthorizedHandler installs one response interceptor on the
// authenticated transport. It runs for every 401 returned by an article call,
// before the error reaches the caller. Login failures never trigger it.
//
//	c, err := client.New(baseURL, sess,
//	    client.WithUnauthorizedHandler(app.UnauthorizedHandler(sess, router, logger)),
//	)
package client
