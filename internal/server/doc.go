// Package server implements the local articles backend.
//
// # Endpoints
//
//	POST   /api/login                 {username, password} -> {message, token}
//	GET    /api/articles              -> {message, articles}
//	POST   /api/articles              {title, text, topic} -> {message, article}
//	PUT    /api/articles/{article_id} {title, text, topic} -> {message, article}
//	DELETE /api/articles/{article_id} -> {message}
//	GET    /health                    -> "OK"
//
// Article routes require a bearer JWT issued by /api/login. Errors are
// JSON {message} bodies: 400 malformed input, 401 bad credentials or token,
// 404 unknown article, 422 invalid article fields, 429 login rate limit.
//
// # Login
//
// Unknown usernames are registered on first login when auto-registration
// is enabled; otherwise only existing accounts with a matching password
// receive a token.
//
// # Input Handling
//
// Article fields are stripped of markup with bluemonday's strict policy
// before validation and storage.
package server
