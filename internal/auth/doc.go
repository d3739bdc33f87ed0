// Package auth provides authentication for the articles backend.
//
// # Tokens
//
// Users receive an HS256 JWT on login. The "sub" claim carries the
// username; "iat" and "exp" bound its lifetime. Secrets shorter than
// MinSecretLength are rejected.
//
// # Passwords
//
// Passwords are stored as bcrypt hashes. CheckPassword always performs a
// bcrypt comparison, against a fixed dummy hash when the user is unknown,
// so response timing does not reveal which usernames exist.
//
// # HTTP Middleware
//
// Middleware reads "Authorization: Bearer <token>", verifies it and stores
// the Identity in the request context:
//
//	r.With(auth.Middleware(verifier)).Get("/api/articles", h.list)
//
//	func (h *handler) list(w http.ResponseWriter, r *http.Request) {
//	    id := auth.MustFromContext(r.Context())
//	    ...
//	}
//
// Failures respond 401 with a JSON {"message": ...} body.
package auth
