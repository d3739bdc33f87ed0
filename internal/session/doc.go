// Package session keeps the client's local session state.
//
// # Overview
//
// The only session state is an opaque token issued by POST /api/login. It is
// kept in a Storage under the "token" key. A Storage is a small key/value
// store with the semantics of browser local storage: Get, Set, Remove and
// Clear.
//
// # Backends
//
//   - FileStorage: one file per key inside a directory, by default
//     $XDG_CONFIG_HOME/articles/storage (so the token lives in
//     ~/.config/articles/storage/token)
//   - MemoryStorage: process-local, used by tests
//   - store.LocalStorage: a SQLite key/value table (see internal/store)
//
// # Usage
//
//	st, err := session.NewFileStorage(session.DefaultStorageDir())
//	sess := session.New(st, session.WithOverride(os.Getenv("ARTICLES_TOKEN")))
//	token := sess.Token()
package session
