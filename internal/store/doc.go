// Package store provides persistent storage for articles using SQLite.
//
// # Architecture
//
// Two small interfaces cover the backend:
//
//   - UserStore: accounts keyed by username, with bcrypt password hashes
//   - ArticleStore: the shared article collection
//
// SQLiteStore implements both. LocalStorage is a separate key/value table
// used by the client as a session.Storage backend.
//
// # Schema
//
// Tables are created on open if missing:
//
//   - users: id, username (unique), password_hash, created_at
//   - articles: id, title, text, topic, created_at, updated_at
//   - kv: key, value, updated_at (LocalStorage only)
//
// # Connection Settings
//
// Every database is opened with WAL journaling and foreign keys enabled.
//
// # Errors
//
//   - ErrNotFound: the requested user or article does not exist
//   - ErrUsernameExists: CreateUser for a taken username
package store
