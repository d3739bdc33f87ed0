// Package app holds the client application state and the handlers that
// mutate it.
//
// State is explicit: an App owns the status message, the loading flag, the
// article collection and the current edit selection. A Router owns the
// current screen. Both are created by the caller and passed in; nothing is
// package-global.
//
// Every request handler follows the same lifecycle:
//
//  1. clear the message and set Loading
//  2. issue exactly one request
//  3. on success, update the collection and the message
//  4. clear Loading, whatever the outcome
//
// Authentication failures are not handled per call. UnauthorizedHandler
// builds the single interceptor that the HTTP client runs on every 401: it
// clears the stored token and routes back to the login screen.
package app
