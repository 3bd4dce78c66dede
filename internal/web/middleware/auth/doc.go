// Package auth provides the session check for the JSON API.
//
// The middleware handles session validation and user lookup. Sessions are
// written by the login service into the shared session storage; this service
// only reads them.
//
// The middleware performs the following tasks:
//   - Reads the "session" cookie and loads the session data
//   - Loads the session user, so deleted users lose access immediately
//   - Adds the current user to fiber.Locals for handlers and access logs
//
// Usage:
//
//	app.Use(authmiddleware.New(db))
package auth
