package handler

const (
	// RootPath is the root path the route group.
	RootPath = "/"

	// LocalsCurrentUser holds the *models.User of an authenticated request.
	LocalsCurrentUser = "CurrentUser"
	// LocalsCurrentUserID holds the id of the authenticated user.
	LocalsCurrentUserID = "CurrentUserID"

	// ErrNilDepsFatalLogMsg is used if a handler is initialized without its dependencies.
	ErrNilDepsFatalLogMsg = "router or handler dependency is nil"
)
