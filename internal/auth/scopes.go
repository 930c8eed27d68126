package auth

// Scopes granted to signed-in users.
const (
	ScopeActivitiesWrite = "activities:write"
	ScopeActivitiesRead  = "activities:read"
)

// UserScopes is the scope set issued at login.
var UserScopes = []string{ScopeActivitiesRead, ScopeActivitiesWrite}
