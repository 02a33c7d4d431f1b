package constants

const (
	// Context and session keys
	ContextKeyUserID   = "user_id"
	ContextKeyUsername = "username"
	SessionKeyToken    = "session_token"
	SessionCookieName  = "showcase_session"

	// DateLayout is the only accepted textual form of an entity date.
	DateLayout = "2006-01-02"

	// Form fields
	FormFieldImage = "image"

	// Pagination
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
