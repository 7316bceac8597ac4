package constants

// Session / context keys
const (
	SessionCookieName = "task_session"
	ContextKeyUserID  = "user_id"
)

// Pagination bounds
const (
	MinPage         = 1
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// Auth
const (
	MinPasswordLength = 8
)

// Task field defaults
const (
	DefaultCategory = "general"
)

// Markers applied to titles of derived task copies
const (
	SharedTitlePrefix    = "[Shared] "
	DuplicateTitleSuffix = " (Copy)"
)
