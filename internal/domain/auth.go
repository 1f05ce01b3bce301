package domain

// SessionSource records how a session token was obtained.
type SessionSource string

const (
	SessionSourceBadge    SessionSource = "BADGE"
	SessionSourcePassword SessionSource = "PASSWORD"
)
