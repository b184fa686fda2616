package constants

const (
	// ContextKeyUserID is the gin context key holding the authenticated user ID.
	ContextKeyUserID = "user_id"

	AuthorizationHeader = "Authorization"
	BearerScheme        = "Bearer"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

const (
	// SecretLength is the byte length of generated signing secrets.
	SecretLength = 32
)
