package domain

type ContextKey string

const UserContextKey ContextKey = "user"

// User is the authenticated caller as reconstructed from JWT claims.
// Only admin tooling (preview, cache invalidation) needs identity here.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
