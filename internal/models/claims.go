package models

// Scope names an operation a token grants.
type Scope string

const (
	ScopeRegenerate Scope = "regenerate"
)

// Claims represents JWT claims
type Claims struct {
	Subject string `json:"sub"`
	Scope   Scope  `json:"scope"`
	Exp     int64  `json:"exp"`
}

// Allows reports whether the claims grant scope.
func (c *Claims) Allows(scope Scope) bool {
	return c != nil && c.Scope == scope
}
