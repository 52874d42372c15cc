package domain

type AuthPayload struct {
	Username   string          `json:"username"`
	Permission []string        `json:"permission"`
	Resources  map[string]bool `json:"features"`
}

// Anonymous is the identity used when authentication is disabled.
const Anonymous = "anonymous"

// Subject returns the identity used to scope per-user data.
func (p AuthPayload) Subject() string {
	if p.Username == "" {
		return Anonymous
	}
	return p.Username
}
