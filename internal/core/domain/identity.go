package domain

// Identity is the decoded caller identity produced by token verification.
type Identity struct {
	UID    string
	Email  string
	Claims map[string]any
}
