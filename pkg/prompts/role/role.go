// Package role defines the sender roles used in generated prompt messages.
package role

// Role represents the sender of a message in a generated payload.
type Role string

const (
	System    Role = "system"
	User      Role = "user"
	Assistant Role = "assistant"
)

// String returns the underlying string value of the role.
func (r Role) String() string {
	return string(r)
}
