package platform

import "fmt"

// Platform identifies one of the external systems accounts are provisioned into.
type Platform string

const (
	LMS       Platform = "lms"
	Ecommerce Platform = "ecommerce"
	DMS       Platform = "dms"
)

// All returns every known platform in a stable order.
func All() []Platform {
	return []Platform{LMS, Ecommerce, DMS}
}

// Parse validates a platform identifier from caller input.
func Parse(s string) (Platform, error) {
	switch Platform(s) {
	case LMS, Ecommerce, DMS:
		return Platform(s), nil
	}
	return "", fmt.Errorf("unknown platform: %s", s)
}

// Identity carries the fields an adapter submits to its platform. Identifier
// is the sanitized per-platform username, Password the plaintext credential
// forwarded to the remote registration endpoint.
type Identity struct {
	Identifier  string
	Email       string
	Password    string
	DisplayName string
}
