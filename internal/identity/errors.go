package identity

import "errors"

// Token verification failure kinds. The auth guard maps these onto HTTP
// status codes (disabled -> 403, everything else -> 401).
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")
	ErrUserDisabled = errors.New("user disabled")
)

// ProviderError carries the identity provider's error code verbatim, e.g.
// EMAIL_NOT_FOUND or INVALID_PASSWORD. Handlers surface it unchanged in the
// error field of the response.
type ProviderError struct {
	Code string
}

func (e *ProviderError) Error() string {
	return e.Code
}
