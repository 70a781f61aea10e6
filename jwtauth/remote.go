package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	keyfunc "github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// RemoteValidator validates signed tokens against one or more remote key
// sets that are refreshed in the background. Unlike Authenticator, whose
// configuration list is fixed once built, a RemoteValidator keeps following
// key rotation for the lifetime of ctx. It supports signed tokens only; use
// an Authenticator when encrypted tokens are in play.
type RemoteValidator struct {
	kf          keyfunc.Keyfunc
	allowedAlgs []string
	leeway      time.Duration
}

// NewRemoteValidator starts background-refreshing retrieval of the given
// key-set URLs. allowedAlgs defaults to RS256 when empty.
func NewRemoteValidator(ctx context.Context, jwksURLs []string, allowedAlgs []string, leeway time.Duration) (*RemoteValidator, error) {
	if len(jwksURLs) == 0 {
		return nil, errors.New("jwtauth: at least one key set URL required")
	}
	if len(allowedAlgs) == 0 {
		allowedAlgs = []string{"RS256"}
	}
	kf, err := keyfunc.NewDefaultCtx(ctx, jwksURLs)
	if err != nil {
		return nil, fmt.Errorf("jwtauth: key set init: %w", err)
	}
	return &RemoteValidator{kf: kf, allowedAlgs: allowedAlgs, leeway: leeway}, nil
}

// Validate implements TokenValidator.
func (v *RemoteValidator) Validate(tokenString string) (jwt.MapClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods(v.allowedAlgs),
		jwt.WithLeeway(v.leeway),
	)
	tok, err := parser.Parse(tokenString, v.kf.Keyfunc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected claims type", ErrInvalidToken)
	}
	return claims, nil
}

var _ TokenValidator = (*RemoteValidator)(nil)
var _ TokenValidator = (*Authenticator)(nil)
