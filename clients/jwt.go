package clients

import (
	"errors"

	"github.com/ggoodman/secured-service-go/auth"
	"github.com/ggoodman/secured-service-go/jwtauth"
	"github.com/ggoodman/secured-service-go/transport"
)

// NewJWTClient builds a bearer-token header client whose credentials are
// validated by the given token validator. The resolved profile's identifier
// is the token's sub claim; all claims become profile attributes, and a
// "roles" claim (string or string list) becomes the profile's roles.
func NewJWTClient(name string, validator jwtauth.TokenValidator, opts ...HeaderOption) *HeaderClient {
	base := []HeaderOption{
		WithPrefix(transport.BearerPrefix),
		WithCredentialAuthenticator(JWTAuthenticator(validator)),
	}
	return NewHeaderClient(name, transport.AuthorizationHeader, append(base, opts...)...)
}

// JWTAuthenticator adapts a token validator to the CredentialAuthenticator
// contract.
func JWTAuthenticator(validator jwtauth.TokenValidator) CredentialAuthenticator {
	return func(creds *auth.Credentials, _ auth.WebContext) (auth.Profile, error) {
		claims, err := validator.Validate(creds.Token)
		if err != nil {
			return nil, err
		}
		sub, _ := claims["sub"].(string)
		if sub == "" {
			return nil, errors.New("clients: token has no sub claim")
		}
		p := auth.NewProfile(sub)
		for k, v := range claims {
			p.SetAttribute(k, v)
		}
		for _, role := range claimRoles(claims["roles"]) {
			p.AddRole(role)
		}
		return p, nil
	}
}

func claimRoles(v any) []string {
	switch roles := v.(type) {
	case string:
		return []string{roles}
	case []string:
		return roles
	case []any:
		var out []string
		for _, r := range roles {
			if s, ok := r.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
