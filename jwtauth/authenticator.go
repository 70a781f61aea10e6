package jwtauth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	jose "github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken indicates a token that failed decryption, signature
// verification, or claims validation against every configuration.
var ErrInvalidToken = errors.New("jwtauth: invalid token")

// TokenValidator validates a compact token and returns its claims. It is
// the contract credential-extraction clients consume; Authenticator and
// RemoteValidator both implement it.
type TokenValidator interface {
	Validate(tokenString string) (jwt.MapClaims, error)
}

// Authenticator validates tokens against an ordered list of signature
// configurations and an ordered list of encryption configurations. Each list
// is attempted in order with first-match short-circuit, which lets key
// material from multiple issuers or rotation generations coexist. The
// configuration lists are fixed at construction; an Authenticator is safe
// for concurrent use.
type Authenticator struct {
	signatures  []*SignatureConfig
	encryptions []*EncryptionConfig
	leeway      time.Duration
}

// SignatureConfigs returns the aggregated signature configurations in
// verification order.
func (a *Authenticator) SignatureConfigs() []*SignatureConfig {
	return append([]*SignatureConfig(nil), a.signatures...)
}

// EncryptionConfigs returns the aggregated encryption configurations in
// decryption order.
func (a *Authenticator) EncryptionConfigs() []*EncryptionConfig {
	return append([]*EncryptionConfig(nil), a.encryptions...)
}

// Validate checks tokenString against the aggregated configurations and
// returns its claims. Encrypted tokens are decrypted first; the decrypted
// payload may be either a nested signed token or a bare claims set (the
// latter is produced by encrypt-only generators). Standard time claims are
// validated with the configured leeway whenever present.
func (a *Authenticator) Validate(tokenString string) (jwt.MapClaims, error) {
	if strings.Count(tokenString, ".") == 4 {
		payload, err := a.decrypt(tokenString)
		if err != nil {
			return nil, err
		}
		if len(payload) > 0 && payload[0] == '{' {
			return a.validatePlainClaims(payload)
		}
		tokenString = string(payload)
	}
	return a.verify(tokenString)
}

func (a *Authenticator) decrypt(tokenString string) ([]byte, error) {
	if len(a.encryptions) == 0 {
		return nil, fmt.Errorf("%w: encrypted token but no encryption configurations", ErrInvalidToken)
	}
	var errs []error
	for _, ec := range a.encryptions {
		jwe, err := jose.ParseEncrypted(tokenString, []jose.KeyAlgorithm{ec.alg}, []jose.ContentEncryption{ec.enc})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		key, err := ec.decryptionKey()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		payload, err := jwe.Decrypt(key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		return payload, nil
	}
	return nil, fmt.Errorf("%w: decryption failed: %v", ErrInvalidToken, errors.Join(errs...))
}

func (a *Authenticator) verify(tokenString string) (jwt.MapClaims, error) {
	if len(a.signatures) == 0 {
		return nil, fmt.Errorf("%w: no signature configurations", ErrInvalidToken)
	}
	var errs []error
	for _, sc := range a.signatures {
		parser := jwt.NewParser(
			jwt.WithValidMethods([]string{sc.Algorithm()}),
			jwt.WithLeeway(a.leeway),
		)
		tok, err := parser.Parse(tokenString, func(*jwt.Token) (any, error) {
			return sc.verificationKey(), nil
		})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			errs = append(errs, errors.New("unexpected claims type"))
			continue
		}
		return claims, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrInvalidToken, errors.Join(errs...))
}

func (a *Authenticator) validatePlainClaims(payload []byte) (jwt.MapClaims, error) {
	var claims jwt.MapClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("%w: decrypted payload: %v", ErrInvalidToken, err)
	}
	validator := jwt.NewValidator(jwt.WithLeeway(a.leeway))
	if err := validator.Validate(claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}
