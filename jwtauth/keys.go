package jwtauth

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"

	jose "github.com/go-jose/go-jose/v4"
)

// KeyDeclaration is a single declarative key entry: an embedded JWK document
// plus optional overrides for the signing/encryption algorithm and, for
// encryption, the content encryption method.
type KeyDeclaration struct {
	JWK       json.RawMessage `json:"jwk,omitempty"`
	Algorithm string          `json:"algorithm,omitempty"`
	Method    string          `json:"method,omitempty"`
}

// keyFamily is the closed set of key families the resolver understands.
type keyFamily int

const (
	familyUnknown keyFamily = iota
	familySecret
	familyRSA
	familyEC
)

func (f keyFamily) String() string {
	switch f {
	case familySecret:
		return "secret"
	case familyRSA:
		return "rsa"
	case familyEC:
		return "ec"
	}
	return "unknown"
}

// keyMaterial is key material tagged with its family. The public half is
// always present; the private half only when the source JWK carried it.
type keyMaterial struct {
	family  keyFamily
	secret  []byte
	rsaPriv *rsa.PrivateKey
	rsaPub  *rsa.PublicKey
	ecPriv  *ecdsa.PrivateKey
	ecPub   *ecdsa.PublicKey
}

// classifyKey is the single discrimination point for key families, shared by
// the signature and encryption resolvers and by both builders. It returns
// nil for key types outside the closed set (callers treat that as "no
// configuration available").
func classifyKey(jwk *jose.JSONWebKey) *keyMaterial {
	switch key := jwk.Key.(type) {
	case []byte:
		return &keyMaterial{family: familySecret, secret: key}
	case *rsa.PrivateKey:
		return &keyMaterial{family: familyRSA, rsaPriv: key, rsaPub: &key.PublicKey}
	case *rsa.PublicKey:
		return &keyMaterial{family: familyRSA, rsaPub: key}
	case *ecdsa.PrivateKey:
		return &keyMaterial{family: familyEC, ecPriv: key, ecPub: &key.PublicKey}
	case *ecdsa.PublicKey:
		return &keyMaterial{family: familyEC, ecPub: key}
	default:
		return nil
	}
}

// parseJWK parses an embedded JWK document. Unrecognized key types yield
// (nil, nil); malformed documents are configuration errors.
func parseJWK(raw []byte) (*jose.JSONWebKey, error) {
	var head struct {
		Kty string `json:"kty"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("jwtauth: malformed jwk: %w", err)
	}
	switch head.Kty {
	case "oct", "RSA", "EC":
	case "":
		return nil, errors.New("jwtauth: jwk missing kty")
	default:
		// Outside the closed family set; not an error.
		return nil, nil
	}
	var k jose.JSONWebKey
	if err := k.UnmarshalJSON(raw); err != nil {
		return nil, fmt.Errorf("jwtauth: malformed jwk: %w", err)
	}
	return &k, nil
}

// SignatureConfig binds a key family and signing algorithm to concrete key
// material. The public half alone suffices for verification; signing
// requires the private half.
type SignatureConfig struct {
	km  *keyMaterial
	alg jose.SignatureAlgorithm
}

// Algorithm returns the JWS algorithm identifier (e.g. "RS256").
func (c *SignatureConfig) Algorithm() string { return string(c.alg) }

// Family returns the key family name ("secret", "rsa", "ec").
func (c *SignatureConfig) Family() string { return c.km.family.String() }

func (c *SignatureConfig) verificationKey() any {
	switch c.km.family {
	case familySecret:
		return c.km.secret
	case familyRSA:
		return c.km.rsaPub
	case familyEC:
		return c.km.ecPub
	}
	return nil
}

func (c *SignatureConfig) signingKey() (any, error) {
	switch c.km.family {
	case familySecret:
		return c.km.secret, nil
	case familyRSA:
		if c.km.rsaPriv == nil {
			return nil, errors.New("jwtauth: rsa private key required for signing")
		}
		return c.km.rsaPriv, nil
	case familyEC:
		if c.km.ecPriv == nil {
			return nil, errors.New("jwtauth: ec private key required for signing")
		}
		return c.km.ecPriv, nil
	}
	return nil, errors.New("jwtauth: no signing key")
}

func (c *SignatureConfig) setAlgorithm(alg string) error {
	a := jose.SignatureAlgorithm(alg)
	if fam := signatureAlgFamily(a); fam != c.km.family {
		return fmt.Errorf("jwtauth: algorithm %s not usable with %s key", alg, c.km.family)
	}
	c.alg = a
	return nil
}

func signatureAlgFamily(alg jose.SignatureAlgorithm) keyFamily {
	switch alg {
	case jose.HS256, jose.HS384, jose.HS512:
		return familySecret
	case jose.RS256, jose.RS384, jose.RS512, jose.PS256, jose.PS384, jose.PS512:
		return familyRSA
	case jose.ES256, jose.ES384, jose.ES512:
		return familyEC
	}
	return familyUnknown
}

func defaultSignatureAlg(fam keyFamily) jose.SignatureAlgorithm {
	switch fam {
	case familySecret:
		return jose.HS256
	case familyRSA:
		return jose.RS256
	case familyEC:
		return jose.ES256
	}
	return ""
}

// EncryptionConfig binds a key family, key-management algorithm and content
// encryption method to concrete key material.
type EncryptionConfig struct {
	km  *keyMaterial
	alg jose.KeyAlgorithm
	enc jose.ContentEncryption
}

// Algorithm returns the JWE key-management algorithm identifier.
func (c *EncryptionConfig) Algorithm() string { return string(c.alg) }

// Method returns the JWE content encryption method identifier.
func (c *EncryptionConfig) Method() string { return string(c.enc) }

// Family returns the key family name ("secret", "rsa", "ec").
func (c *EncryptionConfig) Family() string { return c.km.family.String() }

func (c *EncryptionConfig) encryptionKey() any {
	switch c.km.family {
	case familySecret:
		return c.km.secret
	case familyRSA:
		return c.km.rsaPub
	case familyEC:
		return c.km.ecPub
	}
	return nil
}

func (c *EncryptionConfig) decryptionKey() (any, error) {
	switch c.km.family {
	case familySecret:
		return c.km.secret, nil
	case familyRSA:
		if c.km.rsaPriv == nil {
			return nil, errors.New("jwtauth: rsa private key required for decryption")
		}
		return c.km.rsaPriv, nil
	case familyEC:
		if c.km.ecPriv == nil {
			return nil, errors.New("jwtauth: ec private key required for decryption")
		}
		return c.km.ecPriv, nil
	}
	return nil, errors.New("jwtauth: no decryption key")
}

func (c *EncryptionConfig) setAlgorithm(alg string) error {
	a := jose.KeyAlgorithm(alg)
	if fam := encryptionAlgFamily(a); fam != c.km.family {
		return fmt.Errorf("jwtauth: algorithm %s not usable with %s key", alg, c.km.family)
	}
	c.alg = a
	return nil
}

func (c *EncryptionConfig) setMethod(method string) error {
	m := jose.ContentEncryption(method)
	switch m {
	case jose.A128GCM, jose.A192GCM, jose.A256GCM,
		jose.A128CBC_HS256, jose.A192CBC_HS384, jose.A256CBC_HS512:
	default:
		return fmt.Errorf("jwtauth: unknown content encryption method %s", method)
	}
	c.enc = m
	return nil
}

func encryptionAlgFamily(alg jose.KeyAlgorithm) keyFamily {
	switch alg {
	case jose.DIRECT, jose.A128KW, jose.A192KW, jose.A256KW,
		jose.A128GCMKW, jose.A192GCMKW, jose.A256GCMKW:
		return familySecret
	case jose.RSA1_5, jose.RSA_OAEP, jose.RSA_OAEP_256:
		return familyRSA
	case jose.ECDH_ES, jose.ECDH_ES_A128KW, jose.ECDH_ES_A192KW, jose.ECDH_ES_A256KW:
		return familyEC
	}
	return familyUnknown
}

func defaultEncryptionAlg(fam keyFamily) jose.KeyAlgorithm {
	switch fam {
	case familySecret:
		return jose.DIRECT
	case familyRSA:
		return jose.RSA_OAEP_256
	case familyEC:
		return jose.ECDH_ES_A256KW
	}
	return ""
}

// ResolveSignature resolves an inline signature declaration. A nil or empty
// declaration, or a key family outside the closed set, resolves to (nil,
// nil). Malformed documents and incompatible overrides are configuration
// errors.
func ResolveSignature(decl *KeyDeclaration) (*SignatureConfig, error) {
	if decl == nil || len(decl.JWK) == 0 {
		return nil, nil
	}
	jwk, err := parseJWK(decl.JWK)
	if err != nil || jwk == nil {
		return nil, err
	}
	cfg := signatureConfigFor(jwk)
	if cfg == nil {
		return nil, nil
	}
	if decl.Algorithm != "" {
		if err := cfg.setAlgorithm(decl.Algorithm); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// ResolveEncryption resolves an inline encryption declaration with the same
// absence/error contract as ResolveSignature.
func ResolveEncryption(decl *KeyDeclaration) (*EncryptionConfig, error) {
	if decl == nil || len(decl.JWK) == 0 {
		return nil, nil
	}
	jwk, err := parseJWK(decl.JWK)
	if err != nil || jwk == nil {
		return nil, err
	}
	cfg := encryptionConfigFor(jwk)
	if cfg == nil {
		return nil, nil
	}
	if decl.Algorithm != "" {
		if err := cfg.setAlgorithm(decl.Algorithm); err != nil {
			return nil, err
		}
	}
	if decl.Method != "" {
		if err := cfg.setMethod(decl.Method); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func signatureConfigFor(jwk *jose.JSONWebKey) *SignatureConfig {
	km := classifyKey(jwk)
	if km == nil {
		return nil
	}
	return &SignatureConfig{km: km, alg: defaultSignatureAlg(km.family)}
}

func encryptionConfigFor(jwk *jose.JSONWebKey) *EncryptionConfig {
	km := classifyKey(jwk)
	if km == nil {
		return nil
	}
	return &EncryptionConfig{km: km, alg: defaultEncryptionAlg(km.family), enc: jose.A256GCM}
}
