package jwtauth

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	jose "github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// GeneratorConfig carries at most one signature and one encryption
// declaration for a token issuer.
type GeneratorConfig struct {
	Signature  *KeyDeclaration `json:"signature,omitempty"`
	Encryption *KeyDeclaration `json:"encryption,omitempty"`
}

// Generator mints tokens from claims. It is intended for test and tooling
// use; it has no role on the inbound authentication path.
type Generator struct {
	signature  *SignatureConfig
	encryption *EncryptionConfig
}

// NewGenerator resolves the declarations in cfg. At least one of the two
// must resolve to a configuration.
func NewGenerator(cfg GeneratorConfig) (*Generator, error) {
	sig, err := ResolveSignature(cfg.Signature)
	if err != nil {
		return nil, err
	}
	enc, err := ResolveEncryption(cfg.Encryption)
	if err != nil {
		return nil, err
	}
	if sig == nil && enc == nil {
		return nil, errors.New("jwtauth: generator requires a signature or encryption configuration")
	}
	return &Generator{signature: sig, encryption: enc}, nil
}

// Generate mints a token carrying the given claims, stamping iat and jti
// when absent. With only a signature configuration it produces a signed
// compact token; with only an encryption configuration it encrypts the
// claims set directly; with both it signs and then encrypts the nested
// token.
func (g *Generator) Generate(claims map[string]any) (string, error) {
	mc := jwt.MapClaims{}
	for k, v := range claims {
		mc[k] = v
	}
	if _, ok := mc["iat"]; !ok {
		mc["iat"] = jwt.NewNumericDate(time.Now())
	}
	if _, ok := mc["jti"]; !ok {
		mc["jti"] = uuid.NewString()
	}

	if g.signature == nil {
		return g.encryptClaims(mc)
	}

	method := jwt.GetSigningMethod(g.signature.Algorithm())
	if method == nil {
		return "", fmt.Errorf("jwtauth: unknown signing method %s", g.signature.Algorithm())
	}
	key, err := g.signature.signingKey()
	if err != nil {
		return "", err
	}
	signed, err := jwt.NewWithClaims(method, mc).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("jwtauth: sign token: %w", err)
	}
	if g.encryption == nil {
		return signed, nil
	}
	return g.encryptPayload([]byte(signed), "JWT")
}

func (g *Generator) encryptClaims(mc jwt.MapClaims) (string, error) {
	payload, err := json.Marshal(mc)
	if err != nil {
		return "", fmt.Errorf("jwtauth: marshal claims: %w", err)
	}
	return g.encryptPayload(payload, "")
}

func (g *Generator) encryptPayload(payload []byte, contentType string) (string, error) {
	opts := (&jose.EncrypterOptions{}).WithType("JWT")
	if contentType != "" {
		opts = opts.WithContentType(jose.ContentType(contentType))
	}
	encrypter, err := jose.NewEncrypter(
		g.encryption.enc,
		jose.Recipient{Algorithm: g.encryption.alg, Key: g.encryption.encryptionKey()},
		opts,
	)
	if err != nil {
		return "", fmt.Errorf("jwtauth: build encrypter: %w", err)
	}
	obj, err := encrypter.Encrypt(payload)
	if err != nil {
		return "", fmt.Errorf("jwtauth: encrypt token: %w", err)
	}
	return obj.CompactSerialize()
}
