package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
)

// Config enumerates the key sources for an Authenticator: explicit local
// declarations, remote key-set endpoints, and optionally an OIDC issuer
// whose key-set endpoint is discovered at build time.
type Config struct {
	// Signatures and Encryptions are inline declarations, resolved in
	// declared order.
	Signatures  []KeyDeclaration `json:"signatures,omitempty"`
	Encryptions []KeyDeclaration `json:"encryptions,omitempty"`

	// JWKURLs lists remote key-set endpoints, fetched in declared order.
	JWKURLs []string `json:"jwk-urls,omitempty"`

	// Issuer optionally names an OIDC issuer; its advertised key-set URL is
	// discovered and appended after JWKURLs.
	Issuer string `json:"issuer,omitempty"`

	// Retriever tunes remote key-set retrieval.
	Retriever RetrieverConfig `json:"jwk-retriever,omitempty"`

	// Leeway is the clock-skew tolerance applied to time claims.
	Leeway time.Duration `json:"leeway,omitempty"`
}

// NewAuthenticator resolves every key source in cfg and aggregates the
// results into an Authenticator.
//
// Aggregation order is explicit and load-bearing, because verification
// attempts configurations in sequence: configurations from remote key sets
// come first, in URL declaration order (signing and encryption entries
// gathered separately, with the discovered issuer endpoint last), followed
// by inline declarations in declared order.
//
// Any fetch, parse, or resolution failure aborts the build: this runs at
// startup, and a swallowed error here would silently disable
// authentication.
func NewAuthenticator(ctx context.Context, cfg Config) (*Authenticator, error) {
	urls := append([]string(nil), cfg.JWKURLs...)
	if cfg.Issuer != "" {
		jwksURL, err := discoverKeySetURL(ctx, cfg.Issuer)
		if err != nil {
			return nil, err
		}
		urls = append(urls, jwksURL)
	}

	var (
		signatures  []*SignatureConfig
		encryptions []*EncryptionConfig
	)
	if len(urls) > 0 {
		retriever := NewRetriever(cfg.Retriever)
		for _, u := range urls {
			set, err := retriever.Fetch(ctx, u)
			if err != nil {
				return nil, err
			}
			for _, k := range selectByUse(set, useSignature) {
				if sc := signatureConfigFor(&k); sc != nil {
					signatures = append(signatures, sc)
				}
			}
			for _, k := range selectByUse(set, useEncryption) {
				if ec := encryptionConfigFor(&k); ec != nil {
					encryptions = append(encryptions, ec)
				}
			}
		}
	}
	for i := range cfg.Signatures {
		sc, err := ResolveSignature(&cfg.Signatures[i])
		if err != nil {
			return nil, err
		}
		if sc != nil {
			signatures = append(signatures, sc)
		}
	}
	for i := range cfg.Encryptions {
		ec, err := ResolveEncryption(&cfg.Encryptions[i])
		if err != nil {
			return nil, err
		}
		if ec != nil {
			encryptions = append(encryptions, ec)
		}
	}
	if len(signatures) == 0 && len(encryptions) == 0 {
		return nil, errors.New("jwtauth: no usable key configurations resolved")
	}
	return &Authenticator{signatures: signatures, encryptions: encryptions, leeway: cfg.Leeway}, nil
}

func discoverKeySetURL(ctx context.Context, issuer string) (string, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return "", fmt.Errorf("jwtauth: oidc discovery for %s: %w", issuer, err)
	}
	var meta struct {
		JWKSURI string `json:"jwks_uri"`
	}
	if err := provider.Claims(&meta); err != nil {
		return "", fmt.Errorf("jwtauth: oidc metadata for %s: %w", issuer, err)
	}
	if meta.JWKSURI == "" {
		return "", fmt.Errorf("jwtauth: issuer %s advertises no jwks_uri", issuer)
	}
	return meta.JWKSURI, nil
}
