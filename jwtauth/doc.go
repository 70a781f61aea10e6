// Package jwtauth resolves declarative key material into ready-to-use
// signature and encryption configurations and aggregates them into token
// verifiers (Authenticator) and token issuers (Generator).
//
// Key material arrives either inline, as a JWK document embedded in a
// KeyDeclaration with optional algorithm and content-method overrides, or
// from one or more remote key-set endpoints fetched at startup by a
// Retriever that honors connect/read timeouts and a response-size cap.
// Remote entries are partitioned by declared key usage ("sig" vs "enc") and
// never cross over: a signing key is never turned into an encryption
// configuration, nor the reverse.
//
// Three key families are understood: symmetric secrets (HMAC / direct or
// key-wrap encryption), RSA, and elliptic curve. A key of any other family
// resolves to no configuration at all rather than an error, so callers can
// skip it; malformed key documents and unreachable key sets, by contrast,
// are configuration errors that must stop startup.
//
// All resolution happens before serving begins. An Authenticator's
// configuration list is fixed once built and safe for concurrent use; for
// deployments that need key rotation without restart, RemoteValidator wraps
// an auto-refreshing JWKS source instead.
package jwtauth
