// Package clients provides ready-made credential-extraction strategies for
// the securing layer: a header client, a cookie client, and a JWT-verifying
// header client. Each reads request metadata exclusively through the
// supported operations of auth.WebContext, so they work against any
// transport the stateless context adapter wraps.
package clients

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ggoodman/secured-service-go/auth"
)

// CredentialAuthenticator validates extracted credentials and resolves them
// into a Profile.
type CredentialAuthenticator func(creds *auth.Credentials, wc auth.WebContext) (auth.Profile, error)

// PlainAuthenticator resolves credentials by using the raw token as the
// profile identifier, with no validation. Suitable only for trusted
// internal traffic and tests.
func PlainAuthenticator() CredentialAuthenticator {
	return func(creds *auth.Credentials, _ auth.WebContext) (auth.Profile, error) {
		return auth.NewProfile(creds.Token), nil
	}
}

// HeaderClient extracts credentials from a named request header, optionally
// stripping a scheme prefix, and resolves them via a pluggable
// CredentialAuthenticator.
type HeaderClient struct {
	name       string
	headerName string
	prefix     string
	authn      CredentialAuthenticator
}

// HeaderOption customizes a HeaderClient.
type HeaderOption func(*HeaderClient)

// WithPrefix requires and strips the given prefix from the header value
// (e.g. "Bearer ").
func WithPrefix(prefix string) HeaderOption {
	return func(c *HeaderClient) { c.prefix = prefix }
}

// WithCredentialAuthenticator replaces the default plain authenticator.
func WithCredentialAuthenticator(a CredentialAuthenticator) HeaderOption {
	return func(c *HeaderClient) { c.authn = a }
}

// NewHeaderClient builds a client registered under name that reads
// headerName.
func NewHeaderClient(name, headerName string, opts ...HeaderOption) *HeaderClient {
	c := &HeaderClient{name: name, headerName: headerName, authn: PlainAuthenticator()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *HeaderClient) Name() string { return c.name }

func (c *HeaderClient) Credentials(wc auth.WebContext) (*auth.Credentials, error) {
	value, err := wc.RequestHeader(c.headerName)
	if err != nil {
		return nil, err
	}
	if c.prefix != "" {
		if !strings.HasPrefix(value, c.prefix) {
			return nil, fmt.Errorf("clients: header %s missing prefix %q", c.headerName, strings.TrimSpace(c.prefix))
		}
		value = strings.TrimPrefix(value, c.prefix)
	}
	if value == "" {
		return nil, nil
	}
	return &auth.Credentials{Token: value}, nil
}

func (c *HeaderClient) Profile(creds *auth.Credentials, wc auth.WebContext) (auth.Profile, error) {
	if creds == nil {
		return nil, nil
	}
	return c.authn(creds, wc)
}

// CookieClient extracts credentials from a named cookie. Cookie access on
// the stateless context is unsupported, so the client parses the Cookie
// header itself via the supported header read.
type CookieClient struct {
	name       string
	cookieName string
	authn      CredentialAuthenticator
}

// CookieOption customizes a CookieClient.
type CookieOption func(*CookieClient)

// WithCookieAuthenticator replaces the default plain authenticator.
func WithCookieAuthenticator(a CredentialAuthenticator) CookieOption {
	return func(c *CookieClient) { c.authn = a }
}

// NewCookieClient builds a client registered under name that reads the
// named cookie.
func NewCookieClient(name, cookieName string, opts ...CookieOption) *CookieClient {
	c := &CookieClient{name: name, cookieName: cookieName, authn: PlainAuthenticator()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CookieClient) Name() string { return c.name }

func (c *CookieClient) Credentials(wc auth.WebContext) (*auth.Credentials, error) {
	raw, err := wc.RequestHeader("Cookie")
	if err != nil {
		return nil, err
	}
	cookies, err := http.ParseCookie(raw)
	if err != nil {
		return nil, fmt.Errorf("clients: parse cookie header: %w", err)
	}
	for _, ck := range cookies {
		if ck.Name == c.cookieName && ck.Value != "" {
			return &auth.Credentials{Token: ck.Value}, nil
		}
	}
	return nil, nil
}

func (c *CookieClient) Profile(creds *auth.Credentials, wc auth.WebContext) (auth.Profile, error) {
	if creds == nil {
		return nil, nil
	}
	return c.authn(creds, wc)
}

var (
	_ auth.Client = (*HeaderClient)(nil)
	_ auth.Client = (*CookieClient)(nil)
)
