package auth

import "net/http"

// WebContext is the framework-agnostic view of an inbound request that
// Clients and Authorizers read from. It is constructed per request and
// immutable for that request's lifetime.
//
// Only a narrow slice of the surface is supported in the stateless
// backend-to-backend model: header reads, method, path, and a fixed insecure
// scheme. Every other operation fails with ErrUnsupportedOperation so that a
// strategy depending on a richer context fails fast during integration
// instead of misbehaving silently. SetResponseHeader is the single
// exception: response mutation is not observable through this context, so it
// is accepted as a no-op.
type WebContext interface {
	// RequestHeader returns the named header value, or an ErrNotFound-wrapped
	// error when the header is absent.
	RequestHeader(name string) (string, error)
	// RequestMethod returns the HTTP method of the request.
	RequestMethod() string
	// Path returns the request path.
	Path() string
	// IsSecure reports whether the request arrived over a secure channel.
	// Always false: no TLS introspection is available at this layer.
	IsSecure() bool
	// SetResponseHeader is accepted and discarded.
	SetResponseHeader(name, value string)

	// The operations below are unsupported in the stateless model and always
	// fail with ErrUnsupportedOperation.

	RequestParameter(name string) (string, error)
	RequestAttribute(name string) (any, error)
	SetRequestAttribute(name string, value any) error
	RequestCookies() ([]*http.Cookie, error)
	RemoteAddr() (string, error)
	FullRequestURL() (string, error)
	Scheme() (string, error)
	ServerName() (string, error)
	ServerPort() (int, error)
	SetResponseStatus(code int) error
	WriteResponseContent(content string) error
	SetResponseContentType(contentType string) error
}
