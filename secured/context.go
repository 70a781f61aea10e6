package secured

import (
	"fmt"
	"net/http"

	"github.com/ggoodman/secured-service-go/auth"
)

// webContext is the stateless request adapter: it exposes exactly the
// request metadata available in the backend-to-backend model and fails
// loudly on everything else. One instance wraps one request and is immutable
// for that request's lifetime.
type webContext struct {
	r *http.Request
}

// NewWebContext wraps an inbound request in the stateless auth.WebContext
// adapter.
func NewWebContext(r *http.Request) auth.WebContext {
	return &webContext{r: r}
}

func (c *webContext) RequestHeader(name string) (string, error) {
	if v := c.r.Header.Get(name); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%w: header %s", auth.ErrNotFound, name)
}

func (c *webContext) RequestMethod() string { return c.r.Method }

func (c *webContext) Path() string { return c.r.URL.Path }

// IsSecure is fixed false: no TLS introspection is available at this layer.
func (c *webContext) IsSecure() bool { return false }

// SetResponseHeader is accepted and discarded; response mutation is not
// observable through this context.
func (c *webContext) SetResponseHeader(name, value string) {}

func (c *webContext) RequestParameter(name string) (string, error) {
	return "", auth.ErrUnsupportedOperation
}

func (c *webContext) RequestAttribute(name string) (any, error) {
	return nil, auth.ErrUnsupportedOperation
}

func (c *webContext) SetRequestAttribute(name string, value any) error {
	return auth.ErrUnsupportedOperation
}

func (c *webContext) RequestCookies() ([]*http.Cookie, error) {
	return nil, auth.ErrUnsupportedOperation
}

func (c *webContext) RemoteAddr() (string, error) {
	return "", auth.ErrUnsupportedOperation
}

func (c *webContext) FullRequestURL() (string, error) {
	return "", auth.ErrUnsupportedOperation
}

func (c *webContext) Scheme() (string, error) {
	return "", auth.ErrUnsupportedOperation
}

func (c *webContext) ServerName() (string, error) {
	return "", auth.ErrUnsupportedOperation
}

func (c *webContext) ServerPort() (int, error) {
	return 0, auth.ErrUnsupportedOperation
}

func (c *webContext) SetResponseStatus(code int) error {
	return auth.ErrUnsupportedOperation
}

func (c *webContext) WriteResponseContent(content string) error {
	return auth.ErrUnsupportedOperation
}

func (c *webContext) SetResponseContentType(contentType string) error {
	return auth.ErrUnsupportedOperation
}
