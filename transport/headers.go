package transport

import "net/http"

// AuthorizationHeader is the header carrying request credentials.
const AuthorizationHeader = "Authorization"

// BearerPrefix is the scheme prefix for bearer tokens.
const BearerPrefix = "Bearer "

// RequestOption mutates an outbound request before it is sent.
type RequestOption func(*http.Request)

// AuthorizationBearer sets the Authorization header to a bearer token.
func AuthorizationBearer(token string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set(AuthorizationHeader, BearerPrefix+token)
	}
}

// ForwardHeader copies the named header from a source request onto the
// outbound request, if present.
func ForwardHeader(src *http.Request, name string) RequestOption {
	return func(r *http.Request) {
		if v := src.Header.Get(name); v != "" {
			r.Header.Set(name, v)
		}
	}
}

// ForwardAuthorization copies the Authorization header from a source request
// onto the outbound request, if present.
func ForwardAuthorization(src *http.Request) RequestOption {
	return ForwardHeader(src, AuthorizationHeader)
}
