package auth

import "errors"

// ErrUnsupportedOperation indicates a WebContext operation that the stateless
// request model cannot honor. Callers must not depend on such operations
// succeeding.
var ErrUnsupportedOperation = errors.New("auth: operation not supported")

// ErrNotFound indicates a requested piece of request metadata (e.g. a header)
// is absent.
var ErrNotFound = errors.New("auth: not found")

// Profile is the principal resolved for a single request. Implementations are
// read-only once handed to a handler.
type Profile interface {
	// ID returns the unique identifier of the principal.
	ID() string
	// Attribute returns a named attribute and whether it was present.
	Attribute(name string) (any, bool)
	// Attributes returns a copy of all attributes.
	Attributes() map[string]any
	// Roles returns the roles granted to the principal.
	Roles() []string
}

// Credentials carries the raw credential material a Client extracted from a
// request, prior to validation.
type Credentials struct {
	// Token is the raw credential value (header value, cookie value, compact
	// JWT, ...).
	Token string
}

// Client is a named strategy that extracts credentials from a request and
// resolves them into a Profile. Clients are registered by name in a Config
// and selected per call by the securing layer.
//
// Both methods may fail for any reason; the securing layer demotes every
// failure to the Anonymous profile, so implementations should return ordinary
// errors rather than attempt their own recovery.
type Client interface {
	// Name returns the unique registration name of this client.
	Name() string
	// Credentials extracts raw credentials from the request context. A nil
	// result with nil error means "no credentials present".
	Credentials(wc WebContext) (*Credentials, error)
	// Profile validates credentials and resolves the principal. A nil result
	// with nil error means "no principal could be resolved".
	Profile(creds *Credentials, wc WebContext) (Profile, error)
}

// UserProfile is the standard mutable Profile implementation. Populate it
// during credential validation, then treat it as read-only.
type UserProfile struct {
	id         string
	attributes map[string]any
	roles      []string
}

// NewProfile returns a UserProfile with the given identifier.
func NewProfile(id string) *UserProfile {
	return &UserProfile{id: id, attributes: make(map[string]any)}
}

func (p *UserProfile) ID() string { return p.id }

func (p *UserProfile) Attribute(name string) (any, bool) {
	v, ok := p.attributes[name]
	return v, ok
}

func (p *UserProfile) Attributes() map[string]any {
	out := make(map[string]any, len(p.attributes))
	for k, v := range p.attributes {
		out[k] = v
	}
	return out
}

// SetAttribute records a named attribute on the profile.
func (p *UserProfile) SetAttribute(name string, value any) {
	p.attributes[name] = value
}

func (p *UserProfile) Roles() []string {
	return append([]string(nil), p.roles...)
}

// AddRole grants a role to the profile.
func (p *UserProfile) AddRole(role string) {
	p.roles = append(p.roles, role)
}

// HasRole reports whether the profile holds the given role.
func (p *UserProfile) HasRole(role string) bool {
	for _, r := range p.roles {
		if r == role {
			return true
		}
	}
	return false
}

// anonymousProfile is the distinguished "no identity" variant. It is a
// separate type, not a nil Profile, so it is always safe to call.
type anonymousProfile struct{}

func (anonymousProfile) ID() string { return "anonymous" }

func (anonymousProfile) Attribute(string) (any, bool) { return nil, false }

func (anonymousProfile) Attributes() map[string]any { return map[string]any{} }

func (anonymousProfile) Roles() []string { return nil }

// Anonymous is the profile used whenever no usable credentials were
// presented or credential resolution failed.
var Anonymous Profile = anonymousProfile{}

// IsAnonymous reports whether p is absent or the Anonymous profile.
func IsAnonymous(p Profile) bool {
	if p == nil {
		return true
	}
	_, ok := p.(anonymousProfile)
	return ok
}
