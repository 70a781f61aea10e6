// Package auth defines the pluggable security contracts shared by the
// request-securing layer: resolved principals (Profile), named credential
// extraction strategies (Client), authorization predicates (Authorizer), the
// framework-agnostic request view (WebContext), and the immutable per-process
// security configuration that registers clients and authorizers by name.
//
// The public surface intentionally stays small: the composition logic in the
// secured package drives these contracts, and concrete strategies live in the
// clients package (or in the caller's own code). Implementations of Client and
// Authorizer must be safe for concurrent use; one instance serves all
// in-flight requests.
//
// # Profiles
//
// A Profile is constructed fresh for every request and discarded afterwards.
// The distinguished Anonymous profile represents "no usable credentials"; it
// is a real value, never nil, and downstream authorization logic branches on
// IsAnonymous rather than nil checks.
//
// # Errors
//
// ErrUnsupportedOperation signals that a WebContext operation is not available
// in the stateless request model. ErrNotFound signals an absent request
// header. Both are sentinel errors intended for errors.Is checks.
package auth
