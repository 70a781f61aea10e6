package auth

// Authorizer decides whether the given profiles may proceed with the request
// described by the context. Implementations are stateless and may be
// composed.
type Authorizer interface {
	IsAuthorized(wc WebContext, profiles []Profile) (bool, error)
}

// AuthorizerFunc adapts a function to the Authorizer interface.
type AuthorizerFunc func(wc WebContext, profiles []Profile) (bool, error)

func (f AuthorizerFunc) IsAuthorized(wc WebContext, profiles []Profile) (bool, error) {
	return f(wc, profiles)
}

// RequireAll composes authorizers with AND semantics. An empty composite
// denies.
func RequireAll(authorizers ...Authorizer) Authorizer {
	return AuthorizerFunc(func(wc WebContext, profiles []Profile) (bool, error) {
		if len(authorizers) == 0 {
			return false, nil
		}
		for _, a := range authorizers {
			ok, err := a.IsAuthorized(wc, profiles)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	})
}

// RequireAny composes authorizers with OR semantics. An empty composite
// denies.
func RequireAny(authorizers ...Authorizer) Authorizer {
	return AuthorizerFunc(func(wc WebContext, profiles []Profile) (bool, error) {
		for _, a := range authorizers {
			ok, err := a.IsAuthorized(wc, profiles)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	})
}

// IsAuthenticated authorizes requests whose every profile is a real
// (non-anonymous) principal with a non-empty identifier.
func IsAuthenticated() Authorizer {
	return AuthorizerFunc(func(_ WebContext, profiles []Profile) (bool, error) {
		if len(profiles) == 0 {
			return false, nil
		}
		for _, p := range profiles {
			if IsAnonymous(p) || p.ID() == "" {
				return false, nil
			}
		}
		return true, nil
	})
}

// RequireAnonymous authorizes only requests that carry no real principal.
func RequireAnonymous() Authorizer {
	return AuthorizerFunc(func(_ WebContext, profiles []Profile) (bool, error) {
		for _, p := range profiles {
			if !IsAnonymous(p) {
				return false, nil
			}
		}
		return true, nil
	})
}

// RequireAnyRole authorizes requests where some profile holds at least one of
// the given roles.
func RequireAnyRole(roles ...string) Authorizer {
	want := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		want[r] = struct{}{}
	}
	return AuthorizerFunc(func(_ WebContext, profiles []Profile) (bool, error) {
		for _, p := range profiles {
			for _, r := range p.Roles() {
				if _, ok := want[r]; ok {
					return true, nil
				}
			}
		}
		return false, nil
	})
}
