// Package secured implements the authenticate/authorize composition over
// HTTP handlers: it selects a named credential-extraction client from the
// security configuration, resolves a principal for the request, optionally
// evaluates an authorization policy, and either invokes the wrapped handler
// with the resolved profile or rejects the request with one of the two
// typed denial conditions.
//
// Failure isolation is the load-bearing property here. Clients and
// authorizers are pluggable and may fail in arbitrary ways; every failure
// inside credential resolution demotes the request to the anonymous
// profile, and every failure inside authorization evaluation demotes the
// decision to deny. Nothing from those paths ever reaches an external
// caller; the only errors that cross the boundary are the typed
// Unauthorized (401) and Forbidden (403) conditions.
package secured

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ggoodman/secured-service-go/auth"
	"github.com/ggoodman/secured-service-go/internal/logctx"
	"github.com/ggoodman/secured-service-go/transport"
)

// Handler is a request handler that receives the resolved profile alongside
// the usual HTTP pair. The profile is never nil; an unauthenticated request
// carries auth.Anonymous.
type Handler func(w http.ResponseWriter, r *http.Request, profile auth.Profile)

// Service wraps handlers with authentication and authorization drawn from an
// immutable security configuration. A Service holds no per-request state and
// is safe for concurrent use.
type Service struct {
	cfg *auth.Config
	log *slog.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithLogger replaces the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// NewService builds a securing service over the given configuration.
func NewService(cfg *auth.Config, opts ...Option) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("secured: config required")
	}
	s := &Service{cfg: cfg, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Authenticate wraps h with credential resolution through the named client.
// An empty clientName selects the configured default client. Whatever
// happens during resolution, h runs: with the resolved profile on success,
// with auth.Anonymous otherwise.
func (s *Service) Authenticate(clientName string, h Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile := s.resolveProfile(clientName, r)
		ctx := logctx.WithRequestData(r.Context(), &logctx.RequestData{Method: r.Method, Path: r.URL.Path})
		ctx = logctx.WithAuthData(ctx, &logctx.AuthData{Client: clientName, Subject: profile.ID()})
		h(w, r.WithContext(ctx), profile)
	}
}

// DefaultAuthenticate is Authenticate with the configured default client.
func (s *Service) DefaultAuthenticate(h Handler) http.HandlerFunc {
	return s.Authenticate("", h)
}

// Authorize wraps h with authentication through the named client followed by
// evaluation of the given authorizer. The authorizer sees a fresh context
// over the request at invocation time, together with the already-resolved
// profile. Denials map to the typed rejection conditions: Unauthorized when
// no real principal was resolved, Forbidden when a principal was resolved
// but not permitted.
func (s *Service) Authorize(clientName string, authorizer auth.Authorizer, h Handler) http.HandlerFunc {
	return s.Authenticate(clientName, func(w http.ResponseWriter, r *http.Request, profile auth.Profile) {
		if !s.evaluate(authorizer, r, profile) {
			if auth.IsAnonymous(profile) {
				transport.WriteError(w, transport.NewUnauthorized("Unauthorized"))
			} else {
				transport.WriteError(w, transport.NewForbidden("Authorization failed"))
			}
			return
		}
		h(w, r, profile)
	})
}

// DefaultAuthorize is Authorize with the configured default client.
func (s *Service) DefaultAuthorize(authorizer auth.Authorizer, h Handler) http.HandlerFunc {
	return s.Authorize("", authorizer, h)
}

// AuthorizeNamed is Authorize with an authorizer looked up by name in the
// security configuration. An unregistered name is a configuration bug and is
// surfaced here, at composition time, never deferred to request time.
func (s *Service) AuthorizeNamed(clientName, authorizerName string, h Handler) (http.HandlerFunc, error) {
	authorizer, err := s.cfg.Authorizer(authorizerName)
	if err != nil {
		return nil, err
	}
	return s.Authorize(clientName, authorizer, h), nil
}

// DefaultAuthorizeNamed is AuthorizeNamed with the configured default
// client.
func (s *Service) DefaultAuthorizeNamed(authorizerName string, h Handler) (http.HandlerFunc, error) {
	return s.AuthorizeNamed("", authorizerName, h)
}

// resolveProfile runs the recoverable boundary around client lookup,
// credential extraction and profile resolution. Every failure, error or
// panic alike, demotes to the anonymous profile; the transport must never see an
// internal failure from this path.
func (s *Service) resolveProfile(clientName string, r *http.Request) (profile auth.Profile) {
	profile = auth.Anonymous
	defer func() {
		if rec := recover(); rec != nil {
			s.log.Error("credential resolution panicked", "client", clientName, "panic", rec)
			profile = auth.Anonymous
		}
	}()

	client, err := s.cfg.Client(clientName)
	if err != nil {
		s.log.Debug("client lookup failed", "client", clientName, "error", err)
		return auth.Anonymous
	}
	wc := NewWebContext(r)
	creds, err := client.Credentials(wc)
	if err != nil {
		s.log.Debug("credential extraction failed", "client", client.Name(), "error", err)
		return auth.Anonymous
	}
	p, err := client.Profile(creds, wc)
	if err != nil {
		s.log.Debug("profile resolution failed", "client", client.Name(), "error", err)
		return auth.Anonymous
	}
	if p == nil {
		return auth.Anonymous
	}
	return p
}

// evaluate runs the recoverable boundary around authorizer evaluation.
// Every failure demotes the decision to deny. A nil authorizer denies.
func (s *Service) evaluate(authorizer auth.Authorizer, r *http.Request, profile auth.Profile) (authorized bool) {
	defer func() {
		if rec := recover(); rec != nil {
			s.log.Error("authorizer panicked", "panic", rec)
			authorized = false
		}
	}()

	if authorizer == nil {
		return false
	}
	ok, err := authorizer.IsAuthorized(NewWebContext(r), []auth.Profile{profile})
	if err != nil {
		s.log.Debug("authorization evaluation failed", "subject", profile.ID(), "error", err)
		return false
	}
	return ok
}
