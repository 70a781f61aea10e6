package secured_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ggoodman/secured-service-go/auth"
	"github.com/ggoodman/secured-service-go/clients"
	"github.com/ggoodman/secured-service-go/jwtauth"
	"github.com/ggoodman/secured-service-go/secured"
	"github.com/ggoodman/secured-service-go/transport"
)

func newService(t *testing.T, opts ...auth.ConfigOption) *secured.Service {
	t.Helper()
	cfg, err := auth.NewConfig(opts...)
	if err != nil {
		t.Fatalf("build config: %v", err)
	}
	s, err := secured.NewService(cfg, secured.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return s
}

func echoID(w http.ResponseWriter, _ *http.Request, profile auth.Profile) {
	_, _ = io.WriteString(w, profile.ID())
}

func do(t *testing.T, h http.HandlerFunc, mutate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/res", nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestAuthenticateHeaderClient(t *testing.T) {
	s := newService(t, auth.WithClients(clients.NewHeaderClient("simple", "Authorization")))
	h := s.DefaultAuthenticate(echoID)

	t.Run("absent header resolves anonymous", func(t *testing.T) {
		rec := do(t, h, nil)
		if rec.Code != http.StatusOK || rec.Body.String() != "anonymous" {
			t.Fatalf("got %d %q, want 200 anonymous", rec.Code, rec.Body.String())
		}
	})

	t.Run("header value becomes the principal", func(t *testing.T) {
		rec := do(t, h, func(r *http.Request) { r.Header.Set("Authorization", "Alice") })
		if rec.Code != http.StatusOK || rec.Body.String() != "Alice" {
			t.Fatalf("got %d %q, want 200 Alice", rec.Code, rec.Body.String())
		}
	})

	t.Run("idempotent across repeats", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			rec := do(t, h, func(r *http.Request) { r.Header.Set("Authorization", "Alice") })
			if rec.Body.String() != "Alice" {
				t.Fatalf("iteration %d: got %q", i, rec.Body.String())
			}
		}
	})
}

func TestAuthenticateCookieClient(t *testing.T) {
	s := newService(t, auth.WithClients(clients.NewCookieClient("cookie", "auth")))
	h := s.DefaultAuthenticate(echoID)

	rec := do(t, h, func(r *http.Request) { r.Header.Set("Cookie", "auth=Alice; aaa=bbb") })
	if rec.Body.String() != "Alice" {
		t.Fatalf("got %q, want Alice", rec.Body.String())
	}

	rec = do(t, h, func(r *http.Request) { r.Header.Set("Cookie", "aaa=bbb") })
	if rec.Body.String() != "anonymous" {
		t.Fatalf("got %q, want anonymous", rec.Body.String())
	}
}

func TestAuthenticateNamedClientSelection(t *testing.T) {
	s := newService(t,
		auth.WithClients(
			clients.NewHeaderClient("primary", "Authorization"),
			clients.NewHeaderClient("alt", "X-Auth"),
		),
	)

	rec := do(t, s.Authenticate("alt", echoID), func(r *http.Request) {
		r.Header.Set("Authorization", "Alice")
		r.Header.Set("X-Auth", "Bob")
	})
	if rec.Body.String() != "Bob" {
		t.Fatalf("got %q, want Bob", rec.Body.String())
	}

	// An unregistered client name demotes to anonymous rather than failing.
	rec = do(t, s.Authenticate("missing", echoID), func(r *http.Request) {
		r.Header.Set("Authorization", "Alice")
	})
	if rec.Code != http.StatusOK || rec.Body.String() != "anonymous" {
		t.Fatalf("got %d %q, want 200 anonymous", rec.Code, rec.Body.String())
	}
}

type faultyClient struct {
	name  string
	panic bool
}

func (c *faultyClient) Name() string { return c.name }

func (c *faultyClient) Credentials(auth.WebContext) (*auth.Credentials, error) {
	if c.panic {
		panic("boom")
	}
	return &auth.Credentials{Token: "x"}, nil
}

func (c *faultyClient) Profile(*auth.Credentials, auth.WebContext) (auth.Profile, error) {
	panic("boom")
}

func TestAuthenticateDemotesFailures(t *testing.T) {
	s := newService(t, auth.WithClients(
		&faultyClient{name: "panics-extract", panic: true},
		&faultyClient{name: "panics-resolve"},
		clients.NewJWTClient("jwt", failingValidator{}),
	))

	for _, name := range []string{"panics-extract", "panics-resolve"} {
		rec := do(t, s.Authenticate(name, echoID), nil)
		if rec.Code != http.StatusOK || rec.Body.String() != "anonymous" {
			t.Fatalf("%s: got %d %q, want 200 anonymous", name, rec.Code, rec.Body.String())
		}
	}

	rec := do(t, s.Authenticate("jwt", echoID), func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer garbage")
	})
	if rec.Body.String() != "anonymous" {
		t.Fatalf("invalid token: got %q, want anonymous", rec.Body.String())
	}
}

type failingValidator struct{}

func (failingValidator) Validate(string) (jwt.MapClaims, error) {
	return nil, jwtauth.ErrInvalidToken
}

func TestAuthorizeRejections(t *testing.T) {
	s := newService(t, auth.WithClients(clients.NewHeaderClient("simple", "Authorization")))
	h := s.DefaultAuthorize(auth.IsAuthenticated(), echoID)

	t.Run("anonymous denied with 401", func(t *testing.T) {
		rec := do(t, h, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		assertRejection(t, rec, transport.NameUnauthorized, "Unauthorized")
	})

	t.Run("authenticated passes", func(t *testing.T) {
		rec := do(t, h, func(r *http.Request) { r.Header.Set("Authorization", "Alice") })
		if rec.Code != http.StatusOK || rec.Body.String() != "Alice" {
			t.Fatalf("got %d %q, want 200 Alice", rec.Code, rec.Body.String())
		}
	})

	t.Run("real principal denied with 403", func(t *testing.T) {
		denyAll := auth.AuthorizerFunc(func(auth.WebContext, []auth.Profile) (bool, error) {
			return false, nil
		})
		rec := do(t, s.DefaultAuthorize(denyAll, echoID), func(r *http.Request) {
			r.Header.Set("Authorization", "Alice")
		})
		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
		assertRejection(t, rec, transport.NameForbidden, "Authorization failed")
	})
}

func assertRejection(t *testing.T, rec *httptest.ResponseRecorder, name, detail string) {
	t.Helper()
	var e transport.Error
	if err := json.Unmarshal(rec.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode rejection: %v", err)
	}
	if e.Name != name || e.Detail != detail {
		t.Fatalf("rejection = %+v, want name=%s detail=%s", e, name, detail)
	}
}

func TestAuthorizeDemotesAuthorizerFailures(t *testing.T) {
	s := newService(t, auth.WithClients(clients.NewHeaderClient("simple", "Authorization")))

	erroring := auth.AuthorizerFunc(func(auth.WebContext, []auth.Profile) (bool, error) {
		return true, context.Canceled
	})
	panicking := auth.AuthorizerFunc(func(auth.WebContext, []auth.Profile) (bool, error) {
		panic("boom")
	})

	for name, a := range map[string]auth.Authorizer{"error": erroring, "panic": panicking, "nil": nil} {
		t.Run(name, func(t *testing.T) {
			rec := do(t, s.DefaultAuthorize(a, echoID), func(r *http.Request) {
				r.Header.Set("Authorization", "Alice")
			})
			if rec.Code != http.StatusForbidden {
				t.Fatalf("status = %d, want 403", rec.Code)
			}
		})
	}
}

func TestAuthorizeNamed(t *testing.T) {
	s := newService(t,
		auth.WithClients(clients.NewHeaderClient("simple", "Authorization")),
		auth.WithAuthorizer("authenticated", auth.IsAuthenticated()),
	)

	h, err := s.DefaultAuthorizeNamed("authenticated", echoID)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	rec := do(t, h, func(r *http.Request) { r.Header.Set("Authorization", "Alice") })
	if rec.Code != http.StatusOK || rec.Body.String() != "Alice" {
		t.Fatalf("got %d %q, want 200 Alice", rec.Code, rec.Body.String())
	}

	// Unknown names fail at composition time, not request time.
	if _, err := s.DefaultAuthorizeNamed("nope", echoID); err == nil {
		t.Fatal("unknown authorizer name should fail composition")
	}
}
