package clients_test

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/ggoodman/secured-service-go/auth"
	"github.com/ggoodman/secured-service-go/clients"
	"github.com/ggoodman/secured-service-go/secured"
)

func webContext(t *testing.T, headers map[string]string) auth.WebContext {
	t.Helper()
	req := httptest.NewRequest("GET", "/", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return secured.NewWebContext(req)
}

func TestHeaderClient(t *testing.T) {
	c := clients.NewHeaderClient("simple", "Authorization")

	creds, err := c.Credentials(webContext(t, map[string]string{"Authorization": "Alice"}))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if creds == nil || creds.Token != "Alice" {
		t.Fatalf("creds = %+v", creds)
	}
	p, err := c.Profile(creds, nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.ID() != "Alice" {
		t.Errorf("ID = %s, want Alice", p.ID())
	}

	if _, err := c.Credentials(webContext(t, nil)); !errors.Is(err, auth.ErrNotFound) {
		t.Errorf("missing header err = %v, want ErrNotFound", err)
	}

	if p, err := c.Profile(nil, nil); p != nil || err != nil {
		t.Errorf("nil creds should resolve to nothing: (%v, %v)", p, err)
	}
}

func TestHeaderClientPrefix(t *testing.T) {
	c := clients.NewHeaderClient("bearer", "Authorization", clients.WithPrefix("Bearer "))

	creds, err := c.Credentials(webContext(t, map[string]string{"Authorization": "Bearer tok"}))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if creds.Token != "tok" {
		t.Errorf("token = %q, want prefix stripped", creds.Token)
	}

	if _, err := c.Credentials(webContext(t, map[string]string{"Authorization": "Basic xyz"})); err == nil {
		t.Error("wrong scheme should fail extraction")
	}

	creds, err = c.Credentials(webContext(t, map[string]string{"Authorization": "Bearer "}))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if creds != nil {
		t.Errorf("empty token should yield no credentials, got %+v", creds)
	}
}

func TestCookieClient(t *testing.T) {
	c := clients.NewCookieClient("cookie", "auth")

	creds, err := c.Credentials(webContext(t, map[string]string{"Cookie": "auth=Alice; aaa=bbb"}))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if creds == nil || creds.Token != "Alice" {
		t.Fatalf("creds = %+v", creds)
	}

	creds, err = c.Credentials(webContext(t, map[string]string{"Cookie": "aaa=bbb"}))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if creds != nil {
		t.Errorf("absent cookie should yield no credentials, got %+v", creds)
	}

	if _, err := c.Credentials(webContext(t, nil)); !errors.Is(err, auth.ErrNotFound) {
		t.Errorf("missing header err = %v, want ErrNotFound", err)
	}
}

func TestCustomCredentialAuthenticator(t *testing.T) {
	c := clients.NewHeaderClient("custom", "X-Auth",
		clients.WithCredentialAuthenticator(func(creds *auth.Credentials, _ auth.WebContext) (auth.Profile, error) {
			if creds.Token != "sesame" {
				return nil, errors.New("bad token")
			}
			p := auth.NewProfile("alice")
			p.AddRole("admin")
			return p, nil
		}),
	)

	creds, err := c.Credentials(webContext(t, map[string]string{"X-Auth": "sesame"}))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	p, err := c.Profile(creds, nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.ID() != "alice" || len(p.Roles()) != 1 {
		t.Errorf("profile = %s roles=%v", p.ID(), p.Roles())
	}

	creds = &auth.Credentials{Token: "wrong"}
	if _, err := c.Profile(creds, nil); err == nil {
		t.Error("bad token should fail resolution")
	}
}
