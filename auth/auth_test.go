package auth

import "testing"

func TestAnonymous(t *testing.T) {
	if Anonymous.ID() != "anonymous" {
		t.Errorf("ID = %s, want anonymous", Anonymous.ID())
	}
	if !IsAnonymous(Anonymous) {
		t.Error("Anonymous should be anonymous")
	}
	if !IsAnonymous(nil) {
		t.Error("nil profile should count as anonymous")
	}
	if IsAnonymous(NewProfile("alice")) {
		t.Error("a real profile is not anonymous")
	}
	if IsAnonymous(NewProfile("anonymous")) {
		t.Error("a real profile with the id anonymous is still not the anonymous variant")
	}
	if got := Anonymous.Attributes(); len(got) != 0 {
		t.Errorf("Attributes = %v, want empty", got)
	}
}

func TestUserProfile(t *testing.T) {
	p := NewProfile("alice")
	p.SetAttribute("email", "alice@example.com")
	p.AddRole("admin")

	if p.ID() != "alice" {
		t.Errorf("ID = %s", p.ID())
	}
	if v, ok := p.Attribute("email"); !ok || v != "alice@example.com" {
		t.Errorf("Attribute = (%v, %v)", v, ok)
	}
	if _, ok := p.Attribute("missing"); ok {
		t.Error("missing attribute reported present")
	}
	if !p.HasRole("admin") || p.HasRole("user") {
		t.Errorf("roles = %v", p.Roles())
	}

	// Accessor results are copies.
	p.Attributes()["email"] = "mallory@example.com"
	if v, _ := p.Attribute("email"); v != "alice@example.com" {
		t.Error("Attributes() must return a copy")
	}
	roles := p.Roles()
	roles[0] = "user"
	if !p.HasRole("admin") {
		t.Error("Roles() must return a copy")
	}
}
