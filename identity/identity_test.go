package identity

import (
	"context"
	"testing"
)

func TestIdentityVariants(t *testing.T) {
	auth := Authenticated("u1")
	if auth.IsZero() || auth.IsAnonymous() {
		t.Error("Authenticated identity misclassified")
	}
	if auth.Key() != "u1" {
		t.Errorf("Key() = %q, want u1", auth.Key())
	}

	anon := Anonymous()
	if anon.IsZero() || !anon.IsAnonymous() {
		t.Error("Anonymous identity misclassified")
	}
	if anon.Key() != AnonymousKey {
		t.Errorf("Key() = %q, want %q", anon.Key(), AnonymousKey)
	}

	var zero Identity
	if !zero.IsZero() {
		t.Error("zero Identity not IsZero")
	}
	if zero.Key() != "" {
		t.Errorf("zero Key() = %q, want empty", zero.Key())
	}
}

func TestOwns(t *testing.T) {
	if !Authenticated("u1").Owns("u1") {
		t.Error("owner does not own its record")
	}
	if Authenticated("u1").Owns("u2") {
		t.Error("identity owns another user's record")
	}
	if !Anonymous().Owns(AnonymousKey) {
		t.Error("anonymous sentinel does not own anonymous records")
	}
	if Anonymous().Owns("u1") {
		t.Error("anonymous owns an authenticated record")
	}

	// The zero identity owns nothing — not even records whose stored
	// owner key happens to be empty.
	var zero Identity
	if zero.Owns("") {
		t.Error("unresolved identity owns empty owner key")
	}
}

func TestStaticResolver(t *testing.T) {
	ctx := context.Background()

	id, err := NewStatic("u1").Resolve(ctx)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if id.Key() != "u1" {
		t.Errorf("Key() = %q, want u1", id.Key())
	}

	id, err = NewStaticAnonymous().Resolve(ctx)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !id.IsAnonymous() {
		t.Error("static anonymous resolver returned non-anonymous identity")
	}

	id, err = NewStaticUnresolved().Resolve(ctx)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !id.IsZero() {
		t.Error("unresolved resolver returned a resolved identity")
	}
}

func TestFromContext(t *testing.T) {
	ctx := context.Background()

	id, err := FromContext{}.Resolve(ctx)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !id.IsZero() {
		t.Error("bare context resolved to an identity")
	}

	ctx = WithIdentity(ctx, Authenticated("u7"))
	id, err = FromContext{}.Resolve(ctx)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if id.Key() != "u7" {
		t.Errorf("Key() = %q, want u7", id.Key())
	}
}
