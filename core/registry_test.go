package core

import (
	"context"
	"testing"
)

func staticHandler(reason RejectionReason) Handler {
	return HandlerFunc(func(context.Context, *IncomingRequest, []byte) (Response, error) {
		return NewRejection(DefaultRejectionHeader(reason), reason, "static"), nil
	})
}

func TestHandlerRegistry_TypeTagsDeterministicOrder(t *testing.T) {
	registry := NewHandlerRegistry()
	for _, tag := range []string{"ids:QueryMessage", "ids:ArtifactRequestMessage", "ids:DescriptionRequestMessage"} {
		if err := registry.Register(tag, staticHandler(RejectionNotFound)); err != nil {
			t.Fatalf("register %s: %v", tag, err)
		}
	}

	got := registry.TypeTags()
	want := []string{"ids:ArtifactRequestMessage", "ids:DescriptionRequestMessage", "ids:QueryMessage"}
	if len(got) != len(want) {
		t.Fatalf("expected %d tags, got %v", len(want), got)
	}
	for idx := range want {
		if got[idx] != want[idx] {
			t.Fatalf("unexpected ordering at index %d: got %v want %v", idx, got, want)
		}
	}
}

func TestHandlerRegistry_DuplicateTagRejected(t *testing.T) {
	registry := NewHandlerRegistry()
	if err := registry.Register(TypeDescriptionRequestMessage, staticHandler(RejectionNotFound)); err != nil {
		t.Fatalf("register handler: %v", err)
	}
	err := registry.Register(TypeDescriptionRequestMessage, staticHandler(RejectionBadParameters))
	if err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if !hasTextCode(err, ConnectorErrorConflict) {
		t.Fatalf("expected conflict text code, got %v", err)
	}
}

func TestHandlerRegistry_DuplicateAcrossTagSpellings(t *testing.T) {
	registry := NewHandlerRegistry()
	registry.MustRegister("https://w3id.org/idsa/core/DescriptionRequestMessage", staticHandler(RejectionNotFound))
	if err := registry.Register(" ids:DescriptionRequestMessage ", staticHandler(RejectionNotFound)); err == nil {
		t.Fatalf("expected URI and prefixed tag to collide")
	}
	if _, ok := registry.Resolve(TypeDescriptionRequestMessage); !ok {
		t.Fatalf("expected handler to resolve by prefixed tag")
	}
}

func TestHandlerRegistry_MustRegisterPanicsOnDuplicate(t *testing.T) {
	registry := NewHandlerRegistry()
	registry.MustRegister(TypeDescriptionRequestMessage, staticHandler(RejectionNotFound))

	defer func() {
		if recover() == nil {
			t.Fatalf("expected MustRegister to panic on duplicate tag")
		}
	}()
	registry.MustRegister(TypeDescriptionRequestMessage, staticHandler(RejectionNotFound))
}

func TestHandlerRegistry_RejectsInvalidRegistrations(t *testing.T) {
	registry := NewHandlerRegistry()
	if err := registry.Register("  ", staticHandler(RejectionNotFound)); err == nil {
		t.Fatalf("expected empty type tag to fail")
	}
	if err := registry.Register(TypeDescriptionRequestMessage, nil); err == nil {
		t.Fatalf("expected nil handler to fail")
	}
}

func TestHandlerRegistry_SealedRejectsRegistration(t *testing.T) {
	registry := NewHandlerRegistry()
	registry.Seal()
	if !registry.Sealed() {
		t.Fatalf("expected registry to report sealed")
	}
	if err := registry.Register(TypeDescriptionRequestMessage, staticHandler(RejectionNotFound)); err == nil {
		t.Fatalf("expected registration after seal to fail")
	}
	if _, ok := registry.Resolve(TypeDescriptionRequestMessage); ok {
		t.Fatalf("expected nothing to resolve")
	}
}
