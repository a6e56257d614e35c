package core

import (
	"testing"

	"github.com/google/uuid"
)

func TestNormalizeTypeTag(t *testing.T) {
	cases := map[string]string{
		"https://w3id.org/idsa/core/DescriptionRequestMessage": TypeDescriptionRequestMessage,
		"  ids:DescriptionRequestMessage ":                     TypeDescriptionRequestMessage,
		"ids:ArtifactRequestMessage":                           "ids:ArtifactRequestMessage",
		"":                                                     "",
	}
	for input, want := range cases {
		if got := NormalizeTypeTag(input); got != want {
			t.Fatalf("NormalizeTypeTag(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestConnector_ResourceURI(t *testing.T) {
	id := uuid.MustParse("5b9f4f3c-3d6a-4a58-9a4f-8f6a0b2f1c11")
	withBase := Connector{ResourceBaseURI: "https://connector.example/api/resources/"}
	if got := withBase.ResourceURI(id); got != "https://connector.example/api/resources/"+id.String() {
		t.Fatalf("unexpected resource URI %q", got)
	}
	if got := (Connector{}).ResourceURI(id); got != id.URN() {
		t.Fatalf("expected URN fallback, got %q", got)
	}
}

func TestIncomingRequest_TargetsElement(t *testing.T) {
	if (IncomingRequest{}).TargetsElement() {
		t.Fatalf("expected empty requested element to target the connector")
	}
	if (IncomingRequest{RequestedElement: "   "}).TargetsElement() {
		t.Fatalf("expected blank requested element to target the connector")
	}
	if !(IncomingRequest{RequestedElement: "urn:x"}).TargetsElement() {
		t.Fatalf("expected requested element to be targeted")
	}
}

func TestResponseVariants(t *testing.T) {
	var responses []Response = []Response{
		&BodyResponse{Header: ResponseHeader{Type: TypeDescriptionResponseMessage}},
		NewRejection(DefaultRejectionHeader(RejectionNotFound), RejectionNotFound, "missing"),
	}
	if responses[0].ResponseHeader().Type != TypeDescriptionResponseMessage {
		t.Fatalf("unexpected body response type")
	}
	if responses[1].ResponseHeader().Type != TypeRejectionMessage {
		t.Fatalf("unexpected rejection type")
	}
}
