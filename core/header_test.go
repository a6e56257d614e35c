package core

import (
	"testing"
)

func newTestHeaderService() *HeaderService {
	return NewHeaderService(
		NewStaticConnectorConfiguration(testConnector()),
		WithHeaderClock(fixedClock),
		WithHeaderIDGenerator(func() string { return "urn:uuid:fixed" }),
	)
}

func TestHeaderService_IsVersionSupported(t *testing.T) {
	headers := NewHeaderService(NewStaticConnectorConfiguration(Connector{
		ID:                   testConnectorID,
		InboundModelVersions: []string{"4.0.0", " 4.1.0 "},
	}))
	cases := map[string]bool{
		"4.0.0":   true,
		" 4.1.0":  true,
		"4.0":     false,
		"3.0.0":   false,
		"":        false,
		"4.0.0.1": false,
	}
	for version, want := range cases {
		if got := headers.IsVersionSupported(version); got != want {
			t.Fatalf("IsVersionSupported(%q) = %v, want %v", version, got, want)
		}
	}
}

func TestHeaderService_BuildSuccessHeader(t *testing.T) {
	headers := newTestHeaderService()
	header, err := headers.BuildSuccessHeader(testPeerID, "urn:message:1")
	if err != nil {
		t.Fatalf("build header: %v", err)
	}
	if header.Type != TypeDescriptionResponseMessage {
		t.Fatalf("unexpected header type %q", header.Type)
	}
	if header.IssuerConnector != testConnectorID {
		t.Fatalf("expected issuer to be local connector, got %q", header.IssuerConnector)
	}
	if header.ModelVersion != "4.0.0" {
		t.Fatalf("expected outbound model version, got %q", header.ModelVersion)
	}
	if header.CorrelationMessage != "urn:message:1" {
		t.Fatalf("expected correlation message, got %q", header.CorrelationMessage)
	}
	if len(header.RecipientConnectors) != 1 || header.RecipientConnectors[0] != testPeerID {
		t.Fatalf("expected recipient to be the requesting peer, got %#v", header.RecipientConnectors)
	}
	if header.ID != "urn:uuid:fixed" || !header.Issued.Equal(fixedClock()) {
		t.Fatalf("expected injected id and clock, got %q %v", header.ID, header.Issued)
	}
}

func TestHeaderService_BuildSuccessHeaderMissingFields(t *testing.T) {
	headers := NewHeaderService(NewStaticConnectorConfiguration(Connector{}))
	_, err := headers.BuildSuccessHeader("", "")
	if err == nil {
		t.Fatalf("expected missing fields to fail")
	}
	if !IsConstructionFailure(err) {
		t.Fatalf("expected construction failure, got %v", err)
	}
}

func TestHeaderService_RejectCorrelatesRequest(t *testing.T) {
	headers := newTestHeaderService()
	req := &IncomingRequest{ID: "urn:message:2", IssuerConnector: testPeerID}
	rejection := headers.Reject(req, RejectionNotFound, "missing")

	if rejection.Reason != RejectionNotFound {
		t.Fatalf("unexpected reason %q", rejection.Reason)
	}
	header := rejection.ResponseHeader()
	if header.Type != TypeRejectionMessage || header.RejectionReason != RejectionNotFound {
		t.Fatalf("expected rejection header with reason, got %#v", header)
	}
	if header.IssuerConnector != testConnectorID || header.ModelVersion != "4.0.0" {
		t.Fatalf("expected local identity on rejection, got %#v", header)
	}
	if header.CorrelationMessage != "urn:message:2" {
		t.Fatalf("expected rejection to correlate request, got %q", header.CorrelationMessage)
	}
	if len(header.RecipientConnectors) != 1 || header.RecipientConnectors[0] != testPeerID {
		t.Fatalf("expected peer as recipient, got %#v", header.RecipientConnectors)
	}
}

func TestDefaultRejectionHeader(t *testing.T) {
	header := DefaultRejectionHeader(RejectionBadParameters)
	if header.Type != TypeRejectionMessage {
		t.Fatalf("unexpected type %q", header.Type)
	}
	if header.RejectionReason != RejectionBadParameters {
		t.Fatalf("unexpected reason %q", header.RejectionReason)
	}
	if header.ID == "" || header.Issued.IsZero() {
		t.Fatalf("expected generated id and issue time")
	}
	if header.IssuerConnector != "" || header.CorrelationMessage != "" {
		t.Fatalf("expected no connector context, got %#v", header)
	}
}

func TestHeaderService_SnapshotsFollowConfigurationUpdates(t *testing.T) {
	config := NewStaticConnectorConfiguration(testConnector())
	headers := NewHeaderService(config)
	updated := testConnector()
	updated.InboundModelVersions = []string{"5.0.0"}
	config.Update(updated)

	if headers.IsVersionSupported("4.0.0") {
		t.Fatalf("expected old version to be dropped after update")
	}
	if !headers.IsVersionSupported("5.0.0") {
		t.Fatalf("expected new version to be supported after update")
	}
}

func TestHeaderService_ExplicitSnapshotIgnoresLaterUpdates(t *testing.T) {
	config := NewStaticConnectorConfiguration(testConnector())
	headers := NewHeaderService(config, WithHeaderClock(fixedClock))
	snapshot := headers.Connector()

	renamed := testConnector()
	renamed.ID = "https://connector.example/renamed"
	renamed.InboundModelVersions = []string{"5.0.0"}
	config.Update(renamed)

	if !SupportsVersion(snapshot, "4.0.0") || SupportsVersion(snapshot, "5.0.0") {
		t.Fatalf("expected snapshot versions to stay at 4.0.0, got %v", snapshot.InboundModelVersions)
	}
	header, err := headers.BuildSuccessHeaderFor(snapshot, testPeerID, "urn:message:1")
	if err != nil {
		t.Fatalf("build header: %v", err)
	}
	if header.IssuerConnector != testConnectorID {
		t.Fatalf("expected snapshot issuer, got %q", header.IssuerConnector)
	}
	rejection := headers.RejectFor(snapshot, &IncomingRequest{ID: "urn:message:3"}, RejectionNotFound, "missing")
	if rejection.Header.IssuerConnector != testConnectorID {
		t.Fatalf("expected snapshot issuer on rejection, got %q", rejection.Header.IssuerConnector)
	}
	if headers.Connector().ID != renamed.ID {
		t.Fatalf("expected fresh reads to see the update")
	}
}
