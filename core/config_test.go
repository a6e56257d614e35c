package core

import "testing"

func TestConfigValidate(t *testing.T) {
	cfg := testConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config: %v", err)
	}

	invalid := []func(*Config){
		func(c *Config) { c.ServiceName = " " },
		func(c *Config) { c.Connector.ID = "" },
		func(c *Config) { c.Connector.OutboundModelVersion = "" },
		func(c *Config) { c.Connector.InboundModelVersions = []string{" "} },
		func(c *Config) { c.Serialization.MediaType = "text/xml" },
		func(c *Config) { c.Cache.TTLSeconds = -1 },
	}
	for idx, mutate := range invalid {
		candidate := testConfig()
		mutate(&candidate)
		if err := candidate.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error", idx)
		}
	}
}

func TestConnectorConfig_ToConnectorTrims(t *testing.T) {
	connector := ConnectorConfig{
		ID:                   " urn:connector ",
		OutboundModelVersion: " 4.0.0 ",
		InboundModelVersions: []string{" 4.0.0 ", "", "4.1.0"},
	}.ToConnector()
	if connector.ID != "urn:connector" || connector.OutboundModelVersion != "4.0.0" {
		t.Fatalf("expected trimmed values, got %#v", connector)
	}
	if len(connector.InboundModelVersions) != 2 {
		t.Fatalf("expected blank versions dropped, got %#v", connector.InboundModelVersions)
	}
}

func TestStaticConnectorConfiguration_SnapshotsAreIsolated(t *testing.T) {
	config := NewStaticConnectorConfiguration(testConnector())
	snapshot := config.Connector()
	snapshot.InboundModelVersions[0] = "mutated"
	snapshot.Title = "mutated"

	fresh := config.Connector()
	if fresh.InboundModelVersions[0] == "mutated" || fresh.Title == "mutated" {
		t.Fatalf("expected snapshots not to alias shared configuration")
	}
}
