package core

import (
	"fmt"
	"strings"
	"sync"
)

const (
	MediaTypeJSONLD = "application/ld+json"
	MediaTypeCBOR   = "application/cbor"
)

type ConnectorConfig struct {
	ID                   string   `koanf:"id" mapstructure:"id"`
	Title                string   `koanf:"title" mapstructure:"title"`
	Description          string   `koanf:"description" mapstructure:"description"`
	Curator              string   `koanf:"curator" mapstructure:"curator"`
	Maintainer           string   `koanf:"maintainer" mapstructure:"maintainer"`
	OutboundModelVersion string   `koanf:"outbound_model_version" mapstructure:"outbound_model_version"`
	InboundModelVersions []string `koanf:"inbound_model_versions" mapstructure:"inbound_model_versions"`
	ResourceBaseURI      string   `koanf:"resource_base_uri" mapstructure:"resource_base_uri"`
}

type SerializationConfig struct {
	MediaType string `koanf:"media_type" mapstructure:"media_type"`
}

type CacheConfig struct {
	Enabled    bool `koanf:"enabled" mapstructure:"enabled"`
	TTLSeconds int  `koanf:"ttl_seconds" mapstructure:"ttl_seconds"`
}

type Config struct {
	ServiceName   string              `koanf:"service_name" mapstructure:"service_name"`
	Connector     ConnectorConfig     `koanf:"connector" mapstructure:"connector"`
	Serialization SerializationConfig `koanf:"serialization" mapstructure:"serialization"`
	Cache         CacheConfig         `koanf:"cache" mapstructure:"cache"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: "connector",
		Connector: ConnectorConfig{
			OutboundModelVersion: "4.0.0",
			InboundModelVersions: []string{"4.0.0"},
		},
		Serialization: SerializationConfig{MediaType: MediaTypeJSONLD},
		Cache:         CacheConfig{Enabled: false, TTLSeconds: 60},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if err := c.Connector.Validate(); err != nil {
		return err
	}
	switch strings.TrimSpace(c.Serialization.MediaType) {
	case "", MediaTypeJSONLD, MediaTypeCBOR:
	default:
		return fmt.Errorf("core: unsupported serialization media_type %q", c.Serialization.MediaType)
	}
	if c.Cache.TTLSeconds < 0 {
		return fmt.Errorf("core: cache.ttl_seconds must be >= 0")
	}
	return nil
}

func (c ConnectorConfig) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("core: connector.id is required")
	}
	if strings.TrimSpace(c.OutboundModelVersion) == "" {
		return fmt.Errorf("core: connector.outbound_model_version is required")
	}
	for _, version := range c.InboundModelVersions {
		if strings.TrimSpace(version) != "" {
			return nil
		}
	}
	return fmt.Errorf("core: connector.inbound_model_versions requires at least one version")
}

func (c ConnectorConfig) ToConnector() Connector {
	versions := make([]string, 0, len(c.InboundModelVersions))
	for _, version := range c.InboundModelVersions {
		if trimmed := strings.TrimSpace(version); trimmed != "" {
			versions = append(versions, trimmed)
		}
	}
	return Connector{
		ID:                   strings.TrimSpace(c.ID),
		Title:                strings.TrimSpace(c.Title),
		Description:          strings.TrimSpace(c.Description),
		Curator:              strings.TrimSpace(c.Curator),
		Maintainer:           strings.TrimSpace(c.Maintainer),
		OutboundModelVersion: strings.TrimSpace(c.OutboundModelVersion),
		InboundModelVersions: versions,
		ResourceBaseURI:      strings.TrimSpace(c.ResourceBaseURI),
	}
}

// StaticConnectorConfiguration serves copies of a connector value. Update
// swaps the value atomically for later snapshots; snapshots already handed
// out are unaffected.
type StaticConnectorConfiguration struct {
	mu        sync.RWMutex
	connector Connector
}

func NewStaticConnectorConfiguration(connector Connector) *StaticConnectorConfiguration {
	return &StaticConnectorConfiguration{connector: connector.Clone()}
}

func (c *StaticConnectorConfiguration) Connector() Connector {
	if c == nil {
		return Connector{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connector.Clone()
}

func (c *StaticConnectorConfiguration) Update(connector Connector) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.connector = connector.Clone()
	c.mu.Unlock()
}
