package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	testConnectorID = "https://connector.example/connector"
	testPeerID      = "https://peer.example/connector"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Connector.ID = testConnectorID
	cfg.Connector.Title = "Test Connector"
	cfg.Connector.ResourceBaseURI = "https://connector.example/api/resources"
	return cfg
}

func testConnector() Connector {
	return testConfig().Connector.ToConnector()
}

func testResource(title string) Resource {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return Resource{
		ID:          uuid.New(),
		Title:       title,
		Description: title + " description",
		Keywords:    []string{"test"},
		Language:    "EN",
		Version:     1,
		CreatedAt:   now,
		ModifiedAt:  now,
	}
}

func fixedClock() time.Time {
	return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
}

// stubSerializer renders a short text form that tests can assert on.
type stubSerializer struct {
	err error
}

func (stubSerializer) MediaType() string { return "text/plain" }

func (s stubSerializer) SerializeResource(connector Connector, resource Resource) (Document, error) {
	if s.err != nil {
		return Document{}, s.err
	}
	body := fmt.Sprintf("resource %s %s", connector.ResourceURI(resource.ID), resource.Title)
	return Document{MediaType: "text/plain", Body: []byte(body)}, nil
}

func (s stubSerializer) SerializeSelfDescription(description SelfDescription) (Document, error) {
	if s.err != nil {
		return Document{}, s.err
	}
	titles := []string{}
	for _, catalog := range description.Catalogs {
		for _, resource := range catalog.OfferedResources {
			titles = append(titles, resource.Title)
		}
	}
	body := fmt.Sprintf("connector %s [%s]", description.Connector.ID, strings.Join(titles, ","))
	return Document{MediaType: "text/plain", Body: []byte(body)}, nil
}

type stubLogger struct{}

func (stubLogger) Trace(string, ...any) {}
func (stubLogger) Debug(string, ...any) {}
func (stubLogger) Info(string, ...any)  {}
func (stubLogger) Warn(string, ...any)  {}
func (stubLogger) Error(string, ...any) {}
func (stubLogger) Fatal(string, ...any) {}
func (s stubLogger) WithContext(context.Context) Logger {
	return s
}

type stubLoggerProvider struct {
	logger Logger
}

func (s stubLoggerProvider) GetLogger(string) Logger {
	return s.logger
}

type mapRawLoader struct {
	values map[string]any
}

func (l mapRawLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.values))
	for key, value := range l.values {
		out[key] = value
	}
	return out, nil
}

type staticResolverProvider struct {
	resolver ResourceResolver
}

func (p staticResolverProvider) ResourceResolver() ResourceResolver {
	return p.resolver
}
