package wire

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-connector/core"
)

type representationDocument struct {
	Type      string `json:"@type"`
	ID        string `json:"@id"`
	MediaType string `json:"ids:mediaType,omitempty"`
	Language  string `json:"ids:language,omitempty"`
	Standard  string `json:"ids:representationStandard,omitempty"`
}

type resourceDocument struct {
	Context         map[string]string        `json:"@context,omitempty"`
	Type            string                   `json:"@type"`
	ID              string                   `json:"@id"`
	Title           []LangString             `json:"ids:title,omitempty"`
	Description     []LangString             `json:"ids:description,omitempty"`
	Keywords        []LangString             `json:"ids:keyword,omitempty"`
	Publisher       Reference                `json:"ids:publisher,omitempty"`
	Language        string                   `json:"ids:language,omitempty"`
	License         Reference                `json:"ids:standardLicense,omitempty"`
	Version         string                   `json:"ids:version,omitempty"`
	Created         *TypedLiteral            `json:"ids:created,omitempty"`
	Modified        *TypedLiteral            `json:"ids:modified,omitempty"`
	Representations []representationDocument `json:"ids:representation,omitempty"`
}

type catalogDocument struct {
	Type             string             `json:"@type"`
	ID               string             `json:"@id"`
	OfferedResources []resourceDocument `json:"ids:offeredResource"`
}

type connectorDocument struct {
	Context              map[string]string `json:"@context"`
	Type                 string            `json:"@type"`
	ID                   string            `json:"@id"`
	Title                []LangString      `json:"ids:title,omitempty"`
	Description          []LangString      `json:"ids:description,omitempty"`
	Curator              Reference         `json:"ids:curator,omitempty"`
	Maintainer           Reference         `json:"ids:maintainer,omitempty"`
	OutboundModelVersion string            `json:"ids:outboundModelVersion"`
	InboundModelVersions []string          `json:"ids:inboundModelVersion"`
	ResourceCatalogs     []catalogDocument `json:"ids:resourceCatalog"`
}

func langStrings(value string, language string) []LangString {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return []LangString{{Value: value, Language: strings.ToLower(strings.TrimSpace(language))}}
}

func buildResourceDocument(connector core.Connector, resource core.Resource) resourceDocument {
	document := resourceDocument{
		Type:        "ids:Resource",
		ID:          connector.ResourceURI(resource.ID),
		Title:       langStrings(resource.Title, resource.Language),
		Description: langStrings(resource.Description, resource.Language),
		Publisher:   Reference(strings.TrimSpace(resource.Publisher)),
		License:     Reference(strings.TrimSpace(resource.License)),
		Created:     timestampLiteral(resource.CreatedAt),
		Modified:    timestampLiteral(resource.ModifiedAt),
	}
	if language := strings.TrimSpace(resource.Language); language != "" {
		document.Language = "idsc:" + strings.ToUpper(language)
	}
	if resource.Version > 0 {
		document.Version = strconv.Itoa(resource.Version)
	}
	for _, keyword := range resource.Keywords {
		document.Keywords = append(document.Keywords, langStrings(keyword, resource.Language)...)
	}
	for _, representation := range resource.Representations {
		document.Representations = append(document.Representations, representationDocument{
			Type:      "ids:Representation",
			ID:        representation.ID.URN(),
			MediaType: representation.MediaType,
			Language:  representation.Language,
			Standard:  representation.Standard,
		})
	}
	return document
}

func buildConnectorDocument(description core.SelfDescription) connectorDocument {
	connector := description.Connector
	document := connectorDocument{
		Context:              defaultContext,
		Type:                 "ids:BaseConnector",
		ID:                   connector.ID,
		Title:                langStrings(connector.Title, "en"),
		Description:          langStrings(connector.Description, "en"),
		Curator:              Reference(connector.Curator),
		Maintainer:           Reference(connector.Maintainer),
		OutboundModelVersion: connector.OutboundModelVersion,
		InboundModelVersions: append([]string{}, connector.InboundModelVersions...),
		ResourceCatalogs:     make([]catalogDocument, 0, len(description.Catalogs)),
	}
	for _, catalog := range description.Catalogs {
		offered := make([]resourceDocument, 0, len(catalog.OfferedResources))
		for _, resource := range catalog.OfferedResources {
			offered = append(offered, buildResourceDocument(connector, resource))
		}
		document.ResourceCatalogs = append(document.ResourceCatalogs, catalogDocument{
			Type:             "ids:ResourceCatalog",
			ID:               catalog.ID.URN(),
			OfferedResources: offered,
		})
	}
	return document
}
