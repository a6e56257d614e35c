package command

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-connector/core"
	"github.com/google/uuid"
)

const (
	TypeSaveResource     = "connector.command.resource.save"
	TypeOfferResource    = "connector.command.resource.offer"
	TypeWithdrawResource = "connector.command.resource.withdraw"
	TypeDeleteResource   = "connector.command.resource.delete"
)

// SaveResourceMessage creates or updates a resource. A zero ID asks the
// store to assign one.
type SaveResourceMessage struct {
	Resource core.Resource
}

func (SaveResourceMessage) Type() string { return TypeSaveResource }

func (m SaveResourceMessage) Validate() error {
	if strings.TrimSpace(m.Resource.Title) == "" {
		return commandValidationError("title", "resource title is required")
	}
	for i, representation := range m.Resource.Representations {
		if strings.TrimSpace(representation.MediaType) == "" {
			return commandValidationError("representations", fmt.Sprintf("representation %d requires a media type", i))
		}
	}
	return nil
}

type OfferResourceMessage struct {
	ID uuid.UUID
}

func (OfferResourceMessage) Type() string { return TypeOfferResource }

func (m OfferResourceMessage) Validate() error { return validateResourceID(m.ID) }

type WithdrawResourceMessage struct {
	ID uuid.UUID
}

func (WithdrawResourceMessage) Type() string { return TypeWithdrawResource }

func (m WithdrawResourceMessage) Validate() error { return validateResourceID(m.ID) }

type DeleteResourceMessage struct {
	ID uuid.UUID
}

func (DeleteResourceMessage) Type() string { return TypeDeleteResource }

func (m DeleteResourceMessage) Validate() error { return validateResourceID(m.ID) }

func validateResourceID(id uuid.UUID) error {
	if id == uuid.Nil {
		return commandValidationError("id", "resource id is required")
	}
	return nil
}
