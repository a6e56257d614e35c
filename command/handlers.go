package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-connector/core"
	"github.com/google/uuid"
)

// ResourceWriter is the write side of a resource store. Implementations
// that cache lookups must invalidate on every write.
type ResourceWriter interface {
	Save(ctx context.Context, resource core.Resource) (core.Resource, error)
	SetOffered(ctx context.Context, id uuid.UUID, offered bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type SaveResourceCommand struct {
	store ResourceWriter
}

func NewSaveResourceCommand(store ResourceWriter) *SaveResourceCommand {
	return &SaveResourceCommand{store: store}
}

// Execute stores the saved resource, with its assigned id and version, on
// the context result collector when one is present.
func (c *SaveResourceCommand) Execute(ctx context.Context, msg SaveResourceMessage) error {
	if c == nil || c.store == nil {
		return commandDependencyError("command: resource store is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	saved, err := c.store.Save(ctx, msg.Resource)
	if err != nil {
		return err
	}
	storeResult(ctx, saved)
	return nil
}

type OfferResourceCommand struct {
	store ResourceWriter
}

func NewOfferResourceCommand(store ResourceWriter) *OfferResourceCommand {
	return &OfferResourceCommand{store: store}
}

func (c *OfferResourceCommand) Execute(ctx context.Context, msg OfferResourceMessage) error {
	if c == nil || c.store == nil {
		return commandDependencyError("command: resource store is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	return c.store.SetOffered(ctx, msg.ID, true)
}

type WithdrawResourceCommand struct {
	store ResourceWriter
}

func NewWithdrawResourceCommand(store ResourceWriter) *WithdrawResourceCommand {
	return &WithdrawResourceCommand{store: store}
}

// Execute keeps the resource stored but removes it from the catalog and
// from targeted lookups.
func (c *WithdrawResourceCommand) Execute(ctx context.Context, msg WithdrawResourceMessage) error {
	if c == nil || c.store == nil {
		return commandDependencyError("command: resource store is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	return c.store.SetOffered(ctx, msg.ID, false)
}

type DeleteResourceCommand struct {
	store ResourceWriter
}

func NewDeleteResourceCommand(store ResourceWriter) *DeleteResourceCommand {
	return &DeleteResourceCommand{store: store}
}

func (c *DeleteResourceCommand) Execute(ctx context.Context, msg DeleteResourceMessage) error {
	if c == nil || c.store == nil {
		return commandDependencyError("command: resource store is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	return c.store.Delete(ctx, msg.ID)
}

// ResourceCommands groups the resource management commands over one store.
type ResourceCommands struct {
	Save     *SaveResourceCommand
	Offer    *OfferResourceCommand
	Withdraw *WithdrawResourceCommand
	Delete   *DeleteResourceCommand
}

func NewResourceCommands(store ResourceWriter) ResourceCommands {
	return ResourceCommands{
		Save:     NewSaveResourceCommand(store),
		Offer:    NewOfferResourceCommand(store),
		Withdraw: NewWithdrawResourceCommand(store),
		Delete:   NewDeleteResourceCommand(store),
	}
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
