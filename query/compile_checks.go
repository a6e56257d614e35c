package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-connector/core"
)

var (
	_ gocmd.Querier[DescriptionRequestMessage, core.Response] = (*DescriptionQuery)(nil)
	_ core.Handler                                            = (*DescriptionQuery)(nil)
)
