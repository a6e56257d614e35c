package wire

import "github.com/goliatone/go-connector/core"

var (
	_ core.DocumentSerializer = (*JSONLDSerializer)(nil)
	_ core.DocumentSerializer = (*CBORSerializer)(nil)
)
