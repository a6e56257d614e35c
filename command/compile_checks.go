package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[SaveResourceMessage]     = (*SaveResourceCommand)(nil)
	_ gocmd.Commander[OfferResourceMessage]    = (*OfferResourceCommand)(nil)
	_ gocmd.Commander[WithdrawResourceMessage] = (*WithdrawResourceCommand)(nil)
	_ gocmd.Commander[DeleteResourceMessage]   = (*DeleteResourceCommand)(nil)
)
