package events

import "context"

// Event types broadcast to dashboard clients. These replace the original
// cross-tab storage notifications with a real broker.
const (
	EventWalletUpdated    = "wallet_updated"
	EventDepositMatured   = "deposit_matured"
	EventFeeConfigUpdated = "fee_config_updated"
	EventGameUpdated      = "game_updated"
	EventRealmUpdated     = "realm_updated"
)

// Channels
const (
	ChannelWallet  = "events:wallet"
	ChannelCatalog = "events:catalog"
	ChannelFees    = "events:fees"
)

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, channel string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, channel string, handler func(Event)) error
}
