package model

// Event types reported by the address assets endpoint.
const (
	EventTypeNonFungible = "non_fungible_token_asset"
	EventTypeFungible    = "fungible_token_asset"
	EventTypeSTX         = "stx_asset"
)

// AssetEvent is one entry of an address's asset history.
type AssetEvent struct {
	EventIndex uint64 `json:"event_index"`
	EventType  string `json:"event_type"`
	TxID       string `json:"tx_id"`
	Asset      Asset  `json:"asset"`
}

// Asset describes the token moved by an AssetEvent.
type Asset struct {
	AssetEventType string     `json:"asset_event_type"`
	AssetID        string     `json:"asset_id"`
	Sender         string     `json:"sender"`
	Recipient      string     `json:"recipient"`
	Amount         string     `json:"amount,omitempty"`
	Value          AssetValue `json:"value"`
}

// AssetValue is the serialized token identifier of a non-fungible asset.
type AssetValue struct {
	Hex  string `json:"hex"`
	Repr string `json:"repr"`
}
