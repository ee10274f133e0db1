package model

// CoreInfo is the subset of node info the tool reads.
type CoreInfo struct {
	NetworkID       uint64 `json:"network_id"`
	StacksTipHeight uint64 `json:"stacks_tip_height"`
	BurnBlockHeight uint64 `json:"burn_block_height"`
	TenureHeight    uint64 `json:"tenure_height"`
}

// TxStatus reports where a submitted transaction stands.
type TxStatus struct {
	TxID        string `json:"tx_id"`
	Status      string `json:"tx_status"`
	BlockHeight uint64 `json:"block_height,omitempty"`
	Result      string `json:"result,omitempty"`
}
