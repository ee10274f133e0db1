package model

// ContractCallRecord is an unsigned contract call waiting for a wallet to sign it.
type ContractCallRecord struct {
	RequestID         string   `json:"request_id"`
	ContractAddress   string   `json:"contract_address"`
	ContractName      string   `json:"contract_name"`
	FunctionName      string   `json:"function_name"`
	FunctionArgs      []string `json:"function_args"`
	ArgsRepr          []string `json:"args_repr"`
	PostConditionMode string   `json:"post_condition_mode"`
	AnchorMode        string   `json:"anchor_mode"`
	CreatedAt         string   `json:"created_at"`
}
