package config

import (
	"github.com/spf13/pflag"
)

// TxConfig holds configuration for the transaction commands.
type TxConfig struct {
	Config
	Outbox            string
	PostConditionMode string
	AnchorMode        string
}

// LoadTx merges config file, environment variables, and flags into TxConfig.
func LoadTx(cfgFile string, flags *pflag.FlagSet) (TxConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return TxConfig{}, err
	}
	v.SetDefault("outbox", "./data/outbox.jsonl")
	v.SetDefault("post-condition-mode", "deny")
	v.SetDefault("anchor-mode", "any")

	return TxConfig{
		Config:            fromViper(v),
		Outbox:            v.GetString("outbox"),
		PostConditionMode: v.GetString("post-condition-mode"),
		AnchorMode:        v.GetString("anchor-mode"),
	}, nil
}
