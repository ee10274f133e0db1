package config

import (
	"github.com/spf13/pflag"
)

// IndexConfig holds configuration for the index command.
type IndexConfig struct {
	Config
	FromID            uint64
	ToID              uint64
	BatchSize         uint64
	Checkpoint        string
	CheckpointEnabled bool
	StateName         string
	SkipUnminted      bool
}

// LoadIndex merges config file, environment variables, and flags into IndexConfig.
func LoadIndex(cfgFile string, flags *pflag.FlagSet) (IndexConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return IndexConfig{}, err
	}
	v.SetDefault("from", uint64(1))
	v.SetDefault("batch-size", uint64(25))
	v.SetDefault("checkpoint", "./data/checkpoint.json")
	v.SetDefault("checkpoint-enabled", true)
	v.SetDefault("state-name", "monsters")

	return IndexConfig{
		Config:            fromViper(v),
		FromID:            v.GetUint64("from"),
		ToID:              v.GetUint64("to"),
		BatchSize:         v.GetUint64("batch-size"),
		Checkpoint:        v.GetString("checkpoint"),
		CheckpointEnabled: v.GetBool("checkpoint-enabled"),
		StateName:         v.GetString("state-name"),
		SkipUnminted:      v.GetBool("skip-unminted"),
	}, nil
}
