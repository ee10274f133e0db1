package config

import (
	"github.com/spf13/pflag"
)

// CompetitionConfig holds configuration for the competition command.
type CompetitionConfig struct {
	Config
	Participants   bool
	ParticipantIDs []string
}

// LoadCompetition merges config file, environment variables, and flags into CompetitionConfig.
func LoadCompetition(cfgFile string, flags *pflag.FlagSet) (CompetitionConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return CompetitionConfig{}, err
	}

	return CompetitionConfig{
		Config:         fromViper(v),
		Participants:   v.GetBool("participants"),
		ParticipantIDs: getStringSlice(v, "tenure-of"),
	}, nil
}
