package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Hex digests are 64 characters, so difficulty is capped there.
const maxDifficulty = 64

type ChainConfig struct {
	Difficulty   int
	NonceCeiling uint64
	Miners       int
}

func (c ChainConfig) Validate() error {
	if c.Difficulty < 1 || c.Difficulty > maxDifficulty {
		return fmt.Errorf("difficulty must be between 1 and %d, got %d", maxDifficulty, c.Difficulty)
	}
	if c.Miners < 0 {
		return fmt.Errorf("miners must be non-negative, got %d", c.Miners)
	}
	return nil
}

func LoadChainConfigFromCLI() ChainConfig {
	return ChainConfig{
		Difficulty:   viper.GetInt("difficulty"),
		NonceCeiling: viper.GetUint64("nonce-ceiling"),
		Miners:       viper.GetInt("miners"),
	}
}
