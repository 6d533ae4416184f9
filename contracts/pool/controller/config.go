package controller

import (
	"os"
	"path/filepath"

	"go.dedis.ch/dela-pool/core/bank"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"
)

// ConfigName is the name of the optional configuration file of the pools in
// the configuration folder.
const ConfigName = "pool.yaml"

// Config is the configuration of the pools of a node.
type Config struct {
	// MinStake is the minimum stake of a join in coins, for instance "0.01".
	MinStake string `yaml:"min_stake"`

	// Decimals is checked against the precision of the bank if set.
	Decimals int `yaml:"decimals"`
}

// LoadConfig reads the configuration in the folder. A missing file means the
// default configuration.
func LoadConfig(dir string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(filepath.Join(dir, ConfigName))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, xerrors.Errorf("failed to read config: %v", err)
	}

	err = yaml.UnmarshalStrict(data, &cfg)
	if err != nil {
		return cfg, xerrors.Errorf("failed to decode config: %v", err)
	}

	if cfg.Decimals != 0 && cfg.Decimals != bank.Decimals {
		return cfg, xerrors.Errorf("unsupported decimals %d, expected %d",
			cfg.Decimals, bank.Decimals)
	}

	return cfg, nil
}

// GetMinStake returns the minimum stake of the configuration, or the fallback
// if none is set. A minimum of zero is rejected.
func (cfg Config) GetMinStake(fallback bank.Amount) (bank.Amount, error) {
	if cfg.MinStake == "" {
		return fallback, nil
	}

	amount, err := bank.ParseAmount(cfg.MinStake)
	if err != nil {
		return 0, xerrors.Errorf("invalid min_stake: %v", err)
	}

	if amount == 0 {
		return 0, xerrors.New("invalid min_stake: must be positive")
	}

	return amount, nil
}
