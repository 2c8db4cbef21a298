package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be a scalar")
	}
	if value.Value == "" {
		d.Duration = 0
		return nil
	}
	if value.Tag == "!!int" {
		var v int64
		if err := value.Decode(&v); err != nil {
			return err
		}
		d.Duration = time.Duration(v) * time.Millisecond
		return nil
	}
	dur, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	d.Duration = dur
	return nil
}

type Config struct {
	Chain   string `yaml:"chain"`
	ChainID uint64 `yaml:"chain_id"`

	RPC struct {
		HTTP string `yaml:"http"`
	} `yaml:"rpc"`

	Oracle struct {
		// Address overrides gas price oracle resolution for every request.
		Address string `yaml:"address"`
	} `yaml:"oracle"`

	Tx struct {
		MaxFeeMultiplier   float64 `yaml:"max_fee_multiplier"`
		MinPriorityFeeGwei float64 `yaml:"min_priority_fee_gwei"`
		GasLimitMultiplier float64 `yaml:"gas_limit_multiplier"`
	} `yaml:"tx"`

	API struct {
		Listen    string `yaml:"listen"`
		AuthToken string `yaml:"auth_token"`
	} `yaml:"api"`

	Startup struct {
		DialTimeout  Duration `yaml:"dial_timeout"`
		RetryMax     int      `yaml:"retry_max"`
		RetryBackoff Duration `yaml:"retry_backoff"`
	} `yaml:"startup"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.ChainID == 0 {
		switch strings.ToLower(c.Chain) {
		case "optimism":
			c.ChainID = 10
		case "optimism-sepolia":
			c.ChainID = 11155420
		case "base":
			c.ChainID = 8453
		case "base-sepolia":
			c.ChainID = 84532
		case "zora":
			c.ChainID = 7777777
		}
	}
	if c.Tx.MaxFeeMultiplier == 0 {
		c.Tx.MaxFeeMultiplier = 2.0
	}
	if c.Tx.GasLimitMultiplier == 0 {
		c.Tx.GasLimitMultiplier = 1.0
	}
	if c.API.Listen == "" {
		c.API.Listen = ":8080"
	}
	if c.Startup.DialTimeout.Duration == 0 {
		c.Startup.DialTimeout = Duration{Duration: 15 * time.Second}
	}
	if c.Startup.RetryMax == 0 {
		c.Startup.RetryMax = 3
	}
	if c.Startup.RetryBackoff.Duration == 0 {
		c.Startup.RetryBackoff = Duration{Duration: 500 * time.Millisecond}
	}
}

func (c *Config) validate() error {
	if c.RPC.HTTP == "" {
		return fmt.Errorf("rpc.http is required")
	}
	if c.Tx.MaxFeeMultiplier < 1.0 {
		return fmt.Errorf("max_fee_multiplier must be >= 1")
	}
	if c.Tx.GasLimitMultiplier < 1.0 {
		return fmt.Errorf("gas_limit_multiplier must be >= 1")
	}
	if c.Tx.MinPriorityFeeGwei < 0 {
		return fmt.Errorf("min_priority_fee_gwei must be non-negative")
	}
	return nil
}
