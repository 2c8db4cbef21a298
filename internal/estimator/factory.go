package estimator

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"l1gauge/internal/config"
)

// NewFromConfig wires an Estimator from the service configuration. A chain
// name or id that matches the registry binds that chain; an unknown id still
// works but relies on the oracle override or the predeploy default.
func NewFromConfig(client ChainClient, cfg *config.Config) (*Estimator, error) {
	minTipWei, err := GweiToWei(cfg.Tx.MinPriorityFeeGwei)
	if err != nil {
		return nil, err
	}
	chain, ok := ChainByName(cfg.Chain)
	if !ok && cfg.ChainID != 0 {
		chain, ok = ChainByID(cfg.ChainID)
	}
	if !ok {
		chain = nil
	}
	est, err := New(client, chain, Config{
		MaxFeeMultiplier:   cfg.Tx.MaxFeeMultiplier,
		MinPriorityFeeWei:  minTipWei,
		GasLimitMultiplier: cfg.Tx.GasLimitMultiplier,
	})
	if err != nil {
		return nil, err
	}
	if cfg.Oracle.Address != "" {
		if !common.IsHexAddress(cfg.Oracle.Address) {
			return nil, fmt.Errorf("invalid oracle address %q", cfg.Oracle.Address)
		}
		est.SetOracleOverride(common.HexToAddress(cfg.Oracle.Address))
	}
	return est, nil
}
