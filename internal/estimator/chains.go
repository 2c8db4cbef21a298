package estimator

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ContractGasPriceOracle is the registry key for the chain's gas price oracle
// predeploy.
const ContractGasPriceOracle = "gasPriceOracle"

// DefaultGasPriceOracleAddr is the OP-stack GasPriceOracle predeploy. It is
// used only when no chain context is available at all; chains that moved the
// oracle must be addressed explicitly or through their registry entry.
var DefaultGasPriceOracleAddr = common.HexToAddress("0x420000000000000000000000000000000000000F")

// Chain describes an L2 rollup network and its registered contract addresses.
type Chain struct {
	ID        uint64
	Name      string
	Contracts map[string]common.Address
}

// ContractAddress looks up a registered contract on the chain.
func (c *Chain) ContractAddress(name string) (common.Address, error) {
	if addr, ok := c.Contracts[name]; ok {
		return addr, nil
	}
	return common.Address{}, &UnknownContractError{Contract: name, ChainID: c.ID}
}

func opStackChain(id uint64, name string) *Chain {
	return &Chain{
		ID:   id,
		Name: name,
		Contracts: map[string]common.Address{
			ContractGasPriceOracle: DefaultGasPriceOracleAddr,
		},
	}
}

var (
	OPMainnet   = opStackChain(10, "optimism")
	OPSepolia   = opStackChain(11155420, "optimism-sepolia")
	Base        = opStackChain(8453, "base")
	BaseSepolia = opStackChain(84532, "base-sepolia")
	Zora        = opStackChain(7777777, "zora")
)

var knownChains = []*Chain{OPMainnet, OPSepolia, Base, BaseSepolia, Zora}

// ChainByID returns the registered chain descriptor for a chain id.
func ChainByID(id uint64) (*Chain, bool) {
	for _, c := range knownChains {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// ChainByName returns the registered chain descriptor for a chain name.
func ChainByName(name string) (*Chain, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range knownChains {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}
