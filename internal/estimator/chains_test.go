package estimator

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestOracleResolutionPrecedence(t *testing.T) {
	override := common.HexToAddress("0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA1111")
	boundOracle := common.HexToAddress("0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB2222")
	boundChain := &Chain{
		ID:        12345,
		Name:      "custom",
		Contracts: map[string]common.Address{ContractGasPriceOracle: boundOracle},
	}
	bareChain := &Chain{ID: 555, Name: "bare"}

	cases := []struct {
		name    string
		bound   *Chain
		req     GasEstimateRequest
		want    common.Address
		wantErr bool
	}{
		{
			name:  "override wins over registered chain",
			bound: boundChain,
			req:   GasEstimateRequest{OracleAddress: &override},
			want:  override,
		},
		{
			name: "override wins over request chain",
			req:  GasEstimateRequest{OracleAddress: &override, Chain: Base},
			want: override,
		},
		{
			name:  "request chain wins over bound chain",
			bound: boundChain,
			req:   GasEstimateRequest{Chain: Base},
			want:  DefaultGasPriceOracleAddr,
		},
		{
			name:  "bound chain registry",
			bound: boundChain,
			want:  boundOracle,
		},
		{
			name:    "chain without registered oracle",
			req:     GasEstimateRequest{Chain: bareChain},
			wantErr: true,
		},
		{
			name: "no chain context falls back to predeploy",
			want: DefaultGasPriceOracleAddr,
		},
	}
	for _, tc := range cases {
		est := newTestEstimator(t, newFakeClient(), tc.bound)
		got, err := est.resolveOracle(&tc.req)
		if tc.wantErr {
			var unknown *UnknownContractError
			if !errors.As(err, &unknown) {
				t.Fatalf("%s: expected UnknownContractError, got %v", tc.name, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: resolveOracle error: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: resolved %s, want %s", tc.name, got.Hex(), tc.want.Hex())
		}
	}
}

func TestEstimatorOracleOverride(t *testing.T) {
	est := newTestEstimator(t, newFakeClient(), Base)
	pinned := common.HexToAddress("0xCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCC3333")
	est.SetOracleOverride(pinned)

	got, err := est.resolveOracle(&GasEstimateRequest{})
	if err != nil {
		t.Fatalf("resolveOracle error: %v", err)
	}
	if got != pinned {
		t.Fatalf("resolved %s, want pinned override %s", got.Hex(), pinned.Hex())
	}

	perCall := common.HexToAddress("0xDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDD4444")
	got, err = est.resolveOracle(&GasEstimateRequest{OracleAddress: &perCall})
	if err != nil {
		t.Fatalf("resolveOracle error: %v", err)
	}
	if got != perCall {
		t.Fatalf("per-call override lost to the pinned one")
	}
}

func TestChainLookups(t *testing.T) {
	chain, ok := ChainByID(10)
	if !ok || chain != OPMainnet {
		t.Fatalf("ChainByID(10) = %v, %v", chain, ok)
	}
	if _, ok := ChainByID(1); ok {
		t.Fatalf("ChainByID(1) unexpectedly known")
	}
	chain, ok = ChainByName("Base")
	if !ok || chain != Base {
		t.Fatalf("ChainByName(Base) = %v, %v", chain, ok)
	}
	if _, ok := ChainByName("mainnet"); ok {
		t.Fatalf("ChainByName(mainnet) unexpectedly known")
	}
}

func TestKnownChainsRegisterOracle(t *testing.T) {
	for _, chain := range knownChains {
		addr, err := chain.ContractAddress(ContractGasPriceOracle)
		if err != nil {
			t.Fatalf("chain %s: %v", chain.Name, err)
		}
		if addr != DefaultGasPriceOracleAddr {
			t.Fatalf("chain %s registers oracle %s", chain.Name, addr.Hex())
		}
	}
}
