package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"l1gauge/internal/config"
	"l1gauge/internal/estimator"
)

type stubClient struct {
	l1Gas *big.Int
}

func (s *stubClient) ChainID(ctx context.Context) (*big.Int, error) {
	return big.NewInt(8453), nil
}

func (s *stubClient) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return 3, nil
}

func (s *stubClient) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000), nil
}

func (s *stubClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(100_000_000), nil
}

func (s *stubClient) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return &types.Header{BaseFee: big.NewInt(50_000_000)}, nil
}

func (s *stubClient) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	return 21000, nil
}

func (s *stubClient) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return common.LeftPadBytes(s.l1Gas.Bytes(), 32), nil
}

func newTestServer(t *testing.T, authToken string) *Server {
	t.Helper()
	cfg := &config.Config{}
	cfg.API.AuthToken = authToken
	est, err := estimator.New(&stubClient{l1Gas: big.NewInt(1600)}, estimator.Base, estimator.Config{})
	if err != nil {
		t.Fatalf("estimator.New error: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(cfg, logger, est)
}

func TestEstimateL1GasEndpoint(t *testing.T) {
	server := newTestServer(t, "")
	body := `{"to":"0x70997970C51812dc3A010C7d01b50e0d17dc79C8","value":"1000000000000000000"}`
	req := httptest.NewRequest(http.MethodPost, "/estimate/l1-gas", strings.NewReader(body))
	rec := httptest.NewRecorder()

	server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	var out map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad response json: %v", err)
	}
	if out["l1_gas"] != "1600" {
		t.Fatalf("l1_gas = %q, want 1600", out["l1_gas"])
	}
}

func TestEstimateRejectsContradictoryFees(t *testing.T) {
	server := newTestServer(t, "")
	body := `{"to":"0x70997970C51812dc3A010C7d01b50e0d17dc79C8","gas_price":"1","max_fee_per_gas":"2"}`
	req := httptest.NewRequest(http.MethodPost, "/estimate/l1-fee", strings.NewReader(body))
	rec := httptest.NewRecorder()

	server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400; body %s", rec.Code, rec.Body.String())
	}
}

func TestEstimateRequiresPost(t *testing.T) {
	server := newTestServer(t, "")
	req := httptest.NewRequest(http.MethodGet, "/estimate/l1-gas", nil)
	rec := httptest.NewRecorder()

	server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status %d, want 405", rec.Code)
	}
}

func TestAuthToken(t *testing.T) {
	server := newTestServer(t, "secret")
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated request got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated request got %d", rec.Code)
	}
}
