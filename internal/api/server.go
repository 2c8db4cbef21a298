package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"l1gauge/internal/config"
	"l1gauge/internal/estimator"
)

type Server struct {
	cfg       *config.Config
	logger    *slog.Logger
	estimator *estimator.Estimator
}

func NewServer(cfg *config.Config, logger *slog.Logger, est *estimator.Estimator) *Server {
	return &Server{cfg: cfg, logger: logger, estimator: est}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.withAuth(s.handleHealth))
	mux.HandleFunc("/estimate/l1-gas", s.withAuth(s.estimateHandler(s.estimator.EstimateL1Gas, "l1_gas")))
	mux.HandleFunc("/estimate/l1-fee", s.withAuth(s.estimateHandler(s.estimator.EstimateL1Fee, "l1_fee_wei")))
	mux.HandleFunc("/estimate/total-gas", s.withAuth(s.estimateHandler(s.estimator.EstimateTotalGas, "total_gas")))
	mux.HandleFunc("/estimate/total-fee", s.withAuth(s.estimateHandler(s.estimator.EstimateTotalFee, "total_fee_wei")))
	return mux
}

func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.API.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctxTimeout)
	}()
	return server.ListenAndServe()
}

func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.API.AuthToken != "" {
			token := r.Header.Get("X-API-Key")
			if token == "" {
				auth := r.Header.Get("Authorization")
				if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
					token = strings.TrimSpace(auth[7:])
				}
			}
			if token != s.cfg.API.AuthToken {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type estimateRequest struct {
	From                 string  `json:"from"`
	To                   string  `json:"to"`
	Value                string  `json:"value"`
	Data                 string  `json:"data"`
	ChainID              uint64  `json:"chain_id"`
	OracleAddress        string  `json:"oracle_address"`
	Nonce                *uint64 `json:"nonce"`
	GasLimit             uint64  `json:"gas_limit"`
	GasPrice             string  `json:"gas_price"`
	MaxFeePerGas         string  `json:"max_fee_per_gas"`
	MaxPriorityFeePerGas string  `json:"max_priority_fee_per_gas"`
}

type estimateFunc func(ctx context.Context, req *estimator.GasEstimateRequest) (*big.Int, error)

func (s *Server) estimateHandler(fn estimateFunc, field string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var dto estimateRequest
		if err := readJSON(r, &dto); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		req, err := dto.toRequest()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		result, err := fn(r.Context(), req)
		if err != nil {
			s.logger.Error("estimate failed", "path", r.URL.Path, "error", err)
			writeError(w, statusForError(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{field: result.String()})
	}
}

func (dto *estimateRequest) toRequest() (*estimator.GasEstimateRequest, error) {
	to, err := parseAddress(dto.To)
	if err != nil {
		return nil, err
	}
	req := &estimator.GasEstimateRequest{To: to, GasLimit: dto.GasLimit, Nonce: dto.Nonce}
	if dto.From != "" {
		from, err := parseAddress(dto.From)
		if err != nil {
			return nil, err
		}
		req.From = &from
	}
	if dto.Value != "" {
		if req.Value, err = estimator.ParseBig(dto.Value); err != nil {
			return nil, err
		}
	}
	if dto.Data != "" {
		if req.Data, err = hexutil.Decode(dto.Data); err != nil {
			return nil, err
		}
	}
	if dto.ChainID != 0 {
		chain, ok := estimator.ChainByID(dto.ChainID)
		if !ok {
			// Unknown id: keep the numeric id but no contract registry, so
			// resolution falls through to the override or fails loudly.
			chain = &estimator.Chain{ID: dto.ChainID}
		}
		req.Chain = chain
	}
	if dto.OracleAddress != "" {
		oracle, err := parseAddress(dto.OracleAddress)
		if err != nil {
			return nil, err
		}
		req.OracleAddress = &oracle
	}
	if dto.GasPrice != "" {
		if req.GasPrice, err = estimator.ParseBig(dto.GasPrice); err != nil {
			return nil, err
		}
	}
	if dto.MaxFeePerGas != "" {
		if req.MaxFeePerGas, err = estimator.ParseBig(dto.MaxFeePerGas); err != nil {
			return nil, err
		}
	}
	if dto.MaxPriorityFeePerGas != "" {
		if req.MaxPriorityFeePerGas, err = estimator.ParseBig(dto.MaxPriorityFeePerGas); err != nil {
			return nil, err
		}
	}
	return req, nil
}

func statusForError(err error) int {
	var invalid *estimator.InvalidRequestError
	var unknown *estimator.UnknownContractError
	var serialize *estimator.SerializeTransactionError
	switch {
	case errors.As(err, &invalid), errors.As(err, &unknown):
		return http.StatusBadRequest
	case errors.As(err, &serialize):
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

func readJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	defer r.Body.Close()
	b, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if len(b) == 0 {
		return errors.New("empty body")
	}
	return json.Unmarshal(b, v)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func parseAddress(value string) (common.Address, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return common.Address{}, errors.New("address is required")
	}
	if !common.IsHexAddress(value) {
		return common.Address{}, errors.New("invalid address")
	}
	return common.HexToAddress(value), nil
}
