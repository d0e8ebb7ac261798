package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mcdexio/perp-position-engine/common/logging"
	"github.com/mcdexio/perp-position-engine/database/models/valuation"
	"github.com/mcdexio/perp-position-engine/fixed"
	"github.com/mcdexio/perp-position-engine/perp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/atomic"
)

const maxBodyBytes = 1 << 16

// AccountValuer values the open positions of an account from live state.
type AccountValuer interface {
	ValueAccount(ctx context.Context, account common.Address) ([]*perp.Valuation, error)
}

// SnapshotSource returns the latest journaled snapshots of an account.
type SnapshotSource func(ctx context.Context, account common.Address) ([]*valuation.PositionSnapshot, error)

type Server struct {
	ctx       context.Context
	logger    logging.Logger
	calc      *perp.Calculator
	valuer    AccountValuer
	snapshots SnapshotSource
	server    *http.Server
	metrics   *metrics
	ready     *atomic.Bool
}

type Option func(*Server)

// WithValuer enables GET /positions.
func WithValuer(v AccountValuer) Option {
	return func(s *Server) { s.valuer = v }
}

// WithSnapshots enables GET /snapshots.
func WithSnapshots(src SnapshotSource) Option {
	return func(s *Server) { s.snapshots = src }
}

func NewServer(ctx context.Context, logger logging.Logger, addr string, calc *perp.Calculator, opts ...Option) *Server {
	s := &Server{
		ctx:    ctx,
		logger: logger,
		calc:   calc,
		ready:  atomic.NewBool(false),
	}
	for _, opt := range opts {
		opt(s)
	}

	registry := prometheus.NewRegistry()
	s.metrics = newMetrics(registry)

	mux := http.NewServeMux()
	mux.HandleFunc("/leverage", s.metrics.instrument("leverage", s.OnLeverage))
	mux.HandleFunc("/liquidation-price", s.metrics.instrument("liquidation-price", s.OnLiquidationPrice))
	mux.HandleFunc("/fees", s.metrics.instrument("fees", s.OnFees))
	mux.HandleFunc("/valuate", s.metrics.instrument("valuate", s.OnValuate))
	mux.HandleFunc("/positions", s.metrics.instrument("positions", s.OnPositions))
	mux.HandleFunc("/snapshots", s.metrics.instrument("snapshots", s.OnSnapshots))
	mux.HandleFunc("/healthz", s.OnHealthz)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	s.server = &http.Server{
		Addr:         addr,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 25 * time.Second,
		Handler:      mux,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Run serves until ctx is cancelled, then shuts the listener down.
func (s *Server) Run() error {
	s.logger.Info("Starting position engine api httpserver on %s", s.server.Addr)
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()
	s.ready.Store(true)

	select {
	case <-s.ctx.Done():
		s.logger.Info("Server receives shutdown signal.")
		return s.Shutdown()
	case err := <-errCh:
		s.ready.Store(false)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server closed unexpected: %w", err)
	}
}

func (s *Server) Shutdown() error {
	s.ready.Store(false)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

func (s *Server) OnHealthz(w http.ResponseWriter, r *http.Request) {
	if !s.ready.Load() {
		s.jsonError(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	s.jsonResponse(w, map[string]string{"message": "alive"})
}

func (s *Server) readPosition(w http.ResponseWriter, r *http.Request) (*PositionRequest, bool) {
	if r.Method != http.MethodPost {
		s.jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return nil, false
	}
	var req PositionRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.logger.Info("bad request body err=%s", err)
		s.jsonError(w, "invalid request body", http.StatusBadRequest)
		return nil, false
	}
	return &req, true
}

func (s *Server) OnLeverage(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readPosition(w, r)
	if !ok {
		return
	}
	change, _, err := req.parse()
	if err != nil {
		s.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	leverage := s.calc.Leverage(change)
	if leverage == nil {
		s.metrics.unavailable.WithLabelValues("leverage").Inc()
	}
	s.jsonResponse(w, &LeverageResp{
		Available:     leverage != nil,
		Leverage:      intString(leverage),
		Display:       fixed.FormatLeverage(leverage),
		OverLeveraged: s.calc.IsOverLeveraged(leverage),
	})
}

func (s *Server) OnLiquidationPrice(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readPosition(w, r)
	if !ok {
		return
	}
	change, _, err := req.parse()
	if err != nil {
		s.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	bounds := s.calc.LiquidationBounds(change)
	price := bounds.Combine(change.IsLong)
	if price == nil {
		s.metrics.unavailable.WithLabelValues("liquidation-price").Inc()
	}
	s.jsonResponse(w, &LiquidationPriceResp{
		Available:        price != nil,
		LiquidationPrice: intString(price),
		ForFees:          intString(bounds.ForFees),
		ForMaxLeverage:   intString(bounds.ForMaxLeverage),
		Display:          fixed.FormatUSD(price),
	})
}

func (s *Server) OnFees(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readPosition(w, r)
	if !ok {
		return
	}
	change, _, err := req.parse()
	if err != nil {
		s.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	positionFee := s.calc.PositionFee(change.Size)
	if positionFee == nil {
		s.metrics.unavailable.WithLabelValues("fees").Inc()
	}
	s.jsonResponse(w, &FeesResp{
		Available:   positionFee != nil,
		PositionFee: intString(positionFee),
		MarginFee:   intString(s.calc.PositionFee(change.SizeDelta)),
		FundingFee:  intString(perp.FundingFee(change.Size, change.EntryFundingRate, change.CumulativeFundingRate)),
	})
}

func (s *Server) OnValuate(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readPosition(w, r)
	if !ok {
		return
	}
	pos, err := req.position()
	if err != nil {
		s.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.jsonResponse(w, newValuationResp(s.calc.Valuate(pos), false))
}

func (s *Server) accountParam(w http.ResponseWriter, r *http.Request) (common.Address, bool) {
	if r.Method != http.MethodGet {
		s.jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return common.Address{}, false
	}
	account := r.URL.Query().Get("account")
	if !common.IsHexAddress(account) {
		s.jsonError(w, "invalid account", http.StatusBadRequest)
		return common.Address{}, false
	}
	return common.HexToAddress(account), true
}

func (s *Server) OnPositions(w http.ResponseWriter, r *http.Request) {
	if s.valuer == nil {
		s.jsonError(w, "position reader is not configured", http.StatusNotFound)
		return
	}
	account, ok := s.accountParam(w, r)
	if !ok {
		return
	}
	valuations, err := s.valuer.ValueAccount(r.Context(), account)
	if err != nil {
		s.logger.Error("fail to value account %s err=%s", account.Hex(), err)
		s.jsonError(w, "fail to read positions", http.StatusBadGateway)
		return
	}
	resp := make([]*ValuationResp, len(valuations))
	for i, v := range valuations {
		resp[i] = newValuationResp(v, true)
	}
	s.jsonResponse(w, resp)
}

func (s *Server) OnSnapshots(w http.ResponseWriter, r *http.Request) {
	if s.snapshots == nil {
		s.jsonError(w, "snapshot store is not configured", http.StatusNotFound)
		return
	}
	account, ok := s.accountParam(w, r)
	if !ok {
		return
	}
	snapshots, err := s.snapshots(r.Context(), account)
	if err != nil {
		s.logger.Error("fail to get snapshots of %s err=%s", account.Hex(), err)
		s.jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	if snapshots == nil {
		snapshots = []*valuation.PositionSnapshot{}
	}
	s.jsonResponse(w, snapshots)
}

func (s *Server) jsonResponse(w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("fail to write response err=%s", err)
	}
}

func (s *Server) jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	var body struct {
		Error string `json:"error"`
	}
	body.Error = msg
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}
