// Command dexserver exposes the DEX engine over HTTP: read-only JSON
// queries, a generic instruction-dispatch endpoint, and a Prometheus
// /metrics endpoint, built on net/http, logrus, and a package-level
// config loader.
package main

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	core "github.com/synnergy-network/xyk-dex/core"
	"github.com/synnergy-network/xyk-dex/internal/obs"
	"github.com/synnergy-network/xyk-dex/ledger"
	"github.com/synnergy-network/xyk-dex/pkg/config"
	"github.com/synnergy-network/xyk-dex/pkg/utils"
)

// defaultTimeoutSeconds bounds the HTTP server's read/write deadlines when
// DEX_SERVER_TIMEOUT_SECONDS is unset.
const defaultTimeoutSeconds = 15

type server struct {
	log        *logrus.Logger
	world      *ledger.Memory
	registry   *core.Registry
	dispatcher *core.Dispatcher
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		log.SetLevel(lvl)
	}
	if cfg.Logging.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log
}

func main() {
	_ = godotenv.Load()
	cfg, err := config.LoadFromEnv()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := newLogger(cfg)

	world := ledger.New()
	registry := core.NewRegistry()
	metrics := obs.NewMetrics(prometheus.DefaultRegisterer)
	dispatcher := core.NewDispatcher(registry, obs.New(log, metrics))

	srv := &server{log: log, world: world, registry: registry, dispatcher: dispatcher}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/dex", srv.handleGetDEX)
	mux.HandleFunc("/api/pairs", srv.handleGetPairs)
	mux.HandleFunc("/api/pools/", srv.handleGetPool)
	mux.HandleFunc("/api/instructions", srv.handleDispatch)
	mux.Handle("/metrics", promhttp.Handler())

	addr := cfg.Server.ListenAddr
	if v := os.Getenv("DEX_SERVER_LISTEN_ADDR"); v != "" {
		addr = v
	}
	timeout := time.Duration(utils.EnvOrDefaultInt("DEX_SERVER_TIMEOUT_SECONDS", defaultTimeoutSeconds)) * time.Second

	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
	log.WithFields(logrus.Fields{"addr": addr, "timeout": timeout}).Info("dexserver listening")
	if err := httpSrv.ListenAndServe(); err != nil {
		log.WithError(err).Fatal("dexserver exited")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if cerr, ok := err.(*core.Error); ok {
		switch cerr.Kind {
		case core.KindNotFound:
			status = http.StatusNotFound
		case core.KindAlreadyExists:
			status = http.StatusConflict
		case core.KindPermissionDenied:
			status = http.StatusForbidden
		case core.KindInvalidArgument:
			status = http.StatusBadRequest
		default:
			status = http.StatusUnprocessableEntity
		}
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *server) handleGetDEX(w http.ResponseWriter, r *http.Request) {
	domain := core.DomainID(r.URL.Query().Get("domain"))
	dex, err := core.GetDEX(s.registry, domain)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"domain":    dex.Domain,
		"owner":     dex.Owner,
		"baseAsset": dex.BaseAssetID,
	})
}

func (s *server) handleGetPairs(w http.ResponseWriter, r *http.Request) {
	domain := core.DomainID(r.URL.Query().Get("domain"))
	pairs, err := core.GetTokenPairList(s.registry, domain)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pairs)
}

func (s *server) handleGetPool(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pairID := core.TokenPairID{
		DEX:    core.DEXID(q.Get("dex")),
		Base:   core.AssetID(q.Get("base")),
		Target: core.AssetID(q.Get("target")),
	}
	info, err := core.GetXYKPoolInfo(s.registry, pairID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// instructionEnvelope is the wire shape POSTed to /api/instructions: a
// kind discriminator plus the union of every instruction's fields.
type instructionEnvelope struct {
	Kind string `json:"kind"`

	Domain    core.DomainID  `json:"domain,omitempty"`
	Owner     core.AccountID `json:"owner,omitempty"`
	BaseAsset core.AssetID   `json:"baseAsset,omitempty"`
	Authority core.AccountID `json:"authority,omitempty"`

	Target core.AssetID     `json:"target,omitempty"`
	Pair   core.TokenPairID `json:"pair,omitempty"`
	Kind2  core.SourceKind  `json:"sourceKind,omitempty"`

	AmountADesired uint32         `json:"amountADesired,omitempty"`
	AmountBDesired uint32         `json:"amountBDesired,omitempty"`
	AmountAMin     uint32         `json:"amountAMin,omitempty"`
	AmountBMin     uint32         `json:"amountBMin,omitempty"`
	Depositor      core.AccountID `json:"depositor,omitempty"`
	Recipient      core.AccountID `json:"recipient,omitempty"`

	LiquidityAmount uint32         `json:"liquidityAmount,omitempty"`
	Owner2          core.AccountID `json:"owner2,omitempty"`

	DEX          core.DEXID     `json:"dex,omitempty"`
	Path         []core.AssetID `json:"path,omitempty"`
	AmountIn     uint32         `json:"amountIn,omitempty"`
	AmountOutMin uint32         `json:"amountOutMin,omitempty"`
	AmountOut    uint32         `json:"amountOut,omitempty"`
	AmountInMax  uint32         `json:"amountInMax,omitempty"`

	Bps uint16 `json:"bps,omitempty"`
}

func (e instructionEnvelope) toInstruction() (core.Instruction, error) {
	switch e.Kind {
	case "InitializeDEX":
		return core.InitializeDEX{Domain: e.Domain, Owner: e.Owner, BaseAsset: e.BaseAsset, Authority: e.Authority}, nil
	case "CreateTokenPair":
		return core.CreateTokenPair{Domain: e.Domain, Target: e.Target, Authority: e.Authority}, nil
	case "RemoveTokenPair":
		return core.RemoveTokenPair{Pair: e.Pair, Authority: e.Authority}, nil
	case "CreateLiquiditySource":
		return core.CreateLiquiditySource{Pair: e.Pair, Kind: e.Kind2, Authority: e.Authority}, nil
	case "AddLiquidityToXYKPool":
		return core.AddLiquidityToXYKPool{
			Pair: e.Pair, AmountADesired: e.AmountADesired, AmountBDesired: e.AmountBDesired,
			AmountAMin: e.AmountAMin, AmountBMin: e.AmountBMin, Depositor: e.Depositor, Recipient: e.Recipient,
		}, nil
	case "RemoveLiquidityFromXYKPool":
		return core.RemoveLiquidityFromXYKPool{
			Pair: e.Pair, LiquidityAmount: e.LiquidityAmount, AmountAMin: e.AmountAMin, AmountBMin: e.AmountBMin,
			Owner: e.Owner2, Recipient: e.Recipient,
		}, nil
	case "SwapExactTokensForTokensOnXYKPool":
		return core.SwapExactTokensForTokensOnXYKPool{
			DEX: e.DEX, Path: e.Path, AmountIn: e.AmountIn, AmountOutMin: e.AmountOutMin,
			Authority: e.Authority, Recipient: e.Recipient,
		}, nil
	case "SwapTokensForExactTokensOnXYKPool":
		return core.SwapTokensForExactTokensOnXYKPool{
			DEX: e.DEX, Path: e.Path, AmountOut: e.AmountOut, AmountInMax: e.AmountInMax,
			Authority: e.Authority, Recipient: e.Recipient,
		}, nil
	case "SetFeeOnXYKPool":
		return core.SetFeeOnXYKPool{Pair: e.Pair, Bps: e.Bps, Authority: e.Authority}, nil
	case "SetProtocolFeePartOnXYKPool":
		return core.SetProtocolFeePartOnXYKPool{Pair: e.Pair, Bps: e.Bps, Authority: e.Authority}, nil
	default:
		return nil, core.ErrKind(core.KindInvalidArgument)
	}
}

func (s *server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "POST only"})
		return
	}
	var env instructionEnvelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	instr, err := env.toInstruction()
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := s.dispatcher.Dispatch(s.world, instr)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
