package core

// dispatcher.go – the tagged-variant instruction entry point (C6).
//
// Instructions are a closed set of concrete types implementing the
// Instruction marker interface; Dispatcher.Dispatch pattern-matches on the
// concrete type (a Go type switch stands in for a sum-type match) and
// forwards to the registry (C4), pool engine (C3), or router (C5). There
// is no package-level "current world" — Dispatch takes the World explicitly
// on every call and uses the Registry its Dispatcher was constructed with,
// so the whole instruction set stays auditable in one place and nothing
// here is a singleton.

import (
	"sync"

	"github.com/google/uuid"
)

// Instruction is the marker interface implemented by every instruction
// variant this package accepts.
type Instruction interface {
	instructionKind() string
}

type InitializeDEX struct {
	Domain    DomainID
	Owner     AccountID
	BaseAsset AssetID
	Authority AccountID
}

func (InitializeDEX) instructionKind() string { return "InitializeDEX" }

type CreateTokenPair struct {
	Domain    DomainID
	Target    AssetID
	Authority AccountID
}

func (CreateTokenPair) instructionKind() string { return "CreateTokenPair" }

type RemoveTokenPair struct {
	Pair      TokenPairID
	Authority AccountID
}

func (RemoveTokenPair) instructionKind() string { return "RemoveTokenPair" }

type CreateLiquiditySource struct {
	Pair      TokenPairID
	Kind      SourceKind
	Authority AccountID
}

func (CreateLiquiditySource) instructionKind() string { return "CreateLiquiditySource" }

type AddLiquidityToXYKPool struct {
	Pair                 TokenPairID
	AmountADesired       uint32
	AmountBDesired       uint32
	AmountAMin           uint32
	AmountBMin           uint32
	Depositor, Recipient AccountID
}

func (AddLiquidityToXYKPool) instructionKind() string { return "AddLiquidityToXYKPool" }

type RemoveLiquidityFromXYKPool struct {
	Pair             TokenPairID
	LiquidityAmount  uint32
	AmountAMin       uint32
	AmountBMin       uint32
	Owner, Recipient AccountID
}

func (RemoveLiquidityFromXYKPool) instructionKind() string { return "RemoveLiquidityFromXYKPool" }

type SwapExactTokensForTokensOnXYKPool struct {
	DEX                  DEXID
	Path                 []AssetID
	AmountIn             uint32
	AmountOutMin         uint32
	Authority, Recipient AccountID
}

func (SwapExactTokensForTokensOnXYKPool) instructionKind() string {
	return "SwapExactTokensForTokensOnXYKPool"
}

type SwapTokensForExactTokensOnXYKPool struct {
	DEX                  DEXID
	Path                 []AssetID
	AmountOut            uint32
	AmountInMax          uint32
	Authority, Recipient AccountID
}

func (SwapTokensForExactTokensOnXYKPool) instructionKind() string {
	return "SwapTokensForExactTokensOnXYKPool"
}

type SetFeeOnXYKPool struct {
	Pair      TokenPairID
	Bps       uint16
	Authority AccountID
}

func (SetFeeOnXYKPool) instructionKind() string { return "SetFeeOnXYKPool" }

type SetProtocolFeePartOnXYKPool struct {
	Pair      TokenPairID
	Bps       uint16
	Authority AccountID
}

func (SetProtocolFeePartOnXYKPool) instructionKind() string { return "SetProtocolFeePartOnXYKPool" }

// Result carries whatever an instruction produced, for the caller/host to
// surface — LP units minted, amounts withdrawn, amounts swapped. DEX and
// Path are populated only for the two swap instruction kinds, where the
// pair being observed spans multiple pools. TraceID correlates this result
// with the Observer notification for the same call; it plays no role in
// protocol state and is never compared or persisted.
type Result struct {
	TraceID   string
	Minted    uint32
	AmountA   uint32
	AmountB   uint32
	AmountOut uint32
	AmountIn  uint32
	DEX       DEXID
	Path      []AssetID
}

// Observer receives one notification per dispatched instruction, for
// logging and metrics. pair/pool are non-nil when the instruction mutated
// exactly one pool directly (liquidity and fee changes); swap instructions
// leave them nil and carry routing detail on Result instead, since a
// multi-hop swap can touch more than one pool. traceID is a fresh UUID
// minted once per Dispatch call, for correlating this notification with
// the Result the caller received. A nil Observer is replaced with a no-op
// at construction time.
type Observer interface {
	Dispatched(traceID, kind string, pair *TokenPairID, pool *PoolState, result Result, err error)
}

type noopObserver struct{}

func (noopObserver) Dispatched(string, string, *TokenPairID, *PoolState, Result, error) {}

// Dispatcher is the instruction entry point. It holds no world state of
// its own beyond the Registry and Observer it was constructed with; every
// Dispatch call receives the World collaborator fresh. Dispatch calls on
// one Dispatcher are serialized: each holds mu for the whole instruction.
type Dispatcher struct {
	Registry *Registry
	Observer Observer

	mu sync.Mutex
}

// NewDispatcher constructs a Dispatcher over reg. obs may be nil.
func NewDispatcher(reg *Registry, obs Observer) *Dispatcher {
	if obs == nil {
		obs = noopObserver{}
	}
	return &Dispatcher{Registry: reg, Observer: obs}
}

// Dispatch pattern-matches instr and executes it against w. A failure
// detected before the first ledger write leaves world state untouched; a
// failure after a transfer (for example a minimum-amount check in
// RemoveLiquidity) returns the error without undoing the writes already
// made, leaving rollback to the enclosing transaction. This package
// performs no retries. Every call mints a fresh trace id, carried on the
// returned Result and handed to the Observer, purely for log/metric
// correlation.
func (d *Dispatcher) Dispatch(w World, instr Instruction) (Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	traceID := uuid.New().String()
	res, pair, err := d.dispatch(w, instr)
	kind := instr.instructionKind()
	if err != nil {
		d.Observer.Dispatched(traceID, kind, nil, nil, Result{TraceID: traceID}, err)
		return Result{TraceID: traceID}, err
	}
	res.TraceID = traceID
	var pool *PoolState
	if pair != nil {
		if p, perr := d.Registry.xykPool(*pair); perr == nil {
			pool = p
		}
	}
	d.Observer.Dispatched(traceID, kind, pair, pool, res, nil)
	return res, nil
}

func (d *Dispatcher) dispatch(w World, instr Instruction) (Result, *TokenPairID, error) {
	switch ins := instr.(type) {
	case InitializeDEX:
		_, err := d.Registry.InitializeDEX(w, ins.Domain, ins.Owner, ins.BaseAsset, ins.Authority)
		return Result{}, nil, err

	case CreateTokenPair:
		_, err := d.Registry.CreateTokenPair(w, ins.Domain, ins.Target, ins.Authority)
		return Result{}, nil, err

	case RemoveTokenPair:
		err := d.Registry.RemoveTokenPair(w, ins.Pair, ins.Authority)
		return Result{}, nil, err

	case CreateLiquiditySource:
		_, err := d.Registry.CreateLiquiditySource(w, ins.Pair, ins.Kind, ins.Authority)
		return Result{}, nil, err

	case AddLiquidityToXYKPool:
		pool, err := d.Registry.xykPool(ins.Pair)
		if err != nil {
			return Result{}, nil, err
		}
		minted, err := pool.AddLiquidity(w, ins.Pair, ins.AmountADesired, ins.AmountBDesired, ins.AmountAMin, ins.AmountBMin, ins.Depositor, ins.Recipient)
		if err != nil {
			return Result{}, nil, err
		}
		return Result{Minted: minted}, &ins.Pair, nil

	case RemoveLiquidityFromXYKPool:
		pool, err := d.Registry.xykPool(ins.Pair)
		if err != nil {
			return Result{}, nil, err
		}
		a, b, err := pool.RemoveLiquidity(w, ins.Pair, ins.LiquidityAmount, ins.AmountAMin, ins.AmountBMin, ins.Owner, ins.Recipient)
		if err != nil {
			return Result{}, nil, err
		}
		return Result{AmountA: a, AmountB: b}, &ins.Pair, nil

	case SwapExactTokensForTokensOnXYKPool:
		if len(ins.Path) < 2 {
			return Result{}, nil, invalidArgument("path must contain at least two assets")
		}
		out, err := SwapExactIn(d.Registry, w, ins.DEX, ins.Path, ins.AmountIn, ins.AmountOutMin, ins.Authority, ins.Recipient)
		if err != nil {
			return Result{}, nil, err
		}
		return Result{AmountOut: out, AmountIn: ins.AmountIn, DEX: ins.DEX, Path: ins.Path}, nil, nil

	case SwapTokensForExactTokensOnXYKPool:
		if len(ins.Path) < 2 {
			return Result{}, nil, invalidArgument("path must contain at least two assets")
		}
		in, err := SwapExactOut(d.Registry, w, ins.DEX, ins.Path, ins.AmountOut, ins.AmountInMax, ins.Authority, ins.Recipient)
		if err != nil {
			return Result{}, nil, err
		}
		return Result{AmountIn: in, AmountOut: ins.AmountOut, DEX: ins.DEX, Path: ins.Path}, nil, nil

	case SetFeeOnXYKPool:
		err := d.Registry.SetFee(w, ins.Pair, ins.Bps, ins.Authority)
		return Result{}, &ins.Pair, err

	case SetProtocolFeePartOnXYKPool:
		err := d.Registry.SetProtocolFeePart(w, ins.Pair, ins.Bps, ins.Authority)
		return Result{}, &ins.Pair, err

	default:
		return Result{}, nil, invalidArgument("unknown instruction %T", instr)
	}
}
