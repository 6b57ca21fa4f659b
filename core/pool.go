package core

// pool.go – XYK pool state (C2) and the pool engine (C3): mint/burn LP,
// swap, protocol-fee accrual, reserve sync. Grounded on the constant-
// product engine in liquidity_pools.go (AddLiquidity/Swap/RemoveLiquidity)
// and on the original dex.rs xyk_pool_* functions for exact formulas.

import (
	"fmt"
	"math/big"
)

// MinimumLiquidity is permanently locked to the pool on its first mint,
// preventing share-price manipulation at near-zero supply.
const MinimumLiquidity = 1000

// MaxBasisPoints is 100% expressed in basis points.
const MaxBasisPoints = 10000

// DefaultFeeBps and DefaultProtocolFeePartBps seed a freshly created pool.
const (
	DefaultFeeBps             = 30
	DefaultProtocolFeePartBps = 0
)

// PoolState is the XYK pool's persisted data. It is mutated only through
// the engine methods below and the registry's SetFee/SetProtocolFeePart,
// all of which are called with the pair's pool already resolved by the
// registry (C4).
type PoolState struct {
	PoolTokenAssetID     AssetID
	StorageAccountID     AccountID
	FeeTo                *AccountID
	FeeBps               uint16
	ProtocolFeePartBps   uint16
	PoolTokenTotalSupply uint32
	BaseAssetReserve     uint32
	TargetAssetReserve   uint32
	KLast                uint64
}

func newPoolState(poolToken AssetID, storage AccountID) *PoolState {
	return &PoolState{
		PoolTokenAssetID: poolToken,
		StorageAccountID: storage,
		FeeBps:           DefaultFeeBps,
	}
}

// accrueProtocolFee mints roughly 1/6th of the implicit growth in sqrt(k)
// to fee_to, or resets k_last to zero once fee_to is cleared.
func (p *PoolState) accrueProtocolFee(w World, pair TokenPairID) error {
	if p.FeeTo == nil {
		if p.KLast != 0 {
			p.KLast = 0
		}
		return nil
	}
	if p.KLast == 0 {
		return nil
	}
	rootK := isqrt(uint64(p.BaseAssetReserve) * uint64(p.TargetAssetReserve))
	rootKLast := isqrt(p.KLast)
	if rootK <= rootKLast {
		return nil
	}
	numerator := uint64(p.PoolTokenTotalSupply) * (rootK - rootKLast)
	denominator := 5*rootK + rootKLast
	liquidity := numerator / denominator
	if liquidity == 0 {
		return nil
	}
	return p.mintPoolToken(w, *p.FeeTo, uint32(liquidity))
}

func (p *PoolState) mintPoolToken(w World, to AccountID, qty uint32) error {
	if err := w.Mint(p.PoolTokenAssetID, to, qty); err != nil {
		return wrapErr(KindUnknown, err, "mint pool token")
	}
	p.PoolTokenTotalSupply += qty
	return nil
}

func (p *PoolState) burnPoolToken(w World, from AccountID, qty uint32) error {
	if err := w.Burn(p.PoolTokenAssetID, from, qty); err != nil {
		return wrapErr(KindUnknown, err, "burn pool token")
	}
	p.PoolTokenTotalSupply -= qty
	return nil
}

func (p *PoolState) syncReserves(w World, pair TokenPairID) error {
	balA, err := w.Balance(p.StorageAccountID, pair.Base)
	if err != nil {
		return err
	}
	balB, err := w.Balance(p.StorageAccountID, pair.Target)
	if err != nil {
		return err
	}
	p.BaseAssetReserve = balA
	p.TargetAssetReserve = balB
	return nil
}

// AddLiquidity computes the optimal deposit, transfers it in, accrues the
// protocol fee against the pre-deposit reserves, mints LP units, then
// resyncs reserves.
func (p *PoolState) AddLiquidity(w World, pair TokenPairID, aDesired, bDesired, aMin, bMin uint32, depositor, recipient AccountID) (minted uint32, err error) {
	a, b, err := optimalDeposit(p.BaseAssetReserve, p.TargetAssetReserve, aDesired, bDesired, aMin, bMin)
	if err != nil {
		return 0, err
	}

	if err := w.Transfer(pair.Base, depositor, p.StorageAccountID, a, depositor); err != nil {
		return 0, wrapErr(KindUnknown, err, "transfer base deposit")
	}
	if err := w.Transfer(pair.Target, depositor, p.StorageAccountID, b, depositor); err != nil {
		return 0, wrapErr(KindUnknown, err, "transfer target deposit")
	}

	balA, err := w.Balance(p.StorageAccountID, pair.Base)
	if err != nil {
		return 0, err
	}
	balB, err := w.Balance(p.StorageAccountID, pair.Target)
	if err != nil {
		return 0, err
	}

	if err := p.accrueProtocolFee(w, pair); err != nil {
		return 0, err
	}

	if p.PoolTokenTotalSupply == 0 {
		product := uint64(a) * uint64(b)
		root := isqrt(product)
		if root <= MinimumLiquidity {
			return 0, newErr(KindInsufficientLiquidityMinted, "insufficient liquidity minted")
		}
		minted = uint32(root - MinimumLiquidity)
		p.PoolTokenTotalSupply = MinimumLiquidity
	} else {
		left := uint64(a) * uint64(p.PoolTokenTotalSupply) / uint64(p.BaseAssetReserve)
		right := uint64(b) * uint64(p.PoolTokenTotalSupply) / uint64(p.TargetAssetReserve)
		minted = uint32(minU64(left, right))
	}
	if minted == 0 {
		return 0, newErr(KindInsufficientLiquidityMinted, "insufficient liquidity minted")
	}
	if err := p.mintPoolToken(w, recipient, minted); err != nil {
		return 0, err
	}

	p.BaseAssetReserve = balA
	p.TargetAssetReserve = balB
	if p.FeeTo != nil {
		p.KLast = uint64(balA) * uint64(balB)
	}
	return minted, nil
}

// RemoveLiquidity burns LP units held in the storage account, pays out the
// proportional reserves, and resyncs.
func (p *PoolState) RemoveLiquidity(w World, pair TokenPairID, lp, aMin, bMin uint32, owner, recipient AccountID) (a, b uint32, err error) {
	if lp == 0 {
		return 0, 0, newErr(KindInvalidArgument, "zero LP amount")
	}
	if p.PoolTokenTotalSupply == 0 {
		return 0, 0, newErr(KindInsufficientLiquidity, "empty pool")
	}

	if err := w.Transfer(p.PoolTokenAssetID, owner, p.StorageAccountID, lp, owner); err != nil {
		return 0, 0, wrapErr(KindUnknown, err, "transfer LP into storage")
	}

	balA, err := w.Balance(p.StorageAccountID, pair.Base)
	if err != nil {
		return 0, 0, err
	}
	balB, err := w.Balance(p.StorageAccountID, pair.Target)
	if err != nil {
		return 0, 0, err
	}

	if err := p.accrueProtocolFee(w, pair); err != nil {
		return 0, 0, err
	}

	a = uint32(uint64(lp) * uint64(balA) / uint64(p.PoolTokenTotalSupply))
	b = uint32(uint64(lp) * uint64(balB) / uint64(p.PoolTokenTotalSupply))
	if a == 0 || b == 0 {
		return 0, 0, newErr(KindInsufficientLiquidityBurned, "insufficient liquidity burned")
	}

	if err := p.burnPoolToken(w, p.StorageAccountID, lp); err != nil {
		return 0, 0, err
	}
	if err := w.TransferUnchecked(pair.Base, p.StorageAccountID, recipient, a); err != nil {
		return 0, 0, wrapErr(KindUnknown, err, "withdraw base")
	}
	if err := w.TransferUnchecked(pair.Target, p.StorageAccountID, recipient, b); err != nil {
		return 0, 0, wrapErr(KindUnknown, err, "withdraw target")
	}

	if err := p.syncReserves(w, pair); err != nil {
		return 0, 0, err
	}
	// Rejects a withdrawal that drains either side of the pool to zero.
	if p.BaseAssetReserve == 0 || p.TargetAssetReserve == 0 {
		return 0, 0, newErr(KindInsufficientLiquidity, "insufficient reserves after withdrawal")
	}
	if a < aMin {
		return 0, 0, newErr(KindInsufficientA, "insufficient a amount")
	}
	if b < bMin {
		return 0, 0, newErr(KindInsufficientB, "insufficient b amount")
	}

	if p.FeeTo != nil {
		p.KLast = uint64(p.BaseAssetReserve) * uint64(p.TargetAssetReserve)
	}
	return a, b, nil
}

// Swap executes a single-pool swap step: exactly one of (baseOut, targetOut)
// is nonzero on a direct call; the router (C5) sequences calls to this
// method across a multi-hop path, optionally routing output straight into
// the next hop's storage account.
func (p *PoolState) Swap(w World, pair TokenPairID, baseOut, targetOut uint32, recipient AccountID) error {
	if baseOut == 0 && targetOut == 0 {
		return newErr(KindInsufficientOutputAmount, "insufficient output amount")
	}
	if !(baseOut < p.BaseAssetReserve && targetOut < p.TargetAssetReserve) {
		return newErr(KindInsufficientLiquidity, "insufficient liquidity")
	}

	if baseOut > 0 {
		if err := w.TransferUnchecked(pair.Base, p.StorageAccountID, recipient, baseOut); err != nil {
			return wrapErr(KindUnknown, err, "swap payout base")
		}
	}
	if targetOut > 0 {
		if err := w.TransferUnchecked(pair.Target, p.StorageAccountID, recipient, targetOut); err != nil {
			return wrapErr(KindUnknown, err, "swap payout target")
		}
	}

	baseBal, err := w.Balance(p.StorageAccountID, pair.Base)
	if err != nil {
		return err
	}
	targetBal, err := w.Balance(p.StorageAccountID, pair.Target)
	if err != nil {
		return err
	}

	var baseIn, targetIn uint32
	if baseBal > p.BaseAssetReserve-baseOut {
		baseIn = baseBal - (p.BaseAssetReserve - baseOut)
	}
	if targetBal > p.TargetAssetReserve-targetOut {
		targetIn = targetBal - (p.TargetAssetReserve - targetOut)
	}
	if baseIn == 0 && targetIn == 0 {
		return newErr(KindInsufficientInputAmount, "insufficient input amount")
	}

	// Both sides are carried in big.Int: baseBalAdjusted*targetBalAdjusted
	// and reserveBase*reserveTarget*1000*1000 each need on the order of
	// 2^84 bits for 32-bit reserves, well past what uint64 holds, matching
	// dex.rs's use of u128 for this comparison.
	baseBalAdjusted := new(big.Int).Sub(
		new(big.Int).Mul(big.NewInt(int64(baseBal)), big.NewInt(1000)),
		big.NewInt(int64(baseIn)*3),
	)
	targetBalAdjusted := new(big.Int).Sub(
		new(big.Int).Mul(big.NewInt(int64(targetBal)), big.NewInt(1000)),
		big.NewInt(int64(targetIn)*3),
	)
	lhs := new(big.Int).Mul(baseBalAdjusted, targetBalAdjusted)
	rhs := new(big.Int).Mul(
		big.NewInt(int64(p.BaseAssetReserve)),
		big.NewInt(int64(p.TargetAssetReserve)),
	)
	rhs.Mul(rhs, big.NewInt(1000*1000))
	if lhs.Cmp(rhs) < 0 {
		return newErr(KindKInvariantViolated, "k invariant violated")
	}

	p.BaseAssetReserve = baseBal
	p.TargetAssetReserve = targetBal
	return nil
}

func (p *PoolState) String() string {
	return fmt.Sprintf("pool(storage=%s lp=%s supply=%d resA=%d resB=%d fee=%dbps)",
		p.StorageAccountID, p.PoolTokenAssetID, p.PoolTokenTotalSupply, p.BaseAssetReserve, p.TargetAssetReserve, p.FeeBps)
}
