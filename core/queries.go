package core

// queries.go – read-only observers over C2–C4 (C7): DEX list, pair
// list/count, pool info, spot price, owned liquidity. Grounded on
// liquidity_views.go's Snapshot and on the original's Get* query
// executors in dex.rs.

import "sort"

// GetDEX returns the DEX registered for domain.
func GetDEX(reg *Registry, domain DomainID) (*DEX, error) {
	return reg.GetDEX(domain)
}

// GetDEXList returns every registered DEX.
func GetDEXList(reg *Registry) []*DEX {
	return reg.GetDEXList()
}

// GetTokenPair looks up one pair by id.
func GetTokenPair(reg *Registry, id TokenPairID) (*TokenPair, error) {
	return reg.GetTokenPair(id)
}

// GetTokenPairCount returns the number of registered pairs on a DEX.
func GetTokenPairCount(reg *Registry, domain DomainID) (int, error) {
	return reg.GetTokenPairCount(domain)
}

// GetTokenPairList returns the stored pairs for domain plus a synthetic
// cartesian expansion over their target assets: every unordered pair
// (t_i, t_j), i<j, representing an indirect route through the base asset.
// These synthetic pairs are not stored — a convenience view only, exactly
// matching the original's get_permuted_pairs behavior. Stored pairs are
// ordered by target asset id, and each synthetic pair takes the lower
// target id as its Base.
func GetTokenPairList(reg *Registry, domain DomainID) ([]TokenPairID, error) {
	reg.mu.Lock()
	pairs, err := reg.listTokenPairsLocked(domain)
	reg.mu.Unlock()
	if err != nil {
		return nil, err
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].ID.Target < pairs[j].ID.Target })

	out := make([]TokenPairID, 0, len(pairs))
	targets := make([]AssetID, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, p.ID)
		targets = append(targets, p.ID.Target)
	}
	dexID := NewDEXID(domain)
	for i := 0; i < len(targets); i++ {
		for j := i + 1; j < len(targets); j++ {
			out = append(out, TokenPairID{DEX: dexID, Base: targets[i], Target: targets[j]})
		}
	}
	return out, nil
}

// XYKPoolInfo is the read-only snapshot returned by GetXYKPoolInfo.
type XYKPoolInfo struct {
	PoolTokenAssetID     AssetID
	StorageAccountID     AccountID
	FeeTo                *AccountID
	FeeBps               uint16
	ProtocolFeePartBps   uint16
	PoolTokenTotalSupply uint32
	BaseAssetReserve     uint32
	TargetAssetReserve   uint32
}

// GetXYKPoolInfo returns the full pool state for pairID.
func GetXYKPoolInfo(reg *Registry, pairID TokenPairID) (XYKPoolInfo, error) {
	pool, err := reg.xykPool(pairID)
	if err != nil {
		return XYKPoolInfo{}, err
	}
	return XYKPoolInfo{
		PoolTokenAssetID:     pool.PoolTokenAssetID,
		StorageAccountID:     pool.StorageAccountID,
		FeeTo:                pool.FeeTo,
		FeeBps:               pool.FeeBps,
		ProtocolFeePartBps:   pool.ProtocolFeePartBps,
		PoolTokenTotalSupply: pool.PoolTokenTotalSupply,
		BaseAssetReserve:     pool.BaseAssetReserve,
		TargetAssetReserve:   pool.TargetAssetReserve,
	}, nil
}

// GetFeeOnXYKPool returns the pool's swap fee in basis points.
func GetFeeOnXYKPool(reg *Registry, pairID TokenPairID) (uint16, error) {
	pool, err := reg.xykPool(pairID)
	if err != nil {
		return 0, err
	}
	return pool.FeeBps, nil
}

// GetProtocolFeePartOnXYKPool returns the pool's protocol-fee share in
// basis points.
func GetProtocolFeePartOnXYKPool(reg *Registry, pairID TokenPairID) (uint16, error) {
	pool, err := reg.xykPool(pairID)
	if err != nil {
		return 0, err
	}
	return pool.ProtocolFeePartBps, nil
}

// GetSpotPriceOnXYKPool returns the ratio derived from amountIn(1, ...)
// iterated over path, as an integer. This collapses to 0 for nearly all
// realistic reserves; a correct implementation would return a rational or
// fixed-point value instead. price_with_fee mirrors the original's
// unimplemented placeholder and is always 0.
func GetSpotPriceOnXYKPool(reg *Registry, dexID DEXID, path []AssetID) (price, priceWithFee uint32, err error) {
	if len(path) < 2 {
		return 0, 0, invalidArgument("exchange path should contain at least one pair")
	}
	amounts, err := amountsIn(reg, dexID, 1, path)
	if err != nil {
		return 0, 0, err
	}
	first, last := amounts[0], amounts[len(amounts)-1]
	if first == 0 {
		return 0, 0, nil
	}
	return last / first, 0, nil
}

// OwnedLiquidity is the result of GetOwnedLiquidityOnXYKPoolInfo.
type OwnedLiquidity struct {
	BaseAssetQuantity   uint32
	TargetAssetQuantity uint32
	PoolTokenQuantity   uint32
}

// GetOwnedLiquidityOnXYKPoolInfo reports the base/target quantities that
// account's pool-token holding represents, given current reserves:
// qX = pool_token_quantity * Bx / total_supply.
func GetOwnedLiquidityOnXYKPoolInfo(reg *Registry, w World, pairID TokenPairID, account AccountID) (OwnedLiquidity, error) {
	pool, err := reg.xykPool(pairID)
	if err != nil {
		return OwnedLiquidity{}, err
	}
	baseBal, err := w.Balance(pool.StorageAccountID, pairID.Base)
	if err != nil {
		return OwnedLiquidity{}, err
	}
	targetBal, err := w.Balance(pool.StorageAccountID, pairID.Target)
	if err != nil {
		return OwnedLiquidity{}, err
	}
	lpBal, err := w.Balance(account, pool.PoolTokenAssetID)
	if err != nil {
		return OwnedLiquidity{}, err
	}
	if pool.PoolTokenTotalSupply == 0 {
		return OwnedLiquidity{PoolTokenQuantity: lpBal}, nil
	}
	baseQty := uint32(uint64(lpBal) * uint64(baseBal) / uint64(pool.PoolTokenTotalSupply))
	targetQty := uint32(uint64(lpBal) * uint64(targetBal) / uint64(pool.PoolTokenTotalSupply))
	return OwnedLiquidity{
		BaseAssetQuantity:   baseQty,
		TargetAssetQuantity: targetQty,
		PoolTokenQuantity:   lpBal,
	}, nil
}
