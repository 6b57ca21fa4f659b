package core

// router.go – multi-hop pathing for exact-in/exact-out swaps (C5).
//
// Unlike a pathfinder that runs Dijkstra over an implicit graph to
// *discover* a route, here the caller supplies the path explicitly:
// each instruction carries the asset sequence to hop through. What
// remains is validating the path against the star topology the registry
// enforces (every hop touches the DEX base asset) and cascading
// amounts/execution across it — grounded on the original's
// xyk_pool_get_amounts_out/in and xyk_pool_swap_all.

// reservesForHop returns (reserveIn, reserveOut) oriented along assetIn ->
// assetOut, resolving the pool that prices that hop.
func reservesForHop(reg *Registry, dexID DEXID, assetIn, assetOut AssetID) (reserveIn, reserveOut uint32, err error) {
	_, pool, err := reg.poolForTokens(dexID, assetIn, assetOut)
	if err != nil {
		return 0, 0, err
	}
	dex, err := reg.GetDEX(DomainID(dexID))
	if err != nil {
		return 0, 0, err
	}
	if assetIn == dex.BaseAssetID {
		return pool.BaseAssetReserve, pool.TargetAssetReserve, nil
	}
	return pool.TargetAssetReserve, pool.BaseAssetReserve, nil
}

func validatePath(path []AssetID) error {
	if len(path) < 2 {
		return invalidArgument("path must contain at least two assets")
	}
	return nil
}

// amountsOut performs chained amountOut calculations across path, the
// exact-in quoting step.
func amountsOut(reg *Registry, dexID DEXID, amountIn uint32, path []AssetID) ([]uint32, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}
	amounts := make([]uint32, len(path))
	amounts[0] = amountIn
	for i := 0; i < len(path)-1; i++ {
		rIn, rOut, err := reservesForHop(reg, dexID, path[i], path[i+1])
		if err != nil {
			return nil, err
		}
		out, err := amountOut(amounts[i], rIn, rOut)
		if err != nil {
			return nil, err
		}
		amounts[i+1] = out
	}
	return amounts, nil
}

// amountsIn performs chained amountIn calculations across path right to
// left, the exact-out quoting step.
func amountsIn(reg *Registry, dexID DEXID, amountOutWanted uint32, path []AssetID) ([]uint32, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}
	amounts := make([]uint32, len(path))
	amounts[len(amounts)-1] = amountOutWanted
	for i := len(path) - 1; i > 0; i-- {
		rIn, rOut, err := reservesForHop(reg, dexID, path[i-1], path[i])
		if err != nil {
			return nil, err
		}
		in, err := amountIn(amounts[i], rIn, rOut)
		if err != nil {
			return nil, err
		}
		amounts[i-1] = in
	}
	return amounts, nil
}

// executeSwapPath deposits amounts[0] of path[0] from authority into the
// first hop's storage account, then cascades the swap across every hop:
// each intermediate hop's output lands directly in the next hop's storage
// account, never in the trader's custody.
func executeSwapPath(reg *Registry, w World, dexID DEXID, path []AssetID, amounts []uint32, authority, recipient AccountID) error {
	dex, err := reg.GetDEX(DomainID(dexID))
	if err != nil {
		return err
	}

	_, firstPool, err := reg.poolForTokens(dexID, path[0], path[1])
	if err != nil {
		return err
	}
	if err := w.Transfer(path[0], authority, firstPool.StorageAccountID, amounts[0], authority); err != nil {
		return wrapErr(KindUnknown, err, "transfer swap input")
	}

	for i := 0; i < len(path)-1; i++ {
		inAsset, outAsset := path[i], path[i+1]
		out := amounts[i+1]

		var base, target AssetID
		var baseOut, targetOut uint32
		switch {
		case inAsset == dex.BaseAssetID:
			base, target = inAsset, outAsset
			baseOut, targetOut = 0, out
		case outAsset == dex.BaseAssetID:
			base, target = outAsset, inAsset
			baseOut, targetOut = out, 0
		default:
			return invalidArgument("hop %d touches neither the base asset", i)
		}
		pairID := TokenPairID{DEX: dexID, Base: base, Target: target}
		pool, err := reg.xykPool(pairID)
		if err != nil {
			return err
		}

		next := recipient
		if i < len(path)-2 {
			_, nextPool, err := reg.poolForTokens(dexID, outAsset, path[i+2])
			if err != nil {
				return err
			}
			next = nextPool.StorageAccountID
		}
		if err := pool.Swap(w, pairID, baseOut, targetOut, next); err != nil {
			return err
		}
	}
	return nil
}

// SwapExactIn implements SwapExactTokensForTokensOnXYKPool: quote the path
// for amountIn, require the final leg clears amountOutMin, then execute.
func SwapExactIn(reg *Registry, w World, dexID DEXID, path []AssetID, amountIn, amountOutMin uint32, authority, recipient AccountID) (uint32, error) {
	amounts, err := amountsOut(reg, dexID, amountIn, path)
	if err != nil {
		return 0, err
	}
	out := amounts[len(amounts)-1]
	if out < amountOutMin {
		return 0, newErr(KindInsufficientOutputAmount, "insufficient output amount")
	}
	if err := executeSwapPath(reg, w, dexID, path, amounts, authority, recipient); err != nil {
		return 0, err
	}
	return out, nil
}

// SwapExactOut implements SwapTokensForExactTokensOnXYKPool: quote the
// path for the desired output, require the first leg stays under
// amountInMax, then execute.
func SwapExactOut(reg *Registry, w World, dexID DEXID, path []AssetID, amountOutWanted, amountInMax uint32, authority, recipient AccountID) (uint32, error) {
	amounts, err := amountsIn(reg, dexID, amountOutWanted, path)
	if err != nil {
		return 0, err
	}
	in := amounts[0]
	if in > amountInMax {
		return 0, newErr(KindExcessiveInputAmount, "excessive input amount")
	}
	if err := executeSwapPath(reg, w, dexID, path, amounts, authority, recipient); err != nil {
		return 0, err
	}
	return in, nil
}
