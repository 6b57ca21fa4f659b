package core

import "testing"

// setupRouterWorld builds a DEX at domain "Soramitsu" with base asset XOR
// and two pools, XOR/DOT and XOR/KSM, each seeded with liquidity.
func setupRouterWorld(t *testing.T) (*fakeWorld, *Registry, TokenPairID, TokenPairID) {
	t.Helper()
	w := newFakeWorld()
	w.addAccount("owner")
	w.addAsset(xor)
	w.addAsset(dot)
	ksm := AssetID("KSM#Kusama")
	w.addAsset(ksm)
	w.managers["Soramitsu"] = map[AccountID]bool{"owner": true}

	reg := NewRegistry()
	if _, err := reg.InitializeDEX(w, "Soramitsu", "owner", xor, "owner"); err != nil {
		t.Fatalf("InitializeDEX: %v", err)
	}
	if _, err := reg.CreateTokenPair(w, "Soramitsu", dot, "owner"); err != nil {
		t.Fatalf("CreateTokenPair DOT: %v", err)
	}
	if _, err := reg.CreateTokenPair(w, "Soramitsu", ksm, "owner"); err != nil {
		t.Fatalf("CreateTokenPair KSM: %v", err)
	}
	if _, err := reg.CreateLiquiditySource(w, TokenPairID{DEX: "Soramitsu", Base: xor, Target: dot}, SourceXYKPool, "owner"); err != nil {
		t.Fatalf("CreateLiquiditySource DOT: %v", err)
	}
	if _, err := reg.CreateLiquiditySource(w, TokenPairID{DEX: "Soramitsu", Base: xor, Target: ksm}, SourceXYKPool, "owner"); err != nil {
		t.Fatalf("CreateLiquiditySource KSM: %v", err)
	}

	dotPairID := TokenPairID{DEX: "Soramitsu", Base: xor, Target: dot}
	ksmPairID := TokenPairID{DEX: "Soramitsu", Base: xor, Target: ksm}
	dotPool, err := reg.xykPool(dotPairID)
	if err != nil {
		t.Fatalf("xykPool DOT: %v", err)
	}
	ksmPool, err := reg.xykPool(ksmPairID)
	if err != nil {
		t.Fatalf("xykPool KSM: %v", err)
	}

	w.addAccount("depositor")
	w.credit("depositor", xor, 12000)
	w.credit("depositor", dot, 4000)
	w.credit("depositor", ksm, 3000)
	if _, err := dotPool.AddLiquidity(w, dotPairID, 6000, 4000, 0, 0, "depositor", "depositor"); err != nil {
		t.Fatalf("AddLiquidity DOT: %v", err)
	}
	if _, err := ksmPool.AddLiquidity(w, ksmPairID, 6000, 3000, 0, 0, "depositor", "depositor"); err != nil {
		t.Fatalf("AddLiquidity KSM: %v", err)
	}
	return w, reg, dotPairID, ksmPairID
}

func TestAmountsOutRejectsPathShorterThanTwo(t *testing.T) {
	_, reg, _, _ := setupRouterWorld(t)
	if _, err := amountsOut(reg, "Soramitsu", 100, []AssetID{xor}); !ErrIsKind(err, KindInvalidArgument) {
		t.Fatalf("expected KindInvalidArgument for a one-asset path, got %v", err)
	}
}

func TestAmountsInRejectsPathShorterThanTwo(t *testing.T) {
	_, reg, _, _ := setupRouterWorld(t)
	if _, err := amountsIn(reg, "Soramitsu", 100, []AssetID{dot}); !ErrIsKind(err, KindInvalidArgument) {
		t.Fatalf("expected KindInvalidArgument for a one-asset path, got %v", err)
	}
}

func TestAmountsOutRejectsHopNotTouchingBaseAsset(t *testing.T) {
	_, reg, _, _ := setupRouterWorld(t)
	ksm := AssetID("KSM#Kusama")
	// DOT and KSM are both non-base assets on this star-topology DEX: a
	// direct DOT->KSM hop has no pool and touches neither the base asset.
	if _, err := amountsOut(reg, "Soramitsu", 100, []AssetID{dot, ksm}); !ErrIsKind(err, KindInvalidArgument) {
		t.Fatalf("expected KindInvalidArgument for a hop touching neither base asset, got %v", err)
	}
}

func TestSwapExactInAcrossTwoHops(t *testing.T) {
	w, reg, dotPairID, ksmPairID := setupRouterWorld(t)
	ksm := AssetID("KSM#Kusama")

	w.addAccount("trader")
	w.credit("trader", ksm, 2000)

	out, err := SwapExactIn(reg, w, "Soramitsu", []AssetID{ksm, xor, dot}, 2000, 0, "trader", "trader")
	if err != nil {
		t.Fatalf("SwapExactIn: %v", err)
	}
	if out != 1138 {
		t.Fatalf("SwapExactIn output = %d, want 1138", out)
	}
	traderDOT, _ := w.Balance("trader", dot)
	if traderDOT != 1138 {
		t.Fatalf("trader DOT balance = %d, want 1138", traderDOT)
	}

	ksmPool, err := reg.xykPool(ksmPairID)
	if err != nil {
		t.Fatalf("xykPool KSM: %v", err)
	}
	if ksmPool.BaseAssetReserve != 3605 || ksmPool.TargetAssetReserve != 5000 {
		t.Fatalf("KSM pool reserves = (%d, %d), want (3605, 5000)", ksmPool.BaseAssetReserve, ksmPool.TargetAssetReserve)
	}
	dotPool, err := reg.xykPool(dotPairID)
	if err != nil {
		t.Fatalf("xykPool DOT: %v", err)
	}
	if dotPool.BaseAssetReserve != 8395 || dotPool.TargetAssetReserve != 2862 {
		t.Fatalf("DOT pool reserves = (%d, %d), want (8395, 2862)", dotPool.BaseAssetReserve, dotPool.TargetAssetReserve)
	}
}

func TestSwapExactOutRejectsExcessiveInput(t *testing.T) {
	w, reg, dotPairID, _ := setupRouterWorld(t)
	_ = dotPairID
	w.addAccount("trader")
	w.credit("trader", dot, 10000)

	if _, err := SwapExactOut(reg, w, "Soramitsu", []AssetID{dot, xor}, 2000, 1, "trader", "trader"); !ErrIsKind(err, KindExcessiveInputAmount) {
		t.Fatalf("expected KindExcessiveInputAmount, got %v", err)
	}
}
