package core

import "testing"

func TestInitializeDEXRequiresManagePermission(t *testing.T) {
	w := newFakeWorld()
	w.addAccount("owner")
	w.addAsset(xor)
	reg := NewRegistry()

	if _, err := reg.InitializeDEX(w, "Soramitsu", "owner", xor, "owner"); !ErrIsKind(err, KindPermissionDenied) {
		t.Fatalf("expected KindPermissionDenied, got %v", err)
	}

	w.managers["Soramitsu"] = map[AccountID]bool{"owner": true}
	if _, err := reg.InitializeDEX(w, "Soramitsu", "owner", xor, "owner"); err != nil {
		t.Fatalf("InitializeDEX: %v", err)
	}
	if _, err := reg.InitializeDEX(w, "Soramitsu", "owner", xor, "owner"); !ErrIsKind(err, KindAlreadyExists) {
		t.Fatalf("expected KindAlreadyExists on a second DEX for the same domain, got %v", err)
	}
}

func TestCreateTokenPairRejectsBaseAsTarget(t *testing.T) {
	w := newFakeWorld()
	w.addAccount("owner")
	w.addAsset(xor)
	w.addAsset(dot)
	w.managers["Soramitsu"] = map[AccountID]bool{"owner": true}
	reg := NewRegistry()
	if _, err := reg.InitializeDEX(w, "Soramitsu", "owner", xor, "owner"); err != nil {
		t.Fatalf("InitializeDEX: %v", err)
	}

	if _, err := reg.CreateTokenPair(w, "Soramitsu", xor, "owner"); !ErrIsKind(err, KindInvalidArgument) {
		t.Fatalf("expected KindInvalidArgument for target == base, got %v", err)
	}
	if _, err := reg.CreateTokenPair(w, "Soramitsu", dot, "owner"); err != nil {
		t.Fatalf("CreateTokenPair: %v", err)
	}
	if _, err := reg.CreateTokenPair(w, "Soramitsu", dot, "owner"); !ErrIsKind(err, KindAlreadyExists) {
		t.Fatalf("expected KindAlreadyExists on a duplicate pair, got %v", err)
	}
}

func TestCreateLiquiditySourceRejectsUnsupportedKind(t *testing.T) {
	w := newFakeWorld()
	w.addAccount("owner")
	w.addAsset(xor)
	w.addAsset(dot)
	w.managers["Soramitsu"] = map[AccountID]bool{"owner": true}
	reg := NewRegistry()
	if _, err := reg.InitializeDEX(w, "Soramitsu", "owner", xor, "owner"); err != nil {
		t.Fatalf("InitializeDEX: %v", err)
	}
	if _, err := reg.CreateTokenPair(w, "Soramitsu", dot, "owner"); err != nil {
		t.Fatalf("CreateTokenPair: %v", err)
	}

	if _, err := reg.CreateLiquiditySource(w, pair, SourceKind("order_book"), "owner"); !ErrIsKind(err, KindInvalidArgument) {
		t.Fatalf("expected KindInvalidArgument for an unsupported source kind, got %v", err)
	}
	if _, err := reg.CreateLiquiditySource(w, pair, SourceXYKPool, "owner"); err != nil {
		t.Fatalf("CreateLiquiditySource: %v", err)
	}
	if _, err := reg.CreateLiquiditySource(w, pair, SourceXYKPool, "owner"); !ErrIsKind(err, KindAlreadyExists) {
		t.Fatalf("expected KindAlreadyExists on a duplicate source, got %v", err)
	}
}

func TestSetFeeAndProtocolFeePartRequireManagePermission(t *testing.T) {
	w := newFakeWorld()
	w.addAccount("owner")
	w.addAccount("stranger")
	w.addAsset(xor)
	w.addAsset(dot)
	w.managers["Soramitsu"] = map[AccountID]bool{"owner": true}
	reg := NewRegistry()
	if _, err := reg.InitializeDEX(w, "Soramitsu", "owner", xor, "owner"); err != nil {
		t.Fatalf("InitializeDEX: %v", err)
	}
	if _, err := reg.CreateTokenPair(w, "Soramitsu", dot, "owner"); err != nil {
		t.Fatalf("CreateTokenPair: %v", err)
	}
	if _, err := reg.CreateLiquiditySource(w, pair, SourceXYKPool, "owner"); err != nil {
		t.Fatalf("CreateLiquiditySource: %v", err)
	}

	if err := reg.SetFee(w, pair, 50, "stranger"); !ErrIsKind(err, KindPermissionDenied) {
		t.Fatalf("expected KindPermissionDenied, got %v", err)
	}
	if err := reg.SetFee(w, pair, 50, "owner"); err != nil {
		t.Fatalf("SetFee: %v", err)
	}
	if bps, err := GetFeeOnXYKPool(reg, pair); err != nil || bps != 50 {
		t.Fatalf("GetFeeOnXYKPool = (%d, %v), want (50, nil)", bps, err)
	}

	if err := reg.SetFee(w, pair, MaxBasisPoints+1, "owner"); !ErrIsKind(err, KindInvalidArgument) {
		t.Fatalf("expected KindInvalidArgument for fee above MaxBasisPoints, got %v", err)
	}

	if err := reg.SetProtocolFeePart(w, pair, 1667, "stranger"); !ErrIsKind(err, KindPermissionDenied) {
		t.Fatalf("expected KindPermissionDenied, got %v", err)
	}
	if err := reg.SetProtocolFeePart(w, pair, 1667, "owner"); err != nil {
		t.Fatalf("SetProtocolFeePart: %v", err)
	}
	if bps, err := GetProtocolFeePartOnXYKPool(reg, pair); err != nil || bps != 1667 {
		t.Fatalf("GetProtocolFeePartOnXYKPool = (%d, %v), want (1667, nil)", bps, err)
	}
}

func TestGetTokenPairListIncludesSyntheticPermutations(t *testing.T) {
	w := newFakeWorld()
	w.addAccount("owner")
	w.addAsset(xor)
	w.addAsset(dot)
	w.addAsset("KSM#Kusama")
	w.managers["Soramitsu"] = map[AccountID]bool{"owner": true}
	reg := NewRegistry()
	if _, err := reg.InitializeDEX(w, "Soramitsu", "owner", xor, "owner"); err != nil {
		t.Fatalf("InitializeDEX: %v", err)
	}
	if _, err := reg.CreateTokenPair(w, "Soramitsu", dot, "owner"); err != nil {
		t.Fatalf("CreateTokenPair DOT: %v", err)
	}
	if _, err := reg.CreateTokenPair(w, "Soramitsu", "KSM#Kusama", "owner"); err != nil {
		t.Fatalf("CreateTokenPair KSM: %v", err)
	}

	pairs, err := GetTokenPairList(reg, "Soramitsu")
	if err != nil {
		t.Fatalf("GetTokenPairList: %v", err)
	}
	// Two stored pairs plus one synthetic DOT/KSM permutation.
	if len(pairs) != 3 {
		t.Fatalf("GetTokenPairList returned %d pairs, want 3: %+v", len(pairs), pairs)
	}
	foundSynthetic := false
	for _, p := range pairs {
		if p.Base == dot && p.Target == AssetID("KSM#Kusama") {
			foundSynthetic = true
		}
	}
	if !foundSynthetic {
		t.Fatalf("expected a synthetic DOT/KSM permutation in %+v", pairs)
	}
}
