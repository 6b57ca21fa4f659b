package core

import "testing"

// fakeWorld is a minimal World for exercising PoolState in isolation,
// without pulling in the ledger package (which imports core and would
// create an import cycle from an internal test file).
type fakeWorld struct {
	accounts map[AccountID]bool
	assets   map[AssetID]bool
	balances map[AccountID]map[AssetID]uint32
	managers map[DomainID]map[AccountID]bool
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		accounts: make(map[AccountID]bool),
		assets:   make(map[AssetID]bool),
		balances: make(map[AccountID]map[AssetID]uint32),
		managers: make(map[DomainID]map[AccountID]bool),
	}
}

func (w *fakeWorld) addAccount(id AccountID) {
	w.accounts[id] = true
	w.balances[id] = make(map[AssetID]uint32)
}

func (w *fakeWorld) addAsset(id AssetID)             { w.assets[id] = true }
func (w *fakeWorld) credit(a AccountID, t AssetID, q uint32) { w.balances[a][t] += q }

func (w *fakeWorld) ReadAccount(id AccountID) (Account, bool) {
	if !w.accounts[id] {
		return Account{}, false
	}
	return Account{ID: id}, true
}

func (w *fakeWorld) ReadAsset(id AssetID) (AssetDefinition, bool) {
	if !w.assets[id] {
		return AssetDefinition{}, false
	}
	return AssetDefinition{ID: id}, true
}

func (w *fakeWorld) CreateAsset(def AssetDefinition) error {
	w.assets[def.ID] = true
	return nil
}

func (w *fakeWorld) CreateAccount(domain DomainID, id AccountID) error {
	w.addAccount(id)
	return nil
}

func (w *fakeWorld) Balance(account AccountID, asset AssetID) (uint32, error) {
	return w.balances[account][asset], nil
}

func (w *fakeWorld) Transfer(asset AssetID, from, to AccountID, qty uint32, authority AccountID) error {
	return w.TransferUnchecked(asset, from, to, qty)
}

func (w *fakeWorld) TransferUnchecked(asset AssetID, from, to AccountID, qty uint32) error {
	if w.balances[from][asset] < qty {
		return newErr(KindInsufficientAmount, "insufficient balance")
	}
	w.balances[from][asset] -= qty
	w.balances[to][asset] += qty
	return nil
}

func (w *fakeWorld) Mint(asset AssetID, to AccountID, qty uint32) error {
	w.balances[to][asset] += qty
	return nil
}

func (w *fakeWorld) Burn(asset AssetID, from AccountID, qty uint32) error {
	if w.balances[from][asset] < qty {
		return newErr(KindInsufficientAmount, "insufficient balance to burn")
	}
	w.balances[from][asset] -= qty
	return nil
}

func (w *fakeWorld) CanManageDEX(authority AccountID, domain DomainID) bool {
	return w.managers[domain][authority]
}

const (
	xor AssetID = "XOR#Soramitsu"
	dot AssetID = "DOT#Polkadot"
)

var pair = TokenPairID{DEX: "Soramitsu", Base: xor, Target: dot}

func freshPool(w *fakeWorld) *PoolState {
	w.addAccount("storage")
	w.addAccount("depositor")
	w.addAsset(xor)
	w.addAsset(dot)
	w.addAsset("XYKPOOL XOR#Soramitsu/DOT#Polkadot")
	w.credit("depositor", xor, 5000)
	w.credit("depositor", dot, 7000)
	return newPoolState("XYKPOOL XOR#Soramitsu/DOT#Polkadot", "storage")
}

func TestAddLiquidityFirstMint(t *testing.T) {
	w := newFakeWorld()
	p := freshPool(w)

	minted, err := p.AddLiquidity(w, pair, 5000, 7000, 4000, 6000, "depositor", "depositor")
	if err != nil {
		t.Fatalf("AddLiquidity: %v", err)
	}
	if minted != 4916 {
		t.Fatalf("minted = %d, want 4916", minted)
	}
	if p.PoolTokenTotalSupply != 5916 || p.BaseAssetReserve != 5000 || p.TargetAssetReserve != 7000 || p.KLast != 0 {
		t.Fatalf("pool state = %+v, want (5916, 5000, 7000, 0)", p)
	}
	balA, _ := w.Balance("storage", xor)
	balB, _ := w.Balance("storage", dot)
	if balA != 5000 || balB != 7000 {
		t.Fatalf("storage balances = (%d, %d), want (5000, 7000)", balA, balB)
	}
}

func TestRemoveLiquidityAfterFirstMint(t *testing.T) {
	w := newFakeWorld()
	p := freshPool(w)
	minted, err := p.AddLiquidity(w, pair, 5000, 7000, 4000, 6000, "depositor", "depositor")
	if err != nil {
		t.Fatalf("AddLiquidity: %v", err)
	}

	a, b, err := p.RemoveLiquidity(w, pair, minted, 0, 0, "depositor", "depositor")
	if err != nil {
		t.Fatalf("RemoveLiquidity: %v", err)
	}
	if a != 4154 || b != 5816 {
		t.Fatalf("withdrawn = (%d, %d), want (4154, 5816)", a, b)
	}
	if p.PoolTokenTotalSupply != 1000 || p.BaseAssetReserve != 846 || p.TargetAssetReserve != 1184 {
		t.Fatalf("pool state = %+v, want (1000, 846, 1184)", p)
	}
	balA, _ := w.Balance("depositor", xor)
	balB, _ := w.Balance("depositor", dot)
	lpBal, _ := w.Balance("depositor", p.PoolTokenAssetID)
	if balA != 4154 || balB != 5816 || lpBal != 0 {
		t.Fatalf("depositor balances = (%d, %d, lp=%d), want (4154, 5816, 0)", balA, balB, lpBal)
	}
}

func TestSwapExactInOnSeededPool(t *testing.T) {
	w := newFakeWorld()
	p := freshPool(w)
	if _, err := p.AddLiquidity(w, pair, 5000, 7000, 4000, 6000, "depositor", "depositor"); err != nil {
		t.Fatalf("AddLiquidity: %v", err)
	}

	w.addAccount("trader")
	w.credit("trader", xor, 2000)
	if err := w.Transfer(xor, "trader", "storage", 2000, "trader"); err != nil {
		t.Fatalf("transfer swap input: %v", err)
	}

	out, err := amountOut(2000, p.BaseAssetReserve, p.TargetAssetReserve)
	if err != nil {
		t.Fatalf("amountOut: %v", err)
	}
	if err := p.Swap(w, pair, 0, out, "trader"); err != nil {
		t.Fatalf("Swap: %v", err)
	}
	if out != 1995 {
		t.Fatalf("swap output = %d, want 1995", out)
	}
	if p.BaseAssetReserve != 7000 || p.TargetAssetReserve != 5005 {
		t.Fatalf("post-swap reserves = (%d, %d), want (7000, 5005)", p.BaseAssetReserve, p.TargetAssetReserve)
	}
	traderDOT, _ := w.Balance("trader", dot)
	if traderDOT != 1995 {
		t.Fatalf("trader DOT balance = %d, want 1995", traderDOT)
	}
}

func TestRemoveLiquidityEmptyPool(t *testing.T) {
	w := newFakeWorld()
	p := freshPool(w)
	if _, _, err := p.RemoveLiquidity(w, pair, 1, 0, 0, "depositor", "depositor"); !ErrIsKind(err, KindInsufficientLiquidity) {
		t.Fatalf("expected KindInsufficientLiquidity on empty pool, got %v", err)
	}
}

func TestAddLiquidityFirstMintBelowMinimum(t *testing.T) {
	w := newFakeWorld()
	p := freshPool(w)
	w.credit("depositor", xor, 100)
	w.credit("depositor", dot, 100)
	if _, err := p.AddLiquidity(w, pair, 10, 10, 0, 0, "depositor", "depositor"); !ErrIsKind(err, KindInsufficientLiquidityMinted) {
		t.Fatalf("expected KindInsufficientLiquidityMinted for a*b <= MINIMUM_LIQUIDITY^2, got %v", err)
	}
}
