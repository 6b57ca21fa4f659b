package core

// registry.go – DEX / token-pair / liquidity-source lookup, uniqueness,
// and permission gating (C4). Shaped like an access controller (mutex-
// guarded map, explicit constructor, no package singleton) but keyed on
// the DEX entity graph rather than roles.

import "sync"

// DEX is the per-domain AMM registry root.
type DEX struct {
	Domain      DomainID
	Owner       AccountID
	BaseAssetID AssetID
	pairs       map[TokenPairID]*TokenPair
}

// TokenPair groups the liquidity sources registered for one (base, target)
// asset combination.
type TokenPair struct {
	ID      TokenPairID
	sources map[SourceKind]*LiquiditySource
}

// LiquiditySource is the closed tagged union over pricing-venue kinds.
// Only SourceXYKPool is populated; the dispatcher rejects any instruction
// whose kind does not match the stored variant.
type LiquiditySource struct {
	ID   LiquiditySourceID
	Kind SourceKind
	Pool *PoolState // non-nil iff Kind == SourceXYKPool
}

// Registry is the AMM's own persisted state: the tree DEX -> TokenPair ->
// LiquiditySource -> PoolState, keyed by id, with no back-pointers. It is
// explicit, borrowed, mutable context — the dispatcher receives one and
// threads it through every call; nothing here is a singleton.
type Registry struct {
	mu    sync.Mutex
	dexes map[DomainID]*DEX
}

// NewRegistry returns an empty registry, ready to be threaded through a
// Dispatcher.
func NewRegistry() *Registry {
	return &Registry{dexes: make(map[DomainID]*DEX)}
}

// InitializeDEX registers a new DEX for domain: owner account must exist;
// the domain must not already have a DEX; gated on CanManageDEX(domain).
func (r *Registry) InitializeDEX(w World, domain DomainID, owner AccountID, baseAsset AssetID, authority AccountID) (*DEX, error) {
	if !w.CanManageDEX(authority, domain) {
		return nil, permissionDenied("authority lacks CanManageDEX(%s)", domain)
	}
	if _, ok := w.ReadAccount(owner); !ok {
		return nil, notFound("owner account %s", owner)
	}
	if _, ok := w.ReadAsset(baseAsset); !ok {
		return nil, notFound("base asset %s", baseAsset)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.dexes[domain]; ok {
		return nil, alreadyExists("DEX already exists for domain %s", domain)
	}
	dex := &DEX{
		Domain:      domain,
		Owner:       owner,
		BaseAssetID: baseAsset,
		pairs:       make(map[TokenPairID]*TokenPair),
	}
	r.dexes[domain] = dex
	return dex, nil
}

// GetDEX returns the DEX registered for domain.
func (r *Registry) GetDEX(domain DomainID) (*DEX, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dex, ok := r.dexes[domain]
	if !ok {
		return nil, notFound("DEX for domain %s", domain)
	}
	return dex, nil
}

// GetDEXList returns every registered DEX across all domains.
func (r *Registry) GetDEXList() []*DEX {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*DEX, 0, len(r.dexes))
	for _, d := range r.dexes {
		out = append(out, d)
	}
	return out
}

// CreateTokenPair adds a new pair to dex's domain: base and target assets
// exist; base equals the DEX's base asset; base != target; pair id not
// already present; gated on CanManageDEX.
func (r *Registry) CreateTokenPair(w World, domain DomainID, target AssetID, authority AccountID) (*TokenPair, error) {
	if !w.CanManageDEX(authority, domain) {
		return nil, permissionDenied("authority lacks CanManageDEX(%s)", domain)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	dex, ok := r.dexes[domain]
	if !ok {
		return nil, notFound("DEX for domain %s", domain)
	}
	if _, ok := w.ReadAsset(target); !ok {
		return nil, notFound("target asset %s", target)
	}
	if target == dex.BaseAssetID {
		return nil, invalidArgument("target asset must differ from base asset")
	}
	id := TokenPairID{DEX: NewDEXID(domain), Base: dex.BaseAssetID, Target: target}
	if _, ok := dex.pairs[id]; ok {
		return nil, alreadyExists("token pair %s already exists", id)
	}
	pair := &TokenPair{ID: id, sources: make(map[SourceKind]*LiquiditySource)}
	dex.pairs[id] = pair
	return pair, nil
}

// RemoveTokenPair removes a pair from its DEX. Existing liquidity sources
// are not torn down: their storage accounts and LP assets may linger,
// unreferenced by the registry.
func (r *Registry) RemoveTokenPair(w World, id TokenPairID, authority AccountID) error {
	domain := DomainID(id.DEX)
	if !w.CanManageDEX(authority, domain) {
		return permissionDenied("authority lacks CanManageDEX(%s)", domain)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	dex, ok := r.dexes[domain]
	if !ok {
		return notFound("DEX for domain %s", domain)
	}
	if _, ok := dex.pairs[id]; !ok {
		return notFound("token pair %s", id)
	}
	delete(dex.pairs, id)
	return nil
}

// GetTokenPair looks up one pair by id.
func (r *Registry) GetTokenPair(id TokenPairID) (*TokenPair, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dex, ok := r.dexes[DomainID(id.DEX)]
	if !ok {
		return nil, notFound("DEX for domain %s", id.DEX)
	}
	pair, ok := dex.pairs[id]
	if !ok {
		return nil, notFound("token pair %s", id)
	}
	return pair, nil
}

// GetTokenPairCount returns the number of registered pairs on a DEX.
func (r *Registry) GetTokenPairCount(domain DomainID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dex, ok := r.dexes[domain]
	if !ok {
		return 0, notFound("DEX for domain %s", domain)
	}
	return len(dex.pairs), nil
}

// listTokenPairsLocked returns the stored pairs for domain; caller holds r.mu.
func (r *Registry) listTokenPairsLocked(domain DomainID) ([]*TokenPair, error) {
	dex, ok := r.dexes[domain]
	if !ok {
		return nil, notFound("DEX for domain %s", domain)
	}
	out := make([]*TokenPair, 0, len(dex.pairs))
	for _, p := range dex.pairs {
		out = append(out, p)
	}
	return out, nil
}

// CreateLiquiditySource creates a pool for pair: a fresh LP asset
// definition, a fresh storage account, and the pool record, atomically:
// both derived ids are checked to be free before either is created, and
// the pool record is stored only after both creations succeed. Gated on
// CanManageDEX, since source kind/fee parameters shape DEX topology.
func (r *Registry) CreateLiquiditySource(w World, pairID TokenPairID, kind SourceKind, authority AccountID) (*LiquiditySource, error) {
	if kind != SourceXYKPool {
		return nil, invalidArgument("unsupported liquidity source kind %q", kind)
	}
	domain := DomainID(pairID.DEX)
	if !w.CanManageDEX(authority, domain) {
		return nil, permissionDenied("authority lacks CanManageDEX(%s)", domain)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	dex, ok := r.dexes[domain]
	if !ok {
		return nil, notFound("DEX for domain %s", domain)
	}
	pair, ok := dex.pairs[pairID]
	if !ok {
		return nil, notFound("token pair %s", pairID)
	}
	if _, ok := pair.sources[kind]; ok {
		return nil, alreadyExists("liquidity source %s already exists on pair %s", kind, pairID)
	}

	poolTokenID := AssetID(poolTokenAssetName(pairID) + "#" + string(domain))
	storageID := AccountID(storageAccountName(pairID) + "@" + string(domain))
	if _, ok := w.ReadAsset(poolTokenID); ok {
		return nil, alreadyExists("pool token asset %s already exists", poolTokenID)
	}
	if _, ok := w.ReadAccount(storageID); ok {
		return nil, alreadyExists("storage account %s already exists", storageID)
	}

	if err := w.CreateAsset(AssetDefinition{ID: poolTokenID, Domain: domain}); err != nil {
		return nil, wrapErr(KindUnknown, err, "create pool token asset")
	}
	if err := w.CreateAccount(domain, storageID); err != nil {
		return nil, wrapErr(KindUnknown, err, "create storage account")
	}

	src := &LiquiditySource{
		ID:   LiquiditySourceID{Pair: pairID, Kind: kind},
		Kind: kind,
		Pool: newPoolState(poolTokenID, storageID),
	}
	pair.sources[kind] = src
	return src, nil
}

// GetLiquiditySource looks up a source on a pair by kind.
func (r *Registry) GetLiquiditySource(pairID TokenPairID, kind SourceKind) (*LiquiditySource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dex, ok := r.dexes[DomainID(pairID.DEX)]
	if !ok {
		return nil, notFound("DEX for domain %s", pairID.DEX)
	}
	pair, ok := dex.pairs[pairID]
	if !ok {
		return nil, notFound("token pair %s", pairID)
	}
	src, ok := pair.sources[kind]
	if !ok {
		return nil, notFound("liquidity source %s on pair %s", kind, pairID)
	}
	return src, nil
}

// xykPool resolves the XYK pool for pairID, rejecting any other tagged
// variant that might be stored under the same kind in a future extension.
func (r *Registry) xykPool(pairID TokenPairID) (*PoolState, error) {
	src, err := r.GetLiquiditySource(pairID, SourceXYKPool)
	if err != nil {
		return nil, err
	}
	if src.Kind != SourceXYKPool || src.Pool == nil {
		return nil, invalidArgument("liquidity source %s is not an XYK pool", src.ID)
	}
	return src.Pool, nil
}

// poolForTokens resolves the XYK pool for an unordered pair of assets
// within dexID, sorting them against the DEX's base asset, mirroring the
// original's liquidity_source_id_for_tokens.
func (r *Registry) poolForTokens(dexID DEXID, assetA, assetB AssetID) (TokenPairID, *PoolState, error) {
	dex, err := r.GetDEX(DomainID(dexID))
	if err != nil {
		return TokenPairID{}, nil, err
	}
	var base, target AssetID
	switch dex.BaseAssetID {
	case assetA:
		base, target = assetA, assetB
	case assetB:
		base, target = assetB, assetA
	default:
		return TokenPairID{}, nil, invalidArgument("neither token is the DEX base asset")
	}
	pairID := TokenPairID{DEX: dexID, Base: base, Target: target}
	pool, err := r.xykPool(pairID)
	if err != nil {
		return TokenPairID{}, nil, err
	}
	return pairID, pool, nil
}

// SetFee sets the swap fee (bps) on a pool. Gated on CanManageDEX.
func (r *Registry) SetFee(w World, pairID TokenPairID, bps uint16, authority AccountID) error {
	if bps > MaxBasisPoints {
		return invalidArgument("fee %d exceeds max basis points", bps)
	}
	domain := DomainID(pairID.DEX)
	if !w.CanManageDEX(authority, domain) {
		return permissionDenied("authority lacks CanManageDEX(%s)", domain)
	}
	pool, err := r.xykPool(pairID)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	pool.FeeBps = bps
	return nil
}

// SetProtocolFeePart sets the protocol-fee share (bps) on a pool. Gated on
// CanManageDEX.
func (r *Registry) SetProtocolFeePart(w World, pairID TokenPairID, bps uint16, authority AccountID) error {
	if bps > MaxBasisPoints {
		return invalidArgument("protocol fee part %d exceeds max basis points", bps)
	}
	domain := DomainID(pairID.DEX)
	if !w.CanManageDEX(authority, domain) {
		return permissionDenied("authority lacks CanManageDEX(%s)", domain)
	}
	pool, err := r.xykPool(pairID)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	pool.ProtocolFeePartBps = bps
	return nil
}
