package core

// world.go – the collaborator interface the core consumes from the
// surrounding ledger. The core never keeps a reference to a concrete
// ledger implementation; every instruction and query receives a World
// explicitly, so there is no package-level mutable state here.

// AssetDefinition is a minimal view of a registered asset: its id and the
// domain it lives in. The core treats asset definitions as opaque beyond
// existence checks; quantity bookkeeping lives on the account side.
type AssetDefinition struct {
	ID     AssetID
	Domain DomainID
}

// Account is a minimal view of a ledger account.
type Account struct {
	ID     AccountID
	Domain DomainID
}

// World is the read/write surface the core needs from the surrounding
// ledger: accounts, asset definitions, balances, transfers, and the
// DEX-management permission check. A production host wires this to the
// real domain/account/asset registry; ledger.Memory (package ledger) is
// the in-memory reference implementation used by tests and the CLI/server
// hosts in this repository.
type World interface {
	ReadAccount(id AccountID) (Account, bool)
	ReadAsset(id AssetID) (AssetDefinition, bool)

	// CreateAsset registers a new asset definition in domain. Used only by
	// pool creation (the LP asset).
	CreateAsset(def AssetDefinition) error

	// CreateAccount opens a fresh, zero-balance account in domain. Used
	// only by pool creation (the storage account).
	CreateAccount(domain DomainID, id AccountID) error

	// Balance returns the live quantity of asset held by account.
	Balance(account AccountID, asset AssetID) (uint32, error)

	// Transfer moves qty of asset from -> to, checking that authority
	// holds TransferAsset permission on asset. Used for user-authorized
	// deposits and swap inputs.
	Transfer(asset AssetID, from, to AccountID, qty uint32, authority AccountID) error

	// TransferUnchecked moves qty of asset from -> to without a
	// permission check, used internally by the pool engine when the pool
	// itself (not the counterparty) is the sender — e.g. swap payouts and
	// liquidity withdrawals.
	TransferUnchecked(asset AssetID, from, to AccountID, qty uint32) error

	// Mint and Burn are unchecked supply-changing primitives used only for
	// the LP asset by the pool engine.
	Mint(asset AssetID, to AccountID, qty uint32) error
	Burn(asset AssetID, from AccountID, qty uint32) error

	// CanManageDEX reports whether authority holds the CanManageDEX(domain)
	// permission required by every DEX-topology mutation.
	CanManageDEX(authority AccountID, domain DomainID) bool
}
