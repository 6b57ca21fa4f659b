// Package ledger provides an in-memory reference implementation of
// core.World: accounts, asset definitions, per-asset balances, transfer
// permissions, and the CanManageDEX permission check. It exists for the
// CLI/server hosts and the test suite in this repository — a production
// deployment wires core.World to the real domain/account/asset registry,
// not to this package.
//
// Shaped like an account manager: a mutex-guarded map wrapped by a small
// set of methods, no package-level singleton.
package ledger

import (
	"fmt"
	"sync"

	core "github.com/synnergy-network/xyk-dex/core"
)

// Memory is a single in-process world state. Safe for concurrent use.
type Memory struct {
	mu            sync.RWMutex
	accounts      map[core.AccountID]core.Account
	assets        map[core.AssetID]core.AssetDefinition
	balances      map[core.AccountID]map[core.AssetID]uint32
	managers      map[core.DomainID]map[core.AccountID]bool
	transferPerms map[core.AssetID]map[core.AccountID]bool
}

// New returns an empty ledger.
func New() *Memory {
	return &Memory{
		accounts:      make(map[core.AccountID]core.Account),
		assets:        make(map[core.AssetID]core.AssetDefinition),
		balances:      make(map[core.AccountID]map[core.AssetID]uint32),
		managers:      make(map[core.DomainID]map[core.AccountID]bool),
		transferPerms: make(map[core.AssetID]map[core.AccountID]bool),
	}
}

// RegisterAccount opens account in domain with a zero balance sheet. It
// returns an error if the account already exists.
func (m *Memory) RegisterAccount(domain core.DomainID, id core.AccountID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[id]; ok {
		return fmt.Errorf("account %s exists", id)
	}
	m.accounts[id] = core.Account{ID: id, Domain: domain}
	m.balances[id] = make(map[core.AssetID]uint32)
	return nil
}

// RegisterAsset registers an asset definition in domain.
func (m *Memory) RegisterAsset(domain core.DomainID, id core.AssetID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assets[id]; ok {
		return fmt.Errorf("asset %s exists", id)
	}
	m.assets[id] = core.AssetDefinition{ID: id, Domain: domain}
	return nil
}

// MintInitial credits account with qty of asset, for test/CLI fixture
// setup. It bypasses permission checks, like the engine's own Mint.
func (m *Memory) MintInitial(account core.AccountID, asset core.AssetID, qty uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account]; !ok {
		return fmt.Errorf("account %s not found", account)
	}
	if _, ok := m.assets[asset]; !ok {
		return fmt.Errorf("asset %s not found", asset)
	}
	m.balances[account][asset] += qty
	return nil
}

// GrantManage grants authority the CanManageDEX(domain) permission.
func (m *Memory) GrantManage(domain core.DomainID, authority core.AccountID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.managers[domain] == nil {
		m.managers[domain] = make(map[core.AccountID]bool)
	}
	m.managers[domain][authority] = true
}

// GrantTransfer grants authority the TransferAsset(asset) permission.
func (m *Memory) GrantTransfer(asset core.AssetID, authority core.AccountID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.transferPerms[asset] == nil {
		m.transferPerms[asset] = make(map[core.AccountID]bool)
	}
	m.transferPerms[asset][authority] = true
}

func (m *Memory) ReadAccount(id core.AccountID) (core.Account, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.accounts[id]
	return a, ok
}

func (m *Memory) ReadAsset(id core.AssetID) (core.AssetDefinition, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.assets[id]
	return a, ok
}

func (m *Memory) CreateAsset(def core.AssetDefinition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assets[def.ID]; ok {
		return fmt.Errorf("asset %s exists", def.ID)
	}
	m.assets[def.ID] = def
	return nil
}

func (m *Memory) CreateAccount(domain core.DomainID, id core.AccountID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[id]; ok {
		return fmt.Errorf("account %s exists", id)
	}
	m.accounts[id] = core.Account{ID: id, Domain: domain}
	m.balances[id] = make(map[core.AssetID]uint32)
	return nil
}

func (m *Memory) Balance(account core.AccountID, asset core.AssetID) (uint32, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bal, ok := m.balances[account]
	if !ok {
		return 0, fmt.Errorf("account %s not found", account)
	}
	return bal[asset], nil
}

func (m *Memory) Transfer(asset core.AssetID, from, to core.AccountID, qty uint32, authority core.AccountID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.transferPerms[asset][authority] {
		return fmt.Errorf("authority %s lacks TransferAsset(%s) permission", authority, asset)
	}
	return m.moveLocked(asset, from, to, qty)
}

func (m *Memory) TransferUnchecked(asset core.AssetID, from, to core.AccountID, qty uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.moveLocked(asset, from, to, qty)
}

func (m *Memory) moveLocked(asset core.AssetID, from, to core.AccountID, qty uint32) error {
	fromBal, ok := m.balances[from]
	if !ok {
		return fmt.Errorf("account %s not found", from)
	}
	if fromBal[asset] < qty {
		return fmt.Errorf("insufficient balance: %s has %d %s, need %d", from, fromBal[asset], asset, qty)
	}
	if _, ok := m.balances[to]; !ok {
		return fmt.Errorf("account %s not found", to)
	}
	fromBal[asset] -= qty
	m.balances[to][asset] += qty
	return nil
}

func (m *Memory) Mint(asset core.AssetID, to core.AccountID, qty uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assets[asset]; !ok {
		return fmt.Errorf("asset %s not found", asset)
	}
	if _, ok := m.balances[to]; !ok {
		return fmt.Errorf("account %s not found", to)
	}
	m.balances[to][asset] += qty
	return nil
}

func (m *Memory) Burn(asset core.AssetID, from core.AccountID, qty uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	bal, ok := m.balances[from]
	if !ok {
		return fmt.Errorf("account %s not found", from)
	}
	if bal[asset] < qty {
		return fmt.Errorf("insufficient balance to burn: %s has %d %s, need %d", from, bal[asset], asset, qty)
	}
	bal[asset] -= qty
	return nil
}

func (m *Memory) CanManageDEX(authority core.AccountID, domain core.DomainID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.managers[domain][authority]
}
