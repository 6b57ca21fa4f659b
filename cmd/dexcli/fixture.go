package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	core "github.com/synnergy-network/xyk-dex/core"
	"github.com/synnergy-network/xyk-dex/ledger"
)

// fixture is the on-disk snapshot dexcli bootstraps its world and registry
// from: a full domain / account / asset / permission / DEX / pair / pool
// graph materialized fresh on every invocation.
type fixture struct {
	Accounts []struct {
		Domain core.DomainID  `json:"domain" yaml:"domain"`
		ID     core.AccountID `json:"id" yaml:"id"`
	} `json:"accounts" yaml:"accounts"`
	Assets []struct {
		Domain core.DomainID `json:"domain" yaml:"domain"`
		ID     core.AssetID  `json:"id" yaml:"id"`
	} `json:"assets" yaml:"assets"`
	Balances []struct {
		Account core.AccountID `json:"account" yaml:"account"`
		Asset   core.AssetID   `json:"asset" yaml:"asset"`
		Qty     uint32         `json:"qty" yaml:"qty"`
	} `json:"balances" yaml:"balances"`
	Managers []struct {
		Domain    core.DomainID  `json:"domain" yaml:"domain"`
		Authority core.AccountID `json:"authority" yaml:"authority"`
	} `json:"managers" yaml:"managers"`
	TransferGrants []struct {
		Asset     core.AssetID   `json:"asset" yaml:"asset"`
		Authority core.AccountID `json:"authority" yaml:"authority"`
	} `json:"transferGrants" yaml:"transferGrants"`

	DEXes []struct {
		Domain    core.DomainID  `json:"domain" yaml:"domain"`
		Owner     core.AccountID `json:"owner" yaml:"owner"`
		BaseAsset core.AssetID   `json:"baseAsset" yaml:"baseAsset"`
	} `json:"dexes" yaml:"dexes"`
	Pairs []struct {
		Domain core.DomainID `json:"domain" yaml:"domain"`
		Target core.AssetID  `json:"target" yaml:"target"`
	} `json:"pairs" yaml:"pairs"`
	Sources []struct {
		// core.TokenPairID carries no yaml tags of its own; yaml.v3 falls
		// back to its lowercased field names ("dex", "base", "target"),
		// which line up with this fixture format without needing a tag.
		Pair core.TokenPairID `json:"pair" yaml:"pair"`
		Kind core.SourceKind  `json:"kind" yaml:"kind"`
	} `json:"sources" yaml:"sources"`
}

// loadFixture reads path as JSON, or as YAML when it carries a .yaml/.yml
// extension, mirroring the config loader's own YAML-first convention.
func loadFixture(path string) (*fixture, error) {
	if path == "" {
		return &fixture{}, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &fixture{}, nil
	}
	if err != nil {
		return nil, err
	}
	var fx fixture
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fx); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &fx); err != nil {
			return nil, err
		}
	}
	return &fx, nil
}

// materialize replays the fixture against a fresh world/registry. Any
// error here means the fixture file is internally inconsistent.
func (fx *fixture) materialize() (*ledger.Memory, *core.Registry, error) {
	world := ledger.New()
	reg := core.NewRegistry()

	for _, a := range fx.Accounts {
		if err := world.RegisterAccount(a.Domain, a.ID); err != nil {
			return nil, nil, err
		}
	}
	for _, a := range fx.Assets {
		if err := world.RegisterAsset(a.Domain, a.ID); err != nil {
			return nil, nil, err
		}
	}
	for _, b := range fx.Balances {
		if err := world.MintInitial(b.Account, b.Asset, b.Qty); err != nil {
			return nil, nil, err
		}
	}
	for _, m := range fx.Managers {
		world.GrantManage(m.Domain, m.Authority)
	}
	for _, t := range fx.TransferGrants {
		world.GrantTransfer(t.Asset, t.Authority)
	}
	for _, d := range fx.DEXes {
		if _, err := reg.InitializeDEX(world, d.Domain, d.Owner, d.BaseAsset, d.Owner); err != nil {
			return nil, nil, err
		}
	}
	for _, p := range fx.Pairs {
		dex, err := reg.GetDEX(p.Domain)
		if err != nil {
			return nil, nil, err
		}
		if _, err := reg.CreateTokenPair(world, p.Domain, p.Target, dex.Owner); err != nil {
			return nil, nil, err
		}
	}
	for _, s := range fx.Sources {
		dex, err := reg.GetDEX(core.DomainID(s.Pair.DEX))
		if err != nil {
			return nil, nil, err
		}
		if _, err := reg.CreateLiquiditySource(world, s.Pair, s.Kind, dex.Owner); err != nil {
			return nil, nil, err
		}
	}
	return world, reg, nil
}
