package main

import (
	"strconv"

	"github.com/spf13/cobra"

	core "github.com/synnergy-network/xyk-dex/core"
)

func parseU32(s string) uint32 {
	n, _ := strconv.ParseUint(s, 10, 32)
	return uint32(n)
}

func parseU16(s string) uint16 {
	n, _ := strconv.ParseUint(s, 10, 16)
	return uint16(n)
}

func initDEXCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-dex <domain> <owner> <baseAsset> <authority>",
		Short: "Register a DEX for a domain",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, core.InitializeDEX{
				Domain:    core.DomainID(args[0]),
				Owner:     core.AccountID(args[1]),
				BaseAsset: core.AssetID(args[2]),
				Authority: core.AccountID(args[3]),
			})
		},
	}
}

func createPairCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create-pair <domain> <target> <authority>",
		Short: "Register a token pair against the DEX base asset",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, core.CreateTokenPair{
				Domain:    core.DomainID(args[0]),
				Target:    core.AssetID(args[1]),
				Authority: core.AccountID(args[2]),
			})
		},
	}
}

func createSourceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create-source <dex> <base> <target> <kind> <authority>",
		Short: "Create a liquidity source (pool) on a token pair",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			pair := core.TokenPairID{DEX: core.DEXID(args[0]), Base: core.AssetID(args[1]), Target: core.AssetID(args[2])}
			return dispatch(cmd, core.CreateLiquiditySource{
				Pair:      pair,
				Kind:      core.SourceKind(args[3]),
				Authority: core.AccountID(args[4]),
			})
		},
	}
}

func addLiquidityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-liquidity <dex> <base> <target> <aDesired> <bDesired> <aMin> <bMin> <depositor> <recipient>",
		Short: "Add liquidity to an XYK pool",
		Args:  cobra.ExactArgs(9),
		RunE: func(cmd *cobra.Command, args []string) error {
			pair := core.TokenPairID{DEX: core.DEXID(args[0]), Base: core.AssetID(args[1]), Target: core.AssetID(args[2])}
			return dispatch(cmd, core.AddLiquidityToXYKPool{
				Pair:           pair,
				AmountADesired: parseU32(args[3]),
				AmountBDesired: parseU32(args[4]),
				AmountAMin:     parseU32(args[5]),
				AmountBMin:     parseU32(args[6]),
				Depositor:      core.AccountID(args[7]),
				Recipient:      core.AccountID(args[8]),
			})
		},
	}
}

func removeLiquidityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-liquidity <dex> <base> <target> <lpAmount> <aMin> <bMin> <owner> <recipient>",
		Short: "Remove liquidity from an XYK pool",
		Args:  cobra.ExactArgs(8),
		RunE: func(cmd *cobra.Command, args []string) error {
			pair := core.TokenPairID{DEX: core.DEXID(args[0]), Base: core.AssetID(args[1]), Target: core.AssetID(args[2])}
			return dispatch(cmd, core.RemoveLiquidityFromXYKPool{
				Pair:            pair,
				LiquidityAmount: parseU32(args[3]),
				AmountAMin:      parseU32(args[4]),
				AmountBMin:      parseU32(args[5]),
				Owner:           core.AccountID(args[6]),
				Recipient:       core.AccountID(args[7]),
			})
		},
	}
}

func parsePath(s []string) []core.AssetID {
	path := make([]core.AssetID, len(s))
	for i, a := range s {
		path[i] = core.AssetID(a)
	}
	return path
}

func swapExactInCmd() *cobra.Command {
	var authority, recipient string
	cmd := &cobra.Command{
		Use:   "swap-exact-in <dex> <amountIn> <amountOutMin> <asset1> <asset2> [asset3...]",
		Short: "Swap an exact input amount along a path for at least amountOutMin",
		Args:  cobra.MinimumNArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, core.SwapExactTokensForTokensOnXYKPool{
				DEX:          core.DEXID(args[0]),
				AmountIn:     parseU32(args[1]),
				AmountOutMin: parseU32(args[2]),
				Path:         parsePath(args[3:]),
				Authority:    core.AccountID(authority),
				Recipient:    core.AccountID(recipient),
			})
		},
	}
	cmd.Flags().StringVar(&authority, "authority", "", "account authorizing the input transfer")
	cmd.Flags().StringVar(&recipient, "recipient", "", "account receiving the output")
	return cmd
}

func swapExactOutCmd() *cobra.Command {
	var authority, recipient string
	cmd := &cobra.Command{
		Use:   "swap-exact-out <dex> <amountOut> <amountInMax> <asset1> <asset2> [asset3...]",
		Short: "Swap for an exact output amount along a path, paying at most amountInMax",
		Args:  cobra.MinimumNArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, core.SwapTokensForExactTokensOnXYKPool{
				DEX:         core.DEXID(args[0]),
				AmountOut:   parseU32(args[1]),
				AmountInMax: parseU32(args[2]),
				Path:        parsePath(args[3:]),
				Authority:   core.AccountID(authority),
				Recipient:   core.AccountID(recipient),
			})
		},
	}
	cmd.Flags().StringVar(&authority, "authority", "", "account authorizing the input transfer")
	cmd.Flags().StringVar(&recipient, "recipient", "", "account receiving the output")
	return cmd
}

func setFeeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-fee <dex> <base> <target> <bps> <authority>",
		Short: "Set the swap fee on a pool, in basis points",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			pair := core.TokenPairID{DEX: core.DEXID(args[0]), Base: core.AssetID(args[1]), Target: core.AssetID(args[2])}
			return dispatch(cmd, core.SetFeeOnXYKPool{
				Pair:      pair,
				Bps:       parseU16(args[3]),
				Authority: core.AccountID(args[4]),
			})
		},
	}
}

func setProtocolFeePartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-protocol-fee-part <dex> <base> <target> <bps> <authority>",
		Short: "Set the protocol's share of the swap fee, in basis points",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			pair := core.TokenPairID{DEX: core.DEXID(args[0]), Base: core.AssetID(args[1]), Target: core.AssetID(args[2])}
			return dispatch(cmd, core.SetProtocolFeePartOnXYKPool{
				Pair:      pair,
				Bps:       parseU16(args[3]),
				Authority: core.AccountID(args[4]),
			})
		},
	}
}

func getDEXCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get-dex <domain>",
		Short: "Show the DEX registered for a domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dex, err := core.GetDEX(reg, core.DomainID(args[0]))
			if err != nil {
				return err
			}
			printJSON(map[string]any{"domain": dex.Domain, "owner": dex.Owner, "baseAsset": dex.BaseAssetID})
			return nil
		},
	}
}

func getPairsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get-pairs <domain>",
		Short: "List stored and synthetic token pairs for a domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, err := core.GetTokenPairList(reg, core.DomainID(args[0]))
			if err != nil {
				return err
			}
			printJSON(pairs)
			return nil
		},
	}
}

func getPoolCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get-pool <dex> <base> <target>",
		Short: "Show the XYK pool state for a token pair",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			pair := core.TokenPairID{DEX: core.DEXID(args[0]), Base: core.AssetID(args[1]), Target: core.AssetID(args[2])}
			info, err := core.GetXYKPoolInfo(reg, pair)
			if err != nil {
				return err
			}
			printJSON(info)
			return nil
		},
	}
}

func getPriceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get-price <dex> <asset1> <asset2> [asset3...]",
		Short: "Quote the spot price of one unit along a path",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, priceWithFee, err := core.GetSpotPriceOnXYKPool(reg, core.DEXID(args[0]), parsePath(args[1:]))
			if err != nil {
				return err
			}
			printJSON(map[string]uint32{"price": price, "priceWithFee": priceWithFee})
			return nil
		},
	}
}

func getOwnedLiquidityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get-owned-liquidity <dex> <base> <target> <account>",
		Short: "Show the base/target/LP quantities an account's pool-token holding represents",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			pair := core.TokenPairID{DEX: core.DEXID(args[0]), Base: core.AssetID(args[1]), Target: core.AssetID(args[2])}
			owned, err := core.GetOwnedLiquidityOnXYKPoolInfo(reg, world, pair, core.AccountID(args[3]))
			if err != nil {
				return err
			}
			printJSON(owned)
			return nil
		},
	}
}
