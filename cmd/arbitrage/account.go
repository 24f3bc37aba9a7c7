package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	accountDomain "github.com/fd1az/pool-arbitrage/business/account/domain"
	"github.com/fd1az/pool-arbitrage/business/arbitrage"
	"github.com/fd1az/pool-arbitrage/internal/config"
	"github.com/fd1az/pool-arbitrage/internal/network"
)

var privateKeyFlag string

var deriveAddressCmd = &cobra.Command{
	Use:   "derive-address",
	Short: "Print the address for a private key",
	Long: `Print the address for a private key given with --key or ARB_PRIVATE_KEY.
The key itself is never printed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key := privateKeyFlag
		if key == "" {
			key = os.Getenv("ARB_PRIVATE_KEY")
		}
		if key == "" {
			return fmt.Errorf("no key: pass --key or set ARB_PRIVATE_KEY")
		}

		addr, err := accountDomain.DeriveAddress(key)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), addr.Hex())
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [address...]",
	Short: "Check addresses against the 0x + 40 hex grammar",
	Long: `With arguments, check each argument. Without, check every address in the
loaded configuration and print one verdict per field.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fields := make(map[string]string, len(args))
		for i, a := range args {
			fields[fmt.Sprintf("arg[%d]", i)] = a
		}

		if len(args) == 0 {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			net, err := network.Parse(cfg.Chain.Network)
			if err != nil {
				return err
			}
			p, err := arbitrage.TradeParams(cfg, net)
			if err != nil {
				return err
			}
			fields = p.AddressFields()
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, c := range accountDomain.ValidateAddresses(fields) {
			verdict := "ok"
			if !c.Valid {
				verdict = "INVALID"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", c.Field, c.Value, verdict)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		return accountDomain.RequireValidAddresses(fields)
	},
}

func init() {
	deriveAddressCmd.Flags().StringVar(&privateKeyFlag, "key", "", "hex private key, with or without 0x")
}
