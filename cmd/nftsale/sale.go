package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"okinoko_nftsale/contract/sale"
	"okinoko_nftsale/internal/chain"
)

var setupFlags struct {
	owner, token, price, name, symbol, uri, extension, code string
	max                                                     uint64
}

var buyFlags struct {
	buyer, token, amount string
}

func init() {
	f := setupCmd.Flags()
	f.StringVar(&setupFlags.owner, "owner", "hive:owner", "account performing the setup")
	f.StringVar(&setupFlags.token, "payment-token", "", "fungible token contract accepted as payment")
	f.StringVar(&setupFlags.price, "price", "", "price per token")
	f.Uint64Var(&setupFlags.max, "max", 0, "supply cap")
	f.StringVar(&setupFlags.name, "name", "", "collection name")
	f.StringVar(&setupFlags.symbol, "symbol", "", "collection symbol")
	f.StringVar(&setupFlags.uri, "token-uri", "", "token uri given to every minted token")
	f.StringVar(&setupFlags.extension, "extension", "", "raw JSON metadata given to every minted token")
	f.StringVar(&setupFlags.code, "collection-code", chain.DefaultCollectionCode, "collection code reference")
	_ = setupCmd.MarkFlagRequired("payment-token")
	_ = setupCmd.MarkFlagRequired("price")
	_ = setupCmd.MarkFlagRequired("max")

	f = buyCmd.Flags()
	f.StringVar(&buyFlags.buyer, "buyer", "", "account receiving the token")
	f.StringVar(&buyFlags.token, "token", "", "paying token contract (defaults to the sale's payment token)")
	f.StringVar(&buyFlags.amount, "amount", "", "amount paid (defaults to the unit price)")
	_ = buyCmd.MarkFlagRequired("buyer")
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create a sale and request its collection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := sessionFromFlags()
		if err != nil {
			return err
		}
		price, err := sale.ParseAmount(setupFlags.price)
		if err != nil {
			return fmt.Errorf("--price: %w", err)
		}
		rcpt, err := s.chain.Setup(cmd.Context(), sale.Address(setupFlags.owner), sale.InstantiateMsg{
			PaymentToken:   sale.Address(setupFlags.token),
			UnitPrice:      price,
			MaxTokens:      setupFlags.max,
			Name:           setupFlags.name,
			Symbol:         setupFlags.symbol,
			TokenURI:       setupFlags.uri,
			Extension:      setupFlags.extension,
			CollectionCode: setupFlags.code,
		})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "sale %s (tx %s)\n", rcpt.Contract, rcpt.TxID)
		if rcpt.Collection != nil {
			fmt.Fprintf(out, "collection %s deployed, reply queued\n", *rcpt.Collection)
		}
		return nil
	},
}

var deliverCmd = &cobra.Command{
	Use:   "deliver",
	Short: "Deliver queued deployment replies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := sessionFromFlags()
		if err != nil {
			return err
		}
		receipts, err := s.chain.DeliverReplies(cmd.Context())
		for _, r := range receipts {
			fmt.Fprintf(cmd.OutOrStdout(), "linked %s (tx %s)\n", r.Contract, r.TxID)
		}
		return err
	},
}

var buyCmd = &cobra.Command{
	Use:   "buy <sale>",
	Short: "Pay for and mint the next token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := sessionFromFlags()
		if err != nil {
			return err
		}
		saleAddr := sale.Address(args[0])
		token, amount := sale.Address(buyFlags.token), sale.Amount{}
		if buyFlags.token == "" || buyFlags.amount == "" {
			view, err := s.chain.Config(cmd.Context(), saleAddr)
			if err != nil {
				return err
			}
			if buyFlags.token == "" {
				token = view.PaymentToken
			}
			amount = view.UnitPrice
		}
		if buyFlags.amount != "" {
			if amount, err = sale.ParseAmount(buyFlags.amount); err != nil {
				return fmt.Errorf("--amount: %w", err)
			}
		}
		rcpt, err := s.chain.Buy(cmd.Context(), saleAddr, token, sale.Address(buyFlags.buyer), amount)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "minted token %s to %s (tx %s)\n", rcpt.Minted.TokenID, rcpt.Minted.Owner, rcpt.TxID)
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config <sale>",
	Short: "Print the sale configuration as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := sessionFromFlags()
		if err != nil {
			return err
		}
		view, err := s.chain.Config(cmd.Context(), sale.Address(args[0]))
		if err != nil {
			return err
		}
		raw, err := sale.Encode(view)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(raw))
		return nil
	},
}

var ownerCmd = &cobra.Command{
	Use:   "owner <sale> <token-id>",
	Short: "Print the owner of a minted token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := sessionFromFlags()
		if err != nil {
			return err
		}
		owner, err := s.chain.OwnerOf(cmd.Context(), sale.Address(args[0]), args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), owner)
		return nil
	},
}
