package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"okinoko_nftsale/contract/sale"
	"okinoko_nftsale/internal/config"
)

var runCmd = &cobra.Command{
	Use:   "run <scenario.yaml>",
	Short: "Replay a scripted sale: setup, link, then every purchase",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := config.Load(args[0])
		if err != nil {
			return err
		}
		spec, mode := storeSpec{DB: sc.Store, StateFile: sc.StateFile}, sc.Log
		if cmd.Flags().Changed("db") || cmd.Flags().Changed("state-file") {
			spec = storeSpec{DB: dbPath, StateFile: stateFile}
		}
		if cmd.Flags().Changed("log") {
			mode = logMode
		}
		s, err := openSession(spec, mode, append(sc.Codes, codes...))
		if err != nil {
			return err
		}
		return runScenario(cmd.Context(), s, sc, cmd.OutOrStdout())
	},
}

// runScenario fails on the first step that does not behave as the scenario says.
func runScenario(ctx context.Context, s *session, sc *config.Scenario, out io.Writer) error {
	msg, err := sc.InstantiateMsg()
	if err != nil {
		return err
	}
	rcpt, err := s.chain.Setup(ctx, sale.Address(sc.Owner), msg)
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	saleAddr := rcpt.Contract
	fmt.Fprintf(out, "sale %s\n", saleAddr)

	if _, err := s.chain.DeliverReplies(ctx); err != nil {
		// an unlinked sale is still a valid scenario; purchases will say so
		s.log.Warn("reply delivery failed", "sale", saleAddr, "error", err)
		fmt.Fprintf(out, "link failed: %v\n", err)
	}

	for i, p := range sc.Purchases {
		amount, err := sale.ParseAmount(p.Amount)
		if err != nil {
			return err
		}
		rcpt, err := s.chain.Buy(ctx, saleAddr, sale.Address(p.Token), sale.Address(p.Buyer), amount)
		switch {
		case err != nil && p.Expect == "":
			return fmt.Errorf("purchase %d (%s): %w", i, p.Buyer, err)
		case err != nil && !strings.Contains(err.Error(), p.Expect):
			return fmt.Errorf("purchase %d (%s): want error containing %q, got %w", i, p.Buyer, p.Expect, err)
		case err == nil && p.Expect != "":
			return fmt.Errorf("purchase %d (%s): want error containing %q, got token %s", i, p.Buyer, p.Expect, rcpt.Minted.TokenID)
		case err != nil:
			fmt.Fprintf(out, "purchase %d by %s rejected: %v\n", i, p.Buyer, err)
		default:
			fmt.Fprintf(out, "purchase %d by %s minted token %s\n", i, p.Buyer, rcpt.Minted.TokenID)
		}
	}

	view, err := s.chain.Config(ctx, saleAddr)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "sold %d of %d, %d remaining\n", view.NextTokenID, view.MaxTokens, view.Remaining)
	return nil
}
