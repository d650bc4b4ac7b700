package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"okinoko_nftsale/internal/chain"
	"okinoko_nftsale/internal/kvstore"
	"okinoko_nftsale/internal/logger"
)

var (
	dbPath    string
	stateFile string
	logMode   string
	codes     []string
)

var errTwoStores = errors.New("--db and --state-file are mutually exclusive")

// session is what every subcommand works against, opened by the root pre-run.
type session struct {
	store kvstore.Store
	log   *logger.Logger
	chain *chain.Chain
}

var current *session

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite file holding chain state (empty keeps it in memory)")
	rootCmd.PersistentFlags().StringVar(&stateFile, "state-file", "", "JSON file holding chain state, instead of SQLite")
	rootCmd.PersistentFlags().StringVar(&logMode, "log", "dev", "log encoder: dev or prod")
	rootCmd.PersistentFlags().StringSliceVar(&codes, "code", nil, "extra collection code references the chain can deploy")

	rootCmd.AddCommand(setupCmd, deliverCmd, buyCmd, configCmd, ownerCmd, runCmd)
}

var rootCmd = &cobra.Command{
	Use:           "nftsale",
	Short:         "Fixed-price NFT sale controller on a local chain",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeSession()
	},
}

// storeSpec picks the backend: a JSON state file when StateFile is set, SQLite otherwise.
type storeSpec struct {
	DB        string
	StateFile string
}

func openStore(spec storeSpec) (kvstore.Store, error) {
	if spec.DB != "" && spec.StateFile != "" {
		return nil, errTwoStores
	}
	if spec.StateFile != "" {
		return kvstore.NewFileStore(spec.StateFile)
	}
	return kvstore.OpenSQLite(spec.DB)
}

func openSession(spec storeSpec, mode string, extraCodes []string) (*session, error) {
	log, err := logger.New(mode)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	store, err := openStore(spec)
	if err != nil {
		return nil, err
	}
	log.Debug("store opened", "db", spec.DB, "state_file", spec.StateFile)
	current = &session{
		store: store,
		log:   log,
		chain: chain.New(store, chain.WithLogger(log), chain.WithCodes(extraCodes...)),
	}
	return current, nil
}

// sessionFromFlags opens the session described by the persistent flags.
func sessionFromFlags() (*session, error) {
	if current != nil {
		return current, nil
	}
	return openSession(storeSpec{DB: dbPath, StateFile: stateFile}, logMode, codes)
}

func closeSession() {
	if current == nil {
		return
	}
	_ = current.store.Close()
	current.log.Sync()
	current = nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		closeSession()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
