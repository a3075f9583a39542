// Package commands contains the admin tool commands.
package commands

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	genesisPath string
	dbPath      string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&genesisPath, "genesis", "g", "zledger/genesis.json", "Path to the genesis file.")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db-path", "d", "zledger/vertices.db", "Path to the vertex storage.")
}

var rootCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrative tasks for the ledger node",
}

// Execute runs the command specified on the command line.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
