package commands

import (
	"fmt"
	"log"
	"time"

	"github.com/hongmengning/hathor-core/foundation/ledger/genesis"
	"github.com/spf13/cobra"
)

var genesisCmd = &cobra.Command{
	Use:   "genesis",
	Short: "Write a starter genesis file.",
	Run:   genesisRun,
}

func init() {
	rootCmd.AddCommand(genesisCmd)
}

func genesisRun(cmd *cobra.Command, args []string) {
	gen := genesis.Genesis{
		Date:                 time.Now().UTC(),
		ChainID:              1,
		EvaluationInterval:   40320,
		RewardSpendMinBlocks: 300,
		MaxSignalBits:        8,
	}

	if err := genesis.Save(genesisPath, gen); err != nil {
		log.Fatal(err)
	}

	fmt.Println("genesis file written:", genesisPath)
}
