package commands

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/hongmengning/hathor-core/foundation/ledger/database"
	"github.com/hongmengning/hathor-core/foundation/ledger/database/storage/disk"
	"github.com/hongmengning/hathor-core/foundation/ledger/vertex"
	"github.com/spf13/cobra"
)

var vertexCmd = &cobra.Command{
	Use:   "vertex [hash]",
	Short: "Print a stored vertex and its record.",
	Args:  cobra.ExactArgs(1),
	Run:   vertexRun,
}

func init() {
	rootCmd.AddCommand(vertexCmd)
}

func vertexRun(cmd *cobra.Command, args []string) {
	hash := args[0]

	storage, err := disk.New(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer storage.Close()

	data, err := findVertex(storage, hash)
	if err != nil {
		log.Fatal(err)
	}

	doc, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(doc))

	meta, err := vertex.DecodeStaticMetadata(data.StaticMetadata, data.Kind)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("record: %+v\n", meta)
}

// findVertex walks the storage in acceptance order looking for the
// specified hash.
func findVertex(storage database.Serializer, hash string) (database.VertexData, error) {
	iter := storage.ForEach()
	for data, err := iter.Next(); !iter.Done(); data, err = iter.Next() {
		if err != nil {
			return database.VertexData{}, err
		}

		if data.Hash == hash {
			return data, nil
		}
	}

	return database.VertexData{}, fmt.Errorf("vertex %s: %w", hash, vertex.ErrVertexNotFound)
}
