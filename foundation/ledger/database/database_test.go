package database_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/hongmengning/hathor-core/foundation/ledger/database"
	"github.com/hongmengning/hathor-core/foundation/ledger/database/storage/disk"
	"github.com/hongmengning/hathor-core/foundation/ledger/database/storage/memory"
	"github.com/hongmengning/hathor-core/foundation/ledger/genesis"
	"github.com/hongmengning/hathor-core/foundation/ledger/vertex"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// =============================================================================

func testGenesis() genesis.Genesis {
	return genesis.Genesis{
		Date:                 time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
		ChainID:              1,
		EvaluationInterval:   10,
		RewardSpendMinBlocks: 10,
		MaxSignalBits:        3,
	}
}

func noEv(v string, args ...any) {}

// acceptBlock derives, attaches, indexes and persists a block the way the
// acceptance pipeline does.
func acceptBlock(t *testing.T, db *database.Database, b *vertex.Block, gen genesis.Genesis) {
	t.Helper()

	meta, err := vertex.DeriveBlockStaticMetadata(b, gen, db.Lookup())
	if err != nil {
		t.Fatalf("\t%s\tShould be able to derive block metadata: %v", failed, err)
	}
	if err := b.SetStaticMetadata(meta); err != nil {
		t.Fatalf("\t%s\tShould be able to attach block metadata: %v", failed, err)
	}
	if err := db.Add(b); err != nil {
		t.Fatalf("\t%s\tShould be able to add the block: %v", failed, err)
	}
	if err := db.Write(b); err != nil {
		t.Fatalf("\t%s\tShould be able to write the block: %v", failed, err)
	}
}

// =============================================================================

func Test_GenesisSeeding(t *testing.T) {
	gen := testGenesis()

	t.Log("Given the need to seed the genesis vertices at open.")
	{
		storage, err := memory.New()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to open storage: %v", failed, err)
		}

		db, err := database.New(gen, storage, noEv)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to open database: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to open database.", success)

		gb := db.GenesisBlock()
		if !gb.HasStaticMetadata() || gb.StaticMetadata().Height != 0 || gb.StaticMetadata().MinHeight != 0 {
			t.Errorf("\t%s\tShould have a derived genesis block with zeroed fields.", failed)
		} else {
			t.Logf("\t%s\tShould have a derived genesis block with zeroed fields.", success)
		}

		gtx := db.GenesisTransaction()
		if !gtx.HasStaticMetadata() || gtx.StaticMetadata().MinHeight != 0 {
			t.Errorf("\t%s\tShould have a derived genesis transaction with min-height 0.", failed)
		} else {
			t.Logf("\t%s\tShould have a derived genesis transaction with min-height 0.", success)
		}

		if db.LatestBlock().Hash() != gb.Hash() {
			t.Errorf("\t%s\tShould report genesis as the latest block.", failed)
		} else {
			t.Logf("\t%s\tShould report genesis as the latest block.", success)
		}
	}
}

func Test_LookupContract(t *testing.T) {
	gen := testGenesis()

	t.Log("Given the need to resolve dependencies with metadata attached.")
	{
		storage, err := memory.New()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to open storage: %v", failed, err)
		}

		db, err := database.New(gen, storage, noEv)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to open database: %v", failed, err)
		}

		t.Log("\tWhen resolving an unknown hash.")
		{
			if _, err := db.Lookup()("0xdeadbeef"); !errors.Is(err, vertex.ErrVertexNotFound) {
				t.Errorf("\t%s\tShould get ErrVertexNotFound, got %v.", failed, err)
			} else {
				t.Logf("\t%s\tShould get ErrVertexNotFound.", success)
			}
		}

		t.Log("\tWhen adding a vertex without metadata.")
		{
			b := vertex.NewBlock(db.GenesisBlock().Hash(), nil, 0, 1, 0)
			if err := db.Add(b); !errors.Is(err, vertex.ErrMetadataNotDerived) {
				t.Errorf("\t%s\tShould get ErrMetadataNotDerived, got %v.", failed, err)
			} else {
				t.Logf("\t%s\tShould get ErrMetadataNotDerived.", success)
			}
		}

		t.Log("\tWhen adding a derived vertex.")
		{
			b := vertex.NewBlock(db.GenesisBlock().Hash(), nil, 0, 1, 0)
			acceptBlock(t, db, b, gen)

			got, err := db.GetVertex(b.Hash())
			if err != nil {
				t.Fatalf("\t%s\tShould be able to resolve the block: %v", failed, err)
			}
			t.Logf("\t%s\tShould be able to resolve the block.", success)

			if got.(*vertex.Block).StaticMetadata().Height != 1 {
				t.Errorf("\t%s\tShould carry the derived metadata.", failed)
			} else {
				t.Logf("\t%s\tShould carry the derived metadata.", success)
			}

			if db.LatestBlock().Hash() != b.Hash() {
				t.Errorf("\t%s\tShould track the latest block.", failed)
			} else {
				t.Logf("\t%s\tShould track the latest block.", success)
			}
		}
	}
}

func Test_ReloadFromStorage(t *testing.T) {
	gen := testGenesis()

	t.Log("Given the need to reload records without rederiving them.")
	{
		for name, open := range map[string]func(t *testing.T) database.Serializer{
			"memory": func(t *testing.T) database.Serializer {
				storage, err := memory.New()
				if err != nil {
					t.Fatalf("\t%s\tShould be able to open storage: %v", failed, err)
				}
				return storage
			},
			"disk": func(t *testing.T) database.Serializer {
				dir := t.TempDir()
				storage, err := disk.New(dir)
				if err != nil {
					t.Fatalf("\t%s\tShould be able to open storage: %v", failed, err)
				}

				t.Cleanup(func() { storage.Close() })
				return storage
			},
		} {
			t.Run(name, func(t *testing.T) {
				storage := open(t)

				db, err := database.New(gen, storage, noEv)
				if err != nil {
					t.Fatalf("\t%s\tShould be able to open database: %v", failed, err)
				}

				b1 := vertex.NewBlock(db.GenesisBlock().Hash(), nil, 0b101, 1, 0)
				acceptBlock(t, db, b1, gen)

				tx := vertex.NewTransaction(nil, []vertex.TxInput{{TxID: b1.Hash(), Index: 0}}, 2)
				txMeta, err := vertex.DeriveTransactionStaticMetadata(tx, gen, db.Lookup())
				if err != nil {
					t.Fatalf("\t%s\tShould be able to derive tx metadata: %v", failed, err)
				}
				if err := tx.SetStaticMetadata(txMeta); err != nil {
					t.Fatalf("\t%s\tShould be able to attach tx metadata: %v", failed, err)
				}
				if err := db.Add(tx); err != nil {
					t.Fatalf("\t%s\tShould be able to add the tx: %v", failed, err)
				}
				if err := db.Write(tx); err != nil {
					t.Fatalf("\t%s\tShould be able to write the tx: %v", failed, err)
				}

				db2, err := database.New(gen, storage, noEv)
				if err != nil {
					t.Fatalf("\t%s\tShould be able to reopen database: %v", failed, err)
				}
				t.Logf("\t%s\tShould be able to reopen database.", success)

				got, err := db2.GetVertex(b1.Hash())
				if err != nil {
					t.Fatalf("\t%s\tShould find the block after reload: %v", failed, err)
				}

				if !reflect.DeepEqual(got.(*vertex.Block).StaticMetadata(), b1.StaticMetadata()) {
					t.Errorf("\t%s\tShould reload the identical block record.", failed)
					t.Logf("\t%s\tgot: %+v", failed, got.(*vertex.Block).StaticMetadata())
					t.Logf("\t%s\texp: %+v", failed, b1.StaticMetadata())
				} else {
					t.Logf("\t%s\tShould reload the identical block record.", success)
				}

				gotTx, err := db2.GetVertex(tx.Hash())
				if err != nil {
					t.Fatalf("\t%s\tShould find the tx after reload: %v", failed, err)
				}

				if gotTx.(*vertex.Transaction).StaticMetadata().MinHeight != txMeta.MinHeight {
					t.Errorf("\t%s\tShould reload the identical tx record.", failed)
				} else {
					t.Logf("\t%s\tShould reload the identical tx record.", success)
				}

				if db2.LatestBlock().Hash() != b1.Hash() {
					t.Errorf("\t%s\tShould track the latest block after reload.", failed)
				} else {
					t.Logf("\t%s\tShould track the latest block after reload.", success)
				}
			})
		}
	}
}
