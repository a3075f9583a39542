package state_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hongmengning/hathor-core/foundation/ledger/database/storage/memory"
	"github.com/hongmengning/hathor-core/foundation/ledger/genesis"
	"github.com/hongmengning/hathor-core/foundation/ledger/state"
	"github.com/hongmengning/hathor-core/foundation/ledger/vertex"
	"github.com/hongmengning/hathor-core/foundation/ledger/worker"
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

func newTestState(t *testing.T, ev state.EventHandler) *state.State {
	t.Helper()

	storage, err := memory.New()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to open storage: %v", failed, err)
	}

	st, err := state.New(state.Config{
		Genesis:   testGenesis(),
		Storage:   storage,
		EvHandler: ev,
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the state: %v", failed, err)
	}

	return st
}

func accept(t *testing.T, st *state.State, v vertex.Vertex) {
	t.Helper()

	if err := st.AcceptVertex(v); err != nil {
		t.Fatalf("\t%s\tShould be able to accept vertex %s: %v", failed, v.Hash(), err)
	}
}

// =============================================================================

func Test_AcceptPipeline(t *testing.T) {
	t.Log("Given the need to accept vertices and derive their records.")
	{
		st := newTestState(t, nil)
		defer st.Shutdown()

		gb, _ := st.RetrieveGenesisVertices()

		t.Log("\tWhen accepting a chain of blocks.")
		{
			parent := gb.Hash()
			var last *vertex.Block
			for i := uint64(1); i <= 11; i++ {
				b := vertex.NewBlock(parent, nil, 0, i, 0)
				accept(t, st, b)
				parent = b.Hash()
				last = b
			}

			if last.StaticMetadata().Height != 11 {
				t.Errorf("\t%s\tShould derive height 11 for the tip, got %d.", failed, last.StaticMetadata().Height)
			} else {
				t.Logf("\t%s\tShould derive height 11 for the tip.", success)
			}

			if st.RetrieveLatestBlock().Hash() != last.Hash() {
				t.Errorf("\t%s\tShould track the accepted tip.", failed)
			} else {
				t.Logf("\t%s\tShould track the accepted tip.", success)
			}
		}

		t.Log("\tWhen accepting a transaction spending a block reward.")
		{
			rewardBlock, err := st.RetrieveVertex(st.RetrieveLatestBlock().ParentBlockHash)
			if err != nil {
				t.Fatalf("\t%s\tShould be able to retrieve the spent block: %v", failed, err)
			}

			tx := vertex.NewTransaction(nil, []vertex.TxInput{{TxID: rewardBlock.Hash(), Index: 0}}, 100)
			accept(t, st, tx)

			// Spent block has height 10, so the reward unlocks at 10+10+1.
			if tx.StaticMetadata().MinHeight != 21 {
				t.Errorf("\t%s\tShould derive min-height 21, got %d.", failed, tx.StaticMetadata().MinHeight)
			} else {
				t.Logf("\t%s\tShould derive min-height 21.", success)
			}
		}
	}
}

func Test_AcceptOrdering(t *testing.T) {
	t.Log("Given the need to reject vertices submitted out of order.")
	{
		st := newTestState(t, nil)
		defer st.Shutdown()

		gb, _ := st.RetrieveGenesisVertices()

		t.Log("\tWhen a dependency has not been committed.")
		{
			b1 := vertex.NewBlock(gb.Hash(), nil, 0, 1, 0)
			b2 := vertex.NewBlock(b1.Hash(), nil, 0, 2, 0)

			err := st.AcceptVertex(b2)
			if err == nil || !errors.Is(err, vertex.ErrVertexNotFound) {
				t.Errorf("\t%s\tShould reject the child with ErrVertexNotFound, got %v.", failed, err)
			} else {
				t.Logf("\t%s\tShould reject the child with ErrVertexNotFound.", success)
			}

			accept(t, st, b1)
			accept(t, st, b2)
			t.Logf("\t%s\tShould accept both once submitted in order.", success)
		}

		t.Log("\tWhen resubmitting an accepted vertex.")
		{
			b3 := vertex.NewBlock(st.RetrieveLatestBlock().Hash(), nil, 0, 3, 0)
			accept(t, st, b3)

			err := st.AcceptVertex(b3)
			if err == nil || !errors.Is(err, vertex.ErrMetadataAlreadyDerived) {
				t.Errorf("\t%s\tShould reject the resubmission, got %v.", failed, err)
			} else {
				t.Logf("\t%s\tShould reject the resubmission.", success)
			}

			dup := vertex.NewBlock(st.RetrieveLatestBlock().ParentBlockHash, nil, 0, 3, 0)
			err = st.AcceptVertex(dup)
			if err == nil || !strings.Contains(err.Error(), "already accepted") {
				t.Errorf("\t%s\tShould reject a structural duplicate, got %v.", failed, err)
			} else {
				t.Logf("\t%s\tShould reject a structural duplicate.", success)
			}
		}

		t.Log("\tWhen submitting a genesis vertex.")
		{
			g := vertex.NewGenesisBlock(uint64(testGenesis().Date.Unix()))
			err := st.AcceptVertex(g)
			if err == nil || !errors.Is(err, state.ErrGenesisVertex) {
				t.Errorf("\t%s\tShould reject the genesis vertex, got %v.", failed, err)
			} else {
				t.Logf("\t%s\tShould reject the genesis vertex.", success)
			}
		}
	}
}

func Test_WorkerIntake(t *testing.T) {
	t.Log("Given the need to accept vertices through the background intake.")
	{
		accepted := make(chan string, 1)
		ev := func(v string, args ...any) {
			if strings.Contains(v, "vertex accepted") && len(args) == 1 {
				if data, ok := args[0].([]byte); ok {
					select {
					case accepted <- string(data):
					default:
					}
				}
			}
		}

		st := newTestState(t, ev)
		defer st.Shutdown()

		worker.Run(st, ev)

		gb, _ := st.RetrieveGenesisVertices()

		b := vertex.NewBlock(gb.Hash(), nil, 0, 1, 0)
		if err := st.Worker.SignalNewVertex(b); err != nil {
			t.Fatalf("\t%s\tShould be able to signal the intake: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to signal the intake.", success)

		select {
		case event := <-accepted:
			if !strings.Contains(event, b.Hash()) {
				t.Errorf("\t%s\tShould receive the accepted event for the block.", failed)
			} else {
				t.Logf("\t%s\tShould receive the accepted event for the block.", success)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("\t%s\tShould receive the accepted event before the timeout.", failed)
		}

		if _, err := st.RetrieveVertex(b.Hash()); err != nil {
			t.Errorf("\t%s\tShould find the block committed: %v", failed, err)
		} else {
			t.Logf("\t%s\tShould find the block committed.", success)
		}
	}
}
