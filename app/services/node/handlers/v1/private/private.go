// Package private maintains the group of handlers for node to node access.
package private

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hongmengning/hathor-core/business/web/errs"
	"github.com/hongmengning/hathor-core/foundation/ledger/state"
	"github.com/hongmengning/hathor-core/foundation/ledger/vertex"
	"github.com/hongmengning/hathor-core/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of node to node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// ProposeBlock takes a block received from a peer and queues it with the
// intake worker for acceptance.
func (h Handlers) ProposeBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	// Decode the JSON in the post call into a block proposal.
	var proposal blockProposal
	if err := web.Decode(r, &proposal); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	blk := vertex.NewBlock(proposal.ParentBlockHash, proposal.TxParents, proposal.SignalBits, proposal.TimeStamp, proposal.Nonce)

	h.Log.Infow("propose block", "traceid", v.TraceID, "hash", blk.Hash(), "parent", blk.ParentBlockHash)
	if err := h.State.Worker.SignalNewVertex(blk); err != nil {
		return errs.NewTrusted(err, http.StatusServiceUnavailable)
	}

	resp := struct {
		Status string `json:"status"`
		Hash   string `json:"hash"`
	}{
		Status: "block queued for acceptance",
		Hash:   blk.Hash(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// ProposeTransaction takes a transaction received from a peer and queues it
// with the intake worker for acceptance.
func (h Handlers) ProposeTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	// Decode the JSON in the post call into a transaction proposal.
	var proposal tranProposal
	if err := web.Decode(r, &proposal); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	inputs := make([]vertex.TxInput, len(proposal.Inputs))
	for i, in := range proposal.Inputs {
		inputs[i] = vertex.TxInput{
			TxID:  in.TxID,
			Index: in.Index,
		}
	}

	tx := vertex.NewTransaction(proposal.TxParents, inputs, proposal.TimeStamp)

	h.Log.Infow("propose tran", "traceid", v.TraceID, "hash", tx.Hash(), "parents", len(tx.TxParents), "inputs", len(tx.Inputs))
	if err := h.State.Worker.SignalNewVertex(tx); err != nil {
		return errs.NewTrusted(err, http.StatusServiceUnavailable)
	}

	resp := struct {
		Status string `json:"status"`
		Hash   string `json:"hash"`
	}{
		Status: "transaction queued for acceptance",
		Hash:   tx.Hash(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	latestBlock := h.State.RetrieveLatestBlock()

	status := struct {
		LatestBlockHash   string `json:"latest_block_hash"`
		LatestBlockHeight uint64 `json:"latest_block_height"`
	}{
		LatestBlockHash:   latestBlock.Hash(),
		LatestBlockHeight: latestBlock.StaticMetadata().Height,
	}

	return web.Respond(ctx, w, status, http.StatusOK)
}
