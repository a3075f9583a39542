// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hongmengning/hathor-core/business/web/errs"
	"github.com/hongmengning/hathor-core/foundation/events"
	"github.com/hongmengning/hathor-core/foundation/ledger/state"
	"github.com/hongmengning/hathor-core/foundation/ledger/vertex"
	"github.com/hongmengning/hathor-core/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of public node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// GenesisVertices returns the genesis block and genesis transaction with
// their records.
func (h Handlers) GenesisVertices(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gb, gtx := h.State.RetrieveGenesisVertices()

	blk, err := toVertexInfo(gb)
	if err != nil {
		return err
	}
	tran, err := toVertexInfo(gtx)
	if err != nil {
		return err
	}

	resp := struct {
		Block       vertexInfo `json:"block"`
		Transaction vertexInfo `json:"transaction"`
	}{
		Block:       blk,
		Transaction: tran,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Vertex returns the specified vertex and its record.
func (h Handlers) Vertex(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	hash := web.Param(r, "hash")

	v, err := h.State.RetrieveVertex(hash)
	if err != nil {
		if errors.Is(err, vertex.ErrVertexNotFound) {
			return errs.NewTrusted(err, http.StatusNotFound)
		}
		return err
	}

	info, err := toVertexInfo(v)
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, info, http.StatusOK)
}

// LatestBlock returns the most recently accepted block and its record.
func (h Handlers) LatestBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	info, err := toVertexInfo(h.State.RetrieveLatestBlock())
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, info, http.StatusOK)
}
