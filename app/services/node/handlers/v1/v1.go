// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/hongmengning/hathor-core/app/services/node/handlers/v1/private"
	"github.com/hongmengning/hathor-core/app/services/node/handlers/v1/public"
	"github.com/hongmengning/hathor-core/foundation/events"
	"github.com/hongmengning/hathor-core/foundation/ledger/state"
	"github.com/hongmengning/hathor-core/foundation/web"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	Evts  *events.Events
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/genesis/list", pbl.Genesis)
	app.Handle(http.MethodGet, version, "/genesis/vertices", pbl.GenesisVertices)
	app.Handle(http.MethodGet, version, "/vertex/:hash", pbl.Vertex)
	app.Handle(http.MethodGet, version, "/block/latest", pbl.LatestBlock)
	app.Handle(http.MethodGet, version, "/events", pbl.Events)
}

// PrivateRoutes binds all the version 1 private routes.
func PrivateRoutes(app *web.App, cfg Config) {
	prv := private.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
	}

	app.Handle(http.MethodGet, version, "/node/status", prv.Status)
	app.Handle(http.MethodPost, version, "/node/block/propose", prv.ProposeBlock)
	app.Handle(http.MethodPost, version, "/node/tx/propose", prv.ProposeTransaction)
}
