// Package worker implements the background intake of proposed vertices,
// keeping vertex acceptance a single ordered pipeline.
package worker

import (
	"errors"
	"sync"

	"github.com/hongmengning/hathor-core/foundation/ledger/state"
	"github.com/hongmengning/hathor-core/foundation/ledger/vertex"
)

// maxIntakeRequests represents the maximum number of proposed vertices that
// can be waiting for acceptance.
const maxIntakeRequests = 100

// ErrIntakeFull is returned when a proposed vertex can't be queued.
var ErrIntakeFull = errors.New("vertex intake is full")

// =============================================================================

// Worker manages the ordered acceptance of proposed vertices. Draining the
// intake with a single G preserves submission order, which is what upholds
// the topological precondition for dependent vertices proposed in sequence.
type Worker struct {
	state     *state.State
	wg        sync.WaitGroup
	shut      chan struct{}
	intake    chan vertex.Vertex
	evHandler state.EventHandler
}

// Run creates a worker, registers the worker with the state package, and
// starts up the background intake processing.
func Run(st *state.State, evHandler state.EventHandler) {
	w := Worker{
		state:     st,
		shut:      make(chan struct{}),
		intake:    make(chan vertex.Vertex, maxIntakeRequests),
		evHandler: evHandler,
	}

	// Register this worker with the state package.
	st.Worker = &w

	// Load the set of operations we need to run.
	operations := []func(){
		w.intakeOperations,
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for i := 0; i < g; i++ {
		<-hasStarted
	}
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutine performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.evHandler("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.wg.Wait()
}

// SignalNewVertex queues a proposed vertex for acceptance. The queue keeps
// the order vertices were submitted in.
func (w *Worker) SignalNewVertex(v vertex.Vertex) error {
	select {
	case w.intake <- v:
		w.evHandler("worker: SignalNewVertex: vertex[%s] queued", v.Hash())
		return nil
	default:
		return ErrIntakeFull
	}
}

// =============================================================================

// intakeOperations handles accepting proposed vertices, one at a time.
func (w *Worker) intakeOperations() {
	w.evHandler("worker: intakeOperations: G started")
	defer w.evHandler("worker: intakeOperations: G completed")

	for {
		select {
		case v := <-w.intake:
			if err := w.state.AcceptVertex(v); err != nil {
				w.evHandler("worker: intakeOperations: WARNING: vertex[%s]: %s", v.Hash(), err)
			}
		case <-w.shut:
			w.evHandler("worker: intakeOperations: received shut signal")
			return
		}
	}
}
