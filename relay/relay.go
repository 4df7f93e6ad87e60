// Package relay implements the pass-through transaction entry point. It
// forwards an opaque payload to the host dispatch environment and hands
// the opaque results back; nothing in it inspects the payload and nothing
// in the graph depends on it.
package relay

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"socialgraph/monitoring"
)

// Dispatcher is the host environment's dispatch entry point: it executes
// one opaque transaction on behalf of an account and returns the raw
// result blobs.
type Dispatcher interface {
	Dispatch(ctx context.Context, env, account []byte, payload []byte) ([][]byte, error)
}

// DispatcherFunc adapts a plain function to the Dispatcher interface.
type DispatcherFunc func(ctx context.Context, env, account []byte, payload []byte) ([][]byte, error)

func (f DispatcherFunc) Dispatch(ctx context.Context, env, account []byte, payload []byte) ([][]byte, error) {
	return f(ctx, env, account, payload)
}

type Relay struct {
	dispatcher Dispatcher
}

func New(dispatcher Dispatcher) *Relay {
	return &Relay{dispatcher: dispatcher}
}

// Forward sends the payload to the dispatcher verbatim and returns its
// results verbatim.
func (r *Relay) Forward(ctx context.Context, env, account []byte, payload []byte) ([][]byte, error) {
	results, err := r.dispatcher.Dispatch(ctx, env, account, payload)
	if err != nil {
		log.Errorf("Error dispatching relayed transaction: %v", err)
		return nil, fmt.Errorf("dispatching transaction: %w", err)
	}
	monitoring.RelayedTransactionsTotal.Inc()
	return results, nil
}
