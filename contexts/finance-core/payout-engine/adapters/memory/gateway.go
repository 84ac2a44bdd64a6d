package memory

import (
	"context"
	"fmt"
	"sync"

	"revshare/contexts/finance-core/payout-engine/ports"
)

// Gateway is a recording transfer gateway for tests and local runs.
// Destinations registered with FailFor reject with the given error.
type Gateway struct {
	mu       sync.Mutex
	requests []ports.TransferRequest
	failures map[string]error
	sequence int
}

func NewGateway() *Gateway {
	return &Gateway{failures: make(map[string]error)}
}

func (g *Gateway) CreateTransfer(_ context.Context, req ports.TransferRequest) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.failures[req.Destination]; err != nil {
		return "", err
	}
	g.requests = append(g.requests, req)
	g.sequence++
	return fmt.Sprintf("tr_%06d", g.sequence), nil
}

func (g *Gateway) FailFor(destination string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failures[destination] = err
}

// Requests returns a copy of the transfers accepted so far.
func (g *Gateway) Requests() []ports.TransferRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]ports.TransferRequest, len(g.requests))
	copy(out, g.requests)
	return out
}
