package cmd

import (
	"log/slog"

	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/memstore"
	"dispatch/internal/core/application/usecases"
	"dispatch/internal/jobs"
)

// CompositionRoot builds and holds the full object graph: the in-memory store,
// the application services on top of it, the movement simulator and the HTTP
// server.
type CompositionRoot struct {
	store     *memstore.Store
	simulator *jobs.MovementSimulator
	server    *httpin.Server
}

// NewCompositionRoot wires every component from config.
func NewCompositionRoot(config Config, logger *slog.Logger) (*CompositionRoot, error) {
	store, err := memstore.NewStore()
	if err != nil {
		return nil, err
	}

	assignment, err := usecases.NewAssignmentService(store.OrderRepository(), store.CourierRepository())
	if err != nil {
		return nil, err
	}
	lifecycle, err := usecases.NewLifecycleService(store.OrderRepository(), store.CourierRepository(), assignment)
	if err != nil {
		return nil, err
	}
	couriers, err := usecases.NewCourierService(store.CourierRepository())
	if err != nil {
		return nil, err
	}

	simulator, err := jobs.NewMovementSimulator(
		lifecycle, store.OrderRepository(), config.SimIntervalMS, config.SimStepSize, logger)
	if err != nil {
		return nil, err
	}

	return &CompositionRoot{
		store:     store,
		simulator: simulator,
		server:    httpin.NewServer(lifecycle, couriers, simulator, store),
	}, nil
}

// Simulator returns the movement simulator.
func (c *CompositionRoot) Simulator() *jobs.MovementSimulator {
	return c.simulator
}

// HTTPServer returns the REST adapter.
func (c *CompositionRoot) HTTPServer() *httpin.Server {
	return c.server
}
