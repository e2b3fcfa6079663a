package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"dispatch/internal/core/application/usecases"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// Tick interval and step size bounds. The step size is measured in raw
// coordinate degrees per tick, matching the courier movement model.
const (
	MinIntervalMS     = 1000
	MaxIntervalMS     = 30000
	DefaultIntervalMS = 2000

	MinStepSize     = 0.001
	MaxStepSize     = 0.1
	DefaultStepSize = 0.005
)

// forceProgressStep exceeds every possible courier-to-objective distance, so a
// forced tick always either moves a courier onto its objective or transitions
// the order.
const forceProgressStep = math.MaxFloat64

var (
	ErrSimulationAlreadyRunning = errors.New("simulation is already running")
	ErrSimulationNotRunning     = errors.New("simulation is not running")
)

// Status is a snapshot of the simulator's state.
type Status struct {
	Running      bool
	IntervalMS   int
	StepSize     float64
	ActiveOrders int
}

// MovementSimulator advances every active order on a fixed schedule. Each tick
// applies one movement step per active order; a failing order is logged and
// skipped so it cannot stall the rest of the fleet. Ticks never overlap: a
// tick that is still running when the next one is due suppresses it.
type MovementSimulator struct {
	mu         sync.Mutex
	lifecycle  *usecases.LifecycleService
	orders     ports.OrderRepository
	cron       *cron.Cron
	logger     *slog.Logger
	running    bool
	intervalMS int
	stepSize   float64
}

// NewMovementSimulator creates a simulator in stopped state. Zero interval or
// step selects the default; out-of-range values are rejected.
func NewMovementSimulator(
	lifecycle *usecases.LifecycleService,
	orders ports.OrderRepository,
	intervalMS int,
	stepSize float64,
	logger *slog.Logger,
) (*MovementSimulator, error) {
	if lifecycle == nil {
		return nil, errs.NewValueIsRequiredError("lifecycle")
	}
	if orders == nil {
		return nil, errs.NewValueIsRequiredError("orders")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}
	if intervalMS == 0 {
		intervalMS = DefaultIntervalMS
	}
	if stepSize == 0 {
		stepSize = DefaultStepSize
	}
	if intervalMS < MinIntervalMS || intervalMS > MaxIntervalMS {
		return nil, errs.NewValueIsOutOfRangeError("intervalMs", intervalMS, MinIntervalMS, MaxIntervalMS)
	}
	if stepSize < MinStepSize || stepSize > MaxStepSize {
		return nil, errs.NewValueIsOutOfRangeError("stepSize", stepSize, MinStepSize, MaxStepSize)
	}

	return &MovementSimulator{
		lifecycle:  lifecycle,
		orders:     orders,
		logger:     logger.With("component", "movement_simulator"),
		intervalMS: intervalMS,
		stepSize:   stepSize,
	}, nil
}

// Start launches the tick schedule.
func (s *MovementSimulator) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrSimulationAlreadyRunning
	}
	if err := s.startLocked(); err != nil {
		return err
	}
	s.logger.InfoContext(context.Background(), "Movement simulation started",
		"intervalMs", s.intervalMS, "stepSize", s.stepSize)
	return nil
}

// startLocked spins up a fresh cron with the current interval. Caller holds mu.
func (s *MovementSimulator) startLocked() error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(fmt.Sprintf("@every %dms", s.intervalMS), s.tick); err != nil {
		return err
	}
	c.Start()
	s.cron = c
	s.running = true
	return nil
}

// Stop halts the tick schedule. A tick already in flight finishes on its own.
func (s *MovementSimulator) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return ErrSimulationNotRunning
	}
	s.stopLocked()
	s.logger.InfoContext(context.Background(), "Movement simulation stopped")
	return nil
}

func (s *MovementSimulator) stopLocked() {
	s.cron.Stop()
	s.cron = nil
	s.running = false
}

// Status reports the simulator's configuration and the current active order
// count.
func (s *MovementSimulator) Status(ctx context.Context) (Status, error) {
	active, err := s.orders.GetAllActive(ctx)
	if err != nil {
		return Status{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Running:      s.running,
		IntervalMS:   s.intervalMS,
		StepSize:     s.stepSize,
		ActiveOrders: len(active),
	}, nil
}

// SetInterval changes the tick interval. A running schedule is restarted so
// the new interval takes effect immediately.
func (s *MovementSimulator) SetInterval(intervalMS int) error {
	if intervalMS < MinIntervalMS || intervalMS > MaxIntervalMS {
		return errs.NewValueIsOutOfRangeError("intervalMs", intervalMS, MinIntervalMS, MaxIntervalMS)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.intervalMS = intervalMS
	if s.running {
		s.stopLocked()
		if err := s.startLocked(); err != nil {
			return err
		}
	}
	s.logger.InfoContext(context.Background(), "Simulation interval updated", "intervalMs", intervalMS)
	return nil
}

// SetStepSize changes the per-tick movement step.
func (s *MovementSimulator) SetStepSize(stepSize float64) error {
	if stepSize < MinStepSize || stepSize > MaxStepSize {
		return errs.NewValueIsOutOfRangeError("stepSize", stepSize, MinStepSize, MaxStepSize)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stepSize = stepSize
	s.logger.InfoContext(context.Background(), "Simulation step size updated", "stepSize", stepSize)
	return nil
}

// ForceProgress advances a single order with a step large enough to reach its
// current objective, regardless of whether the schedule is running. The
// configured step size is untouched.
func (s *MovementSimulator) ForceProgress(ctx context.Context, orderID string) (*usecases.ProgressResult, error) {
	return s.lifecycle.ProgressOneStep(ctx, orderID, forceProgressStep)
}

func (s *MovementSimulator) tick() {
	ctx := context.Background()

	s.mu.Lock()
	step := s.stepSize
	s.mu.Unlock()

	active, err := s.orders.GetAllActive(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Movement simulation tick failed", "error", err)
		return
	}

	// A failing order is skipped, not allowed to stall the rest of the fleet.
	for _, o := range active {
		progress, err := s.lifecycle.ProgressOneStep(ctx, o.ID(), step)
		if err != nil {
			s.logger.ErrorContext(ctx, "Order progression failed", "orderId", o.ID(), "error", err)
			continue
		}
		s.logger.DebugContext(ctx, "Order progressed",
			"orderId", progress.Order.ID(), "state", progress.Order.State().String(), "message", progress.Message)
	}
}
