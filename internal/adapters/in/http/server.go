// Package http is the inbound REST adapter. Every handler delegates to an
// application service and wraps the result in a {success, data, message}
// envelope; domain errors map onto 400 and 404 responses in errors.go.
package http

import (
	"net/http"
	"time"

	"dispatch/internal/core/application/usecases"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server wires the application services to the REST routes.
type Server struct {
	lifecycle *usecases.LifecycleService
	couriers  *usecases.CourierService
	simulator *jobs.MovementSimulator
	stats     ports.StatsProvider
	startedAt time.Time
}

// NewServer creates a Server over the given services.
func NewServer(
	lifecycle *usecases.LifecycleService,
	couriers *usecases.CourierService,
	simulator *jobs.MovementSimulator,
	stats ports.StatsProvider,
) *Server {
	return &Server{
		lifecycle: lifecycle,
		couriers:  couriers,
		simulator: simulator,
		stats:     stats,
		startedAt: time.Now(),
	}
}

// RegisterRoutes attaches all routes to e.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	v1 := e.Group("/api/v1")

	v1.GET("/health", s.Health)
	v1.GET("/stats", s.GetStats)

	v1.POST("/orders", s.CreateOrder)
	v1.GET("/orders", s.GetOrders)
	v1.GET("/orders/:id", s.GetOrder)
	v1.PATCH("/orders/:id/state", s.UpdateOrderState)
	v1.DELETE("/orders/:id", s.CancelOrder)
	v1.POST("/orders/:id/progress", s.ProgressOrder)

	v1.GET("/couriers", s.GetCouriers)
	v1.GET("/couriers/available", s.GetAvailableCouriers)
	v1.GET("/couriers/:id", s.GetCourier)
	v1.PATCH("/couriers/:id/location", s.UpdateCourierLocation)
	v1.POST("/couriers/:id/move", s.MoveCourier)

	v1.POST("/simulation/start", s.StartSimulation)
	v1.POST("/simulation/stop", s.StopSimulation)
	v1.GET("/simulation/status", s.GetSimulationStatus)
	v1.PATCH("/simulation/speed", s.SetSimulationSpeed)
	v1.PATCH("/simulation/step-size", s.SetMovementStepSize)
	v1.POST("/simulation/orders/:id/force-progress", s.ForceProgressOrder)
	v1.GET("/simulation/orders/:id/debug", s.DebugOrder)
}

// Health handles GET /api/v1/health.
func (s *Server) Health(ctx echo.Context) error {
	return respond(ctx, http.StatusOK, map[string]any{
		"status":        "ok",
		"uptimeSeconds": int(time.Since(s.startedAt).Seconds()),
	}, "")
}

// GetStats handles GET /api/v1/stats.
func (s *Server) GetStats(ctx echo.Context) error {
	stats, err := s.stats.Stats(ctx.Request().Context())
	if err != nil {
		return fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, map[string]int{
		"totalOrders":       stats.TotalOrders,
		"totalCouriers":     stats.TotalCouriers,
		"availableCouriers": stats.AvailableCouriers,
		"ordersInProgress":  stats.OrdersInProgress,
	}, "")
}

// CreateOrder handles POST /api/v1/orders. The order is created and an
// assignment is attempted in the same request; both results travel in the
// response.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req createOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return failBadBody(ctx)
	}

	spec := usecases.CreateOrderSpec{
		DeliveryType: req.DeliveryType,
		Weight:       req.Package.Weight,
		Size:         req.Package.Size,
	}
	if req.Pickup != nil {
		pickup, err := kernel.NewLocation(req.Pickup.Lat, req.Pickup.Lng)
		if err != nil {
			return fail(ctx, err)
		}
		spec.Pickup = &pickup
	}
	if req.Drop != nil {
		drop, err := kernel.NewLocation(req.Drop.Lat, req.Drop.Lng)
		if err != nil {
			return fail(ctx, err)
		}
		spec.Drop = &drop
	}

	result, err := s.lifecycle.CreateOrder(ctx.Request().Context(), spec)
	if err != nil {
		return fail(ctx, err)
	}
	return respond(ctx, http.StatusCreated, map[string]any{
		"order":      toOrderDTO(result.Order),
		"assignment": toAssignmentDTO(result.Assignment),
	}, result.Assignment.Message)
}

// GetOrders handles GET /api/v1/orders.
func (s *Server) GetOrders(ctx echo.Context) error {
	orders, err := s.lifecycle.ListOrders(ctx.Request().Context())
	if err != nil {
		return fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, toOrderDTOs(orders), "")
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(ctx echo.Context) error {
	o, err := s.lifecycle.GetOrder(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, toOrderDTO(o), "")
}

// UpdateOrderState handles PATCH /api/v1/orders/:id/state. Requests through
// this route are manual transitions, so only the manual allow-list passes;
// pickup and delivery happen through progression, not through this endpoint.
func (s *Server) UpdateOrderState(ctx echo.Context) error {
	var req transitionRequest
	if err := ctx.Bind(&req); err != nil {
		return failBadBody(ctx)
	}
	if req.State == "" {
		return fail(ctx, errs.NewValueIsRequiredError("state"))
	}
	next := order.State(req.State)
	if !next.IsValid() {
		return fail(ctx, errs.NewValueIsInvalidError("state"))
	}

	o, err := s.lifecycle.Transition(ctx.Request().Context(), ctx.Param("id"), next, true)
	if err != nil {
		return fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, toOrderDTO(o), "order state updated")
}

// CancelOrder handles DELETE /api/v1/orders/:id.
func (s *Server) CancelOrder(ctx echo.Context) error {
	o, err := s.lifecycle.Cancel(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, toOrderDTO(o), "order cancelled")
}

// ProgressOrder handles POST /api/v1/orders/:id/progress. One call moves the
// order's courier a single step, or performs the transition the courier's
// position already allows.
func (s *Server) ProgressOrder(ctx echo.Context) error {
	var req progressRequest
	if err := ctx.Bind(&req); err != nil {
		return failBadBody(ctx)
	}

	result, err := s.lifecycle.ProgressOneStep(ctx.Request().Context(), ctx.Param("id"), req.StepSize)
	if err != nil {
		return fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, map[string]any{
		"order":   toOrderDTO(result.Order),
		"courier": toCourierDTO(result.Courier),
	}, result.Message)
}

// GetCouriers handles GET /api/v1/couriers.
func (s *Server) GetCouriers(ctx echo.Context) error {
	couriers, err := s.couriers.ListCouriers(ctx.Request().Context())
	if err != nil {
		return fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, toCourierDTOs(couriers), "")
}

// GetAvailableCouriers handles GET /api/v1/couriers/available.
func (s *Server) GetAvailableCouriers(ctx echo.Context) error {
	couriers, err := s.couriers.ListAvailable(ctx.Request().Context())
	if err != nil {
		return fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, toCourierDTOs(couriers), "")
}

// GetCourier handles GET /api/v1/couriers/:id.
func (s *Server) GetCourier(ctx echo.Context) error {
	c, err := s.couriers.GetCourier(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, toCourierDTO(c), "")
}

// UpdateCourierLocation handles PATCH /api/v1/couriers/:id/location.
func (s *Server) UpdateCourierLocation(ctx echo.Context) error {
	var req courierLocationRequest
	if err := ctx.Bind(&req); err != nil {
		return failBadBody(ctx)
	}
	if req.Location == nil {
		return fail(ctx, errs.NewValueIsRequiredError("location"))
	}
	location, err := kernel.NewLocation(req.Location.Lat, req.Location.Lng)
	if err != nil {
		return fail(ctx, err)
	}

	c, err := s.couriers.SetLocation(ctx.Request().Context(), ctx.Param("id"), location)
	if err != nil {
		return fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, toCourierDTO(c), "courier location updated")
}

// MoveCourier handles POST /api/v1/couriers/:id/move: one movement step
// towards an arbitrary target, independent of any order.
func (s *Server) MoveCourier(ctx echo.Context) error {
	var req moveCourierRequest
	if err := ctx.Bind(&req); err != nil {
		return failBadBody(ctx)
	}
	if req.TargetLocation == nil {
		return fail(ctx, errs.NewValueIsRequiredError("targetLocation"))
	}
	target, err := kernel.NewLocation(req.TargetLocation.Lat, req.TargetLocation.Lng)
	if err != nil {
		return fail(ctx, err)
	}

	result, err := s.couriers.MoveTowards(ctx.Request().Context(), ctx.Param("id"), target, req.StepSize)
	if err != nil {
		return fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, map[string]any{
		"courier": toCourierDTO(result.Courier),
		"reached": result.Reached,
	}, "courier moved")
}

// StartSimulation handles POST /api/v1/simulation/start.
func (s *Server) StartSimulation(ctx echo.Context) error {
	if err := s.simulator.Start(); err != nil {
		return fail(ctx, err)
	}
	return s.simulationStatus(ctx, "simulation started")
}

// StopSimulation handles POST /api/v1/simulation/stop.
func (s *Server) StopSimulation(ctx echo.Context) error {
	if err := s.simulator.Stop(); err != nil {
		return fail(ctx, err)
	}
	return s.simulationStatus(ctx, "simulation stopped")
}

// GetSimulationStatus handles GET /api/v1/simulation/status.
func (s *Server) GetSimulationStatus(ctx echo.Context) error {
	return s.simulationStatus(ctx, "")
}

// SetSimulationSpeed handles PATCH /api/v1/simulation/speed. A running
// schedule is restarted on the new interval.
func (s *Server) SetSimulationSpeed(ctx echo.Context) error {
	var req simulationSpeedRequest
	if err := ctx.Bind(&req); err != nil {
		return failBadBody(ctx)
	}
	if req.Interval == nil {
		return fail(ctx, errs.NewValueIsRequiredError("interval"))
	}
	if err := s.simulator.SetInterval(*req.Interval); err != nil {
		return fail(ctx, err)
	}
	return s.simulationStatus(ctx, "simulation speed updated")
}

// SetMovementStepSize handles PATCH /api/v1/simulation/step-size.
func (s *Server) SetMovementStepSize(ctx echo.Context) error {
	var req stepSizeRequest
	if err := ctx.Bind(&req); err != nil {
		return failBadBody(ctx)
	}
	if req.StepSize == nil {
		return fail(ctx, errs.NewValueIsRequiredError("stepSize"))
	}
	if err := s.simulator.SetStepSize(*req.StepSize); err != nil {
		return fail(ctx, err)
	}
	return s.simulationStatus(ctx, "movement step size updated")
}

// ForceProgressOrder handles POST /api/v1/simulation/orders/:id/force-progress:
// one progression step with a step large enough to complete the order's
// current stage.
func (s *Server) ForceProgressOrder(ctx echo.Context) error {
	result, err := s.simulator.ForceProgress(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, map[string]any{
		"order":   toOrderDTO(result.Order),
		"courier": toCourierDTO(result.Courier),
	}, result.Message)
}

// DebugOrder handles GET /api/v1/simulation/orders/:id/debug.
func (s *Server) DebugOrder(ctx echo.Context) error {
	inspection, err := s.lifecycle.Inspect(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, toInspectionDTO(inspection), "")
}

func (s *Server) simulationStatus(ctx echo.Context, message string) error {
	status, err := s.simulator.Status(ctx.Request().Context())
	if err != nil {
		return fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, toSimulationStatusDTO(status), message)
}
