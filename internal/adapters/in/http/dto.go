package http

import (
	"time"

	"dispatch/internal/core/application/usecases"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/jobs"
)

type locationDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func toLocationDTO(l kernel.Location) locationDTO {
	return locationDTO{Lat: l.Lat(), Lng: l.Lng()}
}

type packageDTO struct {
	Weight float64 `json:"weight"`
	Size   string  `json:"size"`
}

type orderDTO struct {
	ID           string      `json:"id"`
	Pickup       locationDTO `json:"pickup"`
	Drop         locationDTO `json:"drop"`
	DeliveryType string      `json:"deliveryType"`
	Package      packageDTO  `json:"package"`
	State        string      `json:"state"`
	CourierID    *string     `json:"courierId"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func toOrderDTO(o *order.Order) orderDTO {
	return orderDTO{
		ID:           o.ID(),
		Pickup:       toLocationDTO(o.Pickup()),
		Drop:         toLocationDTO(o.Drop()),
		DeliveryType: string(o.DeliveryType()),
		Package:      packageDTO{Weight: o.Package().Weight, Size: string(o.Package().Size)},
		State:        o.State().String(),
		CourierID:    o.CourierID(),
		CreatedAt:    o.CreatedAt(),
		UpdatedAt:    o.UpdatedAt(),
	}
}

func toOrderDTOs(orders []*order.Order) []orderDTO {
	out := make([]orderDTO, len(orders))
	for i, o := range orders {
		out[i] = toOrderDTO(o)
	}
	return out
}

type courierDTO struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Location       locationDTO `json:"location"`
	Available      bool        `json:"available"`
	CurrentOrderID *string     `json:"currentOrderId"`
}

func toCourierDTO(c *courier.Courier) courierDTO {
	return courierDTO{
		ID:             c.ID(),
		Name:           c.Name(),
		Location:       toLocationDTO(c.Location()),
		Available:      c.IsAvailable(),
		CurrentOrderID: c.OrderID(),
	}
}

func toCourierDTOs(couriers []*courier.Courier) []courierDTO {
	out := make([]courierDTO, len(couriers))
	for i, c := range couriers {
		out[i] = toCourierDTO(c)
	}
	return out
}

type assignmentDTO struct {
	Outcome           string      `json:"outcome"`
	Courier           *courierDTO `json:"courier,omitempty"`
	DistanceKm        float64     `json:"distanceKm,omitempty"`
	NearestDistanceKm float64     `json:"nearestDistanceKm,omitempty"`
	Message           string      `json:"message"`
}

func toAssignmentDTO(r usecases.AssignmentResult) assignmentDTO {
	dto := assignmentDTO{
		Outcome:           string(r.Outcome),
		DistanceKm:        r.DistanceKm,
		NearestDistanceKm: r.NearestDistanceKm,
		Message:           r.Message,
	}
	if r.Courier != nil {
		c := toCourierDTO(r.Courier)
		dto.Courier = &c
	}
	return dto
}

type simulationStatusDTO struct {
	Running      bool    `json:"running"`
	IntervalMS   int     `json:"intervalMs"`
	StepSize     float64 `json:"stepSize"`
	ActiveOrders int     `json:"activeOrders"`
}

func toSimulationStatusDTO(s jobs.Status) simulationStatusDTO {
	return simulationStatusDTO{
		Running:      s.Running,
		IntervalMS:   s.IntervalMS,
		StepSize:     s.StepSize,
		ActiveOrders: s.ActiveOrders,
	}
}

type decisionDTO struct {
	Allowed  bool    `json:"allowed"`
	Reason   string  `json:"reason"`
	Distance float64 `json:"distance"`
}

type distancesDTO struct {
	ToPickup  float64 `json:"toPickup"`
	ToDrop    float64 `json:"toDrop"`
	Threshold float64 `json:"threshold"`
}

type inspectionDTO struct {
	Order       orderDTO      `json:"order"`
	Courier     *courierDTO   `json:"courier,omitempty"`
	Progression *decisionDTO  `json:"progression,omitempty"`
	Distances   *distancesDTO `json:"distances,omitempty"`
}

func toInspectionDTO(i *usecases.OrderInspection) inspectionDTO {
	dto := inspectionDTO{Order: toOrderDTO(i.Order)}
	if i.Courier == nil {
		return dto
	}
	c := toCourierDTO(i.Courier)
	dto.Courier = &c
	dto.Progression = &decisionDTO{
		Allowed:  i.Decision.Allowed,
		Reason:   i.Decision.Reason,
		Distance: i.Decision.Distance,
	}
	dto.Distances = &distancesDTO{ToPickup: i.ToPickup, ToDrop: i.ToDrop, Threshold: i.Threshold}
	return dto
}

type createOrderRequest struct {
	Pickup       *locationDTO `json:"pickup"`
	Drop         *locationDTO `json:"drop"`
	DeliveryType string       `json:"deliveryType"`
	Package      packageDTO   `json:"package"`
}

type transitionRequest struct {
	State string `json:"state"`
}

type progressRequest struct {
	StepSize float64 `json:"stepSize"`
}

type courierLocationRequest struct {
	Location *locationDTO `json:"location"`
}

type moveCourierRequest struct {
	TargetLocation *locationDTO `json:"targetLocation"`
	StepSize       float64      `json:"stepSize"`
}

type simulationSpeedRequest struct {
	Interval *int `json:"interval"`
}

type stepSizeRequest struct {
	StepSize *float64 `json:"stepSize"`
}
