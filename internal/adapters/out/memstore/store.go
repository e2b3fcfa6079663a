// Package memstore implements the repository ports with process-local storage.
// The store is the single owner of all order and courier instances: reads hand
// out clones and writes store clones, so every mutation becomes visible as one
// atomic whole-entity swap and no caller can observe torn state.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// seedCourier describes one entry of the fixed fleet created at process start.
type seedCourier struct {
	id   string
	name string
	lat  float64
	lng  float64
}

var seedCouriers = []seedCourier{
	{"COU_001", "Aswin Kumar", 19.0760, 72.8777},  // Mumbai Central
	{"COU_002", "Anil Kumar", 19.0896, 72.8656},   // Bandra
	{"COU_003", "Santhi Anil", 19.1136, 72.8697},  // Andheri
	{"COU_004", "Tejas Nair", 19.0330, 72.8569},   // Worli
	{"COU_005", "John Doe", 19.0176, 72.8561},     // Lower Parel
	{"COU_006", "Mike Tyson", 19.0728, 72.8826},   // Dadar
	{"COU_007", "Arjun Reddy", 19.1197, 72.9046},  // Powai
	{"COU_008", "Kavita Joshi", 19.0522, 72.8820}, // Parel
	{"COU_009", "Rohit Nair", 18.9894, 72.8360},   // Colaba
	{"COU_010", "Anjali Verma", 19.0544, 72.8320}, // Breach Candy
}

// Store holds all orders and couriers for the lifetime of the process.
// Entities never leave the store by reference: Get/GetAll return clones and
// Add/Update store clones, all under one RWMutex.
type Store struct {
	mu       sync.RWMutex
	orders   map[string]*order.Order
	orderIDs []string // creation order, for stable listing
	orderSeq int
	couriers map[string]*courier.Courier
}

// NewStore creates a Store seeded with the fixed courier fleet.
func NewStore() (*Store, error) {
	s := &Store{
		orders:   make(map[string]*order.Order),
		orderSeq: 1,
		couriers: make(map[string]*courier.Courier),
	}

	for _, seed := range seedCouriers {
		location, err := kernel.NewLocation(seed.lat, seed.lng)
		if err != nil {
			return nil, fmt.Errorf("seed courier %s: %w", seed.id, err)
		}
		c, err := courier.NewCourier(seed.id, seed.name, location)
		if err != nil {
			return nil, fmt.Errorf("seed courier %s: %w", seed.id, err)
		}
		s.couriers[c.ID()] = c
	}

	return s, nil
}

// OrderRepository returns the store's order view.
func (s *Store) OrderRepository() ports.OrderRepository {
	return &orderRepository{store: s}
}

// CourierRepository returns the store's courier view.
func (s *Store) CourierRepository() ports.CourierRepository {
	return &courierRepository{store: s}
}

// Stats returns a consistent snapshot of store contents.
func (s *Store) Stats(_ context.Context) (ports.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := ports.Stats{
		TotalOrders:   len(s.orders),
		TotalCouriers: len(s.couriers),
	}
	for _, c := range s.couriers {
		if c.IsAvailable() {
			stats.AvailableCouriers++
		}
	}
	for _, o := range s.orders {
		if !o.State().IsTerminal() {
			stats.OrdersInProgress++
		}
	}
	return stats, nil
}

type orderRepository struct {
	store *Store
}

func (r *orderRepository) NextID() string {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	id := fmt.Sprintf("ORD_%04d", r.store.orderSeq)
	r.store.orderSeq++
	return id
}

func (r *orderRepository) Add(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.orders[aggregate.ID()]; exists {
		return errs.NewValueIsInvalidErrorWithCause("order",
			fmt.Errorf("order %s already exists", aggregate.ID()))
	}

	r.store.orders[aggregate.ID()] = aggregate.Clone()
	r.store.orderIDs = append(r.store.orderIDs, aggregate.ID())
	return nil
}

func (r *orderRepository) Update(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.orders[aggregate.ID()]; !exists {
		return errs.NewObjectNotFoundError("orderId", aggregate.ID())
	}

	r.store.orders[aggregate.ID()] = aggregate.Clone()
	return nil
}

func (r *orderRepository) Get(_ context.Context, id string) (*order.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	o, exists := r.store.orders[id]
	if !exists {
		return nil, errs.NewObjectNotFoundError("orderId", id)
	}
	return o.Clone(), nil
}

func (r *orderRepository) GetAll(_ context.Context) ([]*order.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*order.Order, 0, len(r.store.orderIDs))
	for _, id := range r.store.orderIDs {
		out = append(out, r.store.orders[id].Clone())
	}
	return out, nil
}

func (r *orderRepository) GetAllActive(_ context.Context) ([]*order.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*order.Order
	for _, id := range r.store.orderIDs {
		o := r.store.orders[id]
		if o.State().IsActive() && o.CourierID() != nil {
			out = append(out, o.Clone())
		}
	}
	return out, nil
}

type courierRepository struct {
	store *Store
}

func (r *courierRepository) Add(_ context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.couriers[aggregate.ID()]; exists {
		return errs.NewValueIsInvalidErrorWithCause("courier",
			fmt.Errorf("courier %s already exists", aggregate.ID()))
	}

	r.store.couriers[aggregate.ID()] = aggregate.Clone()
	return nil
}

func (r *courierRepository) Update(_ context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.couriers[aggregate.ID()]; !exists {
		return errs.NewObjectNotFoundError("courierId", aggregate.ID())
	}

	r.store.couriers[aggregate.ID()] = aggregate.Clone()
	return nil
}

func (r *courierRepository) Get(_ context.Context, id string) (*courier.Courier, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, exists := r.store.couriers[id]
	if !exists {
		return nil, errs.NewObjectNotFoundError("courierId", id)
	}
	return c.Clone(), nil
}

func (r *courierRepository) GetAll(_ context.Context) ([]*courier.Courier, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.sortedClones(func(*courier.Courier) bool { return true }), nil
}

func (r *courierRepository) GetAllAvailable(_ context.Context) ([]*courier.Courier, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.sortedClones((*courier.Courier).IsAvailable), nil
}

// sortedClones must be called with the store lock held.
func (r *courierRepository) sortedClones(include func(*courier.Courier) bool) []*courier.Courier {
	out := make([]*courier.Courier, 0, len(r.store.couriers))
	for _, c := range r.store.couriers {
		if include(c) {
			out = append(out, c.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}
