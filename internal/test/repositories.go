package test

import (
	"context"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/repository"
)

// CartRepositoryStub stores carts in-memory with version checks.
type CartRepositoryStub struct {
	mu      sync.Mutex
	Carts   map[int64]*model.Cart
	GetErr  error
	SaveErr error
	Saves   int
}

// NewCartRepositoryStub constructs stub repository with initialized map.
func NewCartRepositoryStub() *CartRepositoryStub {
	return &CartRepositoryStub{Carts: make(map[int64]*model.Cart)}
}

// Put stores cart as is, bypassing version checks.
func (s *CartRepositoryStub) Put(cart *model.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Carts == nil {
		s.Carts = make(map[int64]*model.Cart)
	}
	s.Carts[cart.CustomerID] = copyCart(cart)
}

// Get returns a copy of the stored cart or not found.
func (s *CartRepositoryStub) Get(ctx context.Context, customerID int64) (*model.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	cart, ok := s.Carts[customerID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return copyCart(cart), nil
}

// Save upserts cart, bumping its version.
func (s *CartRepositoryStub) Save(ctx context.Context, cart *model.Cart, expectedVersion *int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	if s.Carts == nil {
		s.Carts = make(map[int64]*model.Cart)
	}
	current := int64(0)
	if existing, ok := s.Carts[cart.CustomerID]; ok {
		current = existing.Version
	}
	if expectedVersion != nil && *expectedVersion != current {
		return domainErrors.ErrCartVersionConflict
	}
	cart.Version = current + 1
	cart.LastUpdated = time.Now()
	s.Carts[cart.CustomerID] = copyCart(cart)
	s.Saves++
	return nil
}

// Clear empties the stored cart, bumping its version.
func (s *CartRepositoryStub) Clear(ctx context.Context, customerID int64, expectedVersion *int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.Carts[customerID]
	if !ok {
		if expectedVersion != nil && *expectedVersion != 0 {
			return domainErrors.ErrCartVersionConflict
		}
		return nil
	}
	if expectedVersion != nil && *expectedVersion != cart.Version {
		return domainErrors.ErrCartVersionConflict
	}
	cart.Clear()
	cart.Version++
	cart.LastUpdated = time.Now()
	return nil
}

func copyCart(cart *model.Cart) *model.Cart {
	c := *cart
	c.Items = append([]model.CartItem{}, cart.Items...)
	return &c
}

// CatalogRepositoryStub serves catalog entries keyed by product and store.
type CatalogRepositoryStub struct {
	mu      sync.Mutex
	Entries map[string]model.CatalogEntry
	GetFn   func(context.Context, string, string) (*model.CatalogEntry, error)
	Calls   int
}

// NewCatalogRepositoryStub builds stub from provided entries.
func NewCatalogRepositoryStub(entries ...model.CatalogEntry) *CatalogRepositoryStub {
	s := &CatalogRepositoryStub{Entries: make(map[string]model.CatalogEntry)}
	for _, e := range entries {
		s.Entries[e.ProductCode+"|"+e.StoreCode] = e
	}
	return s
}

// Get returns configured entry or not found.
func (s *CatalogRepositoryStub) Get(ctx context.Context, productCode, storeCode string) (*model.CatalogEntry, error) {
	s.mu.Lock()
	s.Calls++
	s.mu.Unlock()
	if s.GetFn != nil {
		return s.GetFn(ctx, productCode, storeCode)
	}
	entry, ok := s.Entries[productCode+"|"+storeCode]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &entry, nil
}

// DeliverySlotRepositoryStub keeps slots in-memory.
type DeliverySlotRepositoryStub struct {
	Slots     map[int64]model.DeliverySlot
	Err       error
	ListCalls int
}

// NewDeliverySlotRepositoryStub builds stub from provided slots.
func NewDeliverySlotRepositoryStub(slots ...model.DeliverySlot) *DeliverySlotRepositoryStub {
	s := &DeliverySlotRepositoryStub{Slots: make(map[int64]model.DeliverySlot)}
	for _, slot := range slots {
		s.Slots[slot.ID] = slot
	}
	return s
}

// Get returns slot by id.
func (s *DeliverySlotRepositoryStub) Get(ctx context.Context, id int64) (*model.DeliverySlot, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	slot, ok := s.Slots[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &slot, nil
}

// ListByStore returns active slots of the store in id order.
func (s *DeliverySlotRepositoryStub) ListByStore(ctx context.Context, storeCode string) ([]model.DeliverySlot, error) {
	s.ListCalls++
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.DeliverySlot
	for _, slot := range s.Slots {
		if slot.StoreCode == storeCode && slot.Active {
			out = append(out, slot)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// PaymentModeRepositoryStub keeps payment modes in-memory.
type PaymentModeRepositoryStub struct {
	Modes map[int64]model.PaymentMode
	Err   error
}

// NewPaymentModeRepositoryStub builds stub from provided modes.
func NewPaymentModeRepositoryStub(modes ...model.PaymentMode) *PaymentModeRepositoryStub {
	s := &PaymentModeRepositoryStub{Modes: make(map[int64]model.PaymentMode)}
	for _, m := range modes {
		s.Modes[m.ID] = m
	}
	return s
}

// Get returns payment mode by id.
func (s *PaymentModeRepositoryStub) Get(ctx context.Context, id int64) (*model.PaymentMode, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	mode, ok := s.Modes[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &mode, nil
}

// ListEnabled returns enabled modes in id order.
func (s *PaymentModeRepositoryStub) ListEnabled(ctx context.Context) ([]model.PaymentMode, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.PaymentMode
	for _, m := range s.Modes {
		if m.Enabled {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// AddressRepositoryStub keeps address books in-memory.
type AddressRepositoryStub struct {
	Addresses map[int64]model.Address
	Next      int64
	Err       error
}

// NewAddressRepositoryStub builds stub from provided addresses.
func NewAddressRepositoryStub(addresses ...model.Address) *AddressRepositoryStub {
	s := &AddressRepositoryStub{Addresses: make(map[int64]model.Address), Next: 1}
	for _, a := range addresses {
		s.Addresses[a.ID] = a
		if a.ID >= s.Next {
			s.Next = a.ID + 1
		}
	}
	return s
}

// Get returns address by id.
func (s *AddressRepositoryStub) Get(ctx context.Context, id int64) (*model.Address, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	a, ok := s.Addresses[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &a, nil
}

// ListByCustomer returns the customer's addresses in id order.
func (s *AddressRepositoryStub) ListByCustomer(ctx context.Context, customerID int64) ([]model.Address, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Address
	for _, a := range s.Addresses {
		if a.CustomerID == customerID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Create assigns the next id and stores the address.
func (s *AddressRepositoryStub) Create(ctx context.Context, address *model.Address) error {
	if s.Err != nil {
		return s.Err
	}
	if s.Addresses == nil {
		s.Addresses = make(map[int64]model.Address)
	}
	if s.Next == 0 {
		s.Next = 1
	}
	address.ID = s.Next
	address.CreatedAt = time.Now()
	s.Next++
	s.Addresses[address.ID] = *address
	return nil
}

// OrderRepositoryStub keeps orders and their outbox events in-memory. When
// Carts is set, Place clears the customer's cart like the real repository.
type OrderRepositoryStub struct {
	mu      sync.Mutex
	Orders  map[string]*model.Order
	Events  []model.OrderEvent
	Carts   *CartRepositoryStub
	PlaceFn func(context.Context, *model.Order) error
	Err     error
	nextID  int64
}

// NewOrderRepositoryStub constructs stub repository sharing the cart store.
func NewOrderRepositoryStub(carts *CartRepositoryStub) *OrderRepositoryStub {
	return &OrderRepositoryStub{Orders: make(map[string]*model.Order), Carts: carts}
}

// Add stores order directly.
func (s *OrderRepositoryStub) Add(order model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Orders == nil {
		s.Orders = make(map[string]*model.Order)
	}
	s.nextID++
	if order.ID == 0 {
		order.ID = s.nextID
	}
	s.Orders[order.Number] = &order
}

// Place stores order, event and clears the cart atomically.
func (s *OrderRepositoryStub) Place(ctx context.Context, order *model.Order, event model.OrderEvent, cartVersion *int64) error {
	if s.PlaceFn != nil {
		if err := s.PlaceFn(ctx, order); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if s.Orders == nil {
		s.Orders = make(map[string]*model.Order)
	}
	if _, exists := s.Orders[order.Number]; exists {
		return domainErrors.ErrDuplicateOrderNumber
	}
	if s.Carts != nil {
		if err := s.Carts.Clear(ctx, order.CustomerID, cartVersion); err != nil {
			return err
		}
	}
	s.nextID++
	order.ID = s.nextID
	stored := *order
	s.Orders[order.Number] = &stored
	s.Events = append(s.Events, event)
	return nil
}

// GetByNumber returns a copy of the stored order.
func (s *OrderRepositoryStub) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	o, ok := s.Orders[number]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	order := *o
	return &order, nil
}

// ListByCustomer returns the customer's orders newest first.
func (s *OrderRepositoryStub) ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Order
	for _, o := range s.Orders {
		if o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlacedAt.After(out[j].PlacedAt) })
	return out, nil
}

// UpdateStatus applies mutate to a copy and stores it when an event is produced.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, number string, mutate repository.OrderMutator) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Orders[number]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	order := *o
	event, err := mutate(&order)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return &order, nil
	}
	stored := order
	s.Orders[number] = &stored
	s.Events = append(s.Events, *event)
	return &order, nil
}

// Delete removes placed or cancelled orders.
func (s *OrderRepositoryStub) Delete(ctx context.Context, number string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Orders[number]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if !o.Deletable() {
		return domainErrors.ErrOrderNotDeletable
	}
	delete(s.Orders, number)
	return nil
}

// SelectPendingPayments returns orders awaiting payment confirmation.
func (s *OrderRepositoryStub) SelectPendingPayments(ctx context.Context, limit int) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Order
	for _, o := range s.Orders {
		if o.Payment.Status == model.PaymentStatusPending && len(out) < limit {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UpdatePaymentStatus sets payment status of order by id.
func (s *OrderRepositoryStub) UpdatePaymentStatus(ctx context.Context, orderID int64, status model.PaymentStatus, event *model.OrderEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.Orders {
		if o.ID == orderID {
			o.Payment.Status = status
			if event != nil {
				s.Events = append(s.Events, *event)
			}
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

// EventTypes lists recorded outbox event types in order.
func (s *OrderRepositoryStub) EventTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.Events))
	for _, e := range s.Events {
		out = append(out, e.Type)
	}
	return out
}

// SequenceRepositoryStub counts per day in-memory.
type SequenceRepositoryStub struct {
	mu       sync.Mutex
	Values   map[string]int64
	NextErr  error
	ResyncFn func(day string) error
	Resynced []string
}

// NewSequenceRepositoryStub constructs stub with initialized map.
func NewSequenceRepositoryStub() *SequenceRepositoryStub {
	return &SequenceRepositoryStub{Values: make(map[string]int64)}
}

// Next increments and returns the day counter.
func (s *SequenceRepositoryStub) Next(ctx context.Context, day string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.NextErr != nil {
		return 0, s.NextErr
	}
	if s.Values == nil {
		s.Values = make(map[string]int64)
	}
	s.Values[day]++
	return s.Values[day], nil
}

// Resync records the call and delegates to override.
func (s *SequenceRepositoryStub) Resync(ctx context.Context, day string) error {
	s.mu.Lock()
	s.Resynced = append(s.Resynced, day)
	fn := s.ResyncFn
	s.mu.Unlock()
	if fn != nil {
		return fn(day)
	}
	return nil
}

// Set forces the counter value of a day.
func (s *SequenceRepositoryStub) Set(day string, value int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Values == nil {
		s.Values = make(map[string]int64)
	}
	s.Values[day] = value
}

// OutboxRepositoryStub serves pending events and records acknowledgements.
type OutboxRepositoryStub struct {
	mu       sync.Mutex
	Pending  []model.OrderEvent
	Sent     []int64
	FetchErr error
	MarkErr  error
}

// FetchPending returns up to limit unsent events.
func (s *OutboxRepositoryStub) FetchPending(ctx context.Context, limit int) ([]model.OrderEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FetchErr != nil {
		return nil, s.FetchErr
	}
	var out []model.OrderEvent
	for _, e := range s.Pending {
		if len(out) == limit {
			break
		}
		if !s.isSent(e.ID) {
			out = append(out, e)
		}
	}
	return out, nil
}

// MarkSent records the event as delivered.
func (s *OutboxRepositoryStub) MarkSent(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.MarkErr != nil {
		return s.MarkErr
	}
	s.Sent = append(s.Sent, id)
	return nil
}

// SentIDs returns a snapshot of acknowledged ids.
func (s *OutboxRepositoryStub) SentIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.Sent...)
}

func (s *OutboxRepositoryStub) isSent(id int64) bool {
	for _, sent := range s.Sent {
		if sent == id {
			return true
		}
	}
	return false
}
