package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/repository"
	"github.com/polkiloo/storefront/internal/lock"
)

const deliveryDateLayout = "2006-01-02"

// PlaceOrderInput carries a checkout request.
type PlaceOrderInput struct {
	CustomerID          int64
	StoreCode           string
	ProjectCode         string
	CartValidated       bool
	DeliverySlotID      int64
	DeliveryDate        string
	AddressID           int64
	PaymentModeID       int64
	Notes               string
	PaymentDetails      *model.PaymentDetails
	ExpectedCartVersion *int64
}

// PlacementOptions tunes order placement.
type PlacementOptions struct {
	Pricing Pricing
	// Attempts bounds retries after an order number collision.
	Attempts int
	// Revalidate re-runs the cart validator against the live catalog.
	Revalidate bool
}

// PlacementDeps groups the collaborators of PlacementUseCase.
type PlacementDeps struct {
	Carts     repository.CartRepository
	Slots     repository.DeliverySlotRepository
	Modes     repository.PaymentModeRepository
	Addresses repository.AddressRepository
	Orders    repository.OrderRepository
	Sequencer *OrderSequencer
	Validator *CartValidator
	Locker    lock.Locker
	Clock     Clock
	Metrics   Recorder
	Logger    *slog.Logger
}

// PlacementUseCase converts a validated cart into an order.
type PlacementUseCase struct {
	deps PlacementDeps
	opts PlacementOptions
}

// NewPlacementUseCase constructs PlacementUseCase.
func NewPlacementUseCase(deps PlacementDeps, opts PlacementOptions) *PlacementUseCase {
	if opts.Attempts <= 0 {
		opts.Attempts = 3
	}
	deps.Metrics = recorderOrNop(deps.Metrics)
	return &PlacementUseCase{deps: deps, opts: opts}
}

// Place checks the request, freezes the cart into an order and empties the
// cart in the same transaction.
func (u *PlacementUseCase) Place(ctx context.Context, in PlaceOrderInput) (*model.Order, error) {
	if err := checkRequired(in); err != nil {
		return nil, err
	}
	deliveryDate, err := time.Parse(deliveryDateLayout, in.DeliveryDate)
	if err != nil {
		return nil, domainErrors.InvalidField("delivery_date")
	}
	if !in.CartValidated {
		return nil, domainErrors.ErrCartNotValidated
	}
	if in.PaymentDetails != nil {
		if err := in.PaymentDetails.Validate(); err != nil {
			return nil, err
		}
	}

	release, err := u.deps.Locker.Acquire(ctx, lock.CartKey(in.CustomerID))
	if err != nil {
		return nil, err
	}
	defer release()

	cart, err := u.deps.Carts.Get(ctx, in.CustomerID)
	if errors.Is(err, domainErrors.ErrNotFound) {
		return nil, domainErrors.ErrEmptyCart
	}
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, domainErrors.ErrEmptyCart
	}
	if in.ExpectedCartVersion != nil && *in.ExpectedCartVersion != cart.Version {
		return nil, domainErrors.ErrCartVersionConflict
	}

	slot, err := u.deliverySlot(ctx, in.DeliverySlotID, in.StoreCode)
	if err != nil {
		return nil, err
	}
	mode, err := u.paymentMode(ctx, in.PaymentModeID)
	if err != nil {
		return nil, err
	}
	address, err := u.address(ctx, in.AddressID, in.CustomerID)
	if err != nil {
		return nil, err
	}

	now := u.deps.Clock.Now()
	if beforeToday(deliveryDate, now) {
		return nil, domainErrors.ErrDeliveryDateInPast
	}

	if u.opts.Revalidate {
		verdict := u.deps.Validator.Validate(ctx, cart, in.StoreCode)
		if !verdict.Valid {
			return nil, fmt.Errorf("%w: %d of %d items", domainErrors.ErrCartInvalid, len(verdict.InvalidItems), verdict.TotalItems)
		}
	}

	order := u.buildOrder(in, cart, slot, mode, address, now)
	if err := u.persist(ctx, order, cart.Version, now); err != nil {
		return nil, err
	}

	u.deps.Metrics.OrderPlaced(order.StoreCode)
	u.deps.Logger.Info("order placed",
		slog.String("order_number", order.Number),
		slog.Int64("customer_id", order.CustomerID),
		slog.String("store_code", order.StoreCode),
		slog.String("total_amount", order.Summary.Total.StringFixed(2)),
	)
	return order, nil
}

func (u *PlacementUseCase) persist(ctx context.Context, order *model.Order, cartVersion int64, now time.Time) error {
	for attempt := 1; ; attempt++ {
		number, err := u.deps.Sequencer.Next(ctx)
		if err != nil {
			return err
		}
		order.Number = number

		event, err := model.NewOrderEvent(model.EventOrderPlaced, order, now)
		if err != nil {
			return fmt.Errorf("build order event: %w", err)
		}

		err = u.deps.Orders.Place(ctx, order, event, &cartVersion)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domainErrors.ErrDuplicateOrderNumber) {
			order.Number = ""
			return err
		}

		u.deps.Logger.Warn("order number collision",
			slog.String("order_number", number),
			slog.Int("attempt", attempt),
		)
		if attempt >= u.opts.Attempts {
			order.Number = ""
			return err
		}
		if err := u.deps.Sequencer.Resync(ctx, number); err != nil {
			u.deps.Logger.Error("resync order sequence", slog.String("error", err.Error()))
		}
	}
}

func (u *PlacementUseCase) buildOrder(in PlaceOrderInput, cart *model.Cart, slot *model.DeliverySlot, mode *model.PaymentMode, address *model.Address, now time.Time) *model.Order {
	payment := model.PaymentInfo{
		ModeID:   mode.ID,
		ModeCode: mode.Code,
		ModeName: mode.Name,
		Status:   model.InitialPaymentStatus(in.PaymentDetails),
	}
	if in.PaymentDetails != nil {
		payment.TransactionID = in.PaymentDetails.TransactionID
		payment.Details = copyPaymentDetails(*in.PaymentDetails)
	}

	return &model.Order{
		CustomerID:  in.CustomerID,
		StoreCode:   in.StoreCode,
		ProjectCode: in.ProjectCode,
		Status:      model.OrderStatusPlaced,
		Items:       append([]model.CartItem(nil), cart.Items...),
		Delivery: model.DeliveryInfo{
			SlotID:    slot.ID,
			SlotLabel: slot.Label,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			Date:      in.DeliveryDate,
			AddressID: address.ID,
			Name:      address.Name,
			Phone:     address.Phone,
			Line1:     address.Line1,
			Line2:     address.Line2,
			Landmark:  address.Landmark,
			City:      address.City,
			State:     address.State,
			Pincode:   address.Pincode,
		},
		Payment:   payment,
		Summary:   u.opts.Pricing.Summarize(cart),
		Notes:     strings.TrimSpace(in.Notes),
		PlacedAt:  now,
		UpdatedAt: now,
	}
}

func (u *PlacementUseCase) deliverySlot(ctx context.Context, id int64, storeCode string) (*model.DeliverySlot, error) {
	slot, err := u.deps.Slots.Get(ctx, id)
	if errors.Is(err, domainErrors.ErrNotFound) {
		return nil, domainErrors.ErrInvalidDeliverySlot
	}
	if err != nil {
		return nil, err
	}
	if slot.StoreCode != storeCode || !slot.Active {
		return nil, domainErrors.ErrInvalidDeliverySlot
	}
	return slot, nil
}

func (u *PlacementUseCase) paymentMode(ctx context.Context, id int64) (*model.PaymentMode, error) {
	mode, err := u.deps.Modes.Get(ctx, id)
	if errors.Is(err, domainErrors.ErrNotFound) {
		return nil, domainErrors.ErrInvalidPaymentMode
	}
	if err != nil {
		return nil, err
	}
	if !mode.Enabled {
		return nil, domainErrors.ErrInvalidPaymentMode
	}
	return mode, nil
}

func (u *PlacementUseCase) address(ctx context.Context, id, customerID int64) (*model.Address, error) {
	address, err := u.deps.Addresses.Get(ctx, id)
	if errors.Is(err, domainErrors.ErrNotFound) {
		return nil, domainErrors.ErrAddressNotFound
	}
	if err != nil {
		return nil, err
	}
	if address.CustomerID != customerID {
		return nil, domainErrors.ErrAddressForbidden
	}
	return address, nil
}

func checkRequired(in PlaceOrderInput) error {
	switch {
	case strings.TrimSpace(in.StoreCode) == "":
		return domainErrors.MissingField("store_code")
	case strings.TrimSpace(in.ProjectCode) == "":
		return domainErrors.MissingField("project_code")
	case in.DeliverySlotID == 0:
		return domainErrors.MissingField("delivery_slot_id")
	case strings.TrimSpace(in.DeliveryDate) == "":
		return domainErrors.MissingField("delivery_date")
	case in.AddressID == 0:
		return domainErrors.MissingField("address_id")
	case in.PaymentModeID == 0:
		return domainErrors.MissingField("payment_mode_id")
	}
	return nil
}

// beforeToday compares calendar days in the clock's zone, ignoring time of day.
func beforeToday(date, now time.Time) bool {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	dy, dm, dd := date.Date()
	return time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC).Before(today)
}

func copyPaymentDetails(d model.PaymentDetails) model.PaymentDetails {
	if d.Extra != nil {
		extra := make(map[string]string, len(d.Extra))
		for k, v := range d.Extra {
			extra[k] = v
		}
		d.Extra = extra
	}
	return d
}
