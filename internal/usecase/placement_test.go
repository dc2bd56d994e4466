package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/lock"
	testhelpers "github.com/polkiloo/storefront/internal/test"
)

type placementFixture struct {
	carts     *testhelpers.CartRepositoryStub
	catalog   *testhelpers.CatalogRepositoryStub
	slots     *testhelpers.DeliverySlotRepositoryStub
	modes     *testhelpers.PaymentModeRepositoryStub
	addresses *testhelpers.AddressRepositoryStub
	orders    *testhelpers.OrderRepositoryStub
	sequences *testhelpers.SequenceRepositoryStub
	clock     *testhelpers.ClockStub
	recorder  *testhelpers.RecorderStub
	locker    *lock.LocalLocker
	usecase   *PlacementUseCase
}

func newPlacementFixture(t *testing.T, opts PlacementOptions) *placementFixture {
	t.Helper()

	f := &placementFixture{
		carts:   testhelpers.NewCartRepositoryStub(),
		catalog: testhelpers.NewCatalogRepositoryStub(catalogEntry("2390", "S1", "18", 50, 10)),
		slots: testhelpers.NewDeliverySlotRepositoryStub(
			model.DeliverySlot{ID: 1, StoreCode: "S1", Label: "Morning", StartTime: "07:00", EndTime: "09:00", Active: true},
			model.DeliverySlot{ID: 2, StoreCode: "S2", Label: "Other", Active: true},
			model.DeliverySlot{ID: 3, StoreCode: "S1", Label: "Retired", Active: false},
		),
		modes: testhelpers.NewPaymentModeRepositoryStub(
			model.PaymentMode{ID: 1, Code: "cod", Name: "Cash on delivery", Enabled: true},
			model.PaymentMode{ID: 2, Code: "wallet", Name: "Wallet", Enabled: false},
		),
		addresses: testhelpers.NewAddressRepositoryStub(
			model.Address{ID: 1, CustomerID: 1, Name: "Asha", Phone: "98", Line1: "1 Main St", City: "Pune", Pincode: "411001"},
			model.Address{ID: 2, CustomerID: 2, Name: "Ravi", Phone: "97", Line1: "2 Side St", City: "Pune", Pincode: "411002"},
		),
		sequences: testhelpers.NewSequenceRepositoryStub(),
		clock:     testhelpers.NewClockStub(day(2024, 3, 1, 10)),
		recorder:  testhelpers.NewRecorderStub(),
		locker:    lock.NewLocalLocker(lock.Options{Wait: 20 * time.Millisecond}),
	}
	f.orders = testhelpers.NewOrderRepositoryStub(f.carts)

	if opts.Pricing.TaxRate.IsZero() {
		opts.Pricing.TaxRate = money("0.05")
	}
	f.usecase = NewPlacementUseCase(PlacementDeps{
		Carts:     f.carts,
		Slots:     f.slots,
		Modes:     f.modes,
		Addresses: f.addresses,
		Orders:    f.orders,
		Sequencer: NewOrderSequencer(f.sequences, f.clock),
		Validator: NewCartValidator(f.catalog, discardLogger),
		Locker:    f.locker,
		Clock:     f.clock,
		Metrics:   f.recorder,
		Logger:    discardLogger,
	}, opts)

	f.carts.Put(cartWith(1, "S1", cartItem("2390", 2, "18")))
	return f
}

func validPlaceInput() PlaceOrderInput {
	return PlaceOrderInput{
		CustomerID:     1,
		StoreCode:      "S1",
		ProjectCode:    "P1",
		CartValidated:  true,
		DeliverySlotID: 1,
		DeliveryDate:   "2024-03-02",
		AddressID:      1,
		PaymentModeID:  1,
		Notes:          "  ring twice ",
	}
}

func (f *placementFixture) assertNothingPlaced(t *testing.T) {
	t.Helper()
	if len(f.orders.Orders) != 0 || len(f.orders.Events) != 0 {
		t.Fatalf("expected no order to be created, got %d", len(f.orders.Orders))
	}
	cart, err := f.carts.Get(context.Background(), 1)
	if err == nil && cart.IsEmpty() {
		t.Fatalf("cart must be left untouched")
	}
}

func TestPlaceOrderEndToEnd(t *testing.T) {
	f := newPlacementFixture(t, PlacementOptions{Revalidate: true})

	order, err := f.usecase.Place(context.Background(), validPlaceInput())
	if err != nil {
		t.Fatalf("place failed: %v", err)
	}

	if order.Number != "2403010001" || order.ID == 0 {
		t.Fatalf("unexpected order identity %q id=%d", order.Number, order.ID)
	}
	if order.Status != model.OrderStatusPlaced || !order.PlacedAt.Equal(f.clock.Now()) {
		t.Fatalf("unexpected status %s placed at %v", order.Status, order.PlacedAt)
	}
	summary := order.Summary
	if !summary.Subtotal.Equal(money("36")) || !summary.Tax.Equal(money("1.8")) || !summary.Total.Equal(money("37.8")) {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if !summary.DeliveryCharge.IsZero() || !summary.Discount.IsZero() || summary.TotalQuantity != 2 || summary.TotalItems != 1 {
		t.Fatalf("unexpected summary counters %+v", summary)
	}
	if len(order.Items) != 1 || order.Items[0].ProductCode != "2390" || !order.Items[0].TotalPrice.Equal(money("36")) {
		t.Fatalf("unexpected items %+v", order.Items)
	}
	if order.Delivery.SlotLabel != "Morning" || order.Delivery.Date != "2024-03-02" || order.Delivery.City != "Pune" {
		t.Fatalf("unexpected delivery snapshot %+v", order.Delivery)
	}
	if order.Payment.ModeCode != "cod" || order.Payment.Status != model.PaymentStatusUnpaid {
		t.Fatalf("unexpected payment %+v", order.Payment)
	}
	if order.Notes != "ring twice" {
		t.Fatalf("expected trimmed notes, got %q", order.Notes)
	}

	cart, err := f.carts.Get(context.Background(), 1)
	if err != nil || !cart.IsEmpty() {
		t.Fatalf("cart must be emptied, got %+v err=%v", cart, err)
	}
	if got := f.orders.EventTypes(); len(got) != 1 || got[0] != model.EventOrderPlaced {
		t.Fatalf("expected placed event, got %v", got)
	}
	if f.recorder.Placed["S1"] != 1 {
		t.Fatalf("expected placement metric, got %v", f.recorder.Placed)
	}

	if _, err := f.usecase.Place(context.Background(), validPlaceInput()); !errors.Is(err, domainErrors.ErrEmptyCart) {
		t.Fatalf("second placement must see an empty cart, got %v", err)
	}
}

func TestPlaceOrderWithPaymentDetails(t *testing.T) {
	f := newPlacementFixture(t, PlacementOptions{})

	in := validPlaceInput()
	in.PaymentDetails = &model.PaymentDetails{Gateway: "razorpay", TransactionID: "tx-1", Extra: map[string]string{"card_last4": "4242"}}
	order, err := f.usecase.Place(context.Background(), in)
	if err != nil {
		t.Fatalf("place failed: %v", err)
	}
	if order.Payment.Status != model.PaymentStatusPending || order.Payment.TransactionID != "tx-1" {
		t.Fatalf("unexpected payment %+v", order.Payment)
	}

	in.PaymentDetails.Extra["card_last4"] = "0000"
	if order.Payment.Details.Extra["card_last4"] != "4242" {
		t.Fatalf("payment details must be copied")
	}
}

func TestPlaceOrderRequiredFields(t *testing.T) {
	cases := []struct {
		field  string
		mutate func(*PlaceOrderInput)
	}{
		{"store_code", func(in *PlaceOrderInput) { in.StoreCode = "" }},
		{"project_code", func(in *PlaceOrderInput) { in.ProjectCode = " " }},
		{"delivery_slot_id", func(in *PlaceOrderInput) { in.DeliverySlotID = 0 }},
		{"delivery_date", func(in *PlaceOrderInput) { in.DeliveryDate = "" }},
		{"address_id", func(in *PlaceOrderInput) { in.AddressID = 0 }},
		{"payment_mode_id", func(in *PlaceOrderInput) { in.PaymentModeID = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			f := newPlacementFixture(t, PlacementOptions{})
			in := validPlaceInput()
			tc.mutate(&in)

			_, err := f.usecase.Place(context.Background(), in)
			var fieldErr *domainErrors.FieldError
			if !errors.As(err, &fieldErr) || fieldErr.Field != tc.field || !errors.Is(err, domainErrors.ErrMissingField) {
				t.Fatalf("expected missing %s, got %v", tc.field, err)
			}
			f.assertNothingPlaced(t)
		})
	}
}

func TestPlaceOrderRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*placementFixture, *PlaceOrderInput)
		want   error
	}{
		{"malformed date", func(_ *placementFixture, in *PlaceOrderInput) { in.DeliveryDate = "02/03/2024" }, domainErrors.ErrInvalidField},
		{"not validated", func(_ *placementFixture, in *PlaceOrderInput) { in.CartValidated = false }, domainErrors.ErrCartNotValidated},
		{"oversized payment extras", func(_ *placementFixture, in *PlaceOrderInput) {
			extra := map[string]string{}
			for i := 0; i <= model.MaxPaymentExtraKeys; i++ {
				extra[string(rune('a'+i%26))+string(rune('a'+i/26))] = "v"
			}
			in.PaymentDetails = &model.PaymentDetails{Extra: extra}
		}, domainErrors.ErrInvalidField},
		{"path-like transaction id", func(_ *placementFixture, in *PlaceOrderInput) {
			in.PaymentDetails = &model.PaymentDetails{TransactionID: "../../admin"}
		}, domainErrors.ErrInvalidField},
		{"empty cart", func(f *placementFixture, _ *PlaceOrderInput) { f.carts.Put(cartWith(1, "S1")) }, domainErrors.ErrEmptyCart},
		{"no cart", func(_ *placementFixture, in *PlaceOrderInput) { in.CustomerID = 9 }, domainErrors.ErrEmptyCart},
		{"stale version", func(_ *placementFixture, in *PlaceOrderInput) {
			stale := int64(42)
			in.ExpectedCartVersion = &stale
		}, domainErrors.ErrCartVersionConflict},
		{"unknown slot", func(_ *placementFixture, in *PlaceOrderInput) { in.DeliverySlotID = 99 }, domainErrors.ErrInvalidDeliverySlot},
		{"slot of other store", func(_ *placementFixture, in *PlaceOrderInput) { in.DeliverySlotID = 2 }, domainErrors.ErrInvalidDeliverySlot},
		{"inactive slot", func(_ *placementFixture, in *PlaceOrderInput) { in.DeliverySlotID = 3 }, domainErrors.ErrInvalidDeliverySlot},
		{"unknown mode", func(_ *placementFixture, in *PlaceOrderInput) { in.PaymentModeID = 99 }, domainErrors.ErrInvalidPaymentMode},
		{"disabled mode", func(_ *placementFixture, in *PlaceOrderInput) { in.PaymentModeID = 2 }, domainErrors.ErrInvalidPaymentMode},
		{"unknown address", func(_ *placementFixture, in *PlaceOrderInput) { in.AddressID = 99 }, domainErrors.ErrAddressNotFound},
		{"foreign address", func(_ *placementFixture, in *PlaceOrderInput) { in.AddressID = 2 }, domainErrors.ErrAddressForbidden},
		{"past date", func(_ *placementFixture, in *PlaceOrderInput) { in.DeliveryDate = "2024-02-29" }, domainErrors.ErrDeliveryDateInPast},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newPlacementFixture(t, PlacementOptions{})
			in := validPlaceInput()
			tc.mutate(f, &in)

			if _, err := f.usecase.Place(context.Background(), in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if len(f.orders.Orders) != 0 {
				t.Fatalf("no order may be created")
			}
			if f.recorder.Placed["S1"] != 0 {
				t.Fatalf("no placement may be recorded")
			}
		})
	}
}

func TestPlaceOrderAcceptsToday(t *testing.T) {
	f := newPlacementFixture(t, PlacementOptions{})
	f.clock.Set(time.Date(2024, 3, 2, 23, 59, 0, 0, time.UTC))

	if _, err := f.usecase.Place(context.Background(), validPlaceInput()); err != nil {
		t.Fatalf("same day delivery must be accepted, got %v", err)
	}
}

func TestPlaceOrderRevalidatesCart(t *testing.T) {
	f := newPlacementFixture(t, PlacementOptions{Revalidate: true})
	f.catalog.Entries["2390|S1"] = catalogEntry("2390", "S1", "18", 1, 10)

	_, err := f.usecase.Place(context.Background(), validPlaceInput())
	if !errors.Is(err, domainErrors.ErrCartInvalid) {
		t.Fatalf("expected invalid cart, got %v", err)
	}
	f.assertNothingPlaced(t)

	f = newPlacementFixture(t, PlacementOptions{Revalidate: true})
	f.catalog.Entries["2390|S1"] = catalogEntry("2390", "S1", "20", 50, 10)
	order, err := f.usecase.Place(context.Background(), validPlaceInput())
	if err != nil {
		t.Fatalf("price drift alone must not block placement, got %v", err)
	}
	if !order.Items[0].UnitPrice.Equal(money("18")) {
		t.Fatalf("order must keep cart prices, got %s", order.Items[0].UnitPrice)
	}
}

func TestPlaceOrderSkipsRevalidationWhenDisabled(t *testing.T) {
	f := newPlacementFixture(t, PlacementOptions{})
	f.catalog.Entries["2390|S1"] = catalogEntry("2390", "S1", "18", 0, 10)

	if _, err := f.usecase.Place(context.Background(), validPlaceInput()); err != nil {
		t.Fatalf("place failed: %v", err)
	}
	if f.catalog.Calls != 0 {
		t.Fatalf("catalog must not be consulted, got %d calls", f.catalog.Calls)
	}
}

func TestPlaceOrderRetriesDuplicateNumber(t *testing.T) {
	f := newPlacementFixture(t, PlacementOptions{})
	f.orders.Add(model.Order{Number: "2403010001", CustomerID: 2})
	f.sequences.ResyncFn = func(day string) error {
		f.sequences.Set(day, 1)
		return nil
	}

	order, err := f.usecase.Place(context.Background(), validPlaceInput())
	if err != nil {
		t.Fatalf("place failed: %v", err)
	}
	if order.Number != "2403010002" {
		t.Fatalf("expected retried number, got %q", order.Number)
	}
	if len(f.sequences.Resynced) != 1 || f.sequences.Resynced[0] != "240301" {
		t.Fatalf("expected one resync, got %v", f.sequences.Resynced)
	}
}

func TestPlaceOrderGivesUpAfterAttempts(t *testing.T) {
	f := newPlacementFixture(t, PlacementOptions{Attempts: 2})
	f.orders.PlaceFn = func(context.Context, *model.Order) error {
		return domainErrors.ErrDuplicateOrderNumber
	}

	order, err := f.usecase.Place(context.Background(), validPlaceInput())
	if !errors.Is(err, domainErrors.ErrDuplicateOrderNumber) || order != nil {
		t.Fatalf("expected duplicate number error, got %v", err)
	}
	if len(f.sequences.Resynced) != 1 {
		t.Fatalf("expected one resync between two attempts, got %v", f.sequences.Resynced)
	}
	f.assertNothingPlaced(t)
}

func TestPlaceOrderPropagatesStorageErrors(t *testing.T) {
	f := newPlacementFixture(t, PlacementOptions{})
	f.orders.PlaceFn = func(context.Context, *model.Order) error { return errors.New("tx aborted") }

	if _, err := f.usecase.Place(context.Background(), validPlaceInput()); err == nil || errors.Is(err, domainErrors.ErrDuplicateOrderNumber) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if len(f.sequences.Resynced) != 0 {
		t.Fatalf("storage errors must not trigger resync")
	}

	f.orders.PlaceFn = nil
	f.sequences.NextErr = errors.New("sequence down")
	if _, err := f.usecase.Place(context.Background(), validPlaceInput()); err == nil {
		t.Fatalf("expected sequence error")
	}
	f.assertNothingPlaced(t)
}

func TestPlaceOrderCartBusy(t *testing.T) {
	f := newPlacementFixture(t, PlacementOptions{})
	release, err := f.locker.Acquire(context.Background(), lock.CartKey(1))
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	defer release()

	if _, err := f.usecase.Place(context.Background(), validPlaceInput()); !errors.Is(err, domainErrors.ErrCartBusy) {
		t.Fatalf("expected busy cart, got %v", err)
	}
}

func TestPlaceOrderCartChangedConcurrently(t *testing.T) {
	f := newPlacementFixture(t, PlacementOptions{})
	f.orders.PlaceFn = func(ctx context.Context, order *model.Order) error {
		// a writer bypassing the lock bumps the version before commit
		cart, _ := f.carts.Get(ctx, order.CustomerID)
		return f.carts.Save(ctx, cart, nil)
	}

	if _, err := f.usecase.Place(context.Background(), validPlaceInput()); !errors.Is(err, domainErrors.ErrCartVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}
	if len(f.orders.Orders) != 0 {
		t.Fatalf("no order may be created")
	}
}
