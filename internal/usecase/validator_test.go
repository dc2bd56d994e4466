package usecase

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	testhelpers "github.com/polkiloo/storefront/internal/test"
)

func TestValidateEmptyCartSkipsCatalog(t *testing.T) {
	catalog := testhelpers.NewCatalogRepositoryStub()
	validator := NewCartValidator(catalog, discardLogger)

	verdict := validator.Validate(context.Background(), model.NewCart(1), "S1")
	if !verdict.Valid || verdict.TotalItems != 0 || verdict.ValidItems != 0 {
		t.Fatalf("unexpected verdict %+v", verdict)
	}
	if verdict.InvalidItems == nil || verdict.UpdatedItems == nil {
		t.Fatalf("expected empty, non-nil detail lists")
	}
	if catalog.Calls != 0 {
		t.Fatalf("catalog must not be queried for an empty cart, got %d calls", catalog.Calls)
	}
}

func TestValidateAllItemsValid(t *testing.T) {
	catalog := testhelpers.NewCatalogRepositoryStub(catalogEntry("2390", "S1", "18", 100, 10))
	validator := NewCartValidator(catalog, discardLogger)

	verdict := validator.Validate(context.Background(), cartWith(1, "S1", cartItem("2390", 2, "18")), "S1")
	if !verdict.Valid || verdict.TotalItems != 1 || verdict.ValidItems != 1 {
		t.Fatalf("unexpected verdict %+v", verdict)
	}
	if len(verdict.InvalidItems) != 0 || len(verdict.UpdatedItems) != 0 {
		t.Fatalf("expected no details, got %+v", verdict)
	}
	if verdict.Result() != "valid" {
		t.Fatalf("unexpected result %s", verdict.Result())
	}
}

func TestValidateReasons(t *testing.T) {
	inactive := catalogEntry("inactive", "S1", "5", 10, 0)
	inactive.Active = false

	catalog := testhelpers.NewCatalogRepositoryStub(
		catalogEntry("ok", "S1", "5", 10, 0),
		inactive,
		catalogEntry("low", "S1", "5", 1, 0),
		catalogEntry("capped", "S1", "5", 100, 3),
	)
	validator := NewCartValidator(catalog, discardLogger)

	cart := cartWith(1, "S1",
		cartItem("ok", 2, "5"),
		cartItem("missing", 1, "5"),
		cartItem("inactive", 1, "5"),
		cartItem("low", 2, "5"),
		cartItem("capped", 4, "5"),
	)
	verdict := validator.Validate(context.Background(), cart, "S1")

	if verdict.Valid {
		t.Fatalf("expected invalid verdict")
	}
	if verdict.TotalItems != 5 || verdict.ValidItems != 1 {
		t.Fatalf("unexpected counts total=%d valid=%d", verdict.TotalItems, verdict.ValidItems)
	}

	want := map[string]model.InvalidReason{
		"missing":  model.ReasonNotFoundOrInactive,
		"inactive": model.ReasonNotFoundOrInactive,
		"low":      model.ReasonInsufficientStock,
		"capped":   model.ReasonExceedsMaxQuantity,
	}
	if len(verdict.InvalidItems) != len(want) {
		t.Fatalf("expected %d invalid items, got %d", len(want), len(verdict.InvalidItems))
	}
	for _, item := range verdict.InvalidItems {
		if want[item.ProductCode] != item.Reason {
			t.Fatalf("item %s: expected %s, got %s", item.ProductCode, want[item.ProductCode], item.Reason)
		}
		switch item.Reason {
		case model.ReasonInsufficientStock:
			if item.Available == nil || *item.Available != 1 {
				t.Fatalf("expected available=1, got %v", item.Available)
			}
		case model.ReasonExceedsMaxQuantity:
			if item.MaxAllowed == nil || *item.MaxAllowed != 3 {
				t.Fatalf("expected max=3, got %v", item.MaxAllowed)
			}
		}
	}
}

func TestValidatePriceDriftKeepsCartValid(t *testing.T) {
	catalog := testhelpers.NewCatalogRepositoryStub(
		catalogEntry("a", "S1", "20.50", 10, 0),
		catalogEntry("b", "S1", "3", 10, 0),
	)
	validator := NewCartValidator(catalog, discardLogger)

	verdict := validator.Validate(context.Background(), cartWith(1, "S1", cartItem("a", 1, "18"), cartItem("b", 1, "3.00")), "S1")
	if !verdict.Valid || verdict.ValidItems != 2 {
		t.Fatalf("price drift must not invalidate the cart: %+v", verdict)
	}
	if len(verdict.UpdatedItems) != 1 {
		t.Fatalf("expected one price change, got %+v", verdict.UpdatedItems)
	}
	change := verdict.UpdatedItems[0]
	if change.ProductCode != "a" || !change.OldPrice.Equal(money("18")) || !change.NewPrice.Equal(money("20.5")) || !change.Delta.Equal(money("2.5")) {
		t.Fatalf("unexpected change %+v", change)
	}
	if !verdict.NeedsPriceAcknowledgement() || verdict.Result() != "price_changed" {
		t.Fatalf("expected price acknowledgement to be required")
	}
}

func TestValidateIsolatesLookupFailures(t *testing.T) {
	catalog := testhelpers.NewCatalogRepositoryStub(catalogEntry("good", "S1", "1", 10, 0))
	inner := catalog.Entries
	catalog.GetFn = func(ctx context.Context, code, store string) (*model.CatalogEntry, error) {
		switch code {
		case "boom":
			return nil, errors.New("connection reset")
		case "panic":
			panic("nil map")
		case "down":
			return nil, domainErrors.ErrUnavailable
		}
		entry := inner[code+"|"+store]
		return &entry, nil
	}
	validator := NewCartValidator(catalog, discardLogger)

	cart := cartWith(1, "S1",
		cartItem("boom", 1, "1"),
		cartItem("panic", 1, "1"),
		cartItem("good", 1, "1"),
		cartItem("down", 1, "1"),
	)
	verdict := validator.Validate(context.Background(), cart, "S1")

	if verdict.Valid || verdict.ValidItems != 1 || len(verdict.InvalidItems) != 3 {
		t.Fatalf("unexpected verdict %+v", verdict)
	}
	for _, item := range verdict.InvalidItems {
		if item.Reason != model.ReasonValidationError {
			t.Fatalf("item %s: expected validation error, got %s", item.ProductCode, item.Reason)
		}
	}
}

func TestValidateUsesItemStoreCode(t *testing.T) {
	catalog := testhelpers.NewCatalogRepositoryStub(catalogEntry("x", "S2", "1", 10, 0))
	validator := NewCartValidator(catalog, discardLogger)

	item := cartItem("x", 1, "1")
	item.StoreCode = "S2"
	verdict := validator.Validate(context.Background(), cartWith(1, "S1", item), "S1")
	if !verdict.Valid {
		t.Fatalf("expected line store code to be used, got %+v", verdict)
	}
}
