//go:build integration

package integration

import (
	"math"
	"net/http"
	"regexp"
	"testing"
)

var uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}

type itemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func TestCashSale_EndToEnd(t *testing.T) {
	reg := withRegister("it-cash-sale")

	// 2x Espresso @ 3.50, 10% tax.
	resp := do(t, http.MethodPost, "/api/cart/items", itemRequest{ProductID: "prod-espresso", Quantity: 2}, reg)
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		t.Fatalf("add item: expected 200, got %d", resp.StatusCode)
	}
	cart := decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if !approxEqual(cart.Subtotal, 7.00) || !approxEqual(cart.TaxTotal, 0.70) || !approxEqual(cart.GrandTotal, 7.70) {
		t.Fatalf("cart totals: subtotal=%v tax=%v total=%v", cart.Subtotal, cart.TaxTotal, cart.GrandTotal)
	}
	if cart.ItemCount != 2 {
		t.Errorf("item count: got %d, want 2", cart.ItemCount)
	}

	resp = do(t, http.MethodPut, "/api/cart/tender", map[string]any{"channel": "cash", "amount": 10.0}, reg)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set tender: expected 200, got %d", resp.StatusCode)
	}

	resp = do(t, http.MethodPost, "/api/cart/complete", nil, reg)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("complete: expected 201, got %d", resp.StatusCode)
	}

	sale := decodeJSON[saleResponse](t, resp)
	if !uuidPattern.MatchString(sale.ID) {
		t.Errorf("sale ID %q is not a UUID", sale.ID)
	}
	if !approxEqual(sale.TotalAmount, 7.70) {
		t.Errorf("total: got %v, want 7.70", sale.TotalAmount)
	}
	if !approxEqual(sale.PaidAmount, 10.00) {
		t.Errorf("paid: got %v, want 10.00", sale.PaidAmount)
	}
	if sale.DueAmount != 0 {
		t.Errorf("due: got %v, want 0", sale.DueAmount)
	}
	if sale.Status != "paid" {
		t.Errorf("status: got %q, want paid", sale.Status)
	}

	// Register is ready for the next customer.
	resp2 := doGet(t, "/api/cart", reg)
	defer resp2.Body.Close()
	after := decodeJSON[cartResponse](t, resp2)
	if len(after.Lines) != 0 {
		t.Errorf("cart should be empty after completion, has %d lines", len(after.Lines))
	}

	// The sale shows up in history.
	resp3 := doGet(t, "/api/sales", reg)
	defer resp3.Body.Close()
	sales := decodeJSON[[]saleResponse](t, resp3)
	found := false
	for _, s := range sales {
		if s.ID == sale.ID {
			found = true
		}
	}
	if !found {
		t.Errorf("completed sale %s not found in history", sale.ID)
	}
}

func TestComplete_InsufficientTender(t *testing.T) {
	reg := withRegister("it-insufficient")

	resp := do(t, http.MethodPost, "/api/cart/items", itemRequest{ProductID: "prod-latte", Quantity: 1}, reg)
	resp.Body.Close()

	resp = do(t, http.MethodPut, "/api/cart/tender", map[string]any{"channel": "cash", "amount": 1.0}, reg)
	resp.Body.Close()

	resp = do(t, http.MethodPost, "/api/cart/complete", nil, reg)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}

	// Rejected completion must leave the cart editable.
	resp2 := doGet(t, "/api/cart", reg)
	defer resp2.Body.Close()
	cart := decodeJSON[cartResponse](t, resp2)
	if len(cart.Lines) != 1 {
		t.Errorf("cart should keep its line after rejected completion, has %d", len(cart.Lines))
	}
}

func TestHoldAndResume_KeepsLineDiscounts(t *testing.T) {
	reg := withRegister("it-hold-resume")

	resp := do(t, http.MethodPost, "/api/cart/items", itemRequest{ProductID: "prod-latte", Quantity: 2}, reg)
	resp.Body.Close()

	resp = do(t, http.MethodPut, "/api/cart/items/prod-latte/discount", map[string]any{"percent": 10.0}, reg)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set line discount: expected 200, got %d", resp.StatusCode)
	}

	resp = do(t, http.MethodPost, "/api/cart/hold", nil, reg)
	held := decodeJSON[saleResponse](t, resp)
	resp.Body.Close()
	if held.Status != "hold" {
		t.Fatalf("held sale status: got %q, want hold", held.Status)
	}

	// Cart is empty while the sale is parked.
	resp = doGet(t, "/api/cart", reg)
	cart := decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if len(cart.Lines) != 0 {
		t.Fatalf("cart should be empty after hold, has %d lines", len(cart.Lines))
	}

	resp = do(t, http.MethodPost, "/api/cart/held/"+held.ID+"/resume", nil, reg)
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		t.Fatalf("resume: expected 200, got %d", resp.StatusCode)
	}
	resumed := decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if len(resumed.Lines) != 1 {
		t.Fatalf("resumed cart lines: got %d, want 1", len(resumed.Lines))
	}
	if !approxEqual(resumed.Lines[0].DiscountPercent, 10.0) {
		t.Errorf("line discount lost on resume: got %v, want 10", resumed.Lines[0].DiscountPercent)
	}

	// A held sale can only be resumed once.
	resp = do(t, http.MethodPost, "/api/cart/held/"+held.ID+"/resume", nil, reg)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second resume: expected 404, got %d", resp.StatusCode)
	}
}

func TestAddItem_UnknownProduct(t *testing.T) {
	reg := withRegister("it-unknown-product")

	resp := do(t, http.MethodPost, "/api/cart/items", itemRequest{ProductID: "no-such-product", Quantity: 1}, reg)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestAddItem_ExceedsStock(t *testing.T) {
	reg := withRegister("it-stock")

	// Tumbler stock is 25.
	resp := do(t, http.MethodPost, "/api/cart/items", itemRequest{ProductID: "prod-tumbler", Quantity: 26}, reg)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}

	resp2 := doGet(t, "/api/cart", reg)
	defer resp2.Body.Close()
	cart := decodeJSON[cartResponse](t, resp2)
	if len(cart.Lines) != 0 {
		t.Errorf("rejected add must leave cart unchanged, has %d lines", len(cart.Lines))
	}
}

func TestRegisters_AreIsolated(t *testing.T) {
	regA := withRegister("it-isolation-a")
	regB := withRegister("it-isolation-b")

	resp := do(t, http.MethodPost, "/api/cart/items", itemRequest{ProductID: "prod-espresso", Quantity: 1}, regA)
	resp.Body.Close()

	resp2 := doGet(t, "/api/cart", regB)
	defer resp2.Body.Close()
	cart := decodeJSON[cartResponse](t, resp2)
	if len(cart.Lines) != 0 {
		t.Errorf("register B sees register A's cart: %d lines", len(cart.Lines))
	}
}
