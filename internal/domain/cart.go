package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxItemQuantity is the upper bound for a single line item. Totals are
// computed against this cap even when a stored quantity exceeds it;
// Validate reports the excess instead of silently truncating it.
const MaxItemQuantity = 20

type LineItem struct {
	ID        uuid.UUID
	CartID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

// DiscountPercent returns the volume discount for a quantity:
// 0% up to 3 units, 10% from 4, 20% from 10. Quantities above the
// cap saturate at 20% so total computation never fails.
func DiscountPercent(quantity int) decimal.Decimal {
	switch {
	case quantity >= 10:
		return decimal.New(20, -2)
	case quantity >= 4:
		return decimal.New(10, -2)
	default:
		return decimal.Zero
	}
}

func (i LineItem) DiscountPercent() decimal.Decimal {
	return DiscountPercent(i.Quantity)
}

// LineTotal computes the discounted total for this line, rounded to
// 2 decimals (half away from zero). The effective quantity is capped
// at MaxItemQuantity.
func (i LineItem) LineTotal() decimal.Decimal {
	qty := i.Quantity
	if qty > MaxItemQuantity {
		qty = MaxItemQuantity
	}
	gross := i.UnitPrice.Mul(decimal.NewFromInt(int64(qty)))
	discount := gross.Mul(DiscountPercent(i.Quantity))
	return gross.Sub(discount).Round(2)
}

// ItemInput is the caller-supplied shape of a line item: quantities come
// from the caller, prices never do.
type ItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// PriceLookup resolves the authoritative catalog price for a product.
type PriceLookup interface {
	PriceByID(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error)
}

// Violation is a single field-level validation failure.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Cart struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Branch     string
	SaleNumber int64
	Date       time.Time
	Cancelled  bool
	Items      []LineItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TotalAmount recomputes the cart total from its items on every call.
// It is never cached, so it cannot desync from the item collection.
func (c *Cart) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total.Round(2)
}

// AddOrUpdateItem overwrites the quantity and unit price of an existing
// line for the product, or appends a new line. It never errors; invalid
// values surface through Validate.
func (c *Cart) AddOrUpdateItem(productID uuid.UUID, quantity int, unitPrice decimal.Decimal) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			c.Items[i].UnitPrice = unitPrice
			return
		}
	}
	c.Items = append(c.Items, LineItem{
		ID:        uuid.New(),
		CartID:    c.ID,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	})
}

// RemoveItem removes the line for the product. Removing an absent
// product is a no-op.
func (c *Cart) RemoveItem(productID uuid.UUID) {
	for i, item := range c.Items {
		if item.ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// Cancel latches the cart as cancelled. Idempotent; a cancelled cart
// never becomes active again.
func (c *Cart) Cancel() {
	c.Cancelled = true
}

// ReplaceItems discards the current item collection and rebuilds it from
// the incoming list with fresh line identities. Unit prices are resolved
// through the catalog, not taken from the caller.
func (c *Cart) ReplaceItems(ctx context.Context, prices PriceLookup, items []ItemInput) error {
	rebuilt := make([]LineItem, 0, len(items))
	for _, in := range items {
		price, err := prices.PriceByID(ctx, in.ProductID)
		if err != nil {
			return fmt.Errorf("resolve price for product %s: %w", in.ProductID, err)
		}
		rebuilt = append(rebuilt, LineItem{
			ID:        uuid.New(),
			CartID:    c.ID,
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			UnitPrice: price,
		})
	}
	c.Items = rebuilt
	return nil
}

// Validate reports every structural violation on the cart. It is
// advisory: mutation operations never reject input, callers decide what
// to do with the result.
func (c *Cart) Validate() []Violation {
	var violations []Violation

	if c.UserID == uuid.Nil {
		violations = append(violations, Violation{Field: "UserId", Message: "referred user must be identified"})
	}
	if c.SaleNumber <= 0 {
		violations = append(violations, Violation{Field: "SaleNumber", Message: "sale number must be specified"})
	}
	if strings.TrimSpace(c.Branch) == "" {
		violations = append(violations, Violation{Field: "Branch", Message: "branch must be specified"})
	}
	if len(c.Items) == 0 {
		violations = append(violations, Violation{Field: "Items", Message: "at least one item must be in the cart"})
	}

	seen := make(map[uuid.UUID]bool, len(c.Items))
	for _, item := range c.Items {
		if item.ProductID == uuid.Nil {
			violations = append(violations, Violation{Field: "Items", Message: "product id is required"})
		}
		if seen[item.ProductID] {
			violations = append(violations, Violation{Field: "Items", Message: fmt.Sprintf("duplicate product id %s is not allowed", item.ProductID)})
		}
		seen[item.ProductID] = true
		if item.Quantity <= 0 {
			violations = append(violations, Violation{Field: "Items", Message: "quantity must be greater than zero"})
		}
		if item.Quantity > MaxItemQuantity {
			violations = append(violations, Violation{Field: "Items", Message: fmt.Sprintf("quantity must be less than or equal to %d", MaxItemQuantity)})
		}
		if !item.UnitPrice.IsPositive() {
			violations = append(violations, Violation{Field: "Items", Message: "unit price must be greater than zero"})
		}
	}

	if !c.TotalAmount().IsPositive() {
		violations = append(violations, Violation{Field: "TotalAmount", Message: "total amount must be greater than zero"})
	}

	return violations
}
