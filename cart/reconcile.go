// Package cart holds the merge-by-identity rules for cart lines. Everything here is pure:
// callers load a cart, apply a rule, and persist the result as a whole.
package cart

import (
	"strings"

	"foodies-api/apperr"
	"foodies-api/models"

	"github.com/shopspring/decimal"
)

// LineInput is an add-to-cart request. Quantity is the absolute desired quantity,
// not a delta; nil means the caller did not send one.
type LineInput struct {
	FoodID    string          `json:"foodId"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  *int            `json:"quantity"`
}

func (in LineInput) validate() error {
	if strings.TrimSpace(in.FoodID) == "" || in.Quantity == nil {
		return apperr.New(apperr.Validation, "food id and quantity are required")
	}
	if in.UnitPrice.IsNegative() {
		return apperr.New(apperr.Validation, "unit price must not be negative")
	}
	return nil
}

// Reconcile merges in into c. A line with the same food id gets its quantity overwritten;
// otherwise a new line is appended. Lines with quantity <= 0 are dropped afterwards.
// A nil cart is treated as empty and a fresh one is returned for ownerID.
// The input cart is not modified.
func Reconcile(c *models.Cart, ownerID string, in LineInput) (*models.Cart, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	out := clone(c, ownerID)
	found := false
	for i := range out.Lines {
		if out.Lines[i].FoodID == in.FoodID {
			out.Lines[i].Quantity = *in.Quantity
			found = true
			break
		}
	}
	if !found {
		out.Lines = append(out.Lines, models.CartLine{
			FoodID:    in.FoodID,
			Name:      in.Name,
			Image:     in.Image,
			UnitPrice: in.UnitPrice,
			Quantity:  *in.Quantity,
		})
	}

	out.Lines = purge(out.Lines)
	return out, nil
}

// RemoveLine drops the line for foodID. Unlike Reconcile it is strict: a missing cart
// or a missing line is reported as not found so the client knows to refresh.
func RemoveLine(c *models.Cart, foodID string) (*models.Cart, error) {
	if c == nil {
		return nil, apperr.New(apperr.NotFound, "cart not found")
	}

	out := clone(c, c.OwnerID)
	kept := out.Lines[:0]
	for _, l := range out.Lines {
		if l.FoodID != foodID {
			kept = append(kept, l)
		}
	}
	if len(kept) == len(c.Lines) {
		return nil, apperr.New(apperr.NotFound, "item not found in cart")
	}
	out.Lines = purge(kept)
	return out, nil
}

// Subtotal is Σ unitPrice × quantity over the lines.
func Subtotal(lines []models.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

func clone(c *models.Cart, ownerID string) *models.Cart {
	if c == nil {
		return &models.Cart{OwnerID: ownerID, Lines: []models.CartLine{}}
	}
	out := *c
	out.Lines = make([]models.CartLine, len(c.Lines))
	copy(out.Lines, c.Lines)
	return &out
}

func purge(lines []models.CartLine) []models.CartLine {
	kept := make([]models.CartLine, 0, len(lines))
	for _, l := range lines {
		if l.Quantity > 0 {
			l.Position = len(kept)
			kept = append(kept, l)
		}
	}
	return kept
}
