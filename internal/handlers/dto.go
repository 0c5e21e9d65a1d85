package handlers

import (
	"math"
	"strconv"
	"strings"
	"time"

	"toko/internal/models"
	"toko/internal/services"
)

type userResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Username: u.Username}
}

type productResponse struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
	Image       string    `json:"image"`
}

func toProductResponse(p *models.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Owner:       p.Owner.Username,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		CreatedAt:   p.CreatedAt,
		Image:       p.Image,
	}
}

type cartItemResponse struct {
	ID       string          `json:"id"`
	Product  productResponse `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal float64         `json:"subtotal"`
}

func toCartItemResponse(i *models.CartItem) cartItemResponse {
	return cartItemResponse{
		ID:       i.ID,
		Product:  toProductResponse(&i.Product),
		Quantity: i.Quantity,
		Subtotal: i.Subtotal().Round(2).InexactFloat64(),
	}
}

type cartResponse struct {
	ID         string             `json:"id"`
	Items      []cartItemResponse `json:"items"`
	TotalPrice float64            `json:"total_price"`
}

func toCartResponse(c *models.Cart) cartResponse {
	items := make([]cartItemResponse, 0, len(c.Items))
	for i := range c.Items {
		items = append(items, toCartItemResponse(&c.Items[i]))
	}
	return cartResponse{
		ID:         c.ID,
		Items:      items,
		TotalPrice: c.TotalPrice().Round(2).InexactFloat64(),
	}
}

type orderItemResponse struct {
	ID           string `json:"id"`
	ProductTitle string `json:"product_title"`
	ProductPrice string `json:"product_price"`
	Quantity     int    `json:"quantity"`
	Subtotal     string `json:"subtotal"`
}

type orderResponse struct {
	ID         string              `json:"id"`
	CreatedAt  time.Time           `json:"created_at"`
	TotalPrice string              `json:"total_price"`
	Status     string              `json:"status"`
	Items      []orderItemResponse `json:"items"`
}

func toOrderResponse(o *models.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemResponse{
			ID:           it.ID,
			ProductTitle: it.ProductTitle,
			ProductPrice: it.ProductPrice.StringFixed(2),
			Quantity:     it.Quantity,
			Subtotal:     it.Subtotal.StringFixed(2),
		})
	}
	return orderResponse{
		ID:         o.ID,
		CreatedAt:  o.CreatedAt,
		TotalPrice: o.TotalPrice.StringFixed(2),
		Status:     o.Status,
		Items:      items,
	}
}

// parseQuantity accepts a JSON number or a numeric string. A missing value
// yields def when def > 0.
func parseQuantity(raw interface{}, def int) (int, error) {
	invalid := services.FieldErrors{"quantity": "A valid integer is required."}
	switch v := raw.(type) {
	case nil:
		if def > 0 {
			return def, nil
		}
		return 0, services.FieldErrors{"quantity": "This field is required."}
	case float64:
		if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
			return 0, invalid
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, invalid
		}
		return n, nil
	}
	return 0, invalid
}
