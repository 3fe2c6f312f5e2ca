package pricing

import (
	"context"
	"errors"
)

var (
	ErrPriceNotFound  = errors.New("price not found")
	ErrInvalidPercent = errors.New("percent_off must be between 0 and 100")
)

type Price struct {
	ProductID string  `json:"product_id"`
	Currency  string  `json:"currency"`
	BasePrice float64 `json:"base_price"`
}

type Promotion struct {
	ProductID  string  `json:"product_id"`
	PercentOff float64 `json:"percent_off"`
}

// PriceView is what every price endpoint returns. PromotionApplied is nil
// when no promotion was taken into account.
type PriceView struct {
	ProductID        string   `json:"product_id"`
	Currency         string   `json:"currency"`
	FinalPrice       float64  `json:"final_price"`
	BasePrice        float64  `json:"base_price"`
	PromotionApplied *float64 `json:"promotion_applied,omitempty"`
}

type Store interface {
	SetPrice(ctx context.Context, p Price) error
	GetPrice(ctx context.Context, productID string) (Price, bool, error)
	SetPromotion(ctx context.Context, p Promotion) error
	GetPromotion(ctx context.Context, productID string) (Promotion, bool, error)
	Ping(ctx context.Context) error
}
