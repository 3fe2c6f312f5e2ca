package pricing

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Service combines the store and the calculator into the operations the
// HTTP layer exposes.
type Service struct {
	Store   Store
	Log     *zap.Logger
	Metrics *Metrics
}

func NewService(store Store, log *zap.Logger, metrics *Metrics) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{Store: store, Log: log, Metrics: metrics}
}

// UpsertPrice replaces the price record and returns it priced with whatever
// promotion is currently stored for the product.
func (s *Service) UpsertPrice(ctx context.Context, p Price) (PriceView, error) {
	if err := s.Store.SetPrice(ctx, p); err != nil {
		return PriceView{}, fmt.Errorf("set price %q: %w", p.ProductID, err)
	}
	return s.view(ctx, p, true)
}

func (s *Service) GetPrice(ctx context.Context, productID string, applyPromotions bool) (PriceView, error) {
	p, ok, err := s.Store.GetPrice(ctx, productID)
	if err != nil {
		return PriceView{}, fmt.Errorf("get price %q: %w", productID, err)
	}
	if !ok {
		return PriceView{}, ErrPriceNotFound
	}
	return s.view(ctx, p, applyPromotions)
}

// QueryPrice is GetPrice with a requested currency. There is no conversion:
// a mismatch still yields the stored currency and amounts.
func (s *Service) QueryPrice(ctx context.Context, productID, currency string, includePromotions bool) (PriceView, error) {
	v, err := s.GetPrice(ctx, productID, includePromotions)
	if err != nil {
		return PriceView{}, err
	}
	if v.Currency != currency {
		s.Log.Debug("currency mismatch ignored",
			zap.String("product_id", productID),
			zap.String("requested", currency),
			zap.String("stored", v.Currency),
		)
	}
	return v, nil
}

func (s *Service) UpsertPromotion(ctx context.Context, p Promotion) (Promotion, error) {
	if !validPercent(p.PercentOff) {
		return Promotion{}, ErrInvalidPercent
	}
	if err := s.Store.SetPromotion(ctx, p); err != nil {
		return Promotion{}, fmt.Errorf("set promotion %q: %w", p.ProductID, err)
	}
	return p, nil
}

func (s *Service) view(ctx context.Context, p Price, withPromotion bool) (PriceView, error) {
	var percent *float64
	if withPromotion {
		promo, ok, err := s.Store.GetPromotion(ctx, p.ProductID)
		if err != nil {
			return PriceView{}, fmt.Errorf("get promotion %q: %w", p.ProductID, err)
		}
		if ok {
			percent = &promo.PercentOff
		}
	}

	v := PriceView{
		ProductID:        p.ProductID,
		Currency:         p.Currency,
		BasePrice:        p.BasePrice,
		FinalPrice:       FinalPrice(p.BasePrice, percent),
		PromotionApplied: percent,
	}
	s.Metrics.observe(v)
	return v, nil
}
