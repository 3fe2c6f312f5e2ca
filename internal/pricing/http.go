package pricing

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"PriceList/pkg/kit"
)

const readyTimeout = 1 * time.Second

type Server struct {
	Service *Service
	Log     *zap.Logger

	ServiceName string
	Env         string
}

type healthResp struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Env     string `json:"env"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, healthResp{Status: "ok", Service: s.ServiceName, Env: s.Env})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.Service.Store.Ping(ctx); err != nil {
		s.Log.Warn("readyz failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

type upsertPriceReq struct {
	ProductID *string  `json:"product_id"`
	Currency  *string  `json:"currency"`
	BasePrice *float64 `json:"base_price"`
}

func (req upsertPriceReq) validate() fieldErrors {
	errs := fieldErrors{}
	errs.requireID(req.ProductID)
	if req.Currency == nil {
		errs["currency"] = "field required"
	}
	if req.BasePrice == nil {
		errs["base_price"] = "field required"
	}
	return errs
}

func (s *Server) handleUpsertPrice(w http.ResponseWriter, r *http.Request) {
	var req upsertPriceReq
	if !s.decode(w, r, &req) {
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeValidation(w, r, errs)
		return
	}

	v, err := s.Service.UpsertPrice(r.Context(), Price{
		ProductID: *req.ProductID,
		Currency:  *req.Currency,
		BasePrice: *req.BasePrice,
	})
	if err != nil {
		s.writeServiceError(w, r, *req.ProductID, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, v)
}

func (s *Server) handleGetPrice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productID")

	apply := true
	if raw := r.URL.Query().Get("apply_promotions"); raw != "" {
		b, ok := parseBool(raw)
		if !ok {
			writeValidation(w, r, fieldErrors{"apply_promotions": "value could not be parsed to a boolean"})
			return
		}
		apply = b
	}

	v, err := s.Service.GetPrice(r.Context(), id, apply)
	if err != nil {
		s.writeServiceError(w, r, id, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, v)
}

type queryPriceReq struct {
	ProductID         *string `json:"product_id"`
	Currency          *string `json:"currency"`
	IncludePromotions *bool   `json:"include_promotions"`
}

func (req queryPriceReq) validate() fieldErrors {
	errs := fieldErrors{}
	errs.requireID(req.ProductID)
	if req.Currency == nil {
		errs["currency"] = "field required"
	}
	return errs
}

func (s *Server) handleQueryPrice(w http.ResponseWriter, r *http.Request) {
	var req queryPriceReq
	if !s.decode(w, r, &req) {
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeValidation(w, r, errs)
		return
	}

	include := true
	if req.IncludePromotions != nil {
		include = *req.IncludePromotions
	}

	v, err := s.Service.QueryPrice(r.Context(), *req.ProductID, *req.Currency, include)
	if err != nil {
		s.writeServiceError(w, r, *req.ProductID, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, v)
}

type upsertPromotionReq struct {
	ProductID  *string  `json:"product_id"`
	PercentOff *float64 `json:"percent_off"`
}

func (req upsertPromotionReq) validate() fieldErrors {
	errs := fieldErrors{}
	errs.requireID(req.ProductID)
	switch {
	case req.PercentOff == nil:
		errs["percent_off"] = "field required"
	case !validPercent(*req.PercentOff):
		errs["percent_off"] = ErrInvalidPercent.Error()
	}
	return errs
}

type promotionResp struct {
	Status    string    `json:"status"`
	Promotion Promotion `json:"promotion"`
}

func (s *Server) handleUpsertPromotion(w http.ResponseWriter, r *http.Request) {
	var req upsertPromotionReq
	if !s.decode(w, r, &req) {
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeValidation(w, r, errs)
		return
	}

	p, err := s.Service.UpsertPromotion(r.Context(), Promotion{
		ProductID:  *req.ProductID,
		PercentOff: *req.PercentOff,
	})
	if err != nil {
		s.writeServiceError(w, r, *req.ProductID, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, promotionResp{Status: "ok", Promotion: p})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := kit.DecodeJSON(w, r, dst); err != nil {
		writeValidation(w, r, fieldErrors{"body": err.Error()})
		return false
	}
	return true
}

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, productID string, err error) {
	switch {
	case errors.Is(err, ErrPriceNotFound):
		kit.WriteError(w, r, http.StatusNotFound, "price not found",
			map[string]any{"product_id": productID})
	case errors.Is(err, ErrInvalidPercent):
		writeValidation(w, r, fieldErrors{"percent_off": err.Error()})
	default:
		s.Log.Error("pricing request failed", zap.Error(err), zap.String("product_id", productID))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

type fieldErrors map[string]string

func (e fieldErrors) requireID(id *string) {
	switch {
	case id == nil:
		e["product_id"] = "field required"
	case strings.TrimSpace(*id) == "":
		e["product_id"] = "must not be empty"
	}
}

func writeValidation(w http.ResponseWriter, r *http.Request, errs fieldErrors) {
	kit.WriteError(w, r, http.StatusUnprocessableEntity, "validation error", errs)
}

func parseBool(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "t", "yes", "y", "on":
		return true, true
	case "0", "false", "f", "no", "n", "off":
		return false, true
	}
	return false, false
}
