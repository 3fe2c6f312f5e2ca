package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	ErrClientNotFound    = errors.New("pricing: price not found")
	ErrClientInvalid     = errors.New("pricing: rejected as invalid")
	ErrClientBadStatus   = errors.New("pricing: bad status")
	ErrClientUnavailable = errors.New("pricing: service unavailable")
)

const defaultClientTimeout = 3 * time.Second

// Client talks to the price list HTTP API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: defaultClientTimeout},
	}
}

func (c *Client) UpsertPrice(ctx context.Context, p Price) (PriceView, error) {
	var v PriceView
	err := c.do(ctx, http.MethodPost, "/api/v1/prices", p, &v)
	return v, err
}

func (c *Client) GetPrice(ctx context.Context, productID string, applyPromotions bool) (PriceView, error) {
	q := url.Values{"apply_promotions": {strconv.FormatBool(applyPromotions)}}
	path := "/api/v1/prices/" + url.PathEscape(productID) + "?" + q.Encode()

	var v PriceView
	err := c.do(ctx, http.MethodGet, path, nil, &v)
	return v, err
}

func (c *Client) QueryPrice(ctx context.Context, productID, currency string, includePromotions bool) (PriceView, error) {
	body := map[string]any{
		"product_id":         productID,
		"currency":           currency,
		"include_promotions": includePromotions,
	}

	var v PriceView
	err := c.do(ctx, http.MethodPost, "/api/v1/prices/query", body, &v)
	return v, err
}

func (c *Client) UpsertPromotion(ctx context.Context, p Promotion) (Promotion, error) {
	var resp promotionResp
	if err := c.do(ctx, http.MethodPost, "/api/v1/promotions", p, &resp); err != nil {
		return Promotion{}, err
	}
	return resp.Promotion, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrClientUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return ErrClientNotFound
	case http.StatusUnprocessableEntity:
		_, _ = io.Copy(io.Discard, resp.Body)
		return ErrClientInvalid
	case http.StatusServiceUnavailable, http.StatusTooManyRequests:
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: status=%d", ErrClientUnavailable, resp.StatusCode)
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: status=%d", ErrClientBadStatus, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
