package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"trainyard/internal/httpx"
	"trainyard/internal/inventory"
	"trainyard/internal/locomotive"
	"trainyard/internal/maintenance"
	"trainyard/internal/report"
	"trainyard/internal/rollingstock"
	"trainyard/pkg/jsonstore"
)

// InventoryClient talks to a trainyard server over HTTP.
type InventoryClient struct {
	baseURL string
	http    *http.Client
}

func NewInventoryClient(baseURL string, httpClient *http.Client) *InventoryClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &InventoryClient{baseURL: baseURL, http: httpClient}
}

func (c *InventoryClient) Summary(ctx context.Context) (*report.Summary, error) {
	var s report.Summary
	if err := c.do(ctx, http.MethodGet, "/api/reports/summary", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *InventoryClient) ListLocomotives(ctx context.Context) ([]*locomotive.Locomotive, error) {
	var out []*locomotive.Locomotive
	if err := c.do(ctx, http.MethodGet, "/api/locomotives", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *InventoryClient) GetLocomotive(ctx context.Context, id int64) (*locomotive.Detail, error) {
	var d locomotive.Detail
	if err := c.do(ctx, http.MethodGet, "/api/locomotives/"+strconv.FormatInt(id, 10), nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// SearchLocomotives passes query straight through as search parameters.
func (c *InventoryClient) SearchLocomotives(ctx context.Context, query url.Values) (*inventory.Results[*locomotive.Locomotive], error) {
	var res inventory.Results[*locomotive.Locomotive]
	if err := c.do(ctx, http.MethodGet, "/api/locomotives/search?"+query.Encode(), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *InventoryClient) CreateLocomotive(ctx context.Context, l *locomotive.Locomotive) (*locomotive.Locomotive, error) {
	var out locomotive.Locomotive
	if err := c.do(ctx, http.MethodPost, "/api/locomotives", l, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *InventoryClient) ListRollingStock(ctx context.Context) ([]*rollingstock.RollingStock, error) {
	var out []*rollingstock.RollingStock
	if err := c.do(ctx, http.MethodGet, "/api/rolling-stock", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *InventoryClient) GetRollingStock(ctx context.Context, id int64) (*rollingstock.Detail, error) {
	var d rollingstock.Detail
	if err := c.do(ctx, http.MethodGet, "/api/rolling-stock/"+strconv.FormatInt(id, 10), nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *InventoryClient) LogMaintenance(ctx context.Context, log *maintenance.Log) (*maintenance.Log, error) {
	var out maintenance.Log
	if err := c.do(ctx, http.MethodPost, "/api/maintenance", log, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetItemStatus changes the maintenance status of whichever item holds itemID.
func (c *InventoryClient) SetItemStatus(ctx context.Context, itemID int64, status inventory.MaintenanceStatus) error {
	body := httpx.StatusBody{Status: string(status)}
	return c.do(ctx, http.MethodPut, "/api/maintenance/status/"+strconv.FormatInt(itemID, 10), body, nil)
}

// do sends one request. Error statuses are mapped back onto the server's sentinel errors.
func (c *InventoryClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(httpx.RequestIDHeader, uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var eb httpx.ErrorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		switch resp.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%s %s: %w: %s", method, path, jsonstore.ErrNotFound, eb.Error)
		case http.StatusBadRequest:
			return fmt.Errorf("%s %s: %w: %s", method, path, inventory.ErrValidation, eb.Error)
		default:
			return fmt.Errorf("%s %s: unexpected status code: %d", method, path, resp.StatusCode)
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
