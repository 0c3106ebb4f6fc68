package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"fleet-assistant-backend/config"
	"fleet-assistant-backend/internal/model"
)

// HTTPSource fetches record collections from the dashboard's REST backend.
type HTTPSource struct {
	cfg    config.SourceConfig
	client *http.Client
}

// NewHTTPSource builds a client honouring the configured proxy and timeout.
func NewHTTPSource(cfg config.SourceConfig, logger logrus.FieldLogger) *HTTPSource {
	transport := &http.Transport{}
	if cfg.HTTPProxy != "" {
		proxyURL, err := url.Parse(cfg.HTTPProxy)
		if err != nil {
			logger.WithError(err).Warnf("invalid proxy URL %q, fetching without proxy", cfg.HTTPProxy)
		} else {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	return &HTTPSource{
		cfg: cfg,
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
	}
}

func (s *HTTPSource) Vehicles(ctx context.Context) ([]model.Vehicle, error) {
	var out []model.Vehicle
	if err := s.fetch(ctx, s.cfg.VehiclesPath, &out); err != nil {
		return nil, fmt.Errorf("fetch vehicles: %w", err)
	}
	return out, nil
}

func (s *HTTPSource) Invoices(ctx context.Context) ([]model.Invoice, error) {
	var out []model.Invoice
	if err := s.fetch(ctx, s.cfg.InvoicesPath, &out); err != nil {
		return nil, fmt.Errorf("fetch invoices: %w", err)
	}
	return out, nil
}

func (s *HTTPSource) Expenses(ctx context.Context) ([]model.Expense, error) {
	var out []model.Expense
	if err := s.fetch(ctx, s.cfg.ExpensesPath, &out); err != nil {
		return nil, fmt.Errorf("fetch expenses: %w", err)
	}
	return out, nil
}

// fetch GETs one collection. The backend answers either with a bare array or
// with {"data": [...]}.
func (s *HTTPSource) fetch(ctx context.Context, path string, out any) error {
	endpoint := strings.TrimRight(s.cfg.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	for key, value := range s.cfg.Headers {
		req.Header.Set(key, value)
	}
	if s.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.Token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	rows, err := unwrap(body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(rows, out); err != nil {
		return fmt.Errorf("failed to unmarshal records: %w", err)
	}
	return nil
}

func unwrap(body []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		return json.RawMessage("[]"), nil
	case trimmed[0] == '[':
		return trimmed, nil
	case trimmed[0] == '{':
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("failed to unmarshal envelope: %w", err)
		}
		if len(envelope.Data) == 0 || bytes.Equal(envelope.Data, []byte("null")) {
			return json.RawMessage("[]"), nil
		}
		return envelope.Data, nil
	default:
		return nil, fmt.Errorf("unexpected response shape")
	}
}
