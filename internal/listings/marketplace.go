package listings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"lckr_backend/platform/config"
	"lckr_backend/platform/logger"
)

// MarketplaceClient writes listing updates to the marketplace API.
type MarketplaceClient interface {
	UpdateListingLocation(ctx context.Context, listingID string, update LocationUpdate) error
}

// NewMarketplaceClient returns an HTTP client when MARKETPLACE_API_URL is
// set, otherwise a client that only logs updates.
func NewMarketplaceClient(cfg config.MarketplaceConfig, log *logger.Logger) MarketplaceClient {
	if !cfg.IsMarketplaceEnabled() {
		log.Warn("MARKETPLACE_API_URL not configured; listing updates are logged only")
		return &logOnlyClient{log: log}
	}
	return NewHTTPMarketplaceClient(cfg.GetMarketplaceAPIURL(), cfg.GetMarketplaceAPIToken(), log)
}

// HTTPMarketplaceClient talks to the marketplace's listing API.
type HTTPMarketplaceClient struct {
	baseURL string
	token   string
	client  *http.Client
	log     *logger.Logger
}

// NewHTTPMarketplaceClient creates a client for baseURL.
func NewHTTPMarketplaceClient(baseURL, token string, log *logger.Logger) *HTTPMarketplaceClient {
	return &HTTPMarketplaceClient{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
}

type updateListingRequest struct {
	ID string `json:"id"`
	LocationUpdate
}

// UpdateListingLocation sends POST {base}/own_listings/update.
func (m *HTTPMarketplaceClient) UpdateListingLocation(ctx context.Context, listingID string, update LocationUpdate) error {
	body, err := json.Marshal(updateListingRequest{ID: listingID, LocationUpdate: update})
	if err != nil {
		return fmt.Errorf("encode listing update: %w", err)
	}

	endpoint, err := url.JoinPath(m.baseURL, "own_listings", "update")
	if err != nil {
		return fmt.Errorf("build marketplace url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if m.token != "" {
		req.Header.Set("Authorization", "Bearer "+m.token)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		m.log.UpstreamError("marketplace", "update_listing", err)
		return fmt.Errorf("marketplace request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("marketplace api error: %d %s", resp.StatusCode, bytes.TrimSpace(snippet))
		m.log.UpstreamError("marketplace", "update_listing", err)
		return err
	}
	return nil
}

type logOnlyClient struct {
	log *logger.Logger
}

func (l *logOnlyClient) UpdateListingLocation(_ context.Context, listingID string, update LocationUpdate) error {
	l.log.Info("listing location update (not sent)", "listingId", listingID, "address", update.PublicData.Location.Address)
	return nil
}
