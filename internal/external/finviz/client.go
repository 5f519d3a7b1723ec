package finviz

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/wonny/dailypicks/internal/contracts"
	"github.com/wonny/dailypicks/pkg/httputil"
	"github.com/wonny/dailypicks/pkg/logger"
)

// Client scrapes fundamentals from Finviz quote pages
// ⭐ SSOT: Finviz 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Finviz client
func NewClient(httpClient *httputil.Client, baseURL string, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Fundamentals fetches the snapshot table for one symbol
func (c *Client) Fundamentals(ctx context.Context, symbol string) (contracts.Fundamentals, error) {
	fullURL := fmt.Sprintf("%s/quote.ashx?%s", c.baseURL, url.Values{"t": {symbol}}.Encode())

	body, err := c.httpClient.GetBody(ctx, fullURL)
	if err != nil {
		return contracts.Fundamentals{}, fmt.Errorf("finviz %s: %w", symbol, err)
	}

	snap, err := parseSnapshot(string(body))
	if err != nil {
		return contracts.Fundamentals{}, fmt.Errorf("finviz %s: %w", symbol, err)
	}

	f := snap.fundamentals()

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"fields": len(snap),
	}).Debug("Fetched finviz snapshot")

	return f, nil
}
