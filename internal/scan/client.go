package scan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"stakeScope/internal/model"
)

// DefaultPageCap is the documented row cap of the log API. A page of fewer
// rows terminates pagination.
const DefaultPageCap = 1000

// ClientConfig holds the log source endpoint settings.
type ClientConfig struct {
	BaseURL    string
	APIKey     string
	ChainID    string
	Contract   string
	StartBlock uint64
	PageCap    int
	PageDelay  time.Duration
	Timeout    time.Duration
}

// Client fetches event logs from an Etherscan-style getLogs API, hiding the
// provider's page cap and rate limit behind a single FetchAll call.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds a Client. A nil httpClient gets a default with the
// configured timeout; a nil logger is replaced with a nop logger.
func NewClient(cfg ClientConfig, httpClient *http.Client, logger *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if cfg.Contract == "" {
		return nil, fmt.Errorf("contract address is required")
	}
	if cfg.PageCap <= 0 {
		cfg.PageCap = DefaultPageCap
	}
	if cfg.PageDelay <= 0 {
		cfg.PageDelay = 250 * time.Millisecond
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{cfg: cfg, httpClient: httpClient, logger: logger}, nil
}

type apiResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// FetchAll retrieves every log with the given signature topic from the
// configured start block to the latest confirmed block. The result is
// block-ascending and deduplicated by (tx hash, log index). Transport and
// auth failures are returned as-is; an empty history is not an error.
func (c *Client) FetchAll(ctx context.Context, topic0 string, extra url.Values) ([]model.RawLogRecord, error) {
	all := make([]model.RawLogRecord, 0, c.cfg.PageCap)
	seen := make(map[string]struct{})
	fromBlock := c.cfg.StartBlock

	for page := 0; ; page++ {
		if page > 0 {
			if err := c.pace(ctx); err != nil {
				return nil, err
			}
		}

		records, err := c.fetchPage(ctx, topic0, fromBlock, extra)
		if err != nil {
			return nil, fmt.Errorf("fetch page from block %d: %w", fromBlock, err)
		}

		lastBlock := uint64(0)
		for _, record := range records {
			block, err := record.BlockNumberUint()
			if err != nil {
				return nil, err
			}
			lastBlock = block
			if _, dup := seen[record.Key()]; dup {
				continue
			}
			seen[record.Key()] = struct{}{}
			all = append(all, record)
		}

		c.logger.Debug("page fetched",
			zap.String("topic0", topic0),
			zap.Uint64("from_block", fromBlock),
			zap.Int("records", len(records)),
		)

		// A partial page, empty included, is the termination signal.
		if len(records) < c.cfg.PageCap {
			break
		}
		fromBlock = lastBlock + 1
	}

	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, topic0 string, fromBlock uint64, extra url.Values) ([]model.RawLogRecord, error) {
	params := url.Values{
		"chainid":   []string{c.cfg.ChainID},
		"module":    []string{"logs"},
		"action":    []string{"getLogs"},
		"address":   []string{c.cfg.Contract},
		"topic0":    []string{topic0},
		"fromBlock": []string{strconv.FormatUint(fromBlock, 10)},
		"toBlock":   []string{"latest"},
		"apikey":    []string{c.cfg.APIKey},
	}
	for key, values := range extra {
		params[key] = values
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, &TransportError{Op: "build request", Err: err}
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "send request", Err: err}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &TransportError{Op: "read response", Err: err}
	}
	if res.StatusCode != http.StatusOK {
		return nil, &TransportError{Op: "http status", Message: res.Status}
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &TransportError{Op: "parse response", Err: err}
	}

	if parsed.Status != "1" {
		// "No records found" is success with zero records, everything else
		// (bad key, rate limit, upstream trouble) is a hard failure.
		if isEmptyResult(parsed) {
			return nil, nil
		}
		return nil, &TransportError{Op: "api status", Message: apiErrorDetail(parsed)}
	}

	var records []model.RawLogRecord
	if err := json.Unmarshal(parsed.Result, &records); err != nil {
		return nil, &TransportError{Op: "parse result", Err: err}
	}
	return records, nil
}

func (c *Client) pace(ctx context.Context) error {
	timer := time.NewTimer(c.cfg.PageDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func isEmptyResult(res apiResponse) bool {
	if strings.Contains(res.Message, "No records found") {
		return true
	}
	trimmed, ok := trimJSON(res.Result)
	return ok && trimmed == "[]"
}

func apiErrorDetail(res apiResponse) string {
	if trimmed, ok := trimJSON(res.Result); ok && trimmed != "" && trimmed != "[]" {
		return fmt.Sprintf("%s: %s", res.Message, strings.Trim(trimmed, `"`))
	}
	return res.Message
}

func trimJSON(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	return strings.TrimSpace(string(raw)), true
}
