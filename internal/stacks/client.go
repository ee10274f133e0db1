package stacks

import (
	"bytes"
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

	"monsterScope/internal/clarity"
	"monsterScope/internal/model"
)

const (
	// MaxPageSize is the largest page the assets endpoint serves.
	MaxPageSize = 50

	maxBodySize    = 10 * 1024 * 1024
	maxErrorBody   = 512
	defaultTimeout = 30 * time.Second
)

// Options tune the HTTP behavior of a Client.
type Options struct {
	Timeout      time.Duration
	PageSize     int
	MaxRetries   int
	RetryBackoff time.Duration
	Logger       *zap.Logger
	HTTPClient   *http.Client
}

// Client talks to a Stacks node and its extended API.
type Client struct {
	baseURL      *url.URL
	httpClient   *http.Client
	pageSize     int
	maxRetries   int
	retryBackoff time.Duration
	logger       *zap.Logger
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string, opts Options) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("api url must be http or https: %s", baseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	pageSize := opts.PageSize
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:      parsed,
		httpClient:   httpClient,
		pageSize:     pageSize,
		maxRetries:   opts.MaxRetries,
		retryBackoff: opts.RetryBackoff,
		logger:       logger,
	}, nil
}

type callReadOnlyRequest struct {
	Sender    string   `json:"sender"`
	Arguments []string `json:"arguments"`
}

type callReadOnlyResponse struct {
	Okay   bool   `json:"okay"`
	Result string `json:"result"`
	Cause  string `json:"cause"`
}

// CallReadOnly evaluates a read-only contract function and returns its decoded result.
func (c *Client) CallReadOnly(ctx context.Context, contract Contract, function string, sender string, args ...clarity.Value) (clarity.Value, error) {
	encoded := make([]string, 0, len(args))
	for i, arg := range args {
		hex, err := clarity.EncodeHex(arg)
		if err != nil {
			return nil, fmt.Errorf("encode argument %d: %w", i, err)
		}
		encoded = append(encoded, hex)
	}
	if sender == "" {
		sender = contract.Address
	}

	path := fmt.Sprintf("/v2/contracts/call-read/%s/%s/%s",
		contract.Address, contract.Name, function)

	var resp callReadOnlyResponse
	req := callReadOnlyRequest{Sender: sender, Arguments: encoded}
	if err := c.doJSON(ctx, http.MethodPost, path, nil, req, &resp); err != nil {
		return nil, err
	}
	if !resp.Okay {
		return nil, &CallError{Function: function, Cause: resp.Cause}
	}
	return clarity.DecodeHex(resp.Result)
}

type mapEntryResponse struct {
	Data  string `json:"data"`
	Proof string `json:"proof"`
}

// MapEntry reads a data map entry. The result is an optional: (some v) or none.
func (c *Client) MapEntry(ctx context.Context, contract Contract, mapName string, key clarity.Value) (clarity.Value, error) {
	hexKey, err := clarity.EncodeHex(key)
	if err != nil {
		return nil, fmt.Errorf("encode map key: %w", err)
	}

	path := fmt.Sprintf("/v2/map_entry/%s/%s/%s",
		contract.Address, contract.Name, mapName)
	query := url.Values{"proof": []string{"0"}}

	var resp mapEntryResponse
	if err := c.doJSON(ctx, http.MethodPost, path, query, hexKey, &resp); err != nil {
		return nil, err
	}
	return clarity.DecodeHex(resp.Data)
}

type assetsPage struct {
	Limit   int                `json:"limit"`
	Offset  int                `json:"offset"`
	Total   int                `json:"total"`
	Results []model.AssetEvent `json:"results"`
}

// AccountAssets returns every asset event recorded for a principal, following pagination.
func (c *Client) AccountAssets(ctx context.Context, principal string) ([]model.AssetEvent, error) {
	path := fmt.Sprintf("/extended/v1/address/%s/assets", principal)

	var events []model.AssetEvent
	offset := 0
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		query := url.Values{
			"limit":  []string{strconv.Itoa(c.pageSize)},
			"offset": []string{strconv.Itoa(offset)},
		}

		var page assetsPage
		err := withRetry(ctx, c.maxRetries, c.retryBackoff, func(ctx context.Context) error {
			page = assetsPage{}
			err := c.doJSON(ctx, http.MethodGet, path, query, nil, &page)
			if err != nil {
				c.logger.Warn("assets page fetch failed", zap.Error(err), zap.String("principal", principal), zap.Int("offset", offset))
			}
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("fetch assets page at offset %d: %w", offset, err)
		}

		events = append(events, page.Results...)
		offset += len(page.Results)
		if len(page.Results) == 0 || offset >= page.Total {
			break
		}
	}

	c.logger.Debug("assets fetched", zap.String("principal", principal), zap.Int("events", len(events)))
	return events, nil
}

// CoreInfo returns node information, including the current tenure height.
func (c *Client) CoreInfo(ctx context.Context) (model.CoreInfo, error) {
	var info model.CoreInfo
	if err := c.doJSON(ctx, http.MethodGet, "/v2/info", nil, nil, &info); err != nil {
		return model.CoreInfo{}, err
	}
	return info, nil
}

type txResponse struct {
	TxID        string `json:"tx_id"`
	TxStatus    string `json:"tx_status"`
	BlockHeight uint64 `json:"block_height"`
	TxResult    struct {
		Hex  string `json:"hex"`
		Repr string `json:"repr"`
	} `json:"tx_result"`
}

// Transaction returns the status of a transaction by id.
func (c *Client) Transaction(ctx context.Context, txID string) (model.TxStatus, error) {
	if !strings.HasPrefix(txID, "0x") {
		txID = "0x" + txID
	}
	var resp txResponse
	if err := c.doJSON(ctx, http.MethodGet, "/extended/v1/tx/"+txID, nil, nil, &resp); err != nil {
		return model.TxStatus{}, err
	}
	return model.TxStatus{
		TxID:        resp.TxID,
		Status:      resp.TxStatus,
		BlockHeight: resp.BlockHeight,
		Result:      resp.TxResult.Repr,
	}, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}) error {
	target := *c.baseURL
	target.Path = strings.TrimRight(target.Path, "/") + path
	if query != nil {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(data) > maxErrorBody {
			data = data[:maxErrorBody]
		}
		return &HTTPError{Method: method, URL: path, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}
	return nil
}
