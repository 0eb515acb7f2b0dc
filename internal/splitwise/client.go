// Package splitwise retrieves a group's expense ledger from the Splitwise API.
package splitwise

import (
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

	"pokerboard/internal/core"
	"pokerboard/internal/log"
)

const (
	defaultBaseURL  = "https://secure.splitwise.com/api/v3.0"
	defaultPageSize = 100
	defaultTimeout  = 30 * time.Second
	maxBodyBytes    = 16 << 20
)

var (
	ErrMissingToken     = errors.New("splitwise API token is required")
	ErrUnauthorized     = errors.New("splitwise rejected the API token")
	ErrUnexpectedStatus = errors.New("unexpected splitwise response status")
	ErrInvalidGroupID   = errors.New("group id must be greater than zero")
)

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Token      string
	PageSize   int
	Timeout    time.Duration
	Logger     *log.Logger
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	pageSize   int
	logger     *log.Logger
}

func NewClient(cfg ClientConfig) (*Client, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, ErrMissingToken
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNop()
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		token:      token,
		pageSize:   pageSize,
		logger:     logger.WithComponent(log.ComponentSplitwise),
	}, nil
}

// FetchGroupExpenses pages through get_expenses until the API returns an
// empty page. Records come back in ledger order.
func (c *Client) FetchGroupExpenses(ctx context.Context, groupID int64) ([]core.Expense, error) {
	if groupID <= 0 {
		return nil, ErrInvalidGroupID
	}

	start := time.Now()
	var expenses []core.Expense
	for offset := 0; ; offset += c.pageSize {
		page, err := c.fetchPage(ctx, groupID, offset)
		if err != nil {
			return nil, fmt.Errorf("fetch expenses group_id=%d offset=%d: %w", groupID, offset, err)
		}
		if len(page) == 0 {
			break
		}
		for _, dto := range page {
			expenses = append(expenses, dto.toCore())
		}
		c.logger.DebugContext(ctx, "Fetched expense page",
			log.FieldGroupID, groupID,
			log.FieldOffset, offset,
			log.FieldCount, len(page),
		)
	}

	c.logger.InfoContext(ctx, "Fetched group expenses",
		log.FieldGroupID, groupID,
		log.FieldFetched, len(expenses),
		log.FieldDuration, time.Since(start).Milliseconds(),
	)
	return expenses, nil
}

func (c *Client) fetchPage(ctx context.Context, groupID int64, offset int) ([]expenseDTO, error) {
	values := url.Values{}
	values.Set("group_id", strconv.FormatInt(groupID, 10))
	values.Set("limit", strconv.Itoa(c.pageSize))
	values.Set("offset", strconv.Itoa(offset))
	fullURL := c.baseURL + "/get_expenses?" + values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status=%d", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: status=%d body=%s", ErrUnexpectedStatus, resp.StatusCode, abbreviateBody(raw))
	}

	var envelope expensesEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode expenses payload: %w", err)
	}
	return envelope.Expenses, nil
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}
