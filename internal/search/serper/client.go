package serper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/zhouyitao000/productideaauto/internal/search"
)

const baseURL = "https://google.serper.dev/search"

// Client Serper API 客户端
type Client struct {
	apiKey string
	client *http.Client
}

// NewClient 创建一个新的 Serper 客户端
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		client: &http.Client{Timeout: 8 * time.Second},
	}
}

// Ensure Client implements search.Searcher
var _ search.Searcher = (*Client)(nil)

// searchRequest Serper 搜索请求参数
type searchRequest struct {
	Query string `json:"q"`
	Num   int    `json:"num,omitempty"`
	HL    string `json:"hl,omitempty"`
}

// searchResponse Serper 搜索响应
type searchResponse struct {
	Organic []organicResult `json:"organic"`
}

// organicResult 单个自然搜索结果
type organicResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Search implements search.Searcher
func (c *Client) Search(ctx context.Context, query string, limit int) ([]search.Result, error) {
	if limit <= 0 {
		limit = 5
	}

	payload, err := json.Marshal(searchRequest{Query: query, Num: limit, HL: "zh-cn"})
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	httpReq.Header.Add("X-API-KEY", c.apiKey)
	httpReq.Header.Add("Content-Type", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("serper api error (status %d): %s", res.StatusCode, string(body))
	}

	var searchResp searchResponse
	if err := json.NewDecoder(res.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decode response failed: %w", err)
	}

	var results []search.Result
	for _, r := range searchResp.Organic {
		results = append(results, search.Result{
			Title:   r.Title,
			Link:    r.Link,
			Snippet: r.Snippet,
		})
		if len(results) >= limit {
			break
		}
	}

	return results, nil
}
