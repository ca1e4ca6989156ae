package duckduckgo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/zhouyitao000/productideaauto/internal/search"
)

const baseURL = "https://html.duckduckgo.com/html/"

// Client 抓取 DuckDuckGo HTML 页面的搜索客户端，无需 API Key
type Client struct {
	client *http.Client
}

// NewClient 创建一个新的 DuckDuckGo 客户端
func NewClient(timeout int) *Client {
	t := time.Duration(timeout) * time.Second
	if t == 0 {
		t = 8 * time.Second
	}
	return &Client{
		client: &http.Client{Timeout: t},
	}
}

// Ensure Client implements search.Searcher
var _ search.Searcher = (*Client)(nil)

// Search 执行搜索，解析结果页的标题、链接和摘要
func (c *Client) Search(ctx context.Context, query string, limit int) ([]search.Result, error) {
	if limit <= 0 {
		limit = 5
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	// 添加 User-Agent 避免被简单的反爬虫策略拦截
	httpReq.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo error (status %d)", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page failed: %w", err)
	}

	var results []search.Result
	doc.Find("div.result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		link := sel.Find("a.result__a")
		href, _ := link.Attr("href")
		title := strings.TrimSpace(link.Text())
		snippet := strings.TrimSpace(sel.Find(".result__snippet").Text())

		if title == "" || href == "" {
			return true
		}

		results = append(results, search.Result{
			Title:   title,
			Link:    resolveRedirect(href),
			Snippet: snippet,
		})
		return len(results) < limit
	})

	return results, nil
}

// resolveRedirect 还原 DuckDuckGo 的跳转链接（/l/?uddg=<编码后的目标地址>）
func resolveRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "" {
		return "https:" + href
	}
	return href
}
