package mock

import (
	"context"
	"fmt"

	"github.com/zhouyitao000/productideaauto/internal/search"
)

// Client 确定性的模拟搜索实现，用于无网络环境和测试
type Client struct{}

// NewClient 创建模拟搜索客户端
func NewClient() *Client {
	return &Client{}
}

// Ensure Client implements search.Searcher
var _ search.Searcher = (*Client)(nil)

// Search 返回固定的单条模拟结果
func (c *Client) Search(_ context.Context, query string, limit int) ([]search.Result, error) {
	if limit <= 0 {
		return nil, nil
	}
	return []search.Result{
		{
			Title:   fmt.Sprintf("关于 %s 的搜索结果", query),
			Link:    "http://example.com",
			Snippet: fmt.Sprintf("这是关于 %s 的模拟搜索结果。在真实环境中，这里会显示来自搜索引擎的摘要信息。", query),
		},
	}, nil
}
