package search

import "context"

// Searcher 定义通用的搜索接口
// 实现方返回的结果数不超过 limit；调用方在自己的边界上吸收错误
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
}

// Result 单条搜索结果
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}
