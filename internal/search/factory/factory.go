package factory

import (
	"fmt"

	"github.com/zhouyitao000/productideaauto/internal/config"
	"github.com/zhouyitao000/productideaauto/internal/search"
	"github.com/zhouyitao000/productideaauto/internal/search/duckduckgo"
	"github.com/zhouyitao000/productideaauto/internal/search/mock"
	"github.com/zhouyitao000/productideaauto/internal/search/serper"
)

// NewSearcher 根据配置创建搜索实例，启动时选定一次后全程复用
func NewSearcher(cfg *config.Config) (search.Searcher, error) {
	provider := cfg.Search.Provider
	if provider == "" {
		// 默认回退逻辑：有 serper key 则优先用付费接口
		if cfg.Search.Serper.APIKey != "" {
			provider = "serper"
		} else {
			provider = "duckduckgo"
		}
	}

	switch provider {
	case "serper":
		if cfg.Search.Serper.APIKey == "" {
			return nil, fmt.Errorf("serper api key is missing")
		}
		return serper.NewClient(cfg.Search.Serper.APIKey), nil

	case "duckduckgo":
		return duckduckgo.NewClient(cfg.Search.DuckDuckGo.Timeout), nil

	case "mock":
		return mock.NewClient(), nil

	default:
		return nil, fmt.Errorf("unknown search provider: %s", provider)
	}
}
