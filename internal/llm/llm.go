package llm

import (
	"context"

	"github.com/zhouyitao000/productideaauto/internal/config"
	"github.com/zhouyitao000/productideaauto/internal/logger"
)

// Generator 结构化生成能力：把 prompt 的 JSON 输出解析到 v
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string, v any) error
}

// NewGenerator 根据配置创建生成器：配置了 API Key 用 OpenAI 兼容接口，否则退回模拟实现
func NewGenerator(ctx context.Context, cfg *config.Config) (Generator, error) {
	if cfg.LLM.APIKey == "" {
		logger.Log.Warn("未配置 LLM API Key，使用模拟生成器")
		return NewMock(), nil
	}
	return NewOpenAI(ctx, cfg)
}
