package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/zhouyitao000/productideaauto/internal/config"
)

// OpenAI 通过 OpenAI 兼容接口做结构化生成
type OpenAI struct {
	chatModel model.ChatModel
	limiter   *rate.Limiter
}

// NewOpenAI 创建 OpenAI 生成器并配置限流
func NewOpenAI(ctx context.Context, cfg *config.Config) (*OpenAI, error) {
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}

	limit := rate.Limit(float64(cfg.Concurrency.RPM) / 60.0)
	limiter := rate.NewLimiter(limit, cfg.Concurrency.QPS)

	return &OpenAI{chatModel: chatModel, limiter: limiter}, nil
}

// Ensure OpenAI implements Generator
var _ Generator = (*OpenAI)(nil)

// GenerateJSON 调用 LLM 并把返回的 JSON 解析到 v，带 429 重试
func (o *OpenAI) GenerateJSON(ctx context.Context, prompt string, v any) error {
	maxRetries := 3
	baseDelay := 2 * time.Second
	var lastErr error

	for i := 0; i <= maxRetries; i++ {
		if err := o.limiter.Wait(ctx); err != nil {
			return err
		}

		messages := []*schema.Message{
			{Role: schema.System, Content: "你是一个 JSON 生成器。请只输出 JSON 字符串。"},
			{Role: schema.User, Content: prompt},
		}

		resp, err := o.chatModel.Generate(ctx, messages)
		if err != nil {
			if strings.Contains(err.Error(), "429") || strings.Contains(strings.ToLower(err.Error()), "too many requests") {
				lastErr = err
				if i < maxRetries {
					time.Sleep(baseDelay * time.Duration(1<<i))
					continue
				}
			}
			return err
		}

		cleanContent := stripFences(resp.Content)
		if err := json.Unmarshal([]byte(cleanContent), v); err != nil {
			lastErr = err
			if i < maxRetries {
				continue
			}
			return fmt.Errorf("json unmarshal: %w", err)
		}
		return nil
	}
	return lastErr
}

// stripFences 去掉模型偶尔带上的 markdown 代码块标记
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
