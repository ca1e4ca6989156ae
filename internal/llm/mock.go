package llm

import (
	"context"
	"encoding/json"
)

// Mock 模拟生成器，未配置 LLM 时兜底
type Mock struct{}

// NewMock 创建模拟生成器
func NewMock() *Mock {
	return &Mock{}
}

// Ensure Mock implements Generator
var _ Generator = (*Mock)(nil)

// mockPayload 模仿真实分析输出的结构，便于无 Key 时跑通整条链路
const mockPayload = `{
  "research": {"summary": "这是模拟的热点分析摘要。请配置有效的 LLM API Key 以获得真实分析。"},
  "creatives": [
    {
      "name": "模拟创意产品",
      "features": ["功能点1", "功能点2"],
      "target_users": "模拟目标用户",
      "scores": {"interest": 85, "usefulness": 75},
      "justification": {"interest": "模拟评分理由", "usefulness": "模拟评分理由"},
      "search_keywords": "mock product"
    }
  ]
}`

// GenerateJSON 返回固定结构，忽略 prompt 内容
func (m *Mock) GenerateJSON(_ context.Context, _ string, v any) error {
	return json.Unmarshal([]byte(mockPayload), v)
}
