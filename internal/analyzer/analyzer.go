package analyzer

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-shiori/go-readability"

	"github.com/zhouyitao000/productideaauto/internal/llm"
	"github.com/zhouyitao000/productideaauto/internal/logger"
	"github.com/zhouyitao000/productideaauto/internal/model"
	"github.com/zhouyitao000/productideaauto/internal/search"
)

const (
	searchLimit    = 5
	competitorMax  = 2
	searchTimeout  = 8 * time.Second
	generateWindow = 60 * time.Second
	failedSummary  = "分析过程中发生错误"
)

// competitorDenylist 竞品结果过滤：统计工具、百科词典、释义类站点对竞品参考没有价值
// 对标题和链接做不区分大小写的子串匹配
var competitorDenylist = []string{
	"similarweb",
	"semrush",
	"sensortower",
	"wikipedia",
	"baike.baidu",
	"zhidao.baidu",
	"dictionary",
	"是什么意思",
}

// Analyzer 核心分析器：单话题富化加批次级并发调度
type Analyzer struct {
	searcher  search.Searcher
	generator llm.Generator
	workers   int
	loc       *time.Location
}

// New 创建分析器；loc 是全局唯一的时间基准
func New(searcher search.Searcher, generator llm.Generator, workers int, loc *time.Location) *Analyzer {
	if workers <= 0 {
		workers = 3
	}
	if loc == nil {
		loc = time.Local
	}
	return &Analyzer{
		searcher:  searcher,
		generator: generator,
		workers:   workers,
		loc:       loc,
	}
}

// analysisPayload LLM 返回的结构
type analysisPayload struct {
	Research  model.Research `json:"research"`
	Creatives []model.Idea   `json:"creatives"`
}

// Run 并发分析一批话题并组装成 Batch
// 单个话题的 panic 在此边界回收：记录标题后丢弃该话题，不中断整批
func (a *Analyzer) Run(ctx context.Context, topics []model.Topic) model.Batch {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results []model.TopicResult
	)

	sem := make(chan struct{}, a.workers)
	dispatchedAt := time.Now().In(a.loc)

	for _, topic := range topics {
		wg.Add(1)
		sem <- struct{}{}
		go func(topic model.Topic) {
			defer wg.Done()
			defer func() { <-sem }()
			defer func() {
				if r := recover(); r != nil {
					logger.Log.Errorf("话题处理发生 panic [%s]: %v", topic.Title, r)
				}
			}()

			result := a.EnrichTopic(ctx, topic, dispatchedAt)

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		}(topic)
	}
	wg.Wait()

	// 并发完成顺序不确定，按 rank 恢复展示顺序
	sort.Slice(results, func(i, j int) bool {
		return results[i].Topic.Rank < results[j].Topic.Rank
	})

	// 批次时间取全部话题完成之后的时刻，小时桶才对得上数据实际产出的时间
	now := time.Now().In(a.loc)
	return model.Batch{
		Timestamp:     now.Format("2006-01-02 15:04:05"),
		TimestampHour: now.Format("2006-01-02 15:00"),
		Results:       results,
	}
}

// EnrichTopic 单话题富化：搜索 -> 生成 -> 竞品检索 -> 派生评分
// 任何一步失败都不外抛，最差返回带失败标记的占位结果
func (a *Analyzer) EnrichTopic(ctx context.Context, topic model.Topic, now time.Time) model.TopicResult {
	logger.Log.Infof("开始处理 %s 话题: %s", topic.Source, topic.Title)

	// 1. 背景搜索
	query := fmt.Sprintf("%s %d年 最新消息", topic.Title, now.Year())
	searchResults := a.safeSearch(ctx, query, searchLimit)
	searchContext := buildContext(searchResults)

	// 2. 结构化生成
	gctx, cancel := context.WithTimeout(ctx, generateWindow)
	defer cancel()

	var payload analysisPayload
	if err := a.generator.GenerateJSON(gctx, buildPrompt(topic, now, searchContext), &payload); err != nil {
		logger.Log.Errorf("话题分析失败 [%s]: %v", topic.Title, err)
		return model.TopicResult{
			Topic:    topic,
			Research: model.Research{Summary: failedSummary},
			Ideas:    []model.Idea{},
			Failed:   true,
		}
	}

	// 3. 逐条创意：编号、竞品检索、派生评分
	for i := range payload.Creatives {
		idea := &payload.Creatives[i]
		idea.ID = fmt.Sprintf("%d-%d", topic.Rank, i+1)

		keywords := idea.SearchKeywords
		if keywords == "" {
			keywords = idea.Name
		}
		idea.Competitors = a.searchCompetitors(ctx, keywords)

		idea.Derive()
	}
	if payload.Creatives == nil {
		payload.Creatives = []model.Idea{}
	}

	return model.TopicResult{
		Topic:    topic,
		Research: payload.Research,
		Ideas:    payload.Creatives,
	}
}

// safeSearch 搜索能力的吸收边界：失败记日志并返回空列表
func (a *Analyzer) safeSearch(ctx context.Context, query string, limit int) []search.Result {
	sctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	results, err := a.searcher.Search(sctx, query, limit)
	if err != nil {
		logger.Log.Warnf("搜索失败 [%s]: %v", query, err)
		return nil
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// buildContext 把搜索结果拼成给 LLM 的文本上下文
// 摘要太薄时抓取第一条链接的正文做补充
func buildContext(results []search.Result) string {
	var sb strings.Builder
	for _, r := range results {
		fmt.Fprintf(&sb, "- Title: %s\n  Snippet: %s\n", r.Title, r.Snippet)
	}

	if sb.Len() < 200 && len(results) > 0 && results[0].Link != "" {
		if content, err := fetchAndCleanContent(results[0].Link); err == nil && content != "" {
			if len(content) > 2000 {
				content = content[:2000]
			}
			fmt.Fprintf(&sb, "\n正文补充:\n%s\n", content)
		}
	}
	return sb.String()
}

// fetchAndCleanContent 抓取 URL 并提取核心文本
func fetchAndCleanContent(url string) (string, error) {
	article, err := readability.FromURL(url, searchTimeout)
	if err != nil {
		return "", err
	}
	return article.TextContent, nil
}

// searchCompetitors 用创意关键词检索竞品，过滤掉 denylist 命中的条目后取前两条
func (a *Analyzer) searchCompetitors(ctx context.Context, keywords string) []model.Competitor {
	query := "similar product app " + keywords
	results := a.safeSearch(ctx, query, searchLimit)

	competitors := make([]model.Competitor, 0, competitorMax)
	for _, r := range results {
		if denied(r) {
			continue
		}
		competitors = append(competitors, model.Competitor{Name: r.Title, URL: r.Link})
		if len(competitors) >= competitorMax {
			break
		}
	}
	return competitors
}

func denied(r search.Result) bool {
	title := strings.ToLower(r.Title)
	link := strings.ToLower(r.Link)
	for _, d := range competitorDenylist {
		if strings.Contains(title, d) || strings.Contains(link, d) {
			return true
		}
	}
	return false
}

// buildPrompt 组装分析 prompt，要求模型只输出 JSON
func buildPrompt(topic model.Topic, now time.Time, searchContext string) string {
	return fmt.Sprintf(`当前日期是: %s。
请分析以下%s热搜话题: "%s"。

搜索结果:
%s

任务:
1. 总结事件关键细节（150字左右）。
2. 基于该话题生成2个产品创意。
   **重要限制**: 创意必须是 **软件产品 (App/Web)**、**AI应用** 或 **AI解决方案**。不接受实体产品或纯营销活动。
   创意应侧重于如何利用 AI 技术解决用户痛点或提供娱乐价值。
3. 基于有趣度（趣味性/传播潜力）和有用度（实用价值）对创意进行评分。
4. 为每个创意提供一个用于搜索竞品的关键词（search_keywords），用于寻找市场上已有的类似产品。

输出格式 (仅JSON):
{
    "research": {
        "summary": "综合摘要 (150字左右)"
    },
    "creatives": [
        {
            "name": "创意名称",
            "features": ["功能点1", "功能点2"],
            "target_users": "目标用户",
            "scores": {
                "interest": 85,
                "usefulness": 70
            },
            "justification": {
                "interest": "有趣度评分理由",
                "usefulness": "有用度评分理由"
            },
            "search_keywords": "用于搜索竞品的关键词 (英文或中文)"
        }
    ]
}
请确保所有生成的内容（摘要、创意名称、功能、理由等）都是中文。`,
		now.Format("2006年01月02日"), platformName(topic.Source), topic.Title, searchContext)
}

func platformName(p model.Platform) string {
	switch p {
	case model.PlatformDouyin:
		return "抖音"
	default:
		return "微博"
	}
}
