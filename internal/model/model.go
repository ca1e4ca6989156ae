package model

// Platform 热搜来源平台
type Platform string

const (
	PlatformWeibo  Platform = "weibo"
	PlatformDouyin Platform = "douyin"
)

// Topic 一条热搜话题，由 fetcher 归一化后不再修改
type Topic struct {
	Rank     int      `json:"rank"`
	Title    string   `json:"title"`
	HotValue string   `json:"hot_value"`
	Label    string   `json:"label"`
	Source   Platform `json:"source"`
}

// Research 话题背景调研
type Research struct {
	Summary string `json:"summary"`
}

// Scores 创意评分；Total 始终由 Derive 计算，不信任生成侧给的值
type Scores struct {
	Interest   int     `json:"interest"`
	Usefulness int     `json:"usefulness"`
	Total      float64 `json:"total"`
}

// Justification 评分理由
type Justification struct {
	Interest   string `json:"interest"`
	Usefulness string `json:"usefulness"`
}

// Competitor 竞品参考链接
type Competitor struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Idea 一条产品创意
type Idea struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Features       []string      `json:"features"`
	TargetUsers    string        `json:"target_users"`
	Scores         Scores        `json:"scores"`
	Justification  Justification `json:"justification"`
	SearchKeywords string        `json:"search_keywords,omitempty"`
	Quality        string        `json:"quality"`
	QualityClass   string        `json:"quality_class"`
	Competitors    []Competitor  `json:"competitors"`
}

// TopicResult 单个话题的完整分析结果
// 历史文件里创意字段沿用 "creatives" 键，与既有数据兼容
type TopicResult struct {
	Topic    Topic    `json:"topic"`
	Research Research `json:"research"`
	Ideas    []Idea   `json:"creatives"`
	Failed   bool     `json:"analysis_failed,omitempty"`
}

// Batch 一个平台在某个整点时间的全部分析结果
type Batch struct {
	Timestamp     string        `json:"timestamp"`
	TimestampHour string        `json:"timestamp_hour"`
	Results       []TopicResult `json:"results"`
}

// 质量档位，边界在 80 和 60 处取闭区间
const (
	QualityExcellent        = "excellent"
	QualityGood             = "good"
	QualityNeedsImprovement = "needs-improvement"
)

// TotalScore 综合评分 = 有趣度*0.8 + 有用度*0.2，分项先收敛到 0-100
func TotalScore(interest, usefulness int) float64 {
	return float64(clampScore(interest))*0.8 + float64(clampScore(usefulness))*0.2
}

// QualityTier 根据综合评分返回中文档位和样式类名
func QualityTier(total float64) (label, class string) {
	switch {
	case total >= 80:
		return "优秀", QualityExcellent
	case total >= 60:
		return "良好", QualityGood
	default:
		return "需要改进", QualityNeedsImprovement
	}
}

// Derive 重算派生字段，LLM 返回的 total/quality 一律覆盖
func (i *Idea) Derive() {
	i.Scores.Interest = clampScore(i.Scores.Interest)
	i.Scores.Usefulness = clampScore(i.Scores.Usefulness)
	i.Scores.Total = TotalScore(i.Scores.Interest, i.Scores.Usefulness)
	i.Quality, i.QualityClass = QualityTier(i.Scores.Total)
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
