package report

import (
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/zhouyitao000/productideaauto/internal/model"
)

// FileName 报告产物文件名，HTTP 服务按此路径提供
const FileName = "weibo_analysis_report.html"

// Path 报告产物的完整路径
func Path(outputDir string) string {
	return filepath.Join(outputDir, FileName)
}

// pageData 模板渲染数据
type pageData struct {
	UpdateTime      string
	FilterOptions   []string
	Weibo           []model.Batch
	Douyin          []model.Batch
	Recommendations []recommendation
}

// recommendation 最新批次里综合评分最高的创意
type recommendation struct {
	Index      int
	Name       string
	Total      float64
	Platform   string
	TopicTitle string
}

// Render 把两个平台的历史渲染成单页报告并写入 outputDir
func Render(weibo, douyin []model.Batch, now time.Time, outputDir string) error {
	data := pageData{
		UpdateTime:      now.Format("2006-01-02 15:04:05"),
		FilterOptions:   filterOptions(weibo, douyin),
		Weibo:           weibo,
		Douyin:          douyin,
		Recommendations: topRecommendations(weibo, douyin),
	}

	t, err := template.New("report").Parse(reportTpl)
	if err != nil {
		return err
	}

	// HTTP 服务可能正在读旧报告，先写临时文件再原子替换，避免读到半截页面
	tmp, err := os.CreateTemp(outputDir, FileName+".tmp-*")
	if err != nil {
		return err
	}
	if err := t.Execute(tmp, data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), Path(outputDir))
}

// filterOptions 两个平台出现过的整点时段，去重后按时间倒序
func filterOptions(weibo, douyin []model.Batch) []string {
	seen := make(map[string]struct{})
	for _, b := range weibo {
		seen[b.TimestampHour] = struct{}{}
	}
	for _, b := range douyin {
		seen[b.TimestampHour] = struct{}{}
	}

	hours := make([]string, 0, len(seen))
	for h := range seen {
		hours = append(hours, h)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(hours)))
	return hours
}

// topRecommendations 从两个平台的最新批次里选综合评分前三的创意
func topRecommendations(weibo, douyin []model.Batch) []recommendation {
	var recs []recommendation
	collect := func(batches []model.Batch, platform string) {
		if len(batches) == 0 {
			return
		}
		for _, r := range batches[0].Results {
			for _, idea := range r.Ideas {
				recs = append(recs, recommendation{
					Name:       idea.Name,
					Total:      idea.Scores.Total,
					Platform:   platform,
					TopicTitle: r.Topic.Title,
				})
			}
		}
	}
	collect(weibo, "微博")
	collect(douyin, "抖音")

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Total > recs[j].Total
	})
	if len(recs) > 3 {
		recs = recs[:3]
	}
	for i := range recs {
		recs[i].Index = i + 1
	}
	return recs
}

const reportTpl = `<!DOCTYPE html>
<html lang="zh-CN">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>热点产品创意分析报告</title>
    <style>
        :root {
            --primary-color: #2563eb;
            --bg-color: #f8fafc;
            --card-bg: #ffffff;
            --text-main: #1e293b;
            --text-secondary: #64748b;
            --border-color: #e2e8f0;
        }
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            background-color: var(--bg-color);
            color: var(--text-main);
            line-height: 1.6;
            margin: 0;
            padding: 20px;
        }
        .container { max-width: 1000px; margin: 0 auto; }
        header { text-align: center; margin-bottom: 30px; padding: 20px 0; }
        h1 { font-size: 2.2rem; margin: 0 0 10px 0; }
        .date-info { color: var(--text-secondary); }
        .filter-bar { text-align: center; margin-bottom: 24px; }
        .filter-bar select { padding: 6px 12px; border-radius: 8px; border: 1px solid var(--border-color); }

        .recommendations {
            background: #fff; padding: 20px 24px; border-radius: 12px; margin-bottom: 32px;
            border: 1px solid var(--border-color); box-shadow: 0 2px 4px rgba(0,0,0,0.05);
        }
        .recommendation-item h4 { margin: 8px 0 2px 0; }
        .recommendation-item p { margin: 0; color: var(--text-secondary); font-size: 0.9rem; }

        .platform-header { margin: 32px 0 12px 0; font-size: 1.4rem; color: #334155; border-bottom: 2px solid var(--primary-color); display: inline-block; }
        .batch-header { margin: 2rem 0 1rem 0; padding-bottom: 0.5rem; border-bottom: 2px solid var(--border-color); color: #4b5563; }

        .topic-section {
            background: var(--card-bg); border-radius: 12px; padding: 20px 24px; margin-bottom: 20px;
            border: 1px solid var(--border-color); box-shadow: 0 2px 4px rgba(0,0,0,0.05);
        }
        .topic-header { display: flex; align-items: center; gap: 12px; }
        .topic-rank {
            background: var(--primary-color); color: #fff; border-radius: 8px;
            min-width: 2rem; text-align: center; font-weight: bold; padding: 2px 6px;
        }
        .topic-title { font-size: 1.3rem; margin: 0; display: inline; }
        .topic-label { background: #fee2e2; color: #991b1b; border-radius: 6px; padding: 1px 8px; margin-left: 8px; font-size: 0.8rem; }
        .hot-value { color: #ea580c; margin-left: 8px; font-size: 0.9rem; }
        .failed-tag { background: #fef2f2; color: #b91c1c; border-radius: 6px; padding: 1px 8px; margin-left: 8px; font-size: 0.8rem; }

        .summary-section { background: #f8fafc; border-left: 4px solid var(--primary-color); padding: 8px 16px; margin: 12px 0; border-radius: 0 8px 8px 0; }
        .creative-grid { display: grid; gap: 16px; grid-template-columns: 1fr; }
        @media (min-width: 768px) { .creative-grid { grid-template-columns: 1fr 1fr; } }
        .creative-card { border: 1px solid var(--border-color); border-radius: 10px; padding: 14px 16px; background: #fcfcfd; }
        .creative-name { margin: 0 0 8px 0; font-size: 1.05rem; }
        .creative-features ul { margin: 0; padding-left: 18px; }
        .target-users { margin: 8px 0; font-size: 0.92rem; }
        .competitors-section { margin: 8px 0; font-size: 0.9rem; }
        .competitors-section a { color: var(--primary-color); text-decoration: none; }

        .score-section { margin-top: 10px; }
        .score-breakdown { display: flex; align-items: center; gap: 8px; font-size: 0.85rem; color: var(--text-secondary); }
        .score-bar { flex: 1; background: #e2e8f0; border-radius: 4px; height: 8px; overflow: hidden; }
        .score-fill { height: 100%; }
        .score-fill-interest { background: #f59e0b; }
        .score-fill-useful { background: #22c55e; }
        .total-score { margin-top: 6px; font-weight: bold; }
        .quality-excellent { color: #16a34a; }
        .quality-good { color: #2563eb; }
        .quality-needs-improvement { color: #dc2626; }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>🔥 热点产品创意分析</h1>
            <div class="date-info">更新时间: {{.UpdateTime}}</div>
        </header>

        <div class="filter-bar">
            <label>数据时段:
                <select onchange="filterByHour(this.value)">
                    <option value="">全部</option>
                    {{range .FilterOptions}}<option value="{{.}}">{{.}}</option>
                    {{end}}
                </select>
            </label>
        </div>

        {{if .Recommendations}}
        <div class="recommendations">
            <h2>💡 今日创意推荐</h2>
            {{range .Recommendations}}
            <div class="recommendation-item">
                <h4>{{.Index}}. {{.Name}} (综合评分: {{printf "%.1f" .Total}})</h4>
                <p>来自{{.Platform}}话题: {{.TopicTitle}}</p>
            </div>
            {{end}}
        </div>
        {{end}}

        <h2 class="platform-header">📱 微博热搜</h2>
        {{template "section" .Weibo}}

        <h2 class="platform-header">🎵 抖音热点</h2>
        {{template "section" .Douyin}}
    </div>

    <script>
        function filterByHour(hour) {
            document.querySelectorAll('.data-batch').forEach(function(el) {
                el.style.display = (!hour || el.dataset.hour === hour) ? '' : 'none';
            });
        }
    </script>
</body>
</html>

{{define "section"}}
{{if not .}}<p>暂无数据</p>{{end}}
{{range .}}
<div class="data-batch" data-hour="{{.TimestampHour}}">
    <div class="batch-header"><h3>数据时间: {{.Timestamp}}</h3></div>
    {{range .Results}}
    <section class="topic-section">
        <div class="topic-header">
            <span class="topic-rank">{{.Topic.Rank}}</span>
            <div style="flex-grow: 1;">
                <h2 class="topic-title">{{.Topic.Title}}</h2>
                {{if .Topic.Label}}<span class="topic-label">{{.Topic.Label}}</span>{{end}}
                <span class="hot-value">🔥 {{.Topic.HotValue}}</span>
                {{if .Failed}}<span class="failed-tag">分析失败</span>{{end}}
            </div>
        </div>

        <div class="summary-section">
            <h4>热点详细信息</h4>
            <p>{{.Research.Summary}}</p>
        </div>

        {{if .Ideas}}
        <div class="creative-section">
            <h4>产品创意 (AI/软件)</h4>
            <div class="creative-grid">
                {{range .Ideas}}
                <div class="creative-card" data-id="{{.ID}}">
                    <h3 class="creative-name">{{.Name}}</h3>
                    <div class="creative-features">
                        <ul>
                            {{range .Features}}<li>{{.}}</li>
                            {{end}}
                        </ul>
                    </div>
                    <div class="target-users"><strong>目标用户:</strong> {{.TargetUsers}}</div>
                    {{if .Competitors}}
                    <div class="competitors-section">
                        <strong>🔍 参考竞品:</strong>
                        {{range .Competitors}}
                        <a href="{{.URL}}" target="_blank" rel="noopener noreferrer">{{.Name}}</a>
                        {{end}}
                    </div>
                    {{end}}
                    <div class="score-section">
                        <div class="score-breakdown">
                            <div class="score-bar"><div class="score-fill score-fill-interest" style="width: {{.Scores.Interest}}%"></div></div>
                            <span>有趣度: {{.Scores.Interest}}/100</span>
                        </div>
                        <div class="score-breakdown">
                            <div class="score-bar"><div class="score-fill score-fill-useful" style="width: {{.Scores.Usefulness}}%"></div></div>
                            <span>有用度: {{.Scores.Usefulness}}/100</span>
                        </div>
                        <div class="total-score quality-{{.QualityClass}}">综合评分: {{printf "%.1f" .Scores.Total}}/100 ({{.Quality}})</div>
                    </div>
                </div>
                {{end}}
            </div>
        </div>
        {{end}}
    </section>
    {{end}}
</div>
{{end}}
{{end}}
`
