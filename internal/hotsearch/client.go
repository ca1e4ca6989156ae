package hotsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/zhouyitao000/productideaauto/internal/logger"
	"github.com/zhouyitao000/productideaauto/internal/model"
)

// TianAPI 热搜榜接口地址
const (
	defaultWeiboURL  = "https://apis.tianapi.com/weibohot/index"
	defaultDouyinURL = "https://apis.tianapi.com/douyinhot/index"
)

// Client 热搜榜客户端；任何失败都降级为示例数据，不向外抛错
type Client struct {
	apiKey    string
	maxTopics int
	client    *http.Client

	weiboURL  string
	douyinURL string
}

// NewClient 创建热搜客户端
func NewClient(apiKey string, maxTopics int) *Client {
	if maxTopics <= 0 {
		maxTopics = 5
	}
	return &Client{
		apiKey:    apiKey,
		maxTopics: maxTopics,
		client:    &http.Client{Timeout: 10 * time.Second},
		weiboURL:  defaultWeiboURL,
		douyinURL: defaultDouyinURL,
	}
}

// envelope TianAPI 响应外壳
type envelope struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Result struct {
		List []json.RawMessage `json:"list"`
	} `json:"result"`
}

// weiboItem 微博热搜条目
type weiboItem struct {
	HotWord    string `json:"hotword"`
	HotWordNum string `json:"hotwordnum"`
	HotTag     string `json:"hottag"`
}

// douyinItem 抖音热点条目
type douyinItem struct {
	Word     string          `json:"word"`
	HotIndex json.RawMessage `json:"hotindex"`
}

// Fetch 拉取并归一化一个平台的热搜列表
// useAPI 为 false 或接口异常时返回固定示例数据
func (c *Client) Fetch(ctx context.Context, platform model.Platform, useAPI bool) []model.Topic {
	if !useAPI {
		return c.exampleTopics(platform)
	}

	raw, err := c.fetchRaw(ctx, platform)
	if err != nil {
		logger.Log.Errorf("热搜接口调用失败 [%s]: %v，降级为示例数据", platform, err)
		return c.exampleTopics(platform)
	}

	topics := c.normalize(raw, platform)
	logger.Log.Infof("成功获取 %d 条 %s 热搜", len(topics), platform)
	return topics
}

func (c *Client) fetchRaw(ctx context.Context, platform model.Platform) ([]json.RawMessage, error) {
	endpoint := c.weiboURL
	if platform == model.PlatformDouyin {
		endpoint = c.douyinURL
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("tianapi error (status %d): %s", res.StatusCode, string(body))
	}

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response failed: %w", err)
	}
	if env.Code != 200 {
		return nil, fmt.Errorf("tianapi business error (code %d): %s", env.Code, env.Msg)
	}

	return env.Result.List, nil
}

// normalize 截断到 maxTopics 后字段按平台归一化
// rank 按保留下来的条目连续编号，跳过的坏条目不留空号
func (c *Client) normalize(raw []json.RawMessage, platform model.Platform) []model.Topic {
	if len(raw) > c.maxTopics {
		raw = raw[:c.maxTopics]
	}

	topics := make([]model.Topic, 0, len(raw))
	for _, item := range raw {
		var topic model.Topic
		switch platform {
		case model.PlatformDouyin:
			var d douyinItem
			if err := json.Unmarshal(item, &d); err != nil {
				continue
			}
			topic = model.Topic{
				Title:    d.Word,
				HotValue: formatHotIndex(d.HotIndex),
				Label:    "", // 抖音榜单通常没有标签
				Source:   model.PlatformDouyin,
			}
		default:
			var w weiboItem
			if err := json.Unmarshal(item, &w); err != nil {
				continue
			}
			topic = model.Topic{
				Title:    w.HotWord,
				HotValue: strings.TrimSpace(w.HotWordNum),
				Label:    w.HotTag,
				Source:   model.PlatformWeibo,
			}
		}
		if topic.Title == "" {
			continue
		}
		topic.Rank = len(topics) + 1
		topics = append(topics, topic)
	}
	return topics
}

// formatHotIndex 把抖音热度指数换算成 "N.N万"，解析不了就原样返回
func formatHotIndex(raw json.RawMessage) string {
	s := strings.Trim(string(raw), `"`)
	if s == "" || s == "null" {
		return "0"
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return fmt.Sprintf("%.1f万", n/10000)
}

// exampleTopics 固定的示例数据，接口不可用时保证流程可以走完
func (c *Client) exampleTopics(platform model.Platform) []model.Topic {
	return []model.Topic{
		{Rank: 1, Title: fmt.Sprintf("示例%s话题1", platform), HotValue: "100万", Label: "热", Source: platform},
		{Rank: 2, Title: fmt.Sprintf("示例%s话题2", platform), HotValue: "80万", Label: "新", Source: platform},
	}
}
