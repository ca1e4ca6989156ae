package app

import (
	"context"
	"fmt"
	"time"

	"github.com/zhouyitao000/productideaauto/internal/analyzer"
	"github.com/zhouyitao000/productideaauto/internal/config"
	"github.com/zhouyitao000/productideaauto/internal/history"
	"github.com/zhouyitao000/productideaauto/internal/hotsearch"
	"github.com/zhouyitao000/productideaauto/internal/logger"
	"github.com/zhouyitao000/productideaauto/internal/model"
	"github.com/zhouyitao000/productideaauto/internal/report"
	"github.com/zhouyitao000/productideaauto/internal/storage"
)

// retryBackoff 周期失败后的固定重试间隔
const retryBackoff = 60 * time.Second

// platforms 每个周期处理的平台，顺序固定
var platforms = []model.Platform{model.PlatformWeibo, model.PlatformDouyin}

// App 串起抓取、分析、历史、归档和报告的一次完整周期
type App struct {
	cfg      *config.Config
	fetcher  *hotsearch.Client
	analyzer *analyzer.Analyzer
	store    *history.Store
	archive  *storage.Archive // 可为 nil
	loc      *time.Location
	useAPI   bool
}

// New 组装应用；archive 传 nil 表示不启用数据库归档
func New(cfg *config.Config, fetcher *hotsearch.Client, an *analyzer.Analyzer,
	store *history.Store, archive *storage.Archive, loc *time.Location, useAPI bool) *App {
	return &App{
		cfg:      cfg,
		fetcher:  fetcher,
		analyzer: an,
		store:    store,
		archive:  archive,
		loc:      loc,
		useAPI:   useAPI,
	}
}

// RunCycle 一次完整分析周期：逐平台抓取、分析、入库，最后渲染报告
func (a *App) RunCycle(ctx context.Context) error {
	logger.Log.Info("=== 开始新一轮分析周期 ===")

	for _, platform := range platforms {
		topics := a.fetcher.Fetch(ctx, platform, a.useAPI)
		if len(topics) == 0 {
			logger.Log.Warnf("%s 平台没有可分析的话题，跳过", platform)
			continue
		}

		batch := a.analyzer.Run(ctx, topics)
		a.store.Update(platform, batch)

		if a.archive != nil {
			if err := a.archive.SaveBatch(platform, batch); err != nil {
				logger.Log.Errorf("批次归档失败 [%s]: %v", platform, err)
			}
		}
	}

	now := time.Now().In(a.loc)
	weibo := a.store.Snapshot(model.PlatformWeibo)
	douyin := a.store.Snapshot(model.PlatformDouyin)
	if err := report.Render(weibo, douyin, now, a.cfg.OutputDir); err != nil {
		return fmt.Errorf("生成报告失败: %w", err)
	}

	logger.Log.Info("=== 分析周期完成，报告已更新 ===")
	return nil
}

// RunLoop 调度循环：一个周期完整结束后再睡下一个间隔
// 周期出错记日志并固定退避 60 秒；ctx 取消只打断睡眠，不打断进行中的周期
func (a *App) RunLoop(ctx context.Context) {
	interval := time.Duration(a.cfg.Interval) * time.Second
	if interval <= 0 {
		interval = time.Hour
	}
	logger.Log.Infof("调度器启动，周期间隔 %s", interval)

	for {
		sleep := interval
		if err := a.RunCycle(ctx); err != nil {
			logger.Log.Errorf("分析周期失败: %v，%s 后重试", err, retryBackoff)
			sleep = retryBackoff
		}

		select {
		case <-ctx.Done():
			logger.Log.Info("调度器退出")
			return
		case <-time.After(sleep):
		}
	}
}
