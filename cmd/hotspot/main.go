package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/go-kratos/kratos/v2"
	"github.com/joho/godotenv"

	"github.com/zhouyitao000/productideaauto/internal/analyzer"
	"github.com/zhouyitao000/productideaauto/internal/app"
	"github.com/zhouyitao000/productideaauto/internal/config"
	"github.com/zhouyitao000/productideaauto/internal/history"
	"github.com/zhouyitao000/productideaauto/internal/hotsearch"
	"github.com/zhouyitao000/productideaauto/internal/llm"
	"github.com/zhouyitao000/productideaauto/internal/logger"
	"github.com/zhouyitao000/productideaauto/internal/report"
	searchfactory "github.com/zhouyitao000/productideaauto/internal/search/factory"
	"github.com/zhouyitao000/productideaauto/internal/server"
	"github.com/zhouyitao000/productideaauto/internal/storage"
)

// Name 服务名称
const Name = "hotspot"

var (
	flagconf   string
	addr       string
	once       bool
	useExample bool
)

func init() {
	flag.StringVar(&flagconf, "conf", "configs/config.yaml", "config path, eg: -conf config.yaml")
	flag.StringVar(&addr, "addr", "", "listen address, overrides server.addr in config")
	flag.BoolVar(&once, "once", false, "run a single analysis cycle and exit")
	flag.BoolVar(&useExample, "use-example", false, "use example data instead of the hot-search API")
}

func main() {
	flag.Parse()

	// .env 里的环境变量在读配置前注入
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(flagconf)
	if err != nil {
		log.Fatalf("无法加载配置文件: %v", err)
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}
	logger.Log.Info("启动热点产品创意分析...")

	// 全局唯一的时间基准，批次时间戳和小时桶都由它决定
	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		loc = time.Local
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	searcher, err := searchfactory.NewSearcher(cfg)
	if err != nil {
		logger.Log.Fatalf("搜索客户端初始化失败: %v", err)
	}
	generator, err := llm.NewGenerator(ctx, cfg)
	if err != nil {
		logger.Log.Fatalf("LLM 初始化失败: %v", err)
	}

	var archive *storage.Archive
	if cfg.DB.Host != "" {
		a, err := storage.NewArchive(cfg.DB)
		if err != nil {
			logger.Log.Errorf("无法连接数据库: %v，跳过归档", err)
		} else {
			archive = a
			defer archive.Close()
			logger.Log.Info("已成功连接到数据库")
		}
	}

	fetcher := hotsearch.NewClient(cfg.TianAPIKey, cfg.MaxTopics)
	an := analyzer.New(searcher, generator, cfg.Concurrency.Workers, loc)
	store := history.NewStore(cfg.HistoryDir)

	application := app.New(cfg, fetcher, an, store, archive, loc, !useExample)

	if once {
		if err := application.RunCycle(ctx); err != nil {
			logger.Log.Errorf("分析周期失败: %v", err)
			os.Exit(1)
		}
		return
	}

	// 调度器后台循环，HTTP 服务提供最近一次报告
	go application.RunLoop(ctx)

	httpSrv := server.NewHTTPServer(cfg.Server, report.Path(cfg.OutputDir))
	kapp := kratos.New(
		kratos.Name(Name),
		kratos.Server(httpSrv),
	)
	if err := kapp.Run(); err != nil {
		logger.Log.Fatalf("服务退出: %v", err)
	}
}
