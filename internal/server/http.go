package server

import (
	nethttp "net/http"
	"os"
	"time"

	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/zhouyitao000/productideaauto/internal/config"
)

// placeholderHTML 首个周期完成前的过渡页面，5 秒自动刷新
const placeholderHTML = `<html>
    <head><meta charset="UTF-8"><meta http-equiv="refresh" content="5"></head>
    <body>
        <h1>正在生成首份报告...</h1>
        <p>系统刚刚启动，正在抓取和分析数据，请稍等几分钟。</p>
    </body>
</html>`

// NewHTTPServer 创建报告服务：根路径返回最近一次生成的报告
// 报告尚不存在时返回 202 过渡页，后续周期失败也继续提供最后一份成功产物
func NewHTTPServer(c config.ServerConfig, reportPath string) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
	}
	if c.Addr != "" {
		opts = append(opts, http.Address(c.Addr))
	}
	if c.Timeout != "" {
		if d, err := time.ParseDuration(c.Timeout); err == nil {
			opts = append(opts, http.Timeout(d))
		}
	}

	srv := http.NewServer(opts...)

	srv.HandleFunc("/", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.URL.Path != "/" {
			nethttp.NotFound(w, r)
			return
		}
		if _, err := os.Stat(reportPath); err != nil {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(nethttp.StatusAccepted)
			w.Write([]byte(placeholderHTML))
			return
		}
		nethttp.ServeFile(w, r, reportPath)
	})

	return srv
}
