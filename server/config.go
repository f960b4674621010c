package server

import (
	"flag"
	"net"
	"os"
	"strings"

	"snowarena/game"
)

// Config 进程级配置：命令行参数 + PORT 环境变量
type Config struct {
	Addr       string
	MapPath    string
	StaticDir  string
	LogFile    string
	LogLevel   string
	LogStdout  bool
	EdgesBlock bool
}

// ParseConfig 解析命令行；PORT 环境变量存在时覆盖监听端口（默认 3000）
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var c Config
	fs.StringVar(&c.Addr, "addr", ":3000", "server listen address, e.g. :3000")
	fs.StringVar(&c.MapPath, "map", "", "tile map JSON file; empty uses the generated default map")
	fs.StringVar(&c.StaticDir, "static", "public", "static client directory")
	fs.StringVar(&c.LogFile, "log", "app.log", "log file path (rotated)")
	fs.StringVar(&c.LogLevel, "log-level", "info", "debug|info|warn|error")
	fs.BoolVar(&c.LogStdout, "log-stdout", false, "also write logs to stdout")
	fs.BoolVar(&c.EdgesBlock, "edges-block", false, "treat map edges as walls")
	if err := fs.Parse(args); err != nil {
		return c, err
	}
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		host, _, err := net.SplitHostPort(c.Addr)
		if err != nil {
			host = ""
		}
		c.Addr = net.JoinHostPort(host, port)
	}
	return c, nil
}

// WorldConfig 世界初始参数
func (c Config) WorldConfig() game.Config {
	wc := game.DefaultConfig()
	wc.EdgesBlock = c.EdgesBlock
	return wc
}

// LoadMap 读取地图文件，未指定时生成 50x50 默认地图
func (c Config) LoadMap() (*game.TileMap, error) {
	if c.MapPath == "" {
		return game.DefaultTileMap(50, 50), nil
	}
	return game.LoadTileMap(c.MapPath)
}
