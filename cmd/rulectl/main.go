package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/meoying/shardingrule/config/sharding"
	"github.com/meoying/shardingrule/internal/sharding/holder"
	"github.com/meoying/shardingrule/internal/sharding/rule"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		panic(err)
	}
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	l := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ruleCfg, err := sharding.LoadFile(cfg.RuleFile)
	if err != nil {
		panic(fmt.Errorf("初始化读取配置文件失败 %w", err))
	}
	reg := prometheus.NewRegistry()
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	h, err := holder.New(ruleCfg, ruleCfg.DataSourceNames(),
		holder.WithLogger(l),
		holder.WithRegisterer(reg),
		holder.WithRuleOptions(rule.WithLogger(l)),
		holder.OnReload(func(r *rule.ShardingRule) {
			if err := printRule(ctx, os.Stdout, r, cfg); err != nil {
				l.Error("输出分片规则失败", slog.Any("err", err))
			}
		}))
	if err != nil {
		panic(fmt.Errorf("创建分片规则失败 %w", err))
	}
	if !cfg.Watch {
		return
	}

	if err = h.WatchFile(cfg.RuleFile); err != nil {
		panic(err)
	}
	if cfg.MetricsAddr != "" {
		server := &http.Server{Addr: cfg.MetricsAddr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				l.Error("指标服务退出", slog.Any("err", err))
			}
		}()
		defer server.Close()
	}
	<-ctx.Done()
}

// printRule 指定了逻辑表时输出该表命中的数据节点，否则输出全部逻辑表
func printRule(ctx context.Context, w io.Writer, r *rule.ShardingRule, cfg Config) error {
	if cfg.Table == "" {
		for _, tr := range r.TableRules() {
			fmt.Fprintln(w, tr)
		}
		for _, name := range r.BroadcastTables() {
			fmt.Fprintf(w, "%s => 广播表\n", name)
		}
		return nil
	}
	conditions, err := cfg.conditions()
	if err != nil {
		return err
	}
	nodes, err := r.Route(ctx, cfg.Table, conditions)
	if err != nil {
		return err
	}
	for _, node := range nodes {
		fmt.Fprintln(w, node)
	}
	return nil
}
