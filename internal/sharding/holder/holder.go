// Package holder 持有当前生效的分片规则
// 规则只会整体替换：读方通过 Load 拿到的规则要么是旧的，要么是新的，不会看到构造了一半的规则
package holder

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/meoying/shardingrule/config/sharding"
	"github.com/meoying/shardingrule/internal/sharding/rule"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

type Option func(h *Holder)

func WithLogger(l *slog.Logger) Option {
	return func(h *Holder) {
		h.l = l
	}
}

// WithRegisterer 把重新加载的指标注册到 reg 上
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(h *Holder) {
		h.reg = reg
	}
}

// WithRuleOptions 每次构造规则时使用的选项
func WithRuleOptions(opts ...rule.Option) Option {
	return func(h *Holder) {
		h.ruleOpts = append(h.ruleOpts, opts...)
	}
}

// OnReload 新规则生效之后回调
func OnReload(fn func(r *rule.ShardingRule)) Option {
	return func(h *Holder) {
		h.listeners = append(h.listeners, fn)
	}
}

type Holder struct {
	current atomic.Pointer[rule.ShardingRule]

	// mu 保证同一时间只有一个写者
	mu          sync.Mutex
	dataSources []string

	ruleOpts  []rule.Option
	listeners []func(r *rule.ShardingRule)
	l         *slog.Logger
	reg       prometheus.Registerer

	reloadTotal *prometheus.CounterVec
	tables      prometheus.Gauge
}

func New(cfg *sharding.RuleConfig, dataSources []string, opts ...Option) (*Holder, error) {
	h := &Holder{
		l: slog.Default(),
		reloadTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sharding_rule_reload_total",
			Help: "分片规则重新加载的次数",
		}, []string{"result"}),
		tables: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sharding_rule_tables",
			Help: "当前生效的分片规则中逻辑表的数量",
		}),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.reg != nil {
		var err error
		if h.reloadTotal, err = register(h.reg, h.reloadTotal); err != nil {
			return nil, err
		}
		if h.tables, err = register(h.reg, h.tables); err != nil {
			return nil, err
		}
	}
	r, err := rule.New(cfg, dataSources, h.ruleOpts...)
	if err != nil {
		return nil, err
	}
	h.dataSources = dataSources
	h.publish(r)
	return h, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(T); ok {
			return existing, nil
		}
	}
	return c, err
}

// Load 返回当前生效的规则，不会阻塞
func (h *Holder) Load() *rule.ShardingRule {
	return h.current.Load()
}

// Reload 使用新的配置构造规则，构造失败时继续使用旧的规则
func (h *Holder) Reload(cfg *sharding.RuleConfig, dataSources []string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, err := rule.New(cfg, dataSources, h.ruleOpts...)
	if err != nil {
		h.reloadTotal.WithLabelValues(resultFailure).Inc()
		h.l.Error("重新加载分片规则失败，继续使用旧的规则", slog.Any("err", err))
		return err
	}
	h.dataSources = dataSources
	h.reloadTotal.WithLabelValues(resultSuccess).Inc()
	h.publish(r)
	h.l.Info("重新加载分片规则成功", slog.Int("tables", len(r.TableRules())))
	return nil
}

func (h *Holder) publish(r *rule.ShardingRule) {
	h.current.Store(r)
	h.tables.Set(float64(len(r.TableRules())))
	for _, fn := range h.listeners {
		fn(r)
	}
}

// WatchFile 监听配置文件，文件变化时重新加载
// 配置文件中没有声明数据源时沿用上一次的数据源
func (h *Holder) WatchFile(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("%w: %w", sharding.ErrConfigSyntaxInvalid, err)
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		h.l.Info("分片规则配置文件变化", slog.String("file", e.Name), slog.String("op", e.Op.String()))
		cfg, err := sharding.LoadFile(path)
		if err != nil {
			h.reloadTotal.WithLabelValues(resultFailure).Inc()
			h.l.Error("读取分片规则配置失败", slog.String("file", path), slog.Any("err", err))
			return
		}
		dataSources := cfg.DataSourceNames()
		if len(dataSources) == 0 {
			h.mu.Lock()
			dataSources = h.dataSources
			h.mu.Unlock()
		}
		_ = h.Reload(cfg, dataSources)
	})
	v.WatchConfig()
	return nil
}
