package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	RuleFile    string   `mapstructure:"config"`
	Table       string   `mapstructure:"table"`
	Values      []string `mapstructure:"value"`
	Watch       bool     `mapstructure:"watch"`
	MetricsAddr string   `mapstructure:"metrics-addr"`
	Debug       bool     `mapstructure:"debug"`
}

// loadConfig 命令行参数优先，没有指定时读取 RULECTL_ 开头的环境变量
func loadConfig(args []string) (Config, error) {
	fs := pflag.NewFlagSet("rulectl", pflag.ContinueOnError)
	fs.String("config", "config/sharding.yaml", "分片规则配置文件路径")
	fs.String("table", "", "逻辑表，为空时输出全部逻辑表")
	fs.StringArray("value", nil, "分片列的取值，格式为 column=v1,v2，可以重复指定")
	fs.Bool("watch", false, "监听配置文件，变化时重新加载并输出")
	fs.String("metrics-addr", "", "监听配置文件时暴露指标的地址，例如 :9090")
	fs.Bool("debug", false, "输出调试日志")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetEnvPrefix("rulectl")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("解析命令行参数失败 %w", err)
	}
	return cfg, nil
}

// conditions 把 column=v1,v2 解析成分片条件
func (c Config) conditions() (map[string][]any, error) {
	res := make(map[string][]any, len(c.Values))
	for _, each := range c.Values {
		column, values, ok := strings.Cut(each, "=")
		column = strings.TrimSpace(column)
		if !ok || column == "" {
			return nil, fmt.Errorf("非法的分片列取值 %q", each)
		}
		for _, val := range strings.Split(values, ",") {
			res[column] = append(res[column], strings.TrimSpace(val))
		}
	}
	return res, nil
}
