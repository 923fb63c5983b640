// Package config 提供引擎配置的默认值、YAML 加载与环境变量覆盖。
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config 是引擎的全部可配置项（支持 YAML）。
type Config struct {
	// Namespace 是所有存储 key 的命名空间前缀（默认目录名）
	Namespace string `yaml:"namespace"`

	// NearestNeighbors 是预测时使用的邻域大小 K
	NearestNeighbors int `yaml:"nearest_neighbors"`

	// NumOfRecsStore 是每个用户保留的推荐条数上限
	NumOfRecsStore int `yaml:"num_of_recs_store"`

	// FactorLeastSimilarLeastLiked 为 true 时，候选生成额外并入
	// 最不相似邻居的不喜欢集合。默认关闭：它倾向于推荐被普遍
	// 讨厌的物品
	FactorLeastSimilarLeastLiked bool `yaml:"factor_least_similar_least_liked"`

	// WilsonZ 是 Wilson 下界的置信系数（1.96 ≈ 95% 置信区间）
	WilsonZ float64 `yaml:"wilson_z"`

	// MaxConcurrent 限制单次重建内的并发存储往返数（0 表示无限制）
	MaxConcurrent int `yaml:"max_concurrent"`

	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig 是存储连接参数。
type RedisConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	Auth string `yaml:"auth"`
	DB   int    `yaml:"db"`
}

// Addr 返回 host:port 形式的连接地址。
func (r RedisConfig) Addr() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

// Default 返回全部默认值的配置。
func Default() *Config {
	return &Config{
		Namespace:        "movie",
		NearestNeighbors: 5,
		NumOfRecsStore:   30,
		WilsonZ:          1.96,
		Redis: RedisConfig{
			Host: "127.0.0.1",
			Port: 6379,
		},
	}
}

// LoadFromYAML 从 YAML 文件加载配置，未出现的字段保留默认值。
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}

// ApplyEnv 用 PROCYON_REDIS_URL / PROCYON_REDIS_PORT / PROCYON_REDIS_AUTH
// 环境变量覆盖存储连接参数。
func (c *Config) ApplyEnv() {
	if host := os.Getenv("PROCYON_REDIS_URL"); host != "" {
		c.Redis.Host = host
	}
	if port := os.Getenv("PROCYON_REDIS_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Redis.Port = p
		}
	}
	if auth := os.Getenv("PROCYON_REDIS_AUTH"); auth != "" {
		c.Redis.Auth = auth
	}
}
