// internal/pkg/config/config.go
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// 分配工作流的两种执行策略，对应同一契约的两条实现路径。
const (
	StrategyTransaction = "transaction" // 服务端编排：一条由服务控制的事务
	StrategyProcedure   = "procedure"   // 封装路径：委托给数据库内的原子例程
)

// Config 是 warehouse-service 的全部运行配置。
type Config struct {
	Service    ServiceConfig    `yaml:"service"`
	MySQL      MySQLConfig      `yaml:"mysql"`
	Allocation AllocationConfig `yaml:"allocation"`
}

type ServiceConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type MySQLConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type AllocationConfig struct {
	// Strategy 选择 /api/warehouse/add-product 默认走哪条路径
	Strategy string `yaml:"strategy"`
}

// Default 返回内置默认值，本地启动无需任何配置文件。
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		MySQL: MySQLConfig{
			DSN:             "root:root@tcp(localhost:3306)/warehouse?parseTime=true",
			MaxOpenConns:    50,
			MaxIdleConns:    10,
			ConnMaxLifetime: time.Hour,
		},
		Allocation: AllocationConfig{
			Strategy: StrategyTransaction,
		},
	}
}

// Load 按优先级合并配置：默认值 < yaml 文件 < 环境变量。
// path 为空表示不读取文件。
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config file %s", path)
		}
	}

	if v, ok := os.LookupEnv("HTTP_ADDR"); ok {
		cfg.Service.Addr = v
	}
	if v, ok := os.LookupEnv("MYSQL_DSN"); ok {
		cfg.MySQL.DSN = v
	}
	if v, ok := os.LookupEnv("ALLOCATION_STRATEGY"); ok {
		cfg.Allocation.Strategy = v
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Allocation.Strategy {
	case StrategyTransaction, StrategyProcedure:
	default:
		return errors.Errorf("unknown allocation strategy %q", c.Allocation.Strategy)
	}
	if c.MySQL.DSN == "" {
		return errors.New("mysql dsn must not be empty")
	}
	return nil
}
