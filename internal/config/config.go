package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"120"` // 需要覆盖求解器的耗时
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Calendar struct {
		Timezone string `env:"TIMEZONE" envDefault:"Asia/Shanghai"`
	} `envPrefix:"CALENDAR_"`
	Solver struct {
		URL             string  `env:"URL,required"`
		Timeout         int     `env:"TIMEOUT" envDefault:"90"`
		ObjectiveWeight float64 `env:"OBJECTIVE_WEIGHT" envDefault:"1"` // 求解器按最小化处理时设置为 -1
	} `envPrefix:"SOLVER_"`
	Cache struct {
		MaxSize       int `env:"MAX_SIZE" envDefault:"1000"`
		TTL           int `env:"TTL_MS" envDefault:"500"`
		StatsInterval int `env:"STATS_INTERVAL" envDefault:"10"`
	} `envPrefix:"CACHE_"`
	JWT struct {
		Secret string `env:"SECRET,required"`
	} `envPrefix:"JWT_"`
	RabbitMQ struct {
		// DSN 为空时事件只写入日志
		DSN            string `env:"DSN"`
		Queue          string `env:"QUEUE" envDefault:"optimization_events"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host                string `env:"HOST" envDefault:"localhost"`
		Port                int    `env:"PORT" envDefault:"6379"`
		Password            string `env:"PASSWORD,required"`
		OperationExpiration int    `env:"OPERATION_EXPIRATION" envDefault:"10"`
		LockExpiration      int    `env:"LOCK_EXPIRATION" envDefault:"120"`
	} `envPrefix:"REDIS_"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// 只返回第一个错误使得日志更清晰
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	return cfg, nil
}
