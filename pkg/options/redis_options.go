package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*RedisOptions)(nil)

// RedisOptions configures the redis backend of the live state store.
type RedisOptions struct {
	Addr         string        `json:"addr" mapstructure:"addr"`
	Username     string        `json:"username" mapstructure:"username"`
	Password     string        `json:"password" mapstructure:"password"`
	DB           int           `json:"db" mapstructure:"db"`
	DialTimeout  time.Duration `json:"dial-timeout" mapstructure:"dial-timeout"`
	WriteTimeout time.Duration `json:"write-timeout" mapstructure:"write-timeout"`
	PoolSize     int           `json:"pool-size" mapstructure:"pool-size"`
}

func NewRedisOptions() *RedisOptions {
	return &RedisOptions{
		Addr:         "localhost:6379",
		DialTimeout:  5 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     20,
	}
}

func (o *RedisOptions) Validate() []error {
	errors := []error{}

	if err := ValidateAddress(o.Addr); err != nil {
		errors = append(errors, fmt.Errorf("redis.addr: %w", err))
	}
	if o.DB < 0 {
		errors = append(errors, fmt.Errorf("redis.db must not be negative"))
	}

	return errors
}

func (o *RedisOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Addr, "redis.addr", o.Addr, "Redis server address (host:port).")
	fs.StringVar(&o.Username, "redis.username", o.Username, "Redis ACL username.")
	fs.StringVar(&o.Password, "redis.password", o.Password, "Redis password.")
	fs.IntVar(&o.DB, "redis.db", o.DB, "Redis logical database.")
	fs.DurationVar(&o.DialTimeout, "redis.dial-timeout", o.DialTimeout, "Timeout for establishing redis connections.")
	fs.DurationVar(&o.WriteTimeout, "redis.write-timeout", o.WriteTimeout, "Timeout for redis writes.")
	fs.IntVar(&o.PoolSize, "redis.pool-size", o.PoolSize, "Maximum number of redis connections.")
}
