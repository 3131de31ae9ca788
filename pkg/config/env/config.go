package env

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/code-payments/code-sdk-go/pkg/config"
	"github.com/code-payments/code-sdk-go/pkg/config/wrapper"
)

type conf struct {
	key string
}

// NewConfig returns a config backed by an environment variable. The variable
// is read on every Get, so changes are picked up without a restart.
func NewConfig(key string) config.Config {
	return &conf{
		key: strings.ToUpper(key),
	}
}

// Get implements Config.Get
func (c *conf) Get(_ context.Context) (interface{}, error) {
	value, ok := os.LookupEnv(c.key)
	if !ok || len(value) == 0 {
		return nil, config.ErrNoValue
	}
	return []byte(value), nil
}

// Shutdown implements Config.Shutdown
func (c *conf) Shutdown() {
}

// NewUint64Config creates a env-based uint64 config
func NewUint64Config(key string, defaultValue uint64) config.Uint64 {
	return wrapper.NewUint64Config(NewConfig(key), defaultValue)
}

// NewStringConfig creates a env-based string config
func NewStringConfig(key string, defaultValue string) config.String {
	return wrapper.NewStringConfig(NewConfig(key), defaultValue)
}

// NewBoolConfig creates a env-based bool config
func NewBoolConfig(key string, defaultValue bool) config.Bool {
	return wrapper.NewBoolConfig(NewConfig(key), defaultValue)
}

// NewDurationConfig creates a env-based duration config
func NewDurationConfig(key string, defaultValue time.Duration) config.Duration {
	return wrapper.NewDurationConfig(NewConfig(key), defaultValue)
}
