package transport

import (
	"time"

	"github.com/code-payments/code-sdk-go/pkg/config"
	"github.com/code-payments/code-sdk-go/pkg/config/env"
	"github.com/code-payments/code-sdk-go/pkg/config/memory"
	"github.com/code-payments/code-sdk-go/pkg/config/wrapper"
)

const (
	envConfigPrefix = "PAYMENT_REQUEST_TRANSPORT_"

	UnaryRetryLimitConfigEnvName = envConfigPrefix + "UNARY_RETRY_LIMIT"
	defaultUnaryRetryLimit       = 3

	UnaryRetryBaseBackoffConfigEnvName = envConfigPrefix + "UNARY_RETRY_BASE_BACKOFF"
	defaultUnaryRetryBaseBackoff       = 100 * time.Millisecond

	UnaryRetryMaxBackoffConfigEnvName = envConfigPrefix + "UNARY_RETRY_MAX_BACKOFF"
	defaultUnaryRetryMaxBackoff       = time.Second

	MaxSendsPerSecondConfigEnvName = envConfigPrefix + "MAX_SENDS_PER_SECOND"
	defaultMaxSendsPerSecond       = 5

	StatusCacheSizeConfigEnvName = envConfigPrefix + "STATUS_CACHE_SIZE"
	defaultStatusCacheSize       = 1000
)

type conf struct {
	unaryRetryLimit       config.Uint64
	unaryRetryBaseBackoff config.Duration
	unaryRetryMaxBackoff  config.Duration
	maxSendsPerSecond     config.Uint64
	statusCacheSize       config.Uint64
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			unaryRetryLimit:       env.NewUint64Config(UnaryRetryLimitConfigEnvName, defaultUnaryRetryLimit),
			unaryRetryBaseBackoff: env.NewDurationConfig(UnaryRetryBaseBackoffConfigEnvName, defaultUnaryRetryBaseBackoff),
			unaryRetryMaxBackoff:  env.NewDurationConfig(UnaryRetryMaxBackoffConfigEnvName, defaultUnaryRetryMaxBackoff),
			maxSendsPerSecond:     env.NewUint64Config(MaxSendsPerSecondConfigEnvName, defaultMaxSendsPerSecond),
			statusCacheSize:       env.NewUint64Config(StatusCacheSizeConfigEnvName, defaultStatusCacheSize),
		}
	}
}

type testOverrides struct {
	unaryRetryLimit   uint64
	maxSendsPerSecond uint64
	statusCacheSize   uint64
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		return &conf{
			unaryRetryLimit:       wrapper.NewUint64Config(memory.NewConfig(overrides.unaryRetryLimit), defaultUnaryRetryLimit),
			unaryRetryBaseBackoff: wrapper.NewDurationConfig(memory.NewConfig(time.Millisecond), defaultUnaryRetryBaseBackoff),
			unaryRetryMaxBackoff:  wrapper.NewDurationConfig(memory.NewConfig(time.Millisecond), defaultUnaryRetryMaxBackoff),
			maxSendsPerSecond:     wrapper.NewUint64Config(memory.NewConfig(overrides.maxSendsPerSecond), defaultMaxSendsPerSecond),
			statusCacheSize:       wrapper.NewUint64Config(memory.NewConfig(overrides.statusCacheSize), defaultStatusCacheSize),
		}
	}
}
