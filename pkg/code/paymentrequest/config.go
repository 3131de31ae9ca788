package paymentrequest

import (
	"time"

	"github.com/code-payments/code-sdk-go/pkg/config"
	"github.com/code-payments/code-sdk-go/pkg/config/env"
	"github.com/code-payments/code-sdk-go/pkg/config/memory"
	"github.com/code-payments/code-sdk-go/pkg/config/wrapper"
)

const (
	envConfigPrefix = "PAYMENT_REQUEST_SESSION_"

	StatusTimeoutConfigEnvName = envConfigPrefix + "STATUS_TIMEOUT"
	defaultStatusTimeout       = 0

	SendTimeoutConfigEnvName = envConfigPrefix + "SEND_TIMEOUT"
	defaultSendTimeout       = 0

	DisableStatusCheckConfigEnvName = envConfigPrefix + "DISABLE_STATUS_CHECK"
	defaultDisableStatusCheck       = false
)

type conf struct {
	statusTimeout      config.Duration
	sendTimeout        config.Duration
	disableStatusCheck config.Bool
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			statusTimeout:      env.NewDurationConfig(StatusTimeoutConfigEnvName, defaultStatusTimeout),
			sendTimeout:        env.NewDurationConfig(SendTimeoutConfigEnvName, defaultSendTimeout),
			disableStatusCheck: env.NewBoolConfig(DisableStatusCheckConfigEnvName, defaultDisableStatusCheck),
		}
	}
}

type testOverrides struct {
	statusTimeout      time.Duration
	sendTimeout        time.Duration
	disableStatusCheck bool
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		return &conf{
			statusTimeout:      wrapper.NewDurationConfig(memory.NewConfig(overrides.statusTimeout), defaultStatusTimeout),
			sendTimeout:        wrapper.NewDurationConfig(memory.NewConfig(overrides.sendTimeout), defaultSendTimeout),
			disableStatusCheck: wrapper.NewBoolConfig(memory.NewConfig(overrides.disableStatusCheck), defaultDisableStatusCheck),
		}
	}
}
