package wrapper

import (
	"context"
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/code-sdk-go/pkg/config"
	"github.com/code-payments/code-sdk-go/pkg/config/memory"
)

type wrapperTestCase[T any] struct {
	defaultValue   T
	overridenValue T
	encode         func(T) []byte
	invalidBytes   bool
	unsupported    interface{}
	newWrapper     func(override config.Config, defaultValue T) config.Value[T]
}

func (tc wrapperTestCase[T]) run(t *testing.T) {
	ctx := context.Background()
	mock := memory.NewConfig(nil)
	wrapper := tc.newWrapper(mock, tc.defaultValue)

	assertValue := func(expected T, expectError bool) {
		val, err := wrapper.GetSafe(ctx)
		if expectError {
			require.Error(t, err)
		} else {
			require.NoError(t, err)
		}
		assert.Equal(t, expected, val)
		assert.Equal(t, expected, wrapper.Get(ctx))
	}

	// Return the default value when no override is set
	assertValue(tc.defaultValue, false)

	// The overriden value is returned when set
	mock.SetValue(tc.overridenValue)
	assertValue(tc.overridenValue, false)

	// The last observed config value is returned on error
	mock.InduceErrors()
	assertValue(tc.overridenValue, true)

	// The default value is returned when the override no longer has a value
	mock.StopInducingErrors()
	mock.ClearValue()
	assertValue(tc.defaultValue, false)

	// Conversion from a byte array
	mock.SetValue(tc.encode(tc.overridenValue))
	assertValue(tc.overridenValue, false)

	if tc.invalidBytes {
		mock.SetValue([]byte("cannot convert"))
		assertValue(tc.overridenValue, true)
	}

	// Unsupported source value types keep the last value
	mock.SetValue(tc.unsupported)
	val, err := wrapper.GetSafe(ctx)
	assert.Equal(t, ErrUnsuportedConversion, err)
	assert.Equal(t, tc.overridenValue, val)

	// Shutdown via the wrapper
	wrapper.Shutdown()
	_, err = wrapper.GetSafe(ctx)
	assert.Equal(t, config.ErrShutdown, err)
}

func TestBoolConfig(t *testing.T) {
	wrapperTestCase[bool]{
		defaultValue:   true,
		overridenValue: false,
		encode:         func(v bool) []byte { return []byte(strconv.FormatBool(v)) },
		invalidBytes:   true,
		unsupported:    "not supported",
		newWrapper: func(override config.Config, defaultValue bool) config.Value[bool] {
			return NewBoolConfig(override, defaultValue)
		},
	}.run(t)
}

func TestUint64Config(t *testing.T) {
	wrapperTestCase[uint64]{
		defaultValue:   math.MaxUint64,
		overridenValue: 0,
		encode:         func(v uint64) []byte { return []byte(strconv.FormatUint(v, 10)) },
		invalidBytes:   true,
		unsupported:    "not supported",
		newWrapper: func(override config.Config, defaultValue uint64) config.Value[uint64] {
			return NewUint64Config(override, defaultValue)
		},
	}.run(t)

	mock := memory.NewConfig(uint(42))
	assert.Equal(t, uint64(42), NewUint64Config(mock, 0).Get(context.Background()))
}

func TestStringConfig(t *testing.T) {
	wrapperTestCase[string]{
		defaultValue:   "default",
		overridenValue: "override",
		encode:         func(v string) []byte { return []byte(v) },
		unsupported:    1234,
		newWrapper: func(override config.Config, defaultValue string) config.Value[string] {
			return NewStringConfig(override, defaultValue)
		},
	}.run(t)
}

func TestDurationConfig(t *testing.T) {
	wrapperTestCase[time.Duration]{
		defaultValue:   30 * time.Second,
		overridenValue: -2 * time.Hour,
		encode:         func(v time.Duration) []byte { return []byte(v.String()) },
		invalidBytes:   true,
		unsupported:    "not supported",
		newWrapper: func(override config.Config, defaultValue time.Duration) config.Value[time.Duration] {
			return NewDurationConfig(override, defaultValue)
		},
	}.run(t)
}
