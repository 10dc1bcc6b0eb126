package dlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetLoggerNilFallsBackToNop(t *testing.T) {
	SetLogger(nil)
	assert.NotNil(t, L())
	SwapExecuted(true, 1, 1, 0) // must not panic against the nop logger
}

func TestLoggingHelpersEmitExpectedMessages(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	VolatilityUpdate(1, 2, 3, 4)
	RewardRateUpdate(100, 50)
	SwapExecuted(true, 1000, 900, 10)
	CompositionFeeCharged(0, 19, 0, 1, 0)

	messages := make([]string, 0, logs.Len())
	for _, entry := range logs.All() {
		messages = append(messages, entry.Message)
	}
	assert.Contains(t, messages, "volatility_parameter_update")
	assert.Contains(t, messages, "reward_rate_update")
	assert.Contains(t, messages, "swap_executed")
	assert.Contains(t, messages, "composition_fee_charged")
}
