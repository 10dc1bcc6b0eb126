// Package dlog provides the package-level structured logger shared by the
// dlmm packages. The teacher only calls the stdlib log package directly
// from main.go, but already carries go.uber.org/zap as an indirect
// dependency (pulled in transitively through its Solana RPC stack); this
// package promotes zap to a direct dependency for the kind of service-level
// structured logging other pack repos (e.g. blinklabs-io-shai) use it for.
package dlog

import "go.uber.org/zap"

var logger = zap.NewNop()

// SetLogger replaces the package-level logger, e.g. with zap.NewProduction()
// in a long-running service or zap.NewDevelopment() locally. The zero value
// is a no-op logger so library code stays silent until a host wires one in.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// L returns the current package-level logger.
func L() *zap.Logger {
	return logger
}

// VolatilityUpdate logs a reference/accumulator update at debug level, so it
// compiles out of cost in a production config that hasn't enabled debug.
func VolatilityUpdate(activeID int32, volatilityAccumulator, volatilityReference uint32, indexReference int32) {
	logger.Debug("volatility_parameter_update",
		zap.Int32("active_id", activeID),
		zap.Uint32("volatility_accumulator", volatilityAccumulator),
		zap.Uint32("volatility_reference", volatilityReference),
		zap.Int32("index_reference", indexReference),
	)
}

// RewardRateUpdate logs a reward stream's rate recomputation after a
// funding deposit.
func RewardRateUpdate(rewardDurationEnd uint64, fundingAmount uint64) {
	logger.Info("reward_rate_update",
		zap.Uint64("reward_duration_end", rewardDurationEnd),
		zap.Uint64("funding_amount", fundingAmount),
	)
}

// SwapExecuted logs a completed swap at info level.
func SwapExecuted(swapForY bool, amountIn, amountOut, fee uint64) {
	logger.Info("swap_executed",
		zap.Bool("swap_for_y", swapForY),
		zap.Uint64("amount_in", amountIn),
		zap.Uint64("amount_out", amountOut),
		zap.Uint64("fee", fee),
	)
}

// CompositionFeeCharged logs an unbalanced deposit at the active bin paying
// a composition fee: the total fee on each side and the protocol-credited
// part of it.
func CompositionFeeCharged(binID int32, feeX, feeY, protocolFeeX, protocolFeeY uint64) {
	logger.Info("composition_fee_charged",
		zap.Int32("bin_id", binID),
		zap.Uint64("fee_x", feeX),
		zap.Uint64("fee_y", feeY),
		zap.Uint64("protocol_fee_x", protocolFeeX),
		zap.Uint64("protocol_fee_y", protocolFeeY),
	)
}
