package main

import (
	"context"
	"log"

	"github.com/gagliardetto/solana-go"
	"github.com/solana-zh/solroute/pkg/dlmm/bin"
	"github.com/solana-zh/solroute/pkg/dlmm/clockfeed"
	"github.com/solana-zh/solroute/pkg/dlmm/config"
	"github.com/solana-zh/solroute/pkg/dlmm/dlog"
	"github.com/solana-zh/solroute/pkg/dlmm/feemath"
	"github.com/solana-zh/solroute/pkg/dlmm/pair"
	"github.com/solana-zh/solroute/pkg/dlmm/quote"
	"github.com/solana-zh/solroute/pkg/sol"
	"go.uber.org/zap"
	"lukechampine.com/uint128"
)

var (
	rpc = ""

	binStep  = uint16(10)
	amountIn = uint64(10_000_000)
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	dlog.SetLogger(logger)

	if _, err := config.Load(); err != nil {
		dlog.L().Fatal("failed to load config", zap.Error(err))
	}

	ctx := context.Background()
	solClient := sol.NewClient(rpc, 20) // 20 requests per second

	p := &pair.Pair{
		Parameters: feemath.DefaultStaticParameters(),
		BinStep:    binStep,
		Status:     pair.StatusEnabled,
		ActiveID:   0,
		TokenYMint: solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"),
	}

	activeArray := &bin.BinArray{Index: 0}
	activeBin, err := activeArray.GetBinMut(0)
	if err != nil {
		dlog.L().Fatal("failed to look up active bin", zap.Error(err))
	}
	activeBin.AmountX = 50_000_000_000
	activeBin.AmountY = 50_000_000_000
	activeBin.LiquiditySupply = uint128.From64(1).Lsh(64)

	currentPoint, err := clockfeed.CurrentPoint(ctx, solClient, p.ActivationType)
	if err != nil {
		dlog.L().Warn("falling back to point 0, clock unavailable", zap.Error(err))
		currentPoint = 0
	}
	currentTimestamp, err := clockfeed.CurrentTimestamp(ctx, solClient)
	if err != nil {
		dlog.L().Warn("falling back to timestamp 0, clock unavailable", zap.Error(err))
		currentTimestamp = 0
	}

	result, err := quote.ExactIn(p, []*bin.BinArray{activeArray}, amountIn, true, currentPoint, currentTimestamp, nil, quote.NoTransferFee{}, quote.NoTransferFee{})
	if err != nil {
		dlog.L().Fatal("quote failed", zap.Error(err))
	}

	dlog.L().Info("quoted swap",
		zap.Uint64("amount_in", amountIn),
		zap.Uint64("amount_out", result.AmountOut),
		zap.Uint64("fee", result.Fee),
	)
}
