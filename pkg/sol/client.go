// Package sol is a minimal Solana RPC client: just enough to fetch the
// Clock sysvar (pkg/dlmm/clockfeed's only dependency on the outside world)
// under a request-rate budget. The teacher's pkg/sol carried a full
// transaction-dispatch surface (sign/send/Jito bundle submission, token and
// wSOL account helpers); none of it is reachable from the pure quote/
// pool-math core this module builds (transaction dispatch is out of scope),
// so it has been trimmed rather than carried as unreached carryover.
package sol

import (
	"github.com/gagliardetto/solana-go/rpc"
)

// Client wraps a Solana RPC client with a request-rate budget.
type Client struct {
	rpcClient   *rpc.Client
	rateLimiter *RateLimiter
}

// NewClient builds a Client against endpoint, rate-limited to
// reqLimitPerSecond requests/sec.
func NewClient(endpoint string, reqLimitPerSecond int) *Client {
	return &Client{
		rpcClient:   rpc.New(endpoint),
		rateLimiter: NewRateLimiter(reqLimitPerSecond),
	}
}
