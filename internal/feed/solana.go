// Package feed counts a wallet's on-chain transactions and reports the totals
// to the pet engine, which turns them into growth.
package feed

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
	"golang.org/x/time/rate"
)

const (
	// PageSize is the number of signatures requested per page.
	PageSize = 100
	// MaxPages bounds how far back one count reaches.
	MaxPages = 10
)

// Count is the result of one transaction count.
type Count struct {
	Total  int
	Newest string // newest signature seen, empty when there are none
}

// signatureInfo is one entry of a getSignaturesForAddress result.
type signatureInfo struct {
	Signature          string `json:"signature"`
	Slot               uint64 `json:"slot"`
	BlockTime          *int64 `json:"blockTime"`
	ConfirmationStatus string `json:"confirmationStatus"`
}

type signaturesOpts struct {
	Limit      int    `json:"limit"`
	Before     string `json:"before,omitempty"`
	Commitment string `json:"commitment"`
}

// SolanaCounter counts finalized transactions through a Solana JSON-RPC node.
type SolanaCounter struct {
	client  *rpc.Client
	limiter *rate.Limiter
}

// DialSolana connects to a JSON-RPC endpoint. rps limits page requests per
// second; zero or less disables the limit.
func DialSolana(ctx context.Context, endpoint string, rps float64) (*SolanaCounter, error) {
	client, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &SolanaCounter{client: client, limiter: rate.NewLimiter(limit, 1)}, nil
}

// TransactionCount pages back through the address's signatures, newest first,
// and returns how many it saw. At most MaxPages*PageSize are counted.
func (c *SolanaCounter) TransactionCount(ctx context.Context, address string) (Count, error) {
	var (
		count  Count
		before string
	)
	for page := 0; page < MaxPages; page++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return Count{}, err
		}
		var infos []signatureInfo
		opts := signaturesOpts{Limit: PageSize, Before: before, Commitment: "finalized"}
		if err := c.client.CallContext(ctx, &infos, "getSignaturesForAddress", address, opts); err != nil {
			return Count{}, fmt.Errorf("getSignaturesForAddress page %d: %w", page, err)
		}
		if len(infos) == 0 {
			break
		}
		if count.Newest == "" {
			count.Newest = infos[0].Signature
		}
		count.Total += len(infos)
		before = infos[len(infos)-1].Signature
		if before == "" {
			break
		}
	}
	return count, nil
}

// Close closes the RPC client.
func (c *SolanaCounter) Close() {
	c.client.Close()
}
