// Package payment confirms the SOL payments that gate check-ins, revivals,
// early game unlocks and NFT mints.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"blockotchi/internal/pet"
)

var (
	ErrNoTreasury    = errors.New("payment: treasury address not configured")
	ErrRejected      = errors.New("payment: rejected")
	ErrInvalidAmount = errors.New("payment: amount must be positive")
)

// LamportsPerSOL is the number of lamports in one SOL.
const LamportsPerSOL = 1_000_000_000

var lamportsPerSOL = decimal.NewFromInt(LamportsPerSOL)

// LamportsFromSOL converts a decimal SOL amount such as "0.0005" to lamports,
// rounding down.
func LamportsFromSOL(sol string) (uint64, error) {
	d, err := decimal.NewFromString(sol)
	if err != nil {
		return 0, fmt.Errorf("parse SOL amount %q: %w", sol, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("parse SOL amount %q: %w", sol, ErrInvalidAmount)
	}
	return uint64(d.Mul(lamportsPerSOL).Floor().IntPart()), nil
}

// SOLFromLamports formats lamports as a SOL amount.
func SOLFromLamports(lamports uint64) string {
	return decimal.NewFromInt(int64(lamports)).Div(lamportsPerSOL).String()
}

// Fees holds the price of each paid action in SOL.
type Fees struct {
	CheckIn    string
	GameUnlock string
	Revival    string
	NFTMint    string
}

// DefaultFees are the prices used when none are configured.
var DefaultFees = Fees{
	CheckIn:    "0.0005",
	GameUnlock: "0.001",
	Revival:    "0.002",
	NFTMint:    "0.0029",
}

// Lamports converts the fee table to the engine's per-purpose lamport amounts.
func (f Fees) Lamports() (map[pet.Purpose]uint64, error) {
	out := make(map[pet.Purpose]uint64, 4)
	for purpose, sol := range map[pet.Purpose]string{
		pet.PurposeCheckIn:    f.CheckIn,
		pet.PurposeGameUnlock: f.GameUnlock,
		pet.PurposeRevival:    f.Revival,
		pet.PurposeNFTMint:    f.NFTMint,
	} {
		lamports, err := LamportsFromSOL(sol)
		if err != nil {
			return nil, fmt.Errorf("%s fee: %w", purpose, err)
		}
		out[purpose] = lamports
	}
	return out, nil
}

// Receipt records a confirmed payment.
type Receipt struct {
	ID       string
	Purpose  pet.Purpose
	Lamports uint64
	Treasury string
	At       time.Time
}

// DevGateway confirms payments locally without touching the chain. It still
// enforces the treasury and amount checks a real transfer would need.
type DevGateway struct {
	Treasury string
	Logger   *slog.Logger

	mu       sync.Mutex
	failWith error
	receipts []Receipt
}

// NewDevGateway returns a gateway paying into treasury.
func NewDevGateway(treasury string, logger *slog.Logger) *DevGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &DevGateway{Treasury: treasury, Logger: logger}
}

// FailWith makes every following payment fail with err. Nil restores normal
// operation.
func (g *DevGateway) FailWith(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failWith = err
}

// SubmitPayment confirms a payment and returns its receipt id.
func (g *DevGateway) SubmitPayment(ctx context.Context, lamports uint64, purpose pet.Purpose) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if g.Treasury == "" {
		return "", ErrNoTreasury
	}
	if lamports == 0 {
		return "", ErrInvalidAmount
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failWith != nil {
		return "", fmt.Errorf("%w: %w", ErrRejected, g.failWith)
	}
	r := Receipt{
		ID:       uuid.NewString(),
		Purpose:  purpose,
		Lamports: lamports,
		Treasury: g.Treasury,
		At:       time.Now().UTC(),
	}
	g.receipts = append(g.receipts, r)
	g.Logger.Info("payment confirmed",
		slog.String("receipt", r.ID),
		slog.String("purpose", string(purpose)),
		slog.String("amount_sol", SOLFromLamports(lamports)),
	)
	return r.ID, nil
}

// Receipts returns the confirmed payments in order.
func (g *DevGateway) Receipts() []Receipt {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Receipt, len(g.receipts))
	copy(out, g.receipts)
	return out
}
