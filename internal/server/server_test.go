package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blockotchi/internal/metrics"
	"blockotchi/internal/payment"
	"blockotchi/internal/pet"
	"blockotchi/internal/store"
)

type fixture struct {
	engine  *pet.Engine
	gateway *payment.DevGateway
	handler http.Handler
}

func newFixture(t *testing.T, treasury string, seed *pet.State) *fixture {
	t.Helper()
	mem := store.NewMemory()
	if seed != nil {
		data, err := pet.Encode(*seed)
		require.NoError(t, err)
		require.NoError(t, mem.Save(data))
	}
	fees, err := payment.DefaultFees.Lamports()
	require.NoError(t, err)
	gw := payment.NewDevGateway(treasury, nil)
	e, err := pet.Open(pet.Options{Store: mem, Payments: gw, Fees: fees})
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return &fixture{
		engine:  e,
		gateway: gw,
		handler: New(e, metrics.New(), nil).Routes(),
	}
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestGetPet(t *testing.T) {
	f := newFixture(t, "treasury", nil)
	rec := f.do(t, http.MethodGet, "/api/pet", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		State struct {
			Hunger         float64 `json:"hunger"`
			Mood           string  `json:"mood"`
			CurrentSkin    string  `json:"currentSkin"`
			EvolutionStage string  `json:"evolutionStage"`
		} `json:"state"`
		CheckIn struct {
			NeedsCheckIn bool  `json:"needsCheckIn"`
			TimeLeft     int64 `json:"timeLeft"`
		} `json:"checkIn"`
		Cooldowns map[string]struct {
			OnCooldown bool `json:"onCooldown"`
		} `json:"cooldowns"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 80.0, resp.State.Hunger)
	assert.Equal(t, "happy", resp.State.Mood)
	assert.Equal(t, "creeper", resp.State.CurrentSkin)
	assert.Equal(t, "baby", resp.State.EvolutionStage)
	assert.Greater(t, resp.CheckIn.TimeLeft, int64(0))
	assert.Len(t, resp.Cooldowns, 2)
	assert.False(t, resp.Cooldowns["clicker"].OnCooldown)
}

func TestActionLocksPet(t *testing.T) {
	f := newFixture(t, "treasury", nil)

	rec := f.do(t, http.MethodPost, "/api/pet/feed", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/api/pet/sleep", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"ok":false}`, rec.Body.String())

	assert.True(t, f.engine.Snapshot().Actioning)
}

func TestSkins(t *testing.T) {
	f := newFixture(t, "treasury", nil)

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/pet/skins/creeper/select", "").Code)
	assert.Equal(t, http.StatusConflict, f.do(t, http.MethodPost, "/api/pet/skins/wither/buy", "").Code)
	assert.Equal(t, http.StatusConflict, f.do(t, http.MethodPost, "/api/pet/skins/slime/select", "").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/api/pet/skins/ninja/buy", "").Code)

	rec := f.do(t, http.MethodGet, "/api/skins", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var skins []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &skins))
	assert.Len(t, skins, len(pet.Skins))
}

func TestGameCoinsAndUnlock(t *testing.T) {
	f := newFixture(t, "treasury", nil)

	rec := f.do(t, http.MethodPost, "/api/pet/games/catch/coins", `{"coins":12}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 12, f.engine.Snapshot().State.Coins)

	rec = f.do(t, http.MethodPost, "/api/pet/games/catch/coins", `{"coins":12}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 12, f.engine.Snapshot().State.Coins)

	rec = f.do(t, http.MethodPost, "/api/pet/games/catch/unlock", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, f.gateway.Receipts(), 1)
	assert.Equal(t, pet.PurposeGameUnlock, f.gateway.Receipts()[0].Purpose)

	rec = f.do(t, http.MethodPost, "/api/pet/games/catch/coins", `{"coins":3}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 15, f.engine.Snapshot().State.Coins)
	assert.Equal(t, 2, f.engine.Snapshot().State.TotalGamesPlayed)
}

func TestGameBadInput(t *testing.T) {
	f := newFixture(t, "treasury", nil)

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/api/pet/games/pong/coins", `{"coins":1}`).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/api/pet/games/pong/unlock", "").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/api/pet/games/clicker/coins", `{"coins":-1}`).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/api/pet/games/clicker/coins", `not json`).Code)
	assert.Equal(t, 0, f.engine.Snapshot().State.TotalGamesPlayed)
}

func TestCheckInPayments(t *testing.T) {
	f := newFixture(t, "treasury", nil)

	rec := f.do(t, http.MethodPost, "/api/pet/checkin", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, f.gateway.Receipts(), 1)
	assert.Equal(t, uint64(500_000), f.gateway.Receipts()[0].Lamports)

	f.gateway.FailWith(errors.New("wallet declined"))
	rec = f.do(t, http.MethodPost, "/api/pet/checkin", "")
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Contains(t, rec.Body.String(), "wallet declined")
}

func TestNoTreasury(t *testing.T) {
	f := newFixture(t, "", nil)
	rec := f.do(t, http.MethodPost, "/api/pet/checkin", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestReviveAndNewGame(t *testing.T) {
	alive := newFixture(t, "treasury", nil)
	assert.Equal(t, http.StatusConflict, alive.do(t, http.MethodPost, "/api/pet/revive", "").Code)
	assert.Empty(t, alive.gateway.Receipts())

	dead := pet.NewState(time.Now())
	dead.IsDead = true
	dead.Hunger = 0
	f := newFixture(t, "treasury", &dead)

	assert.Equal(t, http.StatusConflict, f.do(t, http.MethodPost, "/api/pet/feed", "").Code)
	assert.Equal(t, http.StatusConflict, f.do(t, http.MethodPost, "/api/pet/checkin", "").Code)

	rec := f.do(t, http.MethodPost, "/api/pet/revive", "")
	require.Equal(t, http.StatusOK, rec.Code)
	snap := f.engine.Snapshot()
	assert.False(t, snap.State.IsDead)
	assert.Equal(t, 50.0, snap.State.Hunger)

	rec = f.do(t, http.MethodPost, "/api/pet/new", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 80.0, f.engine.Snapshot().State.Hunger)
}

func TestNFT(t *testing.T) {
	f := newFixture(t, "treasury", nil)

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/api/pet/nft", `{"mintAddress":""}`).Code)
	rec := f.do(t, http.MethodPost, "/api/pet/nft", `{"mintAddress":"Mint111"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	snap := f.engine.Snapshot()
	assert.True(t, snap.State.HasMintedNFT)
	assert.Equal(t, "Mint111", snap.State.NFTMintAddress)
}

func TestWalletAndWelcome(t *testing.T) {
	f := newFixture(t, "treasury", nil)

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/api/pet/wallet", `{}`).Code)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/pet/wallet", `{"address":"Addr1"}`).Code)
	addr, _, ok := f.engine.WalletTarget()
	assert.True(t, ok)
	assert.Equal(t, "Addr1", addr)

	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/pet/welcome", "").Code)
	assert.True(t, f.engine.Snapshot().State.HasSeenWelcome)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, "treasury", nil)
	f.do(t, http.MethodGet, "/api/pet", "")

	rec := f.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "blockotchi_http_requests_total")
	assert.Contains(t, body, `method="GET"`)
}

func TestHealth(t *testing.T) {
	f := newFixture(t, "treasury", nil)
	rec := f.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), f.engine.Session())
}
