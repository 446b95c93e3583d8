package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"blockotchi/internal/pet"
)

type okResponse struct {
	OK bool `json:"ok"`
}

type checkInResponse struct {
	NeedsCheckIn bool  `json:"needsCheckIn"`
	TimeLeftMs   int64 `json:"timeLeft"`
	IsOverdue    bool  `json:"isOverdue"`
}

type cooldownResponse struct {
	OnCooldown bool  `json:"onCooldown"`
	TimeLeftMs int64 `json:"timeLeft"`
}

type progressResponse struct {
	Tracking    bool `json:"tracking"`
	SinceStart  int  `json:"txSinceStart"`
	GrowthUnits int  `json:"growthUnits"`
	InUnit      int  `json:"txInUnit"`
}

type petResponse struct {
	Session        string                            `json:"session"`
	State          pet.State                         `json:"state"`
	Status         string                            `json:"status"`
	Actioning      bool                              `json:"isActioning"`
	Action         pet.Action                        `json:"action,omitempty"`
	JustEvolved    bool                              `json:"justEvolved"`
	NewAchievement pet.AchievementID                 `json:"newAchievement,omitempty"`
	CheckIn        checkInResponse                   `json:"checkIn"`
	Cooldowns      map[pet.GameType]cooldownResponse `json:"cooldowns"`
	Progress       progressResponse                  `json:"txProgress"`
}

func newPetResponse(snap pet.Snapshot) petResponse {
	resp := petResponse{
		Session:        snap.Session,
		State:          snap.State,
		Status:         pet.GetStatusWithLabel(snap.State),
		Actioning:      snap.Actioning,
		Action:         snap.Action,
		JustEvolved:    snap.JustEvolved,
		NewAchievement: snap.NewAchievement,
		CheckIn: checkInResponse{
			NeedsCheckIn: snap.CheckIn.NeedsCheckIn,
			TimeLeftMs:   snap.CheckIn.TimeLeft.Milliseconds(),
			IsOverdue:    snap.CheckIn.IsOverdue,
		},
		Cooldowns: make(map[pet.GameType]cooldownResponse, len(snap.Cooldowns)),
		Progress: progressResponse{
			Tracking:    snap.Progress.Tracking,
			SinceStart:  snap.Progress.SinceStart,
			GrowthUnits: snap.Progress.GrowthUnits,
			InUnit:      snap.Progress.InUnit,
		},
	}
	for game, cd := range snap.Cooldowns {
		resp.Cooldowns[game] = cooldownResponse{OnCooldown: cd.OnCooldown, TimeLeftMs: cd.TimeLeft.Milliseconds()}
	}
	return resp
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"session":   s.engine.Session(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handlePet(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, newPetResponse(s.engine.Snapshot()))
}

type skinResponse struct {
	ID          pet.Skin `json:"id"`
	Name        string   `json:"name"`
	Price       int      `json:"price"`
	Description string   `json:"description"`
}

func (s *Server) handleSkins(w http.ResponseWriter, r *http.Request) {
	out := make([]skinResponse, 0, len(pet.Skins))
	for _, sk := range pet.Skins {
		out = append(out, skinResponse{ID: sk.ID, Name: sk.Name, Price: sk.Price, Description: sk.Description})
	}
	s.writeJSON(w, http.StatusOK, out)
}

type achievementResponse struct {
	ID          pet.AchievementID `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Icon        string            `json:"icon"`
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	out := make([]achievementResponse, 0, len(pet.Achievements))
	for _, a := range pet.Achievements {
		out = append(out, achievementResponse{ID: a.ID, Name: a.Name, Description: a.Description, Icon: a.Icon})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAction(fn func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeResult(w, fn())
	}
}

func (s *Server) handleSkin(fn func(pet.Skin) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := pet.Skin(chi.URLParam(r, "id"))
		if _, ok := pet.LookupSkin(id); !ok {
			s.writeError(w, http.StatusBadRequest, "unknown skin")
			return
		}
		s.writeResult(w, fn(id))
	}
}

func gameParam(r *http.Request) (pet.GameType, bool) {
	game := pet.GameType(chi.URLParam(r, "type"))
	return game, pet.ValidGame(game)
}

type coinsRequest struct {
	Coins int `json:"coins"`
}

func (s *Server) handleGameCoins(w http.ResponseWriter, r *http.Request) {
	game, ok := gameParam(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "unknown game")
		return
	}
	var req coinsRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.Coins < 0 {
		s.writeError(w, http.StatusBadRequest, "coins must not be negative")
		return
	}
	if s.engine.GameCooldown(game).OnCooldown {
		s.writeResult(w, false)
		return
	}
	s.writeResult(w, s.engine.AddCoins(req.Coins, game))
}

func (s *Server) handleGameUnlock(w http.ResponseWriter, r *http.Request) {
	game, ok := gameParam(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "unknown game")
		return
	}
	s.writeCommandError(w, s.engine.ResetGameCooldown(r.Context(), game))
}

func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	s.writeCommandError(w, s.engine.MarkCheckInComplete(r.Context()))
}

func (s *Server) handleRevive(w http.ResponseWriter, r *http.Request) {
	s.writeCommandError(w, s.engine.RevivePet(r.Context()))
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	s.engine.StartNewGame()
	s.writeResult(w, true)
}

type nftRequest struct {
	MintAddress string `json:"mintAddress"`
}

func (s *Server) handleNFT(w http.ResponseWriter, r *http.Request) {
	var req nftRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.writeCommandError(w, s.engine.MarkNFTMinted(r.Context(), req.MintAddress))
}

type walletRequest struct {
	Address string `json:"address"`
}

func (s *Server) handleWallet(w http.ResponseWriter, r *http.Request) {
	var req walletRequest
	if err := decodeBody(w, r, &req); err != nil || req.Address == "" {
		s.writeError(w, http.StatusBadRequest, "address required")
		return
	}
	s.engine.TrackWallet(req.Address)
	s.writeResult(w, true)
}

func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	s.engine.MarkWelcomeSeen()
	s.writeResult(w, true)
}
