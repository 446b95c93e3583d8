package pet

import "log"

// Skin identifies a cosmetic look for the pet.
type Skin string

const (
	SkinCreeper  Skin = "creeper"
	SkinSlime    Skin = "slime"
	SkinEnderman Skin = "enderman"
	SkinBlaze    Skin = "blaze"
	SkinZombie   Skin = "zombie"
	SkinSkeleton Skin = "skeleton"
	SkinPiglin   Skin = "piglin"
	SkinWither   Skin = "wither"
	SkinRobot    Skin = "robot"
	SkinWizard   Skin = "wizard"
	SkinSamurai  Skin = "samurai"
)

// SkinInfo describes a skin sold in the shop.
type SkinInfo struct {
	ID          Skin
	Name        string
	Price       int
	Color       string // lipgloss color used to tint the pet
	Description string
}

// Skins is the shop catalog in display order.
var Skins = []SkinInfo{
	{SkinCreeper, "Creeper", 0, "#5fd75f", "The classic green friend"},
	{SkinSlime, "Slime", 50, "#afff5f", "Bouncy and squishy!"},
	{SkinEnderman, "Enderman", 100, "#af5fff", "Tall, dark, mysterious"},
	{SkinBlaze, "Blaze", 150, "#ffaf00", "Hot-headed companion"},
	{SkinZombie, "Zombie", 75, "#00afaf", "Undead but friendly"},
	{SkinSkeleton, "Skeleton", 80, "#eeeeee", "All bones, all fun"},
	{SkinPiglin, "Piglin", 200, "#ff87af", "Loves gold!"},
	{SkinWither, "Wither", 500, "#585858", "Ultimate power!"},
	{SkinRobot, "Robot", 250, "#87afd7", "Visor online. Beep boop."},
	{SkinWizard, "Wizard", 350, "#8787ff", "Mystic hat, tiny spells."},
	{SkinSamurai, "Samurai", 400, "#d70000", "Armor up. Honor bound."},
}

// LookupSkin finds a skin in the catalog.
func LookupSkin(id Skin) (SkinInfo, bool) {
	for _, s := range Skins {
		if s.ID == id {
			return s, true
		}
	}
	return SkinInfo{}, false
}

// SourcePassive labels coins earned by simply staying alive. Other income is
// labelled with its action or game.
const SourcePassive = "passive"

// CreditCoins adds income to both the spendable balance and the lifetime total.
func CreditCoins(s *State, amount int) {
	if amount <= 0 {
		return
	}
	s.Coins += amount
	s.TotalCoinsEarned += amount
}

// BuySkin buys and equips a skin. Owning it already makes this an equip with
// no charge. It fails without mutation when the skin is unknown or unaffordable.
func BuySkin(s *State, id Skin) bool {
	info, ok := LookupSkin(id)
	if !ok {
		return false
	}
	if s.HasSkin(id) {
		s.CurrentSkin = id
		return true
	}
	if s.Coins < info.Price {
		return false
	}
	s.Coins -= info.Price
	s.UnlockedSkins = append(s.UnlockedSkins, id)
	s.CurrentSkin = id
	log.Printf("Bought skin %s for %d coins", id, info.Price)
	return true
}

// SelectSkin equips a skin the pet already owns.
func SelectSkin(s *State, id Skin) bool {
	if !s.HasSkin(id) {
		return false
	}
	s.CurrentSkin = id
	return true
}

// RecordGame credits a finished mini-game and starts its cooldown.
func RecordGame(s *State, game GameType, coins int, now Timestamp) {
	CreditCoins(s, max(coins, 0))
	s.TotalGamesPlayed++
	s.LastGamePlayed.Set(game, &now)
}

// ValidGame reports whether the game type is known.
func ValidGame(game GameType) bool {
	for _, g := range GameTypes {
		if g == game {
			return true
		}
	}
	return false
}
