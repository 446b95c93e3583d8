package pet

import (
	"fmt"
	"time"
)

// Status emojis
const (
	StatusEmojiHappy    = "😊"
	StatusEmojiHungry   = "🍖"
	StatusEmojiTired    = "😫"
	StatusEmojiSleeping = "😴"
	StatusEmojiEating   = "😋"
	StatusEmojiPlaying  = "🎾"
	StatusEmojiDead     = "💀"
)

var moodEmoji = map[Mood]string{
	MoodHappy:    StatusEmojiHappy,
	MoodHungry:   StatusEmojiHungry,
	MoodTired:    StatusEmojiTired,
	MoodSleeping: StatusEmojiSleeping,
	MoodEating:   StatusEmojiEating,
	MoodPlaying:  StatusEmojiPlaying,
}

var moodLabel = map[Mood]string{
	MoodHappy:    "Happy",
	MoodHungry:   "Hungry",
	MoodTired:    "Tired",
	MoodSleeping: "Sleeping",
	MoodEating:   "Eating",
	MoodPlaying:  "Playing",
}

var stageEmoji = map[Stage]string{
	StageBaby:  "🥚",
	StageChild: "🐣",
	StageTeen:  "🐥",
	StageAdult: "🐔",
	StageElder: "🦉",
}

// GetStatus returns the status emoji for the pet
func GetStatus(s State) string {
	if s.IsDead {
		return StatusEmojiDead
	}
	if e, ok := moodEmoji[s.Mood]; ok {
		return e
	}
	return StatusEmojiHappy
}

// GetStatusWithLabel returns status with a text label for the UI
func GetStatusWithLabel(s State) string {
	if s.IsDead {
		return StatusEmojiDead + " Dead"
	}
	label, ok := moodLabel[s.Mood]
	if !ok {
		label = moodLabel[MoodHappy]
	}
	if s.IsNight && !IsActionMood(s.Mood) {
		label += " (night)"
	}
	return GetStatus(s) + " " + label
}

// StageEmoji returns the emoji for an evolution stage
func StageEmoji(stage Stage) string {
	if e, ok := stageEmoji[stage]; ok {
		return e
	}
	return stageEmoji[StageBaby]
}

// FormatTimeLeft renders a duration as "Xh Ym", or "Ym Zs" under an hour.
func FormatTimeLeft(d time.Duration) string {
	if d <= 0 {
		return "0m 0s"
	}
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	sec := int(d % time.Minute / time.Second)
	return fmt.Sprintf("%dm %ds", m, sec)
}
