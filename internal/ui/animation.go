package ui

import (
	"time"

	"blockotchi/internal/pet"
)

// AnimationType represents the type of action animation
type AnimationType int

const (
	AnimNone AnimationType = iota
	AnimFeed
	AnimPlay
	AnimSleep
)

// Animation holds the current animation state
type Animation struct {
	Type  AnimationType
	Frame int
	// Ticks is how many frames the animation runs for, cycling its art.
	// Zero plays the art once.
	Ticks     int
	StartTime time.Time
}

// AnimationFrames contains the block art shown while an action runs
var AnimationFrames = map[AnimationType][]string{
	AnimFeed: {
		`
 🥩
    ▄██▄
    █°°█
`,
		`
   🥩
    ▄██▄
    █°o█
`,
		`

    ▄██▄ 🥩
    █>O█
`,
		`

    ▄██▄
    █^▽█  *chomp*
`,
	},
	AnimPlay: {
		`
 ⚽
         ▄██▄
         █°°█
`,
		`
      ⚽
         ▄██▄
         █°▽█
`,
		`
          ⚽
         ▄██▄  *hop*
         █^▽█
`,
		`
      ⚽
         ▄██▄
         █°▽█
`,
		`
 ⚽
         ▄██▄  *kick!*
         █>▽█
`,
	},
	AnimSleep: {
		`
    ▄██▄
    █-_█
`,
		`
          z
    ▄██▄
    █-_█
`,
		`
           Z
          z
    ▄██▄
    █-_█
`,
		`
            Z
           Z
          z
    ▄██▄  🌙
    █-_█
`,
	},
}

// AnimationFrameDuration is how long each frame displays
const AnimationFrameDuration = 200 * time.Millisecond

// GetAnimationFrame returns the current frame for an animation
func GetAnimationFrame(anim Animation) string {
	frames := AnimationFrames[anim.Type]
	if len(frames) == 0 {
		return ""
	}
	if anim.Frame < anim.Ticks {
		return frames[anim.Frame%len(frames)]
	}
	if anim.Frame >= len(frames) {
		return frames[len(frames)-1]
	}
	return frames[anim.Frame]
}

// IsAnimationComplete returns true if the animation has finished
func IsAnimationComplete(anim Animation) bool {
	total := len(AnimationFrames[anim.Type])
	if anim.Type != AnimNone && anim.Ticks > total {
		total = anim.Ticks
	}
	return anim.Frame >= total
}

// animationTicks returns how many frames cover an action's duration.
func animationTicks(a pet.Action) int {
	return int(pet.ActionDuration(a) / AnimationFrameDuration)
}

// AnimationTotalFrames returns the number of frames for an animation type
func AnimationTotalFrames(animType AnimationType) int {
	return len(AnimationFrames[animType])
}

func animationFor(a pet.Action) AnimationType {
	switch a {
	case pet.ActionFeed:
		return AnimFeed
	case pet.ActionPlay:
		return AnimPlay
	case pet.ActionSleep:
		return AnimSleep
	}
	return AnimNone
}
