package ui

import (
	"testing"
	"time"

	"blockotchi/internal/pet"
)

func TestAnimationTypes(t *testing.T) {
	tests := []struct {
		name     string
		animType AnimationType
		expected int // minimum expected frames
	}{
		{"Feed animation has frames", AnimFeed, 3},
		{"Play animation has frames", AnimPlay, 4},
		{"Sleep animation has frames", AnimSleep, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frames := AnimationTotalFrames(tt.animType)
			if frames < tt.expected {
				t.Errorf("Expected at least %d frames for %v, got %d", tt.expected, tt.animType, frames)
			}
		})
	}
}

func TestGetAnimationFrame(t *testing.T) {
	anim := Animation{
		Type:      AnimFeed,
		Frame:     0,
		StartTime: time.Now(),
	}

	frame := GetAnimationFrame(anim)
	if frame == "" {
		t.Error("Expected non-empty frame for AnimFeed at frame 0")
	}

	// Test frame beyond total
	anim.Frame = 100
	frame = GetAnimationFrame(anim)
	if frame == "" {
		t.Error("Expected last frame for out-of-bounds frame index")
	}

	if GetAnimationFrame(Animation{}) != "" {
		t.Error("Expected empty frame when no animation is running")
	}
}

func TestIsAnimationComplete(t *testing.T) {
	tests := []struct {
		name     string
		anim     Animation
		expected bool
	}{
		{"Animation at start is not complete", Animation{Type: AnimFeed, Frame: 0}, false},
		{"Animation at middle is not complete", Animation{Type: AnimFeed, Frame: 1}, false},
		{"Animation past end is complete", Animation{Type: AnimFeed, Frame: AnimationTotalFrames(AnimFeed)}, true},
		{"No animation is complete", Animation{Type: AnimNone, Frame: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsAnimationComplete(tt.anim)
			if result != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestAnimationFrameDuration(t *testing.T) {
	// Ensure animation frame duration is reasonable (100-500ms)
	if AnimationFrameDuration < 100*time.Millisecond {
		t.Error("Animation frame duration too short")
	}
	if AnimationFrameDuration > 500*time.Millisecond {
		t.Error("Animation frame duration too long")
	}
}

func TestAnimationForAction(t *testing.T) {
	tests := []struct {
		action pet.Action
		want   AnimationType
	}{
		{pet.ActionFeed, AnimFeed},
		{pet.ActionPlay, AnimPlay},
		{pet.ActionSleep, AnimSleep},
		{pet.Action("dance"), AnimNone},
	}
	for _, tt := range tests {
		if got := animationFor(tt.action); got != tt.want {
			t.Errorf("Expected animation %v for %s, got %v", tt.want, tt.action, got)
		}
	}
}

func TestAllAnimationsHaveContent(t *testing.T) {
	for _, animType := range []AnimationType{AnimFeed, AnimPlay, AnimSleep} {
		frames := AnimationFrames[animType]
		if len(frames) == 0 {
			t.Errorf("Animation type %v has no frames", animType)
			continue
		}
		for i, frame := range frames {
			if frame == "" {
				t.Errorf("Animation type %v has empty frame at index %d", animType, i)
			}
		}
	}
}

func TestAnimationSpansAction(t *testing.T) {
	ticks := animationTicks(pet.ActionSleep)
	if want := int(pet.ActionDuration(pet.ActionSleep) / AnimationFrameDuration); ticks != want {
		t.Fatalf("Expected %d ticks, got %d", want, ticks)
	}
	if ticks <= AnimationTotalFrames(AnimSleep) {
		t.Fatalf("Expected sleep to outlast one pass of its art, got %d ticks", ticks)
	}

	anim := Animation{Type: AnimSleep, Ticks: ticks, Frame: AnimationTotalFrames(AnimSleep)}
	if IsAnimationComplete(anim) {
		t.Error("Expected the animation to keep running for the whole action")
	}
	if GetAnimationFrame(anim) != AnimationFrames[AnimSleep][0] {
		t.Error("Expected the art to cycle back to its first frame")
	}
	anim.Frame = ticks
	if !IsAnimationComplete(anim) {
		t.Error("Expected the animation to finish with the action")
	}
}
