package texture

import (
	"image"
	"sort"
)

// FrameSource is the animation data an AnimatedTexture plays.
// It is referenced, never owned, by the texture.
type FrameSource interface {
	AnimationNames() []string
	HasAnimation(name string) bool
	FrameCount(name string) int
	// Speed is the playback rate of the animation in frames per second
	Speed(name string) float64
	Loop(name string) bool
	// FrameDuration is the relative duration of a frame; 1/Speed seconds per unit
	FrameDuration(name string, index int) float64
	FrameTexture(name string, index int) Drawable
}

// BackupKind tells HealCache what kind of drawable to rebuild.
type BackupKind int

const (
	// BackupImage rebuilds an *ImageTexture
	BackupImage BackupKind = iota
	// BackupAtlas rebuilds an *AtlasTexture using Region
	BackupAtlas
)

// Backup is the heal information captured for one frame when it was loaded.
type Backup struct {
	Path      string
	Region    image.Rectangle
	HasRegion bool
	Kind      BackupKind
}

// Frame is one timed drawable in an animation.
type Frame struct {
	Texture  Drawable
	Duration float64
	backup   *Backup
}

type spriteAnimation struct {
	speed  float64
	loop   bool
	frames []Frame
}

// DefaultAnimation is the animation name new textures and new SpriteFrames start with.
const DefaultAnimation = "default"

// DefaultSpeed is the rate given to new animations.
const DefaultSpeed = 5.0

// SpriteFrames is an in-memory FrameSource: a set of named animations.
// Missing names and out-of-range indices are answered with zero values.
type SpriteFrames struct {
	animations map[string]*spriteAnimation
}

// NewSpriteFrames creates a resource with an empty "default" animation.
func NewSpriteFrames() *SpriteFrames {
	sf := &SpriteFrames{animations: make(map[string]*spriteAnimation)}
	sf.AddAnimation(DefaultAnimation)
	return sf
}

// AddAnimation adds an empty looping animation. Existing names are left alone.
func (sf *SpriteFrames) AddAnimation(name string) {
	if _, exists := sf.animations[name]; exists {
		return
	}
	sf.animations[name] = &spriteAnimation{speed: DefaultSpeed, loop: true}
}

// RemoveAnimation deletes an animation.
func (sf *SpriteFrames) RemoveAnimation(name string) {
	delete(sf.animations, name)
}

// SetSpeed sets the playback rate of an animation.
func (sf *SpriteFrames) SetSpeed(name string, fps float64) {
	if anim, ok := sf.animations[name]; ok {
		anim.speed = fps
	}
}

// SetLoop sets whether an animation wraps.
func (sf *SpriteFrames) SetLoop(name string, loop bool) {
	if anim, ok := sf.animations[name]; ok {
		anim.loop = loop
	}
}

// AddFrame appends a frame. Non-positive durations become 1.
func (sf *SpriteFrames) AddFrame(name string, tex Drawable, duration float64) {
	anim, ok := sf.animations[name]
	if !ok {
		return
	}
	if duration <= 0 {
		duration = 1
	}
	anim.frames = append(anim.frames, Frame{Texture: tex, Duration: duration})
}

// SetFrame replaces the drawable and duration of an existing frame.
func (sf *SpriteFrames) SetFrame(name string, index int, tex Drawable, duration float64) {
	anim, ok := sf.animations[name]
	if !ok || index < 0 || index >= len(anim.frames) {
		return
	}
	if duration <= 0 {
		duration = 1
	}
	anim.frames[index].Texture = tex
	anim.frames[index].Duration = duration
}

// RemoveFrame deletes a frame.
func (sf *SpriteFrames) RemoveFrame(name string, index int) {
	anim, ok := sf.animations[name]
	if !ok || index < 0 || index >= len(anim.frames) {
		return
	}
	anim.frames = append(anim.frames[:index], anim.frames[index+1:]...)
}

// SetBackup records heal information for a frame.
func (sf *SpriteFrames) SetBackup(name string, index int, b Backup) {
	anim, ok := sf.animations[name]
	if !ok || index < 0 || index >= len(anim.frames) {
		return
	}
	anim.frames[index].backup = &b
}

// AnimationNames returns all names sorted.
func (sf *SpriteFrames) AnimationNames() []string {
	names := make([]string, 0, len(sf.animations))
	for name := range sf.animations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (sf *SpriteFrames) HasAnimation(name string) bool {
	_, ok := sf.animations[name]
	return ok
}

func (sf *SpriteFrames) FrameCount(name string) int {
	if anim, ok := sf.animations[name]; ok {
		return len(anim.frames)
	}
	return 0
}

func (sf *SpriteFrames) Speed(name string) float64 {
	if anim, ok := sf.animations[name]; ok {
		return anim.speed
	}
	return 0
}

func (sf *SpriteFrames) Loop(name string) bool {
	if anim, ok := sf.animations[name]; ok {
		return anim.loop
	}
	return false
}

func (sf *SpriteFrames) FrameDuration(name string, index int) float64 {
	if f := sf.frame(name, index); f != nil {
		return f.Duration
	}
	return 0
}

func (sf *SpriteFrames) FrameTexture(name string, index int) Drawable {
	if f := sf.frame(name, index); f != nil {
		return f.Texture
	}
	return nil
}

// Backup implements BackupSource with the data captured at load time.
func (sf *SpriteFrames) Backup(name string, index int) (Backup, bool) {
	if f := sf.frame(name, index); f != nil && f.backup != nil {
		return *f.backup, true
	}
	return Backup{}, false
}

func (sf *SpriteFrames) frame(name string, index int) *Frame {
	anim, ok := sf.animations[name]
	if !ok || index < 0 || index >= len(anim.frames) {
		return nil
	}
	return &anim.frames[index]
}
