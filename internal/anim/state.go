// Package anim evaluates skeletal animation: per-frame bone world
// matrices from a decoded model's keyframe tracks, plus linear-blend
// skinning of the vertex pool by those matrices. A State and a Skinner
// belong to exactly one live model instance and do no locking; the
// owning render loop serializes all calls.
package anim

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/freadblangks/WoWee/internal/m2"
)

// State drives one model instance's animation clock and bone pose.
// Tracks bound to a global sequence sample a second, evaluator-wide
// clock that keeps running no matter which clip is active, so ambient
// motion stays continuous across clip switches.
type State struct {
	model    *m2.Model
	seq      int
	timeMs   float64
	globalMs float64
	speed    float64
	playing  bool
	world    []mgl32.Mat4
}

// NewState returns a playing state at sequence 0, time 0, speed 1.
func NewState(m *m2.Model) *State {
	s := &State{model: m, speed: 1, playing: true}
	s.world = make([]mgl32.Mat4, len(m.Bones))
	for i := range s.world {
		s.world[i] = mgl32.Ident4()
	}
	return s
}

// SetSequence switches the active clip, clamping i into range. Switching
// always restarts the clip clock; there is no cross-fade.
func (s *State) SetSequence(i int) {
	max := len(s.model.Sequences) - 1
	if i > max {
		i = max
	}
	if i < 0 {
		i = 0
	}
	s.seq = i
	s.timeMs = 0
}

// Sequence returns the active clip index.
func (s *State) Sequence() int { return s.seq }

// Time returns the clip clock in milliseconds.
func (s *State) Time() float64 { return s.timeMs }

// SetTime positions both clocks at ms, for deterministic still frames.
func (s *State) SetTime(ms float64) {
	if ms < 0 {
		ms = 0
	}
	s.globalMs = ms
	if d := s.Duration(); d > 0 {
		s.timeMs = math.Mod(ms, d)
	} else {
		s.timeMs = 0
	}
}

// Duration returns the active clip's length in milliseconds.
func (s *State) Duration() float64 {
	if s.seq < len(s.model.Sequences) {
		return float64(s.model.Sequences[s.seq].Duration)
	}
	return 0
}

func (s *State) Play()         { s.playing = true }
func (s *State) Pause()        { s.playing = false }
func (s *State) Playing() bool { return s.playing }

// SetSpeed sets the playback rate multiplier. Negative rates clamp to 0.
func (s *State) SetSpeed(v float64) {
	if v < 0 {
		v = 0
	}
	s.speed = v
}

func (s *State) Speed() float64 { return s.speed }

// Advance moves both clocks by dt seconds when playing. The clip clock
// wraps on the clip's duration; a zero-duration clip never advances. The
// global clock accumulates unbounded and wraps per track at sample time.
func (s *State) Advance(dt float64) {
	if !s.playing {
		return
	}
	step := dt * 1000 * s.speed
	s.globalMs += step
	if d := s.Duration(); d > 0 {
		s.timeMs = math.Mod(s.timeMs+step, d)
	}
}

// Evaluate recomputes every bone's world matrix at the current clocks.
// Bones are stored parent-before-child, so a single pass composes the
// hierarchy; the returned slice is the state's scratch buffer, valid
// until the next call.
func (s *State) Evaluate() []mgl32.Mat4 {
	bones := s.model.Bones
	if len(s.world) != len(bones) {
		s.world = make([]mgl32.Mat4, len(bones))
	}
	for i := range bones {
		local := s.localMatrix(&bones[i])
		if p := int(bones[i].Parent); p >= 0 && p < i {
			s.world[i] = s.world[p].Mul4(local)
		} else {
			s.world[i] = local
		}
	}
	return s.world
}

// Update advances the clocks and evaluates in one step.
func (s *State) Update(dt float64) []mgl32.Mat4 {
	s.Advance(dt)
	return s.Evaluate()
}

// BoneMatrices returns the most recently evaluated world matrices.
func (s *State) BoneMatrices() []mgl32.Mat4 { return s.world }

// localMatrix samples a bone's three tracks and composes its local
// transform, rotating and scaling about the bone's pivot.
func (s *State) localMatrix(b *m2.Bone) mgl32.Mat4 {
	trans := s.sampleVec3(&b.Translation, mgl32.Vec3{})
	rot := s.sampleQuat(&b.Rotation)
	scale := s.sampleVec3(&b.Scale, mgl32.Vec3{1, 1, 1})

	p := b.Pivot
	m := mgl32.Translate3D(p.X(), p.Y(), p.Z())
	m = m.Mul4(mgl32.Translate3D(trans.X(), trans.Y(), trans.Z()))
	m = m.Mul4(rot.Mat4())
	m = m.Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
	return m.Mul4(mgl32.Translate3D(-p.X(), -p.Y(), -p.Z()))
}

// trackTime resolves which sequence slot and clock a track samples.
// Global-sequence tracks keep their keys in slot 0 and run on the global
// clock wrapped to the global sequence's period; everything else follows
// the active clip.
func (s *State) trackTime(globalSeq int16) (int, float64) {
	if gs := int(globalSeq); gs >= 0 && gs < len(s.model.GlobalSequences) {
		d := float64(s.model.GlobalSequences[gs])
		if d <= 0 {
			return 0, 0
		}
		return 0, math.Mod(s.globalMs, d)
	}
	return s.seq, s.timeMs
}

func (s *State) sampleVec3(t *m2.Track[mgl32.Vec3], def mgl32.Vec3) mgl32.Vec3 {
	slot, at := s.trackTime(t.GlobalSeq)
	keys := slotKeys(t.Seqs, slot)
	if keys == nil {
		return def
	}
	i, frac := locate(keys.Times, at)
	if frac == 0 || t.Interp == m2.InterpNone || i+1 >= len(keys.Keys) {
		return keys.Keys[i]
	}
	return lerpVec3(keys.Keys[i], keys.Keys[i+1], frac)
}

func (s *State) sampleQuat(t *m2.Track[mgl32.Quat]) mgl32.Quat {
	slot, at := s.trackTime(t.GlobalSeq)
	keys := slotKeys(t.Seqs, slot)
	if keys == nil {
		return mgl32.QuatIdent()
	}
	i, frac := locate(keys.Times, at)
	if frac == 0 || t.Interp == m2.InterpNone || i+1 >= len(keys.Keys) {
		return keys.Keys[i]
	}
	return Slerp(keys.Keys[i], keys.Keys[i+1], frac)
}
