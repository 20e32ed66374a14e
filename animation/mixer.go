// Package animation plays scene.AnimationClip tracks onto scene nodes.
package animation

import (
	"github.com/chewxy/math32"

	"gltf-scenes/math"
	"gltf-scenes/scene"
)

type LoopMode int

const (
	LoopRepeat LoopMode = iota
	LoopOnce
)

// Action is the playback state of one clip inside a Mixer.
type Action struct {
	Clip    *scene.AnimationClip
	Loop    LoopMode
	Time    float32
	running bool
}

// Play starts the action from its current time.
func (a *Action) Play() *Action {
	a.running = true
	return a
}

// Stop halts the action and rewinds it.
func (a *Action) Stop() *Action {
	a.running = false
	a.Time = 0
	return a
}

func (a *Action) SetLoop(mode LoopMode) *Action {
	a.Loop = mode
	return a
}

func (a *Action) IsRunning() bool {
	return a.running
}

func (a *Action) advance(dt float32) {
	a.Time += dt
	d := a.Clip.Duration
	if d <= 0 {
		a.Time = 0
		return
	}
	switch a.Loop {
	case LoopRepeat:
		a.Time = math32.Mod(a.Time, d)
		if a.Time < 0 {
			a.Time += d
		}
	case LoopOnce:
		if a.Time >= d {
			a.Time = d
			a.running = false
		}
	}
}

// Mixer owns the actions driving one model and a clock of elapsed time.
type Mixer struct {
	Root    *scene.Node
	Time    float32
	actions []*Action
	byClip  map[*scene.AnimationClip]*Action
}

func NewMixer(root *scene.Node) *Mixer {
	return &Mixer{
		Root:   root,
		byClip: make(map[*scene.AnimationClip]*Action),
	}
}

// ClipAction returns the action for clip, creating it on first use.
func (m *Mixer) ClipAction(clip *scene.AnimationClip) *Action {
	if a, ok := m.byClip[clip]; ok {
		return a
	}
	a := &Action{Clip: clip, Loop: LoopRepeat}
	m.byClip[clip] = a
	m.actions = append(m.actions, a)
	return a
}

// Actions returns every action created so far, in creation order.
func (m *Mixer) Actions() []*Action {
	return m.actions
}

// Update advances the clock by dt and writes the sampled pose of every
// running action into its target nodes.
func (m *Mixer) Update(dt float32) {
	m.Time += dt
	for _, a := range m.actions {
		if !a.running {
			continue
		}
		a.advance(dt)
		for i := range a.Clip.Tracks {
			apply(&a.Clip.Tracks[i], a.Time)
		}
	}
}

func apply(t *scene.KeyframeTrack, time float32) {
	if t.Node == nil || len(t.Times) == 0 {
		return
	}
	switch t.Path {
	case scene.PathTranslation:
		t.Node.SetPosition(SampleVec3(t, time))
	case scene.PathRotation:
		t.Node.SetRotation(SampleQuaternion(t, time))
	case scene.PathScale:
		t.Node.SetScale(SampleVec3(t, time))
	}
}

// keyframe finds the pair of keys around time and the blend factor between
// them. Times outside the track clamp to its ends.
func keyframe(times []float32, time float32) (i, j int, f float32) {
	n := len(times)
	if time <= times[0] {
		return 0, 0, 0
	}
	if time >= times[n-1] {
		return n - 1, n - 1, 0
	}
	lo, hi := 0, n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if times[mid] <= time {
			lo = mid
		} else {
			hi = mid
		}
	}
	span := times[hi] - times[lo]
	if span <= 0 {
		return lo, lo, 0
	}
	return lo, hi, (time - times[lo]) / span
}

func vec3At(values []float32, k int) math.Vec3 {
	return math.Vec3{X: values[k*3], Y: values[k*3+1], Z: values[k*3+2]}
}

func quatAt(values []float32, k int) math.Quaternion {
	return math.Quaternion{X: values[k*4], Y: values[k*4+1], Z: values[k*4+2], W: values[k*4+3]}
}

// SampleVec3 evaluates a translation or scale track at time.
func SampleVec3(t *scene.KeyframeTrack, time float32) math.Vec3 {
	i, j, f := keyframe(t.Times, time)
	a := vec3At(t.Values, i)
	if t.Interpolation == scene.InterpolateStep || i == j {
		return a
	}
	return a.Lerp(vec3At(t.Values, j), f)
}

// SampleQuaternion evaluates a rotation track at time.
func SampleQuaternion(t *scene.KeyframeTrack, time float32) math.Quaternion {
	i, j, f := keyframe(t.Times, time)
	a := quatAt(t.Values, i)
	if t.Interpolation == scene.InterpolateStep || i == j {
		return a.Normalize()
	}
	return a.Slerp(quatAt(t.Values, j), f).Normalize()
}
