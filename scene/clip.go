package scene

// TrackPath names the node property a keyframe track drives.
type TrackPath int

const (
	PathTranslation TrackPath = iota
	PathRotation
	PathScale
)

// Components returns the number of floats per keyframe value.
func (p TrackPath) Components() int {
	if p == PathRotation {
		return 4
	}
	return 3
}

type Interpolation int

const (
	InterpolateLinear Interpolation = iota
	InterpolateStep
)

// KeyframeTrack animates one property of one node. Values holds
// len(Times) * Path.Components() floats.
type KeyframeTrack struct {
	Node          *Node
	Path          TrackPath
	Interpolation Interpolation
	Times         []float32
	Values        []float32
}

// AnimationClip is a named set of tracks played together.
type AnimationClip struct {
	Name     string
	Duration float32
	Tracks   []KeyframeTrack
}

// ComputeDuration sets Duration to the last keyframe time across tracks.
func (c *AnimationClip) ComputeDuration() {
	c.Duration = 0
	for _, t := range c.Tracks {
		if n := len(t.Times); n > 0 && t.Times[n-1] > c.Duration {
			c.Duration = t.Times[n-1]
		}
	}
}
