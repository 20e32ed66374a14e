package app

import (
	"gltf-scenes/animation"
	"gltf-scenes/scene"
)

// CowPolicy advances the ripple shader while the pointer moves over the
// model: each such frame adds TimeStep to every mesh's time uniform and copies
// the pointer position into its mouse uniform.
type CowPolicy struct {
	TimeStep float32
}

func (p *CowPolicy) Step(v *Viewer) {
	moved := v.Pointer.TakeMoved()
	if !v.hover || !moved {
		return
	}
	v.Scene.Root.Traverse(func(n *scene.Node) {
		if n.Mesh == nil {
			return
		}
		mat, ok := n.Mesh.Material.(*scene.ShaderMaterial)
		if !ok {
			return
		}
		t := mat.Uniform("time")
		if t == nil {
			return
		}
		if cur, ok := t.Value.(float32); ok {
			t.Value = cur + p.TimeStep
		}
		if m := mat.Uniform("mouse"); m != nil {
			m.Value = v.Pointer.NDC
		}
	})
}

// BirdPolicy advances Mixer by TimeStep every frame once it exists.
type BirdPolicy struct {
	TimeStep float32
	Mixer    *animation.Mixer
}

func (p *BirdPolicy) Step(v *Viewer) {
	if p.Mixer != nil {
		p.Mixer.Update(p.TimeStep)
	}
}
