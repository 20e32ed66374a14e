package app

import (
	"log/slog"

	"gltf-scenes/animation"
	"gltf-scenes/config"
	"gltf-scenes/core"
	"gltf-scenes/interaction"
	"gltf-scenes/loader"
	"gltf-scenes/math"
	"gltf-scenes/scene"
)

func vec3(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}

// NewViewer builds the shared part of both scenes: black background,
// perspective camera, orbit controls, ambient light and a shadow-casting
// spot light.
func NewViewer(cfg config.Config, r Renderer, ld *loader.Loader, log *slog.Logger) *Viewer {
	if log == nil {
		log = slog.Default()
	}
	s := scene.NewScene()
	s.ClearColor = core.ColorBlack

	width, height := cfg.Window.Width, cfg.Window.Height
	cam := scene.NewCamera(scene.Degrees(cfg.Camera.FOV), float32(width)/float32(max(height, 1)), cfg.Camera.Near, cfg.Camera.Far)
	cam.SetPosition(vec3(cfg.Camera.Position))
	cam.LookAt(vec3(cfg.Controls.Target))
	s.SetCamera(cam)

	controls := interaction.NewOrbitControls(cam)
	controls.Target = vec3(cfg.Controls.Target)
	controls.EnableDamping = cfg.Controls.Damping
	controls.DampingFactor = cfg.Controls.DampingFactor
	controls.AutoRotate = cfg.Controls.AutoRotate
	controls.MinDistance = cfg.Controls.MinDistance
	controls.MaxDistance = cfg.Controls.MaxDistance
	controls.MinPolarAngle = cfg.Controls.MinPolarAngle
	controls.MaxPolarAngle = cfg.Controls.MaxPolarAngle
	controls.Update()

	s.AddLight(scene.NewAmbientLight(core.ColorWhite, cfg.Lights.AmbientIntensity))
	spot := scene.NewSpotLight(core.ColorWhite, cfg.Lights.SpotIntensity, vec3(cfg.Lights.SpotPosition))
	spot.SpotAngle = scene.Degrees(cfg.Lights.SpotAngle)
	spot.CastShadow = true
	spot.ShadowBias = cfg.Lights.ShadowBias
	s.AddLight(spot)

	ld.SetPath(cfg.Assets)

	v := &Viewer{
		Scene:     s,
		Camera:    cam,
		Controls:  controls,
		Raycaster: interaction.NewRaycaster(),
		Loader:    ld,
		Renderer:  r,
		Progress:  NewProgressIndicator(),
		log:       log,
	}
	v.OnResize(width, height)
	return v
}

func (v *Viewer) place(model *scene.Model, m config.Model) {
	model.Root.SetPosition(vec3(m.Position))
	model.Root.SetUniformScale(m.Scale)
	model.Root.SetShadows(true, true)
	for _, w := range model.Warnings {
		v.log.Warn("asset warning", "path", m.Path, "err", w)
	}
	v.Scene.AddNode(model.Root)
}

func (v *Viewer) logProgress(p loader.Progress) {
	v.log.Info("loading", "path", p.Path, "percent", p.Percent())
}

func (v *Viewer) logError(err error) {
	v.log.Error("load failed", "err", err)
}

// SetupCow loads the cow and swaps every mesh material for the ripple
// shader. The progress indicator hides when the cow attaches.
func SetupCow(v *Viewer, cfg config.Config) {
	v.Policy = &CowPolicy{TimeStep: cfg.TimeStep}

	v.Loader.Load(cfg.Cow.Path,
		func(model *scene.Model) {
			for _, n := range model.Meshes() {
				base := scene.BaseTexture(n.Mesh.Material)
				n.Mesh.Material = scene.NewDisplaceMaterial(n.Name, base)
			}
			v.place(model, cfg.Cow)
			v.Progress.Hide()
			v.log.Info("model attached", "path", cfg.Cow.Path, "meshes", len(model.Meshes()))
		},
		func(p loader.Progress) {
			v.logProgress(p)
			v.Progress.Report(p.Percent())
		},
		v.logError,
	)
}

// SetupBird loads the animated bird and the static remains independently.
// Every clip of the bird starts looping as soon as it attaches. The
// progress indicator hides once neither load is outstanding.
func SetupBird(v *Viewer, cfg config.Config) {
	policy := &BirdPolicy{TimeStep: cfg.TimeStep}
	v.Policy = policy

	done := func() {
		if v.Loader.Pending() == 0 {
			v.Progress.Hide()
		}
	}
	onProgress := func(p loader.Progress) {
		v.logProgress(p)
		v.Progress.Report(p.Percent())
	}
	onError := func(err error) {
		v.logError(err)
		done()
	}

	v.Loader.Load(cfg.Bird.Path,
		func(model *scene.Model) {
			v.place(model, cfg.Bird)
			mixer := animation.NewMixer(model.Root)
			for _, clip := range model.Animations {
				mixer.ClipAction(clip).SetLoop(animation.LoopRepeat).Play()
			}
			policy.Mixer = mixer
			v.log.Info("model attached", "path", cfg.Bird.Path, "clips", len(model.Animations))
			done()
		},
		onProgress, onError,
	)
	v.Loader.Load(cfg.Remains.Path,
		func(model *scene.Model) {
			v.place(model, cfg.Remains)
			v.log.Info("model attached", "path", cfg.Remains.Path)
			done()
		},
		onProgress, onError,
	)
}
