package scene

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"gltf-scenes/core"
	"gltf-scenes/math"
)

// Model is an imported glTF file. Root groups the default scene's root
// nodes and is what callers attach to their scene.
type Model struct {
	Root       *Node
	Textures   []*Texture // need GPU upload before first draw
	Animations []*AnimationClip
	Skins      []*Skin

	// Warnings lists parts that were skipped (bad texture, unsupported
	// primitive) without failing the whole import.
	Warnings []error
}

// Meshes returns every node of the model that holds a mesh.
func (m *Model) Meshes() []*Node {
	var out []*Node
	m.Root.Traverse(func(n *Node) {
		if n.Mesh != nil {
			out = append(out, n)
		}
	})
	return out
}

// ProgressFunc receives the number of completed import steps out of total.
type ProgressFunc func(done, total int)

// LoadGLTF opens a .glb or .gltf file and builds a scene graph with
// geometry, materials, base-colour textures, skins and animation clips.
// progress may be nil.
func LoadGLTF(path string, progress ProgressFunc) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	imp := &importer{
		doc:      doc,
		dir:      filepath.Dir(path),
		progress: progress,
		model:    &Model{Root: NewNode(filepath.Base(filepath.Dir(path)))},
	}
	imp.total = 2 + len(doc.Textures) + len(doc.Meshes) + len(doc.Skins) + len(doc.Animations)
	imp.step()

	imp.loadTextures()
	imp.loadMaterials()
	if err := imp.loadMeshes(); err != nil {
		return nil, err
	}
	imp.loadNodes()
	if err := imp.loadSkins(); err != nil {
		return nil, err
	}
	if err := imp.loadAnimations(); err != nil {
		return nil, err
	}
	return imp.model, nil
}

type importer struct {
	doc      *gltf.Document
	dir      string
	progress ProgressFunc
	done     int
	total    int
	model    *Model

	textures  []*Texture
	materials []Material
	meshes    [][]*Mesh
	nodes     []*Node
}

func (imp *importer) step() {
	imp.done++
	if imp.progress != nil {
		imp.progress(imp.done, imp.total)
	}
}

func (imp *importer) warn(format string, args ...any) {
	imp.model.Warnings = append(imp.model.Warnings, fmt.Errorf(format, args...))
}

// ── Textures ─────────────────────────────────────────────────────────────────

func (imp *importer) loadTextures() {
	doc := imp.doc
	imp.textures = make([]*Texture, len(doc.Textures))
	for i, gt := range doc.Textures {
		if gt.Source != nil && *gt.Source < len(doc.Images) {
			tex, err := imp.loadImage(*gt.Source)
			if err != nil {
				imp.warn("texture %d: %w", i, err)
			} else {
				imp.textures[i] = tex
				imp.model.Textures = append(imp.model.Textures, tex)
			}
		}
		imp.step()
	}
}

func (imp *importer) loadImage(idx int) (*Texture, error) {
	img := imp.doc.Images[idx]
	name := img.Name
	if name == "" {
		name = fmt.Sprintf("image_%d", idx)
	}

	switch {
	case img.BufferView != nil:
		raw, err := modeler.ReadBufferView(imp.doc, imp.doc.BufferViews[*img.BufferView])
		if err != nil {
			return nil, fmt.Errorf("image %d buffer view: %w", idx, err)
		}
		return DecodeTexture(name, raw)
	case img.IsEmbeddedResource():
		raw, err := img.MarshalData()
		if err != nil {
			return nil, fmt.Errorf("image %d data uri: %w", idx, err)
		}
		return DecodeTexture(name, raw)
	case img.URI != "":
		uri, err := url.PathUnescape(img.URI)
		if err != nil {
			uri = img.URI
		}
		return LoadTexture(filepath.Join(imp.dir, filepath.FromSlash(uri)))
	}
	return nil, fmt.Errorf("image %d has no source", idx)
}

// ── Materials ────────────────────────────────────────────────────────────────

func (imp *importer) loadMaterials() {
	imp.materials = make([]Material, len(imp.doc.Materials))
	for i, gm := range imp.doc.Materials {
		mat := DefaultMaterial()
		mat.Name = gm.Name
		mat.DoubleSided = gm.DoubleSided

		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			cf := pbr.BaseColorFactorOrDefault()
			mat.Albedo = core.Color{
				R: float32(cf[0]), G: float32(cf[1]),
				B: float32(cf[2]), A: float32(cf[3]),
			}
			if pbr.BaseColorTexture != nil {
				idx := pbr.BaseColorTexture.Index
				if idx < len(imp.textures) {
					mat.AlbedoTexture = imp.textures[idx]
				}
			}
		}
		imp.materials[i] = mat
	}
}

// ── Meshes ───────────────────────────────────────────────────────────────────

func (imp *importer) loadMeshes() error {
	doc := imp.doc
	imp.meshes = make([][]*Mesh, len(doc.Meshes))
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				imp.warn("mesh %d primitive %d: mode %v not supported", mi, pi, prim.Mode)
				continue
			}
			m, err := imp.loadPrimitive(gm.Name, mi, pi, prim)
			if err != nil {
				return fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
			if prim.Material != nil && *prim.Material < len(imp.materials) {
				m.Material = imp.materials[*prim.Material]
			}
			imp.meshes[mi] = append(imp.meshes[mi], m)
		}
		imp.step()
	}
	return nil
}

func (imp *importer) loadPrimitive(meshName string, meshIdx, primIdx int, prim *gltf.Primitive) (*Mesh, error) {
	doc := imp.doc
	name := fmt.Sprintf("%s_p%d", meshName, primIdx)
	if meshName == "" {
		name = fmt.Sprintf("mesh_%d_p%d", meshIdx, primIdx)
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
	}
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return nil, fmt.Errorf("uvs: %w", err)
		}
	}

	verts := make([]core.Vertex, len(positions))
	for i, p := range positions {
		v := core.Vertex{
			Position: math.Vec3{X: p[0], Y: p[1], Z: p[2]},
			Normal:   math.Vec3Up,
		}
		if i < len(normals) {
			n := normals[i]
			v.Normal = math.Vec3{X: n[0], Y: n[1], Z: n[2]}
		}
		if i < len(uvs) {
			v.UV = math.Vec2{X: uvs[i][0], Y: uvs[i][1]}
		}
		verts[i] = v
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	}
	mesh := CreateMeshFromData(name, verts, indices)

	jIdx, hasJoints := prim.Attributes[gltf.JOINTS_0]
	wIdx, hasWeights := prim.Attributes[gltf.WEIGHTS_0]
	if hasJoints && hasWeights {
		if mesh.Joints, err = modeler.ReadJoints(doc, doc.Accessors[jIdx], nil); err != nil {
			return nil, fmt.Errorf("joints: %w", err)
		}
		if mesh.Weights, err = modeler.ReadWeights(doc, doc.Accessors[wIdx], nil); err != nil {
			return nil, fmt.Errorf("weights: %w", err)
		}
	}
	return mesh, nil
}

var identityMatrix = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// ── Nodes ────────────────────────────────────────────────────────────────────

func (imp *importer) loadNodes() {
	doc := imp.doc
	imp.nodes = make([]*Node, len(doc.Nodes))
	for i, gn := range doc.Nodes {
		name := gn.Name
		if name == "" {
			name = fmt.Sprintf("node_%d", i)
		}
		n := NewNode(name)

		if m := gn.MatrixOrDefault(); m != identityMatrix {
			var a [16]float32
			for k, f := range m {
				a[k] = float32(f)
			}
			n.SetMatrix(math.Mat4FromArray(a))
		} else {
			t := gn.TranslationOrDefault()
			n.SetPosition(math.Vec3{X: float32(t[0]), Y: float32(t[1]), Z: float32(t[2])})
			r := gn.RotationOrDefault()
			n.SetRotation(math.Quaternion{
				X: float32(r[0]), Y: float32(r[1]),
				Z: float32(r[2]), W: float32(r[3]),
			})
			s := gn.ScaleOrDefault()
			n.SetScale(math.Vec3{X: float32(s[0]), Y: float32(s[1]), Z: float32(s[2])})
		}

		if gn.Mesh != nil && *gn.Mesh < len(imp.meshes) {
			prims := imp.meshes[*gn.Mesh]
			switch len(prims) {
			case 0:
			case 1:
				n.Mesh = prims[0]
			default:
				for pi, p := range prims {
					child := NewNode(fmt.Sprintf("%s_prim%d", name, pi))
					child.Mesh = p
					n.AddChild(child)
				}
			}
		}
		imp.nodes[i] = n
	}

	hasParent := make([]bool, len(imp.nodes))
	for i, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c < len(imp.nodes) {
				imp.nodes[i].AddChild(imp.nodes[c])
				hasParent[c] = true
			}
		}
	}

	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		for _, r := range doc.Scenes[*doc.Scene].Nodes {
			if r < len(imp.nodes) {
				imp.model.Root.AddChild(imp.nodes[r])
			}
		}
	} else {
		for i, n := range imp.nodes {
			if !hasParent[i] {
				imp.model.Root.AddChild(n)
			}
		}
	}
	imp.step()
}

// ── Skins ────────────────────────────────────────────────────────────────────

func (imp *importer) loadSkins() error {
	doc := imp.doc
	skins := make([]*Skin, len(doc.Skins))
	for si, gs := range doc.Skins {
		skin := &Skin{Name: gs.Name}
		for _, j := range gs.Joints {
			if j >= len(imp.nodes) {
				return fmt.Errorf("skin %d: joint %d out of range", si, j)
			}
			skin.Joints = append(skin.Joints, imp.nodes[j])
		}
		if gs.InverseBindMatrices != nil {
			data, err := modeler.ReadAccessor(doc, doc.Accessors[*gs.InverseBindMatrices], nil)
			if err != nil {
				return fmt.Errorf("skin %d inverse bind matrices: %w", si, err)
			}
			mats, ok := data.([][4][4]float32)
			if !ok {
				return fmt.Errorf("skin %d: inverse bind matrices are %T", si, data)
			}
			for _, m := range mats {
				skin.InverseBind = append(skin.InverseBind, math.Mat4(m))
			}
		}
		skins[si] = skin
		imp.model.Skins = append(imp.model.Skins, skin)
		imp.step()
	}

	for i, gn := range doc.Nodes {
		if gn.Skin == nil || *gn.Skin >= len(skins) {
			continue
		}
		skin := skins[*gn.Skin]
		imp.nodes[i].Skin = skin
		for _, c := range imp.nodes[i].Children {
			if c.Mesh != nil && c.Mesh.IsSkinned() {
				c.Skin = skin
			}
		}
	}
	return nil
}

// ── Animations ───────────────────────────────────────────────────────────────

func (imp *importer) loadAnimations() error {
	doc := imp.doc
	for ai, ga := range doc.Animations {
		clip := &AnimationClip{Name: ga.Name}
		if clip.Name == "" {
			clip.Name = fmt.Sprintf("animation_%d", ai)
		}
		for ci, ch := range ga.Channels {
			if ch.Target.Node == nil || *ch.Target.Node >= len(imp.nodes) ||
				ch.Sampler < 0 || ch.Sampler >= len(ga.Samplers) {
				continue
			}
			var path TrackPath
			switch ch.Target.Path {
			case gltf.TRSTranslation:
				path = PathTranslation
			case gltf.TRSRotation:
				path = PathRotation
			case gltf.TRSScale:
				path = PathScale
			default:
				imp.warn("animation %d channel %d: path %v not supported", ai, ci, ch.Target.Path)
				continue
			}
			track, err := imp.readTrack(ga.Samplers[ch.Sampler], path)
			if errors.Is(err, errUnsupportedOutput) {
				imp.warn("animation %d channel %d: %w", ai, ci, err)
				continue
			}
			if err != nil {
				return fmt.Errorf("animation %d channel %d: %w", ai, ci, err)
			}
			track.Node = imp.nodes[*ch.Target.Node]
			clip.Tracks = append(clip.Tracks, track)
		}
		clip.ComputeDuration()
		imp.model.Animations = append(imp.model.Animations, clip)
		imp.step()
	}
	return nil
}

var errUnsupportedOutput = errors.New("unsupported keyframe output")

// keyValues flattens sampler output. Integer outputs are normalized
// quaternions and are mapped back to [-1, 1].
func keyValues(out any) ([]float32, bool) {
	var flat []float32
	switch v := out.(type) {
	case [][3]float32:
		for _, e := range v {
			flat = append(flat, e[:]...)
		}
	case [][4]float32:
		for _, e := range v {
			flat = append(flat, e[:]...)
		}
	case [][4]int8:
		for _, e := range v {
			for _, c := range e {
				flat = append(flat, gltf.DenormalizeByte(c))
			}
		}
	case [][4]uint8:
		for _, e := range v {
			for _, c := range e {
				flat = append(flat, gltf.DenormalizeUbyte(c))
			}
		}
	case [][4]int16:
		for _, e := range v {
			for _, c := range e {
				flat = append(flat, gltf.DenormalizeShort(c))
			}
		}
	case [][4]uint16:
		for _, e := range v {
			for _, c := range e {
				flat = append(flat, gltf.DenormalizeUshort(c))
			}
		}
	default:
		return nil, false
	}
	return flat, true
}

func (imp *importer) readTrack(s *gltf.AnimationSampler, path TrackPath) (KeyframeTrack, error) {
	doc := imp.doc
	track := KeyframeTrack{Path: path}

	in, err := modeler.ReadAccessor(doc, doc.Accessors[s.Input], nil)
	if err != nil {
		return track, fmt.Errorf("input: %w", err)
	}
	times, ok := in.([]float32)
	if !ok {
		return track, fmt.Errorf("input is %T, want []float32", in)
	}
	track.Times = times

	out, err := modeler.ReadAccessor(doc, doc.Accessors[s.Output], nil)
	if err != nil {
		return track, fmt.Errorf("output: %w", err)
	}
	flat, ok := keyValues(out)
	if !ok {
		return track, fmt.Errorf("%w %T", errUnsupportedOutput, out)
	}

	n := path.Components()
	switch s.Interpolation {
	case gltf.InterpolationStep:
		track.Interpolation = InterpolateStep
	case gltf.InterpolationCubicSpline:
		// keep only the value of each (in-tangent, value, out-tangent) triple
		keys := make([]float32, 0, len(times)*n)
		for k := range times {
			start := (3*k + 1) * n
			if start+n > len(flat) {
				break
			}
			keys = append(keys, flat[start:start+n]...)
		}
		flat = keys
	}

	if len(flat) < len(times)*n {
		return track, fmt.Errorf("%d values for %d keyframes", len(flat)/n, len(times))
	}
	track.Values = flat[:len(times)*n]
	return track, nil
}
