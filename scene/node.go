package scene

import (
	"sync/atomic"

	"gltf-scenes/core"
	"gltf-scenes/math"
)

// Node is an object in the scene graph. A node without a Mesh is a group.
type Node struct {
	Name      string
	Transform core.Transform
	Parent    *Node
	Children  []*Node
	Mesh      *Mesh
	Visible   bool
	Id        uint32

	CastShadow    bool
	ReceiveShadow bool

	// Skin deforms Mesh from joint nodes elsewhere in the graph.
	Skin *Skin

	// matrix overrides Transform when a glTF node carries an explicit matrix.
	matrix    math.Mat4
	hasMatrix bool

	// Cached world transform
	worldMatrixDirty bool
	worldMatrix      math.Mat4
}

// models are parsed on loader workers, so ids come from an atomic counter
var nodeIdCounter atomic.Uint32

func NewNode(name string) *Node {
	return &Node{
		Name:             name,
		Transform:        core.NewTransform(),
		Children:         make([]*Node, 0),
		Visible:          true,
		Id:               nodeIdCounter.Add(1),
		worldMatrixDirty: true,
	}
}

func (n *Node) AddChild(child *Node) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = n
	n.Children = append(n.Children, child)
	child.MarkWorldMatrixDirty()
}

func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			child.MarkWorldMatrixDirty()
			return
		}
	}
}

// LocalMatrix returns the explicit matrix if one was set, otherwise the
// matrix composed from Transform.
func (n *Node) LocalMatrix() math.Mat4 {
	if n.hasMatrix {
		return n.matrix
	}
	return n.Transform.GetMatrix()
}

// SetMatrix pins the local matrix. Later SetPosition/SetRotation/SetScale
// calls clear it again.
func (n *Node) SetMatrix(m math.Mat4) {
	n.matrix = m
	n.hasMatrix = true
	n.MarkWorldMatrixDirty()
}

// GetWorldMatrix returns local * parentWorld (row-vector order).
func (n *Node) GetWorldMatrix() math.Mat4 {
	if n.worldMatrixDirty {
		local := n.LocalMatrix()
		if n.Parent != nil {
			n.worldMatrix = local.Mul(n.Parent.GetWorldMatrix())
		} else {
			n.worldMatrix = local
		}
		n.worldMatrixDirty = false
	}
	return n.worldMatrix
}

func (n *Node) MarkWorldMatrixDirty() {
	n.worldMatrixDirty = true
	for _, child := range n.Children {
		child.MarkWorldMatrixDirty()
	}
}

func (n *Node) SetPosition(pos math.Vec3) {
	n.Transform.Position = pos
	n.hasMatrix = false
	n.MarkWorldMatrixDirty()
}

func (n *Node) SetRotation(rot math.Quaternion) {
	n.Transform.Rotation = rot
	n.hasMatrix = false
	n.MarkWorldMatrixDirty()
}

func (n *Node) SetScale(scale math.Vec3) {
	n.Transform.Scale = scale
	n.hasMatrix = false
	n.MarkWorldMatrixDirty()
}

// SetUniformScale is shorthand for SetScale(s, s, s).
func (n *Node) SetUniformScale(s float32) {
	n.SetScale(math.Vec3{X: s, Y: s, Z: s})
}

// SetShadows sets cast and receive shadow flags on n and every descendant
// that holds a mesh.
func (n *Node) SetShadows(cast, receive bool) {
	n.Traverse(func(node *Node) {
		if node.Mesh != nil {
			node.CastShadow = cast
			node.ReceiveShadow = receive
		}
	})
}

// Traverse visits all nodes in the graph
func (n *Node) Traverse(callback func(*Node)) {
	callback(n)
	for _, child := range n.Children {
		child.Traverse(callback)
	}
}

// Find finds a node by name
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(name); found != nil {
			return found
		}
	}
	return nil
}
