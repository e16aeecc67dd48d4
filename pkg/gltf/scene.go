package gltf

import (
	"fmt"

	"github.com/qmuntal/gltf"

	"github.com/taigrr/gltfraster/pkg/math3d"
	"github.com/taigrr/gltfraster/pkg/render"
)

var identityNodeMatrix = gltf.Matrix4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// sceneNodes returns the root node indices to traverse: the document's
// designated default scene, its first scene if none is designated, or every
// node directly if the document declares no scenes at all.
func sceneNodes(doc *gltf.Document) []uint32 {
	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	if len(doc.Scenes) > 0 {
		return doc.Scenes[0].Nodes
	}
	nodes := make([]uint32, len(doc.Nodes))
	for i := range nodes {
		nodes[i] = uint32(i)
	}
	return nodes
}

// nodeLocalMatrix composes a node's local transform from either its
// explicit matrix or its T*R*S triple, per §6's ingress contract.
func nodeLocalMatrix(n *gltf.Node) math3d.Mat4 {
	if n.Matrix != identityNodeMatrix {
		s := make([]float64, 16)
		for i, v := range n.Matrix {
			s[i] = float64(v)
		}
		return math3d.Mat4FromSlice(s)
	}
	t := math3d.V3(float64(n.Translation[0]), float64(n.Translation[1]), float64(n.Translation[2]))
	scale := math3d.V3(float64(n.Scale[0]), float64(n.Scale[1]), float64(n.Scale[2]))
	return math3d.FromRotationTranslationScale(
		t,
		float64(n.Rotation[0]), float64(n.Rotation[1]), float64(n.Rotation[2]), float64(n.Rotation[3]),
		scale,
	)
}

// walkNode recurses the scene forest with an explicit parent-matrix
// parameter; glTF forbids cycles so plain recursion cannot loop.
func walkNode(doc *gltf.Document, nodeIdx uint32, parent math3d.Mat4, images []*render.Bitmap, out *[]render.DrawCall) error {
	node := doc.Nodes[nodeIdx]
	world := parent.Mul(nodeLocalMatrix(node))

	if node.Mesh != nil {
		mesh := doc.Meshes[*node.Mesh]
		for _, prim := range mesh.Primitives {
			dc, ok, err := convertPrimitive(doc, prim, world, images)
			if err != nil {
				return fmt.Errorf("node %d mesh %d: %w", nodeIdx, *node.Mesh, err)
			}
			if ok {
				*out = append(*out, dc)
			}
		}
	}

	for _, child := range node.Children {
		if err := walkNode(doc, child, world, images, out); err != nil {
			return err
		}
	}
	return nil
}

// convertPrimitive reads one primitive's attribute/index accessors into a
// DrawCall. Non-triangle primitives (lines, points, fans/strips) are
// skipped: only mode 4 is emitted as a triangle draw per §6.
func convertPrimitive(doc *gltf.Document, prim *gltf.Primitive, model math3d.Mat4, images []*render.Bitmap) (render.DrawCall, bool, error) {
	if prim.Mode != gltf.PrimitiveTriangles {
		return render.DrawCall{}, false, nil
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return render.DrawCall{}, false, nil
	}
	positions, err := readAccessorFloats(doc, posIdx)
	if err != nil {
		return render.DrawCall{}, false, fmt.Errorf("read POSITION: %w", err)
	}

	var normals, uvs, colors []float64
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if normals, err = readAccessorFloats(doc, idx); err != nil {
			return render.DrawCall{}, false, fmt.Errorf("read NORMAL: %w", err)
		}
	}
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if uvs, err = readAccessorFloats(doc, idx); err != nil {
			return render.DrawCall{}, false, fmt.Errorf("read TEXCOORD_0: %w", err)
		}
	}
	if idx, ok := prim.Attributes[gltf.COLOR_0]; ok {
		if colors, err = readAccessorFloats(doc, idx); err != nil {
			return render.DrawCall{}, false, fmt.Errorf("read COLOR_0: %w", err)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = readIndexAccessor(doc, *prim.Indices); err != nil {
			return render.DrawCall{}, false, fmt.Errorf("read indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions)/3)
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	reverseWinding(indices)

	dc := render.DrawCall{
		Positions: positions,
		Normals:   normals,
		UVs:       uvs,
		Colors:    colors,
		Indices:   indices,
		Model:     model,
		Material:  convertMaterial(doc, images, prim.Material),
		Mode:      render.ModeTriangles,
	}
	return dc, true, nil
}

// reverseWinding swaps the second and third index of every triangle in
// place. glTF defines front faces as CCW; the rasterizer's edge function
// treats CW as front, so every triangle is flipped once at load time rather
// than in the hot rasterization loop.
func reverseWinding(indices []uint32) {
	for i := 0; i+2 < len(indices); i += 3 {
		indices[i+1], indices[i+2] = indices[i+2], indices[i+1]
	}
}
