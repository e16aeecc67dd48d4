package gltf

import (
	"encoding/binary"
	"math"

	"github.com/qmuntal/gltf"
)

func componentSize(ct gltf.ComponentType) int {
	switch ct {
	case gltf.ComponentByte, gltf.ComponentUbyte:
		return 1
	case gltf.ComponentShort, gltf.ComponentUshort:
		return 2
	case gltf.ComponentUint, gltf.ComponentFloat:
		return 4
	default:
		return 0
	}
}

func numComponents(t gltf.AccessorType) int {
	switch t {
	case gltf.AccessorScalar:
		return 1
	case gltf.AccessorVec2:
		return 2
	case gltf.AccessorVec3:
		return 3
	case gltf.AccessorVec4:
		return 4
	case gltf.AccessorMat2:
		return 4
	case gltf.AccessorMat3:
		return 9
	case gltf.AccessorMat4:
		return 16
	default:
		return 0
	}
}

// decodeComponent reads one scalar component of the documented types
// (5120 BYTE, 5121 UBYTE, 5122 SHORT, 5123 USHORT, 5125 UINT, 5126 FLOAT),
// applying the normalization formula when requested: signed max(-1, v/MAX),
// unsigned v/MAX.
func decodeComponent(ct gltf.ComponentType, raw []byte, normalized bool) float64 {
	switch ct {
	case gltf.ComponentFloat:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(raw)))
	case gltf.ComponentByte:
		v := int8(raw[0])
		if normalized {
			return math.Max(-1, float64(v)/127)
		}
		return float64(v)
	case gltf.ComponentUbyte:
		v := raw[0]
		if normalized {
			return float64(v) / 255
		}
		return float64(v)
	case gltf.ComponentShort:
		v := int16(binary.LittleEndian.Uint16(raw))
		if normalized {
			return math.Max(-1, float64(v)/32767)
		}
		return float64(v)
	case gltf.ComponentUshort:
		v := binary.LittleEndian.Uint16(raw)
		if normalized {
			return float64(v) / 65535
		}
		return float64(v)
	case gltf.ComponentUint:
		v := binary.LittleEndian.Uint32(raw)
		if normalized {
			return float64(v) / 4294967295
		}
		return float64(v)
	default:
		return 0
	}
}

// readAccessorFloats decodes accessor accessorIdx into a flat float64 slice
// of count*numComponents(type) values. Strided and interleaved buffer views
// are honored via ByteStride; sparse accessors are rejected.
func readAccessorFloats(doc *gltf.Document, accessorIdx uint32) ([]float64, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Sparse != nil {
		return nil, newUnsupported("sparse accessors are not supported")
	}

	nc := numComponents(accessor.Type)
	if nc == 0 {
		return nil, newUnsupported("unsupported accessor type %v", accessor.Type)
	}
	if accessor.BufferView == nil {
		// A bufferView-less accessor is valid glTF (implies all zeros); the
		// rasterizer already treats absent attributes as zero/default, so a
		// zeroed slice of the right shape is the correct reading.
		return make([]float64, accessor.Count*nc), nil
	}

	cs := componentSize(accessor.ComponentType)
	if cs == 0 {
		return nil, newUnsupported("unsupported component type %v", accessor.ComponentType)
	}

	bv := doc.BufferViews[*accessor.BufferView]
	buf := doc.Buffers[bv.Buffer]
	if buf.Data == nil {
		return nil, newUnsupported("buffer %d has no resolved data", bv.Buffer)
	}

	stride := bv.ByteStride
	if stride == 0 {
		stride = nc * cs
	}
	base := bv.ByteOffset + accessor.ByteOffset

	out := make([]float64, accessor.Count*nc)
	for i := 0; i < accessor.Count; i++ {
		offset := base + i*stride
		for c := 0; c < nc; c++ {
			start := offset + c*cs
			out[i*nc+c] = decodeComponent(accessor.ComponentType, buf.Data[start:start+cs], accessor.Normalized)
		}
	}
	return out, nil
}

// readIndexAccessor decodes a SCALAR UBYTE/USHORT/UINT accessor into a
// uint32 index slice, the only component types valid for indices.
func readIndexAccessor(doc *gltf.Document, accessorIdx uint32) ([]uint32, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, newUnsupported("index accessor must be SCALAR, got %v", accessor.Type)
	}
	switch accessor.ComponentType {
	case gltf.ComponentUbyte, gltf.ComponentUshort, gltf.ComponentUint:
	default:
		return nil, newUnsupported("unsupported index component type %v", accessor.ComponentType)
	}

	floats, err := readAccessorFloats(doc, accessorIdx)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, len(floats))
	for i, f := range floats {
		out[i] = uint32(f)
	}
	return out, nil
}
