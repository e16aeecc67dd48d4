package gltf

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"

	"github.com/taigrr/gltfraster/pkg/render"
)

// decodeImages resolves and decodes every entry of doc.Images into a
// render.Bitmap, in image-index order. baseDir resolves external image URIs
// relative to the source document. A nil entry means the image could not be
// located (no bufferView and no URI); textures referencing it sample white.
func decodeImages(doc *gltf.Document, baseDir string) ([]*render.Bitmap, error) {
	out := make([]*render.Bitmap, len(doc.Images))
	for i, img := range doc.Images {
		data, err := imageBytes(doc, img, baseDir)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		if data == nil {
			continue
		}
		decoded, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, newUnsupported("%s", err.Error()))
		}
		out[i] = render.BitmapFromImage(decoded)
	}
	return out, nil
}

func imageBytes(doc *gltf.Document, img *gltf.Image, baseDir string) ([]byte, error) {
	if img.BufferView != nil {
		bv := doc.BufferViews[*img.BufferView]
		buf := doc.Buffers[bv.Buffer]
		if buf.Data == nil {
			return nil, fmt.Errorf("buffer %d has no resolved data", bv.Buffer)
		}
		return buf.Data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength], nil
	}
	if img.URI == "" {
		return nil, nil
	}
	if strings.HasPrefix(img.URI, "data:") {
		return decodeDataURI(img.URI)
	}
	return os.ReadFile(filepath.Join(baseDir, img.URI))
}

func decodeDataURI(uri string) ([]byte, error) {
	comma := strings.IndexByte(uri, ',')
	if comma < 0 {
		return nil, fmt.Errorf("malformed data URI")
	}
	meta, payload := uri[len("data:"):comma], uri[comma+1:]
	if strings.Contains(meta, ";base64") {
		return base64.StdEncoding.DecodeString(payload)
	}
	decoded, err := url.QueryUnescape(payload)
	if err != nil {
		return nil, err
	}
	return []byte(decoded), nil
}

// resolveTexture maps a texture index to its already-decoded bitmap, or nil
// if the texture has no source image or the image failed to resolve.
func resolveTexture(doc *gltf.Document, images []*render.Bitmap, texIdx uint32) *render.Bitmap {
	if int(texIdx) >= len(doc.Textures) {
		return nil
	}
	tex := doc.Textures[texIdx]
	if tex.Source == nil {
		return nil
	}
	idx := int(*tex.Source)
	if idx < 0 || idx >= len(images) {
		return nil
	}
	return images[idx]
}

// convertMaterial maps a glTF material to render.Material. matIdx nil yields
// the default opaque-white material.
func convertMaterial(doc *gltf.Document, images []*render.Bitmap, matIdx *uint32) render.Material {
	mat := render.DefaultMaterial()
	if matIdx == nil {
		return mat
	}
	gm := doc.Materials[*matIdx]
	mat.Name = gm.Name

	if gm.PBRMetallicRoughness != nil {
		pbr := gm.PBRMetallicRoughness
		mat.BaseColorFactor = [4]float64{
			float64(pbr.BaseColorFactor[0]),
			float64(pbr.BaseColorFactor[1]),
			float64(pbr.BaseColorFactor[2]),
			float64(pbr.BaseColorFactor[3]),
		}
		if pbr.BaseColorTexture != nil {
			mat.BaseColorTexture = resolveTexture(doc, images, pbr.BaseColorTexture.Index)
		}
	}

	switch gm.AlphaMode {
	case gltf.AlphaMask:
		mat.AlphaMode = render.AlphaMask
	case gltf.AlphaBlend:
		mat.AlphaMode = render.AlphaBlend
	default:
		mat.AlphaMode = render.AlphaOpaque
	}

	mat.AlphaCutoff = 0.5
	if gm.AlphaCutoff != nil {
		mat.AlphaCutoff = *gm.AlphaCutoff
	}

	return mat
}
