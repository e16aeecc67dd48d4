// Package gltf loads glTF 2.0 and GLB assets into render.DrawCall batches:
// it resolves buffers and images, walks the scene graph composing node
// transforms, and reads accessors into the flat attribute layout the
// rasterizer core expects.
package gltf

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"

	"github.com/taigrr/gltfraster/pkg/math3d"
	"github.com/taigrr/gltfraster/pkg/render"
)

// Load opens a .gltf or .glb file at path and returns the flattened draw
// calls of its default scene, ready to hand to render.Render.
func Load(path string) ([]render.DrawCall, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return loadDocument(doc, filepath.Dir(path))
}

// LoadContext loads a model the same way Load does, except src may also be
// an http(s):// URL, which is fetched under ctx before parsing. Only
// self-contained assets are supported over HTTP: a GLB with its binary
// chunk inlined, or a .gltf whose buffers/images are embedded as data URIs.
// A .gltf fetched this way that references external buffers by relative
// URI will fail to resolve them, since there is no remote base directory
// to fetch against; serve those from a local path instead.
func LoadContext(ctx context.Context, src string) ([]render.DrawCall, error) {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		return Load(src)
	}
	localPath, cleanup, err := fetchToTemp(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", src, err)
	}
	defer cleanup()
	return Load(localPath)
}

func fetchToTemp(ctx context.Context, rawURL string) (localPath string, cleanup func(), err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	dir, err := os.MkdirTemp("", "gltfraster-fetch-*")
	if err != nil {
		return "", nil, err
	}
	cleanup = func() { os.RemoveAll(dir) }

	name := "model.glb"
	if u, perr := url.Parse(rawURL); perr == nil {
		if base := path.Base(u.Path); base != "" && base != "." && base != "/" {
			name = base
		}
	}

	localPath = filepath.Join(dir, name)
	f, err := os.Create(localPath)
	if err != nil {
		cleanup()
		return "", nil, err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		cleanup()
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return localPath, cleanup, nil
}

func loadDocument(doc *gltf.Document, baseDir string) ([]render.DrawCall, error) {
	images, err := decodeImages(doc, baseDir)
	if err != nil {
		return nil, err
	}

	var calls []render.DrawCall
	for _, nodeIdx := range sceneNodes(doc) {
		if err := walkNode(doc, nodeIdx, math3d.Identity(), images, &calls); err != nil {
			return nil, err
		}
	}
	return calls, nil
}
