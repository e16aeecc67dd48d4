package gltf

import (
	"fmt"

	"github.com/taigrr/gltfraster/pkg/render"
)

func newUnsupported(format string, args ...any) error {
	return &render.RenderError{Kind: render.Unsupported, Msg: fmt.Sprintf(format, args...)}
}
