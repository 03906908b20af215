// Package asset holds the placeable template and its scene metadata.
//
// Loading and parsing the 3D model itself is the renderer's concern; this
// package only carries the opaque template handle plus the metadata the
// placement controller reads.
package asset

import (
	"strings"
	"sync/atomic"

	"github.com/danmuck/arplace/internal/spatial"
)

// Placeable is the immutable template an instance is cloned from.
type Placeable struct {
	Name         string
	Template     any
	InitialScale spatial.Vector3
}

// NewPlaceable combines a loaded template with its metadata entry.
func NewPlaceable(template any, meta ObjectMeta) Placeable {
	name := strings.TrimSpace(meta.Name)
	if name == "" {
		name = "object"
	}
	return Placeable{
		Name:         name,
		Template:     template,
		InitialScale: meta.InitialScale,
	}
}

// Slot publishes a Placeable once it has finished loading. It is safe to
// read from any goroutine.
type Slot struct {
	v atomic.Pointer[Placeable]
}

// Set stores p if nothing was stored yet and reports whether it did.
func (s *Slot) Set(p Placeable) bool {
	return s.v.CompareAndSwap(nil, &p)
}

// Asset returns the stored Placeable and whether loading has finished.
func (s *Slot) Asset() (Placeable, bool) {
	p := s.v.Load()
	if p == nil {
		return Placeable{}, false
	}
	return *p, true
}
