package asset

import (
	"errors"
	"fmt"
	"os"

	"github.com/danmuck/arplace/internal/spatial"
	"github.com/tidwall/gjson"
)

var (
	ErrInvalidMeta = errors.New("asset: invalid scene metadata")
)

// ObjectMeta is the first object entry of a scene metadata document.
type ObjectMeta struct {
	Name         string
	InitialScale spatial.Vector3
}

// DefaultObjectMeta is used when the document has no object entries.
func DefaultObjectMeta() ObjectMeta {
	return ObjectMeta{InitialScale: spatial.One()}
}

// ParseMeta reads Objects[0] from a scene metadata document. A missing
// object or InitialScale falls back to unit scale.
func ParseMeta(data []byte) (ObjectMeta, error) {
	if !gjson.ValidBytes(data) {
		return ObjectMeta{}, fmt.Errorf("%w: malformed json", ErrInvalidMeta)
	}
	meta := DefaultObjectMeta()

	obj := gjson.GetBytes(data, "Objects.0")
	if !obj.Exists() {
		return meta, nil
	}
	if !obj.IsObject() {
		return ObjectMeta{}, fmt.Errorf("%w: Objects[0] is not an object", ErrInvalidMeta)
	}
	meta.Name = obj.Get("Name").String()

	scale := obj.Get("InitialScale")
	if !scale.Exists() || scale.Type == gjson.Null {
		return meta, nil
	}
	parts := scale.Array()
	if !scale.IsArray() || len(parts) != 3 {
		return ObjectMeta{}, fmt.Errorf("%w: InitialScale must be a 3-element array", ErrInvalidMeta)
	}
	for i, p := range parts {
		if p.Type != gjson.Number {
			return ObjectMeta{}, fmt.Errorf("%w: InitialScale[%d] is not a number", ErrInvalidMeta, i)
		}
	}
	meta.InitialScale = spatial.V3(parts[0].Float(), parts[1].Float(), parts[2].Float())
	return meta, nil
}

// LoadMeta reads and parses a metadata file.
func LoadMeta(path string) (ObjectMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ObjectMeta{}, fmt.Errorf("asset meta load failed (%s): %w", path, err)
	}
	meta, err := ParseMeta(data)
	if err != nil {
		return ObjectMeta{}, fmt.Errorf("asset meta parse failed (%s): %w", path, err)
	}
	return meta, nil
}
