package modelio

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is a document encoding.
type Format uint8

const (
	FormatJSON Format = iota + 1
	FormatYAML
	FormatMsgpack
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatMsgpack:
		return "msgpack"
	default:
		return "unknown"
	}
}

// FormatFromPath picks a format by file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".mp", ".msgpack":
		return FormatMsgpack, nil
	default:
		return 0, fmt.Errorf("%w: %q (expected .json, .yaml, .yml, .mp or .msgpack)", ErrUnknownFormat, filepath.Ext(path))
	}
}
