package parser

import (
	"fmt"
	"path/filepath"
	"strings"
)

// NewParser picks a parser by file extension, falling back to the content.
func NewParser(filename string, data []byte) (Parser, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".fit":
		return NewFITParser(), nil
	case ".tcx":
		return NewTCXParser(), nil
	case ".gpx":
		return NewGPXParser(), nil
	}

	return NewParserFromData(data)
}

// NewParserFromData creates a parser based on file content
func NewParserFromData(data []byte) (Parser, error) {
	fileType := DetectFileTypeFromData(data)

	switch fileType {
	case FileTypeFIT:
		return NewFITParser(), nil
	case FileTypeTCX:
		return NewTCXParser(), nil
	case FileTypeGPX:
		return NewGPXParser(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, fileType)
	}
}

// Supported reports whether filename has an extension this package parses.
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".fit", ".tcx", ".gpx":
		return true
	}
	return false
}
