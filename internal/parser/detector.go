// internal/parser/detector.go
package parser

import (
	"bytes"
	"os"
)

type FileType string

const (
	FileTypeFIT     FileType = "fit"
	FileTypeTCX     FileType = "tcx"
	FileTypeGPX     FileType = "gpx"
	FileTypeUnknown FileType = "unknown"
)

// sniffLen is how much of a file detection looks at.
const sniffLen = 512

func DetectFileType(filepath string) (FileType, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return FileTypeUnknown, err
	}
	defer file.Close()

	header := make([]byte, sniffLen)
	n, err := file.Read(header)
	if err != nil && n == 0 {
		return FileTypeUnknown, err
	}

	return DetectFileTypeFromData(header[:n]), nil
}

func DetectFileTypeFromData(data []byte) FileType {
	if len(data) > sniffLen {
		data = data[:sniffLen]
	}

	// FIT header: size byte, protocol, profile (2), data size (4), ".FIT"
	if len(data) >= 12 && bytes.Equal(data[8:12], []byte(".FIT")) {
		return FileTypeFIT
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n\xef\xbb\xbf")
	if !bytes.HasPrefix(trimmed, []byte("<")) {
		return FileTypeUnknown
	}

	switch {
	case bytes.Contains(trimmed, []byte("TrainingCenterDatabase")):
		return FileTypeTCX
	case bytes.Contains(trimmed, []byte("<gpx")), bytes.Contains(trimmed, []byte("topografix.com/GPX")):
		return FileTypeGPX
	}

	return FileTypeUnknown
}
