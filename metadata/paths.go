package metadata

import (
	"path/filepath"
	"strconv"

	"github.com/hpcrec/recorder/format"
)

// GlobalPath returns the path of the global metadata file in dir.
func GlobalPath(dir string) string {
	return filepath.Join(dir, format.GlobalMetadataFile)
}

// LocalPath returns the path of a rank's local metadata file.
func LocalPath(dir string, rank int) string {
	return filepath.Join(dir, strconv.Itoa(rank)+format.LocalMetadataExt)
}

// TracePath returns the path of a rank's trace file.
func TracePath(dir string, rank int) string {
	return filepath.Join(dir, strconv.Itoa(rank)+format.TraceExt)
}

// DecodedPath returns the path the decoder writes a rank's text to.
func DecodedPath(dir string, rank int) string {
	return TracePath(dir, rank) + format.DecodedExt
}
