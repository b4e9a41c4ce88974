package scan

import (
	"errors"
	"fmt"
	"os"
)

// ErrSizeExceeded is returned by ReadBounded when a file is larger
// than the allowed bound. Callers treat it as a parse failure.
var ErrSizeExceeded = errors.New("file exceeds read bound")

// Exists reports whether a path exists. It never returns an error;
// a stat failure reads as absence.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether a path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ReadBounded reads a file enforcing a maximum size. Manifests are
// small; anything over the bound is adversarial or pathological.
func ReadBounded(path string, maxBytes int64) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes (max %d)", ErrSizeExceeded, path, info.Size(), maxBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: %s grew past %d bytes", ErrSizeExceeded, path, maxBytes)
	}
	return data, nil
}
