package reporter

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/sha3"
)

// stdout is where reporters write when no file is configured.
var stdout io.Writer = os.Stdout

// nopCloser adapts stdout to io.WriteCloser without closing it.
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// safeFileName turns a ref into a file name: path separators and characters
// that are awkward in file names become "_". When that changes the ref, a
// short digest of the original ref is appended so that refs such as
// "feature/x" and "feature_x" never share a report file.
func safeFileName(ref string) string {
	var sb strings.Builder
	for _, r := range ref {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	name := strings.Trim(sb.String(), ".")
	if name == ref {
		return name
	}
	if name == "" {
		name = "_"
	}
	sum := sha3.Sum256([]byte(ref))
	return name + "-" + hex.EncodeToString(sum[:])[:digestLen]
}

// digestLen is the number of hex digits of the ref digest in file names.
const digestLen = 10

// openDirOutput returns <dir>/<ref><ext>, or stdout when dir is empty.
// The directory is created if needed.
func openDirOutput(dir, ref, ext string) (io.WriteCloser, error) {
	if dir == "" {
		return nopCloser{stdout}, nil
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(dir, safeFileName(ref)+ext)
	f, err := os.Create(path) //nolint:gosec // output_dir is user-configured
	if err != nil {
		return nil, fmt.Errorf("create report file: %w", err)
	}
	return f, nil
}

// openAppendOutput opens path for appending, or returns stdout when path is
// empty. Each report is written with a single Write call so concurrent items
// do not interleave.
func openAppendOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec // output is user-configured
	if err != nil {
		return nil, fmt.Errorf("open report file: %w", err)
	}
	return f, nil
}

// closeOutput closes w and reports the close error when there was no earlier
// error, since a failed close can mean a truncated file.
func closeOutput(w io.Closer, err error) error {
	if cerr := w.Close(); cerr != nil && err == nil {
		return fmt.Errorf("close report output: %w", cerr)
	}
	return err
}
