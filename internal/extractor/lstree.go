package extractor

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/nao1215/ucma/internal/model"
)

// parseLsTree parses `git ls-tree -r -l -z` output. Each record is
//
//	<mode> SP <type> SP <object> SP+ <size> TAB <path> NUL
//
// where size is "-" for non-blob entries.
func parseLsTree(out []byte) ([]model.Entry, error) {
	entries := make([]model.Entry, 0, bytes.Count(out, []byte{0}))
	for _, rec := range bytes.Split(out, []byte{0}) {
		if len(rec) == 0 {
			continue
		}
		meta, path, ok := strings.Cut(string(rec), "\t")
		if !ok {
			return nil, fmt.Errorf("ls-tree record without path: %q", rec)
		}
		fields := strings.Fields(meta)
		if len(fields) != 4 {
			return nil, fmt.Errorf("ls-tree record %q: expected 4 fields, got %d", path, len(fields))
		}

		e := model.Entry{
			Path:   path,
			Mode:   fields[0],
			Type:   model.EntryType(fields[1]),
			Object: fields[2],
		}
		if fields[3] != "-" {
			size, err := strconv.ParseInt(fields[3], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("ls-tree record %q: size: %w", path, err)
			}
			e.Size = size
		}
		entries = append(entries, e)
	}
	return entries, nil
}
