package model

import (
	"path"
	"sort"
	"strings"
)

// EntryType is the git object type of a tree entry.
type EntryType string

const (
	// EntryBlob is a regular file, executable file or symlink.
	EntryBlob EntryType = "blob"

	// EntryCommit is a submodule gitlink.
	EntryCommit EntryType = "commit"

	// EntryTree is a subdirectory. Recursive listings normally omit these.
	EntryTree EntryType = "tree"
)

// Entry is a single path in an extracted tree.
type Entry struct {
	// Path is the slash-separated path relative to the repository root.
	Path string `json:"path"`

	// Mode is the git file mode (e.g. "100644", "100755", "120000").
	Mode string `json:"mode"`

	// Type is the object type.
	Type EntryType `json:"type"`

	// Object is the object id of the blob, tree or commit.
	Object string `json:"object"`

	// Size is the blob size in bytes. Zero for non-blob entries.
	Size int64 `json:"size"`
}

// Dir returns the directory part of the entry path, or "" for root-level files.
func (e Entry) Dir() string {
	dir := path.Dir(e.Path)
	if dir == "." {
		return ""
	}
	return dir
}

// Ext returns the lower-cased file extension including the dot.
func (e Entry) Ext() string {
	return strings.ToLower(path.Ext(e.Path))
}

// IsSymlink reports whether the entry is a symbolic link.
func (e Entry) IsSymlink() bool {
	return e.Mode == "120000"
}

// Tree is the output of an extractor: the full recursive listing of a git tree
// at one ref, plus the commit patch when the extractor was asked for it.
type Tree struct {
	// Ref is the work item the tree was extracted for, exactly as given.
	Ref string `json:"ref"`

	// Commit is the resolved commit id the ref pointed to at extraction time.
	Commit string `json:"commit"`

	// Entries lists every path in the tree.
	Entries []Entry `json:"entries"`

	// Patch is the unified diff of the commit against its first parent.
	// Empty unless the extractor captured it.
	Patch string `json:"patch,omitempty"`

	// PatchCaptured is set when the extractor captured the patch, even if
	// the commit changed nothing (an empty commit or a no-op merge).
	PatchCaptured bool `json:"patch_captured,omitempty"`
}

// NewTree creates an empty tree for the given ref and commit.
func NewTree(ref, commit string) *Tree {
	return &Tree{
		Ref:     ref,
		Commit:  commit,
		Entries: make([]Entry, 0),
	}
}

// AddEntry appends an entry to the tree.
func (t *Tree) AddEntry(e Entry) {
	t.Entries = append(t.Entries, e)
}

// Blobs returns only the blob entries.
func (t *Tree) Blobs() []Entry {
	blobs := make([]Entry, 0, len(t.Entries))
	for _, e := range t.Entries {
		if e.Type == EntryBlob {
			blobs = append(blobs, e)
		}
	}
	return blobs
}

// HasPatch reports whether the tree carries a commit patch. A captured
// patch counts even when it is empty.
func (t *Tree) HasPatch() bool {
	return t.PatchCaptured || strings.TrimSpace(t.Patch) != ""
}

// SortedEntries returns a copy of the entries ordered by path.
func (t *Tree) SortedEntries() []Entry {
	sorted := make([]Entry, len(t.Entries))
	copy(sorted, t.Entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})
	return sorted
}
