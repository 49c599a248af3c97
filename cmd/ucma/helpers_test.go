package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/nao1215/ucma/internal/model"
	"github.com/nao1215/ucma/internal/plugin"
)

func init() {
	plugin.RegisterExtractor("stub.extractor", "New", newStubExtractor)
}

// stubExtractor returns a fixed tree and fails for refs starting with "bad".
type stubExtractor struct {
	ref string
}

func newStubExtractor(_ plugin.StageConfig, item string) (plugin.Extractor, error) {
	return &stubExtractor{ref: item}, nil
}

func (s *stubExtractor) Process(ctx context.Context) (*model.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(s.ref) >= 3 && s.ref[:3] == "bad" {
		return nil, fmt.Errorf("unknown revision %s", s.ref)
	}
	tree := model.NewTree(s.ref, "4b825dc642cb6eb9a060e54bf8d69288fbee4904")
	tree.AddEntry(model.Entry{Path: "main.go", Mode: "100644", Type: model.EntryBlob, Object: "a1", Size: 100})
	tree.AddEntry(model.Entry{Path: "docs/README.md", Mode: "100644", Type: model.EntryBlob, Object: "b2", Size: 50})
	return tree, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// executeCmd runs the root command with args and returns its stdout.
func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
