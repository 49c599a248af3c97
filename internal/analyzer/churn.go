package analyzer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nao1215/ucma/internal/model"
	"github.com/nao1215/ucma/internal/plugin"
	"github.com/sourcegraph/go-diff/diff"
)

func init() {
	plugin.RegisterAnalyzer("churn.analyzer", "New", NewChurn)
}

var (
	// ErrNoPatch is returned when the extractor did not capture a patch.
	// Enable include_patch on the extractor to use the churn analyzer.
	ErrNoPatch = errors.New("tree has no patch")

	errNoTree = errors.New("no tree")
)

// ChurnAnalyzer computes tree metrics plus the line churn of the commit.
type ChurnAnalyzer struct {
	cfg  Config
	tree *model.Tree
}

// NewChurn constructs a churn analyzer.
func NewChurn(cfg plugin.StageConfig, tree *model.Tree) (plugin.Analyzer, error) {
	if tree == nil {
		return nil, fmt.Errorf("churn analyzer: %w", errNoTree)
	}
	c, err := decodeConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &ChurnAnalyzer{cfg: c, tree: tree}, nil
}

// Calculate computes the metrics.
func (a *ChurnAnalyzer) Calculate(ctx context.Context) (*model.Metrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !a.tree.HasPatch() {
		return nil, ErrNoPatch
	}

	churn, err := parseChurn(a.tree.Patch)
	if err != nil {
		return nil, err
	}

	m := computeTree("churn", a.tree, a.cfg)
	m.Churn = churn
	return m, nil
}

// parseChurn parses a unified multi-file diff into churn statistics. An
// empty patch is zero churn.
func parseChurn(patch string) (*model.Churn, error) {
	if strings.TrimSpace(patch) == "" {
		return &model.Churn{Files: []model.FileChurn{}}, nil
	}
	fileDiffs, err := diff.ParseMultiFileDiff([]byte(patch))
	if err != nil {
		return nil, fmt.Errorf("parse patch: %w", err)
	}

	churn := &model.Churn{Files: make([]model.FileChurn, 0, len(fileDiffs))}
	for _, fd := range fileDiffs {
		stat := fd.Stat()
		// Changed lines are a paired deletion and insertion.
		fc := model.FileChurn{
			Path:       diffPath(fd),
			Insertions: int(stat.Added + stat.Changed),
			Deletions:  int(stat.Deleted + stat.Changed),
		}
		churn.FilesChanged++
		churn.Insertions += fc.Insertions
		churn.Deletions += fc.Deletions
		churn.Files = append(churn.Files, fc)
	}

	sort.SliceStable(churn.Files, func(i, j int) bool {
		return churn.Files[i].Insertions+churn.Files[i].Deletions >
			churn.Files[j].Insertions+churn.Files[j].Deletions
	})
	return churn, nil
}

// diffPath returns the repository path of a file diff, preferring the new name.
func diffPath(fd *diff.FileDiff) string {
	name := fd.NewName
	if name == "" || name == "/dev/null" {
		name = fd.OrigName
	}
	for _, prefix := range []string{"a/", "b/"} {
		if strings.HasPrefix(name, prefix) {
			return strings.TrimPrefix(name, prefix)
		}
	}
	return name
}
