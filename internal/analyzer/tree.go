package analyzer

import (
	"context"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/nao1215/ucma/internal/model"
	"github.com/nao1215/ucma/internal/plugin"
	"golang.org/x/crypto/sha3"
)

func init() {
	plugin.RegisterAnalyzer("tree.analyzer", "New", New)
}

// defaultTopFiles is the number of largest files reported by default.
const defaultTopFiles = 10

// Config is the tree analyzer configuration.
type Config struct {
	// TopFiles is how many of the largest files to list.
	TopFiles int `yaml:"top_files" validate:"gte=0,lte=1000"`

	// Languages adds or overrides extension to language mappings
	// (e.g. {".tmpl": "Go Template"}).
	Languages map[string]string `yaml:"languages" validate:"dive,keys,startswith=.,endkeys,required"`
}

// decodeConfig decodes cfg over the defaults.
func decodeConfig(cfg plugin.StageConfig) (Config, error) {
	c := Config{TopFiles: defaultTopFiles}
	if err := cfg.Decode(&c); err != nil {
		return Config{}, err
	}
	extra := make(map[string]string, len(c.Languages))
	for ext, lang := range c.Languages {
		extra[strings.ToLower(ext)] = lang
	}
	c.Languages = extra
	return c, nil
}

// TreeAnalyzer computes size and composition metrics for a tree.
type TreeAnalyzer struct {
	cfg  Config
	tree *model.Tree
}

// New constructs a tree analyzer.
func New(cfg plugin.StageConfig, tree *model.Tree) (plugin.Analyzer, error) {
	if tree == nil {
		return nil, fmt.Errorf("tree analyzer: %w", errNoTree)
	}
	c, err := decodeConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &TreeAnalyzer{cfg: c, tree: tree}, nil
}

// Calculate computes the metrics.
func (a *TreeAnalyzer) Calculate(ctx context.Context) (*model.Metrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return computeTree("tree", a.tree, a.cfg), nil
}

// computeTree fills the tree-derived metrics.
func computeTree(name string, tree *model.Tree, cfg Config) *model.Metrics {
	m := model.NewMetrics(name, tree)

	dirs := make(map[string]struct{})
	langs := make(map[string]*model.LanguageStat)
	files := make([]model.FileStat, 0, len(tree.Entries))

	for _, e := range tree.Entries {
		for d := e.Dir(); d != ""; d = (model.Entry{Path: d}).Dir() {
			dirs[d] = struct{}{}
		}

		switch {
		case e.Type == model.EntryCommit:
			m.Submodules++
			continue
		case e.Type != model.EntryBlob:
			continue
		case e.IsSymlink():
			m.Symlinks++
			continue
		}

		m.Files++
		m.TotalBytes += e.Size
		files = append(files, model.FileStat{Path: e.Path, Bytes: e.Size})

		lang := languageOf(e.Path, cfg.Languages)
		stat, ok := langs[lang]
		if !ok {
			stat = &model.LanguageStat{Name: lang}
			langs[lang] = stat
		}
		stat.Files++
		stat.Bytes += e.Size
	}
	m.Directories = len(dirs)

	for _, stat := range langs {
		if m.TotalBytes > 0 {
			stat.Share = float64(stat.Bytes) / float64(m.TotalBytes)
		}
		m.Languages = append(m.Languages, *stat)
	}
	sort.Slice(m.Languages, func(i, j int) bool {
		if m.Languages[i].Bytes != m.Languages[j].Bytes {
			return m.Languages[i].Bytes > m.Languages[j].Bytes
		}
		return m.Languages[i].Name < m.Languages[j].Name
	})

	sort.Slice(files, func(i, j int) bool {
		if files[i].Bytes != files[j].Bytes {
			return files[i].Bytes > files[j].Bytes
		}
		return files[i].Path < files[j].Path
	})
	if len(files) > cfg.TopFiles {
		files = files[:cfg.TopFiles]
	}
	m.Largest = append(m.Largest, files...)

	m.Digest = treeDigest(tree)
	return m
}

// treeDigest hashes the path-sorted listing. It depends only on tree content,
// not on the ref or commit.
func treeDigest(tree *model.Tree) string {
	h := sha3.New256()
	for _, e := range tree.SortedEntries() {
		fmt.Fprintf(h, "%s %s %s\t%s\n", e.Mode, e.Type, e.Object, e.Path)
	}
	return hex.EncodeToString(h.Sum(nil))
}
