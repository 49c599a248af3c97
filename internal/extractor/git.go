package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/nao1215/ucma/internal/model"
	"github.com/nao1215/ucma/internal/plugin"
)

func init() {
	plugin.RegisterExtractor("git.extractor", "New", New)
}

// ErrInvalidRef is returned for refs that could be mistaken for git options.
var ErrInvalidRef = errors.New("invalid ref")

// Config is the git extractor configuration.
type Config struct {
	// Repo is the repository working directory. Defaults to ".".
	Repo string `yaml:"repo" validate:"required"`

	// Git is the git executable. Defaults to "git".
	Git string `yaml:"git" validate:"required"`

	// IncludePatch captures the commit patch against its first parent.
	IncludePatch bool `yaml:"include_patch"`

	// Paths restricts the listing and patch to these pathspecs.
	Paths []string `yaml:"paths" validate:"dive,required"`
}

// GitExtractor extracts one ref. Instances are per item and not shared.
type GitExtractor struct {
	cfg    Config
	ref    string
	commit string
}

// New constructs a git extractor for the ref.
func New(cfg plugin.StageConfig, item string) (plugin.Extractor, error) {
	c := Config{Repo: ".", Git: "git"}
	if err := cfg.Decode(&c); err != nil {
		return nil, err
	}
	ref := strings.TrimSpace(item)
	if ref == "" || strings.HasPrefix(ref, "-") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRef, item)
	}
	return &GitExtractor{cfg: c, ref: ref}, nil
}

// Process lists the tree at the ref and, when configured, captures the patch.
func (g *GitExtractor) Process(ctx context.Context) (*model.Tree, error) {
	commit, err := g.resolve(ctx)
	if err != nil {
		return nil, err
	}

	args := append([]string{"ls-tree", "-r", "-l", "-z", commit, "--"}, g.cfg.Paths...)
	out, err := g.git(ctx, args...)
	if err != nil {
		return nil, err
	}
	entries, err := parseLsTree(out)
	if err != nil {
		return nil, err
	}

	tree := model.NewTree(g.ref, commit)
	tree.Entries = entries

	if g.cfg.IncludePatch {
		args := append([]string{
			"show", "--format=", "--patch", "--no-color", "--no-ext-diff",
			"--diff-merges=first-parent", commit, "--",
		}, g.cfg.Paths...)
		patch, err := g.git(ctx, args...)
		if err != nil {
			return nil, err
		}
		tree.Patch = string(patch)
		tree.PatchCaptured = true
	}
	return tree, nil
}

// resolve returns the full commit id the ref points to. The result is cached
// for the lifetime of the extractor.
func (g *GitExtractor) resolve(ctx context.Context) (string, error) {
	if g.commit != "" {
		return g.commit, nil
	}
	out, err := g.git(ctx, "rev-parse", "--verify", "--quiet", g.ref+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("unknown revision %q: %w", g.ref, err)
	}
	g.commit = strings.TrimSpace(string(out))
	return g.commit, nil
}

// git runs a git subcommand in the repository and returns its stdout.
func (g *GitExtractor) git(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, g.cfg.Git, args...) //nolint:gosec // binary and repo are user-configured
	cmd.Dir = g.cfg.Repo

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("git %s: %w: %s", args[0], err, msg)
		}
		return nil, fmt.Errorf("git %s: %w", args[0], err)
	}
	return stdout.Bytes(), nil
}
