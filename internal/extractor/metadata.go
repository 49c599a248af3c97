package extractor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/nao1215/ucma/internal/model"
)

// metadataFormat separates fields with NUL so subjects may contain anything
// but a newline.
const metadataFormat = "--format=%H%x00%an%x00%ae%x00%aI%x00%s"

// ItemMetadata describes the commit the ref points to. When the ref names a
// tag that parses as a semantic version, Version carries it normalized.
func (g *GitExtractor) ItemMetadata(ctx context.Context) (*model.ItemMetadata, error) {
	commit, err := g.resolve(ctx)
	if err != nil {
		return nil, err
	}
	out, err := g.git(ctx, "show", "-s", "--no-color", metadataFormat, commit)
	if err != nil {
		return nil, err
	}
	meta, err := parseMetadata(string(out))
	if err != nil {
		return nil, err
	}

	if g.isTag(ctx) {
		meta.Version = tagVersion(g.ref)
	}
	return meta, nil
}

// isTag reports whether the ref names a tag.
func (g *GitExtractor) isTag(ctx context.Context) bool {
	name := strings.TrimPrefix(g.ref, "refs/tags/")
	_, err := g.git(ctx, "rev-parse", "--verify", "--quiet", "refs/tags/"+name)
	return err == nil
}

// tagVersion returns the normalized semantic version of a tag name, or "" when
// the tag is not a version.
func tagVersion(tag string) string {
	v, err := semver.NewVersion(strings.TrimPrefix(tag, "refs/tags/"))
	if err != nil {
		return ""
	}
	return v.String()
}

// parseMetadata parses one record produced with metadataFormat.
func parseMetadata(out string) (*model.ItemMetadata, error) {
	fields := strings.Split(strings.TrimRight(out, "\n"), "\x00")
	if len(fields) != 5 {
		return nil, fmt.Errorf("unexpected git show output: %d fields", len(fields))
	}
	date, err := time.Parse(time.RFC3339, fields[3])
	if err != nil {
		return nil, fmt.Errorf("parse author date: %w", err)
	}
	return &model.ItemMetadata{
		Commit:      fields[0],
		Author:      fields[1],
		AuthorEmail: fields[2],
		Date:        date,
		Subject:     fields[4],
	}, nil
}
