package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/nao1215/ucma/internal/plugin"
)

const samplePatch = `diff --git a/cmd/app/main.go b/cmd/app/main.go
index 1111111..2222222 100644
--- a/cmd/app/main.go
+++ b/cmd/app/main.go
@@ -1,3 +1,5 @@
 package main
 
-func main() {}
+import "fmt"
+
+func main() { fmt.Println(1) }
diff --git a/docs/guide.md b/docs/guide.md
new file mode 100644
index 0000000..3333333
--- /dev/null
+++ b/docs/guide.md
@@ -0,0 +1 @@
+guide
`

func TestChurnAnalyzer(t *testing.T) {
	t.Parallel()

	t.Run("parses patch", func(t *testing.T) {
		t.Parallel()

		tree := sampleTree("HEAD")
		tree.Patch = samplePatch

		a, err := NewChurn(nil, tree)
		if err != nil {
			t.Fatalf("NewChurn: %v", err)
		}
		m, err := a.Calculate(context.Background())
		if err != nil {
			t.Fatalf("Calculate: %v", err)
		}

		if m.Analyzer != "churn" || m.Files != 4 {
			t.Errorf("tree metrics missing: %+v", m)
		}
		c := m.Churn
		if c == nil {
			t.Fatal("expected churn")
		}
		if c.FilesChanged != 2 || c.Insertions != 4 || c.Deletions != 1 {
			t.Errorf("unexpected churn totals: %+v", c)
		}
		if c.Files[0].Path != "cmd/app/main.go" || c.Files[1].Path != "docs/guide.md" {
			t.Errorf("unexpected per-file order: %+v", c.Files)
		}
	})

	t.Run("requires a patch", func(t *testing.T) {
		t.Parallel()

		a, err := NewChurn(nil, sampleTree("HEAD"))
		if err != nil {
			t.Fatalf("NewChurn: %v", err)
		}
		if _, err := a.Calculate(context.Background()); !errors.Is(err, ErrNoPatch) {
			t.Errorf("expected ErrNoPatch, got %v", err)
		}
	})

	t.Run("captured empty patch is zero churn", func(t *testing.T) {
		t.Parallel()

		tree := sampleTree("HEAD")
		tree.PatchCaptured = true

		a, err := NewChurn(nil, tree)
		if err != nil {
			t.Fatalf("NewChurn: %v", err)
		}
		m, err := a.Calculate(context.Background())
		if err != nil {
			t.Fatalf("Calculate: %v", err)
		}
		c := m.Churn
		if c == nil || c.FilesChanged != 0 || c.Insertions != 0 || c.Deletions != 0 || len(c.Files) != 0 {
			t.Errorf("expected zero churn, got %+v", c)
		}
		if m.Files != 4 {
			t.Errorf("tree metrics missing: %+v", m)
		}
	})

	t.Run("deleted file uses original name", func(t *testing.T) {
		t.Parallel()

		churn, err := parseChurn(`diff --git a/old.txt b/old.txt
deleted file mode 100644
index 4444444..0000000
--- a/old.txt
+++ /dev/null
@@ -1,2 +0,0 @@
-one
-two
`)
		if err != nil {
			t.Fatalf("parseChurn: %v", err)
		}
		if len(churn.Files) != 1 || churn.Files[0].Path != "old.txt" || churn.Deletions != 2 {
			t.Errorf("unexpected churn: %+v", churn)
		}
	})
}

func TestAnalyzersRegistered(t *testing.T) {
	t.Parallel()

	for _, loc := range []string{"tree.analyzer", "churn.analyzer"} {
		impl, ok := plugin.DefaultCatalog.Lookup(plugin.Descriptor{
			Capability: plugin.CapabilityAnalyzer,
			Location:   loc,
			Entry:      "New",
		})
		if !ok || impl.Analyzer == nil {
			t.Errorf("%s is not registered", loc)
		}
	}
}
