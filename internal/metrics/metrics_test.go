package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/nao1215/ucma/internal/model"
)

func TestCollector_Observe(t *testing.T) {
	t.Parallel()

	c := NewCollector()
	outcomes := []model.Outcome{
		{Item: "HEAD", Status: model.StatusSucceeded, Duration: 20 * time.Millisecond},
		{Item: "bad-ref", Status: model.StatusFailed, Stage: "extractor", Duration: time.Millisecond},
		{Item: "v1.0", Status: model.StatusSucceeded, Duration: 30 * time.Millisecond},
		{Item: "gone", Status: model.StatusFailed},
	}

	var wg sync.WaitGroup
	for i, o := range outcomes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Observe(i, o)
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(c.items.WithLabelValues("succeeded")); got != 2 {
		t.Errorf("expected 2 succeeded, got %v", got)
	}
	if got := testutil.ToFloat64(c.items.WithLabelValues("failed")); got != 2 {
		t.Errorf("expected 2 failed, got %v", got)
	}
	if got := testutil.ToFloat64(c.failures.WithLabelValues("extractor")); got != 1 {
		t.Errorf("expected 1 extractor failure, got %v", got)
	}
	if got := testutil.ToFloat64(c.failures.WithLabelValues("unknown")); got != 1 {
		t.Errorf("expected 1 unknown failure, got %v", got)
	}
}

func TestCollector_WriteTextfile(t *testing.T) {
	t.Parallel()

	c := NewCollector()
	c.Observe(0, model.Outcome{Item: "HEAD", Status: model.StatusSucceeded, Duration: time.Second})
	c.Finish(time.Unix(1700000000, 0), 2*time.Second)

	path := filepath.Join(t.TempDir(), "ucma.prom")
	if err := c.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	for _, want := range []string{
		`ucma_pipeline_items_total{status="succeeded"} 1`,
		"ucma_pipeline_item_duration_seconds_bucket",
		"ucma_last_run_timestamp_seconds 1.7e+09",
		"ucma_last_run_duration_seconds 2",
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("textfile missing %q:\n%s", want, data)
		}
	}
}
