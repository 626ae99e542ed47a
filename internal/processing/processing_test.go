package processing

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/five82/avmeta/internal/cache"
	"github.com/five82/avmeta/internal/config"
	errs "github.com/five82/avmeta/internal/errors"
	"github.com/five82/avmeta/internal/metadata"
	"github.com/five82/avmeta/internal/reporter"
)

// fakeProbe installs a shell stand-in for ffprobe that answers with a
// fixture chosen by the input file name and logs each invocation.
func fakeProbe(t *testing.T) (bin, calls string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in requires a POSIX shell")
	}
	fixtures, err := filepath.Abs(filepath.Join("..", "ffprobe", "testdata"))
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	calls = filepath.Join(dir, "calls")
	bin = filepath.Join(dir, "ffprobe")
	script := `#!/bin/sh
for a; do last="$a"; done
echo "$last" >> '` + calls + `'
case "$last" in
  *broken*) cat '` + fixtures + `/broken_audio.json' ;;
  *corrupt*) echo "Invalid data found when processing input" >&2; exit 1 ;;
  *slow*) exec sleep 5 ;;
  *) cat '` + fixtures + `/episode_mp4.json' ;;
esac
`
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return bin, calls
}

func callCount(t *testing.T, calls string) int {
	t.Helper()
	data, err := os.ReadFile(calls)
	if os.IsNotExist(err) {
		return 0
	}
	if err != nil {
		t.Fatal(err)
	}
	return strings.Count(string(data), "\n")
}

func mediaFiles(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
		if err := os.WriteFile(paths[i], []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return paths
}

func testConfig(bin string, workers int) *config.Config {
	cfg := config.NewConfig()
	cfg.FFprobe.Path = bin
	cfg.FFprobe.TimeoutSeconds = 10
	cfg.Scan.Workers = workers
	return cfg
}

func TestProbeFileProjects(t *testing.T) {
	bin, _ := fakeProbe(t)
	files := mediaFiles(t, "episode.mp4")

	res := ProbeFile(context.Background(), Settings{FFprobePath: bin, Timeout: 10 * time.Second}, files[0], nil, "run-1")
	if res.Err != nil {
		t.Fatalf("ProbeFile error: %v", res.Err)
	}
	if res.Snapshot == nil || len(res.Snapshot.Streams) != 3 {
		t.Fatalf("snapshot = %+v", res.Snapshot)
	}
	if res.Cached {
		t.Error("first probe should not be cached")
	}
	if res.Size != int64(len("episode.mp4")) {
		t.Errorf("Size = %d", res.Size)
	}
}

func TestProbeFileMissing(t *testing.T) {
	res := ProbeFile(context.Background(), Settings{FFprobePath: "ffprobe"}, filepath.Join(t.TempDir(), "gone.mkv"), nil, "")
	if !errs.IsKind(res.Err, errs.KindIO) {
		t.Errorf("Err = %v, want IO error", res.Err)
	}
}

func TestProbeFileTimeout(t *testing.T) {
	bin, _ := fakeProbe(t)
	files := mediaFiles(t, "slow.mkv")

	res := ProbeFile(context.Background(), Settings{FFprobePath: bin, Timeout: 100 * time.Millisecond}, files[0], nil, "")
	if !errs.IsKind(res.Err, errs.KindOpen) {
		t.Errorf("Err = %v, want open error", res.Err)
	}
}

func TestProbeFileUsesCache(t *testing.T) {
	bin, calls := fakeProbe(t)
	files := mediaFiles(t, "episode.mp4")
	ctx := context.Background()

	store, err := cache.Open(ctx, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	settings := Settings{FFprobePath: bin, Timeout: 10 * time.Second}
	first := ProbeFile(ctx, settings, files[0], store, "run-1")
	second := ProbeFile(ctx, settings, files[0], store, "run-2")
	if first.Err != nil || second.Err != nil {
		t.Fatalf("errors: %v, %v", first.Err, second.Err)
	}
	if !second.Cached {
		t.Error("second probe should hit the cache")
	}
	if got := callCount(t, calls); got != 1 {
		t.Errorf("ffprobe ran %d times, want 1", got)
	}

	// Rewriting the file changes its stamp and forces a new probe.
	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(files[0], later, later); err != nil {
		t.Fatal(err)
	}
	third := ProbeFile(ctx, settings, files[0], store, "run-3")
	if third.Err != nil || third.Cached {
		t.Errorf("third probe = cached %v, err %v; want fresh probe", third.Cached, third.Err)
	}
	if got := callCount(t, calls); got != 2 {
		t.Errorf("ffprobe ran %d times, want 2", got)
	}
}

func TestProbeFilesKeepsOrderAndIsolatesFailures(t *testing.T) {
	bin, _ := fakeProbe(t)
	files := mediaFiles(t, "a.mp4", "broken.ts", "b.mp4", "corrupt.mkv", "c.mp4")

	var buf bytes.Buffer
	rep := reporter.NewJSONReporterWithWriter(&buf)

	results, err := ProbeFiles(context.Background(), testConfig(bin, 3), files, nil, rep, BatchOptions{RunID: "run-test", Directory: "/media"})
	if err != nil {
		t.Fatalf("ProbeFiles error: %v", err)
	}
	if len(results) != len(files) {
		t.Fatalf("got %d results, want %d", len(results), len(files))
	}

	for i, res := range results {
		if filepath.Base(res.Path) != filepath.Base(files[i]) {
			t.Errorf("result %d path = %s, want %s", i, res.Path, files[i])
		}
	}
	for _, i := range []int{0, 2, 4} {
		if results[i].Err != nil || results[i].Snapshot == nil {
			t.Errorf("result %d = %+v, want snapshot", i, results[i])
		}
	}
	if !errs.IsCodecResolution(results[1].Err) {
		t.Errorf("broken.ts error = %v, want codec resolution", results[1].Err)
	}
	if results[1].Snapshot != nil {
		t.Error("failed projection must not yield a snapshot")
	}
	if !errs.IsKind(results[3].Err, errs.KindOpen) || !errs.IsKind(results[3].Err, errs.KindCommand) {
		t.Errorf("corrupt.mkv error = %v, want open error from ffprobe", results[3].Err)
	}

	out := buf.String()
	if strings.Count(out, `"type":"snapshot"`) != 3 || strings.Count(out, `"type":"error"`) != 2 {
		t.Errorf("unexpected events:\n%s", out)
	}
	if !strings.Contains(out, `"successful_count":3`) || !strings.Contains(out, `"run_id":"run-test"`) {
		t.Errorf("batch summary missing:\n%s", out)
	}
}

func TestProbeFilesCancelled(t *testing.T) {
	bin, calls := fakeProbe(t)
	files := mediaFiles(t, "a.mp4", "b.mp4", "c.mp4")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := ProbeFiles(ctx, testConfig(bin, 1), files, nil, nil, BatchOptions{})
	if !errs.IsCancelled(err) {
		t.Fatalf("error = %v, want cancelled", err)
	}
	for i, res := range results {
		if res.Snapshot != nil || !isCancellation(res.Err) {
			t.Errorf("result %d = %+v, want cancelled", i, res)
		}
	}
	if got := callCount(t, calls); got != 0 {
		t.Errorf("ffprobe ran %d times after cancellation", got)
	}
}

func TestProbeFilesEmpty(t *testing.T) {
	results, err := ProbeFiles(context.Background(), nil, nil, nil, nil, BatchOptions{})
	if err != nil || len(results) != 0 {
		t.Errorf("ProbeFiles(nil) = %v, %v", results, err)
	}
}

type recordingStore struct {
	puts    []string
	deletes []string
}

func (s *recordingStore) Get(context.Context, string, int64, time.Time) (*metadata.Snapshot, bool, error) {
	return nil, false, nil
}

func (s *recordingStore) Put(_ context.Context, path string, _ int64, _ time.Time, _ *metadata.Snapshot, _ string) error {
	s.puts = append(s.puts, path)
	return nil
}

func (s *recordingStore) Delete(_ context.Context, path string) error {
	s.deletes = append(s.deletes, path)
	return nil
}

func TestProbeFileFailureInvalidatesCache(t *testing.T) {
	bin, _ := fakeProbe(t)
	files := mediaFiles(t, "corrupt.mkv", "broken.ts", "ok.mp4")
	store := &recordingStore{}
	settings := Settings{FFprobePath: bin, Timeout: 10 * time.Second}

	for _, f := range files {
		ProbeFile(context.Background(), settings, f, store, "run-1")
	}

	if len(store.deletes) != 2 || filepath.Base(store.deletes[0]) != "corrupt.mkv" || filepath.Base(store.deletes[1]) != "broken.ts" {
		t.Errorf("deletes = %v", store.deletes)
	}
	if len(store.puts) != 1 || filepath.Base(store.puts[0]) != "ok.mp4" {
		t.Errorf("puts = %v", store.puts)
	}
}
