package renderer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kerrors "github.com/conneroisu/keymapdoc/internal/errors"
	"github.com/conneroisu/keymapdoc/internal/types"
)

type fakeRunner struct {
	mu         sync.Mutex
	calls      [][]string
	missing    bool
	failLayers map[string]bool
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	if f.missing {
		return "", errors.New("executable file not found in $PATH")
	}
	return "/usr/bin/" + name, nil
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string{name}, args...))

	if i := slices.Index(args, "-s"); i >= 0 && f.failLayers[args[i+1]] {
		return []byte("layer not found"), errors.New("exit status 1")
	}
	return []byte("ok"), nil
}

func writeLayout(t *testing.T, dir, id, content string) types.KeymapInfo {
	t.Helper()
	path := filepath.Join(dir, id+".yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return types.KeymapInfo{ID: id, Path: path}
}

const twoLayers = "layers:\n  BASE: [[a]]\n  NAV: [[Left]]\n"

func TestCheckAvailable(t *testing.T) {
	runner := &fakeRunner{}
	r := New(Options{Runner: runner})
	require.NoError(t, r.CheckAvailable(context.Background()))
	assert.Equal(t, [][]string{{"keymap", "--version"}}, runner.calls)

	r = New(Options{Runner: &fakeRunner{missing: true}})
	err := r.CheckAvailable(context.Background())
	require.Error(t, err)
	assert.True(t, kerrors.IsType(err, kerrors.ErrorTypeRender))
	assert.Contains(t, err.Error(), "keymap-drawer")
}

func TestRenderKeymapRunsOneCommandPerLayer(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	info := writeLayout(t, dir, "ferris-qwerty", twoLayers)
	runner := &fakeRunner{}

	r := New(Options{OutputDir: out, Runner: runner})
	report, err := r.RenderKeymap(context.Background(), info)
	require.NoError(t, err)
	assert.True(t, report.OK())

	baseOut := filepath.Join(out, "ferris-qwerty", "base.svg")
	navOut := filepath.Join(out, "ferris-qwerty", "nav.svg")
	assert.Equal(t, []string{baseOut, navOut}, report.Images)
	assert.Equal(t, [][]string{
		{"keymap", "draw", info.Path, "-s", "BASE", "-o", baseOut},
		{"keymap", "draw", info.Path, "-s", "NAV", "-o", navOut},
	}, runner.calls)

	stat, err := os.Stat(filepath.Join(out, "ferris-qwerty"))
	require.NoError(t, err)
	assert.True(t, stat.IsDir())
}

func TestRenderKeymapContinuesAfterLayerFailure(t *testing.T) {
	dir := t.TempDir()
	info := writeLayout(t, dir, "km", "layers:\n  BASE: [[a]]\n  NAV: [[b]]\n  SYMBOL: [[c]]\n")
	runner := &fakeRunner{failLayers: map[string]bool{"NAV": true}}

	r := New(Options{OutputDir: filepath.Join(dir, "out"), ImageExt: ".png", Runner: runner})
	report, err := r.RenderKeymap(context.Background(), info)
	require.Error(t, err)

	assert.Len(t, runner.calls, 3)
	assert.Len(t, report.Images, 2)
	assert.True(t, strings.HasSuffix(report.Images[1], "symbol.png"))
	require.Contains(t, report.Failed, "NAV")
	assert.Contains(t, report.Failed["NAV"].Error(), "layer not found")
	assert.True(t, kerrors.IsType(err, kerrors.ErrorTypeRender))
}

func TestRenderKeymapRejectsUnsafeLayerNames(t *testing.T) {
	dir := t.TempDir()
	info := writeLayout(t, dir, "km", "layers:\n  \"../evil\": [[a]]\n  BASE: [[a]]\n")
	runner := &fakeRunner{}

	report, err := New(Options{OutputDir: filepath.Join(dir, "out"), Runner: runner}).
		RenderKeymap(context.Background(), info)
	require.Error(t, err)
	assert.Contains(t, report.Failed, "../evil")
	assert.Len(t, runner.calls, 1)
}

func TestRenderKeymapWithoutLayers(t *testing.T) {
	dir := t.TempDir()
	info := writeLayout(t, dir, "empty", "title: none\n")
	runner := &fakeRunner{}

	report, err := New(Options{OutputDir: filepath.Join(dir, "out"), Runner: runner}).
		RenderKeymap(context.Background(), info)
	require.Error(t, err)
	assert.True(t, kerrors.IsLayoutError(err))
	assert.Empty(t, report.Images)
	assert.Empty(t, runner.calls)
}

func TestRenderAllSummary(t *testing.T) {
	dir := t.TempDir()
	infos := []types.KeymapInfo{
		writeLayout(t, dir, "good", twoLayers),
		writeLayout(t, dir, "partial", "layers:\n  BASE: [[a]]\n  BROKEN: [[b]]\n"),
		writeLayout(t, dir, "invalid", "layers: [\n"),
		{ID: "missing", Path: filepath.Join(dir, "missing.yaml")},
	}
	runner := &fakeRunner{failLayers: map[string]bool{"BROKEN": true}}

	summary, err := New(Options{OutputDir: filepath.Join(dir, "out"), Runner: runner}).
		RenderAll(context.Background(), infos)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.KeymapsOK)
	assert.Equal(t, 3, summary.KeymapsFailed)
	assert.Equal(t, 3, summary.ImagesOK)
	assert.Equal(t, 1, summary.ImagesFailed)
	require.Len(t, summary.Failures, 3)
	assert.Equal(t, "invalid", summary.Failures[0].KeymapID)
	assert.Equal(t, "missing", summary.Failures[1].KeymapID)
	assert.Equal(t, "partial", summary.Failures[2].KeymapID)
	assert.Equal(t, "BROKEN", summary.Failures[2].Layer)
}

func TestRenderAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := New(Options{Runner: &fakeRunner{}}).RenderAll(ctx, []types.KeymapInfo{{ID: "x"}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, summary.KeymapsOK+summary.KeymapsFailed)
}

// cancellingRunner cancels the batch on its first draw.
type cancellingRunner struct {
	fakeRunner
	cancel context.CancelFunc
}

func (c *cancellingRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	c.cancel()
	return c.fakeRunner.Run(ctx, name, args...)
}

func TestRenderAllStopsOnCancellationMidKeymap(t *testing.T) {
	dir := t.TempDir()
	infos := []types.KeymapInfo{
		writeLayout(t, dir, "first", twoLayers),
		writeLayout(t, dir, "second", twoLayers),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runner := &cancellingRunner{cancel: cancel}

	summary, err := New(Options{OutputDir: filepath.Join(dir, "out"), Runner: runner}).RenderAll(ctx, infos)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, runner.calls, 1, "the second layer and keymap are never drawn")
	assert.Equal(t, 1, summary.KeymapsFailed)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "first", summary.Failures[0].KeymapID)
	assert.False(t, kerrors.IsRecoverable(err))
}

func TestValidateLayerName(t *testing.T) {
	for _, ok := range []string{"BASE", "SHIFT_SYMBOL", "layer 3"} {
		assert.NoError(t, validateLayerName(ok), ok)
	}
	for _, bad := range []string{"", ".", "..", "../x", "a/b", `a\b`, "/abs"} {
		assert.Error(t, validateLayerName(bad), bad)
	}
}

func TestImagePath(t *testing.T) {
	r := New(Options{})
	assert.Equal(t, filepath.Join(DefaultOutputDir, "id", "alt_nav.svg"), r.ImagePath("id", "ALT_NAV"))
}
