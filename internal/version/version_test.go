package version

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveReleaseBuild(t *testing.T) {
	info := resolve("v1.2.0", "abcdef1234", "2026-01-02T03:04:05Z", nil)

	assert.Equal(t, "v1.2.0", info.Version)
	assert.True(t, info.IsRelease())
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), info.BuildTime)
	assert.Equal(t, "keymapdoc v1.2.0 (abcdef1)", info.Short())
	assert.Contains(t, info.Detailed(), "Commit: abcdef1234")
	assert.Contains(t, info.Detailed(), "Built: 2026-01-02T03:04:05Z")
}

func TestResolveFallsBackToVCS(t *testing.T) {
	info := resolve("dev", "unknown", "unknown", map[string]string{
		"vcs.revision": "0123456789",
		"vcs.time":     "2026-05-06T07:08:09Z",
		"vcs.modified": "true",
	})

	assert.Equal(t, "dev-0123456", info.Version)
	assert.Equal(t, "0123456789", info.GitCommit)
	assert.False(t, info.IsRelease())
	assert.True(t, info.Dirty)
	assert.Equal(t, "keymapdoc dev-0123456 (dirty)", info.Short())
	assert.False(t, info.BuildTime.IsZero())
}

func TestResolveModuleVersion(t *testing.T) {
	info := resolve("", "", "", map[string]string{"main.version": "v0.3.0"})
	assert.Equal(t, "v0.3.0", info.Version)
	assert.Equal(t, "unknown", info.GitCommit)
	assert.NotContains(t, info.Detailed(), "Commit:")
}

func TestResolveUnknownEverything(t *testing.T) {
	info := resolve("dev", "unknown", "not a time", map[string]string{})
	assert.Equal(t, "dev", info.Version)
	assert.True(t, info.BuildTime.IsZero())
	assert.Equal(t, "keymapdoc dev", info.Short())
}

func TestGet(t *testing.T) {
	info := Get()
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}
