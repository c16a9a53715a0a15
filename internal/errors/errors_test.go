package errors

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeymapErrorMessage(t *testing.T) {
	err := ErrRenderFailed("ferris-sweep-qwerty", "BASE", fmt.Errorf("exit status 1"))

	assert.Equal(t,
		"[ERR_RENDER_FAILED] keymap:ferris-sweep-qwerty layer:BASE render failed: exit status 1",
		err.Error())
	assert.True(t, IsRecoverable(err))
	assert.True(t, IsType(err, ErrorTypeRender))
}

func TestMalformedPathIsFatal(t *testing.T) {
	err := ErrMalformedPath("/tmp/layout.yaml", "no 'keyboards' directory found")

	assert.Contains(t, err.Error(), "no 'keyboards' directory found")
	assert.Equal(t, "/tmp/layout.yaml", err.FilePath)
	assert.False(t, IsRecoverable(err))
	assert.False(t, IsLayoutError(err))
}

func TestLayoutErrors(t *testing.T) {
	cause := errors.New("yaml: line 3: did not find expected key")
	err := fmt.Errorf("building keymap: %w", ErrMalformedLayout("layout.yaml", cause))

	assert.True(t, IsLayoutError(err))
	assert.True(t, IsRecoverable(err))
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrMalformedLayout("other.yaml", nil), "errors with the same type and code should match")
	assert.NotErrorIs(t, err, ErrNoLayers("layout.yaml"))

	var ke *KeymapError
	require.ErrorAs(t, err, &ke)
	assert.Equal(t, ErrCodeMalformedLayout, ke.Code)
}

func TestIsDistinguishesCodes(t *testing.T) {
	a := ErrNoLayers("a.yaml")
	b := ErrMalformedLayout("a.yaml", nil)

	assert.False(t, errors.Is(a, b))
	assert.True(t, errors.Is(a, ErrNoLayers("b.yaml")))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeIO, "X", "nothing"))

	plain := Wrap(errors.New("boom"), ErrorTypeLayout, ErrCodeMalformedLayout, "bad")
	assert.True(t, plain.Recoverable)

	inner := ErrRenderFailed("kb", "NAV", errors.New("boom"))
	outer := Wrap(inner, ErrorTypeInternal, "ERR_OUTER", "outer")
	assert.Equal(t, "kb", outer.KeymapID)
	assert.Equal(t, "NAV", outer.Layer)
	assert.ErrorIs(t, outer, inner)

	layout := WrapLayout(errors.New("boom"), "kb", "could not build")
	assert.Equal(t, "kb", layout.KeymapID)
	assert.True(t, IsLayoutError(layout))
}

func TestErrorCollector(t *testing.T) {
	ec := NewErrorCollector()
	assert.False(t, ec.HasErrors())

	ec.Add("b", "", errors.New("second"))
	ec.Add("a", "NAV", errors.New("first"))
	ec.Add("a", "", nil)

	require.Equal(t, 2, ec.Count())

	failures := ec.Failures()
	assert.Equal(t, "a", failures[0].KeymapID)
	assert.Equal(t, "a/NAV: first", failures[0].Error())
	assert.Equal(t, "b: second", failures[1].Error())
	assert.True(t, ec.HasErrors())
}

func TestErrorCollectorConcurrent(t *testing.T) {
	ec := NewErrorCollector()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ec.Add(fmt.Sprintf("keymap-%02d", i), "", errors.New("failed"))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, ec.Count())
}
