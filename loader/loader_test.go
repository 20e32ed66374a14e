package loader

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gltf-scenes/scene"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeParse succeeds for every path except those in fail.
func fakeParse(fail map[string]error) (ParseFunc, *sync.Map) {
	var seen sync.Map
	return func(path string, progress scene.ProgressFunc) (*scene.Model, error) {
		seen.Store(path, true)
		if err, ok := fail[path]; ok {
			return nil, err
		}
		for i := 1; i <= 3; i++ {
			progress(i, 3)
		}
		return &scene.Model{Root: scene.NewNode(filepath.Base(filepath.Dir(path)))}, nil
	}, &seen
}

func TestLoadDeliversOnPoll(t *testing.T) {
	ld := New(2, quietLogger())
	ld.Parse, _ = fakeParse(nil)

	var got *scene.Model
	var progress []Progress
	ld.Load("cow/scene.gltf", func(m *scene.Model) { got = m }, func(p Progress) {
		progress = append(progress, p)
	}, func(err error) { t.Errorf("unexpected error: %v", err) })
	assert.Equal(t, 1, ld.Pending())

	ld.Wait()
	assert.Nil(t, got, "callbacks wait for Poll")

	assert.Equal(t, 4, ld.Poll())
	require.NotNil(t, got)
	assert.Equal(t, "cow", got.Root.Name)
	assert.Equal(t, 0, ld.Pending())

	require.Len(t, progress, 3)
	assert.Equal(t, Progress{Path: "cow/scene.gltf", Loaded: 3, Total: 3}, progress[2])
	assert.InDelta(t, 100, progress[2].Percent(), 1e-9)
	assert.Equal(t, 0, ld.Poll())
}

func TestLoadErrorIsIsolated(t *testing.T) {
	boom := errors.New("boom")
	ld := New(2, quietLogger())
	ld.Parse, _ = fakeParse(map[string]error{"remains/scene.gltf": boom})

	var loaded []string
	var failures []error
	onLoad := func(m *scene.Model) { loaded = append(loaded, m.Root.Name) }
	onError := func(err error) { failures = append(failures, err) }

	ld.Load("bird/scene.gltf", onLoad, nil, onError)
	ld.Load("remains/scene.gltf", onLoad, nil, onError)
	assert.Equal(t, 2, ld.Pending())

	ld.Wait()
	ld.Poll()
	assert.Equal(t, []string{"bird"}, loaded)
	require.Len(t, failures, 1)
	assert.Equal(t, 0, ld.Pending())

	var lerr *LoadError
	require.ErrorAs(t, failures[0], &lerr)
	assert.Equal(t, "remains/scene.gltf", lerr.Path)
	assert.ErrorIs(t, failures[0], boom)
	assert.Equal(t, "load remains/scene.gltf: boom", failures[0].Error())
}

func TestLoadRecoversParserPanic(t *testing.T) {
	ld := New(1, quietLogger())
	ld.Parse = func(string, scene.ProgressFunc) (*scene.Model, error) {
		panic("corrupt")
	}

	var failure error
	ld.Load("bad.gltf", nil, nil, func(err error) { failure = err })
	ld.Wait()
	ld.Poll()
	assert.ErrorContains(t, failure, "parser panic: corrupt")
}

func TestLoadNilModelIsError(t *testing.T) {
	ld := New(1, quietLogger())
	ld.Parse = func(string, scene.ProgressFunc) (*scene.Model, error) {
		return nil, nil
	}

	var failure error
	ld.Load("empty.gltf", func(*scene.Model) { t.Error("onLoad ran") }, nil, func(err error) { failure = err })
	ld.Wait()
	ld.Poll()
	assert.ErrorContains(t, failure, "no model")
}

func TestSetPathResolvesRelativeNames(t *testing.T) {
	ld := New(1, quietLogger()).SetPath("assets")
	parse, seen := fakeParse(nil)
	ld.Parse = parse

	abs, err := filepath.Abs("elsewhere/scene.gltf")
	require.NoError(t, err)
	ld.Load("cow/scene.gltf", nil, nil, nil)
	ld.Load(abs, nil, nil, nil)
	ld.Wait()
	ld.Poll()

	_, ok := seen.Load(filepath.Join("assets", "cow", "scene.gltf"))
	assert.True(t, ok)
	_, ok = seen.Load(abs)
	assert.True(t, ok)
	assert.Equal(t, 0, ld.Pending())
}

func TestLoadGLTFFixture(t *testing.T) {
	ld := New(2, quietLogger()).SetPath(filepath.Join("..", "scene", "testdata"))

	var model *scene.Model
	var last Progress
	ld.Load("quad/scene.gltf", func(m *scene.Model) { model = m }, func(p Progress) { last = p }, func(err error) {
		t.Errorf("load failed: %v", err)
	})
	ld.Wait()
	ld.Poll()

	require.NotNil(t, model)
	assert.Equal(t, "quad", model.Root.Name)
	assert.Equal(t, last.Total, last.Loaded)

	var failure error
	ld.Load("missing/scene.gltf", nil, nil, func(err error) { failure = err })
	ld.Wait()
	ld.Poll()
	var lerr *LoadError
	assert.ErrorAs(t, failure, &lerr)
}

func TestProgressPercent(t *testing.T) {
	assert.Equal(t, 0.0, Progress{}.Percent())
	assert.InDelta(t, 40, Progress{Loaded: 2, Total: 5}.Percent(), 1e-9)
}
