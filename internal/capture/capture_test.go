package capture

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shpaw415/frame-master-sub000/internal/errors"
	"github.com/shpaw415/frame-master-sub000/internal/pattern"
	"github.com/shpaw415/frame-master-sub000/internal/registry"
	"github.com/shpaw415/frame-master-sub000/internal/types"
)

func noopLoad(ctx context.Context, in types.Input) (*types.LoadResult, error) {
	return &types.LoadResult{Content: []byte("x"), Kind: types.KindText}, nil
}

func TestCapture_RedirectsLoadAndFinalizeIntoRegistry(t *testing.T) {
	reg := registry.New()
	rec, err := Capture(reg, Plugin{
		Name:        "markdown",
		Priority:    42,
		HasPriority: true,
		Setup: func(b Builder) error {
			if err := b.OnLoad(registry.LoadOptions{Pattern: pattern.MustCompile(`\.md$`)}, noopLoad); err != nil {
				return err
			}
			return b.OnFinalize(types.KindMarkup, func(ctx context.Context, in types.FinalizeInput) ([]byte, error) {
				return in.Content, nil
			})
		},
	})
	require.NoError(t, err)
	require.NotNil(t, rec)

	handlers := reg.Handlers()
	require.Len(t, handlers, 1)
	assert.Equal(t, "markdown", handlers[0].Owner)
	assert.Equal(t, 42, handlers[0].Priority)
	assert.Equal(t, `\.md$`, handlers[0].Pattern.Source())

	hooks := reg.Finalizers(types.KindMarkup)
	require.Len(t, hooks, 1)
	assert.Equal(t, "markdown", hooks[0].Owner)
}

func TestCapture_UnspecifiedPriorityGetsDefault(t *testing.T) {
	reg := registry.New()
	_, err := Capture(reg, Plugin{
		Name: "plain",
		Setup: func(b Builder) error {
			return b.OnLoad(registry.LoadOptions{Pattern: pattern.MustCompile(`\.txt$`)}, noopLoad)
		},
	})
	require.NoError(t, err)

	handlers := reg.Handlers()
	require.Len(t, handlers, 1)
	assert.Equal(t, registry.DefaultPriority, handlers[0].Priority)
}

// A plugin can ask for priority zero; only an unspecified priority falls
// back to the default.
func TestCapture_ExplicitZeroPriorityIsKept(t *testing.T) {
	reg := registry.New()
	_, err := Capture(reg, Plugin{
		Name:        "urgent",
		Priority:    0,
		HasPriority: true,
		Setup: func(b Builder) error {
			return b.OnLoad(registry.LoadOptions{Pattern: pattern.MustCompile(`\.txt$`)}, noopLoad)
		},
	})
	require.NoError(t, err)

	handlers := reg.Handlers()
	require.Len(t, handlers, 1)
	assert.Equal(t, 0, handlers[0].Priority)
}

func TestCapture_RejectsUnnamedPlugin(t *testing.T) {
	_, err := Capture(registry.New(), Plugin{})
	require.Error(t, err)

	var regErr *errors.RegistrationError
	assert.ErrorAs(t, err, &regErr)
}

func TestCapture_SetupErrorIsWrappedWithPluginName(t *testing.T) {
	_, err := Capture(registry.New(), Plugin{
		Name: "broken",
		Setup: func(b Builder) error {
			return assert.AnError
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `plugin "broken"`)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestCapture_MalformedRegistrationSurfacesFromSetup(t *testing.T) {
	reg := registry.New()
	_, err := Capture(reg, Plugin{
		Name: "bad",
		Setup: func(b Builder) error {
			return b.OnLoad(registry.LoadOptions{}, noopLoad)
		},
	})
	require.Error(t, err)

	var regErr *errors.RegistrationError
	require.ErrorAs(t, err, &regErr)
	assert.Zero(t, reg.Len(), "rejected registrations must not enter the registry")
}

// Capturing only observes registrations; none of the handler callbacks run.
func TestCapture_ExecutesNoHandlers(t *testing.T) {
	ran := false
	_, err := Capture(registry.New(), Plugin{
		Name: "lazy",
		Setup: func(b Builder) error {
			if err := b.OnLoad(registry.LoadOptions{Pattern: pattern.MustCompile(`\.txt$`)},
				func(ctx context.Context, in types.Input) (*types.LoadResult, error) {
					ran = true
					return nil, nil
				}); err != nil {
				return err
			}
			return b.OnStart(func(ctx context.Context) error {
				ran = true
				return nil
			})
		},
	})
	require.NoError(t, err)
	assert.False(t, ran)
}

func TestRecorder_RejectsMalformedPassthroughs(t *testing.T) {
	rec, err := Capture(registry.New(), Plugin{Name: "p"})
	require.NoError(t, err)

	assert.Error(t, rec.OnResolve(ResolveOptions{}, func(ctx context.Context, args types.ResolveArgs) (*types.ResolveResult, error) {
		return nil, nil
	}))
	assert.Error(t, rec.OnResolve(ResolveOptions{Pattern: pattern.MustCompile(`^lib$`)}, nil))
	assert.Error(t, rec.OnStart(nil))
	assert.Empty(t, rec.Resolves())
	assert.Empty(t, rec.Starts())
}

type fakeHost struct {
	resolves []ResolveOptions
	starts   int
	failures bool
}

func (h *fakeHost) OnResolve(opts ResolveOptions, fn types.ResolveFunc) error {
	if h.failures {
		return assert.AnError
	}
	h.resolves = append(h.resolves, opts)
	return nil
}

func (h *fakeHost) OnStart(fn types.StartFunc) error {
	if h.failures {
		return assert.AnError
	}
	h.starts++
	return nil
}

func TestReplay_InstallsPassthroughsInRecordedOrder(t *testing.T) {
	rec, err := Capture(registry.New(), Plugin{
		Name: "resolver",
		Setup: func(b Builder) error {
			if err := b.OnResolve(ResolveOptions{Pattern: pattern.MustCompile(`^first$`)},
				func(ctx context.Context, args types.ResolveArgs) (*types.ResolveResult, error) { return nil, nil }); err != nil {
				return err
			}
			if err := b.OnResolve(ResolveOptions{Pattern: pattern.MustCompile(`^second$`), Namespace: "virtual"},
				func(ctx context.Context, args types.ResolveArgs) (*types.ResolveResult, error) { return nil, nil }); err != nil {
				return err
			}
			return b.OnStart(func(ctx context.Context) error { return nil })
		},
	})
	require.NoError(t, err)

	host := &fakeHost{}
	require.NoError(t, rec.Replay(host))
	require.Len(t, host.resolves, 2)
	assert.Equal(t, `^first$`, host.resolves[0].Pattern.Source())
	assert.Equal(t, `^second$`, host.resolves[1].Pattern.Source())
	assert.Equal(t, "virtual", host.resolves[1].Namespace)
	assert.Equal(t, 1, host.starts)
}

func TestReplay_WrapsHostErrorWithOwner(t *testing.T) {
	rec, err := Capture(registry.New(), Plugin{
		Name: "resolver",
		Setup: func(b Builder) error {
			return b.OnResolve(ResolveOptions{Pattern: pattern.MustCompile(`^x$`)},
				func(ctx context.Context, args types.ResolveArgs) (*types.ResolveResult, error) { return nil, nil })
		},
	})
	require.NoError(t, err)

	err = rec.Replay(&fakeHost{failures: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `plugin "resolver"`)
}

func TestCaptureAll_StopsOnFirstFailure(t *testing.T) {
	reg := registry.New()
	recorders, err := CaptureAll(reg, []Plugin{
		{Name: "ok", Setup: func(b Builder) error {
			return b.OnLoad(registry.LoadOptions{Pattern: pattern.MustCompile(`\.a$`)}, noopLoad)
		}},
		{Name: ""},
		{Name: "never", Setup: func(b Builder) error {
			t.Fatal("plugins after a failed capture must not run")
			return nil
		}},
	})
	require.Error(t, err)
	assert.Nil(t, recorders)
	assert.Equal(t, 1, reg.Len(), "registrations before the failure stay captured")
}
