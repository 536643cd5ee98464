package dispatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shpaw415/frame-master-sub000/internal/pattern"
	"github.com/shpaw415/frame-master-sub000/internal/registry"
	"github.com/shpaw415/frame-master-sub000/internal/types"
)

func passThrough(ctx context.Context, in types.Input) (*types.LoadResult, error) {
	return nil, nil
}

func buildGroup(t *testing.T, reg *registry.Registry, namespace string) *registry.NamespaceGroup {
	t.Helper()
	groups, err := reg.Groups()
	require.NoError(t, err)
	group, ok := groups[namespace]
	require.True(t, ok, "expected group %q", namespace)
	return group
}

func TestMatching_FiltersByIndividualPattern(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.RegisterLoader("txt", 0,
		registry.LoadOptions{Pattern: pattern.MustCompile(`\.txt$`), Namespace: "file"}, passThrough))
	require.NoError(t, reg.RegisterLoader("test-txt", 10,
		registry.LoadOptions{Pattern: pattern.MustCompile(`test.*\.txt$`), Namespace: "file"}, passThrough))
	require.NoError(t, reg.RegisterLoader("css", 0,
		registry.LoadOptions{Pattern: pattern.MustCompile(`\.css$`), Namespace: "file"}, passThrough))

	group := buildGroup(t, reg, "file")

	matched := Matching(group, "a/test.txt")
	require.Len(t, matched, 2)
	assert.Equal(t, "txt", matched[0].Owner)
	assert.Equal(t, "test-txt", matched[1].Owner)

	matched = Matching(group, "plain.txt")
	require.Len(t, matched, 1)
	assert.Equal(t, "txt", matched[0].Owner)

	assert.Empty(t, Matching(group, "image.png"))
}

func TestMatching_PreservesGroupOrder(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.RegisterLoader("second", 20,
		registry.LoadOptions{Pattern: pattern.MustCompile(`\.txt$`), Namespace: "file"}, passThrough))
	require.NoError(t, reg.RegisterLoader("first", 1,
		registry.LoadOptions{Pattern: pattern.MustCompile(`\.txt$`), Namespace: "file"}, passThrough))

	group := buildGroup(t, reg, "file")
	matched := Matching(group, "notes.txt")
	require.Len(t, matched, 2)
	assert.Equal(t, "first", matched[0].Owner)
	assert.Equal(t, "second", matched[1].Owner)
}

// A combined-pattern match proves only that at least one member matches:
// every member is re-tested, so a path matched by just one of several
// structurally different patterns runs exactly that handler.
func TestMatching_CombinedMatchDoesNotImplyMemberMatch(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.RegisterLoader("virtual", 0,
		registry.LoadOptions{Pattern: pattern.MustCompile(`^virtual:`), Namespace: "file"}, passThrough))
	require.NoError(t, reg.RegisterLoader("tsx", 10,
		registry.LoadOptions{Pattern: pattern.MustCompile(`\.tsx$`), Namespace: "file"}, passThrough))

	group := buildGroup(t, reg, "file")
	require.True(t, group.Combined.Match("virtual:routes"))

	matched := Matching(group, "virtual:routes")
	require.Len(t, matched, 1)
	assert.Equal(t, "virtual", matched[0].Owner)
}
