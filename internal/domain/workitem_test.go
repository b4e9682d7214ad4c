package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleHierarchy builds Epic A -> Feature A1 -> {Item 1, Item 2}, Epic B.
func sampleHierarchy(t *testing.T) *Hierarchy {
	t.Helper()
	epicA := NewEpic("Epic A")
	feature, err := epicA.AddChild("Feature A1")
	require.NoError(t, err)
	_, err = feature.AddChild("Item 1")
	require.NoError(t, err)
	_, err = feature.AddChild("Item 2")
	require.NoError(t, err)
	return &Hierarchy{Epics: []*Node{epicA, NewEpic("Epic B")}}
}

func TestKind_ChildKind(t *testing.T) {
	k, ok := KindEpic.ChildKind()
	assert.True(t, ok)
	assert.Equal(t, KindFeature, k)

	k, ok = KindFeature.ChildKind()
	assert.True(t, ok)
	assert.Equal(t, KindBacklogItem, k)

	_, ok = KindBacklogItem.ChildKind()
	assert.False(t, ok)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "Epic", KindEpic.String())
	assert.Equal(t, "Feature", KindFeature.String())
	assert.Equal(t, "Backlog Item", KindBacklogItem.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
	assert.False(t, Kind(0).IsValid())
}

func TestNode_AddChild_RejectsBelowBacklogItem(t *testing.T) {
	item := &Node{Title: "leaf", Kind: KindBacklogItem}

	_, err := item.AddChild("too deep")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidHierarchy))
	assert.Empty(t, item.Children)
}

func TestHierarchy_Walk_PreOrder(t *testing.T) {
	h := sampleHierarchy(t)

	var titles []string
	var depths []int
	err := h.Walk(func(n, _ *Node, depth int) error {
		titles = append(titles, n.Title)
		depths = append(depths, depth)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Epic A", "Feature A1", "Item 1", "Item 2", "Epic B"}, titles)
	assert.Equal(t, []int{0, 1, 2, 2, 0}, depths)
}

func TestHierarchy_WalkPostOrder(t *testing.T) {
	h := sampleHierarchy(t)

	var titles []string
	var parents []string
	err := h.WalkPostOrder(func(n, parent *Node, _ int) error {
		titles = append(titles, n.Title)
		if parent != nil {
			parents = append(parents, parent.Title)
		} else {
			parents = append(parents, "")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Item 1", "Item 2", "Feature A1", "Epic A", "Epic B"}, titles)
	assert.Equal(t, []string{"Feature A1", "Feature A1", "Epic A", "", ""}, parents)
}

func TestHierarchy_Walk_StopsOnError(t *testing.T) {
	h := sampleHierarchy(t)
	stop := errors.New("stop")

	visited := 0
	err := h.Walk(func(_, _ *Node, _ int) error {
		visited++
		if visited == 2 {
			return stop
		}
		return nil
	})

	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, visited)
}

func TestHierarchy_Count(t *testing.T) {
	assert.Equal(t, 5, sampleHierarchy(t).Count())
	assert.Equal(t, 0, (&Hierarchy{}).Count())
}

func TestHierarchy_Validate(t *testing.T) {
	t.Run("valid tree", func(t *testing.T) {
		assert.NoError(t, sampleHierarchy(t).Validate())
	})

	t.Run("empty title", func(t *testing.T) {
		h := &Hierarchy{Epics: []*Node{NewEpic("")}}
		assert.ErrorIs(t, h.Validate(), ErrEmptyTitle)
	})

	t.Run("feature at top level", func(t *testing.T) {
		h := &Hierarchy{Epics: []*Node{{Title: "f", Kind: KindFeature}}}
		assert.ErrorIs(t, h.Validate(), ErrInvalidHierarchy)
	})

	t.Run("cross-level child", func(t *testing.T) {
		epic := NewEpic("e")
		epic.Children = append(epic.Children, &Node{Title: "i", Kind: KindBacklogItem})
		h := &Hierarchy{Epics: []*Node{epic}}
		assert.ErrorIs(t, h.Validate(), ErrInvalidHierarchy)
	})
}

func TestNode_Descendants(t *testing.T) {
	h := sampleHierarchy(t)

	var titles []string
	for _, n := range h.Epics[0].Descendants() {
		titles = append(titles, n.Title)
	}

	assert.Equal(t, []string{"Feature A1", "Item 1", "Item 2"}, titles)
	assert.Empty(t, h.Epics[1].Descendants())
}
