package selection

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/stlsplit/pkg/mesh"
)

func TestNewStateIsEmpty(t *testing.T) {
	s := NewState()

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, -1, s.ActiveID())
	_, ok := s.Active()
	assert.False(t, ok)
	assert.Equal(t, 0, s.TotalSelected())
}

func TestCreateGroupSkipsWhenActiveIsEmpty(t *testing.T) {
	s := NewState()

	first := s.CreateGroup()
	again := s.CreateGroup()
	assert.Equal(t, 0, first)
	assert.Equal(t, first, again, "an empty active group must be reused")
	assert.Equal(t, 1, s.Len())

	s.ToggleFace(3)
	second := s.CreateGroup()
	assert.Equal(t, 1, second)
	assert.Equal(t, 1, s.ActiveID())
	assert.Equal(t, 2, s.Len())
}

func TestDefaultGroupNames(t *testing.T) {
	s := NewState()
	s.AddGroup("")
	s.AddGroup("lid")

	groups := s.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, "Group 1", groups[0].Name)
	assert.Equal(t, "lid", groups[1].Name)

	require.NoError(t, s.Rename(1, ""))
	assert.Equal(t, "Group 2", groups[1].Name)
}

func TestRenameRejectsUnsafeNames(t *testing.T) {
	s := NewState()
	s.AddGroup("lid")

	for _, name := range []string{"lid\nendsolid lid", " lid", "lid ", "a\tb"} {
		assert.Error(t, s.Rename(0, name), "%q", name)
	}
	assert.Equal(t, "lid", s.Groups()[0].Name)

	require.NoError(t, s.Rename(0, "lid (top)"))
	assert.Equal(t, "lid (top)", s.Groups()[0].Name)
}

func TestToggleFaceCreatesGroup(t *testing.T) {
	s := NewState()

	assert.True(t, s.ToggleFace(7))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 0, s.ActiveID())

	g, _ := s.Active()
	assert.Equal(t, []int{7}, g.Members())
}

func TestToggleFaceTwiceRestoresMembership(t *testing.T) {
	s := NewState()
	s.MergeRegion([]int{1, 2, 3})
	before := s.Snapshot()

	for _, f := range []int{2, 9} {
		s.ToggleFace(f)
		s.ToggleFace(f)
	}

	assert.Equal(t, before, s.Snapshot())
}

func TestMergeRegionIsUnion(t *testing.T) {
	s := NewState()
	s.ToggleFace(1)

	added := s.MergeRegion([]int{1, 2, 2, 3})
	assert.Equal(t, 2, added)

	g, _ := s.Active()
	assert.Equal(t, []int{1, 2, 3}, g.Members())
}

func TestSetActiveGroup(t *testing.T) {
	s := NewState()
	s.AddGroup("")
	s.AddGroup("")

	require.NoError(t, s.SetActiveGroup(0))
	assert.Equal(t, 0, s.ActiveID())

	err := s.SetActiveGroup(2)
	var idx *mesh.IndexError
	require.True(t, errors.As(err, &idx))
	assert.Equal(t, "group", idx.Kind)
	assert.Equal(t, 0, s.ActiveID(), "failed call must not change the active group")

	assert.Error(t, s.SetActiveGroup(-1))
}

func TestNextGroupWraps(t *testing.T) {
	s := NewState()
	s.NextGroup()
	assert.Equal(t, -1, s.ActiveID())

	s.AddGroup("")
	s.AddGroup("")
	s.AddGroup("")

	s.NextGroup()
	assert.Equal(t, 0, s.ActiveID())
	s.NextGroup()
	s.NextGroup()
	assert.Equal(t, 2, s.ActiveID())
}

func TestClearActiveKeepsGroup(t *testing.T) {
	s := NewState()
	s.MergeRegion([]int{4, 5})
	s.AddGroup("")
	s.MergeRegion([]int{6})

	s.ClearActive()

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 2, s.TotalSelected())
	assert.Len(t, s.NonEmpty(), 1)
}

func TestOverlappingGroupsCountTwice(t *testing.T) {
	s := NewState()
	s.MergeRegion([]int{1, 2})
	s.AddGroup("")
	s.MergeRegion([]int{2, 3})

	assert.Equal(t, 4, s.TotalSelected())
	assert.Equal(t, []int{1, 2, 3}, s.Union())
}

func TestSnapshot(t *testing.T) {
	s := NewState()
	s.MergeRegion([]int{9, 1})
	s.AddGroup("side")

	snap := s.Snapshot()
	assert.Equal(t, 1, snap.Active)
	assert.Equal(t, 2, snap.Total)
	require.Len(t, snap.Groups, 2)
	assert.Equal(t, []int{1, 9}, snap.Groups[0].Faces)
	assert.Equal(t, "side", snap.Groups[1].Name)
	assert.Empty(t, snap.Groups[1].Faces)

	// snapshot is detached from later edits
	s.ToggleFace(4)
	assert.Empty(t, snap.Groups[1].Faces)
}
