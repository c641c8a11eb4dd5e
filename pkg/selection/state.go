package selection

import (
	"fmt"
	"slices"

	"github.com/philipparndt/stlsplit/pkg/mesh"
	"github.com/philipparndt/stlsplit/pkg/stl"
)

// Group is a named set of face ids. Groups are independent: a face may
// belong to several groups at once.
type Group struct {
	ID      int
	Name    string
	members map[int]struct{}
}

func newGroup(id int, name string) *Group {
	if name == "" {
		name = DefaultGroupName(id)
	}
	return &Group{ID: id, Name: name, members: make(map[int]struct{})}
}

// DefaultGroupName is the display label of group id ("Group <id+1>")
func DefaultGroupName(id int) string {
	return fmt.Sprintf("Group %d", id+1)
}

// Len returns the number of faces in the group
func (g *Group) Len() int {
	return len(g.members)
}

// Empty reports whether the group has no faces
func (g *Group) Empty() bool {
	return len(g.members) == 0
}

// Contains reports whether face f is a member
func (g *Group) Contains(f int) bool {
	_, ok := g.members[f]
	return ok
}

// Members returns the face ids in ascending order
func (g *Group) Members() []int {
	out := make([]int, 0, len(g.members))
	for f := range g.members {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// State is the ordered list of selection groups plus the active group.
// Groups are never removed, only cleared. Face ids are not range checked
// here; callers validate them against the mesh.
type State struct {
	groups []*Group
	active int
}

// NewState returns an empty state with no active group
func NewState() *State {
	return &State{active: -1}
}

// CreateGroup appends an empty group and activates it. When the active
// group is already empty nothing is created and its id is returned.
func (s *State) CreateGroup() int {
	if g, ok := s.Active(); ok && g.Empty() {
		return g.ID
	}
	return s.AddGroup("")
}

// AddGroup always appends a new group and activates it. An empty name
// falls back to DefaultGroupName.
func (s *State) AddGroup(name string) int {
	id := len(s.groups)
	s.groups = append(s.groups, newGroup(id, name))
	s.active = id
	return id
}

// Rename changes the label of group id. Names end up in "solid" lines,
// so anything stl.ValidateName rejects is refused.
func (s *State) Rename(id int, name string) error {
	g, err := s.Group(id)
	if err != nil {
		return err
	}
	if err := stl.ValidateName(name); err != nil {
		return err
	}
	if name == "" {
		name = DefaultGroupName(id)
	}
	g.Name = name
	return nil
}

// SetActiveGroup activates group id
func (s *State) SetActiveGroup(id int) error {
	if _, err := s.Group(id); err != nil {
		return err
	}
	s.active = id
	return nil
}

// NextGroup activates the following group, wrapping around
func (s *State) NextGroup() {
	if len(s.groups) == 0 {
		return
	}
	s.active = (s.active + 1) % len(s.groups)
}

// ToggleFace removes f from the active group if present and inserts it
// otherwise. A group is created first when none exists. It reports
// whether f is selected afterwards.
func (s *State) ToggleFace(f int) bool {
	g := s.ensureActive()
	if g.Contains(f) {
		delete(g.members, f)
		return false
	}
	g.members[f] = struct{}{}
	return true
}

// MergeRegion adds every id to the active group (union, not toggle) and
// returns how many were new.
func (s *State) MergeRegion(ids []int) int {
	g := s.ensureActive()
	added := 0
	for _, f := range ids {
		if _, ok := g.members[f]; !ok {
			g.members[f] = struct{}{}
			added++
		}
	}
	return added
}

// ClearActive empties the active group but keeps it
func (s *State) ClearActive() {
	if g, ok := s.Active(); ok {
		g.members = make(map[int]struct{})
	}
}

// TotalSelected sums the group sizes; faces in several groups count once
// per group.
func (s *State) TotalSelected() int {
	total := 0
	for _, g := range s.groups {
		total += g.Len()
	}
	return total
}

// Len returns the number of groups
func (s *State) Len() int {
	return len(s.groups)
}

// Groups returns the groups in creation order
func (s *State) Groups() []*Group {
	return slices.Clone(s.groups)
}

// NonEmpty returns the groups holding at least one face, in creation order
func (s *State) NonEmpty() []*Group {
	var out []*Group
	for _, g := range s.groups {
		if !g.Empty() {
			out = append(out, g)
		}
	}
	return out
}

// Union returns every face that belongs to at least one group, sorted
func (s *State) Union() []int {
	var all []int
	for _, g := range s.groups {
		all = append(all, g.Members()...)
	}
	slices.Sort(all)
	return slices.Compact(all)
}

// Group returns group id
func (s *State) Group(id int) (*Group, error) {
	if id < 0 || id >= len(s.groups) {
		return nil, &mesh.IndexError{Kind: "group", Index: id, Len: len(s.groups)}
	}
	return s.groups[id], nil
}

// Active returns the active group, if any
func (s *State) Active() (*Group, bool) {
	if s.active < 0 {
		return nil, false
	}
	return s.groups[s.active], true
}

// ActiveID returns the active group id or -1 when there are no groups
func (s *State) ActiveID() int {
	return s.active
}

func (s *State) ensureActive() *Group {
	if g, ok := s.Active(); ok {
		return g
	}
	return s.groups[s.CreateGroup()]
}

// GroupSnapshot is a read-only copy of one group
type GroupSnapshot struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Faces []int  `json:"faces"`
}

// Snapshot is a read-only copy of the state for display layers
type Snapshot struct {
	Groups []GroupSnapshot `json:"groups"`
	Active int             `json:"active"`
	Total  int             `json:"total"`
}

// Snapshot copies the current state
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Groups: make([]GroupSnapshot, 0, len(s.groups)),
		Active: s.active,
		Total:  s.TotalSelected(),
	}
	for _, g := range s.groups {
		snap.Groups = append(snap.Groups, GroupSnapshot{ID: g.ID, Name: g.Name, Faces: g.Members()})
	}
	return snap
}
