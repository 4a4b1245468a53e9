package voxel

// EditSet records voxels written by a user action. Generation must never
// overwrite a member, whatever its current id: an edit to Air is permanent too.
type EditSet struct {
	marked map[Pos]struct{}
}

// NewEditSet creates an empty edit set.
func NewEditSet() *EditSet {
	return &EditSet{marked: make(map[Pos]struct{})}
}

// Mark records p as user-edited.
func (s *EditSet) Mark(p Pos) {
	s.marked[p] = struct{}{}
}

// Contains reports whether p was edited.
func (s *EditSet) Contains(p Pos) bool {
	if s == nil {
		return false
	}
	_, ok := s.marked[p]
	return ok
}

// Len returns the number of edited voxels.
func (s *EditSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.marked)
}
