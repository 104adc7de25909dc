package virtual

// MutationRecord lists the nodes added to and removed from the container's
// child list by one host operation.
type MutationRecord struct {
	Added   []Node
	Removed []Node
}

// Coalesce merges records into net added and removed node lists.
//
// A node removed and later added again, or added and later removed, within
// the same batch cancels out and appears in neither list. Within each list
// nodes keep the order in which they were first seen.
func Coalesce(records []MutationRecord) (added, removed []Node) {
	addedSet := newNodeSet()
	removedSet := newNodeSet()

	for _, record := range records {
		for _, n := range record.Removed {
			if !addedSet.remove(n) {
				removedSet.add(n)
			}
		}
		for _, n := range record.Added {
			if !removedSet.remove(n) {
				addedSet.add(n)
			}
		}
	}
	return addedSet.items(), removedSet.items()
}

// nodeSet is an insertion-ordered set of nodes.
type nodeSet struct {
	order   []Node
	members map[Node]struct{}
}

func newNodeSet() *nodeSet {
	return &nodeSet{members: make(map[Node]struct{})}
}

func (s *nodeSet) add(n Node) {
	if _, ok := s.members[n]; ok {
		return
	}
	s.members[n] = struct{}{}
	s.order = append(s.order, n)
}

func (s *nodeSet) remove(n Node) bool {
	if _, ok := s.members[n]; !ok {
		return false
	}
	delete(s.members, n)
	return true
}

func (s *nodeSet) items() []Node {
	if len(s.members) == 0 {
		return nil
	}
	out := make([]Node, 0, len(s.members))
	seen := make(map[Node]struct{}, len(s.members))
	for _, n := range s.order {
		if _, ok := s.members[n]; !ok {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
