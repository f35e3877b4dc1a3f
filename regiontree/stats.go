package regiontree

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Stats summarizes the shape of a tree.
type Stats struct {
	Nodes       int
	Uniform     int
	Override    int
	Partitioned int
	MaxDepth    int
}

func (s Stats) String() string {
	return fmt.Sprintf("%s nodes (%s uniform, %s override, %s partitioned), max depth %d",
		humanize.Comma(int64(s.Nodes)), humanize.Comma(int64(s.Uniform)),
		humanize.Comma(int64(s.Override)), humanize.Comma(int64(s.Partitioned)), s.MaxDepth)
}

// Stats walks the tree rooted at n.
func (n *Node) Stats() Stats {
	var s Stats
	n.addStats(&s, 0)
	return s
}

func (n *Node) addStats(s *Stats, depth int) {
	s.Nodes++
	if depth > s.MaxDepth {
		s.MaxDepth = depth
	}
	switch rep := n.rep.(type) {
	case uniform:
		s.Uniform++
	case override:
		s.Override++
	case partitioned:
		s.Partitioned++
		for _, child := range rep.children {
			child.addStats(s, depth+1)
		}
	}
}

// Compact collapses any partitioned node whose children are all uniform with the
// same state, working bottom up.  Counts are unchanged.
func (n *Node) Compact() {
	p, ok := n.rep.(partitioned)
	if !ok {
		return
	}
	collapse := true
	var status bool
	for i, child := range p.children {
		child.Compact()
		u, ok := child.rep.(uniform)
		if !ok {
			collapse = false
			continue
		}
		if i == 0 {
			status = u.status
		} else if u.status != status {
			collapse = false
		}
	}
	if collapse && len(p.children) != 0 {
		n.rep = uniform{status}
	}
}
