package typenode

// Stats summarizes a full recursive walk of a type tree. Every node of
// every kind is counted once in AllTypes, including array, union and object
// wrapper nodes themselves.
type Stats struct {
	AllTypes     int
	UnknownTypes int
	EmptyUnions  int
}

// CountStats walks the tree rooted at n and returns its usage statistics.
func CountStats(n Node) Stats {
	var s Stats
	count(n, &s)
	return s
}

func count(n Node, s *Stats) {
	if n == nil {
		return
	}
	s.AllTypes++
	switch node := n.(type) {
	case *Unknown:
		s.UnknownTypes++
	case *Array:
		count(node.Of, s)
	case *Union:
		if len(node.Of) == 0 {
			s.EmptyUnions++
		}
		for _, member := range node.Of {
			count(member, s)
		}
	case *Object:
		for _, attr := range node.Attributes {
			count(attr.Value, s)
		}
		if node.Rest != nil {
			count(node.Rest, s)
		}
	}
}
