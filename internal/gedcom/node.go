package gedcom

import "strings"

// Node is one GEDCOM line with its subordinate lines.
type Node struct {
	Level    int
	XRef     string
	Tag      string
	Value    string
	Line     int
	Children []*Node
}

// First returns the first child with tag.
func (n *Node) First(tag string) *Node {
	if n == nil {
		return nil
	}
	for _, child := range n.Children {
		if child.Tag == tag {
			return child
		}
	}
	return nil
}

// All returns every child with tag.
func (n *Node) All(tag string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, child := range n.Children {
		if child.Tag == tag {
			out = append(out, child)
		}
	}
	return out
}

// Find follows a slash separated tag path such as "BIRT/DATE", taking the
// first match at each step.
func (n *Node) Find(path string) *Node {
	cur := n
	for _, tag := range splitPath(path) {
		cur = cur.First(tag)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// FindAll returns every node reachable through path, descending into all
// repeated tags.
func (n *Node) FindAll(path string) []*Node {
	current := []*Node{n}
	for _, tag := range splitPath(path) {
		var next []*Node
		for _, node := range current {
			next = append(next, node.All(tag)...)
		}
		if len(next) == 0 {
			return nil
		}
		current = next
	}
	return current
}

func splitPath(path string) []string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsPointer reports whether value is a cross-reference like @N1@.
func IsPointer(value string) bool {
	return len(value) > 2 && value[0] == '@' && value[len(value)-1] == '@' && !strings.HasPrefix(value, "@#")
}
