// Package routing renders the server link graph reported by LINKS.
package routing

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Link is one server from a 364 reply.
type Link struct {
	Server      string
	Hub         string // uplink; equal to Server for the root
	Hops        int
	Description string
}

// LinkTree collects 364 replies until 365 ends the list.
type LinkTree struct {
	links map[string]*Link
	order []string
}

// NewLinkTree returns an empty tree.
func NewLinkTree() *LinkTree {
	return &LinkTree{links: make(map[string]*Link)}
}

// Add records a link. A server seen twice keeps its latest entry.
func (t *LinkTree) Add(server, hub string, hops int, description string) {
	key := strings.ToLower(server)
	if _, ok := t.links[key]; !ok {
		t.order = append(t.order, key)
	}
	t.links[key] = &Link{Server: server, Hub: hub, Hops: hops, Description: description}
}

// AddLine records the fields of a 364 reply: server, hub and the trailing
// "<hops> <description>" text.
func (t *LinkTree) AddLine(server, hub, info string) {
	if server == "" {
		return
	}
	hops := 0
	head, desc, _ := strings.Cut(strings.TrimSpace(info), " ")
	if n, err := strconv.Atoi(head); err == nil {
		hops = n
	} else {
		desc = strings.TrimSpace(info)
	}
	if hub == "" {
		hub = server
	}
	t.Add(server, hub, hops, desc)
}

// Len is the number of servers collected.
func (t *LinkTree) Len() int { return len(t.links) }

// Links returns the collected links in tree order.
func (t *LinkTree) Links() []Link {
	var out []Link
	for _, key := range t.ordered() {
		out = append(out, *t.links[key])
	}
	return out
}

// Build renders the tree, one server per line, children indented under
// their hub.
func (t *LinkTree) Build() []string {
	ordered := t.ordered()
	lines := make([]string, 0, len(ordered))
	for i, key := range ordered {
		lines = append(lines, t.formatLine(t.links[key], ordered[i+1:]))
	}
	return lines
}

// ordered lists servers depth first from the root. Servers unreachable
// from the root follow in arrival order.
func (t *LinkTree) ordered() []string {
	if len(t.links) == 0 {
		return nil
	}
	root := ""
	for _, key := range t.order {
		if t.links[key].Hops == 0 {
			root = key
			break
		}
	}
	if root == "" {
		root = t.order[0]
	}

	seen := make(map[string]bool, len(t.links))
	result := []string{root}
	seen[root] = true
	t.walk(root, seen, &result)
	for _, key := range t.order {
		if !seen[key] {
			seen[key] = true
			result = append(result, key)
		}
	}
	return result
}

func (t *LinkTree) walk(parent string, seen map[string]bool, result *[]string) {
	var children []string
	for key, l := range t.links {
		if !seen[key] && strings.EqualFold(l.Hub, t.links[parent].Server) {
			children = append(children, key)
		}
	}
	sort.Strings(children)

	for _, key := range children {
		if seen[key] {
			continue
		}
		seen[key] = true
		*result = append(*result, key)
		t.walk(key, seen, result)
	}
}

func (t *LinkTree) formatLine(l *Link, remaining []string) string {
	if l.Hops == 0 {
		return strings.TrimSpace(fmt.Sprintf("%s (%d) %s", l.Server, l.Hops, l.Description))
	}

	var prefix strings.Builder
	for level := 1; level < l.Hops; level++ {
		if t.hasMoreAtLevel(level+1, remaining) {
			prefix.WriteString("   |")
		} else {
			prefix.WriteString("    ")
		}
	}
	prefix.WriteString("|_ ")

	return strings.TrimSpace(fmt.Sprintf("%s%s (%d) %s", prefix.String(), l.Server, l.Hops, l.Description))
}

func (t *LinkTree) hasMoreAtLevel(level int, remaining []string) bool {
	for _, key := range remaining {
		if l, ok := t.links[key]; ok && l.Hops == level {
			return true
		}
	}
	return false
}
