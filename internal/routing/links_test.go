package routing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkTree(t *testing.T) {
	tree := NewLinkTree()

	tree.AddLine("leaf1.example.net", "server1.example.net", "2 Leaf 1")
	tree.AddLine("hub.example.net", "hub.example.net", "0 Example Hub")
	tree.AddLine("server2.example.net", "hub.example.net", "1 Server 2")
	tree.AddLine("server1.example.net", "hub.example.net", "1 Server 1")

	lines := tree.Build()
	require.Len(t, lines, 4)

	assert.Equal(t, "hub.example.net (0) Example Hub", lines[0])
	assert.Contains(t, lines[1], "server1.example.net (1) Server 1")
	assert.Contains(t, lines[2], "leaf1.example.net (2) Leaf 1")
	assert.Contains(t, lines[3], "server2.example.net (1) Server 2")
	assert.True(t, strings.HasPrefix(lines[1], "|_ "))
}

func TestLinkTreeDuplicateServer(t *testing.T) {
	tree := NewLinkTree()
	tree.Add("hub.example.net", "hub.example.net", 0, "old")
	tree.Add("HUB.example.net", "hub.example.net", 0, "new")

	assert.Equal(t, 1, tree.Len())
	assert.Equal(t, []string{"HUB.example.net (0) new"}, tree.Build())
}

func TestLinkTreeWithoutRoot(t *testing.T) {
	tree := NewLinkTree()
	tree.AddLine("a.example.net", "b.example.net", "1 A")
	tree.AddLine("c.example.net", "d.example.net", "1 C")

	links := tree.Links()
	require.Len(t, links, 2)
	assert.Equal(t, "a.example.net", links[0].Server)
	assert.Equal(t, "c.example.net", links[1].Server)
}

func TestAddLineWithoutHops(t *testing.T) {
	tree := NewLinkTree()
	tree.AddLine("hub.example.net", "", "just a description")

	links := tree.Links()
	require.Len(t, links, 1)
	assert.Equal(t, 0, links[0].Hops)
	assert.Equal(t, "hub.example.net", links[0].Hub)
	assert.Equal(t, "just a description", links[0].Description)
}

func TestEmptyTree(t *testing.T) {
	assert.Empty(t, NewLinkTree().Build())
}
