package conflict_detector

import (
	"sort"

	"github.com/Taraxa-project/taraxa-parallel/util"

	"github.com/emirpasic/gods/sets/linkedhashset"
)

// ConflictGraph is the undirected conflict relation over one batch's
// transaction ids. It is rebuilt per batch and discarded with it. The
// adjacency sets are stored symmetrically; there are never self-loops.
type ConflictGraph struct {
	adjacency map[Author]Authors
	vertices  []Author
	edgeCount int
}

func newConflictGraph() *ConflictGraph {
	return &ConflictGraph{adjacency: make(map[Author]Authors)}
}

func (this *ConflictGraph) addVertex(author Author) bool {
	if _, present := this.adjacency[author]; present {
		return false
	}
	this.adjacency[author] = linkedhashset.New()
	this.vertices = append(this.vertices, author)
	return true
}

func (this *ConflictGraph) addEdge(a, b Author) {
	util.Assert(a != b)
	neighborsOfA, neighborsOfB := this.adjacency[a], this.adjacency[b]
	util.Assert(neighborsOfA != nil && neighborsOfB != nil)
	if neighborsOfA.Contains(b) {
		return
	}
	neighborsOfA.Add(b)
	neighborsOfB.Add(a)
	this.edgeCount++
}

func (this *ConflictGraph) HasVertex(author Author) bool {
	_, present := this.adjacency[author]
	return present
}

func (this *ConflictGraph) Adjacent(i, j Author) bool {
	neighbors := this.adjacency[i]
	return neighbors != nil && neighbors.Contains(j)
}

// Neighbors returns the adjacency set of author, empty if the vertex has no
// conflicts, nil if the vertex is not in the graph.
func (this *ConflictGraph) Neighbors(author Author) Authors {
	return this.adjacency[author]
}

// Vertices returns the vertex ids in ascending order.
func (this *ConflictGraph) Vertices() []Author {
	ret := make([]Author, len(this.vertices))
	copy(ret, this.vertices)
	sort.Slice(ret, func(i, j int) bool { return ret[i] < ret[j] })
	return ret
}

func (this *ConflictGraph) VertexCount() int {
	return len(this.vertices)
}

func (this *ConflictGraph) EdgeCount() int {
	return this.edgeCount
}

// AdjacencyLists materializes the graph as sorted neighbor slices keyed by
// vertex id, for dumps and comparisons.
func (this *ConflictGraph) AdjacencyLists() map[Author][]Author {
	ret := make(map[Author][]Author, len(this.vertices))
	for author, neighbors := range this.adjacency {
		list := make([]Author, 0, neighbors.Size())
		neighbors.Each(func(_ int, value interface{}) {
			list = append(list, value.(Author))
		})
		sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
		ret[author] = list
	}
	return ret
}
