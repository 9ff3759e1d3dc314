// Package callpath builds the call-path tree the original emitter rolled
// per-region I/O paradigm usage into (original_source's io_per_region /
// io_ops_by_paradigm), supplementing the distilled spec's "paradigm
// bookkeeping" collaborator (spec.md §2) with the region-level rollup
// create_json.cpp actually performs.
package callpath

import "github.com/tracescope/tracescope/accesspattern"

// Node is one call-path frame: a region name and the paradigm usage
// attributed to it directly (not including children).
type Node struct {
	Region   string
	Children []*Node

	ParadigmBytes map[accesspattern.Label]uint64
	ParadigmTicks map[accesspattern.Label]uint64
}

// Tree roots one rank's call-path accounting.
type Tree struct {
	Root *Node
}

// NewTree returns an empty tree rooted at name (typically "main" or the
// trace's designated entry region).
func NewTree(rootRegion string) *Tree {
	return &Tree{Root: newNode(rootRegion)}
}

func newNode(region string) *Node {
	return &Node{
		Region:        region,
		ParadigmBytes: make(map[accesspattern.Label]uint64),
		ParadigmTicks: make(map[accesspattern.Label]uint64),
	}
}

// Descend returns the child of n named region, creating it if absent.
func (n *Node) Descend(region string) *Node {
	for _, c := range n.Children {
		if c.Region == region {
			return c
		}
	}
	c := newNode(region)
	n.Children = append(n.Children, c)
	return c
}

// Attribute folds an AnalysisResult's per-pattern stats into n directly.
// They are not propagated to ancestors, and nothing in this module rolls
// node totals up the tree.
func (n *Node) Attribute(result accesspattern.AnalysisResult) {
	for label, stats := range result.StatsPerPattern {
		n.ParadigmBytes[label] += stats.IOSize
		n.ParadigmTicks[label] += stats.TicksSpent
	}
}
