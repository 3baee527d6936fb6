// Package bktree implements a Burkhard-Keller tree over perceptual
// fingerprints with Hamming distance as the metric. It supports bounded
// distance queries: "all entries within threshold of this value".
package bktree

import "github.com/dagslott/imagesort/internal/fingerprint"

// Match is one query result.
type Match struct {
	Distance    int
	Fingerprint fingerprint.Fingerprint
}

type node struct {
	value fingerprint.Fingerprint
	// children is keyed by distance to this node's value. Equal values chain
	// through the 0 bucket, so duplicate insertions are permitted; mapping a
	// value back to every owning record is the caller's job.
	children map[int]*node
}

// Tree is a BK-tree. The zero value is ready to use. It is not safe for
// concurrent mutation; the detection pipeline builds it single-threaded.
type Tree struct {
	root *node
	size int
}

// Len reports the number of inserted fingerprints, duplicates included.
func (t *Tree) Len() int {
	return t.size
}

// Insert adds one fingerprint. Callers must only insert fingerprints of a
// single algorithm variant per tree.
func (t *Tree) Insert(fp fingerprint.Fingerprint) {
	t.size++
	if t.root == nil {
		t.root = &node{value: fp}
		return
	}

	cur := t.root
	for {
		d := cur.value.HammingDistance(fp)
		if cur.children == nil {
			cur.children = make(map[int]*node)
		}
		child, ok := cur.children[d]
		if !ok {
			cur.children[d] = &node{value: fp}
			return
		}
		cur = child
	}
}

// Query returns every indexed fingerprint within threshold Hamming distance
// of fp, in no particular order. A query for a value equal to an indexed
// entry always yields that entry at distance 0.
func (t *Tree) Query(fp fingerprint.Fingerprint, threshold int) []Match {
	if t.root == nil {
		return nil
	}

	var matches []Match
	stack := []*node{t.root}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		d := cur.value.HammingDistance(fp)
		if d <= threshold {
			matches = append(matches, Match{Distance: d, Fingerprint: cur.value})
		}

		// Triangle inequality: only children in [d-threshold, d+threshold]
		// can contain matches.
		for dist, child := range cur.children {
			if dist >= d-threshold && dist <= d+threshold {
				stack = append(stack, child)
			}
		}
	}
	return matches
}
