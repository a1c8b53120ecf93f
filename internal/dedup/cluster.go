package dedup

import "github.com/kwestin/newsdesk/internal/normalize"

// match reports whether two items are duplicates. The three signals are
// OR'd: any one suffices. Content hashes abstain when either is empty.
func match(a, b *Item, opts Options) bool {
	if a.CanonicalURL != "" && a.CanonicalURL == b.CanonicalURL {
		return true
	}
	if a.NormalizedTitle != "" && b.NormalizedTitle != "" &&
		normalize.TitleEqual(a.Raw.Title, b.Raw.Title, opts.TitleThreshold) {
		return true
	}
	if a.ContentHash != "" && a.ContentHash == b.ContentHash {
		return true
	}
	return false
}

// Cluster partitions items into disjoint duplicate clusters: connected
// components of the pairwise match graph, so matches merge transitively
// (A~B and B~C puts A, B, C together even if A and C share no signal).
// Clusters and their members keep first-seen order.
func Cluster(items []*Item, opts Options) [][]*Item {
	uf := newUnionFind(len(items))
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			if uf.find(i) == uf.find(j) {
				continue
			}
			if match(items[i], items[j], opts) {
				uf.union(i, j)
			}
		}
	}

	byRoot := make(map[int]int) // root -> cluster index, in first-seen order
	var clusters [][]*Item
	for i, it := range items {
		root := uf.find(i)
		ci, ok := byRoot[root]
		if !ok {
			ci = len(clusters)
			byRoot[root] = ci
			clusters = append(clusters, nil)
		}
		clusters[ci] = append(clusters[ci], it)
	}
	return clusters
}
