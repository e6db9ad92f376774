package calendar

import "sort"

type span struct {
	index int
	start int
	end   int
}

type placement struct {
	index   int
	column  int
	columns int
}

// Overlaps reports whether the half-open intervals [s1, e1) and [s2, e2) intersect.
func Overlaps(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}

// assignColumns runs a sweep line over spans ordered by start. Spans are
// grouped into clusters of transitively overlapping intervals; inside a
// cluster each span takes the lowest column whose previous occupant has
// ended, and every member of the cluster shares the cluster's column count.
func assignColumns(spans []span) []placement {
	ordered := make([]span, len(spans))
	copy(ordered, spans)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].start != ordered[j].start {
			return ordered[i].start < ordered[j].start
		}
		return ordered[i].end > ordered[j].end
	})

	out := make([]placement, 0, len(ordered))
	var (
		columnEnds   []int
		cluster      []placement
		clusterUntil int
	)
	flush := func() {
		for i := range cluster {
			cluster[i].columns = len(columnEnds)
		}
		out = append(out, cluster...)
		cluster = cluster[:0]
		columnEnds = columnEnds[:0]
	}

	for _, s := range ordered {
		if len(cluster) > 0 && s.start >= clusterUntil {
			flush()
		}
		column := -1
		for c, end := range columnEnds {
			if end <= s.start {
				column = c
				break
			}
		}
		if column < 0 {
			column = len(columnEnds)
			columnEnds = append(columnEnds, s.end)
		} else {
			columnEnds[column] = s.end
		}
		if len(cluster) == 0 || s.end > clusterUntil {
			clusterUntil = s.end
		}
		cluster = append(cluster, placement{index: s.index, column: column})
	}
	if len(cluster) > 0 {
		flush()
	}
	return out
}
