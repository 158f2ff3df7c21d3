package layout

import (
	"math"
	"slices"
)

// defaultMainScale is the target-area multiplier applied to a leaf flagged
// Main when the container does not set one explicitly.
const defaultMainScale = 2.0

// overflowWeight heavily penalizes candidate packings whose unscaled total
// height exceeds the cell, so an overflowing packing is only ever chosen
// when nothing fits outright.
const overflowWeight = 1000.0

// flowLeaf caches the per-leaf quantities the optimizer needs: the
// width/height ratio and the relative target-area weight.
type flowLeaf struct {
	leaf   *Leaf
	ratio  float64 // width / height
	weight float64
}

// flowRow is one justified row of the chosen packing, referencing the leaf
// sequence by index range rather than by sub-slice.
type flowRow struct {
	start, end int // leaves [start, end)
	height     float64
}

// flow packs the leaf children of an auto container into justified rows.
//
// The search is two-level: an O(n²) dynamic program finds the best
// order-preserving row partition for a fixed target row height, and a
// sweep over a finite set of candidate targets (derived from the panel
// count, cell, gap, and flow mode) approximates a global search over the
// coupled row-count/row-height space. The winning packing is scaled
// uniformly so it never overflows the cell.
func (r *resolver) flow(n *Container, cell rect, path []int) error {
	inner, err := innerRect(n, cell, path)
	if err != nil {
		return err
	}

	leaves, err := r.flowLeaves(n, path)
	if err != nil {
		return err
	}

	mode := n.Flow
	if mode == "" {
		mode = FlowBest
	}
	uniformity := n.Uniformity

	targetAreas := targetAreas(leaves, inner)

	bestScore := math.Inf(1)
	var bestRows []flowRow
	for _, target := range candidateTargets(mode, len(leaves), inner, n.Gap) {
		rows, cost, ok := packRows(leaves, targetAreas, inner.w, n.Gap, target, uniformity)
		if !ok {
			continue
		}
		score := cost + overflowPenalty(rows, n.Gap, inner.h)
		if score < bestScore {
			bestScore = score
			bestRows = rows
		}
	}
	if bestRows == nil {
		return geomErrf(path, "auto container has no feasible row packing")
	}

	r.emitRows(n, leaves, bestRows, inner)
	return nil
}

// flowLeaves gathers the container's children, which must all be leaves,
// and computes their aspect ratios and area weights.
func (r *resolver) flowLeaves(n *Container, path []int) ([]flowLeaf, error) {
	mainScale := n.MainScale
	if mainScale <= 0 {
		mainScale = defaultMainScale
	}

	leaves := make([]flowLeaf, len(n.Children))
	for i, child := range n.Children {
		leaf, ok := child.(*Leaf)
		if !ok {
			return nil, geomErrf(append(path, i), "auto container children must be leaves, got %T", child)
		}
		srcW, srcH, err := r.m.Measure(leaf.Source)
		if err != nil {
			return nil, geomErrf(append(path, i), "leaf '%s': %v", leaf.ID, err)
		}
		if srcW <= 0 || srcH <= 0 {
			return nil, geomErrf(append(path, i), "leaf '%s' has non-positive source size %gx%g", leaf.ID, srcW, srcH)
		}

		weight := 1.0
		switch {
		case leaf.Weight > 0:
			weight = leaf.Weight
		case leaf.Main:
			weight = mainScale
		}
		leaves[i] = flowLeaf{leaf: leaf, ratio: srcW / srcH, weight: weight}
	}
	return leaves, nil
}

// targetAreas distributes the inner cell area among the leaves in
// proportion to their weights.
func targetAreas(leaves []flowLeaf, inner rect) []float64 {
	var totalWeight float64
	for _, l := range leaves {
		totalWeight += l.weight
	}
	cellArea := inner.w * inner.h
	areas := make([]float64, len(leaves))
	for i, l := range leaves {
		areas[i] = cellArea * l.weight / totalWeight
	}
	return areas
}

// candidateTargets returns the set of target row heights tried for a flow
// mode. Each candidate is the exact row height of an even r-row split of
// the inner cell, plus slightly narrower and taller variants so the DP can
// settle between row counts. One-column mode draws its row counts from the
// top of the 1..n range (many narrow rows), two-column mode from the
// bottom (fewer, taller rows), and best unions both sets.
func candidateTargets(mode FlowMode, n int, inner rect, gap float64) []float64 {
	var rowCounts []int
	switch mode {
	case FlowOneColumn:
		for r := (n + 1) / 2; r <= n; r++ {
			rowCounts = append(rowCounts, r)
		}
	case FlowTwoColumn:
		for r := 1; r <= (n+1)/2; r++ {
			rowCounts = append(rowCounts, r)
		}
	default: // FlowBest
		for r := 1; r <= n; r++ {
			rowCounts = append(rowCounts, r)
		}
	}

	var targets []float64
	for _, rc := range rowCounts {
		base := (inner.h - gap*float64(rc-1)) / float64(rc)
		if base <= 0 {
			continue
		}
		for _, s := range [...]float64{0.85, 1.0, 1.15} {
			targets = append(targets, base*s)
		}
	}
	return targets
}

// packRows runs the dynamic program for one target height. dp[i] is the
// minimum cost of packing the first i leaves; prev[i] records the start of
// the final row in that packing for reconstruction. Rows with non-positive
// computed height are infeasible transitions.
func packRows(leaves []flowLeaf, targetAreas []float64, innerW, gap, target, uniformity float64) ([]flowRow, float64, bool) {
	n := len(leaves)
	dp := make([]float64, n+1)
	prev := make([]int, n+1)
	for i := 1; i <= n; i++ {
		dp[i] = math.Inf(1)
		prev[i] = -1
	}

	for end := 1; end <= n; end++ {
		var ratioSum float64
		for start := end - 1; start >= 0; start-- {
			ratioSum += leaves[start].ratio
			if math.IsInf(dp[start], 1) {
				continue
			}
			count := end - start
			available := innerW - gap*float64(count-1)
			if available <= 0 {
				continue
			}
			height := available / ratioSum
			if height <= 0 {
				continue
			}

			cost := dp[start] + rowCost(leaves, targetAreas, start, end, height, target, uniformity)
			if cost < dp[end] {
				dp[end] = cost
				prev[end] = start
			}
		}
	}
	if prev[n] < 0 {
		return nil, 0, false
	}

	// Reconstruct the partition by walking predecessors back from n.
	var rows []flowRow
	for end := n; end > 0; end = prev[end] {
		start := prev[end]
		var ratioSum float64
		for i := start; i < end; i++ {
			ratioSum += leaves[i].ratio
		}
		available := innerW - gap*float64(end-start-1)
		rows = append(rows, flowRow{start: start, end: end, height: available / ratioSum})
	}
	slices.Reverse(rows)
	return rows, dp[n], true
}

// rowCost scores one candidate row: squared relative deviation of the row
// height from the target, plus the uniformity term penalizing panel areas
// that diverge from their target areas.
func rowCost(leaves []flowLeaf, targetAreas []float64, start, end int, height, target, uniformity float64) float64 {
	d := (height - target) / target
	cost := d * d

	if uniformity > 0 {
		var balance float64
		for i := start; i < end; i++ {
			area := height * height * leaves[i].ratio
			lg := math.Log(area / targetAreas[i])
			balance += lg * lg
		}
		cost += uniformity * balance / float64(end-start)
	}
	return cost
}

// overflowPenalty charges candidates whose unscaled packed height exceeds
// the cell height, proportionally to the overflow.
func overflowPenalty(rows []flowRow, gap, innerH float64) float64 {
	total := packedHeight(rows, gap)
	if total <= innerH {
		return 0
	}
	return overflowWeight * (total - innerH) / innerH
}

func packedHeight(rows []flowRow, gap float64) float64 {
	total := gap * float64(len(rows)-1)
	for _, row := range rows {
		total += row.height
	}
	return total
}

// emitRows lays the chosen rows out left-to-right, top-to-bottom in the
// original leaf order. A single fit scale is applied to every row height,
// panel width, and gap so the packing never overflows the cell while all
// proportions are preserved.
func (r *resolver) emitRows(n *Container, leaves []flowLeaf, rows []flowRow, inner rect) {
	scale := min(1, inner.h/packedHeight(rows, n.Gap))
	gap := n.Gap * scale

	y := inner.y
	for _, row := range rows {
		height := row.height * scale
		x := inner.x
		for i := row.start; i < row.end; i++ {
			leaf := leaves[i].leaf
			width := height * leaves[i].ratio
			r.panels = append(r.panels, Panel{
				ID:         leaf.ID,
				Source:     leaf.Source,
				X:          x,
				Y:          y,
				Width:      width,
				Height:     height,
				Fit:        leaf.Fit,
				Align:      leaf.Align,
				Label:      leaf.Label,
				LabelStyle: leaf.LabelStyle,
			})
			x += width + gap
		}
		y += height + gap
	}
}
