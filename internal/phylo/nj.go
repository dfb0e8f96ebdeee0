package phylo

import (
	"math"
	"strconv"

	"github.com/fantasticair/cactus/internal/tree"
	"github.com/pkg/errors"
)

// NeighborJoin builds an unrooted binary tree from a symmetric distance
// matrix using the standard Saitou-Nei algorithm. Leaves are labelled by
// their matrix index (as a decimal string) and carry a leaf PhylogenyInfo
// with that index. The returned tree's root is an arbitrary internal node
// with two children; callers needing a specific rooting (outgroup,
// longest-branch, best-reconciliation) reroot it afterwards (see
// RerootOnOutgroup, RerootOnLongestBranch, RerootByMinReconciliationCost).
func NeighborJoin(dist [][]float64) (*tree.Tree, error) {
	n := len(dist)
	if n < 2 {
		return nil, errors.Errorf("neighbor-joining needs at least 2 leaves, got %d", n)
	}

	out := tree.NewTree()

	clusterNode := make(map[int]*tree.Node, n)
	d := make(map[int]map[int]float64, n)
	active := make([]int, n)
	for i := 0; i < n; i++ {
		leaf := out.NewNode()
		leaf.SetName(strconv.Itoa(i))
		leaf.Info = tree.NewLeafInfo(i)
		clusterNode[i] = leaf
		active[i] = i
		d[i] = make(map[int]float64, n)
		for j := 0; j < n; j++ {
			d[i][j] = dist[i][j]
		}
	}
	nextID := n

	for len(active) > 2 {
		m := len(active)
		r := make(map[int]float64, m)
		for _, i := range active {
			sum := 0.0
			for _, j := range active {
				if j != i {
					sum += d[i][j]
				}
			}
			r[i] = sum
		}

		bestI, bestJ := active[0], active[1]
		bestQ := math.Inf(1)
		for ii := 0; ii < m; ii++ {
			for jj := ii + 1; jj < m; jj++ {
				i, j := active[ii], active[jj]
				q := float64(m-2)*d[i][j] - r[i] - r[j]
				if q < bestQ {
					bestQ = q
					bestI, bestJ = i, j
				}
			}
		}

		lenI := 0.5*d[bestI][bestJ] + (r[bestI]-r[bestJ])/float64(2*(m-2))
		lenJ := d[bestI][bestJ] - lenI
		lenI = math.Max(0, lenI)
		lenJ = math.Max(0, lenJ)

		u := nextID
		nextID++
		uNode := out.NewNode()
		uNode.Info = tree.NewInternalInfo()
		eI := out.ConnectNodes(uNode, clusterNode[bestI])
		eI.SetLength(lenI)
		eJ := out.ConnectNodes(uNode, clusterNode[bestJ])
		eJ.SetLength(lenJ)
		clusterNode[u] = uNode

		d[u] = make(map[int]float64, m-1)
		for _, k := range active {
			if k == bestI || k == bestJ {
				continue
			}
			nd := 0.5 * (d[bestI][k] + d[bestJ][k] - d[bestI][bestJ])
			d[u][k] = nd
			d[k][u] = nd
		}

		next := make([]int, 0, m-1)
		for _, k := range active {
			if k != bestI && k != bestJ {
				next = append(next, k)
			}
		}
		next = append(next, u)
		active = next
	}

	root := out.NewNode()
	root.Info = tree.NewInternalInfo()
	e0 := out.ConnectNodes(root, clusterNode[active[0]])
	e1 := out.ConnectNodes(root, clusterNode[active[1]])
	full := d[active[0]][active[1]]
	e0.SetLength(full / 2)
	e1.SetLength(full / 2)
	out.SetRoot(root)
	if err := out.ReorderEdges(root, nil, nil); err != nil {
		return nil, err
	}
	out.UpdateTipIndex()
	if err := out.ClearBitSets(); err != nil {
		return nil, err
	}
	if err := out.UpdateBitSet(); err != nil {
		return nil, err
	}
	return out, nil
}

// GuidedNeighborJoin runs NeighborJoin on a distance matrix augmented with
// a per-leaf-pair join cost, so that pairs implying a duplication or loss
// against the species tree are deterred from joining early. The join cost
// is folded in once, at the leaf level, rather than re-derived for every
// intermediate cluster: internal clusters no longer correspond to a single
// species, so there is no well-defined per-cluster join cost past the
// first merge.
func GuidedNeighborJoin(dist [][]float64, joinCost [][]float64) (*tree.Tree, error) {
	n := len(dist)
	augmented := make([][]float64, n)
	for i := range augmented {
		augmented[i] = make([]float64, n)
		for j := range augmented[i] {
			augmented[i][j] = dist[i][j] + joinCost[i][j]
		}
	}
	return NeighborJoin(augmented)
}
