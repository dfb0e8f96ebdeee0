// Package partition implements the outer driver loop: the initial pass that
// builds a gene tree for every non-simple block, and the split loop that
// repeatedly consumes the highest-support split branch, cuts its block in
// two, and refreshes the affected neighborhood. See spec.md §4.7.
package partition

import (
	"sync"

	"github.com/fantasticair/cactus/internal/cafcore"
	"github.com/fantasticair/cactus/internal/context"
	"github.com/fantasticair/cactus/internal/feature"
	"github.com/fantasticair/cactus/internal/phyloblock"
	"github.com/fantasticair/cactus/internal/pinchgraph"
	"github.com/fantasticair/cactus/internal/recon"
	"github.com/fantasticair/cactus/internal/splitqueue"
	"github.com/fantasticair/cactus/internal/treebuild"
	"github.com/fantasticair/cactus/internal/treescore"
	"github.com/fantasticair/cactus/internal/tree"
	"github.com/sirupsen/logrus"
)

// Driver owns the block-tree map and split-branch priority set for one
// refinement run over a fixed species tree.
type Driver struct {
	Config          *cafcore.Config
	SpeciesTree     *tree.Tree
	SpeciesIndex    *tree.NodeIndex
	SpeciesAncestry *tree.Ancestry
	SplitPoints     map[string]bool
	Strings         feature.ThreadStrings

	Log *logrus.Entry

	blockTrees  map[*pinchgraph.Block]*tree.Tree
	blockScores map[*pinchgraph.Block]float64
	queue       *splitqueue.Queue
}

// NewDriver builds a driver over a fixed species tree and split-point set
// (see internal/species), ready to run an initial pass.
func NewDriver(cfg *cafcore.Config, speciesTree *tree.Tree, splitPoints map[string]bool, strings feature.ThreadStrings, log *logrus.Entry) *Driver {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Driver{
		Config:          cfg,
		SpeciesTree:     speciesTree,
		SpeciesIndex:    tree.NewNodeIndex(speciesTree),
		SpeciesAncestry: tree.NewAncestry(speciesTree),
		SplitPoints:     splitPoints,
		Strings:         strings,
		Log:             log,
		blockTrees:      make(map[*pinchgraph.Block]*tree.Tree),
		blockScores:     make(map[*pinchgraph.Block]float64),
		queue:           splitqueue.New(),
	}
}

// BlockTree returns the live gene tree for block, if any.
func (d *Driver) BlockTree(block *pinchgraph.Block) (*tree.Tree, bool) {
	t, ok := d.blockTrees[block]
	return t, ok
}

// BlockScore returns the score that won block's live gene tree, if any.
func (d *Driver) BlockScore(block *pinchgraph.Block) (float64, bool) {
	s, ok := d.blockScores[block]
	return s, ok
}

// QueueLen returns the number of live split branches, for diagnostics.
func (d *Driver) QueueLen() int { return d.queue.Len() }

type blockResult struct {
	block *pinchgraph.Block
	tree  *tree.Tree
	score float64
	err   error
}

// InitialPass builds a gene tree and enumerates split branches for every
// block of ts not filtered by §4.2/§6's skipSingleCopyBlocks. Per-block tree
// construction is independent (it only reads the pinch graph and writes a
// tree nobody else references yet), so it runs across cpus worker
// goroutines; the block-tree map and the priority set are then populated
// sequentially from the results, since both are shared mutable state (see
// spec.md §5's concurrency model).
func (d *Driver) InitialPass(ts *pinchgraph.ThreadSet, cpus int) error {
	blocks := ts.Blocks()
	if cpus < 1 {
		cpus = 1
	}

	jobs := make(chan *pinchgraph.Block, len(blocks))
	for _, b := range blocks {
		jobs <- b
	}
	close(jobs)

	results := make(chan blockResult, len(blocks))
	var wg sync.WaitGroup
	for w := 0; w < cpus; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for block := range jobs {
				t, s, err := d.buildTree(block)
				results <- blockResult{block: block, tree: t, score: s, err: err}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var firstErr error
	basesInUnrefined, basesInRefined := int64(0), int64(0)
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		if res.tree == nil {
			basesInUnrefined += res.block.Length() * int64(res.block.Degree())
			continue
		}
		basesInRefined += res.block.Length() * int64(res.block.Degree())
		if err := d.commitTree(res.block, res.tree, res.score); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	d.Log.WithFields(logrus.Fields{
		"basesInUnrefinedBlocks": basesInUnrefined,
		"basesInRefinedBlocks":   basesInRefined,
		"splitBranches":          d.queue.Len(),
	}).Info("initial pass complete")
	return firstErr
}

// Run drains the split-branch priority set, cutting one block per
// iteration, until it is empty. The loop body is strictly sequential (spec.md
// §5: "MUST NOT parallelize the loop body").
func (d *Driver) Run(ts *pinchgraph.ThreadSet) error {
	splits := 0
	for {
		sb := d.queue.Last()
		if sb == nil {
			break
		}
		if err := d.processSplitBranch(ts, sb); err != nil {
			return err
		}
		splits++
	}
	d.Log.WithFields(logrus.Fields{
		"splitsPerformed":   splits,
		"finalSplitBranches": d.queue.Len(),
	}).Info("partition loop complete")
	return nil
}

func (d *Driver) processSplitBranch(ts *pinchgraph.ThreadSet, sb *splitqueue.Entry) error {
	block := sb.Block
	t, ok := d.blockTrees[block]
	if !ok {
		return cafcore.NewInvariantError("split branch refers to block with no live tree")
	}

	belowIdx := leafIndicesBelow(sb.Child)
	belowSet := make(map[int]bool, len(belowIdx))
	for _, i := range belowIdx {
		belowSet[i] = true
	}
	var aboveIdx []int
	for _, leaf := range t.Tips() {
		if leaf.Info != nil && !belowSet[leaf.Info.MatrixIndex] {
			aboveIdx = append(aboveIdx, leaf.Info.MatrixIndex)
		}
	}
	if len(belowIdx) == 0 || len(aboveIdx) == 0 {
		return cafcore.NewInvariantError("split branch yields an empty partition side")
	}

	segAnchorBelow := block.SegmentAt(belowIdx[0])
	segAnchorAbove := block.SegmentAt(aboveIdx[0])

	d.queue.RemoveBlock(block)
	t.Delete()
	delete(d.blockTrees, block)
	delete(d.blockScores, block)
	ts.ForgetBlock(block)

	pinchgraph.SplitBlock(block, [][]int{belowIdx, aboveIdx}, d.Config.AllowSingleDegreeBlocks)
	blockBelow := segAnchorBelow.Block()
	blockAbove := segAnchorAbove.Block()

	ctxSet := make(map[*pinchgraph.Block]struct{})
	for _, nb := range []*pinchgraph.Block{blockBelow, blockAbove} {
		if nb == nil {
			continue
		}
		ts.RegisterBlock(nb)
		if err := d.buildAndCommit(nb); err != nil {
			return err
		}
		context.AddContextualBlocks(nb, d.Config.MaxBaseDistance, d.Config.MaxBlockDistance, d.Config.IgnoreUnalignedBases, ctxSet)
	}

	for ctxBlock := range ctxSet {
		if ctxBlock == blockBelow || ctxBlock == blockAbove {
			continue
		}
		if existing, has := d.blockTrees[ctxBlock]; has {
			d.queue.RemoveBlock(ctxBlock)
			existing.Delete()
			delete(d.blockTrees, ctxBlock)
			delete(d.blockScores, ctxBlock)
		}
		if err := d.buildAndCommit(ctxBlock); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) buildAndCommit(block *pinchgraph.Block) error {
	t, s, err := d.buildTree(block)
	if err != nil {
		return err
	}
	return d.commitTree(block, t, s)
}

func (d *Driver) commitTree(block *pinchgraph.Block, t *tree.Tree, score float64) error {
	if t == nil {
		return nil
	}
	d.blockTrees[block] = t
	d.blockScores[block] = score
	return recon.EnumerateSplitBranches(block, t, d.SplitPoints, d.queue)
}

// buildTree builds and scores one gene tree for block, or returns (nil, 0,
// nil) if block is filtered per §4.2/§6. It touches no shared driver state,
// so it is safe to call from InitialPass's worker goroutines.
func (d *Driver) buildTree(block *pinchgraph.Block) (*tree.Tree, float64, error) {
	if phyloblock.HasSimplePhylogeny(block) {
		return nil, 0, nil
	}
	if d.Config.SkipSingleCopyBlocks && phyloblock.IsSingleCopyBlock(block) {
		return nil, 0, nil
	}

	columns, err := feature.GetFeatureColumns(block, d.Strings)
	if err != nil {
		return nil, 0, err
	}
	contextual := feature.GetContextualFeatureBlocks(block, d.Config.MaxBaseDistance, d.Config.MaxBlockDistance, d.Config.IgnoreUnalignedBases, true)

	leafSpeciesName := make(map[int]string, block.Degree())
	var outgroupIndices []int
	for i, seg := range block.Segments() {
		ev := seg.Thread().Event()
		leafSpeciesName[i] = ev.NameString()
		if ev.IsOutgroup() {
			outgroupIndices = append(outgroupIndices, i)
		}
	}

	in := &treebuild.Input{
		Block:           block,
		Columns:         columns,
		ContextualBlock: contextual,
		OutgroupIndices: outgroupIndices,
		LeafSpeciesName: leafSpeciesName,
		SpeciesIndex:    d.SpeciesIndex,
		SpeciesAncestry: d.SpeciesAncestry,
		Config:          d.Config,
	}

	if d.Config.TreeBuildingMethod == cafcore.GuidedNeighborJoining {
		jc, err := treebuild.BuildJoinCostMatrix(d.SpeciesIndex, d.SpeciesAncestry, leafSpeciesName, d.Config.CostPerDupPerBase, d.Config.CostPerLossPerBase, d.Config.MaxBaseDistance)
		if err != nil {
			return nil, 0, err
		}
		in.JoinCost = jc
	}

	return treescore.Pick(in)
}

// leafIndicesBelow returns the matrix indices of every tip in the subtree
// rooted at n (n itself included if it is a tip).
func leafIndicesBelow(n *tree.Node) []int {
	var out []int
	var walk func(*tree.Node)
	walk = func(cur *tree.Node) {
		if cur.Tip() {
			if cur.Info != nil {
				out = append(out, cur.Info.MatrixIndex)
			}
			return
		}
		for _, e := range cur.Edges() {
			if e.Left() == cur {
				walk(e.Right())
			}
		}
	}
	walk(n)
	return out
}
