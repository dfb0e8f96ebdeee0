package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/fantasticair/cactus/internal/diag"
	"github.com/fantasticair/cactus/internal/partition"
	"github.com/fantasticair/cactus/internal/snapshot"
	"github.com/fantasticair/cactus/internal/species"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var refineInput string
var refineCPUs int

// refineCmd runs the partition driver end to end over a snapshot file: it
// builds a gene tree per eligible block, enumerates split branches, and
// drains the split-branch queue until no block's gene tree contradicts the
// species tree, per spec.md §4.7.
var refineCmd = &cobra.Command{
	Use:   "refine",
	Short: "Split homology blocks whose gene trees contradict the species tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Validate(); err != nil {
			return err
		}

		f, err := os.Open(refineInput)
		if err != nil {
			return err
		}
		defer f.Close()

		decoded, err := snapshot.Load(f)
		if err != nil {
			return err
		}

		speciesTree, err := species.Build(decoded.EventTree)
		if err != nil {
			return err
		}
		splitPoints := species.SplitPoints(decoded.EventTree, speciesTree)

		log := logrus.WithField("component", "partition")
		driver := partition.NewDriver(config, speciesTree, splitPoints, decoded.Strings, log)

		basesBefore, _ := diag.CountBasesBetweenSingleDegreeBlocks(decoded.ThreadSet)
		log.Infof("bases lost between single-degree blocks before partitioning: %d", basesBefore)

		names := make([]string, 0, len(splitPoints))
		for n := range splitPoints {
			names = append(names, n)
		}
		sort.Strings(names)
		log.Infof("split-point species events: %v", names)

		if err := driver.InitialPass(decoded.ThreadSet, refineCPUs); err != nil {
			return err
		}
		log.Infof("initial split-branch count: %d", driver.QueueLen())

		if err := driver.Run(decoded.ThreadSet); err != nil {
			return err
		}

		basesAfter, _ := diag.CountBasesBetweenSingleDegreeBlocks(decoded.ThreadSet)
		log.Infof("bases lost between single-degree blocks after partitioning: %d", basesAfter)
		log.Infof("final split-branch count: %d", driver.QueueLen())

		if config.DebugFile != "" {
			if err := writeDebugFile(driver, decoded); err != nil {
				return err
			}
		}
		return nil
	},
}

func writeDebugFile(driver *partition.Driver, decoded *snapshot.Decoded) error {
	out, err := os.Create(config.DebugFile)
	if err != nil {
		return err
	}
	defer out.Close()

	for _, block := range decoded.ThreadSet.Blocks() {
		t, ok := driver.BlockTree(block)
		if !ok {
			continue
		}
		score, _ := driver.BlockScore(block)
		line, err := diag.BlockDebugLine(block, t, score)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprint(out, line); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	RootCmd.AddCommand(refineCmd)
	refineCmd.Flags().StringVarP(&refineInput, "input", "i", "", "Snapshot file (JSON) describing the pinch graph and event tree")
	refineCmd.Flags().IntVar(&refineCPUs, "cpus", 1, "Worker goroutines for the initial per-block tree-building pass")
	refineCmd.MarkFlagRequired("input")
}
