// Copyright © 2016 NAME HERE <EMAIL ADDRESS>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"os"

	"github.com/fantasticair/cactus/internal/cafcore"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// config is bound directly to RootCmd's persistent flags, following the
// teacher's gotree flag-variable convention (cmd/draw.go: one package-level
// var per flag, wired up in init()).
var config = cafcore.DefaultConfig()

var verbose bool

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "cactus-refine",
	Short: "Refine homology blocks against a species tree",
	Long: `cactus-refine builds per-block gene trees, reconciles them against a
species tree, and splits blocks whose gene trees contradict the species tree,
until no more splits are warranted.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen once
// to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	RootCmd.PersistentFlags().Int64Var(&config.MaxBaseDistance, "max-base-distance", config.MaxBaseDistance, "Bound on contextual-neighborhood radius, in bases")
	RootCmd.PersistentFlags().Int64Var(&config.MaxBlockDistance, "max-block-distance", config.MaxBlockDistance, "Bound on contextual-neighborhood radius, in blocks")
	RootCmd.PersistentFlags().IntVar(&config.NumTrees, "num-trees", config.NumTrees, "Canonical + bootstrap trees per block")
	RootCmd.PersistentFlags().Var(&config.TreeBuildingMethod, "tree-building-method", "neighborJoining | guidedNeighborJoining")
	RootCmd.PersistentFlags().Var(&config.RootingMethod, "rooting-method", "outgroupBranch | longestBranch | bestRecon")
	RootCmd.PersistentFlags().Var(&config.ScoringMethod, "scoring-method", "reconCost | nucleotideLikelihood | reconLikelihood | combinedLikelihood")
	RootCmd.PersistentFlags().Float64Var(&config.BreakPointScalingFactor, "breakpoint-scaling-factor", config.BreakPointScalingFactor, "Weight of breakpoint matrix relative to substitution matrix")
	RootCmd.PersistentFlags().BoolVar(&config.SkipSingleCopyBlocks, "skip-single-copy-blocks", config.SkipSingleCopyBlocks, "Do not refine single-copy blocks")
	RootCmd.PersistentFlags().BoolVar(&config.AllowSingleDegreeBlocks, "allow-single-degree-blocks", config.AllowSingleDegreeBlocks, "Keep singleton blocks produced by a split instead of discarding them")
	RootCmd.PersistentFlags().Float64Var(&config.CostPerDupPerBase, "cost-per-dup-per-base", config.CostPerDupPerBase, "Per-base duplication cost for the guided join-cost matrix")
	RootCmd.PersistentFlags().Float64Var(&config.CostPerLossPerBase, "cost-per-loss-per-base", config.CostPerLossPerBase, "Per-base loss cost for the guided join-cost matrix")
	RootCmd.PersistentFlags().BoolVar(&config.IgnoreUnalignedBases, "ignore-unaligned-bases", config.IgnoreUnalignedBases, "Do not count unaligned gaps toward the contextual-neighborhood radius")
	RootCmd.PersistentFlags().Float64Var(&config.FudgeFactor, "fudge-factor", config.FudgeFactor, "Split fraction applied to a zero-length sibling branch")
	RootCmd.PersistentFlags().Float64Var(&config.FudgeFloor, "fudge-floor", config.FudgeFloor, "Minimum branch length after fudging a zero/zero pair")
	RootCmd.PersistentFlags().Float64Var(&config.ReconciliationDupRate, "reconciliation-dup-rate", config.ReconciliationDupRate, "Duplication-rate parameter for reconLikelihood scoring")
	RootCmd.PersistentFlags().StringVar(&config.DebugFile, "debug-file", config.DebugFile, "Optional sink for per-block debug records")
}
