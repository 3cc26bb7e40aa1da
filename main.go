// Package main implements the relcut CLI: it bumps a semantic version,
// propagates it across the configured release files, packages zip artifacts,
// commits and tags, and publishes the release.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/relcut/relcut/internal/config"
	"github.com/relcut/relcut/internal/gitops"
	"github.com/relcut/relcut/internal/pipeline"
	"github.com/relcut/relcut/internal/release"
	"github.com/relcut/relcut/internal/semver"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "relcut [patch|minor|major|<test-version>]",
	Short: "Cut a release: bump, sync, package, tag, publish",
	Long: `relcut computes a new semantic version from a bump argument, rewrites the
version everywhere it appears in the configured release files, packages the
source directory into zip artifacts, commits and tags the result, and
publishes a release with the artifacts attached.

An explicit version with a suffix (e.g. 1.2.3-test) is a dry-run version:
files are synchronized and archives are built, but nothing is committed,
tagged, or published.

Any other argument, including a bare version without a suffix, is treated
the same as an absent one: patch is assumed.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := buildPipeline()
		if err != nil {
			return err
		}
		res, err := p.Run(semver.ParseIntent(argOrEmpty(args)))
		if err != nil {
			return err
		}
		printSummary(res)
		return nil
	},
}

var planCmd = &cobra.Command{
	Use:   "plan [patch|minor|major|<test-version>]",
	Short: "Show what a release run would change, without writing anything",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := buildPipeline()
		if err != nil {
			return err
		}
		res, err := p.Plan(semver.ParseIntent(argOrEmpty(args)))
		if err != nil {
			return err
		}
		if res.OldVersion != "" {
			fmt.Printf("Old Version: %s\n", res.OldVersion)
		}
		fmt.Printf("New Version: %s\n", res.NewVersion)
		fmt.Println("Files that would be updated:")
		for _, s := range res.Synced {
			marker := " "
			if !s.Applied {
				marker = "!"
			}
			fmt.Printf("  %s %s\n", marker, s.Path)
		}
		fmt.Println("Archives that would be built:")
		for _, a := range res.Archives {
			fmt.Printf("    %s\n", a)
		}
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented default " + config.DefaultPath,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.WriteDefault(configPath); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", configPath)
		return nil
	},
}

func argOrEmpty(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return ""
}

func buildPipeline() (*pipeline.Pipeline, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var notifier release.Notifier
	if cfg.Publish.WebURL != "" {
		notifier = &release.Browser{BaseURL: cfg.Publish.WebURL}
	}
	return &pipeline.Pipeline{
		Config:   cfg,
		VCS:      &gitops.Git{},
		Host:     &release.GH{Repo: cfg.Publish.Repo},
		Notifier: notifier,
		Logger:   logger,
	}, nil
}

func printSummary(res pipeline.RunResult) {
	if res.DryRun {
		fmt.Println("Dry run release complete — nothing was committed or published.")
	} else {
		fmt.Println("Release successful!")
	}
	if res.OldVersion != "" {
		fmt.Printf("Old Version: %s\n", res.OldVersion)
	}
	fmt.Printf("New Version: %s\n", res.NewVersion)
	fmt.Printf("Tag:         %s\n", res.Tag)
	fmt.Println("Files updated:")
	for _, s := range res.Synced {
		if s.Applied {
			fmt.Printf("  %s\n", s.Path)
		} else {
			fmt.Printf("  %s (skipped)\n", s.Path)
		}
	}
	fmt.Println("Archives:")
	for _, a := range res.Archives {
		fmt.Printf("  %s\n", a)
	}
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the release configuration file")
	rootCmd.Version = Version
	rootCmd.AddCommand(planCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
