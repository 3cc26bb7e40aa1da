// Package main implements the relcut CLI tool.
//
// The relcut tool is a command-line release orchestrator. It computes a new
// semantic version from a bump argument, rewrites that version consistently
// across a configured set of release files (a JSON manifest, ini-style
// config comments, and documentation download links), packages a source
// directory into zip artifacts, commits and tags the result, pushes it, and
// publishes a release on the remote host with the artifacts attached.
//
// Command Usage:
//
//	relcut [flags] [patch|minor|major|<test-version>]
//	relcut plan [patch|minor|major|<test-version>]
//	relcut init
//
// Flags:
//
//	--config:  Path to the release configuration file (defaults to ".relcut.yaml").
//	--version: Displays the version of the relcut CLI tool and exits.
//
// Examples:
//
//	# Bump the patch version (e.g. 0.0.3 → 0.0.4) and cut a release
//	relcut patch
//
//	# Bump the minor version (e.g. 0.0.3 → 0.1.0)
//	relcut minor
//
//	# Bump the major version (e.g. 0.0.3 → 1.0.0)
//	relcut major
//
//	# Dry run with a literal test version: files and archives are produced,
//	# but nothing is committed, tagged, or published
//	relcut 1.2.3-test
//
//	# Preview what a minor release would touch, without writing anything
//	relcut plan minor
//
//	# Write a commented starter configuration
//	relcut init
//
// The pipeline is ordered and fail-fast: a dirty working tree stops the run
// before any side effect, and a failure at any later step aborts the rest.
// There is deliberately no rollback; if a run fails after files were
// synchronized but before the commit, the working tree is left modified for
// the operator to inspect or revert.
package main
