// Package linter drives files through the lint pipeline.
//
// A file is normalised, rendered by a templater, lexed, parsed and then
// handed to the lint-fix loop. The loop runs rules phase by phase. When
// fixing, each phase repeats until a pass changes nothing or its pass limit
// is hit; only violations found in the very first pass are reported.
//
// Basic usage:
//
//	l := linter.New(cfg, linter.WithLogger(logger))
//	file := l.LintString("SELECT a  \nFROM t\n", "query.sql", true)
//	fixed, changed := file.FixString()
//
// Multi-file runs go through LintPaths, which discovers files, lints them
// sequentially or in parallel and returns results sorted by path.
package linter
