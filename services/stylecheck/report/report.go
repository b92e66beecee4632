// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package report assembles lint results into presentable reports.
//
// A report carries the per-file results plus aggregate counts, and can be
// rendered as JSON, plain text, or markdown.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/AleutianAI/objstyle/services/stylecheck/lint"
)

// =============================================================================
// REPORT
// =============================================================================

// Report bundles the results of a lint run.
//
// Thread Safety: Immutable after creation.
type Report struct {
	// ID uniquely identifies this run.
	ID string `json:"id"`

	// GeneratedAt is when the report was assembled.
	GeneratedAt time.Time `json:"generated_at"`

	// Tool names the producing tool.
	Tool string `json:"tool"`

	// Version is the tool version.
	Version string `json:"version"`

	// Results are the per-file lint results, in lint order.
	Results []*lint.Result `json:"results"`

	// Summary aggregates the results.
	Summary Summary `json:"summary"`
}

// Summary aggregates counts across all results.
type Summary struct {
	// Files is the number of files linted.
	Files int `json:"files"`

	// FilesWithIssues is the number of files with at least one finding.
	FilesWithIssues int `json:"files_with_issues"`

	// Errors is the total error count.
	Errors int `json:"errors"`

	// Warnings is the total warning count.
	Warnings int `json:"warnings"`

	// Infos is the total info count.
	Infos int `json:"infos"`

	// AutoFixable is the number of findings with a mechanical fix.
	AutoFixable int `json:"auto_fixable"`

	// Duration is the summed lint time across files.
	Duration time.Duration `json:"duration"`
}

// Total returns the total finding count.
func (s Summary) Total() int {
	return s.Errors + s.Warnings + s.Infos
}

// New assembles a report from lint results.
func New(version string, results []*lint.Result) *Report {
	r := &Report{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Tool:        "objstyle",
		Version:     version,
		Results:     results,
	}
	for _, res := range results {
		r.Summary.Files++
		if res.HasIssues() {
			r.Summary.FilesWithIssues++
		}
		r.Summary.Errors += len(res.Errors)
		r.Summary.Warnings += len(res.Warnings)
		r.Summary.Infos += len(res.Infos)
		r.Summary.AutoFixable += res.AutoFixableCount()
		r.Summary.Duration += res.Duration
	}
	return r
}

// Failed reports whether any file produced an error finding.
func (r *Report) Failed() bool {
	return r.Summary.Errors > 0
}

// HasWarnings reports whether any file produced a warning finding.
func (r *Report) HasWarnings() bool {
	return r.Summary.Warnings > 0
}
