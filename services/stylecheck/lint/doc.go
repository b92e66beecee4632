// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package lint runs the style rules over Objective-C files.
//
// The runner drives the full pipeline for each file:
//
//	Source → Tokenize → Extract Declarations → Rules → Policy → Result
//
// Each stage is error-tolerant: malformed declaration sites are skipped
// with a note and the remaining rules still run. A file only fails to
// lint when it cannot be read or exceeds the size limit.
//
// # Severity Mapping
//
// Rules carry a default severity which the configured policy can
// override:
//
//	| Severity | Meaning            | Exit behavior     |
//	|----------|--------------------|-------------------|
//	| error    | Fails the run      | Non-zero exit     |
//	| warning  | Fix soon           | Zero exit         |
//	| info     | Mechanical cleanup | Zero exit         |
//
// # Usage
//
//	runner := lint.NewRunner(
//	    lint.WithSettings(settings),
//	    lint.WithWorkers(8),
//	)
//
//	// Lint a directory tree
//	results, err := runner.LintDirectory(ctx, "Sources/")
//
//	// Lint content directly
//	result, err := runner.LintContent(ctx, content, "ABCWidget.m")
//
// # Thread Safety
//
// All exported types are safe for concurrent use.
package lint
