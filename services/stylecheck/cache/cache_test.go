// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/objstyle/services/stylecheck/lint"
	"github.com/AleutianAI/objstyle/services/stylecheck/rules"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func sampleResult() *lint.Result {
	return &lint.Result{
		Valid:    false,
		FilePath: "Sources/widget.m",
		Warnings: []rules.Diagnostic{
			{File: "Sources/widget.m", Line: 1, Col: 11, Rule: "class-prefix",
				Severity: rules.SeverityWarning, Message: "missing prefix"},
		},
	}
}

func TestCache_GetPut(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	want := sampleResult()
	require.NoError(t, c.Put(ctx, "k1", want))

	got, ok, err := c.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want.FilePath, got.FilePath)
	require.Len(t, got.Warnings, 1)
	assert.Equal(t, "class-prefix", got.Warnings[0].Rule)
	assert.Equal(t, rules.SeverityWarning, got.Warnings[0].Severity)
}

func TestCache_PutNil(t *testing.T) {
	c := openTestCache(t)
	assert.Error(t, c.Put(context.Background(), "k", nil))
}

func TestCache_CanceledContext(t *testing.T) {
	c := openTestCache(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, c.Put(ctx, "k", sampleResult()), context.Canceled)
}

func TestCache_Purge(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "a", sampleResult()))
	require.NoError(t, c.Put(ctx, "b", sampleResult()))

	n, err := c.Len()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, c.Purge())

	n, err = c.Len()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCache_RunnerIntegration(t *testing.T) {
	c := openTestCache(t)
	r := lint.NewRunner(lint.WithCache(c))

	src := "@interface ABCWidget : NSObject\n@end\n"
	first, err := r.LintContent(context.Background(), []byte(src), "w.h")
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := r.LintContent(context.Background(), []byte(src), "w.h")
	require.NoError(t, err)
	assert.True(t, second.FromCache)
}

func TestOpen_MissingPath(t *testing.T) {
	_, err := Open(Config{})
	assert.Error(t, err)
}
