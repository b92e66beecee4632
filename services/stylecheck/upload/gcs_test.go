// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package upload

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewClient_MissingBucket(t *testing.T) {
	_, err := NewClient(context.Background(), "", "reports", "")
	if err != ErrNoBucket {
		t.Errorf("NewClient() error = %v, want %v", err, ErrNoBucket)
	}
}

func TestNewClient_NonExistentSAKeyPath(t *testing.T) {
	_, err := NewClient(context.Background(), "test-bucket", "reports", "/nonexistent/key.json")
	if err == nil {
		t.Fatal("NewClient with non-existent SA key should return error")
	}
	if !strings.Contains(err.Error(), "service account key not found") {
		t.Errorf("error should mention missing key, got: %v", err)
	}
}

func TestNewClient_InvalidCredentialsFile(t *testing.T) {
	invalidKeyPath := filepath.Join(t.TempDir(), "invalid_key.json")
	if err := os.WriteFile(invalidKeyPath, []byte("not valid json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewClient(context.Background(), "test-bucket", "reports", invalidKeyPath)
	if err == nil {
		t.Fatal("NewClient with invalid credentials file should return error")
	}
}
