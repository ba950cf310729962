/*
 * Copyright 2025 Brownster
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *    http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package fs_util

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path"
	"testing"
	"testing/fstest"
)

func TestCopyFile(t *testing.T) {
	fSys := fstest.MapFS{
		"a.txt": &fstest.MapFile{Data: []byte("test content"), Mode: 0644},
	}
	dir := t.TempDir()
	dst := path.Join(dir, "a.txt")
	if err := CopyFile(fSys, dst, "a.txt"); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "test content" {
		t.Errorf("expected 'test content', got '%s'", b)
	}
	t.Run("error", func(t *testing.T) {
		if err := CopyFile(fSys, dst, "missing.txt"); err == nil {
			t.Error("expected error")
		}
	})
}

func TestCopyAll(t *testing.T) {
	fSys := fstest.MapFS{
		"a.txt":     &fstest.MapFile{Data: []byte("a"), Mode: 0644},
		"sub":       &fstest.MapFile{Mode: os.ModeDir | 0755},
		"sub/b.txt": &fstest.MapFile{Data: []byte("b"), Mode: 0644},
	}
	dir := t.TempDir()
	if err := CopyAll(fSys, dir); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path.Join(dir, "sub", "b.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "b" {
		t.Errorf("expected 'b', got '%s'", b)
	}
}

func TestSha256File(t *testing.T) {
	data := []byte("test content")
	fSys := fstest.MapFS{
		"a.txt": &fstest.MapFile{Data: data, Mode: 0644},
	}
	sum, err := Sha256File(fSys, "a.txt")
	if err != nil {
		t.Fatal(err)
	}
	h := sha256.Sum256(data)
	if sum != hex.EncodeToString(h[:]) {
		t.Errorf("expected %s, got %s", hex.EncodeToString(h[:]), sum)
	}
	t.Run("error", func(t *testing.T) {
		if _, err := Sha256File(fSys, "missing.txt"); err == nil {
			t.Error("expected error")
		}
	})
}
