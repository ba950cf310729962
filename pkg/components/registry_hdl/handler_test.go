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

package registry_hdl

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path"
	"reflect"
	"testing"

	"github.com/Brownster/agent-desktop-module-registry/pkg/components/manifest_hdl"
	"github.com/Brownster/agent-desktop-module-registry/pkg/models"
	"gopkg.in/yaml.v3"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	dir := t.TempDir()
	h, err := New(manifest_hdl.New(), path.Join(dir, "index.json"), path.Join(dir, "modules"), "_", 0775)
	if err != nil {
		t.Fatal(err)
	}
	if err = h.Init(); err != nil {
		t.Fatal(err)
	}
	return h
}

func writeModuleDir(t *testing.T, meta models.ModuleMetadata) string {
	t.Helper()
	dir := t.TempDir()
	b, err := yaml.Marshal(map[string]models.ModuleMetadata{"module": meta})
	if err != nil {
		t.Fatal(err)
	}
	if err = os.WriteFile(path.Join(dir, "module.yaml"), b, 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestHandler_Publish(t *testing.T) {
	h := newTestHandler(t)
	modDir := writeModuleDir(t, models.ModuleMetadata{ID: "good-module", Version: "2.0.0"})
	rec, err := h.Publish(context.Background(), modDir)
	if err != nil {
		t.Fatal(err)
	}
	if rec.ID != "good-module" || rec.Version != "2.0.0" {
		t.Errorf("unexpected record: %v", rec)
	}
	b, err := os.ReadFile(rec.FilePath)
	if err != nil {
		t.Fatal(err)
	}
	sum := sha256.Sum256(b)
	if rec.Checksum != hex.EncodeToString(sum[:]) {
		t.Errorf("checksum %s does not match stored artifact", rec.Checksum)
	}
	t.Run("idempotent republish", func(t *testing.T) {
		rec2, err := h.Publish(context.Background(), modDir)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(rec, rec2) {
			t.Errorf("expected %v, got %v", rec, rec2)
		}
		if len(h.indexHdl.index["good-module"]) != 1 {
			t.Errorf("expected 1 record, got %d", len(h.indexHdl.index["good-module"]))
		}
	})
	t.Run("republish with modified content keeps original checksum", func(t *testing.T) {
		modDir2 := writeModuleDir(t, models.ModuleMetadata{ID: "good-module", Version: "2.0.0", Description: "changed"})
		rec2, err := h.Publish(context.Background(), modDir2)
		if err != nil {
			t.Fatal(err)
		}
		if rec2.Checksum != rec.Checksum {
			t.Errorf("expected checksum %s, got %s", rec.Checksum, rec2.Checksum)
		}
		if len(h.indexHdl.index["good-module"]) != 1 {
			t.Errorf("expected 1 record, got %d", len(h.indexHdl.index["good-module"]))
		}
	})
	t.Run("error", func(t *testing.T) {
		t.Run("no manifest", func(t *testing.T) {
			if _, err := h.Publish(context.Background(), t.TempDir()); err == nil {
				t.Error("expected error")
			}
		})
		t.Run("invalid metadata", func(t *testing.T) {
			modDir := writeModuleDir(t, models.ModuleMetadata{ID: "bad-module", Version: "abc"})
			_, err := h.Publish(context.Background(), modDir)
			if err == nil {
				t.Fatal("expected error")
			}
			var iie *models.InvalidInputError
			if !errors.As(err, &iie) {
				t.Errorf("expected invalid input error, got %T", err)
			}
			if _, ok := h.indexHdl.index["bad-module"]; ok {
				t.Error("failed publish must not mutate the index")
			}
		})
	})
}

func TestHandler_GetModuleMetadata(t *testing.T) {
	h := newTestHandler(t)
	for _, v := range []string{"1.0.0", "1.5.0", "2.0.0", "2.0.1-rc.1"} {
		if _, err := h.Publish(context.Background(), writeModuleDir(t, models.ModuleMetadata{ID: "good-module", Version: v})); err != nil {
			t.Fatal(err)
		}
	}
	rec, err := h.GetModuleMetadata(context.Background(), "good-module", "")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Version != "2.0.1-rc.1" {
		t.Errorf("expected highest version '2.0.1-rc.1', got '%s'", rec.Version)
	}
	t.Run("range", func(t *testing.T) {
		rec, err := h.GetModuleMetadata(context.Background(), "good-module", "^1.0.0")
		if err != nil {
			t.Fatal(err)
		}
		if rec.Version != "1.5.0" {
			t.Errorf("expected '1.5.0', got '%s'", rec.Version)
		}
	})
	t.Run("exact range", func(t *testing.T) {
		rec, err := h.GetModuleMetadata(context.Background(), "good-module", "=2.0.0")
		if err != nil {
			t.Fatal(err)
		}
		if rec.Version != "2.0.0" {
			t.Errorf("expected '2.0.0', got '%s'", rec.Version)
		}
	})
	t.Run("error", func(t *testing.T) {
		t.Run("unknown id", func(t *testing.T) {
			_, err := h.GetModuleMetadata(context.Background(), "missing", "")
			var nfe *models.NotFoundError
			if !errors.As(err, &nfe) {
				t.Errorf("expected not found error, got %T", err)
			}
		})
		t.Run("no satisfying version", func(t *testing.T) {
			_, err := h.GetModuleMetadata(context.Background(), "good-module", "^3.0.0")
			var nfe *models.NotFoundError
			if !errors.As(err, &nfe) {
				t.Errorf("expected not found error, got %T", err)
			}
		})
		t.Run("invalid range", func(t *testing.T) {
			_, err := h.GetModuleMetadata(context.Background(), "good-module", "??")
			var iie *models.InvalidInputError
			if !errors.As(err, &iie) {
				t.Errorf("expected invalid input error, got %T", err)
			}
		})
	})
}

func TestHandler_GetModulePath(t *testing.T) {
	h := newTestHandler(t)
	rec, err := h.Publish(context.Background(), writeModuleDir(t, models.ModuleMetadata{ID: "good-module", Version: "2.0.0"}))
	if err != nil {
		t.Fatal(err)
	}
	p, err := h.GetModulePath(context.Background(), "good-module", "")
	if err != nil {
		t.Fatal(err)
	}
	a := path.Join(h.modulesRoot, "good-module", "2.0.0", "module.yaml")
	if p != a {
		t.Errorf("expected '%s', got '%s'", a, p)
	}
	if p != rec.FilePath {
		t.Errorf("derived path '%s' does not match stored file path '%s'", p, rec.FilePath)
	}
	t.Run("error", func(t *testing.T) {
		_, err := h.GetModulePath(context.Background(), "missing", "")
		var nfe *models.NotFoundError
		if !errors.As(err, &nfe) {
			t.Errorf("expected not found error, got %T", err)
		}
	})
}

func TestHandler_Remove(t *testing.T) {
	h := newTestHandler(t)
	for _, v := range []string{"1.0.0", "2.0.0"} {
		if _, err := h.Publish(context.Background(), writeModuleDir(t, models.ModuleMetadata{ID: "good-module", Version: v})); err != nil {
			t.Fatal(err)
		}
	}
	if err := h.Remove(context.Background(), "good-module", "2.0.0"); err != nil {
		t.Fatal(err)
	}
	_, err := h.GetModuleMetadata(context.Background(), "good-module", "=2.0.0")
	var nfe *models.NotFoundError
	if !errors.As(err, &nfe) {
		t.Errorf("expected not found error, got %T", err)
	}
	if _, err = h.GetModuleMetadata(context.Background(), "good-module", ""); err != nil {
		t.Error("remaining version must still resolve")
	}
	t.Run("unknown version is a no-op", func(t *testing.T) {
		if err := h.Remove(context.Background(), "good-module", "9.9.9"); err != nil {
			t.Error(err)
		}
	})
	t.Run("last version removes id", func(t *testing.T) {
		if err := h.Remove(context.Background(), "good-module", "1.0.0"); err != nil {
			t.Fatal(err)
		}
		if _, ok := h.indexHdl.index["good-module"]; ok {
			t.Error("expected id key to be removed")
		}
	})
}

func TestHandler_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	indexPath := path.Join(dir, "index.json")
	modulesRoot := path.Join(dir, "modules")
	h, err := New(manifest_hdl.New(), indexPath, modulesRoot, "_", 0775)
	if err != nil {
		t.Fatal(err)
	}
	if err = h.Init(); err != nil {
		t.Fatal(err)
	}
	rec, err := h.Publish(context.Background(), writeModuleDir(t, models.ModuleMetadata{
		ID:      "good-module",
		Version: "2.0.0",
		Dependencies: []models.ModuleDependency{
			{ModuleID: "base-module", Version: "^1.0.0"},
		},
	}))
	if err != nil {
		t.Fatal(err)
	}
	h2, err := New(manifest_hdl.New(), indexPath, modulesRoot, "_", 0775)
	if err != nil {
		t.Fatal(err)
	}
	if err = h2.Init(); err != nil {
		t.Fatal(err)
	}
	rec2, err := h2.GetModuleMetadata(context.Background(), "good-module", "=2.0.0")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(rec, rec2) {
		t.Errorf("expected %v, got %v", rec, rec2)
	}
}

func TestHandler_InitCorruptIndex(t *testing.T) {
	dir := t.TempDir()
	indexPath := path.Join(dir, "index.json")
	if err := os.WriteFile(indexPath, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	h, err := New(manifest_hdl.New(), indexPath, path.Join(dir, "modules"), "_", 0775)
	if err != nil {
		t.Fatal(err)
	}
	if err = h.Init(); err != nil {
		t.Fatal(err)
	}
	recs, err := h.List(context.Background(), models.ModuleFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 0 {
		t.Errorf("expected empty registry, got %d records", len(recs))
	}
	if _, err = h.Publish(context.Background(), writeModuleDir(t, models.ModuleMetadata{ID: "good-module", Version: "1.0.0"})); err != nil {
		t.Errorf("publish after corrupt index failed: %s", err)
	}
}

func TestHandler_List(t *testing.T) {
	h := newTestHandler(t)
	for _, m := range []models.ModuleMetadata{
		{ID: "mod-a", Version: "1.0.0"},
		{ID: "mod-a", Version: "2.0.0"},
		{ID: "mod-b", Version: "0.1.0"},
	} {
		if _, err := h.Publish(context.Background(), writeModuleDir(t, m)); err != nil {
			t.Fatal(err)
		}
	}
	recs, err := h.List(context.Background(), models.ModuleFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Errorf("expected 2 records, got %d", len(recs))
	}
	if recs["mod-a"].Version != "2.0.0" {
		t.Errorf("expected newest version '2.0.0', got '%s'", recs["mod-a"].Version)
	}
	t.Run("filter", func(t *testing.T) {
		recs, err := h.List(context.Background(), models.ModuleFilter{IDs: []string{"mod-b"}})
		if err != nil {
			t.Fatal(err)
		}
		if len(recs) != 1 {
			t.Errorf("expected 1 record, got %d", len(recs))
		}
	})
}

func TestIDToDir(t *testing.T) {
	if d := idToDir("github.com/org/mod", "_"); d != "github.com_org_mod" {
		t.Errorf("unexpected dir name '%s'", d)
	}
}
