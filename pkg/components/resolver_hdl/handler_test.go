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

package resolver_hdl

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/Brownster/agent-desktop-module-registry/pkg/components/sem_ver"
	"github.com/Brownster/agent-desktop-module-registry/pkg/models"
)

type registryHandlerMock struct {
	recs map[string][]models.ModulePackageMetadata
}

func (m *registryHandlerMock) GetModuleMetadata(_ context.Context, id, verRng string) (models.ModulePackageMetadata, error) {
	var newest models.ModulePackageMetadata
	found := false
	for _, rec := range m.recs[id] {
		if verRng != "" {
			ok, err := sem_ver.InSemVerRange(verRng, rec.Version)
			if err != nil {
				return models.ModulePackageMetadata{}, models.NewInvalidInputError(err)
			}
			if !ok {
				continue
			}
		}
		if !found || sem_ver.CompareSemVer(rec.Version, newest.Version) > 0 {
			newest = rec
			found = true
		}
	}
	if !found {
		return models.ModulePackageMetadata{}, models.NewNotFoundError(fmt.Errorf("module '%s' not found", id))
	}
	return newest, nil
}

func TestHandler_Resolve(t *testing.T) {
	mock := &registryHandlerMock{recs: map[string][]models.ModulePackageMetadata{
		"good-module": {
			{ID: "good-module", Version: "2.0.0"},
		},
	}}
	h := New(mock)
	a := []models.DependencyResolution{
		{
			ModuleID:   "good-module",
			Constraint: "^2.0.0",
			Status:     models.DependencySatisfied,
			Version:    "2.0.0",
		},
	}
	b, err := h.Resolve(context.Background(), []models.ModuleDependency{
		{ModuleID: "good-module", Version: "^2.0.0"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("expected %v, got %v", a, b)
	}
	if Blocked(b) {
		t.Error("expected activation not to be blocked")
	}
	t.Run("unknown required dependency blocks", func(t *testing.T) {
		res, err := h.Resolve(context.Background(), []models.ModuleDependency{
			{ModuleID: "never-published", Version: "^1.0.0"},
		})
		if err != nil {
			t.Fatal(err)
		}
		if res[0].Status != models.DependencyUnsatisfied {
			t.Errorf("expected unsatisfied, got '%s'", res[0].Status)
		}
		if !Blocked(res) {
			t.Error("expected activation to be blocked")
		}
	})
	t.Run("unknown optional dependency does not block", func(t *testing.T) {
		res, err := h.Resolve(context.Background(), []models.ModuleDependency{
			{ModuleID: "never-published", Version: "^1.0.0", Optional: true},
		})
		if err != nil {
			t.Fatal(err)
		}
		if res[0].Status != models.DependencyUnsatisfied {
			t.Errorf("expected unsatisfied, got '%s'", res[0].Status)
		}
		if Blocked(res) {
			t.Error("expected activation not to be blocked")
		}
	})
	t.Run("version mismatch is unsatisfied", func(t *testing.T) {
		res, err := h.Resolve(context.Background(), []models.ModuleDependency{
			{ModuleID: "good-module", Version: "^3.0.0"},
		})
		if err != nil {
			t.Fatal(err)
		}
		if res[0].Status != models.DependencyUnsatisfied {
			t.Errorf("expected unsatisfied, got '%s'", res[0].Status)
		}
	})
}

func TestHandler_ResolveTransitive(t *testing.T) {
	mock := &registryHandlerMock{recs: map[string][]models.ModulePackageMetadata{
		"dependent-version": {
			{ID: "dependent-version", Version: "1.0.0", Dependencies: []models.ModuleDependency{
				{ModuleID: "good-module", Version: "^2.0.0"},
			}},
		},
		"good-module": {
			{ID: "good-module", Version: "2.0.0", Dependencies: []models.ModuleDependency{
				{ModuleID: "base-module", Version: "^1.0.0"},
			}},
		},
		"base-module": {
			{ID: "base-module", Version: "1.2.0"},
		},
	}}
	h := New(mock)
	res, err := h.ResolveTransitive(context.Background(), "dependent-version", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 2 {
		t.Fatalf("expected 2 resolutions, got %d", len(res))
	}
	if res[0].ModuleID != "good-module" || res[0].Version != "2.0.0" || res[0].Status != models.DependencySatisfied {
		t.Errorf("unexpected resolution: %v", res[0])
	}
	if res[1].ModuleID != "base-module" || res[1].Version != "1.2.0" {
		t.Errorf("unexpected resolution: %v", res[1])
	}
	t.Run("unsatisfied branch terminates", func(t *testing.T) {
		mock.recs["good-module"][0].Dependencies = []models.ModuleDependency{
			{ModuleID: "missing", Version: "^1.0.0"},
		}
		defer func() {
			mock.recs["good-module"][0].Dependencies = []models.ModuleDependency{
				{ModuleID: "base-module", Version: "^1.0.0"},
			}
		}()
		res, err := h.ResolveTransitive(context.Background(), "dependent-version", "")
		if err != nil {
			t.Fatal(err)
		}
		if !Blocked(res) {
			t.Error("expected blocked resolution")
		}
	})
	t.Run("error", func(t *testing.T) {
		t.Run("unknown module", func(t *testing.T) {
			_, err := h.ResolveTransitive(context.Background(), "missing", "")
			var nfe *models.NotFoundError
			if !errors.As(err, &nfe) {
				t.Errorf("expected not found error, got %T", err)
			}
		})
		t.Run("cycle", func(t *testing.T) {
			cyclic := &registryHandlerMock{recs: map[string][]models.ModulePackageMetadata{
				"mod-a": {
					{ID: "mod-a", Version: "1.0.0", Dependencies: []models.ModuleDependency{
						{ModuleID: "mod-b", Version: "^1.0.0"},
					}},
				},
				"mod-b": {
					{ID: "mod-b", Version: "1.0.0", Dependencies: []models.ModuleDependency{
						{ModuleID: "mod-a", Version: "^1.0.0"},
					}},
				},
			}}
			_, err := New(cyclic).ResolveTransitive(context.Background(), "mod-a", "")
			if err == nil {
				t.Fatal("expected error")
			}
			var iie *models.InvalidInputError
			if !errors.As(err, &iie) {
				t.Errorf("expected invalid input error, got %T", err)
			}
		})
	})
}
