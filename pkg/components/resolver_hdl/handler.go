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

	"github.com/Brownster/agent-desktop-module-registry/pkg/models"
	"github.com/Brownster/agent-desktop-module-registry/pkg/models/slog_attr"
)

type Handler struct {
	registryHdl RegistryHandler
}

func New(registryHdl RegistryHandler) *Handler {
	return &Handler{registryHdl: registryHdl}
}

// Resolve checks each declared dependency independently against the
// registry. Missing required dependencies yield an unsatisfied result, not
// an error; the caller decides whether activation is blocked.
func (h *Handler) Resolve(ctx context.Context, deps []models.ModuleDependency) ([]models.DependencyResolution, error) {
	var resolutions []models.DependencyResolution
	for _, dep := range deps {
		rec, err := h.registryHdl.GetModuleMetadata(ctx, dep.ModuleID, dep.Version)
		if err != nil {
			var nfe *models.NotFoundError
			if !errors.As(err, &nfe) {
				return nil, err
			}
			if dep.Optional {
				logger.Warn("optional dependency unsatisfied", slog_attr.DependencyKey, dep.ModuleID, slog_attr.VersionRangeKey, dep.Version)
			}
			resolutions = append(resolutions, models.DependencyResolution{
				ModuleID:   dep.ModuleID,
				Constraint: dep.Version,
				Status:     models.DependencyUnsatisfied,
				Optional:   dep.Optional,
			})
			continue
		}
		resolutions = append(resolutions, models.DependencyResolution{
			ModuleID:   dep.ModuleID,
			Constraint: dep.Version,
			Status:     models.DependencySatisfied,
			Version:    rec.Version,
			Optional:   dep.Optional,
		})
	}
	return resolutions, nil
}

// ResolveTransitive walks the dependency graph of the module matched by id
// and verRng. Unsatisfied dependencies terminate their branch; cycles are
// reported as errors.
func (h *Handler) ResolveTransitive(ctx context.Context, id, verRng string) ([]models.DependencyResolution, error) {
	rec, err := h.registryHdl.GetModuleMetadata(ctx, id, verRng)
	if err != nil {
		return nil, err
	}
	var resolutions []models.DependencyResolution
	visited := make(map[string]struct{})
	inProgress := make(map[string]struct{})
	var walk func(rec models.ModulePackageMetadata) error
	walk = func(rec models.ModulePackageMetadata) error {
		if err := ctx.Err(); err != nil {
			return models.NewInternalError(err)
		}
		if _, ok := inProgress[rec.ID]; ok {
			return models.NewInvalidInputError(fmt.Errorf("circular dependency detected: '%s'", rec.ID))
		}
		if _, ok := visited[rec.ID]; ok {
			return nil
		}
		inProgress[rec.ID] = struct{}{}
		defer delete(inProgress, rec.ID)
		depResolutions, err := h.Resolve(ctx, rec.Dependencies)
		if err != nil {
			return err
		}
		visited[rec.ID] = struct{}{}
		for i, res := range depResolutions {
			resolutions = append(resolutions, res)
			if res.Status != models.DependencySatisfied {
				continue
			}
			depRec, err := h.registryHdl.GetModuleMetadata(ctx, res.ModuleID, rec.Dependencies[i].Version)
			if err != nil {
				return err
			}
			if err = walk(depRec); err != nil {
				return err
			}
		}
		return nil
	}
	if err = walk(rec); err != nil {
		return nil, err
	}
	return resolutions, nil
}

// Blocked reports whether any required dependency is unsatisfied.
func Blocked(resolutions []models.DependencyResolution) bool {
	for _, res := range resolutions {
		if res.Status == models.DependencyUnsatisfied && !res.Optional {
			return true
		}
	}
	return false
}
