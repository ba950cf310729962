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

package manifest_hdl

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/Brownster/agent-desktop-module-registry/pkg/components/sem_ver"
	"github.com/Brownster/agent-desktop-module-registry/pkg/models"
	"gopkg.in/yaml.v3"
)

// PrimaryFileName is the canonical entry point name used for stored artifacts.
const PrimaryFileName = "module.yaml"

var manifestFileNames = []string{PrimaryFileName, "module.yml", "manifest.yaml"}

type Handler struct{}

func New() *Handler {
	return &Handler{}
}

// GetManifestPath returns the module entry point within fSys. Candidate names
// are probed in preference order, the first match wins.
func (h *Handler) GetManifestPath(fSys fs.FS) (string, error) {
	for _, name := range manifestFileNames {
		if _, err := fs.Stat(fSys, name); err == nil {
			return name, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", models.NewInternalError(err)
		}
	}
	return "", models.NewNotFoundError(errors.New("module manifest not found"))
}

// GetMetadata decodes the manifest at filePath. The metadata mapping may be
// nested under a 'module' key, a 'metadata' key, or form the document itself;
// the shapes are tried in that order.
func (h *Handler) GetMetadata(fSys fs.FS, filePath string) (models.ModuleMetadata, error) {
	b, err := fs.ReadFile(fSys, filePath)
	if err != nil {
		return models.ModuleMetadata{}, models.NewInternalError(err)
	}
	var doc manifestDoc
	if err = yaml.Unmarshal(b, &doc); err != nil {
		return models.ModuleMetadata{}, models.NewInvalidInputError(err)
	}
	var meta models.ModuleMetadata
	switch {
	case doc.Module != nil:
		meta = *doc.Module
	case doc.Metadata != nil:
		meta = *doc.Metadata
	default:
		if err = yaml.Unmarshal(b, &meta); err != nil {
			return models.ModuleMetadata{}, models.NewInvalidInputError(err)
		}
	}
	if meta.LoadStrategy == "" {
		meta.LoadStrategy = models.LoadStrategyEager
	}
	return meta, nil
}

// Validate checks the metadata invariants required for publishing. All
// violations are collected and reported together.
func (h *Handler) Validate(meta models.ModuleMetadata) error {
	var errs []error
	if meta.ID == "" {
		errs = append(errs, errors.New("module id required"))
	}
	if !sem_ver.IsValidSemVer(meta.Version) {
		errs = append(errs, fmt.Errorf("version '%s' invalid", meta.Version))
	}
	if _, ok := models.LoadStrategyMap[meta.LoadStrategy]; !ok {
		errs = append(errs, fmt.Errorf("unknown load strategy '%s'", meta.LoadStrategy))
	}
	depIDs := make(map[string]struct{})
	for _, dep := range meta.Dependencies {
		if dep.ModuleID == "" {
			errs = append(errs, errors.New("dependency module id required"))
			continue
		}
		if dep.ModuleID == meta.ID {
			errs = append(errs, fmt.Errorf("module '%s' depends on itself", meta.ID))
		}
		if _, ok := depIDs[dep.ModuleID]; ok {
			errs = append(errs, fmt.Errorf("duplicate dependency '%s'", dep.ModuleID))
		}
		depIDs[dep.ModuleID] = struct{}{}
		if err := sem_ver.ValidateSemVerRange(dep.Version); err != nil {
			errs = append(errs, fmt.Errorf("dependency '%s': %s", dep.ModuleID, err))
		}
	}
	if len(errs) > 0 {
		return models.NewInvalidInputError(models.NewMultiError(errs))
	}
	return nil
}
