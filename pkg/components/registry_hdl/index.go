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
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"github.com/Brownster/agent-desktop-module-registry/pkg/models"
	"github.com/Brownster/agent-desktop-module-registry/pkg/models/slog_attr"
)

// indexHandler owns the persisted registry index: a single JSON object
// keyed by module id, each value the list of published version records.
type indexHandler struct {
	path  string
	index map[string][]models.ModulePackageMetadata
}

func newIndexHandler(path string) *indexHandler {
	return &indexHandler{
		path:  path,
		index: make(map[string][]models.ModulePackageMetadata),
	}
}

// Load reads the index file. A missing file yields an empty index, an
// unparsable file yields an empty index with a warning. Loading never fails
// on corrupt content, only on read errors.
func (h *indexHandler) Load() error {
	h.index = make(map[string][]models.ModulePackageMetadata)
	b, err := os.ReadFile(h.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if err = json.Unmarshal(b, &h.index); err != nil {
		logger.Warn("parsing index file failed, starting with empty index", slog_attr.FilePathKey, h.path, slog_attr.ErrorKey, err)
		h.index = make(map[string][]models.ModulePackageMetadata)
	}
	return nil
}

// Save rewrites the whole index file via a temporary file and rename.
func (h *indexHandler) Save() error {
	tmpPath := h.path + "_tmp"
	file, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	je := json.NewEncoder(file)
	je.SetIndent("", "  ")
	if err = je.Encode(h.index); err != nil {
		file.Close()
		return err
	}
	if err = file.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, h.path)
}

func (h *indexHandler) Get(id, version string) (models.ModulePackageMetadata, bool) {
	for _, rec := range h.index[id] {
		if rec.Version == version {
			return rec, true
		}
	}
	return models.ModulePackageMetadata{}, false
}

func (h *indexHandler) Add(rec models.ModulePackageMetadata) {
	h.index[rec.ID] = append(h.index[rec.ID], rec)
}

// Remove deletes the record for the exact (id, version) pair and drops the
// id key when no versions remain. It reports whether a record was removed.
func (h *indexHandler) Remove(id, version string) bool {
	recs, ok := h.index[id]
	if !ok {
		return false
	}
	for i, rec := range recs {
		if rec.Version == version {
			recs = append(recs[:i], recs[i+1:]...)
			if len(recs) == 0 {
				delete(h.index, id)
			} else {
				h.index[id] = recs
			}
			return true
		}
	}
	return false
}
