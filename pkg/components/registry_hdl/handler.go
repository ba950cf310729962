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
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/Brownster/agent-desktop-module-registry/pkg/components/fs_util"
	"github.com/Brownster/agent-desktop-module-registry/pkg/components/manifest_hdl"
	"github.com/Brownster/agent-desktop-module-registry/pkg/components/sem_ver"
	"github.com/Brownster/agent-desktop-module-registry/pkg/models"
	"github.com/Brownster/agent-desktop-module-registry/pkg/models/slog_attr"
)

type Handler struct {
	manifestHdl ManifestHandler
	indexHdl    *indexHandler
	modulesRoot string
	delimiter   string
	perm        fs.FileMode
	mu          sync.RWMutex
}

func New(manifestHdl ManifestHandler, indexPath, modulesRootPath, delimiter string, perm fs.FileMode) (*Handler, error) {
	if !path.IsAbs(indexPath) {
		return nil, fmt.Errorf("index path must be absolute")
	}
	if !path.IsAbs(modulesRootPath) {
		return nil, fmt.Errorf("modules root path must be absolute")
	}
	return &Handler{
		manifestHdl: manifestHdl,
		indexHdl:    newIndexHandler(indexPath),
		modulesRoot: modulesRootPath,
		delimiter:   delimiter,
		perm:        perm,
	}, nil
}

func (h *Handler) Init() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := os.MkdirAll(h.modulesRoot, h.perm); err != nil {
		return err
	}
	return h.indexHdl.Load()
}

// GetModuleMetadata returns the highest-versioned record for id that
// satisfies verRng. An empty verRng matches any version.
func (h *Handler) GetModuleMetadata(_ context.Context, id, verRng string) (models.ModulePackageMetadata, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.getNewest(id, verRng)
}

// GetModulePath derives the artifact path for the resolved record by the
// storage layout convention rather than reading the stored file path.
func (h *Handler) GetModulePath(_ context.Context, id, verRng string) (string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	rec, err := h.getNewest(id, verRng)
	if err != nil {
		return "", err
	}
	return h.artifactPath(id, rec.Version), nil
}

// List returns the newest record per module id matching the filter.
func (h *Handler) List(ctx context.Context, filter models.ModuleFilter) (map[string]models.ModulePackageMetadata, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := filter.IDs
	if len(ids) == 0 {
		for id := range h.indexHdl.index {
			ids = append(ids, id)
		}
		sort.Strings(ids)
	}
	recs := make(map[string]models.ModulePackageMetadata)
	for _, id := range ids {
		rec, err := h.getNewest(id, "")
		if err != nil {
			continue
		}
		recs[id] = rec
		if ctx.Err() != nil {
			return nil, models.NewInternalError(ctx.Err())
		}
	}
	return recs, nil
}

// Publish turns the module directory at modDir into a stored, checksummed,
// indexed artifact. Publishing an already indexed (id, version) pair is a
// no-op for the index regardless of content changes.
func (h *Handler) Publish(_ context.Context, modDir string) (models.ModulePackageMetadata, error) {
	fSys := os.DirFS(modDir)
	entryPath, err := h.manifestHdl.GetManifestPath(fSys)
	if err != nil {
		return models.ModulePackageMetadata{}, err
	}
	meta, err := h.manifestHdl.GetMetadata(fSys, entryPath)
	if err != nil {
		return models.ModulePackageMetadata{}, err
	}
	if err = h.manifestHdl.Validate(meta); err != nil {
		return models.ModulePackageMetadata{}, err
	}
	checksum, err := fs_util.Sha256File(fSys, entryPath)
	if err != nil {
		return models.ModulePackageMetadata{}, models.NewInternalError(err)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if rec, ok := h.indexHdl.Get(meta.ID, meta.Version); ok {
		if rec.Checksum != checksum {
			logger.Warn("version already published with different content, keeping stored artifact", slog_attr.IDKey, meta.ID, slog_attr.VersionKey, meta.Version, slog_attr.ChecksumKey, checksum)
		}
		return rec, nil
	}
	dstDir := path.Join(h.modulesRoot, idToDir(meta.ID, h.delimiter), meta.Version)
	if err = os.MkdirAll(dstDir, h.perm); err != nil {
		return models.ModulePackageMetadata{}, models.NewInternalError(err)
	}
	dstPath := path.Join(dstDir, manifest_hdl.PrimaryFileName)
	if err = fs_util.CopyFile(fSys, dstPath, entryPath); err != nil {
		return models.ModulePackageMetadata{}, models.NewInternalError(err)
	}
	rec := models.ModulePackageMetadata{
		ID:           meta.ID,
		Version:      meta.Version,
		Checksum:     checksum,
		Dependencies: meta.Dependencies,
		FilePath:     dstPath,
	}
	h.indexHdl.Add(rec)
	if err = h.indexHdl.Save(); err != nil {
		return models.ModulePackageMetadata{}, models.NewInternalError(err)
	}
	logger.Info("module published", slog_attr.IDKey, rec.ID, slog_attr.VersionKey, rec.Version, slog_attr.ChecksumKey, rec.Checksum)
	return rec, nil
}

// Remove deletes the record for the exact (id, version) pair and persists
// the index. Removing an unknown version is a no-op.
func (h *Handler) Remove(_ context.Context, id, version string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.indexHdl.Remove(id, version) {
		return nil
	}
	if err := h.indexHdl.Save(); err != nil {
		return models.NewInternalError(err)
	}
	artifactDir := path.Join(h.modulesRoot, idToDir(id, h.delimiter), version)
	if err := os.RemoveAll(artifactDir); err != nil {
		logger.Error("removing artifact dir failed", slog_attr.IDKey, id, slog_attr.VersionKey, version, slog_attr.ErrorKey, err)
	}
	if _, ok := h.indexHdl.index[id]; !ok {
		if err := os.Remove(path.Join(h.modulesRoot, idToDir(id, h.delimiter))); err != nil && !os.IsNotExist(err) {
			logger.Error("removing module dir failed", slog_attr.IDKey, id, slog_attr.ErrorKey, err)
		}
	}
	logger.Info("module removed", slog_attr.IDKey, id, slog_attr.VersionKey, version)
	return nil
}

// getNewest expects the caller to hold at least a read lock.
func (h *Handler) getNewest(id, verRng string) (models.ModulePackageMetadata, error) {
	recs, ok := h.indexHdl.index[id]
	if !ok {
		return models.ModulePackageMetadata{}, models.NewNotFoundError(fmt.Errorf("module '%s' not found", id))
	}
	var newest models.ModulePackageMetadata
	found := false
	for _, rec := range recs {
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
		return models.ModulePackageMetadata{}, models.NewNotFoundError(fmt.Errorf("no version of '%s' satisfies '%s'", id, verRng))
	}
	return newest, nil
}

func (h *Handler) artifactPath(id, version string) string {
	return path.Join(h.modulesRoot, idToDir(id, h.delimiter), version, manifest_hdl.PrimaryFileName)
}

func idToDir(id string, delimiter string) string {
	return strings.Replace(id, "/", delimiter, -1)
}
