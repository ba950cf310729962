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

package transfer_hdl

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
	"time"

	"github.com/Brownster/agent-desktop-module-registry/pkg/components/fs_util"
	"github.com/Brownster/agent-desktop-module-registry/pkg/models"
	"github.com/Brownster/agent-desktop-module-registry/pkg/models/slog_attr"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/google/uuid"
)

// Handler fetches module source trees from git hosting. A module id is the
// repository path, optionally followed by a sub directory within the
// repository (e.g. "github.com/org/modules/softphone"). Versions are tags,
// prefixed with the sub directory for multi-module repositories.
type Handler struct {
	wrkSpcPath  string
	perm        fs.FileMode
	httpTimeout time.Duration
}

func New(workspacePath string, perm fs.FileMode, httpTimeout time.Duration) (*Handler, error) {
	if !path.IsAbs(workspacePath) {
		return nil, fmt.Errorf("workspace path must be absolute")
	}
	return &Handler{
		wrkSpcPath:  workspacePath,
		perm:        perm,
		httpTimeout: httpTimeout,
	}, nil
}

func (h *Handler) InitWorkspace() error {
	return os.MkdirAll(h.wrkSpcPath, h.perm)
}

// ListVersions returns all version tags available for the module.
func (h *Handler) ListVersions(ctx context.Context, mID string) ([]string, error) {
	dir, err := h.newWorkDir("list_")
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	defer os.RemoveAll(dir)
	repoPath, subPath := parseModuleID(mID)
	ctxWt, cf := context.WithTimeout(ctx, h.httpTimeout)
	defer cf()
	repo, err := git.PlainCloneContext(ctxWt, dir, false, &git.CloneOptions{
		URL:               "https://" + repoPath + ".git",
		NoCheckout:        true,
		RecurseSubmodules: git.NoRecurseSubmodules,
		Tags:              git.AllTags,
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	iter, err := repo.Tags()
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	defer iter.Close()
	var versions []string
	for {
		ref, err := iter.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, models.NewInternalError(err)
		}
		if ver, ok := tagToVersion(ref.Name().Short(), subPath); ok {
			versions = append(versions, ver)
		}
	}
	return versions, nil
}

// Get clones the module source at the given version into a fresh directory
// under the handler workspace and returns its path. The caller removes the
// directory when done.
func (h *Handler) Get(ctx context.Context, mID, ver string) (dir string, err error) {
	cloneDir, err := h.newWorkDir("clone_")
	if err != nil {
		return "", models.NewInternalError(err)
	}
	defer func() {
		if err != nil {
			os.RemoveAll(cloneDir)
		}
	}()
	repoPath, subPath := parseModuleID(mID)
	ctxWt, cf := context.WithTimeout(ctx, h.httpTimeout)
	defer cf()
	_, err = git.PlainCloneContext(ctxWt, cloneDir, false, &git.CloneOptions{
		URL:               "https://" + repoPath + ".git",
		ReferenceName:     plumbing.NewTagReferenceName(path.Join(subPath, ver)),
		SingleBranch:      true,
		Depth:             1,
		RecurseSubmodules: git.NoRecurseSubmodules,
		Tags:              git.NoTags,
	})
	if err != nil {
		return "", models.NewInternalError(err)
	}
	logger.Debug("cloned module source", slog_attr.IDKey, mID, slog_attr.VersionKey, ver, slog_attr.DirNameKey, cloneDir)
	if subPath == "" {
		if err = os.RemoveAll(path.Join(cloneDir, ".git")); err != nil {
			return "", models.NewInternalError(err)
		}
		return cloneDir, nil
	}
	modDir, err := h.newWorkDir("mod_")
	if err != nil {
		return "", models.NewInternalError(err)
	}
	if err = fs_util.CopyAll(os.DirFS(path.Join(cloneDir, subPath)), modDir); err != nil {
		os.RemoveAll(modDir)
		return "", models.NewInternalError(err)
	}
	os.RemoveAll(cloneDir)
	return modDir, nil
}

func (h *Handler) newWorkDir(prefix string) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	dir := path.Join(h.wrkSpcPath, prefix+id.String())
	if err = os.Mkdir(dir, h.perm); err != nil {
		return "", err
	}
	return dir, nil
}

func parseModuleID(mID string) (repo string, pth string) {
	if strings.Count(mID, "/") > 2 {
		i := strings.LastIndex(mID, "/")
		return mID[:i], mID[i+1:]
	}
	return mID, ""
}

// tagToVersion maps a tag name to a module version. Tags of sub directory
// modules carry the sub path as prefix, plain modules use bare tags.
func tagToVersion(tag, subPath string) (string, bool) {
	if subPath != "" {
		if !strings.HasPrefix(tag, subPath+"/") {
			return "", false
		}
		return strings.TrimPrefix(tag, subPath+"/"), true
	}
	if strings.Count(tag, "/") > 0 {
		return "", false
	}
	return tag, true
}
