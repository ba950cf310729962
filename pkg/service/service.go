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

package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/Brownster/agent-desktop-module-registry/pkg/components/resolver_hdl"
	"github.com/Brownster/agent-desktop-module-registry/pkg/components/sem_ver"
	"github.com/Brownster/agent-desktop-module-registry/pkg/models"
	"github.com/Brownster/agent-desktop-module-registry/pkg/models/slog_attr"
)

// Service ties the registry, transfer and resolver handlers together and
// exposes the operations the command line entrypoint works with.
type Service struct {
	registryHdl RegistryHandler
	transferHdl TransferHandler
	resolverHdl ResolverHandler
}

func New(registryHdl RegistryHandler, transferHdl TransferHandler, resolverHdl ResolverHandler) *Service {
	return &Service{
		registryHdl: registryHdl,
		transferHdl: transferHdl,
		resolverHdl: resolverHdl,
	}
}

// PublishModule publishes the module located in a local directory.
func (s *Service) PublishModule(ctx context.Context, dirPath string) (models.ModulePackageMetadata, error) {
	return s.registryHdl.Publish(ctx, dirPath)
}

// PublishModuleFromRemote fetches a module from its source repository and
// publishes it. If ver is empty the newest tagged version is selected.
func (s *Service) PublishModuleFromRemote(ctx context.Context, mID, ver string) (models.ModulePackageMetadata, error) {
	var err error
	if ver == "" {
		ver, err = s.getRemoteVersion(ctx, mID)
		if err != nil {
			return models.ModulePackageMetadata{}, err
		}
	} else if !sem_ver.IsValidSemVer(ver) {
		return models.ModulePackageMetadata{}, models.NewInvalidInputError(fmt.Errorf("invalid version format '%s'", ver))
	}
	dirPath, err := s.transferHdl.Get(ctx, mID, ver)
	if err != nil {
		return models.ModulePackageMetadata{}, err
	}
	defer func() {
		if err := os.RemoveAll(dirPath); err != nil {
			logger.Error("removing staged module failed", slog_attr.ErrorKey, err, slog_attr.FilePathKey, dirPath)
		}
	}()
	return s.registryHdl.Publish(ctx, dirPath)
}

// Modules returns the newest published record per module, optionally filtered.
func (s *Service) Modules(ctx context.Context, filter models.ModuleFilter) (map[string]models.ModulePackageMetadata, error) {
	return s.registryHdl.List(ctx, filter)
}

// Module returns the best published record for id within verRng. A miss is
// not an error, it is reported via ok.
func (s *Service) Module(ctx context.Context, id, verRng string) (models.ModulePackageMetadata, bool, error) {
	rec, err := s.registryHdl.GetModuleMetadata(ctx, id, verRng)
	if err != nil {
		var nfe *models.NotFoundError
		if errors.As(err, &nfe) {
			return models.ModulePackageMetadata{}, false, nil
		}
		return models.ModulePackageMetadata{}, false, err
	}
	return rec, true, nil
}

// ModulePath returns the artifact path for the best record within verRng.
func (s *Service) ModulePath(ctx context.Context, id, verRng string) (string, bool, error) {
	p, err := s.registryHdl.GetModulePath(ctx, id, verRng)
	if err != nil {
		var nfe *models.NotFoundError
		if errors.As(err, &nfe) {
			return "", false, nil
		}
		return "", false, err
	}
	return p, true, nil
}

func (s *Service) RemoveModule(ctx context.Context, id, version string) error {
	return s.registryHdl.Remove(ctx, id, version)
}

// ListRemoteVersions lists the semver tags available at the module source.
func (s *Service) ListRemoteVersions(ctx context.Context, mID string) ([]string, error) {
	versions, err := s.transferHdl.ListVersions(ctx, mID)
	if err != nil {
		return nil, err
	}
	sort.Slice(versions, func(i, j int) bool {
		return sem_ver.CompareSemVer(versions[i], versions[j]) < 0
	})
	return versions, nil
}

// ResolveDependencies resolves the full dependency closure of the best
// published record for id within verRng.
func (s *Service) ResolveDependencies(ctx context.Context, id, verRng string) ([]models.DependencyResolution, error) {
	return s.resolverHdl.ResolveTransitive(ctx, id, verRng)
}

// CheckActivation resolves the direct dependencies of the best published
// record for id within verRng and reports whether activation is blocked.
// Activation is blocked if any required dependency is unsatisfied.
func (s *Service) CheckActivation(ctx context.Context, id, verRng string) (bool, []models.DependencyResolution, error) {
	rec, err := s.registryHdl.GetModuleMetadata(ctx, id, verRng)
	if err != nil {
		return false, nil, err
	}
	resolutions, err := s.resolverHdl.Resolve(ctx, rec.Dependencies)
	if err != nil {
		return false, nil, err
	}
	return resolver_hdl.Blocked(resolutions), resolutions, nil
}

func (s *Service) getRemoteVersion(ctx context.Context, mID string) (string, error) {
	versions, err := s.transferHdl.ListVersions(ctx, mID)
	if err != nil {
		return "", err
	}
	var newest string
	for _, ver := range versions {
		if !sem_ver.IsValidSemVer(ver) {
			logger.Warn("skipping tag with invalid version format", slog_attr.IDKey, mID, slog_attr.VersionKey, ver)
			continue
		}
		if newest == "" || sem_ver.CompareSemVer(ver, newest) > 0 {
			newest = ver
		}
	}
	if newest == "" {
		return "", models.NewNotFoundError(fmt.Errorf("no versions available for module '%s'", mID))
	}
	return newest, nil
}
