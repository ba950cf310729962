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

	"github.com/Brownster/agent-desktop-module-registry/pkg/models"
)

type RegistryHandler interface {
	GetModuleMetadata(ctx context.Context, id, verRng string) (models.ModulePackageMetadata, error)
	GetModulePath(ctx context.Context, id, verRng string) (string, error)
	List(ctx context.Context, filter models.ModuleFilter) (map[string]models.ModulePackageMetadata, error)
	Publish(ctx context.Context, modDir string) (models.ModulePackageMetadata, error)
	Remove(ctx context.Context, id, version string) error
}

type TransferHandler interface {
	ListVersions(ctx context.Context, mID string) ([]string, error)
	Get(ctx context.Context, mID, ver string) (string, error)
}

type ResolverHandler interface {
	Resolve(ctx context.Context, deps []models.ModuleDependency) ([]models.DependencyResolution, error)
	ResolveTransitive(ctx context.Context, id, verRng string) ([]models.DependencyResolution, error)
}
