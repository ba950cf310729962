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

// Package module defines the capability surface every pluggable module
// implementation must satisfy. The registry reads only Metadata at publish
// time; the host application consumes the full contract.
package module

import (
	"context"

	"github.com/Brownster/agent-desktop-module-registry/pkg/models"
)

type Module interface {
	// Metadata is read-only and stable for the lifetime of the instance.
	Metadata() models.ModuleMetadata
	// Health must not fail; problems are reported as a status value.
	Health(ctx context.Context) models.HealthStatus
	Metrics(ctx context.Context) (map[string]any, error)
	// ValidateConfig is pure and side effect free. The host calls it before
	// activating a module with user supplied settings.
	ValidateConfig(config map[string]any) models.ValidationResult
}

// ComponentProvider is implemented by modules that contribute a renderable
// UI unit. The host type-asserts for it; it is never required.
type ComponentProvider interface {
	Component() any
}

// Validator checks one named constraint against its parameters. Module
// implementations compose validators in ValidateConfig.
type Validator func(params map[string]any) error
