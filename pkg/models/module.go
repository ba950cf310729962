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

package models

// ModuleMetadata describes one version of a module implementation.
// ID is stable across versions, Version is unique per ID.
type ModuleMetadata struct {
	ID           string             `json:"id" yaml:"id"`
	Name         string             `json:"name" yaml:"name"`
	Description  string             `json:"description" yaml:"description"`
	Author       string             `json:"author" yaml:"author"`
	Version      string             `json:"version" yaml:"version"`
	Dependencies []ModuleDependency `json:"dependencies" yaml:"dependencies"`
	Permissions  []string           `json:"permissions" yaml:"permissions"`
	LoadStrategy LoadStrategy       `json:"load_strategy" yaml:"load_strategy"`
	Position     string             `json:"position" yaml:"position"`
	Priority     int                `json:"priority" yaml:"priority"`
	Tags         []string           `json:"tags" yaml:"tags"`
}

// ModuleDependency declares a semver range requirement on another module.
type ModuleDependency struct {
	ModuleID string `json:"module_id" yaml:"module_id"`
	Version  string `json:"version" yaml:"version"`
	Optional bool   `json:"optional" yaml:"optional"`
}

type ModuleFilter struct {
	IDs []string
}
