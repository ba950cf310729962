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

// ModulePackageMetadata is a published artifact record. Records are created
// by the publishing pipeline, never updated in place and removed only by an
// explicit (ID, Version) removal.
type ModulePackageMetadata struct {
	ID           string             `json:"id"`
	Version      string             `json:"version"`
	Checksum     string             `json:"checksum"`
	Dependencies []ModuleDependency `json:"dependencies"`
	FilePath     string             `json:"file_path"`
	Signature    string             `json:"signature,omitempty"`
}

// DependencyResolution is the outcome of checking one declared dependency
// against the registry.
type DependencyResolution struct {
	ModuleID   string           `json:"module_id"`
	Constraint string           `json:"constraint"`
	Status     DependencyStatus `json:"status"`
	Version    string           `json:"version,omitempty"`
	Optional   bool             `json:"optional"`
}
