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
	"io/fs"

	"github.com/Brownster/agent-desktop-module-registry/pkg/models"
)

type ManifestHandler interface {
	GetManifestPath(fSys fs.FS) (string, error)
	GetMetadata(fSys fs.FS, filePath string) (models.ModuleMetadata, error)
	Validate(meta models.ModuleMetadata) error
}
