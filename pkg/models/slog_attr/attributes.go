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

package slog_attr

import "github.com/SENERGY-Platform/go-service-base/struct-logger/attributes"

const (
	ErrorKey         = attributes.ErrorKey
	IDKey            = "id"
	VersionKey       = "version"
	VersionRangeKey  = "version_range"
	ChecksumKey      = "checksum"
	FilePathKey      = "file_path"
	DirNameKey       = "dir_name"
	DependencyKey    = "dependency"
	ConfigValuesKey  = "config_values"
	ComponentKey     = "component"
	LogRecordTypeKey = attributes.LogRecordTypeKey
)

var Provider = attributes.Provider
