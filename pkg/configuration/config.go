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

package configuration

import (
	"io/fs"
	"time"

	sb_config_hdl "github.com/SENERGY-Platform/go-service-base/config-hdl"
	struct_logger "github.com/SENERGY-Platform/go-service-base/struct-logger"
)

type RegistryConfig struct {
	IndexPath       string      `json:"index_path" env_var:"REGISTRY_INDEX_PATH"`
	ModulesRootPath string      `json:"modules_root_path" env_var:"REGISTRY_MODULES_ROOT_PATH"`
	Delimiter       string      `json:"delimiter" env_var:"REGISTRY_DELIMITER"`
	FilePerm        fs.FileMode `json:"file_perm" env_var:"REGISTRY_FILE_PERM"`
}

type TransferConfig struct {
	WorkDirPath string        `json:"work_dir_path" env_var:"TRANSFER_WORK_DIR_PATH"`
	Timeout     time.Duration `json:"timeout" env_var:"TRANSFER_TIMEOUT"`
}

type Config struct {
	Registry RegistryConfig       `json:"registry"`
	Transfer TransferConfig       `json:"transfer"`
	Logger   struct_logger.Config `json:"logger"`
}

func New(path string) (*Config, error) {
	cfg := Config{
		Registry: RegistryConfig{
			IndexPath:       "/opt/module-registry/data/index.json",
			ModulesRootPath: "/opt/module-registry/modules",
			Delimiter:       "_",
			FilePerm:        0775,
		},
		Transfer: TransferConfig{
			WorkDirPath: "/opt/module-registry/transfer",
			Timeout:     time.Minute,
		},
		Logger: struct_logger.Config{
			Handler:    struct_logger.TextHandlerSelector,
			Level:      struct_logger.LevelInfo,
			TimeFormat: time.RFC3339Nano,
			TimeUtc:    true,
			AddMeta:    false,
		},
	}
	err := sb_config_hdl.Load(&cfg, nil, envTypeParser, nil, path)
	return &cfg, err
}
