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
	"reflect"
	"strconv"
	"time"

	sb_config_hdl "github.com/SENERGY-Platform/go-service-base/config-hdl"
)

var envTypeParser = []sb_config_hdl.EnvTypeParser{
	func() (reflect.Type, sb_config_hdl.EnvParser) { return reflect.TypeOf(time.Duration(0)), durationParser },
	func() (reflect.Type, sb_config_hdl.EnvParser) { return reflect.TypeOf(fs.FileMode(0)), fileModeParser },
}

func durationParser(_ reflect.Type, val string, _ []string, _ map[string]string) (interface{}, error) {
	return time.ParseDuration(val)
}

func fileModeParser(_ reflect.Type, val string, _ []string, _ map[string]string) (interface{}, error) {
	m, err := strconv.ParseUint(val, 8, 32)
	if err != nil {
		return nil, err
	}
	return fs.FileMode(m), nil
}
