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

package module

import (
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"
)

func Regex(params map[string]any) error {
	str, err := getParamValue[string](params, "string")
	if err != nil {
		return err
	}
	p, err := getParamValue[string](params, "pattern")
	if err != nil {
		return err
	}
	re, err := regexp.Compile(p)
	if err != nil {
		return fmt.Errorf("invalid pattern '%s'", p)
	}
	if !re.MatchString(str) {
		return errors.New("no match")
	}
	return nil
}

func NumberCompare(params map[string]any) error {
	o, err := getParamValue[string](params, "operator")
	if err != nil {
		return err
	}
	av, err := getParamValue[any](params, "a")
	if err != nil {
		return err
	}
	switch a := av.(type) {
	case int64:
		b, err := getParamValue[int64](params, "b")
		if err != nil {
			return err
		}
		ok, err := compareNumber(a, b, o)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%d %s %d", a, o, b)
		}
	case float64:
		b, err := getParamValue[float64](params, "b")
		if err != nil {
			return err
		}
		ok, err := compareNumber(a, b, o)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%f %s %f", a, o, b)
		}
	default:
		return fmt.Errorf("invalid data type: %T != int64 | float64", a)
	}
	return nil
}

func TextLenCompare(params map[string]any) error {
	o, err := getParamValue[string](params, "operator")
	if err != nil {
		return err
	}
	s, err := getParamValue[string](params, "string")
	if err != nil {
		return err
	}
	l, err := getParamValue[int64](params, "length")
	if err != nil {
		return err
	}
	ok, err := compareNumber(int64(utf8.RuneCountInString(s)), l, o)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("invalid length")
	}
	return nil
}

func getParamValue[T any](params map[string]any, pKey string) (T, error) {
	v, ok := params[pKey]
	if !ok {
		return *new(T), fmt.Errorf("parameter '%s' not defined", pKey)
	}
	pVal, ok := v.(T)
	if !ok {
		return *new(T), fmt.Errorf("parameter '%s' invalid data type: %T != %T", pKey, v, *new(T))
	}
	return pVal, nil
}

type number interface {
	int64 | float64
}

func compareNumber[T number](a T, b T, o string) (bool, error) {
	switch o {
	case ">":
		return a > b, nil
	case "<":
		return a < b, nil
	case "=":
		return a == b, nil
	case ">=":
		return a >= b, nil
	case "<=":
		return a <= b, nil
	default:
		return false, fmt.Errorf("invalid operator '%s'", o)
	}
}
