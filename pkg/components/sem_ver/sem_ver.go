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

package sem_ver

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

const (
	Equal        = "="
	Greater      = ">"
	Less         = "<"
	GreaterEqual = ">="
	LessEqual    = "<="
	Caret        = "^"
	Tilde        = "~"
)

var OperatorMap = map[string]struct{}{
	Equal:        {},
	Greater:      {},
	Less:         {},
	GreaterEqual: {},
	LessEqual:    {},
	Caret:        {},
	Tilde:        {},
}

type constraint struct {
	opr string
	ver string
}

func IsValidSemVer(s string) bool {
	return semver.IsValid(normalize(s))
}

func CompareSemVer(a, b string) int {
	return semver.Compare(normalize(a), normalize(b))
}

func IsValidOperator(s string) bool {
	_, ok := OperatorMap[s]
	return ok
}

func ValidateSemVerRange(s string) error {
	_, err := semVerRangeParse(s)
	return err
}

// InSemVerRange reports if v satisfies the range expression r. Supported
// forms: exact version, operator prefixes (=, >, >=, <, <=), caret and tilde
// shorthands, and two-part ranges joined by ';' (e.g. ">=1.0.0;<2.0.0").
func InSemVerRange(r string, v string) (bool, error) {
	constraints, err := semVerRangeParse(r)
	if err != nil {
		return false, err
	}
	if !semver.IsValid(normalize(v)) {
		return false, fmt.Errorf("invalid version format '%s'", v)
	}
	for _, c := range constraints {
		if !semVerRangeCheck(c.opr, c.ver, normalize(v)) {
			return false, nil
		}
	}
	return true, nil
}

// normalize maps bare "1.2.3" to the "v1.2.3" form x/mod/semver expects.
func normalize(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}

func semVerRangeCheck(o string, w, v string) bool {
	switch semver.Compare(v, w) {
	case -1:
		if o == LessEqual || o == Less {
			return true
		}
	case 0:
		if o == Equal || o == LessEqual || o == GreaterEqual {
			return true
		}
	case 1:
		if o == GreaterEqual || o == Greater {
			return true
		}
	}
	return false
}

func semVerRangeParse(s string) ([]constraint, error) {
	partsStr := strings.Split(s, ";")
	if len(partsStr) > 2 {
		return nil, fmt.Errorf("invalid format '%s'", s)
	}
	var constraints []constraint
	for _, p := range partsStr {
		cs, err := semVerRangeParsePart(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		constraints = append(constraints, cs...)
	}
	if len(partsStr) == 2 {
		if constraints[0].opr == Less || constraints[0].opr == LessEqual || constraints[0].opr == Equal {
			return nil, fmt.Errorf("invalid operator order '%s' - '%s'", constraints[0].opr, constraints[len(constraints)-1].opr)
		}
		last := constraints[len(constraints)-1]
		if last.opr == Greater || last.opr == GreaterEqual || last.opr == Equal {
			return nil, fmt.Errorf("invalid operator order '%s' - '%s'", constraints[0].opr, last.opr)
		}
		if semver.Compare(constraints[0].ver, last.ver) > -1 {
			return nil, fmt.Errorf("invalid version order '%s' - '%s'", constraints[0].ver, last.ver)
		}
	}
	return constraints, nil
}

func semVerRangeParsePart(s string) ([]constraint, error) {
	if s == "" {
		return nil, fmt.Errorf("invalid format '%s'", s)
	}
	opr := ""
	for _, o := range []string{GreaterEqual, LessEqual, Greater, Less, Equal, Caret, Tilde} {
		if strings.HasPrefix(s, o) {
			opr = o
			break
		}
	}
	ver := normalize(strings.TrimSpace(s[len(opr):]))
	if !semver.IsValid(ver) {
		return nil, fmt.Errorf("invalid version format '%s'", s[len(opr):])
	}
	switch opr {
	case "":
		return []constraint{{opr: Equal, ver: ver}}, nil
	case Caret, Tilde:
		upper, err := upperBound(opr, ver)
		if err != nil {
			return nil, err
		}
		if upper == "" {
			return []constraint{{opr: Equal, ver: ver}}, nil
		}
		return []constraint{{opr: GreaterEqual, ver: ver}, {opr: Less, ver: upper}}, nil
	default:
		return []constraint{{opr: opr, ver: ver}}, nil
	}
}

// upperBound returns the exclusive upper version for caret and tilde
// shorthands, or "" when the shorthand pins an exact version (^0.0.x).
func upperBound(opr, ver string) (string, error) {
	major, minor, _, err := versionParts(ver)
	if err != nil {
		return "", err
	}
	if opr == Tilde {
		return fmt.Sprintf("v%d.%d.0", major, minor+1), nil
	}
	if major > 0 {
		return fmt.Sprintf("v%d.0.0", major+1), nil
	}
	if minor > 0 {
		return fmt.Sprintf("v0.%d.0", minor+1), nil
	}
	return "", nil
}

func versionParts(ver string) (major, minor, patch int, err error) {
	c := semver.Canonical(ver)
	if c == "" {
		return 0, 0, 0, fmt.Errorf("invalid version format '%s'", ver)
	}
	if i := strings.IndexAny(c, "-+"); i > -1 {
		c = c[:i]
	}
	parts := strings.Split(strings.TrimPrefix(c, "v"), ".")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid version format '%s'", ver)
	}
	if major, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, 0, err
	}
	if minor, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, 0, err
	}
	if patch, err = strconv.Atoi(parts[2]); err != nil {
		return 0, 0, 0, err
	}
	return major, minor, patch, nil
}
