// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"github.com/staranto/ferryctl/internal/attrs"
)

// DefaultDelim separates filter expressions in a --filter value.
const DefaultDelim = ","

// filterRegex splits an expression into key, operator and target. Operators
// are one of = ^ ~ < > @ or /, optionally prefixed with '!'.
var filterRegex = regexp.MustCompile(`^(.*?)(!?[=^~<>@/])(.*)$`)

// Filter is a single parsed --filter expression.
type Filter struct {
	Key     string
	Negate  bool
	Operand string
	Target  string

	re *regexp.Regexp
}

// BuildFilters parses spec. An empty delim means DefaultDelim. Malformed
// expressions and bad regexes are errors, nothing is silently dropped.
func BuildFilters(spec, delim string) ([]Filter, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}
	if delim == "" {
		delim = DefaultDelim
	}

	var filters []Filter
	for _, expr := range strings.Split(spec, delim) {
		parts := filterRegex.FindStringSubmatch(expr)
		if parts == nil || strings.TrimSpace(parts[1]) == "" {
			return nil, fmt.Errorf("invalid filter: %q", expr)
		}

		f := Filter{
			Key:     strings.TrimSpace(parts[1]),
			Negate:  strings.HasPrefix(parts[2], "!"),
			Operand: strings.TrimPrefix(parts[2], "!"),
			Target:  parts[3],
		}
		if f.Operand == "/" {
			re, err := regexp.Compile(f.Target)
			if err != nil {
				return nil, fmt.Errorf("invalid regex in filter %q: %w", expr, err)
			}
			f.re = re
		}
		filters = append(filters, f)
	}
	return filters, nil
}

// Match reports whether the JSON document doc passes every filter. Filter
// keys name an attr output key, falling back to a gjson path into doc. A
// missing value fails every filter except a negated one.
func Match(doc gjson.Result, list attrs.AttrList, filters []Filter) bool {
	for _, f := range filters {
		value := doc.Get(resolve(f.Key, list))
		if !value.Exists() || value.Type == gjson.Null {
			if f.Negate {
				continue
			}
			return false
		}
		if !check(value, f) {
			return false
		}
	}
	return true
}

func resolve(key string, list attrs.AttrList) string {
	for _, a := range list {
		if a.OutputKey == key {
			return a.Key
		}
	}
	return key
}

func check(value gjson.Result, f Filter) bool {
	switch value.Type {
	case gjson.Number:
		if tgt, err := strconv.ParseFloat(strings.TrimSpace(f.Target), 64); err == nil {
			return checkNumber(value.Num, tgt, f)
		}
		return checkString(value.Raw, f)
	case gjson.True, gjson.False:
		return checkString(value.String(), f)
	case gjson.String:
		return checkString(value.Str, f)
	}

	if f.Operand == "@" {
		return checkContains(value, f)
	}
	return checkString(value.Raw, f)
}

// checkContains tests membership for arrays and key presence for objects.
func checkContains(value gjson.Result, f Filter) bool {
	found := false
	if value.IsArray() {
		value.ForEach(func(_, item gjson.Result) bool {
			if item.String() == f.Target {
				found = true
				return false
			}
			return true
		})
	} else {
		found = value.Get(gjson.Escape(f.Target)).Exists()
	}
	return found != f.Negate
}

func checkNumber(value, tgt float64, f Filter) bool {
	switch f.Operand {
	case "=":
		return (value == tgt) != f.Negate
	case ">":
		return (value > tgt) != f.Negate
	case "<":
		return (value < tgt) != f.Negate
	}
	return checkString(strconv.FormatFloat(value, 'f', -1, 64), f)
}

func checkString(value string, f Filter) bool {
	var ok bool
	switch f.Operand {
	case "=":
		ok = value == f.Target
	case "~":
		ok = strings.EqualFold(value, f.Target)
	case "^":
		ok = strings.HasPrefix(value, f.Target)
	case ">":
		ok = value > f.Target
	case "<":
		ok = value < f.Target
	case "@":
		ok = strings.Contains(value, f.Target)
	case "/":
		ok = f.re != nil && f.re.MatchString(value)
	default:
		log.Errorf("unsupported filtering operand: %s", f.Operand)
		return false
	}
	return ok != f.Negate
}
