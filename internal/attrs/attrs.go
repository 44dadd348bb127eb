// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package attrs

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tfctl/awsutil/internal/log"
)

// Attr is one column of describe output: where to find the value in the
// JSON document, what to call it and how to reshape it.
type Attr struct {
	// gjson path into the document, e.g. "Placement.AvailabilityZone".
	Key string `yaml:"key" json:"Key"`
	// Column title for text output and key name for json/yaml output.
	OutputKey string `yaml:"outputKey" json:"OutputKey"`
	// Transform letters: t local time, T time ago, u upper, l lower, and an
	// optional integer length limit.
	TransformSpec string `yaml:"transformSpec" json:"TransformSpec"`
}

// Transform applies the attribute's transform spec to a value.
func (a Attr) Transform(value interface{}) interface{} {
	result, ok := value.(string)
	if !ok || a.TransformSpec == "" {
		return value
	}

	if strings.ContainsAny(a.TransformSpec, "tT") {
		if ts, err := time.Parse(time.RFC3339, result); err == nil {
			if strings.Contains(a.TransformSpec, "T") {
				result = humanize.Time(ts)
			} else {
				result = ts.Local().Format("2006-01-02T15:04:05MST")
			}
			log.Tracef("time transformed: key=%s result=%s", a.Key, result)
		}
	}

	// The last case letter wins so "ul" lowers.
	lastL := strings.LastIndexAny(a.TransformSpec, "l")
	lastU := strings.LastIndexAny(a.TransformSpec, "u")
	switch {
	case lastL > lastU:
		result = strings.ToLower(result)
	case lastU > lastL:
		result = strings.ToUpper(result)
	}

	if n, ok := lengthOf(a.TransformSpec); ok && n > 0 && len(result) > n {
		result = result[:n]
	}

	return result
}

func lengthOf(spec string) (int, bool) {
	digits := strings.TrimFunc(spec, func(r rune) bool { return r < '0' || r > '9' })
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	return n, err == nil
}

// AttrList is a collection of Attr used to shape output fields.
type AttrList []Attr

// Set parses a comma-separated list of key[:outputKey[:transform]] specs and
// merges them into the list. A spec naming an existing key or output key
// replaces that entry, so users can retitle defaults.
func (a *AttrList) Set(value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	for _, spec := range strings.Split(value, ",") {
		fields := strings.Split(spec, ":")
		if len(fields) > 3 {
			return fmt.Errorf("invalid attr spec %q: want key[:name[:transform]]", spec)
		}

		key := strings.TrimPrefix(strings.TrimSpace(fields[0]), ".")
		if key == "" {
			return fmt.Errorf("invalid attr spec %q: empty key", spec)
		}

		attr := Attr{Key: key}
		if len(fields) > 1 && strings.TrimSpace(fields[1]) != "" {
			attr.OutputKey = strings.TrimSpace(fields[1])
		} else {
			segments := strings.Split(key, ".")
			attr.OutputKey = segments[len(segments)-1]
		}
		if len(fields) > 2 {
			attr.TransformSpec = strings.TrimSpace(fields[2])
		}

		if i := a.index(attr.Key); i >= 0 {
			// Addressing an entry by title keeps its path.
			attr.Key = (*a)[i].Key
			(*a)[i] = attr
			log.Tracef("attr replaced: i=%d attr=%+v", i, attr)
			continue
		}
		*a = append(*a, attr)
		log.Tracef("attr appended: attr=%+v", attr)
	}

	return nil
}

func (a AttrList) index(key string) int {
	for i, attr := range a {
		if attr.Key == key || attr.OutputKey == key {
			return i
		}
	}
	return -1
}

// String renders the list back into --attrs form.
func (a AttrList) String() string {
	result := make([]string, 0, len(a))
	for _, attr := range a {
		result = append(result, fmt.Sprintf("%s:%s:%s", attr.Key, attr.OutputKey, attr.TransformSpec))
	}
	return strings.Join(result, ",")
}

// Titles returns the output keys in order.
func (a AttrList) Titles() []string {
	titles := make([]string, 0, len(a))
	for _, attr := range a {
		titles = append(titles, attr.OutputKey)
	}
	return titles
}

// InstanceDefaults are the describe columns shown when --attrs is not given.
func InstanceDefaults() AttrList {
	return AttrList{
		{Key: "InstanceId", OutputKey: "id"},
		{Key: "State.Name", OutputKey: "state"},
		{Key: "InstanceType", OutputKey: "type"},
		{Key: "Placement.AvailabilityZone", OutputKey: "az"},
		{Key: "PublicIpAddress", OutputKey: "public_ip"},
		{Key: "PrivateIpAddress", OutputKey: "private_ip"},
		{Key: "LaunchTime", OutputKey: "launched", TransformSpec: "T"},
	}
}
