/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package alpaca

import (
	"strconv"
	"strings"
)

// Value is an attribute value that may be absent. Absent means the attribute
// could not be read this cycle and is distinct from a numeric zero.
type Value struct {
	raw interface{}
}

// Absent is the zero Value.
var Absent = Value{}

// ValueOf wraps v. Booleans become 1 or 0 and integer kinds become float64 so
// downstream code only deals with float64, string and nil.
func ValueOf(v interface{}) Value {
	switch x := v.(type) {
	case nil:
		return Absent
	case bool:
		if x {
			return Value{raw: float64(1)}
		}

		return Value{raw: float64(0)}
	case int:
		return Value{raw: float64(x)}
	case int64:
		return Value{raw: float64(x)}
	case float32:
		return Value{raw: float64(x)}
	default:
		return Value{raw: v}
	}
}

// Present reports whether a value was read.
func (v Value) Present() bool {
	return v.raw != nil
}

// Raw returns the underlying value (float64, string or nil).
func (v Value) Raw() interface{} {
	return v.raw
}

// Float64 returns the value as a metric sample. Numeric strings are accepted.
func (v Value) Float64() (float64, bool) {
	switch x := v.raw.(type) {
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}

		return f, true
	default:
		return 0, false
	}
}

// Int returns the value truncated to an int.
func (v Value) Int() (int, bool) {
	f, ok := v.Float64()
	if !ok {
		return 0, false
	}

	return int(f), true
}

// String renders the value for use as a label value.
func (v Value) String() string {
	switch x := v.raw.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return x
	default:
		return ""
	}
}

// Truthy mirrors the label filter: absent, empty strings and zero are false.
func (v Value) Truthy() bool {
	switch x := v.raw.(type) {
	case nil:
		return false
	case float64:
		return x != 0
	case string:
		return x != ""
	default:
		return true
	}
}
