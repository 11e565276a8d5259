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

package metrics

import (
	"sort"
	"strings"
)

// Label is a single key/value pair.
type Label struct {
	Key   string
	Value string
}

// Labels is an insertion-ordered label map. Setting an existing key replaces
// its value in place. Copies share storage, so use Clone before handing a set
// to something that outlives the caller.
type Labels struct {
	pairs []Label
}

// NewLabels builds a label set from alternating keys and values. A trailing
// key without value is ignored.
func NewLabels(kv ...string) Labels {
	var l Labels

	for i := 0; i+1 < len(kv); i += 2 {
		l.Set(kv[i], kv[i+1])
	}

	return l
}

// Set adds or replaces key.
func (l *Labels) Set(key, value string) {
	for i := range l.pairs {
		if l.pairs[i].Key == key {
			l.pairs[i].Value = value
			return
		}
	}

	l.pairs = append(l.pairs, Label{Key: key, Value: value})
}

// Get returns the value stored under key.
func (l Labels) Get(key string) (string, bool) {
	for _, p := range l.pairs {
		if p.Key == key {
			return p.Value, true
		}
	}

	return "", false
}

// Has reports whether key is present.
func (l Labels) Has(key string) bool {
	_, ok := l.Get(key)

	return ok
}

// Len returns the number of labels.
func (l Labels) Len() int {
	return len(l.pairs)
}

// Clone returns an independent copy.
func (l Labels) Clone() Labels {
	if l.pairs == nil {
		return Labels{}
	}

	out := make([]Label, len(l.pairs))
	copy(out, l.pairs)

	return Labels{pairs: out}
}

// Pairs returns the labels in insertion order.
func (l Labels) Pairs() []Label {
	out := make([]Label, len(l.pairs))
	copy(out, l.pairs)

	return out
}

// Keys returns the label keys in insertion order.
func (l Labels) Keys() []string {
	out := make([]string, len(l.pairs))
	for i, p := range l.pairs {
		out[i] = p.Key
	}

	return out
}

// Sorted returns the labels ordered by key, the order series identity uses.
func (l Labels) Sorted() []Label {
	out := l.Pairs()
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })

	return out
}

// Map returns a plain map copy.
func (l Labels) Map() map[string]string {
	out := make(map[string]string, len(l.pairs))
	for _, p := range l.pairs {
		out[p.Key] = p.Value
	}

	return out
}

// Identity is a canonical encoding of the label set independent of insertion
// order.
func (l Labels) Identity() string {
	var b strings.Builder

	for i, p := range l.Sorted() {
		if i > 0 {
			b.WriteByte(',')
		}

		b.WriteString(p.Key)
		b.WriteString("=\"")
		b.WriteString(escapeLabelValue(p.Value))
		b.WriteByte('"')
	}

	return b.String()
}

func (l Labels) String() string {
	return "{" + l.Identity() + "}"
}

var labelValueEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func escapeLabelValue(v string) string {
	return labelValueEscaper.Replace(v)
}
