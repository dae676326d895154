// Package notice defines the diagnostic record produced by feed ingestion and
// validation rules, and the append-only container that collects them.
package notice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Severity ranks a notice. The zero value is Info.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "ERROR"
	case Warning:
		return "WARNING"
	default:
		return "INFO"
	}
}

// MarshalJSON encodes the severity as its upper-case name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// ParseSeverity is the inverse of Severity.String.
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "ERROR":
		return Error, nil
	case "WARNING":
		return Warning, nil
	case "INFO":
		return Info, nil
	}
	return Info, fmt.Errorf("unknown severity %q", s)
}

// Kind identifies the dynamic type held by a Value.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
)

// Value is one context field value: a string, integer, float or boolean.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
}

func StringValue(s string) Value  { return Value{kind: KindString, s: s} }
func IntValue(i int64) Value      { return Value{kind: KindInt, i: i} }
func FloatValue(f float64) Value  { return Value{kind: KindFloat, f: f} }
func BoolValue(b bool) Value      { return Value{kind: KindBool, b: b} }
func (v Value) Kind() Kind        { return v.kind }
func (v Value) StringVal() string { return v.s }
func (v Value) IntVal() int64     { return v.i }
func (v Value) FloatVal() float64 { return v.f }
func (v Value) BoolVal() bool     { return v.b }

// String renders the value the way it appears in CSV and XLSX exports.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return v.s
	}
}

// MarshalJSON encodes the value as a native JSON scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindInt:
		return json.Marshal(v.i)
	case KindFloat:
		return json.Marshal(v.f)
	case KindBool:
		return json.Marshal(v.b)
	default:
		return json.Marshal(v.s)
	}
}

// Notice is a single diagnostic finding. Codes are a published contract and
// must never be repurposed.
//
// The set of keys in the context map always equals the set of names in the
// field order.
type Notice struct {
	Code     string
	Severity Severity
	Message  string
	File     string
	Row      int // 0 when the notice is not row-scoped

	fields map[string]Value
	order  []string
}

// New creates a notice with no context fields.
func New(code string, severity Severity, message string) *Notice {
	return &Notice{
		Code:     code,
		Severity: severity,
		Message:  message,
		fields:   make(map[string]Value),
	}
}

// At sets the originating file and row. A row of 0 leaves the notice
// file-scoped.
func (n *Notice) At(file string, row int) *Notice {
	n.File = file
	n.Row = row
	return n
}

// Set inserts a context field. Re-inserting an existing key overwrites the
// value and keeps its position.
func (n *Notice) Set(key string, v Value) *Notice {
	if _, ok := n.fields[key]; !ok {
		n.order = append(n.order, key)
	}
	n.fields[key] = v
	return n
}

// Append sets a context field and moves it to the end of the field order.
func (n *Notice) Append(key string, v Value) *Notice {
	if _, ok := n.fields[key]; ok {
		n.removeFromOrder(key)
	}
	n.order = append(n.order, key)
	n.fields[key] = v
	return n
}

func (n *Notice) Str(key, v string) *Notice     { return n.Set(key, StringValue(v)) }
func (n *Notice) Int(key string, v int) *Notice { return n.Set(key, IntValue(int64(v))) }
func (n *Notice) Float(key string, v float64) *Notice {
	return n.Set(key, FloatValue(v))
}
func (n *Notice) Bool(key string, v bool) *Notice { return n.Set(key, BoolValue(v)) }

// SetFieldOrder replaces the serialization order. keys must be a permutation
// of the fields already present.
func (n *Notice) SetFieldOrder(keys ...string) error {
	if len(keys) != len(n.fields) {
		return fmt.Errorf("notice %s: field order has %d keys, notice has %d fields", n.Code, len(keys), len(n.fields))
	}
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if _, ok := n.fields[k]; !ok {
			return fmt.Errorf("notice %s: unknown field %q in order", n.Code, k)
		}
		if seen[k] {
			return fmt.Errorf("notice %s: field %q listed twice", n.Code, k)
		}
		seen[k] = true
	}
	n.order = append(n.order[:0], keys...)
	return nil
}

// Get returns the value stored under key.
func (n *Notice) Get(key string) (Value, bool) {
	v, ok := n.fields[key]
	return v, ok
}

// Fields returns the context field names in serialization order.
func (n *Notice) Fields() []string {
	out := make([]string, len(n.order))
	copy(out, n.order)
	return out
}

func (n *Notice) removeFromOrder(key string) {
	for i, k := range n.order {
		if k == key {
			n.order = append(n.order[:i], n.order[i+1:]...)
			return
		}
	}
}

// MarshalJSON writes the notice with its context keys in field order, which
// encoding/json cannot do for a map.
func (n *Notice) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"code":`)
	writeJSON(&buf, n.Code)
	buf.WriteString(`,"severity":`)
	writeJSON(&buf, n.Severity)
	buf.WriteString(`,"message":`)
	writeJSON(&buf, n.Message)
	if n.Row > 0 {
		buf.WriteString(`,"row":`)
		buf.WriteString(strconv.Itoa(n.Row))
	}
	if n.File != "" {
		buf.WriteString(`,"file":`)
		writeJSON(&buf, n.File)
	}
	buf.WriteString(`,"context":{`)
	for i, k := range n.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeJSON(&buf, k)
		buf.WriteByte(':')
		writeJSON(&buf, n.fields[k])
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		// Only strings and scalar Values reach here.
		b = []byte(`null`)
	}
	buf.Write(b)
}

// CodeCount is the number of notices emitted under one code.
type CodeCount struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Count    int      `json:"count"`
}

func sortCodeCounts(counts []CodeCount) {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Severity != counts[j].Severity {
			return counts[i].Severity > counts[j].Severity
		}
		return counts[i].Code < counts[j].Code
	})
}
