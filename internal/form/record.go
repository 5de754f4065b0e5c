package form

import (
	"encoding/json"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Entry is one committed field value.
type Entry struct {
	Section string
	Label   string
	Value   string
}

// Key identifies the entry as section.label, which stays unique when the
// same label appears in more than one section.
func (e Entry) Key() string { return entryKey(e.Section, e.Label) }

// Record is the flat result of a session, in field order.
type Record struct {
	Entries []Entry
}

// Get returns the value stored under key.
func (r Record) Get(key string) (string, bool) {
	for _, e := range r.Entries {
		if e.Key() == key {
			return e.Value, true
		}
	}
	return "", false
}

// Nested groups values as section -> label -> value.
func (r Record) Nested() map[string]map[string]string {
	out := make(map[string]map[string]string)
	for _, e := range r.Entries {
		sec, ok := out[e.Section]
		if !ok {
			sec = make(map[string]string)
			out[e.Section] = sec
		}
		sec[Slug(e.Label)] = e.Value
	}
	return out
}

func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Nested())
}

// MarshalYAML keeps sections and fields in form order.
func (r Record) MarshalYAML() (interface{}, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	sections := map[string]*yaml.Node{}
	for _, e := range r.Entries {
		sec, ok := sections[e.Section]
		if !ok {
			sec = &yaml.Node{Kind: yaml.MappingNode}
			sections[e.Section] = sec
			root.Content = append(root.Content, scalar(e.Section), sec)
		}
		val := scalar(e.Value)
		if strings.Contains(e.Value, "\n") {
			val.Style = yaml.LiteralStyle
		}
		sec.Content = append(sec.Content, scalar(Slug(e.Label)), val)
	}
	return root, nil
}

func scalar(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func entryKey(section, label string) string {
	return section + "." + Slug(label)
}

// Slug lowercases s and replaces runs of non-alphanumerics with '_'.
func Slug(s string) string {
	var b strings.Builder
	sep := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if sep && b.Len() > 0 {
				b.WriteByte('_')
			}
			sep = false
			b.WriteRune(r)
			continue
		}
		sep = true
	}
	return b.String()
}
