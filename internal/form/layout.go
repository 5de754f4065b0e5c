package form

import "fmt"

// Item describes one row of a form layout as written in the config file.
// Exactly one of Heading, Blank, Field or Multiline must be set.
type Item struct {
	Heading    string `yaml:"heading,omitempty"`
	Blank      bool   `yaml:"blank,omitempty"`
	Field      string `yaml:"field,omitempty"`
	Multiline  string `yaml:"multiline,omitempty"`
	Section    string `yaml:"section,omitempty"` // Headings only; defaults to the slug of the text
	Foreground string `yaml:"fg,omitempty"`
	Background string `yaml:"bg,omitempty"`
}

// Default heading colours.
const (
	DefaultHeadingFg = "15"
	DefaultHeadingBg = "4"
	defaultSection   = "main"
)

// SavedQueryLayout is the built-in form: a saved query record and its
// schedule. Both sections have a Name field.
func SavedQueryLayout() []Item {
	return []Item{
		{Heading: "Saved query", Section: "query"},
		{Field: "Name"},
		{Field: "Owner"},
		{Field: "Database"},
		{Multiline: "Query"},
		{Blank: true},
		{Heading: "Schedule", Section: "schedule", Background: "6", Foreground: "0"},
		{Field: "Name"},
		{Field: "Cron"},
	}
}

// Build turns layout items into a form. Fields belong to the section of the
// nearest heading above them. Every field must have its own section.label
// key, since records are saved and addressed by key.
func Build(items []Item) (*Form, error) {
	section := defaultSection
	elements := make([]Element, 0, len(items))
	keys := make(map[string]int)
	claim := func(i int, label string) error {
		key := entryKey(section, label)
		if prev, ok := keys[key]; ok {
			return fmt.Errorf("layout item %d: field key %q already used by item %d", i, key, prev)
		}
		keys[key] = i
		return nil
	}
	for i, it := range items {
		set := 0
		for _, ok := range []bool{it.Heading != "", it.Blank, it.Field != "", it.Multiline != ""} {
			if ok {
				set++
			}
		}
		if set != 1 {
			return nil, fmt.Errorf("layout item %d: exactly one of heading, blank, field, multiline must be set", i)
		}

		switch {
		case it.Heading != "":
			section = it.Section
			if section == "" {
				section = Slug(it.Heading)
			}
			st := Style{Foreground: it.Foreground, Background: it.Background}
			if st.Foreground == "" {
				st.Foreground = DefaultHeadingFg
			}
			if st.Background == "" {
				st.Background = DefaultHeadingBg
			}
			elements = append(elements, &Heading{Text: it.Heading, Style: st})
		case it.Blank:
			elements = append(elements, &Blank{})
		case it.Field != "":
			if err := claim(i, it.Field); err != nil {
				return nil, err
			}
			elements = append(elements, &Field{Section: section, Label: it.Field})
		case it.Multiline != "":
			if err := claim(i, it.Multiline); err != nil {
				return nil, err
			}
			elements = append(elements, &MultiLineField{Section: section, Label: it.Multiline})
		}
	}
	return New(elements)
}
