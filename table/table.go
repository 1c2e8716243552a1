package table

import (
	"encoding/json"
	"fmt"

	"github.com/nihei9/wavelabel/style"
	"github.com/nihei9/wavelabel/value"
	"golang.org/x/exp/slices"
)

// Entry is one translation. Row is the line the entry was finally declared on.
type Entry struct {
	Value value.Value
	Label string
	Style style.Style
	Row   int
}

// Duplicate records a value declared more than once. The declaration on Row replaced the one on PrevRow.
type Duplicate struct {
	Value   value.Value
	Row     int
	PrevRow int
}

type Metadata struct {
	Name  string
	Width int
}

// Table is an immutable translation table. It is safe for concurrent use.
type Table struct {
	name    string
	width   int
	entries []*Entry
	index   map[value.Value]*Entry
	dups    []*Duplicate
}

func newTable(name string, width int) *Table {
	return &Table{
		name:  name,
		width: width,
		index: map[value.Value]*Entry{},
	}
}

// put adds e or replaces the entry having the same value. A replaced entry keeps its position in the table.
func (t *Table) put(e *Entry) (prevRow int, replaced bool) {
	if prev, ok := t.index[e.Value]; ok {
		prevRow = prev.Row
		*prev = *e
		return prevRow, true
	}
	t.entries = append(t.entries, e)
	t.index[e.Value] = e
	return 0, false
}

// insert adds an entry of an encoded table, which never holds duplicates.
func (t *Table) insert(v value.Value, label string, s style.Style, row int) error {
	if v.Width() != t.width {
		return fmt.Errorf("value %v does not have the width of the table (%v)", v, t.width)
	}
	if _, ok := t.index[v]; ok {
		return fmt.Errorf("value %v appears more than once", v)
	}
	t.put(&Entry{
		Value: v,
		Label: label,
		Style: s,
		Row:   row,
	})
	return nil
}

func (t *Table) Metadata() Metadata {
	return Metadata{
		Name:  t.name,
		Width: t.width,
	}
}

// Lookup returns the entry for v. v must already have the width of the table.
func (t *Table) Lookup(v value.Value) (*Entry, bool) {
	e, ok := t.index[v]
	if !ok {
		return nil, false
	}
	c := *e
	return &c, true
}

// Entries returns the entries in the order their values were first declared.
func (t *Table) Entries() []*Entry {
	es := make([]*Entry, len(t.entries))
	for i, e := range t.entries {
		c := *e
		es[i] = &c
	}
	return es
}

// SortedEntries returns the entries ordered by value.
func (t *Table) SortedEntries() []*Entry {
	es := t.Entries()
	slices.SortFunc(es, func(a, b *Entry) int {
		return value.Compare(a.Value, b.Value)
	})
	return es
}

func (t *Table) Duplicates() []*Duplicate {
	ds := make([]*Duplicate, len(t.dups))
	for i, d := range t.dups {
		c := *d
		ds[i] = &c
	}
	return ds
}

// Translates reports whether the table is meant for signals of the width.
func (t *Table) Translates(width int) bool {
	return width == t.width
}

// Translation is the text a viewer shows for a value.
type Translation struct {
	Label string
	Style style.Style

	// Found is false when the table has no entry for the value. Label is then the digits of the value.
	Found bool
}

// Translate looks up a value as a waveform reports it. A value narrower than the table is extended the way VCD
// extends values. A value without an entry is shown as its digits, styled after its multi-valued digits.
func (t *Table) Translate(v value.Value) Translation {
	v = v.Extend(t.width)
	if e, ok := t.index[v]; ok {
		return Translation{
			Label: e.Label,
			Style: e.Style,
			Found: true,
		}
	}
	return Translation{
		Label: v.String(),
		Style: style.Style{Kind: style.KindOf(v)},
	}
}

type jsonEntry struct {
	Value value.Value `json:"value"`
	Label string      `json:"label"`
	Style style.Style `json:"style"`
	Row   int         `json:"row,omitempty"`
}

type jsonDuplicate struct {
	Value   value.Value `json:"value"`
	Row     int         `json:"row"`
	PrevRow int         `json:"prev_row"`
}

type jsonTable struct {
	Name       string           `json:"name"`
	Width      int              `json:"width"`
	Entries    []*jsonEntry     `json:"entries"`
	Duplicates []*jsonDuplicate `json:"duplicates,omitempty"`
}

func (t *Table) MarshalJSON() ([]byte, error) {
	jt := &jsonTable{
		Name:    t.name,
		Width:   t.width,
		Entries: make([]*jsonEntry, len(t.entries)),
	}
	for i, e := range t.entries {
		jt.Entries[i] = &jsonEntry{
			Value: e.Value,
			Label: e.Label,
			Style: e.Style,
			Row:   e.Row,
		}
	}
	for _, d := range t.dups {
		jt.Duplicates = append(jt.Duplicates, &jsonDuplicate{
			Value:   d.Value,
			Row:     d.Row,
			PrevRow: d.PrevRow,
		})
	}
	return json.Marshal(jt)
}

func (t *Table) UnmarshalJSON(data []byte) error {
	var jt jsonTable
	if err := json.Unmarshal(data, &jt); err != nil {
		return err
	}
	if jt.Width <= 0 {
		return fmt.Errorf("a table must have a positive width: %v", jt.Width)
	}
	u := newTable(jt.Name, jt.Width)
	for _, e := range jt.Entries {
		if err := u.insert(e.Value, e.Label, e.Style, e.Row); err != nil {
			return err
		}
	}
	for _, d := range jt.Duplicates {
		u.dups = append(u.dups, &Duplicate{
			Value:   d.Value,
			Row:     d.Row,
			PrevRow: d.PrevRow,
		})
	}
	*t = *u
	return nil
}
