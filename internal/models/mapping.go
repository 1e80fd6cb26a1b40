package models

import (
	"encoding/json"
	"fmt"
)

// FieldRow is one repeated row of a merge table.
type FieldRow map[string]string

// FieldMapping is everything the merge engine needs to render one page:
// scalar merge fields plus repeated-row tables.
type FieldMapping struct {
	Values map[string]string
	Tables map[string][]FieldRow
}

// NewFieldMapping returns an empty mapping ready for Set calls.
func NewFieldMapping() FieldMapping {
	return FieldMapping{
		Values: make(map[string]string),
		Tables: make(map[string][]FieldRow),
	}
}

func (m FieldMapping) Set(key, value string) { m.Values[key] = value }

func (m FieldMapping) SetTable(key string, rows []FieldRow) {
	if rows == nil {
		rows = []FieldRow{}
	}
	m.Tables[key] = rows
}

// Clone copies the mapping so that fan-out copies can diverge.
func (m FieldMapping) Clone() FieldMapping {
	out := NewFieldMapping()
	for k, v := range m.Values {
		out.Values[k] = v
	}
	for k, rows := range m.Tables {
		cp := make([]FieldRow, len(rows))
		for i, row := range rows {
			r := make(FieldRow, len(row))
			for rk, rv := range row {
				r[rk] = rv
			}
			cp[i] = r
		}
		out.Tables[k] = cp
	}
	return out
}

// MarshalJSON flattens values and tables into one object, the shape the
// mail-merge side expects.
func (m FieldMapping) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(m.Values)+len(m.Tables))
	for k, v := range m.Values {
		flat[k] = v
	}
	for k, rows := range m.Tables {
		if _, dup := flat[k]; dup {
			return nil, fmt.Errorf("merge field %s is both a value and a table", k)
		}
		flat[k] = rows
	}
	return json.Marshal(flat)
}

// RecipientKind separates people from teams so a person who happens to share
// a name with a unit never lands in the unit's roster.
type RecipientKind int

const (
	RecipientPerson RecipientKind = iota + 1
	RecipientTeam
)

func (k RecipientKind) String() string {
	switch k {
	case RecipientPerson:
		return "person"
	case RecipientTeam:
		return "team"
	}
	return "unknown"
}

// RecipientKey addresses one formal copy.
type RecipientKey struct {
	Kind RecipientKind
	Name string
}

func (k RecipientKey) String() string { return k.Kind.String() + ":" + k.Name }

// AddressedMapping is a formal page mapping bound to one recipient.
type AddressedMapping struct {
	Key     RecipientKey
	Mapping FieldMapping
}
