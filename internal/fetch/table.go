package fetch

import (
	"reflect"
	"strconv"

	"github.com/zclconf/go-cty/cty"
)

// Table is the dense, ordered tabular form of a fetched range. Columns
// always has one label per column; positional defaults are the column
// indices as strings, and HasHeaders records whether the labels came from
// cell data instead.
type Table struct {
	Columns    []string
	Rows       [][]cty.Value
	HasHeaders bool
}

// TableType carries a *Table between the range fetcher and the shaper.
var TableType = cty.CapsuleWithOps("table", reflect.TypeOf(Table{}), &cty.CapsuleOps{
	RawEquals: func(a, b interface{}) bool {
		ta, tb := a.(*Table), b.(*Table)
		if ta.HasHeaders != tb.HasHeaders || !reflect.DeepEqual(ta.Columns, tb.Columns) {
			return false
		}
		if len(ta.Rows) != len(tb.Rows) {
			return false
		}
		for i := range ta.Rows {
			if len(ta.Rows[i]) != len(tb.Rows[i]) {
				return false
			}
			for j := range ta.Rows[i] {
				if !ta.Rows[i][j].RawEquals(tb.Rows[i][j]) {
					return false
				}
			}
		}
		return true
	},
})

// TableVal wraps t as a capsule value.
func TableVal(t *Table) cty.Value { return cty.CapsuleVal(TableType, t) }

// IsTable reports whether v carries a table.
func IsTable(v cty.Value) bool {
	return v != cty.NilVal && !v.IsNull() && v.Type().Equals(TableType)
}

// FromValue unwraps the table carried by v.
func FromValue(v cty.Value) *Table {
	return v.EncapsulatedValue().(*Table)
}

// Width returns the table's column count.
func (t *Table) Width() int { return len(t.Columns) }

// Height returns the table's body row count.
func (t *Table) Height() int { return len(t.Rows) }

// defaultColumns returns positional labels for n columns.
func defaultColumns(n int) []string {
	cols := make([]string, n)
	for i := range cols {
		cols[i] = strconv.Itoa(i)
	}
	return cols
}
