// Package wire defines the typed cell-value model shared with the grid
// engine. The integer tag numbering is the one bit-exact compatibility
// surface between this library and the engine's own enum; it must never be
// reordered.
package wire

import "fmt"

// Tag identifies the type of a cell value on the wire.
type Tag uint8

const (
	TagBlank    Tag = 0
	TagText     Tag = 1
	TagNumber   Tag = 2
	TagLogical  Tag = 3
	TagDuration Tag = 4
	TagError    Tag = 5
	TagHTML     Tag = 6
	TagCode     Tag = 7
	TagImage    Tag = 8
	TagDate     Tag = 9
	TagTime     Tag = 10
	TagDateTime Tag = 11
	TagImport   Tag = 12
)

// String returns the tag's grid-facing name.
func (t Tag) String() string {
	switch t {
	case TagBlank:
		return "Blank"
	case TagText:
		return "Text"
	case TagNumber:
		return "Number"
	case TagLogical:
		return "Logical"
	case TagDuration:
		return "Duration"
	case TagError:
		return "Error"
	case TagHTML:
		return "Html"
	case TagCode:
		return "Code"
	case TagImage:
		return "Image"
	case TagDate:
		return "Date"
	case TagTime:
		return "Time"
	case TagDateTime:
		return "DateTime"
	case TagImport:
		return "Import"
	default:
		return fmt.Sprintf("Tag(%d)", uint8(t))
	}
}

// CellValue is one grid cell's value in wire form: a string payload plus a
// type tag. The payload grammar per tag is enforced by the codec package,
// not here.
type CellValue struct {
	Payload string `json:"v"`
	Tag     Tag    `json:"t"`
}

// Blank is the canonical empty cell.
var Blank = CellValue{Payload: "", Tag: TagBlank}

// Text wraps s as a Text-tagged value.
func Text(s string) CellValue { return CellValue{Payload: s, Tag: TagText} }

// Coordinate addresses one cell. An empty Sheet means the current sheet.
type Coordinate struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Sheet string `json:"sheet,omitempty"`
}

// Range is an inclusive rectangle of cells.
type Range struct {
	P0 Coordinate
	P1 Coordinate
}

// Width returns the number of columns covered by the range.
func (r Range) Width() int { return r.P1.X - r.P0.X + 1 }

// Height returns the number of rows covered by the range.
func (r Range) Height() int { return r.P1.Y - r.P0.Y + 1 }

// Valid reports whether the rectangle covers at least one cell.
func (r Range) Valid() bool { return r.Width() >= 1 && r.Height() >= 1 }

// Single reports whether the range addresses exactly one cell.
func (r Range) Single() bool { return r.Width() == 1 && r.Height() == 1 }

// Size is the (columns, rows) extent of an array output.
type Size struct {
	W int `json:"w"`
	H int `json:"h"`
}
