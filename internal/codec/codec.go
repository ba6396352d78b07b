// Package codec converts between the grid engine's tagged wire values and
// the script-facing cty values. Both directions are total: a payload that
// fails to decode under its tag falls back to plain text rather than
// erroring, and any value the encoder does not recognize is stringified.
package codec

import (
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/cellscript/internal/wire"
)

const (
	dateLayout     = "2006-01-02"
	timeLayout     = "15:04:05"
	dateTimeLayout = "2006-01-02T15:04:05"
)

// payloadMark tags a string value with a wire type that has no distinct
// native shape (Error, Html, Code, Image, Import), so those payloads survive
// a decode/encode round trip with their tag intact.
type payloadMark wire.Tag

// Marked wraps payload as a string value carrying the given wire tag.
func Marked(payload string, tag wire.Tag) cty.Value {
	return cty.StringVal(payload).Mark(payloadMark(tag))
}

// ToWire classifies v by runtime shape and encodes it. Strings are never
// reinterpreted as numbers or booleans: "true" stays Text. The empty string
// encodes as Blank.
func ToWire(v cty.Value) wire.CellValue {
	if v == cty.NilVal || v.IsNull() || !v.IsKnown() {
		return wire.Blank
	}
	v, marks := v.Unmark()
	for m := range marks {
		if tag, ok := m.(payloadMark); ok && v.Type() == cty.String {
			return wire.CellValue{Payload: v.AsString(), Tag: wire.Tag(tag)}
		}
	}

	switch {
	case v.Type() == cty.String:
		s := v.AsString()
		if s == "" {
			return wire.Blank
		}
		return wire.Text(s)
	case v.Type() == cty.Number:
		return wire.CellValue{Payload: formatNumber(v), Tag: wire.TagNumber}
	case v.Type() == cty.Bool:
		if v.True() {
			return wire.CellValue{Payload: "True", Tag: wire.TagLogical}
		}
		return wire.CellValue{Payload: "False", Tag: wire.TagLogical}
	case v.Type().Equals(DateType):
		t := v.EncapsulatedValue().(*time.Time)
		return wire.CellValue{Payload: t.Format(dateLayout), Tag: wire.TagDate}
	case v.Type().Equals(TimeType):
		t := v.EncapsulatedValue().(*time.Time)
		return wire.CellValue{Payload: t.Format(timeLayout), Tag: wire.TagTime}
	case v.Type().Equals(DateTimeType):
		t := v.EncapsulatedValue().(*time.Time)
		return wire.CellValue{Payload: t.Format(dateTimeLayout), Tag: wire.TagDateTime}
	case v.Type().Equals(SpanType):
		s := v.EncapsulatedValue().(*Span)
		return wire.CellValue{Payload: s.String(), Tag: wire.TagDuration}
	}

	// Anything else becomes text via string conversion.
	if conv, err := convert.Convert(v, cty.String); err == nil && !conv.IsNull() {
		return wire.Text(conv.AsString())
	}
	return wire.Text(v.GoString())
}

// FromWire decodes a wire pair into its native value. Decode failures fall
// back to the raw payload as Text; this function never errors.
func FromWire(cv wire.CellValue) cty.Value {
	switch cv.Tag {
	case wire.TagBlank:
		return cty.NullVal(cty.DynamicPseudoType)
	case wire.TagText:
		return cty.StringVal(cv.Payload)
	case wire.TagNumber:
		if i, err := strconv.ParseInt(cv.Payload, 10, 64); err == nil {
			return cty.NumberIntVal(i)
		}
		if f, err := strconv.ParseFloat(cv.Payload, 64); err == nil {
			return cty.NumberFloatVal(f)
		}
		return cty.StringVal(cv.Payload)
	case wire.TagLogical:
		switch strings.ToLower(cv.Payload) {
		case "true":
			return cty.True
		case "false":
			return cty.False
		}
		return cty.StringVal(cv.Payload)
	case wire.TagDuration:
		if s, ok := ParseSpan(cv.Payload); ok {
			return SpanVal(s)
		}
		return cty.StringVal(cv.Payload)
	case wire.TagDate:
		if t, err := time.Parse(dateLayout, cv.Payload); err == nil {
			return DateVal(t)
		}
		return cty.StringVal(cv.Payload)
	case wire.TagTime:
		for _, layout := range []string{timeLayout, "15:04:05.999999999", "15:04"} {
			if t, err := time.Parse(layout, cv.Payload); err == nil {
				return TimeVal(t)
			}
		}
		return cty.StringVal(cv.Payload)
	case wire.TagDateTime:
		for _, layout := range []string{dateTimeLayout, "2006-01-02T15:04:05.999999999", time.RFC3339} {
			if t, err := time.Parse(layout, cv.Payload); err == nil {
				return DateTimeVal(t)
			}
		}
		return cty.StringVal(cv.Payload)
	case wire.TagError, wire.TagHTML, wire.TagCode, wire.TagImage, wire.TagImport:
		return Marked(cv.Payload, cv.Tag)
	default:
		return cty.StringVal(cv.Payload)
	}
}

// TypeName describes v's native runtime class for the result envelope.
func TypeName(v cty.Value) string {
	if v == cty.NilVal || v.IsNull() {
		return "Null"
	}
	v, _ = v.Unmark()
	ty := v.Type()
	switch {
	case ty == cty.String:
		return "Text"
	case ty == cty.Bool:
		return "Bool"
	case ty == cty.Number:
		if bf := v.AsBigFloat(); bf.IsInt() {
			return "Int"
		}
		return "Float"
	case ty.Equals(DateType):
		return "Date"
	case ty.Equals(TimeType):
		return "Time"
	case ty.Equals(DateTimeType):
		return "DateTime"
	case ty.Equals(SpanType):
		return "Duration"
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		return "List"
	case ty.IsMapType() || ty.IsObjectType():
		return "Object"
	default:
		return ty.FriendlyName()
	}
}

// formatNumber prints integral numbers without a decimal point and
// everything else as the shortest float literal that round-trips.
func formatNumber(v cty.Value) string {
	bf := v.AsBigFloat()
	if bf.IsInt() {
		if i, acc := bf.Int64(); acc == big.Exact {
			return strconv.FormatInt(i, 10)
		}
		return bf.Text('f', 0)
	}
	f, _ := bf.Float64()
	return strconv.FormatFloat(f, 'g', -1, 64)
}
