package codec

import (
	"reflect"
	"time"

	"github.com/zclconf/go-cty/cty"
)

// Temporal and duration values have no native cty representation, so they
// travel between components as capsule types. The capsules compare by
// underlying value, not pointer identity, so decoded values behave like
// ordinary cty primitives in tests and in the shaper.

// DateType encapsulates a calendar date (time.Time at midnight UTC).
var DateType = cty.CapsuleWithOps("date", reflect.TypeOf(time.Time{}), &cty.CapsuleOps{
	RawEquals: timeEquals,
})

// TimeType encapsulates a clock time (time.Time on the zero day).
var TimeType = cty.CapsuleWithOps("time", reflect.TypeOf(time.Time{}), &cty.CapsuleOps{
	RawEquals: timeEquals,
})

// DateTimeType encapsulates a full timestamp.
var DateTimeType = cty.CapsuleWithOps("datetime", reflect.TypeOf(time.Time{}), &cty.CapsuleOps{
	RawEquals: timeEquals,
})

// SpanType encapsulates a calendar duration.
var SpanType = cty.CapsuleWithOps("span", reflect.TypeOf(Span{}), &cty.CapsuleOps{
	RawEquals: func(a, b interface{}) bool {
		return *(a.(*Span)) == *(b.(*Span))
	},
})

func timeEquals(a, b interface{}) bool {
	return a.(*time.Time).Equal(*b.(*time.Time))
}

// DateVal wraps t as a date capsule value.
func DateVal(t time.Time) cty.Value { return cty.CapsuleVal(DateType, &t) }

// TimeVal wraps t as a clock-time capsule value.
func TimeVal(t time.Time) cty.Value { return cty.CapsuleVal(TimeType, &t) }

// DateTimeVal wraps t as a timestamp capsule value.
func DateTimeVal(t time.Time) cty.Value { return cty.CapsuleVal(DateTimeType, &t) }

// SpanVal wraps s as a duration capsule value.
func SpanVal(s Span) cty.Value { return cty.CapsuleVal(SpanType, &s) }
