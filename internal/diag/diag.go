// Package diag maps interpreter stack traces and snippet text to the single
// source line a user cares about, filtering out host-runtime frames.
package diag

import "strings"

// Frame is one interpreter stack frame. Traces and stacks are ordered
// innermost-first, the way the interpreter reports them.
type Frame struct {
	File     string
	Function string
	Line     int
}

// Boundary is the host-provided user-code marker: EntryFunction is the host
// frame that begins executing the snippet, and SnippetFile is the
// pseudo-filename the interpreter assigns to snippet frames. Passing the
// boundary in explicitly avoids pattern-matching on internal runtime paths.
type Boundary struct {
	EntryFunction string
	SnippetFile   string
}

// LineFromTrace returns the innermost frame's line number, or 0 for an
// empty trace.
func LineFromTrace(trace []Frame) int {
	if len(trace) == 0 {
		return 0
	}
	return trace[0].Line
}

// UserFrames filters stack to the contiguous span of frames belonging to
// the user's snippet: walking inward from the host's entry frame, it takes
// the run of frames carrying the snippet pseudo-filename and returns them
// innermost-first. Any stack-shape surprise yields nil rather than an error.
func UserFrames(stack []Frame, b Boundary) []Frame {
	// Walk outermost-first to find the entry frame.
	entry := -1
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].Function == b.EntryFunction {
			entry = i
			break
		}
	}
	if entry <= 0 {
		return nil
	}

	// The snippet span sits directly inside the entry frame.
	outer := entry - 1
	for outer >= 0 && stack[outer].File != b.SnippetFile {
		outer--
	}
	if outer < 0 {
		return nil
	}
	inner := outer
	for inner >= 0 && stack[inner].File == b.SnippetFile {
		inner--
	}

	frames := make([]Frame, 0, outer-inner)
	frames = append(frames, stack[inner+1:outer+1]...)
	return frames
}

// LastLine returns the 1-based line count of the snippet with trailing
// whitespace trimmed: the location of the implicit return, used for errors
// raised after normal completion.
func LastLine(code string) int {
	code = strings.TrimRight(code, " \t\r\n")
	return strings.Count(code, "\n") + 1
}
