package session

import (
	"errors"
	"fmt"

	"github.com/vk/cellscript/internal/diag"
	"github.com/vk/cellscript/internal/figure"
	"github.com/vk/cellscript/internal/model"
)

// diagnose maps an interpreter failure onto the error taxonomy. Figure
// conflicts surface from inside a binding, so they are checked before the
// generic runtime case even when the interpreter wrapped them.
func diagnose(err error) *model.EvalError {
	var syn *model.SyntaxError
	if errors.As(err, &syn) {
		return &model.EvalError{
			Kind:       model.KindSyntaxError,
			Detail:     syn.Detail,
			LineNumber: syn.Line,
		}
	}

	var conflict *figure.ConflictError
	if errors.As(err, &conflict) {
		return &model.EvalError{
			Kind:       model.KindFigureConflictError,
			Detail:     conflict.Error(),
			LineNumber: conflict.Line,
		}
	}

	var run *model.RuntimeError
	if errors.As(err, &run) {
		return &model.EvalError{
			Kind:       model.KindRuntimeError,
			Detail:     run.Detail,
			LineNumber: diag.LineFromTrace(run.Trace),
		}
	}

	return &model.EvalError{
		Kind:   model.KindRuntimeError,
		Detail: err.Error(),
	}
}

func conflictDetail(line int) string {
	return fmt.Sprintf("cannot return a result from a cell that has displayed a figure (displayed on line %d)", line)
}
