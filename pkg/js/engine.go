package js

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"webshot/pkg/html"

	"github.com/dop251/goja"
)

// Engine executes JavaScript against an HTML document's DOM.
type Engine struct {
	vm *goja.Runtime
}

// New creates a new JS engine with a fresh goja runtime.
func New() *Engine {
	vm := goja.New()
	e := &Engine{vm: vm}

	c := &consoleAPI{}
	c.register(vm)

	return e
}

// Execute runs all scripts from the document against the DOM, in order.
// A failing script does not stop later ones; the failures are returned
// joined so callers can log them and keep rendering. When ctx is done the
// running script is interrupted and Execute returns the context's cause.
func (e *Engine) Execute(ctx context.Context, doc *html.Document) error {
	registerDocument(e.vm, doc)

	stop := context.AfterFunc(ctx, func() {
		e.vm.Interrupt(context.Cause(ctx))
	})
	defer func() {
		if !stop() {
			e.vm.ClearInterrupt()
		}
	}()

	var errs []error
	for i, script := range doc.Scripts {
		if ctx.Err() != nil {
			return fmt.Errorf("script %d not run: %w", i, context.Cause(ctx))
		}
		if _, err := e.vm.RunString(script); err != nil {
			var interrupted *goja.InterruptedError
			if errors.As(err, &interrupted) {
				return fmt.Errorf("script %d interrupted: %w", i, context.Cause(ctx))
			}
			slog.Debug("js: script failed", "index", i, "err", err)
			errs = append(errs, fmt.Errorf("script %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Eval runs a single snippet and returns its result exported to Go.
func (e *Engine) Eval(src string) (any, error) {
	v, err := e.vm.RunString(src)
	if err != nil {
		return nil, err
	}
	return v.Export(), nil
}
