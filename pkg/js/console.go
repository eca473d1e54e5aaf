package js

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dop251/goja"
)

// consoleAPI routes console.log, console.warn and console.error to slog.
type consoleAPI struct{}

func (c *consoleAPI) register(vm *goja.Runtime) {
	console := vm.NewObject()
	console.Set("log", c.logger(slog.LevelInfo))
	console.Set("info", c.logger(slog.LevelInfo))
	console.Set("debug", c.logger(slog.LevelDebug))
	console.Set("warn", c.logger(slog.LevelWarn))
	console.Set("error", c.logger(slog.LevelError))
	vm.Set("console", console)
}

func (c *consoleAPI) logger(level slog.Level) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		slog.Log(context.Background(), level, "js: console", "msg", formatArgs(call.Arguments))
		return goja.Undefined()
	}
}

func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	return strings.Join(parts, " ")
}
