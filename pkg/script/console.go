package script

import (
	"fmt"
	"io"
	"strings"

	"github.com/dop251/goja"
	"go.uber.org/zap"
)

// consoleAPI implements console.log, console.warn, and console.error.
type consoleAPI struct {
	out io.Writer
	log *zap.Logger
}

func (c *consoleAPI) register(vm *goja.Runtime) {
	console := vm.NewObject()
	console.Set("log", c.logFn)
	console.Set("warn", c.warn)
	console.Set("error", c.errorFn)
	vm.Set("console", console)
}

func (c *consoleAPI) logFn(call goja.FunctionCall) goja.Value {
	fmt.Fprintln(c.out, formatArgs(call.Arguments))
	return goja.Undefined()
}

func (c *consoleAPI) warn(call goja.FunctionCall) goja.Value {
	c.log.Warn(formatArgs(call.Arguments))
	return goja.Undefined()
}

func (c *consoleAPI) errorFn(call goja.FunctionCall) goja.Value {
	c.log.Error(formatArgs(call.Arguments))
	return goja.Undefined()
}

func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	return strings.Join(parts, " ")
}
