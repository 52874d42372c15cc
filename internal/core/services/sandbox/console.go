package sandbox

import (
	"fmt"
	"strings"

	"github.com/dop251/goja"
)

// consoleMethods are the diagnostic channels routed into a Capture.
var consoleMethods = []string{"log", "info", "warn", "error"}

// installConsole replaces the runtime's console with one that writes every
// call as a single line into capture.
func installConsole(vm *goja.Runtime, capture *Capture) error {
	jsonObj := vm.Get("JSON").ToObject(vm)
	stringify, ok := goja.AssertFunction(jsonObj.Get("stringify"))
	if !ok {
		return fmt.Errorf("JSON.stringify is not callable")
	}

	format := func(v goja.Value) string {
		obj, isObject := v.(*goja.Object)
		if !isObject {
			return safeString(v)
		}
		if _, isFunc := goja.AssertFunction(obj); isFunc {
			return safeString(v)
		}
		out, err := stringify(jsonObj, v, goja.Null(), vm.ToValue(2))
		if err != nil {
			return safeString(v)
		}
		if out == nil || goja.IsUndefined(out) {
			return ""
		}
		return out.String()
	}

	write := func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = format(arg)
		}
		capture.Write(strings.Join(parts, " "))
		return goja.Undefined()
	}

	console := vm.NewObject()
	for _, name := range consoleMethods {
		if err := console.Set(name, write); err != nil {
			return err
		}
	}
	return vm.Set("console", console)
}

// safeString is String(v), falling back to the object tag when a custom
// toString throws.
func safeString(v goja.Value) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = "[object Object]"
		}
	}()
	if v == nil {
		return "undefined"
	}
	return v.String()
}
