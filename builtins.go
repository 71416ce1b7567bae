package quicksilver

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"strings"
	"unicode/utf16"
)

// newBuiltins assembles the built-in bindings for a runtime. Builtins live
// in their own layer under the global table, so host-set globals can shadow
// them without destroying them.
func newBuiltins(stdout, stderr io.Writer) map[string]Value {
	b := map[string]Value{
		"NaN":      Number(math.NaN()),
		"Infinity": Number(math.Inf(1)),
		"Math":     mathObject(),
		"console":  consoleObject(stdout, stderr),
	}

	b["parseFloat"] = nativeValue("parseFloat", func(args []Value) (Value, error) {
		s := strings.TrimSpace(argString(args, 0))
		// parseFloat reads the longest numeric prefix.
		for i := len(s); i > 0; i-- {
			n := stringToNumber(s[:i])
			if !math.IsNaN(n) {
				return Number(n), nil
			}
		}
		return Number(math.NaN()), nil
	})
	b["parseInt"] = nativeValue("parseInt", func(args []Value) (Value, error) {
		n := stringToNumber(strings.TrimSpace(argString(args, 0)))
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return Number(math.NaN()), nil
		}
		return Number(math.Trunc(n)), nil
	})
	b["isNaN"] = nativeValue("isNaN", func(args []Value) (Value, error) {
		return Bool(math.IsNaN(argNum(args, 0))), nil
	})
	b["isFinite"] = nativeValue("isFinite", func(args []Value) (Value, error) {
		n := argNum(args, 0)
		return Bool(!math.IsNaN(n) && !math.IsInf(n, 0)), nil
	})
	return b
}

func nativeValue(name string, fn nativeFunc) Value {
	return objectValue(&object{name: name, call: fn})
}

func argNum(args []Value, i int) float64 {
	if i >= len(args) {
		return math.NaN()
	}
	return args[i].ToFloat64()
}

func argString(args []Value, i int) string {
	if i >= len(args) {
		return "undefined"
	}
	return args[i].ToString()
}

// mathObject builds the Math namespace: constants plus one- and
// two-argument numeric functions.
func mathObject() Value {
	props := map[string]Value{
		"PI":      Number(math.Pi),
		"E":       Number(math.E),
		"LN2":     Number(math.Ln2),
		"LN10":    Number(math.Log(10)),
		"LOG2E":   Number(1 / math.Ln2),
		"LOG10E":  Number(1 / math.Log(10)),
		"SQRT2":   Number(math.Sqrt2),
		"SQRT1_2": Number(1 / math.Sqrt2),
	}

	unary := map[string]func(float64) float64{
		"abs":   math.Abs,
		"floor": math.Floor,
		"ceil":  math.Ceil,
		"round": math.Round,
		"trunc": math.Trunc,
		"sqrt":  math.Sqrt,
		"cbrt":  math.Cbrt,
		"sign": func(n float64) float64 {
			switch {
			case math.IsNaN(n):
				return math.NaN()
			case n > 0:
				return 1
			case n < 0:
				return -1
			}
			return n
		},
		"exp":   math.Exp,
		"log":   math.Log,
		"log2":  math.Log2,
		"log10": math.Log10,
		"sin":   math.Sin,
		"cos":   math.Cos,
		"tan":   math.Tan,
		"asin":  math.Asin,
		"acos":  math.Acos,
		"atan":  math.Atan,
	}
	for name, fn := range unary {
		fn := fn
		props[name] = nativeValue(name, func(args []Value) (Value, error) {
			return Number(fn(argNum(args, 0))), nil
		})
	}

	props["pow"] = nativeValue("pow", func(args []Value) (Value, error) {
		return Number(math.Pow(argNum(args, 0), argNum(args, 1))), nil
	})
	props["atan2"] = nativeValue("atan2", func(args []Value) (Value, error) {
		return Number(math.Atan2(argNum(args, 0), argNum(args, 1))), nil
	})
	props["min"] = nativeValue("min", func(args []Value) (Value, error) {
		min := math.Inf(1)
		for _, a := range args {
			n := a.ToFloat64()
			if math.IsNaN(n) {
				return Number(math.NaN()), nil
			}
			if n < min {
				min = n
			}
		}
		return Number(min), nil
	})
	props["max"] = nativeValue("max", func(args []Value) (Value, error) {
		max := math.Inf(-1)
		for _, a := range args {
			n := a.ToFloat64()
			if math.IsNaN(n) {
				return Number(math.NaN()), nil
			}
			if n > max {
				max = n
			}
		}
		return Number(max), nil
	})
	props["random"] = nativeValue("random", func(args []Value) (Value, error) {
		return Number(rand.Float64()), nil
	})

	return objectValue(&object{name: "Math", props: props})
}

// consoleObject builds the console namespace. log/info/debug write to
// stdout, warn/error to stderr; arguments are joined with single spaces.
func consoleObject(stdout, stderr io.Writer) Value {
	write := func(w io.Writer) nativeFunc {
		return func(args []Value) (Value, error) {
			parts := make([]string, len(args))
			for i, a := range args {
				parts[i] = a.ToString()
			}
			fmt.Fprintln(w, strings.Join(parts, " "))
			return Undefined(), nil
		}
	}
	props := map[string]Value{
		"log":   nativeValue("log", write(stdout)),
		"info":  nativeValue("info", write(stdout)),
		"debug": nativeValue("debug", write(stdout)),
		"warn":  nativeValue("warn", write(stderr)),
		"error": nativeValue("error", write(stderr)),
	}
	return objectValue(&object{name: "console", props: props})
}

// stringProperty resolves property access on string values: the length
// accessor and the built-in method set, returned as bound functions.
func stringProperty(s, name string) Value {
	if name == "length" {
		return Number(float64(len(utf16.Encode([]rune(s)))))
	}
	method, ok := stringMethods[name]
	if !ok {
		return Undefined()
	}
	return nativeValue(name, func(args []Value) (Value, error) {
		return method(s, args)
	})
}

type stringMethod func(s string, args []Value) (Value, error)

var stringMethods = map[string]stringMethod{
	"toUpperCase": func(s string, _ []Value) (Value, error) {
		return String(strings.ToUpper(s)), nil
	},
	"toLowerCase": func(s string, _ []Value) (Value, error) {
		return String(strings.ToLower(s)), nil
	},
	"trim": func(s string, _ []Value) (Value, error) {
		return String(strings.TrimSpace(s)), nil
	},
	"trimStart": func(s string, _ []Value) (Value, error) {
		return String(strings.TrimLeft(s, " \t\n\r\f\v")), nil
	},
	"trimEnd": func(s string, _ []Value) (Value, error) {
		return String(strings.TrimRight(s, " \t\n\r\f\v")), nil
	},
	"charAt": func(s string, args []Value) (Value, error) {
		runes := []rune(s)
		n := argNum(args, 0)
		if math.IsNaN(n) {
			n = 0
		}
		i := int(n)
		if i < 0 || i >= len(runes) {
			return String(""), nil
		}
		return String(string(runes[i])), nil
	},
	"includes": func(s string, args []Value) (Value, error) {
		return Bool(strings.Contains(s, argString(args, 0))), nil
	},
	"startsWith": func(s string, args []Value) (Value, error) {
		return Bool(strings.HasPrefix(s, argString(args, 0))), nil
	},
	"endsWith": func(s string, args []Value) (Value, error) {
		return Bool(strings.HasSuffix(s, argString(args, 0))), nil
	},
	"indexOf": func(s string, args []Value) (Value, error) {
		idx := strings.Index(s, argString(args, 0))
		if idx < 0 {
			return Number(-1), nil
		}
		return Number(float64(len([]rune(s[:idx])))), nil
	},
	"lastIndexOf": func(s string, args []Value) (Value, error) {
		idx := strings.LastIndex(s, argString(args, 0))
		if idx < 0 {
			return Number(-1), nil
		}
		return Number(float64(len([]rune(s[:idx])))), nil
	},
	"slice": func(s string, args []Value) (Value, error) {
		runes := []rune(s)
		start := sliceIndex(argNum(args, 0), len(runes), 0)
		end := len(runes)
		if len(args) > 1 {
			end = sliceIndex(argNum(args, 1), len(runes), len(runes))
		}
		if start >= end {
			return String(""), nil
		}
		return String(string(runes[start:end])), nil
	},
	"repeat": func(s string, args []Value) (Value, error) {
		n := argNum(args, 0)
		if math.IsNaN(n) {
			n = 0
		}
		if n < 0 || math.IsInf(n, 0) {
			return Undefined(), &Error{Name: ErrRange, Message: "Invalid count value"}
		}
		return String(strings.Repeat(s, int(n))), nil
	},
	"replace": func(s string, args []Value) (Value, error) {
		return String(strings.Replace(s, argString(args, 0), argString(args, 1), 1)), nil
	},
	"replaceAll": func(s string, args []Value) (Value, error) {
		return String(strings.ReplaceAll(s, argString(args, 0), argString(args, 1))), nil
	},
	"concat": func(s string, args []Value) (Value, error) {
		var b strings.Builder
		b.WriteString(s)
		for _, a := range args {
			b.WriteString(a.ToString())
		}
		return String(b.String()), nil
	},
	"padStart": func(s string, args []Value) (Value, error) {
		return String(padString(s, args, true)), nil
	},
	"padEnd": func(s string, args []Value) (Value, error) {
		return String(padString(s, args, false)), nil
	},
}

// sliceIndex clamps a possibly negative slice bound; NaN maps to def.
func sliceIndex(n float64, length, def int) int {
	if math.IsNaN(n) {
		return def
	}
	i := int(n)
	if i < 0 {
		i += length
	}
	if i < 0 {
		return 0
	}
	if i > length {
		return length
	}
	return i
}

func padString(s string, args []Value, front bool) string {
	target := int(argNum(args, 0))
	fill := " "
	if len(args) > 1 {
		fill = args[1].ToString()
	}
	runes := []rune(s)
	if fill == "" || len(runes) >= target {
		return s
	}
	pad := make([]rune, 0, target-len(runes))
	fillRunes := []rune(fill)
	for len(pad) < target-len(runes) {
		pad = append(pad, fillRunes[len(pad)%len(fillRunes)])
	}
	if front {
		return string(pad) + s
	}
	return s + string(pad)
}
