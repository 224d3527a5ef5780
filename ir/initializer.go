package ir

import (
	"strconv"
	"strings"

	"github.com/gogpu/shadergraph/codewriter"
	"github.com/gogpu/shadergraph/layout"
)

// selectComponent returns a component of a vector constructor:
// selectComponent("vector3(1, 2, 3)", ".y") is "2".
func selectComponent(value, member string) string {
	if !strings.HasPrefix(value, "vector") {
		return ""
	}
	if len(member) != 2 || member[0] != '.' {
		return ""
	}
	index := strings.IndexByte(swizzle, member[1])
	if index < 0 {
		return ""
	}
	args, ok := constructorArgs(value)
	if !ok || index >= len(args) {
		return ""
	}
	return args[index]
}

// constructorArgs splits "vector3(1, 2, 3)" into its trimmed arguments.
func constructorArgs(value string) ([]string, bool) {
	open := strings.IndexByte(value, '(')
	end := strings.LastIndexByte(value, ')')
	if open < 0 || end < open {
		return nil, false
	}
	args := strings.Split(value[open+1:end], ",")
	for i, arg := range args {
		args[i] = strings.TrimSpace(arg)
	}
	return args, true
}

// componentInit is one component of a vector initializer. For a scalar
// literal dimension is 1; for a vector-valued expression (e.g. a
// constant named "color") it is the dimension of the expression and index
// selects the component.
type componentInit struct {
	value     string
	dimension int
	index     int
}

type componentInits [4]componentInit

// parseInitializer decodes the initializer value of member (e.g. ".xy")
// into the components it assigns.
func parseInitializer(member, value string, inits *componentInits, dimension int) {
	if member == "" {
		parseValue(value, inits, dimension)
		return
	}
	if member[0] != '.' {
		return
	}
	// ".xy.x": the first element assigns to the swizzle of this level
	selector := member[1:]
	rest := ""
	if i := strings.IndexByte(selector, '.'); i >= 0 {
		selector, rest = selector[:i], selector[i:]
	}
	if len(selector) > 4 {
		return
	}
	var inner componentInits
	parseInitializer(rest, value, &inner, len(selector))
	for i := range len(selector) {
		if index := strings.IndexByte(swizzle, selector[i]); index >= 0 {
			inits[index] = inner[i]
		}
	}
}

func parseValue(value string, inits *componentInits, dimension int) {
	dimension = min(dimension, len(inits))
	switch {
	case strings.HasPrefix(value, "vector"):
		args, ok := constructorArgs(value)
		if !ok {
			return
		}
		for i := range min(len(args), len(inits)) {
			inits[i] = componentInit{value: args[i], dimension: 1}
		}
	case strings.HasPrefix(value, "splat"):
		args, ok := constructorArgs(value)
		if !ok || len(args) != 1 || len(value) < 6 {
			return
		}
		n := min(int(value[5]-'0'), len(inits))
		for i := range n {
			inits[i] = componentInit{value: args[0], dimension: 1}
		}
	default:
		// scalar literal or a named, possibly vector-valued constant
		for i := range dimension {
			inits[i] = componentInit{value: value, dimension: dimension, index: i}
		}
	}
}

// componentInits collects the components assigned by all initializers.
func (a *Attribute) componentInits(dimension int) componentInits {
	var inits componentInits
	for _, key := range a.Initializers() {
		parseInitializer(key, a.initializers[key], &inits, dimension)
	}
	return inits
}

// zeroLiteral returns the zero value of a scalar kind as C++ literal.
func zeroLiteral(kind layout.ScalarKind) string {
	switch kind {
	case layout.ScalarBool:
		return codewriter.FormatBool(false)
	case layout.ScalarFloat:
		return codewriter.FormatFloat32(codewriter.CPP, 0)
	case layout.ScalarDouble:
		return codewriter.FormatFloat64(0)
	default:
		return codewriter.FormatInt(0)
	}
}

// InitializerBool decodes the initializer of a constant attribute.
func (a *Attribute) InitializerBool() (bool, bool) {
	if a.Flags&FlagConstant == 0 {
		return false, false
	}
	inits := a.componentInits(3)
	v := inits[0].value
	if b, err := strconv.ParseBool(v); err == nil {
		return b, true
	}
	f, err := parseFloatLiteral(v)
	return err == nil && f != 0, true
}

// InitializerFloat3 decodes the initializer of a constant 3-component
// attribute.
func (a *Attribute) InitializerFloat3() ([3]float32, bool) {
	var v [3]float32
	if a.Flags&FlagConstant == 0 {
		return v, false
	}
	inits := a.componentInits(3)
	for i := range v {
		f, _ := parseFloatLiteral(inits[i].value)
		v[i] = float32(f)
	}
	return v, true
}

// parseFloatLiteral parses literals like "1.0f" or "2".
func parseFloatLiteral(s string) (float64, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "f")
	return strconv.ParseFloat(s, 32)
}
