package ir

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/gogpu/shadergraph/layout"
)

// Phase is an optimization pass.
type Phase uint8

const (
	// PhaseVectorize merges component initializers of vector attributes
	// into one vector or splat initializer.
	PhaseVectorize Phase = iota

	// PhaseOptimizeAttributes turns attributes that only forward a
	// connection into references and attributes that only hold an
	// initializer into constants.
	PhaseOptimizeAttributes
)

func (p Phase) String() string {
	switch p {
	case PhaseVectorize:
		return "vectorize"
	case PhaseOptimizeAttributes:
		return "optimize-attributes"
	default:
		return "Phase(" + strconv.Itoa(int(p)) + ")"
	}
}

// Optimize runs all phases in order over the tree root.
func (g *Graph) Optimize(root Handle) {
	g.RunPhase(root, PhaseVectorize)
	g.RunPhase(root, PhaseOptimizeAttributes)
}

// RunPhase runs one phase over every attribute below h.
func (g *Graph) RunPhase(h Handle, phase Phase) {
	n := 0
	g.walkAttributes(h, func(ah Handle, a *Attribute) {
		switch phase {
		case PhaseVectorize:
			if a.vectorize() {
				n++
			}
		case PhaseOptimizeAttributes:
			if g.referenceFlags(ah, make(map[Handle]bool))&(FlagReference|FlagConstant) != 0 {
				n++
			}
		}
	})
	Logger().Debug("optimization phase done",
		slog.String("phase", phase.String()),
		slog.String("root", g.EntityPath(h, 0)),
		slog.Int("attributes", n))
}

// Vectorize runs PhaseVectorize.
func (g *Graph) Vectorize(root Handle) {
	g.RunPhase(root, PhaseVectorize)
}

// ElideAttributes runs PhaseOptimizeAttributes.
func (g *Graph) ElideAttributes(root Handle) {
	g.RunPhase(root, PhaseOptimizeAttributes)
}

func (g *Graph) walkAttributes(h Handle, fn func(Handle, *Attribute)) {
	switch e := g.Entity(h).(type) {
	case *Attribute:
		fn(h, e)
	case *Tree:
		for _, c := range g.Children(h) {
			g.walkAttributes(c.Handle, fn)
		}
	}
}

// vectorize replaces the initializers of a vector attribute by one
// whole-value initializer. It reports whether a has a vector type and
// initializers.
func (a *Attribute) vectorize() bool {
	info := layout.ParseMatrixInfo(a.Type)
	if info.Rows < 2 || info.Columns != 1 || len(a.initializers) == 0 {
		return false
	}
	rows := min(info.Rows, 4)
	inits := a.componentInits(rows)
	for i := range rows {
		if inits[i].value == "" {
			inits[i] = componentInit{value: zeroLiteral(info.Scalar), dimension: 1}
		}
	}

	value := inits[0].value
	equal, scalar, ordered := true, true, true
	for i := range rows {
		equal = equal && inits[i].value == value
		scalar = scalar && inits[i].dimension == 1
		ordered = ordered && inits[i].index == i
	}
	switch {
	case equal && scalar:
		value = "splat" + strconv.Itoa(rows) + "(" + value + ")"
	case equal && ordered:
		// all components of the same vector in order
	default:
		parts := make([]string, rows)
		for i := range rows {
			parts[i] = inits[i].value
			if inits[i].dimension != 1 {
				parts[i] += "." + swizzle[inits[i].index:inits[i].index+1]
			}
		}
		value = "vector" + strconv.Itoa(rows) + "(" + strings.Join(parts, ", ") + ")"
	}

	a.initializers = map[string]string{"": value}
	return true
}

// referenceFlags marks h as reference or constant if possible and returns
// FlagReference and FlagConstant as they hold at the end of its reference
// chain. active guards against connection cycles.
func (g *Graph) referenceFlags(h Handle, active map[Handle]bool) Flags {
	a := g.Attribute(h)
	if active[h] {
		return 0
	}
	active[h] = true
	defer delete(active, h)

	// the whole attribute is connected, not only a component
	if len(a.connections) == 1 && a.connections[0].Key == "" {
		src := a.connections[0].Connection.Source
		srcAttr := g.Attribute(src)
		flags := g.referenceFlags(src, active)

		// interface attributes stay accessible, and an outer scope must
		// not reference into an inner scope
		if a.Flags&FlagInterface == 0 && srcAttr.Scope <= a.Scope &&
			(flags&FlagConstant != 0 || g.Root(src) == g.Root(h)) {
			a.Flags |= FlagReference
			return flags | FlagReference
		}
	}

	if a.Flags&(FlagOutput|FlagReference|FlagInterface) == 0 && len(a.connections) == 0 {
		if _, ok := a.initializers[""]; ok && len(a.initializers) == 1 {
			a.Flags |= FlagConstant
			return FlagConstant
		}
	}
	return 0
}
