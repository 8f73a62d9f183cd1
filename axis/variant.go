package axis

// Kind identifies which representation a Variant holds.
type Kind uint8

const (
	KindUniform Kind = iota
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindUniform:
		return "uniform"
	case KindList:
		return "list"
	}
	return "unknown"
}

// Variant holds either a Uniform or a List axis, chosen at configuration
// time. Every method dispatches on the kind.
type Variant[E Edge] struct {
	kind    Kind
	uniform Uniform[E]
	list    List[E]
}

func FromUniform[E Edge](u Uniform[E]) Variant[E] {
	return Variant[E]{kind: KindUniform, uniform: u}
}

func FromList[E Edge](l List[E]) Variant[E] {
	return Variant[E]{kind: KindList, list: l}
}

func (v Variant[E]) Kind() Kind { return v.kind }

// Uniform returns the held uniform axis and whether the variant holds one.
func (v Variant[E]) Uniform() (Uniform[E], bool) { return v.uniform, v.kind == KindUniform }

// List returns the held list axis and whether the variant holds one.
func (v Variant[E]) List() (List[E], bool) { return v.list, v.kind == KindList }

func (v Variant[E]) NBins() int {
	switch v.kind {
	case KindUniform:
		return v.uniform.NBins()
	default:
		return v.list.NBins()
	}
}

func (v Variant[E]) NDiv() int {
	switch v.kind {
	case KindUniform:
		return v.uniform.NDiv()
	default:
		return v.list.NDiv()
	}
}

func (v Variant[E]) NEdges() int {
	switch v.kind {
	case KindUniform:
		return v.uniform.NEdges()
	default:
		return v.list.NEdges()
	}
}

func (v Variant[E]) Edge(i int) E {
	switch v.kind {
	case KindUniform:
		return v.uniform.Edge(i)
	default:
		return v.list.Edge(i)
	}
}

func (v Variant[E]) Min() E {
	switch v.kind {
	case KindUniform:
		return v.uniform.Min()
	default:
		return v.list.Min()
	}
}

func (v Variant[E]) Max() E {
	switch v.kind {
	case KindUniform:
		return v.uniform.Max()
	default:
		return v.list.Max()
	}
}

func (v Variant[E]) Lower(i int) E {
	switch v.kind {
	case KindUniform:
		return v.uniform.Lower(i)
	default:
		return v.list.Lower(i)
	}
}

func (v Variant[E]) Upper(i int) E {
	switch v.kind {
	case KindUniform:
		return v.uniform.Upper(i)
	default:
		return v.list.Upper(i)
	}
}

func (v Variant[E]) FindBinIndex(x E) int {
	switch v.kind {
	case KindUniform:
		return v.uniform.FindBinIndex(x)
	default:
		return v.list.FindBinIndex(x)
	}
}

func (v Variant[E]) Edges() []E {
	switch v.kind {
	case KindUniform:
		return v.uniform.Edges()
	default:
		return v.list.Edges()
	}
}
