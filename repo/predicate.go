package repo

// Op is a comparison operator in a predicate leaf.
type Op string

const (
	Eq       Op = "eq"
	NotEq    Op = "not_eq"
	Gt       Op = "gt"
	Gte      Op = "gte"
	Lt       Op = "lt"
	Lte      Op = "lte"
	In       Op = "in"
	Contains Op = "contains" // substring match on string fields
	IsNull   Op = "is_null"
	NotNull  Op = "not_null"
)

// PredicateKind discriminates the node variants of a predicate tree.
type PredicateKind string

const (
	KindLeaf PredicateKind = "leaf"
	KindAnd  PredicateKind = "and"
	KindOr   PredicateKind = "or"
	KindNot  PredicateKind = "not"
)

// Predicate is one node of a store-agnostic condition tree.
// A nil *Predicate means "no filter".
//
// Leaf nodes carry Field, Op and Value; combinator nodes carry Subs.
// Field names the storage column (or struct field in the in-memory adapter),
// never a rendered SQL fragment, so the same tree is portable across adapters.
type Predicate struct {
	Kind  PredicateKind
	Field string
	Op    Op
	Value any
	Subs  []*Predicate
}

// Where builds a leaf condition comparing a field against a value.
func Where(field string, op Op, value any) *Predicate {
	return &Predicate{Kind: KindLeaf, Field: field, Op: op, Value: value}
}

// And combines sub-predicates; all must hold. Nil subs are skipped.
// Returns nil when nothing remains.
func And(subs ...*Predicate) *Predicate {
	return combine(KindAnd, subs)
}

// Or combines sub-predicates; at least one must hold. Nil subs are skipped.
// Returns nil when nothing remains.
func Or(subs ...*Predicate) *Predicate {
	return combine(KindOr, subs)
}

// Not negates a predicate. Not(nil) is nil.
func Not(p *Predicate) *Predicate {
	if p == nil {
		return nil
	}
	return &Predicate{Kind: KindNot, Subs: []*Predicate{p}}
}

func combine(kind PredicateKind, subs []*Predicate) *Predicate {
	kept := make([]*Predicate, 0, len(subs))
	for _, s := range subs {
		if s != nil {
			kept = append(kept, s)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	default:
		return &Predicate{Kind: kind, Subs: kept}
	}
}
