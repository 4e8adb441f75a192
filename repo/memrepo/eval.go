package memrepo

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/code19m/errx"
	"github.com/spf13/cast"

	"github.com/clearstack/pkg/repo"
)

const codeInvalidPredicate = "INVALID_PREDICATE"

// fieldByColumn resolves a predicate column name against an entity value.
// A bun tag column name wins; otherwise the Go field name is matched with
// case and underscores ignored, so "created_at" finds CreatedAt.
func fieldByColumn(entity any, column string) (any, bool) {
	v := reflect.ValueOf(entity)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, false
	}

	norm := normalizeName(column)
	t := v.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if bunColumn(f) == column || normalizeName(f.Name) == norm {
			return v.Field(i).Interface(), true
		}
	}
	return nil, false
}

func bunColumn(f reflect.StructField) string {
	tag := f.Tag.Get("bun")
	if tag == "" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	return name
}

func normalizeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "_", "")
}

// evalPredicate reports whether the entity satisfies the condition tree.
// A nil tree matches everything.
func evalPredicate[E any](entity E, p *repo.Predicate) (bool, error) {
	if p == nil {
		return true, nil
	}

	switch p.Kind {
	case repo.KindLeaf:
		return evalLeaf(entity, p)
	case repo.KindAnd:
		for _, sub := range p.Subs {
			ok, err := evalPredicate(entity, sub)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case repo.KindOr:
		for _, sub := range p.Subs {
			ok, err := evalPredicate(entity, sub)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case repo.KindNot:
		ok, err := evalPredicate(entity, p.Subs[0])
		return !ok, err
	default:
		return false, errx.New(
			fmt.Sprintf("unknown predicate kind %q", p.Kind),
			errx.WithCode(codeInvalidPredicate),
		)
	}
}

func evalLeaf[E any](entity E, p *repo.Predicate) (bool, error) {
	value, found := fieldByColumn(entity, p.Field)
	if !found {
		return false, errx.New(
			fmt.Sprintf("entity has no field matching %q", p.Field),
			errx.WithCode(codeInvalidPredicate),
		)
	}

	switch p.Op {
	case repo.Eq:
		return equalValues(value, p.Value), nil
	case repo.NotEq:
		return !equalValues(value, p.Value), nil
	case repo.Gt, repo.Gte, repo.Lt, repo.Lte:
		return compareOrdered(value, p.Value, p.Op)
	case repo.In:
		return containedIn(value, p.Value), nil
	case repo.Contains:
		return strings.Contains(cast.ToString(value), cast.ToString(p.Value)), nil
	case repo.IsNull:
		return isNull(value), nil
	case repo.NotNull:
		return !isNull(value), nil
	default:
		return false, errx.New(
			fmt.Sprintf("unsupported predicate operator %q", p.Op),
			errx.WithCode(codeInvalidPredicate),
		)
	}
}

func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	af, aerr := cast.ToFloat64E(a)
	bf, berr := cast.ToFloat64E(b)
	if aerr == nil && berr == nil {
		return af == bf
	}
	return cast.ToString(a) == cast.ToString(b)
}

func compareOrdered(a, b any, op repo.Op) (bool, error) {
	af, aerr := cast.ToFloat64E(a)
	bf, berr := cast.ToFloat64E(b)

	var cmp int
	if aerr == nil && berr == nil {
		cmp = compare(af, bf)
	} else {
		cmp = strings.Compare(cast.ToString(a), cast.ToString(b))
	}

	switch op {
	case repo.Gt:
		return cmp > 0, nil
	case repo.Gte:
		return cmp >= 0, nil
	case repo.Lt:
		return cmp < 0, nil
	case repo.Lte:
		return cmp <= 0, nil
	default:
		return false, errx.New(
			fmt.Sprintf("operator %q is not ordered", op),
			errx.WithCode(codeInvalidPredicate),
		)
	}
}

func compare(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func containedIn(value, set any) bool {
	rv := reflect.ValueOf(set)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return equalValues(value, set)
	}
	for i := range rv.Len() {
		if equalValues(value, rv.Index(i).Interface()) {
			return true
		}
	}
	return false
}

func isNull(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
		return rv.IsNil()
	default:
		return false
	}
}
