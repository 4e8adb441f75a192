package pgrepo

import (
	"fmt"
	"strings"

	"github.com/code19m/errx"
	"github.com/spf13/cast"
	"github.com/uptrace/bun"

	"github.com/clearstack/pkg/repo"
)

const codeInvalidPredicate = "INVALID_PREDICATE"

// renderPredicate converts a condition tree into a bun where expression with
// positional "?" placeholders and the matching argument list. Field names are
// rendered through bun.Ident, never interpolated into the SQL text.
func renderPredicate(p *repo.Predicate) (string, []any, error) {
	switch p.Kind {
	case repo.KindLeaf:
		return renderLeaf(p)
	case repo.KindAnd:
		return renderGroup(p.Subs, " AND ")
	case repo.KindOr:
		return renderGroup(p.Subs, " OR ")
	case repo.KindNot:
		expr, args, err := renderPredicate(p.Subs[0])
		if err != nil {
			return "", nil, err
		}
		return "NOT (" + expr + ")", args, nil
	default:
		return "", nil, errx.New(
			fmt.Sprintf("unknown predicate kind %q", p.Kind),
			errx.WithCode(codeInvalidPredicate),
		)
	}
}

func renderLeaf(p *repo.Predicate) (string, []any, error) {
	field := bun.Ident(p.Field)

	switch p.Op {
	case repo.Eq:
		return "? = ?", []any{field, p.Value}, nil
	case repo.NotEq:
		return "? != ?", []any{field, p.Value}, nil
	case repo.Gt:
		return "? > ?", []any{field, p.Value}, nil
	case repo.Gte:
		return "? >= ?", []any{field, p.Value}, nil
	case repo.Lt:
		return "? < ?", []any{field, p.Value}, nil
	case repo.Lte:
		return "? <= ?", []any{field, p.Value}, nil
	case repo.In:
		return "? IN (?)", []any{field, bun.In(p.Value)}, nil
	case repo.Contains:
		return "? LIKE ?", []any{field, "%" + cast.ToString(p.Value) + "%"}, nil
	case repo.IsNull:
		return "? IS NULL", []any{field}, nil
	case repo.NotNull:
		return "? IS NOT NULL", []any{field}, nil
	default:
		return "", nil, errx.New(
			fmt.Sprintf("unsupported predicate operator %q", p.Op),
			errx.WithCode(codeInvalidPredicate),
		)
	}
}

func renderGroup(subs []*repo.Predicate, sep string) (string, []any, error) {
	exprs := make([]string, 0, len(subs))
	var args []any

	for _, sub := range subs {
		expr, subArgs, err := renderPredicate(sub)
		if err != nil {
			return "", nil, err
		}
		exprs = append(exprs, "("+expr+")")
		args = append(args, subArgs...)
	}

	return strings.Join(exprs, sep), args, nil
}
