package val

import (
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

//nolint:gochecknoglobals // compiled once
var sortExprRe = regexp.MustCompile(`^\s*\w+\s*:\s*(?i:asc|desc)\s*(,\s*\w+\s*:\s*(?i:asc|desc)\s*)*$`)

// registerCustomValidations wires project-specific validation tags into the
// shared validator instance.
func registerCustomValidations(v *validator.Validate) {
	_ = v.RegisterValidation("cron", isCronExpr)
	_ = v.RegisterValidation("sort_expr", isSortExpr)
}

// isCronExpr checks that the field holds a standard five-field cron expression.
func isCronExpr(fl validator.FieldLevel) bool {
	parser := cron.NewParser(
		cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
	)
	_, err := parser.Parse(fl.Field().String())
	return err == nil
}

// isSortExpr checks that the field holds a "field:asc,other:desc" style
// sorting expression as understood by the sorter package.
func isSortExpr(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	return sortExprRe.MatchString(s)
}
