// Package rules is the fixed GTFS validator catalog.
//
// Every validator here is a pure function of the feed and the run
// configuration. Each one checks its own preconditions (file present, file
// usable, column authored) and returns silently when they do not hold.
package rules

import (
	"strconv"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/notice"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/validator"
)

// All returns the validator catalog in registration order.
func All() []validator.Validator {
	families := [][]validator.Validator{
		PresenceValidators(),
		DuplicateKeyValidators(),
		EntityValidators(),
		ForeignKeyValidators(),
		TemporalValidators(),
		StopTimeValidators(),
		ShapeValidators(),
		PathwayValidators(),
		ConditionalValidators(),
		VendorValidators(),
		ThoroughValidators(),
	}
	var all []validator.Validator
	for _, f := range families {
		all = append(all, f...)
	}
	return all
}

// NewRegistry returns a registry holding the full catalog.
func NewRegistry() *validator.Registry {
	return validator.NewRegistry(All()...)
}

// rowNotice starts a notice about one row of a CSV file.
func rowNotice(code string, sev notice.Severity, msg, file string, row int) *notice.Notice {
	return notice.New(code, sev, msg).
		At(file, row).
		Str("filename", file).
		Int("csvRowNumber", row)
}

// fileNotice starts a notice about a file as a whole.
func fileNotice(code string, sev notice.Severity, msg, file string) *notice.Notice {
	return notice.New(code, sev, msg).
		At(file, 0).
		Str("filename", file)
}

func missingField(file string, row int, field string) *notice.Notice {
	return rowNotice(CodeMissingRequiredField, notice.Error, "conditionally required field has no value", file, row).
		Str("fieldName", field)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
