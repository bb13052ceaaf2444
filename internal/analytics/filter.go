package analytics

import (
	"net/url"
	"strconv"
	"strings"

	"Furnace/internal/calc/balance"
	"Furnace/internal/record"
)

// Filter selects experiments of one process.
type Filter interface {
	Match(record.Experiment) bool
}

func Apply(exps []record.Experiment, f Filter) []record.Experiment {
	if f == nil {
		return exps
	}
	out := make([]record.Experiment, 0, len(exps))
	for _, e := range exps {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

type FlotationFilter struct {
	Configuration  string
	MinExtraction  *float64
	MaxExtraction  *float64
	Microflotation bool
}

func (f FlotationFilter) Match(e record.Experiment) bool {
	if f.Configuration != "" && !strings.Contains(strings.ToLower(e.Tag("configuration")), strings.ToLower(f.Configuration)) {
		return false
	}
	if f.Microflotation && !e.Flag("is_microflotation") {
		return false
	}
	x := e.Metric("extraction")
	if f.MinExtraction != nil && x < *f.MinExtraction {
		return false
	}
	if f.MaxExtraction != nil && x > *f.MaxExtraction {
		return false
	}
	return true
}

type LeachingFilter struct {
	AcidType      string
	HasOxygen     *bool
	MinExtraction *float64
}

func (f LeachingFilter) Match(e record.Experiment) bool {
	if f.AcidType != "" && e.Tag("acid_type") != f.AcidType {
		return false
	}
	if f.HasOxygen != nil && e.Flag("has_oxygen") != *f.HasOxygen {
		return false
	}
	if f.MinExtraction != nil && moToSolution(e) < *f.MinExtraction {
		return false
	}
	return true
}

type SorptionFilter struct {
	AnioniteType string
	Temperature  *float64
}

func (f SorptionFilter) Match(e record.Experiment) bool {
	if f.AnioniteType != "" && e.Tag("anionite_type") != f.AnioniteType {
		return false
	}
	if f.Temperature != nil && e.Metric("temperature") != *f.Temperature {
		return false
	}
	return true
}

// ParseFilter reads the list filters of a process from query parameters.
// Antimony has none.
func ParseFilter(p record.Process, q url.Values) (Filter, error) {
	switch p {
	case record.ProcessFlotation:
		f := FlotationFilter{Configuration: strings.TrimSpace(q.Get("configuration"))}
		var err error
		if f.MinExtraction, err = optionalNumber(q, "min_extraction"); err != nil {
			return nil, err
		}
		if f.MaxExtraction, err = optionalNumber(q, "max_extraction"); err != nil {
			return nil, err
		}
		f.Microflotation = truthy(q.Get("microflotation"))
		return f, nil
	case record.ProcessLeaching:
		f := LeachingFilter{AcidType: q.Get("acid_type")}
		switch q.Get("has_oxygen") {
		case "1", "true":
			f.HasOxygen = ptr(true)
		case "0", "false":
			f.HasOxygen = ptr(false)
		}
		var err error
		if f.MinExtraction, err = optionalNumber(q, "min_extraction"); err != nil {
			return nil, err
		}
		return f, nil
	case record.ProcessSorption:
		f := SorptionFilter{AnioniteType: q.Get("anionite_type")}
		var err error
		if f.Temperature, err = optionalNumber(q, "temperature"); err != nil {
			return nil, err
		}
		return f, nil
	}
	return nil, nil
}

func optionalNumber(q url.Values, key string) (*float64, error) {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return nil, nil
	}
	v, ok := balance.ParseNumber(s)
	if !ok {
		return nil, &balance.FieldError{Field: key, Reason: "malformed number " + strconv.Quote(s)}
	}
	return &v, nil
}

// truthy treats any value except empty, "0" and "false" as set.
func truthy(s string) bool {
	return s != "" && s != "0" && !strings.EqualFold(s, "false")
}

func ptr[T any](v T) *T { return &v }
