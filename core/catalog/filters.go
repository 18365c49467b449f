package catalog

import (
	"audiolab/filter"
)

// RecorderListParams is the raw filter parameter bag of a recorder
// listing. Empty values mean the dimension is absent.
type RecorderListParams struct {
	SeriesUIDs  []string
	CreatedFrom string
	CreatedTo   string
	Busy        string
}

// SeriesListParams is the raw filter parameter bag of a series listing.
// The numeric dimensions are resolved through recording parameters.
type SeriesListParams struct {
	RecorderUIDs   []string
	ParametersUIDs []string
	CreatedFrom    string
	CreatedTo      string
	Samplerate     []string
	Channels       []string
	Duration       []string
	Amplification  []string
}

// ParametersListParams is the raw filter parameter bag of a preset
// listing.
type ParametersListParams struct {
	CreatedFrom   string
	CreatedTo     string
	Samplerate    []string
	Channels      []string
	Duration      []string
	Amplification []string
}

// RecordListParams is the raw filter parameter bag of a record listing.
type RecordListParams struct {
	SeriesUIDs   []string
	LabelUIDs    []string
	RecordedFrom string
	RecordedTo   string
	Uploaded     string
	Labeled      string
}

// LabelListParams is the raw filter parameter bag of a label listing.
type LabelListParams struct {
	CreatedFrom string
	CreatedTo   string
}

// appendDateRange compiles an optional created/recorded range onto the
// filter list.
func appendDateRange(filters []filter.Filter, column, from, to string) ([]filter.Filter, error) {
	if from == "" && to == "" {
		return filters, nil
	}
	f, t, err := filter.ParseRange(from, to)
	if err != nil {
		return nil, err
	}
	return append(filters, filter.DateRange{Column: column, From: f, To: t}), nil
}

// appendPresence compiles an optional boolean presence dimension onto
// the filter list.
func appendPresence(filters []filter.Filter, column, name, raw string) ([]filter.Filter, error) {
	if raw == "" {
		return filters, nil
	}
	present, err := filter.ParseBool(name, raw)
	if err != nil {
		return nil, err
	}
	return append(filters, filter.Presence{Column: column, Present: present}), nil
}

// appendBuckets compiles an optional numeric-bucket dimension onto the
// filter list.
func appendBuckets(filters []filter.Filter, column, name string, raw []string) ([]filter.Filter, error) {
	if len(raw) == 0 {
		return filters, nil
	}
	values, err := filter.ParseNumericValues(name, raw)
	if err != nil {
		return nil, err
	}
	return append(filters, filter.NumericBucket{Column: column, Values: values}), nil
}

// parametersFilters compiles the preset dimensions shared by parameter
// and series listings.
func parametersFilters(createdFrom, createdTo string, samplerate, channels, duration, amplification []string) ([]filter.Filter, error) {
	filters, err := appendDateRange(nil, "created_at", createdFrom, createdTo)
	if err != nil {
		return nil, err
	}
	for _, dim := range []struct {
		column string
		raw    []string
	}{
		{"samplerate", samplerate},
		{"channels", channels},
		{"duration", duration},
		{"amplification", amplification},
	} {
		filters, err = appendBuckets(filters, dim.column, dim.column, dim.raw)
		if err != nil {
			return nil, err
		}
	}
	return filters, nil
}
