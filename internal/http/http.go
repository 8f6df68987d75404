package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"shopdash/internal/services/filter"
)

// WriteJSON sends a JSON response
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteError sends an error response as JSON
func WriteError(w http.ResponseWriter, message string, statusCode int) {
	WriteJSON(w, statusCode, map[string]string{"error": message})
}

// ParseSelection builds a filter selection from query parameters, falling
// back to the recommended defaults over the dataset's date bounds. A
// malformed date is an invalid selection; the pipeline must not run on it.
func ParseSelection(query url.Values, minDate, maxDate time.Time) (filter.Selection, error) {
	sel := filter.DefaultSelection(minDate, maxDate)

	if startStr := query.Get("start"); startStr != "" {
		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return sel, fmt.Errorf("%w: bad start date %q", filter.ErrInvalidSelection, startStr)
		}
		sel.From = start
	}

	if endStr := query.Get("end"); endStr != "" {
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return sel, fmt.Errorf("%w: bad end date %q", filter.ErrInvalidSelection, endStr)
		}
		sel.To = end
	}

	if cats, ok := multiValue(query, "categories"); ok {
		sel.Categories = cats
	}

	if segs, ok := multiValue(query, "segments"); ok {
		sel.Segments = segs
	}

	if thresholdStr := query.Get("churn_threshold"); thresholdStr != "" {
		threshold, err := strconv.Atoi(thresholdStr)
		if err != nil {
			return sel, fmt.Errorf("%w: bad churn threshold %q", filter.ErrInvalidSelection, thresholdStr)
		}
		sel.ChurnThreshold = filter.ClampThreshold(threshold)
	}

	return sel, nil
}

// multiValue reads a multi-select parameter, accepting both repeated keys
// and comma-separated lists. The second return distinguishes "absent" (use
// the default) from "present but empty" (an explicit empty selection).
func multiValue(query url.Values, key string) ([]string, bool) {
	raw, present := query[key]
	if !present {
		return nil, false
	}

	var values []string
	for _, item := range raw {
		for _, v := range strings.Split(item, ",") {
			v = strings.TrimSpace(v)
			if v != "" {
				values = append(values, v)
			}
		}
	}
	return values, true
}
