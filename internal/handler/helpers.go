package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// parseWeekParams reads the {year} and {week} path values. Week numbers
// follow ISO 8601, so 1 through 53.
func parseWeekParams(r *http.Request) (year, week int, err error) {
	year, err = strconv.Atoi(r.PathValue("year"))
	if err != nil || year < 1 {
		return 0, 0, fmt.Errorf("invalid year")
	}
	week, err = strconv.Atoi(r.PathValue("week"))
	if err != nil || week < 1 || week > 53 {
		return 0, 0, fmt.Errorf("invalid week")
	}
	return year, week, nil
}
