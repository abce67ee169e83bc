// Package route defines the compiled route model and its matching-precedence
// order. Routes are produced by discovery and consumed by an external router;
// this package only guarantees they arrive in a deterministic, most-specific
// first order.
package route

import (
	"sort"
	"strings"
)

// Route is one compiled route contributed by a feature module. Path segments
// starting with ':' are parameters.
type Route struct {
	Feature   string
	Path      string
	Rendering string
}

// Segments splits a path into its non-empty segments.
func Segments(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// Params returns the parameter names declared in a path, in order.
func Params(path string) []string {
	var params []string
	for _, seg := range Segments(path) {
		if strings.HasPrefix(seg, ":") {
			params = append(params, strings.TrimPrefix(seg, ":"))
		}
	}
	return params
}

// staticCount returns the number of non-parameterized segments in a path.
func staticCount(path string) int {
	count := 0
	for _, seg := range Segments(path) {
		if !strings.HasPrefix(seg, ":") {
			count++
		}
	}
	return count
}

// Sort orders routes by matching precedence: more segments first, then more
// static (non-parameterized) segments, then lexicographic path as the final
// tie-break so the order is total and deterministic.
func Sort(routes []Route) {
	sort.SliceStable(routes, func(i, j int) bool {
		si, sj := Segments(routes[i].Path), Segments(routes[j].Path)
		if len(si) != len(sj) {
			return len(si) > len(sj)
		}
		ci, cj := staticCount(routes[i].Path), staticCount(routes[j].Path)
		if ci != cj {
			return ci > cj
		}
		return routes[i].Path < routes[j].Path
	})
}
