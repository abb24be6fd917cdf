package diagfmt

import "linkdiag/internal/source"

// displayOrigin formats the log a diagnostic came from. Origins that are not
// part of logs are returned as is.
func displayOrigin(origin string, logs *source.LogSet, mode PathMode) string {
	if origin == "" || logs == nil {
		return origin
	}
	log, ok := logs.GetByPath(origin)
	if !ok {
		return origin
	}
	return log.FormatPath(mode.String(), logs.BaseDir())
}

func limit(n, max int) int {
	if max > 0 && max < n {
		return max
	}
	return n
}
