package manifest

import "strings"

// FilterOut returns the rows whose container name matches none of the
// patterns. Patterns support the usual wildcard forms:
//   - "prefix*" matches names starting with "prefix"
//   - "*suffix" matches names ending with "suffix"
//   - "*contains*" matches names containing "contains"
//   - "exact" matches names exactly
func FilterOut(rows map[string]Row, patterns []string) map[string]Row {
	if len(patterns) == 0 {
		return rows
	}
	result := make(map[string]Row)
	for name, row := range rows {
		omit := false
		for _, pattern := range patterns {
			if matchesPattern(name, pattern) {
				omit = true
				break
			}
		}
		if !omit {
			result[name] = row
		}
	}
	return result
}

// matchesPattern checks if a name matches a wildcard pattern.
func matchesPattern(name, pattern string) bool {
	// No wildcard - exact match
	if !strings.Contains(pattern, "*") {
		return name == pattern
	}

	// *contains* - contains match
	if strings.HasPrefix(pattern, "*") && strings.HasSuffix(pattern, "*") {
		substr := strings.Trim(pattern, "*")
		return strings.Contains(name, substr)
	}

	// *suffix - ends with match
	if strings.HasPrefix(pattern, "*") {
		suffix := strings.TrimPrefix(pattern, "*")
		return strings.HasSuffix(name, suffix)
	}

	// prefix* - starts with match
	if strings.HasSuffix(pattern, "*") {
		prefix := strings.TrimSuffix(pattern, "*")
		return strings.HasPrefix(name, prefix)
	}

	return false
}
