package authz

import "strings"

// MatchPattern reports whether an Ant-style pattern covers the request path.
// Supported grammar, applied per path segment:
//
//	*       any sequence of characters within one segment
//	?       exactly one character
//	{name}  exactly one segment, value ignored
//	**      zero or more whole segments
//
// Patterns are a restricted glob grammar, never compiled to regexp, so rule
// content cannot inject expression syntax. Matching is case-sensitive.
func MatchPattern(pattern, path string) bool {
	return matchSegments(splitPath(pattern), splitPath(path))
}

func splitPath(s string) []string {
	s = strings.Trim(s, "/")
	if s == "" {
		return nil
	}
	return strings.Split(s, "/")
}

func matchSegments(pattern, path []string) bool {
	if len(pattern) == 0 {
		return len(path) == 0
	}
	if pattern[0] == "**" {
		// ** swallows zero or more segments.
		for skip := 0; skip <= len(path); skip++ {
			if matchSegments(pattern[1:], path[skip:]) {
				return true
			}
		}
		return false
	}
	if len(path) == 0 {
		return false
	}
	if !matchSegment(pattern[0], path[0]) {
		return false
	}
	return matchSegments(pattern[1:], path[1:])
}

func matchSegment(pattern, segment string) bool {
	if len(pattern) > 1 && strings.HasPrefix(pattern, "{") && strings.HasSuffix(pattern, "}") {
		// Named variable: binds the whole segment, value irrelevant here.
		return true
	}
	return matchGlob(pattern, segment)
}

// matchGlob matches '*' and '?' wildcards within a single segment using
// backtracking over the last star position.
func matchGlob(pattern, s string) bool {
	pi, si := 0, 0
	star, mark := -1, 0
	for si < len(s) {
		switch {
		case pi < len(pattern) && (pattern[pi] == '?' || pattern[pi] == s[si]):
			pi++
			si++
		case pi < len(pattern) && pattern[pi] == '*':
			star = pi
			mark = si
			pi++
		case star >= 0:
			pi = star + 1
			mark++
			si = mark
		default:
			return false
		}
	}
	for pi < len(pattern) && pattern[pi] == '*' {
		pi++
	}
	return pi == len(pattern)
}
