package structure

import "strings"

// Locate finds elements matching name. A qualified path (one containing a
// separator) that matches exactly wins; otherwise every element with that bare
// name is returned, shallower elements first; failing that, the bare name is
// compared case-insensitively. The result is empty, never nil, when nothing
// matches. Multiple matches are returned as-is so the caller can decide how to
// disambiguate.
func Locate(roots []*Element, name string) []*Element {
	if name == "" {
		return []*Element{}
	}

	if strings.ContainsAny(name, ".#") {
		var byPath []*Element
		Walk(roots, func(e *Element) bool {
			if e.Path == name {
				byPath = append(byPath, e)
			}
			return true
		})
		if len(byPath) > 0 {
			return byPath
		}
	}

	if found := breadthFirst(roots, func(e *Element) bool { return e.Name == name }); len(found) > 0 {
		return found
	}
	return breadthFirst(roots, func(e *Element) bool { return strings.EqualFold(e.Name, name) })
}

// breadthFirst returns matching elements level by level, in source order
// within a level.
func breadthFirst(roots []*Element, match func(*Element) bool) []*Element {
	found := []*Element{}
	level := roots
	for len(level) > 0 {
		var next []*Element
		for _, e := range level {
			if match(e) {
				found = append(found, e)
			}
			next = append(next, e.Children...)
		}
		level = next
	}
	return found
}
