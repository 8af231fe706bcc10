package codelab

import "fmt"

// nameSet tracks the cell names already assigned within one document build.
type nameSet map[string]struct{}

// claim returns base unchanged when it is free, otherwise the first
// "base N" variant (N = 2, 3, ...) not yet taken, and records the result.
func (s nameSet) claim(base string) string {
	name := base
	for suffix := 2; ; suffix++ {
		if _, taken := s[name]; !taken {
			s[name] = struct{}{}
			return name
		}
		name = fmt.Sprintf("%s %d", base, suffix)
	}
}
