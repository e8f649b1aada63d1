package regexcache

import (
	"regexp"
	"strings"
)

var templateGroupPattern = regexp.MustCompile(`\$(\d)`)

func fullPattern(pattern string) string   { return "^(?:" + pattern + ")$" }
func prefixPattern(pattern string) string { return "^(?:" + pattern + ")" }

// ConvertTemplate rewrites the `$N` group references used by metadata templates into the `${N}` form
// understood by regexp.Expand, so that a reference directly followed by a digit or letter stays unambiguous.
func ConvertTemplate(template string) string {
	return templateGroupPattern.ReplaceAllString(template, "$${$1}")
}

// FullMatch reports whether pattern matches the whole of s.
func (c *Cache) FullMatch(pattern, s string) bool {
	compiled, err := c.Get(fullPattern(pattern))
	if err != nil {
		return false
	}
	return compiled.MatchString(s)
}

// PartialMatch reports whether pattern matches anywhere in s, and returns its capturing groups.
// Groups that did not participate in the match are returned as empty strings.
func (c *Cache) PartialMatch(pattern, s string) ([]string, bool) {
	compiled, err := c.Get(pattern)
	if err != nil {
		return nil, false
	}
	submatches := compiled.FindStringSubmatch(s)
	if submatches == nil {
		return nil, false
	}
	return submatches[1:], true
}

// Consume matches pattern at the start of s. On success it returns the remainder of s after the match,
// along with the capturing groups.
func (c *Cache) Consume(pattern, s string) (string, []string, bool) {
	compiled, err := c.Get(prefixPattern(pattern))
	if err != nil {
		return s, nil, false
	}
	submatches := compiled.FindStringSubmatchIndex(s)
	if submatches == nil {
		return s, nil, false
	}
	groups := make([]string, 0, len(submatches)/2-1)
	for i := 2; i < len(submatches); i += 2 {
		if submatches[i] < 0 {
			groups = append(groups, "")
			continue
		}
		groups = append(groups, s[submatches[i]:submatches[i+1]])
	}
	return s[submatches[1]:], groups, true
}

// NumGroups returns the number of capturing groups in pattern, or -1 if it does not compile.
func (c *Cache) NumGroups(pattern string) int {
	compiled, err := c.Get(pattern)
	if err != nil {
		return -1
	}
	return compiled.NumSubexp()
}

// ReplaceFirst replaces the first match of pattern in s with template, expanding `$N` references.
// It returns s unchanged and false when pattern does not match.
func (c *Cache) ReplaceFirst(pattern, s, template string) (string, bool) {
	compiled, err := c.Get(pattern)
	if err != nil {
		return s, false
	}
	submatches := compiled.FindStringSubmatchIndex(s)
	if submatches == nil {
		return s, false
	}
	var b strings.Builder
	b.WriteString(s[:submatches[0]])
	b.Write(compiled.ExpandString(nil, ConvertTemplate(template), s, submatches))
	b.WriteString(s[submatches[1]:])
	return b.String(), true
}

// ReplaceAll replaces every match of pattern in s with template, expanding `$N` references.
func (c *Cache) ReplaceAll(pattern, s, template string) string {
	compiled, err := c.Get(pattern)
	if err != nil {
		return s
	}
	return compiled.ReplaceAllString(s, ConvertTemplate(template))
}

// FindAndConsume returns, from left to right, up to n successive matches of pattern in s.
// When pattern has a capturing group, the first group is returned instead of the whole match.
// A negative n returns every match.
func (c *Cache) FindAndConsume(pattern, s string, n int) []string {
	compiled, err := c.Get(pattern)
	if err != nil {
		return nil
	}
	var found []string
	for _, submatches := range compiled.FindAllStringSubmatch(s, n) {
		if len(submatches) > 1 {
			found = append(found, submatches[1])
			continue
		}
		found = append(found, submatches[0])
	}
	return found
}
