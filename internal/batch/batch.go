// Package batch expands compact batch specifications like "A1-A10,C1-C3"
// or "F7F8" into explicit batch lists and answers inclusion questions.
package batch

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// maxRange bounds how many batches a single range may produce. Larger
// ranges are treated as one opaque batch name.
const maxRange = 1000

var (
	concatenated = regexp.MustCompile(`^(?:[A-Z]+\d+){2,}$`)
	concatPart   = regexp.MustCompile(`[A-Z]+\d+`)
	leadLetters  = regexp.MustCompile(`^[A-Z]+`)
	digitsOnly   = regexp.MustCompile(`^\d+$`)
	number       = regexp.MustCompile(`\d+`)
)

// Expander expands batch specifications for one campus.
type Expander struct {
	// Defaults is the set an empty spec expands to.
	Defaults []string
	// Aliases are whole-campus words (e.g. ALL) that also expand to Defaults.
	Aliases []string
}

// Expand turns a spec into an ordered batch list. Specs are upper-cased
// first. It never fails: anything it cannot interpret comes back as a
// single opaque batch.
func (e Expander) Expand(spec string) []string {
	spec = strings.ToUpper(strings.TrimSpace(spec))
	if spec == "" || e.isAlias(spec) {
		return append([]string(nil), e.Defaults...)
	}

	if concatenated.MatchString(spec) {
		return concatPart.FindAllString(spec, -1)
	}

	if IsAlpha(spec) {
		out := make([]string, 0, len(spec))
		for _, r := range spec {
			out = append(out, string(r))
		}
		return out
	}

	if strings.Contains(spec, ",") {
		return expandList(spec)
	}

	if strings.Contains(spec, "-") {
		if out, ok := expandRange(spec); ok {
			return out
		}
	}

	return []string{spec}
}

// Included reports whether batch belongs to the batches described by spec.
// An empty spec includes everyone, and a single-letter batch in the
// expansion includes every batch starting with that letter.
func (e Expander) Included(batch, spec string) bool {
	if strings.TrimSpace(spec) == "" {
		return true
	}
	batch = strings.ToUpper(strings.TrimSpace(batch))
	for _, b := range e.Expand(spec) {
		if b == batch {
			return true
		}
		if len(b) == 1 && batch != "" && b[0] == batch[0] {
			return true
		}
	}
	return false
}

func (e Expander) isAlias(spec string) bool {
	for _, a := range e.Aliases {
		if strings.EqualFold(strings.TrimSpace(a), spec) {
			return true
		}
	}
	return false
}

// expandList handles comma separated specs. Bare numbers inherit the
// letter prefix of the most recent lettered segment.
func expandList(spec string) []string {
	var out []string
	prefix := ""
	for _, seg := range strings.Split(spec, ",") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		if digitsOnly.MatchString(seg) {
			if prefix != "" {
				out = append(out, prefix+seg)
			} else {
				out = append(out, seg)
			}
			continue
		}
		if p := leadLetters.FindString(seg); p != "" {
			prefix = p
		}
		if strings.Contains(seg, "-") {
			if r, ok := expandRange(seg); ok {
				out = append(out, r...)
				continue
			}
		}
		out = append(out, seg)
	}
	return out
}

// expandRange expands "A1-A10" (or "A1-10") into A1..A10. The prefix comes
// from the first part; the bounds are the first and last numbers found.
func expandRange(spec string) ([]string, bool) {
	parts := strings.Split(spec, "-")
	prefix := leadLetters.FindString(strings.TrimSpace(parts[0]))
	if prefix == "" {
		return nil, false
	}
	var nums []int
	for _, p := range parts {
		if m := number.FindString(p); m != "" {
			n, err := strconv.Atoi(m)
			if err != nil {
				return nil, false
			}
			nums = append(nums, n)
		}
	}
	if len(nums) == 0 {
		return nil, false
	}
	lo, hi := nums[0], nums[len(nums)-1]
	if hi-lo >= maxRange {
		return nil, false
	}
	out := make([]string, 0, max(hi-lo+1, 0))
	for n := lo; n <= hi; n++ {
		out = append(out, prefix+strconv.Itoa(n))
	}
	return out, true
}

// IsAlpha reports whether s is non-empty and made only of letters.
func IsAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
