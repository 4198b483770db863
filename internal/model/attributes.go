package model

import (
	"sort"
	"strings"
)

const attributeLinePrefix = "> "

// EncodeAttributes renders attrs as a single attribute line:
//
//	> key=`value`,other=``va`lue``
//
// Keys are sorted. Every value is fenced by one backtick more than the
// longest backtick run it contains.
func EncodeAttributes(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(attributeLinePrefix)
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		v := attrs[k]
		fence := strings.Repeat("`", longestBacktickRun(v)+1)
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(fence)
		b.WriteString(v)
		b.WriteString(fence)
	}
	return b.String()
}

// DecodeAttributes parses an attribute line produced by EncodeAttributes.
// The boolean is false when the line is not an attribute line at all;
// unreadable fragments inside a recognized line are skipped.
func DecodeAttributes(line string) (map[string]string, bool) {
	payload, ok := attributePayload(line)
	if !ok {
		return nil, false
	}

	if result, ok := decodeCanonical(payload); ok {
		return result, true
	}

	result := make(map[string]string)
	for pos := 0; pos < len(payload); {
		key, value, next, ok := scanAttributePair(payload, pos)
		if !ok {
			pos++
			continue
		}
		result[key] = value
		pos = next
	}
	return result, true
}

// IsAttributeLine reports whether line has the attribute line shape.
func IsAttributeLine(line string) bool {
	_, ok := attributePayload(line)
	return ok
}

// ValidAttributeKey reports whether key survives an encode/decode round trip.
func ValidAttributeKey(key string) bool {
	if key == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		if isAttrSpace(c) || c == '=' || c == ',' || c == '`' {
			return false
		}
	}
	return true
}

// attributePayload isolates the text after "> " (leading blanks allowed).
func attributePayload(line string) (string, bool) {
	line = strings.TrimRight(line, "\r\n")
	i := 0
	for i < len(line) && isAttrSpace(line[i]) {
		i++
	}
	if i >= len(line) || line[i] != '>' {
		return "", false
	}
	i++
	if i >= len(line) || !isAttrSpace(line[i]) {
		return "", false
	}
	i++
	if i >= len(line) {
		return "", false
	}
	return line[i:], true
}

// decodeCanonical reads payload as a whole line in exactly the form
// EncodeAttributes writes: key=<fence>value<fence> pairs joined by commas,
// each fence one backtick longer than the longest run in its value. Fence
// lengths are chosen so that every later pair also reads cleanly up to the
// end of the line. Positions known to have no complete reading are skipped.
func decodeCanonical(payload string) (map[string]string, bool) {
	type pair struct{ key, value string }
	var pairs []pair
	dead := make(map[int]bool)

	var read func(pos int) bool
	read = func(pos int) bool {
		if dead[pos] {
			return false
		}
		eq := strings.IndexByte(payload[pos:], '=')
		if eq < 0 || !ValidAttributeKey(payload[pos:pos+eq]) {
			dead[pos] = true
			return false
		}
		key := payload[pos : pos+eq]
		q := pos + eq + 1
		run := 0
		for q+run < len(payload) && payload[q+run] == '`' {
			run++
		}

		for n := 1; n <= run; n++ {
			start := q + n
			for e := start; e+n <= len(payload); e++ {
				end := e + n
				if !isBacktickRun(payload, e, n) || (end < len(payload) && payload[end] == '`') {
					continue
				}
				v := payload[start:e]
				if longestBacktickRun(v)+1 != n {
					continue
				}
				if end == len(payload) {
					pairs = append(pairs, pair{key, v})
					return true
				}
				if payload[end] != ',' {
					continue
				}
				pairs = append(pairs, pair{key, v})
				if read(end + 1) {
					return true
				}
				pairs = pairs[:len(pairs)-1]
			}
		}
		dead[pos] = true
		return false
	}

	if !read(0) {
		return nil, false
	}
	result := make(map[string]string, len(pairs))
	for _, p := range pairs {
		result[p.key] = p.value
	}
	return result, true
}

// scanAttributePair reads one `[,]?\s*key\s*=\s*<fenced value>` starting at pos.
// The key is the shortest non-blank run that is followed by "=" and a fenced value.
func scanAttributePair(s string, pos int) (key, value string, next int, ok bool) {
	i := pos
	if i < len(s) && s[i] == ',' {
		i++
	}
	for i < len(s) && isAttrSpace(s[i]) {
		i++
	}
	keyStart := i
	for j := keyStart + 1; j <= len(s); j++ {
		if isAttrSpace(s[j-1]) {
			break
		}
		k := j
		for k < len(s) && isAttrSpace(s[k]) {
			k++
		}
		if k >= len(s) || s[k] != '=' {
			continue
		}
		k++
		for k < len(s) && isAttrSpace(s[k]) {
			k++
		}
		if k >= len(s) || s[k] != '`' {
			continue
		}
		if v, end, found := scanFencedValue(s, k); found {
			return s[keyStart:j], v, end, true
		}
	}
	return "", "", pos, false
}

// scanFencedValue reads a backtick-fenced value whose opening fence starts at q.
// A reading whose fence is exactly one longer than the longest inner run (the
// form EncodeAttributes produces) and whose closing fence ends the pair wins;
// otherwise the first structural match is used, the same one a non-greedy
// regular expression would pick.
func scanFencedValue(s string, q int) (value string, end int, ok bool) {
	run := 0
	for q+run < len(s) && s[q+run] == '`' {
		run++
	}

	fallbackFound := false
	var fallbackValue string
	var fallbackEnd int

	for n := run; n >= 1; n-- {
		start := q + n
		for e := start; e+n <= len(s); e++ {
			if !isBacktickRun(s, e, n) {
				continue
			}
			v := s[start:e]
			if !fallbackFound {
				fallbackFound, fallbackValue, fallbackEnd = true, v, e+n
			}
			closesRun := e+n == len(s) || s[e+n] != '`'
			if closesRun && endsPair(s, e+n) && longestBacktickRun(v)+1 == n {
				return v, e + n, true
			}
		}
	}
	if fallbackFound {
		return fallbackValue, fallbackEnd, true
	}
	return "", q, false
}

// endsPair reports whether only blanks separate at from a comma or the end.
func endsPair(s string, at int) bool {
	for at < len(s) && isAttrSpace(s[at]) {
		at++
	}
	return at == len(s) || s[at] == ','
}

func isBacktickRun(s string, at, n int) bool {
	for i := at; i < at+n; i++ {
		if s[i] != '`' {
			return false
		}
	}
	return true
}

func longestBacktickRun(s string) int {
	longest, current := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == '`' {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 0
		}
	}
	return longest
}

func isAttrSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
