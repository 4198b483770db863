package model

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
)

// ErrNoPattern is returned by searches started without a pattern.
var ErrNoPattern = errors.New("search pattern is required")

// Finder matches topic content the built-in extras don't interpret.
// Finders are called without the document lock held.
type Finder interface {
	DoesTopicContainMatch(t *Topic, baseFolder string, pattern *regexp.Regexp, kinds ExtraTypes) bool
}

// SearchQuery describes what FindNext and FindPrev look for.
type SearchQuery struct {
	// BaseFolder resolves relative file extras.
	BaseFolder string
	Pattern    *regexp.Regexp
	// InText enables matching against topic text.
	InText bool
	// Kinds selects the extras that are searched.
	Kinds   ExtraTypes
	Finders []Finder
}

// MakePattern compiles user input into a search pattern. Without regex the
// text is matched literally.
func MakePattern(text string, caseSensitive, regex bool) (*regexp.Regexp, error) {
	expr := text
	if !regex {
		expr = regexp.QuoteMeta(text)
	}
	if !caseSensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("failed to compile search pattern: %w", err)
	}
	return re, nil
}

// FindNext returns the first topic after start, in pre-order, that matches q.
// A nil start searches from the root. It returns nil when nothing matches.
func (m *MindMap) FindNext(start *Topic, q SearchQuery) (*Topic, error) {
	list, from, err := m.searchList(start, q)
	if err != nil {
		return nil, err
	}
	if start != nil {
		from++
	} else {
		from = 0
	}
	for _, t := range list[from:] {
		if q.matches(t) {
			return t, nil
		}
	}
	return nil, nil
}

// FindPrev returns the closest topic before start, in pre-order, that
// matches q. A nil start searches backward from the last topic.
func (m *MindMap) FindPrev(start *Topic, q SearchQuery) (*Topic, error) {
	list, from, err := m.searchList(start, q)
	if err != nil {
		return nil, err
	}
	if start == nil {
		from = len(list)
	}
	for i := from - 1; i >= 0; i-- {
		if q.matches(list[i]) {
			return list[i], nil
		}
	}
	return nil, nil
}

// FindAll returns every matching topic in pre-order.
func (m *MindMap) FindAll(q SearchQuery) ([]*Topic, error) {
	if q.Pattern == nil {
		return nil, ErrNoPattern
	}
	var out []*Topic
	for _, t := range m.MakePlainList() {
		if q.matches(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

// searchList snapshots the topics and locates start in them.
func (m *MindMap) searchList(start *Topic, q SearchQuery) ([]*Topic, int, error) {
	if q.Pattern == nil {
		return nil, 0, ErrNoPattern
	}
	if start != nil && start.mindMap != m {
		return nil, 0, ErrForeignTopic
	}
	list := m.MakePlainList()
	if start == nil {
		return list, -1, nil
	}
	idx := slices.Index(list, start)
	if idx < 0 {
		return nil, 0, ErrNotInMap
	}
	return list, idx, nil
}

func (q SearchQuery) matches(t *Topic) bool {
	if q.InText && q.Pattern.MatchString(t.Text()) {
		return true
	}
	for _, e := range t.Extras() {
		if q.Kinds.Has(e.Type()) && e.ContainsPattern(q.BaseFolder, q.Pattern) {
			return true
		}
	}
	for _, f := range q.Finders {
		if f.DoesTopicContainMatch(t, q.BaseFolder, q.Pattern, q.Kinds) {
			return true
		}
	}
	return false
}
