package model

import (
	"errors"
	"regexp"
	"strings"
)

// TopicExtra is a jump link to another topic of the same document,
// addressed by the target's UID attribute.
type TopicExtra struct {
	uid string
}

// ParseTopicExtra reads a topic link. Surrounding blanks are trimmed.
func ParseTopicExtra(raw string) (*TopicExtra, error) {
	uid := strings.TrimSpace(raw)
	if uid == "" {
		return nil, errors.New("empty topic uid")
	}
	return &TopicExtra{uid: uid}, nil
}

func (e *TopicExtra) Type() ExtraType { return ExtraTopic }

func (e *TopicExtra) Value() string { return e.uid }

// UID returns the identifier of the target topic.
func (e *TopicExtra) UID() string { return e.uid }

func (e *TopicExtra) Equal(other Extra) bool {
	o, ok := other.(*TopicExtra)
	return ok && o.uid == e.uid
}

// ContainsPattern only matches when pattern covers the whole UID.
func (e *TopicExtra) ContainsPattern(_ string, pattern *regexp.Regexp) bool {
	whole, err := regexp.Compile(`^(?:` + pattern.String() + `)$`)
	if err != nil {
		return false
	}
	return whole.MatchString(e.uid)
}
