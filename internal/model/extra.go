package model

import (
	"fmt"
	"regexp"
	"strings"
)

// ExtraType identifies the kind of an attachment. The declaration order is the
// order extras are written in.
type ExtraType int

const (
	ExtraFile ExtraType = iota
	ExtraLink
	ExtraNote
	ExtraTopic
	ExtraUnknown
)

// KnownExtraTypes lists every interpreted kind in serialization order.
var KnownExtraTypes = []ExtraType{ExtraFile, ExtraLink, ExtraNote, ExtraTopic}

// String returns the string representation of the ExtraType
func (t ExtraType) String() string {
	switch t {
	case ExtraFile:
		return "FILE"
	case ExtraLink:
		return "LINK"
	case ExtraNote:
		return "NOTE"
	case ExtraTopic:
		return "TOPIC"
	default:
		return "UNKNOWN"
	}
}

// ParseExtraType maps a kind name to its ExtraType; unrecognized names
// become ExtraUnknown.
func ParseExtraType(name string) ExtraType {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "FILE":
		return ExtraFile
	case "LINK":
		return ExtraLink
	case "NOTE":
		return ExtraNote
	case "TOPIC":
		return ExtraTopic
	default:
		return ExtraUnknown
	}
}

// ExtraTypes is a set of attachment kinds.
type ExtraTypes map[ExtraType]struct{}

// NewExtraTypes builds a set from kinds.
func NewExtraTypes(kinds ...ExtraType) ExtraTypes {
	set := make(ExtraTypes, len(kinds))
	for _, k := range kinds {
		set[k] = struct{}{}
	}
	return set
}

// Has reports whether kind is in the set. A nil set contains nothing.
func (s ExtraTypes) Has(kind ExtraType) bool {
	_, ok := s[kind]
	return ok
}

// Extra is a typed attachment carried by a topic.
type Extra interface {
	Type() ExtraType
	// Value is the serialized form written into the document body.
	Value() string
	Equal(other Extra) bool
	// ContainsPattern reports whether the attachment content matches pattern.
	// baseFolder is used to resolve relative file references and may be empty.
	ContainsPattern(baseFolder string, pattern *regexp.Regexp) bool
}

// AttachHook is implemented by extras that react to being placed on or
// removed from a topic. The hooks run with the document lock held and must
// not call locking topic methods.
type AttachHook interface {
	Attached(t *Topic)
	Detached(t *Topic)
}

// ParseExtra builds an extra of the given kind from its serialized value.
// attrs are the attributes of the owning topic, used by kinds that keep
// side-channel state there.
func ParseExtra(kind ExtraType, raw string, attrs map[string]string) (Extra, error) {
	var (
		e   Extra
		err error
	)
	switch kind {
	case ExtraFile:
		e, err = ParseFileExtra(raw)
	case ExtraLink:
		e, err = ParseLinkExtra(raw)
	case ExtraNote:
		e = ParseNoteExtra(raw, attrs)
	case ExtraTopic:
		e, err = ParseTopicExtra(raw)
	default:
		return nil, fmt.Errorf("unsupported extra type: %s", kind)
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}
