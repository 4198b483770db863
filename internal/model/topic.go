package model

import (
	"fmt"
	"iter"
	"strings"

	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Reserved topic attribute keys.
const (
	AttrTopicUID    = "topicLinkUID"
	AttrCollapsed   = "collapsed"
	AttrLeftSide    = "leftSide"
	AttrFillColor   = "fillColor"
	AttrTextColor   = "textColor"
	AttrBorderColor = "borderColor"
)

// Topic is one node of a mind map. A topic belongs to exactly one MindMap
// for its whole life; every exported method takes that map's lock.
type Topic struct {
	mindMap    *MindMap
	parent     *Topic
	children   []*Topic
	text       string
	attributes *orderedmap.OrderedMap[string, string]
	extras     map[ExtraType]Extra
}

func newTopic(m *MindMap, text string) *Topic {
	return &Topic{
		mindMap:    m,
		text:       text,
		attributes: orderedmap.New[string, string](),
		extras:     make(map[ExtraType]Extra),
	}
}

// MindMap returns the owning document.
func (t *Topic) MindMap() *MindMap {
	return t.mindMap
}

func (t *Topic) Text() string {
	t.mindMap.mu.RLock()
	defer t.mindMap.mu.RUnlock()
	return t.text
}

// SetText replaces the topic text and notifies listeners.
func (t *Topic) SetText(text string) {
	m := t.mindMap
	m.mu.Lock()
	ev := m.setTextLocked(t, text)
	m.mu.Unlock()
	m.fire(ev...)
}

// Parent returns nil for the root and for detached topics.
func (t *Topic) Parent() *Topic {
	t.mindMap.mu.RLock()
	defer t.mindMap.mu.RUnlock()
	return t.parent
}

// Children returns a copy of the ordered child list.
func (t *Topic) Children() []*Topic {
	t.mindMap.mu.RLock()
	defer t.mindMap.mu.RUnlock()
	return append([]*Topic(nil), t.children...)
}

func (t *Topic) ChildCount() int {
	t.mindMap.mu.RLock()
	defer t.mindMap.mu.RUnlock()
	return len(t.children)
}

func (t *Topic) HasChildren() bool {
	return t.ChildCount() > 0
}

// Child returns the child at index i or nil when out of range.
func (t *Topic) Child(i int) *Topic {
	t.mindMap.mu.RLock()
	defer t.mindMap.mu.RUnlock()
	if i < 0 || i >= len(t.children) {
		return nil
	}
	return t.children[i]
}

// MakeChild creates a child placed right after the sibling after, or at the
// end when after is nil or not a child of t.
func (t *Topic) MakeChild(text string, after *Topic) *Topic {
	m := t.mindMap
	m.mu.Lock()
	child, ev := m.makeChildLocked(t, text, after)
	m.mu.Unlock()
	m.fire(ev...)
	return child
}

// MoveTo re-parents t under newParent at position index (append when index
// is negative or past the end).
func (t *Topic) MoveTo(newParent *Topic, index int) error {
	m := t.mindMap
	m.mu.Lock()
	ev, err := m.moveLocked(t, newParent, index)
	m.mu.Unlock()
	if err != nil {
		return err
	}
	m.fire(ev...)
	return nil
}

// Path returns the child indices leading from the root to t, or nil when t
// is not reachable from the root. The root's path is empty.
func (t *Topic) Path() []int {
	t.mindMap.mu.RLock()
	defer t.mindMap.mu.RUnlock()
	return t.mindMap.pathLocked(t)
}

// Depth is 0 for a top-level topic (root or detached) and grows by one per level.
func (t *Topic) Depth() int {
	t.mindMap.mu.RLock()
	defer t.mindMap.mu.RUnlock()
	depth := 0
	for p := t.parent; p != nil; p = p.parent {
		depth++
	}
	return depth
}

// IsAncestorOf reports whether other lies strictly inside t's subtree.
func (t *Topic) IsAncestorOf(other *Topic) bool {
	t.mindMap.mu.RLock()
	defer t.mindMap.mu.RUnlock()
	return t.isAncestorOfLocked(other)
}

func (t *Topic) isAncestorOfLocked(other *Topic) bool {
	if other == nil {
		return false
	}
	for p := other.parent; p != nil; p = p.parent {
		if p == t {
			return true
		}
	}
	return false
}

func (t *Topic) Attribute(key string) (string, bool) {
	t.mindMap.mu.RLock()
	defer t.mindMap.mu.RUnlock()
	return t.attributes.Get(key)
}

// PutAttribute sets a single-line attribute value.
func (t *Topic) PutAttribute(key, value string) error {
	m := t.mindMap
	m.mu.Lock()
	ev, err := m.putAttributeLocked(t, key, value)
	m.mu.Unlock()
	if err != nil {
		return err
	}
	m.fire(ev...)
	return nil
}

func (t *Topic) RemoveAttribute(key string) bool {
	m := t.mindMap
	m.mu.Lock()
	removed, ev := m.removeAttributeLocked(t, key)
	m.mu.Unlock()
	m.fire(ev...)
	return removed
}

// Attributes returns a copy of the attribute map.
func (t *Topic) Attributes() map[string]string {
	t.mindMap.mu.RLock()
	defer t.mindMap.mu.RUnlock()
	return orderedToMap(t.attributes)
}

// AttributeKeys returns attribute keys in insertion order.
func (t *Topic) AttributeKeys() []string {
	t.mindMap.mu.RLock()
	defer t.mindMap.mu.RUnlock()
	keys := make([]string, 0, t.attributes.Len())
	for pair := t.attributes.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

func (t *Topic) Extra(kind ExtraType) (Extra, bool) {
	t.mindMap.mu.RLock()
	defer t.mindMap.mu.RUnlock()
	e, ok := t.extras[kind]
	return e, ok
}

// SetExtra attaches e, replacing any extra of the same kind.
func (t *Topic) SetExtra(e Extra) {
	m := t.mindMap
	m.mu.Lock()
	ev := m.setExtraLocked(t, e)
	m.mu.Unlock()
	m.fire(ev...)
}

func (t *Topic) RemoveExtra(kind ExtraType) bool {
	m := t.mindMap
	m.mu.Lock()
	removed, ev := m.removeExtraLocked(t, kind)
	m.mu.Unlock()
	m.fire(ev...)
	return removed
}

// Extras returns the attached extras in serialization order.
func (t *Topic) Extras() []Extra {
	t.mindMap.mu.RLock()
	defer t.mindMap.mu.RUnlock()
	return t.extrasLocked()
}

func (t *Topic) extrasLocked() []Extra {
	out := make([]Extra, 0, len(t.extras))
	for _, kind := range KnownExtraTypes {
		if e, ok := t.extras[kind]; ok {
			out = append(out, e)
		}
	}
	return out
}

func (t *Topic) HasExtras() bool {
	t.mindMap.mu.RLock()
	defer t.mindMap.mu.RUnlock()
	return len(t.extras) > 0
}

// UID returns the link identifier of the topic or "".
func (t *Topic) UID() string {
	uid, _ := t.Attribute(AttrTopicUID)
	return uid
}

// EnsureUID returns the topic UID, generating one when missing.
func (t *Topic) EnsureUID() string {
	m := t.mindMap
	m.mu.Lock()
	uid, ev := m.ensureUIDLocked(t)
	m.mu.Unlock()
	m.fire(ev...)
	return uid
}

func (t *Topic) IsCollapsed() bool {
	v, _ := t.Attribute(AttrCollapsed)
	return v == "true"
}

func (t *Topic) SetCollapsed(collapsed bool) {
	t.setFlag(AttrCollapsed, collapsed)
}

// IsLeftSide reports whether a first-level topic is placed left of the root.
func (t *Topic) IsLeftSide() bool {
	v, _ := t.Attribute(AttrLeftSide)
	return v == "true"
}

func (t *Topic) SetLeftSide(left bool) {
	t.setFlag(AttrLeftSide, left)
}

func (t *Topic) setFlag(key string, on bool) {
	if !on {
		t.RemoveAttribute(key)
		return
	}
	m := t.mindMap
	m.mu.Lock()
	t.attributes.Set(key, "true")
	ev := m.eventFor(EventTopicChanged, t)
	m.mu.Unlock()
	m.fire(ev...)
}

// Descendants iterates over t and its subtree in pre-order. The sequence is
// a snapshot taken when iteration starts.
func (t *Topic) Descendants() iter.Seq[*Topic] {
	return func(yield func(*Topic) bool) {
		t.mindMap.mu.RLock()
		list := appendPreOrder(nil, t)
		t.mindMap.mu.RUnlock()
		for _, topic := range list {
			if !yield(topic) {
				return
			}
		}
	}
}

// Walk calls fn for t and every descendant in pre-order until fn returns false.
func (t *Topic) Walk(fn func(*Topic) bool) {
	for topic := range t.Descendants() {
		if !fn(topic) {
			return
		}
	}
}

// String returns a short description used in logs and messages.
func (t *Topic) String() string {
	text := t.Text()
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i] + "..."
	}
	return fmt.Sprintf("Topic(%q)", text)
}

func appendPreOrder(list []*Topic, t *Topic) []*Topic {
	list = append(list, t)
	for _, c := range t.children {
		list = appendPreOrder(list, c)
	}
	return list
}

// copyLocked duplicates src under parent. UIDs are not copied so that links
// keep pointing at the original.
func (t *Topic) copyLocked(parent *Topic, deep bool) *Topic {
	clone := newTopic(t.mindMap, t.text)
	clone.parent = parent
	for pair := t.attributes.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key == AttrTopicUID {
			continue
		}
		clone.attributes.Set(pair.Key, pair.Value)
	}
	for kind, e := range t.extras {
		clone.extras[kind] = e
	}
	if deep {
		for _, c := range t.children {
			clone.children = append(clone.children, c.copyLocked(clone, true))
		}
	}
	return clone
}

func newUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func orderedToMap(om *orderedmap.OrderedMap[string, string]) map[string]string {
	out := make(map[string]string, om.Len())
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = pair.Value
	}
	return out
}
