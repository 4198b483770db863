// Package model implements the mind map document: its topic tree, typed
// extras, the text codec and search.
package model

import (
	"context"
	"fmt"
	"iter"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"mindmark/internal/log"
)

// MindMap is a document holding a tree of topics and document attributes.
//
// A single read-write lock guards the whole document: the root, the document
// attributes and every field of every topic owned by the map. Exported
// methods on MindMap and Topic take the lock themselves. Lock returns a Tx
// for multi-step sequences that must not interleave with other writers.
type MindMap struct {
	mu         sync.RWMutex
	root       *Topic
	attributes *orderedmap.OrderedMap[string, string]

	listenersMu sync.Mutex
	listeners   []Listener

	logger *log.Logger
}

// Option configures a MindMap.
type Option func(*MindMap)

// WithLogger sets the logger used for parse warnings and listener failures.
func WithLogger(l *log.Logger) Option {
	return func(m *MindMap) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewEmpty creates a document without a root topic.
func NewEmpty(opts ...Option) *MindMap {
	m := &MindMap{
		attributes: orderedmap.New[string, string](),
		logger:     log.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// New creates a document with an empty root topic.
func New(opts ...Option) *MindMap {
	m := NewEmpty(opts...)
	m.root = newTopic(m, "")
	return m
}

// NewTopic creates a detached topic owned by m. It becomes part of the
// document through SetRoot or MoveTo.
func (m *MindMap) NewTopic(text string) *Topic {
	return newTopic(m, text)
}

func (m *MindMap) Root() *Topic {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.root
}

// SetRoot replaces the root. nil leaves the document empty. A topic that
// still has a parent is detached from it first.
func (m *MindMap) SetRoot(t *Topic) error {
	m.mu.Lock()
	ev, err := m.setRootLocked(t)
	m.mu.Unlock()
	if err != nil {
		return err
	}
	m.fire(ev...)
	return nil
}

// RemoveTopic removes t from the document and reports whether anything
// changed. The root is never removed: its text, extras and children are
// cleared instead. Topic links pointing into the removed subtree are dropped.
func (m *MindMap) RemoveTopic(t *Topic) bool {
	m.mu.Lock()
	removed, ev := m.removeTopicLocked(t)
	m.mu.Unlock()
	m.fire(ev...)
	return removed
}

// CloneTopic copies t (with its subtree when deep is set) and inserts the
// copy right after t. The copy carries no link UIDs.
func (m *MindMap) CloneTopic(t *Topic, deep bool) (*Topic, error) {
	m.mu.Lock()
	clone, ev, err := m.cloneTopicLocked(t, deep)
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	m.fire(ev...)
	return clone, nil
}

// Attribute returns a document attribute.
func (m *MindMap) Attribute(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.attributes.Get(key)
}

func (m *MindMap) SetAttribute(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setAttributeLocked(key, value)
}

func (m *MindMap) RemoveAttribute(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.attributes.Delete(key)
	return ok
}

// Attributes returns a copy of the document attributes.
func (m *MindMap) Attributes() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return orderedToMap(m.attributes)
}

// TopicForPath resolves a path of child indices. It returns nil when the path
// does not lead to a topic.
func (m *MindMap) TopicForPath(path []int) *Topic {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.topicForPathLocked(path)
}

// MakePlainList returns every topic in pre-order.
func (m *MindMap) MakePlainList() []*Topic {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.plainListLocked()
}

// All iterates over every topic in pre-order. Each iteration works on a
// snapshot of the tree taken when it starts.
func (m *MindMap) All() iter.Seq[*Topic] {
	return func(yield func(*Topic) bool) {
		for _, t := range m.MakePlainList() {
			if !yield(t) {
				return
			}
		}
	}
}

// FindTopicForLink returns the topic whose UID a topic link points at.
func (m *MindMap) FindTopicForLink(link *TopicExtra) *Topic {
	if link == nil {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findTopicForUIDLocked(link.UID())
}

// FindAllTopicsForExtraType returns, in pre-order, every topic carrying an
// extra of the given kind.
func (m *MindMap) FindAllTopicsForExtraType(kind ExtraType) []*Topic {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Topic
	for _, t := range m.plainListLocked() {
		if _, ok := t.extras[kind]; ok {
			out = append(out, t)
		}
	}
	return out
}

// DoesContainFileLink reports whether a file extra points at file or, when
// file is a folder, at anything inside it.
func (m *MindMap) DoesContainFileLink(baseFolder, file string) bool {
	target := resolvePath(baseFolder, file)
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.plainListLocked() {
		if fe, ok := t.extras[ExtraFile].(*FileExtra); ok && pathWithin(fe.FilePath(baseFolder), target) {
			return true
		}
	}
	return false
}

// DeleteAllLinksToFile removes every file extra pointing at file or below it.
func (m *MindMap) DeleteAllLinksToFile(baseFolder, file string) bool {
	target := resolvePath(baseFolder, file)
	m.mu.Lock()
	changed := false
	for _, t := range m.plainListLocked() {
		if fe, ok := t.extras[ExtraFile].(*FileExtra); ok && pathWithin(fe.FilePath(baseFolder), target) {
			m.removeExtraLocked(t, ExtraFile)
			changed = true
		}
	}
	m.mu.Unlock()
	if changed {
		m.fire(Event{Kind: EventStructureChanged, Path: []int{}})
	}
	return changed
}

// ReplaceAllLinksToFile rewrites file extras pointing at oldFile, or below it
// when oldFile is a folder, so that they point at newFile.
func (m *MindMap) ReplaceAllLinksToFile(baseFolder, oldFile, newFile string) bool {
	oldTarget := resolvePath(baseFolder, oldFile)
	newTarget := resolvePath(baseFolder, newFile)
	m.mu.Lock()
	changed := false
	for _, t := range m.plainListLocked() {
		fe, ok := t.extras[ExtraFile].(*FileExtra)
		if !ok {
			continue
		}
		current := fe.FilePath(baseFolder)
		if !pathWithin(current, oldTarget) {
			continue
		}
		replaced, err := fe.withPath(baseFolder, newTarget+strings.TrimPrefix(current, oldTarget))
		if err != nil {
			m.logger.Warn(context.Background(), "Skipping file link that can't be rewritten", log.Fields{
				"link":  fe.Value(),
				"error": err.Error(),
			})
			continue
		}
		m.setExtraLocked(t, replaced)
		changed = true
	}
	m.mu.Unlock()
	if changed {
		m.fire(Event{Kind: EventStructureChanged, Path: []int{}})
	}
	return changed
}

// MakeTopicLink attaches to from a TOPIC extra pointing at to, giving to a
// UID when it has none.
func (m *MindMap) MakeTopicLink(from, to *Topic) error {
	if from == nil || to == nil || from.mindMap != m || to.mindMap != m {
		return ErrForeignTopic
	}
	m.mu.Lock()
	uid, ev := m.ensureUIDLocked(to)
	ev = append(ev, m.setExtraLocked(from, &TopicExtra{uid: uid})...)
	m.mu.Unlock()
	m.fire(ev...)
	return nil
}

// The helpers below expect m.mu to be held by the caller. They return the
// events to deliver once the lock is released.

func (m *MindMap) eventFor(kind EventKind, t *Topic) []Event {
	path := m.pathLocked(t)
	if path == nil {
		return nil
	}
	return []Event{{Kind: kind, Path: path}}
}

func (m *MindMap) pathLocked(t *Topic) []int {
	if t == nil || t.mindMap != m || m.root == nil {
		return nil
	}
	var reversed []int
	cur := t
	for cur.parent != nil {
		idx := slices.Index(cur.parent.children, cur)
		if idx < 0 {
			return nil
		}
		reversed = append(reversed, idx)
		cur = cur.parent
	}
	if cur != m.root {
		return nil
	}
	path := make([]int, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		path = append(path, reversed[i])
	}
	return path
}

func (m *MindMap) topicForPathLocked(path []int) *Topic {
	cur := m.root
	for _, idx := range path {
		if cur == nil || idx < 0 || idx >= len(cur.children) {
			return nil
		}
		cur = cur.children[idx]
	}
	return cur
}

func (m *MindMap) plainListLocked() []*Topic {
	if m.root == nil {
		return nil
	}
	return appendPreOrder(nil, m.root)
}

func (m *MindMap) findTopicForUIDLocked(uid string) *Topic {
	if uid == "" {
		return nil
	}
	for _, t := range m.plainListLocked() {
		if v, ok := t.attributes.Get(AttrTopicUID); ok && v == uid {
			return t
		}
	}
	return nil
}

func (m *MindMap) setRootLocked(t *Topic) ([]Event, error) {
	if t != nil && t.mindMap != m {
		return nil, ErrForeignTopic
	}
	if t != nil && t.parent != nil {
		detach(t)
	}
	m.root = t
	return []Event{{Kind: EventStructureChanged, Path: []int{}}}, nil
}

func (m *MindMap) removeTopicLocked(t *Topic) (bool, []Event) {
	path := m.pathLocked(t)
	if path == nil {
		return false, nil
	}

	var removed []*Topic
	if t == m.root {
		for _, c := range t.children {
			removed = appendPreOrder(removed, c)
			c.parent = nil
		}
		t.children = nil
		t.text = ""
		for kind := range t.extras {
			m.removeExtraLocked(t, kind)
		}
	} else {
		detach(t)
		removed = appendPreOrder(nil, t)
	}

	uids := make(map[string]struct{})
	for _, r := range removed {
		if uid, ok := r.attributes.Delete(AttrTopicUID); ok {
			uids[uid] = struct{}{}
		}
	}
	m.purgeTopicLinksLocked(uids)

	return true, []Event{{Kind: EventStructureChanged, Path: path}}
}

func (m *MindMap) purgeTopicLinksLocked(uids map[string]struct{}) {
	if len(uids) == 0 {
		return
	}
	for _, t := range m.plainListLocked() {
		link, ok := t.extras[ExtraTopic].(*TopicExtra)
		if !ok {
			continue
		}
		if _, dead := uids[link.UID()]; dead {
			m.removeExtraLocked(t, ExtraTopic)
		}
	}
}

func (m *MindMap) cloneTopicLocked(t *Topic, deep bool) (*Topic, []Event, error) {
	if t == nil || t.mindMap != m {
		return nil, nil, ErrForeignTopic
	}
	if t == m.root {
		return nil, nil, ErrCannotCloneRoot
	}
	if m.pathLocked(t) == nil {
		return nil, nil, ErrNotInMap
	}
	parent := t.parent
	clone := t.copyLocked(parent, deep)
	idx := slices.Index(parent.children, t)
	parent.children = slices.Insert(parent.children, idx+1, clone)
	return clone, m.eventFor(EventStructureChanged, clone), nil
}

func (m *MindMap) setAttributeLocked(key, value string) error {
	if err := validateAttribute(key, value); err != nil {
		return err
	}
	m.attributes.Set(key, value)
	return nil
}

func (m *MindMap) setTextLocked(t *Topic, text string) []Event {
	t.text = text
	return m.eventFor(EventTopicChanged, t)
}

func (m *MindMap) makeChildLocked(parent *Topic, text string, after *Topic) (*Topic, []Event) {
	child := newTopic(m, text)
	child.parent = parent
	idx := -1
	if after != nil && after.parent == parent {
		idx = slices.Index(parent.children, after)
	}
	if idx < 0 {
		parent.children = append(parent.children, child)
	} else {
		parent.children = slices.Insert(parent.children, idx+1, child)
	}
	return child, m.eventFor(EventStructureChanged, child)
}

func (m *MindMap) moveLocked(t, newParent *Topic, index int) ([]Event, error) {
	if newParent == nil {
		return nil, fmt.Errorf("%w: missing target parent", ErrNotInMap)
	}
	if newParent.mindMap != m {
		return nil, ErrForeignTopic
	}
	if t == m.root || t == newParent || t.isAncestorOfLocked(newParent) {
		return nil, ErrCycle
	}
	detach(t)
	if index < 0 || index > len(newParent.children) {
		index = len(newParent.children)
	}
	newParent.children = slices.Insert(newParent.children, index, t)
	t.parent = newParent
	return m.eventFor(EventStructureChanged, t), nil
}

func (m *MindMap) putAttributeLocked(t *Topic, key, value string) ([]Event, error) {
	if err := validateAttribute(key, value); err != nil {
		return nil, err
	}
	t.attributes.Set(key, value)
	return m.eventFor(EventTopicChanged, t), nil
}

func (m *MindMap) removeAttributeLocked(t *Topic, key string) (bool, []Event) {
	if _, ok := t.attributes.Delete(key); !ok {
		return false, nil
	}
	return true, m.eventFor(EventTopicChanged, t)
}

func (m *MindMap) setExtraLocked(t *Topic, e Extra) []Event {
	if e == nil || e.Type() == ExtraUnknown {
		return nil
	}
	if old, ok := t.extras[e.Type()]; ok {
		if hook, ok := old.(AttachHook); ok {
			hook.Detached(t)
		}
	}
	t.extras[e.Type()] = e
	if hook, ok := e.(AttachHook); ok {
		hook.Attached(t)
	}
	return m.eventFor(EventTopicChanged, t)
}

func (m *MindMap) removeExtraLocked(t *Topic, kind ExtraType) (bool, []Event) {
	old, ok := t.extras[kind]
	if !ok {
		return false, nil
	}
	delete(t.extras, kind)
	if hook, ok := old.(AttachHook); ok {
		hook.Detached(t)
	}
	return true, m.eventFor(EventTopicChanged, t)
}

func (m *MindMap) ensureUIDLocked(t *Topic) (string, []Event) {
	if uid, ok := t.attributes.Get(AttrTopicUID); ok && uid != "" {
		return uid, nil
	}
	uid := newUID()
	t.attributes.Set(AttrTopicUID, uid)
	return uid, m.eventFor(EventTopicChanged, t)
}

// detach unlinks t from its parent's child list.
func detach(t *Topic) {
	p := t.parent
	if p == nil {
		return
	}
	if idx := slices.Index(p.children, t); idx >= 0 {
		p.children = slices.Delete(p.children, idx, idx+1)
	}
	t.parent = nil
}

func validateAttribute(key, value string) error {
	if !ValidAttributeKey(key) {
		return fmt.Errorf("%w: %q", ErrInvalidAttributeKey, key)
	}
	if strings.ContainsAny(value, "\r\n") {
		return fmt.Errorf("%w: %q", ErrInvalidAttributeValue, key)
	}
	return nil
}

func resolvePath(baseFolder, file string) string {
	p := filepath.FromSlash(file)
	if !filepath.IsAbs(p) && baseFolder != "" {
		p = filepath.Join(baseFolder, p)
	}
	return filepath.Clean(p)
}

// pathWithin reports whether path equals target or lies inside it.
func pathWithin(path, target string) bool {
	if path == target {
		return true
	}
	return strings.HasPrefix(path, strings.TrimSuffix(target, string(filepath.Separator))+string(filepath.Separator))
}
