package model

// Tx is a manual critical section over a MindMap, obtained from Lock. It holds
// the document's write lock until Unlock, so a read-then-write sequence runs
// without interleaving with other goroutines. Events raised through the Tx are
// delivered after Unlock.
//
// Only Tx methods may be used while the Tx is open; exported methods of
// MindMap and Topic take the lock themselves and would deadlock.
type Tx struct {
	m       *MindMap
	pending []Event
	done    bool
}

// Lock acquires the document lock for a sequence of operations.
func (m *MindMap) Lock() *Tx {
	m.mu.Lock()
	return &Tx{m: m}
}

// Unlock releases the lock and delivers the queued events. Calling it more
// than once is a no-op.
func (tx *Tx) Unlock() {
	if tx.done {
		return
	}
	tx.done = true
	events := tx.pending
	tx.pending = nil
	tx.m.mu.Unlock()
	tx.m.fire(events...)
}

func (tx *Tx) live() {
	if tx.done {
		panic("mindmap: transaction used after Unlock")
	}
}

func (tx *Tx) owned(t *Topic) error {
	tx.live()
	if t == nil || t.mindMap != tx.m {
		return ErrForeignTopic
	}
	return nil
}

func (tx *Tx) queue(events []Event) {
	tx.pending = append(tx.pending, events...)
}

func (tx *Tx) Root() *Topic {
	tx.live()
	return tx.m.root
}

func (tx *Tx) SetRoot(t *Topic) error {
	tx.live()
	ev, err := tx.m.setRootLocked(t)
	if err != nil {
		return err
	}
	tx.queue(ev)
	return nil
}

func (tx *Tx) RemoveTopic(t *Topic) bool {
	tx.live()
	removed, ev := tx.m.removeTopicLocked(t)
	tx.queue(ev)
	return removed
}

func (tx *Tx) CloneTopic(t *Topic, deep bool) (*Topic, error) {
	tx.live()
	clone, ev, err := tx.m.cloneTopicLocked(t, deep)
	if err != nil {
		return nil, err
	}
	tx.queue(ev)
	return clone, nil
}

// Attribute returns a document attribute.
func (tx *Tx) Attribute(key string) (string, bool) {
	tx.live()
	return tx.m.attributes.Get(key)
}

// SetAttribute sets a document attribute.
func (tx *Tx) SetAttribute(key, value string) error {
	tx.live()
	return tx.m.setAttributeLocked(key, value)
}

func (tx *Tx) TopicForPath(path []int) *Topic {
	tx.live()
	return tx.m.topicForPathLocked(path)
}

func (tx *Tx) Path(t *Topic) []int {
	tx.live()
	return tx.m.pathLocked(t)
}

func (tx *Tx) MakePlainList() []*Topic {
	tx.live()
	return tx.m.plainListLocked()
}

func (tx *Tx) FindTopicForLink(link *TopicExtra) *Topic {
	tx.live()
	if link == nil {
		return nil
	}
	return tx.m.findTopicForUIDLocked(link.UID())
}

func (tx *Tx) Text(t *Topic) string {
	if tx.owned(t) != nil {
		return ""
	}
	return t.text
}

func (tx *Tx) SetText(t *Topic, text string) error {
	if err := tx.owned(t); err != nil {
		return err
	}
	tx.queue(tx.m.setTextLocked(t, text))
	return nil
}

func (tx *Tx) Children(t *Topic) []*Topic {
	if tx.owned(t) != nil {
		return nil
	}
	return append([]*Topic(nil), t.children...)
}

func (tx *Tx) Parent(t *Topic) *Topic {
	if tx.owned(t) != nil {
		return nil
	}
	return t.parent
}

func (tx *Tx) MakeChild(parent *Topic, text string, after *Topic) (*Topic, error) {
	if err := tx.owned(parent); err != nil {
		return nil, err
	}
	child, ev := tx.m.makeChildLocked(parent, text, after)
	tx.queue(ev)
	return child, nil
}

func (tx *Tx) MoveTo(t, newParent *Topic, index int) error {
	if err := tx.owned(t); err != nil {
		return err
	}
	ev, err := tx.m.moveLocked(t, newParent, index)
	if err != nil {
		return err
	}
	tx.queue(ev)
	return nil
}

// TopicAttribute returns an attribute of t.
func (tx *Tx) TopicAttribute(t *Topic, key string) (string, bool) {
	if tx.owned(t) != nil {
		return "", false
	}
	return t.attributes.Get(key)
}

func (tx *Tx) PutAttribute(t *Topic, key, value string) error {
	if err := tx.owned(t); err != nil {
		return err
	}
	ev, err := tx.m.putAttributeLocked(t, key, value)
	if err != nil {
		return err
	}
	tx.queue(ev)
	return nil
}

func (tx *Tx) RemoveAttribute(t *Topic, key string) bool {
	if tx.owned(t) != nil {
		return false
	}
	removed, ev := tx.m.removeAttributeLocked(t, key)
	tx.queue(ev)
	return removed
}

func (tx *Tx) Extra(t *Topic, kind ExtraType) (Extra, bool) {
	if tx.owned(t) != nil {
		return nil, false
	}
	e, ok := t.extras[kind]
	return e, ok
}

func (tx *Tx) SetExtra(t *Topic, e Extra) error {
	if err := tx.owned(t); err != nil {
		return err
	}
	tx.queue(tx.m.setExtraLocked(t, e))
	return nil
}

func (tx *Tx) RemoveExtra(t *Topic, kind ExtraType) bool {
	if tx.owned(t) != nil {
		return false
	}
	removed, ev := tx.m.removeExtraLocked(t, kind)
	tx.queue(ev)
	return removed
}

func (tx *Tx) EnsureUID(t *Topic) (string, error) {
	if err := tx.owned(t); err != nil {
		return "", err
	}
	uid, ev := tx.m.ensureUIDLocked(t)
	tx.queue(ev)
	return uid, nil
}
