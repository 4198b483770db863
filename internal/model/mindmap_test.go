package model

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) OnStructureChanged(_ *MindMap, e Event) { r.add(e) }
func (r *recorder) OnTopicChanged(_ *MindMap, e Event)     { r.add(e) }

func (r *recorder) add(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// abc builds Root -> [A -> [A1, A2], B].
func abc(t *testing.T) (m *MindMap, a, a1, a2, b *Topic) {
	t.Helper()
	m = New()
	root := m.Root()
	root.SetText("Root")
	a = root.MakeChild("A", nil)
	b = root.MakeChild("B", a)
	a1 = a.MakeChild("A1", nil)
	a2 = a.MakeChild("A2", a1)
	return m, a, a1, a2, b
}

func texts(topics []*Topic) []string {
	out := make([]string, 0, len(topics))
	for _, t := range topics {
		out = append(out, t.Text())
	}
	return out
}

func TestNewAndNewEmpty(t *testing.T) {
	m := New()
	require.NotNil(t, m.Root())
	assert.Equal(t, "", m.Root().Text())
	assert.Same(t, m, m.Root().MindMap())

	empty := NewEmpty()
	assert.Nil(t, empty.Root())
	assert.Empty(t, empty.MakePlainList())
}

func TestMakeChildOrderAndPaths(t *testing.T) {
	m, a, a1, a2, b := abc(t)
	between := m.Root().MakeChild("between", a)
	last := a.MakeChild("last", m.Root())

	assert.Equal(t, []string{"Root", "A", "A1", "A2", "last", "between", "B"}, texts(m.MakePlainList()))
	assert.Equal(t, []int{}, m.Root().Path())
	assert.Equal(t, []int{0, 1}, a2.Path())
	assert.Equal(t, []int{0, 2}, last.Path())
	assert.Equal(t, []int{2}, b.Path())
	assert.Equal(t, []int{1}, between.Path())

	assert.Same(t, a1, m.TopicForPath([]int{0, 0}))
	assert.Nil(t, m.TopicForPath([]int{0, 9}))
	assert.Nil(t, m.TopicForPath([]int{-1}))
	assert.Same(t, m.Root(), m.TopicForPath(nil))

	assert.True(t, m.Root().IsAncestorOf(a2))
	assert.False(t, a2.IsAncestorOf(a))
	assert.Same(t, a, a1.Parent())
}

func TestRemoveRootClearsInPlace(t *testing.T) {
	m, a, _, _, _ := abc(t)
	root := m.Root()
	require.NoError(t, root.PutAttribute(AttrFillColor, "#fff"))
	root.SetExtra(NewNoteExtra("note"))

	assert.True(t, m.RemoveTopic(root))
	assert.Same(t, root, m.Root())
	assert.Equal(t, "", root.Text())
	assert.False(t, root.HasExtras())
	assert.False(t, root.HasChildren())
	assert.Nil(t, a.Parent())
	v, _ := root.Attribute(AttrFillColor)
	assert.Equal(t, "#fff", v)
}

func TestRemoveLeafDetaches(t *testing.T) {
	m, a, a1, a2, _ := abc(t)
	assert.True(t, m.RemoveTopic(a1))
	assert.Equal(t, []*Topic{a2}, a.Children())
	assert.Nil(t, a1.Parent())
	assert.Nil(t, a1.Path())
	assert.NotContains(t, m.MakePlainList(), a1)

	assert.False(t, m.RemoveTopic(a1), "already detached")
	assert.False(t, m.RemoveTopic(NewEmpty().NewTopic("foreign")))
}

func TestRemovePurgesLinks(t *testing.T) {
	m, a, _, a2, b := abc(t)
	require.NoError(t, m.MakeTopicLink(b, a2))
	require.NoError(t, m.MakeTopicLink(m.Root(), b))
	uid := a2.UID()
	require.NotEmpty(t, uid)

	assert.True(t, m.RemoveTopic(a))

	_, ok := b.Extra(ExtraTopic)
	assert.False(t, ok, "link to removed descendant is purged")
	_, ok = m.Root().Extra(ExtraTopic)
	assert.True(t, ok, "unrelated link survives")
	assert.Empty(t, a2.UID(), "removed subtree loses its UIDs")
	assert.Nil(t, m.FindTopicForLink(&TopicExtra{uid: uid}))
	for topic := range m.All() {
		assert.NotSame(t, a2, topic)
	}
}

func TestRemoveRootPurgesLinksToDescendants(t *testing.T) {
	m, _, a1, _, b := abc(t)
	require.NoError(t, m.MakeTopicLink(m.Root(), a1))
	require.NoError(t, m.MakeTopicLink(b, a1))
	require.NoError(t, m.Root().PutAttribute(AttrTopicUID, "root-uid"))

	m.RemoveTopic(m.Root())
	assert.Empty(t, m.FindAllTopicsForExtraType(ExtraTopic))
	assert.Equal(t, "root-uid", m.Root().UID())
}

func TestCloneTopic(t *testing.T) {
	m, a, _, _, b := abc(t)
	a.EnsureUID()
	require.NoError(t, a.PutAttribute(AttrFillColor, "#123"))
	a.SetExtra(NewNoteExtra("n"))

	shallow, err := m.CloneTopic(a, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "A", "B"}, texts(m.Root().Children()))
	assert.Same(t, shallow, m.Root().Child(1))
	assert.False(t, shallow.HasChildren())
	assert.Empty(t, shallow.UID())
	v, _ := shallow.Attribute(AttrFillColor)
	assert.Equal(t, "#123", v)
	_, ok := shallow.Extra(ExtraNote)
	assert.True(t, ok)

	deep, err := m.CloneTopic(a, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "A2"}, texts(deep.Children()))
	assert.Same(t, deep, deep.Child(0).Parent())
	assert.NotSame(t, a.Child(0), deep.Child(0))
	assert.Same(t, deep, m.Root().Child(1))
	assert.Same(t, b, m.Root().Child(3))

	_, err = m.CloneTopic(m.Root(), true)
	assert.ErrorIs(t, err, ErrCannotCloneRoot)
	_, err = m.CloneTopic(New().Root().MakeChild("x", nil), true)
	assert.ErrorIs(t, err, ErrForeignTopic)
	_, err = m.CloneTopic(m.NewTopic("loose"), true)
	assert.ErrorIs(t, err, ErrNotInMap)
}

func TestSetRoot(t *testing.T) {
	m, a, a1, _, _ := abc(t)

	err := m.SetRoot(New().Root())
	assert.ErrorIs(t, err, ErrForeignTopic)
	assert.Equal(t, "Root", m.Root().Text(), "failed call leaves state untouched")

	require.NoError(t, m.SetRoot(a))
	assert.Same(t, a, m.Root())
	assert.Nil(t, a.Parent())
	assert.Equal(t, []int{0}, a1.Path())

	require.NoError(t, m.SetRoot(nil))
	assert.Nil(t, m.Root())
	assert.Nil(t, a1.Path())

	fresh := m.NewTopic("fresh")
	require.NoError(t, m.SetRoot(fresh))
	assert.Equal(t, []string{"fresh"}, texts(m.MakePlainList()))
}

func TestMoveTo(t *testing.T) {
	m, a, a1, a2, b := abc(t)

	require.NoError(t, a2.MoveTo(b, -1))
	assert.Same(t, b, a2.Parent())
	assert.Equal(t, []*Topic{a1}, a.Children())

	require.NoError(t, a1.MoveTo(b, 0))
	assert.Equal(t, []string{"A1", "A2"}, texts(b.Children()))

	require.NoError(t, a1.MoveTo(b, 99))
	assert.Equal(t, []string{"A2", "A1"}, texts(b.Children()))

	assert.ErrorIs(t, b.MoveTo(a2, 0), ErrCycle)
	assert.ErrorIs(t, b.MoveTo(b, 0), ErrCycle)
	assert.ErrorIs(t, m.Root().MoveTo(a, 0), ErrCycle)
	assert.ErrorIs(t, a.MoveTo(New().Root(), 0), ErrForeignTopic)
	assert.ErrorIs(t, a.MoveTo(nil, 0), ErrNotInMap)

	loose := m.NewTopic("loose")
	require.NoError(t, loose.MoveTo(a, 0))
	assert.Equal(t, []int{0, 0}, loose.Path())
}

func TestTopicAttributes(t *testing.T) {
	m := New()
	root := m.Root()

	require.NoError(t, root.PutAttribute("b", "2"))
	require.NoError(t, root.PutAttribute("a", "1"))
	assert.Equal(t, []string{"b", "a"}, root.AttributeKeys())
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, root.Attributes())

	assert.ErrorIs(t, root.PutAttribute("bad key", "x"), ErrInvalidAttributeKey)
	assert.ErrorIs(t, root.PutAttribute("k", "two\nlines"), ErrInvalidAttributeValue)
	assert.ErrorIs(t, m.SetAttribute("", "x"), ErrInvalidAttributeKey)

	assert.True(t, root.RemoveAttribute("a"))
	assert.False(t, root.RemoveAttribute("a"))

	root.SetCollapsed(true)
	assert.True(t, root.IsCollapsed())
	root.SetCollapsed(false)
	assert.False(t, root.IsCollapsed())
	_, ok := root.Attribute(AttrCollapsed)
	assert.False(t, ok)

	root.SetLeftSide(true)
	assert.True(t, root.IsLeftSide())
}

func TestNoteHooksMaintainAttributes(t *testing.T) {
	root := New().Root()
	sealed, err := NewEncryptedNote("x", "pw", "first pet")
	require.NoError(t, err)

	root.SetExtra(sealed)
	attrs := root.Attributes()
	assert.Equal(t, "true", attrs[AttrNoteEncrypted])
	assert.Equal(t, "first pet", attrs[AttrNoteHint])

	root.SetExtra(NewNoteExtra("plain now"))
	assert.NotContains(t, root.Attributes(), AttrNoteEncrypted)

	root.SetExtra(sealed)
	assert.True(t, root.RemoveExtra(ExtraNote))
	assert.Empty(t, root.Attributes())
	assert.False(t, root.RemoveExtra(ExtraNote))
}

func TestEnsureUIDIsStable(t *testing.T) {
	root := New().Root()
	uid := root.EnsureUID()
	require.NotEmpty(t, uid)
	assert.Equal(t, uid, root.EnsureUID())
	assert.Equal(t, uid, root.UID())
}

func TestMakeTopicLinkAndFind(t *testing.T) {
	m, _, a1, _, b := abc(t)
	require.NoError(t, m.MakeTopicLink(b, a1))

	e, ok := b.Extra(ExtraTopic)
	require.True(t, ok)
	assert.Same(t, a1, m.FindTopicForLink(e.(*TopicExtra)))
	assert.Nil(t, m.FindTopicForLink(nil))
	assert.Equal(t, []*Topic{b}, m.FindAllTopicsForExtraType(ExtraTopic))
	assert.Empty(t, m.FindAllTopicsForExtraType(ExtraFile))

	assert.ErrorIs(t, m.MakeTopicLink(b, New().Root()), ErrForeignTopic)
}

func TestFileLinkOperations(t *testing.T) {
	m, a, a1, _, b := abc(t)
	absFile, err := NewFileExtraFromPath("/base/docs/a.md", 3)
	require.NoError(t, err)
	relFile, err := ParseFileExtra("docs/b.md")
	require.NoError(t, err)
	other, err := NewFileExtraFromPath("/other/c.md", 0)
	require.NoError(t, err)
	a.SetExtra(absFile)
	a1.SetExtra(relFile)
	b.SetExtra(other)

	assert.True(t, m.DoesContainFileLink("/base", "docs"))
	assert.True(t, m.DoesContainFileLink("/base", "docs/b.md"))
	assert.False(t, m.DoesContainFileLink("/base", "doc"))
	assert.False(t, m.DoesContainFileLink("/base", "/nowhere"))

	assert.True(t, m.ReplaceAllLinksToFile("/base", "docs", "notes"))
	e, _ := a.Extra(ExtraFile)
	assert.Equal(t, "file:///base/notes/a.md?line=3", e.Value())
	e, _ = a1.Extra(ExtraFile)
	assert.Equal(t, "notes/b.md", e.Value())
	e, _ = b.Extra(ExtraFile)
	assert.Equal(t, "file:///other/c.md", e.Value())

	assert.False(t, m.ReplaceAllLinksToFile("/base", "docs", "elsewhere"))

	assert.True(t, m.DeleteAllLinksToFile("/base", "notes/a.md"))
	_, ok := a.Extra(ExtraFile)
	assert.False(t, ok)
	_, ok = a1.Extra(ExtraFile)
	assert.True(t, ok)
	assert.False(t, m.DeleteAllLinksToFile("/base", "notes/a.md"))
}

func TestListenersReceivePaths(t *testing.T) {
	m, a, _, a2, _ := abc(t)
	rec := &recorder{}
	m.AddListener(rec)
	m.AddListener(rec)

	a2.SetText("A2 renamed")
	m.Root().MakeChild("C", nil)
	m.RemoveTopic(a)
	m.NewTopic("detached").SetText("ignored")

	assert.Equal(t, []Event{
		{Kind: EventTopicChanged, Path: []int{0, 1}},
		{Kind: EventStructureChanged, Path: []int{2}},
		{Kind: EventStructureChanged, Path: []int{0}},
	}, rec.all())

	assert.True(t, m.RemoveListener(rec))
	assert.False(t, m.RemoveListener(rec))
	m.Root().SetText("quiet")
	assert.Len(t, rec.all(), 3)
}

func TestFlagsRaiseTopicEvents(t *testing.T) {
	m, a, _, _, _ := abc(t)
	rec := &recorder{}
	m.AddListener(rec)

	a.SetCollapsed(true)
	a.SetLeftSide(true)
	a.SetCollapsed(false)

	assert.True(t, a.IsLeftSide())
	assert.False(t, a.IsCollapsed())
	assert.Equal(t, []Event{
		{Kind: EventTopicChanged, Path: []int{0}},
		{Kind: EventTopicChanged, Path: []int{0}},
		{Kind: EventTopicChanged, Path: []int{0}},
	}, rec.all())
}

func TestListenerMayReenterDocument(t *testing.T) {
	m := New()
	var seen []string
	var self *ListenerFuncs
	self = &ListenerFuncs{
		Topic: func(m *MindMap, e Event) {
			seen = append(seen, m.TopicForPath(e.Path).Text())
			m.RemoveListener(self)
			m.Root().MakeChild("from listener", nil)
		},
	}
	m.AddListener(self)

	m.Root().SetText("hello")
	assert.Equal(t, []string{"hello"}, seen)
	assert.Equal(t, 1, m.Root().ChildCount())
}

func TestPanickingListenerDoesNotStopDelivery(t *testing.T) {
	m := New()
	rec := &recorder{}
	m.AddListener(&ListenerFuncs{Topic: func(*MindMap, Event) { panic("boom") }})
	m.AddListener(rec)

	assert.NotPanics(t, func() { m.Root().SetText("x") })
	assert.Len(t, rec.all(), 1)
}

func TestTxDefersEvents(t *testing.T) {
	m := New()
	rec := &recorder{}
	m.AddListener(rec)

	tx := m.Lock()
	child, err := tx.MakeChild(tx.Root(), "a", nil)
	require.NoError(t, err)
	require.NoError(t, tx.SetText(child, "b"))
	require.NoError(t, tx.PutAttribute(child, AttrFillColor, "#000"))
	assert.Equal(t, "b", tx.Text(child))
	assert.Equal(t, []int{0}, tx.Path(child))
	assert.ErrorIs(t, tx.SetText(New().Root(), "x"), ErrForeignTopic)
	assert.Empty(t, rec.all())
	tx.Unlock()
	tx.Unlock()

	assert.Equal(t, []Event{
		{Kind: EventStructureChanged, Path: []int{0}},
		{Kind: EventTopicChanged, Path: []int{0}},
		{Kind: EventTopicChanged, Path: []int{0}},
	}, rec.all())
	assert.Panics(t, func() { tx.Root() })
}

func TestTxSerializesReadModifyWrite(t *testing.T) {
	m := New()
	const workers = 50

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tx := m.Lock()
			defer tx.Unlock()
			v, _ := tx.Attribute("count")
			n, _ := strconv.Atoi(v)
			assert.NoError(t, tx.SetAttribute("count", strconv.Itoa(n+1)))
		}()
	}
	wg.Wait()

	v, _ := m.Attribute("count")
	assert.Equal(t, strconv.Itoa(workers), v)
}

func TestConcurrentRootAccess(t *testing.T) {
	m := New()
	candidates := make([]*Topic, 8)
	valid := make(map[string]bool)
	for i := range candidates {
		text := "root-" + strconv.Itoa(i)
		candidates[i] = m.NewTopic(text)
		candidates[i].MakeChild("child", nil)
		valid[text] = true
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				assert.NoError(t, m.SetRoot(candidates[(i+j)%len(candidates)]))
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				root := m.Root()
				if assert.NotNil(t, root) {
					assert.True(t, valid[root.Text()])
					assert.Equal(t, 1, root.ChildCount())
				}
			}
		}()
	}
	wg.Wait()
}

func TestAllStopsEarly(t *testing.T) {
	m, _, _, _, _ := abc(t)
	var visited []string
	for topic := range m.All() {
		visited = append(visited, topic.Text())
		if len(visited) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"Root", "A"}, visited)

	var walked []string
	m.Root().Child(0).Walk(func(topic *Topic) bool {
		walked = append(walked, topic.Text())
		return true
	})
	assert.Equal(t, []string{"A", "A1", "A2"}, walked)
}
