package ui

import (
	"fmt"
	"io"

	"mindmark/internal/model"
)

type TopicUI struct {
	visualizer *Visualizer
}

func NewTopicUI(w io.Writer, useColor bool) *TopicUI {
	return &TopicUI{
		visualizer: NewVisualizer(w, useColor),
	}
}

// TopicInfo displays a single topic with its attributes and extras.
func (tui *TopicUI) TopicInfo(t *model.Topic) {
	m := t.MindMap()
	tui.visualizer.Printf("Index: %s\n", FormatIndex(t.Path()))
	tui.visualizer.Printf("Text: %s\n", DisplayText(t.Text()))
	tui.visualizer.Printf("Children: %d\n", t.ChildCount())

	attrs := t.Attributes()
	if keys := t.AttributeKeys(); len(keys) > 0 {
		tui.visualizer.Println("Attributes:")
		for _, k := range keys {
			tui.visualizer.Printf("  %s = %s\n", k, attrs[k])
		}
	}

	extras := t.Extras()
	if len(extras) == 0 {
		return
	}
	tui.visualizer.Println("Extras:")
	for _, e := range extras {
		tui.visualizer.PrintColored("  "+e.Type().String(), ColorOrange)
		tui.visualizer.Printf(": %s\n", describeExtra(m, e))
	}
}

func describeExtra(m *model.MindMap, e model.Extra) string {
	switch x := e.(type) {
	case *model.NoteExtra:
		if x.IsEncrypted() {
			if x.Hint() != "" {
				return fmt.Sprintf("(encrypted, hint: %s)", x.Hint())
			}
			return "(encrypted)"
		}
		return DisplayText(x.Text())
	case *model.TopicExtra:
		target := m.FindTopicForLink(x)
		if target == nil {
			return x.UID() + " (missing)"
		}
		return fmt.Sprintf("%s -> %s", FormatIndex(target.Path()), DisplayText(target.Text()))
	case *model.FileExtra:
		if line := x.Line(); line > 0 {
			return fmt.Sprintf("%s (line %d)", x.Value(), line)
		}
		return x.Value()
	default:
		return e.Value()
	}
}

// FindResults displays the topics matched by a search.
func (tui *TopicUI) FindResults(matches []*model.Topic) {
	if len(matches) == 0 {
		tui.visualizer.Println("No matches found.")
		return
	}

	tui.visualizer.Printf("Found %d matches:\n", len(matches))
	for _, t := range matches {
		tui.TopicLine(t)
	}
}

// TopicLine prints the index and text of t on one line.
func (tui *TopicUI) TopicLine(t *model.Topic) {
	tui.visualizer.PrintLine(Line{
		{Text: FormatIndex(t.Path()), Color: ColorYellow},
		{Text: " " + DisplayText(t.Text()), Color: ColorDefault},
	})
}
