package ui

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"mindmark/internal/model"
	"mindmark/internal/storage"
)

const timeLayout = "2006-01-02 15:04:05"

// DocumentUI draws whole documents and stored document listings.
type DocumentUI struct {
	visualizer *Visualizer
}

func NewDocumentUI(w io.Writer, useColor bool) *DocumentUI {
	return &DocumentUI{
		visualizer: NewVisualizer(w, useColor),
	}
}

// ViewOptions controls MapView.
type ViewOptions struct {
	// ShowAll expands collapsed topics.
	ShowAll bool
	// ShowUID appends link identifiers to topics that carry one.
	ShowUID bool
	// Selected is highlighted when drawn.
	Selected *model.Topic
}

// FormatIndex renders a topic path as a dotted, 1-based logical index.
// The root is "0" and a topic outside the tree is "-".
func FormatIndex(path []int) string {
	if path == nil {
		return "-"
	}
	if len(path) == 0 {
		return "0"
	}
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = strconv.Itoa(p + 1)
	}
	return strings.Join(parts, ".")
}

// DisplayText flattens multi-line topic text onto one line.
func DisplayText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\n", " ⏎ ")
}

// DocumentList displays the stored documents.
func (dui *DocumentUI) DocumentList(docs []storage.DocumentInfo) {
	if len(docs) == 0 {
		dui.visualizer.Println("No stored documents")
		return
	}

	dui.visualizer.Println("Stored documents:")
	for _, d := range docs {
		dui.visualizer.PrintLine(Line{
			{Text: d.Name, Color: ColorLightPurple},
			{Text: fmt.Sprintf(" (%d revisions, updated %s)", d.Revisions, d.Updated.Local().Format(timeLayout)), Color: ColorGray},
		})
	}
}

// RevisionList displays the saved versions of one document.
func (dui *DocumentUI) RevisionList(name string, revs []storage.Revision) {
	dui.visualizer.Printf("Revisions of %s:\n", name)
	for _, r := range revs {
		dui.visualizer.PrintLine(Line{
			{Text: fmt.Sprintf("%6d ", r.ID), Color: ColorYellow},
			{Text: fmt.Sprintf("%s %d bytes", r.Created.Local().Format(timeLayout), r.Size), Color: ColorDefault},
		})
	}
}

// MapView draws the topic tree of m.
func (dui *DocumentUI) MapView(m *model.MindMap, opts ViewOptions) {
	root := m.Root()
	if root == nil {
		dui.visualizer.Println("Empty mind map")
		return
	}
	for _, line := range mapLines(root, opts) {
		dui.visualizer.PrintLine(line)
	}
}

// TopicTree draws the subtree below t, numbered by its place in the document.
func (dui *DocumentUI) TopicTree(t *model.Topic, opts ViewOptions) {
	for _, line := range mapLines(t, opts) {
		dui.visualizer.PrintLine(line)
	}
}

func mapLines(top *model.Topic, opts ViewOptions) []Line {
	var output []Line

	var buildTree func(t *model.Topic, path []int, prefix Line, isLast, isRoot bool)
	buildTree = func(t *model.Topic, path []int, prefix Line, isLast, isRoot bool) {
		line := slices.Clone(prefix)
		childPrefix := slices.Clone(prefix)
		if !isRoot {
			if isLast {
				line.add("└── ", ColorBrown)
				childPrefix.add("    ", ColorDefault)
			} else {
				line.add("├── ", ColorBrown)
				childPrefix.add("│   ", ColorBrown)
			}
		}
		line = append(line, topicSegments(t, path, opts)...)

		children := t.Children()
		hidden := t.IsCollapsed() && !opts.ShowAll && len(children) > 0
		if hidden {
			line.add(fmt.Sprintf(" [+%d]", len(children)), ColorGray)
		}
		output = append(output, line)
		if hidden {
			return
		}

		for i, child := range children {
			buildTree(child, append(slices.Clone(path), i), childPrefix, i == len(children)-1, false)
		}
	}

	buildTree(top, top.Path(), nil, true, true)
	return output
}

func topicSegments(t *model.Topic, path []int, opts ViewOptions) Line {
	var line Line
	indexColor := ColorYellow
	if t == opts.Selected {
		indexColor = ColorLightGreen
		line.add("▶ ", ColorLightGreen)
	}
	line.add(FormatIndex(path), indexColor)
	line.add(" ", ColorDefault)

	textColor := ColorDefault
	if hex, ok := t.Attribute(model.AttrTextColor); ok {
		if c, ok := HexColor(hex); ok {
			textColor = c
		}
	}
	text := DisplayText(t.Text())
	if text == "" {
		line.add("(empty)", ColorDarkGray)
	} else {
		line.add(text, textColor)
	}

	for _, e := range t.Extras() {
		line.add(" ["+e.Type().String()+"]", ColorOrange)
	}
	if opts.ShowUID {
		if uid := t.UID(); uid != "" {
			line.add(" {"+uid+"}", ColorDarkGray)
		}
	}
	return line
}
