package ui

import (
	"fmt"
	"io"
	"strings"
)

// Segment is a run of text drawn in one color.
type Segment struct {
	Text  string
	Color Color
}

// Line is a row of colored segments.
type Line []Segment

func (l *Line) add(text string, color Color) {
	*l = append(*l, Segment{Text: text, Color: color})
}

// Plain returns the line without colors.
func (l Line) Plain() string {
	var b strings.Builder
	for _, s := range l {
		b.WriteString(s.Text)
	}
	return b.String()
}

type Visualizer struct {
	writer   io.Writer
	useColor bool
}

func NewVisualizer(w io.Writer, useColor bool) *Visualizer {
	return &Visualizer{
		writer:   w,
		useColor: useColor,
	}
}

func (v *Visualizer) Printf(format string, args ...any) {
	fmt.Fprintf(v.writer, format, args...)
}

func (v *Visualizer) Println(message string) {
	fmt.Fprintln(v.writer, message)
}

func (v *Visualizer) PrintColored(message string, color Color) {
	if v.useColor && color != "" && color != ColorDefault {
		fmt.Fprintf(v.writer, "%s%s%s", color, message, ColorDefault)
	} else {
		fmt.Fprint(v.writer, message)
	}
}

// PrintLine writes each segment in its color followed by a newline.
func (v *Visualizer) PrintLine(line Line) {
	for _, s := range line {
		v.PrintColored(s.Text, s.Color)
	}
	v.Println("")
}
