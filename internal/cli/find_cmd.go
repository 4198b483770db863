package cli

import (
	"context"
	"fmt"
	"strings"

	"mindmark/internal/model"
)

// searchQuery builds a query from the pattern argument and the --case,
// --regex and --in options.
func (c *CLI) searchQuery(cmd Command, pattern string) (*model.SearchQuery, error) {
	re, err := model.MakePattern(pattern, cmd.Flag("case"), cmd.Flag("regex"))
	if err != nil {
		return nil, err
	}
	q := &model.SearchQuery{
		BaseFolder: c.cfg.BaseFolder,
		Pattern:    re,
		InText:     true,
		Kinds:      model.NewExtraTypes(model.KnownExtraTypes...),
	}

	if in, ok := cmd.Flags["in"]; ok {
		q.InText = false
		q.Kinds = model.NewExtraTypes()
		for _, name := range strings.Split(in, ",") {
			name = strings.TrimSpace(name)
			if strings.EqualFold(name, "text") {
				q.InText = true
				continue
			}
			kind := model.ParseExtraType(name)
			if kind == model.ExtraUnknown {
				return nil, fmt.Errorf("unknown search target %q", name)
			}
			q.Kinds[kind] = struct{}{}
		}
	}
	return q, nil
}

func (c *CLI) findAll(_ context.Context, cmd Command) error {
	q, err := c.searchQuery(cmd, cmd.Args[0])
	if err != nil {
		return err
	}
	c.query = q
	matches, err := c.doc.FindAll(*q)
	if err != nil {
		return err
	}
	c.topicUI.FindResults(matches)
	return nil
}

func (c *CLI) findNext(_ context.Context, cmd Command) error {
	return c.step(cmd, c.doc.FindNext)
}

func (c *CLI) findPrev(_ context.Context, cmd Command) error {
	return c.step(cmd, c.doc.FindPrev)
}

// step moves the selection to the next match in one direction. A new
// pattern restarts the search from the document boundary.
func (c *CLI) step(cmd Command, find func(*model.Topic, model.SearchQuery) (*model.Topic, error)) error {
	start := c.selection()
	if len(cmd.Args) > 0 {
		q, err := c.searchQuery(cmd, cmd.Args[0])
		if err != nil {
			return err
		}
		c.query = q
		start = nil
	}
	if c.query == nil {
		return fmt.Errorf("no previous search, give a pattern")
	}

	found, err := find(start, *c.query)
	if err != nil {
		return err
	}
	if found == nil {
		c.ui.Info("No more matches")
		return nil
	}
	c.selectTopic(found)
	return nil
}

func (c *CLI) fileCheck(_ context.Context, cmd Command) error {
	if c.doc.DoesContainFileLink(c.cfg.BaseFolder, cmd.Args[0]) {
		c.ui.Println(fmt.Sprintf("%s is referenced", cmd.Args[0]))
	} else {
		c.ui.Println(fmt.Sprintf("%s is not referenced", cmd.Args[0]))
	}
	return nil
}

func (c *CLI) fileRename(_ context.Context, cmd Command) error {
	if !c.doc.ReplaceAllLinksToFile(c.cfg.BaseFolder, cmd.Args[0], cmd.Args[1]) {
		c.ui.Info("No references changed")
		return nil
	}
	c.ui.Success("References updated")
	return nil
}

func (c *CLI) fileForget(_ context.Context, cmd Command) error {
	if !c.doc.DeleteAllLinksToFile(c.cfg.BaseFolder, cmd.Args[0]) {
		c.ui.Info("No references removed")
		return nil
	}
	c.ui.Success("References removed")
	return nil
}
