package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"mindmark/internal/log"
	"mindmark/internal/model"
	"mindmark/internal/storage"
	"mindmark/internal/ui"
)

func (c *CLI) mapNew(ctx context.Context, cmd Command) error {
	m := model.New(model.WithLogger(c.logger))
	if len(cmd.Args) > 0 {
		m.Root().SetText(cmd.Args[0])
	}
	c.setDocument(m, "", "")
	c.logger.Info(ctx, "New document started", nil)
	c.ui.Success("New mind map started")
	return nil
}

func (c *CLI) mapOpen(ctx context.Context, cmd Command) error {
	m, err := storage.FileLoad(cmd.Args[0], model.WithLogger(c.logger))
	if err != nil {
		return err
	}
	c.setDocument(m, "", cmd.Args[0])
	c.logger.Info(ctx, "Document opened", log.Fields{"file": cmd.Args[0]})
	c.ui.Success(fmt.Sprintf("Opened %s", cmd.Args[0]))
	return nil
}

func (c *CLI) mapSave(ctx context.Context, cmd Command) error {
	filename := c.docFile
	if len(cmd.Args) > 0 {
		filename = cmd.Args[0]
	}
	if filename == "" {
		return fmt.Errorf("usage: map save <filename>")
	}

	written, err := storage.FileSave(c.doc, filename)
	if err != nil {
		return err
	}
	c.docFile = written
	c.dirty = false
	c.logger.Info(ctx, "Document saved to file", log.Fields{"file": written})
	c.ui.Success(fmt.Sprintf("Mind map saved to %s", written))
	return nil
}

func (c *CLI) mapStore(ctx context.Context, cmd Command) error {
	name := c.docName
	if len(cmd.Args) > 0 {
		name = cmd.Args[0]
	}
	if name == "" {
		return fmt.Errorf("usage: map store <name>")
	}

	if err := c.store.DocumentSave(ctx, name, c.doc); err != nil {
		return err
	}
	c.docName = name
	c.dirty = false
	c.ui.Success(fmt.Sprintf("Mind map stored as '%s'", name))
	return nil
}

func (c *CLI) mapLoad(ctx context.Context, cmd Command) error {
	m, err := c.store.DocumentLoad(ctx, cmd.Args[0])
	if err != nil {
		return err
	}
	c.setDocument(m, cmd.Args[0], "")
	c.ui.Success(fmt.Sprintf("Loaded '%s'", cmd.Args[0]))
	return nil
}

func (c *CLI) mapList(ctx context.Context, _ Command) error {
	docs, err := c.store.DocumentList(ctx)
	if err != nil {
		return err
	}
	c.docUI.DocumentList(docs)
	return nil
}

func (c *CLI) mapDelete(ctx context.Context, cmd Command) error {
	name := cmd.Args[0]
	if err := c.store.DocumentDelete(ctx, name); err != nil {
		return err
	}
	if name == c.docName {
		// The open copy survives as an unsaved document.
		c.docName = ""
		c.dirty = true
	}
	c.ui.Success(fmt.Sprintf("Deleted '%s'", name))
	return nil
}

func (c *CLI) mapRevisions(ctx context.Context, cmd Command) error {
	name := c.docName
	if len(cmd.Args) > 0 {
		name = cmd.Args[0]
	}
	if name == "" {
		return fmt.Errorf("usage: map revisions <name>")
	}
	revs, err := c.store.DocumentRevisions(ctx, name)
	if err != nil {
		return err
	}
	c.docUI.RevisionList(name, revs)
	return nil
}

func (c *CLI) mapRevert(ctx context.Context, cmd Command) error {
	if c.docName == "" {
		return fmt.Errorf("the open mind map is not stored, use 'map load' first")
	}
	id, err := strconv.ParseInt(cmd.Args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid revision %q", cmd.Args[0])
	}
	m, err := c.store.DocumentRevision(ctx, c.docName, id)
	if err != nil {
		return err
	}
	c.setDocument(m, c.docName, "")
	c.dirty = true
	c.ui.Success(fmt.Sprintf("Reverted to revision %d, use 'map store' to keep it", id))
	return nil
}

func (c *CLI) mapShow(_ context.Context, cmd Command) error {
	opts := ui.ViewOptions{
		ShowAll:  cmd.Flag("all"),
		ShowUID:  cmd.Flag("uid"),
		Selected: c.selection(),
	}
	if len(cmd.Args) == 0 {
		c.docUI.MapView(c.doc, opts)
		return nil
	}
	t, err := c.resolve(cmd.Args[0])
	if err != nil {
		return err
	}
	c.docUI.TopicTree(t, opts)
	return nil
}

func (c *CLI) mapAttr(_ context.Context, cmd Command) error {
	return c.editAttributes(cmd, attributeTarget{
		all:    c.doc.Attributes,
		get:    c.doc.Attribute,
		set:    c.doc.SetAttribute,
		remove: c.doc.RemoveAttribute,
	}, cmd.Args)
}

func (c *CLI) mapText(_ context.Context, _ Command) error {
	c.ui.Print(c.doc.ToText())
	return nil
}

// attributeTarget abstracts over document and topic attributes. Document
// attribute changes raise no events, so editAttributes marks the document
// dirty itself.
type attributeTarget struct {
	all    func() map[string]string
	get    func(key string) (string, bool)
	set    func(key, value string) error
	remove func(key string) bool
}

func (c *CLI) editAttributes(cmd Command, target attributeTarget, args []string) error {
	switch {
	case len(args) == 0:
		attrs := target.all()
		if len(attrs) == 0 {
			c.ui.Info("No attributes")
			return nil
		}
		keys := make([]string, 0, len(attrs))
		for k := range attrs {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			c.ui.Printf("%s = %s\n", k, attrs[k])
		}
	case cmd.Flag("del"):
		if !target.remove(args[0]) {
			return fmt.Errorf("attribute %q is not set", args[0])
		}
		c.dirty = true
		c.ui.Success(fmt.Sprintf("Removed %s", args[0]))
	case len(args) == 1:
		v, ok := target.get(args[0])
		if !ok {
			return fmt.Errorf("attribute %q is not set", args[0])
		}
		c.ui.Println(v)
	default:
		if err := target.set(args[0], args[1]); err != nil {
			return err
		}
		c.dirty = true
		c.ui.Success(fmt.Sprintf("Set %s", args[0]))
	}
	return nil
}
