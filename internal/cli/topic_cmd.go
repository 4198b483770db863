package cli

import (
	"context"
	"fmt"
	"strconv"
)

func (c *CLI) topicAdd(_ context.Context, cmd Command) error {
	parent, err := c.resolve(cmd.Args[0])
	if err != nil {
		return err
	}
	c.selectTopic(parent.MakeChild(cmd.Args[1], nil))
	return nil
}

func (c *CLI) topicInsert(_ context.Context, cmd Command) error {
	sibling, err := c.resolve(cmd.Args[0])
	if err != nil {
		return err
	}
	parent := sibling.Parent()
	if parent == nil {
		return fmt.Errorf("the root topic has no siblings")
	}
	c.selectTopic(parent.MakeChild(cmd.Args[1], sibling))
	return nil
}

func (c *CLI) topicDelete(_ context.Context, cmd Command) error {
	t, err := c.resolve(cmd.Args[0])
	if err != nil {
		return err
	}
	isRoot := t == c.doc.Root()
	if !c.doc.RemoveTopic(t) {
		return fmt.Errorf("topic %s could not be removed", cmd.Args[0])
	}
	if isRoot {
		c.ui.Success("Root topic cleared")
	} else {
		c.ui.Success("Topic deleted")
	}
	return nil
}

func (c *CLI) topicModify(_ context.Context, cmd Command) error {
	t, err := c.resolve(cmd.Args[0])
	if err != nil {
		return err
	}
	t.SetText(cmd.Args[1])
	c.topicUI.TopicLine(t)
	return nil
}

func (c *CLI) topicMove(_ context.Context, cmd Command) error {
	t, err := c.resolve(cmd.Args[0])
	if err != nil {
		return err
	}
	parent, err := c.resolve(cmd.Args[1])
	if err != nil {
		return err
	}
	position := -1
	if len(cmd.Args) > 2 {
		n, err := strconv.Atoi(cmd.Args[2])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid position %q", cmd.Args[2])
		}
		position = n - 1
	}

	if err := t.MoveTo(parent, position); err != nil {
		return err
	}
	c.selectTopic(t)
	return nil
}

func (c *CLI) topicClone(_ context.Context, cmd Command) error {
	t, err := c.resolve(cmd.Args[0])
	if err != nil {
		return err
	}
	clone, err := c.doc.CloneTopic(t, !cmd.Flag("shallow"))
	if err != nil {
		return err
	}
	c.selectTopic(clone)
	return nil
}

func (c *CLI) topicInfo(_ context.Context, cmd Command) error {
	target := "."
	if len(cmd.Args) > 0 {
		target = cmd.Args[0]
	}
	t, err := c.resolve(target)
	if err != nil {
		return err
	}
	c.topicUI.TopicInfo(t)
	return nil
}

func (c *CLI) topicSelect(_ context.Context, cmd Command) error {
	t, err := c.resolve(cmd.Args[0])
	if err != nil {
		return err
	}
	c.selectTopic(t)
	return nil
}

func (c *CLI) topicAttr(_ context.Context, cmd Command) error {
	t, err := c.resolve(cmd.Args[0])
	if err != nil {
		return err
	}
	return c.editAttributes(cmd, attributeTarget{
		all:    t.Attributes,
		get:    t.Attribute,
		set:    t.PutAttribute,
		remove: t.RemoveAttribute,
	}, cmd.Args[1:])
}

func (c *CLI) topicCollapse(_ context.Context, cmd Command) error {
	t, err := c.resolve(cmd.Args[0])
	if err != nil {
		return err
	}
	t.SetCollapsed(!cmd.Flag("off"))
	return nil
}
