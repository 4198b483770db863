package cli

import (
	"context"
	"fmt"
	"strconv"

	"mindmark/internal/model"
	"mindmark/internal/ui"
)

func (c *CLI) extraLink(_ context.Context, cmd Command) error {
	t, err := c.resolve(cmd.Args[0])
	if err != nil {
		return err
	}
	link, err := model.ParseLinkExtra(cmd.Args[1])
	if err != nil {
		return err
	}
	t.SetExtra(link)
	return nil
}

func (c *CLI) extraFile(_ context.Context, cmd Command) error {
	t, err := c.resolve(cmd.Args[0])
	if err != nil {
		return err
	}
	line := 0
	if len(cmd.Args) > 2 {
		line, err = strconv.Atoi(cmd.Args[2])
		if err != nil || line < 1 {
			return fmt.Errorf("invalid line %q", cmd.Args[2])
		}
	}
	file, err := model.NewFileExtraFromPath(cmd.Args[1], line)
	if err != nil {
		return err
	}
	t.SetExtra(file)
	return nil
}

func (c *CLI) extraNote(_ context.Context, cmd Command) error {
	t, err := c.resolve(cmd.Args[0])
	if err != nil {
		return err
	}
	text := cmd.Args[1]
	hint := ""
	if len(cmd.Args) > 2 {
		hint = cmd.Args[2]
	}

	if !cmd.Flag("encrypt") {
		if hint != "" {
			return fmt.Errorf("a hint is only stored with --encrypt")
		}
		t.SetExtra(model.NewNoteExtra(text))
		return nil
	}

	password, err := c.password("Note password: ")
	if err != nil {
		return err
	}
	confirm, err := c.password("Repeat password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}
	note, err := model.NewEncryptedNote(text, password, hint)
	if err != nil {
		return err
	}
	t.SetExtra(note)
	c.ui.Success("Encrypted note attached")
	return nil
}

func (c *CLI) extraReveal(_ context.Context, cmd Command) error {
	t, err := c.resolve(cmd.Args[0])
	if err != nil {
		return err
	}
	e, ok := t.Extra(model.ExtraNote)
	if !ok {
		return fmt.Errorf("topic %s has no note", cmd.Args[0])
	}
	note := e.(*model.NoteExtra)
	if !note.IsEncrypted() {
		c.ui.Println(note.Text())
		return nil
	}

	prompt := "Note password: "
	if note.Hint() != "" {
		prompt = fmt.Sprintf("Note password (hint: %s): ", note.Hint())
	}
	password, err := c.password(prompt)
	if err != nil {
		return err
	}
	plain, err := note.Decrypt(password)
	if err != nil {
		return err
	}
	c.ui.Println(plain)
	return nil
}

func (c *CLI) extraJump(_ context.Context, cmd Command) error {
	from, err := c.resolve(cmd.Args[0])
	if err != nil {
		return err
	}
	to, err := c.resolve(cmd.Args[1])
	if err != nil {
		return err
	}
	return c.doc.MakeTopicLink(from, to)
}

func (c *CLI) extraFollow(_ context.Context, cmd Command) error {
	t, err := c.resolve(cmd.Args[0])
	if err != nil {
		return err
	}
	e, ok := t.Extra(model.ExtraTopic)
	if !ok {
		return fmt.Errorf("topic %s has no jump link", cmd.Args[0])
	}
	target := c.doc.FindTopicForLink(e.(*model.TopicExtra))
	if target == nil {
		return fmt.Errorf("%w: jump link target %s", model.ErrNotFound, e.Value())
	}
	c.selectTopic(target)
	return nil
}

func (c *CLI) extraDelete(_ context.Context, cmd Command) error {
	t, err := c.resolve(cmd.Args[0])
	if err != nil {
		return err
	}
	kind := model.ParseExtraType(cmd.Args[1])
	if kind == model.ExtraUnknown {
		return fmt.Errorf("unknown extra kind %q", cmd.Args[1])
	}
	if !t.RemoveExtra(kind) {
		return fmt.Errorf("topic %s has no %s extra", ui.FormatIndex(t.Path()), kind)
	}
	return nil
}
