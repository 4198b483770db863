// Package cli implements the interactive shell that edits one mind map
// document at a time.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"mindmark/internal/config"
	"mindmark/internal/log"
	"mindmark/internal/model"
	"mindmark/internal/storage"
	"mindmark/internal/ui"
)

// ErrExit is returned by Execute when the user asks to leave.
var ErrExit = errors.New("exit requested")

var errNoDocument = errors.New("no mind map open, use 'map new', 'map open' or 'map load'")

// CLI holds the shell state: the open document, its origin and the selection.
type CLI struct {
	cfg     *config.Config
	store   *storage.Storage
	logger  *log.Logger
	ui      *ui.UI
	docUI   *ui.DocumentUI
	topicUI *ui.TopicUI

	doc      *model.MindMap
	docName  string
	docFile  string
	dirty    bool
	selected *model.Topic
	query    *model.SearchQuery
	watcher  *model.ListenerFuncs

	// password reads a secret from the user; replaced in tests.
	password func(prompt string) (string, error)
}

// NewCLI creates a shell writing to w. store may be nil, which disables the
// database commands.
func NewCLI(cfg *config.Config, store *storage.Storage, logger *log.Logger, w io.Writer) *CLI {
	if logger == nil {
		logger = log.Discard()
	}
	c := &CLI{
		cfg:     cfg,
		store:   store,
		logger:  logger,
		ui:      ui.NewUI(w, cfg.Color),
		docUI:   ui.NewDocumentUI(w, cfg.Color),
		topicUI: ui.NewTopicUI(w, cfg.Color),
	}
	c.password = c.ui.ReadPassword
	c.watcher = &model.ListenerFuncs{
		Structure: func(_ *model.MindMap, e model.Event) { c.changed(e) },
		Topic:     func(_ *model.MindMap, e model.Event) { c.changed(e) },
	}
	return c
}

func (c *CLI) changed(e model.Event) {
	c.dirty = true
	c.logger.Debug(context.Background(), "Document changed", log.Fields{
		"kind": e.Kind.String(),
		"path": ui.FormatIndex(e.Path),
	})
}

// Document returns the open document, or nil.
func (c *CLI) Document() *model.MindMap {
	return c.doc
}

// setDocument makes m the open document. name and file record where it came
// from so that 'map store' and 'map save' can default to them.
func (c *CLI) setDocument(m *model.MindMap, name, file string) {
	if c.doc != nil {
		c.doc.RemoveListener(c.watcher)
		if c.dirty {
			c.ui.Warning("Unsaved changes to the previous mind map were discarded")
		}
	}
	c.doc = m
	c.docName = name
	c.docFile = file
	c.dirty = false
	c.selected = nil
	if m != nil {
		m.AddListener(c.watcher)
		c.selected = m.Root()
	}
}

// Prompt returns the prompt reflecting the open document and selection.
func (c *CLI) Prompt() string {
	if c.doc == nil {
		return c.ui.PromptString("", "", false)
	}
	label := c.docName
	if label == "" && c.docFile != "" {
		label = c.docFile
	}
	if label == "" {
		label = "untitled"
	}
	selected := ""
	if t := c.selection(); t != nil {
		selected = ui.FormatIndex(t.Path())
	}
	return c.ui.PromptString(label, selected, c.dirty)
}

// Run reads commands until the user exits or input ends.
func (c *CLI) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          c.Prompt(),
		HistoryFile:     c.cfg.HistoryFile,
		AutoComplete:    completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()

	c.ui.Println("Welcome to mindmark! Use 'help' for the list of commands.")
	for {
		rl.SetPrompt(c.Prompt())
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			c.ui.Info("Use 'exit' or 'quit' to exit the program.")
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		if err := c.Execute(ctx, line); err != nil {
			if errors.Is(err, ErrExit) {
				break
			}
			c.ui.Error(err.Error())
		}
	}

	if c.dirty {
		c.ui.Warning("Unsaved changes were discarded")
	}
	return nil
}

// ExecuteScript runs every line of a script file, stopping at the first
// failing command. Empty lines and lines starting with '#' are skipped.
func (c *CLI) ExecuteScript(ctx context.Context, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := c.Execute(ctx, line); err != nil {
			if errors.Is(err, ErrExit) {
				return nil
			}
			return fmt.Errorf("%s:%d: %w", filename, lineNo, err)
		}
	}
	return scanner.Err()
}

// Execute runs a single command line.
func (c *CLI) Execute(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	c.logger.LogCommand(ctx, line)

	cmd, err := parseCommand(line)
	if err != nil {
		return err
	}

	switch cmd.Scope {
	case "exit", "quit":
		return ErrExit
	case "help":
		args := cmd.Args
		if cmd.Operation != "" {
			args = append([]string{cmd.Operation}, args...)
		}
		return c.printHelp(args)
	}

	h, ok := handlers[cmd.Scope+" "+cmd.Operation]
	if !ok {
		c.logger.Warn(ctx, "Unknown command", log.Fields{"scope": cmd.Scope, "operation": cmd.Operation})
		if cmd.Operation == "" {
			return fmt.Errorf("unknown command: %s, see 'help'", cmd.Scope)
		}
		return fmt.Errorf("unknown command: %s, see 'help %s'", cmd, cmd.Scope)
	}

	if len(cmd.Args) < h.minArgs || (h.maxArgs >= 0 && len(cmd.Args) > h.maxArgs) {
		help, _ := findHelp(cmd.Scope, cmd.Operation)
		return fmt.Errorf("usage: %s", help.Syntax)
	}
	if h.needsDoc && c.doc == nil {
		return errNoDocument
	}
	if h.needsStore && c.store == nil {
		return errors.New("document database is not available")
	}

	if err := h.run(c, ctx, cmd); err != nil {
		c.logger.Error(ctx, "Command failed", log.Fields{"command": cmd.String(), "error": err})
		return err
	}
	return nil
}

// selection returns the selected topic, falling back to the root when the
// selection was removed from the tree.
func (c *CLI) selection() *model.Topic {
	if c.doc == nil {
		return nil
	}
	if c.selected != nil && c.selected.Path() != nil {
		return c.selected
	}
	c.selected = c.doc.Root()
	return c.selected
}

// resolve finds the topic named by a logical index or '.'.
func (c *CLI) resolve(arg string) (*model.Topic, error) {
	if arg == "." {
		if t := c.selection(); t != nil {
			return t, nil
		}
		return nil, fmt.Errorf("%w: document is empty", model.ErrNotFound)
	}
	path, err := parseIndex(arg)
	if err != nil {
		return nil, err
	}
	t := c.doc.TopicForPath(path)
	if t == nil {
		return nil, fmt.Errorf("%w: %s", model.ErrNotFound, arg)
	}
	return t, nil
}

func (c *CLI) selectTopic(t *model.Topic) {
	c.selected = t
	c.topicUI.TopicLine(t)
}
