package cli

import (
	"fmt"

	"github.com/chzyer/readline"
)

// CommandHelp represents the structure of help information for a specific command.
type CommandHelp struct {
	Scope     string
	Operation string
	ShortDesc string
	LongDesc  string
	Syntax    string
	Arguments []string
	Options   []string
	Examples  []string
}

// commandHelps is a slice of CommandHelp structs containing help information for all commands.
var commandHelps = []CommandHelp{
	{
		Scope:     "map",
		Operation: "new",
		ShortDesc: "Start a new mind map",
		LongDesc:  "Replaces the current document with an empty mind map whose root carries the given text.",
		Syntax:    "map new [root_text]",
		Arguments: []string{"root_text: (Optional) Text of the root topic"},
		Examples:  []string{"map new", `map new "Project plan"`},
	},
	{
		Scope:     "map",
		Operation: "open",
		ShortDesc: "Open a mind map file",
		LongDesc:  "Reads a mind map from a text file and makes it the current document.",
		Syntax:    "map open <filename>",
		Arguments: []string{"filename: The file to read"},
		Examples:  []string{"map open plan.mmd"},
	},
	{
		Scope:     "map",
		Operation: "save",
		ShortDesc: "Save the mind map to a file",
		LongDesc:  "Writes the current document as text. Without a file name the file it was opened from is used. A missing extension becomes .mmd.",
		Syntax:    "map save [filename]",
		Arguments: []string{"filename: (Optional) The file to write"},
		Examples:  []string{"map save", "map save backup/plan"},
	},
	{
		Scope:     "map",
		Operation: "store",
		ShortDesc: "Store the mind map in the database",
		LongDesc:  "Saves the current document in the database under a name and records a revision.",
		Syntax:    "map store [name]",
		Arguments: []string{"name: (Optional) The document name, defaults to the name it was loaded with"},
		Examples:  []string{"map store plans"},
	},
	{
		Scope:     "map",
		Operation: "load",
		ShortDesc: "Load a mind map from the database",
		LongDesc:  "Makes the stored document the current one.",
		Syntax:    "map load <name>",
		Arguments: []string{"name: The document name"},
		Examples:  []string{"map load plans"},
	},
	{
		Scope:     "map",
		Operation: "list",
		ShortDesc: "List stored mind maps",
		LongDesc:  "Lists every document in the database with its revision count.",
		Syntax:    "map list",
	},
	{
		Scope:     "map",
		Operation: "delete",
		ShortDesc: "Delete a stored mind map",
		LongDesc:  "Removes a document and all its revisions from the database.",
		Syntax:    "map delete <name>",
		Arguments: []string{"name: The document name"},
		Examples:  []string{"map delete plans"},
	},
	{
		Scope:     "map",
		Operation: "revisions",
		ShortDesc: "List saved revisions",
		LongDesc:  "Lists the revisions of a stored document, newest first.",
		Syntax:    "map revisions [name]",
		Arguments: []string{"name: (Optional) The document name, defaults to the current one"},
		Examples:  []string{"map revisions plans"},
	},
	{
		Scope:     "map",
		Operation: "revert",
		ShortDesc: "Open an older revision",
		LongDesc:  "Replaces the current document with a past revision of the stored document it was loaded from. The result is unsaved.",
		Syntax:    "map revert <revision>",
		Arguments: []string{"revision: The revision number shown by 'map revisions'"},
		Examples:  []string{"map revert 12"},
	},
	{
		Scope:     "map",
		Operation: "show",
		ShortDesc: "Show the topic tree",
		LongDesc:  "Draws the whole mind map or the subtree below a topic.",
		Syntax:    "map show [index] [--all] [--uid]",
		Arguments: []string{"index: (Optional) Logical index of the topic to start from"},
		Options:   []string{"--all: Expand collapsed topics", "--uid: Show topic link identifiers"},
		Examples:  []string{"map show", "map show 2.1 --all"},
	},
	{
		Scope:     "map",
		Operation: "attr",
		ShortDesc: "Show or change document attributes",
		LongDesc:  "Without arguments lists the document attributes. With a key shows it, with a key and value sets it.",
		Syntax:    "map attr [key] [value] [--del]",
		Options:   []string{"--del: Remove the attribute"},
		Examples:  []string{"map attr", "map attr author me", "map attr author --del"},
	},
	{
		Scope:     "map",
		Operation: "text",
		ShortDesc: "Print the document text",
		LongDesc:  "Prints the current document in its text format.",
		Syntax:    "map text",
	},
	{
		Scope:     "topic",
		Operation: "add",
		ShortDesc: "Add a child topic",
		LongDesc:  "Appends a new topic to the children of the parent topic and selects it.",
		Syntax:    "topic add <parent> <text>",
		Arguments: []string{"parent: Logical index of the parent, '.' for the selection", "text: Topic text, quote text with spaces"},
		Examples:  []string{`topic add 0 "First idea"`, `topic add 1.2 "Detail\nsecond line"`},
	},
	{
		Scope:     "topic",
		Operation: "insert",
		ShortDesc: "Add a sibling topic",
		LongDesc:  "Inserts a new topic right after the given topic and selects it.",
		Syntax:    "topic insert <sibling> <text>",
		Arguments: []string{"sibling: Logical index of the topic to insert after", "text: Topic text"},
		Examples:  []string{`topic insert 1 "Between one and two"`},
	},
	{
		Scope:     "topic",
		Operation: "del",
		ShortDesc: "Delete a topic",
		LongDesc:  "Removes the topic with its subtree. Deleting the root clears the document. Jump links to removed topics are dropped.",
		Syntax:    "topic del <index>",
		Arguments: []string{"index: Logical index of the topic"},
		Examples:  []string{"topic del 1.2"},
	},
	{
		Scope:     "topic",
		Operation: "mod",
		ShortDesc: "Change topic text",
		LongDesc:  "Replaces the text of a topic.",
		Syntax:    "topic mod <index> <text>",
		Examples:  []string{`topic mod 1 "Renamed"`},
	},
	{
		Scope:     "topic",
		Operation: "move",
		ShortDesc: "Move a topic",
		LongDesc:  "Moves a topic under a new parent, at the given 1-based position or at the end.",
		Syntax:    "topic move <index> <parent> [position]",
		Examples:  []string{"topic move 1.2 2", "topic move 3 0 1"},
	},
	{
		Scope:     "topic",
		Operation: "clone",
		ShortDesc: "Clone a topic",
		LongDesc:  "Copies a topic with its subtree and inserts the copy right after it.",
		Syntax:    "topic clone <index> [--shallow]",
		Options:   []string{"--shallow: Copy the topic without its children"},
		Examples:  []string{"topic clone 1", "topic clone 2.1 --shallow"},
	},
	{
		Scope:     "topic",
		Operation: "info",
		ShortDesc: "Show topic details",
		LongDesc:  "Displays text, attributes and extras of a topic.",
		Syntax:    "topic info [index]",
		Examples:  []string{"topic info", "topic info 1.1"},
	},
	{
		Scope:     "topic",
		Operation: "select",
		ShortDesc: "Select a topic",
		LongDesc:  "Selects the topic that '.' refers to and searches start from.",
		Syntax:    "topic select <index>",
		Examples:  []string{"topic select 2.3"},
	},
	{
		Scope:     "topic",
		Operation: "attr",
		ShortDesc: "Show or change topic attributes",
		LongDesc:  "Lists, shows, sets or removes attributes of a topic.",
		Syntax:    "topic attr <index> [key] [value] [--del]",
		Options:   []string{"--del: Remove the attribute"},
		Examples:  []string{"topic attr 1", "topic attr 1 fillColor #ff0000", "topic attr 1 fillColor --del"},
	},
	{
		Scope:     "topic",
		Operation: "collapse",
		ShortDesc: "Collapse or expand a topic",
		LongDesc:  "Marks a topic collapsed so 'map show' hides its children.",
		Syntax:    "topic collapse <index> [--off]",
		Options:   []string{"--off: Expand the topic"},
		Examples:  []string{"topic collapse 2", "topic collapse 2 --off"},
	},
	{
		Scope:     "extra",
		Operation: "link",
		ShortDesc: "Attach a web link",
		LongDesc:  "Attaches a URI to a topic, replacing any previous link.",
		Syntax:    "extra link <index> <uri>",
		Examples:  []string{"extra link 1 https://example.com"},
	},
	{
		Scope:     "extra",
		Operation: "file",
		ShortDesc: "Attach a file reference",
		LongDesc:  "Attaches a file path, optionally with a line number. Relative paths are resolved against the base folder.",
		Syntax:    "extra file <index> <path> [line]",
		Examples:  []string{"extra file 1 docs/plan.md", "extra file 1 main.go 42"},
	},
	{
		Scope:     "extra",
		Operation: "note",
		ShortDesc: "Attach a note",
		LongDesc:  "Attaches free text to a topic. With --encrypt the note is sealed with a password that is asked for.",
		Syntax:    "extra note <index> <text> [hint] [--encrypt]",
		Options:   []string{"--encrypt: Encrypt the note, the optional hint is stored in clear"},
		Examples:  []string{`extra note 1 "remember this"`, `extra note 1 "pin 1234" "bank" --encrypt`},
	},
	{
		Scope:     "extra",
		Operation: "reveal",
		ShortDesc: "Decrypt a note",
		LongDesc:  "Asks for the password and prints the clear text of an encrypted note.",
		Syntax:    "extra reveal <index>",
		Examples:  []string{"extra reveal 1"},
	},
	{
		Scope:     "extra",
		Operation: "jump",
		ShortDesc: "Link a topic to another topic",
		LongDesc:  "Attaches a jump link from one topic to another.",
		Syntax:    "extra jump <from> <to>",
		Examples:  []string{"extra jump 1.1 3"},
	},
	{
		Scope:     "extra",
		Operation: "follow",
		ShortDesc: "Follow a jump link",
		LongDesc:  "Selects the topic a jump link points to.",
		Syntax:    "extra follow <index>",
		Examples:  []string{"extra follow 1.1"},
	},
	{
		Scope:     "extra",
		Operation: "del",
		ShortDesc: "Remove an extra",
		LongDesc:  "Removes the extra of the given kind from a topic.",
		Syntax:    "extra del <index> <file|link|note|topic>",
		Examples:  []string{"extra del 1 note"},
	},
	{
		Scope:     "find",
		Operation: "all",
		ShortDesc: "List matching topics",
		LongDesc:  "Lists every topic whose text or extras match the pattern.",
		Syntax:    "find all <pattern> [--case] [--regex] [--in=text,file,link,note,topic]",
		Options:   []string{"--case: Case-sensitive matching", "--regex: Treat the pattern as a regular expression", "--in: Where to look, defaults to text and every extra"},
		Examples:  []string{"find all idea", `find all "^todo" --regex --in=text`},
	},
	{
		Scope:     "find",
		Operation: "next",
		ShortDesc: "Select the next match",
		LongDesc:  "Searches forward from the selection. Without a pattern the last search is repeated.",
		Syntax:    "find next [pattern] [--case] [--regex] [--in=...]",
		Examples:  []string{"find next idea", "find next"},
	},
	{
		Scope:     "find",
		Operation: "prev",
		ShortDesc: "Select the previous match",
		LongDesc:  "Searches backward from the selection. Without a pattern the last search is repeated.",
		Syntax:    "find prev [pattern] [--case] [--regex] [--in=...]",
		Examples:  []string{"find prev"},
	},
	{
		Scope:     "file",
		Operation: "check",
		ShortDesc: "Check for file references",
		LongDesc:  "Reports whether any topic refers to the file or to something inside the folder.",
		Syntax:    "file check <path>",
		Examples:  []string{"file check docs"},
	},
	{
		Scope:     "file",
		Operation: "rename",
		ShortDesc: "Rewrite file references",
		LongDesc:  "Points every reference to a file, or to anything below a folder, at the new location.",
		Syntax:    "file rename <old_path> <new_path>",
		Examples:  []string{"file rename docs/plan.md docs/roadmap.md"},
	},
	{
		Scope:     "file",
		Operation: "forget",
		ShortDesc: "Drop file references",
		LongDesc:  "Removes every reference to a file, or to anything below a folder.",
		Syntax:    "file forget <path>",
		Examples:  []string{"file forget docs/old"},
	},
}

func findHelp(scope, operation string) (CommandHelp, bool) {
	for _, h := range commandHelps {
		if h.Scope == scope && h.Operation == operation {
			return h, true
		}
	}
	return CommandHelp{}, false
}

// printHelp prints the help message based on the provided arguments
func (c *CLI) printHelp(args []string) error {
	switch len(args) {
	case 0:
		c.showGeneralHelp()
	case 1:
		c.showScopeHelp(args[0])
	case 2:
		c.showOperationHelp(args[0], args[1])
	default:
		return fmt.Errorf("invalid help command. Use 'help [scope] [operation]'")
	}
	return nil
}

// showGeneralHelp displays an overview of all available commands grouped by scope
func (c *CLI) showGeneralHelp() {
	c.ui.Println("Command syntax: <scope> [operation] [arguments] [options]")
	c.ui.Println("\nAvailable commands:")
	currentScope := ""
	for _, cmd := range commandHelps {
		if cmd.Scope != currentScope {
			c.ui.Printf("\n%s:\n", cmd.Scope)
			currentScope = cmd.Scope
		}
		c.ui.Printf("  %-15s %s\n", cmd.Operation, cmd.ShortDesc)
	}
	c.ui.Println("\nIndexes are dotted and 1-based (0 is the root, '.' the selection). Use 'help <scope> <operation>' for details, 'exit' to quit.")
}

// showScopeHelp displays help information for all commands within a specific scope
func (c *CLI) showScopeHelp(scope string) {
	c.ui.Printf("Commands for %s:\n\n", scope)
	for _, cmd := range commandHelps {
		if cmd.Scope == scope {
			c.ui.Printf("%-15s %s\n", cmd.Operation, cmd.ShortDesc)
		}
	}
}

// showOperationHelp displays detailed help information for a specific operation within a scope
func (c *CLI) showOperationHelp(scope, operation string) {
	cmd, ok := findHelp(scope, operation)
	if !ok {
		c.ui.Printf("No help found for %s %s\n", scope, operation)
		return
	}
	c.ui.Printf("Command: %s %s\n", scope, operation)
	c.ui.Printf("Description: %s\n", cmd.LongDesc)
	c.ui.Printf("Syntax: %s\n", cmd.Syntax)
	if len(cmd.Arguments) > 0 {
		c.ui.Println("Arguments:")
		for _, arg := range cmd.Arguments {
			c.ui.Printf("  %s\n", arg)
		}
	}
	if len(cmd.Options) > 0 {
		c.ui.Println("Options:")
		for _, opt := range cmd.Options {
			c.ui.Printf("  %s\n", opt)
		}
	}
	if len(cmd.Examples) > 0 {
		c.ui.Println("Examples:")
		for _, ex := range cmd.Examples {
			c.ui.Printf("  %s\n", ex)
		}
	}
}

// completer offers scopes and operations for tab completion.
func completer() *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	byScope := make(map[string]*readline.PrefixCompleter)
	for _, h := range commandHelps {
		scope, ok := byScope[h.Scope]
		if !ok {
			scope = readline.PcItem(h.Scope)
			byScope[h.Scope] = scope
			items = append(items, scope)
		}
		scope.Children = append(scope.Children, readline.PcItem(h.Operation))
	}
	items = append(items, readline.PcItem("help"), readline.PcItem("exit"))
	return readline.NewPrefixCompleter(items...)
}
