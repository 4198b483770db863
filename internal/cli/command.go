package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Command represents a user command with its scope, operation, and arguments
type Command struct {
	Scope     string
	Operation string
	Args      []string
	// Flags holds --name and --name=value options found among the arguments.
	Flags map[string]string
}

// Flag reports whether the --name option was given.
func (c Command) Flag(name string) bool {
	_, ok := c.Flags[name]
	return ok
}

func (c Command) String() string {
	return strings.TrimSpace(c.Scope + " " + c.Operation)
}

var errUnterminatedQuote = errors.New("unterminated quote")

// ParseArgs splits a command line into arguments. Double quotes group words;
// inside quotes \" \\ and \n are recognized.
func ParseArgs(input string) ([]string, error) {
	var args []string
	var current strings.Builder
	inQuotes := false
	hasArg := false
	escaped := false

	for _, char := range input {
		switch {
		case escaped:
			switch char {
			case 'n':
				current.WriteRune('\n')
			case 't':
				current.WriteRune('\t')
			default:
				current.WriteRune(char)
			}
			escaped = false
		case inQuotes && char == '\\':
			escaped = true
		case char == '"':
			inQuotes = !inQuotes
			hasArg = true
		case !inQuotes && (char == ' ' || char == '\t'):
			if hasArg {
				args = append(args, current.String())
				current.Reset()
				hasArg = false
			}
		default:
			current.WriteRune(char)
			hasArg = true
		}
	}

	if inQuotes || escaped {
		return nil, errUnterminatedQuote
	}
	if hasArg {
		args = append(args, current.String())
	}
	return args, nil
}

// parseCommand turns a command line into a Command. Arguments starting with
// "--" become flags; a lone "--" ends flag parsing.
func parseCommand(input string) (Command, error) {
	args, err := ParseArgs(input)
	if err != nil {
		return Command{}, err
	}
	if len(args) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}

	cmd := Command{
		Scope: strings.ToLower(args[0]),
		Flags: make(map[string]string),
	}

	rest := args[1:]
	if len(rest) > 0 && !strings.HasPrefix(rest[0], "--") {
		cmd.Operation = strings.ToLower(rest[0])
		rest = rest[1:]
	}

	for i, arg := range rest {
		if arg == "--" {
			cmd.Args = append(cmd.Args, rest[i+1:]...)
			break
		}
		if name, ok := strings.CutPrefix(arg, "--"); ok && name != "" {
			key, value, _ := strings.Cut(name, "=")
			cmd.Flags[strings.ToLower(key)] = value
			continue
		}
		cmd.Args = append(cmd.Args, arg)
	}
	return cmd, nil
}

// parseIndex reads a dotted, 1-based logical index. "0" is the root.
func parseIndex(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "0" {
		return []int{}, nil
	}
	parts := strings.Split(s, ".")
	path := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid index %q", s)
		}
		path[i] = n - 1
	}
	return path, nil
}
