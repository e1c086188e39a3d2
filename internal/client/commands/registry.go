// FILE: chesscore/internal/client/commands/registry.go
package commands

import (
	"fmt"
	"os"
	"strings"

	"chesscore/internal/client/display"
	"chesscore/internal/client/session"
)

// Command defines a client command with its handler
type Command struct {
	Name        string
	ShortName   string
	Description string
	Usage       string
	Handler     func(*session.Session, []string) error
}

// Registry manages command registration and execution
type Registry struct {
	session  *session.Session
	commands map[string]*Command
}

func NewRegistry(s *session.Session) *Registry {
	r := &Registry{
		session:  s,
		commands: make(map[string]*Command),
	}

	r.registerGameCommands()
	r.registerDebugCommands()

	r.Register(&Command{
		Name:        "help",
		ShortName:   "?",
		Description: "Show available commands",
		Usage:       "help [command]",
		Handler:     r.helpHandler,
	})

	r.Register(&Command{
		Name:        "exit",
		ShortName:   "x",
		Description: "Exit the client",
		Usage:       "exit",
		Handler:     exitHandler,
	})

	return r
}

func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	if cmd.ShortName != "" {
		r.commands[cmd.ShortName] = cmd
	}
}

// Lookup returns the command registered under a name or short name
func (r *Registry) Lookup(name string) (*Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

func (r *Registry) Execute(input string) {
	out := r.session.Client.Out

	parts := strings.Fields(input)
	if len(parts) == 0 {
		return
	}

	cmd, exists := r.commands[parts[0]]
	if !exists {
		fmt.Fprintf(out, "%sUnknown command: %s%s\n", display.Red, parts[0], display.Reset)
		fmt.Fprintf(out, "Type 'help' for available commands\n")
		return
	}

	r.session.Client.SetVerbose(r.session.Verbose)

	if err := cmd.Handler(r.session, parts[1:]); err != nil {
		fmt.Fprintf(out, "%sError: %s%s\n", display.Red, err.Error(), display.Reset)
	}
}

func (r *Registry) helpHandler(s *session.Session, args []string) error {
	out := s.Client.Out

	if len(args) > 0 {
		cmd, exists := r.commands[args[0]]
		if !exists {
			return fmt.Errorf("unknown command: %s", args[0])
		}
		fmt.Fprintf(out, "\n%s%s%s - %s\n", display.Cyan, cmd.Name, display.Reset, cmd.Description)
		if cmd.ShortName != "" {
			fmt.Fprintf(out, "Short form: %s%s%s\n", display.Cyan, cmd.ShortName, display.Reset)
		}
		fmt.Fprintf(out, "Usage: %s\n", cmd.Usage)
		return nil
	}

	fmt.Fprintf(out, "\n%sAvailable Commands:%s\n\n", display.Cyan, display.Reset)

	gameCommands := []string{"new", "join", "show", "select", "target", "click", "deselect", "move", "moves", "square", "score", "check", "state", "delete", "poll"}
	utilCommands := []string{"health", "url", "raw", "clear", "help", "exit"}

	printCommandGroup := func(title string, names []string) {
		fmt.Fprintf(out, "%s%s:%s\n", display.Yellow, title, display.Reset)
		for _, name := range names {
			cmd, exists := r.commands[name]
			if !exists {
				continue
			}
			shortPart := "    "
			if cmd.ShortName != "" {
				shortPart = fmt.Sprintf("[%s%s%s] ", display.Cyan, cmd.ShortName, display.Reset)
			}
			fmt.Fprintf(out, "  %s%-10s %s\n", shortPart, cmd.Name, cmd.Description)
		}
	}

	printCommandGroup("Game Commands", gameCommands)
	fmt.Fprintln(out)
	printCommandGroup("Utility Commands", utilCommands)

	fmt.Fprintf(out, "\nType 'help <command>' for detailed usage\n")
	fmt.Fprintf(out, "Add '-v' to any command for verbose output\n")
	return nil
}

func exitHandler(s *session.Session, args []string) error {
	fmt.Fprintf(s.Client.Out, "%sGoodbye!%s\n", display.Cyan, display.Reset)
	os.Exit(0)
	return nil
}
