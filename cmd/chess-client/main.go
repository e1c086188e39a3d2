// FILE: chesscore/cmd/chess-client/main.go
// Package main implements an interactive terminal client for the chess server API.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"chesscore/internal/client/api"
	"chesscore/internal/client/commands"
	"chesscore/internal/client/display"
	"chesscore/internal/client/session"

	"github.com/chzyer/readline"
)

func main() {
	apiURL := flag.String("api", "http://localhost:8080", "Server API base URL")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	flag.Parse()

	if *noColor || !display.IsTerminal(os.Stdout) {
		display.Disable()
	}

	s := &session.Session{
		APIBaseURL: *apiURL,
		Client:     api.New(*apiURL),
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          display.Prompt("chess"),
		HistoryFile:     ".chess_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Printf("%s%s%s\n", display.Red, err.Error(), display.Reset)
		os.Exit(1)
	}
	defer rl.Close()

	fmt.Printf("%sChess Client%s\n", display.Cyan, display.Reset)
	fmt.Printf("%sAPI: %s%s\n", display.Cyan, s.APIBaseURL, display.Reset)
	fmt.Printf("Type 'help' for commands\n\n")

	registry := commands.NewRegistry(s)

	for {
		rl.SetPrompt(buildPrompt(s))

		line, err := rl.Readline()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if line == "exit" || line == "quit" || line == "x" {
			break
		}

		if strings.HasSuffix(line, " -v") {
			s.Verbose = true
			line = strings.TrimSuffix(line, " -v")
		} else {
			s.Verbose = false
		}

		registry.Execute(line)
	}
}

func buildPrompt(s *session.Session) string {
	promptStr := "chess"

	if s.CurrentGame != "" {
		id := s.CurrentGame
		if len(id) > 8 {
			id = id[:8]
		}
		promptStr += display.Yellow + " [" + display.Reset + display.White + id + display.Reset + display.Yellow + "]"
	}

	if st := s.CurrentGameState; st != nil {
		promptStr += fmt.Sprintf(" - Turn:%s", display.ColorForTurn(st.Turn))
		if st.Selected != "" {
			promptStr += fmt.Sprintf(" %s(%s)%s", display.Green, st.Selected, display.Reset)
		}
		if st.InCheck != "" {
			promptStr += display.Red + " +" + display.Reset
		}
	}

	return display.Prompt(promptStr)
}
