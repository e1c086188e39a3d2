// FILE: chesscore/internal/client/commands/debug.go
package commands

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"chesscore/internal/client/display"
	"chesscore/internal/client/session"
)

func (r *Registry) registerDebugCommands() {
	r.Register(&Command{
		Name:        "health",
		ShortName:   ".",
		Description: "Check server health",
		Usage:       "health",
		Handler:     healthHandler,
	})

	r.Register(&Command{
		Name:        "url",
		ShortName:   "/",
		Description: "Set API base URL",
		Usage:       "url [apiUrl]",
		Handler:     urlHandler,
	})

	r.Register(&Command{
		Name:        "raw",
		ShortName:   ":",
		Description: "Send raw API request with the active seat token",
		Usage:       "raw <method> <path> [json-body]",
		Handler:     rawRequestHandler,
	})

	r.Register(&Command{
		Name:        "clear",
		ShortName:   "-",
		Description: "Clear screen",
		Usage:       "clear",
		Handler:     clearHandler,
	})
}

func healthHandler(s *session.Session, args []string) error {
	resp, err := s.Client.Health()
	if err != nil {
		return err
	}

	out := s.Client.Out
	fmt.Fprintf(out, "%sServer Health:%s\n", display.Cyan, display.Reset)
	fmt.Fprintf(out, "  Status:  %s\n", resp.Status)
	fmt.Fprintf(out, "  Time:    %s\n", time.Unix(resp.Time, 0).Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "  Games:   %d\n", resp.Games)
	if resp.Storage != "" {
		fmt.Fprintf(out, "  Storage: %s\n", resp.Storage)
	}

	return nil
}

func urlHandler(s *session.Session, args []string) error {
	if len(args) == 0 {
		fmt.Fprintf(s.Client.Out, "Current API URL: %s\n", s.APIBaseURL)
		return nil
	}

	url := args[0]
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}

	s.APIBaseURL = url
	s.Client.SetBaseURL(url)

	fmt.Fprintf(s.Client.Out, "%sAPI URL set to: %s%s\n", display.Cyan, url, display.Reset)
	return nil
}

func rawRequestHandler(s *session.Session, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: raw <method> <path> [json-body]")
	}

	body := ""
	if len(args) > 2 {
		body = strings.Join(args[2:], " ")
	}

	return s.Client.RawRequest(strings.ToUpper(args[0]), args[1], s.SeatToken(), body)
}

func clearHandler(s *session.Session, args []string) error {
	cmd := exec.Command("clear")
	cmd.Stdout = os.Stdout
	return cmd.Run()
}
