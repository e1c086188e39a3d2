// FILE: chesscore/internal/client/commands/game.go
package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"chesscore/internal/client/api"
	"chesscore/internal/client/display"
	"chesscore/internal/client/session"
)

var errNoGame = errors.New("no current game, use 'new' or 'join <gameId>'")

func (r *Registry) registerGameCommands() {
	r.Register(&Command{
		Name:        "new",
		ShortName:   "n",
		Description: "Create a new game and hold both seats",
		Usage:       "new [fen-placement] [w|b]",
		Handler:     newGameHandler,
	})

	r.Register(&Command{
		Name:        "join",
		ShortName:   "j",
		Description: "Join/set current game ID, optionally with a seat token",
		Usage:       "join <gameId> [w|b <token>]",
		Handler:     joinGameHandler,
	})

	r.Register(&Command{
		Name:        "show",
		ShortName:   "h",
		Description: "Show board and game state",
		Usage:       "show",
		Handler:     showBoardHandler,
	})

	r.Register(&Command{
		Name:        "select",
		ShortName:   "e",
		Description: "Select a piece of the side to move",
		Usage:       "select <square>",
		Handler:     selectHandler,
	})

	r.Register(&Command{
		Name:        "target",
		ShortName:   "t",
		Description: "Move the selected piece to a square",
		Usage:       "target <square>",
		Handler:     targetHandler,
	})

	r.Register(&Command{
		Name:        "click",
		ShortName:   "i",
		Description: "Select when idle, otherwise move the selection",
		Usage:       "click <square>",
		Handler:     clickHandler,
	})

	r.Register(&Command{
		Name:        "deselect",
		ShortName:   "u",
		Description: "Drop the current selection",
		Usage:       "deselect",
		Handler:     deselectHandler,
	})

	r.Register(&Command{
		Name:        "move",
		ShortName:   "m",
		Description: "Make a move",
		Usage:       "move <from> <to> | move <from><to>",
		Handler:     moveHandler,
	})

	r.Register(&Command{
		Name:        "moves",
		ShortName:   "l",
		Description: "List legal destinations of a piece",
		Usage:       "moves <square>",
		Handler:     destinationsHandler,
	})

	r.Register(&Command{
		Name:        "square",
		ShortName:   "q",
		Description: "Show the occupant of a square",
		Usage:       "square <square>",
		Handler:     squareHandler,
	})

	r.Register(&Command{
		Name:        "score",
		ShortName:   "c",
		Description: "Show both sides' scores",
		Usage:       "score",
		Handler:     scoreHandler,
	})

	r.Register(&Command{
		Name:        "check",
		ShortName:   "k",
		Description: "Show which kings are attacked",
		Usage:       "check",
		Handler:     checkHandler,
	})

	r.Register(&Command{
		Name:        "state",
		ShortName:   "s",
		Description: "Show raw game JSON",
		Usage:       "state",
		Handler:     gameStateHandler,
	})

	r.Register(&Command{
		Name:        "delete",
		ShortName:   "d",
		Description: "Delete a game",
		Usage:       "delete [gameId]",
		Handler:     deleteGameHandler,
	})

	r.Register(&Command{
		Name:        "poll",
		ShortName:   "p",
		Description: "Long-poll for game updates",
		Usage:       "poll",
		Handler:     pollHandler,
	})
}

func currentGame(s *session.Session) (string, error) {
	if s.CurrentGame == "" {
		return "", errNoGame
	}
	return s.CurrentGame, nil
}

func newGameHandler(s *session.Session, args []string) error {
	req := &api.CreateGameRequest{}
	if len(args) > 0 {
		req.FEN = args[0]
	}
	if len(args) > 1 {
		req.Turn = args[1]
	}

	resp, err := s.Client.CreateGame(req)
	if err != nil {
		return err
	}

	s.SetGame(resp.GameID)
	s.Update(resp)

	out := s.Client.Out
	fmt.Fprintf(out, "%sGame created: %s%s\n", display.Green, resp.GameID, display.Reset)
	fmt.Fprintf(out, "%sHolding both seats, moves are sent for the side to move%s\n", display.Cyan, display.Reset)
	if s.Verbose && resp.Seats != nil {
		fmt.Fprintf(out, "White token: %s\nBlack token: %s\n", resp.Seats.White, resp.Seats.Black)
	}
	return nil
}

func joinGameHandler(s *session.Session, args []string) error {
	if len(args) != 1 && len(args) != 3 {
		return fmt.Errorf("usage: join <gameId> [w|b <token>]")
	}

	gameID := args[0]
	resp, err := s.Client.GetGame(gameID)
	if err != nil {
		return err
	}

	s.SetGame(gameID)
	if len(args) == 3 {
		switch args[1] {
		case "w":
			s.WhiteToken = args[2]
		case "b":
			s.BlackToken = args[2]
		default:
			return fmt.Errorf("seat must be w or b, got %q", args[1])
		}
	}
	s.Update(resp)

	fmt.Fprintf(s.Client.Out, "%sJoined game: %s%s\n", display.Green, gameID, display.Reset)
	printSummary(s.Client.Out, resp)
	return nil
}

func showBoardHandler(s *session.Session, args []string) error {
	gameID, err := currentGame(s)
	if err != nil {
		return err
	}

	game, err := s.Client.GetGame(gameID)
	if err != nil {
		return err
	}

	board, err := s.Client.GetBoard(gameID)
	if err != nil {
		return err
	}

	s.Update(game)

	out := s.Client.Out
	fmt.Fprintln(out)
	display.RenderBoard(out, board.Board)
	fmt.Fprintf(out, "\nFEN: %s\n", game.FEN)
	printSummary(out, game)
	return nil
}

func selectHandler(s *session.Session, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: select <square>")
	}
	gameID, err := currentGame(s)
	if err != nil {
		return err
	}

	resp, err := s.Client.Select(gameID, s.SeatToken(), args[0])
	if err != nil {
		return err
	}

	s.Update(&resp.Game)
	fmt.Fprintf(s.Client.Out, "%sSelected %s%s, destinations: %s\n",
		display.Green, resp.Selected, display.Reset, display.Squares(resp.Destinations))
	return nil
}

func targetHandler(s *session.Session, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: target <square>")
	}
	gameID, err := currentGame(s)
	if err != nil {
		return err
	}

	resp, err := s.Client.Target(gameID, s.SeatToken(), args[0])
	if err != nil {
		// the server drops the selection on a failed target
		if s.CurrentGameState != nil {
			s.CurrentGameState.Selected = ""
		}
		return err
	}

	s.Update(resp)
	printMoveAccepted(s.Client.Out, resp)
	return nil
}

func clickHandler(s *session.Session, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: click <square>")
	}
	gameID, err := currentGame(s)
	if err != nil {
		return err
	}

	resp, err := s.Client.Click(gameID, s.SeatToken(), strings.ToLower(args[0]))
	if err != nil {
		if s.CurrentGameState != nil && s.CurrentGameState.Selected != "" {
			s.CurrentGameState.Selected = ""
		}
		return err
	}

	s.Update(&resp.Game)
	if resp.Selected != "" {
		fmt.Fprintf(s.Client.Out, "%sSelected %s%s, destinations: %s\n",
			display.Green, resp.Selected, display.Reset, display.Squares(resp.Destinations))
		return nil
	}
	printMoveAccepted(s.Client.Out, &resp.Game)
	return nil
}

func deselectHandler(s *session.Session, args []string) error {
	gameID, err := currentGame(s)
	if err != nil {
		return err
	}

	resp, err := s.Client.Deselect(gameID, s.SeatToken())
	if err != nil {
		return err
	}

	s.Update(resp)
	fmt.Fprintln(s.Client.Out, "Selection cleared")
	return nil
}

func moveHandler(s *session.Session, args []string) error {
	var from, to string
	switch {
	case len(args) == 2:
		from, to = args[0], args[1]
	case len(args) == 1 && len(args[0]) == 4:
		from, to = args[0][:2], args[0][2:]
	default:
		return fmt.Errorf("usage: move <from> <to>")
	}

	gameID, err := currentGame(s)
	if err != nil {
		return err
	}

	resp, err := s.Client.MakeMove(gameID, s.SeatToken(), strings.ToLower(from), strings.ToLower(to))
	if err != nil {
		return err
	}

	s.Update(resp)
	printMoveAccepted(s.Client.Out, resp)
	return nil
}

func destinationsHandler(s *session.Session, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: moves <square>")
	}
	gameID, err := currentGame(s)
	if err != nil {
		return err
	}

	resp, err := s.Client.GetDestinations(gameID, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(s.Client.Out, "%s on %s: %s\n", resp.Piece, resp.Square, display.Squares(resp.Destinations))
	return nil
}

func squareHandler(s *session.Session, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: square <square>")
	}
	gameID, err := currentGame(s)
	if err != nil {
		return err
	}

	resp, err := s.Client.GetSquare(gameID, args[0])
	if err != nil {
		return err
	}

	if resp.Empty {
		fmt.Fprintf(s.Client.Out, "%s: empty\n", resp.Square)
		return nil
	}
	fmt.Fprintf(s.Client.Out, "%s: %s %s\n", resp.Square, display.ColorForTurn(resp.Color), resp.Piece)
	if len(resp.AttackedBy) > 0 {
		names := make([]string, len(resp.AttackedBy))
		for i, c := range resp.AttackedBy {
			names[i] = colorName(c)
		}
		fmt.Fprintf(s.Client.Out, "Attacked by: %s\n", strings.Join(names, ", "))
	}
	return nil
}

func scoreHandler(s *session.Session, args []string) error {
	gameID, err := currentGame(s)
	if err != nil {
		return err
	}

	resp, err := s.Client.GetGame(gameID)
	if err != nil {
		return err
	}

	s.Update(resp)
	fmt.Fprintf(s.Client.Out, "%s %d | %s %d\n",
		display.ColorForTurn("w"), resp.Scores.White, display.ColorForTurn("b"), resp.Scores.Black)
	return nil
}

func checkHandler(s *session.Session, args []string) error {
	gameID, err := currentGame(s)
	if err != nil {
		return err
	}

	resp, err := s.Client.GetCheck(gameID)
	if err != nil {
		return err
	}

	out := s.Client.Out
	if !resp.White && !resp.Black {
		fmt.Fprintln(out, "No king is attacked")
		return nil
	}
	if resp.White {
		fmt.Fprintf(out, "%s%s king is in check%s\n", display.Yellow, "White", display.Reset)
	}
	if resp.Black {
		fmt.Fprintf(out, "%s%s king is in check%s\n", display.Yellow, "Black", display.Reset)
	}
	return nil
}

func gameStateHandler(s *session.Session, args []string) error {
	gameID, err := currentGame(s)
	if err != nil {
		return err
	}

	resp, err := s.Client.GetGame(gameID)
	if err != nil {
		return err
	}

	s.Update(resp)

	fmt.Fprintf(s.Client.Out, "%sGame State:%s\n", display.Cyan, display.Reset)
	display.PrettyPrintJSON(s.Client.Out, resp)
	return nil
}

func deleteGameHandler(s *session.Session, args []string) error {
	gameID := s.CurrentGame
	if len(args) > 0 {
		gameID = args[0]
	}

	if gameID == "" {
		return fmt.Errorf("specify game ID or set current game")
	}

	if err := s.Client.DeleteGame(gameID); err != nil {
		return err
	}

	if gameID == s.CurrentGame {
		s.Clear()
	}

	fmt.Fprintf(s.Client.Out, "%sGame deleted: %s%s\n", display.Green, gameID, display.Reset)
	return nil
}

func pollHandler(s *session.Session, args []string) error {
	gameID, err := currentGame(s)
	if err != nil {
		return err
	}

	out := s.Client.Out
	moveCount := s.LastMoveCount

	fmt.Fprintf(out, "%sLong-polling for updates (move count: %d)...%s\n", display.Cyan, moveCount, display.Reset)
	fmt.Fprintf(out, "%sThis may take up to 25 seconds%s\n", display.Cyan, display.Reset)

	resp, err := s.Client.GetGameWithPoll(gameID, moveCount)
	if err != nil {
		return err
	}

	s.Update(resp)

	if resp.MoveCount > moveCount {
		fmt.Fprintf(out, "%sGame updated! New moves detected%s\n", display.Green, display.Reset)
		printLastMove(out, resp.LastMove)
	} else {
		fmt.Fprintf(out, "%sNo updates (timeout)%s\n", display.Yellow, display.Reset)
	}
	return nil
}

func printSummary(out io.Writer, g *api.GameResponse) {
	fmt.Fprintf(out, "Turn: %s | Moves: %d | Score: %d-%d\n",
		display.ColorForTurn(g.Turn), g.MoveCount, g.Scores.White, g.Scores.Black)
	fmt.Fprintf(out, "Material: %d-%d\n", g.Material.White, g.Material.Black)
	if g.Selected != "" {
		fmt.Fprintf(out, "Selected: %s\n", g.Selected)
	}
	if g.InCheck != "" {
		fmt.Fprintf(out, "%s%s king is in check%s\n", display.Yellow, colorName(g.InCheck), display.Reset)
	}
	printLastMove(out, g.LastMove)
}

func printMoveAccepted(out io.Writer, g *api.GameResponse) {
	fmt.Fprintf(out, "%sMove accepted%s\n", display.Green, display.Reset)
	printLastMove(out, g.LastMove)
	if g.InCheck != "" {
		fmt.Fprintf(out, "%s%s king is in check%s\n", display.Yellow, colorName(g.InCheck), display.Reset)
	}
}

func printLastMove(out io.Writer, m *api.MoveInfo) {
	if m == nil {
		return
	}
	fmt.Fprintf(out, "Last move: %s %s %s-%s", colorName(m.PlayerColor), m.Piece, m.From, m.To)
	switch {
	case m.Castle:
		fmt.Fprint(out, " (castle)")
	case m.Captured != "":
		fmt.Fprintf(out, " takes %s (+%d)", m.Captured, m.Points)
	}
	fmt.Fprintln(out)
}

func colorName(c string) string {
	if c == "b" {
		return "Black"
	}
	return "White"
}
