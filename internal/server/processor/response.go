// FILE: chesscore/internal/server/processor/response.go
package processor

import (
	"chesscore/internal/server/board"
	"chesscore/internal/server/core"
	"chesscore/internal/server/game"
)

func buildGameResponse(gameID string, g *game.Game) core.GameResponse {
	resp := core.GameResponse{
		GameID:    gameID,
		FEN:       g.FEN(),
		Turn:      g.ActiveSide().String(),
		Phase:     g.Phase().String(),
		MoveCount: g.MoveCount(),
		Scores: core.ScoreResponse{
			White: g.Score(core.ColorWhite),
			Black: g.Score(core.ColorBlack),
		},
		Players: core.PlayersResponse{
			White: g.GetPlayer(core.ColorWhite),
			Black: g.GetPlayer(core.ColorBlack),
		},
	}

	if side, ok := g.Side(core.ColorWhite); ok {
		resp.Material.White = side.Material()
	}
	if side, ok := g.Side(core.ColorBlack); ok {
		resp.Material.Black = side.Material()
	}

	if sel, ok := g.Selected(); ok {
		resp.Selected = sel.Square.String()
	}

	switch {
	case g.InCheck(core.ColorWhite):
		resp.InCheck = core.ColorWhite.String()
	case g.InCheck(core.ColorBlack):
		resp.InCheck = core.ColorBlack.String()
	}

	if last := g.LastResult(); last != nil {
		resp.LastMove = &core.MoveInfo{
			From:        last.From.String(),
			To:          last.To.String(),
			Piece:       last.Piece.String(),
			PlayerColor: last.Color.String(),
			Points:      last.Points,
			Castle:      last.Castle,
		}
		if last.Captured != core.KindNone {
			resp.LastMove.Captured = last.Captured.String()
		}
	}

	return resp
}

func squareResponse(sq core.Square, occ board.Occupant) core.SquareResponse {
	if occ.Empty() {
		return core.SquareResponse{Square: sq.String(), Empty: true}
	}
	return core.SquareResponse{
		Square: sq.String(),
		Color:  occ.Color.String(),
		Piece:  occ.Kind.String(),
	}
}

func squareNames(sqs []core.Square) []string {
	names := make([]string, 0, len(sqs))
	for _, sq := range sqs {
		names = append(names, sq.String())
	}
	return names
}
