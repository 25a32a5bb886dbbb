package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweap/internal/mines"
	"github.com/vancomm/minesweap/internal/session"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

type NewGameDTO struct {
	Rows      int `schema:"rows"`
	Cols      int `schema:"cols"`
	MineCount int `schema:"mine_count"`
}

// ParseNewGameDTO fills in whatever of defaults src does not override.
func ParseNewGameDTO(src map[string][]string, defaults mines.GameParams) (mines.GameParams, error) {
	dto := NewGameDTO(defaults)
	if err := decoder.Decode(&dto, src); err != nil {
		return mines.GameParams{}, err
	}
	return mines.GameParams(dto), nil
}

func ParsePoint(src map[string][]string) (mines.Point, error) {
	var p mines.Point
	err := decoder.Decode(&p, src)
	return p, err
}

type GameMove uint8

const (
	Reveal GameMove = iota + 1
	Flag
	Unflag
)

var gameMoveNames = map[GameMove]string{
	Reveal: "reveal",
	Flag:   "flag",
	Unflag: "unflag",
}

func (m GameMove) String() string {
	if name, ok := gameMoveNames[m]; ok {
		return name
	}
	return "GameMove(" + strconv.Itoa(int(m)) + ")"
}

var ErrBadMove = fmt.Errorf("move must be one of 'reveal', 'flag', 'unflag'")

func ParseGameMove(s string) (GameMove, error) {
	switch strings.ToLower(s) {
	case "reveal", "open":
		return Reveal, nil
	case "flag":
		return Flag, nil
	case "unflag":
		return Unflag, nil
	default:
		return 0, ErrBadMove
	}
}

func (m GameMove) Apply(g *mines.Game, p mines.Point) error {
	var err error
	switch m {
	case Reveal:
		_, err = g.Reveal(p.Row, p.Col)
	case Flag:
		_, err = g.Flag(p.Row, p.Col)
	case Unflag:
		_, err = g.Unflag(p.Row, p.Col)
	default:
		err = ErrBadMove
	}
	return err
}

type GameDTO struct {
	GameID              string       `json:"game_id"`
	Rows                int          `json:"rows"`
	Cols                int          `json:"cols"`
	MineCount           int          `json:"mine_count"`
	MinesRemainingGuess int          `json:"mines_remaining_guess"`
	Status              mines.Status `json:"status"`
	Grid                mines.Grid   `json:"grid"`
	StartedAt           int64        `json:"started_at"`
	EndedAt             *int64       `json:"ended_at,omitempty"`
}

func NewGameDTOFromSnapshot(s *session.Snapshot) *GameDTO {
	var endedAt *int64
	if s.EndedAt != nil {
		e := s.EndedAt.UnixMilli()
		endedAt = &e
	}
	return &GameDTO{
		GameID:              strconv.FormatInt(s.ID, 10),
		Rows:                s.Params.Rows,
		Cols:                s.Params.Cols,
		MineCount:           s.Params.MineCount,
		MinesRemainingGuess: s.MinesRemainingGuess,
		Status:              s.Status,
		Grid:                s.Grid,
		StartedAt:           s.StartedAt.UnixMilli(),
		EndedAt:             endedAt,
	}
}

type NewGameResponse struct {
	Game  *GameDTO `json:"game"`
	Token string   `json:"token"`
}

type MoveResponse struct {
	Game    *GameDTO       `json:"game"`
	Changes []mines.Change `json:"changes"`
}

func NewMoveResponse(s *session.Snapshot) *MoveResponse {
	changes := s.Changes
	if changes == nil {
		changes = []mines.Change{}
	}
	return &MoveResponse{Game: NewGameDTOFromSnapshot(s), Changes: changes}
}
