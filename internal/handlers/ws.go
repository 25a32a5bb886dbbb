package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/vancomm/minesweap/internal/mines"
	"github.com/vancomm/minesweap/internal/session"
)

// wsReadLimit caps one client message at roughly a few hundred commands.
const wsReadLimit = 4096

type wsCommand string

const (
	wsGet    wsCommand = "g"
	wsReveal wsCommand = "r"
	wsFlag   wsCommand = "f"
	wsUnflag wsCommand = "u"
)

var wsMoves = map[wsCommand]GameMove{
	wsReveal: Reveal,
	wsFlag:   Flag,
	wsUnflag: Unflag,
}

type command struct {
	move  GameMove // zero for wsGet
	point mines.Point
}

type wsReply struct {
	*MoveResponse
	Error string `json:"error,omitempty"`
}

func parseRowCol(args []string) (p mines.Point, err error) {
	if len(args) != 2 {
		err = fmt.Errorf("expected row and column, got %d arguments", len(args))
		return
	}
	if p.Row, err = strconv.Atoi(args[0]); err != nil {
		err = fmt.Errorf("row must be an int")
		return
	}
	if p.Col, err = strconv.Atoi(args[1]); err != nil {
		err = fmt.Errorf("column must be an int")
		return
	}
	return
}

func parseCommand(line string) (command, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return command{}, fmt.Errorf("empty command")
	}
	cmd, args := wsCommand(tokens[0]), tokens[1:]
	if cmd == wsGet {
		if len(args) != 0 {
			return command{}, fmt.Errorf("'g' takes no arguments")
		}
		return command{}, nil
	}
	move, ok := wsMoves[cmd]
	if !ok {
		return command{}, fmt.Errorf("unknown command %q", tokens[0])
	}
	p, err := parseRowCol(args)
	if err != nil {
		return command{}, err
	}
	return command{move, p}, nil
}

// parseMessage reads one command per non-blank line.
func parseMessage(message string) ([]command, error) {
	var commands []command
	for i, line := range strings.Split(message, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		c, err := parseCommand(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		commands = append(commands, c)
	}
	if len(commands) == 0 {
		return nil, fmt.Errorf("empty message")
	}
	return commands, nil
}

// execute applies a whole message under one lock and stops at the first
// terminal status.
func (g GameHandler) execute(s *session.Session, message string) *wsReply {
	commands, err := parseMessage(message)
	if err != nil {
		return &wsReply{Error: err.Error()}
	}

	snapshot, err := s.Do(g.store.Now(), func(game *mines.Game) error {
		for _, c := range commands {
			if c.move == 0 {
				continue
			}
			if err := c.move.Apply(game, c.point); err != nil {
				return err
			}
			if game.Over() {
				break
			}
		}
		return nil
	})

	reply := &wsReply{MoveResponse: NewMoveResponse(snapshot)}
	if err != nil {
		reply.Error = err.Error()
	}
	return reply
}

func (g GameHandler) wsRunGameLoop(conn *websocket.Conn, s *session.Session) error {
	for {
		mt, buf, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if mt != websocket.TextMessage {
			return nil
		}

		reply := g.execute(s, string(buf))
		if err := conn.WriteJSON(reply); err != nil {
			return fmt.Errorf("unable to write json: %w", err)
		}
	}
}

func (g GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	s, ok := g.sessionFromRequest(w, r)
	if !ok {
		return
	}

	conn, err := g.ws.Upgrader.Upgrade(w, r, nil) // headers sent here
	if err != nil {
		g.logger.Error("unable to upgrade", slog.Any("error", err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsReadLimit)

	g.logger.Debug("established WS connection", slog.Int64("id", s.ID))

	err = g.wsRunGameLoop(conn, s)
	if err != nil && !websocket.IsCloseError(err,
		websocket.CloseNormalClosure, websocket.CloseGoingAway,
	) {
		g.logger.Warn("error in ws loop", slog.Int64("id", s.ID), slog.Any("error", err))
	}
}
