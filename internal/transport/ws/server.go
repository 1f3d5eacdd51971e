// Package ws serves the executor to an external game. Each connection gets
// its own Controller: the game streams OBS frames and receives one ACT per
// frame, and may queue goals or ask for a feasibility survey at any time.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"kitchencrew.ai/internal/agent"
	"kitchencrew.ai/internal/persistence/indexdb"
	"kitchencrew.ai/internal/protocol"
	"kitchencrew.ai/internal/sim/catalogs"
	"kitchencrew.ai/internal/sim/envstate"
	"kitchencrew.ai/internal/sim/goals"
	"kitchencrew.ai/internal/sim/levels"
	"kitchencrew.ai/internal/sim/tuning"
)

const (
	handshakeTimeout = 5 * time.Second
	readTimeout      = 60 * time.Second
	writeTimeout     = 5 * time.Second
	outQueue         = 16
	maxMessageBytes  = 1 << 20
)

type Config struct {
	Logger   *zap.Logger
	Catalogs *catalogs.Catalogs
	Tuning   tuning.Tuning

	// LevelsDir, when set, restricts HELLO.level to the level files in it.
	LevelsDir string
	// Tracer receives every controller's decisions. It must be safe for
	// concurrent use.
	Tracer    agent.Tracer
	// Index records one episode per closed session.
	Index     *indexdb.SQLiteIndex
}

type Server struct {
	cfg Config
	log *zap.Logger

	upgrader websocket.Upgrader

	mu       sync.Mutex
	conns    map[*websocket.Conn]struct{}
	sessions sync.WaitGroup
}

func NewServer(cfg Config) *Server {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Catalogs == nil {
		cfg.Catalogs = catalogs.Default()
	}
	return &Server{
		cfg:   cfg,
		log:   log,
		conns: map[*websocket.Conn]struct{}{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

type session struct {
	id      string
	agent   string
	level   string
	started time.Time

	ctrl *agent.Controller
	out  chan []byte
	log  *zap.Logger

	lastTick uint64
	lastEnv  *envstate.State
	frames   int
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		conn.SetReadLimit(maxMessageBytes)
		s.sessions.Add(1)
		defer s.sessions.Done()
		s.track(conn, true)
		defer s.track(conn, false)
		defer conn.Close()

		sess := s.handshake(conn)
		if sess == nil {
			return
		}
		sess.log.Info("session started", zap.String("agent", sess.agent), zap.String("level", sess.level))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case b := <-sess.out:
					_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		for ctx.Err() == nil {
			_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			reply := s.handle(sess, msg)
			if reply == nil {
				continue
			}
			b, err := json.Marshal(reply)
			if err != nil {
				sess.log.Error("marshal reply", zap.Error(err))
				continue
			}
			select {
			case sess.out <- b:
			case <-ctx.Done():
			}
		}
		cancel()
		wg.Wait()

		s.record(sess)
		sess.log.Info("session closed", zap.Int("frames", sess.frames))
	}
}

func (s *Server) track(conn *websocket.Conn, add bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if add {
		s.conns[conn] = struct{}{}
	} else {
		delete(s.conns, conn)
	}
}

// Shutdown closes every open connection and waits for their sessions to be
// recorded. http.Server.Shutdown does not cover hijacked connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for c := range s.conns {
		_ = c.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutdown"), time.Now().Add(time.Second))
		_ = c.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.sessions.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) handshake(conn *websocket.Conn) *session {
	_ = conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return nil
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		reject(conn, protocol.ErrNotWelcomed, "expected HELLO")
		return nil
	}
	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		reject(conn, protocol.ErrProtoBadRequest, "bad HELLO")
		return nil
	}
	if hello.ProtocolVersion != protocol.Version && !slices.Contains(hello.SupportedVersions, protocol.Version) {
		reject(conn, protocol.ErrProtoVersion, "bad protocol_version")
		return nil
	}
	if err := s.checkLevel(hello.Level); err != nil {
		reject(conn, protocol.ErrBadLevel, err.Error())
		return nil
	}
	if hello.AgentName == "" {
		hello.AgentName = "agent"
	}

	id := uuid.NewString()
	log := s.log.With(zap.String("session", id))
	sess := &session{
		id:      id,
		agent:   hello.AgentName,
		level:   hello.Level,
		started: time.Now().UTC(),
		out:     make(chan []byte, outQueue),
		log:     log,
		ctrl: agent.NewController(agent.Options{
			Logger:      log,
			Tracer:      s.cfg.Tracer,
			Goals:       s.cfg.Tuning.Goals(),
			PrereqDepth: s.cfg.Tuning.PrereqDepth,
		}),
	}

	menu := goals.All()
	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SelectedVersion: protocol.Version,
		SessionID:       id,
		ControllerID:    sess.ctrl.ID(),
		Goals:           make([]string, len(menu)),
		Catalogs: protocol.CatalogDigests{
			RecipesDigest: s.cfg.Catalogs.Recipes.Digest,
			TuningDigest:  s.cfg.Tuning.Digest(),
		},
	}
	for i, g := range menu {
		welcome.Goals[i] = string(g)
	}
	if err := writeJSON(conn, welcome); err != nil {
		return nil
	}
	return sess
}

func (s *Server) checkLevel(name string) error {
	if name == "" || s.cfg.LevelsDir == "" {
		return nil
	}
	if filepath.Base(name) != name || strings.Contains(name, "..") {
		return fmt.Errorf("bad level name %q", name)
	}
	path := filepath.Join(s.cfg.LevelsDir, name+".yaml")
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("unknown level %q", name)
	}
	if _, err := levels.Load(path); err != nil {
		return err
	}
	return nil
}

// handle processes one client message and returns the reply, if any.
func (s *Server) handle(sess *session, msg []byte) any {
	base, err := protocol.DecodeBase(msg)
	if err != nil {
		return protocol.NewError(protocol.ErrProtoBadRequest, "bad json")
	}
	if base.ProtocolVersion != protocol.Version {
		return protocol.NewError(protocol.ErrProtoVersion, "bad protocol_version")
	}

	switch base.Type {
	case protocol.TypeObs:
		var obs protocol.ObsMsg
		if err := json.Unmarshal(msg, &obs); err != nil {
			return protocol.NewError(protocol.ErrProtoBadRequest, "bad OBS")
		}
		snap, err := obs.Snapshot()
		if err != nil {
			return protocol.NewError(protocol.ErrBadObs, err.Error())
		}
		env := envstate.New(snap)
		sess.lastTick, sess.lastEnv = obs.Tick, env
		sess.frames++

		move := sess.ctrl.Step(env)
		last := sess.ctrl.Last()
		return protocol.ActMsg{
			Type:            protocol.TypeAct,
			ProtocolVersion: protocol.Version,
			Tick:            obs.Tick,
			Move:            [2]int{move.X, move.Y},
			Goal:            last.Goal,
			Status:          last.Status,
			Msg:             last.Msg,
		}

	case protocol.TypeGoals:
		var gm protocol.GoalsMsg
		if err := json.Unmarshal(msg, &gm); err != nil {
			return protocol.NewError(protocol.ErrProtoBadRequest, "bad GOALS")
		}
		ids := make([]goals.ID, 0, len(gm.Goals))
		for _, g := range gm.Goals {
			id := goals.ID(g)
			if _, err := goals.New(id, s.cfg.Tuning.Goals()); err != nil {
				return protocol.NewError(protocol.ErrUnknownGoal, err.Error())
			}
			ids = append(ids, id)
		}
		if gm.Replace {
			sess.ctrl.Replace(ids...)
		} else {
			sess.ctrl.Enqueue(ids...)
		}
		sess.log.Debug("goals requested", zap.Strings("goals", gm.Goals), zap.Bool("replace", gm.Replace))
		return nil

	case protocol.TypeSurvey:
		if sess.lastEnv == nil {
			return protocol.NewError(protocol.ErrBadObs, "no observation yet")
		}
		return surveyReply(sess.lastTick, goals.Survey(sess.lastEnv, s.cfg.Tuning.Goals()))

	default:
		return protocol.NewError(protocol.ErrProtoBadRequest, "unexpected message type "+base.Type)
	}
}

func surveyReply(tick uint64, cands []goals.Candidate) protocol.SurveyMsg {
	m := protocol.SurveyMsg{
		Type:            protocol.TypeSurvey,
		ProtocolVersion: protocol.Version,
		Tick:            tick,
		Candidates:      make([]protocol.Candidate, 0, len(cands)),
	}
	for _, c := range cands {
		pc := protocol.Candidate{Goal: string(c.ID), OK: c.OK, Reason: c.Reason, Priority: c.Priority}
		for _, p := range c.Prereqs {
			pc.Prereqs = append(pc.Prereqs, string(p))
		}
		m.Candidates = append(m.Candidates, pc)
	}
	return m
}

func (s *Server) record(sess *session) {
	if s.cfg.Index == nil {
		return
	}
	ep := indexdb.Episode{
		ID:        sess.id,
		Source:    "serve",
		Level:     sess.level,
		StartedAt: sess.started.Format(time.RFC3339Nano),
		EndedAt:   time.Now().UTC().Format(time.RFC3339Nano),
		Ticks:     sess.frames,
	}
	s.cfg.Index.RecordEpisode(ep, indexdb.Outcomes(sess.id, sess.agent, 0, sess.ctrl.History()))
}

func reject(conn *websocket.Conn, code, msg string) {
	_ = writeJSON(conn, protocol.NewError(code, msg))
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, msg), time.Now().Add(time.Second))
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, b)
}
