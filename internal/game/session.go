package game

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/starsettlers/settlers-server-go/internal/game/actions"
	"github.com/starsettlers/settlers-server-go/internal/game/state"
)

// Session owns one game's state and applies actions to it one at a time.
type Session struct {
	mu       sync.Mutex
	game     *state.Game
	logger   *zap.Logger
	recorder *ReplayRecorder
}

// NewSession wraps g. The recorder may be nil.
func NewSession(g *state.Game, logger *zap.Logger, recorder *ReplayRecorder) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		game:     g,
		logger:   logger.With(zap.String("game_id", g.ID)),
		recorder: recorder,
	}
	if recorder != nil {
		recorder.StartRecording(g.ID)
		recorder.RecordState(g.ID, g.Clone())
	}
	return s
}

// ID returns the game id.
func (s *Session) ID() string {
	return s.game.ID
}

// Resolve applies one wire action and reports who should hear about it.
func (s *Session) Resolve(rec actions.Record) Resolution {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.game
	if rec.ActionType == actions.TypeLoadedAssets && g.ValidPlayer(rec.Player) {
		return Resolution{To: ToOne, Player: rec.Player, Event: EventLoaded, Content: Update{Game: g.Clone()}}
	}

	a, res := actions.ApplyRecord(g, rec)
	if !res.Legal {
		s.logger.Debug("illegal action",
			zap.Int("player", rec.Player),
			zap.String("action", string(rec.ActionType)),
			zap.String("reason", res.Reason),
		)
		return Resolution{To: ToOne, Player: rec.Player, Event: EventIllegal, Content: res.Reason}
	}

	snapshot := g.Clone()
	if s.recorder != nil {
		s.recorder.RecordState(g.ID, snapshot.Clone())
	}

	event := EventGame
	if g.Ended {
		event = EventEnd
		s.logger.Info("game ended",
			zap.Intp("winner", g.Winner),
			zap.Int("round", g.Round),
		)
	}
	s.logger.Debug("applied action",
		zap.Int("player", rec.Player),
		zap.String("action", string(rec.ActionType)),
		zap.String("phase", g.Phase.String()),
	)

	applied := actions.Encode(a)
	return Resolution{
		To:     ToAll,
		Player: rec.Player,
		Event:  event,
		Content: Update{
			Game:     snapshot,
			Action:   &applied,
			Response: describe(g, a),
		},
	}
}

// Snapshot returns a deep copy of the current state.
func (s *Session) Snapshot() *state.Game {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.game.Clone()
}

func describe(g *state.Game, a actions.Action) string {
	name := g.Players[a.Actor()]
	switch a := a.(type) {
	case actions.Place:
		return fmt.Sprintf("%s placed a mine on planet %d", name, a.Planet)
	case actions.Build:
		return fmt.Sprintf("%s built a %s on planet %d", name, a.Kind, a.Planet)
	case actions.Remove:
		return fmt.Sprintf("%s removed a %s from planet %d", name, a.Kind, a.Planet)
	case actions.RemoveFleet:
		return fmt.Sprintf("%s recalled a fleet from planet %d", name, a.Planet)
	case actions.Recruit:
		return fmt.Sprintf("%s recruited a %s on planet %d", name, a.Agent, a.Planet)
	case actions.Retire:
		return fmt.Sprintf("%s retired their %s", name, a.Agent)
	case actions.MoveAgent:
		return fmt.Sprintf("%s moved their %s to planet %d", name, a.Agent, a.Planet)
	case actions.LaunchMission:
		return fmt.Sprintf("%s launched a mission against planet %d", name, a.Planet)
	case actions.CollectResources:
		return fmt.Sprintf("%s collected resources", name)
	case actions.PayUpkeep:
		return fmt.Sprintf("%s paid upkeep", name)
	case actions.Exchange:
		return fmt.Sprintf("%s traded %s for %s", name, a.Give, a.Take)
	case actions.BlockMission:
		if a.Block {
			return fmt.Sprintf("%s blocked the mission", name)
		}
		return fmt.Sprintf("%s allowed the mission", name)
	case actions.ResolveMission:
		return fmt.Sprintf("%s resolved their mission", name)
	case actions.ViewedMissions:
		return fmt.Sprintf("%s viewed the missions", name)
	case actions.TurnDone:
		return fmt.Sprintf("%s ended their turn", name)
	default:
		return name
	}
}
