// Package match drives a full game: it asks the current spymaster for
// a clue, hands the clue to the debate manager, and applies each
// resolved action through the engine, enforcing the caller-side rules
// the engine deliberately leaves out (bonus-guess cap, turn limit).
package match

import (
	"context"
	"fmt"
	"time"

	"github.com/kingrea/parley/internal/agent"
	"github.com/kingrea/parley/internal/board"
	"github.com/kingrea/parley/internal/debate"
	"github.com/kingrea/parley/internal/engine"
	"github.com/kingrea/parley/internal/gamelog"
	"github.com/kingrea/parley/internal/logbook"
)

// Roster is one team's agents.
type Roster struct {
	Spymaster  agent.Spymaster
	Operatives []agent.Operative
}

// Outcome summarizes a finished match.
type Outcome struct {
	GameID    string
	Winner    board.Team
	WinReason string
	Turns     int
	Duration  time.Duration
}

// Options tunes a runner. Log and Events may be nil.
type Options struct {
	MaxTurns int
	Log      *logbook.Logbook
	Events   *gamelog.Writer
}

// Runner plays matches on an engine. One runner drives one game at a
// time; the engine's single-writer rule per game id is preserved by
// construction.
type Runner struct {
	engine   *engine.Engine
	debates  *debate.Manager
	rosters  map[board.Team]Roster
	maxTurns int
	log      *logbook.Logbook
	events   *gamelog.Writer
}

// NewRunner assembles a runner. Both rosters need a spymaster and at
// least one operative.
func NewRunner(eng *engine.Engine, debates *debate.Manager, red, blue Roster, opts Options) (*Runner, error) {
	if eng == nil || debates == nil {
		return nil, fmt.Errorf("match: engine and debate manager are required")
	}
	for team, roster := range map[board.Team]Roster{board.TeamRed: red, board.TeamBlue: blue} {
		if roster.Spymaster == nil || len(roster.Operatives) == 0 {
			return nil, fmt.Errorf("match: %s roster needs a spymaster and operatives", team)
		}
	}
	maxTurns := opts.MaxTurns
	if maxTurns <= 0 {
		maxTurns = 20
	}
	return &Runner{
		engine:   eng,
		debates:  debates,
		rosters:  map[board.Team]Roster{board.TeamRed: red, board.TeamBlue: blue},
		maxTurns: maxTurns,
		log:      opts.Log,
		events:   opts.Events,
	}, nil
}

// Run creates a game and plays it to a winner or the turn limit. A nil
// seed lets the engine pick one. Context cancellation abandons the
// match cleanly between agent calls; no locks are held across them.
func (r *Runner) Run(ctx context.Context, seed *int64) (Outcome, error) {
	start := time.Now()

	gameID, err := r.engine.CreateGame(engine.GameConfig{
		RedOperatives:  len(r.rosters[board.TeamRed].Operatives),
		BlueOperatives: len(r.rosters[board.TeamBlue].Operatives),
		Seed:           seed,
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("match: create game: %w", err)
	}
	g, _ := r.engine.Game(gameID)
	r.log.Info("game %s created: %s starts, seed %d", gameID, g.CurrentTeam, g.Seed)
	r.appendEvent(gamelog.Event{GameID: gameID, Type: gamelog.EventGameCreated, Team: g.CurrentTeam, Seed: g.Seed})

	for !g.Over() && g.TurnCount < r.maxTurns && ctx.Err() == nil {
		r.playTurn(ctx, g)
	}

	turns := g.TurnCount
	if g.Winner != "" {
		// The deciding turn never flips, so it is not in TurnCount.
		turns++
	}
	outcome := Outcome{
		GameID:   gameID,
		Winner:   g.Winner,
		Turns:    turns,
		Duration: time.Since(start),
	}
	switch {
	case g.Winner == "":
		outcome.WinReason = "turn limit reached"
	case g.Board.AssassinRevealed():
		outcome.WinReason = fmt.Sprintf("%s revealed the assassin", g.Winner.Opponent())
	default:
		outcome.WinReason = fmt.Sprintf("%s uncovered all their words", g.Winner)
	}
	r.log.Info("game %s finished after %d turns: %s", gameID, outcome.Turns, outcome.WinReason)
	r.appendEvent(gamelog.Event{GameID: gameID, Type: gamelog.EventGameOver, Turn: outcome.Turns, Winner: g.Winner, Reason: outcome.WinReason})
	return outcome, nil
}

// playTurn runs one team's clue and guessing phase. The team may guess
// up to len(targets)+1 times; the engine only reacts per guess, so the
// cap lives here.
func (r *Runner) playTurn(ctx context.Context, g *engine.GameState) {
	team := g.CurrentTeam
	turn := g.TurnCount
	roster := r.rosters[team]

	plan, ok := r.requestClue(ctx, g, roster)
	if !ok {
		r.passTurn(g, team, "no usable clue")
		return
	}
	r.log.Info("turn %d: %s spymaster %s clues %q for %d", turn, team, roster.Spymaster.Name(), plan.Word, len(plan.Targets))
	r.appendEvent(gamelog.Event{GameID: g.ID, Type: gamelog.EventClue, Turn: turn, Team: team, ClueWord: plan.Word, Targets: plan.Targets})

	correct := 0
	var turnGuesses []engine.GuessRecord
	maxGuesses := len(plan.Targets) + 1

	for attempt := 0; attempt < maxGuesses && ctx.Err() == nil; attempt++ {
		clue := agent.ClueContext{
			Word:            plan.Word,
			Count:           len(plan.Targets),
			CorrectSoFar:    correct,
			PreviousGuesses: turnGuesses,
		}
		result := r.debates.Run(ctx, roster.Operatives, g.OperativeView(), clue)
		r.appendEvent(gamelog.Event{GameID: g.ID, Type: gamelog.EventDebate, Turn: turn, Team: team, Decision: result.FinalDecision, VoteCounts: result.VoteCounts})

		if result.FinalDecision == agent.EndTurnOption {
			r.passTurn(g, team, "team voted to end the turn")
			return
		}

		guess, err := r.engine.ProcessGuess(g.ID, result.FinalDecision, team)
		if err != nil || !guess.Success {
			// The ballot is built from unrevealed words, so this is a
			// defect worth surfacing, not retrying.
			r.log.Warn("turn %d: guess %q rejected: %s", turn, result.FinalDecision, guessFailure(guess, err))
			r.passTurn(g, team, "guess rejected")
			return
		}
		r.log.Info("turn %d: %s guesses %q: %s card", turn, team, result.FinalDecision, guess.Kind)
		r.appendEvent(gamelog.Event{GameID: g.ID, Type: gamelog.EventGuess, Turn: turn, Team: team, GuessWord: result.FinalDecision, Kind: guess.Kind, Correct: guess.Correct})

		turnGuesses = append(turnGuesses, engine.GuessRecord{Team: team, Word: result.FinalDecision, Kind: guess.Kind, Correct: guess.Correct})
		if guess.Correct {
			correct++
		}
		if guess.GameOver || guess.EndTurn {
			return
		}
	}

	// Bonus guess spent without ending the turn.
	r.passTurn(g, team, "guess allowance exhausted")
}

// requestClue asks the spymaster, re-prompting once when the engine
// rejects the clue.
func (r *Runner) requestClue(ctx context.Context, g *engine.GameState, roster Roster) (agent.CluePlan, bool) {
	for attempt := 0; attempt < 2; attempt++ {
		plan, err := roster.Spymaster.GenerateClue(ctx, g.SpymasterView())
		if err != nil {
			r.log.Warn("spymaster %s failed: %v", roster.Spymaster.Name(), err)
			return agent.CluePlan{}, false
		}
		if err := r.engine.ProcessClue(g.ID, plan.Word, plan.Targets, g.CurrentTeam); err != nil {
			r.log.Warn("clue %q rejected: %v", plan.Word, err)
			continue
		}
		return plan, true
	}
	return agent.CluePlan{}, false
}

func (r *Runner) passTurn(g *engine.GameState, team board.Team, reason string) {
	if g.Over() || g.CurrentTeam != team {
		return
	}
	if ok, err := r.engine.EndTurn(g.ID, team); err != nil || !ok {
		r.log.Warn("end turn for %s failed: ok=%v err=%v", team, ok, err)
		return
	}
	r.log.Info("%s turn ends: %s", team, reason)
	r.appendEvent(gamelog.Event{GameID: g.ID, Type: gamelog.EventTurnEnded, Turn: g.TurnCount, Team: team, Reason: reason})
}

func (r *Runner) appendEvent(event gamelog.Event) {
	if r.events == nil {
		return
	}
	if err := r.events.Append(event); err != nil {
		r.log.Warn("event log: %v", err)
	}
}

func guessFailure(guess engine.GuessResult, err error) string {
	if err != nil {
		return err.Error()
	}
	return guess.Error
}
