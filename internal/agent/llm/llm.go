// Package llm implements spymaster and operative agents backed by an
// OpenAI chat model. Every raw completion is funneled through the
// parsers in the agent package before it can reach the engine, so
// malformed model output degrades into a parse error rather than an
// illegal move.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/kingrea/parley/internal/agent"
	"github.com/kingrea/parley/internal/board"
	"github.com/kingrea/parley/internal/engine"
)

// Config holds what the agents need to reach the model.
type Config struct {
	APIKey string
	Model  string
}

func (c Config) validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("llm: api key is required")
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("llm: model is required")
	}
	return nil
}

// completer is the single model call the agents need. Production wraps
// the OpenAI client; tests substitute a script.
type completer interface {
	complete(ctx context.Context, system, user string) (string, error)
}

type chatCompleter struct {
	client openai.Client
	model  string
}

func newChatCompleter(cfg Config) *chatCompleter {
	return &chatCompleter{
		client: openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:  cfg.Model,
	}
}

func (c *chatCompleter) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(0.7),
		MaxTokens:   openai.Int(500),
	})
	if err != nil {
		return "", fmt.Errorf("llm: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm: chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Spymaster generates clues from the full-information view.
type Spymaster struct {
	name  string
	team  board.Team
	model completer
}

// NewSpymaster builds a model-backed spymaster.
func NewSpymaster(name string, team board.Team, cfg Config) (*Spymaster, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Spymaster{name: name, team: team, model: newChatCompleter(cfg)}, nil
}

func (s *Spymaster) Name() string { return s.name }

func (s *Spymaster) GenerateClue(ctx context.Context, view engine.View) (agent.CluePlan, error) {
	var teamWords, opponentWords, neutralWords []string
	assassinWord := ""
	for _, card := range view.Cards {
		if card.Revealed {
			continue
		}
		switch card.Kind {
		case s.team.Kind():
			teamWords = append(teamWords, card.Word)
		case board.KindAssassin:
			assassinWord = card.Word
		case board.KindNeutral:
			neutralWords = append(neutralWords, card.Word)
		default:
			opponentWords = append(opponentWords, card.Word)
		}
	}
	if len(teamWords) == 0 {
		return agent.CluePlan{}, fmt.Errorf("llm: no unrevealed words left for %s", s.team)
	}

	prompt := fmt.Sprintf(`You are the %s Spymaster in a game of Codenames. You need to give a one-word clue and a number.
The number indicates how many words on the board your clue relates to.

Your team's words to guess: %s
Opponent's words (to avoid): %s
Neutral words (to avoid): %s
Assassin word (must avoid at all costs): %s

Game situation:
- Your team has %d words remaining
- Opponent has %d words remaining

IMPORTANT STRATEGY:
- EFFICIENCY is crucial! Try to connect as many of your team's words as possible with a single clue.
- The faster your team finishes, the higher chance of winning, so aim for high-number clues.
- Prioritize clues that connect 3+ words when possible, even if the connection is more abstract.
- Avoid clues that might lead to the assassin or opponent's words.
- Be creative but clear - your operatives must understand your thinking.

You MUST respond in EXACTLY this format:
CLUE: [your_clue_word]
NUMBER: [number_of_words]
TARGETS: [word1], [word2], etc.

The TARGETS must be words from your team's list above, and the NUMBER must match the count of TARGETS.`,
		s.team, strings.Join(teamWords, ", "), strings.Join(opponentWords, ", "),
		strings.Join(neutralWords, ", "), assassinWord, len(teamWords), len(opponentWords))

	raw, err := s.model.complete(ctx, "You are a Codenames Spymaster AI focused on efficiency.", prompt)
	if err != nil {
		return agent.CluePlan{}, err
	}
	parsed, err := agent.ParseClueResponse(raw, teamWords)
	if err != nil {
		return agent.CluePlan{}, err
	}
	return agent.CluePlan{Word: parsed.Word, Targets: parsed.Targets}, nil
}

// Operative proposes guesses, argues in debates and casts votes.
type Operative struct {
	name  string
	team  board.Team
	model completer
}

// NewOperative builds a model-backed operative.
func NewOperative(name string, team board.Team, cfg Config) (*Operative, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Operative{name: name, team: team, model: newChatCompleter(cfg)}, nil
}

func (o *Operative) Name() string { return o.name }

func (o *Operative) GenerateGuess(ctx context.Context, view engine.View, clue agent.ClueContext) (agent.Proposal, error) {
	unrevealed := view.UnrevealedWords()
	prompt := fmt.Sprintf(`You are the %s team Operative in a game of Codenames.

The Spymaster gave the clue: "%s" for %d words.
So far, your team has made %d correct guesses for this clue.

The unrevealed words on the board are: %s

Previously revealed words: %s

%s
INSTRUCTIONS:
1. Analyze how the clue "%s" might relate to the unrevealed words.
2. Provide a detailed explanation of your reasoning.
3. End with your guess or a decision to end the turn.

Respond in this format:
REASONING: [Your detailed analysis of the clue and possible words]
DECISION: [ONE specific word from the board OR "END" to end your turn]`,
		o.team, clue.Word, clue.Count, clue.CorrectSoFar,
		strings.Join(unrevealed, ", "), describeRevealed(view),
		describePreviousGuesses(clue.PreviousGuesses), clue.Word)

	raw, err := o.model.complete(ctx, "You are a Codenames Operative AI. Explain your reasoning clearly.", prompt)
	if err != nil {
		return agent.Proposal{}, err
	}
	parsed, err := agent.ParseGuessResponse(raw, unrevealed)
	if err != nil {
		return agent.Proposal{}, err
	}
	return agent.Proposal{Word: parsed.Decision, Reasoning: parsed.Reasoning}, nil
}

func (o *Operative) DebateContribution(ctx context.Context, transcript []agent.TranscriptEntry, view engine.View, clue agent.ClueContext) (string, error) {
	prompt := fmt.Sprintf(`You are %s, a %s team Operative in a game of Codenames participating in a team debate.

The Spymaster gave the clue: "%s" for %d words.

The unrevealed words on the board are: %s

DEBATE HISTORY:
%s
Now it's your turn to contribute to the debate. Consider what other team members have said.
You should either:
1. Argue for a specific word you think matches the clue
2. Express your concerns about words suggested by others
3. Show agreement with another team member's suggestion
4. Suggest ending the turn if you think it's the safest option

Give your perspective and reasoning. Don't just repeat what others have said.`,
		o.name, o.team, clue.Word, clue.Count,
		strings.Join(view.UnrevealedWords(), ", "), formatTranscript(transcript))

	system := fmt.Sprintf("You are %s, a debating Codenames Operative. Be insightful but concise.", o.name)
	raw, err := o.model.complete(ctx, system, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

func (o *Operative) FinalVote(ctx context.Context, transcript []agent.TranscriptEntry, options []string, view engine.View, clue agent.ClueContext) (string, error) {
	optionLines := make([]string, 0, len(options))
	for _, option := range options {
		optionLines = append(optionLines, "- "+option)
	}
	prompt := fmt.Sprintf(`You are %s, a %s team Operative in a game of Codenames.

After a team debate about the clue "%s" for %d words, you must now cast your final vote.

The unrevealed words on the board are: %s

DEBATE SUMMARY:
%s
VOTING OPTIONS:
%s

Based on the debate and your own analysis, which option do you vote for?
Respond with EXACTLY one of the options listed above, nothing more.`,
		o.name, o.team, clue.Word, clue.Count,
		strings.Join(view.UnrevealedWords(), ", "), formatTranscript(transcript),
		strings.Join(optionLines, "\n"))

	system := fmt.Sprintf("You are %s, voting on a Codenames guess. Be decisive.", o.name)
	raw, err := o.model.complete(ctx, system, prompt)
	if err != nil {
		return "", err
	}
	if vote, ok := agent.MatchVote(raw, options); ok {
		return vote, nil
	}
	return strings.TrimSpace(raw), nil
}

func formatTranscript(transcript []agent.TranscriptEntry) string {
	if len(transcript) == 0 {
		return "(no discussion yet)\n"
	}
	var b strings.Builder
	for _, entry := range transcript {
		fmt.Fprintf(&b, "%s: %s\n\n", entry.Agent, entry.Message)
	}
	return b.String()
}

func describeRevealed(view engine.View) string {
	var parts []string
	for _, card := range view.RevealedCards() {
		parts = append(parts, fmt.Sprintf("%s (%s)", card.Word, card.Kind))
	}
	if len(parts) == 0 {
		return "(none yet)"
	}
	return strings.Join(parts, ", ")
}

func describePreviousGuesses(guesses []engine.GuessRecord) string {
	if len(guesses) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Previous guesses for this clue:\n")
	for _, guess := range guesses {
		mark := "incorrect"
		if guess.Correct {
			mark = "correct"
		}
		fmt.Fprintf(&b, "- %s (%s) %s\n", guess.Word, guess.Kind, mark)
	}
	return b.String()
}
