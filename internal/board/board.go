// Package board holds the 25-card Codenames board: generation from a
// word corpus, reveal bookkeeping, and the role-specific snapshots that
// keep spymaster knowledge away from operatives.
package board

import (
	"fmt"
	"math/rand"
	"strings"
)

const (
	// Size is the number of cards on a standard board.
	Size = 25
	// FirstTeamCards is the count assigned to the starting team.
	FirstTeamCards = 9
	// SecondTeamCards is the count assigned to the trailing team.
	SecondTeamCards = 8
	// NeutralCards is the count of bystander cards.
	NeutralCards = 7
)

// Board is a fixed ordered sequence of Size cards. It owns its cards
// exclusively; callers only ever see copies.
type Board struct {
	cards []Card
}

// New builds a board directly from prepared cards. Generated games use
// Generate; this exists for synthetic boards in tests and drills.
func New(cards []Card) *Board {
	return &Board{cards: append([]Card{}, cards...)}
}

// Generate samples Size distinct words from the corpus, picks the
// starting team uniformly, and deals kinds per the 9/8/7/1 split with
// the 9 going to the starting team. Word sampling and kind assignment
// are shuffled independently from the same rng so a seed fixes the
// whole layout. The corpus must contain at least Size distinct words.
func Generate(corpus []string, rng *rand.Rand) (*Board, Team, error) {
	words, err := sampleWords(corpus, rng)
	if err != nil {
		return nil, "", err
	}

	first := TeamRed
	if rng.Intn(2) == 1 {
		first = TeamBlue
	}

	kinds := make([]Kind, 0, Size)
	for i := 0; i < FirstTeamCards; i++ {
		kinds = append(kinds, first.Kind())
	}
	for i := 0; i < SecondTeamCards; i++ {
		kinds = append(kinds, first.Opponent().Kind())
	}
	for i := 0; i < NeutralCards; i++ {
		kinds = append(kinds, KindNeutral)
	}
	kinds = append(kinds, KindAssassin)
	rng.Shuffle(len(kinds), func(i, j int) {
		kinds[i], kinds[j] = kinds[j], kinds[i]
	})

	cards := make([]Card, Size)
	for i := range cards {
		cards[i] = Card{Word: words[i], Kind: kinds[i]}
	}
	return &Board{cards: cards}, first, nil
}

func sampleWords(corpus []string, rng *rand.Rand) ([]string, error) {
	seen := make(map[string]struct{}, len(corpus))
	distinct := make([]string, 0, len(corpus))
	for _, w := range corpus {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		key := strings.ToLower(w)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		distinct = append(distinct, w)
	}
	if len(distinct) < Size {
		return nil, fmt.Errorf("board: corpus has %d distinct words, need %d", len(distinct), Size)
	}
	words := make([]string, Size)
	for i, idx := range rng.Perm(len(distinct))[:Size] {
		words[i] = distinct[idx]
	}
	return words, nil
}

// Len returns the number of cards.
func (b *Board) Len() int {
	return len(b.cards)
}

// Card returns a copy of the card at index i.
func (b *Board) Card(i int) Card {
	return b.cards[i]
}

// Cards returns a copy of every card in board order.
func (b *Board) Cards() []Card {
	return append([]Card{}, b.cards...)
}

// Find locates a card by word, case-insensitively.
func (b *Board) Find(word string) (Card, bool) {
	for _, c := range b.cards {
		if strings.EqualFold(c.Word, word) {
			return c, true
		}
	}
	return Card{}, false
}

// Reveal marks the unrevealed card matching word (case-insensitive) as
// revealed and returns it. It reports false when the word is not on the
// board or the card is already face up, leaving the board untouched.
func (b *Board) Reveal(word string) (Card, bool) {
	for i := range b.cards {
		if b.cards[i].Revealed {
			continue
		}
		if strings.EqualFold(b.cards[i].Word, word) {
			b.cards[i].Revealed = true
			return b.cards[i], true
		}
	}
	return Card{}, false
}

// Remaining counts unrevealed cards of the given kind.
func (b *Board) Remaining(k Kind) int {
	n := 0
	for _, c := range b.cards {
		if c.Kind == k && !c.Revealed {
			n++
		}
	}
	return n
}

// UnrevealedWords lists the words still face down, in board order.
func (b *Board) UnrevealedWords() []string {
	var words []string
	for _, c := range b.cards {
		if !c.Revealed {
			words = append(words, c.Word)
		}
	}
	return words
}

// AssassinRevealed reports whether the assassin card is face up.
func (b *Board) AssassinRevealed() bool {
	for _, c := range b.cards {
		if c.Kind == KindAssassin && c.Revealed {
			return true
		}
	}
	return false
}
