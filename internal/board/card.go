package board

// Kind classifies a card. The two team kinds double as team identities
// so guess results can be compared against the guessing team directly.
type Kind string

const (
	KindRed      Kind = "red"
	KindBlue     Kind = "blue"
	KindNeutral  Kind = "neutral"
	KindAssassin Kind = "assassin"
)

// Team identifies one of the two playing sides.
type Team string

const (
	TeamRed  Team = "red"
	TeamBlue Team = "blue"
)

// Opponent returns the other team.
func (t Team) Opponent() Team {
	if t == TeamRed {
		return TeamBlue
	}
	return TeamRed
}

// Kind returns the card kind owned by the team.
func (t Team) Kind() Kind {
	return Kind(t)
}

// Team reports whether the kind belongs to a team and which one.
func (k Kind) Team() (Team, bool) {
	switch k {
	case KindRed:
		return TeamRed, true
	case KindBlue:
		return TeamBlue, true
	default:
		return "", false
	}
}

// Card is a single cell on the board. Revealed only ever flips false to
// true, and only through Board.Reveal.
type Card struct {
	Word     string
	Kind     Kind
	Revealed bool
}
