package board

// CardView is one card as seen by a role. Kind is empty in an operative
// view until the card is revealed.
type CardView struct {
	Word     string
	Kind     Kind
	Revealed bool
}

// SpymasterView returns a snapshot exposing every card's true kind.
// The slice is freshly built on each call; it never aliases board state.
func (b *Board) SpymasterView() []CardView {
	views := make([]CardView, len(b.cards))
	for i, c := range b.cards {
		views[i] = CardView{Word: c.Word, Kind: c.Kind, Revealed: c.Revealed}
	}
	return views
}

// OperativeView returns a snapshot with kinds redacted on face-down
// cards. Spymaster and operative snapshots are always independent
// copies, so revealing a card later can never leak into a view that was
// already handed out.
func (b *Board) OperativeView() []CardView {
	views := make([]CardView, len(b.cards))
	for i, c := range b.cards {
		view := CardView{Word: c.Word, Revealed: c.Revealed}
		if c.Revealed {
			view.Kind = c.Kind
		}
		views[i] = view
	}
	return views
}
