// internal/console/render.go
package console

import (
	"fmt"
	"strings"

	"github.com/jason-s-yu/ginrummy/internal/game"
	"github.com/jason-s-yu/ginrummy/internal/meld"
	"github.com/jason-s-yu/ginrummy/internal/models"
	"github.com/pterm/pterm"
)

var suitSymbols = map[models.Suit]string{
	models.Clubs:    "♣",
	models.Spades:   "♠",
	models.Diamonds: "♦",
	models.Hearts:   "♥",
}

// CardLabel renders c as its rank code and a coloured suit symbol, e.g. "Q♥".
func CardLabel(c models.Card) string {
	label := c.Rank.Short() + suitSymbols[c.Suit]
	if c.Suit == models.Diamonds || c.Suit == models.Hearts {
		return pterm.LightRed(label)
	}
	return pterm.LightWhite(label)
}

func cardList(cs []models.Card) string {
	labels := make([]string, len(cs))
	for i, c := range cs {
		labels[i] = CardLabel(c)
	}
	return strings.Join(labels, " ")
}

// indexedHand shows each card with the index commands refer to it by.
func indexedHand(cs []models.Card) string {
	if len(cs) == 0 {
		return pterm.Gray("(empty)")
	}
	labels := make([]string, len(cs))
	for i, c := range cs {
		labels[i] = fmt.Sprintf("%s %s", pterm.Gray(fmt.Sprintf("[%d]", i)), CardLabel(c))
	}
	return strings.Join(labels, "  ")
}

func meldLines(ms []meld.Meld) string {
	if len(ms) == 0 {
		return pterm.Gray("no melds")
	}
	var b strings.Builder
	for i, m := range ms {
		fmt.Fprintf(&b, "m%d  %s  %s", i, cardList(m.Cards), pterm.Gray(m.Kind().String()))
		if len(m.Layoffs) > 0 {
			laid := make([]models.Card, len(m.Layoffs))
			for j, l := range m.Layoffs {
				laid[j] = l.Card
			}
			fmt.Fprintf(&b, "  + %s", cardList(laid))
		}
		if i < len(ms)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// viewNames maps seats to the names a view knows about.
type viewNames struct {
	viewer   models.PlayerID
	self     string
	opponent string
}

func (v viewNames) of(p models.PlayerID) string {
	if p == v.viewer {
		return v.self
	}
	return v.opponent
}

// Status is the one-line summary of what the game is waiting for.
func Status(v game.PlayerView) string {
	names := viewNames{viewer: v.Viewer, self: v.Name, opponent: v.Opponent}
	actor := names.of(v.Actor)
	switch v.Phase {
	case game.PhaseInProgress:
		return fmt.Sprintf("Turn %d: %s to %s", v.TurnID, actor, v.Step)
	case game.PhaseKnocked, game.PhaseGin:
		return fmt.Sprintf("%s called %s and must discard face down", actor, v.Decision)
	case game.PhaseMelding:
		if v.LayoffStep {
			return fmt.Sprintf("%s lays off on %s's melds", actor, names.of(v.Actor.Other()))
		}
		return fmt.Sprintf("%s arranges melds (%s by %s)", actor, v.Decision, names.of(v.Declarer))
	case game.PhaseScored:
		return "Hand over"
	case game.PhaseAborted:
		return "Hand aborted"
	}
	return string(v.Phase)
}

// RenderView draws the table as seen by v.Viewer.
func RenderView(v game.PlayerView) (string, error) {
	box := pterm.DefaultBox.WithLeftPadding(2).WithRightPadding(2)

	table := fmt.Sprintf("Stock: %d\nDiscard: %s", v.DeckSize, discardLabel(v))
	tableBox := box.WithTitle(pterm.LightYellow("|TABLE|")).WithTitleTopCenter().Sprint(table)

	opp := fmt.Sprintf("Cards in hand: %d", v.OpponentHandSize)
	if v.OpponentHand != nil {
		opp = "Hand: " + cardList(v.OpponentHand)
	}
	opp += "\n" + meldLines(v.OpponentMelds)
	oppBox := box.WithTitle(v.Opponent).WithTitleTopLeft().Sprint(opp)

	own := fmt.Sprintf("%s\nDeadwood: %d\n%s", indexedHand(v.Hand), v.Deadwood, meldLines(v.Melds))
	ownBox := box.WithTitle(pterm.LightCyan(v.Name)).WithTitleTopLeft().Sprint(own)

	rows := [][]pterm.Panel{
		{{Data: oppBox}, {Data: tableBox}},
		{{Data: ownBox}},
	}
	if v.Result != nil {
		rows = append(rows, []pterm.Panel{{Data: ResultBox(*v.Result, v)}})
	}
	panels, err := pterm.DefaultPanel.WithPanels(rows).Srender()
	if err != nil {
		return "", err
	}
	return panels + "\n" + Status(v), nil
}

func discardLabel(v game.PlayerView) string {
	switch {
	case v.DiscardTop != nil:
		return fmt.Sprintf("%s (%d)", CardLabel(*v.DiscardTop), v.DiscardSize)
	case v.DiscardSize == 0:
		return pterm.Gray("empty")
	default:
		return pterm.Gray(fmt.Sprintf("face down (%d)", v.DiscardSize))
	}
}

// ResultBox summarizes a scored hand.
func ResultBox(res models.HandResult, v game.PlayerView) string {
	names := viewNames{viewer: v.Viewer, self: v.Name, opponent: v.Opponent}
	text := fmt.Sprintf("%s wins %d points by %s\n%s deadwood: %d\n%s deadwood: %d",
		pterm.LightCyan(names.of(res.Winner)), res.Points, res.Kind,
		names.of(res.Declarer), res.DeclarerDeadwood,
		names.of(res.Declarer.Other()), res.DefenderDeadwood,
	)
	return pterm.DefaultBox.WithLeftPadding(4).WithRightPadding(4).
		WithTitle(pterm.LightGreen("|RESULT|")).WithTitleTopCenter().
		Sprint(text)
}
