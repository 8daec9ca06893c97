package console

import (
	"errors"
	"fmt"

	"github.com/jason-s-yu/ginrummy/internal/game"
)

// ErrQuit is returned by Execute when the player asks to leave.
var ErrQuit = errors.New("quit")

// Execute applies cmd on behalf of the player the game is waiting on. Help is a no-op here;
// the caller prints Help itself.
func Execute(g *game.GinGame, cmd Command) error {
	actor := g.Actor()
	switch cmd.Kind {
	case CmdDrawDeck:
		return g.DrawFromDeck()
	case CmdDrawDiscard:
		return g.DrawFromDiscard()
	case CmdDeclare:
		return g.Declare(cmd.Decision)
	case CmdDiscard:
		return g.Discard(cmd.Hand)
	case CmdMeldNew:
		_, err := g.CreateMeld(actor)
		return err
	case CmdMeldAdd:
		return g.AddToMeld(actor, cmd.Hand, cmd.Meld)
	case CmdMeldReturn:
		return g.ReturnFromMeld(actor, cmd.Meld, cmd.Card)
	case CmdMeldDisband:
		return g.DisbandMeld(actor, cmd.Meld)
	case CmdLayoff:
		return g.LayOff(actor, cmd.Hand, cmd.Meld)
	case CmdDone:
		return g.FinishMelds(actor)
	case CmdWithdraw:
		return g.WithdrawDeclaration(actor)
	case CmdHelp:
		return nil
	case CmdQuit:
		return ErrQuit
	}
	return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.Kind)
}
