// internal/console/command.go
package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jason-s-yu/ginrummy/internal/models"
)

var (
	// ErrUnknownCommand is returned for input that names no command.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrBadArgument is returned when a command has the wrong number or kind of arguments.
	ErrBadArgument = errors.New("bad argument")
)

// CommandKind identifies a typed console command.
type CommandKind string

const (
	CmdDrawDeck    CommandKind = "draw_deck"
	CmdDrawDiscard CommandKind = "draw_discard"
	CmdDeclare     CommandKind = "declare"
	CmdDiscard     CommandKind = "discard"
	CmdMeldNew     CommandKind = "meld_new"
	CmdMeldAdd     CommandKind = "meld_add"
	CmdMeldReturn  CommandKind = "meld_return"
	CmdMeldDisband CommandKind = "meld_disband"
	CmdLayoff      CommandKind = "layoff"
	CmdDone        CommandKind = "done"
	CmdWithdraw    CommandKind = "withdraw"
	CmdHelp        CommandKind = "help"
	CmdQuit        CommandKind = "quit"
)

// Command is one parsed line. Only the fields the kind uses are set.
type Command struct {
	Kind     CommandKind
	Decision models.Decision
	Hand     int // index into the acting player's hand
	Meld     int // index into a meld list
	Card     int // index inside a meld
}

// Help lists the accepted commands.
const Help = `draw deck | draw discard      take the top of the stock or the discard pile
knock | gin | pass              decide after drawing
discard <hand>                  discard a card (face down after knock or gin)
meld new                        open an empty meld
meld add <hand> <meld>          move a hand card into one of your melds
meld return <meld> <card>       move a meld card back to your hand
meld disband <meld>             return a whole meld to your hand
layoff <hand> <meld>            lay a card off on an opponent's meld
done                            finish your melds or layoffs
withdraw                        take back a knock or gin while melding
help | quit`

// Parse turns a line of user input into a Command.
func Parse(line string) (Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{}, ErrUnknownCommand
	}
	verb, args := fields[0], fields[1:]

	switch verb {
	case "draw":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("%w: draw deck or draw discard", ErrBadArgument)
		}
		switch args[0] {
		case "deck", "stock":
			return Command{Kind: CmdDrawDeck}, nil
		case "discard", "pile":
			return Command{Kind: CmdDrawDiscard}, nil
		}
		return Command{}, fmt.Errorf("%w: cannot draw from %q", ErrBadArgument, args[0])
	case "knock":
		return noArgs(args, Command{Kind: CmdDeclare, Decision: models.DecisionKnock})
	case "gin":
		return noArgs(args, Command{Kind: CmdDeclare, Decision: models.DecisionGin})
	case "pass", "neither":
		return noArgs(args, Command{Kind: CmdDeclare, Decision: models.DecisionNeither})
	case "discard":
		n, err := ints(args, 1)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdDiscard, Hand: n[0]}, nil
	case "meld":
		return parseMeld(args)
	case "layoff":
		n, err := ints(args, 2)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdLayoff, Hand: n[0], Meld: n[1]}, nil
	case "done":
		return noArgs(args, Command{Kind: CmdDone})
	case "withdraw":
		return noArgs(args, Command{Kind: CmdWithdraw})
	case "help", "?":
		return Command{Kind: CmdHelp}, nil
	case "quit", "exit":
		return Command{Kind: CmdQuit}, nil
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, verb)
}

func parseMeld(args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, fmt.Errorf("%w: meld needs new, add, return or disband", ErrBadArgument)
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "new":
		return noArgs(rest, Command{Kind: CmdMeldNew})
	case "add":
		n, err := ints(rest, 2)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdMeldAdd, Hand: n[0], Meld: n[1]}, nil
	case "return":
		n, err := ints(rest, 2)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdMeldReturn, Meld: n[0], Card: n[1]}, nil
	case "disband":
		n, err := ints(rest, 1)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdMeldDisband, Meld: n[0]}, nil
	}
	return Command{}, fmt.Errorf("%w: meld %q", ErrBadArgument, sub)
}

func noArgs(args []string, cmd Command) (Command, error) {
	if len(args) != 0 {
		return Command{}, fmt.Errorf("%w: %s takes no arguments", ErrBadArgument, cmd.Kind)
	}
	return cmd, nil
}

// ints parses exactly want integer arguments.
func ints(args []string, want int) ([]int, error) {
	if len(args) != want {
		return nil, fmt.Errorf("%w: expected %d numbers, got %d", ErrBadArgument, want, len(args))
	}
	out := make([]int, want)
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrBadArgument, a)
		}
		out[i] = n
	}
	return out, nil
}
