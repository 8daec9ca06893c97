// cmd/ginrummy/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jason-s-yu/ginrummy/internal/cache"
	"github.com/jason-s-yu/ginrummy/internal/config"
	"github.com/jason-s-yu/ginrummy/internal/console"
	"github.com/jason-s-yu/ginrummy/internal/database"
	"github.com/jason-s-yu/ginrummy/internal/game"
	"github.com/jason-s-yu/ginrummy/internal/models"
	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	logger := logrus.New()
	logger.SetLevel(cfg.LogLevel)
	ctx := context.Background()

	pterm.DefaultHeader.WithFullWidth().Println("Gin Rummy")
	names := [2]string{
		askName("Player one, enter your name", "Player 1"),
		askName("Player two, enter your name", "Player 2"),
	}

	g := game.StartGame(names[0], names[1])
	g.SetLogger(logger)
	g.Rules = cfg.Rules
	if cfg.Seed != 0 {
		g.SetSeed(cfg.Seed)
	}

	if cfg.RedisAddr != "" {
		rdb, err := cache.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			logger.WithError(err).Warn("Action historian disabled")
		} else {
			defer rdb.Close()
			historian := cache.NewHistorian(rdb, cfg.HistorianQueue)
			g.Historian = historian
			logger.WithField("queue", historian.Queue()).Info("Publishing actions to Redis")
		}
	}

	var results *database.HandStore
	if cfg.DatabaseURL != "" {
		pool, err := database.ConnectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.WithError(err).Warn("Hand result sink disabled")
		} else {
			defer pool.Close()
			results = database.NewHandStore(pool)
			if err := results.EnsureSchema(ctx); err != nil {
				logger.WithError(err).Warn("Hand result sink disabled")
				results = nil
			}
		}
	}
	if results != nil {
		g.OnHandEnd = func(gameID uuid.UUID, names [2]string, result models.HandResult) {
			if err := results.RecordHandResult(ctx, gameID, names, result); err != nil {
				logger.WithError(err).Error("Failed to record hand result")
			}
		}
	}

	games := game.NewGameStore()
	games.AddGame(g)
	defer games.DeleteGame(g.ID)

	if err := play(games, g.ID, terminalPrompt); err != nil {
		pterm.Error.Println(err)
		return
	}

	if results != nil && g.Phase == game.PhaseScored {
		snapshot, err := g.ViewFor(models.PlayerOne)
		if err == nil {
			err = results.StoreFinalGameState(ctx, g.ID, snapshot)
		}
		if err != nil {
			logger.WithError(err).Error("Failed to store final game state")
		}
	}
}

// prompter shows text and returns the line the player typed.
type prompter func(text string) (string, error)

func terminalPrompt(text string) (string, error) {
	return pterm.DefaultInteractiveTextInput.WithDefaultText(text).Show()
}

func askName(prompt, fallback string) string {
	name, err := terminalPrompt(prompt)
	if err != nil || strings.TrimSpace(name) == "" {
		return fallback
	}
	return strings.TrimSpace(name)
}

// play runs the hand to completion, one console command at a time. Both players share the
// terminal; the screen is cleared whenever the other player is due.
// A prompt error ends the loop.
func play(games *game.GameStore, id uuid.UUID, ask prompter) error {
	var first models.PlayerID
	err := games.Do(id, func(g *game.GinGame) error {
		var err error
		if first, err = g.DetermineFirstTurn(); err != nil {
			return err
		}
		return g.DealStartingHands()
	})
	if err != nil {
		return err
	}

	lastActor := first.Other()
	for {
		var (
			view  game.PlayerView
			over  bool
			cause error
		)
		err := games.Do(id, func(g *game.GinGame) error {
			over = g.Phase == game.PhaseScored || g.Phase == game.PhaseAborted
			viewer := g.Actor()
			if over {
				viewer = models.PlayerOne
			}
			cause = g.AbortCause()
			var err error
			view, err = g.ViewFor(viewer)
			return err
		})
		if err != nil {
			return err
		}

		if !over && view.Actor != lastActor {
			if err := handOver(ask, view.Name); err != nil {
				return err
			}
			lastActor = view.Actor
		}

		out, err := console.RenderView(view)
		if err != nil {
			return err
		}
		pterm.Println(out)

		if over {
			if cause != nil {
				return fmt.Errorf("hand aborted: %w", cause)
			}
			return nil
		}

		line, err := ask(view.Name + ">")
		if err != nil {
			return fmt.Errorf("reading command: %w", err)
		}
		cmd, err := console.Parse(line)
		if err != nil {
			pterm.Warning.Println(err)
			continue
		}
		if cmd.Kind == console.CmdHelp {
			pterm.Info.Println(console.Help)
			continue
		}

		err = games.Do(id, func(g *game.GinGame) error {
			return console.Execute(g, cmd)
		})
		switch {
		case errors.Is(err, console.ErrQuit):
			pterm.Info.Println("Hand abandoned")
			return nil
		case game.IsFatal(err):
			pterm.Error.Println(err)
		case err != nil:
			pterm.Warning.Println(err)
		}
	}
}

// handOver clears the screen and waits for the next player to take the terminal.
func handOver(ask prompter, name string) error {
	pterm.Print("\033[H\033[2J")
	if _, err := ask(fmt.Sprintf("Pass the terminal to %s and press enter", name)); err != nil {
		return fmt.Errorf("waiting for %s: %w", name, err)
	}
	return nil
}
