package main

import (
	"Soberlife/config"
	"Soberlife/services/achievements"
	"Soberlife/services/blackjack"
	"Soberlife/services/campaign"
	"Soberlife/services/game"
	redis_services "Soberlife/services/redis"
	"Soberlife/sync"
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

type storageOpener func(profile string) (*redis_services.Storage, *config.GameConfig, func(), error)

type cli struct {
	open    storageOpener
	profile string
}

func newRootCmd(open storageOpener) *cobra.Command {
	c := &cli{open: open}

	root := &cobra.Command{
		Use:           "soberctl",
		Short:         "Inspect and edit Soberlife saved progress",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&c.profile, "profile", "", "profile namespace (default: SOBERLIFE_PROFILE)")

	deckCmd := &cobra.Command{
		Use:   "deck",
		Short: "Deck composition tools",
	}
	deckCmd.AddCommand(c.deckSetCmd())

	zenCmd := &cobra.Command{
		Use:   "zen",
		Short: "Zen point tools",
	}
	zenCmd.AddCommand(c.zenAddCmd(), c.zenDeductCmd())

	root.AddCommand(c.progressCmd(), deckCmd, c.unlockCmd(), zenCmd, c.resetCmd(), c.syncCmd(), c.restoreCmd())
	return root
}

// withApp loads the saved progress into an App for the duration of fn
func (c *cli) withApp(fn func(app *game.App, cfg *config.GameConfig, storage *redis_services.Storage) error) error {
	storage, cfg, closeStore, err := c.open(c.profile)
	if err != nil {
		return err
	}
	defer closeStore()

	app := game.NewApp(storage, game.Options{})
	if err := app.Load(); err != nil {
		return fmt.Errorf("error loading progress: %w", err)
	}
	return fn(app, cfg, storage)
}

func (c *cli) progressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show campaign and achievement progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(func(app *game.App, _ *config.GameConfig, _ *redis_services.Storage) error {
				out := cmd.OutOrStdout()
				s := app.Snapshot()
				fmt.Fprintf(out, "Zen points: %d (peak %d)\n", s.ZenBalance, s.ZenPeak)
				fmt.Fprintf(out, "Stress: %d/%d\n", s.Stress, s.MaxStress)
				fmt.Fprintf(out, "Deck: %d jokers, %d aces, %d regular (%d cards)\n",
					s.Deck.Jokers, s.Deck.Aces, s.Deck.RegularCards, s.Deck.TotalCards)
				fmt.Fprintln(out, "Tasks:")
				for _, t := range s.Tasks {
					mark := " "
					if t.Completed {
						mark = "x"
					}
					fmt.Fprintf(out, "  [%s] %s\n", mark, t.Title)
				}
				fmt.Fprintf(out, "Next: %s\n", s.PrimaryAction)

				ach := app.Achievements()
				fmt.Fprintf(out, "Achievements: %s\n", ach.Summary)
				for _, cat := range ach.Categories {
					fmt.Fprintf(out, "  %s: %d/%d\n", cat.Category, cat.Progress.Unlocked, cat.Progress.Total)
				}
				return nil
			})
		},
	}
}

func (c *cli) deckSetCmd() *cobra.Command {
	var dc blackjack.DeckComposition
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Replace the deck composition",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(func(app *game.App, _ *config.GameConfig, _ *redis_services.Storage) error {
				if err := app.SetDeckComposition(dc); err != nil {
					return err
				}
				d := app.Snapshot().Deck
				fmt.Fprintf(cmd.OutOrStdout(), "Deck set: %d jokers, %d aces, %d regular (%d cards)\n",
					d.Jokers, d.Aces, d.RegularCards, d.TotalCards)
				return nil
			})
		},
	}
	def := blackjack.DefaultComposition()
	cmd.Flags().IntVar(&dc.Jokers, "jokers", def.Jokers, "number of jokers")
	cmd.Flags().IntVar(&dc.Aces, "aces", def.Aces, "number of aces")
	cmd.Flags().IntVar(&dc.RegularCards, "regular", def.RegularCards, "number of regular cards")
	return cmd
}

func (c *cli) unlockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlock <achievement-id>",
		Short: "Unlock an achievement without meeting its threshold",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(func(app *game.App, _ *config.GameConfig, _ *redis_services.Storage) error {
				unlocked, err := app.UnlockAchievement(args[0])
				if err != nil {
					return err
				}
				a, _ := achievements.Lookup(args[0])
				if !unlocked {
					fmt.Fprintf(cmd.OutOrStdout(), "%s was already unlocked\n", a.Name)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Unlocked %s\n", a.Name)
				return nil
			})
		},
	}
}

func (c *cli) zenAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <points>",
		Short: "Grant zen points",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("points must be an integer: %w", err)
			}
			return c.withApp(func(app *game.App, _ *config.GameConfig, _ *redis_services.Storage) error {
				balance, err := app.AddZen(amount)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Zen points: %d\n", balance)
				return nil
			})
		},
	}
}

func (c *cli) zenDeductCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deduct <points>",
		Short: "Take zen points away, stopping at zero",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("points must be an integer: %w", err)
			}
			return c.withApp(func(app *game.App, _ *config.GameConfig, _ *redis_services.Storage) error {
				removed, balance, err := app.DeductZen(amount)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d, zen points: %d\n", removed, balance)
				return nil
			})
		},
	}
}

// askYesNo reads one answer; anything but y/yes declines
func askYesNo(in *bufio.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N] ", prompt)
	line, _ := in.ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func (c *cli) resetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Wipe all campaign progress, zen points and achievements",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(func(app *game.App, _ *config.GameConfig, _ *redis_services.Storage) error {
				out := cmd.OutOrStdout()
				in := bufio.NewReader(cmd.InOrStdin())
				confirm := func(prompt string) bool {
					if yes {
						fmt.Fprintln(out, prompt, "yes")
						return true
					}
					return askYesNo(in, out, prompt)
				}

				done, err := campaign.RunReset(confirm, app.Reset)
				if err != nil {
					return err
				}
				if done {
					fmt.Fprintln(out, "Progress reset")
				} else {
					fmt.Fprintln(out, "Reset cancelled")
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "answer yes to both confirmations")
	return cmd
}

func (c *cli) syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Copy saved progress to PostgreSQL",
		RunE: func(cmd *cobra.Command, args []string) error {
			storage, cfg, closeStore, err := c.open(c.profile)
			if err != nil {
				return err
			}
			defer closeStore()
			sm, err := newSyncManager(cfg, storage)
			if err != nil {
				return err
			}
			if err := sm.SyncProfile(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Progress synced")
			return nil
		},
	}
}

func (c *cli) restoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore",
		Short: "Overwrite saved progress with the PostgreSQL snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			storage, cfg, closeStore, err := c.open(c.profile)
			if err != nil {
				return err
			}
			defer closeStore()
			sm, err := newSyncManager(cfg, storage)
			if err != nil {
				return err
			}
			if err := sm.RestoreProfile(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Progress restored, restart the game server to load it")
			return nil
		},
	}
}

func newSyncManager(cfg *config.GameConfig, storage *redis_services.Storage) (*sync.SyncManager, error) {
	db, err := config.ConnectGORM(cfg)
	if err != nil {
		return nil, fmt.Errorf("error connecting to PostgreSQL: %w", err)
	}
	if err := config.MigrateDatabase(db); err != nil {
		return nil, err
	}
	return sync.NewSyncManager(storage, db), nil
}
