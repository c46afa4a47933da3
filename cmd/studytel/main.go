package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/aayushbajaj/study-telemetry/internal/config"
	"github.com/aayushbajaj/study-telemetry/internal/logger"
	"github.com/aayushbajaj/study-telemetry/internal/report"
	"github.com/aayushbajaj/study-telemetry/internal/storage"
	"github.com/aayushbajaj/study-telemetry/internal/tui"
	"github.com/aayushbajaj/study-telemetry/pkg/heatmap"
	"github.com/aayushbajaj/study-telemetry/pkg/stats"
)

// options holds the persistent flags shared by every command.
type options struct {
	today string
	deck  string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:          "studytel",
		Short:        "Study telemetry - a year of flashcard activity at a glance",
		Long:         `Tracks card reviews and study sessions and shows them as a GitHub-style yearly heatmap.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error { return runTUI(a, opts) })
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.today, "today", "", "Reference date as YYYY-MM-DD (default: current day)")
	rootCmd.PersistentFlags().StringVarP(&opts.deck, "deck", "d", "", "Restrict to one deck (fuzzy matched for reads)")

	rootCmd.AddCommand(
		newStatsCmd(opts),
		newTodayCmd(opts),
		newRecordCmd(opts),
		newSessionCmd(opts),
		newImportCmd(),
		newExportCmd(opts),
		newDecksCmd(),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type app struct {
	cfg        *config.Config
	log        *logger.Logger
	store      *storage.Store
	thresholds heatmap.Thresholds
}

func withApp(fn func(a *app) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.NewFileOnly(cfg.Log.Mode, cfg.Log.Level, filepath.Join(cfg.LogDir(), "studytel.log"))
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer log.Sync()

	thresholds, err := cfg.Heatmap.Thresholds()
	if err != nil {
		return err
	}

	store, err := storage.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close()

	tui.SetTheme(cfg.UI.Theme)
	log.Debug("opened store", "db", cfg.DBPath)

	return fn(&app{cfg: cfg, log: log, store: store, thresholds: thresholds})
}

func (o *options) referenceDay() (time.Time, error) {
	if o.today == "" {
		return time.Now(), nil
	}
	t, err := time.ParseInLocation(heatmap.DateLayout, o.today, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("--today must be YYYY-MM-DD: %q", o.today)
	}
	return t, nil
}

func (a *app) resolveDeck(query string) (string, error) {
	if query == "" {
		return "", nil
	}
	return a.store.MatchDeck(query)
}

// window builds the heatmap grid for the flags' reference day and deck.
func (a *app) window(opts *options) (*heatmap.Grid, time.Time, string, error) {
	today, err := opts.referenceDay()
	if err != nil {
		return nil, today, "", err
	}
	deck, err := a.resolveDeck(opts.deck)
	if err != nil {
		return nil, today, "", err
	}
	records, err := a.store.Window(today, deck)
	if err != nil {
		return nil, today, deck, fmt.Errorf("failed to load activity: %w", err)
	}
	grid, err := heatmap.NewBuilder(a.thresholds).Generate(records, today)
	return grid, today, deck, err
}

func runTUI(a *app, opts *options) error {
	today, err := opts.referenceDay()
	if err != nil {
		return err
	}
	deck, err := a.resolveDeck(opts.deck)
	if err != nil {
		return err
	}

	tuiOpts := []tui.Option{tui.WithDeck(deck), tui.WithThresholds(a.thresholds)}
	if opts.today != "" {
		tuiOpts = append(tuiOpts, tui.WithToday(func() time.Time { return today }))
	}

	p := tea.NewProgram(tui.New(a.store, tuiOpts...), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func newStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show study statistics for the last year",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				grid, today, deck, err := a.window(opts)
				if err != nil {
					return err
				}
				printStats(cmd.OutOrStdout(), grid, today, deck)
				return nil
			})
		},
	}
}

func printStats(w io.Writer, grid *heatmap.Grid, today time.Time, deck string) {
	s := stats.CalculateHeatmapStats(grid)
	days := grid.Days()

	title := "📚 Study Statistics"
	if deck != "" {
		title += " · " + deck
	}
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, "────────────────────────────")
	fmt.Fprintf(w, "%-16s %s – %s\n", "Window:", grid.StartDate.Format("Jan 2, 2006"), grid.EndDate.Format("Jan 2, 2006"))
	fmt.Fprintf(w, "%-16s %s (%s)\n", "Cards studied:", humanize.Comma(int64(s.TotalCards)), stats.FormatCardCount(int64(s.TotalCards)))
	fmt.Fprintf(w, "%-16s %d (%d%% of days)\n", "Active days:", s.ActiveDays, s.StudyRate)
	if date, cards := stats.FindBestDay(days); date != "" {
		fmt.Fprintf(w, "%-16s %s on %s\n", "Best day:", pluralCards(cards), date)
	}
	fmt.Fprintf(w, "%-16s %.1f\n", "Avg/active day:", s.AverageCardsPerActiveDay)
	fmt.Fprintf(w, "%-16s %d\n", "Sessions:", s.TotalSessions)
	fmt.Fprintf(w, "%-16s %s\n", "Time studied:", heatmap.FormatDuration(s.TotalTime))
	fmt.Fprintf(w, "%-16s %s\n", "Current streak:", pluralDays(stats.CurrentStreak(days, today)))
	fmt.Fprintf(w, "%-16s %s\n", "Longest streak:", pluralDays(stats.LongestStreak(days)))
}

func pluralCards(n int) string {
	if n == 1 {
		return "1 card"
	}
	return humanize.Comma(int64(n)) + " cards"
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

func newTodayCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Print today's card count (for menu bar scripts)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				today, err := opts.referenceDay()
				if err != nil {
					return err
				}
				deck, err := a.resolveDeck(opts.deck)
				if err != nil {
					return err
				}

				var cards int
				if deck == "" {
					rec, err := a.store.DayActivity(today.Format(heatmap.DateLayout))
					if err != nil {
						return err
					}
					cards = rec.CardsStudied
				} else {
					recs, err := a.store.DeckDailyActivity(deck, today, today)
					if err != nil {
						return err
					}
					for _, r := range recs {
						cards += r.CardsStudied
					}
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%d\n", cards)
				return nil
			})
		},
	}
}

func parseAt(at string) (time.Time, error) {
	if at == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return time.Time{}, fmt.Errorf("--at must be RFC 3339: %q", at)
	}
	return t, nil
}

func newRecordCmd(opts *options) *cobra.Command {
	var (
		at        string
		sessionID string
		duration  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "record <card-id>",
		Short: "Record a single card review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			when, err := parseAt(at)
			if err != nil {
				return err
			}
			return withApp(func(a *app) error {
				r, err := a.store.RecordReview(storage.Review{
					CardID:     args[0],
					Deck:       opts.deck,
					SessionID:  sessionID,
					ReviewedAt: when,
					DurationMs: duration.Milliseconds(),
				})
				if err != nil {
					return fmt.Errorf("failed to record review: %w", err)
				}
				a.log.Info("review recorded", "id", r.ID, "card", r.CardID, "deck", r.Deck)
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded review %s on %s\n", r.ID, a.store.DayOf(r.ReviewedAt))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Review time in RFC 3339 (default: now)")
	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "Session the review belongs to")
	cmd.Flags().DurationVar(&duration, "duration", 0, "Time spent on the card")
	return cmd
}

func newSessionCmd(opts *options) *cobra.Command {
	var (
		at       string
		duration time.Duration
	)

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Record a study session",
		RunE: func(cmd *cobra.Command, args []string) error {
			when, err := parseAt(at)
			if err != nil {
				return err
			}
			return withApp(func(a *app) error {
				s, err := a.store.RecordSession(storage.Session{
					Deck:       opts.deck,
					StartedAt:  when,
					DurationMs: duration.Milliseconds(),
				})
				if err != nil {
					return fmt.Errorf("failed to record session: %w", err)
				}
				a.log.Info("session recorded", "id", s.ID, "deck", s.Deck, "duration_ms", s.DurationMs)
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded session %s (%s) on %s\n",
					s.ID, heatmap.FormatDuration(s.DurationMs), a.store.DayOf(s.StartedAt))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Session start in RFC 3339 (default: now)")
	cmd.Flags().DurationVar(&duration, "duration", 0, "Session length, e.g. 25m")
	return cmd
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json|->",
		Short: "Import daily activity summaries from a JSON array",
		Long: `Import whole-day summaries, replacing any stored data for those dates.

The file holds a JSON array of objects:
  [{"date": "2024-06-15", "cardsStudied": 12, "sessionCount": 2, "totalDuration": 600000}]`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			var records []heatmap.DailyActivityRecord
			if err := json.NewDecoder(in).Decode(&records); err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}

			return withApp(func(a *app) error {
				n, err := a.store.ImportRecords(records)
				if err != nil {
					return fmt.Errorf("failed to import: %w", err)
				}
				a.log.Info("imported daily activity", "days", n, "source", args[0])
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d days\n", n)
				return nil
			})
		},
	}
}

func newExportCmd(opts *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the heatmap as a standalone HTML page",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				grid, today, deck, err := a.window(opts)
				if err != nil {
					return err
				}

				path := output
				if path == "" {
					path = filepath.Join(a.cfg.DataDir, "heatmap.html")
				}

				title := "Study Activity"
				if deck != "" {
					title += " · " + deck
				}
				days := grid.Days()
				err = report.WriteFile(path, report.Page{
					Title:         title,
					Grid:          grid,
					Stats:         stats.CalculateHeatmapStats(grid),
					CurrentStreak: stats.CurrentStreak(days, today),
					LongestStreak: stats.LongestStreak(days),
					Colors:        tui.CurrentTheme.Levels,
					GeneratedAt:   time.Now(),
				})
				if err != nil {
					return fmt.Errorf("failed to write report: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default: <data dir>/heatmap.html)")
	return cmd
}

func newDecksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decks",
		Short: "List known decks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				decks, err := a.store.Decks()
				if err != nil {
					return err
				}
				for _, d := range decks {
					fmt.Fprintln(cmd.OutOrStdout(), d)
				}
				return nil
			})
		},
	}
}
