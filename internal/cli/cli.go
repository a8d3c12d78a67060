package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/camp-sessions/internal/calendar"
	"github.com/pfrederiksen/camp-sessions/internal/camp"
	"github.com/pfrederiksen/camp-sessions/internal/config"
	"github.com/pfrederiksen/camp-sessions/internal/logger"
	"github.com/pfrederiksen/camp-sessions/internal/notifier"
	"github.com/pfrederiksen/camp-sessions/internal/schedule"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// app carries the persistent flags and the constructors tests swap out
type app struct {
	configPath string
	format     string
	verbose    bool

	newCamp     func(cfg *config.Config) *camp.Camp
	newNotifier func(secrets config.Secrets, out io.Writer, dryRun bool) (notifier.Notifier, error)
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{
		newCamp: func(cfg *config.Config) *camp.Camp {
			return camp.FromConfig(cfg)
		},
		newNotifier: defaultNotifier,
	})
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "camp-sessions",
		Short: "Query a barcamp's live session plan",
		Long: `A CLI tool to query the session plan of a barcamp.
Scrapes the published session table and answers what runs when and where.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "camp-sessions.yaml", "Path to the YAML configuration file")
	cmd.PersistentFlags().StringVar(&a.format, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		a.atCmd(),
		a.roomCmd(),
		a.timesCmd(),
		a.roomsCmd(),
		a.nowCmd(),
		a.nextCmd(),
		a.exportCmd(),
		a.announceCmd(),
	)
	return cmd
}

// load reads the configuration and scrapes the plan once
func (a *app) load(cmd *cobra.Command) (*camp.Camp, OutputFormat, error) {
	format, err := ParseFormat(a.format)
	if err != nil {
		return nil, "", err
	}

	if err := config.LoadEnv(".env"); err != nil {
		return nil, "", err
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, "", fmt.Errorf("loading config: %w", err)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, "", err
	}
	if a.verbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	c := a.newCamp(cfg)
	switch c.Start(cmd.Context()) {
	case schedule.ResultFailed:
		if c.Plan().IsEmpty() {
			return nil, "", fmt.Errorf("could not fetch the session plan")
		}
	case schedule.ResultCleared:
		logger.Warn("No session plan configured for today", nil)
	}
	return c, format, nil
}

func (a *app) atCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "at HH:MM",
		Short: "List the sessions of a time slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, format, err := a.load(cmd)
			if err != nil {
				return err
			}
			label := strings.TrimSpace(args[0])
			return WriteOutput(cmd.OutOrStdout(), &SlotResult{Label: label, Sessions: c.SessionsAt(label)}, format)
		},
	}
}

func (a *app) roomCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "room NAME",
		Short: "List the sessions of a room",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, format, err := a.load(cmd)
			if err != nil {
				return err
			}
			room := strings.TrimSpace(strings.Join(args, " "))
			res := &RoomResult{Room: room, Sessions: c.SessionsIn(room)}
			if cred, ok := c.RoomCredential(room); ok {
				res.URL = cred.URL
				res.AccessCode = cred.AccessCode
			}
			return WriteOutput(cmd.OutOrStdout(), res, format)
		},
	}
}

func (a *app) timesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "times",
		Short: "List all time slots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, format, err := a.load(cmd)
			if err != nil {
				return err
			}
			return WriteOutput(cmd.OutOrStdout(), &ListResult{Kind: "time slots", Items: c.TimeSlots()}, format)
		},
	}
}

func (a *app) roomsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rooms",
		Short: "List all rooms with sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, format, err := a.load(cmd)
			if err != nil {
				return err
			}
			return WriteOutput(cmd.OutOrStdout(), &ListResult{Kind: "rooms", Items: c.Rooms()}, format)
		},
	}
}

func (a *app) nowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "now",
		Short: "Show the running time slot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runNowNext(cmd, true)
		},
	}
}

func (a *app) nextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Show the upcoming time slot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runNowNext(cmd, false)
		},
	}
}

// runNowNext prints the current or the next slot. Without one, the wall-clock label
// is reported with no sessions.
func (a *app) runNowNext(cmd *cobra.Command, current bool) error {
	c, format, err := a.load(cmd)
	if err != nil {
		return err
	}

	nn, err := c.NowAndNext()
	if err != nil {
		logger.Warn("Could not resolve time slots", logger.Fields{"error": err.Error()})
	}

	label := nn.Next
	if current {
		label = nn.Current
	}
	if label == "" {
		label = nn.Now
	}

	res := &NowNextResult{Now: nn.Now}
	slot := &SlotResult{Label: label, Sessions: c.SessionsAt(label)}
	if current {
		res.Current = slot
	} else {
		res.Next = slot
	}
	return WriteOutput(cmd.OutOrStdout(), res, format)
}

func (a *app) exportCmd() *cobra.Command {
	var day, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the session plan as an iCalendar file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date := time.Now()
			if day != "" {
				parsed, err := time.ParseInLocation(config.DayLayout, day, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --day %q: want YYYY-MM-DD", day)
				}
				date = parsed
			}

			c, _, err := a.load(cmd)
			if err != nil {
				return err
			}

			ics, err := calendar.Generate(c.Plan(), date, time.Local)
			if err != nil {
				return fmt.Errorf("generating calendar: %w", err)
			}

			if output == "" || output == "-" {
				_, err = io.WriteString(cmd.OutOrStdout(), ics)
				return err
			}
			if err := os.WriteFile(output, []byte(ics), 0o644); err != nil { // #nosec G306
				return fmt.Errorf("writing %s: %w", output, err)
			}
			if a.verbose {
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Conference day (YYYY-MM-DD), defaults to today")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

func (a *app) announceCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "announce",
		Short: "Post the sessions of the next time slot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := a.load(cmd)
			if err != nil {
				return err
			}

			nn, err := c.NowAndNext()
			if err != nil {
				logger.Warn("Could not resolve time slots", logger.Fields{"error": err.Error()})
			}
			if !nn.HasNext() {
				fmt.Fprintln(cmd.OutOrStdout(), "No upcoming time slot.")
				return nil
			}

			n, err := a.newNotifier(config.LoadSecrets(), cmd.OutOrStdout(), dryRun)
			if err != nil {
				return err
			}
			return n.Notify(notifier.Announcement{Label: nn.Next, Sessions: c.SessionsAt(nn.Next)})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the posts instead of sending them")
	return cmd
}

func defaultNotifier(secrets config.Secrets, out io.Writer, dryRun bool) (notifier.Notifier, error) {
	if dryRun {
		return notifier.NewDryRunNotifier(out), nil
	}
	n, err := notifier.NewTwitterNotifier(secrets)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
