package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"poseshow/internal/config"
	"poseshow/internal/service"
	"poseshow/internal/settings"
	"poseshow/internal/slideshow"
)

// ServiceFactory builds the session used by every command.
type ServiceFactory func(dbDir string, cfg *config.Config, logger settings.LoggerFunc) (*service.Service, error)

// commandFunc is a command body that runs against an open session.
type commandFunc func(cmd *cobra.Command, svc *service.Service, cfg *config.Config, args []string) error

// serviceRunner adapts a commandFunc into a cobra RunE.
type serviceRunner func(run commandFunc) func(*cobra.Command, []string) error

func cliLogger(msg string) {
	log.Printf("[poseshow-cli] %s", msg)
}

// NewRootCmd creates the root command for the CLI application.
// newService is responsible for opening the settings store and building the
// service. This allows tests to inject test-specific instances.
func NewRootCmd(newService ServiceFactory) *cobra.Command {
	var (
		dbPathFlag    string
		configFlag    string
		recursiveFlag bool
	)

	// withService opens the session for a single command and always closes
	// it again, even when the command fails.
	var withService serviceRunner = func(run commandFunc) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			var cfg *config.Config
			var err error
			if configFlag != "" {
				cfg, err = config.LoadFrom(configFlag)
			} else {
				cfg, err = config.Load()
			}
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if recursiveFlag {
				cfg.Recursive = true
			}
			svc, err := newService(dbPathFlag, cfg, cliLogger)
			if err != nil {
				return fmt.Errorf("failed to initialize service: %w", err)
			}
			defer svc.Close()
			return run(cmd, svc, cfg, args)
		}
	}

	rootCmd := &cobra.Command{
		Use:           "poseshow-cli",
		Short:         "PoseShow CLI - timed image slideshows for figure drawing practice",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Scan command
	var shuffleFlag bool
	scanCmd := &cobra.Command{
		Use:   "scan [path...]",
		Short: "List the images a slideshow over the given paths would show",
		RunE: withService(func(cmd *cobra.Command, svc *service.Service, _ *config.Config, args []string) error {
			if err := svc.Load(cmd.Context(), args); err != nil {
				return err
			}
			svc.Navigator.WaitLoaded()
			if shuffleFlag && svc.Navigator.Len() > 0 {
				if err := svc.Navigator.Shuffle(); err != nil {
					return err
				}
			}
			for _, p := range svc.Navigator.Snapshot() {
				cmd.Println(p)
			}
			if sum, ok := svc.Navigator.ScanSummary(); ok {
				cmd.Printf("Found %s images (%s duplicates, %s unreadable)\n",
					humanize.Comma(int64(sum.Added)),
					humanize.Comma(int64(sum.Duplicates)),
					humanize.Comma(int64(sum.Unreadable)))
			}
			return nil
		}),
	}
	scanCmd.Flags().BoolVar(&shuffleFlag, "shuffle", false, "Print the images in shuffled order")
	rootCmd.AddCommand(scanCmd)

	rootCmd.AddCommand(newPlayCmd(withService))
	rootCmd.AddCommand(newStarCmd(withService))

	// Config command
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		RunE: withService(func(cmd *cobra.Command, svc *service.Service, cfg *config.Config, args []string) error {
			sc := svc.StrategyConfig()
			hist := cfg.GetHistoryConfig()
			cmd.Printf("recursive: %t\n", cfg.Recursive)
			if cfg.DefaultFolder != "" {
				cmd.Printf("default folder: %s\n", cfg.DefaultFolder)
			}
			if dir := svc.Settings.LastDirectory(); dir != "" {
				cmd.Printf("last directory: %s\n", dir)
			}
			cmd.Printf("history: %d shuffles, %d random jumps\n", hist.Shuffle, hist.Random)
			cmd.Printf("strategy: %s\n", sc.Kind)
			switch sc.Kind {
			case slideshow.KindFixed:
				cmd.Printf("  speed: %s\n", sc.Speed)
			case slideshow.KindIncremental:
				cmd.Printf("  speed: %s\n  increment: %d\n", sc.Speed, sc.Increment)
			case slideshow.KindTable:
				for i, r := range sc.Rows {
					cmd.Printf("  row %d: %d images at %s\n", i+1, r.Count, r.Duration)
				}
			case slideshow.KindRandom:
				cmd.Printf("  budget: %s\n", sc.Budget)
				for _, c := range sc.Candidates {
					cmd.Printf("  candidate: %s\n", c)
				}
			}
			return nil
		}),
	}
	rootCmd.AddCommand(configCmd)

	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "dbpath", "", "Directory holding the settings database")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Configuration file (default: XDG config dir, then ./config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&recursiveFlag, "recursive", "r", false, "Descend into subdirectories")

	return rootCmd
}

// syncWriter serializes writes coming from slideshow timers and drops
// anything written after it is closed.
type syncWriter struct {
	mu     sync.Mutex
	w      io.Writer
	closed bool
}

func (s *syncWriter) Printf(format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		fmt.Fprintf(s.w, format, args...)
	}
}

func (s *syncWriter) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func newPlayCmd(withService serviceRunner) *cobra.Command {
	var (
		kindFlag      string
		speedFlag     time.Duration
		incrementFlag int
		budgetFlag    time.Duration
		countFlag     int
		shuffleFlag   bool
		saveFlag      bool
	)

	playCmd := &cobra.Command{
		Use:   "play [path...]",
		Short: "Run a slideshow in the terminal, printing each image as it comes up",
		RunE: withService(func(cmd *cobra.Command, svc *service.Service, _ *config.Config, args []string) error {
			sc := svc.StrategyConfig()
			flags := cmd.Flags()
			if flags.Changed("kind") {
				sc.Kind = slideshow.Kind(kindFlag)
			}
			if flags.Changed("speed") {
				sc.Speed = speedFlag
			}
			if flags.Changed("increment") {
				sc.Increment = incrementFlag
			}
			if flags.Changed("budget") {
				sc.Budget = budgetFlag
			}
			if err := svc.SelectStrategy(sc); err != nil {
				return err
			}

			if err := svc.Load(cmd.Context(), args); err != nil {
				return err
			}
			if svc.Navigator.Len() == 0 {
				return fmt.Errorf("no images to show")
			}
			if shuffleFlag {
				svc.Navigator.WaitLoaded()
				if err := svc.Navigator.Shuffle(); err != nil {
					return err
				}
			}

			out := &syncWriter{w: cmd.OutOrStdout()}
			defer out.Close()

			done := make(chan struct{})
			var once sync.Once
			finish := func() { once.Do(func() { close(done) }) }

			var mu sync.Mutex
			shown := 0
			show := func(path string) {
				out.Printf("[%s] %s\n", time.Now().Format("15:04:05"), path)
			}

			svc.Slideshow.OnChanged(func(message string) { out.Printf("%s\n", message) })
			svc.Slideshow.OnAdvance(func(path string) {
				show(path)
				mu.Lock()
				shown++
				reached := countFlag > 0 && shown >= countFlag
				mu.Unlock()
				if reached {
					finish()
				}
			})
			svc.Slideshow.OnComplete(func() {
				out.Printf("Slideshow complete\n")
				finish()
			})
			svc.Slideshow.OnStateChanged(func(state slideshow.State) {
				if state == slideshow.Stopped {
					finish()
				}
			})

			show(svc.Navigator.Current())
			if err := svc.Slideshow.Start(); err != nil {
				return err
			}
			out.Printf("%s\n", svc.Slideshow.FormatNotifyMessage())

			select {
			case <-done:
			case <-cmd.Context().Done():
			}
			svc.Slideshow.Stop()
			out.Close()

			if saveFlag {
				return svc.Save()
			}
			return nil
		}),
	}

	playCmd.Flags().StringVar(&kindFlag, "kind", "", "Timing strategy: fixed, incremental, table or random")
	playCmd.Flags().DurationVar(&speedFlag, "speed", 0, "Time per image (fixed) or starting time (incremental)")
	playCmd.Flags().IntVar(&incrementFlag, "increment", 0, "Number of times the incremental strategy doubles the time")
	playCmd.Flags().DurationVar(&budgetFlag, "budget", 0, "Total time of a random draw slideshow")
	playCmd.Flags().IntVarP(&countFlag, "count", "n", 0, "Stop after this many advances (0 runs until complete)")
	playCmd.Flags().BoolVar(&shuffleFlag, "shuffle", false, "Shuffle before starting")
	playCmd.Flags().BoolVar(&saveFlag, "save", false, "Remember the directory and timing for the next session")
	return playCmd
}

func newStarCmd(withService serviceRunner) *cobra.Command {
	starCmd := &cobra.Command{
		Use:   "star",
		Short: "Manage starred images",
	}

	addCmd := &cobra.Command{
		Use:   "add [image...]",
		Short: "Star one or more images",
		Args:  cobra.MinimumNArgs(1),
		RunE: withService(func(cmd *cobra.Command, svc *service.Service, _ *config.Config, args []string) error {
			for _, arg := range args {
				imagePath, err := filepath.Abs(arg)
				if err != nil {
					return err
				}
				if _, err := os.Stat(imagePath); err != nil {
					return fmt.Errorf("cannot star %s: %w", imagePath, err)
				}
				added, err := svc.Settings.Star(imagePath)
				if err != nil {
					return err
				}
				if added {
					cmd.Printf("Starred %s\n", imagePath)
				} else {
					cmd.Printf("%s was already starred\n", imagePath)
				}
			}
			return nil
		}),
	}

	removeCmd := &cobra.Command{
		Use:   "remove [image...]",
		Short: "Remove the star from one or more images",
		Args:  cobra.MinimumNArgs(1),
		RunE: withService(func(cmd *cobra.Command, svc *service.Service, _ *config.Config, args []string) error {
			for _, arg := range args {
				imagePath, err := filepath.Abs(arg)
				if err != nil {
					return err
				}
				removed, err := svc.Settings.Unstar(imagePath)
				if err != nil {
					return err
				}
				if removed {
					cmd.Printf("Unstarred %s\n", imagePath)
				} else {
					cmd.Printf("%s was not starred\n", imagePath)
				}
			}
			return nil
		}),
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List starred images",
		Args:  cobra.NoArgs,
		RunE: withService(func(cmd *cobra.Command, svc *service.Service, _ *config.Config, args []string) error {
			stars, err := svc.Settings.Stars()
			if err != nil {
				return err
			}
			if len(stars) == 0 {
				cmd.Println("No starred images.")
				return nil
			}
			for _, s := range stars {
				cmd.Println(s)
			}
			return nil
		}),
	}

	starCmd.AddCommand(addCmd, removeCmd, listCmd)
	return starCmd
}

func defaultService(dbDir string, cfg *config.Config, logger settings.LoggerFunc) (*service.Service, error) {
	store, err := settings.NewStore(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings DB: %w", err)
	}
	svc, err := service.NewService(cfg, store, logger)
	if err != nil {
		store.Close()
		return nil, err
	}
	return svc, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := NewRootCmd(defaultService)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
