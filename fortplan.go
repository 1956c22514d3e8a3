//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nsf/termbox-go"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/timburks/fortplan/commander"
	"github.com/timburks/fortplan/config"
	"github.com/timburks/fortplan/editor"
	"github.com/timburks/fortplan/logging"
	"github.com/timburks/fortplan/schedule"
	"github.com/timburks/fortplan/screen"
	"github.com/timburks/fortplan/store"
	fortplan "github.com/timburks/fortplan/types"
	"github.com/timburks/fortplan/view"
)

// flags shared by every command
type options struct {
	configPath string
	store      string
	storePath  string
	logLevel   string
	eval       string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "fortplan",
		Short:         "Plan fortress designations on a grid of levels",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			if opts.eval != "" {
				return evalScript(cmd, cfg, opts.eval)
			}
			return interactive(cfg)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "configuration file (.yaml, .json or .toml)")
	root.PersistentFlags().StringVar(&opts.store, "store", "", "save backend: memory|file|sqlite")
	root.PersistentFlags().StringVar(&opts.storePath, "store-path", "", "directory or database used by the save backend")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug|info|warn|error|off")
	root.Flags().StringVar(&opts.eval, "eval", "", "run a lisp script instead of the interactive editor")

	var levelIndex int
	var key string
	renderCmd := &cobra.Command{
		Use:   "render <out.png>",
		Short: "Render a saved level as a PNG image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			e, closeStore, err := loadEditor(cmd, cfg, key)
			if err != nil {
				return err
			}
			defer closeStore()
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			if err := e.RenderPNG(levelIndex, f); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
	renderCmd.Flags().IntVar(&levelIndex, "level", 0, "index of the level to render")
	renderCmd.Flags().StringVar(&key, "key", "", "save key, defaults to the configured key")

	var format string
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Write a saved level as comma separated text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := view.ParseFormat(format)
			if err != nil {
				return err
			}
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			e, closeStore, err := loadEditor(cmd, cfg, key)
			if err != nil {
				return err
			}
			defer closeStore()
			return e.Dump(levelIndex, f, cmd.OutOrStdout())
		},
	}
	dumpCmd.Flags().IntVar(&levelIndex, "level", 0, "index of the level to dump")
	dumpCmd.Flags().StringVar(&key, "key", "", "save key, defaults to the configured key")
	dumpCmd.Flags().StringVar(&format, "format", "selection", "cell format: selection|codes")

	root.AddCommand(renderCmd, dumpCmd)
	return root
}

// config loads the configuration file, if any, and applies flag overrides.
func (o *options) config() (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return cfg, err
		}
	}
	if o.store != "" {
		cfg.Store = o.store
	}
	if o.storePath != "" {
		cfg.StorePath = o.storePath
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	return cfg, cfg.Validate()
}

func newEditor(cfg config.Config, scheduler schedule.Scheduler, logger zerolog.Logger) (*editor.Editor, store.Store, error) {
	s, err := store.Open(cfg.Store, cfg.StorePath)
	if err != nil {
		return nil, nil, err
	}
	e, err := editor.NewEditor(editor.Options{
		Config:    cfg,
		Store:     s,
		Scheduler: scheduler,
		Logger:    logger,
	})
	if err != nil {
		s.Close()
		return nil, nil, err
	}
	return e, s, nil
}

// loadEditor opens an editor on the levels saved under key.
func loadEditor(cmd *cobra.Command, cfg config.Config, key string) (*editor.Editor, func(), error) {
	logger, err := logging.Console(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	e, s, err := newEditor(cfg, nil, logger)
	if err != nil {
		return nil, nil, err
	}
	if key == "" {
		key = cfg.SaveKey
	}
	if err := e.LoadFrom(cmd.Context(), key); err != nil {
		s.Close()
		return nil, nil, err
	}
	return e, func() {
		e.Stop()
		s.Close()
	}, nil
}

func evalScript(cmd *cobra.Command, cfg config.Config, path string) error {
	logger, err := logging.Console(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return err
	}
	e, s, err := newEditor(cfg, nil, logger)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := e.Start(); err != nil {
		return err
	}
	defer e.Stop()
	return commander.NewCommander(e, logger).ParseEvalFile(path)
}

func interactive(cfg config.Config) error {
	// The terminal belongs to the screen, so logs go to a file.
	logger, logFile, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logFile.Close()

	// Deferred redraws are queued by timers and run between events.
	// Timers never call termbox directly: Interrupt blocks until the
	// screen polls, so wakeups go through a one-slot channel.
	wakeups := make(chan struct{}, 1)
	loop := schedule.NewLoop(func() {
		select {
		case wakeups <- struct{}{}:
		default:
		}
	})
	defer loop.Close()

	// The editor manages all level manipulation.
	e, s, err := newEditor(cfg, loop, logger)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := e.Start(); err != nil {
		return err
	}
	defer e.Stop()

	// Open the most recent save when there is one.
	if err := e.Load(context.Background()); err != nil {
		logger.Info().Err(err).Msg("starting with an empty map")
	}

	// The commander converts user inputs into commands for the editor.
	c := commander.NewCommander(e, logger)

	// Create a screen to manage display.
	sc, err := screen.NewScreen()
	if err != nil {
		return err
	}
	defer sc.Close()

	done := make(chan struct{})
	defer close(done)
	go forward(wakeups, done, termbox.Interrupt)

	return runLoop(sc, c, loop, logger)
}

// forward calls interrupt once per wakeup until done is closed.
func forward(wakeups, done <-chan struct{}, interrupt func()) {
	for {
		select {
		case <-done:
			return
		case <-wakeups:
			select {
			case <-done:
				return
			default:
			}
			interrupt()
		}
	}
}

// events is the part of the screen the event loop needs.
type events interface {
	Render(e *editor.Editor, c *commander.Commander) error
	GetNextEvent() *fortplan.Event
}

func runLoop(sc events, c *commander.Commander, loop *schedule.Loop, logger zerolog.Logger) error {
	for c.IsRunning() {
		if err := sc.Render(c.GetEditor(), c); err != nil {
			return err
		}
		event := sc.GetNextEvent()
		if event.Type != fortplan.EventInterrupt {
			if err := c.ProcessEvent(event); err != nil {
				logger.Warn().Err(err).Msg("event")
			}
		}
		if n := loop.RunPending(); n > 0 {
			logger.Debug().Int("calls", n).Msg("deferred")
		}
	}
	return nil
}
