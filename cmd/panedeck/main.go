package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"panedeck/internal/api"
	"panedeck/internal/layoutstore"
	"panedeck/internal/project"
	"panedeck/internal/pty"
	"panedeck/internal/session"
	"panedeck/internal/settings"
	"panedeck/internal/splittree"
	"panedeck/internal/tmux"
	"panedeck/internal/trace"
	"panedeck/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "panedeck: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		serverURL     string
		token         string
		traceEndpoint string
		configDir     string
	)

	root := &cobra.Command{
		Use:   "panedeck",
		Short: "Control panel for agent sessions with a tiling pane grid",
		Long: "panedeck is a terminal control panel for a session server that runs\n" +
			"coding agents in tmux. It shows worktrees and agents in a sidebar and\n" +
			"multiplexes their terminals into a split-pane grid.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configDir != "" {
				os.Setenv(settings.ConfigDirEnv, configDir)
			}
			return run(serverURL, token, traceEndpoint)
		},
	}

	root.Flags().StringVar(&serverURL, "server", "", "session server URL (overrides settings)")
	root.Flags().StringVar(&token, "token", "", "bearer token (overrides settings)")
	root.Flags().StringVar(&traceEndpoint, "trace-endpoint", "", "OTLP trace endpoint (overrides settings)")
	root.Flags().StringVar(&configDir, "config", "", "settings directory (default: user config dir)")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("panedeck " + version)
		},
	})

	return root
}

func run(serverURL, token, traceEndpoint string) error {
	cfg := settings.Load()
	if serverURL != "" {
		cfg.ServerURL = serverURL
	}
	if token != "" {
		cfg.BearerToken = token
	}
	if traceEndpoint != "" {
		cfg.TraceEndpoint = traceEndpoint
	}

	base, err := project.ResolveProjectsBase()
	if err != nil {
		return fmt.Errorf("resolve projects dir: %w", err)
	}

	tracer, err := trace.New(context.Background(), cfg.TraceEndpoint)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = tracer.Shutdown(ctx)
	}()

	if os.Getenv("TMUX") == "" {
		if names, err := tmux.ListSessionNames(); err != nil || len(names) == 0 {
			fmt.Fprintln(os.Stderr, "panedeck: no tmux server found; grid panes will fall back to a built-in terminal")
		} else {
			fmt.Fprintf(os.Stderr, "panedeck: not inside tmux (%d session(s) running); attach first for pane multiplexing\n", len(names))
		}
	} else if n, err := tmux.WindowPaneCount(); err == nil && n > 1 {
		fmt.Fprintf(os.Stderr, "panedeck: window already has %d panes; grid panes join this window\n", n)
	}

	client := api.NewClient(cfg.ServerURL, cfg.BearerToken)
	client.SetTracer(tracer)
	stream := api.NewStream(cfg.ServerURL, cfg.BearerToken)
	defer stream.Close()

	deps := ui.Deps{
		Projects:  project.NewManager(base),
		Settings:  cfg,
		Client:    client,
		Stream:    stream,
		Layouts:   layoutstore.NewStore(base),
		Registry:  session.New(paneLiveness),
		Provider:  tmux.NewProvider(resolveTarget(client), "", cfg.ShellCommand),
		PTYRunner: &pty.CreackPTY{},
		Tracer:    tracer,
		PaneInput: tmux.SendKeys,
	}

	model := ui.NewAppModel(deps).AsTeaModel()
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// resolveTarget maps agent entries to their tmux target by asking the server.
// Provide runs on user gestures, so a round trip per bind is fine.
func resolveTarget(client *api.Client) tmux.TargetResolver {
	return func(entry splittree.EntryRef) (string, bool) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		m, err := client.Status(ctx)
		if err != nil {
			return "", false
		}
		if m.SessionName != "" && !tmux.HasSession(m.SessionName) {
			return "", false
		}
		a, ok := m.FindAgent(entry.ID)
		if !ok || a.TmuxTarget == "" {
			return "", false
		}
		return a.TmuxTarget, true
	}
}

// paneLiveness reports which tmux panes still exist, for registry pruning.
func paneLiveness() (map[string]bool, error) {
	return tmux.ListPaneIDs()
}
