package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jwlee/teamboard/internal/api"
	"github.com/jwlee/teamboard/internal/command"
	"github.com/jwlee/teamboard/internal/credential"
	"github.com/jwlee/teamboard/internal/model"
	"github.com/jwlee/teamboard/internal/prefs"
	"github.com/jwlee/teamboard/internal/state"
	"github.com/jwlee/teamboard/internal/ui"
)

// Version information set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig string
	flagServer string
	flagDebug  bool
)

var rootCmd = &cobra.Command{
	Use:   "teamboard",
	Short: "Team project board in the terminal",
	Long: `A terminal dashboard for tracking team projects, tasks, schedules
and the bulletin board against a shared backend server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("teamboard %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token <value>",
	Short: "Store the API token in the system keyring",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return credential.Set(credential.APITokenKey, args[0])
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file path")
	rootCmd.Flags().StringVar(&flagServer, "server", "", "backend base URL override")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "write a debug log file")
	rootCmd.AddCommand(versionCmd, tokenCmd)
}

func run() error {
	if flagDebug {
		f, err := tea.LogToFile("teamboard-debug.log", "debug")
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer f.Close()
	}

	configPath := flagConfig
	if configPath == "" {
		configPath = model.DefaultConfigPath()
	}
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if flagServer != "" {
		cfg.Server.BaseURL = flagServer
	}

	pf, err := prefs.Open(model.DefaultPrefsPath())
	if err != nil {
		return fmt.Errorf("opening preferences: %w", err)
	}
	defer pf.Close()

	store := state.New(pf)

	client := api.NewClient(
		cfg.Server.BaseURL,
		time.Duration(cfg.Server.TimeoutSec)*time.Second,
		store.CurrentUserID,
		func() string {
			token, err := credential.Get(credential.APITokenKey)
			if err != nil {
				return ""
			}
			return token
		},
	)

	cmds := command.New(store, client)
	p := tea.NewProgram(ui.New(cmds), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running application: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
