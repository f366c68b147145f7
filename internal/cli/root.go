// Package cli is the rolectl command tree. Every command runs one view inside
// a fresh session and prints its data to stdout and its notification to stderr.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/alanyang/llm-roles/internal/appstate"
	"github.com/alanyang/llm-roles/internal/client/apiclient"
	roleclient "github.com/alanyang/llm-roles/internal/client/role"
	templateclient "github.com/alanyang/llm-roles/internal/client/template"
	"github.com/alanyang/llm-roles/internal/config"
	domainprompt "github.com/alanyang/llm-roles/internal/domain/prompt"
	"github.com/alanyang/llm-roles/internal/logger"
	"github.com/alanyang/llm-roles/internal/view"
)

// ErrReported is returned when a command failed and the failure was already
// printed as a notification.
var ErrReported = errors.New("command failed")

// App carries the global flags and the session of the running command.
type App struct {
	configFile string
	apiURL     string
	token      string
	verbose    bool

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	ctx       context.Context
	state     *appstate.State
	roles     *roleclient.Service
	templates *templateclient.Service
}

// NewRootCommand builds rolectl. The sidebar sections become command groups.
func NewRootCommand() *cobra.Command {
	a := &App{}
	root := &cobra.Command{
		Use:           "rolectl",
		Short:         "Manage LLM roles and prompt templates",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.connect(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.configFile, "config", "", "config file (default etc/config.yaml)")
	f.StringVar(&a.apiURL, "api-url", "", "backend base URL, overrides client.api_url")
	f.StringVar(&a.token, "token", "", "bearer token, overrides client.token")
	f.BoolVarP(&a.verbose, "verbose", "v", false, "log at debug level")

	for _, item := range view.Sidebar {
		root.AddGroup(&cobra.Group{ID: groupID(item), Title: item.Label + ":"})
	}
	for _, cmd := range []*cobra.Command{newRolesCommand(a), newTemplatesCommand(a)} {
		if item, ok := view.Selected("/" + cmd.Name()); ok {
			cmd.GroupID = groupID(item)
		}
		root.AddCommand(cmd)
	}
	return root
}

func groupID(item view.NavItem) string { return strings.TrimPrefix(item.Path, "/") }

func (a *App) connect(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.Client.APIURL = a.apiURL
	}
	if a.token != "" {
		cfg.Client.Token = a.token
	}

	logCfg := cfg.Log
	logCfg.Console = true
	logCfg.Level = "warn"
	if a.verbose {
		logCfg.Level = "debug"
	}
	log := logger.New(logCfg, cmd.ErrOrStderr())

	api := apiclient.New(cfg.Client.APIURL, apiclient.WithLogger(log))
	if cfg.Client.Token != "" {
		api.SetCredential(cfg.Client.Token)
	}

	a.in = cmd.InOrStdin()
	a.out = cmd.OutOrStdout()
	a.errOut = cmd.ErrOrStderr()
	a.state = appstate.New()
	a.state.Watch(func(snap appstate.Snapshot) {
		log.Debug("state changed", "loading", snap.Loading, "severity", snap.Notification.Severity, "notification", snap.Notification.Message)
	})
	a.ctx = appstate.NewContext(cmd.Context(), a.state)
	a.roles = roleclient.NewService(api)
	a.templates = templateclient.NewService(api)
	log.Debug("session started", "api_url", cfg.Client.APIURL, "authenticated", cfg.Client.Token != "")
	return nil
}

type runFunc func(cmd *cobra.Command, args []string) error

// run executes fn, prints the notification it left behind and ends the session.
func (a *App) run(fn runFunc) runFunc {
	return func(cmd *cobra.Command, args []string) error {
		defer a.state.Close()
		err := fn(cmd, args)
		if rerr := a.report(); err == nil {
			err = rerr
		}
		return err
	}
}

// report prints the last notification. Errors and warnings fail the command.
func (a *App) report() error {
	n := a.state.Notification()
	if n.Message == "" {
		return nil
	}
	printBanner(a.errOut, n)
	switch n.Severity {
	case appstate.SeverityError, appstate.SeverityWarning:
		return ErrReported
	}
	return nil
}

// confirm asks a yes/no question on stderr and reads the answer from stdin.
func (a *App) confirm(question string) bool {
	fmt.Fprintf(a.errOut, "%s [y/N]: ", question)
	line, _ := bufio.NewReader(a.in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return id, nil
}

func parseVariables(assignments []string) (domainprompt.Variables, error) {
	if len(assignments) == 0 {
		return nil, nil
	}
	vars := make(domainprompt.Variables, len(assignments))
	for _, s := range assignments {
		name, v, err := domainprompt.ParseAssignment(s)
		if err != nil {
			return nil, err
		}
		vars[name] = v
	}
	return vars, nil
}
