package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/teambook/internal/adapter/driven/restclient"
	"github.com/ericfisherdev/teambook/internal/application"
	"github.com/ericfisherdev/teambook/internal/config"
	"github.com/ericfisherdev/teambook/internal/logging"
)

// app carries what every subcommand needs once the root command has resolved
// the configuration.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	apiURL string
	cfg    *config.ClientConfig
	logger *slog.Logger
	client *restclient.Client
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{in: in, out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "teambook",
		Short: "Manage contacts stored on a teambookd server",
		Long: `teambook lists, creates, edits and removes contacts on a teambookd server.

The server is reached at --api-url (or TEAMBOOK_API_URL). The interactive
terminal screen is started with 'teambook tui'.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "base URL of the REST API (env TEAMBOOK_API_URL)")

	root.AddCommand(
		a.newListCmd(),
		a.newAddCmd(),
		a.newUpdateCmd(),
		a.newDeleteCmd(),
		a.newTUICmd(),
	)
	return root
}

// setup loads the client configuration, applies the --api-url override and
// builds the logger and the store gateway.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		if err := config.ValidateAPIURL(a.apiURL); err != nil {
			return fmt.Errorf("--api-url: %w", err)
		}
		cfg.APIURL = a.apiURL
	}
	a.cfg = cfg

	a.logger = logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: a.errOut,
	})

	a.client, err = restclient.NewClient(cfg.APIURL, restclient.WithTimeout(cfg.Timeout))
	if err != nil {
		return err
	}

	a.logger.Debug("client configured", "api_url", cfg.APIURL, "timeout", cfg.Timeout)
	return nil
}

func (a *app) newController() *application.Controller {
	return application.NewController(a.client, a.logger, application.WithPageSize(a.cfg.PageSize))
}
