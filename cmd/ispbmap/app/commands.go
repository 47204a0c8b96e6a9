package app

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/openispb/ispbmap/internal/server"
	"github.com/openispb/ispbmap/pkg/catalogs"
	"github.com/openispb/ispbmap/pkg/errors"
	"github.com/openispb/ispbmap/pkg/sources"
)

// NewUpdateCommand creates the update command. It runs one full refresh
// cycle: download both registries, reconcile, persist.
func (a *App) NewUpdateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Download the registries and rebuild the catalog",
		Long: `Update downloads the PIX and STR participant lists from the Banco
Central do Brasil, reconciles them into the canonical catalog, and persists
the result to the data directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.Service()
			if err != nil {
				return err
			}

			if err := svc.Refresh(cmd.Context()); err != nil {
				return err
			}

			snapshot := svc.Catalog().Snapshot()
			cmd.Printf("Catalog updated: %d participants\n", snapshot.Len())
			return nil
		},
	}
}

// NewServeCommand creates the serve command.
func (a *App) NewServeCommand() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog over HTTP",
		Long: `Serve starts the HTTP API server. Lookups are served from the current
in-memory snapshot; the catalog is refreshed in the background on the
configured interval.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.Service()
			if err != nil {
				return err
			}

			// With no persisted snapshot the server would answer 503 on
			// /ready until the first scheduled refresh, so refresh up front
			// unless told otherwise.
			if refresh && svc.Catalog().Snapshot().Len() == 0 {
				if err := svc.Refresh(cmd.Context()); err != nil {
					a.logger.Error().Err(err).Msg("Initial refresh failed, serving persisted catalog if any")
				}
			}

			if err := svc.AutoRefreshOn(); err != nil {
				return err
			}
			defer func() { _ = svc.AutoRefreshOff() }()

			config := server.DefaultConfig()
			config.Host = a.config.Host
			config.Port = a.config.Port
			config.PathPrefix = a.config.PathPrefix
			config.CORSEnabled = a.config.CORSEnabled
			if len(a.config.CORSOrigins) > 0 {
				config.CORSOrigins = a.config.CORSOrigins
			}

			srv := server.New(svc.Catalog(), a.logger, config)
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&a.config.Host, "host", a.config.Host, "host to bind to")
	cmd.Flags().IntVar(&a.config.Port, "port", a.config.Port, "port to listen on")
	cmd.Flags().BoolVar(&refresh, "refresh", true, "refresh the catalog on startup when empty")

	return cmd
}

// NewListCommand creates the list command.
func (a *App) NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all participants in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.Catalog()
			if err != nil {
				return err
			}

			snapshot := catalog.Snapshot()
			if snapshot.Len() == 0 {
				cmd.Println("Catalog is empty. Run 'ispbmap update' first.")
				return nil
			}

			participants := snapshot.List()
			switch a.config.Output {
			case "json":
				return writeJSON(cmd, participants)
			case "yaml":
				return writeYAML(cmd, participants)
			default:
				printParticipantTable(participants)
				cmd.Printf("\n%d participants\n", len(participants))
				return nil
			}
		},
	}
}

// NewGetCommand creates the get command.
func (a *App) NewGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <ispb>",
		Short: "Look up a participant by ISPB",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ispb, ok := sources.CleanISPB(args[0])
			if !ok {
				return &errors.ValidationError{
					Field:   "ispb",
					Value:   args[0],
					Message: "must contain between 1 and 8 digits",
				}
			}

			catalog, err := a.Catalog()
			if err != nil {
				return err
			}

			participant, found := catalog.Snapshot().ByISPB(ispb)
			if !found {
				return &errors.NotFoundError{Resource: "participant", ID: ispb}
			}

			switch a.config.Output {
			case "yaml":
				return writeYAML(cmd, participant)
			default:
				return writeJSON(cmd, participant)
			}
		},
	}
}

// NewStatsCommand creates the stats command.
func (a *App) NewStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.Catalog()
			if err != nil {
				return err
			}

			snapshot := catalog.Snapshot()
			if snapshot.Len() == 0 {
				cmd.Println("Catalog is empty. Run 'ispbmap update' first.")
				return nil
			}

			meta := snapshot.Metadata()
			cmd.Printf("Participants: %d\n", snapshot.Len())
			cmd.Printf("Generated:    %s\n", meta.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
			for _, name := range []string{"PIX", "STR"} {
				cmd.Printf("%s: %d accepted, %d rejected, %d duplicates\n",
					name, meta.PerSource[name], meta.Rejected[name], meta.Duplicates[name])
			}
			return nil
		},
	}
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("ispbmap %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit: %s\n", a.commit)
				cmd.Printf("  built:  %s\n", a.date)
			}
		},
	}
}

// printParticipantTable renders participants in aligned columns.
func printParticipantTable(participants []catalogs.Participant) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ISPB\tNAME\tTYPE\tORIGIN\tPIX\tSTR\tCOMPE")
	for _, p := range participants {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ISPB, p.ShortName, p.Type, p.Origin,
			mark(p.Flags.PIX), mark(p.Flags.STR), mark(p.Flags.COMPE))
	}
	_ = w.Flush()
}

func mark(b bool) string {
	if b {
		return "yes"
	}
	return "-"
}

func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(data))
	return nil
}

func writeYAML(cmd *cobra.Command, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	cmd.Print(string(data))
	return nil
}
