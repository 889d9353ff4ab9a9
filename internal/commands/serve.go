package commands

import (
	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-extractor/internal/api"
)

func newServeCommand(rt *runtime) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the conversion HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := rt.cfg.Parser()
			if err != nil {
				return err
			}
			n, err := rt.cfg.Normalizer()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = rt.cfg.Server.Addr
			}

			h := &api.Handler{
				Parser:     p,
				Normalizer: n,
				XLSX:       rt.cfg.XLSXWriter(),
				Log:        rt.log,
			}
			app := api.NewApp(h, rt.cfg.Server.MaxUploadMiB)

			rt.log.WithField("addr", addr).Info("listening")
			return app.Listen(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address; overrides config")
	return cmd
}
