package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/abhisek/coursementor/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the mentor HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.LogMode == "prod" {
			gin.SetMode(gin.ReleaseMode)
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.HTTP.Addr = addr
		}

		d, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		defer d.close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return server.New(cfg.HTTP, d.service, d.log).Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides MENTOR_HTTP_ADDR)")
}
