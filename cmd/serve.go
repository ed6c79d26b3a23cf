package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/auditdash/auditdash/internal/server"
	"github.com/auditdash/auditdash/pkg/store"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the audit dashboard web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("listen")
		if addr == "" {
			addr = viper.GetString("listen")
		}
		user, _ := cmd.Flags().GetString("username")
		if user == "" {
			user = viper.GetString("auth.username")
		}
		pass, _ := cmd.Flags().GetString("password")
		if pass == "" {
			pass = viper.GetString("auth.password")
		}

		srv := server.New(server.Config{
			Store:     store.New(dataDir(cmd)),
			Version:   Version,
			BuildDate: BuildDate,
			Username:  user,
			Password:  pass,
		})
		return srv.Start(addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("data-dir", "d", "", "Directory holding the per-date report folders")
	serveCmd.Flags().String("listen", "", "HTTP listen address (default :3000)")
	serveCmd.Flags().String("username", "", "Basic auth username (empty disables auth)")
	serveCmd.Flags().String("password", "", "Basic auth password")
}
