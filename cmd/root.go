package cmd

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Piladin/ZTPAI/internal/pkg/config"
	"github.com/Piladin/ZTPAI/pkg/logger"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ztpai",
	Short: "Tutoring marketplace API",
	Long: `Backend for a tutoring marketplace: accounts, authentication and
announcements posted by tutors. Usage:

	ztpai serve
	ztpai createadmin --username root --email root@example.com
`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads configuration and builds the process logger.
func bootstrap(ctx context.Context) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "ztpai",
	})
	return cfg, log, nil
}
