package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/casework-hq/casework/internal/interfaces/cli/migrate"
	"github.com/casework-hq/casework/internal/interfaces/cli/rules"
	"github.com/casework-hq/casework/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "casework",
		Short:        "Casework - helpline case management service",
		Long:         `Casework serves helpline cases, their sections and history behind per-account permission rules, with migration and rule management tools.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		rules.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
