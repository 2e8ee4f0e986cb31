// Package rules holds the command line tools for per-account permission
// rules: validating rule files, importing them into the rule store and
// printing the effective rules of an account.
package rules

import (
	"context"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	apppermission "github.com/casework-hq/casework/internal/application/permission"
	"github.com/casework-hq/casework/internal/domain/permission"
	"github.com/casework-hq/casework/internal/infrastructure/cache"
	"github.com/casework-hq/casework/internal/infrastructure/config"
	"github.com/casework-hq/casework/internal/infrastructure/database"
	infrapermission "github.com/casework-hq/casework/internal/infrastructure/permission"
	httpRouter "github.com/casework-hq/casework/internal/interfaces/http"
	"github.com/casework-hq/casework/internal/shared/logger"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Permission rule tools",
		Long:  `Validate, import and inspect per-account permission rules.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(
		newCheckCommand(),
		newImportCommand(),
		newSyncCommand(),
		newShowCommand(),
	)

	return cmd
}

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Validate rule files",
		Long:  `Parse and compile rule files against the built-in action and condition catalogues without storing them.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkFiles(cmd.OutOrStdout(), permission.NewDefaultCatalog(), args)
		},
	}
}

func newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <accountSID> <file>",
		Short: "Import a rule file for one account",
		Long:  `Validate a rule file and store it as the policy of an account, replacing the previous one.`,
		Args:  cobra.ExactArgs(2),
		RunE:  runImport,
	}
}

func newSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Import every account file from the rules directory",
		Long:  `Validate every <accountSID>.yaml in the configured rules directory, then import them all into the rule store.`,
		Args:  cobra.NoArgs,
		RunE:  runSync,
	}
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <accountSID>",
		Short: "Print the effective rules of an account",
		Long:  `Load the rules of an account from the configured source and print them in rule file format.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
}

// checkFiles compiles every file and reports all failures, not just the
// first.
func checkFiles(out io.Writer, catalog *permission.Catalog, paths []string) error {
	failed := 0
	for _, path := range paths {
		raw, err := infrapermission.ReadRulesFile(path)
		if err == nil {
			var rules *permission.RuleSet
			rules, err = permission.CompileRules(raw, catalog)
			if err == nil {
				fmt.Fprintf(out, "%s: ok (%d actions)\n", path, len(rules.Actions()))
				continue
			}
		}
		failed++
		fmt.Fprintf(out, "%s: %v\n", path, err)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d rule files are invalid", failed, len(paths))
	}
	return nil
}

type environment struct {
	cfg     *config.Config
	log     logger.Interface
	redis   *redis.Client
	service *apppermission.Service
}

func (e *environment) close() {
	if e.redis != nil {
		_ = e.redis.Close()
	}
	_ = database.Close()
}

// initEnv connects to the rule store and builds the import service. Cached
// copies in redis are dropped on import when the redis tier is enabled.
func initEnv(ctx context.Context) (*environment, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := database.Init(&cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	e := &environment{cfg: cfg, log: log}

	store, err := infrapermission.NewCasbinRuleStore(database.Get(), log.Named("rulestore"))
	if err != nil {
		e.close()
		return nil, err
	}

	var invalidators []apppermission.RuleInvalidator
	if cfg.Permissions.RedisCache {
		e.redis, err = httpRouter.NewRedisClient(ctx, cfg, log)
		if err != nil {
			e.close()
			return nil, err
		}
		invalidators = append(invalidators, cache.NewRedisRuleCache(e.redis, store, cfg.Permissions.CacheTTL(), log.Named("rulecache")))
	}

	e.service = apppermission.NewService(permission.NewDefaultCatalog(), store, nil, log, invalidators...)
	return e, nil
}

func runImport(cmd *cobra.Command, args []string) error {
	accountSID, path := args[0], args[1]

	raw, err := infrapermission.ReadRulesFile(path)
	if err != nil {
		return err
	}

	e, err := initEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.close()

	rules, err := e.service.ImportRules(cmd.Context(), accountSID, raw)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "imported %d actions for %s\n", len(rules.Actions()), accountSID)
	return nil
}

func runSync(cmd *cobra.Command, args []string) error {
	e, err := initEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.close()

	source := infrapermission.NewFileRuleSource(e.cfg.Permissions.RulesDir)
	count, err := infrapermission.NewRuleSync(source, e.service, e.log).SyncAll(cmd.Context())
	if err != nil {
		return fmt.Errorf("sync stopped after %d accounts: %w", count, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "synced %d accounts from %s\n", count, e.cfg.Permissions.RulesDir)
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	loader, err := httpRouter.NewRuleLoader(cfg, database.Get(), nil, nil, log)
	if err != nil {
		return err
	}
	return showRules(cmd.Context(), cmd.OutOrStdout(), loader, permission.NewDefaultCatalog(), args[0])
}

// showRules prints the compiled rules of an account, so only rules that
// would be enforced are shown.
func showRules(ctx context.Context, out io.Writer, loader permission.RuleLoader, catalog *permission.Catalog, accountSID string) error {
	raw, err := loader.LoadRules(ctx, accountSID)
	if err != nil {
		return err
	}
	rules, err := permission.CompileRules(raw, catalog)
	if err != nil {
		return fmt.Errorf("stored rules for %s are invalid: %w", accountSID, err)
	}
	data, err := infrapermission.MarshalRules(rules.Raw())
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
