package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:     "siteferry [config.toml]",
	Short:   "deployment-to-deployment MySQL migration tool",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runMigration,
	Version: versionString(),
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to migration TOML config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runMigration(cmd *cobra.Command, args []string) error {
	// Resolve config path: positional arg takes precedence over --config flag
	cfgPath := configPath
	if len(args) > 0 {
		cfgPath = args[0]
	}
	if cfgPath == "" {
		return fmt.Errorf("config file required: siteferry <config.toml> or siteferry --config <config.toml>")
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}

	return runJob(context.Background(), cfg, newProgressBar(os.Stdout))
}

// runJob drives one migration run end to end:
// connect → enumerate → reset → replicate (or dump pipe) → optional rewrite.
// Every failure is terminal; the three connections are released on every exit
// path.
func runJob(ctx context.Context, cfg *MigrationConfig, bar *progressBar) error {
	start := time.Now()

	log.Printf("siteferry — %s/%s → %s/%s (method=%s batch_size=%d)",
		cfg.Source.Addr(), cfg.Source.Database,
		cfg.Destination.Addr(), cfg.Destination.Database,
		cfg.Method, cfg.BatchSize,
	)

	log.Printf("connecting...")
	conns, err := openConnections(ctx, cfg.Source, cfg.Destination)
	if err != nil {
		return err
	}
	defer conns.Close()

	log.Printf("enumerating source schema '%s'...", cfg.Source.Database)
	tables, err := listTables(ctx, conns.srcMeta, cfg.Source.Database)
	if err != nil {
		return fmt.Errorf("enumerate source tables: %w", err)
	}
	log.Printf("found %d tables", len(tables))

	objs, err := introspectSourceObjects(ctx, conns.srcMeta, cfg.Source.Database)
	if err != nil {
		return fmt.Errorf("introspect source objects: %w", err)
	}
	reportSourceObjects(objs)

	// Foreign-key checks stay off for the whole destination-writing phase
	// (reset + replication) and come back exactly once, failure or not.
	if _, err := conns.dstWrite.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS=0"); err != nil {
		return &ResetError{Err: fmt.Errorf("disable foreign-key checks: %w", err)}
	}
	defer conns.dstWrite.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS=1")

	log.Printf("resetting destination '%s'...", cfg.Destination.Database)
	if err := resetDestination(ctx, conns.dstWrite, cfg.Destination.Database); err != nil {
		return err
	}

	if err := runHookFiles(ctx, conns.dstWrite, cfg, cfg.Hooks.BeforeData, "before_data"); err != nil {
		return fmt.Errorf("before_data hooks: %w", err)
	}

	job := newReplicationJob(cfg.Source, cfg.Destination, tables)

	switch cfg.Method {
	case "dump":
		log.Printf("piping mysqldump → mysql...")
		if err := runDumpPipe(ctx, cfg.Source, cfg.Destination); err != nil {
			return err
		}
	default:
		log.Printf("replicating %d tables...", len(tables))
		if err := replicateAll(ctx, conns, job, cfg.BatchSize, bar); err != nil {
			return err
		}
		log.Printf("copied %d rows across %d tables", job.TotalRows(), len(tables))
	}

	if err := runHookFiles(ctx, conns.dstWrite, cfg, cfg.Hooks.AfterData, "after_data"); err != nil {
		return fmt.Errorf("after_data hooks: %w", err)
	}

	if cfg.Rewrite != nil {
		log.Printf("rewriting storefront domain %s → %s in %s...",
			cfg.Rewrite.OldDomain, cfg.Rewrite.NewDomain, cfg.Rewrite.Table)
		n, err := rewriteDomain(ctx, conns.dstWrite, cfg.Rewrite.Table, cfg.Rewrite.OldDomain, cfg.Rewrite.NewDomain)
		if err != nil {
			return err
		}
		log.Printf("  %d rows rewritten", n)
	}

	log.Printf("migration completed in %s", time.Since(start).Round(time.Millisecond))
	return nil
}
