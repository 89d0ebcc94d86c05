package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/qafariamirhossein/3d-portfolio/internal/cms"
	"github.com/qafariamirhossein/3d-portfolio/internal/config"
	"github.com/qafariamirhossein/3d-portfolio/internal/db"
	"github.com/qafariamirhossein/3d-portfolio/internal/services"
	"github.com/qafariamirhossein/3d-portfolio/internal/static"
)

// tokenPlaceholder is the value shipped in .env.example.
const tokenPlaceholder = "your-api-token-here"

var errMissingToken = errors.New("STRAPI_API_TOKEN is not set")

type seedOptions struct {
	dataPath     string
	manifestPath string
	dryRun       bool
	skipPublish  bool
	delayScale   float64
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Printf("❌ Seed failed: %v", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &seedOptions{}
	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Seed the CMS with the bundled blog posts",
		Long:          "Creates the author, categories, tags and posts from the static blog data in the CMS, then publishes the posts. Records that already exist are looked up instead of duplicated, so the command can be re-run safely.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.dataPath, "data", "", "blog JSON document (default: BLOG_DATA_PATH or the bundled copy)")
	flags.StringVar(&opts.manifestPath, "manifest", "", "author/category manifest (default: the bundled copy)")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "print the derived dataset without touching the CMS")
	flags.BoolVar(&opts.skipPublish, "skip-publish", false, "create records but do not run the publish pass")
	flags.Float64Var(&opts.delayScale, "delay-scale", 1, "multiplier for the pauses between requests (0 disables them)")
	return cmd
}

func runSeed(cmd *cobra.Command, opts *seedOptions) error {
	cfg := config.Load()
	ctx := cmd.Context()

	dataPath := opts.dataPath
	if dataPath == "" {
		dataPath = cfg.BlogDataPath
	}
	doc, err := static.Load(dataPath)
	if err != nil {
		return err
	}
	manifest, err := static.LoadManifest(opts.manifestPath)
	if err != nil {
		return err
	}
	ds := services.BuildDataset(doc, manifest)

	if opts.dryRun {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(ds)
	}

	if cfg.APIToken == "" || cfg.APIToken == tokenPlaceholder {
		log.Println("Set your CMS API token first:")
		log.Println(`   export STRAPI_API_TOKEN="your-actual-token"`)
		return errMissingToken
	}

	log.Printf("🚀 Seeding %s: %d categories, %d tags, %d posts",
		cfg.StrapiURL, len(ds.Categories), len(ds.Tags), len(ds.Posts))

	client := cms.NewClient(cfg.StrapiURL, cms.WithToken(cfg.APIToken))
	if err := client.Ping(ctx); err != nil {
		log.Println("Make sure the CMS is running and the API token has create and update permissions")
		return fmt.Errorf("cannot reach CMS at %s: %w", cfg.StrapiURL, err)
	}
	log.Println("✅ Connected to CMS")

	seederOpts := []services.SeederOption{
		services.WithDelays(services.DefaultDelays.Scale(opts.delayScale)),
		services.WithSkipPublish(opts.skipPublish),
	}
	if cfg.DatabaseURL != "" {
		if ledger := openLedger(ctx, cfg.DatabaseURL); ledger != nil {
			seederOpts = append(seederOpts, services.WithLedger(ledger, cfg.StrapiURL))
		}
	}

	report, err := services.NewSeeder(client, seederOpts...).Run(ctx, ds)
	fmt.Fprint(cmd.OutOrStdout(), report.Summary())
	if err != nil {
		return err
	}
	log.Println("🎉 Blog setup completed")
	return nil
}

// openLedger connects the run history store. A broken ledger is logged and
// the run continues without it.
func openLedger(ctx context.Context, dsn string) *services.GormLedger {
	conn, err := db.Connect(dsn)
	if err != nil {
		log.Printf("⚠️ Seed ledger disabled: %v", err)
		return nil
	}
	ledger := services.NewGormLedger(conn)
	if last, err := ledger.LastRun(ctx); err == nil {
		log.Printf("Previous seed run %s: %s (started %s)", last.ID, last.Status, last.StartedAt.Format("2006-01-02 15:04"))
	}
	return ledger
}
