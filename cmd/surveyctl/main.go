// Command surveyctl parses, imports and exports survey mapping workbooks from the shell.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"survey-service/internal/config"
	"survey-service/internal/export"
	"survey-service/internal/fileio"
	"survey-service/internal/store"
	"survey-service/internal/survey/importer"
	"survey-service/internal/survey/model"
	"survey-service/internal/survey/service"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

type globalFlags struct {
	store       string
	databaseURL string
	verbose     bool
}

func newRootCmd(out io.Writer) *cobra.Command {
	cfg := config.Load()
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           "surveyctl",
		Short:         "Parse, import and export land-survey mapping workbooks",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&g.store, "store", cfg.Store, "Store backend: memory or postgres")
	root.PersistentFlags().StringVar(&g.databaseURL, "database-url", cfg.DatabaseURL, "Postgres connection string")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Log progress to stderr")

	root.AddCommand(newParseCmd(), newImportCmd(g, cfg), newExportCmd(g, cfg))
	return root
}

func (g *globalFlags) logger() zerolog.Logger {
	if !g.verbose {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
}

func (g *globalFlags) openStore(ctx context.Context) (store.Store, error) {
	switch g.store {
	case config.StorePostgres:
		if g.databaseURL == "" {
			return nil, fmt.Errorf("--database-url (or DATABASE_URL) is required with --store=postgres")
		}
		return store.NewPostgres(ctx, g.databaseURL)
	case config.StoreMemory, "":
		return store.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store %q", g.store)
	}
}

func parseFile(path string) (model.ParseResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.ParseResult{}, err
	}
	defer f.Close()

	sheets, err := fileio.ReadWorkbook(f, filepath.Base(path))
	if err != nil {
		return model.ParseResult{}, fmt.Errorf("read %s: %w", path, err)
	}
	return service.ParseWorkbook(sheets), nil
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func newParseCmd() *cobra.Command {
	var pretty, raw bool
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Print the records reconstructed from a workbook as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := parseFile(args[0])
			if err != nil {
				return err
			}
			payload := map[string]any{
				"sheets":        res.Sheets,
				"invalidSheets": res.InvalidSheets,
				"summary":       service.Summarize(res.Records()),
			}
			if raw {
				payload["rawSheets"] = res.RawSheets()
			}
			return writeJSON(cmd.OutOrStdout(), payload, pretty)
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().BoolVar(&raw, "raw", false, "Include verbatim row dumps")
	return cmd
}

func newImportCmd(g *globalFlags, cfg config.Config) *cobra.Command {
	var opts struct {
		mode, collection, name, owner string
		concurrency                   int
	}
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Parse a workbook and persist its records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := importer.ParseMode(opts.mode)
			if err != nil {
				return err
			}
			res, err := parseFile(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			st, err := g.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			im := importer.New(st, g.logger(),
				importer.WithConcurrency(opts.concurrency),
				importer.WithDefaultCollection(cfg.DefaultCollection),
			)
			out, err := im.Import(ctx, res, importer.Options{
				Mode:           mode,
				Collection:     opts.collection,
				Owner:          opts.owner,
				CollectionName: opts.name,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out, true)
		},
	}
	cmd.Flags().StringVar(&opts.mode, "mode", string(importer.ModeAdd), "Import mode: add, replace or newCollection")
	cmd.Flags().StringVar(&opts.collection, "collection", "", "Target collection for add and replace (default: DEFAULT_COLLECTION)")
	cmd.Flags().StringVar(&opts.name, "name", "", "Collection name for newCollection (default: timestamp)")
	cmd.Flags().StringVar(&opts.owner, "owner", "", "Owner recorded on every document")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", cfg.ImportConcurrency, "Concurrent persistence calls")
	return cmd
}

func newExportCmd(g *globalFlags, cfg config.Config) *cobra.Command {
	var output, input string
	cmd := &cobra.Command{
		Use:   "export [collection]",
		Short: "Write a collection, or a parsed workbook with --input, as an xlsx grouped by region",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var records []model.Record
			if input != "" {
				res, err := parseFile(input)
				if err != nil {
					return err
				}
				records = res.Records()
			} else {
				collection := cfg.DefaultCollection
				if len(args) == 1 {
					collection = args[0]
				}
				st, err := g.openStore(cmd.Context())
				if err != nil {
					return err
				}
				defer st.Close()
				stored, err := st.ListRecords(cmd.Context(), collection)
				if err != nil {
					return err
				}
				for _, s := range stored {
					records = append(records, s.Record)
				}
			}

			if output == "" {
				output = fmt.Sprintf("mappings-%s.xlsx", time.Now().Format("2006-01-02"))
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := export.Write(f, records); err != nil {
				f.Close()
				return fmt.Errorf("write %s: %w", output, err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d records to %s\n", len(records), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: mappings-<date>.xlsx)")
	cmd.Flags().StringVar(&input, "input", "", "Export a workbook file instead of a stored collection")
	return cmd
}
