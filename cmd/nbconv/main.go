package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"nbconv/internal/codelab"
	"nbconv/internal/config"
	"nbconv/internal/notebook"
	"nbconv/internal/snowflake"
	"nbconv/internal/source"
	"nbconv/internal/writer"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "nbconv",
		Short: "Convert codelab markdown into Snowflake notebooks",
	}
	configPath   string
	warehouse    string
	mainFileName string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML configuration file")

	convertCmd.Flags().StringVar(&warehouse, "warehouse", "", "QUERY_WAREHOUSE used when registering a stage notebook")
	convertCmd.Flags().StringVar(&mainFileName, "main-file", "", "Override the notebook file name")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(previewCmd)
}

// stageClient opens a Snowflake-backed stage client when a DSN is configured.
// Without one, stage-addressed sources and destinations fail with a
// capability error instead of a connection attempt.
func stageClient(cfg *config.Config) snowflake.StageClient {
	if cfg.Snowflake.DSN == "" {
		return nil
	}
	driverName := cfg.Snowflake.Driver
	if driverName == "" {
		driverName = "snowflake"
	}
	db, err := sql.Open(driverName, cfg.Snowflake.DSN)
	if err != nil {
		log.Fatalf("Failed to open Snowflake connection: %v", err)
	}
	return &snowflake.SQLClient{DB: db}
}

func buildOptions(cfg *config.Config) codelab.Options {
	opts := codelab.Options{BaseURLRoot: cfg.Source.BaseURLRoot}
	if cfg.Notebook.KernelName != "" {
		opts.Kernel = notebook.Kernelspec{
			DisplayName: cfg.Notebook.KernelDisplayName,
			Name:        cfg.Notebook.KernelName,
		}
	}
	return opts
}

var convertCmd = &cobra.Command{
	Use:   "convert <source> [output]",
	Short: "Convert a codelab document and write the notebook",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		dest := ""
		if len(args) > 1 {
			dest = args[1]
		}

		stage := stageClient(cfg)

		fmt.Printf("📥 Fetching %s...\n", args[0])
		fetcher := &source.Fetcher{Stage: stage}
		raw, err := fetcher.FetchText(args[0])
		if err != nil {
			log.Fatalf("Fetch failed: %v", err)
		}

		title, doc := codelab.Build(raw, buildOptions(cfg))
		fmt.Printf("📓 Built notebook %q with %d cells\n", title, len(doc.Cells))

		wh := warehouse
		if wh == "" {
			wh = cfg.Snowflake.Warehouse
		}
		w := &writer.Writer{Stage: stage}
		out, err := w.Write(doc, title, dest, writer.Options{MainFileName: mainFileName, Warehouse: wh})
		if err != nil {
			log.Fatalf("Write failed: %v", err)
		}

		fmt.Println(out)
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview <source>",
	Short: "Build a notebook and print its cell layout without writing it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		fetcher := &source.Fetcher{Stage: stageClient(cfg)}
		raw, err := fetcher.FetchText(args[0])
		if err != nil {
			log.Fatalf("Fetch failed: %v", err)
		}

		title, doc := codelab.Build(raw, buildOptions(cfg))
		fmt.Printf("📓 %s (%d cells)\n", title, len(doc.Cells))
		for i, cell := range doc.Cells {
			lang := "-"
			if cell.Type == notebook.CellCode {
				lang = string(cell.Language)
			}
			fmt.Printf("%3d  %-8s  %-6s  %s\n", i, cell.Type, lang, cell.Name)
		}
	},
}
