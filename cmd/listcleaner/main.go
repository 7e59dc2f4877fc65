// Command listcleaner runs the cleaning pipeline over a CSV or XLSX file
// and writes the cleaned rows plus a JSON run report.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bradsommer/list-validator/fileio"
	"github.com/bradsommer/list-validator/matching"
	"github.com/bradsommer/list-validator/pipeline"
	"github.com/bradsommer/list-validator/rules"
	"github.com/bradsommer/list-validator/schema"
)

func main() {
	var (
		inputPath   = flag.String("input", "", "input CSV or XLSX file (required)")
		outputPath  = flag.String("output", "", "cleaned output file; defaults to <input>.cleaned.csv")
		reportPath  = flag.String("report", "", "run report JSON file; defaults to <input>.report.json")
		catalogPath = flag.String("catalog", "", "optional YAML schema catalog overlay")
		configPath  = flag.String("config", "", "optional YAML run config (enabled rules, required fields, overrides)")
		rulesPath   = flag.String("rules", "", "optional YAML file of stored rule definitions")
		useFieldIDs = flag.Bool("field-ids", false, "rename matched columns to canonical field ids in the output")
		verbose     = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *inputPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*inputPath, *outputPath, *reportPath, *catalogPath, *configPath, *rulesPath, *useFieldIDs); err != nil {
		slog.Error("Run failed", "error", err)
		os.Exit(1)
	}
}

func run(inputPath, outputPath, reportPath, catalogPath, configPath, rulesPath string, useFieldIDs bool) error {
	headers, rows, err := readInput(inputPath)
	if err != nil {
		return err
	}
	slog.Info("Input loaded", "file", inputPath, "rows", len(rows), "columns", len(headers))

	catalog := schema.BuiltinCatalog()
	if catalogPath != "" {
		catalog, err = schema.LoadCatalogFile(catalogPath)
		if err != nil {
			return err
		}
	}

	cfg := &pipeline.RunConfig{}
	if configPath != "" {
		cfg, err = pipeline.LoadRunConfig(configPath)
		if err != nil {
			return err
		}
	}

	builtin := rules.Builtin()
	if rulesPath != "" {
		data, err := os.ReadFile(rulesPath)
		if err != nil {
			return fmt.Errorf("failed to read stored rules: %w", err)
		}
		stored, err := rules.LoadStoredDefinitions(data)
		if err != nil {
			return err
		}
		builtin = append(builtin, stored...)
	}
	registry, err := pipeline.NewRegistry(builtin...)
	if err != nil {
		return err
	}

	matches := matching.NewMatcher().Match(headers, catalog, cfg.Overrides)
	for _, m := range matches {
		if m.Matched {
			slog.Debug("Header matched", "header", m.Header, "field", m.FieldID(), "confidence", m.Confidence)
		} else {
			slog.Debug("Header unmatched", "header", m.Header, "confidence", m.Confidence)
		}
	}

	required := cfg.RequiredFields
	if required == nil {
		required = catalog.RequiredIDs()
	}

	report := pipeline.NewRunner(registry).Run(pipeline.RunInput{
		Rows:           rows,
		Headers:        headers,
		Matches:        matches,
		RequiredFields: required,
		EnabledRuleIDs: cfg.EnabledRules,
	})

	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".cleaned.csv"
	}
	if reportPath == "" {
		reportPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".report.json"
	}

	view := fileio.BuildExport(report.Rows, headers, matches, fileio.ExportOptions{UseFieldIDs: useFieldIDs})
	if err := writeOutput(outputPath, view); err != nil {
		return err
	}

	reportFile, err := os.Create(reportPath)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer reportFile.Close()
	encoder := json.NewEncoder(reportFile)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	slog.Info("Run complete",
		"run_id", report.RunID,
		"output", outputPath,
		"report", reportPath,
		"changes", report.TotalChanges,
		"errors", report.TotalErrors,
		"warnings", report.TotalWarnings)
	return nil
}

func readInput(path string) ([]string, []pipeline.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return fileio.ReadXLSX(f)
	}
	return fileio.ReadCSV(f)
}

func writeOutput(path string, view fileio.ExportView) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return fileio.WriteXLSX(f, view.Headers, view.Rows)
	}
	return fileio.WriteCSV(f, view.Headers, view.Rows)
}
