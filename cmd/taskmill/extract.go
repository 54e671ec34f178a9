package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"taskmill"
)

var (
	extractConfigPath string
	extractAssemblyID string
	extractName       string
	extractType       string
	extractFigStart   int
	extractFigEnd     int
	extractOutput     string
	extractXLSXOnly   bool
	extractJSON       bool
)

var extractCmd = &cobra.Command{
	Use:   "extract FILE",
	Short: "Process one document and write the package to disk",
	Long: `Process a single .docx file and write the Excel workbook and the
zip package into the output directory. With --xlsx-only just the
workbook is written. With --json the extracted tasks are printed to
stdout instead and nothing is written.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		cfg, err := loadSettings(extractConfigPath)
		if err != nil {
			return err
		}
		setupLogging(cfg.LogLevel)

		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading %s: %w", file, err)
		}

		p := taskmill.New(cfg.Proc)
		res, err := p.Process(cmd.Context(), taskmill.Request{
			Filename:      filepath.Base(file),
			Data:          data,
			AssemblySeqID: extractAssemblyID,
			AssemblyName:  extractName,
			TaskType:      extractType,
			FigureStart:   extractFigStart,
			FigureEnd:     extractFigEnd,
		})
		if err != nil {
			return err
		}

		if extractJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}

		pkg, err := taskmill.BuildPackage(res)
		if err != nil {
			return err
		}
		workbookPath := filepath.Join(extractOutput, pkg.WorkbookName)
		if err := os.WriteFile(workbookPath, pkg.Workbook, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", workbookPath, err)
		}
		written := []string{workbookPath}
		if !extractXLSXOnly {
			archivePath := filepath.Join(extractOutput, pkg.ArchiveName)
			if err := os.WriteFile(archivePath, pkg.Archive, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", archivePath, err)
			}
			written = append(written, archivePath)
		}

		fmt.Printf("%s: %d tasks, %d images (strategy %s)\n",
			res.DocTitle, len(res.Tasks), len(res.Images), res.Strategy)
		for _, t := range res.Tasks {
			fmt.Printf("  %s  %s\n", t.TaskNumber, t.Activity)
		}
		for _, path := range written {
			fmt.Printf("wrote %s\n", path)
		}
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractConfigPath, "config", "", "path to a taskmill.yaml config file")
	extractCmd.Flags().StringVar(&extractAssemblyID, "assembly-id", "", "assembly sequence id, a positive integer")
	extractCmd.Flags().StringVar(&extractName, "assembly-name", "", "assembly name used in file names and descriptions")
	extractCmd.Flags().StringVar(&extractType, "type", "", "task type for every extracted row")
	extractCmd.Flags().IntVar(&extractFigStart, "figure-start", 0, "first figure number hint")
	extractCmd.Flags().IntVar(&extractFigEnd, "figure-end", 0, "last figure number hint")
	extractCmd.Flags().StringVar(&extractOutput, "output", ".", "output directory")
	extractCmd.Flags().BoolVar(&extractXLSXOnly, "xlsx-only", false, "write only the Excel workbook, skip the zip package")
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "print tasks as JSON instead of writing files")
	rootCmd.AddCommand(extractCmd)
}
