// Package cli defines Cobra command definitions for the datadeck CLI.
// This file contains the one-shot upload command.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/datadeck-dev/datadeck/internal/dataset"
)

var sampleRows int

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a delimited-text file and print the dataset summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if !dataset.AllowedFile(path) {
			return fmt.Errorf("%q: only .csv, .tsv and .txt files are supported", path)
		}
		if !dataset.ValidSampleRows(sampleRows) {
			return fmt.Errorf("--sample-rows must be one of 50, 100, 500, 1000, 2000")
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		client := newClient(loadConfig())
		resp, err := client.Upload(context.Background(), filepath.Base(path), f, sampleRows)
		if err != nil {
			return fmt.Errorf("upload: %w", err)
		}
		if !resp.Success {
			return fmt.Errorf("upload rejected: %s", resp.Message)
		}

		binding, err := dataset.DecodeBinding(resp)
		if err != nil {
			return fmt.Errorf("upload: %w", err)
		}

		printBinding(binding)
		return nil
	},
}

// printBinding writes the dataset summary and column statistics to stdout.
func printBinding(b *dataset.Binding) {
	fmt.Printf("Dataset %s\n", b.DatasetID)
	fmt.Printf("  %d rows × %d columns (%d sampled)\n",
		b.ShapeTotal.Rows, b.ShapeTotal.Columns, b.ShapeSample.Rows)
	fmt.Printf("  %s, %s, delimiter %q\n",
		strings.ToUpper(b.Sniff.Filetype), b.Sniff.Encoding, b.Sniff.Delimiter)
	fmt.Println()
	fmt.Println("  Column                Dtype        Nulls")
	for _, st := range b.Stats {
		fmt.Printf("  %-20s  %-10s  %d (%.1f%%)\n", st.Column, st.Dtype, st.NullCount, st.NullRatio)
	}
}

func init() {
	uploadCmd.Flags().IntVar(&sampleRows, "sample-rows", 100, "Rows to sample for the preview (50, 100, 500, 1000, 2000)")
}
