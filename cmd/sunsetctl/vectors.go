package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsuesunset/sunset-service/internal/domain"
)

func vectorsCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "vectors",
		Short: "Verify the shared score vector table against this implementation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVectors(cmd.OutOrStdout(), file)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "path to a vector table (default: the table built into this binary)")
	return cmd
}

func runVectors(w io.Writer, path string) error {
	table, err := loadVectorTable(path)
	if err != nil {
		return err
	}
	mismatches, err := table.Verify()
	if err != nil {
		return err
	}

	for _, m := range mismatches {
		fmt.Fprintf(w, "FAIL %s\n", m)
	}
	if len(mismatches) > 0 {
		return fmt.Errorf("%d of %d vectors drifted", len(mismatches), len(table.Vectors))
	}
	fmt.Fprintf(w, "PASS %d vectors (%s)\n", len(table.Vectors), table.Rounding)
	return nil
}

func loadVectorTable(path string) (domain.VectorTable, error) {
	if path == "" {
		return domain.BuiltinVectorTable()
	}
	f, err := os.Open(path)
	if err != nil {
		return domain.VectorTable{}, fmt.Errorf("open vector table: %w", err)
	}
	defer f.Close()
	return domain.ReadVectorTable(f)
}
