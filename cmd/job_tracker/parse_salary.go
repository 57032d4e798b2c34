package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/salary"
)

var parseSalaryCmd = &cobra.Command{
	Use:   "parse-salary [text]",
	Short: "Parse a free-text pay string into annualized figures",
	Long:  "Parse a free-text pay string (e.g. \"£80-90k\" or \"$50/hr\") into annualized minimum and maximum figures.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runParseSalary,
}

func init() {
	rootCmd.AddCommand(parseSalaryCmd)
}

func runParseSalary(_ *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	min, max := salary.Parse(text)
	if min == nil && max == nil {
		_, _ = fmt.Fprintf(os.Stdout, "No salary figures found in %q\n", text)
		return nil
	}

	_, _ = fmt.Fprintf(os.Stdout, "Input:  %s\n", text)
	if min != nil {
		_, _ = fmt.Fprintf(os.Stdout, "Min:    %s\n", min.StringFixed(0))
	}
	if max != nil {
		_, _ = fmt.Fprintf(os.Stdout, "Max:    %s\n", max.StringFixed(0))
	}
	return nil
}
