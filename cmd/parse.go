package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	v1 "github.com/kubev2v/sqltoolkit/api/v1"
	"github.com/kubev2v/sqltoolkit/internal/config"
	"github.com/kubev2v/sqltoolkit/internal/models"
	"github.com/kubev2v/sqltoolkit/internal/services"
)

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	tableColor   = color.New(color.FgGreen)
	exprColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
)

func NewParseCommand(cfg *config.Configuration) *cobra.Command {
	var output string

	parseCmd := &cobra.Command{
		Use:          "parse [file...]",
		SilenceUsage: true,
		Short:        "Print the fragment model of SELECT statements",
		Long:         "Print the tables, columns, conditions and subqueries of each statement. Statements are read from the named files or from stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}

			inputs, err := readInputs(cmd, args)
			if err != nil {
				return err
			}

			srv := services.NewQueryService(nil, nil)
			for _, in := range inputs {
				summary, err := srv.Parse(cmd.Context(), in.text)
				if err != nil {
					return fmt.Errorf("%s: %w", in.name, err)
				}

				if output != textOutput {
					if err := encode(cmd.OutOrStdout(), output, v1.NewQuerySummary(summary)); err != nil {
						return err
					}
					continue
				}
				if len(inputs) > 1 {
					headingColor.Fprintf(cmd.OutOrStdout(), "== %s\n", in.name)
				}
				printSummary(cmd.OutOrStdout(), summary, "")
			}
			return nil
		},
	}

	parseCmd.Flags().StringVarP(&output, "output", "o", textOutput, "Output format (text, json, yaml)")

	return parseCmd
}

func printSummary(w io.Writer, s models.QuerySummary, indent string) {
	headingColor.Fprintf(w, "%sSQL\n", indent)
	fmt.Fprintf(w, "%s  %s\n", indent, s.SQL)

	headingColor.Fprintf(w, "%sTables\n", indent)
	printTable(w, indent, "FROM", s.Primary)
	for _, j := range s.Joins {
		printTable(w, indent, j.Kind+" JOIN", j.TableSummary)
		fmt.Fprintf(w, "%s    on %s = %s.%s\n", indent, j.MatchColumn, j.PrimaryTable, j.PrimaryColumn)
	}

	printSelectors(w, indent, "Columns", s.Columns)
	printSelectors(w, indent, "Conditions", s.Conditions)
	printSelectors(w, indent, "Group by", s.GroupBy)

	for i, sub := range s.Subqueries {
		headingColor.Fprintf(w, "%sSubquery %d\n", indent, i)
		printSummary(w, sub, indent+"  ")
	}
}

func printTable(w io.Writer, indent, label string, t models.TableSummary) {
	fmt.Fprintf(w, "%s  %s ", indent, label)
	if t.Alias != "" {
		tableColor.Fprintf(w, "%s %s", t.Name, t.Alias)
	} else {
		tableColor.Fprint(w, t.Name)
	}
	fmt.Fprintln(w)
	if len(t.Selectors) > 0 {
		fmt.Fprintf(w, "%s    uses %s\n", indent, strings.Join(t.Selectors, ", "))
	}
}

func printSelectors(w io.Writer, indent, heading string, selectors []models.SelectorSummary) {
	if len(selectors) == 0 {
		return
	}
	headingColor.Fprintf(w, "%s%s\n", indent, heading)
	for _, sel := range selectors {
		if sel.Expression {
			exprColor.Fprintf(w, "%s  %s\n", indent, sel.Content)
			continue
		}
		fmt.Fprintf(w, "%s  %s\n", indent, sel.Content)
	}
}
