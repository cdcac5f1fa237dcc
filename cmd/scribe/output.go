package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/JaimeStill/scribe/pkg/pagination"
)

const (
	outputTable = "table"
	outputYAML  = "yaml"
)

func addOutputFlag(cmd *cobra.Command, output *string) {
	cmd.Flags().StringVarP(output, "output", "o", outputTable, "Output format: table or yaml")
}

func checkOutput(output string) error {
	switch output {
	case outputTable, outputYAML:
		return nil
	default:
		return fmt.Errorf("%w: output %q, want table or yaml", errUsage, output)
	}
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// writeTable prints a header and rows as aligned columns.
func writeTable(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func clip(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func stamp(t time.Time) string {
	return t.Local().Format(time.DateTime)
}

// pageOptions are the paging flags shared by list commands.
type pageOptions struct {
	page     int
	pageSize int
	sort     pagination.SortFields
	search   string
}

func addPageFlags(cmd *cobra.Command, o *pageOptions, sortable bool) {
	cmd.Flags().IntVar(&o.page, "page", 1, "Page number")
	cmd.Flags().IntVar(&o.pageSize, "page-size", 0, "Results per page (default: pagination configuration)")
	if sortable {
		cmd.Flags().Var(&o.sort, "sort", `Sort fields, "-" prefix for descending (e.g. "Name,-CreatedAt")`)
		cmd.Flags().StringVar(&o.search, "search", "", "Case-insensitive text search")
	}
}

func (o pageOptions) request() pagination.PageRequest {
	req := pagination.PageRequest{
		Page:     o.page,
		PageSize: o.pageSize,
		Sort:     o.sort,
	}
	if o.search != "" {
		req.Search = &o.search
	}
	return req
}
