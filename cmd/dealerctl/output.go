package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// table is what every list command renders. The raw value is used for json and yaml.
type table struct {
	header []string
	rows   [][]string
	raw    any
}

type printer interface {
	Print(t table) error
}

func newPrinter(format string, w io.Writer) (printer, error) {
	switch strings.ToLower(format) {
	case "", "table":
		return tablePrinter{w: w}, nil
	case "json":
		return jsonPrinter{w: w}, nil
	case "yaml", "yml":
		return yamlPrinter{w: w}, nil
	}
	return nil, fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
}

type tablePrinter struct{ w io.Writer }

func (p tablePrinter) Print(t table) error {
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	if len(t.header) > 0 {
		fmt.Fprintln(tw, strings.Join(t.header, "\t"))
	}
	for _, row := range t.rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

type jsonPrinter struct{ w io.Writer }

func (p jsonPrinter) Print(t table) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(t.raw)
}

type yamlPrinter struct{ w io.Writer }

// yaml.v3 ignores json tags, so the value goes through JSON first to keep the API's field names.
func (p yamlPrinter) Print(t table) error {
	data, err := json.Marshal(t.raw)
	if err != nil {
		return err
	}
	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}
