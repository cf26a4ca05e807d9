// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v2"

	"github.com/staranto/ferryctl/internal/attrs"
	"github.com/staranto/ferryctl/internal/catalog"
	"github.com/staranto/ferryctl/internal/filters"
)

// Formats lists the values accepted by --output.
var Formats = []string{"text", "json", "yaml", "raw"}

// Options controls SliceDiceSpit.
type Options struct {
	Format      string
	Filter      string
	FilterDelim string
	Sort        string
	Titles      bool
	Color       bool
}

// Row is one projected record keyed by attr output key.
type Row map[string]interface{}

// SliceDiceSpit filters records, projects them through list, applies the
// transforms, sorts and writes them to w in the requested format. Raw output
// skips everything and dumps the normalized records as a JSON array.
func SliceDiceSpit(records []catalog.Record, list attrs.AttrList, opts Options, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}

	if opts.Format == "raw" {
		return json.NewEncoder(w).Encode(records)
	}

	fs, err := filters.BuildFilters(opts.Filter, opts.FilterDelim)
	if err != nil {
		return err
	}

	list = slices.Clone(list)
	list.SetGlobalTransformSpec()

	rows, err := Project(records, list, fs)
	if err != nil {
		return err
	}
	log.Debugf("%d of %d records passed the filters", len(rows), len(records))

	SortDataset(rows, opts.Sort)

	// Project kept every attr so sorting can use excluded ones. Strip them now.
	for _, row := range rows {
		for _, a := range list {
			if !a.Include {
				delete(row, a.OutputKey)
			}
		}
	}

	switch opts.Format {
	case "json":
		b, err := json.Marshal(rows)
		if err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		b, err := yaml.Marshal(rows)
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		_, err = w.Write(b)
		return err
	case "", "text":
		return TableWriter(rows, list, opts, w)
	}
	return fmt.Errorf("unknown output format: %s", opts.Format)
}

// Project returns the records that pass fs, each reduced to the attrs of
// list with transforms applied.
func Project(records []catalog.Record, list attrs.AttrList, fs []filters.Filter) ([]Row, error) {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		raw, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("failed to encode record %s: %w", r.ID, err)
		}
		doc := gjson.ParseBytes(raw)
		if !filters.Match(doc, list, fs) {
			continue
		}

		row := make(Row, len(list))
		for i := range list {
			a := list[i]
			if a.Key == "*" {
				continue
			}
			value := doc.Get(a.Key).Value()
			if a.TransformSpec != "" {
				value = a.Transform(value)
			}
			row[a.OutputKey] = value
		}
		rows = append(rows, row)
	}
	return rows, nil
}
