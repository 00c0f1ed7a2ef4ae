// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/mesh-intelligence/narrata/internal/catalog"
	"github.com/mesh-intelligence/narrata/pkg/types"
)

// Stats prints the shape of the world catalog (fields, statuses and links
// per entity kind, relation kinds and their write modes) followed by Go
// line counts per package.
func Stats() error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "KIND\tTABLE\tKEYS\tFIELDS\tSTATUSES\tLINKS")
	var links int
	for _, def := range catalog.Entities() {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\n",
			def.Kind, def.Table, len(def.Keys), len(def.Values), len(def.Statuses.Variants), len(def.Links))
		links += len(def.Links)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "RELATION\tFROM\tTO\tATTRS\tMODE")
	var appendOnly int
	for _, rel := range catalog.Relations() {
		mode := "upsert"
		if rel.Mode == types.WriteAppend {
			mode = "append"
			appendOnly++
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			rel.Table, rel.From, rel.To, strings.Join(rel.Attrs, ","), mode)
	}
	fmt.Fprintln(tw)

	pkgs, err := packageLines()
	if err != nil {
		return err
	}
	fmt.Fprintln(tw, "PACKAGE\tPROD\tTEST")
	var prod, test int
	for _, dir := range slices.Sorted(maps.Keys(pkgs)) {
		c := pkgs[dir]
		fmt.Fprintf(tw, "%s\t%d\t%d\n", dir, c.prod, c.test)
		prod += c.prod
		test += c.test
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d kinds, %d relations (%d append-only), %d link keys; %d prod / %d test lines\n",
		len(catalog.Entities()), len(catalog.Relations()), appendOnly, links, prod, test)
	return nil
}

type lineCount struct{ prod, test int }

// packageLines counts Go lines per package directory under cmd, internal
// and pkg.
func packageLines() (map[string]lineCount, error) {
	out := make(map[string]lineCount)
	for _, root := range []string{"cmd", "internal", "pkg"} {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || filepath.Ext(path) != ".go" {
				return nil
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			n := bytes.Count(data, []byte("\n"))
			dir := filepath.ToSlash(filepath.Dir(path))
			c := out[dir]
			if strings.HasSuffix(path, "_test.go") {
				c.test += n
			} else {
				c.prod += n
			}
			out[dir] = c
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("counting %s: %w", root, err)
		}
	}
	return out, nil
}
