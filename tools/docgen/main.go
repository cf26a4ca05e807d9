// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	md2man "github.com/cpuguy83/go-md2man/v2/md2man"
	"github.com/urfave/cli/v3"

	"github.com/staranto/ferryctl/internal/command"
	"github.com/staranto/ferryctl/internal/config"
)

// Doc generator. Walks the ferryctl command tree and writes
//   - docs/man/share/man1/ferryctl-<cmd>.1 via md2man
//   - docs/tldr/ferryctl-<cmd>.md from the command usage and examples

func main() {
	var (
		repoRoot           string
		writeOnlyIfChanged bool
	)

	flag.StringVar(&repoRoot, "root", ".", "repo root (default current dir)")
	flag.BoolVar(&writeOnlyIfChanged, "only-if-changed", true, "only write files if content changed")
	flag.Parse()

	manOutDir := filepath.Join(repoRoot, "docs", "man", "share", "man1")
	tldrOutDir := filepath.Join(repoRoot, "docs", "tldr")

	if err := os.MkdirAll(manOutDir, 0o755); err != nil {
		fatalf("creating man output dir: %v", err)
	}
	if err := os.MkdirAll(tldrOutDir, 0o755); err != nil {
		fatalf("creating tldr output dir: %v", err)
	}

	// An empty Env keeps the user's FERRY_CFG out of the generated defaults.
	app, err := command.InitApp(context.Background(), []string{"ferryctl"}, config.Env{})
	if err != nil {
		fatalf("building command tree: %v", err)
	}

	examples := map[string][][2]string{
		"cq": command.CqExamples,
	}

	var processed int
	for _, cmd := range app.Commands {
		manPath := filepath.Join(manOutDir, fmt.Sprintf("ferryctl-%s.1", cmd.Name))
		if err := writeFileIfChanged(manPath, md2man.Render([]byte(buildMarkdown(cmd))), writeOnlyIfChanged); err != nil {
			fatalf("writing man page for %s: %v", cmd.Name, err)
		}

		tldrPath := filepath.Join(tldrOutDir, fmt.Sprintf("ferryctl-%s.md", cmd.Name))
		if err := writeFileIfChanged(tldrPath, []byte(buildTLDR(cmd, examples[cmd.Name])), writeOnlyIfChanged); err != nil {
			fatalf("writing TLDR for %s: %v", cmd.Name, err)
		}

		processed++
	}

	if processed == 0 {
		fatalf("no commands found")
	}
}

func fatalf(f string, a ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", a...)
	os.Exit(1)
}

func writeFileIfChanged(path string, new []byte, onlyIfChanged bool) error {
	if !onlyIfChanged {
		return os.WriteFile(path, new, 0o644)
	}
	old, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return os.WriteFile(path, new, 0o644)
		}
		return err
	}
	if bytes.Equal(bytes.TrimSpace(old), bytes.TrimSpace(new)) {
		return nil
	}
	return os.WriteFile(path, new, 0o644)
}

// buildMarkdown renders a command as the pandoc flavored markdown md2man
// expects.
func buildMarkdown(cmd *cli.Command) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%% FERRYCTL-%s 1\n\n", strings.ToUpper(cmd.Name))
	b.WriteString("# NAME\n\n")
	fmt.Fprintf(&b, "ferryctl-%s - %s\n\n", cmd.Name, cmd.Usage)
	b.WriteString("# SYNOPSIS\n\n")
	fmt.Fprintf(&b, "**%s**\n\n", cmd.UsageText)

	if len(cmd.Flags) > 0 {
		b.WriteString("# OPTIONS\n\n")
		for _, f := range cmd.Flags {
			var names []string
			for _, n := range f.Names() {
				if len(n) == 1 {
					names = append(names, "-"+n)
				} else {
					names = append(names, "--"+n)
				}
			}
			fmt.Fprintf(&b, "**%s**\n", strings.Join(names, ", "))
			if df, ok := f.(cli.DocGenerationFlag); ok {
				fmt.Fprintf(&b, ": %s\n", df.GetUsage())
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("# ENVIRONMENT\n\n")
	b.WriteString("**FERRY_LOG**\n: log level, ERROR by default\n\n")
	b.WriteString("**FERRY_CFG**\n: config file, ferryctl.yaml in the standard locations by default\n\n")
	return b.String()
}

func buildTLDR(cmd *cli.Command, exs [][2]string) string {
	var b strings.Builder
	b.WriteString("# ferryctl-" + cmd.Name + "\n\n")
	b.WriteString("> " + cmd.Usage + ".\n")
	b.WriteString("> More information: https://github.com/staranto/ferryctl.\n\n")

	if len(exs) == 0 {
		b.WriteString("- Show help for the command:\n\n")
		b.WriteString("`ferryctl " + cmd.Name + " --help`\n")
		return b.String()
	}

	for i, ex := range exs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- " + strings.TrimSpace(ex[1]) + ":\n\n")
		b.WriteString("`" + strings.Join(strings.Fields(ex[0]), " ") + "`\n")
	}
	return b.String()
}
