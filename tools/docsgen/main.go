// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Command docsgen writes one markdown page per awsutil leaf command, taken
// from the live command tree.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/awsutil/internal/command"
)

type Flag struct {
	Names   string
	Usage   string
	Default string
	Env     string
}

type Page struct {
	ID        string
	Short     string
	Usage     string
	Flags     []Flag
	Date      string
	Version   string
	IDUpper   string
	ParentCmd string
}

const pageTemplate = `# awsutil {{.ParentCmd}} {{.ID}}

{{.Short}}

## Usage

    {{.Usage}}

## Flags

| Flag | Description | Default | Env |
|---|---|---|---|
{{- range .Flags}}
| {{.Names}} | {{.Usage}} | {{.Default}} | {{.Env}} |
{{- end}}

_{{.IDUpper}} generated {{.Date}} for awsutil {{.Version}}_
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: docsgen <docs-dir>")
		os.Exit(1)
	}
	docs := os.Args[1]

	app, err := command.InitApp(context.Background(), []string{"awsutil"})
	if err != nil {
		panic(err)
	}

	folder := filepath.Join(docs, "commands")
	if err := os.MkdirAll(folder, 0o755); err != nil {
		panic(err)
	}

	for _, page := range pages(app, getVersion(), time.Now()) {
		name := filepath.Join(folder, page.ParentCmd+"-"+page.ID+".md")
		fmt.Println("Generating", name)

		file, err := os.Create(name)
		if err != nil {
			panic(err)
		}
		if err := render(file, page); err != nil {
			panic(err)
		}
		file.Close()
	}
}

// pages flattens the command groups into one Page per leaf command.
func pages(app *cli.Command, version string, now time.Time) []Page {
	var out []Page
	for _, group := range app.Commands {
		for _, leaf := range group.Commands {
			p := Page{
				ID:        leaf.Name,
				ParentCmd: group.Name,
				Short:     leaf.Usage,
				Usage:     leaf.UsageText,
				Date:      now.Format("January 2, 2006"),
				Version:   version,
				IDUpper:   strings.ToUpper(group.Name + "-" + leaf.Name),
			}
			for _, f := range leaf.Flags {
				p.Flags = append(p.Flags, flagOf(f))
			}
			out = append(out, p)
		}
	}
	return out
}

func flagOf(f cli.Flag) Flag {
	names := make([]string, 0, len(f.Names()))
	for _, n := range f.Names() {
		if len(n) == 1 {
			names = append(names, "-"+n)
		} else {
			names = append(names, "--"+n)
		}
	}

	flag := Flag{Names: strings.Join(names, ", ")}
	if d, ok := f.(cli.DocGenerationFlag); ok {
		flag.Usage = d.GetUsage()
		flag.Default = d.GetValue()
		flag.Env = strings.Join(d.GetEnvVars(), ", ")
	}
	return flag
}

func render(w io.Writer, page Page) error {
	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, page)
}

// getVersion returns the version string from git tags, stripping the leading
// "v" prefix. Falls back to "dev" if git describe fails.
func getVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--abbrev=0").Output()
	if err != nil {
		return "dev"
	}

	version := strings.TrimSpace(string(out))
	return strings.TrimPrefix(version, "v")
}
