package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/strata-dev/strata/internal/config"
	"github.com/strata-dev/strata/internal/errors"
	"github.com/strata-dev/strata/internal/templates"
)

func initCmd() *cobra.Command {
	var (
		force        bool
		templateName string
		listOnly     bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a new strata project",
		Long: `Create strata.json and a starter route manifest from a template.

The directory defaults to the current one. Existing files are never
overwritten unless --force is given.

Examples:
  strata init
  strata init my-service
  strata init --template app my-service
  strata init --list`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if listOnly {
				return runListTemplates()
			}
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(dir, templateName, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing files")
	cmd.Flags().StringVarP(&templateName, "template", "t", "minimal", "Project template to use")
	cmd.Flags().BoolVar(&listOnly, "list", false, "List available templates")

	return cmd
}

func runListTemplates() error {
	fmt.Println("Available templates:")
	fmt.Println()
	for _, name := range templates.List() {
		tmpl, err := templates.Get(name)
		if err != nil {
			return err
		}
		fmt.Printf("  %-10s %s\n", name, tmpl.Description)
	}
	fmt.Println()
	return nil
}

func runInit(dir, templateName string, force bool) error {
	tmpl, err := templates.Get(templateName)
	if err != nil {
		return err
	}

	projectDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(projectDir, 0755); err != nil {
		return err
	}

	if !force {
		for relPath := range tmpl.Files {
			path := filepath.Join(projectDir, relPath)
			if _, err := os.Stat(path); err == nil {
				return errors.New("E140").
					WithDetail("File already exists: " + path).
					WithSuggestion("Pass --force to overwrite, or remove the file")
			}
		}
	}

	printBanner()
	fmt.Printf("  Creating a new strata project (%s template)...\n", tmpl.Name)
	fmt.Println()

	name := filepath.Base(projectDir)
	if err := tmpl.Create(projectDir, templates.Config{
		ProjectName: name,
		ModulePath:  name,
		Manifest:    config.DefaultManifest,
		Port:        config.DefaultPort,
	}); err != nil {
		return err
	}

	written := make([]string, 0, len(tmpl.Files))
	for relPath := range tmpl.Files {
		written = append(written, relPath)
	}
	sort.Strings(written)
	for _, relPath := range written {
		info("Wrote %s", relPath)
	}

	cfg, err := config.LoadFile(filepath.Join(projectDir, config.ConfigFileName))
	if err != nil {
		return err
	}

	fmt.Println()
	success("Created %s", name)
	fmt.Println()
	fmt.Println("  To get started:")
	fmt.Println()
	if dir != "." {
		fmt.Printf("    cd %s\n", dir)
	}
	fmt.Println("    strata check")
	fmt.Println("    strata serve")
	fmt.Println()
	fmt.Printf("  Your routes will be served at %s\n", cfg.ServerURL())
	fmt.Println()

	return nil
}
