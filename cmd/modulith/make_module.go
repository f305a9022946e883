package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/modulith/modulith/internal/scaffold"
)

const defaultModulePath = "github.com/modulith/modulith"

// newMakeModuleCommand creates the `modulith make module` command.
func newMakeModuleCommand() *cobra.Command {
	var (
		entity     string
		root       string
		modulePath string
	)

	cmd := &cobra.Command{
		Use:   "module <name>",
		Short: "Generate a new module skeleton",
		Long: `Generate a new module under internal/<name>: a record type with audit
fields, a store interface, pipeline services and an HTTP handler.

The module name must be lowercase letters and digits, starting with a
letter. The entity name must be PascalCase.

Examples:
  modulith make module billing --entity Invoice
  modulith make module inventory --entity StockItem --root /path/to/repo`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMakeModule(cmd, args[0], entity, root, modulePath)
		},
	}

	cmd.Flags().StringVarP(&entity, "entity", "e", "", "PascalCase entity name (required)")
	cmd.Flags().StringVarP(&root, "root", "r", ".", "repository root to generate into")
	cmd.Flags().StringVar(&modulePath, "module-path", defaultModulePath, "Go module path generated imports are rooted at")
	_ = cmd.MarkFlagRequired("entity")

	return cmd
}

func runMakeModule(cmd *cobra.Command, name, entity, root, modulePath string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve root %q: %w", root, err)
	}
	if _, err := os.Stat(absRoot); err != nil {
		return fmt.Errorf("root directory %q is not usable: %w", root, err)
	}

	created, err := scaffold.Generate(absRoot, scaffold.Module{
		Name:       name,
		Entity:     entity,
		ModulePath: modulePath,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Module %s created:\n", name)
	for _, path := range created {
		rel, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			rel = path
		}
		fmt.Fprintf(out, "  %s\n", rel)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintf(out, "  1. Add a migration for the %s table\n", name)
	fmt.Fprintf(out, "  2. Implement the store under internal/platform/postgres\n")
	fmt.Fprintf(out, "  3. Register the handler's routes in cmd/server\n")

	return nil
}
