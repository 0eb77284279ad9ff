package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wippyai/wasmlang/catalog"
	"github.com/wippyai/wasmlang/classify"
	"github.com/wippyai/wasmlang/errors"
)

func newCatalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Work with signature catalogs",
	}
	cmd.AddCommand(newCatalogShowCmd(a))
	cmd.AddCommand(newCatalogCheckCmd())
	cmd.AddCommand(newCatalogSchemaCmd())
	return cmd
}

func newCatalogShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective catalog as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := a.catalog()
			if err != nil {
				return err
			}
			if err := catalog.Encode(cmd.OutOrStdout(), cat); err != nil {
				return errors.Wrap(errors.PhaseReport, errors.KindIO, err, "encode catalog")
			}
			return nil
		},
	}
}

func newCatalogCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a catalog file and compile it into rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.LoadFile(args[0])
			if err != nil {
				return err
			}
			if _, err := classify.New(cat); err != nil {
				return errors.Wrap(errors.PhaseCompile, errors.KindInvalidData, err, "compile catalog")
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d rules, %d markers\n",
				okStyle.Render("ok"), args[0], len(cat.Rules), cat.MarkerCount())
			return err
		},
	}
}

func newCatalogSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for catalog files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema, err := catalog.Schema()
			if err != nil {
				return errors.Wrap(errors.PhaseReport, errors.KindInvalidData, err, "generate schema")
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(schema))
			return err
		},
	}
}
