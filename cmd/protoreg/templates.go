package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"protoreg/internal/catalog"
)

func newTemplatesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"tpl"},
		Short:   "Manage the persistent template catalog",
	}

	var (
		title string
		sets  []string
	)
	create := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a document from a template and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			updates, err := parseSettings(sets)
			if err != nil {
				return err
			}
			return a.withCatalog(cmd.Context(), func(cat *catalog.Catalog) error {
				doc, err := cat.Library().CreateWith(args[0], title, updates)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, doc.Summary())
				fmt.Fprintln(out, strings.Repeat("-", 40))
				fmt.Fprintln(out, doc.Base().Content)
				return nil
			})
		},
	}
	create.Flags().StringVarP(&title, "title", "t", "", "title for the new document")
	create.Flags().StringArrayVar(&sets, "set", nil, "override a template setting as key=value; values are parsed as YAML")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List catalog templates",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.withCatalog(cmd.Context(), func(cat *catalog.Catalog) error {
					printTemplates(cmd.OutOrStdout(), cat.Library().Templates())
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "show NAME",
			Short: "Show template details",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withCatalog(cmd.Context(), func(cat *catalog.Catalog) error {
					d, err := cat.Library().Details(args[0])
					if err != nil {
						return err
					}
					out := cmd.OutOrStdout()
					fmt.Fprintf(out, "Template Details: %s\n", d.Name)
					fmt.Fprintln(out, strings.Repeat("=", 50))
					fmt.Fprintf(out, "Kind: %s\n", d.Kind)
					fmt.Fprintf(out, "Summary: %s\n", d.Summary)
					fmt.Fprintf(out, "Created: %s\n", d.CreatedAt.Format("2006-01-02 15:04"))
					fmt.Fprintf(out, "Tags: %s\n", strings.Join(d.Tags, ", "))
					fmt.Fprintf(out, "Content Preview:\n%s...\n", d.Preview)
					return nil
				})
			},
		},
		create,
		&cobra.Command{
			Use:   "snapshot",
			Short: "Persist the current template set to the catalog store",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.withCatalog(cmd.Context(), func(cat *catalog.Catalog) error {
					n, err := cat.Snapshot(cmd.Context())
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "saved %d templates to %s catalog\n", n, cat.Store().Driver())
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "seed FILE",
			Short: "Load templates from a YAML fixture file and persist them",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withCatalog(cmd.Context(), func(cat *catalog.Catalog) error {
					n, err := catalog.SeedFromYAML(cat.Library(), args[0])
					if err != nil {
						return err
					}
					if _, err := cat.Snapshot(cmd.Context()); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "seeded %d templates from %s\n", n, args[0])
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "export KEY",
			Short: "Write the template set as a JSON bundle to the blob store",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withCatalog(cmd.Context(), func(cat *catalog.Catalog) error {
					info, err := cat.Export(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "exported %s (%d bytes, etag %s)\n", info.Key, info.Size, info.ETag)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "import KEY",
			Short: "Register every template from a bundle and persist them",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withCatalog(cmd.Context(), func(cat *catalog.Catalog) error {
					n, err := cat.Import(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					if _, err := cat.Snapshot(cmd.Context()); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "imported %d templates from %s\n", n, args[0])
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "bundles [PREFIX]",
			Short: "List exported bundles",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				prefix := ""
				if len(args) == 1 {
					prefix = args[0]
				}
				return a.withCatalog(cmd.Context(), func(cat *catalog.Catalog) error {
					infos, err := cat.Bundles(cmd.Context(), prefix)
					if err != nil {
						return err
					}
					for _, info := range infos {
						fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\n", info.Key, info.Size, info.Metadata["templates"])
					}
					return nil
				})
			},
		},
	)
	return cmd
}

// parseSettings turns key=value pairs into setting updates. Values are YAML
// so numbers, booleans and flow maps keep their types.
func parseSettings(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	updates := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q: expected key=value", pair)
		}
		var value any
		if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
			return nil, fmt.Errorf("invalid --set %q: %w", pair, err)
		}
		updates[key] = value
	}
	return updates, nil
}

// withCatalog opens the configured catalog, runs fn and closes it.
func (a *app) withCatalog(ctx context.Context, fn func(*catalog.Catalog) error) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cat, err := a.openCatalog(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := cat.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close catalog: %w", cerr)
		}
	}()
	return fn(cat)
}
