package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/costumedesk/internal/domain/model"
)

var errNotSignedIn = errors.New("not signed in: run `costumedesk login` first")

func requireSession(a *app) error {
	if !a.session.IsAuthenticated() {
		return errNotSignedIn
	}
	return nil
}

func newCostumesCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{Use: "costumes", Short: "Costume catalog operations"}
	cmd.AddCommand(
		newCostumesListCmd(env),
		newCostumesGetCmd(env),
		newCostumesCreateCmd(env),
		newCostumesUpdateCmd(env),
		newCostumesDeleteCmd(env),
	)
	return cmd
}

func newCostumesListCmd(env *cliEnv) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List costumes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCLIApp(cmd.Context(), env, func(a *app) error {
				if err := requireSession(a); err != nil {
					return err
				}
				costumes, err := a.api.ListCostumes(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(env.stdout, costumes)
				}
				return writeCostumeTable(env.stdout, costumes)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func newCostumesGetCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one costume as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCLIApp(cmd.Context(), env, func(a *app) error {
				if err := requireSession(a); err != nil {
					return err
				}
				costume, err := a.api.GetCostume(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return writeJSON(env.stdout, costume)
			})
		},
	}
}

// costumeFlags binds the writable costume fields to a command's flags.
type costumeFlags struct {
	in model.CostumeInput
}

func (f *costumeFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.in.Name, "name", "n", "", "Name")
	fl.StringVar(&f.in.Category, "category", "", "Category")
	fl.StringVar(&f.in.Size, "size", "", "Size")
	fl.StringVar(&f.in.Color, "color", "", "Color")
	fl.StringVar(&f.in.Era, "era", "", "Era")
	fl.IntVarP(&f.in.Quantity, "quantity", "q", 0, "Quantity in stock")
	fl.StringVarP(&f.in.Description, "description", "d", "", "Description (markdown)")
	fl.StringVar(&f.in.ImageURL, "image-url", "", "Image URL")
}

// applyChanged overlays the flags the user actually set onto base.
func (f *costumeFlags) applyChanged(cmd *cobra.Command, base model.CostumeInput) model.CostumeInput {
	fl := cmd.Flags()
	set := func(name string, dst *string, v string) {
		if fl.Changed(name) {
			*dst = v
		}
	}
	set("name", &base.Name, f.in.Name)
	set("category", &base.Category, f.in.Category)
	set("size", &base.Size, f.in.Size)
	set("color", &base.Color, f.in.Color)
	set("era", &base.Era, f.in.Era)
	set("description", &base.Description, f.in.Description)
	set("image-url", &base.ImageURL, f.in.ImageURL)
	if fl.Changed("quantity") {
		base.Quantity = f.in.Quantity
	}
	return base
}

func newCostumesCreateCmd(env *cliEnv) *cobra.Command {
	flags := &costumeFlags{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a costume",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.in.Quantity < 0 {
				return errors.New("--quantity cannot be negative")
			}
			return withCLIApp(cmd.Context(), env, func(a *app) error {
				if err := requireSession(a); err != nil {
					return err
				}
				created, err := a.api.CreateCostume(cmd.Context(), flags.in)
				if err != nil {
					return err
				}
				return writeJSON(env.stdout, created)
			})
		},
	}
	flags.register(cmd)
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newCostumesUpdateCmd(env *cliEnv) *cobra.Command {
	flags := &costumeFlags{}

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a costume; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.in.Quantity < 0 {
				return errors.New("--quantity cannot be negative")
			}
			return withCLIApp(cmd.Context(), env, func(a *app) error {
				if err := requireSession(a); err != nil {
					return err
				}
				current, err := a.api.GetCostume(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				updated, err := a.api.UpdateCostume(cmd.Context(), args[0], flags.applyChanged(cmd, current.Input()))
				if err != nil {
					return err
				}
				return writeJSON(env.stdout, updated)
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newCostumesDeleteCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a costume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCLIApp(cmd.Context(), env, func(a *app) error {
				if err := requireSession(a); err != nil {
					return err
				}
				if err := a.api.DeleteCostume(cmd.Context(), args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(env.stdout, "deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func newDownloadCmd(env *cliEnv) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download ID",
		Short: "Export a costume document into the download directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCLIApp(cmd.Context(), env, func(a *app) error {
				if err := requireSession(a); err != nil {
					return err
				}
				path, err := a.api.ExportCostume(cmd.Context(), args[0], output)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(env.stdout, path)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "File name (default costume-<id>.json)")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCostumeTable(w io.Writer, costumes []model.Costume) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tSIZE\tCOLOR\tERA\tQTY")
	for _, c := range costumes {
		_, _ = fmt.Fprintln(tw, c.ID+"\t"+c.Name+"\t"+c.Category+"\t"+c.Size+"\t"+c.Color+"\t"+c.Era+"\t"+strconv.Itoa(c.Quantity))
	}
	return tw.Flush()
}
