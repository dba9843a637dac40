package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/rolo/internal/contact"
	"github.com/hpungsan/rolo/internal/errors"
	"github.com/hpungsan/rolo/internal/ops"
	"github.com/hpungsan/rolo/internal/web"
)

// detailFlags are shared by add and edit.
func detailFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "telephone", Aliases: []string{"t"}, Usage: "Telephone as country-city-number"},
		&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Email address"},
		&cli.StringFlag{Name: "social-media", Aliases: []string{"s"}, Usage: "Social media as platform:handle"},
	}
}

// newCLIApp creates the CLI application with all commands.
func newCLIApp(env *appEnv) *cli.App {
	app := &cli.App{
		Name:    "rolo",
		Usage:   "Personal contact book",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db", Usage: "Path to the contact book (default: database_path from config)"},
			&cli.BoolFlag{Name: "json", Usage: "Emit JSON instead of text"},
		},
		Commands: []*cli.Command{
			addCmd(env),
			listCmd(env),
			searchCmd(env),
			editCmd(env),
			deleteCmd(env),
			exportCmd(env),
			importCmd(env),
			serveCmd(env),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// openService resolves --db and returns the service.
func openService(c *cli.Context, env *appEnv) (*ops.Service, error) {
	svc, err := env.service(c.String("db"))
	if err != nil {
		return nil, outputError(errors.NewInternal(err))
	}
	return svc, nil
}

// contactFromFlags builds a contact from NAME and the detail flags.
func contactFromFlags(c *cli.Context, name string) (contact.Contact, error) {
	return ops.ContactFromInput(name, c.String("telephone"), c.String("email"), c.String("social-media"))
}

// addCmd creates the add command.
func addCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a contact",
		ArgsUsage: "NAME",
		Flags:     detailFlags(),
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.NewInvalidRequest("add takes exactly one NAME"))
			}
			ct, err := contactFromFlags(c, c.Args().First())
			if err != nil {
				return outputError(err)
			}
			svc, err := openService(c, env)
			if err != nil {
				return err
			}
			added, err := svc.HandleAddContact(c.Context, ops.AddContactCommand{Contact: ct})
			if err != nil {
				return outputError(err)
			}
			if c.Bool("json") {
				return outputJSON(c.App.Writer, contact.ToView(added))
			}
			fmt.Fprintf(c.App.Writer, "Contact '%s' added successfully!\n", added.Name)
			return nil
		},
	}
}

// listCmd creates the list command.
func listCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List all contacts",
		Action: func(c *cli.Context) error {
			svc, err := openService(c, env)
			if err != nil {
				return err
			}
			contacts, err := svc.HandleGetAllContacts(c.Context, ops.GetAllContactsQuery{})
			if err != nil {
				return outputError(err)
			}
			if c.Bool("json") {
				return outputJSON(c.App.Writer, map[string]any{
					"contacts": contact.ToViews(contacts),
					"count":    len(contacts),
				})
			}
			if len(contacts) == 0 {
				fmt.Fprintln(c.App.Writer, "No contacts available.")
				return nil
			}
			return writeTable(c.App.Writer, contacts)
		},
	}
}

// searchCmd creates the search command.
func searchCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Find a contact by exact name",
		ArgsUsage: "NAME",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.NewInvalidRequest("search takes exactly one NAME"))
			}
			name := c.Args().First()
			svc, err := openService(c, env)
			if err != nil {
				return err
			}
			found, ok, err := svc.HandleGetContactByName(c.Context, ops.GetContactByNameQuery{Name: name})
			if err != nil {
				return outputError(err)
			}
			if c.Bool("json") {
				out := map[string]any{"found": ok}
				if ok {
					out["contact"] = contact.ToView(found)
				}
				return outputJSON(c.App.Writer, out)
			}
			if !ok {
				fmt.Fprintf(c.App.Writer, "No contact found with name '%s'\n", name)
				return nil
			}
			fmt.Fprintf(c.App.Writer, "Found contact: %s\n", found.Name)
			return writeTable(c.App.Writer, []contact.Contact{found})
		},
	}
}

// editCmd creates the edit command.
func editCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Replace a contact (details are not merged)",
		ArgsUsage: "OLD_NAME NEW_NAME",
		Flags:     detailFlags(),
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return outputError(errors.NewInvalidRequest("edit takes OLD_NAME and NEW_NAME"))
			}
			oldName, newName := c.Args().Get(0), c.Args().Get(1)
			ct, err := contactFromFlags(c, newName)
			if err != nil {
				return outputError(err)
			}
			svc, err := openService(c, env)
			if err != nil {
				return err
			}
			updated, err := svc.HandleEditContact(c.Context, ops.EditContactCommand{OldName: oldName, NewContact: ct})
			if err != nil {
				return outputError(err)
			}
			if c.Bool("json") {
				return outputJSON(c.App.Writer, map[string]bool{"updated": updated})
			}
			if !updated {
				fmt.Fprintf(c.App.Writer, "Contact '%s' not found.\n", oldName)
				return nil
			}
			fmt.Fprintf(c.App.Writer, "Contact '%s' updated to '%s' successfully!\n", oldName, newName)
			return nil
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a contact by exact name",
		ArgsUsage: "NAME",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.NewInvalidRequest("delete takes exactly one NAME"))
			}
			name := c.Args().First()
			svc, err := openService(c, env)
			if err != nil {
				return err
			}
			deleted, err := svc.HandleDeleteContact(c.Context, ops.DeleteContactCommand{Name: name})
			if err != nil {
				return outputError(err)
			}
			if c.Bool("json") {
				return outputJSON(c.App.Writer, map[string]bool{"deleted": deleted})
			}
			if !deleted {
				fmt.Fprintf(c.App.Writer, "No contact found with name '%s'\n", name)
				return nil
			}
			fmt.Fprintf(c.App.Writer, "Contact '%s' deleted successfully!\n", name)
			return nil
		},
	}
}

// exportCmd creates the export command.
func exportCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export all contacts to a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Output path in ~/.rolo/exports or allowed_paths (default: ~/.rolo/exports/rolo-export-<id>.jsonl)"},
		},
		Action: func(c *cli.Context) error {
			svc, err := openService(c, env)
			if err != nil {
				return err
			}
			output, err := svc.Export(c.Context, ops.ExportInput{Path: c.String("path")})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// importCmd creates the import command.
func importCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import contacts from a JSONL export",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Import file path in ~/.rolo/exports or allowed_paths"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "error", Usage: "Collision mode: error|skip|replace"},
		},
		Action: func(c *cli.Context) error {
			svc, err := openService(c, env)
			if err != nil {
				return err
			}
			output, err := svc.Import(c.Context, ops.ImportInput{
				Path: c.String("path"),
				Mode: ops.ImportMode(c.String("mode")),
			})
			if err != nil {
				// An aborted import lists the rejected lines before failing
				var rErr *errors.RoloError
				if stderrors.As(err, &rErr) && rErr.Details["errors"] != nil {
					if jsonErr := outputJSON(c.App.Writer, rErr.Details); jsonErr != nil {
						return outputError(errors.NewInternal(jsonErr))
					}
				}
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web interface",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: env.cfg.WebBind, Usage: "Address to listen on"},
			&cli.IntFlag{Name: "port", Value: env.cfg.WebPort, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			svc, err := openService(c, env)
			if err != nil {
				return err
			}
			srv, err := web.NewServer(svc, env.lggr, Version, c.String("bind"), c.Int("port"))
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			fmt.Fprintf(c.App.Writer, "Serving contacts at http://%s/\n", srv.Addr)
			if err := web.Run(srv, env.lggr); err != nil {
				return outputError(errors.NewInternal(err))
			}
			return nil
		},
	}
}

// writeTable prints contacts as a two-column table. A contact with several
// details continues on rows with an empty name column.
func writeTable(w io.Writer, contacts []contact.Contact) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Name\tContact Details")
	fmt.Fprintln(tw, "----\t---------------")
	for _, c := range contacts {
		lines := c.DetailLines()
		if len(lines) == 0 {
			fmt.Fprintf(tw, "%s\t\n", c.Name)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\n", c.Name, lines[0])
		for _, line := range lines[1:] {
			fmt.Fprintf(tw, "\t%s\n", line)
		}
	}
	return tw.Flush()
}

// outputJSON writes v to w as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var rErr *errors.RoloError
	if stderrors.As(err, &rErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", rErr.Code, rErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
