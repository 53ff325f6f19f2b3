// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand initializes the config file and the snapshot database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml and initialize the snapshot database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// registerCommand creates a new account on the server.
func registerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "Register a new account (requires admin approval before login)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "username",
				Aliases:  []string{"u"},
				Usage:    "Account username",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "email",
				Aliases:  []string{"e"},
				Usage:    "Account email address",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "password",
				Aliases:  []string{"p"},
				Usage:    "Account password",
				Required: true,
			},
		},
		Action: r.Register,
	}
}

// loginCommand obtains a session token and stores it locally.
func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in and store the session token",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "username",
				Aliases:  []string{"u"},
				Usage:    "Account username",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "password",
				Aliases:  []string{"p"},
				Usage:    "Account password",
				Required: true,
			},
		},
		Action: r.Login,
	}
}

// logoutCommand clears the stored session.
func logoutCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Remove the stored session token",
		Action: r.Logout,
	}
}

// whoamiCommand shows the logged-in account.
func whoamiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the currently logged-in account",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Whoami,
	}
}

// accountCommand groups destructive account operations.
func accountCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "account",
		Usage: "Manage the logged-in account",
		Commands: []*cli.Command{
			{
				Name:  "delete",
				Usage: "Permanently delete the logged-in account and its items",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Skip the confirmation prompt",
					},
				},
				Action: r.AccountDelete,
			},
		},
	}
}

// listCommand prints the shared shopping list.
func listCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "Show the shopping list in department walk order",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "date",
				Aliases: []string{"d"},
				Usage:   "Only items for this shopping date (YYYY-MM-DD)",
			},
			&cli.BoolFlag{
				Name:  "offline",
				Usage: "Read the last synced snapshot instead of the server",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.StringFlag{
				Name:  "export",
				Usage: "Write the list to a file as csv, markdown, or text",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Export file path (default einkaufsliste.<format>)",
			},
		},
		Action: r.List,
	}
}

// addCommand puts a new item on the shopping list.
func addCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Add an item; quantities of an existing item are merged",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "name"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "menge",
				Aliases: []string{"m"},
				Usage:   "Quantity, e.g. '500 g' or '2'",
			},
			&cli.StringFlag{
				Name:    "date",
				Aliases: []string{"d"},
				Usage:   "Shopping date (YYYY-MM-DD)",
			},
			&cli.IntFlag{
				Name:  "store",
				Usage: "Store ID the item belongs to",
			},
		},
		Action: r.Add,
	}
}

// doneCommand removes a bought item.
func doneCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "done",
		Aliases: []string{"rm"},
		Usage:   "Remove an item by id or name",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "item"},
		},
		Action: r.Done,
	}
}

// clearCommand bulk-deletes dated items.
func clearCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "clear",
		Usage: "Delete all items dated before a cutoff",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "before",
				Usage:    "Cutoff date (YYYY-MM-DD), exclusive",
				Required: true,
			},
		},
		Action: r.Clear,
	}
}

// syncCommand refreshes the offline snapshot.
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "sync",
		Usage:  "Refresh the offline snapshot (list, catalog, units)",
		Action: r.Sync,
	}
}

// storesCommand manages stores and their departments.
func storesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "stores",
		Usage: "Manage stores and their department walk order",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all stores",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.StoresList,
			},
			{
				Name:  "add",
				Usage: "Create a store",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "location", Usage: "Store location"},
				},
				Action: r.StoresAdd,
			},
			{
				Name:  "rm",
				Usage: "Delete a store and its departments",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.StoresRemove,
			},
			{
				Name:  "departments",
				Usage: "Manage a store's departments",
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "List departments in walk order",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "store-id"},
						},
						Flags: []cli.Flag{
							&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
						},
						Action: r.DepartmentsList,
					},
					{
						Name:  "add",
						Usage: "Add a department to a store",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "store-id"},
							&cli.StringArg{Name: "name"},
						},
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "sort", Usage: "Position in the walk order"},
						},
						Action: r.DepartmentsAdd,
					},
					{
						Name:  "rename",
						Usage: "Rename a department or change its walk-order position",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "id"},
						},
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "name", Usage: "New department name"},
							&cli.IntFlag{Name: "sort", Usage: "New walk-order position", Value: -1},
						},
						Action: r.DepartmentsRename,
					},
					{
						Name:  "rm",
						Usage: "Delete a department",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "id"},
						},
						Action: r.DepartmentsRemove,
					},
				},
			},
		},
	}
}

// productsCommand manages a store's known products.
func productsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "products",
		Usage: "Manage the product catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List products of a store",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "store", Usage: "Store ID", Required: true},
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.ProductsList,
			},
			{
				Name:  "search",
				Usage: "Fuzzy-search a store's products for the best match",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "store", Usage: "Store ID", Required: true},
					&cli.BoolFlag{Name: "offline", Usage: "Match against the last synced snapshot"},
				},
				Action: r.ProductsSearch,
			},
			{
				Name:  "add",
				Usage: "Create a product",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "store", Usage: "Store ID", Required: true},
					&cli.IntFlag{Name: "department", Usage: "Department ID", Required: true},
					&cli.BoolFlag{Name: "fresh", Usage: "Mark as a fresh product"},
				},
				Action: r.ProductsAdd,
			},
			{
				Name:  "rm",
				Usage: "Delete a product",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.ProductsRemove,
			},
			{
				Name:  "convert",
				Usage: "Turn a list item into a catalog product",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "item-id"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "department", Usage: "Department ID the product belongs to", Required: true},
				},
				Action: r.ProductsConvert,
			},
		},
	}
}

// unitsCommand manages quantity units.
func unitsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "units",
		Usage: "Manage quantity units",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List units in sort order",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "offline", Usage: "Read the last synced snapshot instead of the server"},
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.UnitsList,
			},
			{
				Name:  "add",
				Usage: "Create a unit",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "sort", Usage: "Sort order"},
				},
				Action: r.UnitsAdd,
			},
			{
				Name:  "rename",
				Usage: "Rename a unit or change its sort order",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "New unit name"},
					&cli.IntFlag{Name: "sort", Usage: "New sort order", Value: -1},
				},
				Action: r.UnitsRename,
			},
			{
				Name:  "rm",
				Usage: "Delete a unit",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.UnitsRemove,
			},
		},
	}
}

// templatesCommand manages reusable shopping templates.
func templatesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "templates",
		Usage: "Manage reusable shopping templates",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List templates",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.TemplatesList,
			},
			{
				Name:  "show",
				Usage: "Show a template with its lines",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.TemplatesShow,
			},
			{
				Name:  "create",
				Usage: "Create a template from item lines",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "description", Usage: "Template description"},
					&cli.IntFlag{Name: "persons", Usage: "Person count the quantities are sized for", Value: 2},
					&cli.StringSliceFlag{
						Name:    "item",
						Aliases: []string{"i"},
						Usage:   "Item line 'Name' or 'Name=Menge', repeatable",
					},
				},
				Action: r.TemplatesCreate,
			},
			{
				Name:  "rm",
				Usage: "Delete a template",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.TemplatesRemove,
			},
			{
				Name:  "apply",
				Usage: "Push a template's lines onto the shopping list",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "persons", Usage: "Scale quantities to this many people"},
					&cli.StringSliceFlag{Name: "skip", Usage: "Leave out template lines with this name"},
					&cli.StringFlag{Name: "date", Usage: "Shopping date for the added items"},
				},
				Action: r.TemplatesApply,
			},
		},
	}
}

// weekplanCommand manages meal-plan entries.
func weekplanCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "weekplan",
		Usage: "Manage the weekly meal plan",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the plan for a week",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "week",
						Usage: "Week start date (YYYY-MM-DD), defaults to the current week's Monday",
					},
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.WeekplanShow,
			},
			{
				Name:  "add",
				Usage: "Add a meal entry",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "date"},
					&cli.StringArg{Name: "meal"},
					&cli.StringArg{Name: "text"},
				},
				Action: r.WeekplanAdd,
			},
			{
				Name:  "rm",
				Usage: "Delete a meal entry",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.WeekplanRemove,
			},
		},
	}
}

// recipesCommand browses imported recipes.
func recipesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "recipes",
		Usage: "Browse imported recipes",
		Commands: []*cli.Command{
			{
				Name:  "search",
				Usage: "Search recipes by name, category, or tags",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Usage: "Maximum results", Value: 10},
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.RecipesSearch,
			},
			{
				Name:  "show",
				Usage: "Show one recipe",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON", Value: true},
				},
				Action: r.RecipesShow,
			},
			{
				Name:  "list",
				Usage: "List recipes",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "skip", Usage: "Offset into the listing"},
					&cli.IntFlag{Name: "limit", Usage: "Maximum results", Value: 100},
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.RecipesList,
			},
		},
	}
}

// usersCommand handles admin account management.
func usersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "Manage accounts (admin only)",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all accounts",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.UsersList,
			},
			{
				Name:   "pending",
				Usage:  "List accounts awaiting approval",
				Action: r.UsersPending,
			},
			{
				Name:  "approve",
				Usage: "Approve a pending account",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.UsersApprove,
			},
		},
	}
}

// backupCommand downloads or restores a full server dump.
func backupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "backup",
		Usage: "Download or restore a full server backup (admin only)",
		Commands: []*cli.Command{
			{
				Name:  "download",
				Usage: "Download the server database as JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write to this file instead of stdout",
					},
				},
				Action: r.BackupDownload,
			},
			{
				Name:  "restore",
				Usage: "Replace the server database with a backup file",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "file"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Skip the confirmation prompt",
					},
				},
				Action: r.BackupRestore,
			},
		},
	}
}

// webdavCommand manages the server's WebDAV recipe import settings.
func webdavCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "webdav",
		Usage: "Manage WebDAV recipe import settings (admin only)",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List configured WebDAV sources",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.WebDAVList,
			},
			{
				Name:  "add",
				Usage: "Add a WebDAV source",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "url", Usage: "WebDAV server URL", Required: true},
					&cli.StringFlag{Name: "username", Usage: "WebDAV username", Required: true},
					&cli.StringFlag{Name: "password", Usage: "WebDAV password", Required: true},
					&cli.StringFlag{Name: "filename", Usage: "Recipe file to import", Required: true},
				},
				Action: r.WebDAVAdd,
			},
			{
				Name:  "enable",
				Usage: "Enable or disable a WebDAV source",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "off", Usage: "Disable instead of enable"},
				},
				Action: r.WebDAVEnable,
			},
			{
				Name:  "rm",
				Usage: "Delete a WebDAV source",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.WebDAVRemove,
			},
		},
	}
}

// configCommand shows the server's shopping-day configuration.
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show the server's shopping-day configuration",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		},
		Action: r.ConfigShow,
	}
}

// watchCommand streams live events from the server.
func watchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "watch",
		Usage:  "Stream live change events as JSON lines",
		Action: r.Watch,
	}
}

// tuiCommand returns the top-level TUI command for interactive list management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive shopping list",
		Action:  r.TUI,
	}
}
