package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ericfisherdev/teambook/internal/adapter/driving/tui"
	"github.com/ericfisherdev/teambook/internal/application"
	"github.com/ericfisherdev/teambook/internal/domain/model"
)

func (a *app) newListCmd() *cobra.Command {
	var (
		search   string
		sort     string
		page     int
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts, filtered by name, sorted and paginated",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sort = strings.ToLower(strings.TrimSpace(sort))
			if sort != "asc" && sort != "desc" {
				return fmt.Errorf("--sort must be asc or desc, got %q", sort)
			}
			if pageSize <= 0 {
				pageSize = a.cfg.PageSize
			}

			contacts, err := a.client.ListAll(cmd.Context())
			if err != nil {
				return err
			}

			result := application.DeriveListPage(contacts, application.ListQuery{
				Search:   search,
				Sort:     application.ParseSortDirection(sort),
				Page:     page,
				PageSize: pageSize,
			})
			return a.printPage(result, len(contacts))
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "only names containing this text (case-insensitive)")
	cmd.Flags().StringVar(&sort, "sort", "asc", "name order: asc or desc")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number, clamped to the available pages")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "contacts per page (env TEAMBOOK_PAGE_SIZE)")
	return cmd
}

func (a *app) printPage(page application.ListPage, total int) error {
	if len(page.Contacts) == 0 {
		_, err := fmt.Fprintln(a.out, "No contacts found.")
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPHONE")
	for _, c := range page.Contacts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.Phone)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(a.out, "Page %d of %d (%d of %d contacts)\n",
		page.Page, page.TotalPages, page.TotalMatches, total)
	return err
}

func (a *app) newAddCmd() *cobra.Command {
	var draft model.Contact

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a contact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			draft.Phone = application.MaskPhone(draft.Phone)
			if err := application.ValidateDraft(draft); err != nil {
				return err
			}

			created, err := a.client.Create(cmd.Context(), draft)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(a.out, "Created %s (%s)\n", created.Name, created.ID)
			return err
		},
	}

	cmd.Flags().StringVar(&draft.Name, "name", "", "full name")
	cmd.Flags().StringVar(&draft.Email, "email", "", "email address")
	cmd.Flags().StringVar(&draft.Phone, "phone", "", "phone, digits or (DD) DDDDD-DDDD")
	for _, f := range []string{"name", "email", "phone"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func (a *app) newUpdateCmd() *cobra.Command {
	var name, email, phone string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a contact; omitted flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := a.client.GetByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			draft := *current
			flags := cmd.Flags()
			if flags.Changed("name") {
				draft.Name = name
			}
			if flags.Changed("email") {
				draft.Email = email
			}
			if flags.Changed("phone") {
				draft.Phone = phone
			}
			draft.Phone = application.MaskPhone(draft.Phone)

			if err := application.ValidateDraft(draft); err != nil {
				return err
			}
			if err := a.client.Update(cmd.Context(), draft); err != nil {
				return err
			}

			_, err = fmt.Fprintf(a.out, "Updated %s (%s)\n", draft.Name, draft.ID)
			return err
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new full name")
	cmd.Flags().StringVar(&email, "email", "", "new email address")
	cmd.Flags().StringVar(&phone, "phone", "", "new phone")
	return cmd
}

func (a *app) newDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a contact after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := a.newController()
			if err := ctrl.Load(cmd.Context()); err != nil {
				return err
			}

			confirm := a.promptConfirm
			if yes {
				confirm = application.Confirmed
			}

			deleted, err := ctrl.Delete(cmd.Context(), args[0], confirm)
			if err != nil {
				return err
			}
			if !deleted {
				_, err = fmt.Fprintln(a.out, "Cancelled.")
				return err
			}

			_, err = fmt.Fprintf(a.out, "Removed %s\n", args[0])
			return err
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// promptConfirm asks on the command's input whether to delete c. Anything
// but y or yes declines.
func (a *app) promptConfirm(_ context.Context, c model.Contact) bool {
	label := c.ID
	if c.Name != "" {
		label = fmt.Sprintf("%s (%s)", c.Name, c.ID)
	}
	fmt.Fprintf(a.out, "Delete %s? [y/N] ", label)

	line, _ := bufio.NewReader(a.in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func (a *app) newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse and edit contacts in an interactive terminal screen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// The screen owns the terminal; failures are shown in its status line.
			ctrl := application.NewController(a.client, slog.New(slog.DiscardHandler),
				application.WithPageSize(a.cfg.PageSize))
			return tui.Run(cmd.Context(), ctrl, tea.WithAltScreen())
		},
	}
}
