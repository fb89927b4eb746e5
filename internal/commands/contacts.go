package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/roster/internal/contacts"
	"github.com/cleared-dev/roster/internal/dates"
)

func newContactsCommand(opts *rootOptions) *cobra.Command {
	contactsCmd := &cobra.Command{
		Use:   "contacts",
		Short: "List and manage stored contacts",
	}
	contactsCmd.AddCommand(newContactsListCommand(opts))
	contactsCmd.AddCommand(newContactsDeleteCommand(opts))
	contactsCmd.AddCommand(newContactsMembershipCommand(opts))
	return contactsCmd
}

func newContactsListCommand(opts *rootOptions) *cobra.Command {
	var query queryFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts ordered by last name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer p.Close()

			q, err := query.build()
			if err != nil {
				return err
			}
			list, err := p.db.ListContacts(cmd.Context())
			if err != nil {
				return err
			}
			list = contacts.Filter(list, q)

			now := time.Now()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tBIRTHDAY\tAGE\tEMAIL\tCITY\tMEMBER")
			for _, c := range list {
				age := ""
				if a := c.Age(now); a >= 0 {
					age = fmt.Sprint(a)
				}
				member := "no"
				if c.IsMember {
					member = "yes"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					c.ID, c.FullName(), dates.Format(c.Birthday), age, c.Email, c.City, member)
			}
			if err := tw.Flush(); err != nil {
				return fmt.Errorf("writing contact list: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d contacts\n", len(list))
			return nil
		},
	}

	query.register(cmd)
	return cmd
}

func newContactsDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a contact by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer p.Close()

			if err := p.db.DeleteContact(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted contact %s\n", args[0])
			return nil
		},
	}
}

func newContactsMembershipCommand(opts *rootOptions) *cobra.Command {
	var since, until string
	var end bool

	cmd := &cobra.Command{
		Use:   "membership <id>",
		Short: "Set or end the membership of a contact",
		Long: `Set the membership window of a contact. Dates are DD.MM.YYYY (also
accepted: DD/MM/YYYY, YYYY-MM-DD); an omitted date leaves that side open.
With --end the contact stops being a member and both dates are cleared.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var from, to *time.Time
			if !end {
				var err error
				if from, err = optionalDate("--since", since); err != nil {
					return err
				}
				if to, err = optionalDate("--until", until); err != nil {
					return err
				}
				if from != nil && to != nil && to.Before(*from) {
					return fmt.Errorf("--until %s is before --since %s", dates.Format(to), dates.Format(from))
				}
			}

			p, err := openProject(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer p.Close()

			if err := p.db.SetMembership(cmd.Context(), args[0], !end, from, to, time.Now()); err != nil {
				return err
			}
			c, err := p.db.GetContact(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if end {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is no longer a member\n", c.FullName())
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is a member (since %q, until %q)\n",
				c.FullName(), dates.Format(c.MemberSince), dates.Format(c.MemberUntil))
			return nil
		},
	}

	cmd.Flags().StringVar(&since, "since", "", "first day of membership")
	cmd.Flags().StringVar(&until, "until", "", "last day of membership")
	cmd.Flags().BoolVar(&end, "end", false, "end the membership")
	cmd.MarkFlagsMutuallyExclusive("end", "since")
	cmd.MarkFlagsMutuallyExclusive("end", "until")

	return cmd
}

func optionalDate(flag, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, ok := dates.Parse(value)
	if !ok {
		return nil, fmt.Errorf("invalid %s date %q", flag, value)
	}
	return &d, nil
}
