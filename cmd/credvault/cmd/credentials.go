package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/loganmanery/credvault/pkg/generator"
)

func newAddCmd(a *app) *cobra.Command {
	var generate bool

	cmd := &cobra.Command{
		Use:   "add <website> <username>",
		Short: "Store a new credential",
		Long: `Store a new credential. The password is prompted for without echo,
or generated with --generate.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.openVault(cmd)
			if err != nil {
				return err
			}

			var password string
			if generate {
				password, err = v.GeneratePassword(generator.DefaultOptions())
				if err != nil {
					return fmt.Errorf("failed to generate password: %w", err)
				}
			} else {
				password, err = a.readSecret(cmd, "Password: ")
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
			}

			id, err := v.Create(args[0], args[1], password)
			if err != nil {
				return err
			}

			success.Fprintf(cmd.OutOrStdout(), "Credential added with ID %d\n", id)
			if generate {
				fmt.Fprintf(cmd.OutOrStdout(), "Generated password: %s\n", password)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&generate, "generate", "g", false, "generate a random password")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all credentials",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := a.openVault(cmd)
			if err != nil {
				return err
			}

			entries, err := v.List()
			if err != nil {
				return err
			}

			printSummaries(cmd.OutOrStdout(), entries)
			return nil
		},
	}
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search [term]",
		Short: "Find credentials by website or username",
		Long:  "Case-insensitive substring search over website and username. No term lists everything.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.openVault(cmd)
			if err != nil {
				return err
			}

			entries, err := v.Search(strings.Join(args, ""))
			if err != nil {
				return err
			}

			printSummaries(cmd.OutOrStdout(), entries)
			return nil
		},
	}
}

func newRevealCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reveal <id>",
		Short: "Print the password of a credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			v, err := a.openVault(cmd)
			if err != nil {
				return err
			}

			password, err := v.Reveal(id)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), password)
			return nil
		},
	}
}

func newUpdateCmd(a *app) *cobra.Command {
	var (
		website     string
		username    string
		newPassword bool
		generate    bool
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a credential",
		Long: `Change the website and/or username of a credential. The password is
kept unless --password (prompt) or --generate is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			v, err := a.openVault(cmd)
			if err != nil {
				return err
			}

			current, err := v.Get(id)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("website") {
				website = current.Website
			}
			if !cmd.Flags().Changed("username") {
				username = current.Username
			}

			var password string
			switch {
			case generate:
				password, err = v.GeneratePassword(generator.DefaultOptions())
				if err != nil {
					return fmt.Errorf("failed to generate password: %w", err)
				}
			case newPassword:
				password, err = a.readSecret(cmd, "New password (empty keeps current): ")
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
			}

			if err := v.Update(id, website, username, password); err != nil {
				return err
			}

			success.Fprintf(cmd.OutOrStdout(), "Credential %d updated\n", id)
			if generate {
				fmt.Fprintf(cmd.OutOrStdout(), "Generated password: %s\n", password)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&website, "website", "", "new website")
	cmd.Flags().StringVar(&username, "username", "", "new username")
	cmd.Flags().BoolVarP(&newPassword, "password", "p", false, "prompt for a new password")
	cmd.Flags().BoolVarP(&generate, "generate", "g", false, "replace the password with a generated one")
	cmd.MarkFlagsMutuallyExclusive("password", "generate")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Permanently remove a credential",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			v, err := a.openVault(cmd)
			if err != nil {
				return err
			}

			current, err := v.Get(id)
			if err != nil {
				return err
			}

			if !yes {
				ok, err := a.confirm(cmd, fmt.Sprintf("Delete %s (%s)?", current.Website, current.Username))
				if err != nil {
					return err
				}
				if !ok {
					warning.Fprintln(cmd.OutOrStdout(), "Deletion cancelled.")
					return nil
				}
			}

			if err := v.Delete(id); err != nil {
				return err
			}

			success.Fprintf(cmd.OutOrStdout(), "Credential %d deleted\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}
