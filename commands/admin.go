package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"yatube/database"
	"yatube/models"
	"yatube/session"
	"yatube/store"
)

var (
	firstName   string
	lastName    string
	description string
)

var createUserCmd = &cobra.Command{
	Use:   "createuser <username> <password>",
	Short: "Create a user account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := session.HashPassword(args[1])
		if err != nil {
			return err
		}
		u := &models.User{Username: args[0], FirstName: firstName, LastName: lastName, PasswordHash: hash}
		return withStore(func(st *store.Store) error {
			if err := st.CreateUser(cmd.Context(), u); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (id %d)\n", u.Username, u.ID)
			return nil
		})
	},
}

var createGroupCmd = &cobra.Command{
	Use:   "creategroup <slug> <title>",
	Short: "Create a post group",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		g := &models.Group{Slug: args[0], Title: args[1], Description: description}
		return withStore(func(st *store.Store) error {
			if err := st.CreateGroup(cmd.Context(), g); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created group %s (/group/%s/)\n", g, g.Slug)
			return nil
		})
	},
}

func withStore(fn func(*store.Store) error) error {
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close(db)
	if err := database.Migrate(db); err != nil {
		return err
	}
	return fn(store.New(db))
}

func init() {
	createUserCmd.Flags().StringVar(&firstName, "first-name", "", "First name")
	createUserCmd.Flags().StringVar(&lastName, "last-name", "", "Last name")
	createGroupCmd.Flags().StringVar(&description, "description", "", "Group description")
	rootCmd.AddCommand(createUserCmd, createGroupCmd)
}
