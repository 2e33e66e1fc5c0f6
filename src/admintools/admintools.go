package admintools

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/newsdeskhq/newsdesk/src/db"
	"github.com/newsdeskhq/newsdesk/src/deskdata"
	"github.com/newsdeskhq/newsdesk/src/models"
	"github.com/newsdeskhq/newsdesk/src/website"
	"github.com/spf13/cobra"
)

func init() {
	adminCommand := &cobra.Command{
		Use:   "admin",
		Short: "Miscellaneous admin commands",
	}
	website.WebsiteCommand.AddCommand(adminCommand)

	createAccountCommand := &cobra.Command{
		Use:   "createaccount [username] [role]",
		Short: "Creates a new account with the given role",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 2 {
				fmt.Printf("You must provide a username and a role.\n\n")
				cmd.Usage()
				os.Exit(1)
			}

			username := args[0]
			role, ok := models.ParseRole(args[1])
			if !ok {
				fmt.Printf("Unknown role '%s'.\n\n", args[1])
				os.Exit(1)
			}

			ctx := context.Background()
			conn := db.NewConn()
			defer conn.Close(ctx)

			account, err := db.QueryOne[models.Account](ctx, conn,
				`
				INSERT INTO account (username, name, email, role, date_joined)
				VALUES ($1, $1, $2, $3, NOW())
				RETURNING $columns
				`,
				username, fmt.Sprintf("%s@example.com", username), role,
			)
			if err != nil {
				panic(err)
			}

			fmt.Printf("Created account '%s' (id %d) with role %s\n", account.Username, account.ID, account.Role)
		},
	}
	adminCommand.AddCommand(createAccountCommand)

	setRoleCommand := &cobra.Command{
		Use:   "setrole [username] [role]",
		Short: "Changes an account's role",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 2 {
				fmt.Printf("You must provide a username and a role.\n\n")
				cmd.Usage()
				os.Exit(1)
			}

			username := args[0]
			role, ok := models.ParseRole(args[1])
			if !ok {
				fmt.Printf("Unknown role '%s'.\n\n", args[1])
				os.Exit(1)
			}

			ctx := context.Background()
			conn := db.NewConn()
			defer conn.Close(ctx)

			account, err := deskdata.FetchAccountByUsername(ctx, conn, username)
			if errors.Is(err, db.NotFound) {
				fmt.Printf("Account '%s' not found\n", username)
				os.Exit(1)
			} else if err != nil {
				panic(err)
			}

			// The CLI acts with operator authority.
			operator := &models.Account{Role: models.RoleSuperAdmin}
			err = deskdata.SetAccountRole(ctx, conn, operator, account.ID, role)
			if err != nil {
				panic(err)
			}

			fmt.Printf("Account '%s' now has role %s\n", account.Username, role)
		},
	}
	adminCommand.AddCommand(setRoleCommand)

	assignCommand := &cobra.Command{
		Use:   "assign [username] [category] [approve|publish|both]",
		Short: "Grants an editor per-category approval or publishing rights",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 3 {
				fmt.Printf("You must provide a username, a category, and a grant.\n\n")
				cmd.Usage()
				os.Exit(1)
			}

			username := args[0]
			category := models.Category(args[1])
			if !category.Valid() {
				fmt.Printf("Unknown category '%s'.\n\n", args[1])
				os.Exit(1)
			}
			grant := args[2]
			canApprove := grant == "approve" || grant == "both"
			canPublish := grant == "publish" || grant == "both"
			if !canApprove && !canPublish {
				fmt.Printf("Grant must be 'approve', 'publish', or 'both'.\n\n")
				os.Exit(1)
			}

			ctx := context.Background()
			conn := db.NewConn()
			defer conn.Close(ctx)

			account, err := deskdata.FetchAccountByUsername(ctx, conn, username)
			if errors.Is(err, db.NotFound) {
				fmt.Printf("Account '%s' not found\n", username)
				os.Exit(1)
			} else if err != nil {
				panic(err)
			}

			_, err = deskdata.SetAssignment(ctx, conn, account.ID, category, canApprove, canPublish)
			if err != nil {
				panic(err)
			}

			fmt.Printf("Assignment set for '%s' on %s (approve=%v publish=%v)\n", account.Username, category, canApprove, canPublish)
		},
	}
	adminCommand.AddCommand(assignCommand)

	unpublishCommand := &cobra.Command{
		Use:   "unpublish [article id] [admin username]",
		Short: "Pulls a published article back to draft",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 2 {
				fmt.Printf("You must provide an article id and the admin to act as.\n\n")
				cmd.Usage()
				os.Exit(1)
			}

			articleID, err := strconv.Atoi(args[0])
			if err != nil {
				fmt.Printf("Bad article id '%s'.\n\n", args[0])
				os.Exit(1)
			}

			ctx := context.Background()
			conn := db.NewConn()
			defer conn.Close(ctx)

			// The activity log needs a real account to attribute this to.
			operator, err := deskdata.FetchAccountByUsername(ctx, conn, args[1])
			if errors.Is(err, db.NotFound) {
				fmt.Printf("Account '%s' not found\n", args[1])
				os.Exit(1)
			} else if err != nil {
				panic(err)
			}

			err = deskdata.UnpublishArticle(ctx, conn, operator, articleID)
			if errors.Is(err, db.NotFound) {
				fmt.Printf("Article %d is not published.\n", articleID)
				os.Exit(1)
			} else if errors.Is(err, deskdata.ErrForbidden) {
				fmt.Printf("Account '%s' is not an admin.\n", operator.Username)
				os.Exit(1)
			} else if err != nil {
				panic(err)
			}

			fmt.Printf("Article %d unpublished.\n", articleID)
		},
	}
	adminCommand.AddCommand(unpublishCommand)

	activityCommand := &cobra.Command{
		Use:   "activity [article id]",
		Short: "Prints an article's activity log",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 1 {
				fmt.Printf("You must provide an article id.\n\n")
				cmd.Usage()
				os.Exit(1)
			}

			articleID, err := strconv.Atoi(args[0])
			if err != nil {
				fmt.Printf("Bad article id '%s'.\n\n", args[0])
				os.Exit(1)
			}

			ctx := context.Background()
			conn := db.NewConn()
			defer conn.Close(ctx)

			entries, err := deskdata.FetchActivity(ctx, conn, articleID)
			if err != nil {
				panic(err)
			}

			for _, entry := range entries {
				fmt.Printf("%s  actor=%d  %s", entry.CreatedAt.Format("2006-01-02 15:04:05"), entry.ActorID, entry.Action)
				if entry.Details != "" {
					fmt.Printf("  (%s)", entry.Details)
				}
				fmt.Println()
			}
		},
	}
	adminCommand.AddCommand(activityCommand)
}
