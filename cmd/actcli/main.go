// actcli drives the offline auth and ledger core from the command line:
// account registration, login, session restore, and a look at the seeded
// categories. The session pointer survives between invocations the same
// way it survives app restarts.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/M-owl-8/ACT-sub001/internal/auth"
	"github.com/M-owl-8/ACT-sub001/internal/config"
	"github.com/M-owl-8/ACT-sub001/internal/database"
	"github.com/M-owl-8/ACT-sub001/internal/logger"
	"github.com/M-owl-8/ACT-sub001/internal/models"
	"github.com/M-owl-8/ACT-sub001/internal/pagination"
	"github.com/M-owl-8/ACT-sub001/internal/securestore"
	"github.com/M-owl-8/ACT-sub001/internal/services"
)

// app bundles everything a command needs once the stores are open.
type app struct {
	cfg        *config.Config
	manager    *database.Manager
	engine     *auth.Engine
	users      services.UserServicer
	categories services.CategoryServicer
	entries    services.EntryServicer
	books      services.BookServicer
	sessions   services.SessionServicer
}

func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Init(cfg.Env)

	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	manager, err := database.NewManager(cfg)
	if err != nil {
		return nil, err
	}
	if err := manager.Migrate(); err != nil {
		manager.Close()
		return nil, err
	}
	if err := manager.EnsureTemplateData(); err != nil {
		manager.Close()
		return nil, err
	}

	store, err := securestore.OpenFile(cfg.KeystorePath())
	if err != nil {
		manager.Close()
		return nil, fmt.Errorf("failed to open keystore: %w", err)
	}

	db := manager.DB()
	users := services.NewUserService(db)
	categories := services.NewCategoryService(db)
	sessions := services.NewSessionService(store)

	engine := auth.NewEngine(users, categories, sessions,
		auth.WithLogger(logger.Get()),
		auth.WithBcryptCost(cfg.BcryptCost),
	)

	return &app{
		cfg:        cfg,
		manager:    manager,
		engine:     engine,
		users:      users,
		categories: categories,
		entries:    services.NewEntryService(db),
		books:      services.NewBookService(db),
		sessions:   sessions,
	}, nil
}

func (a *app) close() {
	if err := a.manager.Close(); err != nil {
		logger.Get().Warnf("failed to close database: %v", err)
	}
	logger.Sync()
}

// requireSession restores the persisted session and returns the signed-in
// user, or an error when nobody is signed in.
func (a *app) requireSession(ctx context.Context) (*models.User, error) {
	a.engine.RestoreSession(ctx)
	user := a.engine.CurrentUser()
	if user == nil {
		return nil, fmt.Errorf("not signed in; run 'actcli login' first")
	}
	return user, nil
}

// runWithApp opens the stores, runs fn, and closes them again.
func runWithApp(fn func(ctx context.Context, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()
		return fn(cmd.Context(), a)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "actcli",
		Short:         "Offline account and ledger store",
		Long:          "actcli manages local accounts, sessions, and the starting category set without any network access.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newMigrateCmd(),
		newRegisterCmd(),
		newLoginCmd(),
		newWhoamiCmd(),
		newLogoutCmd(),
		newCategoriesCmd(),
		newEntriesCmd(),
		newBooksCmd(),
	)
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations and seed first-run data",
		RunE: runWithApp(func(ctx context.Context, a *app) error {
			// openApp already migrated and seeded; report where the data lives.
			fmt.Printf("Database ready at %s\n", a.cfg.DatabasePath())
			return nil
		}),
	}
}

func newRegisterCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "register <email> <password>",
		Short: "Create a new account and sign in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			user, err := a.engine.Register(cmd.Context(), args[0], args[1], name)
			if err != nil {
				return err
			}
			fmt.Printf("Registered %s (account #%d)\n", user.Email, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name for the account")
	return cmd
}

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <email> <password>",
		Short: "Sign in with an existing account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			user, err := a.engine.Login(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("Signed in as %s (account #%d)\n", user.Email, user.ID)
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the currently signed-in account",
		RunE: runWithApp(func(ctx context.Context, a *app) error {
			user, err := a.requireSession(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Signed in as %s (account #%d)\n", user.Email, user.ID)
			return nil
		}),
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the persisted session",
		RunE: runWithApp(func(ctx context.Context, a *app) error {
			a.engine.Logout(ctx)
			fmt.Println("Signed out")
			return nil
		}),
	}
}

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the signed-in account's categories",
		RunE: runWithApp(func(ctx context.Context, a *app) error {
			user, err := a.requireSession(ctx)
			if err != nil {
				return err
			}

			result, err := a.categories.GetUserCategories(user.ID, pagination.PageRequest{PageSize: 100})
			if err != nil {
				return err
			}
			for _, c := range result.Data {
				fmt.Printf("%-4d %-8s %s %s\n", c.ID, c.Type, c.Icon, c.Name)
			}
			return nil
		}),
	}
}

func newEntriesCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "List recent entries and period totals",
	}
	cmd.RunE = runWithApp(func(ctx context.Context, a *app) error {
		user, err := a.requireSession(ctx)
		if err != nil {
			return err
		}

		to := time.Now()
		from := to.AddDate(0, 0, -days)
		filter := services.EntryFilter{FromDate: &from, ToDate: &to}

		result, err := a.entries.GetUserEntries(user.ID, pagination.PageRequest{PageSize: 50}, filter)
		if err != nil {
			return err
		}
		for _, e := range result.Data {
			name := ""
			if e.Category != nil {
				name = e.Category.Name
			}
			fmt.Printf("%s  %-8s %10.2f  %s\n", e.Date.Format("2006-01-02"), e.Type, e.Amount, name)
		}

		totals, err := a.entries.GetTotals(user.ID, from, to)
		if err != nil {
			return err
		}
		fmt.Printf("\nIncome %.2f  Expense %.2f  Net %.2f\n", totals.Income, totals.Expense, totals.Net)
		return nil
	})
	cmd.Flags().IntVar(&days, "days", 30, "period length in days")
	return cmd
}

func newBooksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "books",
		Short: "List the bundled reading recommendations",
		RunE: runWithApp(func(ctx context.Context, a *app) error {
			result, err := a.books.GetBooks(pagination.PageRequest{PageSize: 50})
			if err != nil {
				return err
			}
			for _, b := range result.Data {
				fmt.Printf("%-30s %-20s %.1f\n", b.Title, b.Author, b.Rating)
			}
			return nil
		}),
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
