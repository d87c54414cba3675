package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"m-cosmetics/internal/config"
	"m-cosmetics/internal/database"
	"m-cosmetics/internal/domain"
	"m-cosmetics/internal/logger"
	"m-cosmetics/internal/repository"
	"m-cosmetics/internal/service"

	"go.uber.org/zap"
)

const usage = `Usage: manage <command> [flags]

Commands:
  seed-products      replace the catalog with the sample products
  create-superuser   create a staff account with every permission
  set-password       change the password of an existing account
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, os.Args[1], os.Args[2:]); err != nil {
		var verrs domain.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fmt.Fprintf(os.Stderr, "%s: %s\n", fe.Field, fe.Message)
			}
			os.Exit(1)
		}
		log.Fatal("Command failed", zap.String("command", os.Args[1]), zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger, command string, args []string) error {
	flags := flag.NewFlagSet(command, flag.ExitOnError)
	username := flags.String("username", "", "account username")
	email := flags.String("email", "", "account email (create-superuser)")
	password := flags.String("password", os.Getenv("MANAGE_PASSWORD"), "new password, defaults to $MANAGE_PASSWORD")
	catalogFile := flags.String("file", "", "JSON catalog to load instead of the sample products (seed-products)")

	switch command {
	case "seed-products", "create-superuser", "set-password":
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
	if err := flags.Parse(args); err != nil {
		return err
	}

	dbService, err := database.New(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer dbService.Close()

	if err := database.RunMigrations(dbService.DB(), "migrations", log); err != nil {
		return err
	}

	products := repository.NewProductRepository(dbService.DB())
	// provisioning never touches sessions
	auth := service.NewAuthService(repository.NewUserRepository(dbService.DB()), nil, cfg.Session.TTL)

	switch command {
	case "seed-products":
		items, err := readCatalog(*catalogFile)
		if err != nil {
			return err
		}
		n, err := seedProducts(ctx, products, items, log)
		if err != nil {
			return err
		}
		fmt.Printf("Successfully created %d products!\n", n)

	case "create-superuser":
		user, err := auth.CreateSuperuser(ctx, service.SuperuserInput{
			Username: *username,
			Email:    *email,
			Password: *password,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Superuser %q created.\n", user.Username)

	case "set-password":
		if err := auth.SetPassword(ctx, *username, *password); err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return fmt.Errorf("user %q not found", *username)
			}
			return err
		}
		fmt.Printf("Password set successfully for %s\n", *username)
	}

	return nil
}

func readCatalog(path string) ([]domain.Product, error) {
	if path == "" {
		return sampleCatalog()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return loadCatalog(f)
}
