package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"empresspc/config"
	"empresspc/db"
	"empresspc/db/mongo"
	"empresspc/logger"
	"empresspc/models"
	"empresspc/repository"
	"empresspc/services"

	"go.uber.org/zap"
)

//go:embed catalog.json
var catalogJSON []byte

func usage() {
	fmt.Println("usage: seed <admin|components> [flags]")
	os.Exit(1)
}

func main() {
	adminCmd := flag.NewFlagSet("admin", flag.ExitOnError)
	username := adminCmd.String("username", "admin", "username of the admin account")
	email := adminCmd.String("email", "admin@empresspc.in", "email of the admin account")
	name := adminCmd.String("name", "Administrator", "display name of the admin account")
	password := adminCmd.String("password", os.Getenv("SEED_ADMIN_PASSWORD"), "password (default $SEED_ADMIN_PASSWORD)")

	componentsCmd := flag.NewFlagSet("components", flag.ExitOnError)

	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.LogLevel, cfg.AppEnv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if db.DBType(cfg.DBType) != db.Mongo {
		log.Fatal("seeding needs DB_TYPE=mongo", zap.String("db", cfg.DBType))
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	mg := mongo.NewMongoDB(cfg.MongoURL, cfg.MongoDatabase)
	if err := mg.Connect(ctx); err != nil {
		log.Fatal("connect mongo", zap.Error(err))
	}
	defer mg.Disconnect()
	if err := db.RunMigrations(cfg.MongoURL, cfg.MongoDatabase, log); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}

	switch os.Args[1] {
	case "admin":
		_ = adminCmd.Parse(os.Args[2:])
		if *password == "" {
			adminCmd.PrintDefaults()
			log.Fatal("password is required")
		}
		users := services.NewUserService(repository.NewMongoUserRepo(mg.Database()), nil, nil, log)
		user, err := users.Register(ctx, services.RegisterInput{
			Username: *username,
			Email:    *email,
			Password: *password,
			Name:     *name,
			Role:     models.RoleAdmin,
		})
		if errors.Is(err, repository.ErrConflict) {
			log.Info("admin already exists", zap.String("username", *username))
			return
		}
		if err != nil {
			log.Fatal("create admin", zap.Error(err))
		}
		log.Info("admin created", zap.String("id", user.ID.Hex()), zap.String("username", user.Username))

	case "components":
		_ = componentsCmd.Parse(os.Args[2:])
		inputs, err := catalogInputs(catalogJSON)
		if err != nil {
			log.Fatal("read catalog", zap.Error(err))
		}
		components := services.NewComponentService(repository.NewMongoComponentRepo(mg.Database()), log)
		res, err := components.BulkImport(ctx, inputs)
		if err != nil {
			log.Fatal("import components", zap.Error(err))
		}
		for _, e := range res.Errors {
			log.Warn("component skipped", zap.String("component", e.Component), zap.String("error", e.Error))
		}
		log.Info("components seeded", zap.Int("imported", res.Success), zap.Int("failed", len(res.Errors)))

	default:
		usage()
	}
}

// catalogInputs flattens the category keyed catalog, categories in name order.
func catalogInputs(raw []byte) ([]services.ComponentInput, error) {
	var catalog map[string][]services.ComponentInput
	if err := json.Unmarshal(raw, &catalog); err != nil {
		return nil, err
	}
	categories := make([]string, 0, len(catalog))
	for c := range catalog {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var out []services.ComponentInput
	for _, c := range categories {
		for _, in := range catalog[c] {
			in.Category = c
			in.Description = in.Name + " - " + c
			out = append(out, in)
		}
	}
	return out, nil
}
