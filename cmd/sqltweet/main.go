package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"sqltweet/internal/app"
	"sqltweet/internal/config"
	"sqltweet/internal/console"
	"sqltweet/internal/logging"
	"sqltweet/internal/metrics"
	"sqltweet/internal/store/sqlite"
	"sqltweet/internal/theme"
)

func main() {
	_ = godotenv.Load()
	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	switch cmd {
	case "init":
		cmdInit()
	case "migrate":
		cmdMigrate()
	case "run":
		cmdRun()
	default:
		printHelp()
	}
}

func printHelp() {
	theme.PrintBanner()
	fmt.Println("Usage: sqltweet <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  init        Create a config file at ./sqltweet.yaml")
	fmt.Println("  migrate     Create the database schema and show table sizes")
	fmt.Println("  run         Start the interactive client")
}

func cmdInit() {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	path := fs.String("path", "./sqltweet.yaml", "path to write config")
	_ = fs.Parse(os.Args[2:])
	cfg := config.Default()
	cfg.Storage.DBPath = "./sqltweet.db"
	if err := config.Save(*path, cfg); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	abs, _ := filepath.Abs(*path)
	theme.PrintBanner()
	fmt.Println("Config written to:", abs)
}

// loadConfig parses the shared flags and resolves the database path,
// asking for it when neither the flag, the config nor the env provide one.
func loadConfig(fs *flag.FlagSet, io *console.Console) config.Config {
	cfgPath := fs.String("config", "./sqltweet.yaml", "config path")
	dbPath := fs.String("db", "", "database file (overrides config)")
	_ = fs.Parse(os.Args[2:])
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.Storage.DBPath = *dbPath
	}
	for strings.TrimSpace(cfg.Storage.DBPath) == "" {
		name, err := io.Ask("Input database name: ")
		if err != nil {
			os.Exit(0)
		}
		cfg.Storage.DBPath = strings.TrimSpace(name)
	}
	return cfg
}

func cmdMigrate() {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	cfg := loadConfig(fs, console.Std())
	db, err := sqlite.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	defer db.Close()
	ctx := context.Background()
	for _, table := range []string{"users", "tweets", "retweets", "follows", "hashtags", "mentions"} {
		n, err := db.CountRows(ctx, table)
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Printf("%-9s %d\n", table, n)
	}
}

func cmdRun() {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	io := console.Std()
	cfg := loadConfig(fs, io)
	closeLog, err := logging.Setup(cfg.Logging.Path, cfg.Logging.Level)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	defer closeLog()
	metrics.StartServer(cfg.Metrics.Addr)

	db, err := sqlite.Open(cfg.Storage.DBPath)
	if err != nil {
		logging.Error("store_open_error", map[string]any{"path": cfg.Storage.DBPath, "error": err.Error()})
		fmt.Println("error: could not open the database")
		os.Exit(1)
	}
	theme.PrintBanner()
	logging.Info("start", map[string]any{"db": cfg.Storage.DBPath})
	runErr := app.New(db, io, cfg, nil).Run(context.Background())
	_ = db.Close()
	fmt.Println("Database connection closed.")
	if runErr != nil {
		logging.Error("store_unavailable", map[string]any{"error": runErr.Error()})
		_ = closeLog()
		os.Exit(1)
	}
	logging.Info("exit", nil)
}
