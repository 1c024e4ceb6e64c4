package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/celerix-dev/drowsewatch/internal/bootstrap"
	"github.com/celerix-dev/drowsewatch/internal/config"
	"github.com/celerix-dev/drowsewatch/internal/engine"
	"github.com/celerix-dev/drowsewatch/internal/query"
	"github.com/celerix-dev/drowsewatch/internal/records"
	"github.com/celerix-dev/drowsewatch/internal/seed"
	"github.com/celerix-dev/drowsewatch/pkg/logger"
	"github.com/celerix-dev/drowsewatch/pkg/sdk"
)

func main() {
	log := logger.NewWithWriter("dev", os.Stderr)

	if len(os.Args) < 2 {
		printUsage()
		return
	}

	cfg, err := config.Load(os.Getenv("DROWSEWATCH_CONFIG"))
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	addr := cfg.RemoteAddr
	if addr == "" {
		addr = "localhost:" + strconv.Itoa(cfg.TCPPort)
	}

	client, err := sdk.Connect(addr, sdk.WithTLS(!cfg.DisableTLS), sdk.WithLogger(log))
	if err != nil {
		log.Fatal().Err(err).Str("addr", addr).Msg("failed to connect")
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	svc := records.NewService(client,
		records.WithDefaultUsers(seed.Users()),
		records.WithReports(seed.Reports()),
	)

	command := strings.ToUpper(os.Args[1])
	args := os.Args[2:]

	switch command {
	case "PING":
		if err := client.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("ping")
		}
		fmt.Println("PONG")

	case "KEYS":
		keys, err := client.Keys(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("keys")
		}
		printJSON(keys)

	case "READ":
		if len(args) < 1 {
			log.Fatal().Msg("Usage: drowsewatch READ <key>")
		}
		val, err := client.Read(ctx, args[0])
		if err != nil {
			log.Fatal().Err(err).Str("key", args[0]).Msg("read")
		}
		printJSON(json.RawMessage(val))

	case "WRITE":
		if len(args) < 2 {
			log.Fatal().Msg("Usage: drowsewatch WRITE <key> <json>")
		}
		if err := client.Write(ctx, args[0], []byte(strings.Join(args[1:], " "))); err != nil {
			log.Fatal().Err(err).Str("key", args[0]).Msg("write")
		}
		fmt.Println("OK")

	case "USERS":
		users, err := svc.ListUsers(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("list users")
		}
		q := ""
		if len(args) > 0 {
			q = args[0]
		}
		printJSON(query.FilterUsers(users, q))

	case "ARCHIVED":
		users, err := svc.ListArchivedUsers(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("list archived users")
		}
		printJSON(users)

	case "EXPORT":
		var start, end, level string
		if len(args) > 0 {
			start = args[0]
		}
		if len(args) > 1 {
			end = args[1]
		}
		if len(args) > 2 {
			level = args[2]
		}
		f, err := query.ParseReportFilter(start, end, level)
		if err != nil {
			log.Fatal().Err(err).Msg("export")
		}
		reports, err := svc.ListReports(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("list reports")
		}
		if err := query.WriteCSV(os.Stdout, f.Apply(reports)); err != nil {
			log.Fatal().Err(err).Msg("write csv")
		}
		fmt.Println()

	case "MIGRATE":
		if len(args) < 1 {
			log.Fatal().Msg("Usage: drowsewatch MIGRATE <dataDir>")
		}
		src, err := bootstrap.OpenEmbedded(args[0], log)
		if err != nil {
			log.Fatal().Err(err).Msg("open data dir")
		}
		defer src.Close()
		n, err := engine.Migrate(ctx, src, client)
		if err != nil {
			log.Fatal().Err(err).Int("migrated", n).Msg("migrate")
		}
		fmt.Printf("Migrated %d keys to %s\n", n, addr)

	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
	}
}

func printUsage() {
	fmt.Println("drowsewatch - command line client for drowsewatchd")
	fmt.Println("\nUsage:")
	fmt.Println("  drowsewatch PING")
	fmt.Println("  drowsewatch KEYS")
	fmt.Println("  drowsewatch READ <key>")
	fmt.Println("  drowsewatch WRITE <key> <json>")
	fmt.Println("  drowsewatch USERS [query]")
	fmt.Println("  drowsewatch ARCHIVED")
	fmt.Println("  drowsewatch EXPORT [start] [end] [level]")
	fmt.Println("  drowsewatch MIGRATE <dataDir>")
	fmt.Println("\nEnvironment Variables:")
	fmt.Println("  DROWSEWATCH_REMOTE_ADDR   Address of the daemon (default: localhost:7001)")
	fmt.Println("  DROWSEWATCH_DISABLE_TLS   Set to true to disable TLS")
	fmt.Println("  DROWSEWATCH_CONFIG        Optional YAML config file")
}

func printJSON(v any) {
	bytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(v)
		return
	}
	fmt.Println(string(bytes))
}
