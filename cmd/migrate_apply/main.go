package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"minesweeper/internal/db"
	"minesweeper/internal/repository"
)

func main() {
	apply := flag.Bool("apply", false, "apply migrations instead of listing them")
	target := flag.String("db", "postgres", "postgres (DATABASE_URL) or sqlite (DB_PATH)")
	flag.Parse()

	if err := run(context.Background(), *apply, *target); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, apply bool, target string) error {
	migrations, err := repository.Migrations()
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	if !apply {
		for _, m := range migrations {
			fmt.Println(m.Name)
		}
		return nil
	}

	var exec func(sql string) error

	switch target {
	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return errors.New("DATABASE_URL not set")
		}
		pool, err := db.Connect(ctx, dsn)
		if err != nil {
			return err
		}
		defer pool.Close()
		exec = func(sql string) error {
			_, err := pool.Exec(ctx, sql)
			return err
		}
	case "sqlite":
		sqlDB, err := db.OpenSQLite(ctx, os.Getenv("DB_PATH"))
		if err != nil {
			return err
		}
		defer sqlDB.Close()
		exec = func(sql string) error {
			_, err := sqlDB.ExecContext(ctx, sql)
			return err
		}
	default:
		return fmt.Errorf("unknown -db %q", target)
	}

	for _, m := range migrations {
		if err := exec(m.SQL); err != nil {
			return fmt.Errorf("failed to apply %s: %w", m.Name, err)
		}
		fmt.Printf("applied %s\n", m.Name)
	}
	return nil
}
