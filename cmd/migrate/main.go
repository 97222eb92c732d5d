package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/agent-ticketing-backend/internal/config"
	"github.com/smarttransit/agent-ticketing-backend/internal/database"
)

// salesTables hold what agents produce; routes, buses, trips and profiles are left alone
var salesTables = []string{"payment_transactions", "tickets", "online_bookings"}

func main() {
	var (
		dbURLFlag  string
		driver     string
		down       bool
		clearSales bool
	)
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.StringVar(&driver, "driver", "pgx", "database/sql driver: pgx or postgres")
	flag.BoolVar(&down, "down", false, "roll back every migration instead of applying them")
	flag.BoolVar(&clearSales, "clear-sales", false, "truncate tickets, holds and payment transactions after migrating")
	flag.Parse()

	_ = godotenv.Load()

	dbURL := dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	db, err := database.NewConnection(config.DatabaseConfig{
		URL:                dbURL,
		Driver:             driver,
		MaxConnections:     2,
		MaxIdleConnections: 1,
	}, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	migrator, err := database.NewMigrator(db.DB.DB, logger)
	if err != nil {
		log.Fatalf("failed to prepare migrations: %v", err)
	}

	if down {
		if err := migrator.Down(); err != nil {
			log.Fatalf("%v", err)
		}
		fmt.Println("All migrations rolled back.")
		return
	}

	if err := migrator.Up(); err != nil {
		log.Fatalf("%v", err)
	}

	if !clearSales {
		return
	}

	fmt.Println("Truncating sales tables...")
	for _, table := range salesTables {
		if _, err := db.Exec("TRUNCATE TABLE " + table + " CASCADE"); err != nil {
			log.Fatalf("failed to truncate %s: %v", table, err)
		}
	}
	if _, err := db.Exec("ALTER SEQUENCE ticket_number_seq RESTART WITH 1"); err != nil {
		log.Fatalf("failed to reset ticket_number_seq: %v", err)
	}

	fmt.Println("Post-clear row counts:")
	for _, table := range salesTables {
		var count int
		if err := db.Get(&count, "SELECT COUNT(*) FROM "+table); err != nil {
			log.Fatalf("failed to count %s: %v", table, err)
		}
		fmt.Printf("  %-22s %d\n", table, count)
	}
}
