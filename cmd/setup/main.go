package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"github.com/osse101/CaseVault_Go/internal/bootstrap"
	"github.com/osse101/CaseVault_Go/internal/config"
	"github.com/osse101/CaseVault_Go/internal/database"
	"github.com/osse101/CaseVault_Go/internal/server"
)

func main() {
	seed := flag.Bool("seed", false, "load the demo catalog and accounts after migrating")
	status := flag.Bool("status", false, "print the migration status after migrating")
	tokenFor := flag.String("token", "", "print an admin bearer token for this operator and exit")
	tokenTTL := flag.Duration("token-ttl", server.DefaultTokenTTL, "lifetime of the token printed by -token")
	flag.Parse()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	if *tokenFor != "" {
		secret := os.Getenv("ADMIN_JWT_SECRET")
		if len(secret) < config.MinJWTSecretLength {
			log.Fatalf("ADMIN_JWT_SECRET must be set and at least %d bytes", config.MinJWTSecretLength)
		}
		issuer := os.Getenv("ADMIN_JWT_ISSUER")
		if issuer == "" {
			issuer = config.DefaultJWTIssuer
		}
		token, err := server.NewTokenVerifier(secret, issuer).Issue(*tokenFor, *tokenTTL)
		if err != nil {
			log.Fatalf("Failed to sign token: %v", err)
		}
		fmt.Println(token)
		return
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	ctx := context.Background()

	// 1. Connect to default 'postgres' database to create the new database
	defaultConnString := fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable", user, password, host, port)
	conn, err := pgx.Connect(ctx, defaultConnString)
	if err != nil {
		log.Fatalf("Unable to connect to postgres database: %v", err)
	}

	// 2. Check if database exists
	var exists bool
	err = conn.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", dbname).Scan(&exists)
	if err != nil {
		log.Fatalf("Failed to check if database exists: %v", err)
	}

	if !exists {
		fmt.Printf("Creating database %s...\n", dbname)
		if _, err = conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{dbname}.Sanitize()); err != nil {
			log.Fatalf("Failed to create database: %v", err)
		}
		fmt.Println("Database created successfully.")
	} else {
		fmt.Printf("Database %s already exists.\n", dbname)
	}
	conn.Close(ctx)

	// 3. Apply the embedded migrations
	targetConnString := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, dbname)
	pool, err := database.NewPool(ctx, database.PoolSettings{
		ConnString: targetConnString,
		MaxConns:   4,
		MaxIdle:    config.DefaultDBMaxIdle,
		MaxLife:    config.DefaultDBMaxLife,
	})
	if err != nil {
		log.Fatalf("Unable to connect to %s database: %v", dbname, err)
	}
	defer pool.Close()

	fmt.Println("Running migrations...")
	n, err := database.Migrate(ctx, pool)
	if err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}
	fmt.Printf("Migration completed successfully (%d applied).\n", n)

	if *status {
		states, err := database.MigrationStatus(ctx, pool)
		if err != nil {
			log.Fatalf("Failed to read migration status: %v", err)
		}
		for _, st := range states {
			applied := "pending"
			if st.Applied {
				applied = st.AppliedAt.Format(time.RFC3339)
			}
			fmt.Printf("  %05d %-40s %s\n", st.Version, st.File, applied)
		}
	}

	if !*seed {
		return
	}

	// 4. Optional demo fixtures
	repos, err := bootstrap.InitializeRepositories(pool)
	if err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}
	path := os.Getenv("DEMO_CATALOG_PATH")
	if path == "" {
		path = config.ConfigPathDemoCatalog
	}
	if err := bootstrap.SyncDemoCatalog(ctx, repos.Seeder, path); err != nil {
		log.Fatalf("Failed to seed demo catalog: %v", err)
	}
	fmt.Println("Demo catalog seeded.")
}
