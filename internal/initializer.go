// Package internal wires configuration, database, managers and router
// together and starts the server.
package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"stories-v13/internal/config"
	"stories-v13/internal/managers"
	"stories-v13/internal/migrations"
	"stories-v13/internal/routing"
)

const envFile = ".env"

// Init sets up and starts the server. It only returns on a fatal error.
func Init() {
	if err := godotenv.Load(envFile); err != nil {
		log.Info("No .env file found, using environment variables from system")
	} else {
		log.Info("Loaded environment variables from .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("error loading configuration: ", err)
	}

	setLogLevel(cfg.LogLevel)

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name)

	if err = migrations.Run(context.Background(), dsn); err != nil {
		log.Fatal("error applying migrations: ", err)
	}
	log.Info("Database schema up to date")

	pool := initializeDatabase(dsn)
	defer pool.Close()

	databaseMgr := managers.NewDatabaseManager(pool)
	mailMgr := managers.NewMailManager(cfg.Mail, cfg.PublicBaseURL)
	jwtMgr := managers.NewJWTManager(cfg.JWT.Secret)

	storageMgr, err := managers.NewStorageManager(cfg.Storage)
	if err != nil {
		log.Fatal("error initializing storage manager: ", err)
	}

	router := routing.InitRouter(cfg, databaseMgr, mailMgr, jwtMgr, storageMgr)
	log.Info("Initialized router")

	// Handle interrupt signal gracefully
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)

		<-c
		log.Println("Server shutting down...")
		os.Exit(0)
	}()

	log.Printf("Starting server on port %s...\n", cfg.Port)
	if err = http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal("Error starting server: ", err)
	}
}

func initializeDatabase(dsn string) *pgxpool.Pool {
	log.Info("Initializing database")

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		log.Fatal("error configuring database: ", err)
	}

	poolConfig.MinConns = 5
	poolConfig.MaxConns = 30
	poolConfig.MaxConnIdleTime = time.Minute * 2
	poolConfig.HealthCheckPeriod = time.Minute * 1

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		log.Fatal("error connecting to database: ", err)
	}
	log.Info("Connected to database")

	return pool
}

func setLogLevel(logLevel string) {
	switch logLevel {
	case "DEBUG":
		log.SetLevel(log.DebugLevel)
	case "INFO":
		log.SetLevel(log.InfoLevel)
	case "WARN":
		log.SetLevel(log.WarnLevel)
	case "ERROR":
		log.SetLevel(log.ErrorLevel)
	case "FATAL":
		log.SetLevel(log.FatalLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}

	log.SetReportCaller(true)
	log.SetOutput(os.Stdout)
}
