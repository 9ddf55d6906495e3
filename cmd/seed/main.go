package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/rotaworks-dev/staffhub/backend/internal/config"
	"github.com/rotaworks-dev/staffhub/backend/internal/repository"
	"github.com/rotaworks-dev/staffhub/backend/internal/seed"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int

	flag.IntVar(&op, "op", 0, "operation (1: random staff, 2: locations and categories, 3: a week of open shifts, 4: availability for all staff, 5: monthly pay periods)")
	flag.IntVar(&n, "n", 5, "how many records to insert, where the operation takes a count")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("failed to connect to database", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	org, err := repo.EnsureOrganization(cfg.Organization.Name)
	if err != nil {
		logger.Error("failed to ensure organization", "error", err)
		return
	}

	switch op {
	case 0:
		slog.Error("no operation given")
	case 1:
		if n <= 0 {
			slog.Error("staff count must be positive")
			return
		}
		seed.Staff(repo, org.ID, n, cfg.Seed.Staff.Password, cfg.Email.StaffDomain)
	case 2:
		seed.LocationsAndCategories(repo, org.ID)
	case 3:
		if n <= 0 {
			slog.Error("shifts per day must be positive")
			return
		}
		seed.Shifts(repo, org.ID, n)
	case 4:
		seed.Availability(repo, org.ID)
	case 5:
		if n <= 0 {
			slog.Error("pay period count must be positive")
			return
		}
		seed.PayPeriods(repo, org.ID, n)
	default:
		slog.Error("unknown operation")
	}
}
