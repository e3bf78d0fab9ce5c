package db

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/go-sql-driver/mysql"
)

// Connect returns a MariaDB connection using env vars.
func Connect() (*sql.DB, error) {
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASS")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	name := os.Getenv("DB_NAME")
	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "3306"
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4,utf8", user, pass, host, port, name)
	return sql.Open("mysql", dsn)
}

// EnsureSchema creates the static transit dataset tables if not exist.
// The tables are populated by the CLI importer (cmd/cli) from LTA DataMall.
func EnsureSchema(db *sql.DB) error {
	if skip := strings.TrimSpace(os.Getenv("DB_SKIP_SCHEMA")); strings.EqualFold(skip, "true") || skip == "1" {
		log.Printf("EnsureSchema: skipped (DB_SKIP_SCHEMA=%q)", skip)
		return nil
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS bus_stops (
			code VARCHAR(8) PRIMARY KEY,
			description VARCHAR(255) NOT NULL,
			road_name VARCHAR(255) NOT NULL,
			latitude DOUBLE NOT NULL,
			longitude DOUBLE NOT NULL
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
	`); err != nil {
		return err
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS bus_service_directions (
			service_no VARCHAR(16) NOT NULL,
			direction INT NOT NULL,
			category VARCHAR(32) NOT NULL DEFAULT '',
			origin_code VARCHAR(8) NOT NULL,
			destination_code VARCHAR(8) NOT NULL,
			am_peak_freq VARCHAR(16) NOT NULL DEFAULT '',
			am_offpeak_freq VARCHAR(16) NOT NULL DEFAULT '',
			pm_peak_freq VARCHAR(16) NOT NULL DEFAULT '',
			pm_offpeak_freq VARCHAR(16) NOT NULL DEFAULT '',
			PRIMARY KEY (service_no, direction)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
	`); err != nil {
		return err
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS bus_route_stops (
			service_no VARCHAR(16) NOT NULL,
			direction INT NOT NULL,
			stop_sequence INT NOT NULL,
			stop_code VARCHAR(8) NOT NULL,
			PRIMARY KEY (service_no, direction, stop_sequence)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
	`); err != nil {
		return err
	}

	if _, err := db.Exec(`
		CREATE INDEX idx_bus_stops_description ON bus_stops(description);
	`); err != nil {
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "duplicate") {
			// index already exists, nothing to do
		} else if strings.Contains(errMsg, "permission denied") {
			log.Printf("EnsureSchema: unable to create bus_stops index (permission denied): %v", err)
		} else {
			return err
		}
	}

	return nil
}
