package db

import (
	"database/sql"
	"fmt"
	"log"

	"audiolab/config"
	"audiolab/model"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

var DB *sql.DB

// ConnectDB establishes a connection to the database.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = DB.Ping(); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to the database.")
	return nil
}

// InitDB initializes the database schema, creating tables if they don't
// exist, and seeds the well-known labels.
func InitDB() error {
	for _, create := range []func() error{
		createRecordersTable,
		createRecordingParametersTable,
		createSeriesTable,
		createLabelsTable,
		createRecordsTable,
	} {
		if err := create(); err != nil {
			return err
		}
	}

	if err := seedLabels(); err != nil {
		return err
	}

	log.Println("Database initialization completed.")
	return nil
}

func createRecordersTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS recorders (
		id INT AUTO_INCREMENT PRIMARY KEY,
		uid VARCHAR(36) NOT NULL UNIQUE,
		location_description VARCHAR(100),
		current_series_uid VARCHAR(36),
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create recorders table: %w", err)
	}
	return nil
}

func createRecordingParametersTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS recording_parameters (
		id INT AUTO_INCREMENT PRIMARY KEY,
		uid VARCHAR(36) NOT NULL UNIQUE,
		samplerate INT NOT NULL,
		channels INT NOT NULL,
		duration DECIMAL(10,7) NOT NULL,
		amplification DECIMAL(10,7) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create recording_parameters table: %w", err)
	}
	return nil
}

func createSeriesTable() error {
	// References are uid-valued, not row ids.
	query := `
	CREATE TABLE IF NOT EXISTS series (
		id INT AUTO_INCREMENT PRIMARY KEY,
		uid VARCHAR(36) NOT NULL UNIQUE,
		description VARCHAR(255),
		parameters_uid VARCHAR(36) NOT NULL,
		recorder_uid VARCHAR(36) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_series_parameters FOREIGN KEY (parameters_uid) REFERENCES recording_parameters(uid),
		CONSTRAINT fk_series_recorder FOREIGN KEY (recorder_uid) REFERENCES recorders(uid)
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create series table: %w", err)
	}
	return nil
}

func createLabelsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS labels (
		id INT AUTO_INCREMENT PRIMARY KEY,
		uid VARCHAR(36) NOT NULL UNIQUE,
		description VARCHAR(255),
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create labels table: %w", err)
	}
	return nil
}

func createRecordsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS records (
		id INT AUTO_INCREMENT PRIMARY KEY,
		uid VARCHAR(36) NOT NULL UNIQUE,
		series_uid VARCHAR(36) NOT NULL,
		label_uid VARCHAR(36),
		start_time TIMESTAMP NULL,
		uploaded_at TIMESTAMP NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_records_series FOREIGN KEY (series_uid) REFERENCES series(uid),
		CONSTRAINT fk_records_label FOREIGN KEY (label_uid) REFERENCES labels(uid)
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create records table: %w", err)
	}
	return nil
}

// seedLabels inserts the two well-known classification labels. They are
// skipped when already present, so repeated startups are harmless.
func seedLabels() error {
	seeds := map[string]string{
		model.LabelNormal:  "Expected capture without irregularities",
		model.LabelAnomaly: "Capture containing an acoustic irregularity",
	}
	for uid, description := range seeds {
		var existing int64
		err := DB.QueryRow("SELECT id FROM labels WHERE uid = ?", uid).Scan(&existing)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("failed to check for label %q: %w", uid, err)
		}
		if _, err := DB.Exec("INSERT INTO labels (uid, description) VALUES (?, ?)", uid, description); err != nil {
			return fmt.Errorf("failed to seed label %q: %w", uid, err)
		}
		log.Printf("Seeded label %q.", uid)
	}
	return nil
}
