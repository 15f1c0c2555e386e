package warehouse

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"

	"cvalyze/internal/cv"
)

// DB is the append-only columnar store for extracted candidate records.
type DB struct {
	connection *sql.DB
}

func NewDB(dataSourceName string) (*DB, error) {
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, err
	}

	// Connection pool tuning
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &DB{connection: db}, nil
}

func (db *DB) Close() {
	if err := db.connection.Close(); err != nil {
		log.Println("Error closing the database connection:", err)
	}
}

// EnsureSchema creates the destination table when it does not exist yet.
// The table is only ever appended to.
func (db *DB) EnsureSchema(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS cv_data (
		id BIGSERIAL PRIMARY KEY,
		batch_id UUID NOT NULL,
		name TEXT,
		profession TEXT,
		phone_number TEXT,
		email TEXT,
		location TEXT,
		github_link TEXT,
		linkedin_link TEXT,
		skills TEXT[] NOT NULL DEFAULT '{}',
		education TEXT[] NOT NULL DEFAULT '{}',
		experience TEXT[] NOT NULL DEFAULT '{}',
		projects JSONB NOT NULL DEFAULT '[]',
		certifications TEXT[] NOT NULL DEFAULT '{}',
		achievements TEXT[] NOT NULL DEFAULT '{}',
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		country TEXT,
		gender TEXT,
		loaded_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	_, err := db.connection.ExecContext(ctx, query)
	return err
}

// Append writes one sanitized batch inside a single transaction. Write
// mode is append, never overwrite.
func (db *DB) Append(ctx context.Context, batchID string, records []cv.CandidateRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := db.connection.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch load: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO cv_data
		(batch_id, name, profession, phone_number, email, location,
		 github_link, linkedin_link, skills, education, experience,
		 projects, certifications, achievements, latitude, longitude,
		 country, gender)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`)
	if err != nil {
		return fmt.Errorf("prepare batch load: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		projects, err := json.Marshal(r.Projects)
		if err != nil {
			return fmt.Errorf("encode projects: %w", err)
		}

		_, err = stmt.ExecContext(ctx,
			batchID,
			r.Name,
			r.Profession,
			r.PhoneNumber,
			r.Email,
			r.Location,
			r.GithubLink,
			r.LinkedinLink,
			pq.Array(r.Skills),
			pq.Array(r.Education),
			pq.Array(r.Experience),
			projects,
			pq.Array(r.Certifications),
			pq.Array(r.Achievements),
			r.Latitude,
			r.Longitude,
			r.Country,
			r.Gender,
		)
		if err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch load: %w", err)
	}

	log.Printf("Uploaded %d CV records to warehouse (batch %s)", len(records), batchID)
	return nil
}
