package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	_ "github.com/mattn/go-sqlite3"

	"github.com/infosegura/loteria-server/internal/errors"
	"github.com/infosegura/loteria-server/internal/logger"
	"github.com/infosegura/loteria-server/internal/models"
)

// Repository provides room persistence over SQLite. Rooms are stored as one
// JSON document per row, keyed by room id; no secondary indices are needed
// beyond the primary key and a full scan for sweeps and admin listings.
type Repository struct {
	db  *sql.DB
	log logger.Logger
}

// New creates a new Repository, opening (or creating) the database at dbPath
func New(dbPath string, log logger.Logger) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db, log: log}

	if err := repo.migrate(); err != nil {
		return nil, err
	}

	return repo, nil
}

// DB returns the underlying database connection
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS rooms (
			id TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}

// GetRoom retrieves a room by id
func (r *Repository) GetRoom(ctx context.Context, roomID string) (*models.Room, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM rooms WHERE id = ?`, roomID).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load room")
	}

	var room models.Room
	if err := json.Unmarshal([]byte(data), &room); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "corrupt room record")
	}
	if room.Players == nil {
		room.Players = make(map[string]*models.Player)
	}
	return &room, nil
}

// SaveRoom stores the full room state, replacing any previous version
func (r *Repository) SaveRoom(ctx context.Context, roomID string, room *models.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to encode room")
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO rooms (id, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
		roomID, string(data))
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to save room")
	}
	return nil
}

// DeleteRoom removes a room record. Deleting a missing room is not an error.
func (r *Repository) DeleteRoom(ctx context.Context, roomID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, roomID)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to delete room")
	}
	return nil
}

// ListRooms scans every stored room. Rows whose JSON no longer decodes are
// logged and skipped so one corrupt record cannot block sweeps or admin
// listings.
func (r *Repository) ListRooms(ctx context.Context) ([]RoomRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, data FROM rooms ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to list rooms")
	}
	defer rows.Close()

	var records []RoomRecord
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to scan room row")
		}

		var room models.Room
		if err := json.Unmarshal([]byte(data), &room); err != nil {
			r.log.Warn("Skipping corrupt room record", "room", id, "error", err)
			continue
		}
		if room.Players == nil {
			room.Players = make(map[string]*models.Player)
		}
		records = append(records, RoomRecord{ID: id, Room: &room})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to list rooms")
	}
	return records, nil
}

// DeleteAllRooms wipes the rooms table and returns the number of rows removed
func (r *Repository) DeleteAllRooms(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rooms`)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrInternal, "failed to clear rooms")
	}
	return res.RowsAffected()
}
