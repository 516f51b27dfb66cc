// Package store keeps the composites on disk and their ownership in sqlite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/fullpage/lib/utils"
	"github.com/google/uuid"

	// sqlite driver
	_ "modernc.org/sqlite"
)

// ErrNotFound when the id doesn't exist
var ErrNotFound = errors.New("[store] shot not found")

// Shot is a stored composite
type Shot struct {
	ID      string
	Name    string
	Owner   string
	File    string // relative to the dir of the store, empty if the image was never written
	Width   int
	Height  int
	Created time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS shots (
	id      TEXT PRIMARY KEY,
	name    TEXT NOT NULL,
	owner   TEXT NOT NULL,
	file    TEXT NOT NULL DEFAULT '',
	width   INTEGER NOT NULL,
	height  INTEGER NOT NULL,
	created INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS shots_owner ON shots(owner);
CREATE TABLE IF NOT EXISTS shares (
	shot TEXT NOT NULL REFERENCES shots(id) ON DELETE CASCADE,
	viewer TEXT NOT NULL,
	PRIMARY KEY (shot, viewer)
);
`

// Store of shots
type Store struct {
	db  *sql.DB
	dir string
}

// Open the sqlite database at dsn, image files are kept under dir
func Open(dsn, dir string) (*Store, error) {
	err := utils.Mkdir(dir)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// sqlite only allows one writer, ":memory:" also needs a single connection
	db.SetMaxOpenConns(1)

	if _, err = db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, dir: dir}, nil
}

// Close the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Save the image as png and record it for the owner
func (s *Store) Save(ctx context.Context, owner, name string, img image.Image) (*Shot, error) {
	bin, err := utils.EncodePNG(img)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	shot := &Shot{
		ID:      uuid.New().String(),
		Name:    name,
		Owner:   owner,
		Width:   b.Dx(),
		Height:  b.Dy(),
		Created: time.Now().UTC().Truncate(time.Second),
	}
	shot.File = shot.ID + ".png"

	err = utils.OutputFile(filepath.Join(s.dir, shot.File), bin)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO shots (id, name, owner, file, width, height, created) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		shot.ID, shot.Name, shot.Owner, shot.File, shot.Width, shot.Height, shot.Created.Unix())
	if err != nil {
		_ = os.Remove(filepath.Join(s.dir, shot.File))
		return nil, err
	}

	return shot, nil
}

// Record a shot without writing any image, used for imports of existing files
func (s *Store) Record(ctx context.Context, shot *Shot) error {
	if shot.ID == "" {
		shot.ID = uuid.New().String()
	}
	if shot.Created.IsZero() {
		shot.Created = time.Now().UTC().Truncate(time.Second)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO shots (id, name, owner, file, width, height, created) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		shot.ID, shot.Name, shot.Owner, shot.File, shot.Width, shot.Height, shot.Created.Unix())
	return err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scan(row scanner) (*Shot, error) {
	var shot Shot
	var created int64
	err := row.Scan(&shot.ID, &shot.Name, &shot.Owner, &shot.File, &shot.Width, &shot.Height, &created)
	if err != nil {
		return nil, err
	}
	shot.Created = time.Unix(created, 0).UTC()
	return &shot, nil
}

// Get a shot by id
func (s *Store) Get(ctx context.Context, id string) (*Shot, error) {
	shot, err := scan(s.db.QueryRowContext(ctx,
		`SELECT id, name, owner, file, width, height, created FROM shots WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return shot, err
}

// List the shots the user can view, newest first
func (s *Store) List(ctx context.Context, user string) ([]*Shot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, owner, file, width, height, created FROM shots
		WHERE owner = ? OR id IN (SELECT shot FROM shares WHERE viewer = ?)
		ORDER BY created DESC, name`, user, user)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	list := []*Shot{}
	for rows.Next() {
		shot, err := scan(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, shot)
	}
	return list, rows.Err()
}

// Share the shot with another user
func (s *Store) Share(ctx context.Context, id, user string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO shares (shot, viewer) VALUES (?, ?)`, id, user)
	return err
}

// CanView returns true if the user owns the shot or it's shared with the user
func (s *Store) CanView(ctx context.Context, user string, shot *Shot) (bool, error) {
	if shot.Owner == user {
		return true, nil
	}
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM shares WHERE shot = ? AND viewer = ?`, shot.ID, user).Scan(&n)
	return n > 0, err
}

// Delete the shot and its file
func (s *Store) Delete(ctx context.Context, id string) error {
	shot, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `DELETE FROM shares WHERE shot = ?`, id)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `DELETE FROM shots WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if shot.File != "" {
		err = os.Remove(s.Path(shot))
		if os.IsNotExist(err) {
			return nil
		}
	}
	return err
}

// Path of the image file on disk
func (s *Store) Path(shot *Shot) string {
	return filepath.Join(s.dir, shot.File)
}

// Exists returns true if the shot has a file reference and the file is on disk
func (s *Store) Exists(shot *Shot) bool {
	if shot.File == "" {
		return false
	}
	return utils.FileExists(s.Path(shot))
}
