package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/binmorph/internal/grid"
	"github.com/banshee-data/binmorph/internal/monitoring"
)

// ErrNotFound is returned when a snapshot ID does not exist.
var ErrNotFound = errors.New("store: snapshot not found")

// Snapshot matches the grid_snapshots table.
type Snapshot struct {
	ID           string // snapshot_id TEXT PRIMARY KEY, generated when empty
	Label        string // label TEXT NOT NULL
	Operation    string // operation TEXT NOT NULL ("input", "dilate", ...)
	Width        int    // width INTEGER NOT NULL
	Height       int    // height INTEGER NOT NULL
	KernelWidth  int    // kernel_width INTEGER NOT NULL, 0 for inputs
	KernelHeight int    // kernel_height INTEGER NOT NULL, 0 for inputs
	SetCount     int    // set_count INTEGER NOT NULL
	GridBlob     []byte // grid_blob BLOB NOT NULL (grid.MarshalBinary)
	CreatedAtNs  int64  // created_at_ns INTEGER NOT NULL
}

// Insert stores snap. If snap.ID is empty a new UUID is assigned, and a zero
// CreatedAtNs is stamped with the current time.
func (s *Store) Insert(snap *Snapshot) error {
	if snap.ID == "" {
		snap.ID = uuid.New().String()
	}
	if snap.CreatedAtNs == 0 {
		snap.CreatedAtNs = time.Now().UnixNano()
	}

	_, err := s.db.Exec(`
		INSERT INTO grid_snapshots (
			snapshot_id, label, operation, width, height,
			kernel_width, kernel_height, set_count, grid_blob, created_at_ns
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		snap.ID,
		snap.Label,
		snap.Operation,
		snap.Width,
		snap.Height,
		snap.KernelWidth,
		snap.KernelHeight,
		snap.SetCount,
		snap.GridBlob,
		snap.CreatedAtNs,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

const snapshotColumns = `snapshot_id, label, operation, width, height,
	kernel_width, kernel_height, set_count, grid_blob, created_at_ns`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSnapshot(row rowScanner) (*Snapshot, error) {
	var snap Snapshot
	err := row.Scan(
		&snap.ID,
		&snap.Label,
		&snap.Operation,
		&snap.Width,
		&snap.Height,
		&snap.KernelWidth,
		&snap.KernelHeight,
		&snap.SetCount,
		&snap.GridBlob,
		&snap.CreatedAtNs,
	)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// Get retrieves a snapshot by ID.
func (s *Store) Get(id string) (*Snapshot, error) {
	row := s.db.QueryRow(`SELECT `+snapshotColumns+` FROM grid_snapshots WHERE snapshot_id = ?`, id)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return snap, nil
}

// List returns snapshots newest first, optionally filtered by label.
func (s *Store) List(label string) ([]*Snapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM grid_snapshots`
	var args []interface{}
	if label != "" {
		query += ` WHERE label = ?`
		args = append(args, label)
	}
	query += ` ORDER BY created_at_ns DESC, snapshot_id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []*Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Delete removes a snapshot by ID.
func (s *Store) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM grid_snapshots WHERE snapshot_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// SaveGrid serialises g and inserts it as a snapshot. kernel may be nil for
// input grids. It returns the new snapshot ID.
func (s *Store) SaveGrid(label, operation string, g, kernel *grid.Grid) (string, error) {
	blob, err := g.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("serialise grid: %w", err)
	}
	snap := &Snapshot{
		Label:     label,
		Operation: operation,
		Width:     g.Width(),
		Height:    g.Height(),
		SetCount:  g.Count(),
		GridBlob:  blob,
	}
	if kernel != nil {
		snap.KernelWidth = kernel.Width()
		snap.KernelHeight = kernel.Height()
	}
	if err := s.Insert(snap); err != nil {
		return "", err
	}
	monitoring.Logf("[GridStore] saved snapshot %s label=%s op=%s %dx%d set=%d bytes=%d",
		snap.ID, label, operation, snap.Width, snap.Height, snap.SetCount, len(blob))
	return snap.ID, nil
}

// LoadGrid retrieves and decodes the grid stored under id.
func (s *Store) LoadGrid(id string) (*grid.Grid, error) {
	snap, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	var g grid.Grid
	if err := g.UnmarshalBinary(snap.GridBlob); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", id, err)
	}
	if g.Width() != snap.Width || g.Height() != snap.Height {
		return nil, fmt.Errorf("snapshot %s: blob is %dx%d, row says %dx%d",
			id, g.Width(), g.Height(), snap.Width, snap.Height)
	}
	return &g, nil
}
