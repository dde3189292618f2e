package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Profile is a named calibration for one user and camera placement:
// position offset and scale for the mapper plus the classifier thresholds.
type Profile struct {
	ID                string
	Name              string
	OffsetX           float64
	OffsetY           float64
	OffsetZ           float64
	Scale             float64
	PinchThreshold    float64
	ExtendedThreshold float64
	Active            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ProfileRepository provides CRUD operations for calibration profiles.
type ProfileRepository struct {
	db *sql.DB
}

// Profiles returns the calibration profile repository for this store.
func (s *Store) Profiles() *ProfileRepository {
	return &ProfileRepository{db: s.db}
}

const profileColumns = `id, name, offset_x, offset_y, offset_z, scale,
	pinch_threshold, extended_threshold, active, created_at, updated_at`

func scanProfile(row interface{ Scan(...any) error }) (*Profile, error) {
	p := &Profile{}
	var active int
	err := row.Scan(
		&p.ID, &p.Name, &p.OffsetX, &p.OffsetY, &p.OffsetZ, &p.Scale,
		&p.PinchThreshold, &p.ExtendedThreshold, &active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Active = active != 0
	return p, nil
}

// Create inserts a new profile. A missing ID is generated; a zero scale
// defaults to 1.
func (r *ProfileRepository) Create(p *Profile) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Scale == 0 {
		p.Scale = 1.0
	}

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO calibration_profiles
		 (id, name, offset_x, offset_y, offset_z, scale, pinch_threshold, extended_threshold, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.OffsetX, p.OffsetY, p.OffsetZ, p.Scale,
		p.PinchThreshold, p.ExtendedThreshold, boolToInt(p.Active), p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// GetByID retrieves a profile by its ID.
func (r *ProfileRepository) GetByID(id string) (*Profile, error) {
	p, err := scanProfile(r.db.QueryRow(
		`SELECT `+profileColumns+` FROM calibration_profiles WHERE id = ?`, id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// GetActive retrieves the currently active profile, or ErrNotFound when
// none is active.
func (r *ProfileRepository) GetActive() (*Profile, error) {
	p, err := scanProfile(r.db.QueryRow(
		`SELECT ` + profileColumns + ` FROM calibration_profiles WHERE active = 1 LIMIT 1`,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// List retrieves all profiles, newest first.
func (r *ProfileRepository) List() ([]*Profile, error) {
	rows, err := r.db.Query(
		`SELECT ` + profileColumns + ` FROM calibration_profiles ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}

// Update updates an existing profile.
func (r *ProfileRepository) Update(p *Profile) error {
	p.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE calibration_profiles
		 SET name = ?, offset_x = ?, offset_y = ?, offset_z = ?, scale = ?,
		     pinch_threshold = ?, extended_threshold = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name, p.OffsetX, p.OffsetY, p.OffsetZ, p.Scale,
		p.PinchThreshold, p.ExtendedThreshold, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return err
	}

	return requireRow(result)
}

// Activate marks the given profile as active and deactivates all others.
func (r *ProfileRepository) Activate(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE calibration_profiles SET active = 0 WHERE active = 1`); err != nil {
		return err
	}

	result, err := tx.Exec(`UPDATE calibration_profiles SET active = 1, updated_at = ? WHERE id = ?`, time.Now(), id)
	if err != nil {
		return err
	}
	if err := requireRow(result); err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes a profile by its ID.
func (r *ProfileRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM calibration_profiles WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func requireRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
