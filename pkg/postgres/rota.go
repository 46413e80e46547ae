package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oakhollow/staff-rota/pkg/core/model"
	"github.com/oakhollow/staff-rota/pkg/core/roster"
	"github.com/oakhollow/staff-rota/pkg/db"
)

const rotaColumns = `id, start_date, end_date, status, version,
	min_staff_per_shift, max_consecutive_days, min_rest_hours, requirements`

func scanRotaRecord(row pgx.Row) (*db.RotaRecord, error) {
	var r db.RotaRecord
	err := row.Scan(&r.ID, &r.StartDate, &r.EndDate, &r.Status, &r.Version,
		&r.MinStaffPerShift, &r.MaxConsecutiveDays, &r.MinRestHours, &r.Requirements)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// InsertRota stores a new rota aggregate: header, shifts and
// assignments, all in one transaction.
func (d *DB) InsertRota(ctx context.Context, rota *roster.Rota) error {
	header, err := db.NewRotaRecord(rota)
	if err != nil {
		return err
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO rota (id, start_date, end_date, status, version,
			min_staff_per_shift, max_consecutive_days, min_rest_hours, requirements)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, header.ID, header.StartDate, header.EndDate, header.Status, header.Version,
		header.MinStaffPerShift, header.MaxConsecutiveDays, header.MinRestHours,
		header.Requirements)
	if err != nil {
		return fmt.Errorf("failed to insert rota: %w", err)
	}

	if err := insertShifts(ctx, tx, rota); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// insertShifts writes the rota's shift and assignment rows inside the
// caller's transaction.
func insertShifts(ctx context.Context, tx pgx.Tx, rota *roster.Rota) error {
	for _, shift := range rota.Shifts {
		rec := db.NewShiftRecord(rota.ID, shift)
		_, err := tx.Exec(ctx, `
			INSERT INTO shift (id, rota_id, shift_date, time_slot, required_total,
				required_leaders, required_drivers, training_required, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, rec.ID, rec.RotaID, rec.ShiftDate, rec.TimeSlot, rec.RequiredTotal,
			rec.RequiredLeaders, rec.RequiredDrivers, rec.TrainingRequired, rec.Status)
		if err != nil {
			return fmt.Errorf("failed to insert shift: %w", err)
		}

		for _, asg := range db.NewAssignmentRecords(shift) {
			_, err := tx.Exec(ctx, `
				INSERT INTO assignment (shift_id, staff_id, role, assigned_at, assigned_by, override)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, asg.ShiftID, asg.StaffID, asg.Role, asg.AssignedAt, asg.AssignedBy, asg.Override)
			if err != nil {
				return fmt.Errorf("failed to insert assignment: %w", err)
			}
		}
	}
	return nil
}

// GetRota retrieves a rota aggregate by id.
func (d *DB) GetRota(ctx context.Context, id string) (*roster.Rota, error) {
	header, err := scanRotaRecord(d.pool.QueryRow(ctx, `
		SELECT `+rotaColumns+`
		FROM rota
		WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query rota %s: %w", id, err)
	}
	return d.loadRota(ctx, header)
}

// GetLatestRota retrieves the most recent rota that has not been
// archived. This is the week the CLI and API act on when no id is
// given.
func (d *DB) GetLatestRota(ctx context.Context) (*roster.Rota, error) {
	header, err := scanRotaRecord(d.pool.QueryRow(ctx, `
		SELECT `+rotaColumns+`
		FROM rota
		WHERE status <> $1
		ORDER BY start_date DESC, version DESC
		LIMIT 1
	`, string(roster.RotaArchived)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest rota: %w", err)
	}
	return d.loadRota(ctx, header)
}

// GetDraftRotaForWeek retrieves the draft rota starting on the given
// week, if one exists.
func (d *DB) GetDraftRotaForWeek(ctx context.Context, weekStart time.Time) (*roster.Rota, error) {
	header, err := scanRotaRecord(d.pool.QueryRow(ctx, `
		SELECT `+rotaColumns+`
		FROM rota
		WHERE start_date = $1 AND status = $2
		LIMIT 1
	`, model.DateOnly(weekStart), string(roster.RotaDraft)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query draft rota for week: %w", err)
	}
	return d.loadRota(ctx, header)
}

// ListRotas retrieves all rota header records, most recent week first.
func (d *DB) ListRotas(ctx context.Context) ([]db.RotaRecord, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+rotaColumns+`
		FROM rota
		ORDER BY start_date DESC, version DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rotas: %w", err)
	}
	defer rows.Close()

	var rotas []db.RotaRecord
	for rows.Next() {
		r, err := scanRotaRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rota: %w", err)
		}
		rotas = append(rotas, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rotas: %w", err)
	}
	return rotas, nil
}

// ReplaceRota overwrites a stored rota aggregate, guarded by the
// version the caller loaded. A concurrent writer that already advanced
// the version surfaces as ErrVersionConflict and nothing is changed. On
// success the rota's Version advances past expectedVersion.
func (d *DB) ReplaceRota(ctx context.Context, rota *roster.Rota, expectedVersion int) error {
	header, err := db.NewRotaRecord(rota)
	if err != nil {
		return err
	}
	header.Version = expectedVersion + 1

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE rota
		SET start_date = $2, end_date = $3, status = $4, version = $5,
			min_staff_per_shift = $6, max_consecutive_days = $7,
			min_rest_hours = $8, requirements = $9
		WHERE id = $1 AND version = $10
	`, header.ID, header.StartDate, header.EndDate, header.Status, header.Version,
		header.MinStaffPerShift, header.MaxConsecutiveDays, header.MinRestHours,
		header.Requirements, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to update rota: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM rota WHERE id = $1)`, rota.ID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check rota existence: %w", err)
		}
		if !exists {
			return db.ErrNotFound
		}
		return db.ErrVersionConflict
	}

	if _, err := tx.Exec(ctx, `DELETE FROM shift WHERE rota_id = $1`, rota.ID); err != nil {
		return fmt.Errorf("failed to clear rota shifts: %w", err)
	}
	if err := insertShifts(ctx, tx, rota); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	rota.Version = header.Version
	return nil
}

// loadRota assembles the rota aggregate for a header row.
func (d *DB) loadRota(ctx context.Context, header *db.RotaRecord) (*roster.Rota, error) {
	shifts, err := d.queryShifts(ctx, header.ID)
	if err != nil {
		return nil, err
	}
	assignments, err := d.queryAssignments(ctx, header.ID)
	if err != nil {
		return nil, err
	}
	return db.RotaFromRecords(header, shifts, assignments)
}

func (d *DB) queryShifts(ctx context.Context, rotaID string) ([]db.ShiftRecord, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, rota_id, shift_date, time_slot, required_total,
			required_leaders, required_drivers, training_required, status
		FROM shift
		WHERE rota_id = $1
	`, rotaID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var shifts []db.ShiftRecord
	for rows.Next() {
		var s db.ShiftRecord
		if err := rows.Scan(&s.ID, &s.RotaID, &s.ShiftDate, &s.TimeSlot, &s.RequiredTotal,
			&s.RequiredLeaders, &s.RequiredDrivers, &s.TrainingRequired, &s.Status); err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shifts: %w", err)
	}
	return shifts, nil
}

func (d *DB) queryAssignments(ctx context.Context, rotaID string) (map[string][]db.AssignmentRecord, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT a.shift_id, a.staff_id, a.role, a.assigned_at, a.assigned_by, a.override
		FROM assignment a
		JOIN shift s ON s.id = a.shift_id
		WHERE s.rota_id = $1
		ORDER BY a.assigned_at
	`, rotaID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	byShift := make(map[string][]db.AssignmentRecord)
	for rows.Next() {
		var a db.AssignmentRecord
		if err := rows.Scan(&a.ShiftID, &a.StaffID, &a.Role, &a.AssignedAt, &a.AssignedBy, &a.Override); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		byShift[a.ShiftID] = append(byShift[a.ShiftID], a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignments: %w", err)
	}
	return byShift, nil
}
