package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oakhollow/staff-rota/pkg/core/model"
	"github.com/oakhollow/staff-rota/pkg/db"
)

const staffColumns = `id, first_name, last_name, roles, contracted_hours,
	compliance_overall, compliance_training, compliance_certification,
	compliance_supervision, compliance_documentation,
	attendance_rate, punctuality_score, shift_completion_rate, feedback_score,
	preferred_slots, active`

func scanStaffRecord(row pgx.Row) (db.StaffRecord, error) {
	var r db.StaffRecord
	err := row.Scan(&r.ID, &r.FirstName, &r.LastName, &r.Roles, &r.ContractedHours,
		&r.ComplianceOverall, &r.ComplianceTraining, &r.ComplianceCertification,
		&r.ComplianceSupervision, &r.ComplianceDocumentation,
		&r.AttendanceRate, &r.PunctualityScore, &r.ShiftCompletionRate, &r.FeedbackScore,
		&r.PreferredSlots, &r.Active)
	return r, err
}

// ListStaff retrieves the full staff directory with training and leave
// records attached.
func (d *DB) ListStaff(ctx context.Context) ([]model.StaffMember, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+staffColumns+`
		FROM staff
		ORDER BY last_name, first_name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query staff: %w", err)
	}
	defer rows.Close()

	var records []db.StaffRecord
	for rows.Next() {
		r, err := scanStaffRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan staff record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating staff: %w", err)
	}

	training, err := d.trainingByStaff(ctx)
	if err != nil {
		return nil, err
	}
	leave, err := d.leaveByStaff(ctx)
	if err != nil {
		return nil, err
	}

	staff := make([]model.StaffMember, 0, len(records))
	for _, r := range records {
		staff = append(staff, r.ToDomain(training[r.ID], leave[r.ID]))
	}
	return staff, nil
}

// GetStaff retrieves one staff directory record by id.
func (d *DB) GetStaff(ctx context.Context, id string) (model.StaffMember, error) {
	record, err := scanStaffRecord(d.pool.QueryRow(ctx, `
		SELECT `+staffColumns+`
		FROM staff
		WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.StaffMember{}, db.ErrNotFound
	}
	if err != nil {
		return model.StaffMember{}, fmt.Errorf("failed to query staff %s: %w", id, err)
	}

	training, err := d.trainingByStaff(ctx, id)
	if err != nil {
		return model.StaffMember{}, err
	}
	leave, err := d.leaveByStaff(ctx, id)
	if err != nil {
		return model.StaffMember{}, err
	}

	return record.ToDomain(training[id], leave[id]), nil
}

// trainingByStaff loads training module rows grouped by staff id, for
// every staff member or only the given ids.
func (d *DB) trainingByStaff(ctx context.Context, staffIDs ...string) (map[string][]db.TrainingModuleRecord, error) {
	query := `SELECT id, staff_id, name, required, status, expires_at FROM training_modules`
	var args []any
	if len(staffIDs) > 0 {
		query += ` WHERE staff_id = ANY($1)`
		args = append(args, staffIDs)
	}

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query training modules: %w", err)
	}
	defer rows.Close()

	byStaff := make(map[string][]db.TrainingModuleRecord)
	for rows.Next() {
		var tm db.TrainingModuleRecord
		if err := rows.Scan(&tm.ID, &tm.StaffID, &tm.Name, &tm.Required, &tm.Status, &tm.ExpiresAt); err != nil {
			return nil, fmt.Errorf("failed to scan training module: %w", err)
		}
		byStaff[tm.StaffID] = append(byStaff[tm.StaffID], tm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating training modules: %w", err)
	}
	return byStaff, nil
}

// leaveByStaff loads leave interval rows grouped by staff id, for every
// staff member or only the given ids.
func (d *DB) leaveByStaff(ctx context.Context, staffIDs ...string) (map[string][]db.LeaveIntervalRecord, error) {
	query := `SELECT id, staff_id, start_date, end_date FROM leave_intervals`
	var args []any
	if len(staffIDs) > 0 {
		query += ` WHERE staff_id = ANY($1)`
		args = append(args, staffIDs)
	}

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave intervals: %w", err)
	}
	defer rows.Close()

	byStaff := make(map[string][]db.LeaveIntervalRecord)
	for rows.Next() {
		var li db.LeaveIntervalRecord
		if err := rows.Scan(&li.ID, &li.StaffID, &li.StartDate, &li.EndDate); err != nil {
			return nil, fmt.Errorf("failed to scan leave interval: %w", err)
		}
		byStaff[li.StaffID] = append(byStaff[li.StaffID], li)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leave intervals: %w", err)
	}
	return byStaff, nil
}
