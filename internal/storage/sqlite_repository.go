package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/taskping/taskping/internal/model"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) GetState(ctx context.Context, userID string) (model.ConversationState, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, kind, step, draft_name, draft_priority
		FROM conversation_states WHERE user_id = ?`, userID)

	var sr stateRow
	err := row.Scan(&sr.UserID, &sr.Kind, &sr.Step, &sr.DraftName, &sr.DraftPriority)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Idle(), nil
	}
	if err != nil {
		return model.Idle(), err
	}
	return sr.toModel(), nil
}

func (r *SQLiteRepository) SetState(ctx context.Context, userID string, state model.ConversationState) error {
	sr := stateToRow(userID, state)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO conversation_states (user_id, kind, step, draft_name, draft_priority, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			kind = excluded.kind,
			step = excluded.step,
			draft_name = excluded.draft_name,
			draft_priority = excluded.draft_priority,
			updated_at = excluded.updated_at`,
		sr.UserID, sr.Kind, sr.Step, sr.DraftName, sr.DraftPriority, nowString(),
	)
	return err
}

func (r *SQLiteRepository) GetTasks(ctx context.Context, userID string) ([]model.Task, error) {
	tasks, _, err := r.loadTasks(ctx, r.db, userID)
	return tasks, err
}

func (r *SQLiteRepository) AddTask(ctx context.Context, userID string, task model.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var position int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), 0) + 1 FROM tasks WHERE user_id = ?`, userID,
	).Scan(&position); err != nil {
		return err
	}

	tr, err := taskToRow(userID, task, position)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO tasks (id, user_id, name, priority, deadline, sent_slots, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tr.ID, tr.UserID, tr.Name, tr.Priority, tr.Deadline, tr.SentSlots, tr.Position, nowString(),
	); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLiteRepository) RemoveTaskByIndex(ctx context.Context, userID string, index int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	tasks, _, err := r.loadTasks(ctx, tx, userID)
	if err != nil {
		return err
	}
	if index < 1 || index > len(tasks) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(tasks))
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND user_id = ?`, tasks[index-1].ID, userID)
	if err != nil {
		return err
	}
	if err := checkRowsAffected(res); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLiteRepository) UpdateTask(ctx context.Context, userID, taskID string, mutate func(*model.Task)) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	tasks, positions, err := r.loadTasks(ctx, tx, userID)
	if err != nil {
		return err
	}
	found := -1
	for i, t := range tasks {
		if t.ID == taskID {
			found = i
			break
		}
	}
	if found < 0 {
		return ErrNotFound
	}

	task := tasks[found]
	mutate(&task)
	if err := task.Validate(); err != nil {
		return err
	}
	tr, err := taskToRow(userID, task, positions[found])
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `
		UPDATE tasks SET name = ?, priority = ?, deadline = ?, sent_slots = ?
		WHERE id = ? AND user_id = ?`,
		tr.Name, tr.Priority, tr.Deadline, tr.SentSlots, taskID, userID,
	)
	if err != nil {
		return err
	}
	if err := checkRowsAffected(res); err != nil {
		return err
	}
	return tx.Commit()
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// loadTasks returns the user's decodable tasks in display order along with
// each task's stored position. Rows that fail to decode are dropped, so
// 1-based indexes always refer to the list a user actually sees.
func (r *SQLiteRepository) loadTasks(ctx context.Context, q querier, userID string) ([]model.Task, []int, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, priority, deadline, sent_slots, position
		FROM tasks WHERE user_id = ?
		ORDER BY priority ASC, position ASC`, userID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	positions := make([]int, 0)
	for rows.Next() {
		var tr taskRow
		if err := rows.Scan(&tr.ID, &tr.Name, &tr.Priority, &tr.Deadline, &tr.SentSlots, &tr.Position); err != nil {
			return nil, nil, err
		}
		task, decodeErr := tr.toModel()
		if decodeErr != nil {
			continue
		}
		tasks = append(tasks, task)
		positions = append(positions, tr.Position)
	}
	return tasks, positions, rows.Err()
}

func nowString() string {
	return time.Now().UTC().Format(sqliteTimeLayout)
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
