package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

const taskColumns = `id, title, description, date, time, end_time, completed, priority, category, system_id, system_name, technique, created_at, updated_at`

type SQLiteRepository struct {
	db *sql.DB
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// OpenSQLite opens (creating if needed) the database at path and applies migrations.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
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

func (r *SQLiteRepository) CreateTask(ctx context.Context, in Task) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO tasks (`+taskColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			in.ID, in.Title, in.Description, in.Date, in.Time, in.EndTime, boolInt(in.Completed),
			in.Priority, in.Category, in.SystemID, in.SystemName, in.Technique,
			mustTime(in.CreatedAt), mustTime(in.UpdatedAt),
		)
		if err != nil {
			return err
		}
		return insertSubtasks(ctx, tx, in.ID, in.Subtasks)
	})
}

func (r *SQLiteRepository) GetTask(ctx context.Context, id string) (Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	subtasks, err := r.loadSubtasks(ctx, []string{id})
	if err != nil {
		return Task{}, err
	}
	task.Subtasks = subtasks[id]
	return task, nil
}

// UpdateTask rewrites the task row and replaces its subtasks.
func (r *SQLiteRepository) UpdateTask(ctx context.Context, in Task) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE tasks
			SET title = ?, description = ?, date = ?, time = ?, end_time = ?, completed = ?, priority = ?,
				category = ?, system_id = ?, system_name = ?, technique = ?, updated_at = ?
			WHERE id = ?`,
			in.Title, in.Description, in.Date, in.Time, in.EndTime, boolInt(in.Completed), in.Priority,
			in.Category, in.SystemID, in.SystemName, in.Technique, mustTime(in.UpdatedAt), in.ID,
		)
		if err != nil {
			return err
		}
		if err := checkRowsAffected(res); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM subtasks WHERE task_id = ?`, in.ID); err != nil {
			return err
		}
		return insertSubtasks(ctx, tx, in.ID, in.Subtasks)
	})
}

func (r *SQLiteRepository) DeleteTask(ctx context.Context, id string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM subtasks WHERE task_id = ?`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
		if err != nil {
			return err
		}
		return checkRowsAffected(res)
	})
}

func (r *SQLiteRepository) ListTasks(ctx context.Context, filter TaskListFilter) ([]Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	clauses := make([]string, 0, 3)
	args := make([]any, 0, 5)
	if filter.Date != "" {
		clauses = append(clauses, "date = ?")
		args = append(args, filter.Date)
	}
	if filter.SystemID != "" {
		clauses = append(clauses, "system_id = ?")
		args = append(args, filter.SystemID)
	}
	if filter.Completed != nil {
		clauses = append(clauses, "completed = ?")
		args = append(args, boolInt(*filter.Completed))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY date ASC, time ASC, created_at ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Task, 0)
	ids := make([]string, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
		ids = append(ids, task.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	subtasks, err := r.loadSubtasks(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Subtasks = subtasks[out[i].ID]
	}
	return out, nil
}

func (r *SQLiteRepository) SetSubtaskCompleted(ctx context.Context, taskID, subtaskID string, completed bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE subtasks SET completed = ? WHERE id = ? AND task_id = ?`,
		boolInt(completed), subtaskID, taskID)
	if err != nil {
		return err
	}
	if err := checkRowsAffected(res); err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `UPDATE tasks SET updated_at = ? WHERE id = ?`, mustTime(time.Now()), taskID)
	return err
}

func (r *SQLiteRepository) loadSubtasks(ctx context.Context, taskIDs []string) (map[string][]Subtask, error) {
	out := make(map[string][]Subtask, len(taskIDs))
	if len(taskIDs) == 0 {
		return out, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(taskIDs)), ",")
	args := make([]any, 0, len(taskIDs))
	for _, id := range taskIDs {
		args = append(args, id)
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, task_id, position, title, completed
		FROM subtasks WHERE task_id IN (`+placeholders+`)
		ORDER BY task_id, position`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var st Subtask
		var completed int
		if err := rows.Scan(&st.ID, &st.TaskID, &st.Position, &st.Title, &completed); err != nil {
			return nil, err
		}
		st.Completed = completed == 1
		out[st.TaskID] = append(out[st.TaskID], st)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func insertSubtasks(ctx context.Context, tx *sql.Tx, taskID string, subtasks []Subtask) error {
	for i, st := range subtasks {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO subtasks (id, task_id, position, title, completed)
			VALUES (?, ?, ?, ?, ?)`,
			st.ID, taskID, i, st.Title, boolInt(st.Completed),
		); err != nil {
			return fmt.Errorf("insert subtask %s: %w", st.ID, err)
		}
	}
	return nil
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		if limit <= 0 {
			sql += " LIMIT -1"
		}
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (Task, error) {
	var out Task
	var completed int
	var created, updated string
	if err := s.Scan(&out.ID, &out.Title, &out.Description, &out.Date, &out.Time, &out.EndTime, &completed,
		&out.Priority, &out.Category, &out.SystemID, &out.SystemName, &out.Technique, &created, &updated); err != nil {
		return Task{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Task{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return Task{}, err
	}
	out.Completed = completed == 1
	out.CreatedAt = createdAt
	out.UpdatedAt = updatedAt
	return out, nil
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
