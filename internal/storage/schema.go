// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines day documents, the sample log, users, alerts, and daily tasks.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS day_documents (
		user_id TEXT NOT NULL,
		collection TEXT NOT NULL,
		day TEXT NOT NULL,
		field TEXT NOT NULL,
		value REAL NOT NULL,
		written_at DATETIME NOT NULL,
		PRIMARY KEY (user_id, collection, day, field)
	);

	CREATE TABLE IF NOT EXISTS samples (
		id TEXT PRIMARY KEY,
		sample_type TEXT NOT NULL,
		value REAL NOT NULL,
		unit TEXT NOT NULL,
		recorded_at DATETIME NOT NULL,
		notes TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS workouts (
		id TEXT PRIMARY KEY,
		workout_type TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		duration_minutes INTEGER NOT NULL DEFAULT 0,
		notes TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS sleep_segments (
		id TEXT PRIMARY KEY,
		state TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		ended_at DATETIME NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		paired_with TEXT NOT NULL DEFAULT '',
		device_token TEXT NOT NULL DEFAULT '',
		time_zone TEXT NOT NULL DEFAULT '',
		utc_offset_seconds INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS alerts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		alert_type TEXT NOT NULL,
		from_user_id TEXT NOT NULL,
		from_user_name TEXT NOT NULL,
		score REAL NOT NULL,
		percentile REAL NOT NULL,
		timestamp DATETIME NOT NULL,
		status TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS daily_tasks (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		status TEXT NOT NULL,
		score REAL,
		error TEXT,
		processed_at DATETIME,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_day_documents_day ON day_documents(user_id, collection, day);
	CREATE INDEX IF NOT EXISTS idx_samples_type_recorded ON samples(sample_type, recorded_at DESC);
	CREATE INDEX IF NOT EXISTS idx_workouts_started ON workouts(started_at DESC);
	CREATE INDEX IF NOT EXISTS idx_sleep_started ON sleep_segments(started_at);
	CREATE INDEX IF NOT EXISTS idx_alerts_user ON alerts(user_id, timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_tasks_user_status ON daily_tasks(user_id, status, timestamp DESC);
	`

	_, err := d.db.Exec(schema)
	return err
}
