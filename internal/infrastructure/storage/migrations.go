package storage

const migrationsSQL = `
CREATE TABLE IF NOT EXISTS recipes (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	source_url  TEXT NOT NULL,
	source_name TEXT NOT NULL,
	data        TEXT NOT NULL,
	created_at  INTEGER NOT NULL,
	updated_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_recipes_source_url ON recipes(source_url);
CREATE INDEX IF NOT EXISTS idx_recipes_updated_at ON recipes(updated_at);
`
