package sqlite

const schema = `
CREATE TABLE IF NOT EXISTS balances (
	account TEXT PRIMARY KEY,
	amount TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS settlements (
	id TEXT PRIMARY KEY,
	account TEXT NOT NULL,
	side TEXT NOT NULL,
	symbol TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	unit_price TEXT NOT NULL,
	total TEXT NOT NULL,
	currency TEXT NOT NULL,
	state TEXT NOT NULL,
	note TEXT NOT NULL DEFAULT '',
	created DATETIME NOT NULL,
	updated DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_settlements_state ON settlements(state);
`
