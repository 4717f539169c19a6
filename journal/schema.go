package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	dataset TEXT NOT NULL,
	preset TEXT NOT NULL,
	initial_capital REAL NOT NULL,
	accounts INTEGER NOT NULL,
	start_date DATETIME NOT NULL,
	end_date DATETIME NOT NULL,
	final_value REAL NOT NULL,
	return_pct REAL NOT NULL,
	trades INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
	run_id TEXT NOT NULL,
	date DATETIME NOT NULL,
	account INTEGER NOT NULL,
	action TEXT NOT NULL,
	price REAL NOT NULL,
	shares REAL NOT NULL,
	amount REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS daily (
	run_id TEXT NOT NULL,
	date DATETIME NOT NULL,
	close_price REAL NOT NULL,
	total_value REAL NOT NULL,
	filled_accounts INTEGER NOT NULL,
	empty_accounts INTEGER NOT NULL,
	total_return_pct REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_run ON trades(run_id, date);
CREATE INDEX IF NOT EXISTS idx_daily_run ON daily(run_id, date);
`
