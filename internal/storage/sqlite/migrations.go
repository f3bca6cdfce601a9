package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Item order matters to the UI, so receipt_items carries an explicit
// position column instead of relying on insertion order.
const schema = `
CREATE TABLE IF NOT EXISTS receipts (
    id TEXT PRIMARY KEY,
    header TEXT NOT NULL,
    subtotal REAL NOT NULL,
    total REAL NOT NULL,
    additional_fees REAL NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS receipt_items (
    id TEXT PRIMARY KEY,
    receipt_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    quantity REAL NOT NULL,
    unit_price REAL NOT NULL,
    line_total REAL NOT NULL,
    FOREIGN KEY (receipt_id) REFERENCES receipts(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS splits (
    receipt_id TEXT PRIMARY KEY,
    strategy TEXT NOT NULL,
    calculated_total REAL NOT NULL,
    original_total REAL NOT NULL,
    verified INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (receipt_id) REFERENCES receipts(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS split_participants (
    receipt_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    PRIMARY KEY (receipt_id, position),
    FOREIGN KEY (receipt_id) REFERENCES splits(receipt_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS split_shares (
    receipt_id TEXT NOT NULL,
    participant TEXT NOT NULL,
    amount REAL NOT NULL,
    PRIMARY KEY (receipt_id, participant),
    FOREIGN KEY (receipt_id) REFERENCES splits(receipt_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS item_assignments (
    receipt_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    item_name TEXT NOT NULL,
    participant TEXT NOT NULL,
    amount REAL NOT NULL,
    PRIMARY KEY (receipt_id, position),
    FOREIGN KEY (receipt_id) REFERENCES splits(receipt_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_receipt_items_receipt_id ON receipt_items(receipt_id);
CREATE INDEX IF NOT EXISTS idx_split_shares_receipt_id ON split_shares(receipt_id);
CREATE INDEX IF NOT EXISTS idx_item_assignments_receipt_id ON item_assignments(receipt_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
