package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS datasets (
    name          TEXT PRIMARY KEY,
    source        TEXT NOT NULL DEFAULT '',
    first_year    INTEGER NOT NULL,
    last_year     INTEGER NOT NULL,
    imported_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS market_years (
    dataset       TEXT NOT NULL REFERENCES datasets(name) ON DELETE CASCADE,
    year          INTEGER NOT NULL,
    stock_return  REAL NOT NULL,
    bond_return   REAL NOT NULL,
    inflation     REAL NOT NULL,
    PRIMARY KEY (dataset, year)
);
`
