package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS views (
    profile_id           INTEGER NOT NULL,
    kind                 TEXT NOT NULL,
    payload              BLOB NOT NULL,
    fetched_at           TEXT NOT NULL,
    PRIMARY KEY (profile_id, kind)
);

CREATE TABLE IF NOT EXISTS submissions (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id           TEXT NOT NULL,
    profile_id           INTEGER NOT NULL,
    profile_name         TEXT,
    submitted_at         TEXT NOT NULL,
    reset_mode           INTEGER NOT NULL DEFAULT 0,
    accounts             INTEGER NOT NULL DEFAULT 0,
    recurring            INTEGER NOT NULL DEFAULT 0,
    categories           INTEGER NOT NULL DEFAULT 0,
    error                TEXT,
    payload              BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_submissions_profile ON submissions(profile_id, submitted_at);
`
