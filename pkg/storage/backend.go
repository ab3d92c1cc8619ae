package storage

import (
	"cmp"
	"database/sql"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"dsbench/pkg/bench"
	"dsbench/pkg/common"

	_ "modernc.org/sqlite"
)

// ResultsLog 把每次基准测试的结果持久化到 SQLite
type ResultsLog struct {
	db *sql.DB
	mu sync.Mutex
}

// Run is one row of the runs table.
type Run struct {
	ID      int64
	At      time.Time
	N       int
	Seed    uint64
	Elapsed time.Duration
}

// SeriesPoint is the average per-op cost of one kind at one size across
// every logged run of that size.
type SeriesPoint struct {
	Kind     common.Kind
	N        int
	Runs     int
	InsertNs float64
	LookupNs float64
}

func OpenResultsLog(path string) (*ResultsLog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open results log %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	query := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		at INTEGER NOT NULL,
		n INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		elapsed_ns INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS results (
		run_id INTEGER NOT NULL REFERENCES runs(id),
		kind TEXT NOT NULL,
		insert_ns INTEGER NOT NULL,
		lookup_ns INTEGER NOT NULL,
		found INTEGER NOT NULL
	);`
	if _, err := db.Exec(query); err != nil {
		db.Close()
		return nil, fmt.Errorf("init results log: %w", err)
	}

	_, err = db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = NORMAL;
	`)
	if err != nil {
		log.Printf("[Storage] Warning: Failed to set PRAGMA: %v", err)
	}

	return &ResultsLog{db: db}, nil
}

// Append stores one run and its per-kind rows in a single transaction.
func (l *ResultsLog) Append(res bench.Results, at time.Time) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx, err := l.db.Begin()
	if err != nil {
		return 0, err
	}

	r, err := tx.Exec("INSERT INTO runs (at, n, seed, elapsed_ns) VALUES (?, ?, ?, ?)",
		at.UnixNano(), res.N, int64(res.Seed), int64(res.Elapsed))
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	id, err := r.LastInsertId()
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	stmt, err := tx.Prepare("INSERT INTO results (run_id, kind, insert_ns, lookup_ns, found) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	defer stmt.Close()

	for _, kind := range common.Kinds {
		if _, err := stmt.Exec(id, kind.String(), int64(res.Insert[kind]), int64(res.Lookup[kind]), res.Found[kind]); err != nil {
			tx.Rollback()
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// Runs lists logged runs, oldest first.
func (l *ResultsLog) Runs() ([]Run, error) {
	rows, err := l.db.Query("SELECT id, at, n, seed, elapsed_ns FROM runs ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r       Run
			at      int64
			seed    int64
			elapsed int64
		)
		if err := rows.Scan(&r.ID, &at, &r.N, &seed, &elapsed); err != nil {
			return nil, err
		}
		r.At = time.Unix(0, at)
		r.Seed = uint64(seed)
		r.Elapsed = time.Duration(elapsed)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Series averages the logged results by kind and size, ordered by kind
// then size.
func (l *ResultsLog) Series() ([]SeriesPoint, error) {
	rows, err := l.db.Query(`
		SELECT r.kind, u.n, COUNT(*), AVG(r.insert_ns), AVG(r.lookup_ns)
		FROM results r JOIN runs u ON u.id = r.run_id
		GROUP BY r.kind, u.n`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []SeriesPoint
	for rows.Next() {
		var (
			p    SeriesPoint
			kind string
		)
		if err := rows.Scan(&kind, &p.N, &p.Runs, &p.InsertNs, &p.LookupNs); err != nil {
			return nil, err
		}
		k, err := common.ParseKind(kind)
		if err != nil {
			log.Printf("[Storage] Skipping unknown kind %q", kind)
			continue
		}
		p.Kind = k
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	slices.SortFunc(points, func(a, b SeriesPoint) int {
		if a.Kind != b.Kind {
			return cmp.Compare(a.Kind, b.Kind)
		}
		return cmp.Compare(a.N, b.N)
	})
	return points, nil
}

func (l *ResultsLog) Truncate() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err := l.db.Exec("DELETE FROM results; DELETE FROM runs;")
	return err
}

func (l *ResultsLog) Close() error {
	return l.db.Close()
}
