package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"ValueSentinel/internal/model"
)

// SQLiteStore persists everything to a single SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.Mutex // serializes writers
	log zerolog.Logger
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string, log zerolog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets report readers run while a collection or ranking run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, log: log.With().Str("component", "sqlite_store").Logger()}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s.log.Info().Str("path", dbPath).Msg("SQLite store opened")
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS stocks (
			id          TEXT PRIMARY KEY,
			ticker      TEXT NOT NULL,
			name        TEXT,
			market      TEXT,
			sector_code TEXT,
			tags        BLOB
		)`,

		`CREATE TABLE IF NOT EXISTS fundamentals (
			stock_id             TEXT PRIMARY KEY,
			eps                  REAL,
			bps                  REAL,
			eps_growth           REAL,
			roe                  REAL,
			equity_ratio         REAL,
			operating_profits    BLOB,
			operating_cash_flows BLOB,
			updated_at           INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS indicator_snapshots (
			stock_id         TEXT NOT NULL,
			horizon          TEXT NOT NULL,
			collected_at     INTEGER NOT NULL,
			sector_code      TEXT,
			current_price    REAL,
			per              REAL,
			pbr              REAL,
			rsi              REAL,
			rsi_short        REAL,
			price_high       REAL,
			price_low        REAL,
			avg_volume_short REAL,
			avg_volume_long  REAL,
			eps_growth       REAL,
			roe              REAL,
			tags             BLOB,
			PRIMARY KEY (stock_id, horizon, collected_at)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_horizon ON indicator_snapshots(horizon, collected_at)`,

		`CREATE TABLE IF NOT EXISTS sector_averages (
			sector_code  TEXT NOT NULL,
			horizon      TEXT NOT NULL,
			collected_at INTEGER NOT NULL,
			per          REAL,
			pbr          REAL,
			roe          REAL,
			eps_growth   REAL,
			stock_count  INTEGER NOT NULL,
			PRIMARY KEY (sector_code, horizon, collected_at)
		)`,

		`CREATE TABLE IF NOT EXISTS favorable_tags (
			tag TEXT PRIMARY KEY
		)`,

		`CREATE TABLE IF NOT EXISTS ranking_runs (
			id         TEXT PRIMARY KEY,
			horizon    TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_horizon ON ranking_runs(horizon, created_at)`,

		`CREATE TABLE IF NOT EXISTS value_scores (
			run_id       TEXT NOT NULL,
			rank         INTEGER NOT NULL,
			stock_id     TEXT NOT NULL,
			market       TEXT,
			total        REAL,
			per          REAL,
			pbr          REAL,
			rsi          REAL,
			price_range  REAL,
			eps_growth   REAL,
			tag_score    REAL,
			roe          REAL,
			rsi_momentum REAL,
			volume_surge REAL,
			sector       REAL,
			PRIMARY KEY (run_id, stock_id)
		)`,

		`CREATE TABLE IF NOT EXISTS exclusions (
			run_id   TEXT NOT NULL,
			stock_id TEXT NOT NULL,
			reasons  BLOB,
			unscored INTEGER NOT NULL,
			PRIMARY KEY (run_id, stock_id)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// withTx runs fn in a transaction under the writer lock.
func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) UpsertStocks(ctx context.Context, stocks []model.Stock) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO stocks (id, ticker, name, market, sector_code, tags)
			VALUES (?,?,?,?,?,?)
			ON CONFLICT(id) DO UPDATE SET ticker=excluded.ticker, name=excluded.name,
				market=excluded.market, sector_code=excluded.sector_code, tags=excluded.tags`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, st := range stocks {
			tags, err := encodeBlob(st.Tags)
			if err != nil {
				return fmt.Errorf("encode tags of %s: %w", st.ID, err)
			}
			if _, err := stmt.ExecContext(ctx, st.ID, st.Ticker, st.Name, st.Market, st.SectorCode, tags); err != nil {
				return fmt.Errorf("upsert stock %s: %w", st.ID, err)
			}
		}
		return nil
	})
}

const stockColumns = `id, ticker, name, market, sector_code, tags`

func scanStock(sc interface{ Scan(...any) error }) (model.Stock, error) {
	var st model.Stock
	var name, market, sector sql.NullString
	var tags []byte
	if err := sc.Scan(&st.ID, &st.Ticker, &name, &market, &sector, &tags); err != nil {
		return st, err
	}
	st.Name, st.Market, st.SectorCode = name.String, market.String, sector.String
	if err := decodeBlob(tags, &st.Tags); err != nil {
		return st, fmt.Errorf("decode tags of %s: %w", st.ID, err)
	}
	return st, nil
}

func (s *SQLiteStore) ListStocks(ctx context.Context) ([]model.Stock, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+stockColumns+` FROM stocks ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Stock
	for rows.Next() {
		st, err := scanStock(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetStock(ctx context.Context, id string) (model.Stock, error) {
	st, err := scanStock(s.db.QueryRowContext(ctx, `SELECT `+stockColumns+` FROM stocks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Stock{}, fmt.Errorf("stock %s: %w", id, ErrNotFound)
	}
	return st, err
}

func (s *SQLiteStore) UpsertFundamentals(ctx context.Context, fds []model.Fundamentals) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO fundamentals
			(stock_id, eps, bps, eps_growth, roe, equity_ratio, operating_profits, operating_cash_flows, updated_at)
			VALUES (?,?,?,?,?,?,?,?,?)
			ON CONFLICT(stock_id) DO UPDATE SET eps=excluded.eps, bps=excluded.bps,
				eps_growth=excluded.eps_growth, roe=excluded.roe, equity_ratio=excluded.equity_ratio,
				operating_profits=excluded.operating_profits,
				operating_cash_flows=excluded.operating_cash_flows, updated_at=excluded.updated_at`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, f := range fds {
			profits, err := encodeBlob(f.OperatingProfits)
			if err != nil {
				return fmt.Errorf("encode profits of %s: %w", f.StockID, err)
			}
			flows, err := encodeBlob(f.OperatingCashFlows)
			if err != nil {
				return fmt.Errorf("encode cash flows of %s: %w", f.StockID, err)
			}
			if _, err := stmt.ExecContext(ctx, f.StockID, nullable(f.EPS), nullable(f.BPS),
				nullable(f.EPSGrowth), nullable(f.ROE), nullable(f.EquityRatio),
				profits, flows, f.UpdatedAt.Unix()); err != nil {
				return fmt.Errorf("upsert fundamentals %s: %w", f.StockID, err)
			}
		}
		return nil
	})
}

const fundamentalsColumns = `stock_id, eps, bps, eps_growth, roe, equity_ratio, operating_profits, operating_cash_flows, updated_at`

func scanFundamentals(sc interface{ Scan(...any) error }) (*model.Fundamentals, error) {
	var f model.Fundamentals
	var eps, bps, growth, roe, equity sql.NullFloat64
	var profits, flows []byte
	var updated int64
	if err := sc.Scan(&f.StockID, &eps, &bps, &growth, &roe, &equity, &profits, &flows, &updated); err != nil {
		return nil, err
	}
	f.EPS, f.BPS, f.EPSGrowth, f.ROE, f.EquityRatio = ptr(eps), ptr(bps), ptr(growth), ptr(roe), ptr(equity)
	f.UpdatedAt = unixTime(updated)
	if err := decodeBlob(profits, &f.OperatingProfits); err != nil {
		return nil, fmt.Errorf("decode profits of %s: %w", f.StockID, err)
	}
	if err := decodeBlob(flows, &f.OperatingCashFlows); err != nil {
		return nil, fmt.Errorf("decode cash flows of %s: %w", f.StockID, err)
	}
	return &f, nil
}

func (s *SQLiteStore) GetFundamentals(ctx context.Context, stockID string) (*model.Fundamentals, error) {
	f, err := scanFundamentals(s.db.QueryRowContext(ctx,
		`SELECT `+fundamentalsColumns+` FROM fundamentals WHERE stock_id = ?`, stockID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("fundamentals %s: %w", stockID, ErrNotFound)
	}
	return f, err
}

func (s *SQLiteStore) ListFundamentals(ctx context.Context) (map[string]*model.Fundamentals, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+fundamentalsColumns+` FROM fundamentals`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]*model.Fundamentals)
	for rows.Next() {
		f, err := scanFundamentals(rows)
		if err != nil {
			return nil, err
		}
		out[f.StockID] = f
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SaveSnapshots(ctx context.Context, snaps []model.IndicatorSnapshot) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO indicator_snapshots
			(stock_id, horizon, collected_at, sector_code, current_price, per, pbr, rsi, rsi_short,
			 price_high, price_low, avg_volume_short, avg_volume_long, eps_growth, roe, tags)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, sn := range snaps {
			tags, err := encodeBlob(sn.Tags)
			if err != nil {
				return fmt.Errorf("encode tags of %s: %w", sn.StockID, err)
			}
			if _, err := stmt.ExecContext(ctx, sn.StockID, string(sn.Horizon), sn.CollectedAt.Unix(), sn.SectorCode,
				nullable(sn.CurrentPrice), nullable(sn.PER), nullable(sn.PBR), nullable(sn.RSI), nullable(sn.RSIShort),
				nullable(sn.PriceHigh), nullable(sn.PriceLow), nullable(sn.AvgVolumeShort), nullable(sn.AvgVolumeLong),
				nullable(sn.EPSGrowth), nullable(sn.ROE), tags); err != nil {
				return fmt.Errorf("save snapshot %s/%s: %w", sn.StockID, sn.Horizon, err)
			}
		}
		return nil
	})
}

const snapshotColumns = `s.stock_id, s.horizon, s.collected_at, s.sector_code, s.current_price, s.per, s.pbr,
	s.rsi, s.rsi_short, s.price_high, s.price_low, s.avg_volume_short, s.avg_volume_long,
	s.eps_growth, s.roe, s.tags`

func scanSnapshot(sc interface{ Scan(...any) error }) (model.IndicatorSnapshot, error) {
	var sn model.IndicatorSnapshot
	var horizon string
	var collected int64
	var sector sql.NullString
	var price, per, pbr, rsi, rsiShort, high, low, volShort, volLong, growth, roe sql.NullFloat64
	var tags []byte
	if err := sc.Scan(&sn.StockID, &horizon, &collected, &sector, &price, &per, &pbr,
		&rsi, &rsiShort, &high, &low, &volShort, &volLong, &growth, &roe, &tags); err != nil {
		return sn, err
	}
	sn.Horizon = model.Horizon(horizon)
	sn.CollectedAt = unixTime(collected)
	sn.SectorCode = sector.String
	sn.CurrentPrice, sn.PER, sn.PBR = ptr(price), ptr(per), ptr(pbr)
	sn.RSI, sn.RSIShort = ptr(rsi), ptr(rsiShort)
	sn.PriceHigh, sn.PriceLow = ptr(high), ptr(low)
	sn.AvgVolumeShort, sn.AvgVolumeLong = ptr(volShort), ptr(volLong)
	sn.EPSGrowth, sn.ROE = ptr(growth), ptr(roe)
	if err := decodeBlob(tags, &sn.Tags); err != nil {
		return sn, fmt.Errorf("decode tags of %s: %w", sn.StockID, err)
	}
	return sn, nil
}

func (s *SQLiteStore) LatestSnapshots(ctx context.Context, h model.Horizon) ([]model.IndicatorSnapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+snapshotColumns+`
		FROM indicator_snapshots s
		JOIN (SELECT stock_id, MAX(collected_at) AS latest
		      FROM indicator_snapshots WHERE horizon = ? GROUP BY stock_id) l
		  ON s.stock_id = l.stock_id AND s.collected_at = l.latest
		WHERE s.horizon = ?
		ORDER BY s.stock_id`, string(h), string(h))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.IndicatorSnapshot
	for rows.Next() {
		sn, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sn)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) LatestSnapshot(ctx context.Context, stockID string, h model.Horizon) (*model.IndicatorSnapshot, error) {
	sn, err := scanSnapshot(s.db.QueryRowContext(ctx, `SELECT `+snapshotColumns+`
		FROM indicator_snapshots s
		WHERE s.stock_id = ? AND s.horizon = ?
		ORDER BY s.collected_at DESC LIMIT 1`, stockID, string(h)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %s/%s: %w", stockID, h, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &sn, nil
}

func (s *SQLiteStore) SaveSectorAverages(ctx context.Context, avgs []model.SectorAverage) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO sector_averages
			(sector_code, horizon, collected_at, per, pbr, roe, eps_growth, stock_count)
			VALUES (?,?,?,?,?,?,?,?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, a := range avgs {
			if _, err := stmt.ExecContext(ctx, a.SectorCode, string(a.Horizon), a.CollectedAt.Unix(),
				nullable(a.PER), nullable(a.PBR), nullable(a.ROE), nullable(a.EPSGrowth), a.StockCount); err != nil {
				return fmt.Errorf("save sector average %s/%s: %w", a.SectorCode, a.Horizon, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) LatestSectorAverages(ctx context.Context, h model.Horizon) ([]model.SectorAverage, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT a.sector_code, a.horizon, a.collected_at,
			a.per, a.pbr, a.roe, a.eps_growth, a.stock_count
		FROM sector_averages a
		JOIN (SELECT sector_code, MAX(collected_at) AS latest
		      FROM sector_averages WHERE horizon = ? GROUP BY sector_code) l
		  ON a.sector_code = l.sector_code AND a.collected_at = l.latest
		WHERE a.horizon = ?
		ORDER BY a.sector_code`, string(h), string(h))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SectorAverage
	for rows.Next() {
		var a model.SectorAverage
		var horizon string
		var collected int64
		var per, pbr, roe, growth sql.NullFloat64
		if err := rows.Scan(&a.SectorCode, &horizon, &collected, &per, &pbr, &roe, &growth, &a.StockCount); err != nil {
			return nil, err
		}
		a.Horizon = model.Horizon(horizon)
		a.CollectedAt = unixTime(collected)
		a.PER, a.PBR, a.ROE, a.EPSGrowth = ptr(per), ptr(pbr), ptr(roe), ptr(growth)
		out = append(out, a)
	}
	return out, rows.Err()
}

// SetFavorableTags replaces the favorable-tag context.
func (s *SQLiteStore) SetFavorableTags(ctx context.Context, tags []string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM favorable_tags`); err != nil {
			return err
		}
		for _, t := range tags {
			if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO favorable_tags (tag) VALUES (?)`, t); err != nil {
				return fmt.Errorf("insert tag %s: %w", t, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) FavorableTags(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT tag FROM favorable_tags ORDER BY tag`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run *Run) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO ranking_runs (id, horizon, created_at) VALUES (?,?,?)`,
			run.ID, string(run.Horizon), run.CreatedAt.Unix()); err != nil {
			return fmt.Errorf("insert run %s: %w", run.ID, err)
		}
		for _, r := range run.Ranked {
			ss := r.SubScores
			if _, err := tx.ExecContext(ctx, `INSERT INTO value_scores
				(run_id, rank, stock_id, market, total, per, pbr, rsi, price_range, eps_growth,
				 tag_score, roe, rsi_momentum, volume_surge, sector)
				VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
				run.ID, r.Rank, r.StockID, string(r.Market), nullable(r.Total),
				nullable(ss.PER), nullable(ss.PBR), nullable(ss.RSI), nullable(ss.PriceRange),
				nullable(ss.EPSGrowth), nullable(ss.TagScore), nullable(ss.ROE),
				nullable(ss.RSIMomentum), nullable(ss.VolumeSurge), nullable(r.Sector)); err != nil {
				return fmt.Errorf("insert score %s: %w", r.StockID, err)
			}
		}
		for _, e := range run.Exclusions {
			reasons, err := encodeBlob(e.Reasons)
			if err != nil {
				return fmt.Errorf("encode reasons of %s: %w", e.StockID, err)
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO exclusions (run_id, stock_id, reasons, unscored) VALUES (?,?,?,?)`,
				run.ID, e.StockID, reasons, e.Unscored); err != nil {
				return fmt.Errorf("insert exclusion %s: %w", e.StockID, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) LatestRun(ctx context.Context, h model.Horizon) (*Run, error) {
	run := &Run{Horizon: h}
	var created int64
	err := s.db.QueryRowContext(ctx, `SELECT id, created_at FROM ranking_runs
		WHERE horizon = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`, string(h)).Scan(&run.ID, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run for %s: %w", h, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	run.CreatedAt = unixTime(created)

	rows, err := s.db.QueryContext(ctx, `SELECT rank, stock_id, market, total, per, pbr, rsi, price_range,
			eps_growth, tag_score, roe, rsi_momentum, volume_surge, sector
		FROM value_scores WHERE run_id = ? ORDER BY rank`, run.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var r model.RankedStock
		var market sql.NullString
		var total, per, pbr, rsi, pr, growth, tag, roe, mom, vol, sector sql.NullFloat64
		if err := rows.Scan(&r.Rank, &r.StockID, &market, &total, &per, &pbr, &rsi, &pr,
			&growth, &tag, &roe, &mom, &vol, &sector); err != nil {
			return nil, err
		}
		r.Horizon = h
		r.Market = model.MarketTier(market.String)
		r.Total, r.Sector = ptr(total), ptr(sector)
		r.SubScores = model.SubScores{
			PER: ptr(per), PBR: ptr(pbr), RSI: ptr(rsi), PriceRange: ptr(pr),
			EPSGrowth: ptr(growth), TagScore: ptr(tag), ROE: ptr(roe),
			RSIMomentum: ptr(mom), VolumeSurge: ptr(vol),
		}
		run.Ranked = append(run.Ranked, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	exRows, err := s.db.QueryContext(ctx, `SELECT stock_id, reasons, unscored FROM exclusions
		WHERE run_id = ? ORDER BY stock_id`, run.ID)
	if err != nil {
		return nil, err
	}
	defer exRows.Close()
	for exRows.Next() {
		var e model.Exclusion
		var reasons []byte
		if err := exRows.Scan(&e.StockID, &reasons, &e.Unscored); err != nil {
			return nil, err
		}
		if err := decodeBlob(reasons, &e.Reasons); err != nil {
			return nil, fmt.Errorf("decode reasons of %s: %w", e.StockID, err)
		}
		run.Exclusions = append(run.Exclusions, e)
	}
	return run, exRows.Err()
}

func (s *SQLiteStore) Close() error {
	s.log.Info().Msg("Closing SQLite store")
	return s.db.Close()
}
