package laws

import (
	"bayrecht-backend/services/laws/db"
	"context"
	"database/sql"
	"errors"
	"log/slog"

	_ "modernc.org/sqlite"
)

// Store owns every mutation of laws and norms. Callers express intent
// (upsert, flag stale), the store decides what actually changes. Each
// method is one transaction; nothing spans a full scrape pass, so a
// failed norm never poisons its neighbors.
type Store struct {
	db  *sql.DB
	qry *db.Queries
}

func NewStore(database *sql.DB) Store {
	return Store{
		db:  database,
		qry: db.New(database),
	}
}

// GetOrCreateLaw looks a law up by its external identifier, creating
// it on first encounter. Single-writer usage only, concurrent creation
// of the same law is not defended against.
func (s Store) GetOrCreateLaw(ctx context.Context, name, description string) (int64, error) {
	law, err := s.qry.GetLawByName(ctx, name)
	if err == nil {
		return law.ID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	return s.qry.CreateLaw(ctx, db.CreateLawParams{
		Name:        name,
		Description: nullString(description),
	})
}

func (s Store) GetLaw(ctx context.Context, id int64) (db.Law, error) {
	return s.qry.GetLaw(ctx, id)
}

func (s Store) UpdateLawLastModified(ctx context.Context, id int64, date string) error {
	return s.qry.UpdateLawLastModified(ctx, db.UpdateLawLastModifiedParams{
		LastModified: nullString(date),
		ID:           id,
	})
}

type SaveNormRequest struct {
	LawID       int64
	Number      string
	NumberRaw   string
	Title       string
	Content     string
	Url         string
	ContentHash string
	LastSeen    string
}

// SaveNorm upserts one norm by its (law, number) identity. The stored
// content hash is the only change oracle: unknown norm → insert,
// unchanged hash → refresh last_seen only, changed hash → rewrite all
// content fields. Calling it twice with the same input is a no-op
// beyond the watermark.
func (s Store) SaveNorm(ctx context.Context, req SaveNormRequest) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	identity := db.GetNormContentHashParams{LawID: req.LawID, Number: req.Number}
	existing, err := txqry.GetNormContentHash(ctx, identity)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		err = txqry.CreateNorm(ctx, db.CreateNormParams{
			LawID:       req.LawID,
			Number:      req.Number,
			NumberRaw:   req.NumberRaw,
			Title:       req.Title,
			Content:     req.Content,
			Url:         req.Url,
			ContentHash: req.ContentHash,
			LastSeen:    nullString(req.LastSeen),
		})
		if err != nil {
			return err
		}
		slog.Info("inserted norm", "law_id", req.LawID, "number", req.Number)
	case err != nil:
		return err
	case existing == req.ContentHash:
		err = txqry.TouchNorm(ctx, db.TouchNormParams{
			LastSeen: nullString(req.LastSeen),
			LawID:    req.LawID,
			Number:   req.Number,
		})
		if err != nil {
			return err
		}
		slog.Debug("norm unchanged", "law_id", req.LawID, "number", req.Number)
	default:
		err = txqry.UpdateNormContent(ctx, db.UpdateNormContentParams{
			NumberRaw:   req.NumberRaw,
			Title:       req.Title,
			Content:     req.Content,
			Url:         req.Url,
			ContentHash: req.ContentHash,
			LastSeen:    nullString(req.LastSeen),
			LawID:       req.LawID,
			Number:      req.Number,
		})
		if err != nil {
			return err
		}
		slog.Info("updated norm", "law_id", req.LawID, "number", req.Number)
	}

	return tx.Commit()
}

// FlagStaleNorms reconciles staleness after a full range scan: norms
// last seen before the watermark become stale, previously stale norms
// seen at the watermark come back. Returns how many were newly
// flagged.
func (s Store) FlagStaleNorms(ctx context.Context, lawID int64, watermark string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	flagged, err := txqry.FlagStaleNorms(ctx, db.FlagStaleNormsParams{
		LawID:    lawID,
		LastSeen: nullString(watermark),
	})
	if err != nil {
		return 0, err
	}
	revived, err := txqry.ReviveSeenNorms(ctx, db.ReviveSeenNormsParams{
		LawID:    lawID,
		LastSeen: nullString(watermark),
	})
	if err != nil {
		return 0, err
	}
	if revived > 0 {
		slog.Info("revived stale norms", "law_id", lawID, "n", revived)
	}

	return flagged, tx.Commit()
}

func (s Store) ListLaws(ctx context.Context) ([]db.Law, error) {
	return s.qry.ListLaws(ctx)
}

func (s Store) ListNorms(ctx context.Context, lawName string) ([]db.ListNormsByLawRow, error) {
	law, err := s.qry.GetLawByName(ctx, lawName)
	if err != nil {
		return nil, err
	}
	return s.qry.ListNormsByLaw(ctx, law.ID)
}

func (s Store) GetNorm(ctx context.Context, lawName, number string) (db.Norm, db.Law, error) {
	law, err := s.qry.GetLawByName(ctx, lawName)
	if err != nil {
		return db.Norm{}, db.Law{}, err
	}
	norm, err := s.qry.GetNorm(ctx, db.GetNormParams{LawID: law.ID, Number: number})
	if err != nil {
		return db.Norm{}, db.Law{}, err
	}
	return norm, law, nil
}

func (s Store) SearchNorms(ctx context.Context, query string, limit int64) ([]db.SearchNormsRow, error) {
	pattern := "%" + query + "%"
	return s.qry.SearchNorms(ctx, db.SearchNormsParams{
		Title:   pattern,
		Content: pattern,
		Limit:   limit,
	})
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
