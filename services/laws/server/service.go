package server

import (
	"bayrecht-backend/lib/scrapers/bayernrecht"
	"bayrecht-backend/services/laws"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const searchLimitDefault = 20

// Service is the read side of the norm database. It never writes;
// the scraper owns all mutation.
type Service struct {
	store laws.Store
	// the law list is tiny and queried on almost every page view
	lawsCache *expirable.LRU[string, []LawResponse]
}

func NewService(store laws.Store) *Service {
	return &Service{
		store:     store,
		lawsCache: expirable.NewLRU[string, []LawResponse](8, nil, time.Minute*5),
	}
}

func (s *Service) Register(app *fiber.App) {
	api := app.Group("/api")
	api.Get("/laws", s.handleListLaws)
	api.Get("/laws/:name/norms", s.handleListNorms)
	api.Get("/laws/:name/norms/:number", s.handleGetNorm)
	api.Get("/search", s.handleSearch)
}

type LawResponse struct {
	Id           int64   `json:"id"`
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	LastModified *string `json:"last_modified"`
}

func (s *Service) handleListLaws(c *fiber.Ctx) error {
	cached, hit := s.lawsCache.Get("all")
	if hit {
		return c.JSON(cached)
	}

	rows, err := s.store.ListLaws(c.UserContext())
	if err != nil {
		return fiber.ErrInternalServerError
	}
	out := make([]LawResponse, len(rows))
	for i, law := range rows {
		out[i] = LawResponse{
			Id:           law.ID,
			Name:         law.Name,
			Description:  nullable(law.Description),
			LastModified: nullable(law.LastModified),
		}
	}

	s.lawsCache.Add("all", out)
	return c.JSON(out)
}

type NormListEntry struct {
	Number    string `json:"number"`
	NumberRaw string `json:"number_raw"`
	Title     string `json:"title"`
	Url       string `json:"url"`
	IsStale   bool   `json:"is_stale"`
}

func (s *Service) handleListNorms(c *fiber.Ctx) error {
	rows, err := s.store.ListNorms(c.UserContext(), c.Params("name"))
	if errors.Is(err, sql.ErrNoRows) {
		return fiber.NewError(fiber.StatusNotFound, "law not found")
	}
	if err != nil {
		return fiber.ErrInternalServerError
	}

	out := make([]NormListEntry, len(rows))
	for i, norm := range rows {
		out[i] = NormListEntry{
			Number:    norm.Number,
			NumberRaw: norm.NumberRaw,
			Title:     norm.Title,
			Url:       norm.Url,
			IsStale:   norm.IsStale != 0,
		}
	}
	return c.JSON(out)
}

type NormDetail struct {
	Number         string              `json:"number"`
	NumberRaw      string              `json:"number_raw"`
	Title          string              `json:"title"`
	Content        []bayernrecht.Block `json:"content"`
	Url            string              `json:"url"`
	IsStale        bool                `json:"is_stale"`
	LawName        string              `json:"law_name"`
	LawDescription *string             `json:"law_description"`
}

func (s *Service) handleGetNorm(c *fiber.Ctx) error {
	norm, law, err := s.store.GetNorm(c.UserContext(), c.Params("name"), c.Params("number"))
	if errors.Is(err, sql.ErrNoRows) {
		return fiber.NewError(fiber.StatusNotFound, "norm not found")
	}
	if err != nil {
		return fiber.ErrInternalServerError
	}

	var content []bayernrecht.Block
	if err := json.Unmarshal([]byte(norm.Content), &content); err != nil {
		return fiber.ErrInternalServerError
	}

	return c.JSON(NormDetail{
		Number:         norm.Number,
		NumberRaw:      norm.NumberRaw,
		Title:          norm.Title,
		Content:        content,
		Url:            norm.Url,
		IsStale:        norm.IsStale != 0,
		LawName:        law.Name,
		LawDescription: nullable(law.Description),
	})
}

type SearchResult struct {
	Number         string  `json:"number"`
	Title          string  `json:"title"`
	Preview        string  `json:"preview"`
	LawId          int64   `json:"law_id"`
	LawName        string  `json:"law_name"`
	LawDescription *string `json:"law_description"`
}

func (s *Service) handleSearch(c *fiber.Ctx) error {
	query := c.Query("q")
	if len(query) < 3 {
		return fiber.NewError(fiber.StatusBadRequest, "search query must be at least 3 characters")
	}
	limit := int64(c.QueryInt("limit", searchLimitDefault))

	rows, err := s.store.SearchNorms(c.UserContext(), query, limit)
	if err != nil {
		return fiber.ErrInternalServerError
	}

	out := make([]SearchResult, len(rows))
	for i, row := range rows {
		out[i] = SearchResult{
			Number:         row.Number,
			Title:          row.Title,
			Preview:        preview(row.Content, 200),
			LawId:          row.LawID,
			LawName:        row.LawName,
			LawDescription: nullable(row.LawDescription),
		}
	}
	return c.JSON(out)
}

// preview flattens the stored block json to plain text and truncates
// it for search result snippets.
func preview(contentJSON string, max int) string {
	var blocks []bayernrecht.Block
	if err := json.Unmarshal([]byte(contentJSON), &blocks); err != nil {
		return ""
	}

	var parts []string
	for _, b := range blocks {
		if b.Text != "" {
			parts = append(parts, b.Text)
		}
		parts = append(parts, b.Items...)
	}
	text := strings.Join(parts, " ")

	if len(text) > max {
		return text[:max] + "..."
	}
	return text
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
