package repository

import (
	"sort"
	"strings"
	"time"

	"github.com/farellandr/fastfriends/internal/geo"
	"github.com/farellandr/fastfriends/internal/models"
	"gorm.io/gorm"
)

// SearchQuery is a relevance-scored text query combined with hard filters.
// Zero-valued filters are not applied.
type SearchQuery struct {
	Kind string
	Text string

	StartDate *time.Time
	EndDate   *time.Time

	MinPriceUSD *float64
	MaxPriceUSD *float64

	Currency string

	MinSize *int
	MaxSize *int

	// Position plus RadiusMeters restricts results to a circle; the SQL sees
	// a bounding box and the exact projected distance is checked afterwards.
	Position     *geo.Point
	RadiusMeters float64
}

type SearchRepository struct {
	db *gorm.DB
}

func NewSearchRepository(db *gorm.DB) *SearchRepository {
	return &SearchRepository{db: db}
}

// Replace swaps out all documents of a kind atomically. The index worker
// calls this on every refresh, so a failed refresh leaves the old documents
// intact.
func (r *SearchRepository) Replace(kind string, docs []models.SearchDocument) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("kind = ?", kind).Delete(&models.SearchDocument{}).Error; err != nil {
			return err
		}
		if len(docs) == 0 {
			return nil
		}
		return tx.Create(&docs).Error
	})
}

// Query fetches candidate documents with the hard filters pushed to SQL and
// ranks them by a simple prefix/substring relevance score.
func (r *SearchRepository) Query(q SearchQuery) ([]models.SearchDocument, error) {
	text := strings.ToLower(strings.TrimSpace(q.Text))
	query := r.db.Model(&models.SearchDocument{}).Where("kind = ?", q.Kind)

	if text != "" {
		like := "%" + text + "%"
		query = query.Where("name ILIKE ? OR body ILIKE ? OR tags LIKE ?", like, like, like)
	}
	if q.StartDate != nil {
		query = query.Where("start_date IS NULL OR start_date >= ?", *q.StartDate)
	}
	if q.EndDate != nil {
		query = query.Where("start_date IS NULL OR start_date <= ?", *q.EndDate)
	}
	if q.MinPriceUSD != nil {
		query = query.Where("price_usd >= ?", *q.MinPriceUSD)
	}
	if q.MaxPriceUSD != nil {
		query = query.Where("price_usd <= ?", *q.MaxPriceUSD)
	}
	if q.Currency != "" {
		query = query.Where("currency = ?", strings.ToUpper(q.Currency))
	}
	if q.MinSize != nil {
		query = query.Where("max_members >= ?", *q.MinSize)
	}
	if q.MaxSize != nil {
		query = query.Where("max_members <= ?", *q.MaxSize)
	}
	if q.Position != nil && q.RadiusMeters > 0 {
		minLat, maxLat, minLon, maxLon := geo.BoundingBox(*q.Position, q.RadiusMeters)
		query = query.Where("latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?",
			minLat, maxLat, minLon, maxLon)
	}

	var docs []models.SearchDocument
	if err := query.Find(&docs).Error; err != nil {
		return nil, err
	}
	if q.Position != nil && q.RadiusMeters > 0 {
		docs = withinRadius(docs, *q.Position, q.RadiusMeters)
	}

	sort.SliceStable(docs, func(i, j int) bool {
		si, sj := score(docs[i], text), score(docs[j], text)
		if si != sj {
			return si > sj
		}
		return docs[i].ID.String() < docs[j].ID.String()
	})
	return docs, nil
}

// withinRadius keeps documents whose exact projected distance from center is
// inside the radius. The bounding box overshoots at the corners, so this
// runs after the SQL prefilter.
func withinRadius(docs []models.SearchDocument, center geo.Point, radiusMeters float64) []models.SearchDocument {
	kept := docs[:0]
	for _, doc := range docs {
		point := geo.Point{Lat: doc.Latitude, Lon: doc.Longitude}
		if geo.Within(point, center, radiusMeters) {
			kept = append(kept, doc)
		}
	}
	return kept
}

// score ranks name-prefix matches above name-substring matches above
// tag and body matches.
func score(doc models.SearchDocument, text string) int {
	if text == "" {
		return 0
	}
	name := strings.ToLower(doc.Name)
	total := 0
	if strings.HasPrefix(name, text) {
		total += 8
	} else if strings.Contains(name, text) {
		total += 4
	}
	if strings.Contains(doc.Tags, text) {
		total += 2
	}
	if strings.Contains(strings.ToLower(doc.Body), text) {
		total++
	}
	return total
}
