package services

import (
	"sort"

	"estate-mail-scraper/config"
	"estate-mail-scraper/models"
	"estate-mail-scraper/utils"
)

// Scorer assigns batch-relative scores: cheaper per square metre and more
// recently received both push a listing up. Scores only mean anything
// relative to the other listings scored in the same batch.
type Scorer struct {
	priceWeight   float64
	recencyWeight float64
	logger        *utils.Logger
}

func NewScorer(cfg *config.Config, logger *utils.Logger) *Scorer {
	return &Scorer{
		priceWeight:   cfg.PriceWeight,
		recencyWeight: cfg.RecencyWeight,
		logger:        logger,
	}
}

// ScoreAndRank computes scores in place and returns the batch ordered by
// descending score. Listings without a price per area or a received time
// keep score 0 and sink to the bottom. The sort is stable, so ties keep
// their insertion order and repeated runs over the same batch reproduce
// the same output.
func (s *Scorer) ScoreAndRank(listings []*models.Listing) []*models.Listing {
	var scorable []*models.Listing
	for _, l := range listings {
		l.Score = 0
		if l.PricePerArea > 0 && !l.ReceivedAt.IsZero() {
			scorable = append(scorable, l)
		}
	}

	if len(scorable) > 0 {
		minPrice, maxPrice := scorable[0].PricePerArea, scorable[0].PricePerArea
		minTime, maxTime := scorable[0].ReceivedAt.Unix(), scorable[0].ReceivedAt.Unix()
		for _, l := range scorable[1:] {
			if l.PricePerArea < minPrice {
				minPrice = l.PricePerArea
			}
			if l.PricePerArea > maxPrice {
				maxPrice = l.PricePerArea
			}
			if t := l.ReceivedAt.Unix(); t < minTime {
				minTime = t
			} else if t > maxTime {
				maxTime = t
			}
		}

		for _, l := range scorable {
			// A dimension that is constant across the batch contributes
			// its favourable extreme instead of dividing by zero.
			favourability := 1.0
			if maxPrice > minPrice {
				favourability = 1 - (l.PricePerArea-minPrice)/(maxPrice-minPrice)
			}
			recency := 1.0
			if maxTime > minTime {
				recency = float64(l.ReceivedAt.Unix()-minTime) / float64(maxTime-minTime)
			}
			l.Score = round4(s.priceWeight*favourability + s.recencyWeight*recency)
		}
	}

	ranked := make([]*models.Listing, len(listings))
	copy(ranked, listings)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	s.logger.Info("[scorer] Scored %d of %d listings", len(scorable), len(listings))
	return ranked
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func round4(f float64) float64 {
	return float64(int(f*10000+0.5)) / 10000
}
