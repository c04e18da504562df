package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"estate-mail-scraper/config"
	"estate-mail-scraper/extract"
	"estate-mail-scraper/mailbox"
	"estate-mail-scraper/models"
	"estate-mail-scraper/storage"
	"estate-mail-scraper/utils"
)

// MailSource is the slice of mailbox behaviour the pipeline consumes.
// The production implementation is mailbox.Client; tests substitute a fake.
type MailSource interface {
	Search(senders []string, since time.Time) ([]uint32, error)
	Fetch(seqNum uint32) (*mailbox.Message, error)
	MarkSeen(seqNum uint32) error
}

// Pipeline drives one full run: search → fetch → extract → validate →
// dedupe → score → persist. Messages are processed one at a time; only the
// mailbox search is fatal, everything downstream skips and continues.
type Pipeline struct {
	cfg        *config.Config
	logger     *utils.Logger
	extractors []extract.Extractor
	validator  *Validator
	scorer     *Scorer
	store      storage.ListingStore
	rawWriter  storage.CandidateWriter // optional audit dump, may be nil
}

func NewPipeline(
	cfg *config.Config,
	logger *utils.Logger,
	extractors []extract.Extractor,
	validator *Validator,
	scorer *Scorer,
	store storage.ListingStore,
	rawWriter storage.CandidateWriter,
) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		logger:     logger,
		extractors: extractors,
		validator:  validator,
		scorer:     scorer,
		store:      store,
		rawWriter:  rawWriter,
	}
}

// Run executes one pipeline pass against the given mail source.
func (p *Pipeline) Run(src MailSource) error {
	deduper := NewDeduper(p.cfg.SimilaritySequence, p.logger)

	if p.cfg.Mode == config.ModeAccumulate {
		prior, err := p.store.Load()
		if err != nil {
			return fmt.Errorf("pipeline: load prior listings: %w", err)
		}
		deduper.Seed(prior)
		p.logger.Info("[pipeline] Accumulate mode — %d prior listings in comparison set", len(prior))
	}

	var since time.Time
	if p.cfg.SearchSinceDays > 0 {
		since = time.Now().UTC().AddDate(0, 0, -p.cfg.SearchSinceDays)
	}

	ids, err := src.Search(p.cfg.Senders, since)
	if err != nil {
		return fmt.Errorf("pipeline: search mailbox: %w", err)
	}
	p.logger.Info("[pipeline] %d messages match the sender criteria", len(ids))

	var rawCandidates []*models.Candidate
	accepted := 0

	for i, id := range ids {
		p.logger.Info("[pipeline] Processing message %d/%d (seq %d)", i+1, len(ids), id)

		msg, err := src.Fetch(id)
		if err != nil {
			p.logger.Warn("[pipeline] Fetch failed for message %d: %v — skipping", id, err)
			continue
		}

		html, err := mailbox.HTMLPart(msg.Raw)
		if err != nil {
			p.logger.Warn("[pipeline] Undecodable message %d: %v — skipping", id, err)
			continue
		}
		if html == "" {
			p.logger.Warn("[pipeline] Message %d has no HTML part — skipping", id)
			p.markSeen(src, id)
			continue
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			p.logger.Warn("[pipeline] HTML parse failed for message %d: %v — skipping", id, err)
			continue
		}

		// Every extractor runs against every message; in practice one
		// message matches one provider's URL pattern, but nothing forbids
		// a digest that matches several.
		addedFromMessage := 0
		for _, ex := range p.extractors {
			for _, cand := range ex.Extract(doc, msg.ReceivedAt) {
				rawCandidates = append(rawCandidates, cand)

				listing, reason := p.validator.Validate(cand)
				if reason != models.Accepted {
					p.logger.Debug("[pipeline] Rejected (%s): %s — %s",
						reason, cand.Link, truncate(cand.Name, 60))
					continue
				}
				if deduper.IsDuplicate(listing) {
					p.logger.Debug("[pipeline] Duplicate: %s", listing.Link)
					continue
				}
				deduper.Accept(listing)
				accepted++
				addedFromMessage++
			}
		}

		p.logger.Info("[pipeline] Message %d staged %d new listings", id, addedFromMessage)
		p.markSeen(src, id)
	}

	if p.rawWriter != nil && len(rawCandidates) > 0 {
		if err := p.rawWriter.WriteCandidates(rawCandidates); err != nil {
			p.logger.Warn("[pipeline] Raw candidate dump failed: %v", err)
		}
	}

	ranked := p.scorer.ScoreAndRank(deduper.Listings())

	if err := p.store.Save(ranked); err != nil {
		return fmt.Errorf("pipeline: persist listings: %w", err)
	}

	p.logger.Info("[pipeline] Run complete — %d raw candidates, %d accepted, %d persisted",
		len(rawCandidates), accepted, len(ranked))
	return nil
}

func (p *Pipeline) markSeen(src MailSource, id uint32) {
	if err := src.MarkSeen(id); err != nil {
		p.logger.Warn("[pipeline] Could not flag message %d as seen: %v", id, err)
	}
}
