package services

import (
	"fmt"
	"sort"
	"strings"

	"estate-mail-scraper/models"
	"estate-mail-scraper/utils"
)

// ReportService summarises the final ranked dataset for the terminal.
type ReportService struct {
	logger *utils.Logger
}

func NewReportService(logger *utils.Logger) *ReportService {
	return &ReportService{logger: logger}
}

func (s *ReportService) Generate(listings []*models.Listing) *models.Report {
	report := &models.Report{
		BySource:           make(map[string]int),
		ListingsByLocation: make(map[string]int),
	}

	if len(listings) == 0 {
		return report
	}

	report.TotalListings = len(listings)

	var priced []*models.Listing
	for _, l := range listings {
		report.BySource[l.Source]++
		if l.PricePerArea > 0 {
			priced = append(priced, l)
		}
		if l.Location != "" && l.Location != "Unknown" {
			report.ListingsByLocation[l.Location]++
		}
	}

	if len(priced) > 0 {
		report.MinPricePerArea = priced[0].PricePerArea
		report.MaxPricePerArea = priced[0].PricePerArea
		report.BestDeal = priced[0]
		var total float64
		for _, l := range priced {
			total += l.PricePerArea
			if l.PricePerArea < report.MinPricePerArea {
				report.MinPricePerArea = l.PricePerArea
				report.BestDeal = l
			}
			if l.PricePerArea > report.MaxPricePerArea {
				report.MaxPricePerArea = l.PricePerArea
			}
		}
		report.AvgPricePerArea = round2(total / float64(len(priced)))
	}

	// Listings arrive ranked; the top deals are simply the head of the set.
	byScore := make([]*models.Listing, len(listings))
	copy(byScore, listings)
	sort.SliceStable(byScore, func(i, j int) bool {
		return byScore[i].Score > byScore[j].Score
	})
	if len(byScore) > 5 {
		report.TopDeals = byScore[:5]
	} else {
		report.TopDeals = byScore
	}

	return report
}

func (s *ReportService) Print(r *models.Report) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  🏠 LISTING SCAN SUMMARY\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Total listings : \033[1m%d\033[0m\n", r.TotalListings)
	for source, count := range r.BySource {
		fmt.Printf("  %-14s : \033[1m%d\033[0m\n", source, count)
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Price per m²\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.AvgPricePerArea > 0 {
		fmt.Printf("  Average : \033[1;32m€%.0f/m²\033[0m\n", r.AvgPricePerArea)
		fmt.Printf("  Minimum : \033[1;32m€%.0f/m²\033[0m\n", r.MinPricePerArea)
		fmt.Printf("  Maximum : \033[1;32m€%.0f/m²\033[0m\n", r.MaxPricePerArea)
	} else {
		fmt.Printf("  No price data available\n")
	}
	fmt.Println()

	if r.BestDeal != nil {
		fmt.Printf("\033[1;33m  Cheapest per m²\033[0m\n")
		fmt.Printf("  %s\n", thin)
		fmt.Printf("  %s\n", truncate(r.BestDeal.Name, 50))
		fmt.Printf("  Location : %s\n", r.BestDeal.Location)
		fmt.Printf("  Price    : \033[1;31m€%.0f (€%.0f/m²)\033[0m\n", r.BestDeal.Price, r.BestDeal.PricePerArea)
		fmt.Println()
	}

	fmt.Printf("\033[1;33m  Top 5 Deals by Score\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.TopDeals) == 0 {
		fmt.Printf("  No scored listings\n")
	} else {
		for i, l := range r.TopDeals {
			fmt.Printf("  \033[1m%d.\033[0m %-40s \033[1;32m%3.0f\033[0m\n",
				i+1, truncate(l.Name, 38), l.Score*100)
		}
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Listings by Location\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.ListingsByLocation) == 0 {
		fmt.Printf("  No location data\n")
	} else {
		type locCount struct {
			loc   string
			count int
		}
		var locs []locCount
		for loc, cnt := range r.ListingsByLocation {
			locs = append(locs, locCount{loc, cnt})
		}
		sort.Slice(locs, func(i, j int) bool {
			if locs[i].count != locs[j].count {
				return locs[i].count > locs[j].count
			}
			return locs[i].loc < locs[j].loc
		})
		for _, lc := range locs {
			bar := strings.Repeat("█", lc.count)
			fmt.Printf("  %-30s %s (%d)\n", truncate(lc.loc, 28), bar, lc.count)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

// truncate shortens s to at most max runes. Slicing happens on runes, not
// bytes, so titles with m² marks or accented vowels stay valid UTF-8.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
