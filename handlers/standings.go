// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"sort"

	"github.com/danielhkuo/quickly-vote/models"
)

// ComputeStandings ranks candidates by tally for the live results view.
//
// Ordering:
//  1. More votes first
//  2. Ties broken by candidate ID (ascending), i.e. the older candidate first
//
// Tied candidates share a rank (competition ranking: 1, 1, 3).
func ComputeStandings(candidates []models.Candidate) models.ResultsResponse {
	sorted := make([]models.Candidate, len(candidates))
	copy(sorted, candidates)

	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Votes != b.Votes {
			return a.Votes > b.Votes
		}
		return a.ID < b.ID
	})

	total := 0
	for _, c := range sorted {
		total += c.Votes
	}

	standings := make([]models.Standing, len(sorted))
	for i, c := range sorted {
		rank := i + 1 // 1-indexed ranking
		if i > 0 && c.Votes == sorted[i-1].Votes {
			rank = standings[i-1].Rank
		}

		share := 0.0
		if total > 0 {
			share = float64(c.Votes) / float64(total)
		}

		standings[i] = models.Standing{
			Rank:        rank,
			CandidateID: c.ID,
			Name:        c.Name,
			Description: c.Description,
			Votes:       c.Votes,
			Share:       share,
		}
	}

	return models.ResultsResponse{
		TotalVotes: total,
		Standings:  standings,
	}
}
