// Package score derives a single bounded quality score from a file
// report.
package score

import (
	"math"

	"github.com/svergne/pyscope/pkg/models"
)

const (
	maxScore = 100
	minScore = 0

	issuePenaltyPer = 2
	issuePenaltyMax = 30

	complexityHighThreshold = 10.0
	complexityHighMax       = 20
	complexityMidThreshold  = 5.0
	complexityMidMax        = 10

	docBonusThreshold   = 80.0
	docBonus            = 5
	docPenaltyThreshold = 30.0
	docPenalty          = 10

	commentRatioThreshold = 5.0
	commentPenalty        = 5
)

// Compute maps a report to a quality score in [0, 100]. A report
// carrying an error marker scores 0 regardless of its other fields.
//
// Starting from 100:
//   - style issues subtract 2 each, capped at 30
//   - average complexity above 10 subtracts 2 per point over, capped
//     at 20; above 5 subtracts 1 per point over, capped at 10
//   - doc coverage of 80%+ adds 5; below 30% subtracts 10
//   - comment ratio below 5% subtracts 5
func Compute(r *models.Report) int {
	if r.Error != "" {
		return minScore
	}

	score := maxScore

	issuePenalty := len(r.StyleIssues) * issuePenaltyPer
	if issuePenalty > issuePenaltyMax {
		issuePenalty = issuePenaltyMax
	}
	score -= issuePenalty

	if r.AvgComplexity > complexityHighThreshold {
		penalty := int(math.Floor((r.AvgComplexity - complexityHighThreshold) * 2))
		if penalty > complexityHighMax {
			penalty = complexityHighMax
		}
		score -= penalty
	} else if r.AvgComplexity > complexityMidThreshold {
		penalty := int(math.Floor(r.AvgComplexity - complexityMidThreshold))
		if penalty > complexityMidMax {
			penalty = complexityMidMax
		}
		score -= penalty
	}

	if r.DocCoverage >= docBonusThreshold {
		score += docBonus
	} else if r.DocCoverage < docPenaltyThreshold {
		score -= docPenalty
	}

	if r.CommentRatio < commentRatioThreshold {
		score -= commentPenalty
	}

	if score > maxScore {
		score = maxScore
	}
	if score < minScore {
		score = minScore
	}
	return score
}
