// Package sample fabricates marksheet rows in place of real PDF text
// extraction. Output is deterministic per roll number so repeated imports of
// the same marksheet produce identical raw scores.
package sample

import (
	"hash/fnv"
	"math"
	"math/rand"
	"strconv"

	"github.com/marklytics/marksheet-api/internal/models"
)

// Generator produces raw subject scores for a subject catalog. The mark floor
// keeps fixture data in a presentable band (the reference fixtures use 40);
// it applies only here, never on the real computation path.
type Generator struct {
	markFloor        int
	internalFraction float64
}

// NewGenerator constructs a generator. A non-positive floor disables
// flooring; a fraction outside (0,1) falls back to 0.4.
func NewGenerator(markFloor int, internalFraction float64) *Generator {
	if markFloor < 0 {
		markFloor = 0
	}
	if internalFraction <= 0 || internalFraction >= 1 {
		internalFraction = 0.4
	}
	return &Generator{markFloor: markFloor, internalFraction: internalFraction}
}

// Generate returns one raw score per catalog entry, seeded by the roll-number
// suffix. External-only courses get a zero internal component.
func (g *Generator) Generate(info models.StudentInfo, defs []models.SubjectDefinition) []models.RawSubjectScore {
	r := rand.New(rand.NewSource(seedFor(info.RollNumber)))
	scores := make([]models.RawSubjectScore, 0, len(defs))
	for _, def := range defs {
		floor := g.markFloor
		if floor > def.TotalMarks {
			floor = def.TotalMarks
		}
		obtained := floor + r.Intn(def.TotalMarks-floor+1)

		score := models.RawSubjectScore{CourseCode: def.CourseCode}
		if def.ExternalOnly {
			score.ExternalMarks = obtained
		} else {
			internal := int(math.Round(float64(obtained) * g.internalFraction))
			score.InternalMarks = internal
			score.ExternalMarks = obtained - internal
		}
		scores = append(scores, score)
	}
	return scores
}

// seedFor derives a stable seed from the numeric roll suffix, falling back to
// an FNV hash for rolls without one.
func seedFor(rollNumber string) int64 {
	digits := trailingDigits(rollNumber)
	if digits != "" {
		if n, err := strconv.ParseInt(digits, 10, 64); err == nil {
			return n
		}
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(rollNumber))
	return int64(h.Sum64())
}

func trailingDigits(s string) string {
	end := len(s)
	start := end
	for start > 0 && s[start-1] >= '0' && s[start-1] <= '9' {
		start--
	}
	return s[start:end]
}
