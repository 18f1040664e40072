// Package matching computes compatibility scores between pair profiles.
// Scoring is pure and stateless; callers may score any number of candidate
// pairs concurrently.
package matching

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/pairloop/pairing-server-go/internal/model"
)

// Additive point budget. Each sub-score is clamped before summing and the
// final total is clamped to [0, 100].
const (
	maxSkillPoints       = 50
	pointsPerSkillMatch  = 10
	maxStackPoints       = 20
	pointsPerStackItem   = 5
	maxSessionTypePoints = 15
	pointsPerSessionType = 5
	sameTimezonePoints   = 10
	nearTimezonePoints   = 5
	nearTimezoneMaxHours = 3.0
	maxAvailabilityPts   = 15
	pointsPerWindowPair  = 3
	maxTotalScore        = 100
)

// Multipliers applied when the candidate's combined skill lists are empty or
// nearly empty. Candidate-relative on purpose: Score(a, b) and Score(b, a)
// may legitimately differ.
const (
	emptySkillsPenalty  = 0.3
	sparseSkillsPenalty = 0.6
)

const fallbackReason = "Not much in common yet, but every pairing starts somewhere"

// Score rates how good a pairing candidate is for self, from self's point of
// view. Returns an integer score in [0, 100] plus human-readable reasons.
// Self and candidate must be distinct members; Rank enforces that.
func Score(self, candidate *model.PairProfile) model.MatchScore {
	var total float64
	var reasons []string

	// Skill complementarity: what self can teach the candidate and vice versa.
	teachable := matchSkills(self.SkillsCanTeach, candidate.SkillsWantToLearn)
	learnable := matchSkills(candidate.SkillsCanTeach, self.SkillsWantToLearn)
	skillPoints := float64((len(teachable) + len(learnable)) * pointsPerSkillMatch)
	total += math.Min(maxSkillPoints, skillPoints)
	if len(teachable) > 0 {
		reasons = append(reasons, fmt.Sprintf("You can teach them: %s", strings.Join(teachable, ", ")))
	}
	if len(learnable) > 0 {
		reasons = append(reasons, fmt.Sprintf("They can teach you: %s", strings.Join(learnable, ", ")))
	}

	// Shared tooling: languages and frameworks count the same.
	stack := overlap(self.PreferredLanguages, candidate.PreferredLanguages)
	stack = append(stack, overlap(self.PreferredFrameworks, candidate.PreferredFrameworks)...)
	total += math.Min(maxStackPoints, float64(len(stack)*pointsPerStackItem))
	if len(stack) > 0 {
		reasons = append(reasons, fmt.Sprintf("Shared tech: %s", strings.Join(stack, ", ")))
	}

	sharedTypes := overlap(self.SessionTypes, candidate.SessionTypes)
	total += math.Min(maxSessionTypePoints, float64(len(sharedTypes)*pointsPerSessionType))
	if len(sharedTypes) > 0 {
		reasons = append(reasons, fmt.Sprintf("You both want: %s", strings.Join(sharedTypes, ", ")))
	}

	switch {
	case self.Timezone != "" && self.Timezone == candidate.Timezone:
		total += sameTimezonePoints
		reasons = append(reasons, fmt.Sprintf("Same timezone (%s)", self.Timezone))
	default:
		if hours, ok := timezoneGapHours(self.Timezone, candidate.Timezone, time.Now()); ok && hours <= nearTimezoneMaxHours {
			total += nearTimezonePoints
			reasons = append(reasons, fmt.Sprintf("Close timezones (~%dh apart)", int(hours)))
		}
	}

	if pairs := overlappingWindowPairs(self.Availability, candidate.Availability); pairs > 0 {
		total += math.Min(maxAvailabilityPts, float64(pairs*pointsPerWindowPair))
		reasons = append(reasons, "Overlapping weekly availability")
	}

	// A candidate with a bare skills section is hard to pair no matter how
	// well everything else lines up.
	switch skillCount := len(candidate.SkillsCanTeach) + len(candidate.SkillsWantToLearn); {
	case skillCount == 0:
		total *= emptySkillsPenalty
		reasons = append(reasons, "Limited profile: no skills listed yet")
	case skillCount < 2:
		total *= sparseSkillsPenalty
	}

	if len(reasons) == 0 {
		reasons = append(reasons, fallbackReason)
	}

	return model.MatchScore{
		CandidateID: candidate.MemberID,
		Score:       int(math.Round(math.Min(maxTotalScore, total))),
		Reasons:     reasons,
	}
}

// Rank scores every candidate in the pool against self and returns the best
// matches, highest score first. Self, inactive profiles, and zero scores are
// dropped. Ties are ordered by ascending candidate id so output is stable.
// At most limit entries are returned.
func Rank(self *model.PairProfile, pool []model.PairProfile, limit int) []model.MatchScore {
	if limit <= 0 {
		return nil
	}

	scores := make([]model.MatchScore, 0, len(pool))
	for i := range pool {
		candidate := &pool[i]
		if candidate.MemberID == self.MemberID || !candidate.IsActive {
			continue
		}
		if ms := Score(self, candidate); ms.Score > 0 {
			scores = append(scores, ms)
		}
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].CandidateID < scores[j].CandidateID
	})

	if len(scores) > limit {
		scores = scores[:limit]
	}
	return scores
}

// matchSkills returns entries from offered that normalize-equal any entry in
// wanted, preserving the offered spelling for display.
func matchSkills(offered, wanted []string) []string {
	if len(offered) == 0 || len(wanted) == 0 {
		return nil
	}

	wantedSet := make(map[string]struct{}, len(wanted))
	for _, w := range wanted {
		wantedSet[normalizeSkill(w)] = struct{}{}
	}

	var matched []string
	seen := make(map[string]struct{})
	for _, o := range offered {
		key := normalizeSkill(o)
		if key == "" {
			continue
		}
		if _, ok := wantedSet[key]; !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		matched = append(matched, o)
	}
	return matched
}

// normalizeSkill folds case and whitespace only. Anything smarter (aliasing,
// taxonomy) belongs to the profile-editing side.
func normalizeSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// overlap returns exact-string intersections, preserving a's order.
func overlap(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}

	bSet := make(map[string]struct{}, len(b))
	for _, v := range b {
		bSet[v] = struct{}{}
	}

	var shared []string
	seen := make(map[string]struct{})
	for _, v := range a {
		if _, ok := bSet[v]; !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		shared = append(shared, v)
	}
	return shared
}

// overlappingWindowPairs counts window pairs (one per profile) on the same
// weekday with intersecting time ranges.
func overlappingWindowPairs(a, b model.AvailabilityList) int {
	count := 0
	for _, wa := range a {
		for _, wb := range b {
			if wa.Overlaps(wb) {
				count++
			}
		}
	}
	return count
}

// timezoneGapHours approximates the wall-clock gap between two zones at the
// given instant. DST-naive: whatever offsets are in force right now. Unknown
// zone names report no gap.
func timezoneGapHours(a, b string, at time.Time) (float64, bool) {
	if a == "" || b == "" {
		return 0, false
	}
	locA, err := time.LoadLocation(a)
	if err != nil {
		return 0, false
	}
	locB, err := time.LoadLocation(b)
	if err != nil {
		return 0, false
	}

	_, offsetA := at.In(locA).Zone()
	_, offsetB := at.In(locB).Zone()

	return math.Abs(float64(offsetA-offsetB)) / 3600, true
}
