// Package resolve maps user-typed service names onto installed systemd units.
package resolve

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/rs/zerolog"

	"github.com/doeshing/alex-go/internal/domain"
	"github.com/doeshing/alex-go/internal/ports"
)

// Similarity cutoffs.
const (
	LooseCutoff    = 0.6
	BareCutoff     = 0.72
	AutoAcceptRank = 0.90
)

var trailingDigits = regexp.MustCompile(`\d+$`)

// Service implements ports.ServiceResolver.
type Service struct {
	Units          ports.UnitLister
	MaxSuggestions int
	Logger         zerolog.Logger
}

// Candidate is a fuzzy match and its similarity score.
type Candidate struct {
	Unit  string
	Score float64
}

// Resolve implements ports.ServiceResolver. A failing unit probe is logged
// and treated as an empty unit set.
func (s *Service) Resolve(ctx context.Context, name string) (domain.ServiceResolution, error) {
	if s.Units == nil {
		return domain.ServiceResolution{}, errors.New("resolve.Service dependencies not satisfied")
	}
	requested := strings.TrimSpace(name)
	if requested == "" {
		return domain.ServiceResolution{}, errors.New("service name is empty")
	}
	wanted := NormalizeUnit(requested)
	res := domain.ServiceResolution{Requested: requested, Resolved: wanted}

	units, err := s.Units.ListServiceUnits(ctx)
	if err != nil {
		s.Logger.Warn().Err(err).Msg("unit enumeration failed")
		units = nil
	}

	for _, u := range units {
		if strings.EqualFold(u, wanted) {
			res.Resolved = u
			res.Changed = u != requested
			res.Found = true
			return res, nil
		}
	}

	ranked := Rank(requested, units, s.maxSuggestions())
	if len(ranked) == 0 {
		return res, nil
	}
	if ranked[0].Score > AutoAcceptRank {
		res.Resolved = ranked[0].Unit
		res.Changed = true
		res.Found = true
		res.Suggestions = unitsOf(ranked[1:])
		s.Logger.Debug().Str("requested", requested).Str("resolved", res.Resolved).
			Float64("score", ranked[0].Score).Msg("service auto-resolved")
		return res, nil
	}
	res.Suggestions = unitsOf(ranked)
	return res, nil
}

func (s *Service) maxSuggestions() int {
	if s.MaxSuggestions <= 0 {
		return domain.DefaultMaxSuggestions
	}
	return s.MaxSuggestions
}

// NormalizeUnit appends the service suffix when absent.
func NormalizeUnit(name string) string {
	n := strings.TrimSpace(name)
	if strings.HasSuffix(strings.ToLower(n), domain.UnitSuffix) {
		return n
	}
	return n + domain.UnitSuffix
}

// Rank scores every unit against name and returns at most limit candidates,
// best first. Two forms are compared: the suffixed name against full unit
// names, and the bare name against unit names with the suffix and any
// trailing version digits removed.
func Rank(name string, units []string, limit int) []Candidate {
	wanted := strings.ToLower(NormalizeUnit(name))
	bare := strings.TrimSuffix(wanted, domain.UnitSuffix)

	best := make(map[string]float64)
	keep := func(unit string, score float64) {
		if prev, ok := best[unit]; !ok || score > prev {
			best[unit] = score
		}
	}

	for _, u := range units {
		lower := strings.ToLower(u)
		if score := Similarity(wanted, lower); score >= LooseCutoff {
			keep(u, score)
		}
		stem := strings.TrimSuffix(lower, domain.UnitSuffix)
		for _, projection := range []string{stem, trailingDigits.ReplaceAllString(stem, "")} {
			if projection == "" {
				continue
			}
			if score := Similarity(bare, projection); score >= BareCutoff {
				keep(u, score)
			}
		}
	}

	out := make([]Candidate, 0, len(best))
	for u, score := range best {
		out = append(out, Candidate{Unit: u, Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Unit < out[j].Unit
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Similarity returns the sequence-matcher ratio of two strings in [0, 1].
func Similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}

func unitsOf(cs []Candidate) []string {
	if len(cs) == 0 {
		return nil
	}
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Unit
	}
	return out
}

var _ ports.ServiceResolver = (*Service)(nil)
