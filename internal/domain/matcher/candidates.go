package matcher

import (
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/reconlab/wba-recon/internal/domain/ledger"
)

// Generator enumerates scored match candidates between a journal ledger and a
// WBA ledger across the five tiers.
//
// Tiers 1-3 are pruned through hash indexes (by exact key, by cents, by
// date). Tiers 4 and 5 are pruned only by account pair and in the worst case
// degrade to an O(n·m) scan; very large ledgers may need size limits upstream.
type Generator struct {
	cfg    Config
	logger *slog.Logger
}

// NewGenerator creates a generator with the given run configuration.
func NewGenerator(cfg Config, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{cfg: cfg, logger: logger}
}

// index keys

type exactKey struct {
	date  int64 // unix seconds of the UTC midnight date
	minor int64
	pair  ledger.AccountPair
}

type wbaIndex struct {
	byExact map[exactKey][]int
	byMinor map[int64][]int
	byDate  map[int64][]int
	byPair  map[ledger.AccountPair][]int
}

// buildWBAIndex buckets WBA row IDs. Every bucket keeps ascending ID order so
// candidate enumeration is reproducible.
func buildWBAIndex(wba *ledger.Ledger) wbaIndex {
	idx := wbaIndex{
		byExact: make(map[exactKey][]int),
		byMinor: make(map[int64][]int),
		byDate:  make(map[int64][]int),
		byPair:  make(map[ledger.AccountPair][]int),
	}
	for _, w := range wba.Records {
		pair := w.AccountPair()
		ek := exactKey{date: w.Date.Unix(), minor: w.AmountMinor, pair: pair}
		idx.byExact[ek] = append(idx.byExact[ek], w.ID)
		idx.byMinor[w.AmountMinor] = append(idx.byMinor[w.AmountMinor], w.ID)
		idx.byDate[w.Date.Unix()] = append(idx.byDate[w.Date.Unix()], w.ID)
		idx.byPair[pair] = append(idx.byPair[pair], w.ID)
	}
	return idx
}

// Generate produces the five candidate lists, each sorted by descending score
// with the enumeration order preserved among ties.
func (g *Generator) Generate(journal, wba *ledger.Ledger) CandidateSet {
	started := time.Now()
	idx := buildWBAIndex(wba)

	set := CandidateSet{
		TierExact:              g.exact(journal, wba, idx),
		TierSameAmountNearDate: g.sameAmountNearDate(journal, wba, idx),
		TierSameDateNearAmount: g.sameDateNearAmount(journal, wba, idx),
		TierNearAmountNearDate: g.nearAmountNearDate(journal, wba, idx),
		TierFuzzy:              g.fuzzy(journal, wba, idx),
	}

	for _, tier := range MatchTiers() {
		list := set[tier]
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Score > list[j].Score
		})
		g.logger.Debug("candidates generated", "tier", string(tier), "count", len(list))
	}
	g.logger.Info("candidate generation finished",
		"journal_rows", journal.Len(),
		"wba_rows", wba.Len(),
		"duration", time.Since(started))
	return set
}

// exact: same date, same cents, same unordered account pair.
func (g *Generator) exact(journal, wba *ledger.Ledger, idx wbaIndex) []Candidate {
	var out []Candidate
	for _, j := range journal.Records {
		key := exactKey{date: j.Date.Unix(), minor: j.AmountMinor, pair: j.AccountPair()}
		for _, wi := range idx.byExact[key] {
			w := wba.Records[wi]
			sim := Similarity(j.Description, w.Description)
			out = append(out, Candidate{
				JournalID:  j.ID,
				WBAID:      w.ID,
				Tier:       TierExact,
				Score:      3.0 + sim,
				Similarity: sim,
			})
		}
	}
	return out
}

// sameAmountNearDate: identical cents, dates strictly within the window.
func (g *Generator) sameAmountNearDate(journal, wba *ledger.Ledger, idx wbaIndex) []Candidate {
	var out []Candidate
	for _, j := range journal.Records {
		pair := j.AccountPair()
		for _, wi := range idx.byMinor[j.AmountMinor] {
			w := wba.Records[wi]
			if w.AccountPair() != pair {
				continue
			}
			dd := ledger.DayDistance(j.Date, w.Date)
			if dd == 0 || dd > g.cfg.DateWindowDays {
				continue
			}
			sim := Similarity(j.Description, w.Description)
			diff := j.Amount.Sub(w.Amount).Abs()
			out = append(out, Candidate{
				JournalID:   j.ID,
				WBAID:       w.ID,
				Tier:        TierSameAmountNearDate,
				Score:       reciprocal(float64(dd)) + reciprocal(diffFloat(diff)) + sim,
				DayDistance: dd,
				AmountDiff:  diff,
				Similarity:  sim,
			})
		}
	}
	return out
}

// sameDateNearAmount: identical date, cents strictly within tolerance.
func (g *Generator) sameDateNearAmount(journal, wba *ledger.Ledger, idx wbaIndex) []Candidate {
	var out []Candidate
	for _, j := range journal.Records {
		pair := j.AccountPair()
		for _, wi := range idx.byDate[j.Date.Unix()] {
			w := wba.Records[wi]
			if w.AccountPair() != pair {
				continue
			}
			dm := absInt64(j.AmountMinor - w.AmountMinor)
			if dm == 0 || dm > g.cfg.AmountToleranceMinor {
				continue
			}
			sim := Similarity(j.Description, w.Description)
			diff := j.Amount.Sub(w.Amount).Abs()
			out = append(out, Candidate{
				JournalID:  j.ID,
				WBAID:      w.ID,
				Tier:       TierSameDateNearAmount,
				Score:      reciprocal(diffFloat(diff)) + 1.5 + sim,
				AmountDiff: diff,
				Similarity: sim,
			})
		}
	}
	return out
}

// nearAmountNearDate: both distances strictly positive and within bounds.
// No similarity term in the score.
func (g *Generator) nearAmountNearDate(journal, wba *ledger.Ledger, idx wbaIndex) []Candidate {
	var out []Candidate
	for _, j := range journal.Records {
		for _, wi := range idx.byPair[j.AccountPair()] {
			w := wba.Records[wi]
			dd := ledger.DayDistance(j.Date, w.Date)
			if dd == 0 || dd > g.cfg.DateWindowDays {
				continue
			}
			dm := absInt64(j.AmountMinor - w.AmountMinor)
			if dm == 0 || dm > g.cfg.AmountToleranceMinor {
				continue
			}
			diff := j.Amount.Sub(w.Amount).Abs()
			out = append(out, Candidate{
				JournalID:   j.ID,
				WBAID:       w.ID,
				Tier:        TierNearAmountNearDate,
				Score:       reciprocal(float64(dd)) + reciprocal(diffFloat(diff)),
				DayDistance: dd,
				AmountDiff:  diff,
			})
		}
	}
	return out
}

// fuzzy: within both tolerances, zero distance allowed, similar descriptions.
func (g *Generator) fuzzy(journal, wba *ledger.Ledger, idx wbaIndex) []Candidate {
	var out []Candidate
	for _, j := range journal.Records {
		for _, wi := range idx.byPair[j.AccountPair()] {
			w := wba.Records[wi]
			dd := ledger.DayDistance(j.Date, w.Date)
			if dd > g.cfg.DateWindowDays {
				continue
			}
			dm := absInt64(j.AmountMinor - w.AmountMinor)
			if dm > g.cfg.AmountToleranceMinor {
				continue
			}
			sim := Similarity(j.Description, w.Description)
			if sim < g.cfg.SimilarityThreshold {
				continue
			}
			diff := j.Amount.Sub(w.Amount).Abs()
			out = append(out, Candidate{
				JournalID:   j.ID,
				WBAID:       w.ID,
				Tier:        TierFuzzy,
				Score:       reciprocal(float64(dd)) + reciprocal(diffFloat(diff)) + sim,
				DayDistance: dd,
				AmountDiff:  diff,
				Similarity:  sim,
			})
		}
	}
	return out
}

// reciprocal maps a distance to a (0,1] closeness term.
func reciprocal(d float64) float64 { return 1.0 / (1.0 + d) }

func diffFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
