package learning

import (
	"log/slog"
	"time"

	"github.com/alexanderramin/studyblocks/internal/domain"
	"github.com/alexanderramin/studyblocks/internal/scheduler"
)

// Completion thresholds that make an entry count as a signal.
const (
	PositiveCompletion = 0.8
	NegativeCompletion = 0.5
)

// Config holds the learner's step sizes and clamp ranges.
type Config struct {
	WeightStep float64
	BiasStep   float64
	EnergyStep float64

	WeightMin, WeightMax float64
	BiasMin, BiasMax     float64
	EnergyMin, EnergyMax float64

	// Location is used to read the hour of a block's start. Nil means UTC.
	Location *time.Location
}

func DefaultConfig() Config {
	return Config{
		WeightStep: 0.05,
		BiasStep:   0.025,
		EnergyStep: 0.05,
		WeightMin:  0, WeightMax: 2,
		BiasMin: -1, BiasMax: 1,
		EnergyMin: 0.1, EnergyMax: 1.0,
	}
}

// ItemLookup resolves the work item a feedback entry refers to.
type ItemLookup interface {
	LookupWorkItem(id string) (domain.WorkItem, bool)
}

// ItemMap is an ItemLookup over an in-memory map keyed by id.
type ItemMap map[string]domain.WorkItem

func (m ItemMap) LookupWorkItem(id string) (domain.WorkItem, bool) {
	it, ok := m[id]
	return it, ok
}

// NewItemMap indexes items by id.
func NewItemMap(items []domain.WorkItem) ItemMap {
	m := make(ItemMap, len(items))
	for _, it := range items {
		m[it.ID] = it
	}
	return m
}

// Report summarizes one learning pass.
type Report struct {
	Applied     int
	Skipped     int
	WeightMoves map[domain.ScoreComponent]int
	EnergyMoves map[int]int // hour -> net step count
}

type Learner struct {
	items  ItemLookup
	cfg    Config
	logger *slog.Logger
}

// NewLearner builds a Learner. A nil logger discards diagnostics.
func NewLearner(items ItemLookup, cfg Config, logger *slog.Logger) *Learner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Learner{items: items, cfg: cfg, logger: logger}
}

// UpdatePreferences folds feedback into prefs in order. It reads no clock and
// no state besides its arguments; clearing the log afterwards is the caller's
// job. Entries naming unknown work items are skipped.
func (l *Learner) UpdatePreferences(feedback []domain.BlockFeedback, prefs *domain.SchedulerPreferences) Report {
	rep := Report{
		WeightMoves: make(map[domain.ScoreComponent]int),
		EnergyMoves: make(map[int]int),
	}
	if prefs == nil {
		return rep
	}
	if prefs.CategoryBias == nil {
		prefs.CategoryBias = make(map[string]float64)
	}
	loc := l.cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	for _, fb := range feedback {
		item, ok := l.items.LookupWorkItem(fb.WorkItemID)
		if !ok {
			rep.Skipped++
			l.logger.Debug("feedback skipped", "block_id", fb.BlockID, "work_item_id", fb.WorkItemID, "reason", "unknown work item")
			continue
		}
		rep.Applied++

		sign := signal(fb)
		if sign != 0 {
			dominant := scheduler.Components(item, *prefs, fb.OriginalStart).Dominant()
			w := prefs.Weight(dominant) + float64(sign)*l.cfg.WeightStep
			// SetWeight only fails on unknown components, and Dominant never returns one.
			_ = prefs.SetWeight(dominant, domain.ClampFloat(w, l.cfg.WeightMin, l.cfg.WeightMax))
			rep.WeightMoves[dominant] += sign

			category := fb.Category
			if category == "" {
				category = item.Category
			}
			if category != "" {
				b := prefs.CategoryBias[category] + float64(sign)*l.cfg.BiasStep
				prefs.CategoryBias[category] = domain.ClampFloat(b, l.cfg.BiasMin, l.cfg.BiasMax)
			}
		}

		if dir := energyDirection(fb.Action); dir != 0 {
			h := fb.OriginalStart.In(loc).Hour()
			e := prefs.Energy[h] + float64(dir)*l.cfg.EnergyStep
			prefs.Energy[h] = domain.ClampFloat(e, l.cfg.EnergyMin, l.cfg.EnergyMax)
			rep.EnergyMoves[h] += dir
		}
	}

	// Stored values may start outside the bounds; a pass always ends inside them.
	prefs.ClampWeights(l.cfg.WeightMin, l.cfg.WeightMax)
	prefs.ClampBias(l.cfg.BiasMin, l.cfg.BiasMax)
	prefs.Energy = prefs.Energy.Clamped(l.cfg.EnergyMin, l.cfg.EnergyMax)
	return rep
}

// signal is +1 for a confident positive entry, -1 for a confident negative
// one and 0 otherwise.
func signal(fb domain.BlockFeedback) int {
	switch {
	case fb.Action.IsPositive() && fb.CompletionRatio >= PositiveCompletion:
		return 1
	case fb.Action.IsNegative() && fb.CompletionRatio < NegativeCompletion:
		return -1
	}
	return 0
}

func energyDirection(a domain.FeedbackAction) int {
	switch {
	case a.IsPositive():
		return 1
	case a.IsNegative():
		return -1
	}
	return 0
}
