// Package plan defines chronological Bible reading plans.
//
// A reading plan orders scripture by estimated historical occurrence rather
// than canonical book order. Each provider publishes its own plan, and the
// plans disagree about placement, which is what the compare package reports.
//
// # Core Types
//
//   - ReadingPlan: a provider's complete plan with its methodology
//   - DailyReading: one day-indexed entry in a plan
//   - BiblePassage: a book and chapter range, optionally annotated with parallels
//   - HistoricalContext: era label, approximate date and description
//
// # Passage Keys
//
// Comparisons and lookups key passages by "<book> <chapterStart>", for example
// "Genesis 1" or "1 Kings 3". ParsePassage reads the same notation, with an
// optional chapter range ("Genesis 1-3").
//
// # Example
//
//	p := &plan.ReadingPlan{
//	    Provider:    plan.ProviderESV,
//	    Methodology: plan.MethodologyFor(plan.ProviderESV),
//	    DailyReadings: []plan.DailyReading{
//	        {Day: 1, Passages: []plan.BiblePassage{{Book: "Genesis", ChapterStart: 1, ChapterEnd: 3, Testament: plan.OldTestament}}},
//	    },
//	}
//	r, ok := p.Reading(1)
package plan
