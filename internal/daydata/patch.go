package daydata

import "github.com/truexpanse/mat-data-service/internal/types"

// Patch is a field-level update to a day record. A nil field is preserved
// from the base record; a present field fully replaces it, arrays wholesale.
// There is no element-level merging.
type Patch struct {
	Events              *[]CalendarEvent        `json:"events,omitempty"`
	TopTargets          *[]Goal                 `json:"topTargets,omitempty"`
	MassiveGoals        *[]Goal                 `json:"massiveGoals,omitempty"`
	WinsToday           *types.FlexList[string] `json:"winsToday,omitempty"`
	ProspectingContacts *types.FlexList[string] `json:"prospectingContacts,omitempty"`
	AIChallenge         *AIChallenge            `json:"aiChallenge,omitempty"`
	EODSubmitted        *bool                   `json:"eodSubmitted,omitempty"`
}

// IsZero reports whether the patch carries no fields.
func (p Patch) IsZero() bool {
	return p.Events == nil && p.TopTargets == nil && p.MassiveGoals == nil &&
		p.WinsToday == nil && p.ProspectingContacts == nil &&
		p.AIChallenge == nil && p.EODSubmitted == nil
}

// Apply merges the patch over base and returns the merged record. The base
// is not mutated.
func (p Patch) Apply(base DayRecord) DayRecord {
	out := base.Clone()
	if p.Events != nil {
		out.Events = append([]CalendarEvent{}, *p.Events...)
	}
	if p.TopTargets != nil {
		out.TopTargets = append([]Goal{}, *p.TopTargets...)
	}
	if p.MassiveGoals != nil {
		out.MassiveGoals = append([]Goal{}, *p.MassiveGoals...)
	}
	if p.WinsToday != nil {
		out.WinsToday = append(types.FlexList[string]{}, *p.WinsToday...)
	}
	if p.ProspectingContacts != nil {
		out.ProspectingContacts = append(types.FlexList[string]{}, *p.ProspectingContacts...)
	}
	if p.AIChallenge != nil {
		out.AIChallenge = *p.AIChallenge
		out.AIChallenge.Challenges = append(types.FlexList[string]{}, p.AIChallenge.Challenges...)
	}
	if p.EODSubmitted != nil {
		out.EODSubmitted = *p.EODSubmitted
	}
	return out
}
