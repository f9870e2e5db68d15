package factory

import "github.com/kasundularaam/mtfp-sim/factory/report"

// Records flattens the run's units into the production record stream: one
// record per unit, completed or not, with identity, timestamps and failure
// reason.
func (r *Result) Records() []*report.Record {
	records := make([]*report.Record, 0, len(r.Units))
	for _, unit := range r.Units {
		records = append(records, unitRecord(unit))
	}
	return records
}

func unitRecord(u *TyreUnit) *report.Record {
	rec := &report.Record{
		Serial:         u.Serial,
		PID:            u.Order.PID,
		Variant:        string(u.Order.Variant),
		Brand:          u.Order.Brand,
		Tread:          u.Order.Tread,
		Size:           string(u.Order.Size),
		State:          string(u.State),
		BuildStartedAt: u.BuildStartedAt,
		OvenArrivedAt:  u.OvenArrivedAt,
		CureStartedAt:  u.CureStartedAt,
		CureEndedAt:    u.CureEndedAt,
		CureBand:       string(u.CureBand),
	}
	if u.Failure != nil {
		rec.Failure = u.Failure.Error()
	}
	for _, step := range u.Steps {
		rec.Steps = append(rec.Steps, report.StepRecord{
			Step:      string(step.Step),
			ArrivedAt: step.ArrivedAt,
			StartedAt: step.StartedAt,
			EndedAt:   step.EndedAt,
		})
	}
	return rec
}
