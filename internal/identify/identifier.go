package identify

import (
	"context"
	"fmt"
	"log/slog"
)

// System resolves descriptors against the inventory.
type System interface {
	// Identify runs the resolution cascade for d. The error is non-nil only when the
	// store fails; NotFound and MultipleFound are ordinary outcomes.
	Identify(ctx context.Context, d Descriptor) (Outcome, error)
}

type identifier struct {
	store  Store
	logger *slog.Logger
}

// New creates an identifier over store. The identifier holds no mutable state and is
// safe for concurrent use.
func New(store Store, logger *slog.Logger) System {
	return &identifier{
		store:  store,
		logger: logger.With("system", "identify"),
	}
}

// query is the normalized form of a descriptor.
type query struct {
	fields        map[Field]string
	words         []string
	lowConfidence bool
}

func newQuery(d Descriptor) query {
	fields := make(map[Field]string, 6)
	for _, f := range []Field{FieldMake, FieldModel, FieldBadge, FieldRego, FieldLocation} {
		fields[f] = Normalize(d.Value(f))
	}
	return query{
		fields:        fields,
		words:         Tokens(d.Description),
		lowConfidence: d.RegoLowConfidence,
	}
}

// run carries the per-call state of one resolution.
type run struct {
	store Store
	memo  map[string][]Record
	seen  map[string]bool
	trace Trace
}

func (r *run) match(ctx context.Context, c Criteria) ([]Record, error) {
	key := c.String()
	if recs, ok := r.memo[key]; ok {
		return recs, nil
	}

	recs, err := r.store.Match(ctx, c)
	if err != nil {
		return nil, err
	}
	r.memo[key] = recs
	return recs, nil
}

func (r *run) step(name string, c Criteria, n int, decision string) {
	r.trace = append(r.trace, Step{Stage: name, Criteria: c, Matches: n, Decision: decision})
}

func (id *identifier) Identify(ctx context.Context, d Descriptor) (Outcome, error) {
	q := newQuery(d)
	r := &run{
		store: id.store,
		memo:  make(map[string][]Record),
		seen:  make(map[string]bool),
	}

	for _, st := range cascade {
		c, ok := st.criteria(q)
		if !ok {
			continue
		}

		if st.skipRepeat {
			key := c.String()
			if r.seen[key] {
				continue
			}
			r.seen[key] = true
		}

		out, done, err := id.evaluate(ctx, r, st, c, q)
		if err != nil {
			return Outcome{}, fmt.Errorf("identify stage %s: %w", st.name, err)
		}
		if done {
			out.Trace = r.trace
			id.log(d, out)
			return out, nil
		}
	}

	if len(r.trace) == 0 {
		r.step("fallback", Criteria{}, 0, "no stage applies")
	} else {
		r.step("fallback", Criteria{}, 0, "cascade exhausted")
	}
	out := Outcome{Status: NotFound, Stage: "fallback", Trace: r.trace}
	id.log(d, out)
	return out, nil
}

// evaluate runs one stage. done reports whether the stage decided the outcome.
func (id *identifier) evaluate(ctx context.Context, r *run, st stage, c Criteria, q query) (Outcome, bool, error) {
	recs, err := r.match(ctx, c)
	if err != nil {
		return Outcome{}, false, err
	}

	var v verdict
	switch len(recs) {
	case 1:
		r.step(st.name, c, 1, "found")
		return found(st.name, recs[0]), true, nil
	case 0:
		v = st.onZero
	default:
		v = st.onMany
	}

	switch v {
	case notFound:
		r.step(st.name, c, len(recs), "not found")
		return Outcome{Status: NotFound, Stage: st.name}, true, nil

	case multiple:
		r.step(st.name, c, len(recs), "multiple found")
		return Outcome{Status: MultipleFound, Stage: st.name}, true, nil

	case trustRego:
		if q.lowConfidence {
			r.step(st.name, c, 0, "low-confidence rego, continue")
			return Outcome{}, false, nil
		}
		r.step(st.name, c, 0, "trusted rego absent, not found")
		return Outcome{Status: NotFound, Stage: st.name}, true, nil

	case blankCheck:
		return id.blankCheck(ctx, r, st, c)

	case disambiguate:
		r.step(st.name, c, len(recs), "ambiguous, disambiguate by description")
		return id.disambiguate(ctx, r, st, c, q)

	default:
		r.step(st.name, c, len(recs), "continue")
		return Outcome{}, false, nil
	}
}

func (id *identifier) disambiguate(ctx context.Context, r *run, st stage, c Criteria, q query) (Outcome, bool, error) {
	name := st.name + " + description"
	if len(q.words) == 0 {
		r.step(name, c, 0, "no description words, "+unresolvedText(st.unresolved))
		return unresolved(st)
	}

	narrowed := Criteria{All: c.All, Words: q.words}
	recs, err := r.match(ctx, narrowed)
	if err != nil {
		return Outcome{}, false, err
	}

	if len(recs) == 1 {
		r.step(name, narrowed, 1, "found")
		return found(st.name, recs[0]), true, nil
	}

	r.step(name, narrowed, len(recs), unresolvedText(st.unresolved))
	return unresolved(st)
}

func (id *identifier) blankCheck(ctx context.Context, r *run, st stage, c Criteria) (Outcome, bool, error) {
	base := c.Base()
	recs, err := r.match(ctx, base)
	if err != nil {
		return Outcome{}, false, err
	}

	for _, rec := range recs {
		if Normalize(rec.Description) != "" {
			r.step(st.name, c, 0, "descriptions present but none match, not found")
			return Outcome{Status: NotFound, Stage: st.name}, true, nil
		}
	}

	r.step(st.name, c, 0, fmt.Sprintf("inconclusive, %d candidate(s) without description, continue", len(recs)))
	return Outcome{}, false, nil
}

func unresolved(st stage) (Outcome, bool, error) {
	if st.unresolved == multiple {
		return Outcome{Status: MultipleFound, Stage: st.name}, true, nil
	}
	return Outcome{}, false, nil
}

func unresolvedText(v verdict) string {
	if v == multiple {
		return "multiple found"
	}
	return "unresolved, continue"
}

func found(stage string, rec Record) Outcome {
	return Outcome{Status: Found, Record: &rec, Stage: stage}
}

func (id *identifier) log(d Descriptor, out Outcome) {
	for _, s := range out.Trace {
		id.logger.Debug("identify step", "stage", s.Stage, "criteria", s.Criteria.String(), "matches", s.Matches, "decision", s.Decision)
	}

	attrs := []any{"descriptor", d.String(), "status", out.Status.String(), "stage", out.Stage}
	if out.Record != nil {
		attrs = append(attrs, "car_id", out.Record.ID)
	}
	id.logger.Info("identification complete", attrs...)
}
