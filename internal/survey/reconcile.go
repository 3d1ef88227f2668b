package survey

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"pcsurvey/internal/logging"
	"pcsurvey/internal/timezone"
)

// Strategy selects how duplicate responses collapse into one record.
type Strategy int

const (
	StrategyLatest Strategy = iota
	StrategyEarliest
	StrategyUnion
)

func (s Strategy) String() string {
	switch s {
	case StrategyEarliest:
		return "earliest"
	case StrategyUnion:
		return "union"
	default:
		return "latest"
	}
}

// PolicyOptions lists the caller's strategy assignments.
type PolicyOptions struct {
	Union    []string
	Latest   []string
	Earliest []string
	// UnionableFields are merged under the union strategy.
	UnionableFields []string
	// CountryField always takes the latest value, even under union.
	CountryField string
}

// Policy is a validated set of per-person strategy assignments.
type Policy struct {
	assigned     map[string]Strategy
	unionable    map[string]struct{}
	countryField string
}

// NewPolicy validates that the three name sets are disjoint and builds a
// policy. Names are trimmed the same way responses are.
func NewPolicy(opts PolicyOptions) (*Policy, error) {
	p := &Policy{
		assigned:     make(map[string]Strategy),
		unionable:    make(map[string]struct{}, len(opts.UnionableFields)),
		countryField: strings.TrimSpace(opts.CountryField),
	}
	groups := []struct {
		strategy Strategy
		names    []string
	}{
		{StrategyUnion, opts.Union},
		{StrategyLatest, opts.Latest},
		{StrategyEarliest, opts.Earliest},
	}
	for _, group := range groups {
		for _, raw := range group.names {
			name := strings.TrimSpace(raw)
			if name == "" {
				continue
			}
			if existing, ok := p.assigned[name]; ok && existing != group.strategy {
				return nil, fmt.Errorf("strategy sets overlap: %q is assigned both %s and %s", name, existing, group.strategy)
			}
			p.assigned[name] = group.strategy
		}
	}
	for _, field := range opts.UnionableFields {
		field = strings.TrimSpace(field)
		if field == "" || field == p.countryField {
			continue
		}
		p.unionable[field] = struct{}{}
	}
	return p, nil
}

// StrategyFor returns the strategy for name and whether it was assigned
// explicitly. Unassigned names get StrategyLatest.
func (p *Policy) StrategyFor(name string) (Strategy, bool) {
	if p == nil {
		return StrategyLatest, false
	}
	s, ok := p.assigned[name]
	if !ok {
		return StrategyLatest, false
	}
	return s, true
}

// Unionable reports whether field is merged under the union strategy.
func (p *Policy) Unionable(field string) bool {
	if p == nil || field == p.countryField {
		return false
	}
	_, ok := p.unionable[field]
	return ok
}

// Comparison is the operator-facing record of one person's disagreeing
// responses and the record chosen for them.
type Comparison struct {
	Name      string
	Fields    []string
	Originals []Response
	Canonical Response
	Strategy  Strategy
	// Defaulted is set when the person had no explicit assignment.
	Defaulted bool
}

// Result is the outcome of reconciling one batch.
type Result struct {
	// Records holds one canonical response per distinct name, in order of
	// first appearance.
	Records []Response
	// Duplicates counts names with more than one response.
	Duplicates  int
	Comparisons []Comparison
}

// Reconciler collapses duplicate responses.
type Reconciler struct {
	policy *Policy
	zones  *timezone.Table
	logger *slog.Logger
}

// NewReconciler returns a reconciler. A nil zones table uses the built-in one.
func NewReconciler(policy *Policy, zones *timezone.Table, logger *slog.Logger) *Reconciler {
	if zones == nil {
		zones = timezone.Default()
	}
	return &Reconciler{
		policy: policy,
		zones:  zones,
		logger: logging.NewComponentLogger(logger, "survey-reconcile"),
	}
}

// Reconcile produces exactly one record per distinct name.
func (r *Reconciler) Reconcile(responses []Response) (*Result, error) {
	groups := make(map[string][]Response)
	order := make([]string, 0)
	for _, resp := range responses {
		if _, seen := groups[resp.Name]; !seen {
			order = append(order, resp.Name)
		}
		groups[resp.Name] = append(groups[resp.Name], resp)
	}

	result := &Result{Records: make([]Response, 0, len(order))}
	for _, name := range order {
		group := groups[name]
		if len(group) == 1 {
			result.Records = append(result.Records, group[0])
			continue
		}

		result.Duplicates++
		canonical, cmp, err := r.reconcileGroup(name, group)
		if err != nil {
			return nil, err
		}
		if cmp != nil {
			result.Comparisons = append(result.Comparisons, *cmp)
		}
		result.Records = append(result.Records, canonical)
	}

	if len(result.Records) != len(order) {
		return nil, Wrap(ErrConsistency, "", fmt.Sprintf("reconciled %d records for %d distinct names", len(result.Records), len(order)), nil)
	}
	r.logger.Info("reconciled survey responses",
		logging.Int("responses", len(responses)),
		logging.Int("records", len(result.Records)),
		logging.Int("duplicated_names", result.Duplicates),
		logging.Int("inconsistent_names", len(result.Comparisons)),
	)
	return result, nil
}

func (r *Reconciler) reconcileGroup(name string, group []Response) (Response, *Comparison, error) {
	sorted, err := r.sortByTime(name, group)
	if err != nil {
		return Response{}, nil, err
	}
	r.logger.Warn("duplicate responses",
		logging.String(logging.FieldPerson, name),
		logging.Int("count", len(group)),
	)

	fields := InconsistentFields(group)
	if len(fields) == 0 {
		r.logger.Info("duplicate responses agree; keeping latest",
			logging.String(logging.FieldPerson, name),
		)
		return sorted[len(sorted)-1], nil, nil
	}

	strategy, assigned := r.policy.StrategyFor(name)
	r.logger.Warn("inconsistent responses",
		logging.String(logging.FieldPerson, name),
		logging.String("fields", strings.Join(fields, ", ")),
		logging.String("strategy", strategy.String()),
	)
	if !assigned {
		logging.WarnWithContext(r.logger, "no strategy assigned; applying default latest strategy", "reconcile_default_strategy",
			logging.String(logging.FieldPerson, name),
			logging.String(logging.FieldErrorHint, "assign the name with --union, --latest, or --earliest"),
			logging.String(logging.FieldImpact, "latest submission kept verbatim"),
		)
	}

	canonical := r.apply(strategy, sorted)
	return canonical, &Comparison{
		Name:      name,
		Fields:    fields,
		Originals: slices.Clone(group),
		Canonical: canonical,
		Strategy:  strategy,
		Defaulted: !assigned,
	}, nil
}

func (r *Reconciler) sortByTime(name string, group []Response) ([]Response, error) {
	sorted := make([]Response, len(group))
	for i, resp := range group {
		if resp.SubmittedAt.IsZero() {
			ts, err := r.zones.ParseTimestamp(resp.Timestamp)
			if err != nil {
				return nil, Wrap(ErrSchema, name, "resolve timestamp", err)
			}
			resp.SubmittedAt = ts
		}
		sorted[i] = resp
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SubmittedAt.Before(sorted[j].SubmittedAt)
	})
	return sorted, nil
}

func (r *Reconciler) apply(strategy Strategy, sorted []Response) Response {
	switch strategy {
	case StrategyEarliest:
		return sorted[0]
	case StrategyUnion:
		return unionResponses(sorted, r.policy.Unionable)
	default:
		return sorted[len(sorted)-1]
	}
}

// unionResponses merges unionable multi-valued fields across sorted responses
// and takes every other field from the latest one. Union order follows first
// appearance in submission order.
func unionResponses(sorted []Response, unionable func(string) bool) Response {
	out := sorted[len(sorted)-1].Clone()
	for _, key := range out.Fields.Keys() {
		latest, _ := out.Fields.Get(key)
		if !latest.Multi || !unionable(key) {
			continue
		}
		seen := make(map[string]struct{})
		merged := make([]string, 0, len(latest.Items))
		for _, resp := range sorted {
			v, ok := resp.Fields.Get(key)
			if !ok {
				continue
			}
			for _, item := range v.Items {
				if _, dup := seen[item]; dup {
					continue
				}
				seen[item] = struct{}{}
				merged = append(merged, item)
			}
		}
		out.Fields.Set(key, List(merged...))
	}
	return out
}

// InconsistentFields returns the sorted names of fields whose values differ
// across responses. The timestamp is never compared.
func InconsistentFields(responses []Response) []string {
	if len(responses) < 2 {
		return nil
	}
	keys := make([]string, 0)
	seen := make(map[string]struct{})
	for _, resp := range responses {
		for _, key := range resp.Fields.keys {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}

	var out []string
	for _, key := range keys {
		first, firstOK := responses[0].Fields.Get(key)
		for _, resp := range responses[1:] {
			v, ok := resp.Fields.Get(key)
			if ok != firstOK || !v.Equal(first) {
				out = append(out, key)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}
