package survey_test

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"pcsurvey/internal/logging"
	"pcsurvey/internal/survey"
)

func response(name, ts string, fields ...any) survey.Response {
	resp := survey.Response{Name: name, Timestamp: ts}
	for i := 0; i+1 < len(fields); i += 2 {
		key := fields[i].(string)
		switch v := fields[i+1].(type) {
		case string:
			resp.Fields.Set(key, survey.Scalar(v))
		case []string:
			resp.Fields.Set(key, survey.List(v...))
		}
	}
	return resp
}

func newReconciler(t *testing.T, opts survey.PolicyOptions) *survey.Reconciler {
	t.Helper()
	if opts.CountryField == "" {
		opts.CountryField = "meeting_country"
	}
	if opts.UnionableFields == nil {
		opts.UnionableFields = []string{"topic", "meeting_country"}
	}
	policy, err := survey.NewPolicy(opts)
	if err != nil {
		t.Fatalf("NewPolicy: %v", err)
	}
	return survey.NewReconciler(policy, nil, logging.NewNop())
}

func TestReconcileSingleResponsePassesThrough(t *testing.T) {
	// The timestamp is never resolved for a lone response.
	only := response("A B", "not a timestamp", "topic", []string{"x"})
	result, err := newReconciler(t, survey.PolicyOptions{}).Reconcile([]survey.Response{only})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(result.Records) != 1 || result.Duplicates != 0 || len(result.Comparisons) != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.Records[0].Timestamp != "not a timestamp" {
		t.Fatalf("expected verbatim record, got %+v", result.Records[0])
	}
}

func TestReconcileIdenticalResponsesKeepLatest(t *testing.T) {
	responses := []survey.Response{
		response("A B", "11:00 EST", "topic", []string{"x"}, "comments", "hi"),
		response("A B", "10:00 EST", "topic", []string{"x"}, "comments", "hi"),
	}
	result, err := newReconciler(t, survey.PolicyOptions{Earliest: []string{"A B"}}).Reconcile(responses)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if got := result.Records[0].Timestamp; got != "11:00 EST" {
		t.Fatalf("expected latest response, got %q", got)
	}
	if result.Duplicates != 1 || len(result.Comparisons) != 0 {
		t.Fatalf("expected one duplicate and no comparisons, got %+v", result)
	}
}

func TestReconcileUnionExample(t *testing.T) {
	responses := []survey.Response{
		response("A B", "10:00 EST", "topic", []string{"x"}, "comments", "early", "meeting_country", "France"),
		response("A B", "11:00 EST", "topic", []string{"y"}, "comments", "late", "meeting_country", "Japan"),
	}
	result, err := newReconciler(t, survey.PolicyOptions{Union: []string{"A B"}}).Reconcile(responses)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	record := result.Records[0]
	topic, _ := record.Get("topic")
	if strings.Join(topic.Items, "|") != "x|y" {
		t.Fatalf("expected union x|y, got %v", topic.Items)
	}
	if comments, _ := record.Get("comments"); comments.Scalar != "late" {
		t.Fatalf("expected comments from latest, got %q", comments.Scalar)
	}
	if country, _ := record.Get("meeting_country"); country.Scalar != "Japan" {
		t.Fatalf("expected country from latest, got %q", country.Scalar)
	}
	if record.Timestamp != "11:00 EST" {
		t.Fatalf("expected latest timestamp, got %q", record.Timestamp)
	}

	if len(result.Comparisons) != 1 {
		t.Fatalf("expected one comparison, got %d", len(result.Comparisons))
	}
	cmp := result.Comparisons[0]
	if cmp.Strategy != survey.StrategyUnion || cmp.Defaulted {
		t.Fatalf("unexpected comparison strategy %+v", cmp)
	}
	if strings.Join(cmp.Fields, ",") != "comments,meeting_country,topic" {
		t.Fatalf("unexpected inconsistent fields %v", cmp.Fields)
	}
	if len(cmp.Originals) != 2 {
		t.Fatalf("expected both originals, got %d", len(cmp.Originals))
	}
}

func TestReconcileUnionNeverMergesCountryField(t *testing.T) {
	responses := []survey.Response{
		response("A B", "10:00 EST", "meeting_country", []string{"France"}),
		response("A B", "11:00 EST", "meeting_country", []string{"Japan"}),
	}
	result, err := newReconciler(t, survey.PolicyOptions{Union: []string{"A B"}}).Reconcile(responses)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	country, _ := result.Records[0].Get("meeting_country")
	if strings.Join(country.Items, "|") != "Japan" {
		t.Fatalf("expected latest country only, got %v", country.Items)
	}
}

func TestReconcileUnionDeduplicates(t *testing.T) {
	responses := []survey.Response{
		response("A B", "2021/04/01 09:00 EST", "topic", []string{"x", "y"}, "other", []string{"p"}),
		response("A B", "2021/04/01 10:00 EST", "topic", []string{"y", "z"}, "other", []string{"q"}),
	}
	result, err := newReconciler(t, survey.PolicyOptions{Union: []string{"A B"}}).Reconcile(responses)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	topic, _ := result.Records[0].Get("topic")
	if strings.Join(topic.Items, "|") != "x|y|z" {
		t.Fatalf("expected deduplicated union, got %v", topic.Items)
	}
	other, _ := result.Records[0].Get("other")
	if strings.Join(other.Items, "|") != "q" {
		t.Fatalf("expected non-unionable field from latest, got %v", other.Items)
	}
}

func TestReconcileEarliestAndDefault(t *testing.T) {
	responses := []survey.Response{
		response("A B", "2021/04/02 10:00 EST", "comments", "late"),
		response("C D", "2021/04/01 10:00 EST", "comments", "first"),
		response("A B", "2021/04/01 10:00 EST", "comments", "early"),
		response("C D", "2021/04/02 10:00 EST", "comments", "second"),
	}
	result, err := newReconciler(t, survey.PolicyOptions{Earliest: []string{"A B"}}).Reconcile(responses)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(result.Records) != 2 || result.Records[0].Name != "A B" || result.Records[1].Name != "C D" {
		t.Fatalf("expected first-appearance order, got %+v", result.Records)
	}
	if v, _ := result.Records[0].Get("comments"); v.Scalar != "early" {
		t.Fatalf("expected earliest for A B, got %q", v.Scalar)
	}
	if v, _ := result.Records[1].Get("comments"); v.Scalar != "second" {
		t.Fatalf("expected default latest for C D, got %q", v.Scalar)
	}
	if !result.Comparisons[1].Defaulted {
		t.Fatal("expected C D comparison flagged as defaulted")
	}
}

func TestReconcileUnresolvableTimestamp(t *testing.T) {
	responses := []survey.Response{
		response("A B", "10:00 QQQ", "comments", "a"),
		response("A B", "11:00 EST", "comments", "b"),
	}
	_, err := newReconciler(t, survey.PolicyOptions{}).Reconcile(responses)
	if !errors.Is(err, survey.ErrSchema) {
		t.Fatalf("expected ErrSchema, got %v", err)
	}
}

func TestNewPolicyRejectsOverlap(t *testing.T) {
	_, err := survey.NewPolicy(survey.PolicyOptions{
		Union:    []string{"A B"},
		Earliest: []string{" A B "},
	})
	if err == nil || !strings.Contains(err.Error(), "A B") {
		t.Fatalf("expected overlap error naming A B, got %v", err)
	}
}

func TestReconcileRecordCountMatchesDistinctNames(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	zones := []string{"EST", "PDT", "CEST", "JST", "NPT"}
	for iter := 0; iter < 200; iter++ {
		distinct := 1 + rng.IntN(8)
		total := 1 + rng.IntN(30)
		var responses []survey.Response
		names := make(map[string]struct{})
		var union, earliest []string
		for i := 0; i < distinct; i++ {
			switch rng.IntN(3) {
			case 0:
				union = append(union, fmt.Sprintf("Person %d", i))
			case 1:
				earliest = append(earliest, fmt.Sprintf("Person %d", i))
			}
		}
		for i := 0; i < total; i++ {
			name := fmt.Sprintf("Person %d", rng.IntN(distinct))
			names[name] = struct{}{}
			ts := fmt.Sprintf("2021/04/%02d %02d:%02d %s", 1+rng.IntN(28), rng.IntN(24), rng.IntN(60), zones[rng.IntN(len(zones))])
			responses = append(responses, response(name, ts,
				"topic", []string{fmt.Sprintf("t%d", rng.IntN(4))},
				"meeting_country", fmt.Sprintf("c%d", rng.IntN(3)),
			))
		}
		reconciler := newReconciler(t, survey.PolicyOptions{Union: union, Earliest: earliest})
		result, err := reconciler.Reconcile(responses)
		if err != nil {
			t.Fatalf("iteration %d: Reconcile: %v", iter, err)
		}
		if len(result.Records) != len(names) {
			t.Fatalf("iteration %d: %d records for %d names", iter, len(result.Records), len(names))
		}
		if got := len(survey.DistinctNames(result.Records)); got != len(names) {
			t.Fatalf("iteration %d: duplicate names in output", iter)
		}
	}
}

func TestInconsistentFields(t *testing.T) {
	a := response("A B", "1", "x", "1", "y", []string{"a", "b"})
	b := response("A B", "2", "x", "1", "y", []string{"b", "a"}, "z", "new")
	got := survey.InconsistentFields([]survey.Response{a, b})
	if strings.Join(got, ",") != "y,z" {
		t.Fatalf("unexpected inconsistent fields %v", got)
	}
	if survey.InconsistentFields([]survey.Response{a}) != nil {
		t.Fatal("expected nil for a single response")
	}
}
