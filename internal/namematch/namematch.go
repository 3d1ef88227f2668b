// Package namematch ranks likely matches between respondent names and
// roster names when the two sets do not line up. It only reports; renaming
// is left to the operator.
package namematch

import (
	"fmt"
	"sort"

	"pcsurvey/internal/textutil"
)

// Candidate is a scored match for a name.
type Candidate struct {
	Name  string
	Ratio int
}

func (c Candidate) String() string {
	return fmt.Sprintf("%s(%d)", c.Name, c.Ratio)
}

// Candidates returns up to k names from pool scoring strictly above
// minRatio against target, best first. Equal scores sort by name. Scoring is
// case-folded.
func Candidates(target string, pool []string, k, minRatio int) []Candidate {
	if k <= 0 {
		return nil
	}
	folded := textutil.Fold(target)
	seen := make(map[string]struct{}, len(pool))
	var out []Candidate
	for _, name := range pool {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		ratio := textutil.Ratio(folded, textutil.Fold(name))
		if ratio > minRatio {
			out = append(out, Candidate{Name: name, Ratio: ratio})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Ratio != out[j].Ratio {
			return out[i].Ratio > out[j].Ratio
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > k {
		out = out[:k]
	}
	return out
}

// Partition compares distinct respondent names with roster member names.
type Partition struct {
	Respondents int
	Members     int
	// NoResponse lists members with no response, in roster order.
	NoResponse []string
	// Unknown lists respondents not on the roster, in response order.
	Unknown []string
}

// NewPartition splits the two name sets. Duplicate respondent names count once.
func NewPartition(respondents, members []string) Partition {
	responded := make(map[string]struct{}, len(respondents))
	var distinct []string
	for _, name := range respondents {
		if _, ok := responded[name]; ok {
			continue
		}
		responded[name] = struct{}{}
		distinct = append(distinct, name)
	}
	onRoster := make(map[string]struct{}, len(members))
	for _, name := range members {
		onRoster[name] = struct{}{}
	}

	p := Partition{Respondents: len(distinct), Members: len(members)}
	for _, name := range members {
		if _, ok := responded[name]; !ok {
			p.NoResponse = append(p.NoResponse, name)
		}
	}
	for _, name := range distinct {
		if _, ok := onRoster[name]; !ok {
			p.Unknown = append(p.Unknown, name)
		}
	}
	return p
}

// Mismatch is respondents plus non-responders minus members. It is zero when
// every respondent is on the roster exactly once.
func (p Partition) Mismatch() int {
	return p.Respondents + len(p.NoResponse) - p.Members
}

// Clean reports whether the sets partition without any unmatched names.
func (p Partition) Clean() bool {
	return p.Mismatch() == 0 && len(p.Unknown) == 0
}

// Match is one name with its ranked candidates from the other set.
type Match struct {
	Name       string
	Candidates []Candidate
}

// Report matches every non-responder against the unknown respondents' pool
// and every unknown respondent against the roster.
type Report struct {
	Partition Partition
	Members   []Match
	Responses []Match
}

// Build ranks candidates in both directions. Non-responders are scored
// against every respondent name, and unknown respondents against every
// member name.
func Build(respondents, members []string, k, minRatio int) Report {
	p := NewPartition(respondents, members)
	report := Report{Partition: p}
	if p.Clean() {
		return report
	}
	for _, name := range p.NoResponse {
		report.Members = append(report.Members, Match{Name: name, Candidates: Candidates(name, respondents, k, minRatio)})
	}
	for _, name := range p.Unknown {
		report.Responses = append(report.Responses, Match{Name: name, Candidates: Candidates(name, members, k, minRatio)})
	}
	return report
}
