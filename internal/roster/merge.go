package roster

import (
	"fmt"
	"log/slog"
	"strings"

	"pcsurvey/internal/logging"
	"pcsurvey/internal/survey"
)

// Options configures roster cross-validation.
type Options struct {
	TopicPrefix   string
	CategoryRemap map[string]string
	SubtopicRemap map[string]string
	// NewFields are copied from the matched response onto the entry.
	NewFields []string
	// MeetingField is left empty for members without a response.
	MeetingField string
	// NotResponded fills every other new field for members without a response.
	NotResponded string
}

// Validator merges survey responses onto roster entries.
type Validator struct {
	opts   Options
	logger *slog.Logger
}

// NewValidator returns a validator using opts.
func NewValidator(opts Options, logger *slog.Logger) *Validator {
	return &Validator{
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "roster"),
	}
}

// IndexResponses keys responses by name. The first response for a name wins.
func IndexResponses(responses []survey.Response) map[string]survey.Response {
	index := make(map[string]survey.Response, len(responses))
	for _, resp := range responses {
		if _, ok := index[resp.Name]; ok {
			continue
		}
		index[resp.Name] = resp
	}
	return index
}

// Merge enriches entry in place from its matching response and returns it.
// A responder missing a requested field, or a topic flag that disagrees with
// the survey, is a hard error.
func (v *Validator) Merge(entry *Entry, responses map[string]survey.Response) (*Entry, error) {
	name := entry.Name()
	v.logger.Debug("checking roster entry", logging.String(logging.FieldPerson, name))

	resp, ok := responses[name]
	if !ok {
		return v.mergeNoResponse(entry, name)
	}
	return v.mergeResponse(entry, name, resp)
}

func (v *Validator) mergeNoResponse(entry *Entry, name string) (*Entry, error) {
	logging.WarnWithContext(v.logger, "survey response not found", "roster_no_response",
		logging.String(logging.FieldPerson, name),
		logging.String(logging.FieldErrorHint, "check no-response for misspelled names"),
		logging.String(logging.FieldImpact, "new fields marked not responded"),
	)
	for _, field := range v.opts.NewFields {
		if field == v.opts.MeetingField {
			entry.Set(field, "")
			continue
		}
		entry.Set(field, v.opts.NotResponded)
	}
	for _, column := range TopicColumns(entry, v.opts.TopicPrefix) {
		raw, _ := entry.Get(column)
		flag, err := parseFlag(name, column, raw)
		if err != nil {
			return nil, err
		}
		if flag != 0 {
			logging.WarnWithContext(v.logger, "topic set on roster without survey backing", "roster_unbacked_topic",
				logging.String(logging.FieldPerson, name),
				logging.String(logging.FieldField, column),
				logging.String("value", strings.TrimSpace(raw)),
				logging.String(logging.FieldErrorHint, "the member may have set it in the roster tool"),
				logging.String(logging.FieldImpact, "flag kept and normalized"),
			)
		}
		entry.Set(column, normalizeFlag(flag))
	}
	return entry, nil
}

func (v *Validator) mergeResponse(entry *Entry, name string, resp survey.Response) (*Entry, error) {
	for _, field := range v.opts.NewFields {
		value, ok := resp.Get(field)
		if !ok {
			return nil, survey.Wrap(survey.ErrSchema, name, fmt.Sprintf("field %q missing in survey response", field), nil)
		}
		entry.Set(field, value.String())
	}

	for _, column := range TopicColumns(entry, v.opts.TopicPrefix) {
		topic, err := ParseTopic(column, v.opts.TopicPrefix, v.opts.CategoryRemap, v.opts.SubtopicRemap)
		if err != nil {
			return nil, survey.Wrap(survey.ErrSchema, name, "parse topic column", err)
		}
		raw, _ := entry.Get(column)
		flag, err := parseFlag(name, column, raw)
		if err != nil {
			return nil, err
		}
		selected, ok := resp.Get(topic.Category)
		if !ok {
			return nil, survey.Wrap(survey.ErrSchema, name, fmt.Sprintf("survey response has no category %q for topic %q", topic.Category, column), nil)
		}
		has := selected.Contains(topic.Subtopic)
		switch {
		case flag <= 0 && has:
			return nil, survey.Wrap(survey.ErrConsistency, name,
				fmt.Sprintf("roster topic %q is %s but survey response of %q has %q", column, strings.TrimSpace(raw), topic.Category, topic.Subtopic), nil)
		case flag > 0 && !has:
			return nil, survey.Wrap(survey.ErrConsistency, name,
				fmt.Sprintf("roster topic %q is %s but survey response of %q has no %q", column, strings.TrimSpace(raw), topic.Category, topic.Subtopic), nil)
		}
		entry.Set(column, normalizeFlag(flag))
	}
	return entry, nil
}

// MergeAll runs Merge over every entry of r and returns the number of
// entries that had no matching response.
func (v *Validator) MergeAll(r *Roster, responses []survey.Response) (int, error) {
	index := IndexResponses(responses)
	missing := 0
	for _, entry := range r.Entries {
		if _, ok := index[entry.Name()]; !ok {
			missing++
		}
		if _, err := v.Merge(entry, index); err != nil {
			return missing, err
		}
	}
	v.logger.Info("cross-validated roster",
		logging.Int("members", len(r.Entries)),
		logging.Int("responses", len(index)),
		logging.Int("not_responded", missing),
	)
	return missing, nil
}

// AddEmail copies each respondent's roster email into an "email" field.
// A respondent absent from the roster is a schema violation.
func AddEmail(responses []survey.Response, r *Roster) error {
	emails := r.Emails()
	for i := range responses {
		email, ok := emails[responses[i].Name]
		if !ok {
			return survey.Wrap(survey.ErrSchema, responses[i].Name, "respondent not found in roster", nil)
		}
		responses[i].Fields.Set(ColumnEmail, survey.Scalar(email))
	}
	return nil
}
