// Package roster reads the committee-management roster export and
// cross-validates it against reconciled survey responses.
//
// Entries keep their CSV column order so an enriched roster can be written
// back in the shape it was read. Merge copies requested response fields onto
// each entry and checks every topic flag column against the subtopics the
// member selected in the survey.
package roster
