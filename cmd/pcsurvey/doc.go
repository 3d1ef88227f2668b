// Package main hosts the pcsurvey CLI entrypoint and command graph.
//
// The Cobra-based command tree turns committee-survey chores into single
// batch passes: parsing the raw form export, reconciling duplicate
// submissions, checking the roster for members who have not responded,
// applying name fixes, cross-validating the roster against the survey, and
// moving canonical records into the document store. Configuration is loaded
// once per invocation and a fresh logger carrying a run id is built for every
// command.
//
// Keep this package lean: behaviour lives in the internal packages and the
// commands here only wire files, flags, and operator output together.
package main
