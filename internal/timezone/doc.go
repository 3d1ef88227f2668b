// Package timezone resolves the timezone abbreviations that survey exports
// append to submission timestamps.
//
// The abbreviation table is built once from a static listing with one
// line per UTC offset (fractional hours allowed) followed by every
// abbreviation that shares it. ParseTimestamp uses the table to turn strings
// such as "2021/05/20 10:23:45 AM EDT" into zone-aware times and rejects
// abbreviations the table does not know instead of guessing a default.
package timezone
