package timezone

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	// ErrUnknownAbbreviation reports an abbreviation missing from the table.
	ErrUnknownAbbreviation = errors.New("unknown timezone abbreviation")
	// ErrInvalidTimestamp reports a timestamp that matches no supported layout.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

// abbreviationSpec lists UTC offsets in hours followed by the abbreviations
// observed at that offset.
const abbreviationSpec = `-12 Y
-11 X NUT SST
-10 W CKT HAST HST TAHT TKT
-9 V AKST GAMT GIT HADT HNY
-8 U AKDT CIST HAY HNP PST PT
-7 T HAP HNR MST PDT
-6 S CST EAST GALT HAR HNC MDT
-5 R CDT COT EASST ECT EST ET HAC HNE PET
-4 Q AST BOT CLT COST EDT FKT GYT HAE HNA PYT
-3 P ADT ART BRT CLST FKST GFT HAA PMST PYST SRT UYT WGT
-2 O BRST FNT PMDT UYST WGST
-1 N AZOT CVT EGT
0 Z EGST GMT UTC WET WT
1 A CET DFT WAT WEDT WEST
2 B CAT CEDT CEST EET SAST WAST
3 C EAT EEDT EEST IDT MSK
4 D AMT AZT GET GST KUYT MSD MUT RET SAMT SCT
5 E AMST AQTT AZST HMT MAWT MVT PKT TFT TJT TMT UZT YEKT
6 F ALMT BIOT BTT IOT KGT NOVT OMST YEKST
7 G CXT DAVT HOVT ICT KRAT NOVST OMSST THA WIB
8 H ACT AWST BDT BNT CAST HKT IRKT KRAST MYT PHT SGT ULAT WITA WST
9 I AWDT IRKST JST KST PWT TLT WDT WIT YAKT
10 K AEST ChST PGT VLAT YAKST YAPT
11 L AEDT LHDT MAGT NCT PONT SBT VLAST VUT
12 M ANAST ANAT FJT GILT MAGST MHT NZST PETST PETT TVT WFT
13 FJST NZDT
11.5 NFT
10.5 ACDT LHST
9.5 ACST
6.5 CCT MMT
5.75 NPT
5.5 SLT
4.5 AFT IRDT
3.5 IRST
-2.5 HAT NDT
-3.5 HNT NST NT
-4.5 HLV VET
-9.5 MART MIT`

// timestampLayouts are tried in order once the zone suffix has been removed.
// Single-digit month/day/hour verbs also accept zero-padded input.
var timestampLayouts = []string{
	"2006/1/2 3:04:05 PM",
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"3:04:05 PM",
	"3:04 PM",
	"15:04:05",
	"15:04",
}

// Table maps timezone abbreviations to UTC offsets in seconds.
type Table struct {
	offsets map[string]int
	folded  map[string]string
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the built-in abbreviation table.
func Default() *Table {
	defaultOnce.Do(func() {
		table, err := Parse(abbreviationSpec)
		if err != nil {
			panic(fmt.Sprintf("timezone: built-in table: %v", err))
		}
		defaultTable = table
	})
	return defaultTable
}

// Parse builds a table from text with one offset per line.
// Abbreviations repeated on a later line take the later offset.
func Parse(text string) (*Table, error) {
	table := &Table{
		offsets: make(map[string]int),
		folded:  make(map[string]string),
	}
	for lineNo, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		hours, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: parse offset %q: %w", lineNo+1, fields[0], err)
		}
		offset := int(hours * 3600)
		for _, abbr := range fields[1:] {
			table.offsets[abbr] = offset
			table.folded[strings.ToUpper(abbr)] = abbr
		}
	}
	return table, nil
}

// Offset returns the UTC offset in seconds for abbr. An exact match wins;
// otherwise the lookup is case-insensitive.
func (t *Table) Offset(abbr string) (int, error) {
	abbr = strings.TrimSpace(abbr)
	if offset, ok := t.offsets[abbr]; ok {
		return offset, nil
	}
	if canonical, ok := t.folded[strings.ToUpper(abbr)]; ok {
		return t.offsets[canonical], nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAbbreviation, abbr)
}

// Location returns a fixed zone named after abbr.
func (t *Table) Location(abbr string) (*time.Location, error) {
	offset, err := t.Offset(abbr)
	if err != nil {
		return nil, err
	}
	return time.FixedZone(strings.TrimSpace(abbr), offset), nil
}

// Abbreviations returns every abbreviation in the table, sorted.
func (t *Table) Abbreviations() []string {
	out := make([]string, 0, len(t.offsets))
	for abbr := range t.offsets {
		out = append(out, abbr)
	}
	sort.Strings(out)
	return out
}

// Len reports the number of abbreviations in the table.
func (t *Table) Len() int {
	return len(t.offsets)
}

// ParseTimestamp parses a submission timestamp. A trailing alphabetic token
// other than AM/PM is a zone abbreviation and must exist in the table; without
// one the timestamp is read as UTC unless the layout carries a numeric offset.
func (t *Table) ParseTimestamp(value string) (time.Time, error) {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidTimestamp)
	}

	loc := time.UTC
	last := fields[len(fields)-1]
	if isAlpha(last) && !isMeridiem(last) {
		zone, err := t.Location(last)
		if err != nil {
			return time.Time{}, fmt.Errorf("timestamp %q: %w", value, err)
		}
		loc = zone
		fields = fields[:len(fields)-1]
	}
	for i, field := range fields {
		if isMeridiem(field) {
			fields[i] = strings.ToUpper(field)
		}
	}

	rest := strings.Join(fields, " ")
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, rest, loc); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, value)
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

func isMeridiem(s string) bool {
	switch strings.ToUpper(s) {
	case "AM", "PM":
		return true
	}
	return false
}
