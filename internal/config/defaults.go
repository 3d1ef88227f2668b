package config

const (
	defaultLogDir           = "~/.local/share/pcsurvey/logs"
	defaultDataDir          = "~/.local/share/pcsurvey"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultTimestampColumn  = "Timestamp"
	defaultNameColumn       = "Name (First Last)"
	defaultCountryField     = "meeting_country"
	defaultTopicPrefix      = "topic: "
	defaultNotResponded     = "Not responded"
	defaultMatchCandidates  = 3
	defaultMatchMinRatio    = 0
	defaultStoreDriver      = "sqlite"
	defaultStoreFile        = "pcsurvey.db"
	defaultStoreCollection  = "survey"
	defaultCountryQuestion  = "From which country are you likely attending the Virtual PC meeting (July 8~9)? (We will use this information to predict your time zone during the PC meeting for planning purposes.)"
	defaultDBLPQuestion     = "Your DBLP URL"
	defaultScholarQuestion  = "Your Google Scholar URL"
	defaultCommentsQuestion = "Comments"
)

func defaultMultiValuedColumns() []string {
	return []string{
		"Topics",
		"Application Domains",
		"Memory/Storage",
		"Compilers/Programming Languages",
		"Measurement, Modeling, Simulation",
		"Operating Systems",
		"Microarchitecture",
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:  defaultLogDir,
			DataDir: defaultDataDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Survey: Survey{
			TimestampColumn: defaultTimestampColumn,
			NameColumn:      defaultNameColumn,
			Fields: []SurveyField{
				{Name: "dblp", Column: defaultDBLPQuestion},
				{Name: "google_scholar", Column: defaultScholarQuestion},
				{Name: defaultCountryField, Column: defaultCountryQuestion},
				{Name: "comments", Column: defaultCommentsQuestion},
			},
			MultiValuedColumns: defaultMultiValuedColumns(),
			Replacements: map[string]string{
				"FPGA, CGRA, Reconfigurable Systems": "FPGA/CGRA/Reconfigurable Systems",
			},
		},
		Reconcile: Reconcile{
			CountryField: defaultCountryField,
		},
		Roster: Roster{
			TopicPrefix:  defaultTopicPrefix,
			NewFields:    []string{"timestamp", "dblp", "google_scholar", defaultCountryField, "comments"},
			MeetingField: defaultCountryField,
			NotResponded: defaultNotResponded,
			CategoryRemap: map[string]string{
				"ApplicationDomains":              "Application Domains",
				"Measurement,Modeling,Simulation": "Measurement, Modeling, Simulation",
				"Architecture Support for OS":     "Operating Systems",
			},
			SubtopicRemap: map[string]string{
				"FPGA, CGRA, Reconfigurable Systems":        "FPGA/CGRA/Reconfigurable Systems",
				"Parallelism(Memory Consistency/Coherence)": "Parallelism (Memory Consistency/Coherence)",
			},
		},
		Matching: Matching{
			Candidates: defaultMatchCandidates,
			MinRatio:   defaultMatchMinRatio,
		},
		Store: Store{
			Driver:     defaultStoreDriver,
			Collection: defaultStoreCollection,
		},
	}
}
