package model

// Built-in roster names. Each HTTP profile serves the roster of the same name.
const (
	RosterExport    = "export"
	RosterGreeting  = "greeting"
	RosterLookup    = "lookup"
	RosterDirectory = "directory"
)

var rosters = map[string][]Student{
	RosterExport: {
		{ID: 1, Name: "shubha", Age: 21, RollNo: 53},
		{ID: 2, Name: "harini", Age: 20, RollNo: 23},
		{ID: 3, Name: "raj", Age: 2, RollNo: 50},
	},
	RosterGreeting: {
		{ID: 1, Name: "shubha", Age: 21, RollNo: 53},
		{ID: 2, Name: "harini", Age: 20, RollNo: 23},
		{ID: 3, Name: "raj", Age: 22, RollNo: 50},
	},
	RosterLookup: {
		{ID: 1, Name: "Shubha", Age: 22, RollNo: 101},
		{ID: 2, Name: "Harini", Age: 20, RollNo: 102},
		{ID: 3, Name: "Raju", Age: 21, RollNo: 103},
	},
	RosterDirectory: {
		{ID: 1, Name: "Shubha", Age: 22, Dept: "CSE"},
		{ID: 2, Name: "Harini", Age: 20, Dept: "ECE"},
		{ID: 3, Name: "Raju", Age: 21, Dept: "ME"},
	},
}

// Roster returns a copy of the named built-in roster with Roster set on every record.
func Roster(name string) ([]Student, bool) {
	src, ok := rosters[name]
	if !ok {
		return nil, false
	}

	out := make([]Student, len(src))
	for i, s := range src {
		s.Roster = name
		out[i] = s
	}
	return out, true
}

// RosterNames lists the built-in rosters.
func RosterNames() []string {
	return []string{RosterExport, RosterGreeting, RosterLookup, RosterDirectory}
}
