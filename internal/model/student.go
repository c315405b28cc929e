package model

// Student is one record of a roster. Roster and ID together form the primary key.
type Student struct {
	Roster string `gorm:"primaryKey;size:32"`
	ID     int    `gorm:"primaryKey;autoIncrement:false"`
	Name   string
	Age    int
	RollNo int
	Dept   string
}

// ExportView is the shape written by the export tool. Field order is the key order in the file.
type ExportView struct {
	Name   string `json:"name" yaml:"name" toml:"name"`
	Age    int    `json:"age" yaml:"age" toml:"age"`
	RollNo int    `json:"roll no" yaml:"roll no" toml:"roll no"`
}

// LookupView is served by the lookup and greeting profiles.
type LookupView struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	RollNo int    `json:"roll_no"`
}

// DirectoryView is served by the directory profile.
type DirectoryView struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Age  int    `json:"age"`
	Dept string `json:"dept"`
}

func (s Student) ExportView() ExportView {
	return ExportView{Name: s.Name, Age: s.Age, RollNo: s.RollNo}
}

func (s Student) LookupView() LookupView {
	return LookupView{Name: s.Name, Age: s.Age, RollNo: s.RollNo}
}

func (s Student) DirectoryView() DirectoryView {
	return DirectoryView{ID: s.ID, Name: s.Name, Age: s.Age, Dept: s.Dept}
}
