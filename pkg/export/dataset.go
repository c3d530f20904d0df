package export

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// Sheet is a named dataset within a multi-sheet workbook.
type Sheet struct {
	Name string
	Data Dataset
}
