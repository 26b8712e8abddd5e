// Package dataset holds the tabular categorical input of a parallel sets chart.
//
// # Records
//
// A [Dataset] is an ordered slice of [Datum] records, each mapping a dimension
// name to a [Value]. A Value is a string, a number, or missing. Equality is
// strict, so the string "1" and the number 1 form different categories:
//
//	rows := dataset.Dataset{
//	    {"Class": dataset.String("First"), "Age": dataset.Number(38)},
//	    {"Class": dataset.String("Crew")},
//	}
//	rows[1].Get("Age").IsMissing() // true
//
// # Sources
//
// Records can be read from CSV/TSV ([ReadCSV]), JSON arrays ([ReadJSON]),
// newline-delimited JSON ([ReadNDJSON]), any of these by file extension
// ([ImportFile]), or a MongoDB collection ([LoadMongo]).
package dataset
