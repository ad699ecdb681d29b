// Package export turns a corpus snapshot into networks and event lists.
//
// An export run takes an ExportSetting through four steps:
//
//  1. Validate the setting against the snapshot's statement types
//     (*ConfigurationError lists every problem).
//  2. Filter the statements by type, date, document fields and values.
//  3. Build a Network (Affiliation for two-mode, OneMode for the congruence
//     projection) or tabulate an event list.
//  4. Write the result with a NetworkWriter (csv, dl, graphml) or the
//     EventListExporter (csv).
//
// Engine runs these steps one export at a time, tags each run with an id
// and reports to a Recorder:
//
//	engine := export.NewEngine(export.WithOutputDir("out"))
//	res, err := engine.Run(ctx, snapshot, setting)
package export
