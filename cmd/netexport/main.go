// netexport turns coded discourse data into network files.
//
// A corpus of documents and coded statements lives in a store (SQLite, or a
// YAML dataset held in memory). Export settings are small YAML files that
// select statements and describe the network to build; netexport writes the
// result as a CSV matrix, a UCINET DL file, GraphML, or a statement event
// list.
//
// Usage:
//
//	# Load a dataset into the configured SQLite store
//	netexport import corpus.yaml
//
//	# Check an export setting against the stored corpus
//	netexport validate settings/actors.yaml
//
//	# Run one export
//	netexport export settings/actors.yaml --output out/actors --format graphml
//
//	# Re-run exports whenever a setting changes
//	netexport export settings/ --watch
//
//	# Run every setting hourly, serving metrics
//	netexport schedule settings/ --schedule "0 * * * *" --metrics-addr :9102
package main

import "os"

func main() {
	os.Exit(Execute())
}
