// Package service parses edit commands and applies them to datasets.
package service

import (
	"sheetops/internal/edit/model"
	"sheetops/internal/table"
)

// Result is what one command did to a dataset.
type Result struct {
	Command   string
	Operation model.Operation
	Outcome   model.Outcome
	Dataset   *table.Dataset
}

// Run parses command and applies it to ds.
func Run(ds *table.Dataset, command string) Result {
	op := Parse(command)
	out, res := Apply(ds, op)
	return Result{Command: command, Operation: op, Outcome: res, Dataset: out}
}

// RunAll applies commands in order, each on the previous result. A failed
// command leaves the dataset as it was and the next command continues from it.
func RunAll(ds *table.Dataset, commands []string) (*table.Dataset, []Result) {
	results := make([]Result, 0, len(commands))
	for _, c := range commands {
		r := Run(ds, c)
		ds = r.Dataset
		results = append(results, r)
	}
	return ds, results
}
