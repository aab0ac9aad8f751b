package batch

import (
	"fmt"
	"runtime"
	"sync"

	fields "Lobefield/internal/calc/fields"
)

type Input struct {
	Items []fields.Input `json:"items"`
}

// RowResult holds the outcome for one source; exactly one of Result or Error
// is set. Order in Result.Results always matches Input.Items.
type RowResult struct {
	Source string         `json:"source"`
	Result *fields.Result `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

type Result struct {
	Results []RowResult `json:"results"`
	Failed  int         `json:"failed"`
}

// Calculate evaluates every row independently. A row that violates a formula
// precondition is reported in place; it never aborts the rest of the batch.
func Calculate(in Input, c fields.Constants) (Result, error) {
	if len(in.Items) == 0 {
		return Result{}, fmt.Errorf("no items")
	}

	out := make([]RowResult, len(in.Items))
	sem := make(chan struct{}, runtime.GOMAXPROCS(0))
	var wg sync.WaitGroup
	for i, item := range in.Items {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, item fields.Input) {
			defer wg.Done()
			defer func() { <-sem }()
			res, err := fields.Calculate(item, c)
			if err != nil {
				out[i] = RowResult{Source: item.Source, Error: err.Error()}
				return
			}
			out[i] = RowResult{Source: item.Source, Result: &res}
		}(i, item)
	}
	wg.Wait()

	failed := 0
	for _, r := range out {
		if r.Error != "" {
			failed++
		}
	}
	return Result{Results: out, Failed: failed}, nil
}
