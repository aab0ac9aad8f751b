package batch

import (
	"fmt"
	"testing"

	fields "Lobefield/internal/calc/fields"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRow(source string) fields.Input {
	return fields.Input{
		Source: source,
		Alpha:  0.75,
		Gamma1: 10,
		Gamma2: 1e5,
		V0MHz:  1400,
		SV0Jy:  1.0,
		LKpc:   50,
		BKpc:   20,
		WKpc:   20,
		DLMpc:  200,
		Sf:     1.0,
	}
}

func TestCalculate_Empty(t *testing.T) {
	_, err := Calculate(Input{}, fields.Default())
	require.Error(t, err)
}

func TestCalculate_OneBadRowDoesNotAbort(t *testing.T) {
	in := Input{}
	for i := 0; i < 4; i++ {
		in.Items = append(in.Items, sampleRow(fmt.Sprintf("src-%d", i)))
	}
	bad := sampleRow("src-bad")
	bad.Gamma2 = bad.Gamma1 // degenerate energy bounds
	in.Items = append(in.Items[:2], append([]fields.Input{bad}, in.Items[2:]...)...)

	res, err := Calculate(in, fields.Default())
	require.NoError(t, err)
	require.Len(t, res.Results, 5)
	assert.Equal(t, 1, res.Failed)

	for i, r := range res.Results {
		if i == 2 {
			assert.Equal(t, "src-bad", r.Source)
			assert.Nil(t, r.Result)
			assert.NotEmpty(t, r.Error)
			continue
		}
		assert.NotNil(t, r.Result, "row %d", i)
		assert.Empty(t, r.Error, "row %d", i)
	}
}

func TestCalculate_PreservesInputOrder(t *testing.T) {
	in := Input{}
	for i := 0; i < 64; i++ {
		row := sampleRow(fmt.Sprintf("src-%02d", i))
		// vary the flux so rows are distinguishable by output too
		row.SV0Jy = 0.5 + float64(i)*0.25
		in.Items = append(in.Items, row)
	}

	res, err := Calculate(in, fields.Default())
	require.NoError(t, err)
	require.Len(t, res.Results, 64)
	for i, r := range res.Results {
		require.Equal(t, fmt.Sprintf("src-%02d", i), r.Source)
		require.NotNil(t, r.Result)
	}
	// monotone flux gives monotone luminosity across the ordered results
	for i := 1; i < len(res.Results); i++ {
		assert.Greater(t, res.Results[i].Result.LErgS, res.Results[i-1].Result.LErgS)
	}
}
