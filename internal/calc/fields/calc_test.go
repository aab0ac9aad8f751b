package fields

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() Input {
	return Input{
		Source: "3C 98 N",
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

func TestCalculate_ExampleSource(t *testing.T) {
	res, err := Calculate(validInput(), Default())
	require.NoError(t, err)

	assert.Greater(t, res.BMinUG, 0.0)
	assert.Greater(t, res.BEqUG, res.BMinUG, "equipartition field exceeds minimum-energy field for 0<alpha<1")
	assert.Greater(t, res.LErgS, 0.0)
	assert.Greater(t, res.UP, 0.0)
	assert.Greater(t, res.UB, 0.0)
	require.InEpsilon(t, 200*3.08567758128e24, res.DLCm, 1e-12)
}

func TestCalculate_Deterministic(t *testing.T) {
	in := validInput()
	c := Default()
	first, err := Calculate(in, c)
	require.NoError(t, err)
	second, err := Calculate(in, c)
	require.NoError(t, err)
	// bit-identical, not merely close
	require.Equal(t, first, second)
}

func TestCalculate_ScaleFactorInvariance(t *testing.T) {
	// Scaling l,b,w by k while dividing Sf by k leaves the emission volume,
	// and therefore every output, unchanged.
	base := validInput()
	scaled := base
	const k = 2.5
	scaled.LKpc *= k
	scaled.BKpc *= k
	scaled.WKpc *= k
	scaled.Sf /= k

	c := Default()
	a, err := Calculate(base, c)
	require.NoError(t, err)
	b, err := Calculate(scaled, c)
	require.NoError(t, err)

	require.InEpsilon(t, a.BMinUG, b.BMinUG, 1e-12)
	require.InEpsilon(t, a.BEqUG, b.BEqUG, 1e-12)
	require.InEpsilon(t, a.LErgS, b.LErgS, 1e-12)
	require.InEpsilon(t, a.UP, b.UP, 1e-12)
	require.InEpsilon(t, a.UB, b.UB, 1e-12)
	require.InEpsilon(t, a.UTotal, b.UTotal, 1e-12)
}

func TestCalculate_MonotonicInFlux(t *testing.T) {
	lo := validInput()
	hi := validInput()
	hi.SV0Jy = 2 * lo.SV0Jy

	c := Default()
	a, err := Calculate(lo, c)
	require.NoError(t, err)
	b, err := Calculate(hi, c)
	require.NoError(t, err)

	assert.Greater(t, b.LErgS, a.LErgS)
	assert.Greater(t, b.BMinUG, a.BMinUG)
	assert.Greater(t, b.UP, a.UP)
}

func TestCalculate_EquipartitionRatio(t *testing.T) {
	in := validInput()
	res, err := Calculate(in, Default())
	require.NoError(t, err)

	want := math.Pow(2/(1+in.Alpha), 1/(3+in.Alpha))
	require.InEpsilon(t, want, res.BEqUG/res.BMinUG, 1e-9)
}

func TestCalculate_EnergyDensityComposition(t *testing.T) {
	res, err := Calculate(validInput(), Default())
	require.NoError(t, err)
	require.Equal(t, res.UP+res.UB, res.UTotal)
}

func TestCalculate_DomainRejection(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Input)
	}{
		{"alpha equal one", func(in *Input) { in.Alpha = 1 }},
		{"alpha above one", func(in *Input) { in.Alpha = 1.2 }},
		{"alpha minus three", func(in *Input) { in.Alpha = -3 }},
		{"alpha half", func(in *Input) { in.Alpha = 0.5 }},
		{"gamma1 at unity", func(in *Input) { in.Gamma1 = 1 }},
		{"gamma1 below unity", func(in *Input) { in.Gamma1 = 0.5 }},
		{"gamma bounds equal", func(in *Input) { in.Gamma2 = in.Gamma1 }},
		{"gamma bounds inverted", func(in *Input) { in.Gamma2 = in.Gamma1 / 2 }},
		{"zero frequency", func(in *Input) { in.V0MHz = 0 }},
		{"negative flux", func(in *Input) { in.SV0Jy = -1 }},
		{"zero flux", func(in *Input) { in.SV0Jy = 0 }},
		{"zero length", func(in *Input) { in.LKpc = 0 }},
		{"negative width", func(in *Input) { in.WKpc = -3 }},
		{"zero distance", func(in *Input) { in.DLMpc = 0 }},
		{"zero scale factor", func(in *Input) { in.Sf = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, err := Calculate(in, Default())
			require.Error(t, err)
			var de *DomainError
			require.ErrorAs(t, err, &de)
			assert.NotEmpty(t, de.Reason)
		})
	}
}

func TestCalculate_XFactorRaisesParticleEnergy(t *testing.T) {
	in := validInput()
	plain := Default()
	hadronic := Default()
	hadronic.XFactor = 1 // equal proton and electron energy content

	a, err := Calculate(in, plain)
	require.NoError(t, err)
	b, err := Calculate(in, hadronic)
	require.NoError(t, err)

	assert.Greater(t, b.BMinUG, a.BMinUG)
	assert.Greater(t, b.UTotal, a.UTotal)
}
