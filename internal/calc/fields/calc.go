package fields

import (
	"fmt"
	"math"
)

// Constants is the CGS constant set the formula runs on. Callers normally use
// Default(), optionally overriding XFactor from configuration; the engine never
// reads package state.
type Constants struct {
	CmPerKpc      float64 // cm per kiloparsec
	CmPerMpc      float64 // cm per Megaparsec
	C1            float64 // synchrotron constant
	C3            float64 // synchrotron constant
	ElectronMassG float64 // electron rest mass (g)
	LightSpeedCmS float64 // speed of light (cm/s)
	XFactor       float64 // proton-to-electron energy ratio
}

func Default() Constants {
	return Constants{
		CmPerKpc:      3.08567758128e21,
		CmPerMpc:      3.08567758128e24,
		C1:            6.266e18,
		C3:            2.368e-3,
		ElectronMassG: 9.1093837139e-28,
		LightSpeedCmS: 2.99792458e10,
		XFactor:       0,
	}
}

type Input struct {
	Source string  `json:"source"`
	Alpha  float64 `json:"alpha"`
	Gamma1 float64 `json:"gamma1"`
	Gamma2 float64 `json:"gamma2"`
	V0MHz  float64 `json:"v0_mhz"`
	SV0Jy  float64 `json:"s_v0_jy"`
	LKpc   float64 `json:"l_kpc"`
	BKpc   float64 `json:"b_kpc"`
	WKpc   float64 `json:"w_kpc"`
	DLMpc  float64 `json:"d_l_mpc"`
	Sf     float64 `json:"sf"`
}

type Result struct {
	Alpha  float64 `json:"alpha"`
	BMinUG float64 `json:"b_min_ug"`
	BEqUG  float64 `json:"b_eq_ug"`
	DLCm   float64 `json:"d_l_cm"`
	LErgS  float64 `json:"l_erg_s"`
	UP     float64 `json:"u_p_erg_cm3"`
	UB     float64 `json:"u_b_erg_cm3"`
	UTotal float64 `json:"u_total_erg_cm3"`
	Notes  string  `json:"notes"`
}

// DomainError marks a row whose values violate a physical or algebraic
// precondition of the formula. Batch callers treat it as a per-row failure.
type DomainError struct {
	Reason string
}

func (e *DomainError) Error() string { return "domain error: " + e.Reason }

func domainErrf(format string, args ...any) error {
	return &DomainError{Reason: fmt.Sprintf(format, args...)}
}

// Calculate derives the minimum-energy field B_min, the equipartition field
// B_eq, total synchrotron luminosity and energy densities for one lobe.
// All internal arithmetic is CGS; inputs arrive in astronomer units
// (kpc, Mpc, MHz, Jy) and fields are reported in microgauss.
func Calculate(in Input, c Constants) (Result, error) {
	if err := check(in); err != nil {
		return Result{}, err
	}

	lCm := in.LKpc * in.Sf * c.CmPerKpc
	bCm := in.BKpc * in.Sf * c.CmPerKpc
	wCm := in.WKpc * in.Sf * c.CmPerKpc
	dlCm := in.DLMpc * c.CmPerMpc

	v0Hz := in.V0MHz * 1e6
	sV0 := in.SV0Jy * 1e-23 // Jy -> erg/s/cm^2/Hz

	p := 2*in.Alpha + 1
	// 0.125 models ellipsoidal half-axes rather than a full box
	V := (4.0 / 3.0) * math.Pi * lCm * bCm * wCm * 0.125
	L1 := 4 * math.Pi * dlCm * dlCm * sV0 * math.Pow(v0Hz, in.Alpha)

	g1 := in.Gamma1 - 1
	g2 := in.Gamma2 - 1
	T3 := math.Pow(g2, 2-p) - math.Pow(g1, 2-p)
	T4 := math.Pow(g2, 2*(1-in.Alpha)) - math.Pow(g1, 2*(1-in.Alpha))
	T5 := math.Pow(g2, 3-p) - math.Pow(g1, 3-p)
	if T5 == 0 {
		return Result{}, &DomainError{Reason: "degenerate energy bounds"}
	}
	T6 := T3 * T4 / T5

	restE := c.ElectronMassG * c.LightSpeedCmS * c.LightSpeedCmS
	T1 := 3 * L1 / (2 * c.C3 * math.Pow(restE, 2*in.Alpha-1))
	T2 := (1 + c.XFactor) / (1 - in.Alpha) * (3 - p) / (2 - p) *
		math.Pow(math.Sqrt(2.0/3.0)*c.C1, 1-in.Alpha)
	A := T1 * T2 * T6
	L := L1 / (1 - in.Alpha) * math.Pow(math.Sqrt(2.0/3.0)*c.C1*restE*restE, 1-in.Alpha) * T4

	bMin := math.Pow(4*math.Pi*(1+in.Alpha)*A/V, 1/(3+in.Alpha))
	bEq := math.Pow(2/(1+in.Alpha), 1/(3+in.Alpha)) * bMin

	uB := bMin * bMin / (8 * math.Pi)
	uP := A / V * math.Pow(bMin, in.Alpha-1)

	res := Result{
		Alpha:  in.Alpha,
		BMinUG: bMin * 1e6,
		BEqUG:  bEq * 1e6,
		DLCm:   dlCm,
		LErgS:  L,
		UP:     uP,
		UB:     uB,
		UTotal: uP + uB,
		Notes:  "Minimum-energy estimate for an ellipsoidal lobe.",
	}
	if !finite(res) {
		return Result{}, &DomainError{Reason: "non-finite result"}
	}
	return res, nil
}

func check(in Input) error {
	if in.Alpha >= 1 {
		return &DomainError{Reason: "alpha must be < 1"}
	}
	if in.Alpha == -3 {
		return &DomainError{Reason: "alpha = -3 is outside the formula domain"}
	}
	if in.Alpha == 0.5 {
		return &DomainError{Reason: "alpha = 0.5 makes the spectral integral degenerate"}
	}
	if in.Gamma1 <= 1 {
		return &DomainError{Reason: "gamma1 must be > 1"}
	}
	if in.Gamma2 <= in.Gamma1 {
		return &DomainError{Reason: "gamma2 must be > gamma1"}
	}
	positives := []struct {
		name string
		v    float64
	}{
		{"v0", in.V0MHz},
		{"s_v0", in.SV0Jy},
		{"l", in.LKpc},
		{"b", in.BKpc},
		{"w", in.WKpc},
		{"D_l", in.DLMpc},
		{"Sf", in.Sf},
	}
	for _, f := range positives {
		if f.v <= 0 {
			return domainErrf("%s must be > 0", f.name)
		}
	}
	return nil
}

func finite(r Result) bool {
	for _, v := range []float64{r.BMinUG, r.BEqUG, r.DLCm, r.LErgS, r.UP, r.UB, r.UTotal} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
