// SPDX-License-Identifier: MIT

package equilibrium

import "math"

// Firm is a Cobb-Douglas producer Y = A·K^α·N^(1−α) renting capital at
// r + δ and labor at w in competitive markets. A is total factor
// productivity, N aggregate labor, Alpha the capital share and Delta the
// depreciation rate.
type Firm struct {
	A     float64 `yaml:"a" json:"a" validate:"gt=0"`
	N     float64 `yaml:"n" json:"n" validate:"gt=0"`
	Alpha float64 `yaml:"alpha" json:"alpha" validate:"gt=0,lt=1"`
	Delta float64 `yaml:"delta" json:"delta" validate:"gte=0,lte=1"`
}

// DefaultFirm: A = 1, N = 1, α = 0.33, δ = 0.05.
func DefaultFirm() Firm {
	return Firm{A: 1, N: 1, Alpha: 0.33, Delta: 0.05}
}

// Rate is the interest rate implied by capital K:
//
//	r(K) = α·A·(N/K)^(1−α) − δ.
func (f Firm) Rate(k float64) float64 {
	return f.Alpha*f.A*math.Pow(f.N/k, 1-f.Alpha) - f.Delta
}

// Wage is the wage consistent with interest rate r:
//
//	w(r) = A·(1−α)·(A·α/(r+δ))^(α/(1−α)).
func (f Firm) Wage(r float64) float64 {
	return f.A * (1 - f.Alpha) * math.Pow(f.A*f.Alpha/(r+f.Delta), f.Alpha/(1-f.Alpha))
}

// Capital inverts Rate: the capital stock at which the marginal product net
// of depreciation equals r. Requires r + δ > 0.
func (f Firm) Capital(r float64) float64 {
	return f.N * math.Pow(f.Alpha*f.A/(r+f.Delta), 1/(1-f.Alpha))
}
