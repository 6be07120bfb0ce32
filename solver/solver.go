// Package solver holds the one-dimensional root finders used by the curve
// bootstrap and the yield solve.
package solver

import (
	"fmt"
	"math"

	"github.com/meenmo/cpilib/errs"
)

const epsilon = 2.220446049250313e-16

// Func is a scalar objective.
type Func func(x float64) (float64, error)

// FuncDeriv returns the objective and its first derivative.
type FuncDeriv func(x float64) (f, df float64, err error)

func noBracket(op string, lo, hi, flo, fhi float64) error {
	return &errs.ConvergenceError{
		Op:           op,
		Kind:         errs.ErrNoRoot,
		LastEstimate: lo,
		Reason:       fmt.Sprintf("no sign change in [%g, %g]: f=%g, %g", lo, hi, flo, fhi),
	}
}

func exhausted(op string, x float64, iter int) error {
	return &errs.ConvergenceError{
		Op:           op,
		Kind:         errs.ErrNoRoot,
		LastEstimate: x,
		Iterations:   iter,
		Reason:       "maximum iterations exceeded",
	}
}

// Brent finds a root of f in [lo, hi]. A guess inside the bracket is used to
// tighten it before iterating. It returns the root and the number of
// objective evaluations beyond the bracket ends.
func Brent(f Func, guess, lo, hi, accuracy float64, maxIter int) (float64, int, error) {
	const op = "solver.Brent"
	if lo >= hi {
		return 0, 0, errs.InvalidInput("%s: empty bracket [%g, %g]", op, lo, hi)
	}
	fa, err := f(lo)
	if err != nil {
		return lo, 0, err
	}
	fb, err := f(hi)
	if err != nil {
		return hi, 0, err
	}
	if fa == 0 {
		return lo, 0, nil
	}
	if fb == 0 {
		return hi, 0, nil
	}
	if fa*fb > 0 {
		return 0, 0, noBracket(op, lo, hi, fa, fb)
	}

	a, b := lo, hi
	iter := 0
	if guess > lo && guess < hi {
		fg, err := f(guess)
		if err != nil {
			return guess, 1, err
		}
		iter++
		if fg == 0 {
			return guess, iter, nil
		}
		if fa*fg < 0 {
			b, fb = guess, fg
		} else {
			a, fa = guess, fg
		}
	}

	c, fc := b, fb
	var d, e float64
	for ; iter < maxIter; iter++ {
		if (fb > 0 && fc > 0) || (fb < 0 && fc < 0) {
			c, fc = a, fa
			d = b - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}
		tol := 2*epsilon*math.Abs(b) + 0.5*accuracy
		xm := 0.5 * (c - b)
		if math.Abs(xm) <= tol || fb == 0 {
			return b, iter, nil
		}
		if math.Abs(e) >= tol && math.Abs(fa) > math.Abs(fb) {
			// inverse quadratic interpolation, secant when only two points
			s := fb / fa
			var p, q float64
			if a == c {
				p = 2 * xm * s
				q = 1 - s
			} else {
				q = fa / fc
				r := fb / fc
				p = s * (2*xm*q*(q-r) - (b-a)*(r-1))
				q = (q - 1) * (r - 1) * (s - 1)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)
			min1 := 3*xm*q - math.Abs(tol*q)
			min2 := math.Abs(e * q)
			if 2*p < math.Min(min1, min2) {
				e = d
				d = p / q
			} else {
				d = xm
				e = d
			}
		} else {
			d = xm
			e = d
		}
		a, fa = b, fb
		if math.Abs(d) > tol {
			b += d
		} else {
			b += math.Copysign(tol, xm)
		}
		fb, err = f(b)
		if err != nil {
			return b, iter + 1, err
		}
	}
	return b, maxIter, exhausted(op, b, maxIter)
}

// NewtonSafe is Newton-Raphson kept inside a sign-changing bracket: a step that
// would leave the bracket, or that does not shrink fast enough, is replaced by
// bisection.
func NewtonSafe(fdf FuncDeriv, guess, lo, hi, accuracy float64, maxIter int) (float64, int, error) {
	const op = "solver.NewtonSafe"
	if lo >= hi {
		return 0, 0, errs.InvalidInput("%s: empty bracket [%g, %g]", op, lo, hi)
	}
	flo, _, err := fdf(lo)
	if err != nil {
		return lo, 0, err
	}
	fhi, _, err := fdf(hi)
	if err != nil {
		return hi, 0, err
	}
	if flo == 0 {
		return lo, 0, nil
	}
	if fhi == 0 {
		return hi, 0, nil
	}
	if flo*fhi > 0 {
		return 0, 0, noBracket(op, lo, hi, flo, fhi)
	}

	// orient so that f(xl) < 0
	xl, xh := lo, hi
	if flo > 0 {
		xl, xh = hi, lo
	}

	x := 0.5 * (lo + hi)
	if guess > lo && guess < hi {
		x = guess
	}
	dxOld := math.Abs(hi - lo)
	dx := dxOld

	f, df, err := fdf(x)
	if err != nil {
		return x, 0, err
	}
	for iter := 1; iter <= maxIter; iter++ {
		outside := ((x-xh)*df-f)*((x-xl)*df-f) > 0
		slow := math.Abs(2*f) > math.Abs(dxOld*df)
		if df == 0 || outside || slow {
			dxOld = dx
			dx = 0.5 * (xh - xl)
			x = xl + dx
		} else {
			dxOld = dx
			dx = f / df
			x -= dx
		}
		if math.Abs(dx) < accuracy {
			return x, iter, nil
		}
		f, df, err = fdf(x)
		if err != nil {
			return x, iter, err
		}
		if f == 0 {
			return x, iter, nil
		}
		if f < 0 {
			xl = x
		} else {
			xh = x
		}
	}
	return x, maxIter, exhausted(op, x, maxIter)
}
