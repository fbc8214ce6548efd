package formula

import (
	"fmt"
	"math"
)

type function func(args []operand) (Value, error)

var functions = map[string]function{
	"SUM":     fnSum,
	"AVERAGE": fnAverage,
	"AVG":     fnAverage,
	"MIN":     fnMin,
	"MAX":     fnMax,
	"COUNT":   fnCount,
	"ABS":     fnAbs,
	"ROUND":   fnRound,
}

// numbers flattens arguments into numbers. Scalars must coerce; range cells
// that are not numeric are skipped.
func numbers(args []operand) ([]float64, error) {
	var out []float64
	for _, a := range args {
		if !a.isRange {
			n, err := asNumber(a)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
			continue
		}
		for _, v := range a.vals {
			if v.IsNum {
				out = append(out, v.Num)
			}
		}
	}
	return out, nil
}

func fnSum(args []operand) (Value, error) {
	ns, err := numbers(args)
	if err != nil {
		return Value{}, err
	}
	total := 0.0
	for _, n := range ns {
		total += n
	}
	return Number(total), nil
}

func fnAverage(args []operand) (Value, error) {
	ns, err := numbers(args)
	if err != nil {
		return Value{}, err
	}
	if len(ns) == 0 {
		return Value{}, ErrDivZero
	}
	total := 0.0
	for _, n := range ns {
		total += n
	}
	return Number(total / float64(len(ns))), nil
}

func fnMin(args []operand) (Value, error) {
	ns, err := numbers(args)
	if err != nil {
		return Value{}, err
	}
	if len(ns) == 0 {
		return Number(0), nil
	}
	m := ns[0]
	for _, n := range ns[1:] {
		m = math.Min(m, n)
	}
	return Number(m), nil
}

func fnMax(args []operand) (Value, error) {
	ns, err := numbers(args)
	if err != nil {
		return Value{}, err
	}
	if len(ns) == 0 {
		return Number(0), nil
	}
	m := ns[0]
	for _, n := range ns[1:] {
		m = math.Max(m, n)
	}
	return Number(m), nil
}

func fnCount(args []operand) (Value, error) {
	count := 0
	for _, a := range args {
		for _, v := range a.vals {
			if v.IsNum {
				count++
			}
		}
	}
	return Number(float64(count)), nil
}

func fnAbs(args []operand) (Value, error) {
	if len(args) != 1 {
		return Value{}, fmt.Errorf("%w: ABS takes one argument", ErrValue)
	}
	n, err := asNumber(args[0])
	if err != nil {
		return Value{}, err
	}
	return Number(math.Abs(n)), nil
}

func fnRound(args []operand) (Value, error) {
	if len(args) == 0 || len(args) > 2 {
		return Value{}, fmt.Errorf("%w: ROUND takes one or two arguments", ErrValue)
	}
	n, err := asNumber(args[0])
	if err != nil {
		return Value{}, err
	}
	digits := 0.0
	if len(args) == 2 {
		if digits, err = asNumber(args[1]); err != nil {
			return Value{}, err
		}
	}
	scale := math.Pow(10, math.Trunc(digits))
	return Number(math.Round(n*scale) / scale), nil
}
