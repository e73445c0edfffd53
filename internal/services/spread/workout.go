package spread

// Bond is the pricing capability the spread engine consumes. Prices are
// clean, per 100 face; yields are decimal. Time fractions use the bond's own
// day-count convention from its settlement date.
type Bond interface {
	YieldToMaturity(cleanPrice float64) (float64, error)
	YieldToCall(cleanPrice float64) (float64, error)
	PriceFromYieldToMaturity(y float64) (float64, error)
	PriceFromYieldToCall(y float64) (float64, error)
	TimeToMaturity() float64
	// TimeToCall reports false when the bond has no call or the call date is
	// not strictly before maturity.
	TimeToCall() (float64, bool)
}

// WorkoutSpec is the resolved workout branch for one calculation.
type WorkoutSpec struct {
	TimeToWorkout float64
	Yield         float64
	UsedCall      bool
}

// ResolveWorkout determines the workout yield for a market price. With
// preferCall set, the call branch is attempted first; any call-side failure
// degrades deterministically to the maturity branch. A maturity-side failure
// is fatal and propagates.
func ResolveWorkout(b Bond, preferCall bool, cleanPrice float64) (WorkoutSpec, error) {
	if preferCall {
		if ttc, ok := b.TimeToCall(); ok {
			if y, err := b.YieldToCall(cleanPrice); err == nil {
				return WorkoutSpec{TimeToWorkout: ttc, Yield: y, UsedCall: true}, nil
			}
		}
	}
	y, err := b.YieldToMaturity(cleanPrice)
	if err != nil {
		return WorkoutSpec{}, err
	}
	return WorkoutSpec{TimeToWorkout: b.TimeToMaturity(), Yield: y, UsedCall: false}, nil
}

// workoutHorizon mirrors ResolveWorkout's branch without needing a price:
// call horizon when preferred and available, else maturity.
func workoutHorizon(b Bond, preferCall bool) float64 {
	if preferCall {
		if ttc, ok := b.TimeToCall(); ok {
			return ttc
		}
	}
	return b.TimeToMaturity()
}

// priceFromYield inverts on the same branch as ResolveWorkout: the call-dated
// pricer when the call branch applies, falling back to the maturity pricer on
// any call-side failure.
func priceFromYield(b Bond, preferCall bool, y float64) (float64, error) {
	if preferCall {
		if _, ok := b.TimeToCall(); ok {
			if p, err := b.PriceFromYieldToCall(y); err == nil {
				return p, nil
			}
		}
	}
	return b.PriceFromYieldToMaturity(y)
}
