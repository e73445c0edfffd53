package usecase

import (
	"context"
	"fmt"
	"time"

	domrepo "BondLens/internal/domain/repository"
	"BondLens/internal/services/bond"
	"BondLens/internal/services/spread"
)

// SpreadService answers one-off spread and price queries for a single
// instrument, outside any batch run.
type SpreadService struct {
	provider   domrepo.DataProvider
	rule       spread.Rule
	preferCall bool
}

func NewSpreadService(provider domrepo.DataProvider, rule spread.Rule, preferCall bool) *SpreadService {
	if rule == nil {
		rule = spread.DefaultRule()
	}
	return &SpreadService{provider: provider, rule: rule, preferCall: preferCall}
}

// SpreadAnswer is the response shape for a spread query: both spread
// measures plus the workout branch that produced them.
type SpreadAnswer struct {
	CUSIP         string  `json:"cusip"`
	Date          string  `json:"date"`
	Price         float64 `json:"price"`
	WorkoutYield  float64 `json:"workout_yield"`
	UsedCall      bool    `json:"used_call"`
	TimeToWorkout float64 `json:"time_to_workout"`
	// Spreads in basis points.
	GSpread         float64 `json:"g_spread"`
	BenchmarkSpread float64 `json:"benchmark_spread"`
}

// PriceAnswer is the response shape for a price query.
type PriceAnswer struct {
	CUSIP  string  `json:"cusip"`
	Date   string  `json:"date"`
	Spread float64 `json:"spread"`
	Kind   string  `json:"kind"`
	Price  float64 `json:"price"`
}

func (s *SpreadService) calculator(ctx context.Context, cusip string, asOf time.Time) (*spread.Calculator, error) {
	ref, err := s.provider.GetBondReference(ctx, cusip)
	if err != nil {
		return nil, err
	}
	curve, err := s.provider.GetTreasuryCurve(ctx, asOf)
	if err != nil {
		return nil, err
	}
	b, err := bond.New(ref, asOf)
	if err != nil {
		return nil, fmt.Errorf("bond %s: %w", cusip, err)
	}
	return spread.NewCalculator(b, curve, s.rule, ref.BenchmarkTenor, s.preferCall)
}

// SpreadFromPrice computes both spread measures from a clean price.
func (s *SpreadService) SpreadFromPrice(ctx context.Context, cusip string, asOf time.Time, cleanPrice float64) (*SpreadAnswer, error) {
	calc, err := s.calculator(ctx, cusip, asOf)
	if err != nil {
		return nil, err
	}
	res, workout, err := calc.SpreadFromPrice(cleanPrice)
	if err != nil {
		return nil, fmt.Errorf("spread %s: %w", cusip, err)
	}
	return &SpreadAnswer{
		CUSIP:           cusip,
		Date:            asOf.Format("2006-01-02"),
		Price:           cleanPrice,
		WorkoutYield:    workout.Yield,
		UsedCall:        workout.UsedCall,
		TimeToWorkout:   workout.TimeToWorkout,
		GSpread:         res.GSpread * 10000,
		BenchmarkSpread: res.BenchmarkSpread * 10000,
	}, nil
}

// PriceFromSpread inverts a spread (given in basis points) back to a clean
// price for the requested spread kind.
func (s *SpreadService) PriceFromSpread(ctx context.Context, cusip string, asOf time.Time, spreadBps float64, kind spread.Kind) (*PriceAnswer, error) {
	calc, err := s.calculator(ctx, cusip, asOf)
	if err != nil {
		return nil, err
	}
	price, err := calc.PriceFromSpread(spreadBps/10000, kind)
	if err != nil {
		return nil, fmt.Errorf("price %s: %w", cusip, err)
	}
	return &PriceAnswer{
		CUSIP:  cusip,
		Date:   asOf.Format("2006-01-02"),
		Spread: spreadBps,
		Kind:   string(kind),
		Price:  price,
	}, nil
}
