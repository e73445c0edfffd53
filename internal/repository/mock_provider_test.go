package repository

import (
	"context"
	"testing"
	"time"
)

func TestMockProviderDeterministic(t *testing.T) {
	p := NewMockProvider()
	ctx := context.Background()
	asOf := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	universe, err := p.GetBondUniverse(ctx, asOf)
	if err != nil {
		t.Fatalf("universe: %v", err)
	}
	if len(universe) == 0 {
		t.Fatalf("empty universe")
	}

	for _, cusip := range universe {
		q1, err := p.GetMarketQuote(ctx, cusip, asOf)
		if err != nil {
			t.Fatalf("quote %s: %v", cusip, err)
		}
		q2, _ := p.GetMarketQuote(ctx, cusip, asOf)
		if q1.MidPrice != q2.MidPrice || q1.MidYield != q2.MidYield {
			t.Fatalf("%s: quotes differ across reads", cusip)
		}
		if q1.BidPrice >= q1.AskPrice {
			t.Fatalf("%s: bid %v not below ask %v", cusip, q1.BidPrice, q1.AskPrice)
		}
	}

	c1, err := p.GetTreasuryCurve(ctx, asOf)
	if err != nil {
		t.Fatalf("curve: %v", err)
	}
	c2, _ := p.GetTreasuryCurve(ctx, asOf)
	for _, tenor := range c1.Tenors() {
		y1, _ := c1.Yield(tenor)
		y2, _ := c2.Yield(tenor)
		if y1 != y2 {
			t.Fatalf("curve yield at %v differs across reads", tenor)
		}
	}
}

func TestMockProviderUnknownCUSIP(t *testing.T) {
	p := NewMockProvider()
	if _, err := p.GetBondReference(context.Background(), "NOPE"); err == nil {
		t.Fatalf("expected not-found error")
	}
}
