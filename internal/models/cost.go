package models

import (
	"math"

	"github.com/shopspring/decimal"
)

// costPlaces is the precision brew costs are stored with
const costPlaces = 2

// Finite reports whether v is neither NaN nor an infinity.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// PricePerGram returns price divided by weight. Non-positive or non-finite
// inputs yield zero.
func PricePerGram(price, weight float64) decimal.Decimal {
	if !Finite(price) || !Finite(weight) || price <= 0 || weight <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(price).Div(decimal.NewFromFloat(weight))
}

// BrewCost returns the cost of a dose of coffee, price / weight * dose, rounded to
// two decimal places.
func BrewCost(price, weight, dose float64) float64 {
	if !Finite(dose) || dose <= 0 {
		return 0
	}
	cost := PricePerGram(price, weight).Mul(decimal.NewFromFloat(dose))
	return cost.Round(costPlaces).InexactFloat64()
}

// CostBreakdown describes how a brew cost was derived
type CostBreakdown struct {
	BeanID       string  `json:"beanId"`
	Price        float64 `json:"price"`
	Weight       float64 `json:"weight"`
	Dose         float64 `json:"dose"`
	PricePerGram float64 `json:"pricePerGram"`
	Cost         float64 `json:"cost"`
}

// CostFor computes the cost breakdown of brewing dose grams of bean.
func CostFor(bean *Bean, dose float64) CostBreakdown {
	return CostBreakdown{
		BeanID:       bean.ID,
		Price:        bean.Price,
		Weight:       bean.Weight,
		Dose:         dose,
		PricePerGram: PricePerGram(bean.Price, bean.Weight).Round(4).InexactFloat64(),
		Cost:         BrewCost(bean.Price, bean.Weight, dose),
	}
}

// SumCosts adds up amounts without accumulating float error. Non-finite
// amounts are skipped.
func SumCosts(amounts ...float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		if Finite(a) {
			total = total.Add(decimal.NewFromFloat(a))
		}
	}
	return total.Round(costPlaces).InexactFloat64()
}
