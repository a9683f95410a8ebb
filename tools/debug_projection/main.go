package main

import (
	"fmt"
	"os"
	"time"

	calc "github.com/rpgo/fire-engine/internal/calculation"
	"github.com/rpgo/fire-engine/internal/config"
	"github.com/shopspring/decimal"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: debug_projection <plan-file> [as-of YYYY-MM-DD]")
		return
	}
	p := config.NewInputParser()
	plan, err := p.LoadFromFile(os.Args[1])
	if err != nil {
		panic(err)
	}
	asOf := time.Now()
	if len(os.Args) > 2 {
		if asOf, err = time.Parse("2006-01-02", os.Args[2]); err != nil {
			panic(err)
		}
	}

	engine := calc.NewEngine(nil)
	bundle, err := engine.Project(plan.Household, plan.Scenarios, calc.ProjectionOptions{HorizonAge: plan.HorizonAge, AsOf: asOf}, plan.Coast)
	if err != nil {
		panic(err)
	}
	if len(bundle.Scenarios) < 1 {
		fmt.Println("no scenarios")
		return
	}

	// Rows stop early on depletion, so print up to the longest scenario
	maxLen := 0
	for _, s := range bundle.Scenarios {
		if n := len(s.Projection.Rows); n > maxLen {
			maxLen = n
		}
	}

	header := "Index,Year,Age"
	for i := range bundle.Scenarios {
		header += fmt.Sprintf(",S%d_Start,S%d_Contrib,S%d_Growth,S%d_NetDraw,S%d_End,S%d_Status", i+1, i+1, i+1, i+1, i+1, i+1)
	}
	fmt.Println(header)

	first := bundle.Scenarios[0].Projection.Rows
	for idx := 0; idx < maxLen; idx++ {
		row := fmt.Sprintf("%d,%d,%d", idx, asOf.Year()+idx, first[0].Age+idx)
		for _, s := range bundle.Scenarios {
			if idx >= len(s.Projection.Rows) {
				row += ",,,,,,"
				continue
			}
			y := s.Projection.Rows[idx]
			row += fmt.Sprintf(",%s,%s,%s,%s,%s,%s", whole(y.PortfolioStart), whole(y.Contributions), whole(y.Growth), whole(y.NetWithdrawal), whole(y.PortfolioEnd), y.Status)
		}
		fmt.Println(row)
	}

	for _, s := range bundle.Scenarios {
		fmt.Printf("# %s: target=%s fiAge=%s depletedAge=%s\n", s.Scenario.Name,
			whole(s.Target.TargetAmount.Float()), age(s.Projection.FiAge), age(s.Projection.DepletedAge))
	}
}

func whole(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(0)
}

func age(p *int) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprint(*p)
}
