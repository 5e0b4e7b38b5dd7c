package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/nutriscan/internal/domain/analysis"
	"github.com/pratik-mahalle/nutriscan/internal/domain/product"
	"github.com/pratik-mahalle/nutriscan/internal/domain/profile"
	"github.com/pratik-mahalle/nutriscan/internal/domain/subscription"
	"github.com/pratik-mahalle/nutriscan/internal/services"
	"github.com/pratik-mahalle/nutriscan/pkg/client"
)

type analyzeOptions struct {
	name        string
	brand       string
	nutrition   client.Nutrition
	ingredients []string
	allergens   []string

	offline    bool
	conditions []string
	goals      []string
	plan       string
}

func newAnalyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score a product from its label values",
		Long: `Analyze scores a product described on the command line instead of
looking up a barcode. It does not count against the daily quota.

With --offline the score is computed locally for the conditions, goals and
plan given as flags, without contacting the server.`,
		Example: `  nutriscan analyze --name "Cola" --sugar 10.6 --sodium 10
  nutriscan analyze --offline --name "Crackers" --fat 22 --sodium 700 --condition hipertension`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(opts.name) == "" {
				return fmt.Errorf("--name is required")
			}

			var result *client.ScanResult
			if opts.offline {
				result = analyzeOffline(opts)
			} else {
				var err error
				result, err = apiClient.Scans().Analyze(context.Background(), client.AnalyzeRequest{
					Name:        opts.name,
					Brand:       opts.brand,
					Nutrition:   opts.nutrition,
					Ingredients: opts.ingredients,
					Allergens:   opts.allergens,
				})
				if err != nil {
					return fmt.Errorf("analysis failed: %w", err)
				}
			}

			if getOutputFormat() != "table" {
				return printOutput(result)
			}
			printAnalysis(result)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.name, "name", "", "product name")
	f.StringVar(&opts.brand, "brand", "", "brand")
	f.Float64Var(&opts.nutrition.Calories, "calories", 0, "energy in kcal per 100 g")
	f.Float64Var(&opts.nutrition.Protein, "protein", 0, "protein in g per 100 g")
	f.Float64Var(&opts.nutrition.Carbs, "carbs", 0, "carbohydrates in g per 100 g")
	f.Float64Var(&opts.nutrition.Fat, "fat", 0, "fat in g per 100 g")
	f.Float64Var(&opts.nutrition.Fiber, "fiber", 0, "fiber in g per 100 g")
	f.Float64Var(&opts.nutrition.Sugar, "sugar", 0, "sugar in g per 100 g")
	f.Float64Var(&opts.nutrition.Sodium, "sodium", 0, "sodium in mg per 100 g")
	f.Float64Var(&opts.nutrition.Salt, "salt", 0, "salt in g per 100 g")
	f.StringSliceVar(&opts.ingredients, "ingredient", nil, "ingredient (repeatable)")
	f.StringSliceVar(&opts.allergens, "allergen", nil, "allergen (repeatable)")
	f.BoolVar(&opts.offline, "offline", false, "score locally without the server")
	f.StringSliceVar(&opts.conditions, "condition", nil, "health condition for --offline (repeatable)")
	f.StringSliceVar(&opts.goals, "goal", nil, "goal for --offline (repeatable)")
	f.StringVar(&opts.plan, "plan", string(subscription.PlanFree), "plan for --offline: free, premium, pro")

	return cmd
}

func analyzeOffline(opts *analyzeOptions) *client.ScanResult {
	p := product.Product{
		Name:        strings.TrimSpace(opts.name),
		Brand:       strings.TrimSpace(opts.brand),
		Nutrition:   product.Nutrition(opts.nutrition),
		Ingredients: opts.ingredients,
		Allergens:   opts.allergens,
		Source:      product.SourceManual,
	}
	if p.Brand == "" {
		p.Brand = product.UnknownBrand
	}

	plan := subscription.ParsePlan(opts.plan)
	res := services.NewScoringEngine().Analyze(&p, profile.NormalizeTags(opts.conditions), profile.NormalizeTags(opts.goals), plan)

	return &client.ScanResult{
		Plan: string(plan),
		Product: client.Product{
			Name:        p.Name,
			Brand:       p.Brand,
			Nutrition:   opts.nutrition,
			Ingredients: p.Ingredients,
			Allergens:   p.Allergens,
			Source:      p.Source,
		},
		Analysis: toClientAnalysis(res),
	}
}

func toClientAnalysis(r analysis.Result) client.Analysis {
	a := client.Analysis{
		Score:           r.Score,
		Level:           string(r.Level),
		Warnings:        r.Warnings,
		Recommendations: r.Recommendations,
		Alternatives:    r.Alternatives,
		Summary:         r.Summary,
		UpgradeHints:    r.UpgradeHints,
	}
	for _, b := range r.Breakdown {
		a.Breakdown = append(a.Breakdown, client.NutrientLine(b))
	}
	for _, n := range r.ConditionNotes {
		a.ConditionNotes = append(a.ConditionNotes, client.ConditionNote(n))
	}
	return a
}
