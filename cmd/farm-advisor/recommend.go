package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/i474232898/farm-advisor/internal/crop"
)

func newRecommendCmd(a *app) *cobra.Command {
	var (
		profile crop.FarmProfile
		soil    string
		fert    string
		water   string
		topN    int
		strict  bool
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank crops for a farm profile and print them as JSON",
		Example: `  farm-advisor recommend --land-size 3 --soil loamy --fertilizer organic --water rainfed
  farm-advisor recommend --land-size 12 --soil clay --fertilizer npk --water irrigation --top 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if profile.LandSize <= 0 {
				return fmt.Errorf("--land-size must be greater than zero")
			}
			profile.SoilType = crop.SoilType(soil)
			profile.FertilizerType = crop.FertilizerType(fert)
			profile.WaterAccess = crop.WaterAccess(water)

			if strict {
				if err := profile.Validate(); err != nil {
					return err
				}
			}

			recs := a.engine().Recommend(profile, topN)
			return printJSON(cmd.OutOrStdout(), recs)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&profile.LandSize, "land-size", 0, "farm size in acres")
	f.StringVar(&soil, "soil", "", "soil type: loamy, clay, sandy, silt, peat or chalky")
	f.StringVar(&fert, "fertilizer", "", "fertilizer: organic, urea, dap, npk or compost")
	f.StringVar(&water, "water", "", "water access: rainfed, irrigation or mixed")
	f.StringVar(&profile.Location, "location", "", "free-form location label")
	f.IntVar(&topN, "top", crop.DefaultTopN, "number of crops to return")
	f.BoolVar(&strict, "strict", false, "reject unknown categories instead of encoding them as the first option")
	for _, name := range []string{"land-size", "soil", "fertilizer", "water"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
