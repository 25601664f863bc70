package views

import (
	"cmp"
	"slices"
	"strings"

	"solar-dealer-hub/internal/models"

	"github.com/shopspring/decimal"
)

// RewardBuckets is the reward catalogue split the way the settings page shows it.
type RewardBuckets struct {
	ProjectRules   []models.DealerReward `json:"projectRules"`
	Products       []models.DealerReward `json:"products"`
	Cashback       []models.DealerReward `json:"cashback"`
	Experiences    []models.DealerReward `json:"experiences"`
	RedeemSettings *models.DealerReward  `json:"redeemSettings"`
	Unrecognized   []models.DealerReward `json:"unrecognized"`
}

// PartitionRewards splits rewards by type. When more than one redeem_settings
// record exists the last one wins.
func PartitionRewards(rewards []models.DealerReward) RewardBuckets {
	b := RewardBuckets{
		ProjectRules: []models.DealerReward{},
		Products:     []models.DealerReward{},
		Cashback:     []models.DealerReward{},
		Experiences:  []models.DealerReward{},
		Unrecognized: []models.DealerReward{},
	}
	for i := range rewards {
		r := rewards[i]
		switch r.Type {
		case models.RewardProjectPointRule:
			b.ProjectRules = append(b.ProjectRules, r)
		case models.RewardProduct:
			b.Products = append(b.Products, r)
		case models.RewardCashback:
			b.Cashback = append(b.Cashback, r)
		case models.RewardExperience:
			b.Experiences = append(b.Experiences, r)
		case models.RewardRedeemSettings:
			b.RedeemSettings = &r
		default:
			b.Unrecognized = append(b.Unrecognized, r)
		}
	}
	return b
}

// ProjectPoints returns the points a project of the given category and size earns
// under a project_point_rule: the rule's base points plus kw × pointsPerKW, rounded down.
// Projects outside the rule's category or kW bounds earn nothing.
func ProjectPoints(reward models.DealerReward, category string, kw float64) int {
	if reward.Type != models.RewardProjectPointRule || kw <= 0 {
		return 0
	}
	rule := reward.ProjectRule
	if rule.Category != "" && !strings.EqualFold(rule.Category, category) {
		return 0
	}
	if rule.MinKW > 0 && kw < rule.MinKW {
		return 0
	}
	if rule.MaxKW > 0 && kw > rule.MaxKW {
		return 0
	}
	perKW := decimal.NewFromFloat(kw).Mul(decimal.NewFromFloat(rule.PointsPerKW)).Floor()
	return reward.Points + int(perKW.IntPart())
}

// GoalTotals returns the sum of profession targets and the number of profession types.
func GoalTotals(g models.DealerGoal) (totalGoal, professionTypes int) {
	for _, p := range g.Professions {
		totalGoal += p.Goal
	}
	return totalGoal, len(g.Professions)
}

// WithGoalTotals fills the derived totals on every goal.
func WithGoalTotals(goals []models.DealerGoal) []models.DealerGoal {
	for i := range goals {
		goals[i].TotalGoal, goals[i].ProfessionTypes = GoalTotals(goals[i])
	}
	return goals
}

// StateProfessions is one row of the professions-by-state view.
type StateProfessions struct {
	StateID   uint     `json:"stateId"`
	StateName string   `json:"stateName"`
	Count     int      `json:"count"`
	Names     []string `json:"names"`
}

// GroupProfessionsByState counts professions per state id.
func GroupProfessionsByState(professions []models.DealerProfession) []StateProfessions {
	grouped := make(map[uint]*StateProfessions)
	for _, p := range professions {
		g, ok := grouped[p.StateID]
		if !ok {
			g = &StateProfessions{StateID: p.StateID, Names: []string{}}
			grouped[p.StateID] = g
		}
		if g.StateName == "" && p.State != nil {
			g.StateName = p.State.Name
		}
		g.Count++
		g.Names = append(g.Names, p.Name)
	}

	out := make([]StateProfessions, 0, len(grouped))
	for _, g := range grouped {
		out = append(out, *g)
	}
	slices.SortFunc(out, func(a, b StateProfessions) int {
		return cmp.Or(cmp.Compare(a.StateName, b.StateName), cmp.Compare(a.StateID, b.StateID))
	})
	return out
}
