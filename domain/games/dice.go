package games

import (
	"fmt"

	"tokenrush/domain/entities"
)

// diceWinMultiplier is the payout multiplier for a correct call. Six faces
// paying five-to-one is where this game's house edge lives.
const diceWinMultiplier = 5

type diceHeroResolver struct {
	config Config
}

// NewDiceHeroResolver creates the DiceHero resolver
func NewDiceHeroResolver(config Config) Resolver {
	return &diceHeroResolver{config: config}
}

func (r *diceHeroResolver) GameType() entities.GameType {
	return entities.GameTypeDiceHero
}

func (r *diceHeroResolver) ValidateParams(params Params) error {
	chosen, err := intParam(params, "chosenNumber")
	if err != nil {
		return err
	}
	if chosen < 1 || chosen > 6 {
		return fmt.Errorf("%w: chosenNumber must be between 1 and 6", ErrInvalidParams)
	}
	return nil
}

// Resolve rolls a fair d6 and pays 5x on an exact match
func (r *diceHeroResolver) Resolve(betAmount int64, params Params, rng Rand) (*Outcome, error) {
	if err := r.ValidateParams(params); err != nil {
		return nil, err
	}
	chosen, _ := intParam(params, "chosenNumber")

	rolled := rng.Intn(6) + 1
	won := rolled == chosen

	outcome := &Outcome{
		Result: entities.GameResultLoss,
		Detail: map[string]any{
			"chosenNumber": chosen,
			"rolled":       rolled,
		},
	}
	if won {
		outcome.Result = entities.GameResultWin
		outcome.Payout = betAmount * diceWinMultiplier
	}
	return outcome, nil
}
