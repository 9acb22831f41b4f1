package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// FoodItem is one entry of a meal.
type FoodItem struct {
	Name     string `json:"name"`
	Portion  string `json:"portion"`
	Calories int    `json:"calories"`
}

// Meals holds the food items of one day, by meal.
type Meals struct {
	Breakfast []FoodItem
	Lunch     []FoodItem
	Diner     []FoodItem
	Dessert   []FoodItem
}

// DietDay is a stored diet with its meals decoded. A meal that is absent or
// cannot be decoded is nil.
type DietDay struct {
	ID       int64
	FoodDate time.Time
	Meals
}

// DietsByDate returns the user's diets stored on day.
func (s *Service) DietsByDate(ctx context.Context, userID int64, day time.Time) ([]DietDay, error) {
	links, err := s.store.FindActivityLinksForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load activity links: %w", err)
	}
	if len(links) == 0 {
		return nil, ErrNoActivity
	}

	ids := distinctIDs(links, func(l ActivityLink) *int64 { return l.DietID })
	var diets []Diet
	if len(ids) > 0 {
		if diets, err = s.store.FindDietsForIDs(ctx, ids); err != nil {
			return nil, fmt.Errorf("load diets: %w", err)
		}
	}

	days := make([]DietDay, 0, len(diets))
	for _, d := range diets {
		if !SameDay(d.FoodDate, day) {
			continue
		}
		days = append(days, DietDay{
			ID:       d.ID,
			FoodDate: d.FoodDate,
			Meals: Meals{
				Breakfast: s.decodeMeal(d.ID, "breakfast", d.Breakfast),
				Lunch:     s.decodeMeal(d.ID, "lunch", d.Lunch),
				Diner:     s.decodeMeal(d.ID, "diner", d.Diner),
				Dessert:   s.decodeMeal(d.ID, "dessert", d.Dessert),
			},
		})
	}
	if len(days) == 0 {
		return nil, ErrNoDietForDate
	}
	return days, nil
}

// RecordDiet stores today's meals for the user. At least one meal must be non-empty.
func (s *Service) RecordDiet(ctx context.Context, userID int64, meals Meals) (*Diet, error) {
	if len(meals.Breakfast) == 0 && len(meals.Lunch) == 0 && len(meals.Diner) == 0 && len(meals.Dessert) == 0 {
		return nil, fmt.Errorf("%w: at least one meal is required", ErrInvalidInput)
	}

	diet := Diet{FoodDate: s.today()}
	var err error
	if diet.Breakfast, err = encodeMeal("breakfast", meals.Breakfast); err != nil {
		return nil, err
	}
	if diet.Lunch, err = encodeMeal("lunch", meals.Lunch); err != nil {
		return nil, err
	}
	if diet.Diner, err = encodeMeal("diner", meals.Diner); err != nil {
		return nil, err
	}
	if diet.Dessert, err = encodeMeal("dessert", meals.Dessert); err != nil {
		return nil, err
	}

	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	stored, err := s.store.RecordDiet(ctx, userID, diet)
	if err != nil {
		return nil, fmt.Errorf("record diet: %w", err)
	}
	return stored, nil
}

func encodeMeal(meal string, items []FoodItem) (*string, error) {
	if len(items) == 0 {
		return nil, nil
	}
	for _, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			return nil, fmt.Errorf("%w: %s item name is required", ErrInvalidInput, meal)
		}
		if item.Calories < 0 {
			return nil, fmt.Errorf("%w: %s calories must be >= 0", ErrInvalidInput, meal)
		}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", meal, err)
	}
	encoded := string(data)
	return &encoded, nil
}

func (s *Service) decodeMeal(dietID int64, meal string, raw *string) []FoodItem {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil
	}
	var items []FoodItem
	if err := json.Unmarshal([]byte(*raw), &items); err != nil {
		s.logger.Printf("diet %d: discarding malformed %s: %v", dietID, meal, err)
		return nil
	}
	return items
}
