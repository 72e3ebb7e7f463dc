package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type MealType string

const (
	MealTypeBreakfast MealType = "Breakfast"
	MealTypeLunch     MealType = "Lunch"
	MealTypeSnacks    MealType = "Snacks"
	MealTypeDinner    MealType = "Dinner"
)

func (mt MealType) String() string {
	return string(mt)
}

func (mt MealType) IsValid() bool {
	_, ok := mealTypeOrder[mt]
	return ok
}

// Order is the position of the meal within a day, unknown meal types sort last.
func (mt MealType) Order() int {
	if order, ok := mealTypeOrder[mt]; ok {
		return order
	}
	return len(allMealTypes)
}

var allMealTypes = []MealType{
	MealTypeBreakfast,
	MealTypeLunch,
	MealTypeSnacks,
	MealTypeDinner,
}

func AllMealTypes() []MealType {
	return allMealTypes
}

var mealTypeOrder = map[MealType]int{
	MealTypeBreakfast: 0,
	MealTypeLunch:     1,
	MealTypeSnacks:    2,
	MealTypeDinner:    3,
}

// ParseMealType matches s against the known meal types ignoring case and
// surrounding whitespace and returns the canonical value.
func ParseMealType(s string) (MealType, bool) {
	s = strings.TrimSpace(s)
	for _, mt := range allMealTypes {
		if strings.EqualFold(s, string(mt)) {
			return mt, true
		}
	}
	return MealType(s), false
}

// MenuRecord is one parsed row of an uploaded sheet.
type MenuRecord struct {
	Date     time.Time `json:"date"`
	Day      string    `json:"day" validate:"required"`
	MealType MealType  `json:"mealType" validate:"required,oneof=Breakfast Lunch Snacks Dinner"`
	Items    []string  `json:"menuItems"`
}

// Menu is the stored document, unique on (date, day, mealType).
type Menu struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Date      time.Time     `bson:"date" json:"date"`
	Day       string        `bson:"day" json:"day"`
	MealType  MealType      `bson:"mealType" json:"mealType"`
	MenuItems []string      `bson:"menuItems" json:"menuItems"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt" json:"updatedAt"`
}
