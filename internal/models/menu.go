package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// MenuItems is the schema-less items payload: dish name -> price (or any other
// JSON value the client sends). Intentionally open-ended.
type MenuItems map[string]any

func (m MenuItems) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *MenuItems) Scan(value any) error {
	if value == nil {
		*m = MenuItems{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported menu items column type %T", value)
	}
	return json.Unmarshal(data, m)
}

func (MenuItems) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "JSONB"
	}
	return "TEXT"
}

// Menu is a restaurant's offering for a single day. At most one menu may exist
// per restaurant per date.
type Menu struct {
	ID           uint `gorm:"primaryKey"`
	RestaurantID uint `gorm:"not null;uniqueIndex:idx_menus_restaurant_date"`
	Restaurant   Restaurant
	Date         time.Time `gorm:"type:date;not null;uniqueIndex:idx_menus_restaurant_date"`
	Items        MenuItems `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Votes []Vote `gorm:"constraint:OnDelete:CASCADE"`
}

// DateOnly truncates t to midnight UTC so menu dates compare and index
// consistently across drivers.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
