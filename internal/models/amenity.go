package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// AmenityFlag is the legacy three-state amenity column.
// The stored encoding is inverted: 0 means present, 1 means absent, NULL means unset.
type AmenityFlag int8

const (
	AmenityUnset AmenityFlag = iota
	AmenityPresent
	AmenityAbsent
)

func (f AmenityFlag) String() string {
	switch f {
	case AmenityPresent:
		return "present"
	case AmenityAbsent:
		return "absent"
	default:
		return "unset"
	}
}

// Scan implements sql.Scanner.
func (f *AmenityFlag) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*f = AmenityUnset
		return nil
	case int64:
		*f = flagFromCode(v)
		return nil
	case []byte:
		return f.parse(string(v))
	case string:
		return f.parse(v)
	default:
		return fmt.Errorf("amenity flag: unsupported scan type %T", src)
	}
}

// Value implements driver.Valuer.
func (f AmenityFlag) Value() (driver.Value, error) {
	switch f {
	case AmenityPresent:
		return int64(0), nil
	case AmenityAbsent:
		return int64(1), nil
	default:
		return nil, nil
	}
}

// MarshalJSON keeps the wire encoding the dashboards already write: 0, 1 or null.
func (f AmenityFlag) MarshalJSON() ([]byte, error) {
	switch f {
	case AmenityPresent:
		return []byte("0"), nil
	case AmenityAbsent:
		return []byte("1"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts 0, 1, null and their string forms.
func (f *AmenityFlag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = AmenityUnset
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return f.parse(s)
	}
	return f.parse(string(data))
}

// ParseAmenityFlag parses a form value using the stored encoding.
func ParseAmenityFlag(s string) (AmenityFlag, error) {
	var f AmenityFlag
	err := f.parse(s)
	return f, err
}

func (f *AmenityFlag) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") {
		*f = AmenityUnset
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("amenity flag: invalid value %q", s)
	}
	*f = flagFromCode(n)
	return nil
}

// flagFromCode maps a stored number to a flag. Anything other than 0 reads as absent.
func flagFromCode(n int64) AmenityFlag {
	if n == 0 {
		return AmenityPresent
	}
	return AmenityAbsent
}

// Amenity shares its primary key with the property it describes.
type Amenity struct {
	ID        int64 `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Bedrooms  *int  `gorm:"type:int" json:"bedrooms"`
	Bathrooms *int  `gorm:"type:int" json:"bathrooms"`
	Balconies *int  `gorm:"type:int" json:"balconies"`

	Parking       AmenityFlag `gorm:"type:tinyint" json:"parking"`
	Lift          AmenityFlag `gorm:"type:tinyint" json:"lift"`
	Generator     AmenityFlag `gorm:"type:tinyint" json:"generator"`
	Gas           AmenityFlag `gorm:"type:tinyint" json:"gas"`
	Security      AmenityFlag `gorm:"type:tinyint" json:"security"`
	CCTV          AmenityFlag `gorm:"column:cctv;type:tinyint" json:"cctv"`
	Gym           AmenityFlag `gorm:"type:tinyint" json:"gym"`
	SwimmingPool  AmenityFlag `gorm:"type:tinyint" json:"swimming_pool"`
	RooftopGarden AmenityFlag `gorm:"type:tinyint" json:"rooftop_garden"`
	CommunityHall AmenityFlag `gorm:"type:tinyint" json:"community_hall"`
	PrayerRoom    AmenityFlag `gorm:"type:tinyint" json:"prayer_room"`
	FireExit      AmenityFlag `gorm:"type:tinyint" json:"fire_exit"`
}

// TableName specifies the table name
func (Amenity) TableName() string {
	return "amenities"
}

// Flags returns pointers to the flag columns keyed by column name.
func (a *Amenity) Flags() map[string]*AmenityFlag {
	return map[string]*AmenityFlag{
		"parking":        &a.Parking,
		"lift":           &a.Lift,
		"generator":      &a.Generator,
		"gas":            &a.Gas,
		"security":       &a.Security,
		"cctv":           &a.CCTV,
		"gym":            &a.Gym,
		"swimming_pool":  &a.SwimmingPool,
		"rooftop_garden": &a.RooftopGarden,
		"community_hall": &a.CommunityHall,
		"prayer_room":    &a.PrayerRoom,
		"fire_exit":      &a.FireExit,
	}
}
