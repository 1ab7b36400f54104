package models

// Property is a real-estate listing with up to ten image blobs.
type Property struct {
	ID            int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        *int64 `gorm:"index" json:"user_id,omitempty"`
	Name          string `gorm:"type:varchar(255);not null" json:"name"`
	Slug          string `gorm:"type:varchar(255);not null;uniqueIndex" json:"slug"`
	HomeSerial    *int   `gorm:"type:int;index" json:"home_serial"`
	Address       string `gorm:"type:text" json:"address"`
	LandArea      string `gorm:"type:varchar(100)" json:"land_area"`
	FlatSize      string `gorm:"type:varchar(100)" json:"flat_size"`
	BuildingType  string `gorm:"type:varchar(100)" json:"building_type"`
	ProjectStatus string `gorm:"type:varchar(100);index" json:"project_status"`
	Location      string `gorm:"type:varchar(255);index" json:"location"`
	MapSrc        string `gorm:"type:text" json:"map_src"`
	Description   string `gorm:"type:text" json:"description"`
	Video1        string `gorm:"type:text" json:"video1"`
	AgentID       *int64 `gorm:"index" json:"agent_id"`

	// Image blobs. Nil means the column is NULL.
	ImgThub          []byte `gorm:"type:longblob" json:"-"`
	ImgHero          []byte `gorm:"type:longblob" json:"-"`
	Img1             []byte `gorm:"column:img1;type:longblob" json:"-"`
	Img2             []byte `gorm:"column:img2;type:longblob" json:"-"`
	Img3             []byte `gorm:"column:img3;type:longblob" json:"-"`
	Img4             []byte `gorm:"column:img4;type:longblob" json:"-"`
	Img5             []byte `gorm:"column:img5;type:longblob" json:"-"`
	TypicalFloorPlan []byte `gorm:"type:longblob" json:"-"`
	GroundFloorPlan  []byte `gorm:"type:longblob" json:"-"`
	RoofFloorPlan    []byte `gorm:"type:longblob" json:"-"`
}

// TableName specifies the table name
func (Property) TableName() string {
	return "properties"
}

// PublicColumns is the reduced column set served to the marketing site.
var PublicColumns = []string{
	"id", "name", "slug", "home_serial", "address", "land_area", "flat_size",
	"building_type", "project_status", "location", "img_thub",
}

// ListColumns is the admin table column set. Gallery blobs are left out.
var ListColumns = []string{
	"id", "user_id", "name", "slug", "home_serial", "address", "land_area",
	"flat_size", "building_type", "project_status", "location", "agent_id", "img_thub",
}

// IndexColumns feed the search index. Image blobs are left out.
var IndexColumns = []string{
	"id", "name", "slug", "home_serial", "address", "land_area", "flat_size",
	"building_type", "project_status", "location", "description",
}

// TextColumns are the form-editable text columns of a property.
var TextColumns = []string{
	"name", "slug", "address", "land_area", "flat_size", "building_type",
	"project_status", "location", "map_src", "description", "video1",
}

// RequiredTextColumns must be present and non-empty when a property is created.
var RequiredTextColumns = []string{
	"name", "slug", "address", "land_area", "flat_size", "building_type",
	"project_status", "location",
}

// SetText assigns a text column by name. Unknown columns are ignored.
func (p *Property) SetText(column, value string) {
	switch column {
	case "name":
		p.Name = value
	case "slug":
		p.Slug = value
	case "address":
		p.Address = value
	case "land_area":
		p.LandArea = value
	case "flat_size":
		p.FlatSize = value
	case "building_type":
		p.BuildingType = value
	case "project_status":
		p.ProjectStatus = value
	case "location":
		p.Location = value
	case "map_src":
		p.MapSrc = value
	case "description":
		p.Description = value
	case "video1":
		p.Video1 = value
	}
}

// Images returns pointers to the image columns keyed by column name.
func (p *Property) Images() map[string]*[]byte {
	return map[string]*[]byte{
		"img_thub":           &p.ImgThub,
		"img_hero":           &p.ImgHero,
		"img1":               &p.Img1,
		"img2":               &p.Img2,
		"img3":               &p.Img3,
		"img4":               &p.Img4,
		"img5":               &p.Img5,
		"typical_floor_plan": &p.TypicalFloorPlan,
		"ground_floor_plan":  &p.GroundFloorPlan,
		"roof_floor_plan":    &p.RoofFloorPlan,
	}
}

// Image returns the bytes stored in the named image column.
func (p *Property) Image(column string) []byte {
	if ptr, ok := p.Images()[column]; ok {
		return *ptr
	}
	return nil
}
