package decor

// RoomType is one selectable physical space within a place.
type RoomType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// Place groups the room types offered for a place category.
type Place struct {
	ID          string     `json:"id"`
	Label       string     `json:"label"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Rooms       []RoomType `json:"rooms"`
}

var roomTypes = map[string]RoomType{
	"living_room":    {ID: "living_room", Name: "Living Room", Icon: "🛋️", Description: "Main shared living space"},
	"dining_room":    {ID: "dining_room", Name: "Dining Room", Icon: "🍽️", Description: "Space for meals"},
	"kitchen":        {ID: "kitchen", Name: "Kitchen", Icon: "👨‍🍳", Description: "Food preparation area"},
	"master_bedroom": {ID: "master_bedroom", Name: "Master Bedroom", Icon: "🛏️", Description: "Master suite"},
	"bedroom":        {ID: "bedroom", Name: "Bedroom", Icon: "🛌", Description: "Sleeping room"},
	"bathroom":       {ID: "bathroom", Name: "Bathroom", Icon: "🚿", Description: "Washing area"},
	"laundry_room":   {ID: "laundry_room", Name: "Laundry Room", Icon: "🧺", Description: "Space for washing clothes"},
	"garage":         {ID: "garage", Name: "Garage", Icon: "🚗", Description: "Indoor parking"},
	"backyard":       {ID: "backyard", Name: "Backyard", Icon: "🌳", Description: "Outdoor area"},
	"service_area":   {ID: "service_area", Name: "Service Area", Icon: "🧹", Description: "Utility space"},
	"balcony":        {ID: "balcony", Name: "Balcony", Icon: "🪴", Description: "Covered outdoor area"},
	"home_office":    {ID: "home_office", Name: "Home Office", Icon: "💻", Description: "Work-from-home space"},
}

var Places = []Place{
	{
		ID:          "house",
		Label:       "House",
		Description: "Residence with multiple rooms",
		Icon:        "🏠",
		Rooms: roomTypeList(
			"living_room", "dining_room", "kitchen", "master_bedroom", "bedroom",
			"bathroom", "laundry_room", "garage", "backyard", "home_office",
		),
	},
	{
		ID:          "apartment",
		Label:       "Apartment",
		Description: "Residential unit in a building",
		Icon:        "🏢",
		Rooms: roomTypeList(
			"living_room", "dining_room", "kitchen", "bedroom", "bathroom",
			"service_area", "balcony", "home_office",
		),
	},
}

func roomTypeList(ids ...string) []RoomType {
	out := make([]RoomType, 0, len(ids))
	for _, id := range ids {
		out = append(out, roomTypes[id])
	}
	return out
}

// PlaceByID returns the place config for a place-type id.
func PlaceByID(id string) (Place, bool) {
	for _, p := range Places {
		if p.ID == id {
			return p, true
		}
	}
	return Place{}, false
}

// ValidRoomTypeForPlace reports whether a room type can be selected for
// the given place.
func ValidRoomTypeForPlace(placeID, roomTypeID string) bool {
	place, ok := PlaceByID(placeID)
	if !ok {
		return false
	}
	for _, rt := range place.Rooms {
		if rt.ID == roomTypeID {
			return true
		}
	}
	return false
}
