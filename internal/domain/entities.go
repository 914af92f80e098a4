// Package domain holds the dashboard entities as the upstream store shapes
// them. IDs are generated by the store; optional columns are pointers so a
// null column and a missing field stay distinguishable.
package domain

const (
	TableCities     = "cities"
	TableCategories = "categories"
	TableServices   = "services"
	TableUsers      = "users"
)

type City struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	State string `json:"state"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CityRef / CategoryRef are the embedded relation views the store returns
// when a service list expands cities(name,state),categories(name).
type CityRef struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

type CategoryRef struct {
	Name string `json:"name"`
}

type Service struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description *string      `json:"description,omitempty"`
	CityID      int64        `json:"city_id"`
	CategoryID  int64        `json:"category_id"`
	LogoURL     *string      `json:"logo_url,omitempty"`
	City        *CityRef     `json:"cities,omitempty"`
	Category    *CategoryRef `json:"categories,omitempty"`
}

type User struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}
