package entities

import "fmt"

// Category is one ordered section of the checklist.
type Category struct {
	Name  CategoryName `json:"name"`
	Title string       `json:"title"`
	Items []string     `json:"items"`
}

// Catalog is the compiled-in checklist. It is never mutated after init.
type Catalog struct {
	Title      string     `json:"title"`
	Categories []Category `json:"categories"`
}

var defaultCatalog = Catalog{
	Title: "RPAS Flight Checklist - DJI Mini 4 Pro",
	Categories: []Category{
		{
			Name:  CategoryNormal,
			Title: "Normal Procedures",
			Items: []string{
				"Pre-flight inspection of RPAS (airframe, motors, propellers, payload)",
				"Battery fully charged and securely installed",
				"Control link established (RC to RPAS)",
				"Check GPS status and satellite lock",
				"Check NOTAMs and airspace restrictions",
				"Conduct site survey",
				"Confirm emergency procedures",
				"Perform compass calibration if required",
				"Verify weather conditions (visibility, wind, etc.)",
				"Takeoff clearance (if in controlled airspace)",
				"Takeoff and hover at safe altitude to verify control responsiveness",
			},
		},
		{
			Name:  CategoryEmergency,
			Title: "Emergency Procedures",
			Items: []string{
				"Loss of command and control link - initiate RTH or manual recovery",
				"Loss of GPS - maintain manual control and land safely",
				"Battery warning/low battery - return and land immediately",
				"Flyaway - attempt RTH, or terminate flight if safe",
				"Unexpected obstacle - execute evasive maneuver and land",
				"Weather deterioration - terminate flight and land safely",
			},
		},
		{
			Name:  CategorySite,
			Title: "Site Survey",
			Items: []string{
				"Identify airspace classification for flight area",
				"Check for NOTAMs and restricted airspace nearby",
				"Assess terrain (hills, buildings, trees, powerlines)",
				"Identify emergency access points",
				"Verify proximity to aerodromes, helipads, or built-up areas",
				"Evaluate potential hazards (people, vehicles, animals)",
				"Confirm weather forecast is suitable for flight",
				"Ensure bystander safety and establish buffer zones",
			},
		},
	},
}

// DefaultCatalog returns a copy of the built-in RPAS checklist.
func DefaultCatalog() *Catalog {
	c := Catalog{Title: defaultCatalog.Title}
	for _, cat := range defaultCatalog.Categories {
		items := make([]string, len(cat.Items))
		copy(items, cat.Items)
		c.Categories = append(c.Categories, Category{Name: cat.Name, Title: cat.Title, Items: items})
	}
	return &c
}

// Category looks up a category by name.
func (c *Catalog) Category(name CategoryName) (*Category, error) {
	for i := range c.Categories {
		if c.Categories[i].Name == name {
			return &c.Categories[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, string(name))
}

// Key validates category and index against the catalog and returns the item key.
func (c *Catalog) Key(name CategoryName, index int) (ItemKey, error) {
	cat, err := c.Category(name)
	if err != nil {
		return "", err
	}
	if index < 0 || index >= len(cat.Items) {
		return "", fmt.Errorf("%w: %s index %d", ErrUnknownItem, name, index)
	}
	return NewItemKey(name, index), nil
}

// Contains reports whether the key names an item of this catalog.
func (c *Catalog) Contains(key ItemKey) bool {
	name, index, err := key.Parse()
	if err != nil {
		return false
	}
	_, err = c.Key(name, index)
	return err == nil
}

// TotalItems counts every item across categories.
func (c *Catalog) TotalItems() int {
	n := 0
	for _, cat := range c.Categories {
		n += len(cat.Items)
	}
	return n
}

// CompletedCount counts checked items that exist in the catalog. Stale keys are ignored.
func (c *Catalog) CompletedCount(m CompletionMap) int {
	n := 0
	for _, cat := range c.Categories {
		for i := range cat.Items {
			if m.Checked(NewItemKey(cat.Name, i)) {
				n++
			}
		}
	}
	return n
}
