// Package catalog maps canonical exercise names to the muscle groups they train.
package catalog

// Group is a muscle-group bucket and the exercise names that belong to it.
type Group struct {
	Name      string
	Exercises []string
}

// Catalog is an ordered, read-only set of muscle-group buckets.
// A Catalog is never mutated after New returns, so it is safe for concurrent use.
type Catalog struct {
	groups []Group
	index  map[string][]string
}

// New builds a Catalog from the given buckets. Bucket order is preserved and
// determines the order of tags returned by GroupsFor.
func New(groups ...Group) Catalog {
	c := Catalog{
		groups: make([]Group, 0, len(groups)),
		index:  make(map[string][]string),
	}
	for _, g := range groups {
		exercises := make([]string, len(g.Exercises))
		copy(exercises, g.Exercises)
		c.groups = append(c.groups, Group{Name: g.Name, Exercises: exercises})

		for _, exercise := range exercises {
			if contains(c.index[exercise], g.Name) {
				continue
			}
			c.index[exercise] = append(c.index[exercise], g.Name)
		}
	}
	return c
}

// Default returns the catalog shipped with the application.
func Default() Catalog {
	return New(
		Group{Name: "arm", Exercises: []string{"Bicep curl", "Tricep dip", "Hammer curl", "Cable tricep pushdown", "Parallel bar dip", "Concentration curl"}},
		Group{Name: "chest", Exercises: []string{"Bench press", "Chest fly", "Push-up", "Incline bench press", "Wide-grip push-up", "Cable chest fly"}},
		Group{Name: "thigh", Exercises: []string{"Squat", "Leg press", "Lunge", "Leg extension", "Romanian deadlift", "Hamstring curl"}},
		Group{Name: "calf", Exercises: []string{"Calf raise", "Seated calf raise", "Single-leg calf raise", "Standing calf raise on step", "Cable calf raise", "Jumping calf raise"}},
	)
}

// GroupsFor returns the names of the buckets containing exercise, in catalog
// order. Matching is exact and case-sensitive. The result is never nil.
func (c Catalog) GroupsFor(exercise string) []string {
	matches := c.index[exercise]
	out := make([]string, len(matches))
	copy(out, matches)
	return out
}

// Groups returns a copy of the catalog buckets.
func (c Catalog) Groups() []Group {
	out := make([]Group, 0, len(c.groups))
	for _, g := range c.groups {
		exercises := make([]string, len(g.Exercises))
		copy(exercises, g.Exercises)
		out = append(out, Group{Name: g.Name, Exercises: exercises})
	}
	return out
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
