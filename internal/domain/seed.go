package domain

// DefaultDailyWorkoutLimit caps workouts per user per calendar day.
const DefaultDailyWorkoutLimit = 2

// SeedSnapshot returns the fixed roster and activity catalog used to
// initialize an empty store. Callers get fresh slices on every call.
func SeedSnapshot() Snapshot {
	return Snapshot{
		Users: []User{
			{ID: "u-1", Name: "Juanmi", Username: "juanmi", Password: "g26"},
			{ID: "u-2", Name: "Adri", Username: "adri", Password: "g26"},
			{ID: "u-3", Name: "Joseluis", Username: "joseluis", Password: "g26"},
			{ID: "u-4", Name: "Josevi", Username: "josevi", Password: "g26"},
			{ID: "u-5", Name: "Pedro", Username: "pedro", Password: "g26"},
			{ID: "u-6", Name: "Franju", Username: "franju", Password: "admin", IsAdmin: true},
			{ID: "u-7", Name: "Sergio", Username: "sergio", Password: "g26"},
			{ID: "u-8", Name: "Joseca", Username: "joseca", Password: "g26"},
			{ID: "u-9", Name: "Juanma", Username: "juanma", Password: "g26"},
		},
		Activities: []Activity{
			{ID: "act-1", Name: "Crossfit", Points: 1.0},
			{ID: "act-2", Name: "Correr", Points: 1.0},
			{ID: "act-3", Name: "Musculación", Points: 1.0},
			{ID: "act-4", Name: "Bicicleta", Points: 1.0},
			{ID: "act-5", Name: "Pádel", Points: 0.25},
			{ID: "act-6", Name: "Baloncesto", Points: 0.25},
		},
		Workouts: []Workout{},
	}
}
