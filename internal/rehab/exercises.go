package rehab

type Exercise struct {
	Name string `json:"name"`
	Cue  string `json:"cue"`
}

type WarmupStretch struct {
	Name     string `json:"name"`
	Cue      string `json:"cue"`
	HoldSecs int    `json:"holdSecs"`
}

var exercisesByStage = map[Stage][]Exercise{
	StageA: {
		{Name: "Wall Squats", Cue: "Back flat, knees at 90°, breathe steady. Isometric hold"},
		{Name: "Spanish Squat", Cue: "Band behind knees, torso upright, hold the tension"},
		{Name: "Leg Extensions", Cue: "Heavy slow resistance, 3-5s down, full control"},
		{Name: "Quad Sets", Cue: "Towel under knee, press down for 5s, wake up the quad"},
		{Name: "Calf Raises", Cue: "Slow and controlled, full range of motion"},
	},
	StageB: {
		{Name: "Wall Squats", Cue: "Increase hold duration or add light load this phase"},
		{Name: "Split Squats", Cue: "95% weight on front leg, slow descent over 3-5s"},
		{Name: "Spanish Squat", Cue: "Increase band tension, aim for 70% max effort"},
		{Name: "Leg Extensions", Cue: "Heavy slow resistance, 3-5s eccentric, no momentum"},
		{Name: "Eccentric Heel Drops", Cue: "Lower slowly over 3 seconds, control the descent"},
	},
	StageC: {
		{Name: "Bulgarian Split Squat", Cue: "Rear foot elevated, 95% load on front leg, 3s down"},
		{Name: "Leg Press Hold", Cue: "Press through heel, engage quad. 45s isometric"},
		{Name: "Spanish Squat", Cue: "Full 45s holds at 70%+ MVC, push the load"},
		{Name: "Eccentric Heel Drops", Cue: "Single leg, 3s down, focus on control not speed"},
		{Name: "Leg Extensions HSR", Cue: "Heavy slow resistance. 3s up, 3s down, no bounce"},
	},
	StageM: {
		{Name: "Bulgarian Split Squat", Cue: "Progressive load, increase weight each session"},
		{Name: "Single-Leg Press", Cue: "Full range, slow eccentric, bulletproofing the tendon"},
		{Name: "Spanish Squat", Cue: "Max load you can hold for 45s, maintenance phase"},
		{Name: "Eccentric Heel Drops", Cue: "Add weight if bodyweight feels easy"},
		{Name: "Leg Extensions HSR", Cue: "Working sets, push to near failure on last set"},
	},
}

var warmupStretches = []WarmupStretch{
	{Name: "Hamstring Stretch", Cue: "Seated or standing toe reach, hold 30s", HoldSecs: 30},
	{Name: "Quad Stretch", Cue: "Stand, pull foot to glute, hold 30s each side", HoldSecs: 30},
	{Name: "Calf Stretch", Cue: "Lean against wall, heel flat on ground, 30s", HoldSecs: 30},
	{Name: "Quad Sets", Cue: "Lie back, towel under knee, press down. 5s holds x 10", HoldSecs: 30},
}

// ExercisesFor returns a copy of the stage's workout; unknown stages get Stage A's.
func ExercisesFor(stage Stage) []Exercise {
	list, ok := exercisesByStage[stage]
	if !ok {
		list = exercisesByStage[StageA]
	}
	return append([]Exercise(nil), list...)
}

func WarmupStretches() []WarmupStretch {
	return append([]WarmupStretch(nil), warmupStretches...)
}
